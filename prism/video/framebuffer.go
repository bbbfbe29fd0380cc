package video

import "image"

// Color is one palette entry holding 6-bit RGB components (0..63), the
// native width of the source palette data.
type Color struct {
	R, G, B uint8
}

// Expand widens the 6-bit components to 8-bit output. The mapping is a
// plain left shift, not a proportional rescale: 63 maps to 252. Backends
// must reproduce this exact mapping for visual parity with the CPU path.
func (c Color) Expand() (r, g, b uint8) {
	return c.R << 2, c.G << 2, c.B << 2
}

// Palette is a 256-entry color table. It is owned by the caller and may
// change between frames; backends read it once per EndFrame.
type Palette [256]Color

// RGBA returns entry i expanded to 8-bit components with full alpha.
func (p *Palette) RGBA(i uint8) (r, g, b, a uint8) {
	r, g, b = p[i].Expand()
	return r, g, b, 0xFF
}

// Surface is a row-major 8-bit-per-pixel paletted framebuffer. Each byte
// is an index into a Palette, resolved at presentation time.
type Surface struct {
	width  int
	height int
	pitch  int
	pix    []byte
}

// NewSurface creates a paletted surface with the specified size.
func NewSurface(width, height int) *Surface {
	return &Surface{
		width:  width,
		height: height,
		pitch:  width,
		pix:    make([]byte, width*height),
	}
}

func (s *Surface) Width() int  { return s.width }
func (s *Surface) Height() int { return s.height }

// Pitch is the distance between the start of consecutive rows, in bytes.
func (s *Surface) Pitch() int { return s.pitch }

// Pix exposes the raw index data. Rows are s.Pitch() bytes apart.
func (s *Surface) Pix() []byte { return s.pix }

func (s *Surface) Pixel(x, y int) uint8 {
	return s.pix[y*s.pitch+x]
}

func (s *Surface) SetPixel(x, y int, index uint8) {
	s.pix[y*s.pitch+x] = index
}

// ExpandToRGBA resolves a locked index buffer through a palette into an
// RGBA image. This is the CPU reference for what the GPU lookup paths
// must produce.
func ExpandToRGBA(pix []byte, pitch, width, height int, pal *Palette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := pix[y*pitch : y*pitch+width]
		dst := img.Pix[y*img.Stride:]
		for x, idx := range src {
			r, g, b, a := pal.RGBA(idx)
			dst[x*4] = r
			dst[x*4+1] = g
			dst[x*4+2] = b
			dst[x*4+3] = a
		}
	}
	return img
}
