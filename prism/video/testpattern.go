package video

// Test patterns are the stand-in for the external rasteriser: they write
// palette indices into a locked framebuffer view, never colors. Useful
// for verifying a backend's palette pipeline without the real renderer.

const (
	// TestPatternCount is the number of available test patterns
	TestPatternCount = 4
	// testPatternTileSize is the size of tiles for checkerboard and diagonal patterns
	testPatternTileSize = 8
	// testPatternStripeWidth is the width of stripes in the stripe pattern
	testPatternStripeWidth = 4
	// testPatternStripeSpeed is the animation speed for stripe patterns
	testPatternStripeSpeed = 2
	// testPatternDiagonalSpeed is the animation speed for diagonal patterns
	testPatternDiagonalSpeed = 4
)

// TestPatternPalette builds a palette that makes every index visually
// distinct: a 6-bit grayscale ramp with the component mix varied per
// quadrant so palette cycling is obvious on screen.
func TestPatternPalette() Palette {
	var p Palette
	for i := 0; i < 256; i++ {
		v := uint8(i >> 2) // 0..63
		switch i >> 6 {
		case 0:
			p[i] = Color{R: v, G: v, B: v}
		case 1:
			p[i] = Color{R: 63, G: v, B: v}
		case 2:
			p[i] = Color{R: v, G: 63, B: v}
		default:
			p[i] = Color{R: v, G: v, B: 63}
		}
	}
	return p
}

// RotatePalette shifts entries 1..255 by one position, leaving entry 0
// alone. Called once per frame it exercises the per-frame palette upload
// every backend is required to perform.
func RotatePalette(p *Palette) {
	last := p[255]
	copy(p[2:], p[1:255])
	p[1] = last
}

// DrawTestPattern writes pattern frame number frame into a locked view.
// The view is pitch bytes per row and width*height pixels, exactly what
// LockFramebuffer hands out.
func DrawTestPattern(pix []byte, pitch, width, height, pattern, frame int) {
	for y := 0; y < height; y++ {
		row := pix[y*pitch : y*pitch+width]
		for x := 0; x < width; x++ {
			var index uint8
			switch pattern {
			case 0: // Checkerboard
				if ((x/testPatternTileSize)+(y/testPatternTileSize))%2 == 0 {
					index = 255
				} else {
					index = 0
				}
			case 1: // Horizontal gradient across the full palette
				index = uint8(x * 256 / width)
			case 2: // Animated vertical stripes
				if ((x+frame*testPatternStripeSpeed)/testPatternStripeWidth)%2 == 0 {
					index = 255
				} else {
					index = 128
				}
			case 3: // Animated diagonal lines
				if ((x+y+frame*testPatternDiagonalSpeed)/testPatternTileSize)%2 == 0 {
					index = 192
				} else {
					index = 64
				}
			}
			row[x] = index
		}
	}
}
