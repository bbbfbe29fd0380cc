package video_test

import (
	"testing"

	"github.com/softframe/go-prism/prism/video"
	"github.com/stretchr/testify/assert"
)

func TestColorExpand(t *testing.T) {
	// component expansion is a left shift, never a proportional rescale
	cases := []struct {
		in       uint8
		expected uint8
	}{
		{0, 0},
		{1, 4},
		{16, 64},
		{32, 128},
		{63, 252},
	}
	for _, c := range cases {
		r, g, b := video.Color{R: c.in, G: c.in, B: c.in}.Expand()
		assert.Equal(t, c.expected, r)
		assert.Equal(t, c.expected, g)
		assert.Equal(t, c.expected, b)
	}
}

func TestPaletteRGBA(t *testing.T) {
	var p video.Palette
	p[42] = video.Color{R: 10, G: 20, B: 30}

	r, g, b, a := p.RGBA(42)
	assert.Equal(t, uint8(40), r)
	assert.Equal(t, uint8(80), g)
	assert.Equal(t, uint8(120), b)
	assert.Equal(t, uint8(255), a)
}

func TestSurface(t *testing.T) {
	s := video.NewSurface(320, 240)

	assert.Equal(t, 320, s.Width())
	assert.Equal(t, 240, s.Height())
	assert.GreaterOrEqual(t, s.Pitch(), s.Width())
	assert.Len(t, s.Pix(), s.Pitch()*s.Height())

	s.SetPixel(10, 20, 99)
	assert.Equal(t, uint8(99), s.Pixel(10, 20))
	assert.Equal(t, uint8(99), s.Pix()[20*s.Pitch()+10])
}

func TestExpandToRGBA(t *testing.T) {
	var p video.Palette
	p[7] = video.Color{R: 63, G: 0, B: 31}

	pix := make([]byte, 4*2)
	pix[1*4+2] = 7 // x=2, y=1

	img := video.ExpandToRGBA(pix, 4, 4, 2, &p)

	r, g, b, a := img.At(2, 1).RGBA()
	assert.Equal(t, uint32(252), r>>8)
	assert.Equal(t, uint32(0), g>>8)
	assert.Equal(t, uint32(124), b>>8)
	assert.Equal(t, uint32(255), a>>8)

	// untouched pixels resolve through entry 0
	r, g, b, _ = img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), r>>8)
	assert.Equal(t, uint32(0), g>>8)
	assert.Equal(t, uint32(0), b>>8)
}

func TestExpandToRGBARespectsPitch(t *testing.T) {
	var p video.Palette
	p[1] = video.Color{R: 63, G: 63, B: 63}

	// 2x2 image with a pitch of 5: the padding byte must not leak in
	pix := []byte{1, 0, 0, 0, 9, 0, 1, 0, 0, 9}
	img := video.ExpandToRGBA(pix, 5, 2, 2, &p)

	r, _, _, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(252), r>>8)
	r, _, _, _ = img.At(1, 1).RGBA()
	assert.Equal(t, uint32(252), r>>8)
	r, _, _, _ = img.At(0, 1).RGBA()
	assert.Equal(t, uint32(0), r>>8)
}

func TestDrawTestPatternStaysInBounds(t *testing.T) {
	for pattern := 0; pattern < video.TestPatternCount; pattern++ {
		pix := make([]byte, 5*64*48)
		video.DrawTestPattern(pix[:64*48], 64, 64, 48, pattern, 0)
		video.DrawTestPattern(pix[:64*48], 64, 64, 48, pattern, 33)

		// nothing written past the frame
		for i := 64 * 48; i < len(pix); i++ {
			assert.Zero(t, pix[i], "pattern %d wrote out of bounds", pattern)
		}
	}
}

func TestRotatePalette(t *testing.T) {
	p := video.TestPatternPalette()
	entry0 := p[0]
	entry1 := p[1]

	video.RotatePalette(&p)

	// entry 0 is fixed, the rest shift by one
	assert.Equal(t, entry0, p[0])
	assert.Equal(t, entry1, p[2])
}
