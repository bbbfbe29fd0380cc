package debug_test

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/softframe/go-prism/prism/debug"
	"github.com/softframe/go-prism/prism/video"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveIndexedPNGToDir(t *testing.T) {
	dir := t.TempDir()

	var pal video.Palette
	pal[5] = video.Color{R: 63, G: 63, B: 63}
	pix := make([]byte, 8*8)
	pix[0] = 5

	err := debug.SaveIndexedPNGToDir(pix, 8, 8, 8, &pal, "frame", dir)
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(dir, "frame_*.png"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	f, err := os.Open(matches[0])
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())

	r, _, _, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(252), r>>8)
}

func TestSaveFramePNGToDirNilFrame(t *testing.T) {
	err := debug.SaveFramePNGToDir(nil, "frame", t.TempDir())
	assert.Error(t, err)
}
