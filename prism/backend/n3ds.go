//go:build n3ds

package backend

/*
#cgo CFLAGS: -I${DEVKITPRO}/libctru/include -D__3DS__
#cgo LDFLAGS: -L${DEVKITPRO}/libctru/lib -lctru
#include <3ds.h>
*/
import "C"

import (
	"log/slog"
	"unsafe"

	"github.com/softframe/go-prism/prism/display"
)

const n3dsAvailable = true

const (
	n3dsScreenWidth  = 400
	n3dsScreenHeight = 240
)

// n3dsRenderer presents through the 3DS display framebuffer. The PICA200
// has no dependent texture reads, so the palette resolve happens in a
// per-frame 256-entry expanded LUT applied while copying indices into the
// CPU-visible framebuffer that gfxSwapBuffers flips. The LUT carries the
// same <<2 component expansion as the GPU lookup paths.
//
// The backend claims the GSP display service for the whole process, so
// runtime switching is refused.
type n3dsRenderer struct {
	cfg     Config
	staging []byte
	lut     [display.PaletteSize][3]uint8
	ready   bool
}

func newN3DSRenderer(cfg Config) Renderer {
	return &n3dsRenderer{cfg: cfg}
}

func (n *n3dsRenderer) Init() error {
	C.gfxInitDefault()
	C.gfxSetScreenFormat(C.GFX_TOP, C.GSP_BGR8_OES)
	C.gfxSetDoubleBuffering(C.GFX_TOP, C.bool(true))

	n.staging = make([]byte, n.cfg.Width*n.cfg.Height)
	n.ready = true
	slog.Info("3ds backend initialized", "width", n.cfg.Width, "height", n.cfg.Height)
	return nil
}

func (n *n3dsRenderer) Shutdown() {
	if !n.ready {
		return
	}
	slog.Info("shutting down 3ds backend")
	n.staging = nil
	C.gfxExit()
	n.ready = false
}

func (n *n3dsRenderer) BeginFrame() bool {
	if !n.ready {
		return false
	}
	return bool(C.aptMainLoop())
}

func (n *n3dsRenderer) EndFrame() {
	if !n.ready {
		return
	}

	if n.cfg.Palette != nil {
		for i := 0; i < display.PaletteSize; i++ {
			r, g, b, _ := n.cfg.Palette.RGBA(uint8(i))
			n.lut[i] = [3]uint8{r, g, b}
		}
	}

	var fbw, fbh C.u16
	fbp := C.gfxGetFramebuffer(C.GFX_TOP, C.GFX_LEFT, &fbw, &fbh)
	fb := unsafe.Slice((*byte)(fbp), int(fbw)*int(fbh)*3)

	// the 3DS framebuffer is rotated 90 degrees: columns of the logical
	// image become rows of the physical buffer
	width := n.cfg.Width
	height := n.cfg.Height
	if width > n3dsScreenWidth {
		width = n3dsScreenWidth
	}
	if height > n3dsScreenHeight {
		height = n3dsScreenHeight
	}
	stride := int(fbw) // bytes-per-column count in pixels
	for y := 0; y < height; y++ {
		row := n.staging[y*n.cfg.Width:]
		for x := 0; x < width; x++ {
			c := n.lut[row[x]]
			dst := (x*stride + (stride - 1 - y)) * 3
			fb[dst] = c[2]
			fb[dst+1] = c[1]
			fb[dst+2] = c[0]
		}
	}

	C.gfxFlushBuffers()
	C.gfxSwapBuffers()
	if n.cfg.VSync {
		C.gspWaitForVBlank()
	}
}

func (n *n3dsRenderer) LockFramebuffer() ([]byte, int) {
	if !n.ready {
		return nil, 0
	}
	return n.staging, n.cfg.Width
}

// UnlockFramebuffer is a no-op: the staging buffer is plain memory.
func (n *n3dsRenderer) UnlockFramebuffer() {}

func (n *n3dsRenderer) Name() string { return "3ds" }

func (n *n3dsRenderer) SupportsRuntimeSwitch() bool { return false }
