//go:build vita

package backend

/*
#cgo CFLAGS: -I${VITASDK}/arm-vita-eabi/include
#cgo LDFLAGS: -lvita2d -lSceDisplay_stub -lSceGxm_stub -lSceSysmodule_stub -lSceCommonDialog_stub
#include <vita2d.h>
*/
import "C"

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/softframe/go-prism/prism/display"
)

const vitaAvailable = true

const (
	vitaScreenWidth  = 960
	vitaScreenHeight = 544
)

// vitaRenderer drives GXM directly through vita2d. The staging surface is
// a P8 palettized GXM texture: the index data and the 256-entry palette
// buffer are the hardware form of the two-texture lookup, so no CPU color
// expansion and no custom shader is needed.
//
// GXM owns the display queue for the life of the process. Initializing
// SDL video against the same display after GXM has started corrupts the
// GXM context, which is why this backend refuses runtime switching and
// why the manager tears down any other backend before Init runs.
type vitaRenderer struct {
	cfg     Config
	tex     *C.vita2d_texture
	staging []byte
	pitch   int
	ready   bool
}

func newVitaRenderer(cfg Config) Renderer {
	return &vitaRenderer{cfg: cfg}
}

func (v *vitaRenderer) Init() error {
	C.vita2d_init()

	tex := C.vita2d_create_empty_texture_format(
		C.uint(v.cfg.Width),
		C.uint(v.cfg.Height),
		C.SCE_GXM_TEXTURE_FORMAT_P8_ABGR,
	)
	if tex == nil {
		C.vita2d_fini()
		return fmt.Errorf("failed to allocate P8 texture %dx%d", v.cfg.Width, v.cfg.Height)
	}
	v.tex = tex
	v.pitch = int(C.vita2d_texture_get_stride(tex))
	v.staging = unsafe.Slice(
		(*byte)(C.vita2d_texture_get_datap(tex)),
		v.pitch*v.cfg.Height,
	)

	v.ready = true
	slog.Info("vita backend initialized", "width", v.cfg.Width, "height", v.cfg.Height, "stride", v.pitch)
	return nil
}

func (v *vitaRenderer) Shutdown() {
	if !v.ready {
		return
	}
	slog.Info("shutting down vita backend")
	// the texture may still be referenced by an in-flight scene
	C.vita2d_wait_rendering_done()
	v.staging = nil
	if v.tex != nil {
		C.vita2d_free_texture(v.tex)
		v.tex = nil
	}
	C.vita2d_fini()
	v.ready = false
}

func (v *vitaRenderer) BeginFrame() bool {
	return v.ready
}

func (v *vitaRenderer) EndFrame() {
	if !v.ready {
		return
	}

	// the P8 palette lives in GPU-visible memory; rewrite all 256 ABGR
	// entries since the source palette may have changed
	if v.cfg.Palette != nil {
		pal := (*[display.PaletteSize]uint32)(C.vita2d_texture_get_palette(v.tex))
		for i := 0; i < display.PaletteSize; i++ {
			r, g, b, a := v.cfg.Palette.RGBA(uint8(i))
			pal[i] = uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
		}
	}

	sx := C.float(vitaScreenWidth) / C.float(v.cfg.Width)
	sy := C.float(vitaScreenHeight) / C.float(v.cfg.Height)

	C.vita2d_start_drawing()
	C.vita2d_clear_screen()
	C.vita2d_draw_texture_scale(v.tex, 0, 0, sx, sy)
	C.vita2d_end_drawing()
	C.vita2d_swap_buffers()
}

func (v *vitaRenderer) LockFramebuffer() ([]byte, int) {
	if !v.ready {
		return nil, 0
	}
	return v.staging, v.pitch
}

// UnlockFramebuffer is a no-op: the texture data stays CPU-mapped between
// frames, vita2d_wait_rendering_done in Shutdown covers the final frame.
func (v *vitaRenderer) UnlockFramebuffer() {}

func (v *vitaRenderer) Name() string { return "vita" }

func (v *vitaRenderer) SupportsRuntimeSwitch() bool { return false }
