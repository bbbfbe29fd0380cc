//go:build sdl2

package backend

import (
	"fmt"
	"log/slog"

	"github.com/softframe/go-prism/prism/display"
	"github.com/veandco/go-sdl2/sdl"
)

const softwareAvailable = true

// softwareRenderer is the CPU-blit backend: the staging surface is a true
// SDL INDEX8 surface and presentation is a scaled blit straight onto the
// window surface. SDL inserts a format-conversion intermediate when the
// window surface depth differs, so there is no texture or shader state
// here at all.
//
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stubbed backend, see build tags (sdl2)
type softwareRenderer struct {
	cfg     Config
	window  *sdl.Window
	staging *sdl.Surface
	palette *sdl.Palette
	locked  bool
	ready   bool
}

func newSoftwareRenderer(cfg Config) Renderer {
	return &softwareRenderer{cfg: cfg}
}

func (s *softwareRenderer) Init() error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %v", err)
	}

	w, h := s.cfg.windowSize()
	window, err := sdl.CreateWindow(
		s.cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(w),
		int32(h),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %v", err)
	}

	staging, err := sdl.CreateRGBSurfaceWithFormat(
		0,
		int32(s.cfg.Width),
		int32(s.cfg.Height),
		8,
		sdl.PIXELFORMAT_INDEX8,
	)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create staging surface: %v", err)
	}

	palette, err := sdl.AllocPalette(display.PaletteSize)
	if err != nil {
		staging.Free()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to allocate palette: %v", err)
	}
	if err := staging.SetPalette(palette); err != nil {
		palette.Free()
		staging.Free()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to attach palette: %v", err)
	}

	// struct fields are assigned only once the whole acquisition has
	// succeeded, so Shutdown on a failed instance has nothing stale to
	// free a second time
	s.window = window
	s.staging = staging
	s.palette = palette
	s.ready = true
	slog.Info("software backend initialized", "width", s.cfg.Width, "height", s.cfg.Height, "scale", s.cfg.Scale)
	return nil
}

func (s *softwareRenderer) Shutdown() {
	if !s.ready {
		return
	}
	slog.Info("shutting down software backend")
	if s.palette != nil {
		s.palette.Free()
		s.palette = nil
	}
	if s.staging != nil {
		s.staging.Free()
		s.staging = nil
	}
	if s.window != nil {
		s.window.Destroy()
		s.window = nil
	}
	sdl.Quit()
	s.ready = false
}

func (s *softwareRenderer) BeginFrame() bool {
	if !s.ready {
		return false
	}
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if _, ok := event.(*sdl.QuitEvent); ok {
			if s.cfg.Callbacks.OnQuit != nil {
				s.cfg.Callbacks.OnQuit()
			}
		}
	}
	return true
}

func (s *softwareRenderer) EndFrame() {
	if !s.ready {
		return
	}

	// The palette may have changed since the last frame; re-resolving 256
	// entries is cheap so it is done unconditionally.
	if s.cfg.Palette != nil {
		var colors [display.PaletteSize]sdl.Color
		for i := range colors {
			r, g, b, a := s.cfg.Palette.RGBA(uint8(i))
			colors[i] = sdl.Color{R: r, G: g, B: b, A: a}
		}
		s.palette.SetColors(colors[:])
	}

	ws, err := s.window.GetSurface()
	if err != nil {
		slog.Error("window surface unavailable", "error", err)
		return
	}
	if err := s.staging.BlitScaled(nil, ws, nil); err != nil {
		slog.Error("blit failed", "error", err)
		return
	}
	s.window.UpdateSurface()
}

func (s *softwareRenderer) LockFramebuffer() ([]byte, int) {
	if !s.ready {
		return nil, 0
	}
	if err := s.staging.Lock(); err != nil {
		return nil, 0
	}
	s.locked = true
	return s.staging.Pixels(), int(s.staging.Pitch)
}

func (s *softwareRenderer) UnlockFramebuffer() {
	if s.locked {
		s.staging.Unlock()
		s.locked = false
	}
}

func (s *softwareRenderer) Name() string { return "software" }

func (s *softwareRenderer) SupportsRuntimeSwitch() bool { return true }
