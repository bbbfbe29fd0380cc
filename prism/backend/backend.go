package backend

import (
	"github.com/softframe/go-prism/prism/video"
)

// Renderer is the contract every presentation backend satisfies.
// Backends own their display resources exclusively: GPU handles, staging
// buffers and (where applicable) the window or display queue. All calls
// happen on the single render-loop thread.
type Renderer interface {
	// Init acquires every display/GPU resource needed for presentation.
	// On failure all partial acquisitions are released before the error
	// is returned. Calling Init twice without Shutdown is a caller error.
	Init() error

	// Shutdown releases everything Init acquired, in reverse order of
	// acquisition. Safe after a failed Init and safe to call twice.
	Shutdown()

	// BeginFrame marks the start of a frame. Returns false if the frame
	// must be skipped, e.g. the surface is temporarily unavailable. No
	// upload or draw work happens here beyond state reset.
	BeginFrame() bool

	// EndFrame performs all presentation work for the frame: the palette
	// is re-read and uploaded (it may have changed), the index buffer is
	// uploaded, drawn and presented. Any vsync wait happens here and
	// blocks the caller; that stall is deliberate.
	EndFrame()

	// LockFramebuffer returns a writable view of the paletted staging
	// surface and its row pitch in bytes. Returns nil before Init or
	// after Shutdown. The view is only valid until UnlockFramebuffer.
	LockFramebuffer() ([]byte, int)

	// UnlockFramebuffer releases the lock. For backends whose staging
	// buffer stays valid between locks this is a no-op.
	UnlockFramebuffer()

	// Name is a stable human-readable identity for diagnostics.
	Name() string

	// SupportsRuntimeSwitch reports whether this backend can be torn down
	// and replaced without a process restart. False for backends that
	// bind exclusively to console display hardware at startup.
	SupportsRuntimeSwitch() bool
}

// Config holds configuration shared by all backends. It is read once
// before Init; only the palette is re-read, once per EndFrame.
type Config struct {
	Title  string
	Width  int // logical framebuffer width in pixels
	Height int // logical framebuffer height in pixels
	Scale  int // integer scale from framebuffer to output
	VSync  bool

	// Palette is owned by the caller and may change between frames.
	Palette *video.Palette

	Callbacks Callbacks
}

// Callbacks allows backends to communicate with the frame loop.
type Callbacks struct {
	// OnQuit is invoked when the backend requests shutdown, e.g. the
	// window was closed. Optional.
	OnQuit func()
}

func (c Config) windowSize() (int, int) {
	scale := c.Scale
	if scale < 1 {
		scale = 1
	}
	return c.Width * scale, c.Height * scale
}
