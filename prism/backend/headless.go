package backend

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/softframe/go-prism/prism/debug"
	"github.com/softframe/go-prism/prism/video"
)

// HeadlessRenderer presents into an in-memory RGBA frame instead of a
// display. It runs the same staging-buffer/palette-resolve cycle as the
// GPU backends, which makes it the vehicle for batch runs, snapshot
// capture and automated tests. Always compiled in.
type HeadlessRenderer struct {
	cfg        Config
	staging    *video.Surface
	presented  *image.RGBA
	frameCount int
	ready      bool

	// MaxFrames, when positive, fires the OnQuit callback once that many
	// frames have been presented. Set before Init.
	MaxFrames int

	// Snapshots, when enabled, saves a PNG of the presented frame every
	// Interval frames. Set before Init.
	Snapshots SnapshotConfig
}

// SnapshotConfig holds configuration for frame snapshots.
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // save a snapshot every N frames
	Directory string // directory to save snapshots
	BaseName  string // base name for snapshot files
}

// NewHeadlessRenderer creates a new headless backend.
func NewHeadlessRenderer(cfg Config) *HeadlessRenderer {
	return &HeadlessRenderer{cfg: cfg}
}

func (h *HeadlessRenderer) Init() error {
	if h.cfg.Width <= 0 || h.cfg.Height <= 0 {
		return fmt.Errorf("invalid framebuffer size %dx%d", h.cfg.Width, h.cfg.Height)
	}
	h.staging = video.NewSurface(h.cfg.Width, h.cfg.Height)
	h.presented = image.NewRGBA(image.Rect(0, 0, h.cfg.Width, h.cfg.Height))
	h.frameCount = 0
	h.ready = true
	slog.Info("headless backend initialized",
		"width", h.cfg.Width, "height", h.cfg.Height,
		"max_frames", h.MaxFrames, "snapshot_interval", h.Snapshots.Interval)
	return nil
}

func (h *HeadlessRenderer) Shutdown() {
	if !h.ready {
		return
	}
	h.staging = nil
	h.presented = nil
	h.ready = false
}

func (h *HeadlessRenderer) BeginFrame() bool {
	return h.ready
}

func (h *HeadlessRenderer) EndFrame() {
	if !h.ready {
		return
	}

	pal := h.cfg.Palette
	if pal == nil {
		pal = &video.Palette{}
	}
	h.presented = video.ExpandToRGBA(h.staging.Pix(), h.staging.Pitch(), h.cfg.Width, h.cfg.Height, pal)
	h.frameCount++

	if h.Snapshots.Enabled && h.Snapshots.Interval > 0 && h.frameCount%h.Snapshots.Interval == 0 {
		name := fmt.Sprintf("%s_frame_%d", h.Snapshots.BaseName, h.frameCount)
		if err := debug.SaveFramePNGToDir(h.presented, name, h.Snapshots.Directory); err != nil {
			slog.Error("failed to save snapshot", "frame", h.frameCount, "error", err)
		}
	}

	if h.frameCount%10 == 0 {
		slog.Debug("frame progress", "completed", h.frameCount, "total", h.MaxFrames)
	}

	if h.MaxFrames > 0 && h.frameCount >= h.MaxFrames {
		slog.Info("headless run completed", "frames", h.frameCount)
		if h.cfg.Callbacks.OnQuit != nil {
			h.cfg.Callbacks.OnQuit()
		}
	}
}

func (h *HeadlessRenderer) LockFramebuffer() ([]byte, int) {
	if !h.ready {
		return nil, 0
	}
	return h.staging.Pix(), h.staging.Pitch()
}

// UnlockFramebuffer is a no-op: the staging buffer is plain memory.
func (h *HeadlessRenderer) UnlockFramebuffer() {}

func (h *HeadlessRenderer) Name() string { return "headless" }

func (h *HeadlessRenderer) SupportsRuntimeSwitch() bool { return true }

// Presented returns the RGBA frame produced by the last EndFrame, or nil
// if no frame has been presented. The CPU reference for what the GPU
// lookup paths display.
func (h *HeadlessRenderer) Presented() *image.RGBA {
	if !h.ready || h.frameCount == 0 {
		return nil
	}
	return h.presented
}

// FrameCount returns the number of frames presented since Init.
func (h *HeadlessRenderer) FrameCount() int { return h.frameCount }
