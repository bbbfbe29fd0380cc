// Package render owns the single active presentation backend and drives
// its lifecycle. The Manager's methods are the only surface the software
// rasteriser and platform code call; they forward to whichever backend is
// active and return safe defaults when none is.
package render

import (
	"fmt"
	"log/slog"

	"github.com/softframe/go-prism/prism/backend"
)

// Manager holds at most one active backend. Display and GPU ownership is
// exclusive, so a replacement backend is never initialized before the
// previous one has fully shut down: some graphics stacks (the GXM/SDL
// window conflict) corrupt internal state if two presentation mechanisms
// ever attach to the same display.
//
// All methods are called from the single render-loop thread; there is no
// locking and none is needed.
type Manager struct {
	cfg    backend.Config
	active backend.Renderer
	desc   backend.Descriptor

	// factory indirection so switch/fallback policy is testable on fakes
	newRenderer func(backend.Descriptor, backend.Config) (backend.Renderer, error)
}

// NewManager creates a manager with no active backend.
func NewManager(cfg backend.Config) *Manager {
	return &Manager{
		cfg:         cfg,
		desc:        backend.Invalid,
		newRenderer: backend.New,
	}
}

// Initialize resolves the requested descriptor, constructs the backend
// and brings it up. On failure the partially-constructed instance is
// destroyed and no active backend is left set.
func (m *Manager) Initialize(requested backend.Descriptor) error {
	desc := backend.Resolve(requested)
	if desc == backend.Invalid {
		return fmt.Errorf("no backend available for request %q", requested)
	}

	r, err := m.newRenderer(desc, m.cfg)
	if err != nil {
		return err
	}
	if err := r.Init(); err != nil {
		r.Shutdown()
		return fmt.Errorf("failed to initialize %s backend: %w", r.Name(), err)
	}

	m.active = r
	m.desc = desc
	slog.Info("renderer active", "backend", r.Name())
	return nil
}

// Switch replaces the active backend at runtime. Switching to the
// descriptor that is already active is a successful no-op: working state
// is never torn down just to be rebuilt. If the new backend fails to
// initialize, a software backend is brought up as a guaranteed-available
// fallback and Switch still reports success; only the fallback itself
// failing produces a hard error, after which no backend is active.
func (m *Manager) Switch(requested backend.Descriptor) error {
	desc := backend.Resolve(requested)
	if desc == backend.Invalid {
		return fmt.Errorf("no backend available for request %q", requested)
	}
	if m.active != nil && desc == m.desc {
		return nil
	}

	next, err := m.newRenderer(desc, m.cfg)
	if err != nil {
		return err
	}
	if !next.SupportsRuntimeSwitch() {
		slog.Warn("runtime switch rejected", "backend", next.Name())
		return fmt.Errorf("%s backend does not support runtime switching", next.Name())
	}

	// exclusive display ownership: the old backend must be fully down
	// before the new one's Init touches the display
	if m.active != nil {
		m.active.Shutdown()
		m.active = nil
		m.desc = backend.Invalid
	}

	if err := next.Init(); err != nil {
		next.Shutdown()
		slog.Error("backend init failed during switch", "backend", next.Name(), "error", err)
		if desc == backend.Software {
			return fmt.Errorf("failed to initialize %s backend: %w", next.Name(), err)
		}
		return m.fallback(err)
	}

	m.active = next
	m.desc = desc
	slog.Info("renderer switched", "backend", next.Name())
	return nil
}

func (m *Manager) fallback(cause error) error {
	fb, err := m.newRenderer(backend.Software, m.cfg)
	if err != nil {
		return fmt.Errorf("switch failed (%v) and no software fallback: %w", cause, err)
	}
	if err := fb.Init(); err != nil {
		fb.Shutdown()
		return fmt.Errorf("switch failed (%v) and software fallback failed: %w", cause, err)
	}
	m.active = fb
	m.desc = backend.Software
	slog.Info("fell back to software renderer")
	return nil
}

// Shutdown tears down the active backend, if any. Safe to call with
// nothing active and safe to call twice.
func (m *Manager) Shutdown() {
	if m.active == nil {
		return
	}
	m.active.Shutdown()
	m.active = nil
	m.desc = backend.Invalid
}

// ActiveType returns the resolved descriptor of the active backend, or
// Invalid when none is active.
func (m *Manager) ActiveType() backend.Descriptor {
	return m.desc
}

// LockFramebuffer forwards to the active backend; nil when none is active.
func (m *Manager) LockFramebuffer() ([]byte, int) {
	if m.active == nil {
		return nil, 0
	}
	return m.active.LockFramebuffer()
}

// UnlockFramebuffer forwards to the active backend.
func (m *Manager) UnlockFramebuffer() {
	if m.active != nil {
		m.active.UnlockFramebuffer()
	}
}

// BeginFrame forwards to the active backend; false when none is active.
func (m *Manager) BeginFrame() bool {
	if m.active == nil {
		return false
	}
	return m.active.BeginFrame()
}

// EndFrame forwards to the active backend.
func (m *Manager) EndFrame() {
	if m.active != nil {
		m.active.EndFrame()
	}
}
