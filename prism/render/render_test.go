package render

import (
	"errors"
	"testing"

	"github.com/softframe/go-prism/prism/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRenderer records lifecycle calls so switch/fallback policy can be
// verified without any display attached.
type fakeRenderer struct {
	name       string
	switchable bool
	initErr    error
	ready      bool
	inits      int
	shutdowns  int
	events     *[]string
	staging    []byte
}

func (f *fakeRenderer) Init() error {
	f.inits++
	if f.events != nil {
		*f.events = append(*f.events, "init "+f.name)
	}
	if f.initErr != nil {
		return f.initErr
	}
	f.ready = true
	f.staging = make([]byte, 64)
	return nil
}

func (f *fakeRenderer) Shutdown() {
	f.shutdowns++
	if f.events != nil {
		*f.events = append(*f.events, "shutdown "+f.name)
	}
	f.ready = false
	f.staging = nil
}

func (f *fakeRenderer) BeginFrame() bool { return f.ready }
func (f *fakeRenderer) EndFrame()        {}

func (f *fakeRenderer) LockFramebuffer() ([]byte, int) {
	if !f.ready {
		return nil, 0
	}
	return f.staging, 8
}

func (f *fakeRenderer) UnlockFramebuffer()          {}
func (f *fakeRenderer) Name() string                { return f.name }
func (f *fakeRenderer) SupportsRuntimeSwitch() bool { return f.switchable }

// fakeFactory hands out pre-built fakes per descriptor, erroring on
// anything unregistered.
func fakeFactory(fakes map[backend.Descriptor]*fakeRenderer) func(backend.Descriptor, backend.Config) (backend.Renderer, error) {
	return func(d backend.Descriptor, _ backend.Config) (backend.Renderer, error) {
		f, ok := fakes[d]
		if !ok {
			return nil, errors.New("not compiled in")
		}
		return f, nil
	}
}

func newTestManager(fakes map[backend.Descriptor]*fakeRenderer) *Manager {
	m := NewManager(backend.Config{Width: 8, Height: 8})
	m.newRenderer = fakeFactory(fakes)
	return m
}

func TestInitialize(t *testing.T) {
	t.Run("success activates the backend", func(t *testing.T) {
		sw := &fakeRenderer{name: "software", switchable: true}
		m := newTestManager(map[backend.Descriptor]*fakeRenderer{backend.Software: sw})

		require.NoError(t, m.Initialize(backend.Software))
		assert.Equal(t, backend.Software, m.ActiveType())
		assert.Equal(t, 1, sw.inits)
	})

	t.Run("failure leaves no active backend", func(t *testing.T) {
		gl := &fakeRenderer{name: "opengl", switchable: true, initErr: errors.New("no GPU context")}
		m := newTestManager(map[backend.Descriptor]*fakeRenderer{backend.OpenGL: gl})

		err := m.Initialize(backend.OpenGL)
		assert.Error(t, err)
		assert.Equal(t, backend.Invalid, m.ActiveType())
		// the partially-constructed instance was destroyed
		assert.Equal(t, 1, gl.shutdowns)
	})

	t.Run("unknown backend is rejected", func(t *testing.T) {
		m := newTestManager(map[backend.Descriptor]*fakeRenderer{})
		assert.Error(t, m.Initialize(backend.OpenGL))
		assert.Equal(t, backend.Invalid, m.ActiveType())
	})
}

func TestSwitchSameBackendIsNoOp(t *testing.T) {
	sw := &fakeRenderer{name: "software", switchable: true}
	m := newTestManager(map[backend.Descriptor]*fakeRenderer{backend.Software: sw})
	require.NoError(t, m.Initialize(backend.Software))

	require.NoError(t, m.Switch(backend.Software))

	// no teardown/rebuild occurred; object identity is unchanged
	assert.Equal(t, 1, sw.inits)
	assert.Equal(t, 0, sw.shutdowns)
	assert.Same(t, backend.Renderer(sw), m.active)
}

func TestSwitchRejectsNonSwitchableTarget(t *testing.T) {
	sw := &fakeRenderer{name: "software", switchable: true}
	vita := &fakeRenderer{name: "vita", switchable: false}
	m := newTestManager(map[backend.Descriptor]*fakeRenderer{
		backend.Software: sw,
		backend.Vita:     vita,
	})
	require.NoError(t, m.Initialize(backend.Software))

	err := m.Switch(backend.Vita)
	assert.Error(t, err)
	assert.Equal(t, 0, vita.inits)

	// the previous backend is untouched and still fully functional
	assert.Equal(t, backend.Software, m.ActiveType())
	assert.Equal(t, 0, sw.shutdowns)
	pix, pitch := m.LockFramebuffer()
	assert.NotNil(t, pix)
	assert.NotZero(t, pitch)
	m.UnlockFramebuffer()
}

func TestSwitchDestroysOldBeforeInitNew(t *testing.T) {
	var events []string
	sw := &fakeRenderer{name: "software", switchable: true, events: &events}
	gl := &fakeRenderer{name: "opengl", switchable: true, events: &events}
	m := newTestManager(map[backend.Descriptor]*fakeRenderer{
		backend.Software: sw,
		backend.OpenGL:   gl,
	})
	require.NoError(t, m.Initialize(backend.Software))

	require.NoError(t, m.Switch(backend.OpenGL))
	assert.Equal(t, backend.OpenGL, m.ActiveType())

	// exclusive display ownership: old teardown strictly precedes new init
	assert.Equal(t, []string{"init software", "shutdown software", "init opengl"}, events)
}

func TestSwitchFallsBackToSoftware(t *testing.T) {
	sw := &fakeRenderer{name: "software", switchable: true}
	gl := &fakeRenderer{name: "opengl", switchable: true, initErr: errors.New("no GPU context")}
	m := newTestManager(map[backend.Descriptor]*fakeRenderer{
		backend.Software: sw,
		backend.OpenGL:   gl,
	})
	require.NoError(t, m.Initialize(backend.Software))

	// fallback engaged: the switch reports success with software active
	require.NoError(t, m.Switch(backend.OpenGL))
	assert.Equal(t, backend.Software, m.ActiveType())

	assert.True(t, m.BeginFrame())
	pix, _ := m.LockFramebuffer()
	assert.NotNil(t, pix)
	m.UnlockFramebuffer()
	m.EndFrame()
}

func TestSwitchHardFailureWhenFallbackFails(t *testing.T) {
	boom := errors.New("display gone")
	sw := &fakeRenderer{name: "software", switchable: true}
	m := newTestManager(map[backend.Descriptor]*fakeRenderer{
		backend.Software: sw,
		backend.OpenGL:   &fakeRenderer{name: "opengl", switchable: true, initErr: boom},
	})
	require.NoError(t, m.Initialize(backend.Software))

	// once the old backend is down, make the software fallback fail too
	sw.initErr = boom

	err := m.Switch(backend.OpenGL)
	assert.Error(t, err)
	assert.Equal(t, backend.Invalid, m.ActiveType())
	pix, _ := m.LockFramebuffer()
	assert.Nil(t, pix)
}

func TestFacadeSafeDefaultsWithNoBackend(t *testing.T) {
	m := newTestManager(map[backend.Descriptor]*fakeRenderer{})

	assert.Equal(t, backend.Invalid, m.ActiveType())
	assert.False(t, m.BeginFrame())
	pix, pitch := m.LockFramebuffer()
	assert.Nil(t, pix)
	assert.Zero(t, pitch)
	m.UnlockFramebuffer()
	m.EndFrame()
	m.Shutdown()
}

func TestShutdownIsIdempotent(t *testing.T) {
	sw := &fakeRenderer{name: "software", switchable: true}
	m := newTestManager(map[backend.Descriptor]*fakeRenderer{backend.Software: sw})
	require.NoError(t, m.Initialize(backend.Software))

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, 1, sw.shutdowns)
	assert.Equal(t, backend.Invalid, m.ActiveType())
}

func TestInitializeWithHeadlessBackend(t *testing.T) {
	// end to end with a real backend: the headless renderer through the
	// manager facade
	m := NewManager(backend.Config{Width: 16, Height: 16})
	require.NoError(t, m.Initialize(backend.Headless))
	defer m.Shutdown()

	assert.Equal(t, backend.Headless, m.ActiveType())
	require.True(t, m.BeginFrame())
	pix, pitch := m.LockFramebuffer()
	require.NotNil(t, pix)
	assert.GreaterOrEqual(t, pitch, 16)
	pix[0] = 42
	m.UnlockFramebuffer()
	m.EndFrame()
}
