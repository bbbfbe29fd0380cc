//go:build !sdl2

package backend

// Software backend stub for when SDL2 is not available. The factory
// consults softwareAvailable and never constructs this, but the symbol
// must exist for default builds.

const softwareAvailable = false

func newSoftwareRenderer(cfg Config) Renderer {
	return nil
}
