//go:build !sdl2

package backend

// OpenGL backend stub for when SDL2/GL is not available.

const openGLAvailable = false

func newOpenGLRenderer(cfg Config) Renderer {
	return nil
}
