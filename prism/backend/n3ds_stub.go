//go:build !n3ds

package backend

// 3DS backend stub for non-3DS targets.

const n3dsAvailable = false

func newN3DSRenderer(cfg Config) Renderer {
	return nil
}
