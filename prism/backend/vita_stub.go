//go:build !vita

package backend

// Vita backend stub for non-Vita targets.

const vitaAvailable = false

func newVitaRenderer(cfg Config) Renderer {
	return nil
}
