package display

// Logical framebuffer constants
const (
	// DefaultWidth is the default logical framebuffer width in pixels
	DefaultWidth = 320
	// DefaultHeight is the default logical framebuffer height in pixels
	DefaultHeight = 240
	// DefaultScale is the default scaling factor from framebuffer to window
	DefaultScale = 2
)

// Palette constants
const (
	// PaletteSize is the number of entries in a palette
	PaletteSize = 256
	// RGBABytesPerPixel is the number of bytes per pixel in RGBA format
	RGBABytesPerPixel = 4
)
