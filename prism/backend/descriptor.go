package backend

import (
	"fmt"
	"strings"
)

// Descriptor identifies a backend family. Auto is a request, never a
// state: it is resolved to a concrete descriptor exactly once and the
// resolved value is what the manager stores.
type Descriptor int

const (
	Invalid Descriptor = iota
	Auto
	Software // CPU blit onto the window surface
	OpenGL   // two-texture palette lookup on a GL context
	Vita     // native GXM display queue
	N3DS     // native 3DS display framebuffer
	Terminal // tcell cell rendering
	Headless // in-memory presentation, batch runs and tests
)

func (d Descriptor) String() string {
	switch d {
	case Auto:
		return "auto"
	case Software:
		return "software"
	case OpenGL:
		return "opengl"
	case Vita:
		return "vita"
	case N3DS:
		return "3ds"
	case Terminal:
		return "terminal"
	case Headless:
		return "headless"
	}
	return "invalid"
}

// Parse maps a user-facing backend name to a Descriptor. Unknown names
// map to Invalid.
func Parse(s string) Descriptor {
	switch strings.ToLower(s) {
	case "auto", "":
		return Auto
	case "software", "soft":
		return Software
	case "opengl", "gl":
		return OpenGL
	case "vita", "gxm":
		return Vita
	case "3ds", "n3ds":
		return N3DS
	case "terminal", "term":
		return Terminal
	case "headless":
		return Headless
	}
	return Invalid
}

// autoPreference is the resolution order for Auto: native console first,
// then desktop GPU, then CPU blit. Terminal and headless trail as
// universal last resorts so Auto always resolves. This is policy, not
// law; retargeted builds may reorder it.
var autoPreference = []Descriptor{Vita, N3DS, OpenGL, Software, Terminal, Headless}

// Available reports whether a backend family was compiled in for the
// current target.
func Available(d Descriptor) bool {
	switch d {
	case Software:
		return softwareAvailable
	case OpenGL:
		return openGLAvailable
	case Vita:
		return vitaAvailable
	case N3DS:
		return n3dsAvailable
	case Terminal, Headless:
		return true
	}
	return false
}

// Resolve turns Auto into the best compiled-in concrete descriptor.
// Concrete descriptors pass through unchanged; availability is checked
// by New, not here.
func Resolve(d Descriptor) Descriptor {
	if d != Auto {
		return d
	}
	for _, c := range autoPreference {
		if Available(c) {
			return c
		}
	}
	return Invalid
}

// New constructs the backend for a concrete descriptor. Auto must be
// resolved before it reaches the factory. Construction acquires nothing;
// resources are only acquired by Init.
func New(d Descriptor, cfg Config) (Renderer, error) {
	if d == Auto {
		return nil, fmt.Errorf("auto must be resolved before construction")
	}
	if !Available(d) {
		return nil, fmt.Errorf("backend %q not compiled in for this target", d)
	}
	switch d {
	case Software:
		return newSoftwareRenderer(cfg), nil
	case OpenGL:
		return newOpenGLRenderer(cfg), nil
	case Vita:
		return newVitaRenderer(cfg), nil
	case N3DS:
		return newN3DSRenderer(cfg), nil
	case Terminal:
		return NewTerminalRenderer(cfg), nil
	case Headless:
		return NewHeadlessRenderer(cfg), nil
	}
	return nil, fmt.Errorf("backend %q cannot be constructed directly", d)
}
