//go:build sdl2

package backend

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-gl/gl/v3.2-core/gl"
	"github.com/softframe/go-prism/prism/display"
	"github.com/veandco/go-sdl2/sdl"
)

const openGLAvailable = true

// Two-texture palette lookup. The index texture is a single-channel R8
// texture the size of the logical framebuffer; the palette texture is
// 256x1 RGBA. The fragment shader turns the sampled index back into a
// texel coordinate and samples the palette, so the 256-entry lookup
// happens once per output pixel on the GPU and the CPU never expands
// colors. On console targets that expose a GL context this same path is
// the fallback for the native backend.
const paletteVertexShader = `#version 150
in vec2 Position;
in vec2 UV;
out vec2 fragUV;
void main()
{
	fragUV = UV;
	gl_Position = vec4(Position, 0.0, 1.0);
}
` + "\x00"

const paletteFragmentShader = `#version 150
uniform sampler2D Index;
uniform sampler2D Palette;
in vec2 fragUV;
out vec4 outColor;
void main()
{
	float idx = texture(Index, fragUV).r;
	float coord = (idx * 255.0 + 0.5) / 256.0;
	outColor = texture(Palette, vec2(coord, 0.5));
}
` + "\x00"

type openGLRenderer struct {
	cfg    Config
	window *sdl.Window
	glctx  sdl.GLContext

	program    uint32
	vao        uint32
	vbo        uint32
	indexTex   uint32
	paletteTex uint32

	staging    []byte
	paletteBuf [display.PaletteSize * display.RGBABytesPerPixel]byte
	ready      bool
}

func newOpenGLRenderer(cfg Config) Renderer {
	return &openGLRenderer{cfg: cfg}
}

func (o *openGLRenderer) Init() error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %v", err)
	}

	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 2)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)

	w, h := o.cfg.windowSize()
	window, err := sdl.CreateWindow(
		o.cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(w),
		int32(h),
		sdl.WINDOW_OPENGL|sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %v", err)
	}

	glctx, err := window.GLCreateContext()
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create GL context: %v", err)
	}

	if err := gl.Init(); err != nil {
		sdl.GLDeleteContext(glctx)
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to load GL functions: %v", err)
	}

	if o.cfg.VSync {
		sdl.GLSetSwapInterval(1)
	} else {
		sdl.GLSetSwapInterval(0)
	}

	o.window = window
	o.glctx = glctx

	if err := o.createProgram(); err != nil {
		o.releaseGL()
		return err
	}
	o.createQuad()
	o.createTextures()

	o.staging = make([]byte, o.cfg.Width*o.cfg.Height)
	o.ready = true
	slog.Info("opengl backend initialized", "version", gl.GoStr(gl.GetString(gl.VERSION)))
	return nil
}

// createProgram compiles and links the palette-lookup shader program.
func (o *openGLRenderer) createProgram() error {
	compile := func(kind uint32, src string) (uint32, error) {
		handle := gl.CreateShader(kind)
		csrc, free := gl.Strs(src)
		gl.ShaderSource(handle, 1, csrc, nil)
		free()
		gl.CompileShader(handle)

		var status int32
		gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
		if status == gl.FALSE {
			var logLen int32
			gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &logLen)
			log := strings.Repeat("\x00", int(logLen+1))
			gl.GetShaderInfoLog(handle, logLen, nil, gl.Str(log))
			gl.DeleteShader(handle)
			return 0, fmt.Errorf("shader compile failed: %v", log)
		}
		return handle, nil
	}

	vert, err := compile(gl.VERTEX_SHADER, paletteVertexShader)
	if err != nil {
		return err
	}
	frag, err := compile(gl.FRAGMENT_SHADER, paletteFragmentShader)
	if err != nil {
		gl.DeleteShader(vert)
		return err
	}

	o.program = gl.CreateProgram()
	gl.AttachShader(o.program, vert)
	gl.AttachShader(o.program, frag)
	gl.LinkProgram(o.program)

	// shader objects are no longer needed once the program has linked
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(o.program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		gl.DeleteProgram(o.program)
		o.program = 0
		return fmt.Errorf("shader program link failed")
	}

	gl.UseProgram(o.program)
	gl.Uniform1i(gl.GetUniformLocation(o.program, gl.Str("Index\x00")), 0)
	gl.Uniform1i(gl.GetUniformLocation(o.program, gl.Str("Palette\x00")), 1)
	return nil
}

// createQuad sets up a fullscreen triangle strip with position and UV
// attributes. UV y is flipped so row 0 of the staging buffer lands at
// the top of the window.
func (o *openGLRenderer) createQuad() {
	verts := []float32{
		// x, y, u, v
		-1, -1, 0, 1,
		1, -1, 1, 1,
		-1, 1, 0, 0,
		1, 1, 1, 0,
	}

	gl.GenVertexArrays(1, &o.vao)
	gl.BindVertexArray(o.vao)
	gl.GenBuffers(1, &o.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)

	pos := uint32(gl.GetAttribLocation(o.program, gl.Str("Position\x00")))
	uv := uint32(gl.GetAttribLocation(o.program, gl.Str("UV\x00")))
	gl.EnableVertexAttribArray(pos)
	gl.EnableVertexAttribArray(uv)
	gl.VertexAttribPointerWithOffset(pos, 2, gl.FLOAT, false, 4*4, 0)
	gl.VertexAttribPointerWithOffset(uv, 2, gl.FLOAT, false, 4*4, 2*4)
}

func (o *openGLRenderer) createTextures() {
	// index rows are tightly packed bytes, not 4-byte aligned
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	gl.GenTextures(1, &o.indexTex)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, o.indexTex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8,
		int32(o.cfg.Width), int32(o.cfg.Height), 0,
		gl.RED, gl.UNSIGNED_BYTE, nil)

	gl.GenTextures(1, &o.paletteTex)
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, o.paletteTex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, 256, 1, 0,
		gl.RGBA, gl.UNSIGNED_BYTE, nil)
}

func (o *openGLRenderer) releaseGL() {
	if o.paletteTex != 0 {
		gl.DeleteTextures(1, &o.paletteTex)
		o.paletteTex = 0
	}
	if o.indexTex != 0 {
		gl.DeleteTextures(1, &o.indexTex)
		o.indexTex = 0
	}
	if o.vbo != 0 {
		gl.DeleteBuffers(1, &o.vbo)
		o.vbo = 0
	}
	if o.vao != 0 {
		gl.DeleteVertexArrays(1, &o.vao)
		o.vao = 0
	}
	if o.program != 0 {
		gl.DeleteProgram(o.program)
		o.program = 0
	}
	if o.glctx != nil {
		sdl.GLDeleteContext(o.glctx)
		o.glctx = nil
	}
	if o.window != nil {
		o.window.Destroy()
		o.window = nil
	}
	sdl.Quit()
}

func (o *openGLRenderer) Shutdown() {
	if !o.ready && o.window == nil {
		return
	}
	slog.Info("shutting down opengl backend")
	o.releaseGL()
	o.staging = nil
	o.ready = false
}

func (o *openGLRenderer) BeginFrame() bool {
	if !o.ready {
		return false
	}
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if _, ok := event.(*sdl.QuitEvent); ok {
			if o.cfg.Callbacks.OnQuit != nil {
				o.cfg.Callbacks.OnQuit()
			}
		}
	}
	return true
}

func (o *openGLRenderer) EndFrame() {
	if !o.ready {
		return
	}

	// palette first: 1KB upload, re-done every frame since the table may
	// have changed
	if o.cfg.Palette != nil {
		for i := 0; i < display.PaletteSize; i++ {
			r, g, b, a := o.cfg.Palette.RGBA(uint8(i))
			o.paletteBuf[i*4] = r
			o.paletteBuf[i*4+1] = g
			o.paletteBuf[i*4+2] = b
			o.paletteBuf[i*4+3] = a
		}
	}
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, o.paletteTex)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, 256, 1,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&o.paletteBuf[0]))

	// index buffer: one contiguous byte copy
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, o.indexTex)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0,
		int32(o.cfg.Width), int32(o.cfg.Height),
		gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(&o.staging[0]))

	dw, dh := o.window.GLGetDrawableSize()
	gl.Viewport(0, 0, dw, dh)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(o.program)
	gl.BindVertexArray(o.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)

	o.window.GLSwap()
}

func (o *openGLRenderer) LockFramebuffer() ([]byte, int) {
	if !o.ready {
		return nil, 0
	}
	return o.staging, o.cfg.Width
}

// UnlockFramebuffer is a no-op: the staging buffer is plain memory and
// stays valid until the next lock.
func (o *openGLRenderer) UnlockFramebuffer() {}

func (o *openGLRenderer) Name() string { return "opengl" }

func (o *openGLRenderer) SupportsRuntimeSwitch() bool { return true }
