package backend

import (
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/softframe/go-prism/prism/display"
	"github.com/softframe/go-prism/prism/video"
)

// newScreen is swapped for a tcell simulation screen in tests.
var newScreen = tcell.NewScreen

// TerminalRenderer presents the paletted framebuffer as terminal cells
// using tcell. Each cell is a half-block rune whose foreground carries
// the top pixel row and background the bottom row, so one cell covers
// two framebuffer rows. The palette is resolved to 24-bit tcell colors
// once per frame. Always compiled in; useful over SSH and as a sanity
// check when no display is attached.
type TerminalRenderer struct {
	cfg     Config
	screen  tcell.Screen
	staging *video.Surface
	colors  [display.PaletteSize]tcell.Color
	ready   bool
}

// NewTerminalRenderer creates a new terminal backend.
func NewTerminalRenderer(cfg Config) *TerminalRenderer {
	return &TerminalRenderer{cfg: cfg}
}

func (t *TerminalRenderer) Init() error {
	screen, err := newScreen()
	if err != nil {
		return fmt.Errorf("failed to create terminal screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	t.screen = screen

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	t.staging = video.NewSurface(t.cfg.Width, t.cfg.Height)
	t.ready = true
	slog.Info("terminal backend initialized", "width", t.cfg.Width, "height", t.cfg.Height)
	return nil
}

func (t *TerminalRenderer) Shutdown() {
	if !t.ready {
		return
	}
	t.screen.Fini()
	t.screen = nil
	t.staging = nil
	t.ready = false
}

func (t *TerminalRenderer) BeginFrame() bool {
	if !t.ready {
		return false
	}
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				if t.cfg.Callbacks.OnQuit != nil {
					t.cfg.Callbacks.OnQuit()
				}
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
	return true
}

func (t *TerminalRenderer) EndFrame() {
	if !t.ready {
		return
	}

	if t.cfg.Palette != nil {
		for i := 0; i < display.PaletteSize; i++ {
			r, g, b, _ := t.cfg.Palette.RGBA(uint8(i))
			t.colors[i] = tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
	}

	width := t.cfg.Width
	pix := t.staging.Pix()
	pitch := t.staging.Pitch()
	for y := 0; y < t.cfg.Height; y += 2 {
		top := pix[y*pitch : y*pitch+width]
		var bottom []byte
		if y+1 < t.cfg.Height {
			bottom = pix[(y+1)*pitch : (y+1)*pitch+width]
		}
		for x := 0; x < width; x++ {
			style := tcell.StyleDefault.Foreground(t.colors[top[x]])
			if bottom != nil {
				style = style.Background(t.colors[bottom[x]])
			} else {
				style = style.Background(tcell.ColorBlack)
			}
			t.screen.SetContent(x, y/2, '▀', nil, style)
		}
	}
	t.screen.Show()
}

func (t *TerminalRenderer) LockFramebuffer() ([]byte, int) {
	if !t.ready {
		return nil, 0
	}
	return t.staging.Pix(), t.staging.Pitch()
}

// UnlockFramebuffer is a no-op: the staging buffer is plain memory.
func (t *TerminalRenderer) UnlockFramebuffer() {}

func (t *TerminalRenderer) Name() string { return "terminal" }

func (t *TerminalRenderer) SupportsRuntimeSwitch() bool { return true }
