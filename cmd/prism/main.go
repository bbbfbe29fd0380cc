package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/softframe/go-prism/prism/backend"
	"github.com/softframe/go-prism/prism/debug"
	"github.com/softframe/go-prism/prism/display"
	"github.com/softframe/go-prism/prism/render"
	"github.com/softframe/go-prism/prism/video"
)

const frameTime = time.Second / 60

func main() {
	app := cli.NewApp()
	app.Name = "prism"
	app.Description = "Paletted framebuffer renderer with switchable presentation backends"
	app.Usage = "prism [options]"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "backend",
			Usage: "Backend to use (auto, software, opengl, vita, 3ds, terminal, headless)",
			Value: "auto",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run (0 = run until quit; required for headless)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "pattern",
			Usage: fmt.Sprintf("Test pattern to draw (0-%d)", video.TestPatternCount-1),
			Value: 0,
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Integer window scale",
			Value: display.DefaultScale,
		},
		cli.BoolFlag{
			Name:  "vsync",
			Usage: "Synchronize presentation to the display refresh",
		},
		cli.StringFlag{
			Name:  "switch-to",
			Usage: "Backend to switch to mid-run (demonstrates runtime switching)",
		},
		cli.IntFlag{
			Name:  "switch-after",
			Usage: "Frame at which to perform the --switch-to switch",
			Value: 120,
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames (0 = disabled)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("error running renderer", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	requested := backend.Parse(c.String("backend"))
	if requested == backend.Invalid {
		return fmt.Errorf("unknown backend %q", c.String("backend"))
	}

	frames := c.Int("frames")
	if requested == backend.Headless && frames <= 0 {
		return errors.New("headless backend requires --frames with a positive value")
	}

	pattern := c.Int("pattern")
	if pattern < 0 || pattern >= video.TestPatternCount {
		return fmt.Errorf("pattern must be between 0 and %d", video.TestPatternCount-1)
	}

	snapshotInterval := c.Int("snapshot-interval")
	snapshotDir := c.String("snapshot-dir")
	if snapshotInterval > 0 {
		dir, err := debug.CreateSnapshotDir(snapshotDir)
		if err != nil {
			return err
		}
		snapshotDir = dir
	}

	palette := video.TestPatternPalette()
	quit := false
	cfg := backend.Config{
		Title:   "prism",
		Width:   display.DefaultWidth,
		Height:  display.DefaultHeight,
		Scale:   c.Int("scale"),
		VSync:   c.Bool("vsync"),
		Palette: &palette,
		Callbacks: backend.Callbacks{
			OnQuit: func() { quit = true },
		},
	}

	mgr := render.NewManager(cfg)
	if err := mgr.Initialize(requested); err != nil {
		return err
	}
	defer mgr.Shutdown()
	slog.Info("running", "backend", mgr.ActiveType().String(), "frames", frames, "pattern", pattern)

	switchTo := backend.Parse(c.String("switch-to"))
	switchAfter := c.Int("switch-after")

	for frame := 0; !quit && (frames == 0 || frame < frames); frame++ {
		if !mgr.BeginFrame() {
			time.Sleep(frameTime)
			continue
		}

		// stand-in for the external software rasteriser: draw through
		// the same lock/unlock contract it would use
		pix, pitch := mgr.LockFramebuffer()
		if pix == nil {
			return errors.New("framebuffer lock failed")
		}
		video.DrawTestPattern(pix, pitch, cfg.Width, cfg.Height, pattern, frame)
		if frame%4 == 0 {
			video.RotatePalette(&palette)
		}

		if snapshotInterval > 0 && (frame+1)%snapshotInterval == 0 {
			name := fmt.Sprintf("prism_pattern%d", pattern)
			if err := debug.SaveIndexedPNGToDir(pix, pitch, cfg.Width, cfg.Height, &palette, name, snapshotDir); err != nil {
				slog.Error("failed to save snapshot", "frame", frame+1, "error", err)
			}
		}

		mgr.UnlockFramebuffer()
		mgr.EndFrame()

		if c.String("switch-to") != "" && frame == switchAfter {
			if err := mgr.Switch(switchTo); err != nil {
				slog.Error("runtime switch rejected", "error", err)
			} else {
				slog.Info("switched backend", "backend", mgr.ActiveType().String())
			}
		}

		if !cfg.VSync {
			time.Sleep(frameTime)
		}
	}

	return nil
}
