package debug

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/softframe/go-prism/prism/video"
)

// SaveFramePNGToDir saves a presented frame as PNG with a timestamp to a
// specific directory. An empty directory means the current directory.
func SaveFramePNGToDir(img *image.RGBA, baseName, directory string) error {
	if img == nil {
		return fmt.Errorf("no frame data available for snapshot")
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.png", baseName, timestamp)

	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %v", err)
		}
		outputDir = cwd
	}

	filePath := filepath.Join(outputDir, filename)
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %v", filePath, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %v", err)
	}

	bounds := img.Bounds()
	slog.Info("snapshot saved", "path", filePath,
		"size", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()), "format", "PNG")
	return nil
}

// SaveIndexedPNGToDir resolves a locked index buffer through a palette
// and saves the result. Lets callers snapshot a frame regardless of which
// backend is presenting it.
func SaveIndexedPNGToDir(pix []byte, pitch, width, height int, pal *video.Palette, baseName, directory string) error {
	if pix == nil {
		return fmt.Errorf("no frame data available for snapshot")
	}
	return SaveFramePNGToDir(video.ExpandToRGBA(pix, pitch, width, height, pal), baseName, directory)
}

// CreateSnapshotDir resolves the snapshot output directory, creating a
// temporary one when none is given.
func CreateSnapshotDir(directory string) (string, error) {
	if directory == "" {
		tempDir, err := os.MkdirTemp("", "prism-snapshots-*")
		if err != nil {
			return "", fmt.Errorf("failed to create snapshot directory: %v", err)
		}
		return tempDir, nil
	}
	if err := os.MkdirAll(directory, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %v", err)
	}
	return directory, nil
}
