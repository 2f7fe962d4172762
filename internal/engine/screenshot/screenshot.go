// Package screenshot saves framebuffer contents as PNG files.
package screenshot

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Capture writes screenshots into a directory.
type Capture struct {
	outputDir string
	now       func() time.Time
}

// New creates a capture writing to outputDir; empty means the working
// directory.
func New(outputDir string) *Capture {
	return &Capture{outputDir: outputDir, now: time.Now}
}

// Filename returns the path a screenshot of the named material gets.
func (c *Capture) Filename(name string) string {
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ':' || r == ' ' {
			return '_'
		}
		return r
	}, name)
	if name == "" {
		name = "matview"
	}
	filename := fmt.Sprintf("%s_%s.png", name, c.now().Format("2006-01-02_15-04-05"))
	if c.outputDir != "" {
		filename = filepath.Join(c.outputDir, filename)
	}
	return filename
}

// FromPixels converts bottom-up RGBA rows, as read back from GL, to an
// image.
func FromPixels(pixels []byte, width, height int) (*image.RGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		copy(img.Pix[y*img.Stride:y*img.Stride+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}

// Save writes the pixels of a framebuffer showing the named material and
// returns the file name.
func (c *Capture) Save(name string, pixels []byte, width, height int) (string, error) {
	img, err := FromPixels(pixels, width, height)
	if err != nil {
		return "", err
	}
	if c.outputDir != "" {
		if err := os.MkdirAll(c.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := c.Filename(name)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}
