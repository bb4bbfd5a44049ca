// Package render implements a single-threaded CPU triangle rasterizer with
// per-pixel Blinn-Phong shading, depth buffering and image export.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/chewxy/math32"
	"golang.org/x/image/bmp"

	"github.com/taigrr/rast/pkg/math3d"
)

// Background is the color a fresh framebuffer is cleared to.
var Background = math3d.V4(0, 0, 0.34, 1)

// ErrUnsupportedFormat is returned by Save for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Framebuffer holds color and depth for every pixel. Rows are stored
// bottom-up: row 0 is the bottom of the image.
type Framebuffer struct {
	Width  int
	Height int
	Color  []math3d.Vec4
	Depth  []float32
}

// NewFramebuffer creates a framebuffer cleared to Background.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Color:  make([]math3d.Vec4, width*height),
		Depth:  make([]float32, width*height),
	}
	fb.Clear(Background)
	return fb
}

// Clear fills color with c and depth with +Inf.
func (fb *Framebuffer) Clear(c math3d.Vec4) {
	// Use copy-doubling for faster clearing
	n := len(fb.Color)
	if n == 0 {
		return
	}
	fb.Color[0] = c
	fb.Depth[0] = math32.Inf(1)
	for i := 1; i < n; i *= 2 {
		copy(fb.Color[i:], fb.Color[:i])
		copy(fb.Depth[i:], fb.Depth[:i])
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed; depth is left untouched.
func (fb *Framebuffer) SetPixel(x, y int, c math3d.Vec4) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Color[y*fb.Width+x] = c
}

// Pixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) Pixel(x, y int) math3d.Vec4 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return math3d.Vec4{}
	}
	return fb.Color[y*fb.Width+x]
}

// DepthAt returns the stored depth at (x, y), +Inf if out of bounds.
func (fb *Framebuffer) DepthAt(x, y int) float32 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return math32.Inf(1)
	}
	return fb.Depth[y*fb.Width+x]
}

// plot writes color and depth at a precomputed index.
func (fb *Framebuffer) plot(i int, c math3d.Vec4, z float32) {
	fb.Color[i] = c
	fb.Depth[i] = z
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c math3d.Vec4) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Export returns the image as top-down row-major colors with every
// component clamped to [0, 1].
func (fb *Framebuffer) Export() []math3d.Vec4 {
	out := make([]math3d.Vec4, len(fb.Color))
	for y := range fb.Height {
		src := fb.Color[(fb.Height-1-y)*fb.Width : (fb.Height-y)*fb.Width]
		dst := out[y*fb.Width : (y+1)*fb.Width]
		for x, c := range src {
			dst[x] = c.Clamp01()
		}
	}
	return out
}

// toRGBA converts a color to 8 bits per channel, alpha forced opaque.
func toRGBA(c math3d.Vec4) color.RGBA {
	return color.RGBA{channel(c.X), channel(c.Y), channel(c.Z), 255}
}

func channel(v float32) uint8 {
	return uint8(min(255, max(0, int(v*255))))
}

// ToImage converts the framebuffer to a top-down image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		row := fb.Height - 1 - y
		for x := range fb.Width {
			img.SetRGBA(x, y, toRGBA(fb.Color[row*fb.Width+x]))
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.ToImage())
}

// SaveBMP saves the framebuffer as a 24-bit BMP file.
func (fb *Framebuffer) SaveBMP(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return bmp.Encode(f, fb.ToImage())
}

// Save writes the framebuffer in the format named by the file extension.
func (fb *Framebuffer) Save(path string) error {
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".bmp":
		err = fb.SaveBMP(path)
	case ".png":
		err = fb.SavePNG(path)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
