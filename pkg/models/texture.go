package models

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"

	_ "golang.org/x/image/bmp" // Register BMP decoder

	"github.com/taigrr/rast/pkg/math3d"
)

// Texture is a decoded image used for texture lookups.
//
// Data is row-major, addressed as x + y*Width, with row 0 at the bottom of
// the image (t = 0). SMax and TMax mark the coordinates beyond which
// bilinear filtering degrades to 1-D or nearest sampling. An empty Data
// means "no texture".
type Texture struct {
	Width  int
	Height int
	SMax   float32
	TMax   float32
	Data   []math3d.Vec4
}

// NewTexture creates a black texture with the given dimensions.
func NewTexture(width, height int) Texture {
	return Texture{
		Width:  width,
		Height: height,
		SMax:   float32(width) - 1.5,
		TMax:   float32(height) - 1.5,
		Data:   make([]math3d.Vec4, width*height),
	}
}

// Empty reports whether the texture has no decoded data.
func (t *Texture) Empty() bool {
	return len(t.Data) == 0
}

// SetTexel sets the texel at (x, y), y counted from the bottom row.
func (t *Texture) SetTexel(x, y int, c math3d.Vec4) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Data[x+y*t.Width] = c
}

// Texel returns the texel at (x, y), y counted from the bottom row.
func (t *Texture) Texel(x, y int) math3d.Vec4 {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return math3d.Vec4{}
	}
	return t.Data[x+y*t.Width]
}

// LoadTexture loads a texture from a BMP, PNG or JPEG file.
func LoadTexture(path string) (Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return Texture{}, fmt.Errorf("failed to open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return Texture{}, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	return TextureFromImage(img), nil
}

// TextureFromImage converts an image (top row first) into a texture (bottom
// row first).
func TextureFromImage(img image.Image) Texture {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			tex.SetTexel(x, height-1-y, ColorToVec4(c))
		}
	}
	return tex
}

// ColorToVec4 converts a color to RGBA floats in [0, 1].
func ColorToVec4(c color.Color) math3d.Vec4 {
	// Non-premultiplied, so translucent texels keep their color.
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return math3d.V4(
		float32(n.R)/255,
		float32(n.G)/255,
		float32(n.B)/255,
		float32(n.A)/255,
	)
}

// NewSolidTexture creates a texture filled with one color.
func NewSolidTexture(width, height int, c math3d.Vec4) Texture {
	tex := NewTexture(width, height)
	for i := range tex.Data {
		tex.Data[i] = c
	}
	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 math3d.Vec4) Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.SetTexel(x, y, c1)
			} else {
				tex.SetTexel(x, y, c2)
			}
		}
	}
	return tex
}
