package render

import (
	"github.com/chewxy/math32"

	"github.com/taigrr/rast/pkg/math3d"
	"github.com/taigrr/rast/pkg/models"
)

// SpecularExponent is the Blinn-Phong shininess.
const SpecularExponent = 16

// Light is a single point light. ViewPos is Pos in view space and is
// refreshed by the renderer before every draw.
type Light struct {
	Pos      math3d.Vec4
	ViewPos  math3d.Vec4
	Ambient  math3d.Vec4
	Diffuse  math3d.Vec4
	Specular math3d.Vec4
}

// FragmentShader computes the color of an interpolated fragment.
type FragmentShader func(frag *Vertex) math3d.Vec4

// PixelShader shades a fragment with Blinn-Phong lighting in view space.
// The interpolated normal is used as is, without renormalizing.
func PixelShader(frag *Vertex, light *Light, mat *models.Material) math3d.Vec4 {
	ldir := light.ViewPos.Sub(frag.ViewPos).Normalize()

	diffuse := math32.Max(0, ldir.Dot(frag.Normal))

	var specular float32
	if diffuse > 0 {
		view := frag.ViewPos.Negate().Normalize()
		half := ldir.Add(view).Normalize()
		specular = math32.Pow(math32.Max(0, half.Dot(frag.Normal)), SpecularExponent)
	}

	tex := TextureLookup(&mat.Texture, frag.UV.X, frag.UV.Y).Mul(frag.Color)
	lit := light.Ambient.Scale(mat.Ka).Add(light.Diffuse.Scale(diffuse * mat.Kd))

	c := tex.Mul(lit).Add(light.Specular.Scale(specular * mat.Ks))
	c.W = 1
	return c
}

// Shader returns a FragmentShader bound to a light and material.
func Shader(light *Light, mat *models.Material) FragmentShader {
	return func(frag *Vertex) math3d.Vec4 {
		return PixelShader(frag, light, mat)
	}
}
