package render

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/taigrr/rast/pkg/math3d"
	"github.com/taigrr/rast/pkg/models"
)

func TestPixelShader(t *testing.T) {
	light := Light{
		ViewPos:  math3d.Point(0, 0, 0),
		Ambient:  math3d.V4(0.5, 0, 0, 1),
		Diffuse:  math3d.V4(0.8, 0.8, 0.8, 1),
		Specular: math3d.V4(0.5, 0.5, 0.5, 1),
	}
	white := models.NewSolidTexture(1, 1, math3d.V4(1, 1, 1, 1))
	mat := models.Material{Ka: 0.1, Kd: 0.8, Ks: 0.5, Texture: white}

	facing := Vertex{
		ViewPos: math3d.Point(0, 0, -3),
		Normal:  math3d.Dir(0, 0, 1),
		Color:   math3d.V4(1, 1, 1, 1),
	}

	tests := []struct {
		name   string
		frag   Vertex
		mat    models.Material
		wantRG [2]float32
	}{
		{
			// Light at the eye, normal towards it: diffuse = specular = 1.
			name:   "head on",
			frag:   facing,
			mat:    mat,
			wantRG: [2]float32{0.5*0.1 + 0.8*0.8 + 0.5*0.5, 0.8*0.8 + 0.5*0.5},
		},
		{
			name: "facing away",
			frag: Vertex{
				ViewPos: facing.ViewPos,
				Normal:  math3d.Dir(0, 0, -1),
				Color:   facing.Color,
			},
			mat:    mat,
			wantRG: [2]float32{0.5 * 0.1, 0},
		},
		{
			// The zero sentinel normal gets ambient only, not NaN.
			name: "zero normal",
			frag: Vertex{
				ViewPos: facing.ViewPos,
				Color:   facing.Color,
			},
			mat:    mat,
			wantRG: [2]float32{0.5 * 0.1, 0},
		},
		{
			name:   "untextured",
			frag:   facing,
			mat:    models.Material{Ka: 0.1, Kd: 0.8},
			wantRG: [2]float32{0.87 * (0.5*0.1 + 0.8*0.8), 0.87 * 0.8 * 0.8},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := PixelShader(&tc.frag, &light, &tc.mat)
			if math32.IsNaN(got.X) || math32.IsNaN(got.Y) {
				t.Fatalf("shader produced NaN: %v", got)
			}
			if !approx(got.X, tc.wantRG[0]) || !approx(got.Y, tc.wantRG[1]) {
				t.Errorf("color = (%v, %v), want %v", got.X, got.Y, tc.wantRG)
			}
			if got.W != 1 {
				t.Errorf("alpha = %v, want 1", got.W)
			}
		})
	}
}

func TestPixelShaderSpecularFalloff(t *testing.T) {
	light := Light{
		ViewPos:  math3d.Point(0, 0, 0),
		Specular: math3d.V4(1, 1, 1, 1),
	}
	mat := models.Material{Ks: 1}

	// Normal tilted away from the half vector: specular drops as cos^16.
	n := math3d.Dir(0, math32.Sin(0.3), math32.Cos(0.3))
	frag := Vertex{ViewPos: math3d.Point(0, 0, -3), Normal: n, Color: white}

	got := PixelShader(&frag, &light, &mat)
	want := math32.Pow(math32.Cos(0.3), SpecularExponent)
	if !approx(got.X, want) {
		t.Errorf("specular = %v, want %v", got.X, want)
	}
}
