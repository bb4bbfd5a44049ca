package render

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/taigrr/rast/pkg/math3d"
)

// ndcVertex builds a vertex as the vertex stage would emit it: NDC in Pos
// with the clip w in W.
func ndcVertex(x, y, w float32) Vertex {
	return Vertex{
		Pos:     math3d.V4(x, y, 0, w),
		ViewPos: math3d.Point(0, 0, -w),
		Normal:  math3d.Dir(0, 0, 1),
		Color:   white,
	}
}

// lowerLeft covers the lower-left half of the screen: screen corners (0,0),
// (W,0), (0,H).
func lowerLeft(w float32) [3]Vertex {
	return [3]Vertex{ndcVertex(-1, -1, w), ndcVertex(1, -1, w), ndcVertex(-1, 1, w)}
}

func solid(c math3d.Vec4) FragmentShader {
	return func(*Vertex) math3d.Vec4 { return c }
}

var red = math3d.V4(1, 0, 0, 1)

func approx(a, b float32) bool {
	return math32.Abs(a-b) < 1e-4
}

func TestEdgeFunc(t *testing.T) {
	a := math3d.V4(0, 0, 0, 0)
	b := math3d.V4(1, 0, 0, 0)
	c := math3d.V4(0, 1, 0, 0)

	if got := EdgeFunc(a, b, c); got != -1 {
		t.Errorf("EdgeFunc(ccw) = %v, want -1", got)
	}
	if got := EdgeFunc(a, c, b); got != 1 {
		t.Errorf("EdgeFunc(cw) = %v, want 1", got)
	}
	if got := EdgeFunc(a, b, math3d.V4(2, 0, 0, 0)); got != 0 {
		t.Errorf("EdgeFunc(collinear) = %v, want 0", got)
	}
}

func TestDrawTriangleCoversPixelCenters(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	r := NewRasterizer(fb)
	v := lowerLeft(1)

	n := r.DrawTriangle(&v[0], &v[1], &v[2], solid(red))
	if n != 36 {
		t.Errorf("pixels written = %d, want 36", n)
	}

	for y := range 8 {
		for x := range 8 {
			want := Background
			if x+y <= 7 {
				want = red
			}
			if got := fb.Pixel(x, y); got != want {
				t.Errorf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestDrawTriangleWindingIndependent(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	r := NewRasterizer(fb)
	v := lowerLeft(1)

	if n := r.DrawTriangle(&v[0], &v[2], &v[1], solid(red)); n != 36 {
		t.Errorf("pixels written = %d, want 36", n)
	}
}

func TestDrawTriangleDepth(t *testing.T) {
	blue := math3d.V4(0, 0, 1, 1)

	t.Run("equal depth keeps first", func(t *testing.T) {
		fb := NewFramebuffer(8, 8)
		r := NewRasterizer(fb)
		v := lowerLeft(1)

		r.DrawTriangle(&v[0], &v[1], &v[2], solid(red))
		if n := r.DrawTriangle(&v[0], &v[1], &v[2], solid(blue)); n != 0 {
			t.Errorf("second draw wrote %d pixels, want 0", n)
		}
		if fb.Pixel(1, 1) != red {
			t.Errorf("pixel = %v, want red", fb.Pixel(1, 1))
		}
	})

	for _, nearFirst := range []bool{true, false} {
		name := "far then near"
		if nearFirst {
			name = "near then far"
		}
		t.Run(name, func(t *testing.T) {
			fb := NewFramebuffer(8, 8)
			r := NewRasterizer(fb)
			far := lowerLeft(2)
			near := lowerLeft(1)

			if nearFirst {
				r.DrawTriangle(&near[0], &near[1], &near[2], solid(blue))
				r.DrawTriangle(&far[0], &far[1], &far[2], solid(red))
			} else {
				r.DrawTriangle(&far[0], &far[1], &far[2], solid(red))
				r.DrawTriangle(&near[0], &near[1], &near[2], solid(blue))
			}

			if got := fb.Pixel(2, 2); got != blue {
				t.Errorf("pixel = %v, want blue", got)
			}
			if got := fb.DepthAt(2, 2); !approx(got, 1) {
				t.Errorf("depth = %v, want 1 (view distance)", got)
			}
		})
	}
}

func TestWeightsAtVertices(t *testing.T) {
	// Screen positions carry 1/w in W.
	s := [3]math3d.Vec4{
		math3d.V4(2, 2, 1, 1),
		math3d.V4(12, 3, 4, 1.0/4),
		math3d.V4(5, 11, 9, 1.0/9),
	}
	area := EdgeFunc(s[0], s[1], s[2])

	for i := range s {
		w := weights(&s[0], &s[1], &s[2], area, s[i])
		sum := w.X + w.Y + w.Z
		got := [3]float32{w.X / sum, w.Y / sum, w.Z / sum}
		for j, g := range got {
			want := float32(0)
			if j == i {
				want = 1
			}
			if !approx(g, want) {
				t.Errorf("vertex %d: normalized weights = %v, want unit vector %d", i, got, i)
				break
			}
		}
	}
}

func TestDrawTriangleInterpolation(t *testing.T) {
	fb := NewFramebuffer(16, 16)
	r := NewRasterizer(fb)

	v := lowerLeft(1)
	v[0].Pos.W, v[1].Pos.W, v[2].Pos.W = 1, 4, 9
	for i := range v {
		v[i].UV = math3d.V4(0.3, 0.7, 0, 0)
	}
	v[0].Color = math3d.V4(1, 0, 0, 1)
	v[1].Color = math3d.V4(0, 1, 0, 1)
	v[2].Color = math3d.V4(0, 0, 1, 1)

	var frags []Vertex
	r.DrawTriangle(&v[0], &v[1], &v[2], func(f *Vertex) math3d.Vec4 {
		frags = append(frags, *f)
		return red
	})

	if len(frags) == 0 {
		t.Fatal("no fragments")
	}
	for _, f := range frags {
		// Constant attributes survive perspective-correct interpolation.
		if !approx(f.UV.X, 0.3) || !approx(f.UV.Y, 0.7) {
			t.Fatalf("UV = %v, want (0.3, 0.7)", f.UV)
		}
		// Weights form a partition of unity.
		if sum := f.Color.X + f.Color.Y + f.Color.Z; !approx(sum, 1) {
			t.Fatalf("color weights sum to %v, want 1", sum)
		}
		if f.Pos.Z < 1-1e-4 || f.Pos.Z > 9+1e-4 {
			t.Fatalf("depth %v outside vertex range [1, 9]", f.Pos.Z)
		}
	}
}

func TestDrawTriangleMultisample(t *testing.T) {
	tests := []struct {
		name     string
		samples  int
		diagonal float32 // coverage of pixels with x+y == 7
	}{
		{"1x1", 1, 1},
		{"2x2", 2, 0.75},
		{"4x4", 4, 0.625},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fb := NewFramebuffer(8, 8)
			r := NewRasterizer(fb)
			r.samples = tc.samples
			v := lowerLeft(1)

			if n := r.DrawTriangle(&v[0], &v[1], &v[2], solid(red)); n != 36 {
				t.Errorf("samples=%d: pixels written = %d, want 36", tc.samples, n)
			}
			if got := fb.Pixel(2, 2); got != red {
				t.Errorf("samples=%d: interior = %v, want red", tc.samples, got)
			}
			if got := fb.Pixel(3, 4); !approx(got.X, tc.diagonal) {
				t.Errorf("samples=%d: edge red = %v, want %v", tc.samples, got.X, tc.diagonal)
			}
			if got := fb.Pixel(4, 4); got != Background {
				t.Errorf("samples=%d: outside = %v, want background", tc.samples, got)
			}
		})
	}
}

func TestDrawTriangleZeroArea(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	r := NewRasterizer(fb)
	a, b, c := ndcVertex(-1, -1, 1), ndcVertex(0, 0, 1), ndcVertex(1, 1, 1)

	if n := r.DrawTriangle(&a, &b, &c, solid(red)); n != 0 {
		t.Errorf("degenerate triangle wrote %d pixels", n)
	}
}

func TestDrawTriangleClampsToFramebuffer(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	r := NewRasterizer(fb)
	a, b, c := ndcVertex(-3, -3, 1), ndcVertex(3, -3, 1), ndcVertex(-3, 3, 1)

	if n := r.DrawTriangle(&a, &b, &c, solid(red)); n != 64 {
		t.Errorf("pixels written = %d, want all 64", n)
	}
}

func TestDrawWire(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	r := NewRasterizer(fb)
	v := lowerLeft(1)

	r.DrawWire(&v[0], &v[1], &v[2], WireColor)

	for _, p := range [][2]int{{0, 0}, {3, 0}, {7, 0}, {0, 5}, {4, 4}} {
		if got := fb.Pixel(p[0], p[1]); got != WireColor {
			t.Errorf("edge pixel %v = %v, want wire color", p, got)
		}
	}
	if got := fb.Pixel(2, 2); got != Background {
		t.Errorf("interior pixel = %v, want background", got)
	}
	if got := fb.DepthAt(0, 0); !math32.IsInf(got, 1) {
		t.Errorf("wire wrote depth %v", got)
	}
}

func BenchmarkDrawTriangle(b *testing.B) {
	fb := NewFramebuffer(256, 256)
	r := NewRasterizer(fb)
	v := lowerLeft(1)
	shade := solid(red)

	for b.Loop() {
		fb.Clear(Background)
		r.DrawTriangle(&v[0], &v[1], &v[2], shade)
	}
}

func BenchmarkDrawTriangleMultisample4(b *testing.B) {
	fb := NewFramebuffer(256, 256)
	r := NewRasterizer(fb)
	r.samples = 4
	v := lowerLeft(1)
	shade := solid(red)

	for b.Loop() {
		fb.Clear(Background)
		r.DrawTriangle(&v[0], &v[1], &v[2], shade)
	}
}
