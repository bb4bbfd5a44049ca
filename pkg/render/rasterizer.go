package render

import (
	"github.com/chewxy/math32"

	"github.com/taigrr/rast/pkg/math3d"
)

// Rasterizer fills screen-space triangles into a framebuffer with a depth
// test.
type Rasterizer struct {
	fb      *Framebuffer
	samples int // sub-samples per pixel axis
}

// NewRasterizer creates a rasterizer that samples pixel centers only.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	return &Rasterizer{fb: fb, samples: 1}
}

// EdgeFunc returns the signed, doubled area of (p0, p1, p2). Only X and Y
// are used.
func EdgeFunc(p0, p1, p2 math3d.Vec4) float32 {
	return (p2.X-p0.X)*(p1.Y-p0.Y) - (p2.Y-p0.Y)*(p1.X-p0.X)
}

// weights returns the perspective-scaled barycentric weights of p. Screen
// vertices carry 1/w in W, so the weights sum to 1/z.
func weights(s0, s1, s2 *math3d.Vec4, area float32, p math3d.Vec4) math3d.Vec4 {
	return math3d.Vec4{
		X: EdgeFunc(*s1, *s2, p) * s0.W / area,
		Y: EdgeFunc(*s2, *s0, p) * s1.W / area,
		Z: EdgeFunc(*s0, *s1, p) * s2.W / area,
	}
}

func inside(w math3d.Vec4) bool {
	return w.X >= 0 && w.Y >= 0 && w.Z >= 0
}

// interpolate blends the vertex attributes with weights w and depth z.
func interpolate(v0, v1, v2 *Vertex, w math3d.Vec4, z float32) Vertex {
	blend := func(a, b, c math3d.Vec4) math3d.Vec4 {
		return a.Scale(w.X).Add(b.Scale(w.Y)).Add(c.Scale(w.Z)).Scale(z)
	}
	return Vertex{
		UV:      blend(v0.UV, v1.UV, v2.UV),
		Normal:  blend(v0.Normal, v1.Normal, v2.Normal),
		ViewPos: blend(v0.ViewPos, v1.ViewPos, v2.ViewPos),
		Color:   blend(v0.Color, v1.Color, v2.Color),
	}
}

// DrawTriangle rasterizes a triangle whose Pos fields hold NDC with clip w,
// as produced by the vertex stage. Every covered pixel whose depth is
// strictly nearer than the stored one is shaded and written. Returns the
// number of pixels written.
func (r *Rasterizer) DrawTriangle(v0, v1, v2 *Vertex, shade FragmentShader) int {
	fb := r.fb
	s0 := Ndc2Screen(v0.Pos, fb.Width, fb.Height)
	s1 := Ndc2Screen(v1.Pos, fb.Width, fb.Height)
	s2 := Ndc2Screen(v2.Pos, fb.Width, fb.Height)

	area := EdgeFunc(s0, s1, s2)
	if area == 0 || math32.IsNaN(area) {
		return 0
	}

	minX := max(0, int(math32.Floor(min(s0.X, s1.X, s2.X))))
	maxX := min(fb.Width-1, int(math32.Floor(max(s0.X, s1.X, s2.X))))
	minY := max(0, int(math32.Floor(min(s0.Y, s1.Y, s2.Y))))
	maxY := min(fb.Height-1, int(math32.Floor(max(s0.Y, s1.Y, s2.Y))))

	n := r.samples
	step := 1 / float32(n)
	total := float32(n * n)

	written := 0
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float32(x), float32(y)

			covered := 0
			for j := range n {
				sy := py + (float32(j)+0.5)*step
				for i := range n {
					sx := px + (float32(i)+0.5)*step
					if inside(weights(&s0, &s1, &s2, area, math3d.Vec4{X: sx, Y: sy})) {
						covered++
					}
				}
			}
			if covered == 0 {
				continue
			}

			center := math3d.Vec4{X: px + 0.5, Y: py + 0.5}
			w := weights(&s0, &s1, &s2, area, center)
			z := 1 / (w.X + w.Y + w.Z)

			idx := y*fb.Width + x
			if !(z < fb.Depth[idx]) {
				continue
			}

			frag := interpolate(v0, v1, v2, w, z)
			frag.Pos = math3d.Vec4{X: center.X, Y: center.Y, Z: z, W: 1}

			c := shade(&frag)
			if covered != n*n {
				cov := float32(covered) / total
				c.X *= cov
				c.Y *= cov
				c.Z *= cov
			}

			fb.plot(idx, c, z)
			written++
		}
	}
	return written
}

// DrawWire draws the three edges of a triangle with Bresenham lines, ignoring
// depth.
func (r *Rasterizer) DrawWire(v0, v1, v2 *Vertex, c math3d.Vec4) {
	fb := r.fb
	var x, y [3]int
	for i, v := range [3]*Vertex{v0, v1, v2} {
		s := Ndc2Screen(v.Pos, fb.Width, fb.Height)
		x[i] = int(math32.Floor(s.X))
		y[i] = int(math32.Floor(s.Y))
	}
	fb.DrawLine(x[0], y[0], x[1], y[1], c)
	fb.DrawLine(x[1], y[1], x[2], y[2], c)
	fb.DrawLine(x[2], y[2], x[0], y[0], c)
}
