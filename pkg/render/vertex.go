package render

import (
	"github.com/taigrr/rast/pkg/math3d"
	"github.com/taigrr/rast/pkg/models"
)

// Vertex carries one triangle corner through the pipeline.
//
// After the vertex stage Pos holds NDC x, y, z with the clip w in W. After
// interpolation it holds the fragment's screen position and depth.
type Vertex struct {
	Pos     math3d.Vec4
	UV      math3d.Vec4
	Normal  math3d.Vec4
	ViewPos math3d.Vec4
	Color   math3d.Vec4
}

// CullResult is the outcome of classifying a triangle.
type CullResult int

const (
	CullAccepted CullResult = iota
	CullFrustum
	CullBackFace
)

func (c CullResult) String() string {
	switch c {
	case CullAccepted:
		return "accepted"
	case CullFrustum:
		return "frustum"
	case CullBackFace:
		return "backface"
	default:
		return "unknown"
	}
}

// transform holds the per-draw matrices.
type transform struct {
	mv  math3d.Mat4 // World·View
	mvp math3d.Mat4 // World·View·Proj
	nmv math3d.Mat4 // inverse transpose of mv, for normals
}

func newTransform(world, view, proj math3d.Mat4) transform {
	mv := world.Mul(view)
	return transform{
		mv:  mv,
		mvp: mv.Mul(proj),
		nmv: mv.InvertTranspose(),
	}
}

var white = math3d.V4(1, 1, 1, 1)

// vertex runs the vertex stage for one corner.
func (t *transform) vertex(pos, uv, normal math3d.Vec4) Vertex {
	return Vertex{
		Pos:     t.mvp.TransformPoint(pos),
		UV:      uv,
		Normal:  t.nmv.TransformDir(normal),
		ViewPos: t.mv.TransformPoint(pos),
		Color:   white,
	}
}

// triangle runs the vertex stage for the three corners of idx.
func (t *transform) triangle(m *models.Model, idx models.Index) [3]Vertex {
	var v [3]Vertex
	for c := range 3 {
		v[c] = t.vertex(m.Positions[idx.Pos[c]], m.UVs[idx.UV[c]], m.Normals[idx.Normal[c]])
	}
	return v
}

// insideNDC reports whether x, y and z all lie in [-1, 1]. NaN fails.
func insideNDC(p math3d.Vec4) bool {
	return p.X >= -1 && p.X <= 1 &&
		p.Y >= -1 && p.Y <= 1 &&
		p.Z >= -1 && p.Z <= 1
}

// Classify decides whether a triangle is rasterized. A triangle is rejected
// by the frustum if any corner leaves the NDC cube; partially visible
// triangles are dropped, not clipped. Survivors are rejected as back faces
// unless they wind counter-clockwise as seen from the camera.
func Classify(v0, v1, v2 *Vertex) CullResult {
	if !insideNDC(v0.Pos) || !insideNDC(v1.Pos) || !insideNDC(v2.Pos) {
		return CullFrustum
	}

	p1, p2, p3 := v0.ViewPos, v1.ViewPos, v2.ViewPos
	n := p2.Sub(p1).Cross(p3.Sub(p1))
	if !(p1.Dot(n) < 0) {
		return CullBackFace
	}
	return CullAccepted
}

// Ndc2Screen maps NDC to framebuffer coordinates with row 0 at the bottom.
// The result's Z holds the view distance and W its reciprocal.
func Ndc2Screen(pos math3d.Vec4, width, height int) math3d.Vec4 {
	return math3d.Vec4{
		X: (pos.X + 1) * 0.5 * float32(width),
		Y: (pos.Y + 1) * 0.5 * float32(height),
		Z: pos.W,
		W: 1 / pos.W,
	}
}
