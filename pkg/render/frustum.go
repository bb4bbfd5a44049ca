package render

import (
	"github.com/taigrr/rast/pkg/math3d"
)

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the distance from origin.
type Plane struct {
	Normal math3d.Vec4
	D      float32
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec4) float32 {
	return p.Normal.Dot(point) + p.D
}

// Frustum represents the 6 planes of a view frustum.
// Planes are ordered: Left, Right, Bottom, Top, Near, Far.
// Each plane's normal points inward (toward the center of the frustum).
type Frustum struct {
	Planes [6]Plane
}

// FrustumPlane indices for clarity.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// NewFrustumFromMatrix extracts frustum planes from a View·Proj matrix.
// Uses the Gribb/Hartmann method for extracting planes from the combined matrix.
// The resulting planes have normals pointing inward.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	var f Frustum

	// Points are row vectors, so clip component j is column j of m:
	// Col 0: m[0], m[4], m[8], m[12]
	// Col 1: m[1], m[5], m[9], m[13]
	// Col 2: m[2], m[6], m[10], m[14]
	// Col 3: m[3], m[7], m[11], m[15]

	// Left plane: w + x
	f.Planes[FrustumLeft] = Plane{
		Normal: math3d.Dir(m[3]+m[0], m[7]+m[4], m[11]+m[8]),
		D:      m[15] + m[12],
	}

	// Right plane: w - x
	f.Planes[FrustumRight] = Plane{
		Normal: math3d.Dir(m[3]-m[0], m[7]-m[4], m[11]-m[8]),
		D:      m[15] - m[12],
	}

	// Bottom plane: w + y
	f.Planes[FrustumBottom] = Plane{
		Normal: math3d.Dir(m[3]+m[1], m[7]+m[5], m[11]+m[9]),
		D:      m[15] + m[13],
	}

	// Top plane: w - y
	f.Planes[FrustumTop] = Plane{
		Normal: math3d.Dir(m[3]-m[1], m[7]-m[5], m[11]-m[9]),
		D:      m[15] - m[13],
	}

	// Near plane: w + z
	f.Planes[FrustumNear] = Plane{
		Normal: math3d.Dir(m[3]+m[2], m[7]+m[6], m[11]+m[10]),
		D:      m[15] + m[14],
	}

	// Far plane: w - z
	f.Planes[FrustumFar] = Plane{
		Normal: math3d.Dir(m[3]-m[2], m[7]-m[6], m[11]-m[10]),
		D:      m[15] - m[14],
	}

	for i := range f.Planes {
		f.Planes[i].Normalize()
	}

	return f
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec4
	Max math3d.Vec4
}

// NewAABB creates an AABB from min and max points.
func NewAABB(lo, hi math3d.Vec4) AABB {
	return AABB{Min: lo, Max: hi}
}

// Corners returns the 8 corners of the box.
func (b AABB) Corners() [8]math3d.Vec4 {
	return [8]math3d.Vec4{
		math3d.Point(b.Min.X, b.Min.Y, b.Min.Z),
		math3d.Point(b.Max.X, b.Min.Y, b.Min.Z),
		math3d.Point(b.Max.X, b.Max.Y, b.Min.Z),
		math3d.Point(b.Min.X, b.Max.Y, b.Min.Z),
		math3d.Point(b.Min.X, b.Min.Y, b.Max.Z),
		math3d.Point(b.Max.X, b.Min.Y, b.Max.Z),
		math3d.Point(b.Max.X, b.Max.Y, b.Max.Z),
		math3d.Point(b.Min.X, b.Max.Y, b.Max.Z),
	}
}

// Transform returns an AABB that bounds b after transformation by m.
// This computes a new AABB that contains all 8 transformed corners.
func (b AABB) Transform(m math3d.Mat4) AABB {
	corners := b.Corners()

	newMin := m.TransformPoint(corners[0])
	newMax := newMin
	for i := 1; i < 8; i++ {
		p := m.TransformPoint(corners[i])
		newMin = newMin.Min(p)
		newMax = newMax.Max(p)
	}

	newMin.W, newMax.W = 1, 1
	return AABB{Min: newMin, Max: newMax}
}

// IntersectAABB tests if the AABB intersects or is inside the frustum.
// Returns true if any part of the AABB may be visible.
// Uses the "positive vertex" optimization for faster rejection.
func (f Frustum) IntersectAABB(box AABB) bool {
	for i := range f.Planes {
		plane := f.Planes[i]

		// The corner furthest along the plane normal; if it is outside, the
		// whole box is.
		pVertex := math3d.Point(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)

		if plane.DistanceToPoint(pVertex) < 0 {
			return false
		}
	}

	return true
}

func selectComponent(cond bool, a, b float32) float32 {
	if cond {
		return a
	}
	return b
}
