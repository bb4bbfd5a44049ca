package render

import (
	"github.com/chewxy/math32"

	"github.com/taigrr/rast/pkg/math3d"
)

// CreateModelMatrix returns a world matrix that places a model at position.
func CreateModelMatrix(position math3d.Vec4) math3d.Mat4 {
	return math3d.Translate(position)
}

// CreateViewMatrix builds the world-to-camera matrix for a camera at eye
// looking at target. The camera looks down its local -Z axis. The result is
// undefined when up is parallel to the viewing direction.
func CreateViewMatrix(eye, target, up math3d.Vec4) math3d.Mat4 {
	zaxis := eye.Sub(target).Normalize()
	xaxis := up.Cross(zaxis).Normalize()
	yaxis := zaxis.Cross(xaxis)

	camToWorld := math3d.Mat4{
		xaxis.X, xaxis.Y, xaxis.Z, 0,
		yaxis.X, yaxis.Y, yaxis.Z, 0,
		zaxis.X, zaxis.Y, zaxis.Z, 0,
		eye.X, eye.Y, eye.Z, 1,
	}
	return camToWorld.Invert()
}

// CreateProjectionMatrix builds a perspective projection from a horizontal
// field of view (radians), width/height ratio and clip distances. After the
// perspective divide, z spans [-1, 1] between near and far and w holds the
// view distance.
func CreateProjectionMatrix(hfov, ratio, near, far float32) math3d.Mat4 {
	r := near * math32.Tan(hfov/2)
	l := -r
	b := -r / ratio
	t := -b

	var m math3d.Mat4
	m.Set(0, 0, 2*near/(r-l))
	m.Set(1, 1, 2*near/(t-b))
	m.Set(2, 0, (r+l)/(r-l))
	m.Set(2, 1, (t+b)/(t-b))
	m.Set(2, 2, -(far+near)/(far-near))
	m.Set(2, 3, -1)
	m.Set(3, 2, -2*far*near/(far-near))
	return m
}

// Camera is a look-at camera with a perspective lens.
type Camera struct {
	Eye    math3d.Vec4
	Target math3d.Vec4
	Up     math3d.Vec4

	HFOV   float32 // Horizontal field of view in radians
	Aspect float32 // Width / Height
	Near   float32
	Far    float32

	// Cached matrices (computed on demand)
	viewMatrix math3d.Mat4
	projMatrix math3d.Mat4
	viewDirty  bool
	projDirty  bool
}

// NewCamera creates a camera at (0, 3, 5) looking at the origin with a 90
// degree lens.
func NewCamera() *Camera {
	return &Camera{
		Eye:       math3d.Point(0, 3, 5),
		Target:    math3d.Point(0, 0, 0),
		Up:        math3d.Dir(0, 1, 0),
		HFOV:      math32.Pi / 2,
		Aspect:    4.0 / 3.0,
		Near:      0.1,
		Far:       1000,
		viewDirty: true,
		projDirty: true,
	}
}

// LookAt sets the camera placement.
func (c *Camera) LookAt(eye, target, up math3d.Vec4) {
	c.Eye = eye
	c.Target = target
	c.Up = up
	c.viewDirty = true
}

// SetFrustum sets the lens parameters.
func (c *Camera) SetFrustum(hfov, aspect, near, far float32) {
	c.HFOV = hfov
	c.Aspect = aspect
	c.Near = near
	c.Far = far
	c.projDirty = true
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float32) {
	c.Aspect = aspect
	c.projDirty = true
}

// Forward returns the unit viewing direction.
func (c *Camera) Forward() math3d.Vec4 {
	return c.Target.Sub(c.Eye).Normalize()
}

// Distance returns the distance from the eye to the target.
func (c *Camera) Distance() float32 {
	return c.Target.Sub(c.Eye).Len()
}

// Orbit places the eye on a sphere of the given radius around the target.
// Yaw rotates around the world Y axis starting from +Z, pitch raises the eye
// towards +Y. Pitch is clamped just short of the poles so the up vector
// never lines up with the viewing direction.
func (c *Camera) Orbit(yaw, pitch, distance float32) {
	const maxPitch = math32.Pi/2 - 0.01
	pitch = math32.Max(-maxPitch, math32.Min(maxPitch, pitch))

	sy, cy := math32.Sincos(yaw)
	sp, cp := math32.Sincos(pitch)
	offset := math3d.Dir(cp*sy, sp, cp*cy).Scale(distance)

	c.Eye = c.Target.Add(offset)
	c.Eye.W = 1
	c.viewDirty = true
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = CreateViewMatrix(c.Eye, c.Target, c.Up)
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = CreateProjectionMatrix(c.HFOV, c.Aspect, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns View·Proj (view applied first).
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	return c.ViewMatrix().Mul(c.ProjectionMatrix())
}

// Frustum returns the current view frustum in world space.
func (c *Camera) Frustum() Frustum {
	return NewFrustumFromMatrix(c.ViewProjectionMatrix())
}

// WorldToScreen projects a world point to framebuffer coordinates (row 0 at
// the bottom). Returns (x, y, depth, visible) where depth is the view
// distance.
func (c *Camera) WorldToScreen(worldPos math3d.Vec4, width, height int) (x, y, depth float32, visible bool) {
	worldPos.W = 1
	ndc := c.ViewProjectionMatrix().TransformPoint(worldPos)

	// Behind the camera
	if ndc.W <= 0 {
		return 0, 0, 0, false
	}
	if !insideNDC(ndc) {
		return 0, 0, 0, false
	}

	s := Ndc2Screen(ndc, width, height)
	return s.X, s.Y, s.Z, true
}
