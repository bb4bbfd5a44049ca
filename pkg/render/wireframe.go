package render

import (
	"github.com/taigrr/rast/pkg/math3d"
)

// Overlay colors
var (
	ColorRed   = math3d.V4(1, 0, 0, 1)
	ColorGreen = math3d.V4(0, 1, 0, 1)
	ColorBlue  = math3d.V4(0, 0, 1, 1)
	ColorGray  = math3d.V4(0.5, 0.5, 0.5, 1)
)

// Wireframe draws world-space guide lines over the framebuffer without a
// depth test.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer
}

// NewWireframe creates a new wireframe renderer.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{
		camera: camera,
		fb:     fb,
	}
}

// Overlay returns a wireframe renderer sharing the camera and framebuffer.
func (r *Render) Overlay() *Wireframe {
	return NewWireframe(r.camera, r.fb)
}

// DrawLine3D draws a line in 3D space. Lines with an endpoint outside the
// view volume are skipped.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec4, color math3d.Vec4) {
	x1, y1, _, vis1 := w.camera.WorldToScreen(p1, w.fb.Width, w.fb.Height)
	x2, y2, _, vis2 := w.camera.WorldToScreen(p2, w.fb.Width, w.fb.Height)
	if !vis1 || !vis2 {
		return
	}

	w.fb.DrawLine(int(x1), int(y1), int(x2), int(y2), color)
}

// DrawBox draws the 12 edges of a world-space box.
func (w *Wireframe) DrawBox(box AABB, color math3d.Vec4) {
	c := box.Corners()

	edges := [12][2]int{
		// Back face
		{0, 1},
		{1, 2},
		{2, 3},
		{3, 0},
		// Front face
		{4, 5},
		{5, 6},
		{6, 7},
		{7, 4},
		// Connecting edges
		{0, 4},
		{1, 5},
		{2, 6},
		{3, 7},
	}

	for _, edge := range edges {
		w.DrawLine3D(c[edge[0]], c[edge[1]], color)
	}
}

// DrawAxes draws the coordinate axes at the origin.
func (w *Wireframe) DrawAxes(length float32) {
	origin := math3d.Point(0, 0, 0)
	w.DrawLine3D(origin, math3d.Point(length, 0, 0), ColorRed)
	w.DrawLine3D(origin, math3d.Point(0, length, 0), ColorGreen)
	w.DrawLine3D(origin, math3d.Point(0, 0, length), ColorBlue)
}

// DrawGrid draws a grid on the XZ plane at y=0.
func (w *Wireframe) DrawGrid(size, step float32, color math3d.Vec4) {
	if step <= 0 {
		return
	}
	half := size / 2
	for x := -half; x <= half; x += step {
		w.DrawLine3D(math3d.Point(x, 0, -half), math3d.Point(x, 0, half), color)
	}
	for z := -half; z <= half; z += step {
		w.DrawLine3D(math3d.Point(-half, 0, z), math3d.Point(half, 0, z), color)
	}
}
