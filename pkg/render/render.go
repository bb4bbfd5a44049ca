package render

import (
	"errors"
	"fmt"

	"github.com/taigrr/rast/pkg/math3d"
	"github.com/taigrr/rast/pkg/models"
)

// ErrMultisample is returned for unsupported sample counts.
var ErrMultisample = errors.New("multisample count must be 1, 2 or 4")

// Mode selects what DrawModel writes.
type Mode int

const (
	ModeShaded Mode = iota
	ModeWireframe
	ModeShadedWireframe
)

func (m Mode) String() string {
	switch m {
	case ModeShaded:
		return "shaded"
	case ModeWireframe:
		return "wireframe"
	case ModeShadedWireframe:
		return "shaded+wireframe"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// WireColor is the default color of wireframe edges.
var WireColor = math3d.V4(1, 1, 1, 1)

// Stats counts what the pipeline did since the last reset.
type Stats struct {
	TrianglesTested  int
	FrustumRejected  int
	BackFaceRejected int
	Rasterized       int
	PixelsShaded     int
	ModelsCulled     int
	ModelsDrawn      int
}

// Add accumulates another set of counters.
func (s *Stats) Add(o Stats) {
	s.TrianglesTested += o.TrianglesTested
	s.FrustumRejected += o.FrustumRejected
	s.BackFaceRejected += o.BackFaceRejected
	s.Rasterized += o.Rasterized
	s.PixelsShaded += o.PixelsShaded
	s.ModelsCulled += o.ModelsCulled
	s.ModelsDrawn += o.ModelsDrawn
}

// Render owns a framebuffer, a camera and a light, and draws models into the
// framebuffer. A Render is not safe for concurrent use.
type Render struct {
	fb         *Framebuffer
	raster     *Rasterizer
	camera     *Camera
	light      Light
	mode       Mode
	background math3d.Vec4
	wire       math3d.Vec4
	stats      Stats
}

// NewRender creates a renderer with a cleared width×height framebuffer, the
// default camera with a matching aspect ratio and a white light at the origin.
func NewRender(width, height int) *Render {
	fb := NewFramebuffer(width, height)
	cam := NewCamera()
	if height > 0 {
		cam.SetAspectRatio(float32(width) / float32(height))
	}
	return &Render{
		fb:     fb,
		raster: NewRasterizer(fb),
		camera: cam,
		light: Light{
			Pos:      math3d.Point(0, 0, 0),
			Ambient:  math3d.V4(1, 1, 1, 1),
			Diffuse:  math3d.V4(1, 1, 1, 1),
			Specular: math3d.V4(1, 1, 1, 1),
		},
		background: Background,
		wire:       WireColor,
	}
}

// SetFrustum sets the lens: horizontal field of view in radians, width/height
// ratio and clip distances.
func (r *Render) SetFrustum(hfov, ratio, near, far float32) {
	r.camera.SetFrustum(hfov, ratio, near, far)
}

// SetCamera places the camera.
func (r *Render) SetCamera(eye, target, up math3d.Vec4) {
	r.camera.LookAt(eye, target, up)
}

// Camera returns the camera for direct manipulation.
func (r *Render) Camera() *Camera {
	return r.camera
}

// SetLight sets the point light.
func (r *Render) SetLight(pos, ambient, diffuse, specular math3d.Vec4) {
	r.light = Light{
		Pos:      pos,
		Ambient:  ambient,
		Diffuse:  diffuse,
		Specular: specular,
	}
}

// Light returns the current light.
func (r *Render) Light() Light {
	return r.light
}

// SetMultisample sets the number of sub-samples per pixel axis used for edge
// coverage.
func (r *Render) SetMultisample(n int) error {
	switch n {
	case 1, 2, 4:
		r.raster.samples = n
		return nil
	default:
		return fmt.Errorf("%w: got %d", ErrMultisample, n)
	}
}

// Multisample returns the sub-samples per pixel axis.
func (r *Render) Multisample() int {
	return r.raster.samples
}

// SetMode selects shaded, wireframe or both.
func (r *Render) SetMode(m Mode) {
	r.mode = m
}

// SetBackground sets the color Clear fills with.
func (r *Render) SetBackground(c math3d.Vec4) {
	r.background = c
}

// SetWireColor sets the color of wireframe edges.
func (r *Render) SetWireColor(c math3d.Vec4) {
	r.wire = c
}

// Framebuffer returns the framebuffer being drawn into.
func (r *Render) Framebuffer() *Framebuffer {
	return r.fb
}

// Stats returns the counters accumulated since the last reset.
func (r *Render) Stats() Stats {
	return r.stats
}

// ResetStats zeroes the counters.
func (r *Render) ResetStats() {
	r.stats = Stats{}
}

// Clear resets the framebuffer to the background color and infinite depth.
func (r *Render) Clear() {
	r.fb.Clear(r.background)
}

// ExportFramebuffer returns the image as top-down row-major colors clamped
// to [0, 1].
func (r *Render) ExportFramebuffer() []math3d.Vec4 {
	return r.fb.Export()
}

// DrawModel draws every triangle of m. Calls accumulate into the same
// framebuffer; the depth test resolves overlap regardless of order.
func (r *Render) DrawModel(m *models.Model) {
	view := r.camera.ViewMatrix()
	proj := r.camera.ProjectionMatrix()
	r.light.ViewPos = view.TransformPoint(r.light.Pos)

	if len(m.Indices) > 0 {
		lo, hi := m.Bounds()
		box := NewAABB(lo, hi).Transform(m.World)
		if !NewFrustumFromMatrix(view.Mul(proj)).IntersectAABB(box) {
			r.stats.ModelsCulled++
			return
		}
	}
	r.stats.ModelsDrawn++

	xf := newTransform(m.World, view, proj)
	shade := Shader(&r.light, &m.Material)
	filled := r.mode != ModeWireframe
	wired := r.mode != ModeShaded

	for _, idx := range m.Indices {
		r.stats.TrianglesTested++
		v := xf.triangle(m, idx)

		switch Classify(&v[0], &v[1], &v[2]) {
		case CullFrustum:
			r.stats.FrustumRejected++
			continue
		case CullBackFace:
			r.stats.BackFaceRejected++
			continue
		}

		r.stats.Rasterized++
		if filled {
			r.stats.PixelsShaded += r.raster.DrawTriangle(&v[0], &v[1], &v[2], shade)
		}
		if wired {
			r.raster.DrawWire(&v[0], &v[1], &v[2], r.wire)
		}
	}
}
