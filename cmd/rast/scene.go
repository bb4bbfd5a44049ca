package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/taigrr/rast/internal/config"
	"github.com/taigrr/rast/internal/logger"
	"github.com/taigrr/rast/pkg/math3d"
	"github.com/taigrr/rast/pkg/models"
	"github.com/taigrr/rast/pkg/render"
)

var errUnsupportedModel = errors.New("unsupported model format (use .obj, .glb or .gltf)")

func point(v config.Vec3) math3d.Vec4 { return math3d.Point(v[0], v[1], v[2]) }
func dir(v config.Vec3) math3d.Vec4 { return math3d.Dir(v[0], v[1], v[2]) }
func rgb(v config.Vec3) math3d.Vec4 { return math3d.V4(v[0], v[1], v[2], 1) }

// loadModel reads a mesh, its texture and its placement.
func loadModel(mc config.ModelConfig) (*models.Model, error) {
	m, err := loadMesh(mc)
	if err != nil {
		return nil, err
	}
	place(m, mc)
	return m, nil
}

// loadMesh reads the geometry and texture of a model.
func loadMesh(mc config.ModelConfig) (*models.Model, error) {
	ext := strings.ToLower(filepath.Ext(mc.Path))

	var (
		m   *models.Model
		err error
	)
	switch ext {
	case ".obj":
		m, err = models.LoadOBJ(mc.Path)
	case ".glb", ".gltf":
		m, err = models.NewGLTFLoader().Load(mc.Path)
	default:
		return nil, fmt.Errorf("%s: %w", mc.Path, errUnsupportedModel)
	}
	if err != nil {
		return nil, err
	}

	if !m.HasNormals() {
		m.GenerateNormals()
	}

	if m.HasUVs() {
		if err := loadModelTexture(m, mc); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// place applies the configured material and position, keeping the texture.
func place(m *models.Model, mc config.ModelConfig) {
	tex := m.Material.Texture
	m.Material = models.NewMaterial(mc.Material.Ka, mc.Material.Kd, mc.Material.Ks)
	m.Material.Texture = tex
	m.World = render.CreateModelMatrix(point(mc.Position))
}

// loadModelTexture applies the explicit texture, or <model>.bmp beside the
// mesh when present. An embedded glTF image is kept otherwise.
func loadModelTexture(m *models.Model, mc config.ModelConfig) error {
	path := mc.Texture
	if path == "" {
		guess := strings.TrimSuffix(mc.Path, filepath.Ext(mc.Path)) + ".bmp"
		if _, err := os.Stat(guess); err != nil {
			return nil
		}
		path = guess
	}

	tex, err := models.LoadTexture(path)
	if err != nil {
		return err
	}
	m.Material.Texture = tex
	return nil
}

// loadScene loads every configured model. A mesh listed more than once with
// the same texture is read once and copied for the other placements.
func loadScene(cfg *config.Config) ([]*models.Model, error) {
	type meshKey struct{ path, texture string }
	loaded := make(map[meshKey]*models.Model)

	scene := make([]*models.Model, 0, len(cfg.Models))
	for _, mc := range cfg.Models {
		start := time.Now()

		key := meshKey{mc.Path, mc.Texture}
		var m *models.Model
		if src, ok := loaded[key]; ok {
			m = src.Clone()
		} else {
			var err error
			if m, err = loadMesh(mc); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil, fmt.Errorf("load model (pass model files or -config): %w", err)
				}
				return nil, fmt.Errorf("load model: %w", err)
			}
			loaded[key] = m.Clone()
		}
		place(m, mc)

		c, size := m.Center(), m.Size()
		logger.Info("loaded model",
			zap.String("path", mc.Path),
			zap.Int("vertices", m.VertexCount()),
			zap.Int("triangles", m.TriangleCount()),
			zap.Bool("textured", !m.Material.Texture.Empty()),
			zap.Float32s("center", []float32{c.X, c.Y, c.Z}),
			zap.Float32s("size", []float32{size.X, size.Y, size.Z}),
			zap.Duration("took", time.Since(start)),
		)
		scene = append(scene, m)
	}
	return scene, nil
}

func parseMode(s string) (render.Mode, error) {
	for _, m := range []render.Mode{render.ModeShaded, render.ModeWireframe, render.ModeShadedWireframe} {
		if m.String() == s {
			return m, nil
		}
	}
	return render.ModeShaded, fmt.Errorf("unknown render mode %q", s)
}

// newRender creates a width×height renderer configured from cfg.
func newRender(cfg *config.Config, width, height int) (*render.Render, error) {
	r := render.NewRender(width, height)

	cam := cfg.Camera
	r.SetFrustum(cam.FOV*math32.Pi/180, float32(width)/float32(height), cam.Near, cam.Far)
	r.SetCamera(point(cam.Eye), point(cam.Target), dir(cam.Up))

	l := cfg.Light
	r.SetLight(point(l.Position), rgb(l.Ambient), rgb(l.Diffuse), rgb(l.Specular))

	if err := r.SetMultisample(cfg.Render.Multisample); err != nil {
		return nil, err
	}
	mode, err := parseMode(cfg.Render.Mode)
	if err != nil {
		return nil, err
	}
	r.SetMode(mode)
	r.SetBackground(rgb(cfg.Render.Background))
	r.SetWireColor(rgb(cfg.Render.WireColor))
	r.Clear()
	return r, nil
}

// drawScene draws every model and the requested guides.
func drawScene(r *render.Render, scene []*models.Model, rc config.RenderConfig) {
	for _, m := range scene {
		r.DrawModel(m)
	}

	ov := r.Overlay()
	if rc.Grid {
		ov.DrawGrid(10, 1, render.ColorGray)
	}
	if rc.Axes {
		ov.DrawAxes(1)
	}
	if rc.Bounds {
		for _, m := range scene {
			lo, hi := m.Bounds()
			ov.DrawBox(render.NewAABB(lo, hi).Transform(m.World), render.ColorGreen)
		}
	}
}
