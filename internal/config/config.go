// Package config handles scene and render configuration loading.
package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalid is returned by Validate for settings the renderer cannot use.
var ErrInvalid = errors.New("invalid config")

// Vec3 is an (x, y, z) triple, written as a YAML flow sequence.
type Vec3 [3]float32

// Config holds all scene and render settings.
type Config struct {
	Output  string        `yaml:"output"`
	Render  RenderConfig  `yaml:"render"`
	Camera  CameraConfig  `yaml:"camera"`
	Light   LightConfig   `yaml:"light"`
	Models  []ModelConfig `yaml:"models"`
	Preview PreviewConfig `yaml:"preview"`
	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig holds framebuffer and rasterizer settings.
type RenderConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Multisample int    `yaml:"multisample"` // 1, 2 or 4 sub-samples per axis
	Mode        string `yaml:"mode"`        // shaded, wireframe or shaded+wireframe
	WireColor   Vec3   `yaml:"wire_color"`
	Background  Vec3   `yaml:"background"`
	Axes        bool   `yaml:"axes"`
	Grid        bool   `yaml:"grid"`
	Bounds      bool   `yaml:"bounds"`
}

// CameraConfig holds the view and lens.
type CameraConfig struct {
	Eye    Vec3    `yaml:"eye"`
	Target Vec3    `yaml:"target"`
	Up     Vec3    `yaml:"up"`
	FOV    float32 `yaml:"fov"` // horizontal, degrees
	Near   float32 `yaml:"near"`
	Far    float32 `yaml:"far"`
}

// LightConfig holds the point light.
type LightConfig struct {
	Position Vec3 `yaml:"position"`
	Ambient  Vec3 `yaml:"ambient"`
	Diffuse  Vec3 `yaml:"diffuse"`
	Specular Vec3 `yaml:"specular"`
}

// ModelConfig places one mesh in the scene.
type ModelConfig struct {
	Path     string         `yaml:"path"`
	Texture  string         `yaml:"texture"` // defaults to <path>.bmp when the mesh has UVs
	Position Vec3           `yaml:"position"`
	Material MaterialConfig `yaml:"material"`
}

// MaterialConfig holds reflectance coefficients.
type MaterialConfig struct {
	Ka float32 `yaml:"ka"`
	Kd float32 `yaml:"kd"`
	Ks float32 `yaml:"ks"`
}

// PreviewConfig holds interactive viewer settings.
type PreviewConfig struct {
	FPS       int     `yaml:"fps"`
	Frequency float64 `yaml:"frequency"` // camera spring angular frequency
	Damping   float64 `yaml:"damping"`   // camera spring damping ratio
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns the demo scene: four models under res/ seen from (0, 3, 5)
// with a reddish ambient light.
func Default() *Config {
	return &Config{
		Output: "output.bmp",
		Render: RenderConfig{
			Width:       1024,
			Height:      768,
			Multisample: 1,
			Mode:        "shaded",
			WireColor:   Vec3{1, 1, 1},
			Background:  Vec3{0, 0, 0.34},
		},
		Camera: CameraConfig{
			Eye:    Vec3{0, 3, 5},
			Target: Vec3{0, 0, 0},
			Up:     Vec3{0, 1, 0},
			FOV:    90,
			Near:   0.1,
			Far:    1000,
		},
		Light: LightConfig{
			Position: Vec3{-10, 30, 30},
			Ambient:  Vec3{0.5, 0, 0},
			Diffuse:  Vec3{0.8, 0.8, 0.8},
			Specular: Vec3{0.5, 0.5, 0.5},
		},
		Models: []ModelConfig{
			{Path: "res/cube.obj", Position: Vec3{-2, 0, 2}, Material: MaterialConfig{0.3, 0.8, 0.8}},
			{Path: "res/sphere.obj", Position: Vec3{2.5, -0.5, 1.5}, Material: MaterialConfig{0.1, 1.0, 0.5}},
			{Path: "res/bunny.obj", Position: Vec3{0, 0, 0}, Material: MaterialConfig{0.1, 0.8, 0.7}},
			{Path: "res/dragon.obj", Position: Vec3{13, -5, -18}, Material: MaterialConfig{0.1, 0.8, 0.7}},
		},
		Preview: PreviewConfig{
			FPS:       30,
			Frequency: 6.0,
			Damping:   1.0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

func (v Vec3) sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// parallel reports whether a and b point along the same line, within float32
// precision.
func parallel(a, b Vec3) bool {
	ax, ay, az := float64(a[0]), float64(a[1]), float64(a[2])
	bx, by, bz := float64(b[0]), float64(b[1]), float64(b[2])
	cx, cy, cz := ay*bz-az*by, az*bx-ax*bz, ax*by-ay*bx
	cross := math.Sqrt(cx*cx + cy*cy + cz*cz)
	return cross <= 1e-6*math.Sqrt(ax*ax+ay*ay+az*az)*math.Sqrt(bx*bx+by*by+bz*bz)
}

// DefaultMaterial is used for models added on the command line.
func DefaultMaterial() MaterialConfig {
	return MaterialConfig{Ka: 0.1, Kd: 0.8, Ks: 0.5}
}

// Validate reports the first setting the renderer cannot use.
func (c *Config) Validate() error {
	r := c.Render
	switch {
	case r.Width <= 0 || r.Height <= 0:
		return fmt.Errorf("%w: render size %dx%d", ErrInvalid, r.Width, r.Height)
	case r.Multisample != 1 && r.Multisample != 2 && r.Multisample != 4:
		return fmt.Errorf("%w: multisample %d (want 1, 2 or 4)", ErrInvalid, r.Multisample)
	}
	switch r.Mode {
	case "shaded", "wireframe", "shaded+wireframe":
	default:
		return fmt.Errorf("%w: render mode %q", ErrInvalid, r.Mode)
	}

	cam := c.Camera
	switch {
	case cam.FOV <= 0 || cam.FOV >= 180:
		return fmt.Errorf("%w: fov %v (want 0 < fov < 180)", ErrInvalid, cam.FOV)
	case cam.Near <= 0 || cam.Far <= cam.Near:
		return fmt.Errorf("%w: clip range [%v, %v]", ErrInvalid, cam.Near, cam.Far)
	case cam.Eye == cam.Target:
		return fmt.Errorf("%w: camera eye equals target", ErrInvalid)
	case cam.Up == Vec3{}:
		return fmt.Errorf("%w: camera up is zero", ErrInvalid)
	case parallel(cam.Up, cam.Eye.sub(cam.Target)):
		return fmt.Errorf("%w: camera up %v is parallel to the view direction", ErrInvalid, cam.Up)
	}

	if len(c.Models) == 0 {
		return fmt.Errorf("%w: no models", ErrInvalid)
	}
	for i, m := range c.Models {
		if m.Path == "" {
			return fmt.Errorf("%w: model %d has no path", ErrInvalid, i)
		}
	}
	return nil
}
