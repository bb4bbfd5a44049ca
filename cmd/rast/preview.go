package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/taigrr/rast/internal/config"
	"github.com/taigrr/rast/internal/logger"
	"github.com/taigrr/rast/pkg/math3d"
	"github.com/taigrr/rast/pkg/models"
	"github.com/taigrr/rast/pkg/render"
)

const (
	orbitStep   = 0.15 // radians per key press
	zoomStep    = 1.15
	minDistance = 0.5
	maxDistance = 500
	maxPitch    = math.Pi/2 - 0.05
)

// orbit moves the camera around its target. Yaw, pitch and distance chase
// their targets through critically damped springs.
type orbit struct {
	yaw, pitch, dist          float64
	yawVel, pitchVel, distVel float64

	targetYaw, targetPitch, targetDist float64
	homeYaw, homePitch, homeDist       float64

	spring harmonica.Spring
}

// newOrbit starts at the angles and distance of eye as seen from target.
func newOrbit(eye, target math3d.Vec4, pc config.PreviewConfig) *orbit {
	d := eye.Sub(target)
	dist := float64(d.Len())
	yaw := math.Atan2(float64(d.X), float64(d.Z))
	pitch := 0.0
	if dist > 0 {
		pitch = math.Asin(float64(d.Y) / dist)
	}

	fps := max(1, pc.FPS)
	o := &orbit{
		homeYaw:   yaw,
		homePitch: pitch,
		homeDist:  dist,
		spring:    harmonica.NewSpring(harmonica.FPS(fps), pc.Frequency, pc.Damping),
	}
	o.reset()
	o.yaw, o.pitch, o.dist = o.targetYaw, o.targetPitch, o.targetDist
	return o
}

// update advances every axis one frame towards its target.
func (o *orbit) update() {
	o.yaw, o.yawVel = o.spring.Update(o.yaw, o.yawVel, o.targetYaw)
	o.pitch, o.pitchVel = o.spring.Update(o.pitch, o.pitchVel, o.targetPitch)
	o.dist, o.distVel = o.spring.Update(o.dist, o.distVel, o.targetDist)
}

func (o *orbit) push(dyaw, dpitch float64) {
	o.targetYaw += dyaw
	o.targetPitch = math.Max(-maxPitch, math.Min(maxPitch, o.targetPitch+dpitch))
}

func (o *orbit) zoom(factor float64) {
	o.targetDist = math.Max(minDistance, math.Min(maxDistance, o.targetDist*factor))
}

// reset aims the targets back at the starting view; the springs carry the
// camera there.
func (o *orbit) reset() {
	o.targetYaw = o.homeYaw
	o.targetPitch = o.homePitch
	o.targetDist = o.homeDist
}

func (o *orbit) apply(cam *render.Camera) {
	cam.Orbit(float32(o.yaw), float32(o.pitch), float32(o.dist))
}

// viewer holds the interactive preview state.
type viewer struct {
	cfg    *config.Config
	scene  []*models.Model
	orbit  *orbit
	mode   render.Mode
	r      *render.Render
	frames int
}

func newViewer(cfg *config.Config, scene []*models.Model) (*viewer, error) {
	mode, err := parseMode(cfg.Render.Mode)
	if err != nil {
		return nil, err
	}
	return &viewer{
		cfg:   cfg,
		scene: scene,
		orbit: newOrbit(point(cfg.Camera.Eye), point(cfg.Camera.Target), cfg.Preview),
		mode:  mode,
	}, nil
}

// resize recreates the renderer for a terminal of cols×rows cells, two
// pixel rows per cell.
func (v *viewer) resize(cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		v.r = nil
		return nil
	}
	r, err := newRender(v.cfg, cols, rows*2)
	if err != nil {
		return err
	}
	r.SetMode(v.mode)
	v.r = r
	return nil
}

// key handles a key press and reports whether the viewer should quit.
func (v *viewer) key(ev uv.KeyPressEvent) bool {
	switch {
	case ev.MatchString("esc", "ctrl+c", "q"):
		return true
	case ev.MatchString("left", "a"):
		v.orbit.push(-orbitStep, 0)
	case ev.MatchString("right", "d"):
		v.orbit.push(orbitStep, 0)
	case ev.MatchString("up", "w"):
		v.orbit.push(0, orbitStep)
	case ev.MatchString("down", "s"):
		v.orbit.push(0, -orbitStep)
	case ev.Text == "+", ev.MatchString("="): // "+" is the combo separator
		v.orbit.zoom(1 / zoomStep)
	case ev.MatchString("-", "_"):
		v.orbit.zoom(zoomStep)
	case ev.MatchString("r"):
		v.orbit.reset()
	case ev.MatchString("x"):
		v.mode = (v.mode + 1) % 3
		if v.r != nil {
			v.r.SetMode(v.mode)
		}
	}
	return false
}

// frame steps the springs and paints one image into area.
func (v *viewer) frame(scr uv.Screen, area uv.Rectangle) {
	if v.r == nil {
		return
	}
	v.orbit.update()
	v.orbit.apply(v.r.Camera())

	v.r.Clear()
	v.r.ResetStats()
	drawScene(v.r, v.scene, v.cfg.Render)
	v.r.Framebuffer().Draw(scr, area)
	v.frames++
}

// runPreview shows the scene in the alternate screen until the user quits or
// ctx is cancelled.
func runPreview(ctx context.Context, cfg *config.Config, scene []*models.Model) error {
	v, err := newViewer(cfg, scene)
	if err != nil {
		return err
	}

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		_ = term.Shutdown(context.Background())
	}()

	term.EnterAltScreen()
	term.HideCursor()
	if err := term.Resize(width, height); err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	if err := v.resize(width, height); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Second / time.Duration(max(1, cfg.Preview.FPS)))
	defer ticker.Stop()

	start := time.Now()
	defer func() {
		logger.Info("preview closed",
			zap.Int("frames", v.frames),
			zap.Duration("elapsed", time.Since(start)),
		)
	}()

	events := term.Events()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				term.Erase()
				if err := term.Resize(ev.Width, ev.Height); err != nil {
					return fmt.Errorf("resize: %w", err)
				}
				if err := v.resize(ev.Width, ev.Height); err != nil {
					return err
				}
				logger.Debug("terminal resized", zap.Int("cols", ev.Width), zap.Int("rows", ev.Height))
			case uv.KeyPressEvent:
				if v.key(ev) {
					return nil
				}
			}

		case <-ticker.C:
			v.frame(term, term.Bounds())
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}
