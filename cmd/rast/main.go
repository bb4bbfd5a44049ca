// rast - CPU triangle rasterizer
// Renders OBJ and glTF scenes to BMP/PNG, to ANSI half-block text, or in an
// interactive terminal viewer.
//
// Preview controls:
//
//	Arrows / WASD - Orbit the camera (yaw/pitch)
//	+/-           - Zoom in/out
//	X             - Cycle shaded, wireframe, shaded+wireframe
//	R             - Reset view
//	Esc / Q       - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/taigrr/rast/internal/config"
	"github.com/taigrr/rast/internal/logger"
	"github.com/taigrr/rast/pkg/models"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "rast - CPU triangle rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: rast [options] [model.obj|model.glb ...]\n\n")
		fmt.Fprintf(os.Stderr, "Without model arguments the scene from -config, ./rast.yaml or the user\n")
		fmt.Fprintf(os.Stderr, "config directory is rendered. The built-in scene reads res/cube.obj,\n")
		fmt.Fprintf(os.Stderr, "res/sphere.obj, res/bunny.obj and res/dragon.obj from the working directory.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nPreview controls:\n")
		fmt.Fprintf(os.Stderr, "  Arrows/WASD - Orbit camera\n")
		fmt.Fprintf(os.Stderr, "  +/-         - Zoom\n")
		fmt.Fprintf(os.Stderr, "  X           - Cycle render mode\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  Esc/Q       - Quit\n")
	}
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)

	if err := run(cfg); err != nil {
		logger.Error("rast failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run(cfg *config.Config) error {
	if path := config.DumpConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			return fmt.Errorf("dump config: %w", err)
		}
		logger.Info("config written", zap.String("path", path))
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	scene, err := loadScene(cfg)
	if err != nil {
		return err
	}

	if config.Preview() {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runPreview(ctx, cfg, scene)
	}
	return renderOffline(cfg, scene, config.ANSIColumns(), os.Stdout)
}

// renderOffline draws the scene once, saves it to cfg.Output and, when cols
// is positive, prints it to out as half-block text.
func renderOffline(cfg *config.Config, scene []*models.Model, cols int, out io.Writer) error {
	start := time.Now()

	r, err := newRender(cfg, cfg.Render.Width, cfg.Render.Height)
	if err != nil {
		return err
	}
	drawScene(r, scene, cfg.Render)

	s := r.Stats()
	logger.Info("rendered",
		zap.Int("width", cfg.Render.Width),
		zap.Int("height", cfg.Render.Height),
		zap.Int("triangles", s.TrianglesTested),
		zap.Int("rasterized", s.Rasterized),
		zap.Int("frustum_rejected", s.FrustumRejected),
		zap.Int("backface_rejected", s.BackFaceRejected),
		zap.Int("pixels", s.PixelsShaded),
		zap.Int("models_culled", s.ModelsCulled),
		zap.Duration("took", time.Since(start)),
	)

	start = time.Now()
	if err := r.Framebuffer().Save(cfg.Output); err != nil {
		return err
	}
	logger.Info("saved", zap.String("path", cfg.Output), zap.Duration("took", time.Since(start)))

	if cols > 0 {
		if _, err := fmt.Fprintln(out, r.Framebuffer().ANSI(cols)); err != nil {
			return fmt.Errorf("write ansi: %w", err)
		}
	}
	return nil
}
