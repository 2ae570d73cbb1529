// orrery - a software-rendered solar system
// Fly around a sun, six planets and a moon in your terminal, in a desktop
// window, or render a single frame to PNG.
//
// Controls:
//
//	W/S         - Move forward/back
//	A/D         - Strafe left/right
//	R/F         - Move up/down
//	Arrows      - Turn (yaw) and look up/down (pitch)
//	Q/E         - Zoom in/out
//	Esc         - Quit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/taigrr/orrery/internal/config"
	"github.com/taigrr/orrery/internal/logger"
	"github.com/taigrr/orrery/pkg/input"
	"github.com/taigrr/orrery/pkg/models"
	"github.com/taigrr/orrery/pkg/orrery"
	"github.com/taigrr/orrery/pkg/shading"
)

func main() {
	flags := config.NewFlags("orrery", os.Stderr)
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			usage(flags)
			return
		}
		os.Exit(2)
	}

	if err := run(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage(flags *config.Flags) {
	fmt.Fprintf(os.Stderr, "orrery - a software-rendered solar system\n\n")
	fmt.Fprintf(os.Stderr, "Usage: orrery [options]\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flags.Usage()
	fmt.Fprintf(os.Stderr, "\nControls:\n")
	fmt.Fprintf(os.Stderr, "  W/S/A/D     - Move and strafe\n")
	fmt.Fprintf(os.Stderr, "  R/F         - Up/down\n")
	fmt.Fprintf(os.Stderr, "  Arrows      - Turn and look\n")
	fmt.Fprintf(os.Stderr, "  Q/E         - Zoom in/out\n")
	fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
}

func run(flags *config.Flags) error {
	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	if path := flags.SaveConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
		return nil
	}

	// The terminal is the display, so it logs to the file only.
	var console io.Writer = os.Stderr
	if cfg.Mode == config.ModeTerminal {
		console = nil
	}
	if err := logger.Init(cfg.Logging.Level, cfg.LogFile(), console); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Log

	bindings, err := input.DefaultBindings().Merge(cfg.Bindings)
	if err != nil {
		return fmt.Errorf("key bindings: %w", err)
	}

	sys, err := newSystem(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting", zap.String("mode", cfg.Mode), zap.Int("fps", cfg.FPS))
	switch cfg.Mode {
	case config.ModeWindow:
		return runWindow(cfg, sys, bindings, log)
	case config.ModeSnapshot:
		return runSnapshot(cfg, sys, log)
	default:
		return runTerminal(ctx, cfg, sys, bindings, log)
	}
}

// newSystem loads the optional assets and builds the solar system. A sky
// image that fails to load falls back to the generated starfield.
func newSystem(cfg *config.Config, log *zap.Logger) (*orrery.System, error) {
	var meshes orrery.Meshes
	var err error
	if cfg.Assets.Sphere != "" {
		if meshes.Sphere, err = models.LoadGLB(cfg.Assets.Sphere); err != nil {
			return nil, fmt.Errorf("load sphere: %w", err)
		}
	}
	if cfg.System.Ship.Model != "" {
		if meshes.Ship, err = models.LoadGLB(cfg.System.Ship.Model); err != nil {
			return nil, fmt.Errorf("load ship: %w", err)
		}
		log.Info("ship model loaded",
			zap.String("path", cfg.System.Ship.Model),
			zap.Int("triangles", meshes.Ship.TriangleCount()),
		)
	}

	opts := []orrery.Option{orrery.WithLogger(log)}
	if cfg.Assets.Sky != "" {
		tex, err := shading.LoadSkyTexture(cfg.Assets.Sky)
		if err != nil {
			log.Warn("sky image unavailable, using the starfield", zap.String("path", cfg.Assets.Sky), zap.Error(err))
		} else {
			opts = append(opts, orrery.WithSky(tex))
		}
	}

	sys, err := orrery.NewSolarSystem(cfg.System, meshes, opts...)
	if err != nil {
		return nil, fmt.Errorf("build solar system: %w", err)
	}
	return sys, nil
}
