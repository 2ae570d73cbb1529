package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/taigrr/orrery/internal/config"
	"github.com/taigrr/orrery/pkg/orrery"
	"github.com/taigrr/orrery/pkg/render"
)

// runSnapshot advances to the configured simulation time, renders one
// frame and writes it as a PNG.
func runSnapshot(cfg *config.Config, sys *orrery.System, log *zap.Logger) error {
	snap := cfg.Snapshot
	if snap.Time > 0 && cfg.System.TimeScale > 0 {
		sys.Step(0, snap.Time/cfg.System.TimeScale)
	}

	fb := render.NewFramebuffer(snap.Width, snap.Height)
	stats := sys.Render(fb)
	if err := fb.SavePNG(snap.Path, snap.Scale); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	log.Info("snapshot written",
		zap.String("path", snap.Path),
		zap.Float64("time", sys.Time()),
		zap.Int("triangles", stats.Triangles),
		zap.Int("fragments", stats.Fragments),
	)
	return nil
}
