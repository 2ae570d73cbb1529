// Package config handles orrery configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/taigrr/orrery/internal/logger"
	"github.com/taigrr/orrery/pkg/orrery"
)

// Front ends.
const (
	ModeTerminal = "terminal"
	ModeWindow   = "window"
	ModeSnapshot = "snapshot"
)

// Config holds all settings of the binary.
type Config struct {
	Mode     string              `yaml:"mode"`
	FPS      int                 `yaml:"fps"`
	Logging  LoggingConfig       `yaml:"logging"`
	Window   WindowConfig        `yaml:"window"`
	Snapshot SnapshotConfig      `yaml:"snapshot"`
	Assets   AssetsConfig        `yaml:"assets"`
	Bindings map[string]string   `yaml:"bindings"` // key name -> action name
	System   orrery.SystemConfig `yaml:"system"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	// File is the log path. Empty means the cache directory in terminal
	// mode and no file otherwise.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// WindowConfig holds desktop window settings. The framebuffer is the
// window size divided by Scale.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Scale  int    `yaml:"scale"`
	Title  string `yaml:"title"`
}

// SnapshotConfig holds headless render settings.
type SnapshotConfig struct {
	Path   string  `yaml:"path"`
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Scale  int     `yaml:"scale"`
	Time   float64 `yaml:"time"` // simulation seconds to advance first
}

// AssetsConfig holds optional external files.
type AssetsConfig struct {
	Sky    string `yaml:"sky"`    // equirectangular JPEG or PNG
	Sphere string `yaml:"sphere"` // GLB replacing the generated sphere
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Mode: ModeTerminal,
		FPS:  30,
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Scale:  2,
			Title:  "orrery",
		},
		Snapshot: SnapshotConfig{
			Path:   "orrery.png",
			Width:  640,
			Height: 360,
			Scale:  1,
		},
		System: orrery.DefaultSystemConfig(),
	}
}

// Validate checks the settings the binary relies on before starting.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeTerminal, ModeWindow, ModeSnapshot:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps %d: must be positive", c.FPS)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 || c.Window.Scale <= 0 {
		return fmt.Errorf("window %dx%d scale %d: must be positive", c.Window.Width, c.Window.Height, c.Window.Scale)
	}
	if c.Snapshot.Width <= 0 || c.Snapshot.Height <= 0 || c.Snapshot.Scale <= 0 {
		return fmt.Errorf("snapshot %dx%d scale %d: must be positive", c.Snapshot.Width, c.Snapshot.Height, c.Snapshot.Scale)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return c.System.Validate()
}

// LogFile returns the rotating file settings for the current mode.
func (c *Config) LogFile() logger.FileConfig {
	path := c.Logging.File
	if path == "" && c.Mode == ModeTerminal {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir = os.TempDir()
		}
		path = filepath.Join(dir, "orrery", "orrery.log")
	}
	return logger.FileConfig{
		Path:       path,
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
		MaxAgeDays: c.Logging.MaxAgeDays,
		Compress:   c.Logging.Compress,
	}
}
