package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Mode != ModeTerminal {
		t.Errorf("expected terminal mode, got %s", cfg.Mode)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if len(cfg.System.Bodies) != 7 {
		t.Errorf("expected six planets and a moon, got %d bodies", len(cfg.System.Bodies))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	yamlContent := `
mode: snapshot
fps: 24
logging:
  level: debug
  file: orrery.log
snapshot:
  path: out.png
  width: 320
  height: 180
  time: 12.5
assets:
  sky: sky.jpg
bindings:
  z: zoom-in
system:
  seed: 42
  time_scale: 3
  workers: 4
  ship:
    enabled: false
  bodies:
    - name: vulcan
      kind: rocky
      palette: ["#330000", "#ff6600"]
      radius: 6
      speed: 0.9
      scale: 0.8
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Mode != ModeSnapshot || cfg.FPS != 24 {
		t.Errorf("mode %s fps %d", cfg.Mode, cfg.FPS)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.File != "orrery.log" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Snapshot.Width != 320 || cfg.Snapshot.Time != 12.5 {
		t.Errorf("snapshot = %+v", cfg.Snapshot)
	}
	// Unset fields keep their defaults.
	if cfg.Snapshot.Scale != 1 {
		t.Errorf("expected snapshot scale 1, got %d", cfg.Snapshot.Scale)
	}
	if cfg.Bindings["z"] != "zoom-in" {
		t.Errorf("bindings = %v", cfg.Bindings)
	}
	if cfg.System.Seed != 42 || cfg.System.TimeScale != 3 || cfg.System.Workers != 4 {
		t.Errorf("system = seed %d scale %v workers %d", cfg.System.Seed, cfg.System.TimeScale, cfg.System.Workers)
	}
	if cfg.System.Ship.Enabled {
		t.Error("expected ship disabled")
	}
	if cfg.System.Ship.Offset != 15 {
		t.Errorf("expected default ship offset 15, got %v", cfg.System.Ship.Offset)
	}
	if len(cfg.System.Bodies) != 1 || cfg.System.Bodies[0].Name != "vulcan" {
		t.Errorf("bodies = %+v", cfg.System.Bodies)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config invalid: %v", err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.yaml")
	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(path, []byte(invalidYAML), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if err := loadFromFile(Default(), path); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/orrery.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Fatal("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("mode: window\nfps: 50\nsystem:\n  seed: 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	flags := NewFlags("orrery", io.Discard)
	args := []string{"-config", path, "-mode", "snapshot", "-debug", "-width", "200", "-no-paths", "-at", "4"}
	if err := flags.Parse(args); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"mode from flag", cfg.Mode, ModeSnapshot},
		{"fps from file", cfg.FPS, 50},
		{"seed from file", cfg.System.Seed, int64(9)},
		{"debug level", cfg.Logging.Level, "debug"},
		{"snapshot width", cfg.Snapshot.Width, 200},
		{"window width", cfg.Window.Width, 200},
		{"height untouched", cfg.Snapshot.Height, 360},
		{"paths off", cfg.System.Paths.Enabled, false},
		{"snapshot time", cfg.Snapshot.Time, 4.0},
		{"ship untouched", cfg.System.Ship.Enabled, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown mode", []string{"-mode", "vr"}, "unknown mode"},
		{"zero fps", []string{"-fps", "0"}, "fps"},
		{"negative time scale", []string{"-time-scale", "-2"}, "time scale"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := NewFlags("orrery", io.Discard)
			// An explicit empty file keeps the test independent of the
			// user's config.
			empty := filepath.Join(t.TempDir(), "empty.yaml")
			if err := os.WriteFile(empty, nil, 0o644); err != nil {
				t.Fatal(err)
			}
			if err := flags.Parse(append([]string{"-config", empty}, tt.args...)); err != nil {
				t.Fatal(err)
			}
			_, err := Load(flags)
			if err == nil {
				t.Fatal("Load succeeded")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestBadFlag(t *testing.T) {
	flags := NewFlags("orrery", io.Discard)
	if err := flags.Parse([]string{"-warp", "9"}); err == nil {
		t.Error("expected an error for an unknown flag")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	cfg := Default()
	cfg.Mode = ModeWindow
	cfg.System.Seed = 1234
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatal(err)
	}
	if loaded.Mode != ModeWindow || loaded.System.Seed != 1234 {
		t.Errorf("loaded mode %s seed %d", loaded.Mode, loaded.System.Seed)
	}
	if len(loaded.System.Bodies) != len(cfg.System.Bodies) {
		t.Errorf("loaded %d bodies, saved %d", len(loaded.System.Bodies), len(cfg.System.Bodies))
	}
}

func TestLogFile(t *testing.T) {
	cfg := Default()
	if got := cfg.LogFile().Path; got == "" {
		t.Error("terminal mode should log to a file by default")
	}
	cfg.Mode = ModeWindow
	if got := cfg.LogFile().Path; got != "" {
		t.Errorf("window mode log file = %q, want none", got)
	}
	cfg.Logging.File = "x.log"
	if got := cfg.LogFile().Path; got != "x.log" {
		t.Errorf("explicit log file = %q", got)
	}
}
