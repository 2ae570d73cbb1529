package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"", zapcore.InfoLevel, false},
		{"INFO", zapcore.InfoLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestConsoleLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("warn", FileConfig{}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("hidden")
	l.Warn("shown", zap.Int("bodies", 9))
	_ = l.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line passed a warn logger: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "bodies") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestNoOutputIsNop(t *testing.T) {
	l, err := New("debug", FileConfig{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if l.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger without outputs is enabled")
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orrery.log")
	if err := Init("debug", DefaultFileConfig(path), nil); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { Log = zap.NewNop() })

	Log.Debug("frame stats", zap.Int("frame", 300))
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "frame stats") || !strings.Contains(string(data), "DEBUG") {
		t.Errorf("log file = %q", data)
	}
}

func TestLogRotation(t *testing.T) {
	dir := t.TempDir()
	cfg := FileConfig{
		Path:       filepath.Join(dir, "test.log"),
		MaxSizeMB:  1,
		MaxBackups: 2,
		MaxAgeDays: 1,
	}
	l, err := New("info", cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	// Well over 1MB so lumberjack rolls the file at least once.
	long := strings.Repeat("x", 200)
	for i := range 15000 {
		l.Info("entry", zap.Int("i", i), zap.String("pad", long))
	}
	_ = l.Sync()

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var logs []string
	for _, f := range files {
		if strings.HasPrefix(f.Name(), "test") && strings.Contains(f.Name(), ".log") {
			logs = append(logs, f.Name())
		}
	}
	if len(logs) < 2 {
		t.Errorf("expected a rotated file, got %v", logs)
	}
}
