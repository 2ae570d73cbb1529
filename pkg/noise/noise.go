// Package noise provides deterministic fractal noise for procedural
// surfaces. A Field layers octaves of OpenSimplex noise (fBm) and is
// immutable after construction, so one Field may be sampled from many
// goroutines at once.
package noise

import (
	"math"

	"github.com/ojrac/opensimplex-go"

	"github.com/taigrr/orrery/pkg/math3d"
)

// Config selects the shape of a fractal noise field.
type Config struct {
	Seed        int64   `yaml:"seed"`
	Frequency   float64 `yaml:"frequency"`
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	Lacunarity  float64 `yaml:"lacunarity"`
}

// Default returns a four octave field at unit frequency.
func Default() Config {
	return Config{
		Seed:        1,
		Frequency:   1,
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2,
	}
}

// Field is a seeded fractal noise function.
type Field struct {
	cfg  Config
	base opensimplex.Noise
	norm float64
}

// New builds a Field. Out-of-range parameters are clamped: fewer than one
// octave becomes one, a non-positive frequency or lacunarity becomes one,
// and persistence is limited to (0, 1].
func New(cfg Config) *Field {
	if cfg.Octaves < 1 {
		cfg.Octaves = 1
	}
	if cfg.Frequency <= 0 {
		cfg.Frequency = 1
	}
	if cfg.Lacunarity <= 0 {
		cfg.Lacunarity = 1
	}
	if cfg.Persistence <= 0 || cfg.Persistence > 1 {
		cfg.Persistence = 0.5
	}

	var sum, amp float64 = 0, 1
	for range cfg.Octaves {
		sum += amp
		amp *= cfg.Persistence
	}

	return &Field{
		cfg:  cfg,
		base: opensimplex.New(cfg.Seed),
		norm: 1 / sum,
	}
}

// Config returns the clamped configuration the field was built with.
func (f *Field) Config() Config {
	return f.cfg
}

// Eval2 samples the field at (x, y). The result lies in [-1, 1].
func (f *Field) Eval2(x, y float64) float64 {
	var total float64
	amp, freq := 1.0, f.cfg.Frequency
	for range f.cfg.Octaves {
		total += f.base.Eval2(x*freq, y*freq) * amp
		amp *= f.cfg.Persistence
		freq *= f.cfg.Lacunarity
	}
	return math3d.Clamp(total*f.norm, -1, 1)
}

// Eval3 samples the field at (x, y, z). The result lies in [-1, 1].
func (f *Field) Eval3(x, y, z float64) float64 {
	var total float64
	amp, freq := 1.0, f.cfg.Frequency
	for range f.cfg.Octaves {
		total += f.base.Eval3(x*freq, y*freq, z*freq) * amp
		amp *= f.cfg.Persistence
		freq *= f.cfg.Lacunarity
	}
	return math3d.Clamp(total*f.norm, -1, 1)
}

// At samples the field at point p.
func (f *Field) At(p math3d.Vec3) float64 {
	return f.Eval3(p.X, p.Y, p.Z)
}

// Unit remaps At(p) into [0, 1].
func (f *Field) Unit(p math3d.Vec3) float64 {
	return f.At(p)*0.5 + 0.5
}

// Ridged returns 1-|n|, which peaks along the zero crossings of the field
// and reads as crater rims or cracks. The result lies in [0, 1].
func (f *Field) Ridged(p math3d.Vec3) float64 {
	return 1 - math.Abs(f.At(p))
}

// Animated samples the field with p pushed along drift by t. Advancing t
// slowly makes the pattern boil without any per-frame state.
func (f *Field) Animated(p math3d.Vec3, drift math3d.Vec3, t float64) float64 {
	return f.At(p.Add(drift.Scale(t)))
}

// Gradient returns the central-difference gradient at p with step h.
func (f *Field) Gradient(p math3d.Vec3, h float64) math3d.Vec3 {
	if h <= 0 {
		h = 1e-3
	}
	inv := 1 / (2 * h)
	return math3d.Vec3{
		X: (f.Eval3(p.X+h, p.Y, p.Z) - f.Eval3(p.X-h, p.Y, p.Z)) * inv,
		Y: (f.Eval3(p.X, p.Y+h, p.Z) - f.Eval3(p.X, p.Y-h, p.Z)) * inv,
		Z: (f.Eval3(p.X, p.Y, p.Z+h) - f.Eval3(p.X, p.Y, p.Z-h)) * inv,
	}
}
