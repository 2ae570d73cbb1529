package orrery

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/render"
	"github.com/taigrr/orrery/pkg/shading"
)

// perFrame converts per-frame rates, tuned for 60 Hz, into rates per
// second.
const perFrame = 60

// SunName is the name of the body every unparented planet orbits.
const SunName = "sun"

// SystemConfig describes a solar system.
type SystemConfig struct {
	Seed int64 `yaml:"seed"`
	// TimeScale multiplies wall-clock seconds into simulation seconds.
	TimeScale float64 `yaml:"time_scale"`

	SunScale float64 `yaml:"sun_scale"`
	SunSpin  float64 `yaml:"sun_spin"`

	Bodies []BodyConfig `yaml:"bodies"`

	SphereRings    int `yaml:"sphere_rings"`
	SphereSegments int `yaml:"sphere_segments"`

	Paths      PathConfig              `yaml:"paths"`
	Ship       ShipConfig              `yaml:"ship"`
	Camera     CameraConfig            `yaml:"camera"`
	Controller render.ControllerConfig `yaml:"controller"`

	Ambient float64 `yaml:"ambient"`
	// Workers is the number of raster goroutines; 0 or 1 rasters serially.
	Workers int `yaml:"workers"`
	// Wireframe draws mesh edges instead of shaded surfaces.
	Wireframe bool `yaml:"wireframe"`
}

// BodyConfig is one planet or moon.
type BodyConfig struct {
	Name string `yaml:"name"`
	// Kind is a material kind name: rocky, gas-giant, cold or moon.
	Kind    string   `yaml:"kind"`
	Palette []string `yaml:"palette"`
	Accent  []string `yaml:"accent"`
	// Parent names the body this one circles; empty means the sun.
	Parent      string  `yaml:"parent"`
	Radius      float64 `yaml:"radius"`
	Speed       float64 `yaml:"speed"`
	Phase       float64 `yaml:"phase"`
	Inclination float64 `yaml:"inclination"`
	Scale       float64 `yaml:"scale"`
	Spin        float64 `yaml:"spin"`
	Tilt        float64 `yaml:"tilt"`
}

// PathConfig styles the orbit lines.
type PathConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Segments int     `yaml:"segments"`
	Color    string  `yaml:"color"`
	Alpha    float64 `yaml:"alpha"`
	Width    int     `yaml:"width"`
	// Threshold hides a path while the camera is within radius+threshold
	// of its centre.
	Threshold float64 `yaml:"threshold"`
}

// ShipConfig places the spaceship that flies ahead of the camera.
type ShipConfig struct {
	Enabled bool    `yaml:"enabled"`
	Offset  float64 `yaml:"offset"`
	Scale   float64 `yaml:"scale"`
	// Model is an optional GLB file replacing the built-in hull.
	Model string `yaml:"model"`
}

// CameraConfig is the starting view.
type CameraConfig struct {
	Position [3]float64 `yaml:"position"`
	Target   [3]float64 `yaml:"target"`
	// FOV is the vertical field of view in degrees.
	FOV  float64 `yaml:"fov"`
	Near float64 `yaml:"near"`
	Far  float64 `yaml:"far"`
}

// DefaultSystemConfig returns the six-planet system with one moon.
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		Seed:      7,
		TimeScale: 1,
		SunScale:  4,
		SunSpin:   0.0001 * perFrame,
		Bodies: []BodyConfig{
			{
				Name:    "terra",
				Kind:    "rocky",
				Palette: []string{"#0b2a5b", "#1f6fb2", "#3f8f3a", "#8a7a4a", "#f2f2f2"},
				Radius:  10,
				Speed:   0.008 * perFrame,
				Scale:   1.5,
				Spin:    0.015 * perFrame,
				Tilt:    0.41,
			},
			{
				Name:    "dune",
				Kind:    "rocky",
				Palette: []string{"#5a2e12", "#a0582a", "#d89a5a", "#f3d39b"},
				Radius:  20,
				Speed:   0.006 * perFrame,
				Phase:   1.1,
				Scale:   1.7,
				Spin:    0.015 * perFrame,
			},
			{
				Name:    "jove",
				Kind:    "gas-giant",
				Palette: []string{"#6b3d1f", "#c48a52", "#ead2a8", "#b5653a", "#f6ead2"},
				Accent:  []string{"#8c2f1b", "#e0764a"},
				Radius:  30,
				Speed:   0.005 * perFrame,
				Phase:   2.3,
				Scale:   2.5,
				Spin:    0.025 * perFrame,
				Tilt:    0.05,
			},
			{
				Name:    "boreas",
				Kind:    "gas-giant",
				Palette: []string{"#1d3b6b", "#4f86c6", "#a9d3f0", "#e6f4ff"},
				Accent:  []string{"#ffffff"},
				Radius:  40,
				Speed:   0.004 * perFrame,
				Phase:   3.6,
				Scale:   3.5,
				Spin:    0.018 * perFrame,
				Tilt:    0.47,
			},
			{
				Name:    "xeno",
				Kind:    "rocky",
				Palette: []string{"#1a0633", "#5b1a8a", "#1fb38a", "#c6ff6b"},
				Radius:  50,
				Speed:   0.003 * perFrame,
				Phase:   4.4,
				Scale:   2.8,
				Spin:    0.018 * perFrame,
			},
			{
				Name:    "glacia",
				Kind:    "cold",
				Palette: []string{"#2a4a6a", "#6fa0c8", "#bfe0f5"},
				Radius:  60,
				Speed:   0.002 * perFrame,
				Phase:   5.5,
				Scale:   3.3,
				Spin:    0.016 * perFrame,
				Tilt:    0.2,
			},
			{
				Name:        "luna",
				Kind:        "moon",
				Parent:      "terra",
				Radius:      2.5,
				Speed:       0.01 * perFrame,
				Inclination: 0.09,
				Scale:       0.5,
				Spin:        0.005 * perFrame,
			},
		},
		SphereRings:    24,
		SphereSegments: 32,
		Paths: PathConfig{
			Enabled:   true,
			Segments:  150,
			Color:     "#8c8c8c",
			Alpha:     0.6,
			Width:     1,
			Threshold: 10,
		},
		Ship: ShipConfig{
			Enabled: true,
			Offset:  15,
			Scale:   1,
		},
		Camera: CameraConfig{
			Position: [3]float64{0, 100, 100},
			FOV:      60,
			Near:     0.1,
			Far:      1000,
		},
		Controller: render.DefaultControllerConfig(),
		Ambient:    0.12,
	}
}

// Validate reports the first problem that would stop the system from
// being built.
func (c SystemConfig) Validate() error {
	if c.TimeScale < 0 || math.IsNaN(c.TimeScale) {
		return fmt.Errorf("time scale %v: must be non-negative", c.TimeScale)
	}
	if c.SunScale <= 0 {
		return fmt.Errorf("sun scale %v: must be positive", c.SunScale)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("clip planes [%v, %v]: need 0 < near < far", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("fov %v: must be inside (0, 180) degrees", c.Camera.FOV)
	}
	pos := math3d.V3(c.Camera.Position[0], c.Camera.Position[1], c.Camera.Position[2])
	target := math3d.V3(c.Camera.Target[0], c.Camera.Target[1], c.Camera.Target[2])
	if pos.ApproxEqual(target, 1e-9) {
		return errors.New("camera position and target coincide")
	}

	seen := map[string]bool{SunName: true}
	for _, b := range c.Bodies {
		if b.Name == "" {
			return errors.New("body without a name")
		}
		if seen[b.Name] {
			return fmt.Errorf("body %q: duplicate name", b.Name)
		}
		if _, err := shading.ParseKind(b.Kind); err != nil {
			return fmt.Errorf("body %q: %w", b.Name, err)
		}
		if b.Parent != "" && !seen[b.Parent] {
			return fmt.Errorf("body %q: parent %q must be listed first", b.Name, b.Parent)
		}
		if b.Radius <= 0 || b.Scale <= 0 {
			return fmt.Errorf("body %q: radius and scale must be positive", b.Name)
		}
		seen[b.Name] = true
	}
	return nil
}
