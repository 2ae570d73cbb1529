// Package shading implements the per-fragment procedural materials of
// the orrery. Materials are a closed set of kinds, each with its own
// parameter payload; a compiled Shader dispatches on the kind with a
// single switch. Shaders are pure functions of their inputs and are safe
// to call from several raster workers at once.
package shading

import (
	"fmt"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/noise"
)

// Kind tags a material.
type Kind int

const (
	KindSun Kind = iota
	KindGasGiant
	KindRocky
	KindCold
	KindMoon
	KindStarfield
	KindShip
)

var kindNames = [...]string{
	KindSun:       "sun",
	KindGasGiant:  "gas-giant",
	KindRocky:     "rocky",
	KindCold:      "cold",
	KindMoon:      "moon",
	KindStarfield: "starfield",
	KindShip:      "ship",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind returns the kind called name.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown material kind %q", name)
}

// ForKind builds the default material of kind k. Palette and accent
// replace the built-in colours when non-empty; the sun, moon, starfield
// and ship keep their own when none are given.
func ForKind(k Kind, seed int64, palette, accent []string) (Material, error) {
	var m Material
	switch k {
	case KindSun:
		m = Sun(seed)
	case KindGasGiant:
		m = GasGiant(seed, palette, accent)
	case KindRocky:
		m = Rocky(seed, palette)
	case KindCold:
		m = Cold(seed, palette)
	case KindMoon:
		m = Moon(seed)
	case KindStarfield:
		m = Starfield(seed)
	case KindShip:
		m = Ship()
	default:
		return Material{}, fmt.Errorf("unknown material kind %d", int(k))
	}
	if len(palette) > 0 {
		m.Palette = palette
	}
	if len(accent) > 0 {
		m.Accent = accent
	}
	return m, nil
}

// Material describes one surface. Only the fields relevant to Kind are
// read; the constructors below fill sensible values for each kind.
type Material struct {
	Kind Kind

	// Palette lists hex colour stops from low to high pattern value.
	Palette []string
	// Accent is a second palette: storms, sunspots, ice, nebula or rim.
	Accent []string

	// Surface drives the main pattern, Detail the secondary features
	// (storms, craters, solar spots, nebula).
	Surface noise.Config
	Detail  noise.Config

	// Bands is the number of latitude bands on a gas giant.
	Bands float64
	// Bump scales normal perturbation from the surface gradient.
	Bump float64
	// IceCap is the |latitude| above which cold bodies turn to ice.
	IceCap float64
	// Rate scales time for animated patterns.
	Rate float64
	// Density is the fraction of starfield cells holding a star.
	Density float64
	// StarScale is the number of starfield cells per unit of direction.
	StarScale float64
	// Specular is the strength of the highlight term, 0 for none.
	Specular float64
}

// Sun returns the emissive star material with drifting solar spots.
func Sun(seed int64) Material {
	return Material{
		Kind:    KindSun,
		Palette: []string{"#b33100", "#ff7b00", "#ffc13b", "#fff3c4"},
		Accent:  []string{"#5a1a00", "#ffeaa0"},
		Surface: noise.Config{Seed: seed, Frequency: 2.2, Octaves: 4, Persistence: 0.5, Lacunarity: 2},
		Detail:  noise.Config{Seed: seed + 1, Frequency: 4.5, Octaves: 3, Persistence: 0.55, Lacunarity: 2.1},
		Rate:    0.08,
	}
}

// GasGiant returns a banded atmosphere in the given palette.
func GasGiant(seed int64, palette, storms []string) Material {
	return Material{
		Kind:     KindGasGiant,
		Palette:  palette,
		Accent:   storms,
		Surface:  noise.Config{Seed: seed, Frequency: 1.4, Octaves: 3, Persistence: 0.5, Lacunarity: 2},
		Detail:   noise.Config{Seed: seed + 1, Frequency: 3.5, Octaves: 2, Persistence: 0.5, Lacunarity: 2},
		Bands:    7,
		Rate:     0.02,
		Specular: 0.12,
	}
}

// Rocky returns a cratered, bumpy terrain material.
func Rocky(seed int64, palette []string) Material {
	return Material{
		Kind:    KindRocky,
		Palette: palette,
		Surface: noise.Config{Seed: seed, Frequency: 3.2, Octaves: 5, Persistence: 0.5, Lacunarity: 2.05},
		Detail:  noise.Config{Seed: seed + 1, Frequency: 9, Octaves: 2, Persistence: 0.5, Lacunarity: 2},
		Bump:    0.35,
	}
}

// Cold returns an icy body with polar caps.
func Cold(seed int64, palette []string) Material {
	return Material{
		Kind:     KindCold,
		Palette:  palette,
		Accent:   []string{"#dfefff", "#ffffff"},
		Surface:  noise.Config{Seed: seed, Frequency: 2.6, Octaves: 4, Persistence: 0.55, Lacunarity: 2},
		Detail:   noise.Config{Seed: seed + 1, Frequency: 6, Octaves: 2, Persistence: 0.5, Lacunarity: 2},
		Bump:     0.2,
		IceCap:   0.72,
		Specular: 0.25,
	}
}

// Moon returns grey regolith with ridged crater rims.
func Moon(seed int64) Material {
	return Material{
		Kind:    KindMoon,
		Palette: []string{"#3b3b3f", "#77777c", "#b9b9bd"},
		Surface: noise.Config{Seed: seed, Frequency: 4, Octaves: 4, Persistence: 0.5, Lacunarity: 2},
		Detail:  noise.Config{Seed: seed + 1, Frequency: 7, Octaves: 2, Persistence: 0.45, Lacunarity: 2.2},
		Bump:    0.45,
	}
}

// Starfield returns the background sky.
func Starfield(seed int64) Material {
	return Material{
		Kind:      KindStarfield,
		Palette:   []string{"#010104", "#05060f"},
		Accent:    []string{"#1a0b2e", "#0b2a3a"},
		Detail:    noise.Config{Seed: seed, Frequency: 1.6, Octaves: 4, Persistence: 0.5, Lacunarity: 2},
		Surface:   noise.Config{Seed: seed + 1},
		Density:   0.03,
		StarScale: 150,
	}
}

// Ship returns the hull material of the camera's spaceship.
func Ship() Material {
	return Material{
		Kind:     KindShip,
		Palette:  []string{"#1b2f5e", "#3f6fd8", "#a9c8ff"},
		Accent:   []string{"#7fe3ff"},
		Specular: 0.4,
	}
}

// Shader is a compiled Material: palettes baked, noise fields built.
// It is immutable.
type Shader struct {
	mat     Material
	palette *Gradient
	accent  *Gradient
	surface *noise.Field
	detail  *noise.Field
	sky     *SkyTexture
}

// Compile validates m and builds its Shader.
func (m Material) Compile() (*Shader, error) {
	if m.Kind < KindSun || m.Kind > KindShip {
		return nil, fmt.Errorf("compile material: unknown kind %d", int(m.Kind))
	}
	if len(m.Palette) == 0 {
		return nil, fmt.Errorf("compile %s material: empty palette", m.Kind)
	}

	pal, err := NewGradient(m.Palette...)
	if err != nil {
		return nil, fmt.Errorf("compile %s palette: %w", m.Kind, err)
	}
	s := &Shader{
		mat:     m,
		palette: pal,
		accent:  pal,
		surface: noise.New(m.Surface),
		detail:  noise.New(m.Detail),
	}
	if len(m.Accent) > 0 {
		if s.accent, err = NewGradient(m.Accent...); err != nil {
			return nil, fmt.Errorf("compile %s accent: %w", m.Kind, err)
		}
	}
	return s, nil
}

// MustCompile is Compile for built-in materials; it panics on error.
func (m Material) MustCompile() *Shader {
	s, err := m.Compile()
	if err != nil {
		panic(err)
	}
	return s
}

// WithSky returns a copy of a starfield shader that samples tex instead
// of generating stars.
func (s *Shader) WithSky(tex *SkyTexture) *Shader {
	c := *s
	c.sky = tex
	return &c
}

// Kind reports the material kind.
func (s *Shader) Kind() Kind {
	return s.mat.Kind
}

// Material returns the source material.
func (s *Shader) Material() Material {
	return s.mat
}

// Fragment carries the interpolated attributes of one covered pixel.
type Fragment struct {
	// Local is the object-space surface position.
	Local math3d.Vec3
	// World is the world-space position.
	World math3d.Vec3
	// Normal is the unit world-space normal.
	Normal math3d.Vec3
	UV     math3d.Vec2
	// ViewDir points from the surface to the eye, unit length. For the
	// sky pass it is the unit direction of the view ray instead.
	ViewDir math3d.Vec3
	// NormalMatrix maps object-space gradients to world space.
	NormalMatrix math3d.Mat3
	// Depth is the view-space distance in front of the eye.
	Depth float64
}

// Uniforms are constant across a frame.
type Uniforms struct {
	Time      float64
	LightPos  math3d.Vec3
	CameraPos math3d.Vec3
	Ambient   float64
}

// DefaultUniforms lights the scene from a sun at the origin.
func DefaultUniforms() Uniforms {
	return Uniforms{Ambient: 0.12}
}
