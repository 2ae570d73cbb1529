package render

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/orrery/pkg/input"
	"github.com/taigrr/orrery/pkg/math3d"
)

// Controller defaults. Angles are in radians, speeds per second.
const (
	DefaultMoveSpeed     = 30.0
	DefaultRotateSpeed   = 1.5
	DefaultZoomSpeed     = math.Pi / 3
	DefaultMinFOV        = 15 * math.Pi / 180
	DefaultMaxFOV        = 100 * math.Pi / 180
	DefaultMaxPitch      = 89 * math.Pi / 180
	DefaultZoomStiffness = 8.0
)

// ControllerConfig tunes how held actions move the camera.
type ControllerConfig struct {
	MoveSpeed   float64 `yaml:"move_speed"`
	RotateSpeed float64 `yaml:"rotate_speed"`
	ZoomSpeed   float64 `yaml:"zoom_speed"`
	MinFOV      float64 `yaml:"min_fov"`
	MaxFOV      float64 `yaml:"max_fov"`
	MaxPitch    float64 `yaml:"max_pitch"`
	// ZoomStiffness is the angular frequency of the zoom spring.
	ZoomStiffness float64 `yaml:"zoom_stiffness"`
}

// DefaultControllerConfig returns the default tuning.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		MoveSpeed:     DefaultMoveSpeed,
		RotateSpeed:   DefaultRotateSpeed,
		ZoomSpeed:     DefaultZoomSpeed,
		MinFOV:        DefaultMinFOV,
		MaxFOV:        DefaultMaxFOV,
		MaxPitch:      DefaultMaxPitch,
		ZoomStiffness: DefaultZoomStiffness,
	}
}

// Controller applies one frame of input to a camera.
type Controller struct {
	cfg ControllerConfig
}

// NewController returns a controller. Invalid limits fall back to the
// defaults: the FOV range must be ordered inside (0, π) and MaxPitch
// inside (0, π/2).
func NewController(cfg ControllerConfig) *Controller {
	def := DefaultControllerConfig()
	if cfg.MinFOV <= 0 || cfg.MaxFOV >= math.Pi || cfg.MinFOV > cfg.MaxFOV {
		cfg.MinFOV, cfg.MaxFOV = def.MinFOV, def.MaxFOV
	}
	if cfg.MaxPitch <= 0 || cfg.MaxPitch >= math.Pi/2 {
		cfg.MaxPitch = def.MaxPitch
	}
	if cfg.ZoomStiffness <= 0 {
		cfg.ZoomStiffness = def.ZoomStiffness
	}
	return &Controller{cfg: cfg}
}

// Config returns the effective configuration.
func (c *Controller) Config() ControllerConfig {
	return c.cfg
}

// Update moves, turns and zooms cam for the keys held over dt seconds.
// It is a pure function of the camera state, the keys and dt; dt <= 0
// leaves the camera untouched.
func (c *Controller) Update(cam *Camera, keys input.KeySet, dt float64) {
	if dt <= 0 || math.IsNaN(dt) {
		return
	}

	// Turn first so movement uses this frame's basis.
	yaw := cam.Yaw + keys.Axis(input.YawLeft, input.YawRight)*c.cfg.RotateSpeed*dt
	pitch := cam.Pitch + keys.Axis(input.PitchUp, input.PitchDown)*c.cfg.RotateSpeed*dt
	cam.SetRotation(math3d.Clamp(pitch, -c.cfg.MaxPitch, c.cfg.MaxPitch), math.Remainder(yaw, 2*math.Pi))

	step := c.cfg.MoveSpeed * dt
	move := cam.Forward().Scale(keys.Axis(input.Forward, input.Back)).
		Add(cam.Right().Scale(keys.Axis(input.Right, input.Left))).
		Add(cam.Up().Scale(keys.Axis(input.Up, input.Down)))
	if move != (math3d.Vec3{}) {
		cam.SetPosition(cam.Position.Add(move.Scale(step)))
	}

	// Zooming in narrows the lens.
	cam.ZoomTarget = math3d.Clamp(
		cam.ZoomTarget-keys.Axis(input.ZoomIn, input.ZoomOut)*c.cfg.ZoomSpeed*dt,
		c.cfg.MinFOV, c.cfg.MaxFOV,
	)
	spring := harmonica.NewSpring(dt, c.cfg.ZoomStiffness, 1.0)
	fov, vel := spring.Update(cam.FOV, cam.zoomVel, cam.ZoomTarget)
	cam.zoomVel = vel
	cam.FOV = math3d.Clamp(fov, c.cfg.MinFOV, c.cfg.MaxFOV)
	cam.projDirty = true
}
