// Package orrery assembles a solar system scene, a camera and a render
// pipeline into something a front end can step and draw once per frame.
package orrery

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/taigrr/orrery/pkg/input"
	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/models"
	"github.com/taigrr/orrery/pkg/render"
	"github.com/taigrr/orrery/pkg/scene"
	"github.com/taigrr/orrery/pkg/shading"
)

// statsEvery is how many frames pass between debug stat lines.
const statsEvery = 300

// Meshes are the shared geometries of a system. Nil fields are generated.
type Meshes struct {
	Sphere *models.Mesh
	Ship   *models.Mesh
}

// Option configures a System.
type Option func(*System)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(s *System) {
		if log != nil {
			s.log = log
		}
	}
}

// WithSky replaces the generated starfield with an equirectangular image.
func WithSky(tex *shading.SkyTexture) Option {
	return func(s *System) {
		s.skyTex = tex
	}
}

// System is a running solar system.
type System struct {
	cfg      SystemConfig
	log      *zap.Logger
	scene    *scene.Scene
	camera   *render.Camera
	control  *render.Controller
	pipeline *render.Pipeline
	skyTex   *shading.SkyTexture

	sun   int
	ship  int
	paths []*scene.OrbitPath

	time   float64
	frames int
	exit   bool
	last   render.RenderStats
}

// NewSolarSystem builds the sky, the sun, every configured body with
// its orbit path, and the ship, then places the camera.
func NewSolarSystem(cfg SystemConfig, meshes Meshes, opts ...Option) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("solar system config: %w", err)
	}
	if meshes.Sphere == nil {
		meshes.Sphere = models.NewUVSphere("sphere", max(cfg.SphereRings, 3), max(cfg.SphereSegments, 3))
	}
	if meshes.Ship == nil {
		meshes.Ship = models.NewShip()
	}

	s := &System{
		cfg:   cfg,
		log:   zap.NewNop(),
		scene: scene.New(),
		ship:  -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.pipeline = render.NewPipeline(s.log)
	s.pipeline.Workers = cfg.Workers
	s.pipeline.Wireframe = cfg.Wireframe
	s.control = render.NewController(cfg.Controller)

	sky, err := shading.Starfield(cfg.Seed).Compile()
	if err != nil {
		return nil, fmt.Errorf("sky: %w", err)
	}
	if s.skyTex != nil {
		sky = sky.WithSky(s.skyTex)
	}
	s.scene.SetSky(sky)

	if err := s.addBodies(meshes.Sphere); err != nil {
		return nil, err
	}
	if cfg.Ship.Enabled {
		if err := s.addShip(meshes.Ship); err != nil {
			return nil, err
		}
	}

	cam := render.NewCamera()
	cam.SetClipPlanes(cfg.Camera.Near, cfg.Camera.Far)
	cam.SetFOV(cfg.Camera.FOV * math.Pi / 180)
	cam.SetPosition(vec(cfg.Camera.Position))
	cam.LookAt(vec(cfg.Camera.Target))
	s.camera = cam

	s.scene.Advance(0)
	s.follow()
	s.log.Info("solar system ready",
		zap.Int("bodies", s.scene.Len()),
		zap.Int("paths", len(s.paths)),
		zap.Int("workers", cfg.Workers),
		zap.Bool("sky_image", s.skyTex != nil),
	)
	return s, nil
}

func (s *System) addBodies(sphere *models.Mesh) error {
	sunShader, err := shading.Sun(s.cfg.Seed).Compile()
	if err != nil {
		return fmt.Errorf("sun: %w", err)
	}
	s.sun, err = s.scene.AddBody(scene.Body{
		Name:   SunName,
		Mesh:   sphere,
		Shader: sunShader,
		Orbit:  scene.Orbit{Parent: scene.NoParent},
		Spin:   scene.Spin{Rate: s.cfg.SunSpin},
		Scale:  uniform(s.cfg.SunScale),
	})
	if err != nil {
		return err
	}

	pathColor := math3d.V3(0.55, 0.55, 0.55)
	if s.cfg.Paths.Color != "" {
		if pathColor, err = shading.Hex(s.cfg.Paths.Color); err != nil {
			return fmt.Errorf("path color: %w", err)
		}
	}

	for i, bc := range s.cfg.Bodies {
		kind, err := shading.ParseKind(bc.Kind)
		if err != nil {
			return fmt.Errorf("body %q: %w", bc.Name, err)
		}
		// Each body gets its own noise seeds.
		seed := s.cfg.Seed + int64(i+1)*101
		mat, err := shading.ForKind(kind, seed, bc.Palette, bc.Accent)
		if err != nil {
			return fmt.Errorf("body %q: %w", bc.Name, err)
		}
		sh, err := mat.Compile()
		if err != nil {
			return fmt.Errorf("body %q: %w", bc.Name, err)
		}

		parent := s.sun
		if bc.Parent != "" {
			parent, _ = s.scene.Find(bc.Parent)
		}
		idx, err := s.scene.AddBody(scene.Body{
			Name:   bc.Name,
			Mesh:   sphere,
			Shader: sh,
			Orbit: scene.Orbit{
				Parent:      parent,
				Radius:      bc.Radius,
				Speed:       bc.Speed,
				Phase:       bc.Phase,
				Inclination: bc.Inclination,
			},
			Spin:  scene.Spin{Rate: bc.Spin, Tilt: bc.Tilt},
			Scale: uniform(bc.Scale),
		})
		if err != nil {
			return err
		}

		if !s.cfg.Paths.Enabled {
			continue
		}
		segments := s.cfg.Paths.Segments
		if segments <= 0 {
			segments = scene.DefaultPathSegments
		}
		path, err := s.scene.AddOrbitPath(idx, segments, pathColor, s.cfg.Paths.Alpha)
		if err != nil {
			return err
		}
		path.Width = max(s.cfg.Paths.Width, 1)
		s.paths = append(s.paths, path)
	}
	return nil
}

func (s *System) addShip(mesh *models.Mesh) error {
	sh, err := shading.Ship().Compile()
	if err != nil {
		return fmt.Errorf("ship: %w", err)
	}
	scale := s.cfg.Ship.Scale
	if scale <= 0 {
		scale = 1
	}
	s.ship, err = s.scene.AddBody(scene.Body{
		Name:   "ship",
		Mesh:   mesh,
		Shader: sh,
		Orbit:  scene.Orbit{Parent: scene.NoParent},
		Scale:  uniform(scale),
		Manual: true,
	})
	return err
}

// Step applies one frame of input and advances the simulation by dt
// seconds scaled by TimeScale. A non-positive dt still applies the exit
// request but moves nothing.
func (s *System) Step(keys input.KeySet, dt float64) {
	if keys.Has(input.Exit) {
		s.exit = true
	}
	if dt <= 0 || math.IsNaN(dt) {
		return
	}
	s.control.Update(s.camera, keys, dt)
	s.time += dt * s.cfg.TimeScale
	s.scene.Advance(s.time)
	s.follow()
}

// follow keeps the ship ahead of the camera, facing where it looks, and
// hides every orbit path the camera is inside of.
func (s *System) follow() {
	if s.ship >= 0 {
		err := s.scene.Place(s.ship, scene.Transform{
			Translation: s.camera.Position.Add(s.camera.Forward().Scale(s.cfg.Ship.Offset)),
			Rotation:    math3d.V3(s.camera.Pitch, s.camera.Yaw, 0),
			Scale:       s.scene.Body(s.ship).Scale,
		})
		if err != nil {
			s.log.Warn("ship placement failed", zap.Error(err))
		}
	}

	for _, p := range s.paths {
		p.Hidden = s.camera.Position.Distance(p.Center) <= p.Radius+s.cfg.Paths.Threshold
	}
}

// Render draws the current frame into fb.
func (s *System) Render(fb *render.Framebuffer) render.RenderStats {
	s.camera.SetAspectRatio(float64(fb.Width) / float64(fb.Height))

	u := shading.DefaultUniforms()
	u.Time = s.time
	u.LightPos = s.scene.Body(s.sun).Position()
	u.Ambient = s.cfg.Ambient

	s.last = s.pipeline.Render(fb, s.scene, s.camera, u)
	s.frames++
	if s.frames%statsEvery == 0 {
		s.log.Debug("frame stats",
			zap.Int("frame", s.frames),
			zap.Int("width", fb.Width),
			zap.Int("height", fb.Height),
			zap.Int("bodies", s.last.Bodies),
			zap.Int("bodies_culled", s.last.BodiesCulled),
			zap.Int("triangles", s.last.Triangles),
			zap.Int("triangles_culled", s.last.TrianglesCulled),
			zap.Int("triangles_clipped", s.last.TrianglesClipped),
			zap.Int("fragments", s.last.Fragments),
			zap.Int("path_segments", s.last.PathSegments),
			zap.Int("wire_edges", s.last.WireEdges),
		)
	}
	return s.last
}

// Exit reports whether the exit action has been seen.
func (s *System) Exit() bool {
	return s.exit
}

// Camera returns the live camera.
func (s *System) Camera() *render.Camera {
	return s.camera
}

// Scene returns the live scene.
func (s *System) Scene() *scene.Scene {
	return s.scene
}

// Time returns the simulation time in seconds.
func (s *System) Time() float64 {
	return s.time
}

// Paths returns the orbit paths in body order.
func (s *System) Paths() []*scene.OrbitPath {
	return s.paths
}

// Ship returns the index of the ship body, or -1 when there is none.
func (s *System) Ship() int {
	return s.ship
}

func uniform(v float64) math3d.Vec3 {
	return math3d.V3(v, v, v)
}

func vec(a [3]float64) math3d.Vec3 {
	return math3d.V3(a[0], a[1], a[2])
}
