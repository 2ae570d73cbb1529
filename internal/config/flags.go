package config

import (
	"flag"
	"io"
)

// Flags are the command-line overrides. Only flags given on the command
// line replace file or default values.
type Flags struct {
	fs *flag.FlagSet

	config     string
	saveConfig string
	mode       string
	debug      bool
	logFile    string
	fps        int
	workers    int
	seed       int64
	timeScale  float64
	sky        string
	ship       string
	noShip     bool
	noPaths    bool
	wireframe  bool
	out        string
	width      int
	height     int
	scale      int
	at         float64
}

// NewFlags registers the flags on a new set named name. Parse errors are
// returned, never fatal.
func NewFlags(name string, output io.Writer) *Flags {
	f := &Flags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	f.fs.SetOutput(output)

	f.fs.StringVar(&f.config, "config", "", "Path to config file")
	f.fs.StringVar(&f.saveConfig, "save-config", "", "Write the effective config to this path and exit")
	f.fs.StringVar(&f.mode, "mode", "", "Front end: terminal, window or snapshot")
	f.fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	f.fs.StringVar(&f.logFile, "log", "", "Log file path")
	f.fs.IntVar(&f.fps, "fps", 0, "Target FPS")
	f.fs.IntVar(&f.workers, "workers", 0, "Raster goroutines")
	f.fs.Int64Var(&f.seed, "seed", 0, "Noise seed")
	f.fs.Float64Var(&f.timeScale, "time-scale", 0, "Simulation speed multiplier")
	f.fs.StringVar(&f.sky, "sky", "", "Equirectangular sky image (JPEG or PNG)")
	f.fs.StringVar(&f.ship, "ship", "", "GLB model for the ship")
	f.fs.BoolVar(&f.noShip, "no-ship", false, "Hide the ship")
	f.fs.BoolVar(&f.noPaths, "no-paths", false, "Hide the orbit lines")
	f.fs.BoolVar(&f.wireframe, "wireframe", false, "Draw mesh edges instead of shaded surfaces")
	f.fs.StringVar(&f.out, "o", "", "Snapshot output PNG")
	f.fs.IntVar(&f.width, "width", 0, "Window or snapshot width")
	f.fs.IntVar(&f.height, "height", 0, "Window or snapshot height")
	f.fs.IntVar(&f.scale, "scale", 0, "Window or snapshot pixel scale")
	f.fs.Float64Var(&f.at, "at", 0, "Snapshot simulation time in seconds")
	return f
}

// Parse parses args, without the program name.
func (f *Flags) Parse(args []string) error {
	return f.fs.Parse(args)
}

// Usage prints the flag defaults.
func (f *Flags) Usage() {
	f.fs.PrintDefaults()
}

// ConfigPath returns the explicit config path given by -config.
func (f *Flags) ConfigPath() string {
	return f.config
}

// SaveConfigPath returns the path given by -save-config.
func (f *Flags) SaveConfigPath() string {
	return f.saveConfig
}

// apply applies the flags that were set to cfg.
func (f *Flags) apply(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "mode":
			cfg.Mode = f.mode
		case "debug":
			if f.debug {
				cfg.Logging.Level = "debug"
			}
		case "log":
			cfg.Logging.File = f.logFile
		case "fps":
			cfg.FPS = f.fps
		case "workers":
			cfg.System.Workers = f.workers
		case "seed":
			cfg.System.Seed = f.seed
		case "time-scale":
			cfg.System.TimeScale = f.timeScale
		case "sky":
			cfg.Assets.Sky = f.sky
		case "ship":
			cfg.System.Ship.Model = f.ship
		case "no-ship":
			cfg.System.Ship.Enabled = !f.noShip
		case "no-paths":
			cfg.System.Paths.Enabled = !f.noPaths
		case "wireframe":
			cfg.System.Wireframe = f.wireframe
		case "o":
			cfg.Snapshot.Path = f.out
		case "width":
			cfg.Window.Width = f.width
			cfg.Snapshot.Width = f.width
		case "height":
			cfg.Window.Height = f.height
			cfg.Snapshot.Height = f.height
		case "scale":
			cfg.Window.Scale = f.scale
			cfg.Snapshot.Scale = f.scale
		case "at":
			cfg.Snapshot.Time = f.at
		}
	})
}
