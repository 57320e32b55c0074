package config

import "github.com/spf13/pflag"

// Flags holds command-line overrides. Only flags the user actually set
// override file values.
type Flags struct {
	fs *pflag.FlagSet

	path      string
	debug     bool
	mode      string
	radius    float32
	strength  float32
	undoLimit int
	collider  string
	logFile   string
}

// BindFlags registers the config flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVarP(&f.path, "config", "c", "", "Path to config file")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	fs.StringVarP(&f.mode, "mode", "m", "", "Brush mode (push, pull, pinch, smooth)")
	fs.Float32VarP(&f.radius, "radius", "r", 0, "Brush radius in mesh units")
	fs.Float32VarP(&f.strength, "strength", "s", 0, "Brush strength")
	fs.IntVar(&f.undoLimit, "undo-limit", 0, "Maximum undo snapshots (0 = unbounded)")
	fs.StringVar(&f.collider, "collider-rebuild", "", "Collider rebuild policy (stroke_end, every_step)")
	fs.StringVar(&f.logFile, "log-file", "", "Write logs to this file as well")
	return f
}

// ConfigPath returns the explicit config path if provided via --config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return f.path
}

func (f *Flags) changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.debug {
		cfg.Logging.Level = "debug"
	}
	if f.changed("mode") {
		cfg.Sculpt.Mode = f.mode
	}
	if f.changed("radius") {
		cfg.Sculpt.Radius = f.radius
	}
	if f.changed("strength") {
		cfg.Sculpt.Strength = f.strength
	}
	if f.changed("undo-limit") {
		cfg.Sculpt.UndoLimit = f.undoLimit
	}
	if f.changed("collider-rebuild") {
		cfg.Sculpt.ColliderRebuild = f.collider
	}
	if f.logFile != "" {
		cfg.Logging.LogFile = f.logFile
	}
}
