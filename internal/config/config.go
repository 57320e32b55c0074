// Package config handles sculpting configuration loading and management.
package config

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/Faultbox/claymesh/internal/sculpt"
)

// Config holds all settings.
type Config struct {
	Sculpt  SculptConfig  `yaml:"sculpt"`
	Host    HostConfig    `yaml:"host"`
	Logging LoggingConfig `yaml:"logging"`
}

// SculptConfig holds brush and session settings.
type SculptConfig struct {
	Mode             string  `yaml:"mode"`
	Radius           float32 `yaml:"radius"`
	Strength         float32 `yaml:"strength"`
	NeighborFraction float32 `yaml:"neighbor_fraction"`
	IndexThreshold   int     `yaml:"index_threshold"` // vertex count that enables the smoothing R-tree
	NoiseAmplitude   float32 `yaml:"noise_amplitude"`
	NoiseSeed        int64   `yaml:"noise_seed"`
	UndoLimit        int     `yaml:"undo_limit"` // 0 = unbounded
	ColliderRebuild  string  `yaml:"collider_rebuild"`
}

// HostConfig holds settings for the mesh host around the engine.
type HostConfig struct {
	ShapeCells    int           `yaml:"shape_cells"`  // marching cubes resolution along the longest axis
	WeldEpsilon   float32       `yaml:"weld_epsilon"` // vertex merge distance for generated shapes
	SeamEpsilon   float32       `yaml:"seam_epsilon"` // 0 keeps hard seams
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	opts := sculpt.DefaultOptions()
	return &Config{
		Sculpt: SculptConfig{
			Mode:             opts.Mode.String(),
			Radius:           opts.Radius,
			Strength:         opts.Strength,
			NeighborFraction: opts.NeighborFraction,
			IndexThreshold:   opts.IndexThreshold,
			NoiseAmplitude:   0,
			NoiseSeed:        1,
			UndoLimit:        0,
			ColliderRebuild:  opts.Collider.String(),
		},
		Host: HostConfig{
			ShapeCells:    48,
			WeldEpsilon:   1e-4,
			SeamEpsilon:   0,
			WatchDebounce: 200 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var err error

	if _, e := sculpt.ParseMode(c.Sculpt.Mode); e != nil {
		err = multierr.Append(err, fmt.Errorf("sculpt.mode: %w", e))
	}
	if c.Sculpt.Radius <= 0 {
		err = multierr.Append(err, fmt.Errorf("sculpt.radius must be positive, got %v", c.Sculpt.Radius))
	}
	if c.Sculpt.NeighborFraction <= 0 || c.Sculpt.NeighborFraction > 1 {
		err = multierr.Append(err, fmt.Errorf("sculpt.neighbor_fraction must be in (0, 1], got %v", c.Sculpt.NeighborFraction))
	}
	if c.Sculpt.NoiseAmplitude < 0 {
		err = multierr.Append(err, fmt.Errorf("sculpt.noise_amplitude must not be negative, got %v", c.Sculpt.NoiseAmplitude))
	}
	if c.Sculpt.UndoLimit < 0 {
		err = multierr.Append(err, fmt.Errorf("sculpt.undo_limit must not be negative, got %d", c.Sculpt.UndoLimit))
	}
	if _, e := sculpt.ParseColliderPolicy(c.Sculpt.ColliderRebuild); e != nil {
		err = multierr.Append(err, fmt.Errorf("sculpt.collider_rebuild: %w", e))
	}
	if c.Host.ShapeCells < 4 {
		err = multierr.Append(err, fmt.Errorf("host.shape_cells must be at least 4, got %d", c.Host.ShapeCells))
	}
	if c.Host.WeldEpsilon <= 0 {
		err = multierr.Append(err, fmt.Errorf("host.weld_epsilon must be positive, got %v", c.Host.WeldEpsilon))
	}
	if !logLevels[c.Logging.Level] {
		err = multierr.Append(err, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}

	return err
}

// SessionOptions converts the sculpt section into session options. Call
// Validate first; unparseable values fall back to defaults.
func (c *Config) SessionOptions() sculpt.Options {
	opts := sculpt.DefaultOptions()
	if m, err := sculpt.ParseMode(c.Sculpt.Mode); err == nil {
		opts.Mode = m
	}
	if p, err := sculpt.ParseColliderPolicy(c.Sculpt.ColliderRebuild); err == nil {
		opts.Collider = p
	}
	opts.Radius = c.Sculpt.Radius
	opts.Strength = c.Sculpt.Strength
	opts.NeighborFraction = c.Sculpt.NeighborFraction
	opts.IndexThreshold = c.Sculpt.IndexThreshold
	opts.NoiseAmplitude = c.Sculpt.NoiseAmplitude
	opts.NoiseSeed = c.Sculpt.NoiseSeed
	opts.UndoLimit = c.Sculpt.UndoLimit
	return opts
}
