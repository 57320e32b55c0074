package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/multierr"

	"github.com/Faultbox/claymesh/internal/sculpt"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Sculpt.Mode != "push" {
		t.Errorf("expected mode push, got %s", cfg.Sculpt.Mode)
	}
	if cfg.Sculpt.NeighborFraction != 0.3 {
		t.Errorf("expected neighbor fraction 0.3, got %v", cfg.Sculpt.NeighborFraction)
	}
	if cfg.Sculpt.ColliderRebuild != "stroke_end" {
		t.Errorf("expected collider rebuild stroke_end, got %s", cfg.Sculpt.ColliderRebuild)
	}
	if cfg.Sculpt.UndoLimit != 0 {
		t.Errorf("expected unbounded undo, got %d", cfg.Sculpt.UndoLimit)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
sculpt:
  mode: smooth
  radius: 0.5
  strength: 0.3
  neighbor_fraction: 0.25
  noise_amplitude: 0.1
  noise_seed: 42
  undo_limit: 16
  collider_rebuild: every_step

host:
  shape_cells: 32
  watch_debounce: 500ms

logging:
  level: "debug"
  log_file: "sculpt.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Sculpt.Mode != "smooth" {
		t.Errorf("expected mode smooth, got %s", cfg.Sculpt.Mode)
	}
	if cfg.Sculpt.Radius != 0.5 {
		t.Errorf("expected radius 0.5, got %v", cfg.Sculpt.Radius)
	}
	if cfg.Sculpt.NoiseSeed != 42 {
		t.Errorf("expected noise seed 42, got %d", cfg.Sculpt.NoiseSeed)
	}
	if cfg.Sculpt.UndoLimit != 16 {
		t.Errorf("expected undo limit 16, got %d", cfg.Sculpt.UndoLimit)
	}
	if cfg.Host.ShapeCells != 32 {
		t.Errorf("expected shape cells 32, got %d", cfg.Host.ShapeCells)
	}
	if cfg.Host.WatchDebounce != 500*time.Millisecond {
		t.Errorf("expected debounce 500ms, got %v", cfg.Host.WatchDebounce)
	}
	// Unset keys keep their defaults.
	if cfg.Host.WeldEpsilon != 1e-4 {
		t.Errorf("expected default weld epsilon, got %v", cfg.Host.WeldEpsilon)
	}
	if cfg.Logging.LogFile != "sculpt.log" {
		t.Errorf("expected log file 'sculpt.log', got %s", cfg.Logging.LogFile)
	}

	opts := cfg.SessionOptions()
	if opts.Mode != sculpt.ModeSmooth || opts.Collider != sculpt.RebuildEveryStep || opts.UndoLimit != 16 {
		t.Errorf("SessionOptions() = %+v", opts)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")
	invalidYAML := `
sculpt:
  radius: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/sculpt.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Sculpt.Mode = "inflate"
	cfg.Sculpt.Radius = 0
	cfg.Sculpt.ColliderRebuild = "never"
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	if n := len(multierr.Errors(err)); n != 4 {
		t.Errorf("expected 4 errors, got %d: %v", n, err)
	}
	if !strings.Contains(err.Error(), "sculpt.mode") {
		t.Errorf("error should name the field: %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, FileName), []byte("sculpt:\n  radius: 1\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Error("expected to find sculpt.yaml in current directory")
	}
}

func TestLoadPriority(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	configPath := filepath.Join(t.TempDir(), "custom.yaml")
	content := "sculpt:\n  radius: 0.7\n  strength: 0.4\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := BindFlags(fs)
	if err := fs.Parse([]string{"--config", configPath, "--strength", "0.9", "--mode", "pinch", "--debug"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Sculpt.Radius != 0.7 {
		t.Errorf("file should override default radius, got %v", cfg.Sculpt.Radius)
	}
	if cfg.Sculpt.Strength != 0.9 {
		t.Errorf("flag should override file strength, got %v", cfg.Sculpt.Strength)
	}
	if cfg.Sculpt.Mode != "pinch" {
		t.Errorf("expected mode pinch, got %s", cfg.Sculpt.Mode)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
}

func TestLoadUnsetFlagsKeepFile(t *testing.T) {
	t.Chdir(t.TempDir())
	configPath := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(configPath, []byte("sculpt:\n  undo_limit: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := BindFlags(fs)
	if err := fs.Parse([]string{"-c", configPath}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Sculpt.UndoLimit != 5 {
		t.Errorf("unset --undo-limit should not override the file, got %d", cfg.Sculpt.UndoLimit)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Chdir(t.TempDir())
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := BindFlags(fs)
	if err := fs.Parse([]string{"--mode", "inflate"}); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(flags); err == nil {
		t.Error("expected Load to reject an unknown mode")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Sculpt.Mode = "pull"
	cfg.Sculpt.UndoLimit = 8
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	if loaded.Sculpt.Mode != "pull" || loaded.Sculpt.UndoLimit != 8 {
		t.Errorf("saved config not read back: %+v", loaded.Sculpt)
	}
	if loaded.Host.WatchDebounce != cfg.Host.WatchDebounce {
		t.Errorf("debounce = %v, want %v", loaded.Host.WatchDebounce, cfg.Host.WatchDebounce)
	}
}

func TestWatcherDebounces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.yaml")
	if err := os.WriteFile(path, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(50 * time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	var calls atomic.Int32
	if err := w.Watch([]string{path}, func(string) { calls.Add(1) }); err != nil {
		t.Fatal(err)
	}
	w.Start()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte(strings.Repeat("b", i+1)), 0644); err != nil {
			t.Fatal(err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("callback ran %d times, want 1", got)
	}
}
