// Package config loads editor configuration from a TOML file with
// environment overrides. A missing config file is not an error; defaults
// apply.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the editor's tunable settings.
type Config struct {
	Grid     GridConfig     `toml:"grid"`
	Editor   EditorConfig   `toml:"editor"`
	Playback PlaybackConfig `toml:"playback"`
}

// GridConfig configures the fallback grid size used when a recording
// declares none.
type GridConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// EditorConfig configures editing behavior.
type EditorConfig struct {
	// UndoDepth caps the undo snapshot history.
	UndoDepth int `toml:"undo_depth"`
}

// PlaybackConfig configures the playback scheduler.
type PlaybackConfig struct {
	// Speed is the initial playback speed multiplier.
	Speed float64 `toml:"speed"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Grid:     GridConfig{Width: 80, Height: 24},
		Editor:   EditorConfig{UndoDepth: 100},
		Playback: PlaybackConfig{Speed: 1.0},
	}
}

// Load reads configuration from path, layering file values and then
// environment overrides on top of the defaults. A missing file is not an
// error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	cfg.normalize()
	return cfg, nil
}

// applyEnv layers ASCII_EDIT_* environment variables over the loaded
// values. Malformed values are ignored.
func applyEnv(cfg *Config) {
	if v, ok := intEnv("ASCII_EDIT_GRID_WIDTH"); ok {
		cfg.Grid.Width = v
	}
	if v, ok := intEnv("ASCII_EDIT_GRID_HEIGHT"); ok {
		cfg.Grid.Height = v
	}
	if v, ok := intEnv("ASCII_EDIT_UNDO_DEPTH"); ok {
		cfg.Editor.UndoDepth = v
	}
	if raw := os.Getenv("ASCII_EDIT_SPEED"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.Playback.Speed = v
		}
	}
}

func intEnv(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// normalize clamps nonsense values back to the defaults.
func (c *Config) normalize() {
	def := Default()
	if c.Grid.Width < 1 || c.Grid.Width > 2000 {
		c.Grid.Width = def.Grid.Width
	}
	if c.Grid.Height < 1 || c.Grid.Height > 2000 {
		c.Grid.Height = def.Grid.Height
	}
	if c.Editor.UndoDepth < 1 {
		c.Editor.UndoDepth = def.Editor.UndoDepth
	}
	if c.Playback.Speed <= 0 {
		c.Playback.Speed = def.Playback.Speed
	}
}
