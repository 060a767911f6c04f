package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/milk9111/tilemap/tilemap"
	"gopkg.in/yaml.v3"
)

type Storage struct {
	// Kind is "file", "postgres" or "memory".
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
	DSN  string `yaml:"dsn"`
	// Key under which the open map is stored.
	Key string `yaml:"key"`
	// Compress stores maps as zstd-compressed JSON.
	Compress bool `yaml:"compress"`
}

type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type Window struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config holds the editor settings read from YAML.
type Config struct {
	TileWidth         int           `yaml:"tile_width"`
	TileHeight        int           `yaml:"tile_height"`
	ZoomSteps         []float64     `yaml:"zoom_steps"`
	FillMaxDistance   int64         `yaml:"fill_max_distance"`
	GridThinThreshold float64       `yaml:"grid_thin_threshold"`
	UpperLevelAlpha   float64       `yaml:"upper_level_alpha"`
	ShowGrid          bool          `yaml:"show_grid"`
	UndoLimit         int           `yaml:"undo_limit"`
	SaveDelay         time.Duration `yaml:"save_delay"`
	TileCacheMB       int64         `yaml:"tile_cache_mb"`
	Storage           Storage       `yaml:"storage"`
	Log               Log           `yaml:"log"`
	TileSetDirs       []string      `yaml:"tileset_dirs"`
	Window            Window        `yaml:"window"`
}

// Default returns the stock settings.
func Default() Config {
	return Config{
		TileWidth:         32,
		TileHeight:        32,
		ZoomSteps:         []float64{0.25, 0.5, 0.75, 1, 1.5, 2, 3, 4, 5},
		FillMaxDistance:   250,
		GridThinThreshold: 16,
		UpperLevelAlpha:   0.4,
		ShowGrid:          true,
		SaveDelay:         time.Second,
		TileCacheMB:       64,
		Storage: Storage{
			Kind: "file",
			Path: "tilemap.json",
			Key:  "tileMap",
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Window: Window{Width: 1280, Height: 800},
	}
}

// TileSize is the tile size for new maps.
func (c Config) TileSize() tilemap.Size {
	return tilemap.Size{Width: c.TileWidth, Height: c.TileHeight}
}

var (
	ErrTileSize  = errors.New("config: tile size must be positive")
	ErrZoomSteps = errors.New("config: zoom steps must be positive and ascending")
	ErrAlpha     = errors.New("config: upper_level_alpha must be in (0, 1]")
	ErrStorage   = errors.New("config: unknown storage kind")
)

// Validate checks the invariants other packages rely on.
func (c Config) Validate() error {
	if c.TileWidth <= 0 || c.TileHeight <= 0 {
		return ErrTileSize
	}
	if len(c.ZoomSteps) == 0 || !slices.IsSorted(c.ZoomSteps) || c.ZoomSteps[0] <= 0 {
		return ErrZoomSteps
	}
	if c.FillMaxDistance < 0 {
		return fmt.Errorf("config: fill_max_distance must not be negative, got %d", c.FillMaxDistance)
	}
	if c.UpperLevelAlpha <= 0 || c.UpperLevelAlpha > 1 {
		return ErrAlpha
	}
	if c.UndoLimit < 0 {
		return fmt.Errorf("config: undo_limit must not be negative, got %d", c.UndoLimit)
	}
	switch c.Storage.Kind {
	case "file", "memory":
	case "postgres":
		if c.Storage.DSN == "" {
			return fmt.Errorf("config: postgres storage needs a dsn")
		}
	default:
		return fmt.Errorf("%w %q", ErrStorage, c.Storage.Kind)
	}
	return nil
}

// Parse reads YAML on top of the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	return cfg, nil
}
