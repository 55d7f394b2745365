package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/tilekit/tilemap/internal/tilemap"
)

type Config struct {
	Logging   LoggingConfig   `toml:"logging"`
	Map       MapConfig       `toml:"map"`
	Scripting ScriptingConfig `toml:"scripting"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// MapConfig describes the map tmedit creates when the map file does not
// exist yet.
type MapConfig struct {
	Name       string `toml:"name"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	TileWidth  int    `toml:"tile_width"`
	TileHeight int    `toml:"tile_height"`
	Layers     int    `toml:"layers"` // empty layers to create
}

type ScriptingConfig struct {
	Dir string `toml:"dir"` // run before the scripts given on the command line; empty disables
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Map: MapConfig{
			Name:       "Tilemap",
			Width:      32,
			Height:     32,
			TileWidth:  16,
			TileHeight: 16,
			Layers:     1,
		},
	}
}

func (c *Config) validate() error {
	if c.Map.Width <= 0 || c.Map.Height <= 0 {
		return fmt.Errorf("map size %dx%d must be positive", c.Map.Width, c.Map.Height)
	}
	if c.Map.Layers < 0 {
		return fmt.Errorf("map layers %d must not be negative", c.Map.Layers)
	}
	return nil
}

// NewMap returns the options of a fresh map built from the [map] section.
func (m MapConfig) NewMap() tilemap.Options {
	opts := tilemap.Options{
		Name:       m.Name,
		Width:      m.Width,
		Height:     m.Height,
		TileWidth:  m.TileWidth,
		TileHeight: m.TileHeight,
	}
	for i := 0; i < m.Layers; i++ {
		opts.Layers = append(opts.Layers, tilemap.LayerOptions{Name: fmt.Sprintf("Layer %d", i+1)})
	}
	return opts
}
