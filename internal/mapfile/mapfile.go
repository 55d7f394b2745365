// Package mapfile reads and writes map documents.
package mapfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tilekit/tilemap/internal/tilemap"
)

// ErrFormat is returned for file extensions other than .json, .yaml and .yml.
var ErrFormat = errors.New("unsupported map format")

// Load decodes the map document at path. The format follows the extension.
func Load(path string) (tilemap.Options, error) {
	var opts tilemap.Options
	var decode func([]byte, any) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		decode = json.Unmarshal
	case ".yaml", ".yml":
		decode = yaml.Unmarshal
	default:
		return opts, fmt.Errorf("%w: %s", ErrFormat, path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read map %s: %w", path, err)
	}
	if err := decode(raw, &opts); err != nil {
		return opts, fmt.Errorf("parse map %s: %w", path, err)
	}
	return opts, nil
}

// Open loads the document at path and builds the map. Tileset paths are
// resolved against the directory of path.
func Open(path string, log *zap.Logger) (*tilemap.TileMap, error) {
	opts, err := Load(path)
	if err != nil {
		return nil, err
	}
	m, err := tilemap.New(opts, log)
	if err != nil {
		return nil, fmt.Errorf("build map %s: %w", path, err)
	}
	m.ResolvePaths(filepath.Dir(path))
	return m, nil
}

// Save writes m to path as indented JSON, which YAML readers accept as well.
// The file is replaced atomically.
func Save(path string, m *tilemap.TileMap) error {
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode map %s: %w", path, err)
	}
	raw = append(raw, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmedit-*")
	if err != nil {
		return fmt.Errorf("write map %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write map %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write map %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write map %s: %w", path, err)
	}
	return nil
}
