package tilemap

import (
	"encoding/json"
	"fmt"

	"github.com/tilekit/tilemap/internal/property"
)

// Options is the serialized form of a map. Width and height are written
// even though they only change through Resize.
type Options struct {
	Name       string           `json:"name" yaml:"name"`
	Width      int              `json:"width" yaml:"width"`
	Height     int              `json:"height" yaml:"height"`
	TileWidth  int              `json:"tileWidth" yaml:"tileWidth"`
	TileHeight int              `json:"tileHeight" yaml:"tileHeight"`
	Layers     []LayerOptions   `json:"layers" yaml:"layers"`
	Objects    []ObjectOptions  `json:"objects" yaml:"objects"`
	Tilesets   []TileSetOptions `json:"tilesets" yaml:"tilesets"`
	Properties property.Pairs   `json:"properties" yaml:"properties"`
}

// Options returns the serializable form of the map.
func (m *TileMap) Options() Options {
	opts := Options{
		Name:       m.Name,
		Width:      m.width,
		Height:     m.height,
		TileWidth:  m.TileWidth,
		TileHeight: m.TileHeight,
		Layers:     []LayerOptions{},
		Objects:    []ObjectOptions{},
		Tilesets:   []TileSetOptions{},
		Properties: m.props.All(),
	}
	for _, l := range m.layers.Items() {
		opts.Layers = append(opts.Layers, l.Options())
	}
	for _, o := range m.objects.Items() {
		opts.Objects = append(opts.Objects, o.Options())
	}
	for _, ts := range m.tilesets.Items() {
		opts.Tilesets = append(opts.Tilesets, ts.Options())
	}
	return opts
}

func (m *TileMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Options())
}

// Clone returns a deep copy of the map with an empty change buffer. The copy
// logs to the same logger.
func (m *TileMap) Clone() (*TileMap, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("clone map %q: %w", m.Name, err)
	}
	var opts Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, fmt.Errorf("clone map %q: %w", m.Name, err)
	}
	c, err := New(opts, m.log)
	if err != nil {
		return nil, err
	}
	for i, ts := range m.tilesets.Items() {
		if dst, err := c.tilesets.At(i); err == nil {
			dst.resolved = ts.resolved
		}
	}
	return c, nil
}

// ResolvePaths resolves every tileset path against baseDir.
func (m *TileMap) ResolvePaths(baseDir string) {
	for _, ts := range m.tilesets.Items() {
		ts.Resolve(baseDir)
	}
}
