package tilemap

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/tilekit/tilemap/internal/core/event"
	"github.com/tilekit/tilemap/internal/property"
)

// ErrTilesetType is returned for a tileset type other than test or image.
var ErrTilesetType = errors.New("unknown tileset type")

const (
	TilesetTest  = "test"
	TilesetImage = "image"
)

// TileOptions holds the custom properties of one tile id of a tileset.
type TileOptions struct {
	ID         int            `json:"id" yaml:"id"`
	Properties property.Pairs `json:"properties" yaml:"properties"`
}

// TileSetOptions is the serialized form of a tileset. The resolved path is
// derived on load and never written.
type TileSetOptions struct {
	Name       string         `json:"name" yaml:"name"`
	Type       string         `json:"type" yaml:"type"`
	Path       string         `json:"path,omitempty" yaml:"path,omitempty"`
	Properties property.Pairs `json:"properties,omitempty" yaml:"properties,omitempty"`
	Tiles      []TileOptions  `json:"tiles,omitempty" yaml:"tiles,omitempty"`
}

// TileSetChange is published by a tileset. TileID is -1 for the tileset's
// own properties.
type TileSetChange struct {
	TileID int
	Change property.Change
}

// TileSet describes where tile ids of one tileset id come from, plus
// custom data for the tileset and for individual tile ids.
type TileSet struct {
	Name string
	Type string
	Path string

	resolved  string
	props     *property.Store
	tileProps map[int]*property.Store
	events    event.Registry[TileSetChange]
}

// NewTileset creates a tileset. Name defaults to "Tileset" and type to
// "test".
func NewTileset(opts TileSetOptions) (*TileSet, error) {
	ts := &TileSet{
		Name:      opts.Name,
		Type:      opts.Type,
		Path:      opts.Path,
		tileProps: make(map[int]*property.Store),
	}
	if ts.Name == "" {
		ts.Name = "Tileset"
	}
	switch ts.Type {
	case "":
		ts.Type = TilesetTest
	case TilesetTest, TilesetImage:
	default:
		return nil, fmt.Errorf("%w: %q", ErrTilesetType, ts.Type)
	}

	props, err := property.FromPairs(opts.Properties)
	if err != nil {
		return nil, fmt.Errorf("tileset %q: %w", ts.Name, err)
	}
	ts.props = props
	props.Events().Subscribe(func(c property.Change) {
		ts.events.Publish(TileSetChange{TileID: -1, Change: c})
	})

	for _, t := range opts.Tiles {
		store, err := property.FromPairs(t.Properties)
		if err != nil {
			return nil, fmt.Errorf("tileset %q tile %d: %w", ts.Name, t.ID, err)
		}
		ts.bindTile(t.ID, store)
	}
	return ts, nil
}

func (ts *TileSet) Events() *event.Registry[TileSetChange] { return &ts.events }

func (ts *TileSet) Properties() *property.Store { return ts.props }

// TileProperties returns the store of tile id, creating it on first use.
func (ts *TileSet) TileProperties(id int) *property.Store {
	if s, ok := ts.tileProps[id]; ok {
		return s
	}
	s := property.New()
	ts.bindTile(id, s)
	return s
}

// TileIDs returns the ids that have a property store, ascending.
func (ts *TileSet) TileIDs() []int {
	ids := make([]int, 0, len(ts.tileProps))
	for id := range ts.tileProps {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (ts *TileSet) bindTile(id int, s *property.Store) {
	ts.tileProps[id] = s
	s.Events().Subscribe(func(c property.Change) {
		ts.events.Publish(TileSetChange{TileID: id, Change: c})
	})
}

// Resolve derives the resolved path from a relative Path and the directory
// the map was loaded from.
func (ts *TileSet) Resolve(baseDir string) {
	switch {
	case ts.Path == "":
		ts.resolved = ""
	case filepath.IsAbs(ts.Path):
		ts.resolved = filepath.Clean(ts.Path)
	default:
		ts.resolved = filepath.Join(baseDir, ts.Path)
	}
}

// ResolvedPath returns the path set by Resolve.
func (ts *TileSet) ResolvedPath() string { return ts.resolved }

func (ts *TileSet) Options() TileSetOptions {
	opts := TileSetOptions{
		Name:       ts.Name,
		Type:       ts.Type,
		Path:       ts.Path,
		Properties: ts.props.All(),
	}
	for _, id := range ts.TileIDs() {
		s := ts.tileProps[id]
		if s.Len() == 0 {
			continue
		}
		opts.Tiles = append(opts.Tiles, TileOptions{ID: id, Properties: s.All()})
	}
	return opts
}
