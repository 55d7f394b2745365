package tilemap

import (
	"fmt"

	"github.com/tilekit/tilemap/internal/core/event"
	"github.com/tilekit/tilemap/internal/grid"
	"github.com/tilekit/tilemap/internal/property"
	"github.com/tilekit/tilemap/internal/tile"
)

// LayerDefault is the data of every cell of a layer created without tiles.
var LayerDefault = tile.Data{TileID: tile.NoID, TilesetID: 0}

// LayerOptions is the serialized form of a layer. Layers take their size
// from the map, so it carries no dimensions.
type LayerOptions struct {
	Name       string         `json:"name" yaml:"name"`
	Tiles      []tile.Options `json:"tiles,omitempty" yaml:"tiles,omitempty"`
	Properties property.Pairs `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// LayerChange is published by a layer. Cell is -1 for changes of the
// layer's own properties; exactly one of Data and Property is set.
type LayerChange struct {
	Cell     int
	Data     *tile.DataChange
	Property *property.Change
}

// Layer is a named, observed tile grid sized to its map.
type Layer struct {
	Name string

	grid   *grid.Grid
	props  *property.Store
	events event.Registry[LayerChange]
}

// NewLayer builds a width*height layer. opts.Tiles must be empty or hold
// exactly width*height tiles.
func NewLayer(width, height int, opts LayerOptions) (*Layer, error) {
	name := opts.Name
	if name == "" {
		name = "Tilelayer"
	}
	props, err := property.FromPairs(opts.Properties)
	if err != nil {
		return nil, fmt.Errorf("layer %q: %w", name, err)
	}

	var g *grid.Grid
	if len(opts.Tiles) == 0 {
		g, err = grid.Filled(width, height, LayerDefault)
	} else {
		g, err = gridFromOptions(width, height, opts.Tiles)
	}
	if err != nil {
		return nil, fmt.Errorf("layer %q: %w", name, err)
	}
	g.SetFill(LayerDefault)

	l := &Layer{Name: name, grid: g, props: props}
	g.Observe()
	g.DataEvents().Subscribe(func(c grid.CellData) {
		ch := c.Change
		l.events.Publish(LayerChange{Cell: c.Index, Data: &ch})
	})
	g.PropertyEvents().Subscribe(func(c grid.CellProperty) {
		ch := c.Change.Change
		l.events.Publish(LayerChange{Cell: c.Index, Property: &ch})
	})
	props.Events().Subscribe(func(c property.Change) {
		l.events.Publish(LayerChange{Cell: -1, Property: &c})
	})
	return l, nil
}

func gridFromOptions(width, height int, opts []tile.Options) (*grid.Grid, error) {
	if len(opts) != width*height {
		return nil, fmt.Errorf("%w: %d tiles for a %dx%d layer", grid.ErrOutOfRange, len(opts), width, height)
	}
	tiles := make([]*tile.Tile, len(opts))
	for i, o := range opts {
		t, err := tile.New(o)
		if err != nil {
			return nil, fmt.Errorf("tile %d: %w", i, err)
		}
		tiles[i] = t
	}
	return grid.New(width, height, tiles)
}

// Events publishes every change of the layer's cells and properties.
func (l *Layer) Events() *event.Registry[LayerChange] { return &l.events }

func (l *Layer) Grid() *grid.Grid { return l.grid }

func (l *Layer) Properties() *property.Store { return l.props }

func (l *Layer) Width() int { return l.grid.Width() }

func (l *Layer) Height() int { return l.grid.Height() }

// Tile returns the tile at index i, or nil when i is out of range.
func (l *Layer) Tile(i int) *tile.Tile { return l.grid.Tile(i) }

// At returns the tile at (x, y).
func (l *Layer) At(x, y int) (*tile.Tile, error) { return l.grid.At(x, y) }

// Options returns the serializable form of the layer.
func (l *Layer) Options() LayerOptions {
	return LayerOptions{
		Name:       l.Name,
		Tiles:      l.grid.Options(),
		Properties: l.props.All(),
	}
}
