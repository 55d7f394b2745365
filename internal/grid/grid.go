// Package grid implements rectangular, row-major tile grids: coordinate
// indexing, region operations and per-cell change notification.
package grid

import (
	"errors"
	"fmt"

	"github.com/tilekit/tilemap/internal/core/event"
	"github.com/tilekit/tilemap/internal/tile"
)

// ErrOutOfRange is the root of every range failure: coordinates outside the
// grid, invalid rectangles and tile counts that do not match the dimensions.
var ErrOutOfRange = errors.New("out of range")

// Grid is a width*height array of tiles stored row-major. Tiles are held by
// pointer and edited in place, so a *tile.Tile taken from a grid stays the
// tile at that coordinate until the grid is resized past it.
type Grid struct {
	width  int
	height int
	tiles  []*tile.Tile

	// fill is the data of tiles created by Resize.
	fill tile.Data

	cells      map[*tile.Tile]*cell
	dataEvents event.Registry[CellData]
	propEvents event.Registry[CellProperty]
}

// New creates a grid over tiles. The grid takes ownership of the slice
// elements; every tile must be distinct and non-nil.
func New(width, height int, tiles []*tile.Tile) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: grid size %dx%d", ErrOutOfRange, width, height)
	}
	if len(tiles) != width*height {
		return nil, fmt.Errorf("%w: %d tiles for a %dx%d grid", ErrOutOfRange, len(tiles), width, height)
	}
	seen := make(map[*tile.Tile]int, len(tiles))
	for i, t := range tiles {
		if t == nil {
			return nil, fmt.Errorf("%w: nil tile at index %d", tile.ErrInvalidTile, i)
		}
		if j, dup := seen[t]; dup {
			return nil, fmt.Errorf("%w: index %d repeats the tile at index %d", tile.ErrInvalidTile, i, j)
		}
		seen[t] = i
	}
	return &Grid{
		width:  width,
		height: height,
		tiles:  append([]*tile.Tile(nil), tiles...),
		fill:   tile.Empty,
	}, nil
}

// Filled creates a grid whose tiles all hold d. Tiles later added by Resize
// hold d as well.
func Filled(width, height int, d tile.Data) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: grid size %dx%d", ErrOutOfRange, width, height)
	}
	tiles := make([]*tile.Tile, width*height)
	for i := range tiles {
		tiles[i] = tile.FromData(d)
	}
	g, err := New(width, height, tiles)
	if err != nil {
		return nil, err
	}
	g.fill = d
	return g, nil
}

func (g *Grid) Width() int { return g.width }

func (g *Grid) Height() int { return g.height }

// Len returns width*height.
func (g *Grid) Len() int { return len(g.tiles) }

// Fill returns the data new tiles receive on Resize.
func (g *Grid) Fill() tile.Data { return g.fill }

// SetFill changes the data new tiles receive on Resize.
func (g *Grid) SetFill(d tile.Data) { g.fill = d }

// InBounds reports whether 0 <= x < width and 0 <= y < height.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Index maps a coordinate to its position in the row-major tile array.
func (g *Grid) Index(x, y int) (int, error) {
	if !g.InBounds(x, y) {
		return 0, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfRange, x, y, g.width, g.height)
	}
	return y*g.width + x, nil
}

// At returns the tile at (x, y).
func (g *Grid) At(x, y int) (*tile.Tile, error) {
	i, err := g.Index(x, y)
	if err != nil {
		return nil, err
	}
	return g.tiles[i], nil
}

// Tile returns the tile at index i, or nil when i is out of range.
func (g *Grid) Tile(i int) *tile.Tile {
	if i < 0 || i >= len(g.tiles) {
		return nil
	}
	return g.tiles[i]
}

// Tiles returns the tiles in row-major order. The slice is a copy; the
// tiles are not.
func (g *Grid) Tiles() []*tile.Tile {
	return append([]*tile.Tile(nil), g.tiles...)
}

// Data returns a snapshot of every tile's id pair.
func (g *Grid) Data() []tile.Data {
	out := make([]tile.Data, len(g.tiles))
	for i, t := range g.tiles {
		out[i] = t.Data()
	}
	return out
}

// Options returns the serializable form of every tile.
func (g *Grid) Options() []tile.Options {
	out := make([]tile.Options, len(g.tiles))
	for i, t := range g.tiles {
		out[i] = t.Options()
	}
	return out
}

func (g *Grid) coords(i int) (int, int) {
	return i % g.width, i / g.width
}
