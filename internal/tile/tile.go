// Package tile implements a single grid cell: a tile id, the id of the
// tileset that tile id refers to, and custom per-cell properties.
package tile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tilekit/tilemap/internal/core/event"
	"github.com/tilekit/tilemap/internal/property"
)

// ErrInvalidTile is returned for malformed tile input.
var ErrInvalidTile = errors.New("invalid tile")

// NoID marks an absent tile or tileset id.
const NoID = -1

// Data is the id pair of a tile.
type Data struct {
	TileID    int `json:"tileId" yaml:"tileId"`
	TilesetID int `json:"tilesetId" yaml:"tilesetId"`
}

// Empty is the canonical "no tile" value.
var Empty = Data{TileID: NoID, TilesetID: NoID}

// IsEmpty reports whether the data denotes no tile.
func (d Data) IsEmpty() bool {
	return d.TileID < 0
}

// String renders the compact "tileId:tilesetId" form.
func (d Data) String() string {
	return strconv.Itoa(d.TileID) + ":" + strconv.Itoa(d.TilesetID)
}

// ParseData parses the compact "tileId:tilesetId" form.
func ParseData(s string) (Data, error) {
	idPart, tsPart, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Data{}, fmt.Errorf("%w: %q is not in tileId:tilesetId form", ErrInvalidTile, s)
	}
	id, err := strconv.Atoi(idPart)
	if err != nil {
		return Data{}, fmt.Errorf("%w: tile id %q: %v", ErrInvalidTile, idPart, err)
	}
	ts, err := strconv.Atoi(tsPart)
	if err != nil {
		return Data{}, fmt.Errorf("%w: tileset id %q: %v", ErrInvalidTile, tsPart, err)
	}
	return Data{TileID: id, TilesetID: ts}, nil
}

// DataChange is published when SetData changes a tile's ids.
type DataChange struct {
	Tile *Tile
	Old  Data
	New  Data
}

// PropertyChange relays a change of a tile's property store.
type PropertyChange struct {
	Tile   *Tile
	Change property.Change
}

// Tile is one mutable grid cell. Grids hold tiles by pointer and mutate them
// in place, so listeners attached to a tile survive edits.
//
// Events are disabled by default so bulk construction does not pay for
// dispatch. SetEmitEvents(true) starts publishing data changes and relaying
// property changes.
type Tile struct {
	data  Data
	props *property.Store

	emit       bool
	propHandle event.Handle

	dataEvents event.Registry[DataChange]
	propEvents event.Registry[PropertyChange]
}

// New creates a tile from options. The zero Options value is not an empty
// tile (ids 0:0); use Default for that.
func New(opts Options) (*Tile, error) {
	props, err := property.FromPairs(opts.Properties)
	if err != nil {
		return nil, fmt.Errorf("tile %s: %w", opts.Data(), err)
	}
	return &Tile{data: opts.Data(), props: props}, nil
}

// Default creates an empty tile (-1:-1) without properties.
func Default() *Tile {
	return FromData(Empty)
}

// FromData creates a tile without properties.
func FromData(d Data) *Tile {
	return &Tile{data: d, props: property.New()}
}

// Parse creates a tile from the compact "tileId:tilesetId" form.
func Parse(s string) (*Tile, error) {
	d, err := ParseData(s)
	if err != nil {
		return nil, err
	}
	return FromData(d), nil
}

func (t *Tile) TileID() int { return t.data.TileID }

func (t *Tile) TilesetID() int { return t.data.TilesetID }

// Data returns a snapshot of the id pair.
func (t *Tile) Data() Data { return t.data }

// IsEmpty reports whether the tile holds no tile id.
func (t *Tile) IsEmpty() bool { return t.data.IsEmpty() }

// Properties returns the tile's own property store.
func (t *Tile) Properties() *property.Store { return t.props }

// DataEvents publishes DataChange while events are enabled.
func (t *Tile) DataEvents() *event.Registry[DataChange] { return &t.dataEvents }

// PropertyEvents relays the property store's changes while events are
// enabled.
func (t *Tile) PropertyEvents() *event.Registry[PropertyChange] { return &t.propEvents }

// EmitEvents reports whether events are enabled.
func (t *Tile) EmitEvents() bool { return t.emit }

// SetEmitEvents enables or disables event publication. Enabling attaches the
// property relay, disabling detaches it; repeated calls are no-ops.
func (t *Tile) SetEmitEvents(on bool) {
	if on == t.emit {
		return
	}
	t.emit = on
	if on {
		t.propHandle = t.props.Events().Subscribe(func(c property.Change) {
			t.propEvents.Publish(PropertyChange{Tile: t, Change: c})
		})
		return
	}
	t.props.Events().Unsubscribe(t.propHandle)
	t.propHandle = 0
}

// SetData updates both ids. An id is only written when it is >= 0 or
// replaceEmpty is set; written ids are floored at -1.
func (t *Tile) SetData(tileID, tilesetID int, replaceEmpty bool) {
	next := t.data
	if tileID >= 0 || replaceEmpty {
		next.TileID = max(tileID, NoID)
	}
	if tilesetID >= 0 || replaceEmpty {
		next.TilesetID = max(tilesetID, NoID)
	}
	t.apply(next)
}

// SetTileID updates the tile id only, following the SetData rule.
func (t *Tile) SetTileID(tileID int, replaceEmpty bool) {
	next := t.data
	if tileID >= 0 || replaceEmpty {
		next.TileID = max(tileID, NoID)
	}
	t.apply(next)
}

// Assign copies d into the tile as is, including empty ids.
func (t *Tile) Assign(d Data) {
	t.SetData(d.TileID, d.TilesetID, true)
}

func (t *Tile) apply(next Data) {
	old := t.data
	if old == next {
		return
	}
	t.data = next
	if t.emit {
		t.dataEvents.Publish(DataChange{Tile: t, Old: old, New: next})
	}
}

// Clone returns an independent copy with its own property store. The clone
// starts with events disabled.
func (t *Tile) Clone() *Tile {
	return &Tile{data: t.data, props: t.props.Clone()}
}

// Options returns the serializable form of the tile.
func (t *Tile) Options() Options {
	return Options{
		TileID:     t.data.TileID,
		TilesetID:  t.data.TilesetID,
		Properties: t.props.All(),
	}
}

// String renders the compact form, ignoring properties.
func (t *Tile) String() string {
	return t.data.String()
}
