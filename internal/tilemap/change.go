package tilemap

import (
	"encoding/json"

	"github.com/tilekit/tilemap/internal/property"
	"github.com/tilekit/tilemap/internal/tile"
)

// Origin tells which part of a map produced a Change.
type Origin uint8

const (
	OriginMap Origin = iota
	OriginLayer
	OriginObject
	OriginTileset
)

func (o Origin) String() string {
	switch o {
	case OriginLayer:
		return "layer"
	case OriginObject:
		return "object"
	case OriginTileset:
		return "tileset"
	}
	return "map"
}

// Kind separates tile data changes from property changes.
type Kind uint8

const (
	KindData Kind = iota
	KindProperty
)

// Change is one entry of the map's change buffer.
type Change struct {
	Kind   Kind
	Origin Origin
	// Index is the position of the originating layer, object or tileset at
	// the time of the change; -1 for map-level changes.
	Index int
	// ID is the tile index for cell changes and the tile id for per-tile
	// tileset properties; -1 otherwise.
	ID int

	// Set for KindData.
	Old tile.Data
	New tile.Data

	// Set for KindProperty.
	Property property.Change
}

type changeJSON struct {
	Layer   *int    `json:"layer,omitempty"`
	Object  *int    `json:"object,omitempty"`
	Tileset *int    `json:"tileset,omitempty"`
	ID      *int    `json:"id,omitempty"`
	Key     *string `json:"key,omitempty"`
	Old     any     `json:"old,omitempty"`
	New     any     `json:"new,omitempty"`
}

// MarshalJSON writes {layer, id, old, new} for tile data changes and
// {layer|object|tileset, id, key, old, new} for property changes. The origin
// field is absent for map properties, id is absent when not applicable, old
// is absent for a key's first write and new is absent for removals.
func (c Change) MarshalJSON() ([]byte, error) {
	var out changeJSON
	idx := c.Index
	switch c.Origin {
	case OriginLayer:
		out.Layer = &idx
	case OriginObject:
		out.Object = &idx
	case OriginTileset:
		out.Tileset = &idx
	}
	if c.ID >= 0 {
		id := c.ID
		out.ID = &id
	}
	if c.Kind == KindData {
		out.Old, out.New = c.Old, c.New
		return json.Marshal(out)
	}
	key := c.Property.Key
	out.Key = &key
	if c.Property.HadOld {
		out.Old = c.Property.Old
	}
	if !c.Property.Removed {
		out.New = c.Property.New
	}
	return json.Marshal(out)
}
