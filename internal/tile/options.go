package tile

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tilekit/tilemap/internal/property"
)

// Options is the serialized form of a tile. It decodes from either the
// compact "tileId:tilesetId" string or a {tileId, tilesetId, properties}
// object; ids missing from the object default to -1.
type Options struct {
	TileID     int            `json:"tileId" yaml:"tileId"`
	TilesetID  int            `json:"tilesetId" yaml:"tilesetId"`
	Properties property.Pairs `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Data returns the id pair of the options.
func (o Options) Data() Data {
	return Data{TileID: o.TileID, TilesetID: o.TilesetID}
}

type optionsObject struct {
	TileID     int            `json:"tileId" yaml:"tileId"`
	TilesetID  int            `json:"tilesetId" yaml:"tilesetId"`
	Properties property.Pairs `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// MarshalJSON collapses tiles without properties to the compact string.
func (o Options) MarshalJSON() ([]byte, error) {
	if len(o.Properties) == 0 {
		return json.Marshal(o.Data().String())
	}
	return json.Marshal(optionsObject(o))
}

func (o *Options) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTile, err)
		}
		d, err := ParseData(s)
		if err != nil {
			return err
		}
		*o = Options{TileID: d.TileID, TilesetID: d.TilesetID}
		return nil
	}
	obj := optionsObject{TileID: NoID, TilesetID: NoID}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTile, err)
	}
	*o = Options(obj)
	return nil
}

func (o *Options) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		d, err := ParseData(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*o = Options{TileID: d.TileID, TilesetID: d.TilesetID}
		return nil
	}
	obj := optionsObject{TileID: NoID, TilesetID: NoID}
	if err := node.Decode(&obj); err != nil {
		return fmt.Errorf("%w: line %d: %w", ErrInvalidTile, node.Line, err)
	}
	*o = Options(obj)
	return nil
}

// MarshalJSON writes "tileId:tilesetId" for tiles without properties and a
// structured object otherwise.
func (t *Tile) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Options())
}
