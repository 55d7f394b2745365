package tilemap

import (
	"fmt"

	"github.com/tilekit/tilemap/internal/grid"
	"github.com/tilekit/tilemap/internal/property"
)

// ObjectOptions is the serialized form of a map object.
type ObjectOptions struct {
	Name       string         `json:"name" yaml:"name"`
	X          float64        `json:"x" yaml:"x"`
	Y          float64        `json:"y" yaml:"y"`
	Width      float64        `json:"width" yaml:"width"`
	Height     float64        `json:"height" yaml:"height"`
	Properties property.Pairs `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// MapObject is a free rectangle on the map, not bound to the tile grid.
type MapObject struct {
	Name string
	X, Y float64

	width  float64
	height float64
	props  *property.Store
}

// NewObject creates an object; width and height must be positive.
func NewObject(opts ObjectOptions) (*MapObject, error) {
	o := &MapObject{Name: opts.Name, X: opts.X, Y: opts.Y}
	if err := o.SetSize(opts.Width, opts.Height); err != nil {
		return nil, err
	}
	props, err := property.FromPairs(opts.Properties)
	if err != nil {
		return nil, fmt.Errorf("object %q: %w", opts.Name, err)
	}
	o.props = props
	return o, nil
}

func (o *MapObject) Width() float64 { return o.width }

func (o *MapObject) Height() float64 { return o.height }

// SetSize changes the object's size.
func (o *MapObject) SetSize(width, height float64) error {
	if !(width > 0) || !(height > 0) {
		return fmt.Errorf("%w: object %q size %gx%g", grid.ErrOutOfRange, o.Name, width, height)
	}
	o.width, o.height = width, height
	return nil
}

func (o *MapObject) Properties() *property.Store { return o.props }

// Clone returns a copy with its own property store.
func (o *MapObject) Clone() *MapObject {
	c := *o
	c.props = o.props.Clone()
	return &c
}

func (o *MapObject) Options() ObjectOptions {
	return ObjectOptions{
		Name:       o.Name,
		X:          o.X,
		Y:          o.Y,
		Width:      o.width,
		Height:     o.height,
		Properties: o.props.All(),
	}
}
