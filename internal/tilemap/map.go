// Package tilemap aggregates layers, objects, tilesets and map properties
// into one map and records every change made to any of them in a drainable
// buffer.
package tilemap

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tilekit/tilemap/internal/collection"
	"github.com/tilekit/tilemap/internal/core/event"
	"github.com/tilekit/tilemap/internal/grid"
	"github.com/tilekit/tilemap/internal/property"
)

type (
	LayerEvent   = collection.Event[*Layer, LayerChange]
	ObjectEvent  = collection.Event[*MapObject, property.Change]
	TilesetEvent = collection.Event[*TileSet, TileSetChange]
)

// TileMap is an editable tilemap. All access must come from one goroutine.
type TileMap struct {
	Name       string
	TileWidth  int
	TileHeight int

	width  int
	height int

	layers   *collection.Collection[*Layer, LayerChange]
	objects  *collection.Collection[*MapObject, property.Change]
	tilesets *collection.Collection[*TileSet, TileSetChange]
	props    *property.Store

	buffer event.Buffer[Change]
	log    *zap.Logger
}

// New builds a map from opts. A nil logger disables logging.
func New(opts Options, log *zap.Logger) (*TileMap, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: map size %dx%d", grid.ErrOutOfRange, opts.Width, opts.Height)
	}
	name := opts.Name
	if name == "" {
		name = "Tilemap"
	}
	props, err := property.FromPairs(opts.Properties)
	if err != nil {
		return nil, fmt.Errorf("map %q: %w", name, err)
	}

	m := &TileMap{
		Name:       name,
		TileWidth:  opts.TileWidth,
		TileHeight: opts.TileHeight,
		width:      opts.Width,
		height:     opts.Height,
		props:      props,
		log:        log,
		layers: collection.New(func(l *Layer) *event.Registry[LayerChange] {
			return l.Events()
		}),
		objects: collection.New(func(o *MapObject) *event.Registry[property.Change] {
			return o.Properties().Events()
		}),
		tilesets: collection.New(func(ts *TileSet) *event.Registry[TileSetChange] {
			return ts.Events()
		}),
	}
	m.wire()

	for i, lo := range opts.Layers {
		if _, err := m.CreateLayer(lo); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
	}
	for i, oo := range opts.Objects {
		if _, err := m.AddObject(oo); err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
	}
	for i, to := range opts.Tilesets {
		if _, err := m.AddTileset(to); err != nil {
			return nil, fmt.Errorf("tileset %d: %w", i, err)
		}
	}
	return m, nil
}

var errNilItem = errors.New("nil item")

func (m *TileMap) wire() {
	m.layers.SetValidator(func(l *Layer) error {
		if l == nil {
			return errNilItem
		}
		if l.Width() != m.width || l.Height() != m.height {
			return fmt.Errorf("%w: layer %q is %dx%d, map is %dx%d",
				grid.ErrOutOfRange, l.Name, l.Width(), l.Height(), m.width, m.height)
		}
		return nil
	})
	m.objects.SetValidator(func(o *MapObject) error {
		if o == nil {
			return errNilItem
		}
		return nil
	})
	m.tilesets.SetValidator(func(ts *TileSet) error {
		if ts == nil {
			return errNilItem
		}
		return nil
	})

	m.props.Events().Subscribe(func(c property.Change) {
		m.buffer.Append(Change{Kind: KindProperty, Origin: OriginMap, Index: -1, ID: -1, Property: c})
	})
	m.layers.Events().Subscribe(func(ev LayerEvent) {
		c := Change{Origin: OriginLayer, Index: ev.Model.Index, ID: ev.Detail.Cell}
		if d := ev.Detail.Data; d != nil {
			c.Kind, c.Old, c.New = KindData, d.Old, d.New
		} else {
			c.Kind, c.Property = KindProperty, *ev.Detail.Property
		}
		m.buffer.Append(c)
	})
	m.objects.Events().Subscribe(func(ev ObjectEvent) {
		m.buffer.Append(Change{Kind: KindProperty, Origin: OriginObject, Index: ev.Model.Index, ID: -1, Property: ev.Detail})
	})
	m.tilesets.Events().Subscribe(func(ev TilesetEvent) {
		m.buffer.Append(Change{Kind: KindProperty, Origin: OriginTileset, Index: ev.Model.Index, ID: ev.Detail.TileID, Property: ev.Detail.Change})
	})
}

func (m *TileMap) Width() int { return m.width }

func (m *TileMap) Height() int { return m.height }

func (m *TileMap) Properties() *property.Store { return m.props }

// Layers gives direct access to the layer collection. Inserted layers must
// match the map size.
func (m *TileMap) Layers() *collection.Collection[*Layer, LayerChange] { return m.layers }

func (m *TileMap) Objects() *collection.Collection[*MapObject, property.Change] { return m.objects }

func (m *TileMap) Tilesets() *collection.Collection[*TileSet, TileSetChange] { return m.tilesets }

// Layer returns layer i, or nil when there is none.
func (m *TileMap) Layer(i int) *Layer {
	l, err := m.layers.At(i)
	if err != nil {
		return nil
	}
	return l
}

// CreateLayer builds a layer sized to the map and appends it.
func (m *TileMap) CreateLayer(opts LayerOptions) (*Layer, error) {
	l, err := NewLayer(m.width, m.height, opts)
	if err != nil {
		return nil, err
	}
	if err := m.layers.Push(l); err != nil {
		return nil, err
	}
	m.log.Debug("layer created",
		zap.String("map", m.Name),
		zap.String("layer", l.Name),
		zap.Int("index", m.layers.Len()-1),
	)
	return l, nil
}

// RemoveLayer removes layer i. Changes made to it afterwards are not
// recorded.
func (m *TileMap) RemoveLayer(i int) (*Layer, error) {
	l, err := m.layers.Remove(i)
	if err != nil {
		return nil, err
	}
	m.log.Debug("layer removed", zap.String("map", m.Name), zap.String("layer", l.Name), zap.Int("index", i))
	return l, nil
}

func (m *TileMap) AddObject(opts ObjectOptions) (*MapObject, error) {
	o, err := NewObject(opts)
	if err != nil {
		return nil, err
	}
	if err := m.objects.Push(o); err != nil {
		return nil, err
	}
	return o, nil
}

func (m *TileMap) AddTileset(opts TileSetOptions) (*TileSet, error) {
	ts, err := NewTileset(opts)
	if err != nil {
		return nil, err
	}
	if err := m.tilesets.Push(ts); err != nil {
		return nil, err
	}
	return ts, nil
}

// Resize changes the map size and resizes every layer to match, in layer
// order. Tiles inside both sizes are kept.
func (m *TileMap) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: map size %dx%d", grid.ErrOutOfRange, width, height)
	}
	m.log.Debug("resize map",
		zap.String("map", m.Name),
		zap.Int("from_w", m.width), zap.Int("from_h", m.height),
		zap.Int("to_w", width), zap.Int("to_h", height),
		zap.Int("layers", m.layers.Len()),
	)
	m.width, m.height = width, height
	for i, l := range m.layers.Items() {
		if err := l.Grid().Resize(width, height); err != nil {
			return fmt.Errorf("resize layer %d: %w", i, err)
		}
	}
	return nil
}

// TakeDataBuffer returns every change recorded since the previous call and
// empties the buffer.
func (m *TileMap) TakeDataBuffer() []Change {
	out := m.buffer.Take()
	if len(out) > 0 {
		m.log.Debug("drain change buffer", zap.String("map", m.Name), zap.Int("entries", len(out)))
	}
	return out
}

// PeekDataBuffer returns the recorded changes without draining them.
func (m *TileMap) PeekDataBuffer() []Change {
	return m.buffer.Peek()
}
