package grid

import (
	"github.com/tilekit/tilemap/internal/core/event"
	"github.com/tilekit/tilemap/internal/tile"
)

// CellData is a tile data change tagged with the tile's current position.
type CellData struct {
	Index  int
	X, Y   int
	Change tile.DataChange
}

// CellProperty is a tile property change tagged with the tile's current
// position.
type CellProperty struct {
	Index  int
	X, Y   int
	Change tile.PropertyChange
}

type cell struct {
	index    int
	data     event.Handle
	prop     event.Handle
	wasEmits bool
}

// DataEvents publishes CellData while the grid is observed.
func (g *Grid) DataEvents() *event.Registry[CellData] { return &g.dataEvents }

// PropertyEvents publishes CellProperty while the grid is observed.
func (g *Grid) PropertyEvents() *event.Registry[CellProperty] { return &g.propEvents }

// Observed reports whether Observe is in effect.
func (g *Grid) Observed() bool { return g.cells != nil }

// Observe enables events on every tile and forwards them through DataEvents
// and PropertyEvents. Tiles added by Resize are observed as well.
func (g *Grid) Observe() {
	if g.cells != nil {
		return
	}
	g.cells = make(map[*tile.Tile]*cell, len(g.tiles))
	for i, t := range g.tiles {
		g.attach(t, i)
	}
}

// Release detaches from every tile and restores each tile's previous event
// setting.
func (g *Grid) Release() {
	for t := range g.cells {
		g.detach(t)
	}
	g.cells = nil
}

func (g *Grid) attach(t *tile.Tile, i int) {
	c := &cell{index: i, wasEmits: t.EmitEvents()}
	t.SetEmitEvents(true)
	c.data = t.DataEvents().Subscribe(func(ch tile.DataChange) {
		x, y := g.coords(c.index)
		g.dataEvents.Publish(CellData{Index: c.index, X: x, Y: y, Change: ch})
	})
	c.prop = t.PropertyEvents().Subscribe(func(ch tile.PropertyChange) {
		x, y := g.coords(c.index)
		g.propEvents.Publish(CellProperty{Index: c.index, X: x, Y: y, Change: ch})
	})
	g.cells[t] = c
}

func (g *Grid) detach(t *tile.Tile) {
	c, ok := g.cells[t]
	if !ok {
		return
	}
	t.DataEvents().Unsubscribe(c.data)
	t.PropertyEvents().Unsubscribe(c.prop)
	t.SetEmitEvents(c.wasEmits)
	delete(g.cells, t)
}

// reindex updates observation after Resize replaced g.tiles. Tiles not yet
// attached are the ones Resize created.
func (g *Grid) reindex(dropped []*tile.Tile) {
	if g.cells == nil {
		return
	}
	for _, t := range dropped {
		g.detach(t)
	}
	for i, t := range g.tiles {
		if c, ok := g.cells[t]; ok {
			c.index = i
			continue
		}
		g.attach(t, i)
	}
}
