package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/tilekit/tilemap/internal/grid"
	"github.com/tilekit/tilemap/internal/tile"
	"github.com/tilekit/tilemap/internal/tilemap"
)

// --- map table functions ---
//
// Layers are numbered from 1, cell coordinates from 0.

func (e *Engine) luaName(L *lua.LState) int {
	L.Push(lua.LString(e.m.Name))
	return 1
}

func (e *Engine) luaWidth(L *lua.LState) int {
	L.Push(lua.LNumber(e.m.Width()))
	return 1
}

func (e *Engine) luaHeight(L *lua.LState) int {
	L.Push(lua.LNumber(e.m.Height()))
	return 1
}

func (e *Engine) luaLayers(L *lua.LState) int {
	L.Push(lua.LNumber(e.m.Layers().Len()))
	return 1
}

// create_layer([name]) -> layer number
func (e *Engine) luaCreateLayer(L *lua.LState) int {
	if _, err := e.m.CreateLayer(tilemap.LayerOptions{Name: L.OptString(1, "")}); err != nil {
		L.RaiseError("%s", err)
	}
	L.Push(lua.LNumber(e.m.Layers().Len()))
	return 1
}

// get_tile(layer, x, y) -> tile id, tileset id
func (e *Engine) luaGetTile(L *lua.LState) int {
	t := e.checkTile(L, 1)
	L.Push(lua.LNumber(t.TileID()))
	L.Push(lua.LNumber(t.TilesetID()))
	return 2
}

// set_tile(layer, x, y, id, tileset[, replace_empty])
func (e *Engine) luaSetTile(L *lua.LState) int {
	t := e.checkTile(L, 1)
	t.SetData(L.CheckInt(4), L.CheckInt(5), L.OptBool(6, false))
	return 0
}

// fill(layer, x, y, id, tileset) -> tiles written
func (e *Engine) luaFill(L *lua.LState) int {
	l := e.checkLayer(L, 1)
	pattern, err := grid.Filled(1, 1, tile.Data{TileID: L.CheckInt(4), TilesetID: L.CheckInt(5)})
	if err != nil {
		L.RaiseError("%s", err)
	}
	n, err := l.Grid().FillAt(L.CheckInt(2), L.CheckInt(3), pattern)
	if err != nil {
		L.RaiseError("%s", err)
	}
	L.Push(lua.LNumber(n))
	return 1
}

// stamp(layer, x, y, w, h, {ids...}, tileset[, skip_empty]) -> tiles written
func (e *Engine) luaStamp(L *lua.LState) int {
	l := e.checkLayer(L, 1)
	x, y := L.CheckInt(2), L.CheckInt(3)
	w, h := L.CheckInt(4), L.CheckInt(5)
	ids := L.CheckTable(6)
	tilesetID := L.CheckInt(7)
	skipEmpty := L.OptBool(8, false)

	if ids.Len() != w*h {
		L.ArgError(6, "want w*h tile ids")
	}
	tiles := make([]*tile.Tile, w*h)
	for i := range tiles {
		id, ok := ids.RawGetInt(i + 1).(lua.LNumber)
		if !ok {
			L.ArgError(6, "tile ids must be numbers")
		}
		tiles[i] = tile.FromData(tile.Data{TileID: int(id), TilesetID: tilesetID})
	}
	src, err := grid.New(w, h, tiles)
	if err != nil {
		L.RaiseError("%s", err)
	}
	L.Push(lua.LNumber(l.Grid().Insert(x, y, src, skipEmpty)))
	return 1
}

// get_property(key) -> value
func (e *Engine) luaGetProperty(L *lua.LState) int {
	v, _ := e.m.Properties().Get(L.CheckString(1))
	L.Push(toLua(L, v))
	return 1
}

// set_property(key, value); a nil value removes the key
func (e *Engine) luaSetProperty(L *lua.LState) int {
	key := L.CheckString(1)
	if L.Get(2) == lua.LNil {
		e.m.Properties().Remove(key)
		return 0
	}
	v, err := fromLua(L.Get(2))
	if err != nil {
		L.RaiseError("%s", err)
	}
	if err := e.m.Properties().Set(key, v); err != nil {
		L.RaiseError("%s", err)
	}
	return 0
}

// layer_property(layer, key[, value]) -> value when called without one
func (e *Engine) luaLayerProperty(L *lua.LState) int {
	l := e.checkLayer(L, 1)
	key := L.CheckString(2)
	if L.GetTop() < 3 {
		v, _ := l.Properties().Get(key)
		L.Push(toLua(L, v))
		return 1
	}
	v, err := fromLua(L.Get(3))
	if err != nil {
		L.RaiseError("%s", err)
	}
	if err := l.Properties().Set(key, v); err != nil {
		L.RaiseError("%s", err)
	}
	return 0
}

// tile_property(layer, x, y, key[, value]) -> value when called without one
func (e *Engine) luaTileProperty(L *lua.LState) int {
	t := e.checkTile(L, 1)
	key := L.CheckString(4)
	if L.GetTop() < 5 {
		v, _ := t.Properties().Get(key)
		L.Push(toLua(L, v))
		return 1
	}
	v, err := fromLua(L.Get(5))
	if err != nil {
		L.RaiseError("%s", err)
	}
	if err := t.Properties().Set(key, v); err != nil {
		L.RaiseError("%s", err)
	}
	return 0
}

// resize(w, h)
func (e *Engine) luaResize(L *lua.LState) int {
	if err := e.m.Resize(L.CheckInt(1), L.CheckInt(2)); err != nil {
		L.RaiseError("%s", err)
	}
	return 0
}

// changes() -> number of entries waiting in the change buffer
func (e *Engine) luaChanges(L *lua.LState) int {
	L.Push(lua.LNumber(len(e.m.PeekDataBuffer())))
	return 1
}

// --- argument helpers ---

func (e *Engine) checkLayer(L *lua.LState, n int) *tilemap.Layer {
	l := e.m.Layer(L.CheckInt(n) - 1)
	if l == nil {
		L.ArgError(n, "no such layer")
	}
	return l
}

// checkTile reads layer, x, y starting at argument n.
func (e *Engine) checkTile(L *lua.LState, n int) *tile.Tile {
	l := e.checkLayer(L, n)
	t, err := l.At(L.CheckInt(n+1), L.CheckInt(n+2))
	if err != nil {
		L.RaiseError("%s", err)
	}
	return t
}
