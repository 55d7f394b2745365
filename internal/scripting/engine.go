package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/tilekit/tilemap/internal/tilemap"
)

// Engine wraps a single gopher-lua VM bound to one map. Scripts edit the map
// through the global "map" table; every edit lands in the map's change
// buffer like any other mutation.
// Single-goroutine access only, the same goroutine that owns the map.
type Engine struct {
	vm  *lua.LState
	m   *tilemap.TileMap
	log *zap.Logger
}

// NewEngine creates a Lua VM exposing m.
func NewEngine(m *tilemap.TileMap, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, m: m, log: log}
	api := vm.NewTable()
	vm.SetFuncs(api, map[string]lua.LGFunction{
		"name":           e.luaName,
		"width":          e.luaWidth,
		"height":         e.luaHeight,
		"layers":         e.luaLayers,
		"create_layer":   e.luaCreateLayer,
		"get_tile":       e.luaGetTile,
		"set_tile":       e.luaSetTile,
		"fill":           e.luaFill,
		"stamp":          e.luaStamp,
		"get_property":   e.luaGetProperty,
		"set_property":   e.luaSetProperty,
		"layer_property": e.luaLayerProperty,
		"tile_property":  e.luaTileProperty,
		"resize":         e.luaResize,
		"changes":        e.luaChanges,
	})
	vm.SetGlobal("map", api)
	return e
}

// LoadDir runs every .lua file in dir in name order. A missing directory
// is not an error.
func (e *Engine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		if err := e.DoFile(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// DoFile runs the script at path.
func (e *Engine) DoFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// DoString runs src.
func (e *Engine) DoString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("run lua chunk: %w", err)
	}
	return nil
}

// RunHook calls the global Lua function name without arguments. It reports
// false when no such function is defined.
func (e *Engine) RunHook(name string) (bool, error) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return false, nil
	}
	if _, ok := fn.(*lua.LFunction); !ok {
		return false, fmt.Errorf("lua global %s is a %s, not a function", name, fn.Type())
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}); err != nil {
		e.log.Error("lua hook error", zap.String("func", name), zap.Error(err))
		return true, fmt.Errorf("lua hook %s: %w", name, err)
	}
	return true, nil
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
