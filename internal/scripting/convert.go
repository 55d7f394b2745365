package scripting

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/tilekit/tilemap/internal/property"
)

// toLua converts a property value into Lua data. Map values become tables
// keyed by string, so their order is not visible to scripts.
func toLua(L *lua.LState, v property.Value) lua.LValue {
	switch v.Kind() {
	case property.KindBool:
		return lua.LBool(v.Bool())
	case property.KindNumber:
		return lua.LNumber(v.Num())
	case property.KindString:
		return lua.LString(v.Str())
	case property.KindList:
		t := L.NewTable()
		for i, item := range v.Items() {
			t.RawSetInt(i+1, toLua(L, item))
		}
		return t
	case property.KindMap:
		t := L.NewTable()
		for _, p := range v.Entries() {
			t.RawSetString(p.Key, toLua(L, p.Value))
		}
		return t
	}
	return lua.LNil
}

// fromLua converts Lua data into a property value. Tables with keys 1..n
// become lists, other tables become maps with keys sorted.
func fromLua(lv lua.LValue) (property.Value, error) {
	switch v := lv.(type) {
	case *lua.LNilType:
		return property.Null(), nil
	case lua.LBool:
		return property.Bool(bool(v)), nil
	case lua.LNumber:
		return property.Number(float64(v)), nil
	case lua.LString:
		return property.String(string(v)), nil
	case *lua.LTable:
		return fromTable(v)
	}
	return property.Value{}, fmt.Errorf("%w: lua %s", property.ErrInvalidValue, lv.Type())
}

func fromTable(t *lua.LTable) (property.Value, error) {
	n := t.Len()
	count := 0
	t.ForEach(func(lua.LValue, lua.LValue) { count++ })
	if count == n {
		items := make([]property.Value, n)
		for i := 1; i <= n; i++ {
			item, err := fromLua(t.RawGetInt(i))
			if err != nil {
				return property.Value{}, err
			}
			items[i-1] = item
		}
		return property.List(items...), nil
	}

	var keys []string
	var badKey lua.LValue
	t.ForEach(func(k, _ lua.LValue) {
		s, ok := k.(lua.LString)
		if !ok {
			badKey = k
			return
		}
		keys = append(keys, string(s))
	})
	if badKey != nil {
		return property.Value{}, fmt.Errorf("%w: lua %s key %s", property.ErrInvalidKey, badKey.Type(), badKey.String())
	}
	sort.Strings(keys)
	pairs := make([]property.Pair, len(keys))
	for i, k := range keys {
		item, err := fromLua(t.RawGetString(k))
		if err != nil {
			return property.Value{}, fmt.Errorf("key %s: %w", k, err)
		}
		pairs[i] = property.Pair{Key: k, Value: item}
	}
	return property.Map(pairs...), nil
}
