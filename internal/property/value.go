// Package property implements the ordered, change-notifying key/value stores
// attached to tiles, layers, objects, tilesets and maps.
package property

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrInvalidValue is returned for values that cannot be represented in
	// the serialized map format.
	ErrInvalidValue = errors.New("invalid property value")
	// ErrInvalidKey is returned when dynamic input supplies a non-string key.
	ErrInvalidKey = errors.New("invalid property key")
)

// Kind enumerates the shapes a Value can take.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Value is a property value: null, bool, number, string, an ordered list of
// values or an ordered string-keyed map of values. The zero Value is null.
// Values are immutable once built.
type Value struct {
	kind  Kind
	b     bool
	n     float64
	s     string
	list  []Value
	pairs Pairs
}

// Pair is one key/value entry. Property stores and map values keep their
// pairs in insertion order.
type Pair struct {
	Key   string
	Value Value
}

// Pairs is an ordered list of entries, serialized as [[key, value], ...].
type Pairs []Pair

func Null() Value { return Value{} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

func String(s string) Value { return Value{kind: KindString, s: s} }

func List(items ...Value) Value {
	return Value{kind: KindList, list: append([]Value(nil), items...)}
}

// Map builds an ordered map value. A repeated key keeps its first position
// and its last value.
func Map(pairs ...Pair) Value {
	out := make(Pairs, 0, len(pairs))
	seen := make(map[string]int, len(pairs))
	for _, p := range pairs {
		if i, ok := seen[p.Key]; ok {
			out[i].Value = p.Value
			continue
		}
		seen[p.Key] = len(out)
		out = append(out, p)
	}
	return Value{kind: KindMap, pairs: out}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Bool() bool { return v.b }

func (v Value) Num() float64 { return v.n }

func (v Value) Str() string { return v.s }

// Len returns the element count of lists and maps and the byte length of
// strings.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindMap:
		return len(v.pairs)
	case KindString:
		return len(v.s)
	}
	return 0
}

// Items returns a copy of a list value's elements.
func (v Value) Items() []Value {
	return append([]Value(nil), v.list...)
}

// Entries returns a copy of a map value's pairs.
func (v Value) Entries() Pairs {
	return append(Pairs(nil), v.pairs...)
}

// Field looks up key in a map value.
func (v Value) Field(key string) (Value, bool) {
	for _, p := range v.pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return Value{}, false
}

// Equal reports whether v and o have the same shape and contents. Map
// values compare in order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	case KindString:
		return v.s == o.s
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return v.pairs.Equal(o.pairs)
	}
	return false
}

// Any converts the value to plain Go data: nil, bool, float64, string,
// []any or map[string]any.
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Any()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.pairs))
		for _, p := range v.pairs {
			out[p.Key] = p.Value.Any()
		}
		return out
	}
	return nil
}

// validate rejects numbers that have no serialized form.
func (v Value) validate() error {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			return fmt.Errorf("%w: %v is not a finite number", ErrInvalidValue, v.n)
		}
	case KindList:
		for _, item := range v.list {
			if err := item.validate(); err != nil {
				return err
			}
		}
	case KindMap:
		for _, p := range v.pairs {
			if err := p.Value.validate(); err != nil {
				return err
			}
		}
	case KindNull, KindBool, KindString:
	default:
		return fmt.Errorf("%w: unknown kind %v", ErrInvalidValue, v.kind)
	}
	return nil
}

// Of converts dynamic Go data into a Value. Unsupported types (functions,
// channels, structs...) and non-finite numbers fail with ErrInvalidValue.
func Of(x any) (Value, error) {
	var v Value
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		v = t
	case Pairs:
		v = Map(t...)
	case bool:
		v = Bool(t)
	case int:
		v = Number(float64(t))
	case int8:
		v = Number(float64(t))
	case int16:
		v = Number(float64(t))
	case int32:
		v = Number(float64(t))
	case int64:
		v = Number(float64(t))
	case uint:
		v = Number(float64(t))
	case uint8:
		v = Number(float64(t))
	case uint16:
		v = Number(float64(t))
	case uint32:
		v = Number(float64(t))
	case uint64:
		v = Number(float64(t))
	case float32:
		v = Number(float64(t))
	case float64:
		v = Number(t)
	case string:
		v = String(t)
	case []string:
		items := make([]Value, len(t))
		for i, s := range t {
			items[i] = String(s)
		}
		v = List(items...)
	case []Value:
		v = List(t...)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			conv, err := Of(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = conv
		}
		v = List(items...)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make(Pairs, 0, len(keys))
		for _, k := range keys {
			conv, err := Of(t[k])
			if err != nil {
				return Value{}, err
			}
			pairs = append(pairs, Pair{Key: k, Value: conv})
		}
		v = Map(pairs...)
	default:
		return Value{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidValue, x)
	}
	if err := v.validate(); err != nil {
		return Value{}, err
	}
	return v, nil
}

// MustOf is Of for literals known to be valid; it panics otherwise.
func MustOf(x any) Value {
	v, err := Of(x)
	if err != nil {
		panic(err)
	}
	return v
}

// Equal reports whether both lists hold the same keys and values in the
// same order.
func (p Pairs) Equal(o Pairs) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i].Key != o[i].Key || !p[i].Value.Equal(o[i].Value) {
			return false
		}
	}
	return true
}
