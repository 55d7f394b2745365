package property

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// MarshalJSON writes the value as plain JSON. Map values become objects with
// their keys in insertion order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		if err := v.validate(); err != nil {
			return err
		}
		raw, err := json.Marshal(v.n)
		if err != nil {
			return err
		}
		buf.Write(raw)
	case KindString:
		raw, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(raw)
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, p := range v.pairs {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(p.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := p.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("%w: unknown kind %v", ErrInvalidValue, v.kind)
	}
	return nil
}

// UnmarshalJSON decodes any JSON document into the value.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseJSON decodes a JSON document, keeping object keys in document order.
func ParseJSON(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return Value{}, fmt.Errorf("%w: malformed JSON", ErrInvalidValue)
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null()
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.Number:
		return Number(r.Num)
	case gjson.String:
		return String(r.Str)
	}
	if r.IsArray() {
		var items []Value
		r.ForEach(func(_, item gjson.Result) bool {
			items = append(items, fromResult(item))
			return true
		})
		return List(items...)
	}
	var pairs Pairs
	r.ForEach(func(key, item gjson.Result) bool {
		pairs = append(pairs, Pair{Key: key.String(), Value: fromResult(item)})
		return true
	})
	return Map(pairs...)
}

// MarshalJSON writes the pairs as [[key, value], ...].
func (p Pairs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, pair := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(pair.Key)
		if err != nil {
			return nil, err
		}
		buf.WriteByte('[')
		buf.Write(key)
		buf.WriteByte(',')
		if err := pair.Value.writeJSON(&buf); err != nil {
			return nil, err
		}
		buf.WriteByte(']')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts [[key, value], ...] or, for hand-written files, a
// plain object whose keys are taken in document order.
func (p *Pairs) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: malformed JSON", ErrInvalidValue)
	}
	r := gjson.ParseBytes(data)
	var out Pairs
	switch {
	case r.Type == gjson.Null:
	case r.IsObject():
		out = fromResult(r).pairs
	case r.IsArray():
		var err error
		r.ForEach(func(_, entry gjson.Result) bool {
			items := entry.Array()
			if !entry.IsArray() || len(items) != 2 {
				err = fmt.Errorf("%w: property entry %s is not a [key, value] pair", ErrInvalidValue, entry.Raw)
				return false
			}
			if items[0].Type != gjson.String {
				err = fmt.Errorf("%w: %s", ErrInvalidKey, items[0].Raw)
				return false
			}
			out = append(out, Pair{Key: items[0].Str, Value: fromResult(items[1])})
			return true
		})
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: properties must be a list of pairs, got %s", ErrInvalidValue, r.Raw)
	}
	*p = out
	return nil
}
