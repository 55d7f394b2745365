package property

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes any YAML node into the value. Mapping keys keep
// their document order.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := fromNode(node)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func fromNode(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return fromNode(n.Content[0])
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := fromNode(c)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return List(items...), nil
	case yaml.MappingNode:
		pairs := make(Pairs, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("%w: line %d: mapping key is not a scalar", ErrInvalidKey, key.Line)
			}
			item, err := fromNode(n.Content[i+1])
			if err != nil {
				return Value{}, err
			}
			pairs = append(pairs, Pair{Key: key.Value, Value: item})
		}
		return Map(pairs...), nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return Null(), nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return Value{}, fmt.Errorf("%w: line %d: %v", ErrInvalidValue, n.Line, err)
			}
			return Bool(b), nil
		case "!!int", "!!float":
			var f float64
			if err := n.Decode(&f); err != nil {
				return Value{}, fmt.Errorf("%w: line %d: %v", ErrInvalidValue, n.Line, err)
			}
			v := Number(f)
			if err := v.validate(); err != nil {
				return Value{}, fmt.Errorf("line %d: %w", n.Line, err)
			}
			return v, nil
		}
		return String(n.Value), nil
	}
	return Value{}, fmt.Errorf("%w: line %d: unsupported YAML node", ErrInvalidValue, n.Line)
}

// UnmarshalYAML accepts a sequence of [key, value] pairs or a mapping.
func (p *Pairs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	switch node.Kind {
	case yaml.MappingNode:
		v, err := fromNode(node)
		if err != nil {
			return err
		}
		*p = v.pairs
		return nil
	case yaml.SequenceNode:
		out := make(Pairs, 0, len(node.Content))
		for _, entry := range node.Content {
			if entry.Kind != yaml.SequenceNode || len(entry.Content) != 2 {
				return fmt.Errorf("%w: line %d: property entry is not a [key, value] pair", ErrInvalidValue, entry.Line)
			}
			key := entry.Content[0]
			if key.Kind != yaml.ScalarNode || key.ShortTag() != "!!str" {
				return fmt.Errorf("%w: line %d: %q", ErrInvalidKey, key.Line, key.Value)
			}
			item, err := fromNode(entry.Content[1])
			if err != nil {
				return err
			}
			out = append(out, Pair{Key: key.Value, Value: item})
		}
		*p = out
		return nil
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			*p = nil
			return nil
		}
	}
	return fmt.Errorf("%w: line %d: properties must be a list of pairs", ErrInvalidValue, node.Line)
}
