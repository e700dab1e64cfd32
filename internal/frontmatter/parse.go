package frontmatter

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// maxAliasDepth bounds alias expansion so recursive anchors cannot loop.
const maxAliasDepth = 64

var (
	// ErrNotMapping indicates the frontmatter parsed to something other than a mapping.
	ErrNotMapping = errors.New("frontmatter is not a mapping")
	// ErrDuplicateKey indicates a mapping defines the same key twice.
	ErrDuplicateKey = errors.New("duplicate frontmatter key")
)

// ParseYAML parses a raw frontmatter block (without delimiters) into a Map.
//
// An empty block, or one holding only comments or a null document, yields an
// empty Map. Timestamps and other non-core scalars are kept as strings.
func ParseYAML(frontmatter string) (*Map, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(frontmatter), &doc); err != nil {
		return nil, err
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return NewMap(), nil
		}
		root = root.Content[0]
	}

	switch {
	case root.Kind == 0:
		return NewMap(), nil
	case root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null":
		return NewMap(), nil
	case root.Kind == yaml.AliasNode:
		return nil, ErrNotMapping
	case root.Kind != yaml.MappingNode:
		return nil, fmt.Errorf("%w: line %d", ErrNotMapping, root.Line)
	}

	v, err := convertNode(root, 0)
	if err != nil {
		return nil, err
	}
	return v.(*Map), nil
}

func convertNode(n *yaml.Node, depth int) (Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		if depth >= maxAliasDepth || n.Alias == nil {
			return nil, fmt.Errorf("alias nesting too deep at line %d", n.Line)
		}
		return convertNode(n.Alias, depth+1)
	case yaml.ScalarNode:
		return convertScalar(n)
	case yaml.SequenceNode:
		list := make(List, 0, len(n.Content))
		for _, child := range n.Content {
			v, err := convertNode(child, depth)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind == yaml.AliasNode && keyNode.Alias != nil {
				keyNode = keyNode.Alias
			}
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("unsupported non-scalar key at line %d", keyNode.Line)
			}
			if m.Has(keyNode.Value) {
				return nil, fmt.Errorf("%w %q at line %d", ErrDuplicateKey, keyNode.Value, keyNode.Line)
			}
			v, err := convertNode(valNode, depth)
			if err != nil {
				return nil, err
			}
			m.Set(keyNode.Value, v)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported yaml node kind %d at line %d", n.Kind, n.Line)
	}
}

func convertScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case "!!int", "!!float":
		var raw any
		if err := n.Decode(&raw); err != nil {
			return nil, err
		}
		return toNumber(raw, n)
	default:
		// !!str, !!timestamp, !!binary and custom tags keep their source text.
		return String(n.Value), nil
	}
}

func toNumber(raw any, n *yaml.Node) (Value, error) {
	switch t := raw.(type) {
	case int:
		return Number(t), nil
	case int64:
		return Number(t), nil
	case uint64:
		return Number(t), nil
	case float64:
		return Number(t), nil
	default:
		return nil, fmt.Errorf("unexpected numeric value %q at line %d", n.Value, n.Line)
	}
}
