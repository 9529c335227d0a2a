// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

/*
Package yamldump renders decoded binary trees as YAML text.

Mapping insertion order is preserved and scalar widths survive through tags:

	int32   -> plain int
	float32 -> plain float
	uint32  -> !u 0x0000002a
	int64   -> !l 42
	uint64  -> !ul 42
	float64 -> !f64 1.5
	[]byte  -> !!binary (base64)

Values that need a custom tag (vectors, fixed-size strings, parameter lists)
are wrapped in Tagged.
*/
package yamldump

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scalar tags for width-specific values.
const (
	TagUInt   = "!u"
	TagInt64  = "!l"
	TagUInt64 = "!ul"
	TagDouble = "!f64"
)

// ErrUnsupportedValue means a value has no YAML representation.
var ErrUnsupportedValue = errors.New("unsupported value for YAML dump")

// Mapping is an ordered string-keyed mapping.
type Mapping interface {
	Keys() []string
	Get(key string) (any, bool)
}

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   any
	Value any
}

// Map is an ordered mapping whose keys may be any scalar.
type Map struct {
	Entries []Entry
}

// Put appends one entry.
func (m *Map) Put(key any, value any) {
	m.Entries = append(m.Entries, Entry{Key: key, Value: value})
}

// Tagged attaches an explicit YAML tag to a value.
type Tagged struct {
	// Value is any value supported by Dump.
	Value any
	// Tag is the explicit tag, such as "!vec3".
	Tag string
	// Flow renders sequences and mappings inline.
	Flow bool
}

// Dump renders v as a YAML document.
func Dump(v any) ([]byte, error) {
	node, err := ToNode(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{node}}); err != nil {
		return nil, fmt.Errorf("encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close YAML encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// ToNode converts v into a YAML node tree.
func ToNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case nil:
		return scalar("!!null", "null"), nil
	case bool:
		return scalar("!!bool", strconv.FormatBool(val)), nil
	case int32:
		return scalar("!!int", strconv.FormatInt(int64(val), 10)), nil
	case int:
		return scalar("!!int", strconv.Itoa(val)), nil
	case uint32:
		return scalar(TagUInt, fmt.Sprintf("0x%08x", val)), nil
	case int64:
		return scalar(TagInt64, strconv.FormatInt(val, 10)), nil
	case uint64:
		return scalar(TagUInt64, strconv.FormatUint(val, 10)), nil
	case float32:
		return scalar("!!float", formatFloat(float64(val), 32)), nil
	case float64:
		return scalar(TagDouble, formatFloat(val, 64)), nil
	case string:
		return scalar("!!str", val), nil
	case []byte:
		return scalar("!!binary", base64.StdEncoding.EncodeToString(val)), nil
	case []any:
		return sequence(len(val), func(i int) any { return val[i] })
	case []float32:
		return sequence(len(val), func(i int) any { return val[i] })
	case []int32:
		return sequence(len(val), func(i int) any { return val[i] })
	case []uint32:
		return sequence(len(val), func(i int) any { return val[i] })
	case []string:
		return sequence(len(val), func(i int) any { return val[i] })
	case *Map:
		return mapNode(val)
	case Mapping:
		return mappingNode(val)
	case Tagged:
		return taggedNode(val)
	case *Tagged:
		return taggedNode(*val)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

// scalar builds a scalar node.
func scalar(tag string, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// sequence builds a block sequence node of n items.
func sequence(n int, item func(int) any) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: make([]*yaml.Node, 0, n)}
	for i := 0; i < n; i++ {
		child, err := ToNode(item(i))
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		node.Content = append(node.Content, child)
	}

	return node, nil
}

// mappingNode builds a mapping node from an ordered string-keyed mapping.
func mappingNode(m Mapping) (*yaml.Node, error) {
	keys := m.Keys()
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: make([]*yaml.Node, 0, len(keys)*2)}
	for _, key := range keys {
		value, _ := m.Get(key)
		child, err := ToNode(value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		node.Content = append(node.Content, scalar("!!str", key), child)
	}

	return node, nil
}

// mapNode builds a mapping node from a Map.
func mapNode(m *Map) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: make([]*yaml.Node, 0, len(m.Entries)*2)}
	for _, e := range m.Entries {
		keyNode, err := ToNode(e.Key)
		if err != nil {
			return nil, fmt.Errorf("key %v: %w", e.Key, err)
		}
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: non-scalar key %T", ErrUnsupportedValue, e.Key)
		}

		valueNode, err := ToNode(e.Value)
		if err != nil {
			return nil, fmt.Errorf("key %v: %w", e.Key, err)
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}

	return node, nil
}

// taggedNode renders the wrapped value and overrides its tag.
func taggedNode(t Tagged) (*yaml.Node, error) {
	node, err := ToNode(t.Value)
	if err != nil {
		return nil, err
	}

	node.Tag = t.Tag
	if t.Flow && node.Kind != yaml.ScalarNode {
		node.Style = yaml.FlowStyle
	}

	return node, nil
}

// formatFloat renders f so that it always reads back as a float.
func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}

	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}

	return s
}
