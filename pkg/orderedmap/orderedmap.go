// Package orderedmap provides string-keyed maps and sets that remember insertion order
// and keep it through YAML and JSON encoding.
package orderedmap

import (
	"bytes"
	"fmt"
	"iter"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var jsonAPI = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// Map is an insertion-ordered map with string keys. The zero value is ready to use.
type Map[V any] struct {
	keys   []string
	values map[string]V
}

// New returns an empty map.
func New[V any]() *Map[V] {
	return &Map[V]{}
}

// FromPairs builds a map from alternating key/value pairs.
func FromPairs[V any](pairs ...Pair[V]) *Map[V] {
	m := New[V]()
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// Pair is one entry of a Map.
type Pair[V any] struct {
	Key   string
	Value V
}

// P is shorthand for building a Pair.
func P[V any](key string, value V) Pair[V] {
	return Pair[V]{Key: key, Value: value}
}

func (m *Map[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// IsZero reports an empty map, so encoders honour omitempty and omitzero.
func (m *Map[V]) IsZero() bool {
	return m.Len() == 0
}

func (m *Map[V]) Get(key string) (V, bool) {
	var zero V
	if m == nil || m.values == nil {
		return zero, false
	}
	v, ok := m.values[key]
	return v, ok
}

func (m *Map[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set inserts or replaces a value. A replaced key keeps its position.
func (m *Map[V]) Set(key string, value V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes a key and reports whether it was present.
func (m *Map[V]) Delete(key string) bool {
	if m == nil || m.values == nil {
		return false
	}
	if _, ok := m.values[key]; !ok {
		return false
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns a copy of the keys in insertion order.
func (m *Map[V]) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// All iterates over the entries in insertion order.
func (m *Map[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy. Cloning nil returns nil.
func (m *Map[V]) Clone() *Map[V] {
	if m == nil {
		return nil
	}
	c := &Map[V]{keys: append([]string(nil), m.keys...), values: make(map[string]V, len(m.values))}
	for k, v := range m.values {
		c.values[k] = v
	}
	return c
}

// Plain converts the map to a map[string]any, recursively converting nested ordered maps and slices.
func (m *Map[V]) Plain() map[string]any {
	out := make(map[string]any, m.Len())
	for k, v := range m.All() {
		out[k] = PlainValue(v)
	}
	return out
}

// PlainValue converts nested ordered maps inside v to plain Go maps.
func PlainValue(v any) any {
	switch t := v.(type) {
	case *Map[any]:
		if t == nil {
			return nil
		}
		return t.Plain()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = PlainValue(e)
		}
		return out
	default:
		return v
	}
}

// UnmarshalYAML decodes a mapping node, keeping the document order of its keys.
func (m *Map[V]) UnmarshalYAML(node *yaml.Node) error {
	node = resolve(node)
	if isNull(node) {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping, found %s", node.Line, kindName(node))
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		var key string
		if err := node.Content[i].Decode(&key); err != nil {
			return err
		}
		value, err := decodeValue[V](node.Content[i+1])
		if err != nil {
			return err
		}
		m.Set(key, value)
	}
	return nil
}

func decodeValue[V any](node *yaml.Node) (V, error) {
	var value V
	if target, ok := any(&value).(*any); ok {
		decoded, err := DecodeAny(node)
		if err != nil {
			return value, err
		}
		*target = decoded
		return value, nil
	}
	err := node.Decode(&value)
	return value, err
}

// MarshalYAML emits a mapping node in insertion order.
func (m *Map[V]) MarshalYAML() (any, error) {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for k, v := range m.All() {
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(v); err != nil {
			return nil, err
		}
		out.Content = append(out.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			valueNode,
		)
	}
	return out, nil
}

// MarshalJSON emits an object in insertion order, without HTML escaping.
func (m *Map[V]) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := jsonAPI.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := jsonAPI.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeAny decodes a node into plain values, with mappings as *Map[any] and sequences as []any.
func DecodeAny(node *yaml.Node) (any, error) {
	node = resolve(node)
	if node == nil {
		return nil, nil
	}
	switch node.Kind {
	case yaml.MappingNode:
		m := New[any]()
		if err := m.UnmarshalYAML(node); err != nil {
			return nil, err
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := DecodeAny(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

func resolve(node *yaml.Node) *yaml.Node {
	for node != nil {
		switch {
		case node.Kind == yaml.DocumentNode && len(node.Content) > 0:
			node = node.Content[0]
		case node.Kind == yaml.AliasNode && node.Alias != nil:
			node = node.Alias
		default:
			return node
		}
	}
	return node
}

func isNull(node *yaml.Node) bool {
	return node == nil || node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null")
}

func kindName(node *yaml.Node) string {
	switch node.Kind {
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.ScalarNode:
		return fmt.Sprintf("the scalar %q", node.Value)
	default:
		return "an unexpected node"
	}
}
