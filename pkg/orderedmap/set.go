package orderedmap

import (
	"bytes"
	"fmt"
	"iter"
	"slices"

	"gopkg.in/yaml.v3"
)

// Set is an insertion-ordered set. The zero value is ready to use.
type Set[T comparable] struct {
	items []T
	index map[T]struct{}
}

// NewSet returns a set holding items in order, without duplicates.
func NewSet[T comparable](items ...T) *Set[T] {
	s := &Set[T]{}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

func (s *Set[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

func (s *Set[T]) IsZero() bool {
	return s.Len() == 0
}

// Add appends item unless it is already present. It reports whether the set changed.
func (s *Set[T]) Add(item T) bool {
	if s.index == nil {
		s.index = make(map[T]struct{})
	}
	if _, ok := s.index[item]; ok {
		return false
	}
	s.index[item] = struct{}{}
	s.items = append(s.items, item)
	return true
}

func (s *Set[T]) Contains(item T) bool {
	if s == nil || s.index == nil {
		return false
	}
	_, ok := s.index[item]
	return ok
}

// Remove deletes item and reports whether it was present.
func (s *Set[T]) Remove(item T) bool {
	if !s.Contains(item) {
		return false
	}
	delete(s.index, item)
	s.items = slices.DeleteFunc(s.items, func(e T) bool { return e == item })
	return true
}

// Items returns a copy of the elements in insertion order.
func (s *Set[T]) Items() []T {
	if s == nil {
		return nil
	}
	return slices.Clone(s.items)
}

func (s *Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if s == nil {
			return
		}
		for _, item := range s.items {
			if !yield(item) {
				return
			}
		}
	}
}

// Clone returns a copy. Cloning nil returns nil.
func (s *Set[T]) Clone() *Set[T] {
	if s == nil {
		return nil
	}
	return NewSet(s.items...)
}

// UnmarshalYAML decodes a sequence node. Duplicates keep their first position.
func (s *Set[T]) UnmarshalYAML(node *yaml.Node) error {
	node = resolve(node)
	if isNull(node) {
		return nil
	}
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: expected a sequence, found %s", node.Line, kindName(node))
	}
	for _, item := range node.Content {
		var v T
		if err := item.Decode(&v); err != nil {
			return err
		}
		s.Add(v)
	}
	return nil
}

func (s *Set[T]) MarshalYAML() (any, error) {
	items := s.Items()
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (s *Set[T]) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range s.items {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := jsonAPI.Marshal(item)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
