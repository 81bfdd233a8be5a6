// Package merge holds the field strategies used by every Merge method in sketch.
// None of them mutates its arguments: the result is always a fresh value or one of the inputs.
package merge

import (
	"cmp"
	"maps"
	"slices"

	"github.com/cloudposse/sketch/pkg/orderedmap"
)

// Mergeable is implemented by records that know how to merge a right-hand value on top of themselves.
type Mergeable[T any] interface {
	Merge(right T) T
}

// Scalar returns right when it is set, left otherwise.
func Scalar[T any](left, right *T) *T {
	if right != nil {
		return right
	}
	return left
}

// Value returns right unless it is the zero value.
func Value[T comparable](left, right T) T {
	var zero T
	if right != zero {
		return right
	}
	return left
}

// Slice returns right when it is non-empty, left otherwise.
func Slice[T any](left, right []T) []T {
	if len(right) > 0 {
		return right
	}
	return left
}

// Map overrides left key by key with right. Left keys keep their position, new keys are appended.
func Map[V any](left, right *orderedmap.Map[V]) *orderedmap.Map[V] {
	return MapWith(left, right, func(_, r V) V { return r })
}

// MapWith is Map with a custom strategy for keys present on both sides.
func MapWith[V any](left, right *orderedmap.Map[V], both func(l, r V) V) *orderedmap.Map[V] {
	if right.Len() == 0 {
		return left
	}
	if left.Len() == 0 {
		return right
	}
	out := left.Clone()
	for k, r := range right.All() {
		if l, ok := out.Get(k); ok {
			out.Set(k, both(l, r))
			continue
		}
		out.Set(k, r)
	}
	return out
}

// NestedMap merges two maps whose values are records, merging the records of shared keys.
func NestedMap[V Mergeable[V]](left, right *orderedmap.Map[V]) *orderedmap.Map[V] {
	return MapWith(left, right, func(l, r V) V { return l.Merge(r) })
}

// Set is the union of left and right, left elements first.
func Set[T comparable](left, right *orderedmap.Set[T]) *orderedmap.Set[T] {
	if right.Len() == 0 {
		return left
	}
	if left.Len() == 0 {
		return right
	}
	out := left.Clone()
	for item := range right.All() {
		out.Add(item)
	}
	return out
}

// SortedMap overrides left with right. Go maps encode in key order, so the result is sorted on output.
func SortedMap[K cmp.Ordered, V any](left, right map[K]V) map[K]V {
	if len(right) == 0 {
		return left
	}
	if len(left) == 0 {
		return right
	}
	out := maps.Clone(left)
	maps.Copy(out, right)
	return out
}

// SortedSet is the sorted, deduplicated union of left and right.
func SortedSet[T cmp.Ordered](left, right []T) []T {
	if len(left) == 0 && len(right) == 0 {
		return left
	}
	out := slices.Concat(left, right)
	slices.Sort(out)
	return slices.Compact(out)
}

// Nested merges two optional records, recursing only when both are present.
func Nested[T Mergeable[T]](left, right *T) *T {
	switch {
	case left == nil:
		return right
	case right == nil:
		return left
	default:
		merged := (*left).Merge(*right)
		return &merged
	}
}
