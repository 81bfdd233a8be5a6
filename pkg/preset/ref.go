package preset

import (
	"fmt"

	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/sketch/errors"
)

// Ref points at a stored preset by id or carries an inline definition.
type Ref[T any] struct {
	ID     string
	Inline *T
}

// IDRef returns a reference to a stored preset.
func IDRef[T any](id string) *Ref[T] {
	return &Ref[T]{ID: id}
}

// InlineRef wraps an inline definition.
func InlineRef[T any](v T) *Ref[T] {
	return &Ref[T]{Inline: &v}
}

func (r *Ref[T]) IsID() bool {
	return r != nil && r.Inline == nil && r.ID != ""
}

func (r *Ref[T]) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&r.ID)
	case yaml.MappingNode, yaml.SequenceNode:
		var v T
		if err := node.Decode(&v); err != nil {
			return err
		}
		r.Inline = &v
		return nil
	default:
		return fmt.Errorf("%w: line %d: expected a preset id or an inline preset", errUtils.ErrUnsupportedValue, node.Line)
	}
}

func (r Ref[T]) MarshalYAML() (any, error) {
	if r.Inline != nil {
		return r.Inline, nil
	}
	return r.ID, nil
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Inline != nil {
		return jsonMarshal(r.Inline)
	}
	return jsonMarshal(r.ID)
}

// ResolveRef resolves an id through the store, or an inline preset under syntheticID.
func ResolveRef[T Extensible[T]](kind Kind, ref *Ref[T], syntheticID string, store *Store[T]) (T, error) {
	if ref == nil {
		var zero T
		return zero, nil
	}
	if ref.Inline != nil {
		return Resolve(kind, syntheticID, *ref.Inline, store)
	}
	return Lookup(kind, ref.ID, store)
}

// Toggle is a Ref that may also be a bool: false disables the artifact and true selects its default.
type Toggle[T any] struct {
	Enabled *bool
	Ref[T]
}

// EnabledToggle returns a bool toggle.
func EnabledToggle[T any](enabled bool) *Toggle[T] {
	return &Toggle[T]{Enabled: &enabled}
}

// IsDisabled is true for nil toggles and explicit false.
func (t *Toggle[T]) IsDisabled() bool {
	return t == nil || (t.Enabled != nil && !*t.Enabled)
}

// IsDefault is true for an explicit true.
func (t *Toggle[T]) IsDefault() bool {
	return t != nil && t.Enabled != nil && *t.Enabled
}

func (t *Toggle[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!bool" {
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		t.Enabled = &b
		return nil
	}
	return t.Ref.UnmarshalYAML(node)
}

func (t Toggle[T]) MarshalYAML() (any, error) {
	if t.Enabled != nil {
		return *t.Enabled, nil
	}
	return t.Ref.MarshalYAML()
}

func (t Toggle[T]) MarshalJSON() ([]byte, error) {
	if t.Enabled != nil {
		return jsonMarshal(*t.Enabled)
	}
	return t.Ref.MarshalJSON()
}

// ResolveToggle resolves a non-disabled toggle. The default preset is returned for true.
func ResolveToggle[T Extensible[T]](kind Kind, t *Toggle[T], syntheticID string, store *Store[T], def func() T) (T, error) {
	if t.IsDefault() {
		return def(), nil
	}
	return ResolveRef(kind, &t.Ref, syntheticID, store)
}
