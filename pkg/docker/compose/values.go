package compose

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/orderedmap"
)

// Command is a command in shell form (a string) or exec form (a list).
type Command struct {
	Shell string
	Exec  []string
}

func (c Command) IsZero() bool {
	return c.Shell == "" && c.Exec == nil
}

func (c *Command) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		return node.Decode(&c.Exec)
	}
	return node.Decode(&c.Shell)
}

func (c Command) MarshalYAML() (any, error) {
	if c.Exec != nil {
		return c.Exec, nil
	}
	return c.Shell, nil
}

// StringList accepts a single string or a list of strings.
type StringList []string

func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var single string
		if err := node.Decode(&single); err != nil {
			return err
		}
		*s = StringList{single}
		return nil
	}
	return node.Decode((*[]string)(s))
}

// Merge is the union of both lists in order of first appearance.
func (s StringList) Merge(right StringList) StringList {
	return union(s, right, func(v string) string { return v })
}

// Env is a map of variables that may also be written as a list of `KEY=VALUE` items.
// Keys without a value in the list form map to null.
type Env struct {
	*orderedmap.Map[any]
}

func (e *Env) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		e.Map = orderedmap.New[any]()
		return node.Decode(e.Map)
	}
	var items []string
	if err := node.Decode(&items); err != nil {
		return err
	}
	e.Map = orderedmap.New[any]()
	for _, item := range items {
		key, value, ok := strings.Cut(item, "=")
		if !ok {
			e.Set(key, nil)
			continue
		}
		e.Set(key, value)
	}
	return nil
}

func (e Env) MarshalYAML() (any, error) {
	if e.Map == nil {
		return nil, nil
	}
	return e.Map, nil
}

func (e Env) IsZero() bool {
	return e.Len() == 0
}

// Merge overrides the variables of e with the ones of right.
func (e Env) Merge(right Env) Env {
	if right.Len() == 0 {
		return e
	}
	if e.Len() == 0 {
		return right
	}
	out := e.Clone()
	for k, v := range right.All() {
		out.Set(k, v)
	}
	return Env{out}
}

// Names is a list of names, or a map from names to their settings. It is written as a list when
// no name has settings.
type Names struct {
	*orderedmap.Map[any]
}

func (n *Names) UnmarshalYAML(node *yaml.Node) error {
	n.Map = orderedmap.New[any]()
	if node.Kind != yaml.SequenceNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			value, err := orderedmap.DecodeAny(node.Content[i+1])
			if err != nil {
				return err
			}
			n.Set(node.Content[i].Value, value)
		}
		return nil
	}
	var names []string
	if err := node.Decode(&names); err != nil {
		return err
	}
	for _, name := range names {
		n.Set(name, nil)
	}
	return nil
}

func (n Names) MarshalYAML() (any, error) {
	if n.Map == nil {
		return nil, nil
	}
	for _, v := range n.All() {
		if v != nil {
			return n.Map, nil
		}
	}
	return n.Keys(), nil
}

func (n Names) IsZero() bool {
	return n.Len() == 0
}

// Merge adds the names of right, replacing the settings of names present on both sides.
func (n Names) Merge(right Names) Names {
	if right.Len() == 0 {
		return n
	}
	if n.Len() == 0 {
		return right
	}
	out := n.Clone()
	for k, v := range right.All() {
		if v == nil && out.Has(k) {
			continue
		}
		out.Set(k, v)
	}
	return Names{out}
}

// union appends the items of right missing from left, comparing them by key.
func union[T any](left, right []T, key func(T) string) []T {
	if len(right) == 0 {
		return left
	}
	if len(left) == 0 {
		return right
	}
	out := slices.Clone(left)
	seen := make(map[string]bool, len(left))
	for _, item := range left {
		seen[key(item)] = true
	}
	for _, item := range right {
		if k := key(item); !seen[k] {
			seen[k] = true
			out = append(out, item)
		}
	}
	return out
}

// anyKey identifies short and long syntax entries of ports and volumes.
func anyKey(v any) string {
	if m, ok := v.(*orderedmap.Map[any]); ok {
		return fmt.Sprint(m.Plain())
	}
	return fmt.Sprint(v)
}

// Entries is a list of short syntax strings or long syntax mappings, as used by ports and volumes.
type Entries []any

func (e *Entries) UnmarshalYAML(node *yaml.Node) error {
	v, err := orderedmap.DecodeAny(node)
	if err != nil {
		return err
	}
	list, ok := v.([]any)
	if !ok {
		return errUtils.Errorf(errUtils.ErrUnsupportedValue, "line %d: expected a list", node.Line)
	}
	*e = list
	return nil
}

// Merge is the union of both lists. Equal entries are kept once.
func (e Entries) Merge(right Entries) Entries {
	return union(e, right, anyKey)
}
