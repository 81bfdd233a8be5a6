package workflow

import (
	"gopkg.in/yaml.v3"

	"github.com/cloudposse/sketch/pkg/merge"
	"github.com/cloudposse/sketch/pkg/orderedmap"
)

// Triggers is the `on` section: a single event, a list of events or a map of events to their filters.
type Triggers struct {
	*orderedmap.Map[any]
}

func (t *Triggers) UnmarshalYAML(node *yaml.Node) error {
	t.Map = orderedmap.New[any]()
	switch node.Kind {
	case yaml.ScalarNode:
		var event string
		if err := node.Decode(&event); err != nil {
			return err
		}
		t.Set(event, nil)
		return nil
	case yaml.SequenceNode:
		var events []string
		if err := node.Decode(&events); err != nil {
			return err
		}
		for _, event := range events {
			t.Set(event, nil)
		}
		return nil
	default:
		return node.Decode(t.Map)
	}
}

// MarshalYAML writes a list when no event has filters.
func (t Triggers) MarshalYAML() (any, error) {
	for _, v := range t.All() {
		if v != nil {
			return t.Map, nil
		}
	}
	return t.Keys(), nil
}

func (t Triggers) IsZero() bool {
	return t.Len() == 0
}

// Merge adds the events of right. Events present on both sides take the filters of right when it has any.
func (t Triggers) Merge(right Triggers) Triggers {
	if right.Len() == 0 {
		return t
	}
	if t.Len() == 0 {
		return right
	}
	out := t.Clone()
	for k, v := range right.All() {
		if v == nil && out.Has(k) {
			continue
		}
		out.Set(k, v)
	}
	return Triggers{out}
}

// Permissions is `read-all`, `write-all` or a map of scopes to access levels.
type Permissions struct {
	All    string
	Scopes *orderedmap.Map[string]
}

func (p *Permissions) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&p.All)
	}
	p.Scopes = orderedmap.New[string]()
	return node.Decode(p.Scopes)
}

func (p Permissions) MarshalYAML() (any, error) {
	if p.All != "" {
		return p.All, nil
	}
	if p.Scopes == nil {
		return orderedmap.New[string](), nil
	}
	return p.Scopes, nil
}

// Merge lets a global level on the right replace everything, and merges scopes otherwise.
func (p Permissions) Merge(right Permissions) Permissions {
	if right.All != "" {
		return right
	}
	if p.All != "" && right.Scopes.Len() == 0 {
		return p
	}
	if p.All != "" {
		return right
	}
	return Permissions{Scopes: merge.Map(p.Scopes, right.Scopes)}
}

// Concurrency is a group name or a group with cancel-in-progress.
type Concurrency struct {
	Group            string `yaml:"group"`
	CancelInProgress any    `yaml:"cancel-in-progress,omitempty"`
}

type plainConcurrency Concurrency

func (c *Concurrency) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&c.Group)
	}
	return node.Decode((*plainConcurrency)(c))
}

func (c Concurrency) MarshalYAML() (any, error) {
	if c.CancelInProgress == nil {
		return c.Group, nil
	}
	return plainConcurrency(c), nil
}

// Needs is a job id or a list of job ids. It is written in sorted order.
type Needs []string

func (n *Needs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var single string
		if err := node.Decode(&single); err != nil {
			return err
		}
		*n = Needs{single}
		return nil
	}
	return node.Decode((*[]string)(n))
}

func (n Needs) MarshalYAML() (any, error) {
	if len(n) == 1 {
		return n[0], nil
	}
	return []string(n), nil
}

func (n Needs) Merge(right Needs) Needs {
	return merge.SortedSet(n, right)
}
