package template

import (
	"fmt"

	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/merge"
	"github.com/cloudposse/sketch/pkg/orderedmap"
	"github.com/cloudposse/sketch/pkg/preset"
)

// Source is a template id or an inline template with its own name.
type Source struct {
	ID      string
	Name    string
	Content string
}

// IsInline reports whether the template body is carried by the source itself.
func (s Source) IsInline() bool {
	return s.Name != ""
}

// TemplateName is the name the template renders under.
func (s Source) TemplateName() string {
	if s.IsInline() {
		return s.Name
	}
	return s.ID
}

func (s *Source) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&s.ID)
	}
	var inline struct {
		Name    string `yaml:"name"`
		Content string `yaml:"content"`
	}
	if err := node.Decode(&inline); err != nil {
		return err
	}
	if inline.Name == "" {
		return fmt.Errorf("%w: line %d: inline templates need a name", errUtils.ErrUnsupportedValue, node.Line)
	}
	s.Name, s.Content = inline.Name, inline.Content
	return nil
}

func (s Source) MarshalYAML() (any, error) {
	if s.IsInline() {
		return orderedmap.FromPairs[any](orderedmap.P[any]("name", s.Name), orderedmap.P[any]("content", s.Content)), nil
	}
	return s.ID, nil
}

// Single renders one template into one output. An empty output prints to stdout.
type Single struct {
	Template Source               `yaml:"template"`
	Output   string               `yaml:"output,omitempty"`
	Context  *orderedmap.Map[any] `yaml:"context,omitempty"`
}

// Structured renders a directory inside templates_dir.
type Structured struct {
	Dir     string   `yaml:"dir"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// Remote renders a git repository after a shallow clone.
type Remote struct {
	Repo    string   `yaml:"repo"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// Element is one entry of a templating preset. Exactly one field is set, chosen by the keys present.
type Element struct {
	Single     *Single
	Structured *Structured
	Remote     *Remote
}

func (e *Element) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: expected a template, dir or repo entry", errUtils.ErrUnsupportedValue, node.Line)
	}
	keys := make(map[string]bool, len(node.Content)/2)
	for i := 0; i < len(node.Content); i += 2 {
		keys[node.Content[i].Value] = true
	}

	switch {
	case keys["template"]:
		e.Single = &Single{}
		return node.Decode(e.Single)
	case keys["dir"]:
		e.Structured = &Structured{}
		return node.Decode(e.Structured)
	case keys["repo"]:
		e.Remote = &Remote{}
		return node.Decode(e.Remote)
	default:
		return fmt.Errorf("%w: line %d: expected a template, dir or repo entry", errUtils.ErrUnsupportedValue, node.Line)
	}
}

func (e Element) MarshalYAML() (any, error) {
	switch {
	case e.Single != nil:
		return e.Single, nil
	case e.Structured != nil:
		return e.Structured, nil
	default:
		return e.Remote, nil
	}
}

// Preset is a list of templates to render with a shared context.
type Preset struct {
	Extends   *orderedmap.Set[string] `yaml:"extends_presets,omitempty"`
	Templates []Element               `yaml:"templates,omitempty"`
	Context   *orderedmap.Map[any]    `yaml:"context,omitempty"`
}

func (p Preset) ExtendsPresets() *orderedmap.Set[string] {
	return p.Extends
}

// Merge appends the right templates after the left ones and overrides the context key by key.
func (p Preset) Merge(right Preset) Preset {
	return Preset{
		Extends:   merge.Set(p.Extends, right.Extends),
		Templates: append(append([]Element(nil), p.Templates...), right.Templates...),
		Context:   merge.Map(p.Context, right.Context),
	}
}

// Store is the templating_presets section of the configuration.
type Store = preset.Store[Preset]

// Ref selects a templating preset by id, with extra context, or defines one inline.
type Ref struct {
	ID      string
	Context *orderedmap.Map[any]
	Inline  *Preset
}

// IDRef references a stored preset without extra context.
func IDRef(id string) Ref {
	return Ref{ID: id}
}

func (r *Ref) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&r.ID)
	}
	if node.Kind == yaml.MappingNode {
		for i := 0; i < len(node.Content); i += 2 {
			if node.Content[i].Value == "id" {
				var byID struct {
					ID      string               `yaml:"id"`
					Context *orderedmap.Map[any] `yaml:"context"`
				}
				if err := node.Decode(&byID); err != nil {
					return err
				}
				r.ID, r.Context = byID.ID, byID.Context
				return nil
			}
		}
	}
	r.Inline = &Preset{}
	return node.Decode(r.Inline)
}

func (r Ref) MarshalYAML() (any, error) {
	if r.Inline != nil {
		return r.Inline, nil
	}
	if r.Context.Len() == 0 {
		return r.ID, nil
	}
	return orderedmap.FromPairs[any](orderedmap.P[any]("id", r.ID), orderedmap.P[any]("context", r.Context)), nil
}

// Resolve returns the effective preset of r. The reference context overrides the preset's own.
func (r Ref) Resolve(store *Store) (Preset, error) {
	if r.Inline != nil {
		return preset.Resolve(preset.Templates, preset.InlinedID, *r.Inline, store)
	}
	p, err := preset.Lookup(preset.Templates, r.ID, store)
	if err != nil {
		return Preset{}, err
	}
	p.Context = merge.Map(p.Context, r.Context)
	return p, nil
}

// ResolveAll resolves refs in order.
func ResolveAll(refs []Ref, store *Store) ([]Preset, error) {
	out := make([]Preset, 0, len(refs))
	for _, ref := range refs {
		p, err := ref.Resolve(store)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
