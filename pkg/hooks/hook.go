package hooks

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cloudposse/sketch/pkg/orderedmap"
	"github.com/cloudposse/sketch/pkg/template"
)

// Hook is a templated shell command run before or after a generator writes its files.
type Hook struct {
	// Command is a template id or an inline {name, content} template.
	Command template.Source `yaml:"command"`
	// Context overrides the global context while the command renders. CLI overrides still win.
	Context *orderedmap.Map[any] `yaml:"context,omitempty"`
}

// FromID is a hook that renders the template registered under id.
func FromID(id string) Hook {
	return Hook{Command: template.Source{ID: strings.TrimSpace(id)}}
}

// Inline is a hook whose command body is given directly.
func Inline(name, content string) Hook {
	return Hook{Command: template.Source{Name: name, Content: content}}
}

// UnmarshalYAML also accepts a bare template id.
func (h *Hook) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*h = FromID(node.Value)
		return nil
	}
	type plain Hook
	return node.Decode((*plain)(h))
}
