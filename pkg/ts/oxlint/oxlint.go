// Package oxlint models .oxlintrc.json files and their presets.
package oxlint

import (
	"gopkg.in/yaml.v3"

	"github.com/cloudposse/sketch/pkg/merge"
	"github.com/cloudposse/sketch/pkg/orderedmap"
	"github.com/cloudposse/sketch/pkg/preset"
)

// FileName is the file an oxlint config is written to.
const FileName = ".oxlintrc.json"

// Config is the content of an .oxlintrc.json file.
type Config struct {
	Extends        *orderedmap.Set[string] `yaml:"extends,omitempty"`
	Plugins        []string                `yaml:"plugins,omitempty"`
	Categories     map[string]string       `yaml:"categories,omitempty"`
	Rules          map[string]any          `yaml:"rules,omitempty"`
	Env            map[string]bool         `yaml:"env,omitempty"`
	Globals        map[string]string       `yaml:"globals,omitempty"`
	Settings       *orderedmap.Map[any]    `yaml:"settings,omitempty"`
	IgnorePatterns []string                `yaml:"ignorePatterns,omitempty"`
	Overrides      []*orderedmap.Map[any]  `yaml:"overrides,omitempty"`
	Extras         *orderedmap.Map[any]    `yaml:"-"`
}

type plainConfig Config

var aliases = map[string]string{
	"ignore_patterns": "ignorePatterns",
}

// Default enables the oxc, typescript and unicorn plugins.
func Default() Config {
	return Config{Plugins: []string{"oxc", "typescript", "unicorn"}}
}

func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	node = orderedmap.RenameKeys(node, aliases)
	extras, err := orderedmap.DecodeStruct(node, (*plainConfig)(c))
	if err != nil {
		return err
	}
	c.Extras = extras
	return c.decodeRules(node)
}

// decodeRules keeps the key order of rule settings given as objects.
func (c *Config) decodeRules(node *yaml.Node) error {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "rules" {
			continue
		}
		rules := orderedmap.New[any]()
		if err := rules.UnmarshalYAML(node.Content[i+1]); err != nil {
			return err
		}
		c.Rules = make(map[string]any, rules.Len())
		for name, setting := range rules.All() {
			c.Rules[name] = setting
		}
	}
	return nil
}

func (c Config) MarshalYAML() (any, error) {
	return orderedmap.FromStruct(c, c.Extras), nil
}

func (c Config) MarshalJSON() ([]byte, error) {
	return orderedmap.FromStruct(c, c.Extras).MarshalJSON()
}

func (c Config) Merge(right Config) Config {
	return Config{
		Extends:        merge.Set(c.Extends, right.Extends),
		Plugins:        merge.SortedSet(c.Plugins, right.Plugins),
		Categories:     merge.SortedMap(c.Categories, right.Categories),
		Rules:          merge.SortedMap(c.Rules, right.Rules),
		Env:            merge.SortedMap(c.Env, right.Env),
		Globals:        merge.SortedMap(c.Globals, right.Globals),
		Settings:       merge.Map(c.Settings, right.Settings),
		IgnorePatterns: merge.SortedSet(c.IgnorePatterns, right.IgnorePatterns),
		Overrides:      append(append([]*orderedmap.Map[any](nil), c.Overrides...), right.Overrides...),
		Extras:         merge.Map(c.Extras, right.Extras),
	}
}

// Preset is an oxlint preset.
type Preset = preset.Preset[Config]

// Store is the oxlint_presets section of the configuration.
type Store = preset.Store[Preset]

// Setting is true for the default config, false to skip the file, an id or an inline preset.
type Setting = preset.Toggle[Preset]

// Resolve returns the config selected by s and whether a file should be written at all.
func Resolve(s *Setting, syntheticID string, store *Store) (Config, bool, error) {
	if s.IsDisabled() {
		return Config{}, false, nil
	}
	p, err := preset.ResolveToggle(preset.Oxlint, s, syntheticID, store, func() Preset {
		return preset.Of(Default())
	})
	if err != nil {
		return Config{}, false, err
	}
	return p.Config, true, nil
}
