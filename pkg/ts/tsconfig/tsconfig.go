// Package tsconfig models tsconfig.json files, their presets and the defaults sketch writes.
package tsconfig

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/merge"
	"github.com/cloudposse/sketch/pkg/orderedmap"
	"github.com/cloudposse/sketch/pkg/preset"
)

// DefaultOutput is the file a tsconfig is written to when no output is given.
const DefaultOutput = "tsconfig.json"

// OptionsFile holds the shared compiler options of a monorepo root.
const OptionsFile = "tsconfig.options.json"

// Reference is an entry of `references`.
type Reference struct {
	Path string `yaml:"path" json:"path"`
}

// TsConfig is the content of a tsconfig file. The list fields are pointers so that an empty list
// is written while a missing one is left out.
type TsConfig struct {
	Extends         string               `yaml:"extends,omitempty"`
	Files           *[]string            `yaml:"files,omitempty"`
	Include         *[]string            `yaml:"include,omitempty"`
	Exclude         *[]string            `yaml:"exclude,omitempty"`
	References      *[]Reference         `yaml:"references,omitempty"`
	CompilerOptions *orderedmap.Map[any] `yaml:"compilerOptions,omitempty"`
	WatchOptions    *orderedmap.Map[any] `yaml:"watchOptions,omitempty"`
	Extras          *orderedmap.Map[any] `yaml:"-"`
}

type plainTsConfig TsConfig

var aliases = map[string]string{
	"compiler_options": "compilerOptions",
	"watch_options":    "watchOptions",
}

func (c *TsConfig) UnmarshalYAML(node *yaml.Node) error {
	extras, err := orderedmap.DecodeStruct(orderedmap.RenameKeys(node, aliases), (*plainTsConfig)(c))
	if err != nil {
		return err
	}
	c.Extras = extras
	if c.References != nil {
		*c.References = sortReferences(*c.References)
	}
	return nil
}

func (c TsConfig) MarshalYAML() (any, error) {
	return orderedmap.FromStruct(c, c.Extras), nil
}

func (c TsConfig) MarshalJSON() ([]byte, error) {
	return orderedmap.FromStruct(c, c.Extras).MarshalJSON()
}

func (c TsConfig) Merge(right TsConfig) TsConfig {
	return TsConfig{
		Extends:         merge.Value(c.Extends, right.Extends),
		Files:           mergePaths(c.Files, right.Files),
		Include:         mergePaths(c.Include, right.Include),
		Exclude:         mergePaths(c.Exclude, right.Exclude),
		References:      mergeReferences(c.References, right.References),
		CompilerOptions: merge.Map(c.CompilerOptions, right.CompilerOptions),
		WatchOptions:    merge.Map(c.WatchOptions, right.WatchOptions),
		Extras:          merge.Map(c.Extras, right.Extras),
	}
}

// AddReference adds path to the references, keeping them sorted and unique.
func (c *TsConfig) AddReference(path string) {
	var refs []Reference
	if c.References != nil {
		refs = *c.References
	}
	refs = sortReferences(append(slices.Clone(refs), Reference{Path: path}))
	c.References = &refs
}

// Paths returns a list value for the list fields.
func Paths(paths ...string) *[]string {
	out := merge.SortedSet(nil, paths)
	if out == nil {
		out = []string{}
	}
	return &out
}

func mergePaths(left, right *[]string) *[]string {
	switch {
	case left == nil:
		return right
	case right == nil:
		return left
	default:
		return Paths(slices.Concat(*left, *right)...)
	}
}

func mergeReferences(left, right *[]Reference) *[]Reference {
	switch {
	case left == nil:
		return right
	case right == nil:
		return left
	default:
		out := sortReferences(slices.Concat(*left, *right))
		return &out
	}
}

func sortReferences(refs []Reference) []Reference {
	slices.SortFunc(refs, func(a, b Reference) int { return strings.Compare(a.Path, b.Path) })
	return slices.CompactFunc(refs, func(a, b Reference) bool { return a.Path == b.Path })
}

// Preset is a tsconfig preset.
type Preset = preset.Preset[TsConfig]

// Store is the ts_config_presets section of the configuration.
type Store = preset.Store[Preset]

// Ref selects a tsconfig preset by id or defines one inline.
type Ref = preset.Ref[Preset]

// Directive pairs a tsconfig with the file it is written to.
type Directive struct {
	Output string `yaml:"output,omitempty"`
	Config *Ref   `yaml:"config,omitempty"`
}

// OutputOrDefault returns the output file, tsconfig.json when unset.
func (d Directive) OutputOrDefault() string {
	if d.Output == "" {
		return DefaultOutput
	}
	return d.Output
}

// ParseDirective reads the command line form `id=ID,output=PATH`. A bare value is an id.
func ParseDirective(s string) (Directive, error) {
	if !strings.Contains(s, "=") {
		return Directive{Config: preset.IDRef[Preset](strings.TrimSpace(s))}, nil
	}
	var d Directive
	for part := range strings.SplitSeq(s, ",") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return Directive{}, fmt.Errorf("%w: `%s`: expected id=ID,output=PATH", errUtils.ErrUnsupportedValue, s)
		}
		switch strings.TrimSpace(key) {
		case "id":
			d.Config = preset.IDRef[Preset](strings.TrimSpace(value))
		case "output":
			d.Output = strings.TrimSpace(value)
		default:
			return Directive{}, fmt.Errorf("%w: `%s`: unknown key `%s`", errUtils.ErrUnsupportedValue, s, key)
		}
	}
	return d, nil
}

// Resolve returns the tsconfig of a directive. Inline configs resolve under syntheticID.
func (d Directive) Resolve(syntheticID string, store *Store) (TsConfig, error) {
	if d.Config == nil {
		return TsConfig{}, nil
	}
	p, err := preset.ResolveRef(preset.TSConfig, d.Config, syntheticID, store)
	if err != nil {
		return TsConfig{}, err
	}
	return p.Config, nil
}
