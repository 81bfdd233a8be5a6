package cargo

import (
	"maps"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/cloudposse/sketch/pkg/merge"
	"github.com/cloudposse/sketch/pkg/orderedmap"
)

// Dependency is a version requirement, a `{ workspace = true }` reference or a detailed dependency.
type Dependency struct {
	Version         string   `yaml:"version,omitempty"`
	Workspace       bool     `yaml:"workspace,omitempty"`
	Path            string   `yaml:"path,omitempty"`
	Package         string   `yaml:"package,omitempty"`
	Registry        string   `yaml:"registry,omitempty"`
	RegistryIndex   string   `yaml:"registry-index,omitempty"`
	Git             string   `yaml:"git,omitempty"`
	Branch          string   `yaml:"branch,omitempty"`
	Tag             string   `yaml:"tag,omitempty"`
	Rev             string   `yaml:"rev,omitempty"`
	Optional        *bool    `yaml:"optional,omitempty"`
	DefaultFeatures *bool    `yaml:"default-features,omitempty"`
	Features        []string `yaml:"features,omitempty"`
}

type plainDependency Dependency

var dependencyAliases = map[string]string{
	"default_features": "default-features",
	"registry_index":   "registry-index",
}

func (d *Dependency) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&d.Version)
	}
	return orderedmap.RenameKeys(node, dependencyAliases).Decode((*plainDependency)(d))
}

func (d Dependency) MarshalYAML() (any, error) {
	if d.IsSimple() {
		return d.Version, nil
	}
	return plainDependency(d), nil
}

// IsSimple reports whether d only has a version, so it can be written as a plain string.
func (d Dependency) IsSimple() bool {
	return d.Version != "" && !d.Workspace && d.Path == "" && d.Package == "" && d.Registry == "" &&
		d.RegistryIndex == "" && d.Git == "" && d.Branch == "" && d.Tag == "" && d.Rev == "" &&
		d.Optional == nil && d.DefaultFeatures == nil && len(d.Features) == 0
}

func (d Dependency) hasSource() bool {
	return d.Version != "" || d.Workspace || d.Path != "" || d.Git != "" || d.Registry != "" || d.RegistryIndex != ""
}

// Merge takes the source of the dependency (version, workspace, path, git or registry) from the
// right side when it names one. Other settings are overridden field by field and features are united.
func (d Dependency) Merge(right Dependency) Dependency {
	out := d
	if right.hasSource() {
		out.Version = right.Version
		out.Workspace = right.Workspace
		out.Path = right.Path
		out.Registry = right.Registry
		out.RegistryIndex = right.RegistryIndex
		out.Git = right.Git
		out.Branch = right.Branch
		out.Tag = right.Tag
		out.Rev = right.Rev
	}
	out.Package = merge.Value(d.Package, right.Package)
	out.Optional = merge.Scalar(d.Optional, right.Optional)
	out.DefaultFeatures = merge.Scalar(d.DefaultFeatures, right.DefaultFeatures)
	out.Features = merge.SortedSet(d.Features, right.Features)
	return out
}

// value returns the TOML form of d: a string for simple dependencies and an inline table otherwise.
func (d Dependency) value() any {
	if d.IsSimple() {
		return d.Version
	}
	t := NewInlineTable()
	if d.Workspace {
		t.Set("workspace", true)
	}
	for _, f := range []struct{ key, value string }{
		{"version", d.Version},
		{"path", d.Path},
		{"package", d.Package},
		{"registry", d.Registry},
		{"registry-index", d.RegistryIndex},
		{"git", d.Git},
		{"branch", d.Branch},
		{"tag", d.Tag},
		{"rev", d.Rev},
	} {
		if f.value != "" {
			t.Set(f.key, f.value)
		}
	}
	if d.Optional != nil && *d.Optional {
		t.Set("optional", true)
	}
	if d.DefaultFeatures != nil && !*d.DefaultFeatures {
		t.Set("default-features", false)
	}
	if len(d.Features) > 0 {
		t.Set("features", FromValue(d.Features))
	}
	return t
}

// Dependencies maps crate names to dependencies. They are written in name order.
type Dependencies map[string]Dependency

func (d Dependencies) Merge(right Dependencies) Dependencies {
	return mergeRecords(d, right)
}

// table returns the dependencies as a standard table.
func (d Dependencies) table() *Table {
	t := NewTable()
	for _, name := range slices.Sorted(maps.Keys(d)) {
		t.Set(name, d[name].value())
	}
	return t
}
