package ts

import (
	"slices"

	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/hooks"
	"github.com/cloudposse/sketch/pkg/license"
	"github.com/cloudposse/sketch/pkg/merge"
	"github.com/cloudposse/sketch/pkg/preset"
	"github.com/cloudposse/sketch/pkg/template"
	"github.com/cloudposse/sketch/pkg/ts/oxlint"
	"github.com/cloudposse/sketch/pkg/ts/packagejson"
	"github.com/cloudposse/sketch/pkg/ts/tsconfig"
	"github.com/cloudposse/sketch/pkg/ts/vitest"
)

// PackageKind only changes the defaults of a package.
type PackageKind string

const (
	Library PackageKind = "library"
	App     PackageKind = "app"
)

func (k *PackageKind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch PackageKind(s) {
	case Library, App:
		*k = PackageKind(s)
		return nil
	default:
		return errUtils.Errorf(errUtils.ErrUnsupportedValue, "Invalid package kind `%s`. Allowed values are: library, app", s)
	}
}

// IsApp reports whether k is an app. Unset kinds are libraries.
func (k PackageKind) IsApp() bool {
	return k == App
}

// PackageConfig describes a new typescript package.
type PackageConfig struct {
	// Name defaults to the name of the package directory.
	Name string      `yaml:"name,omitempty"`
	Kind PackageKind `yaml:"kind,omitempty"`
	// TSConfig lists the tsconfig files of the package. Defaults are used when empty.
	TSConfig    []tsconfig.Directive `yaml:"ts_config,omitempty"`
	PackageJSON *packagejson.Ref     `yaml:"package_json,omitempty"`
	License     license.License      `yaml:"license,omitempty"`
	// WithTemplates are rendered with relative outputs resolved from the package root.
	WithTemplates []template.Ref  `yaml:"with_templates,omitempty"`
	HooksPre      []hooks.Hook    `yaml:"hooks_pre,omitempty"`
	HooksPost     []hooks.Hook    `yaml:"hooks_post,omitempty"`
	Vitest        *vitest.Setting `yaml:"vitest,omitempty"`
	Oxlint        *oxlint.Setting `yaml:"oxlint,omitempty"`
}

// Merge overrides the scalars and references set on the right.
// Templates and hooks of the right side run after the left ones.
func (c PackageConfig) Merge(right PackageConfig) PackageConfig {
	return PackageConfig{
		Name:          merge.Value(c.Name, right.Name),
		Kind:          merge.Value(c.Kind, right.Kind),
		TSConfig:      merge.Slice(c.TSConfig, right.TSConfig),
		PackageJSON:   merge.Scalar(c.PackageJSON, right.PackageJSON),
		License:       merge.Value(c.License, right.License),
		WithTemplates: slices.Concat(c.WithTemplates, right.WithTemplates),
		HooksPre:      slices.Concat(c.HooksPre, right.HooksPre),
		HooksPost:     slices.Concat(c.HooksPost, right.HooksPost),
		Vitest:        merge.Scalar(c.Vitest, right.Vitest),
		Oxlint:        merge.Scalar(c.Oxlint, right.Oxlint),
	}
}

// RootPackage is the package used for a monorepo root when no preset is selected:
// it is named `root`, writes the default oxlint config and skips vitest.
func RootPackage() PackageConfig {
	return PackageConfig{
		Name:   "root",
		Oxlint: preset.EnabledToggle[oxlint.Preset](true),
		Vitest: preset.EnabledToggle[vitest.Preset](false),
	}
}

// PackagePreset is a package preset.
type PackagePreset = preset.Preset[PackageConfig]

// PackageStore is the package_presets section of the typescript config.
type PackageStore = preset.Store[PackagePreset]

// PackageRef selects a package preset by id or defines one inline.
type PackageRef = preset.Ref[PackagePreset]

// ResolvePackage returns the package config selected by ref, or the zero config when ref is nil.
func (c Config) ResolvePackage(ref *PackageRef) (PackageConfig, error) {
	p, err := preset.ResolveRef(preset.TSPackage, ref, preset.InlinedDefinitionID, c.PackagePresets)
	if err != nil {
		return PackageConfig{}, err
	}
	return p.Config, nil
}
