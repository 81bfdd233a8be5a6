// Package rust holds the rust section of the configuration: Cargo.toml presets and crate presets.
package rust

import (
	"slices"

	"github.com/cloudposse/sketch/pkg/gitignore"
	"github.com/cloudposse/sketch/pkg/license"
	"github.com/cloudposse/sketch/pkg/merge"
	"github.com/cloudposse/sketch/pkg/preset"
	"github.com/cloudposse/sketch/pkg/rust/cargo"
	"github.com/cloudposse/sketch/pkg/template"
)

// Config is the rust section of the configuration.
type Config struct {
	ManifestPresets *cargo.Store `yaml:"manifest_presets,omitempty"`
	CratePresets    *CrateStore  `yaml:"crate_presets,omitempty"`
}

func (c Config) Merge(right Config) Config {
	return Config{
		ManifestPresets: merge.Map(c.ManifestPresets, right.ManifestPresets),
		CratePresets:    merge.Map(c.CratePresets, right.CratePresets),
	}
}

// LookupManifest returns the manifest preset with the given id, merged with the presets it extends.
func (c Config) LookupManifest(id string) (cargo.Manifest, error) {
	p, err := preset.Lookup(preset.CargoToml, id, c.ManifestPresets)
	if err != nil {
		return cargo.Manifest{}, err
	}
	return p.Config, nil
}

// CrateConfig describes a new crate.
type CrateConfig struct {
	// Manifest is the Cargo.toml of the crate. An empty manifest is used when unset.
	Manifest  *cargo.Ref         `yaml:"manifest,omitempty"`
	Gitignore *gitignore.Setting `yaml:"gitignore,omitempty"`
	License   license.License    `yaml:"license,omitempty"`
	// WithTemplates are rendered with relative outputs resolved from the crate directory.
	WithTemplates []template.Ref `yaml:"with_templates,omitempty"`
}

// Merge overrides the references set on the right and appends its templates.
func (c CrateConfig) Merge(right CrateConfig) CrateConfig {
	return CrateConfig{
		Manifest:      merge.Scalar(c.Manifest, right.Manifest),
		Gitignore:     merge.Scalar(c.Gitignore, right.Gitignore),
		License:       merge.Value(c.License, right.License),
		WithTemplates: slices.Concat(c.WithTemplates, right.WithTemplates),
	}
}

// CratePreset is a crate preset.
type CratePreset = preset.Preset[CrateConfig]

// CrateStore is the crate_presets section of the rust config.
type CrateStore = preset.Store[CratePreset]

// LookupCrate returns the crate preset with the given id, merged with the presets it extends.
// An empty id selects the zero config.
func (c Config) LookupCrate(id string) (CrateConfig, error) {
	if id == "" {
		return CrateConfig{}, nil
	}
	p, err := preset.Lookup(preset.RustCrate, id, c.CratePresets)
	if err != nil {
		return CrateConfig{}, err
	}
	return p.Config, nil
}

// Crate is a crate config with every reference resolved.
type Crate struct {
	Manifest      cargo.Manifest
	Gitignore     *gitignore.Config
	License       license.License
	WithTemplates []template.Ref
}

// ResolveCrate resolves the manifest and gitignore references of cfg.
// Inline manifests are resolved under the `__inlined` id.
func (c Config) ResolveCrate(cfg CrateConfig, gitignores *gitignore.Store) (Crate, error) {
	out := Crate{License: cfg.License, WithTemplates: cfg.WithTemplates}

	manifest, err := preset.ResolveRef(preset.CargoToml, cfg.Manifest, preset.InlinedID, c.ManifestPresets)
	if err != nil {
		return Crate{}, err
	}
	out.Manifest = manifest.Config

	ignore, ok, err := gitignore.Resolve(cfg.Gitignore, gitignores)
	if err != nil {
		return Crate{}, err
	}
	if ok {
		out.Gitignore = &ignore
	}
	return out, nil
}
