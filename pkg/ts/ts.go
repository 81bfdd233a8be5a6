// Package ts holds the typescript section of the configuration and the package presets built from it.
package ts

import (
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/merge"
	"github.com/cloudposse/sketch/pkg/npm"
	"github.com/cloudposse/sketch/pkg/ts/oxlint"
	"github.com/cloudposse/sketch/pkg/ts/packagejson"
	"github.com/cloudposse/sketch/pkg/ts/pnpm"
	"github.com/cloudposse/sketch/pkg/ts/tsconfig"
	"github.com/cloudposse/sketch/pkg/ts/vitest"
	"github.com/cloudposse/sketch/pkg/utils"
)

// PackageManager is a JavaScript package manager.
type PackageManager string

const (
	Pnpm PackageManager = "pnpm"
	Npm  PackageManager = "npm"
	Deno PackageManager = "deno"
	Bun  PackageManager = "bun"
	Yarn PackageManager = "yarn"
)

var rootMarkers = map[PackageManager]string{
	Pnpm: pnpm.FileName,
	Npm:  "package-lock.json",
	Deno: "deno.lock",
	Bun:  "bun.lock",
	Yarn: "yarn.lock",
}

// ParsePackageManager accepts pnpm, npm, deno, bun and yarn.
func ParsePackageManager(s string) (PackageManager, error) {
	m := PackageManager(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := rootMarkers[m]; !ok {
		return "", errUtils.Errorf(errUtils.ErrUnsupportedValue,
			"Invalid package manager `%s`. Allowed values are: pnpm, npm, deno, bun, yarn", s)
	}
	return m, nil
}

// OrDefault returns m, or pnpm when m is unset.
func (m PackageManager) OrDefault() PackageManager {
	if m == "" {
		return Pnpm
	}
	return m
}

// RootMarker is the file that marks the root of a workspace managed by m.
func (m PackageManager) RootMarker() string {
	return rootMarkers[m.OrDefault()]
}

// FindRoot returns the closest directory at or above start that holds the root marker of m.
func (m PackageManager) FindRoot(start string) (string, bool) {
	marker, ok := utils.FindUp(start, m.RootMarker())
	if !ok {
		return "", false
	}
	return filepath.Dir(marker), true
}

// HasCatalogs reports whether m supports the catalog: protocol.
func (m PackageManager) HasCatalogs() bool {
	switch m.OrDefault() {
	case Pnpm, Bun:
		return true
	default:
		return false
	}
}

func (m PackageManager) String() string {
	return string(m.OrDefault())
}

// Set implements pflag.Value.
func (m *PackageManager) Set(s string) error {
	parsed, err := ParsePackageManager(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Type implements pflag.Value.
func (m *PackageManager) Type() string {
	return "pnpm|npm|deno|bun|yarn"
}

func (m *PackageManager) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return m.Set(s)
}

// Config is the typescript section of the configuration.
type Config struct {
	// PackageManager defaults to pnpm.
	PackageManager PackageManager `yaml:"package_manager,omitempty"`
	// NoDefaultDeps skips adding typescript and oxlint (plus vitest when enabled) to new packages.
	NoDefaultDeps *bool `yaml:"no_default_deps,omitempty"`
	// VersionRange applies to versions fetched from the registry. It defaults to minor.
	VersionRange npm.VersionRange `yaml:"version_range,omitempty"`
	// Catalog uses `catalog:` for default dependencies and fills the catalog with missing entries.
	Catalog *bool `yaml:"catalog,omitempty"`
	// NoConvertLatest keeps `latest` versions as they are.
	NoConvertLatest *bool `yaml:"no_convert_latest_to_range,omitempty"`

	People             *packagejson.People `yaml:"people,omitempty"`
	PackageJSONPresets *packagejson.Store  `yaml:"package_json_presets,omitempty"`
	TSConfigPresets    *tsconfig.Store     `yaml:"ts_config_presets,omitempty"`
	OxlintPresets      *oxlint.Store       `yaml:"oxlint_presets,omitempty"`
	PackagePresets     *PackageStore       `yaml:"package_presets,omitempty"`
	PnpmPresets        *pnpm.Store         `yaml:"pnpm_presets,omitempty"`
	VitestPresets      *vitest.Store       `yaml:"vitest_presets,omitempty"`
}

// Merge overrides scalars set on the right and merges the preset stores by id.
func (c Config) Merge(right Config) Config {
	return Config{
		PackageManager:     merge.Value(c.PackageManager, right.PackageManager),
		NoDefaultDeps:      merge.Scalar(c.NoDefaultDeps, right.NoDefaultDeps),
		VersionRange:       merge.Value(c.VersionRange, right.VersionRange),
		Catalog:            merge.Scalar(c.Catalog, right.Catalog),
		NoConvertLatest:    merge.Scalar(c.NoConvertLatest, right.NoConvertLatest),
		People:             merge.Map(c.People, right.People),
		PackageJSONPresets: merge.Map(c.PackageJSONPresets, right.PackageJSONPresets),
		TSConfigPresets:    merge.Map(c.TSConfigPresets, right.TSConfigPresets),
		OxlintPresets:      merge.Map(c.OxlintPresets, right.OxlintPresets),
		PackagePresets:     merge.Map(c.PackagePresets, right.PackagePresets),
		PnpmPresets:        merge.Map(c.PnpmPresets, right.PnpmPresets),
		VitestPresets:      merge.Map(c.VitestPresets, right.VitestPresets),
	}
}

// UsesCatalog reports whether catalog handling is enabled.
func (c Config) UsesCatalog() bool {
	return c.Catalog != nil && *c.Catalog
}

// AddsDefaultDeps reports whether default dev dependencies are added to new packages.
func (c Config) AddsDefaultDeps() bool {
	return c.NoDefaultDeps == nil || !*c.NoDefaultDeps
}

// ConvertsLatest reports whether `latest` versions are turned into ranges.
func (c Config) ConvertsLatest() bool {
	return c.NoConvertLatest == nil || !*c.NoConvertLatest
}

// Range returns the configured version range, minor by default.
func (c Config) Range() npm.VersionRange {
	return c.VersionRange.Or(npm.RangeMinor)
}
