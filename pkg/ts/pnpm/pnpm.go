// Package pnpm models pnpm-workspace.yaml files and fills their catalogs.
package pnpm

import (
	"context"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cloudposse/sketch/pkg/filetype"
	log "github.com/cloudposse/sketch/pkg/logger"
	"github.com/cloudposse/sketch/pkg/merge"
	"github.com/cloudposse/sketch/pkg/npm"
	"github.com/cloudposse/sketch/pkg/orderedmap"
	"github.com/cloudposse/sketch/pkg/preset"
	"github.com/cloudposse/sketch/pkg/ts/packagejson"
)

// FileName is the workspace file pnpm looks for at the root of a monorepo.
const FileName = "pnpm-workspace.yaml"

// Workspace is the content of a pnpm-workspace.yaml file.
type Workspace struct {
	Packages              []string                            `yaml:"packages,omitempty"`
	Catalog               packagejson.Dependencies            `yaml:"catalog,omitempty"`
	Catalogs              map[string]packagejson.Dependencies `yaml:"catalogs,omitempty"`
	OnlyBuiltDependencies []string                            `yaml:"onlyBuiltDependencies,omitempty"`
	Overrides             map[string]string                   `yaml:"overrides,omitempty"`
	Extras                *orderedmap.Map[any]                `yaml:"-"`
}

type plainWorkspace Workspace

var aliases = map[string]string{
	"only_built_dependencies": "onlyBuiltDependencies",
}

func (w *Workspace) UnmarshalYAML(node *yaml.Node) error {
	extras, err := orderedmap.DecodeStruct(orderedmap.RenameKeys(node, aliases), (*plainWorkspace)(w))
	if err != nil {
		return err
	}
	w.Extras = extras
	return nil
}

func (w Workspace) MarshalYAML() (any, error) {
	return orderedmap.FromStruct(w, w.Extras), nil
}

func (w Workspace) Merge(right Workspace) Workspace {
	return Workspace{
		Packages:              merge.SortedSet(w.Packages, right.Packages),
		Catalog:               merge.SortedMap(w.Catalog, right.Catalog),
		Catalogs:              packagejson.MergeCatalogs(w.Catalogs, right.Catalogs),
		OnlyBuiltDependencies: merge.SortedSet(w.OnlyBuiltDependencies, right.OnlyBuiltDependencies),
		Overrides:             merge.SortedMap(w.Overrides, right.Overrides),
		Extras:                merge.Map(w.Extras, right.Extras),
	}
}

// PackageDirs returns the directories named by the packages globs, with a trailing `/*` or `/**` removed.
func (w Workspace) PackageDirs() []string {
	dirs := make([]string, 0, len(w.Packages))
	for _, pattern := range w.Packages {
		if strings.HasPrefix(pattern, "!") {
			continue
		}
		dirs = append(dirs, filepath.FromSlash(GlobBase(pattern)))
	}
	return dirs
}

// GlobBase strips a trailing `/*` or `/**` from a workspace glob.
func GlobBase(pattern string) string {
	for _, suffix := range []string{"/**", "/*"} {
		if trimmed, ok := strings.CutSuffix(pattern, suffix); ok {
			return trimmed
		}
	}
	return pattern
}

// AddDependenciesToCatalog fills the catalogs with every `catalog:` dependency of pkg, at the
// latest registry version with the range prefix applied. Existing catalog entries are replaced.
func (w *Workspace) AddDependenciesToCatalog(ctx context.Context, pkg *packagejson.PackageJSON, r npm.VersionRange, registry npm.Registry) {
	entries := pkg.CatalogEntries()
	if len(entries) == 0 {
		return
	}
	names := slices.Sorted(maps.Keys(entries))
	versions := npm.LatestVersions(ctx, registry, names)

	for _, name := range names {
		version := r.Create(versions[name])
		catalog := entries[name]
		if catalog == "" {
			if w.Catalog == nil {
				w.Catalog = packagejson.Dependencies{}
			}
			w.Catalog[name] = version
			continue
		}
		if w.Catalogs == nil {
			w.Catalogs = map[string]packagejson.Dependencies{}
		}
		if w.Catalogs[catalog] == nil {
			w.Catalogs[catalog] = packagejson.Dependencies{}
		}
		w.Catalogs[catalog][name] = version
	}
	log.Debug("Added dependencies to the pnpm catalogs", "count", len(names))
}

// Read loads an existing workspace file.
func Read(path string) (Workspace, error) {
	var w Workspace
	err := filetype.DecodeFile(path, &w)
	return w, err
}

// Preset is a pnpm-workspace.yaml preset.
type Preset = preset.Preset[Workspace]

// Store is the pnpm_presets section of the configuration.
type Store = preset.Store[Preset]
