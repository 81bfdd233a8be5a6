// Package packagejson models package.json files and their presets.
package packagejson

import (
	"context"
	"maps"
	"regexp"
	"slices"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	log "github.com/cloudposse/sketch/pkg/logger"
	"github.com/cloudposse/sketch/pkg/merge"
	"github.com/cloudposse/sketch/pkg/npm"
	"github.com/cloudposse/sketch/pkg/orderedmap"
	"github.com/cloudposse/sketch/pkg/preset"
)

var jsonAPI = jsoniter.Config{EscapeHTML: false, SortMapKeys: true}.Froze()

// CatalogRegex matches `catalog:` and `catalog:<name>` dependency versions.
var CatalogRegex = regexp.MustCompile(`^catalog:(?P<name>\w+)?$`)

// Dependencies maps package names to version specifiers. It is written in key order.
type Dependencies = map[string]string

// PackageJSON is the content of a package.json file.
// Keys that sketch does not model are kept in Extras and written after the known ones.
type PackageJSON struct {
	Name                 string                  `yaml:"name,omitempty"`
	Private              *bool                   `yaml:"private,omitempty"`
	Version              string                  `yaml:"version,omitempty"`
	Type                 string                  `yaml:"type,omitempty"`
	Description          string                  `yaml:"description,omitempty"`
	License              string                  `yaml:"license,omitempty"`
	Author               *Person                 `yaml:"author,omitempty"`
	Contributors         []Person                `yaml:"contributors,omitempty"`
	Maintainers          []Person                `yaml:"maintainers,omitempty"`
	Keywords             []string                `yaml:"keywords,omitempty"`
	Homepage             string                  `yaml:"homepage,omitempty"`
	Repository           any                     `yaml:"repository,omitempty"`
	Bugs                 any                     `yaml:"bugs,omitempty"`
	Funding              any                     `yaml:"funding,omitempty"`
	Bin                  any                     `yaml:"bin,omitempty"`
	Main                 string                  `yaml:"main,omitempty"`
	Browser              string                  `yaml:"browser,omitempty"`
	Types                string                  `yaml:"types,omitempty"`
	Exports              any                     `yaml:"exports,omitempty"`
	Files                []string                `yaml:"files,omitempty"`
	Workspaces           *orderedmap.Set[string] `yaml:"workspaces,omitempty"`
	Scripts              *orderedmap.Map[string] `yaml:"scripts,omitempty"`
	PackageManager       string                  `yaml:"packageManager,omitempty"`
	Engines              map[string]string       `yaml:"engines,omitempty"`
	OS                   []string                `yaml:"os,omitempty"`
	CPU                  []string                `yaml:"cpu,omitempty"`
	Dependencies         Dependencies            `yaml:"dependencies,omitempty"`
	DevDependencies      Dependencies            `yaml:"devDependencies,omitempty"`
	PeerDependencies     Dependencies            `yaml:"peerDependencies,omitempty"`
	OptionalDependencies Dependencies            `yaml:"optionalDependencies,omitempty"`
	BundleDependencies   []string                `yaml:"bundleDependencies,omitempty"`
	Catalog              Dependencies            `yaml:"catalog,omitempty"`
	Catalogs             map[string]Dependencies `yaml:"catalogs,omitempty"`
	Pnpm                 *orderedmap.Map[any]    `yaml:"pnpm,omitempty"`
	Overrides            *orderedmap.Map[any]    `yaml:"overrides,omitempty"`
	PublishConfig        *orderedmap.Map[any]    `yaml:"publishConfig,omitempty"`
	Config               *orderedmap.Map[any]    `yaml:"config,omitempty"`
	Extras               *orderedmap.Map[any]    `yaml:"-"`
}

type plainPackageJSON PackageJSON

// aliases lets configuration files spell the camelCase keys in snake_case.
var aliases = map[string]string{
	"package_manager":       "packageManager",
	"dev_dependencies":      "devDependencies",
	"peer_dependencies":     "peerDependencies",
	"optional_dependencies": "optionalDependencies",
	"bundle_dependencies":   "bundleDependencies",
	"publish_config":        "publishConfig",
}

// Default returns the fields every generated package.json starts from.
func Default() PackageJSON {
	private := true
	return PackageJSON{
		Private: &private,
		Version: "0.1.0",
		Type:    "module",
	}
}

func (p *PackageJSON) UnmarshalYAML(node *yaml.Node) error {
	node = orderedmap.RenameKeys(node, aliases)
	extras, err := orderedmap.DecodeStruct(node, (*plainPackageJSON)(p))
	if err != nil {
		return err
	}
	p.Extras = extras
	return p.decodeFreeForm(node)
}

// decodeFreeForm re-decodes the string-or-object fields so that objects keep their key order.
func (p *PackageJSON) decodeFreeForm(node *yaml.Node) error {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	fields := map[string]*any{
		"repository": &p.Repository,
		"bugs":       &p.Bugs,
		"funding":    &p.Funding,
		"bin":        &p.Bin,
		"exports":    &p.Exports,
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		target, ok := fields[node.Content[i].Value]
		if !ok {
			continue
		}
		v, err := orderedmap.DecodeAny(node.Content[i+1])
		if err != nil {
			return err
		}
		*target = v
	}
	return nil
}

func (p PackageJSON) MarshalYAML() (any, error) {
	return orderedmap.FromStruct(p, p.Extras), nil
}

func (p PackageJSON) MarshalJSON() ([]byte, error) {
	return orderedmap.FromStruct(p, p.Extras).MarshalJSON()
}

// Merge lays right over p. Scalars are replaced when set, maps are merged key by key
// and lists are joined without duplicates.
func (p PackageJSON) Merge(right PackageJSON) PackageJSON {
	return PackageJSON{
		Name:                 merge.Value(p.Name, right.Name),
		Private:              merge.Scalar(p.Private, right.Private),
		Version:              merge.Value(p.Version, right.Version),
		Type:                 merge.Value(p.Type, right.Type),
		Description:          merge.Value(p.Description, right.Description),
		License:              merge.Value(p.License, right.License),
		Author:               merge.Scalar(p.Author, right.Author),
		Contributors:         mergePeople(p.Contributors, right.Contributors),
		Maintainers:          mergePeople(p.Maintainers, right.Maintainers),
		Keywords:             merge.SortedSet(p.Keywords, right.Keywords),
		Homepage:             merge.Value(p.Homepage, right.Homepage),
		Repository:           mergeAny(p.Repository, right.Repository),
		Bugs:                 mergeAny(p.Bugs, right.Bugs),
		Funding:              mergeAny(p.Funding, right.Funding),
		Bin:                  mergeAny(p.Bin, right.Bin),
		Main:                 merge.Value(p.Main, right.Main),
		Browser:              merge.Value(p.Browser, right.Browser),
		Types:                merge.Value(p.Types, right.Types),
		Exports:              mergeAny(p.Exports, right.Exports),
		Files:                merge.SortedSet(p.Files, right.Files),
		Workspaces:           merge.Set(p.Workspaces, right.Workspaces),
		Scripts:              merge.Map(p.Scripts, right.Scripts),
		PackageManager:       merge.Value(p.PackageManager, right.PackageManager),
		Engines:              merge.SortedMap(p.Engines, right.Engines),
		OS:                   merge.SortedSet(p.OS, right.OS),
		CPU:                  merge.SortedSet(p.CPU, right.CPU),
		Dependencies:         merge.SortedMap(p.Dependencies, right.Dependencies),
		DevDependencies:      merge.SortedMap(p.DevDependencies, right.DevDependencies),
		PeerDependencies:     merge.SortedMap(p.PeerDependencies, right.PeerDependencies),
		OptionalDependencies: merge.SortedMap(p.OptionalDependencies, right.OptionalDependencies),
		BundleDependencies:   merge.SortedSet(p.BundleDependencies, right.BundleDependencies),
		Catalog:              merge.SortedMap(p.Catalog, right.Catalog),
		Catalogs:             MergeCatalogs(p.Catalogs, right.Catalogs),
		Pnpm:                 merge.Map(p.Pnpm, right.Pnpm),
		Overrides:            merge.Map(p.Overrides, right.Overrides),
		PublishConfig:        merge.Map(p.PublishConfig, right.PublishConfig),
		Config:               merge.Map(p.Config, right.Config),
		Extras:               merge.Map(p.Extras, right.Extras),
	}
}

// MergeCatalogs merges named catalogs entry by entry.
func MergeCatalogs(left, right map[string]Dependencies) map[string]Dependencies {
	if len(right) == 0 {
		return left
	}
	if len(left) == 0 {
		return right
	}
	out := maps.Clone(left)
	for name, deps := range right {
		out[name] = merge.SortedMap(out[name], deps)
	}
	return out
}

// mergeAny handles the fields that are either a string or an object. Objects merge key by key.
func mergeAny(left, right any) any {
	if right == nil {
		return left
	}
	l, lok := left.(*orderedmap.Map[any])
	r, rok := right.(*orderedmap.Map[any])
	if lok && rok {
		return merge.Map(l, r)
	}
	return right
}

// Materialize replaces author, contributor and maintainer ids with their entry in people.
func (p *PackageJSON) Materialize(people *People) {
	if p.Author != nil {
		author := p.Author.materialize(people)
		p.Author = &author
	}
	p.Contributors = materializeAll(p.Contributors, people)
	p.Maintainers = materializeAll(p.Maintainers, people)
}

func materializeAll(list []Person, people *People) []Person {
	if len(list) == 0 {
		return list
	}
	out := make([]Person, len(list))
	for i, person := range list {
		out[i] = person.materialize(people)
	}
	return out
}

// AddDevDependency adds name with version unless it is already listed.
func (p *PackageJSON) AddDevDependency(name, version string) {
	if _, ok := p.DevDependencies[name]; ok {
		return
	}
	if p.DevDependencies == nil {
		p.DevDependencies = Dependencies{}
	}
	p.DevDependencies[name] = version
}

// dependencyMaps lists the dependency sections in the order they are scanned.
func (p *PackageJSON) dependencyMaps() []*Dependencies {
	return []*Dependencies{&p.Dependencies, &p.DevDependencies, &p.OptionalDependencies, &p.PeerDependencies}
}

// CatalogEntries returns the dependencies of every section that point at a catalog,
// mapped to the catalog name (empty for the default catalog).
func (p *PackageJSON) CatalogEntries() map[string]string {
	out := map[string]string{}
	for _, deps := range p.dependencyMaps() {
		for name, version := range *deps {
			if m := CatalogRegex.FindStringSubmatch(version); m != nil {
				out[name] = m[1]
			}
		}
	}
	return out
}

// ProcessOptions drives ProcessDependencies.
type ProcessOptions struct {
	// ConvertLatest replaces `latest` with a range built from the registry's latest version.
	ConvertLatest bool
	// FillCatalogs adds missing `catalog:` dependencies to the catalogs of this package.json.
	FillCatalogs bool
	Range        npm.VersionRange
	Registry     npm.Registry
}

// ProcessDependencies resolves `latest` versions and, when asked, fills the package's own catalogs.
// Lookups run concurrently; a failed lookup leaves the dependency at `latest`.
func (p *PackageJSON) ProcessDependencies(ctx context.Context, opts ProcessOptions) {
	if !opts.ConvertLatest && !opts.FillCatalogs {
		return
	}

	var latest []string
	catalogs := map[string]string{}
	for _, deps := range p.dependencyMaps() {
		for name, version := range *deps {
			if opts.ConvertLatest && version == npm.Latest {
				latest = append(latest, name)
				continue
			}
			if !opts.FillCatalogs {
				continue
			}
			if m := CatalogRegex.FindStringSubmatch(version); m != nil && !p.inCatalog(m[1], name) {
				catalogs[name] = m[1]
			}
		}
	}
	if len(latest) == 0 && len(catalogs) == 0 {
		return
	}

	names := append(slices.Sorted(maps.Keys(catalogs)), latest...)
	versions := npm.LatestVersions(ctx, opts.Registry, names)

	for _, deps := range p.dependencyMaps() {
		for name, version := range *deps {
			if version == npm.Latest && opts.ConvertLatest {
				(*deps)[name] = opts.Range.Create(versions[name])
			}
		}
	}
	for name, catalog := range catalogs {
		p.setCatalogEntry(catalog, name, opts.Range.Create(versions[name]))
	}
	log.Debug("Processed package.json dependencies", "latest", len(latest), "catalog", len(catalogs))
}

func (p *PackageJSON) inCatalog(catalog, name string) bool {
	if catalog == "" {
		_, ok := p.Catalog[name]
		return ok
	}
	_, ok := p.Catalogs[catalog][name]
	return ok
}

func (p *PackageJSON) setCatalogEntry(catalog, name, version string) {
	if catalog == "" {
		if p.Catalog == nil {
			p.Catalog = Dependencies{}
		}
		p.Catalog[name] = version
		return
	}
	if p.Catalogs == nil {
		p.Catalogs = map[string]Dependencies{}
	}
	if p.Catalogs[catalog] == nil {
		p.Catalogs[catalog] = Dependencies{}
	}
	p.Catalogs[catalog][name] = version
}

// Preset is a package.json preset.
type Preset = preset.Preset[PackageJSON]

// Store is the package_json_presets section of the configuration.
type Store = preset.Store[Preset]

// Ref selects a package.json preset by id or defines one inline.
type Ref = preset.Ref[Preset]

// Resolve returns the package.json selected by ref with its people materialized.
// A nil ref yields the zero record.
func Resolve(ref *Ref, store *Store, people *People) (PackageJSON, error) {
	p, err := preset.ResolveRef(preset.PackageJSON, ref, preset.InlinedDefinitionID, store)
	if err != nil {
		return PackageJSON{}, err
	}
	out := p.Config
	out.Materialize(people)
	return out, nil
}
