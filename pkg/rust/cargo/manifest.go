// Package cargo models Cargo.toml manifests, writes them as TOML and adds crates to workspaces.
package cargo

import (
	"cmp"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/cloudposse/sketch/pkg/merge"
	"github.com/cloudposse/sketch/pkg/orderedmap"
	"github.com/cloudposse/sketch/pkg/preset"
)

// FileName is the name of a cargo manifest.
const FileName = "Cargo.toml"

// Manifest is the content of a Cargo.toml file.
type Manifest struct {
	Workspace         *Workspace                      `yaml:"workspace,omitempty"`
	Package           *Package                        `yaml:"package,omitempty"`
	Lib               *Product                        `yaml:"lib,omitempty"`
	Bin               []Product                       `yaml:"bin,omitempty"`
	Bench             []Product                       `yaml:"bench,omitempty"`
	Test              []Product                       `yaml:"test,omitempty"`
	Example           []Product                       `yaml:"example,omitempty"`
	Target            map[string]Target               `yaml:"target,omitempty"`
	Patch             map[string]Dependencies         `yaml:"patch,omitempty"`
	Profile           map[string]*orderedmap.Map[any] `yaml:"profile,omitempty"`
	Lints             *Inheritable[Lints]             `yaml:"lints,omitempty"`
	Features          map[string][]string             `yaml:"features,omitempty"`
	Dependencies      Dependencies                    `yaml:"dependencies,omitempty"`
	DevDependencies   Dependencies                    `yaml:"dev-dependencies,omitempty"`
	BuildDependencies Dependencies                    `yaml:"build-dependencies,omitempty"`
	Extras            *orderedmap.Map[any]            `yaml:"-"`
}

type plainManifest Manifest

var manifestAliases = map[string]string{
	"dev_dependencies":   "dev-dependencies",
	"build_dependencies": "build-dependencies",
}

func (m *Manifest) UnmarshalYAML(node *yaml.Node) error {
	extras, err := orderedmap.DecodeStruct(orderedmap.RenameKeys(node, manifestAliases), (*plainManifest)(m))
	if err != nil {
		return err
	}
	m.Extras = extras
	return nil
}

func (m Manifest) MarshalYAML() (any, error) {
	return orderedmap.FromStruct(m, m.Extras), nil
}

func (m Manifest) Merge(right Manifest) Manifest {
	return Manifest{
		Workspace:         merge.Nested(m.Workspace, right.Workspace),
		Package:           merge.Nested(m.Package, right.Package),
		Lib:               merge.Nested(m.Lib, right.Lib),
		Bin:               mergeProducts(m.Bin, right.Bin),
		Bench:             mergeProducts(m.Bench, right.Bench),
		Test:              mergeProducts(m.Test, right.Test),
		Example:           mergeProducts(m.Example, right.Example),
		Target:            mergeRecords(m.Target, right.Target),
		Patch:             mergePatches(m.Patch, right.Patch),
		Profile:           mergeProfiles(m.Profile, right.Profile),
		Lints:             merge.Scalar(m.Lints, right.Lints),
		Features:          mergeFeatures(m.Features, right.Features),
		Dependencies:      m.Dependencies.Merge(right.Dependencies),
		DevDependencies:   m.DevDependencies.Merge(right.DevDependencies),
		BuildDependencies: m.BuildDependencies.Merge(right.BuildDependencies),
		Extras:            merge.Map(m.Extras, right.Extras),
	}
}

// Inheritable is a package field that is either set in the crate or inherited with `{ workspace = true }`.
type Inheritable[T any] struct {
	Value     T
	Workspace bool
}

// Set returns a field with a value of its own.
func Set[T any](v T) *Inheritable[T] {
	return &Inheritable[T]{Value: v}
}

// Inherited returns a field that takes its value from the workspace.
func Inherited[T any]() *Inheritable[T] {
	return &Inheritable[T]{Workspace: true}
}

func (i *Inheritable[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		for n := 0; n+1 < len(node.Content); n += 2 {
			if node.Content[n].Value == "workspace" {
				return node.Content[n+1].Decode(&i.Workspace)
			}
		}
	}
	return node.Decode(&i.Value)
}

func (i Inheritable[T]) MarshalYAML() (any, error) {
	if i.Workspace {
		return map[string]bool{"workspace": true}, nil
	}
	return i.Value, nil
}

// inherit marks field as inherited when the workspace defines it and the crate does not.
func inherit[T any](field **Inheritable[T], workspace *Inheritable[T]) {
	if workspace != nil && *field == nil {
		*field = Inherited[T]()
	}
}

// Package is the [package] table. It also serves as the [workspace.package] template.
type Package struct {
	Name          string                 `yaml:"name,omitempty"`
	Version       *Inheritable[string]   `yaml:"version,omitempty"`
	Edition       *Inheritable[string]   `yaml:"edition,omitempty"`
	RustVersion   *Inheritable[string]   `yaml:"rust-version,omitempty"`
	Authors       *Inheritable[[]string] `yaml:"authors,omitempty"`
	Description   *Inheritable[string]   `yaml:"description,omitempty"`
	Documentation *Inheritable[string]   `yaml:"documentation,omitempty"`
	Readme        *Inheritable[string]   `yaml:"readme,omitempty"`
	Homepage      *Inheritable[string]   `yaml:"homepage,omitempty"`
	Repository    *Inheritable[string]   `yaml:"repository,omitempty"`
	License       *Inheritable[string]   `yaml:"license,omitempty"`
	LicenseFile   *Inheritable[string]   `yaml:"license-file,omitempty"`
	Keywords      *Inheritable[[]string] `yaml:"keywords,omitempty"`
	Categories    *Inheritable[[]string] `yaml:"categories,omitempty"`
	Exclude       *Inheritable[[]string] `yaml:"exclude,omitempty"`
	Include       *Inheritable[[]string] `yaml:"include,omitempty"`
	Publish       *Inheritable[Publish]  `yaml:"publish,omitempty"`
	Workspace     string                 `yaml:"workspace,omitempty"`
	Build         string                 `yaml:"build,omitempty"`
	Links         string                 `yaml:"links,omitempty"`
	DefaultRun    string                 `yaml:"default-run,omitempty"`
	Autobins      *bool                  `yaml:"autobins,omitempty"`
	Autoexamples  *bool                  `yaml:"autoexamples,omitempty"`
	Autotests     *bool                  `yaml:"autotests,omitempty"`
	Autobenches   *bool                  `yaml:"autobenches,omitempty"`
	Autolib       *bool                  `yaml:"autolib,omitempty"`
	Resolver      string                 `yaml:"resolver,omitempty"`
	Metadata      *orderedmap.Map[any]   `yaml:"metadata,omitempty"`
}

func (p Package) Merge(right Package) Package {
	return Package{
		Name:          merge.Value(p.Name, right.Name),
		Version:       merge.Scalar(p.Version, right.Version),
		Edition:       merge.Scalar(p.Edition, right.Edition),
		RustVersion:   merge.Scalar(p.RustVersion, right.RustVersion),
		Authors:       merge.Scalar(p.Authors, right.Authors),
		Description:   merge.Scalar(p.Description, right.Description),
		Documentation: merge.Scalar(p.Documentation, right.Documentation),
		Readme:        merge.Scalar(p.Readme, right.Readme),
		Homepage:      merge.Scalar(p.Homepage, right.Homepage),
		Repository:    merge.Scalar(p.Repository, right.Repository),
		License:       merge.Scalar(p.License, right.License),
		LicenseFile:   merge.Scalar(p.LicenseFile, right.LicenseFile),
		Keywords:      merge.Scalar(p.Keywords, right.Keywords),
		Categories:    merge.Scalar(p.Categories, right.Categories),
		Exclude:       merge.Scalar(p.Exclude, right.Exclude),
		Include:       merge.Scalar(p.Include, right.Include),
		Publish:       merge.Scalar(p.Publish, right.Publish),
		Workspace:     merge.Value(p.Workspace, right.Workspace),
		Build:         merge.Value(p.Build, right.Build),
		Links:         merge.Value(p.Links, right.Links),
		DefaultRun:    merge.Value(p.DefaultRun, right.DefaultRun),
		Autobins:      merge.Scalar(p.Autobins, right.Autobins),
		Autoexamples:  merge.Scalar(p.Autoexamples, right.Autoexamples),
		Autotests:     merge.Scalar(p.Autotests, right.Autotests),
		Autobenches:   merge.Scalar(p.Autobenches, right.Autobenches),
		Autolib:       merge.Scalar(p.Autolib, right.Autolib),
		Resolver:      merge.Value(p.Resolver, right.Resolver),
		Metadata:      merge.Map(p.Metadata, right.Metadata),
	}
}

// InheritFrom marks every field set in the workspace package template, and absent in p, as inherited.
func (p *Package) InheritFrom(ws Package) {
	inherit(&p.Version, ws.Version)
	inherit(&p.Edition, ws.Edition)
	inherit(&p.RustVersion, ws.RustVersion)
	inherit(&p.Authors, ws.Authors)
	inherit(&p.Description, ws.Description)
	inherit(&p.Documentation, ws.Documentation)
	inherit(&p.Readme, ws.Readme)
	inherit(&p.Homepage, ws.Homepage)
	inherit(&p.Repository, ws.Repository)
	inherit(&p.License, ws.License)
	inherit(&p.LicenseFile, ws.LicenseFile)
	inherit(&p.Keywords, ws.Keywords)
	inherit(&p.Categories, ws.Categories)
	inherit(&p.Exclude, ws.Exclude)
	inherit(&p.Include, ws.Include)
	inherit(&p.Publish, ws.Publish)
}

// Publish is false to forbid publishing, or the list of registries the crate may be published to.
type Publish struct {
	Allowed    *bool
	Registries []string
}

func (p *Publish) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		return node.Decode(&p.Registries)
	}
	return node.Decode(&p.Allowed)
}

func (p Publish) MarshalYAML() (any, error) {
	if p.Registries != nil {
		return p.Registries, nil
	}
	return p.Allowed, nil
}

// Workspace is the [workspace] table.
type Workspace struct {
	Resolver       string               `yaml:"resolver,omitempty"`
	Members        []string             `yaml:"members,omitempty"`
	DefaultMembers []string             `yaml:"default-members,omitempty"`
	Exclude        []string             `yaml:"exclude,omitempty"`
	Package        *Package             `yaml:"package,omitempty"`
	Lints          *Lints               `yaml:"lints,omitempty"`
	Dependencies   Dependencies         `yaml:"dependencies,omitempty"`
	Metadata       *orderedmap.Map[any] `yaml:"metadata,omitempty"`
}

func (w Workspace) Merge(right Workspace) Workspace {
	return Workspace{
		Resolver:       merge.Value(w.Resolver, right.Resolver),
		Members:        merge.SortedSet(w.Members, right.Members),
		DefaultMembers: merge.SortedSet(w.DefaultMembers, right.DefaultMembers),
		Exclude:        merge.SortedSet(w.Exclude, right.Exclude),
		Package:        merge.Nested(w.Package, right.Package),
		Lints:          merge.Nested(w.Lints, right.Lints),
		Dependencies:   w.Dependencies.Merge(right.Dependencies),
		Metadata:       merge.Map(w.Metadata, right.Metadata),
	}
}

// Product is a [lib] table or one item of [[bin]], [[bench]], [[test]] or [[example]].
type Product struct {
	Path             string   `yaml:"path,omitempty"`
	Name             string   `yaml:"name,omitempty"`
	Edition          string   `yaml:"edition,omitempty"`
	ProcMacro        bool     `yaml:"proc-macro,omitempty"`
	CrateType        []string `yaml:"crate-type,omitempty"`
	RequiredFeatures []string `yaml:"required-features,omitempty"`
	Test             *bool    `yaml:"test,omitempty"`
	Doctest          *bool    `yaml:"doctest,omitempty"`
	Bench            *bool    `yaml:"bench,omitempty"`
	Doc              *bool    `yaml:"doc,omitempty"`
	Harness          *bool    `yaml:"harness,omitempty"`
}

func (p Product) Merge(right Product) Product {
	return Product{
		Path:             merge.Value(p.Path, right.Path),
		Name:             merge.Value(p.Name, right.Name),
		Edition:          merge.Value(p.Edition, right.Edition),
		ProcMacro:        p.ProcMacro || right.ProcMacro,
		CrateType:        merge.SortedSet(p.CrateType, right.CrateType),
		RequiredFeatures: merge.SortedSet(p.RequiredFeatures, right.RequiredFeatures),
		Test:             merge.Scalar(p.Test, right.Test),
		Doctest:          merge.Scalar(p.Doctest, right.Doctest),
		Bench:            merge.Scalar(p.Bench, right.Bench),
		Doc:              merge.Scalar(p.Doc, right.Doc),
		Harness:          merge.Scalar(p.Harness, right.Harness),
	}
}

// mergeProducts unions both lists by name and path, sorted. Products of the right side replace equal ones.
func mergeProducts(left, right []Product) []Product {
	if len(left) == 0 && len(right) == 0 {
		return nil
	}
	out := make([]Product, 0, len(left)+len(right))
	for _, p := range left {
		if !slices.ContainsFunc(right, p.sameTarget) {
			out = append(out, p)
		}
	}
	out = append(out, right...)
	slices.SortStableFunc(out, func(a, b Product) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Path, b.Path))
	})
	return out
}

func (p Product) sameTarget(other Product) bool {
	return p.Name == other.Name && p.Path == other.Path
}

// Target holds the dependencies of a [target.'cfg(...)'] table.
type Target struct {
	Dependencies      Dependencies `yaml:"dependencies,omitempty"`
	DevDependencies   Dependencies `yaml:"dev-dependencies,omitempty"`
	BuildDependencies Dependencies `yaml:"build-dependencies,omitempty"`
}

func (t Target) Merge(right Target) Target {
	return Target{
		Dependencies:      t.Dependencies.Merge(right.Dependencies),
		DevDependencies:   t.DevDependencies.Merge(right.DevDependencies),
		BuildDependencies: t.BuildDependencies.Merge(right.BuildDependencies),
	}
}

// Lints is a [lints] table. Tools other than rust, clippy and rustdoc are not modelled.
type Lints struct {
	Rust    map[string]Lint `yaml:"rust,omitempty"`
	Clippy  map[string]Lint `yaml:"clippy,omitempty"`
	Rustdoc map[string]Lint `yaml:"rustdoc,omitempty"`
}

func (l Lints) Merge(right Lints) Lints {
	return Lints{
		Rust:    merge.SortedMap(l.Rust, right.Rust),
		Clippy:  merge.SortedMap(l.Clippy, right.Clippy),
		Rustdoc: merge.SortedMap(l.Rustdoc, right.Rustdoc),
	}
}

// Lint is a level, optionally with a priority.
type Lint struct {
	Level    string `yaml:"level"`
	Priority *int   `yaml:"priority,omitempty"`
}

type plainLint Lint

func (l *Lint) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&l.Level)
	}
	return node.Decode((*plainLint)(l))
}

func (l Lint) MarshalYAML() (any, error) {
	if l.Priority == nil {
		return l.Level, nil
	}
	return plainLint(l), nil
}

func mergeRecords[V merge.Mergeable[V]](left, right map[string]V) map[string]V {
	if len(left) == 0 {
		return right
	}
	if len(right) == 0 {
		return left
	}
	out := maps.Clone(left)
	for k, r := range right {
		if l, ok := out[k]; ok {
			out[k] = l.Merge(r)
			continue
		}
		out[k] = r
	}
	return out
}

func mergePatches(left, right map[string]Dependencies) map[string]Dependencies {
	return mergeRecords(left, right)
}

func mergeProfiles(left, right map[string]*orderedmap.Map[any]) map[string]*orderedmap.Map[any] {
	if len(left) == 0 {
		return right
	}
	if len(right) == 0 {
		return left
	}
	out := maps.Clone(left)
	for k, r := range right {
		out[k] = merge.Map(out[k], r)
	}
	return out
}

func mergeFeatures(left, right map[string][]string) map[string][]string {
	if len(left) == 0 {
		return right
	}
	if len(right) == 0 {
		return left
	}
	out := maps.Clone(left)
	for k, r := range right {
		out[k] = merge.SortedSet(out[k], r)
	}
	return out
}

// Preset is a Cargo.toml preset.
type Preset = preset.Preset[Manifest]

// Store is the manifest_presets section of the rust configuration.
type Store = preset.Store[Preset]

// Ref selects a manifest preset by id or defines one inline.
type Ref = preset.Ref[Preset]
