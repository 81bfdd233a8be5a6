package cargo

import (
	"maps"
	"slices"

	log "github.com/cloudposse/sketch/pkg/logger"
	"github.com/cloudposse/sketch/pkg/orderedmap"
	"github.com/cloudposse/sketch/pkg/utils"
)

// Profiles with a fixed position. Custom profiles follow them in name order.
var builtinProfiles = []string{"dev", "test", "bench", "release"}

// Document returns the TOML document of m. Sections are written in this order: workspace, package,
// lib, profile, target, bin, bench, test, example, lints, dev-dependencies, build-dependencies,
// dependencies, patch, features and then unknown keys.
func (m Manifest) Document() *Table {
	doc := NewTable()
	if m.Workspace != nil {
		doc.Set("workspace", m.Workspace.table())
	}
	if m.Package != nil {
		doc.Set("package", m.Package.table())
	}
	if m.Lib != nil {
		doc.Set("lib", m.Lib.table())
	}
	if len(m.Profile) > 0 {
		doc.Set("profile", profilesTable(m.Profile))
	}
	if len(m.Target) > 0 {
		targets := &Table{Implicit: true}
		for _, name := range slices.Sorted(maps.Keys(m.Target)) {
			targets.Set(name, m.Target[name].table())
		}
		doc.Set("target", targets)
	}
	for _, products := range []struct {
		key  string
		list []Product
	}{{"bin", m.Bin}, {"bench", m.Bench}, {"test", m.Test}, {"example", m.Example}} {
		if len(products.list) == 0 {
			continue
		}
		tables := make(ArrayOfTables, len(products.list))
		for i, p := range products.list {
			tables[i] = p.table()
		}
		doc.Set(products.key, tables)
	}
	if m.Lints != nil {
		if m.Lints.Workspace {
			doc.Set("lints", NewTable().Set("workspace", true))
		} else {
			doc.Set("lints", m.Lints.Value.table())
		}
	}
	setDependencies(doc, "dev-dependencies", m.DevDependencies)
	setDependencies(doc, "build-dependencies", m.BuildDependencies)
	setDependencies(doc, "dependencies", m.Dependencies)
	if len(m.Patch) > 0 {
		patches := &Table{Implicit: true}
		for _, registry := range slices.Sorted(maps.Keys(m.Patch)) {
			patches.Set(registry, m.Patch[registry].table())
		}
		doc.Set("patch", patches)
	}
	if len(m.Features) > 0 {
		features := NewTable()
		for _, name := range slices.Sorted(maps.Keys(m.Features)) {
			features.Set(name, FromValue(m.Features[name]))
		}
		doc.Set("features", features)
	}
	for k, v := range m.Extras.All() {
		if doc.values[k] != nil {
			continue
		}
		value := FromValue(v)
		if t, ok := value.(*Table); ok {
			t.Inline = false
		}
		doc.Set(k, value)
	}
	return doc
}

// Encode renders m as the content of a Cargo.toml file.
func (m Manifest) Encode() string {
	return Encode(m.Document())
}

// Write writes m to path through the overwrite policy.
func (m Manifest) Write(path string, overwrite bool) error {
	log.Debug("Writing cargo manifest", "path", path)
	return utils.WriteFile(path, []byte(m.Encode()), overwrite)
}

func setDependencies(t *Table, key string, deps Dependencies) {
	if len(deps) > 0 {
		t.Set(key, deps.table())
	}
}

func (w Workspace) table() *Table {
	t := NewTable()
	if w.Resolver != "" {
		t.Set("resolver", w.Resolver)
	}
	t.Set("members", list(w.Members))
	t.Set("default-members", list(w.DefaultMembers))
	t.Set("exclude", list(w.Exclude))
	if w.Package != nil {
		t.Set("package", w.Package.table())
	}
	if w.Lints != nil {
		t.Set("lints", w.Lints.table())
	}
	if w.Metadata.Len() > 0 {
		t.Set("metadata", standard(w.Metadata))
	}
	if len(w.Dependencies) > 0 {
		t.Set("dependencies", w.Dependencies.table())
	}
	return t
}

func (p Package) table() *Table {
	t := NewTable()
	if p.Name != "" {
		t.Set("name", p.Name)
	}
	t.Set("version", inheritableValue(p.Version, text))
	t.Set("edition", inheritableValue(p.Edition, text))
	t.Set("rust-version", inheritableValue(p.RustVersion, text))
	t.Set("authors", inheritableValue(p.Authors, list))
	t.Set("description", inheritableValue(p.Description, text))
	t.Set("documentation", inheritableValue(p.Documentation, text))
	t.Set("readme", inheritableValue(p.Readme, text))
	t.Set("homepage", inheritableValue(p.Homepage, text))
	t.Set("repository", inheritableValue(p.Repository, text))
	t.Set("license", inheritableValue(p.License, text))
	t.Set("license-file", inheritableValue(p.LicenseFile, text))
	t.Set("keywords", inheritableValue(p.Keywords, list))
	t.Set("categories", inheritableValue(p.Categories, list))
	t.Set("exclude", inheritableValue(p.Exclude, list))
	t.Set("include", inheritableValue(p.Include, list))
	t.Set("publish", inheritableValue(p.Publish, Publish.value))
	t.Set("workspace", text(p.Workspace))
	t.Set("build", text(p.Build))
	t.Set("links", text(p.Links))
	t.Set("default-run", text(p.DefaultRun))
	t.Set("autobins", flag(p.Autobins))
	t.Set("autoexamples", flag(p.Autoexamples))
	t.Set("autotests", flag(p.Autotests))
	t.Set("autobenches", flag(p.Autobenches))
	t.Set("autolib", flag(p.Autolib))
	t.Set("resolver", text(p.Resolver))
	if p.Metadata.Len() > 0 {
		t.Set("metadata", standard(p.Metadata))
	}
	return t
}

func (p Publish) value() any {
	if p.Registries != nil {
		return FromValue(p.Registries)
	}
	return flag(p.Allowed)
}

// table writes the flags of p only when they turn a default off.
func (p Product) table() *Table {
	t := NewTable()
	t.Set("path", text(p.Path))
	t.Set("name", text(p.Name))
	t.Set("edition", text(p.Edition))
	if p.ProcMacro {
		t.Set("proc-macro", true)
	}
	t.Set("crate-type", list(p.CrateType))
	t.Set("required-features", list(p.RequiredFeatures))
	for _, f := range []struct {
		key   string
		value *bool
	}{{"test", p.Test}, {"doctest", p.Doctest}, {"bench", p.Bench}, {"doc", p.Doc}, {"harness", p.Harness}} {
		if f.value != nil && !*f.value {
			t.Set(f.key, false)
		}
	}
	return t
}

func (t Target) table() *Table {
	out := &Table{Implicit: true}
	setDependencies(out, "dependencies", t.Dependencies)
	setDependencies(out, "dev-dependencies", t.DevDependencies)
	setDependencies(out, "build-dependencies", t.BuildDependencies)
	return out
}

func (l Lints) table() *Table {
	t := &Table{Implicit: true}
	for _, tool := range []struct {
		key   string
		lints map[string]Lint
	}{{"rust", l.Rust}, {"clippy", l.Clippy}, {"rustdoc", l.Rustdoc}} {
		if len(tool.lints) == 0 {
			continue
		}
		lints := NewTable()
		for _, name := range slices.Sorted(maps.Keys(tool.lints)) {
			lints.Set(name, tool.lints[name].value())
		}
		t.Set(tool.key, lints)
	}
	return t
}

func (l Lint) value() any {
	if l.Priority == nil {
		return l.Level
	}
	return NewInlineTable().Set("level", l.Level).Set("priority", int64(*l.Priority))
}

func profilesTable(profiles map[string]*orderedmap.Map[any]) *Table {
	t := &Table{Implicit: true}
	names := slices.Clone(builtinProfiles)
	for _, name := range slices.Sorted(maps.Keys(profiles)) {
		if !slices.Contains(builtinProfiles, name) {
			names = append(names, name)
		}
	}
	for _, name := range names {
		if settings, ok := profiles[name]; ok {
			t.Set(name, standard(settings))
		}
	}
	return t
}

// standard converts a free-form map into a standard table, whatever its size.
func standard(m *orderedmap.Map[any]) *Table {
	t := mapToTable(m)
	t.Inline = false
	t.Implicit = false
	return t
}

func inheritableValue[T any](i *Inheritable[T], value func(T) any) any {
	if i == nil {
		return nil
	}
	if i.Workspace {
		return NewInlineTable().Set("workspace", true)
	}
	return value(i.Value)
}

func text(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func list(items []string) any {
	if len(items) == 0 {
		return nil
	}
	return FromValue(items)
}

func flag(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}
