package exec

import (
	"context"
	"path/filepath"
	"strings"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/filetype"
	log "github.com/cloudposse/sketch/pkg/logger"
	"github.com/cloudposse/sketch/pkg/preset"
	"github.com/cloudposse/sketch/pkg/ts"
	"github.com/cloudposse/sketch/pkg/ts/oxlint"
	"github.com/cloudposse/sketch/pkg/ts/packagejson"
	"github.com/cloudposse/sketch/pkg/ts/pnpm"
	"github.com/cloudposse/sketch/pkg/ts/tsconfig"
	"github.com/cloudposse/sketch/pkg/ts/vitest"
	"github.com/cloudposse/sketch/pkg/utils"
)

// TSPackageOptions drives `sketch ts package`.
type TSPackageOptions struct {
	// Dir defaults to the current directory.
	Dir    string
	Preset string
	// Overrides are merged on top of the preset.
	Overrides ts.PackageConfig
	NoVitest  bool
	// Oxlint enables the default oxlint config when the package sets none.
	Oxlint bool
	// UpdateTSConfig lists tsconfig files that get a reference to the new package.
	UpdateTSConfig []string
	// Install runs `<package manager> install` in the package directory at the end.
	Install bool
}

// ExecuteTSPackageCmd creates a typescript package.
func (e *Env) ExecuteTSPackageCmd(ctx context.Context, opts TSPackageOptions) error {
	t := e.Config.Typescript
	var ref *ts.PackageRef
	if opts.Preset != "" {
		ref = preset.IDRef[ts.PackagePreset](opts.Preset)
	}
	cfg, err := t.ResolvePackage(ref)
	if err != nil {
		return err
	}
	cfg = cfg.Merge(opts.Overrides)
	if opts.NoVitest {
		cfg.Vitest = preset.EnabledToggle[vitest.Preset](false)
	}
	if opts.Oxlint && cfg.Oxlint == nil {
		cfg.Oxlint = preset.EnabledToggle[oxlint.Preset](true)
	}

	b := &packageBuilder{env: e, ts: t, cfg: cfg, updateTSConfig: opts.UpdateTSConfig}
	if err := b.build(ctx, opts.Dir); err != nil {
		return err
	}
	if opts.Install {
		return e.install(ctx, t.PackageManager, b.root)
	}
	return nil
}

// TSMonorepoOptions drives `sketch ts monorepo`.
type TSMonorepoOptions struct {
	// Dir defaults to the current directory.
	Dir string
	// RootPackage is a package preset id. The root defaults are used when empty.
	RootPackage string
	Overrides   ts.PackageConfig
	// Pnpm is a pnpm workspace preset id. It is only used with pnpm.
	Pnpm    string
	Oxlint  bool
	Install bool
}

// DefaultWorkspace is the pnpm workspace of a monorepo created without a pnpm preset.
func DefaultWorkspace() pnpm.Workspace {
	return pnpm.Workspace{Packages: []string{"packages/*"}}
}

// ExecuteTSMonorepoCmd creates the root package of a typescript monorepo.
func (e *Env) ExecuteTSMonorepoCmd(ctx context.Context, opts TSMonorepoOptions) error {
	t := e.Config.Typescript
	cfg := ts.RootPackage()
	if opts.RootPackage != "" {
		var err error
		if cfg, err = t.ResolvePackage(preset.IDRef[ts.PackagePreset](opts.RootPackage)); err != nil {
			return err
		}
	}
	cfg = cfg.Merge(opts.Overrides)
	if opts.Oxlint && cfg.Oxlint.IsDisabled() {
		cfg.Oxlint = preset.EnabledToggle[oxlint.Preset](true)
	}

	b := &packageBuilder{env: e, ts: t, cfg: cfg, isRoot: true}
	if t.PackageManager.OrDefault() == ts.Pnpm {
		w := DefaultWorkspace()
		if opts.Pnpm != "" {
			p, err := preset.Lookup(preset.PnpmWorkspace, opts.Pnpm, t.PnpmPresets)
			if err != nil {
				return err
			}
			w = p.Config
		}
		b.pnpm = &w
	}

	if err := b.build(ctx, opts.Dir); err != nil {
		return err
	}
	if opts.Install {
		return e.install(ctx, t.PackageManager, b.root)
	}
	return nil
}

func (e *Env) install(ctx context.Context, m ts.PackageManager, dir string) error {
	log.Debug("Installing dependencies", "package_manager", m.String(), "dir", dir)
	return e.runCommand(ctx, dir, m.String()+" install")
}

// packageBuilder writes the files of one typescript package. A monorepo root differs from a regular
// package in its tsconfig defaults, its pnpm workspace and the lack of a src directory.
type packageBuilder struct {
	env *Env
	ts  ts.Config
	cfg ts.PackageConfig

	isRoot bool
	// pnpm is the workspace written next to a monorepo root.
	pnpm           *pnpm.Workspace
	updateTSConfig []string

	root string
	name string
}

func (b *packageBuilder) build(ctx context.Context, dir string) error {
	e := b.env
	if dir == "" {
		dir = "."
	}
	root, err := utils.Absolute(dir)
	if err != nil {
		return err
	}
	b.root = root
	b.name = b.cfg.Name
	if b.name == "" {
		b.name = filepath.Base(root)
	}
	log.Debug("Creating typescript package", "name", b.name, "dir", root, "monorepo_root", b.isRoot)

	if err := e.mkdir(root); err != nil {
		return err
	}
	if err := e.RunHooks(ctx, b.cfg.HooksPre, root); err != nil {
		return err
	}

	pkg, err := b.packageJSON(ctx)
	if err != nil {
		return err
	}
	for pattern := range pkg.Workspaces.All() {
		if strings.HasPrefix(pattern, "!") {
			continue
		}
		if err := e.mkdir(filepath.Join(root, filepath.FromSlash(pnpm.GlobBase(pattern)))); err != nil {
			return err
		}
	}
	pkgPath := filepath.Join(root, PackageJSONFile)
	if err := e.write(PackageJSONFile, pkgPath, func() error {
		return utils.WriteToFileAsJSON(pkgPath, pkg, e.overwrite())
	}); err != nil {
		return err
	}

	if err := b.writeCatalog(ctx, &pkg); err != nil {
		return err
	}
	if err := b.writeTSConfigs(); err != nil {
		return err
	}
	if err := b.addReferences(); err != nil {
		return err
	}
	if !b.isRoot {
		if err := e.mkdir(filepath.Join(root, "src")); err != nil {
			return err
		}
	}
	if err := b.writeVitest(ctx); err != nil {
		return err
	}
	if err := b.writeOxlint(); err != nil {
		return err
	}
	if b.cfg.License != "" {
		if err := e.writeLicense(b.cfg.License, filepath.Join(root, LicenseFile)); err != nil {
			return err
		}
	}
	if err := e.GenerateTemplates(ctx, b.cfg.WithTemplates, root); err != nil {
		return err
	}
	return e.RunHooks(ctx, b.cfg.HooksPost, root)
}

// packageJSON resolves the package.json preset on top of the defaults, then adds the package manager,
// the name and the default dev dependencies and resolves `latest` versions.
func (b *packageBuilder) packageJSON(ctx context.Context) (packagejson.PackageJSON, error) {
	t := b.ts
	resolved, err := packagejson.Resolve(b.cfg.PackageJSON, t.PackageJSONPresets, t.People)
	if err != nil {
		return packagejson.PackageJSON{}, err
	}
	pkg := packagejson.Default().Merge(resolved)
	if pkg.PackageManager == "" {
		pkg.PackageManager = t.PackageManager.String()
	}
	pkg.Name = b.name

	if t.AddsDefaultDeps() {
		deps := []string{"typescript", "oxlint"}
		if !b.cfg.Vitest.IsDisabled() {
			deps = append(deps, "vitest")
		}
		version := "latest"
		if t.UsesCatalog() {
			version = "catalog:"
		}
		for _, dep := range deps {
			pkg.AddDevDependency(dep, version)
		}
	}

	pkg.ProcessDependencies(ctx, packagejson.ProcessOptions{
		ConvertLatest: t.ConvertsLatest(),
		FillCatalogs:  b.isRoot && t.UsesCatalog() && t.PackageManager.OrDefault() == ts.Bun,
		Range:         t.Range(),
		Registry:      b.env.Registry,
	})
	return pkg, nil
}

// writeCatalog writes the pnpm workspace of a monorepo root, or adds the catalog dependencies of a
// regular package to the workspace file found above it.
func (b *packageBuilder) writeCatalog(ctx context.Context, pkg *packagejson.PackageJSON) error {
	e := b.env
	t := b.ts
	if b.isRoot {
		if b.pnpm == nil {
			return nil
		}
		for _, dir := range b.pnpm.PackageDirs() {
			if err := e.mkdir(filepath.Join(b.root, dir)); err != nil {
				return err
			}
		}
		b.pnpm.AddDependenciesToCatalog(ctx, pkg, t.Range(), e.Registry)
		path := filepath.Join(b.root, pnpm.FileName)
		return e.write(pnpm.FileName, path, func() error {
			return utils.WriteToFileAsYAML(path, b.pnpm, e.overwrite())
		})
	}

	if !t.UsesCatalog() || t.PackageManager.OrDefault() != ts.Pnpm {
		return nil
	}
	path, ok := utils.FindUp(b.root, pnpm.FileName)
	if !ok {
		return errUtils.Build(errUtils.Errorf(errUtils.ErrWorkspaceNotFound,
			"Could not find a `%s` file while searching upwards from `%s`", pnpm.FileName, b.root)).
			WithHint("Create the package inside a pnpm monorepo or set `typescript.catalog` to false").
			Err()
	}
	w, err := pnpm.Read(path)
	if err != nil {
		return err
	}
	w.AddDependenciesToCatalog(ctx, pkg, t.Range(), e.Registry)
	return e.write(pnpm.FileName, path, func() error {
		return utils.WriteToFileAsYAML(path, w, true)
	})
}

type tsconfigFile struct {
	output string
	config tsconfig.TsConfig
}

func (b *packageBuilder) tsconfigs() ([]tsconfigFile, error) {
	if len(b.cfg.TSConfig) > 0 {
		files := make([]tsconfigFile, 0, len(b.cfg.TSConfig))
		for _, d := range b.cfg.TSConfig {
			c, err := d.Resolve("__inlined_config_"+b.name, b.ts.TSConfigPresets)
			if err != nil {
				return nil, err
			}
			files = append(files, tsconfigFile{output: d.OutputOrDefault(), config: c})
		}
		return files, nil
	}
	if b.isRoot {
		return []tsconfigFile{
			{output: tsconfig.DefaultOutput, config: tsconfig.RootEntry()},
			{output: tsconfig.OptionsFile, config: tsconfig.RootOptions()},
		}, nil
	}
	return []tsconfigFile{{output: tsconfig.DefaultOutput, config: tsconfig.PackageDefault(b.cfg.Kind.IsApp())}}, nil
}

func (b *packageBuilder) writeTSConfigs() error {
	files, err := b.tsconfigs()
	if err != nil {
		return err
	}
	for _, f := range files {
		path := filepath.Join(b.root, f.output)
		config := f.config
		if err := b.env.write(tsconfig.DefaultOutput, path, func() error {
			return utils.WriteToFileAsJSON(path, config, b.env.overwrite())
		}); err != nil {
			return err
		}
	}
	return nil
}

// addReferences adds the tsconfig.json of the package to the references of every file in
// updateTSConfig. The reference path is relative to the directory of the updated file.
func (b *packageBuilder) addReferences() error {
	target := filepath.Join(b.root, tsconfig.DefaultOutput)
	for _, file := range b.updateTSConfig {
		path, err := utils.Absolute(file)
		if err != nil {
			return err
		}
		var c tsconfig.TsConfig
		if err := filetype.DecodeFile(path, &c); err != nil {
			return err
		}
		rel, err := utils.RelativePath(filepath.Dir(path), target)
		if err != nil {
			return err
		}
		c.AddReference(rel)
		if err := b.env.write(tsconfig.DefaultOutput, path, func() error {
			return utils.WriteToFileAsJSON(path, c, true)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (b *packageBuilder) writeVitest(ctx context.Context) error {
	c, ok, err := vitest.Resolve(b.cfg.Vitest, preset.InlinedDefinitionID, b.ts.VitestPresets)
	if err != nil || !ok {
		return err
	}
	w := vitest.NewWriter(ctx, b.env.overwrite())
	w.DryRun = b.env.DryRun
	return w.Write(b.root, c)
}

func (b *packageBuilder) writeOxlint() error {
	c, ok, err := oxlint.Resolve(b.cfg.Oxlint, preset.InlinedDefinitionID, b.ts.OxlintPresets)
	if err != nil || !ok {
		return err
	}
	path := filepath.Join(b.root, oxlint.FileName)
	return b.env.write(oxlint.FileName, path, func() error {
		return utils.WriteToFileAsJSON(path, c, b.env.overwrite())
	})
}
