package exec

import (
	"context"
	"path/filepath"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/gitignore"
	log "github.com/cloudposse/sketch/pkg/logger"
	"github.com/cloudposse/sketch/pkg/preset"
	"github.com/cloudposse/sketch/pkg/rust"
	"github.com/cloudposse/sketch/pkg/rust/cargo"
	"github.com/cloudposse/sketch/pkg/utils"
)

// RustCrateOptions drives `sketch rust crate`.
type RustCrateOptions struct {
	Dir    string
	Preset string
	// Manifest replaces the manifest of the preset with a manifest preset id.
	Manifest string
	// Name defaults to the name of the crate directory.
	Name      string
	Overrides rust.CrateConfig
}

// ExecuteRustCrateCmd creates a crate in a new directory. When the parent directory holds a workspace
// manifest, the crate is added to its members and inherits its package fields.
func (e *Env) ExecuteRustCrateCmd(ctx context.Context, opts RustCrateOptions) error {
	r := e.Config.Rust
	cfg, err := r.LookupCrate(opts.Preset)
	if err != nil {
		return err
	}
	cfg = cfg.Merge(opts.Overrides)
	if opts.Manifest != "" {
		cfg.Manifest = preset.IDRef[cargo.Preset](opts.Manifest)
	}
	crate, err := r.ResolveCrate(cfg, e.Config.GitignorePresets)
	if err != nil {
		return err
	}

	dir, err := utils.Absolute(opts.Dir)
	if err != nil {
		return err
	}
	if utils.PathExists(dir) {
		return errUtils.Build(errUtils.Errorf(errUtils.ErrDirExists, "The directory `%s` already exists", dir)).
			WithHint("Choose a new directory for the crate").
			Err()
	}
	if err := e.mkdir(dir); err != nil {
		return err
	}

	manifest := crate.Manifest
	name := opts.Name
	if name == "" {
		name = filepath.Base(dir)
	}
	pkg := cargo.Package{}
	if manifest.Package != nil {
		pkg = *manifest.Package
	}
	pkg.Name = name
	manifest.Package = &pkg

	if err := e.joinWorkspace(dir, &manifest); err != nil {
		return err
	}

	manifestPath := filepath.Join(dir, cargo.FileName)
	if err := e.write(cargo.FileName, manifestPath, func() error {
		return manifest.Write(manifestPath, e.overwrite())
	}); err != nil {
		return err
	}

	if crate.Gitignore != nil {
		path := filepath.Join(dir, gitignore.FileName)
		if err := e.write(gitignore.FileName, path, func() error {
			return crate.Gitignore.Write(path, e.overwrite())
		}); err != nil {
			return err
		}
	}

	if crate.License != "" {
		if err := e.writeLicense(crate.License, filepath.Join(dir, LicenseFile)); err != nil {
			return err
		}
	}

	return e.GenerateTemplates(ctx, crate.WithTemplates, dir)
}

// joinWorkspace adds the crate in dir to the workspace manifest of its parent directory, if any.
// A crate whose own manifest declares a workspace stays out of the parent one.
func (e *Env) joinWorkspace(dir string, manifest *cargo.Manifest) error {
	workspace := filepath.Join(filepath.Dir(dir), cargo.FileName)
	if !utils.FileExists(workspace) {
		return nil
	}
	if manifest.Workspace != nil {
		log.Debug("The crate declares its own workspace", "manifest", workspace)
		return nil
	}
	if e.DryRun {
		log.Info("Would add the crate to the workspace", "manifest", workspace, "member", filepath.Base(dir))
		return nil
	}
	joined, err := cargo.JoinWorkspace(workspace, filepath.Base(dir), manifest)
	if err != nil {
		return err
	}
	if !joined {
		log.Debug("The parent manifest has no workspace table", "manifest", workspace)
	}
	return nil
}

// ExecuteRustManifestCmd writes the manifest preset id to output, Cargo.toml by default.
func (e *Env) ExecuteRustManifestCmd(id, output string) error {
	manifest, err := e.Config.Rust.LookupManifest(id)
	if err != nil {
		return err
	}
	if output == "" {
		output = cargo.FileName
	}
	return e.write(cargo.FileName, output, func() error {
		return manifest.Write(output, e.overwrite())
	})
}
