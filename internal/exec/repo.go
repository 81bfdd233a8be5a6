package exec

import (
	"context"
	"path/filepath"

	"github.com/cloudposse/sketch/pkg/git"
	"github.com/cloudposse/sketch/pkg/gitignore"
	log "github.com/cloudposse/sketch/pkg/logger"
	"github.com/cloudposse/sketch/pkg/precommit"
	"github.com/cloudposse/sketch/pkg/repo"
	"github.com/cloudposse/sketch/pkg/utils"
)

// RepoOptions drives `sketch repo`.
type RepoOptions struct {
	// Dir defaults to the current directory.
	Dir    string
	Preset string
	// Remote is added as origin when set.
	Remote string
	// Overrides are merged on top of the preset.
	Overrides repo.Config
}

// ExecuteRepoCmd initializes a git repository with the files of a repo preset.
func (e *Env) ExecuteRepoCmd(ctx context.Context, opts RepoOptions) error {
	cfg, err := repo.Lookup(opts.Preset, e.Config.RepoPresets)
	if err != nil {
		return err
	}
	resolved, err := cfg.Merge(opts.Overrides).Resolve(e.Config.RepoStores())
	if err != nil {
		return err
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	if dir, err = utils.Absolute(dir); err != nil {
		return err
	}
	if err := e.mkdir(dir); err != nil {
		return err
	}

	if err := e.RunHooks(ctx, resolved.HooksPre, dir); err != nil {
		return err
	}

	if resolved.Gitignore != nil {
		path := filepath.Join(dir, gitignore.FileName)
		if err := e.write(gitignore.FileName, path, func() error {
			return resolved.Gitignore.Write(path, e.overwrite())
		}); err != nil {
			return err
		}
	}

	if err := e.initGit(dir, opts.Remote); err != nil {
		return err
	}

	if resolved.PreCommit != nil {
		path := filepath.Join(dir, precommit.FileName)
		if err := e.write(precommit.FileName, path, func() error {
			return utils.WriteToFileAsYAML(path, resolved.PreCommit, e.overwrite())
		}); err != nil {
			return err
		}
		if err := e.runCommand(ctx, dir, "pre-commit install"); err != nil {
			return err
		}
	}

	if resolved.License != "" {
		if err := e.writeLicense(resolved.License, filepath.Join(dir, LicenseFile)); err != nil {
			return err
		}
	}

	for _, f := range resolved.Workflows {
		path := filepath.Join(dir, f.Path)
		w := f.Workflow
		if err := e.write("github workflow", path, func() error {
			return w.Write(path, e.overwrite())
		}); err != nil {
			return err
		}
	}

	if err := e.GenerateTemplates(ctx, resolved.WithTemplates, dir); err != nil {
		return err
	}
	return e.RunHooks(ctx, resolved.HooksPost, dir)
}

func (e *Env) initGit(dir, remote string) error {
	if e.DryRun {
		log.Info("Would initialize a git repository", "dir", dir, "remote", remote)
		return nil
	}
	return git.InitWithRemote(dir, remote)
}
