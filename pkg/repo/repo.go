// Package repo models repository presets: the files written into a new git repository and the hooks run around them.
package repo

import (
	"path/filepath"
	"slices"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/github/workflow"
	"github.com/cloudposse/sketch/pkg/gitignore"
	"github.com/cloudposse/sketch/pkg/hooks"
	"github.com/cloudposse/sketch/pkg/license"
	"github.com/cloudposse/sketch/pkg/merge"
	"github.com/cloudposse/sketch/pkg/orderedmap"
	"github.com/cloudposse/sketch/pkg/precommit"
	"github.com/cloudposse/sketch/pkg/preset"
	"github.com/cloudposse/sketch/pkg/template"
)

// Config describes a new repository. Unset gitignore and pre-commit settings select their defaults.
type Config struct {
	Gitignore *gitignore.Setting `yaml:"gitignore,omitempty"`
	PreCommit *precommit.Setting `yaml:"pre_commit,omitempty"`
	License   license.License    `yaml:"license,omitempty"`
	// Workflows are written to .github/workflows/<file_name>.
	Workflows     []Workflow     `yaml:"workflows,omitempty"`
	WithTemplates []template.Ref `yaml:"with_templates,omitempty"`
	HooksPre      []hooks.Hook   `yaml:"hooks_pre,omitempty"`
	HooksPost     []hooks.Hook   `yaml:"hooks_post,omitempty"`
}

// Workflow is a workflow preset, by id or inline, and the file it is written to.
type Workflow struct {
	FileName string        `yaml:"file_name"`
	Workflow *workflow.Ref `yaml:"workflow"`
}

// Merge overrides the settings set on the right. Workflows are replaced by file name; templates
// and hooks are appended.
func (c Config) Merge(right Config) Config {
	return Config{
		Gitignore:     merge.Scalar(c.Gitignore, right.Gitignore),
		PreCommit:     merge.Scalar(c.PreCommit, right.PreCommit),
		License:       merge.Value(c.License, right.License),
		Workflows:     mergeWorkflows(c.Workflows, right.Workflows),
		WithTemplates: slices.Concat(c.WithTemplates, right.WithTemplates),
		HooksPre:      slices.Concat(c.HooksPre, right.HooksPre),
		HooksPost:     slices.Concat(c.HooksPost, right.HooksPost),
	}
}

func mergeWorkflows(left, right []Workflow) []Workflow {
	if len(right) == 0 {
		return left
	}
	byFile := orderedmap.New[Workflow]()
	for _, w := range slices.Concat(left, right) {
		byFile.Set(w.FileName, w)
	}
	out := make([]Workflow, 0, byFile.Len())
	for _, w := range byFile.All() {
		out = append(out, w)
	}
	return out
}

// Preset is a repo preset.
type Preset = preset.Preset[Config]

// Store is the repo_presets section of the configuration.
type Store = preset.Store[Preset]

// Lookup returns the repo preset with the given id merged with the presets it extends.
// An empty id selects the zero config.
func Lookup(id string, store *Store) (Config, error) {
	if id == "" {
		return Config{}, nil
	}
	p, err := preset.Lookup(preset.Repo, id, store)
	if err != nil {
		return Config{}, err
	}
	return p.Config, nil
}

// Stores are the preset stores a repo config refers to.
type Stores struct {
	Gitignore *gitignore.Store
	PreCommit *precommit.Store
	Github    workflow.Config
}

// File is a resolved workflow and the path it is written to, relative to the repository root.
type File struct {
	Path     string
	Workflow workflow.Workflow
}

// Repo is a repo config with every reference resolved.
type Repo struct {
	Gitignore     *gitignore.Config
	PreCommit     *precommit.Config
	License       license.License
	Workflows     []File
	WithTemplates []template.Ref
	HooksPre      []hooks.Hook
	HooksPost     []hooks.Hook
}

// Resolve resolves the gitignore, pre-commit and workflow references of c.
func (c Config) Resolve(stores Stores) (Repo, error) {
	out := Repo{
		License:       c.License,
		WithTemplates: c.WithTemplates,
		HooksPre:      c.HooksPre,
		HooksPost:     c.HooksPost,
	}

	ignore, ok, err := gitignore.Resolve(orDefault(c.Gitignore), stores.Gitignore)
	if err != nil {
		return Repo{}, err
	}
	if ok {
		out.Gitignore = &ignore
	}

	preCommit, ok, err := precommit.Resolve(orDefault(c.PreCommit), stores.PreCommit)
	if err != nil {
		return Repo{}, err
	}
	if ok {
		out.PreCommit = &preCommit
	}

	for _, w := range c.Workflows {
		if w.FileName == "" {
			return Repo{}, errUtils.Errorf(errUtils.ErrUnsupportedValue, "a repo workflow is missing its `file_name`")
		}
		resolved, err := stores.Github.ResolveRef(w.Workflow)
		if err != nil {
			return Repo{}, err
		}
		out.Workflows = append(out.Workflows, File{
			Path:     filepath.Join(workflow.Dir, w.FileName),
			Workflow: resolved,
		})
	}
	return out, nil
}

func orDefault[T any](t *preset.Toggle[T]) *preset.Toggle[T] {
	if t == nil {
		return preset.EnabledToggle[T](true)
	}
	return t
}
