// Package schema holds the sketch configuration file and the settings of the command line.
package schema

import (
	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/sketch/errors"
	"github.com/cloudposse/sketch/pkg/docker/compose"
	"github.com/cloudposse/sketch/pkg/filetype"
	"github.com/cloudposse/sketch/pkg/github/workflow"
	"github.com/cloudposse/sketch/pkg/gitignore"
	"github.com/cloudposse/sketch/pkg/merge"
	"github.com/cloudposse/sketch/pkg/npm"
	"github.com/cloudposse/sketch/pkg/orderedmap"
	"github.com/cloudposse/sketch/pkg/precommit"
	"github.com/cloudposse/sketch/pkg/preset"
	"github.com/cloudposse/sketch/pkg/repo"
	"github.com/cloudposse/sketch/pkg/rust"
	"github.com/cloudposse/sketch/pkg/template"
	"github.com/cloudposse/sketch/pkg/ts"
	"github.com/cloudposse/sketch/pkg/utils"
)

// Configuration is the content of a sketch.{yaml,toml,json} file, merged with the files it extends.
type Configuration struct {
	// ConfigFile is the absolute path of the file the configuration was loaded from.
	ConfigFile string `yaml:"-"`
	// Extends lists the files merged in before this one. After loading it holds every processed file.
	Extends *orderedmap.Set[string] `yaml:"extends,omitempty"`
	// Shell runs hooks and commands. The built-in interpreter is used when empty.
	Shell        string `yaml:"shell,omitempty"`
	TemplatesDir string `yaml:"templates_dir,omitempty"`
	NoOverwrite  *bool  `yaml:"no_overwrite,omitempty"`
	// Vars is the global templating context.
	Vars      *orderedmap.Map[any]    `yaml:"vars,omitempty"`
	Templates *orderedmap.Map[string] `yaml:"templates,omitempty"`

	TemplatingPresets *template.Store  `yaml:"templating_presets,omitempty"`
	GitignorePresets  *gitignore.Store `yaml:"gitignore_presets,omitempty"`
	PreCommitPresets  *precommit.Store `yaml:"pre_commit_presets,omitempty"`
	RepoPresets       *repo.Store      `yaml:"repo_presets,omitempty"`
	Typescript        ts.Config        `yaml:"typescript,omitempty"`
	Docker            compose.Config   `yaml:"docker,omitempty"`
	Rust              rust.Config      `yaml:"rust,omitempty"`
	Github            workflow.Config  `yaml:"github,omitempty"`
}

// Merge applies right on top of c. Settings set on the right win, maps are merged key by key and
// preset stores are merged by id.
func (c Configuration) Merge(right Configuration) Configuration {
	return Configuration{
		ConfigFile:        merge.Value(c.ConfigFile, right.ConfigFile),
		Extends:           merge.Set(c.Extends, right.Extends),
		Shell:             merge.Value(c.Shell, right.Shell),
		TemplatesDir:      merge.Value(c.TemplatesDir, right.TemplatesDir),
		NoOverwrite:       merge.Scalar(c.NoOverwrite, right.NoOverwrite),
		Vars:              merge.Map(c.Vars, right.Vars),
		Templates:         merge.Map(c.Templates, right.Templates),
		TemplatingPresets: merge.Map(c.TemplatingPresets, right.TemplatingPresets),
		GitignorePresets:  merge.Map(c.GitignorePresets, right.GitignorePresets),
		PreCommitPresets:  merge.Map(c.PreCommitPresets, right.PreCommitPresets),
		RepoPresets:       merge.Map(c.RepoPresets, right.RepoPresets),
		Typescript:        c.Typescript.Merge(right.Typescript),
		Docker:            c.Docker.Merge(right.Docker),
		Rust:              c.Rust.Merge(right.Rust),
		Github:            c.Github.Merge(right.Github),
	}
}

// CanOverwrite reports whether existing files may be replaced.
func (c Configuration) CanOverwrite() bool {
	return c.NoOverwrite == nil || !*c.NoOverwrite
}

// GitignorePreset returns the gitignore preset with the given id, merged with the presets it extends.
func (c Configuration) GitignorePreset(id string) (gitignore.Config, error) {
	p, err := preset.Lookup(preset.Gitignore, id, c.GitignorePresets)
	if err != nil {
		return gitignore.Config{}, err
	}
	return p.Config, nil
}

// PreCommitPreset returns the pre-commit preset with the given id, merged with the presets it extends.
func (c Configuration) PreCommitPreset(id string) (precommit.Config, error) {
	p, err := preset.Lookup(preset.PreCommit, id, c.PreCommitPresets)
	if err != nil {
		return precommit.Config{}, err
	}
	return p.Config, nil
}

// RepoStores returns the stores repo presets refer to.
func (c Configuration) RepoStores() repo.Stores {
	return repo.Stores{
		Gitignore: c.GitignorePresets,
		PreCommit: c.PreCommitPresets,
		Github:    c.Github,
	}
}

// Default is the configuration written by `sketch new`.
func Default() Configuration {
	noOverwrite := false
	return Configuration{
		NoOverwrite:      &noOverwrite,
		GitignorePresets: orderedmap.FromPairs(orderedmap.P("default", preset.Of(gitignore.Default()))),
		PreCommitPresets: orderedmap.FromPairs(orderedmap.P("default", preset.Of(precommit.Default()))),
		Typescript: ts.Config{
			PackageManager: ts.Pnpm,
			VersionRange:   npm.RangeMinor,
		},
	}
}

// Write serializes c in the format matching the extension of path.
func (c Configuration) Write(path string, overwrite bool) error {
	format, err := filetype.FormatFromPath(path)
	if err != nil {
		return err
	}
	switch format {
	case filetype.TOML:
		return utils.WriteToFileAsTOML(path, c, overwrite)
	case filetype.JSON:
		doc, err := toOrderedMap(c)
		if err != nil {
			return errUtils.NewSerializationError(path, err.Error())
		}
		return utils.WriteToFileAsJSON(path, doc, overwrite)
	default:
		return utils.WriteToFileAsYAML(path, c, overwrite)
	}
}

// toOrderedMap converts c into plain ordered values, so the JSON output keeps the YAML key names and order.
func toOrderedMap(c Configuration) (any, error) {
	var node yaml.Node
	if err := node.Encode(c); err != nil {
		return nil, err
	}
	return orderedmap.DecodeAny(&node)
}
