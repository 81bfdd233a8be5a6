// Package precommit models .pre-commit-config.yaml files and their presets.
package precommit

import (
	"cmp"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/cloudposse/sketch/pkg/merge"
	"github.com/cloudposse/sketch/pkg/orderedmap"
	"github.com/cloudposse/sketch/pkg/preset"
)

// FileName is the file pre-commit reads its configuration from.
const FileName = ".pre-commit-config.yaml"

// GitleaksRepo is the repo included in the default configuration.
var GitleaksRepo = Repo{
	Repo:  "https://github.com/gitleaks/gitleaks",
	Rev:   "v8.28.0",
	Hooks: []Hook{{ID: "gitleaks"}},
}

// Config is the content of a .pre-commit-config.yaml file.
type Config struct {
	MinimumPreCommitVersion string               `yaml:"minimum_pre_commit_version,omitempty"`
	DefaultInstallHookTypes []string             `yaml:"default_install_hook_types,omitempty"`
	DefaultLanguageVersion  map[string]string    `yaml:"default_language_version,omitempty"`
	DefaultStages           []string             `yaml:"default_stages,omitempty"`
	Files                   string               `yaml:"files,omitempty"`
	Exclude                 string               `yaml:"exclude,omitempty"`
	FailFast                *bool                `yaml:"fail_fast,omitempty"`
	CI                      *orderedmap.Map[any] `yaml:"ci,omitempty"`
	Repos                   []Repo               `yaml:"repos,omitempty"`
	Extras                  *orderedmap.Map[any] `yaml:"-"`
}

type plainConfig Config

// Repo is a remote repo, or the `local` and `meta` pseudo repos.
type Repo struct {
	Repo  string `yaml:"repo"`
	Rev   string `yaml:"rev,omitempty"`
	Hooks []Hook `yaml:"hooks,omitempty"`
}

// Hook selects a hook of a repo and overrides its settings.
type Hook struct {
	ID                      string               `yaml:"id"`
	Name                    string               `yaml:"name,omitempty"`
	Alias                   string               `yaml:"alias,omitempty"`
	Description             string               `yaml:"description,omitempty"`
	Entry                   string               `yaml:"entry,omitempty"`
	Language                string               `yaml:"language,omitempty"`
	LanguageVersion         string               `yaml:"language_version,omitempty"`
	Files                   string               `yaml:"files,omitempty"`
	Exclude                 string               `yaml:"exclude,omitempty"`
	Types                   []string             `yaml:"types,omitempty"`
	TypesOr                 []string             `yaml:"types_or,omitempty"`
	ExcludeTypes            []string             `yaml:"exclude_types,omitempty"`
	Args                    []string             `yaml:"args,omitempty"`
	Stages                  []string             `yaml:"stages,omitempty"`
	AdditionalDependencies  []string             `yaml:"additional_dependencies,omitempty"`
	AlwaysRun               *bool                `yaml:"always_run,omitempty"`
	PassFilenames           *bool                `yaml:"pass_filenames,omitempty"`
	RequireSerial           *bool                `yaml:"require_serial,omitempty"`
	Verbose                 *bool                `yaml:"verbose,omitempty"`
	LogFile                 string               `yaml:"log_file,omitempty"`
	MinimumPreCommitVersion string               `yaml:"minimum_pre_commit_version,omitempty"`
	Extras                  *orderedmap.Map[any] `yaml:"-"`
}

type plainHook Hook

func (h *Hook) UnmarshalYAML(node *yaml.Node) error {
	extras, err := orderedmap.DecodeStruct(node, (*plainHook)(h))
	if err != nil {
		return err
	}
	h.Extras = extras
	return nil
}

func (h Hook) MarshalYAML() (any, error) {
	return orderedmap.FromStruct(h, h.Extras), nil
}

// Default returns a configuration that runs gitleaks.
func Default() Config {
	return Config{Repos: []Repo{GitleaksRepo}}
}

func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	extras, err := orderedmap.DecodeStruct(node, (*plainConfig)(c))
	if err != nil {
		return err
	}
	c.Extras = extras
	return nil
}

func (c Config) MarshalYAML() (any, error) {
	return orderedmap.FromStruct(c, c.Extras), nil
}

func (c Config) Merge(right Config) Config {
	return Config{
		MinimumPreCommitVersion: merge.Value(c.MinimumPreCommitVersion, right.MinimumPreCommitVersion),
		DefaultInstallHookTypes: merge.SortedSet(c.DefaultInstallHookTypes, right.DefaultInstallHookTypes),
		DefaultLanguageVersion:  merge.SortedMap(c.DefaultLanguageVersion, right.DefaultLanguageVersion),
		DefaultStages:           merge.SortedSet(c.DefaultStages, right.DefaultStages),
		Files:                   merge.Value(c.Files, right.Files),
		Exclude:                 merge.Value(c.Exclude, right.Exclude),
		FailFast:                merge.Scalar(c.FailFast, right.FailFast),
		CI:                      merge.Map(c.CI, right.CI),
		Repos:                   mergeRepos(c.Repos, right.Repos),
		Extras:                  merge.Map(c.Extras, right.Extras),
	}
}

// mergeRepos unions the repos of both sides, sorted by url and revision.
// A repo of the right side replaces one of the left side with the same url and revision.
func mergeRepos(left, right []Repo) []Repo {
	if len(left) == 0 && len(right) == 0 {
		return nil
	}
	out := make([]Repo, 0, len(left)+len(right))
	for _, r := range left {
		if !slices.ContainsFunc(right, r.sameVersion) {
			out = append(out, r)
		}
	}
	out = append(out, right...)
	slices.SortStableFunc(out, func(a, b Repo) int {
		return cmp.Or(cmp.Compare(a.Repo, b.Repo), cmp.Compare(a.Rev, b.Rev))
	})
	return out
}

func (r Repo) sameVersion(other Repo) bool {
	return r.Repo == other.Repo && r.Rev == other.Rev
}

// Preset is a pre-commit preset.
type Preset = preset.Preset[Config]

// Store is the pre_commit_presets section of the configuration.
type Store = preset.Store[Preset]

// Setting is a preset id, an inline preset or a bool: false skips pre-commit and true uses the default.
type Setting = preset.Toggle[Preset]

// Resolve returns the configuration selected by s, and false when pre-commit is disabled.
func Resolve(s *Setting, store *Store) (Config, bool, error) {
	if s.IsDisabled() {
		return Config{}, false, nil
	}
	p, err := preset.ResolveToggle(preset.PreCommit, s, preset.InlinedDefinitionID, store, func() Preset {
		return preset.Of(Default())
	})
	if err != nil {
		return Config{}, false, err
	}
	return p.Config, true, nil
}
