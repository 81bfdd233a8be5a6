// Package gitignore models .gitignore presets.
package gitignore

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cloudposse/sketch/pkg/preset"
	"github.com/cloudposse/sketch/pkg/utils"
)

// FileName is the name of the generated file.
const FileName = ".gitignore"

// Config is the content of a .gitignore file. It is written either as a list of lines or as
// the entire file in a single string.
type Config struct {
	Lines []string
	Text  string
}

type plainConfig struct {
	Content yaml.Node `yaml:"content"`
}

func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		var plain plainConfig
		if err := node.Decode(&plain); err != nil {
			return err
		}
		if plain.Content.Kind == 0 {
			return nil
		}
		return c.UnmarshalYAML(&plain.Content)
	}
	if node.Kind == yaml.SequenceNode {
		return node.Decode(&c.Lines)
	}
	return node.Decode(&c.Text)
}

func (c Config) MarshalYAML() (any, error) {
	if c.Lines != nil {
		return map[string]any{"content": c.Lines}, nil
	}
	return map[string]any{"content": c.Text}, nil
}

// AsLines splits a single string content into its lines.
func (c Config) AsLines() []string {
	if c.Lines != nil {
		return c.Lines
	}
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// Merge puts the lines of the right side before the lines of the left side.
func (c Config) Merge(right Config) Config {
	lines := append(append([]string{}, right.AsLines()...), c.AsLines()...)
	return Config{Lines: lines}
}

func (c Config) String() string {
	if c.Lines != nil {
		return strings.Join(c.Lines, "\n")
	}
	return c.Text
}

// Write writes the file through the overwrite policy.
func (c Config) Write(path string, overwrite bool) error {
	return utils.WriteFile(path, []byte(c.String()), overwrite)
}

// Default returns the built-in .gitignore.
func Default() Config {
	return Config{Text: defaultContent}
}

// Preset is a .gitignore preset.
type Preset = preset.Preset[Config]

// Store is the gitignore_presets section of the configuration.
type Store = preset.Store[Preset]

// Setting is a preset id, an inline definition or a bool: false skips the file and true uses the default.
type Setting = preset.Toggle[Preset]

// Resolve returns the content selected by s, and false when the file should not be written.
func Resolve(s *Setting, store *Store) (Config, bool, error) {
	if s.IsDisabled() {
		return Config{}, false, nil
	}
	p, err := preset.ResolveToggle(preset.Gitignore, s, preset.InlinedDefinitionID, store, func() Preset {
		return preset.Of(Default())
	})
	if err != nil {
		return Config{}, false, err
	}
	return p.Config, true, nil
}

const defaultContent = `
# caches
.task
.cache

# build output
target
*.js.map
*.d.ts
*.tsbuildinfo
.out
.output
.vercel
.netlify
.wrangler
.svelte-kit
dist
build

# llm files
llms.txt
llms.md

# node modules
node_modules

# env
.env
.env.*
!.env.example
!.env.test

# temporary files
*.tmp
*.swp
*.swo
vite.config.js.timestamp-*
vite.config.ts.timestamp-*

# logs
logs/
*.log
pnpm-debug.log*

# operating system generated files
.ds_store
thumbs.db
desktop.ini

# test reports & coverage
coverage/
lcov-report/
*.lcov
.nyc_output/
`
