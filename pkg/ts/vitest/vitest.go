// Package vitest writes the vitest setup of a TypeScript package.
package vitest

import (
	"context"
	"embed"
	"path/filepath"

	errUtils "github.com/cloudposse/sketch/errors"
	log "github.com/cloudposse/sketch/pkg/logger"
	"github.com/cloudposse/sketch/pkg/merge"
	"github.com/cloudposse/sketch/pkg/preset"
	"github.com/cloudposse/sketch/pkg/template"
	"github.com/cloudposse/sketch/pkg/utils"
)

//go:embed templates
var templates embed.FS

const (
	configTemplate = "templates/vitest.config.ts.tmpl"
	setupTemplate  = "templates/tests_setup.ts.tmpl"

	// ConfigFile is the name of the generated vitest config.
	ConfigFile = "vitest.config.ts"
	// SetupFile is the name of the generated setup file.
	SetupFile = "tests_setup.ts"
)

// Config describes a vitest setup. Paths are relative to the package root.
type Config struct {
	// TestsDir defaults to `tests`.
	TestsDir string `yaml:"tests_dir,omitempty"`
	// SetupDir is relative to TestsDir and defaults to `setup`.
	SetupDir string `yaml:"setup_dir,omitempty"`
	// OutDir receives the config file. It defaults to TestsDir.
	OutDir  string   `yaml:"out_dir,omitempty"`
	Plugins []string `yaml:"plugins,omitempty"`
}

func (c Config) Merge(right Config) Config {
	return Config{
		TestsDir: merge.Value(c.TestsDir, right.TestsDir),
		SetupDir: merge.Value(c.SetupDir, right.SetupDir),
		OutDir:   merge.Value(c.OutDir, right.OutDir),
		Plugins:  merge.SortedSet(c.Plugins, right.Plugins),
	}
}

func (c Config) withDefaults() Config {
	return Config{TestsDir: "tests", SetupDir: "setup"}.Merge(c)
}

// Preset is a vitest preset.
type Preset = preset.Preset[Config]

// Store is the vitest_presets section of the configuration.
type Store = preset.Store[Preset]

// Setting is true for the default setup, false to skip it, an id or an inline preset.
type Setting = preset.Toggle[Preset]

// Resolve returns the setup selected by s and whether it is enabled.
func Resolve(s *Setting, syntheticID string, store *Store) (Config, bool, error) {
	if s.IsDisabled() {
		return Config{}, false, nil
	}
	p, err := preset.ResolveToggle(preset.Vitest, s, syntheticID, store, func() Preset {
		return preset.Of(Config{})
	})
	if err != nil {
		return Config{}, false, err
	}
	return p.Config.withDefaults(), true, nil
}

// Writer renders the vitest files of a package.
type Writer struct {
	Renderer  *template.Renderer
	Overwrite bool
	DryRun    bool
}

// NewWriter returns a writer with its own renderer.
func NewWriter(ctx context.Context, overwrite bool) *Writer {
	return &Writer{Renderer: template.NewRenderer(ctx), Overwrite: overwrite}
}

// Write creates the tests and setup directories under pkgRoot and renders the config and setup files.
func (w *Writer) Write(pkgRoot string, c Config) error {
	c = c.withDefaults()
	testsDir := filepath.Join(pkgRoot, c.TestsDir)
	setupDir := filepath.Join(testsDir, c.SetupDir)
	configDir := testsDir
	if c.OutDir != "" {
		configDir = filepath.Join(pkgRoot, c.OutDir)
	}

	setupRel, err := utils.RelativePath(configDir, setupDir)
	if err != nil {
		return err
	}
	srcRel, err := utils.RelativePath(configDir, filepath.Join(pkgRoot, "src"))
	if err != nil {
		return err
	}

	plugins := c.Plugins
	if plugins == nil {
		plugins = []string{}
	}
	vars := map[string]any{
		"config": map[string]any{
			"tests_dir": c.TestsDir,
			"setup_dir": setupRel,
			"out_dir":   c.OutDir,
			"plugins":   plugins,
		},
		"src_rel_path": srcRel,
	}

	if w.DryRun {
		log.Info("Would write the vitest setup", "config", filepath.Join(configDir, ConfigFile))
		return nil
	}
	if err := utils.EnsureDir(setupDir); err != nil {
		return err
	}
	if err := w.render(configTemplate, vars, filepath.Join(configDir, ConfigFile), w.Overwrite); err != nil {
		return err
	}
	return w.render(setupTemplate, vars, filepath.Join(setupDir, SetupFile), true)
}

func (w *Writer) render(name string, vars map[string]any, output string, overwrite bool) error {
	body, err := templates.ReadFile(name)
	if err != nil {
		return errUtils.NewReadError(name, err)
	}
	if err := w.Renderer.Add(name, string(body)); err != nil {
		return err
	}
	return w.Renderer.RenderToPath(name, vars, output, overwrite)
}
