// Package exec holds one executor per sketch command. Executors receive the loaded configuration
// through an Env and the command's own options; they never read flags.
package exec

import (
	"context"
	"io"
	"os"

	"github.com/cloudposse/sketch/pkg/config"
	"github.com/cloudposse/sketch/pkg/hooks"
	log "github.com/cloudposse/sketch/pkg/logger"
	"github.com/cloudposse/sketch/pkg/npm"
	"github.com/cloudposse/sketch/pkg/schema"
	"github.com/cloudposse/sketch/pkg/template"
	"github.com/cloudposse/sketch/pkg/utils"
)

// Env is what every command runs with.
type Env struct {
	Config schema.Configuration
	// Vars are the --set overrides. They win over every other context layer.
	Vars map[string]any
	// Registry answers latest-version lookups for package.json and catalog processing.
	Registry npm.Registry
	// DryRun logs the files and commands a command would produce instead of producing them.
	DryRun bool

	Stdout io.Writer
	Stderr io.Writer
}

// NewEnv parses the --set values of settings and pairs them with cfg.
func NewEnv(cfg schema.Configuration, settings schema.CLISettings) (*Env, error) {
	vars, err := config.ParseSetValues(settings.Set)
	if err != nil {
		return nil, err
	}
	return &Env{
		Config:   cfg,
		Vars:     vars.Plain(),
		Registry: npm.DefaultRegistry(),
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}, nil
}

func (e *Env) overwrite() bool {
	return e.Config.CanOverwrite()
}

func (e *Env) stdout() io.Writer {
	if e.Stdout != nil {
		return e.Stdout
	}
	return os.Stdout
}

func (e *Env) stderr() io.Writer {
	if e.Stderr != nil {
		return e.Stderr
	}
	return os.Stderr
}

// renderer loads the templates directory and the inline templates of the configuration.
func (e *Env) renderer(ctx context.Context) (*template.Renderer, error) {
	r, err := template.Setup(ctx, e.Config.TemplatesDir, e.Config.Templates)
	if err != nil {
		return nil, err
	}
	r.Stdout = e.stdout()
	r.DryRun = e.DryRun
	return r, nil
}

// context layers the global vars, the default context included, under the --set overrides.
func (e *Env) context() *template.Context {
	return template.NewContext(template.GlobalVars(e.Config.Vars), e.Vars)
}

// GenerateTemplates resolves refs against the templating presets and renders them under outputRoot.
func (e *Env) GenerateTemplates(ctx context.Context, refs []template.Ref, outputRoot string) error {
	if len(refs) == 0 {
		return nil
	}
	presets, err := template.ResolveAll(refs, e.Config.TemplatingPresets)
	if err != nil {
		return err
	}
	r, err := e.renderer(ctx)
	if err != nil {
		return err
	}
	g := &template.Generator{
		Renderer:     r,
		Context:      e.context(),
		TemplatesDir: e.Config.TemplatesDir,
		Overwrite:    e.overwrite(),
	}
	return g.Generate(ctx, presets, outputRoot)
}

// RunHooks runs hooks in dir with the configured shell.
func (e *Env) RunHooks(ctx context.Context, hs []hooks.Hook, dir string) error {
	if len(hs) == 0 {
		return nil
	}
	r, err := e.renderer(ctx)
	if err != nil {
		return err
	}
	return e.hookRunner(r, dir, false).Run(ctx, hs)
}

func (e *Env) hookRunner(r *template.Renderer, dir string, printCmd bool) *hooks.Runner {
	return &hooks.Runner{
		Renderer: r,
		Context:  e.context(),
		Shell:    e.Config.Shell,
		Dir:      dir,
		PrintCmd: printCmd,
		DryRun:   e.DryRun,
		Stdout:   e.stdout(),
		Stderr:   e.stderr(),
	}
}

// runCommand runs a fixed command line in dir, the way hooks run.
func (e *Env) runCommand(ctx context.Context, dir, command string) error {
	r := template.NewRenderer(ctx)
	return e.hookRunner(r, dir, false).Run(ctx, []hooks.Hook{hooks.Inline("__command", command)})
}

// write calls fn unless the run is dry. what names the artifact in the logs.
func (e *Env) write(what, path string, fn func() error) error {
	if e.DryRun {
		log.Info("Would write file", "file", what, "path", path)
		return nil
	}
	log.Debug("Writing file", "file", what, "path", path)
	return fn()
}

// mkdir creates dir and its parents unless the run is dry.
func (e *Env) mkdir(dir string) error {
	if e.DryRun {
		log.Info("Would create directory", "path", dir)
		return nil
	}
	return utils.EnsureDir(dir)
}
