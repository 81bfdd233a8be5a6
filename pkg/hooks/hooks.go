// Package hooks renders shell commands through the template engine and runs them in order.
package hooks

import (
	"context"
	"fmt"
	"io"
	"os"

	log "github.com/cloudposse/sketch/pkg/logger"
	"github.com/cloudposse/sketch/pkg/template"
	"github.com/cloudposse/sketch/pkg/utils"
)

// Runner executes hooks sequentially in a working directory.
type Runner struct {
	Renderer *template.Renderer
	Context  *template.Context
	// Shell runs the commands with `-c`. When empty, commands run in the built-in interpreter.
	Shell string
	// Dir is created if missing before the first command runs.
	Dir string
	// PrintCmd prints every rendered command before running it.
	PrintCmd bool
	// DryRun renders and logs the commands without running them.
	DryRun bool

	Stdout io.Writer
	Stderr io.Writer
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

// Render returns the command of h rendered with its local context.
func (r *Runner) Render(h Hook) (string, error) {
	name := h.Command.TemplateName()
	if h.Command.IsInline() {
		if err := r.Renderer.Add(name, h.Command.Content); err != nil {
			return "", err
		}
	}
	return r.Renderer.Render(name, r.Context.ApplyLocal(h.Context.Plain()))
}

// Run renders and executes each hook, stopping at the first failure.
func (r *Runner) Run(ctx context.Context, hooks []Hook) error {
	if len(hooks) == 0 {
		return nil
	}
	if !r.DryRun && r.Dir != "" {
		if err := utils.EnsureDir(r.Dir); err != nil {
			return err
		}
	}
	defer r.Context.ApplyLocal(nil)

	for _, h := range hooks {
		command, err := r.Render(h)
		if err != nil {
			return err
		}

		if r.PrintCmd {
			fmt.Fprintln(r.stdout(), "Rendered command:")
			fmt.Fprintln(r.stdout(), command)
		}
		if r.DryRun {
			log.Info("Would run command", "command", command, "dir", r.Dir)
			continue
		}

		log.Debug("Running command", "command", command, "shell", r.Shell, "dir", r.Dir)
		if r.Shell == "" {
			err = shellRunner(ctx, command, r.Dir, r.stdout(), r.stderr())
		} else {
			err = shellCommand(ctx, r.Shell, command, r.Dir, r.stdout(), r.stderr())
		}
		if err != nil {
			return err
		}
	}
	return nil
}
