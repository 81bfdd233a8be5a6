package exec

import (
	"context"

	"github.com/cloudposse/sketch/pkg/hooks"
)

// ExecOptions drives `sketch exec`. The command is a template id, inline text or a file; only one is
// expected.
type ExecOptions struct {
	Command  string
	File     string
	Template string
	// Cwd defaults to the current directory and is created when missing.
	Cwd string
	// Shell overrides the configured shell.
	Shell    string
	PrintCmd bool
}

// ExecuteExecCmd renders the command with the global context and runs it.
func (e *Env) ExecuteExecCmd(ctx context.Context, opts ExecOptions) error {
	src, err := templateSource(opts.Template, opts.Command, opts.File)
	if err != nil {
		return err
	}
	r, err := e.renderer(ctx)
	if err != nil {
		return err
	}
	runner := e.hookRunner(r, opts.Cwd, opts.PrintCmd)
	if opts.Shell != "" {
		runner.Shell = opts.Shell
	}
	return runner.Run(ctx, []hooks.Hook{{Command: src}})
}
