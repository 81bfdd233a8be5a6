package hooks

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	errUtils "github.com/cloudposse/sketch/errors"
)

// DefaultShell is the shell of the platform, used when a command names no shell.
func DefaultShell() string {
	if runtime.GOOS == "windows" {
		return "cmd.exe"
	}
	return "sh"
}

func shellArg(shell string) string {
	if strings.EqualFold(shell, "cmd.exe") || strings.EqualFold(shell, "cmd") {
		return "/C"
	}
	return "-c"
}

// shellCommand runs command with `shell -c` (or `cmd.exe /C`), inheriting the standard streams.
func shellCommand(ctx context.Context, shell, command, dir string, stdout, stderr io.Writer) error {
	arg := shellArg(shell)
	cmd := exec.CommandContext(ctx, shell, arg, command)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitCodeError(arg+" "+command, exitErr.ExitCode())
		}
		return errUtils.Wrapf(errUtils.ErrShellCommandFailed, err,
			"Failed to execute shell command '%s %s': %v", arg, command, err)
	}
	return nil
}

// shellRunner interprets command with mvdan.cc/sh, so hooks run the same way on every platform.
func shellRunner(ctx context.Context, command, dir string, stdout, stderr io.Writer) error {
	file, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return errUtils.Wrapf(errUtils.ErrShellCommandFailed, err,
			"Failed to execute shell command '%s': %v", command, err)
	}

	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(os.Stdin, stdout, stderr),
	)
	if err != nil {
		return errUtils.Wrapf(errUtils.ErrShellCommandFailed, err,
			"Failed to execute shell command '%s': %v", command, err)
	}

	if err := runner.Run(ctx, file); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return exitCodeError(command, int(status))
		}
		return errUtils.Wrapf(errUtils.ErrShellCommandFailed, err,
			"Failed to execute shell command '%s': %v", command, err)
	}
	return nil
}

func exitCodeError(command string, code int) error {
	return errUtils.Wrapf(errUtils.ErrShellCommandFailed, errUtils.ExitCodeError{Code: code},
		"Shell command '%s' failed with exit code: %d", command, code)
}
