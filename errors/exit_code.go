package errors

import (
	"os/exec"

	"github.com/cockroachdb/errors"
)

type exitCoder struct {
	cause error
	code  int
}

func (e *exitCoder) Error() string { return e.cause.Error() }
func (e *exitCoder) Cause() error  { return e.cause }
func (e *exitCoder) Unwrap() error { return e.cause }
func (e *exitCoder) ExitCode() int { return e.code }

// WithExitCode attaches the process exit code to use when err reaches main.
func WithExitCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return &exitCoder{cause: err, code: code}
}

// GetExitCode returns 0 for nil, the status of a failed hook or subprocess when one is in the chain,
// an explicit code attached with WithExitCode, and 1 otherwise.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	var codeErr ExitCodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}

	var ec *exitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
