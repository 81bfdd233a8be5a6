package errors

import (
	"fmt"
	"io"
	"os"
)

// OsExit is swapped in tests.
var OsExit = os.Exit

// Print writes the formatted error to w.
func Print(w io.Writer, err error, config FormatterConfig) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, Format(err, config))
}

// PrintAndExit prints err to stderr and exits with its exit code.
func PrintAndExit(err error) {
	if err == nil {
		return
	}
	Print(os.Stderr, err, DefaultFormatterConfig())
	// revive:disable-next-line:deep-exit
	Exit(GetExitCode(err))
}

// Exit exits the program with the specified exit code.
func Exit(exitCode int) {
	OsExit(exitCode)
}
