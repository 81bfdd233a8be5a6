package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudposse/sketch/cmd"
	errUtils "github.com/cloudposse/sketch/errors"
	log "github.com/cloudposse/sketch/pkg/logger"
)

func main() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		// POSIX exit code: 128 + signal number.
		if s, ok := sig.(syscall.Signal); ok {
			errUtils.OsExit(128 + int(s))
		}
		errUtils.OsExit(130)
	}()

	errUtils.OsExit(run())
}

// run executes the command line and returns the exit code.
func run() int {
	err := cmd.Execute()
	if err != nil {
		errUtils.Print(os.Stderr, err, cmd.FormatterConfig())

		exitCode := errUtils.GetExitCode(err)
		log.Debug("Exiting with exit code", "code", exitCode)
		return exitCode
	}
	return 0
}
