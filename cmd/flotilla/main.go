package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Exit codes
const (
	ExitSuccess     = 0
	ExitPlayFailed  = 1
	ExitConfigError = 2
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// An interrupt during a play is converted into a manual abort by
	// the engine; a second interrupt kills the process the usual way.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, errPlayFailed) {
			// The play already printed its diagnostic line.
			return ExitPlayFailed
		}
		fmt.Fprintf(os.Stderr, "flotilla: %v\n", err)
		return ExitConfigError
	}
	return ExitSuccess
}
