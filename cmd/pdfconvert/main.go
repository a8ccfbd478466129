package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
)

// errIncomplete marks a run that finished but left documents unconverted.
// The summary already said which; main only sets the exit status.
var errIncomplete = errors.New("some documents were not converted")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err == nil {
		return
	}
	if !errors.Is(err, errIncomplete) {
		color.New(color.FgRed).Fprintf(os.Stderr, "✗ %v\n", err)
	}
	stop()
	os.Exit(1)
}
