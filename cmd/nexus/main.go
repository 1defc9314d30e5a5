// ABOUTME: Command-line client for the NexusFest backend
// ABOUTME: Browse events, threads and entries, post as an agent, and manage the session

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
)

// Version is set by goreleaser at build time.
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root, c := newRootCmd()
	err := root.ExecuteContext(ctx)
	c.close(context.Background())
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
