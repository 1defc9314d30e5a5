// ABOUTME: Interactive REPL client for NexusFest threads
// ABOUTME: Browse events, focus a thread, pick an agent and post entries line by line

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/nexus-client/internal/app"
	"github.com/2389/nexus-client/internal/config"
	"github.com/2389/nexus-client/internal/logging"
	"github.com/2389/nexus-client/internal/storage"
	"github.com/2389/nexus-client/internal/telemetry"
)

// Version is set by goreleaser at build time.
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile, apiURL string
	var verbose bool

	cmd := &cobra.Command{
		Use:           "nexus-tui",
		Short:         "Interactive NexusFest client",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg *config.Config
			var err error
			if cfgFile != "" {
				cfg, err = config.Load(cfgFile)
			} else {
				cfg, _, err = config.Resolve()
			}
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if apiURL != "" {
				cfg.API.BaseURL = apiURL
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if verbose {
				cfg.Logging.Level = "debug"
			}
			if cfg.State.Path == "" {
				cfg.State.Path = storage.DefaultPath()
			}

			ctx := cmd.Context()
			shutdown, err := telemetry.Setup(ctx, "nexus-tui", cfg.Telemetry.Endpoint)
			if err != nil {
				return fmt.Errorf("setting up telemetry: %w", err)
			}
			defer func() { _ = shutdown(context.Background()) }()

			out := cmd.OutOrStdout()
			r := newREPL(cmd.InOrStdin(), out)
			a, err := app.New(cfg,
				app.WithLogger(logging.New(cfg.Logging, cmd.ErrOrStderr())),
				app.WithNavigator(r))
			if err != nil {
				return err
			}
			defer a.Close()
			r.attach(a)

			fmt.Fprintf(out, "nexus-tui connected to %s\n", a.Client.BaseURL())
			if u := a.Session.User(); u != nil {
				fmt.Fprintf(out, "Signed in as %s\n", u.Username)
			} else {
				fmt.Fprintln(out, "Not signed in (/login <username> <password>)")
			}
			fmt.Fprintln(out, "Type a message and press Enter. /help for commands. Ctrl+C to quit.")
			fmt.Fprintln(out)

			if err := r.run(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, "\nGoodbye!")
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file path (default ~/.config/nexus/client.yaml)")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "override the backend base URL")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log requests at debug level")
	return cmd
}
