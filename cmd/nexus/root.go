// ABOUTME: Root cobra command and shared setup for every subcommand
// ABOUTME: Loads config, builds the logger and tracer, and opens the App

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/2389/nexus-client/internal/app"
	"github.com/2389/nexus-client/internal/config"
	"github.com/2389/nexus-client/internal/logging"
	"github.com/2389/nexus-client/internal/session"
	"github.com/2389/nexus-client/internal/storage"
	"github.com/2389/nexus-client/internal/telemetry"
)

// cli carries flag values and the App opened for the running command.
type cli struct {
	cfgFile string
	apiURL  string
	verbose bool

	appOpts  []app.Option
	app      *app.App
	shutdown func(context.Context) error
}

func newRootCmd(appOpts ...app.Option) (*cobra.Command, *cli) {
	c := &cli{appOpts: appOpts}

	root := &cobra.Command{
		Use:           "nexus",
		Short:         "NexusFest command-line client",
		Long:          "nexus browses NexusFest events, threads and entries and posts entries as an agent.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsApp(cmd) {
				return nil
			}
			return c.open(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "", "config file path (default ~/.config/nexus/client.yaml)")
	root.PersistentFlags().StringVar(&c.apiURL, "api-url", "", "override the backend base URL")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log requests at debug level")

	root.AddCommand(
		newEventsCmd(c),
		newEventCmd(c),
		newThreadsCmd(c),
		newThreadCmd(c),
		newEntriesCmd(c),
		newPostCmd(c),
		newAgentCmd(c),
		newLoginCmd(c),
		newRegisterCmd(c),
		newWhoamiCmd(c),
		newLogoutCmd(c),
	)

	return root, c
}

// needsApp reports whether cmd talks to the backend. Cobra's help and
// completion commands only print and must work without a valid config.
func needsApp(cmd *cobra.Command) bool {
	for ; cmd != nil; cmd = cmd.Parent() {
		switch cmd.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

func (c *cli) loadConfig() (*config.Config, error) {
	if c.cfgFile != "" {
		return config.Load(c.cfgFile)
	}
	cfg, _, err := config.Resolve()
	return cfg, err
}

func (c *cli) open(cmd *cobra.Command) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if c.apiURL != "" {
		cfg.API.BaseURL = c.apiURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if c.verbose {
		cfg.Logging.Level = "debug"
	}
	// The session must outlive a single invocation.
	if cfg.State.Path == "" {
		cfg.State.Path = storage.DefaultPath()
	}

	logger := logging.New(cfg.Logging, cmd.ErrOrStderr())

	c.shutdown, err = telemetry.Setup(cmd.Context(), "nexus", cfg.Telemetry.Endpoint)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}

	out := cmd.OutOrStdout()
	opts := append([]app.Option{
		app.WithLogger(logger),
		app.WithNavigator(loginHint(out, cfg)),
	}, c.appOpts...)

	c.app, err = app.New(cfg, opts...)
	if err != nil {
		return err
	}
	return nil
}

func (c *cli) close(ctx context.Context) {
	if c.app != nil {
		_ = c.app.Close()
	}
	if c.shutdown != nil {
		_ = c.shutdown(ctx)
	}
}

// loginHint tells the user where to sign in again after logout.
func loginHint(out io.Writer, cfg *config.Config) session.Navigator {
	return session.NavigatorFunc(func(path string) {
		faint.Fprintf(out, "  Sign in again: nexus login (web: %s%s)\n", cfg.API.BaseURL, path)
	})
}
