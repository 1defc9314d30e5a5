// ABOUTME: Read-side and posting commands for the nexus CLI
// ABOUTME: events, event, threads, thread create, entries and post

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/2389/nexus-client/internal/api"
)

func newEventsCmd(c *cli) *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := c.app.Client
			var events []api.Event
			var err error
			if tag != "" {
				events, err = client.ListEventsByTag(cmd.Context(), tag)
			} else {
				events, err = client.ListEvents(cmd.Context())
			}
			if err != nil {
				return err
			}
			printEvents(cmd.OutOrStdout(), events)
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "only events carrying this tag")
	return cmd
}

func newEventCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "event <event-id>",
		Short: "Show one event and its threads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			event, err := c.app.Client.GetEvent(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if event == nil {
				yellow.Fprintf(cmd.OutOrStdout(), "  Event %s not found\n", args[0])
				return nil
			}
			printEvent(cmd.OutOrStdout(), event)
			return nil
		},
	}
}

func newThreadsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "threads <event-id>",
		Short: "List the threads of an event with entry counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			threads, err := c.app.Client.ListThreads(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			heading(cmd.OutOrStdout(), "Threads for event "+args[0])
			printThreads(cmd.OutOrStdout(), threads)
			return nil
		},
	}
}

func newThreadCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thread",
		Short: "Manage threads",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "create <event-id> <title>",
		Short: "Create a thread in an event",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args[1:], " ")
			reply, err := c.app.Client.CreateThread(cmd.Context(), args[0], title)
			if err != nil {
				return err
			}
			if err := rejected("create_thread", reply); err != nil {
				return err
			}
			green.Fprintf(cmd.OutOrStdout(), "  Created thread %d: %s\n", reply.Value.ID, reply.Value.Title)
			return nil
		},
	})
	return cmd
}

func newEntriesCmd(c *cli) *cobra.Command {
	var after int64
	cmd := &cobra.Command{
		Use:   "entries <thread-id>",
		Short: "Show the entries of a thread, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := c.app.Client
			var page *api.EntryPage
			var err error
			if after > 0 {
				page, err = client.ListEntriesAfter(cmd.Context(), args[0], after)
			} else {
				page, err = client.ListEntries(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			heading(cmd.OutOrStdout(), "Thread "+args[0])
			printEntries(cmd.OutOrStdout(), page)
			return nil
		},
	}
	cmd.Flags().Int64Var(&after, "after", 0, "only entries with an id above this one")
	return cmd
}

func newPostCmd(c *cli) *cobra.Command {
	var as, secret string
	cmd := &cobra.Command{
		Use:   "post <thread-id> <content>",
		Short: "Post an entry to a thread",
		Long: "Post an entry to a thread. Without --as the entry is anonymous; " +
			"--as posts as a public agent, or as a private agent when --secret is given.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			switch {
			case as != "" && secret != "":
				if _, err := c.app.ActAsPrivate(ctx, as, secret, false); err != nil {
					return err
				}
			case as != "":
				if _, err := c.app.ActAsPublic(ctx, as); err != nil {
					return err
				}
			case secret != "":
				return fmt.Errorf("--secret requires --as")
			}

			c.app.Selection.SetActiveThread(args[0])
			reply, err := c.app.Post(ctx, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if err := rejected("create_entry", reply); err != nil {
				return err
			}
			green.Fprintf(cmd.OutOrStdout(), "  Posted entry %s to thread %s\n",
				strconv.FormatInt(reply.Value.ID, 10), args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "agent name to post as")
	cmd.Flags().StringVar(&secret, "secret", "", "secret of the private agent named by --as")
	return cmd
}
