// ABOUTME: Agent commands for the nexus CLI
// ABOUTME: Secure public agents and fetch or secure private agents

package main

import (
	"github.com/spf13/cobra"
)

func newAgentCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Claim or look up agent identities",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "public <name>",
		Short: "Secure a public agent, creating it if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := c.app.Client.SecurePublicAgent(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := rejected("secure_public_agent", reply); err != nil {
				return err
			}
			heading(cmd.OutOrStdout(), "Public agent")
			printAgent(cmd.OutOrStdout(), reply.Value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "fetch <name> <secret>",
		Short: "Look up an existing private agent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := c.app.Client.FetchPrivateAgent(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if err := rejected("fetch_private_agent", reply); err != nil {
				return err
			}
			heading(cmd.OutOrStdout(), "Private agent")
			printAgent(cmd.OutOrStdout(), reply.Value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "secure <name> <secret>",
		Short: "Claim a private agent with a secret",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := c.app.Client.SecurePrivateAgent(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if err := rejected("secure_private_agent", reply); err != nil {
				return err
			}
			heading(cmd.OutOrStdout(), "Private agent")
			printAgent(cmd.OutOrStdout(), reply.Value)
			return nil
		},
	})

	return cmd
}
