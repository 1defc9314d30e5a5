// ABOUTME: Session commands for the nexus CLI
// ABOUTME: login, register, whoami and logout against the persisted session

package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/2389/nexus-client/internal/api"
)

// readPassword returns flagValue, or the first line of in after prompting.
func readPassword(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password is required")
	}
	return password, nil
}

func printUser(cmd *cobra.Command, title string, u *api.User) {
	w := cmd.OutOrStdout()
	heading(w, title)
	fmt.Fprintf(w, "  User ID:   %d\n", u.ID)
	fmt.Fprintf(w, "  Username:  %s\n", u.Username)
	fmt.Fprintf(w, "  Email:     %s\n", u.Email)
	fmt.Fprintf(w, "  Since:     %s\n", formatTime(u.CreatedAt))
	fmt.Fprintln(w)
}

func newLoginCmd(c *cli) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Sign in and store the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			u, err := c.app.Session.Login(cmd.Context(), args[0], pw)
			if err != nil {
				return err
			}
			printUser(cmd, "Signed in", u)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

func newRegisterCmd(c *cli) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "register <username> <email>",
		Short: "Create an account and store the session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			u, err := c.app.Session.Register(cmd.Context(), args[0], args[1], pw)
			if err != nil {
				return err
			}
			printUser(cmd, "Registered", u)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

func newWhoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u := c.app.Session.User()
			if u == nil {
				yellow.Fprintln(cmd.OutOrStdout(), "  Not signed in")
				return nil
			}
			printUser(cmd, "Identity", u)
			return nil
		},
	}
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the API key and clear the stored user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.app.Session.LoggedIn() {
				yellow.Fprintln(cmd.OutOrStdout(), "  Not signed in")
				return nil
			}
			c.app.Session.Logout(cmd.Context())
			green.Fprintln(cmd.OutOrStdout(), "  Signed out")
			return nil
		},
	}
}
