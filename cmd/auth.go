package cmd

import (
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the admin backend",
		Long: `Validate a username and password against the backend and persist the
session. Missing values are prompted for; the password is not echoed.

Examples:
  adminctl login
  adminctl login --username admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				p, done, err := a.openPrompter()
				if err != nil {
					return err
				}
				defer done()
				if username == "" {
					if username, err = p.ReadLine("Username: "); err != nil {
						return err
					}
				}
				if password == "" {
					if password, err = p.ReadPassword("Password: "); err != nil {
						return err
					}
				}
			}

			sess, err := a.auth.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			a.printer.Success("Logged in as %s", sess.Identity)
			a.printer.PrintHints("login")
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			a.printer.Success("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := a.store.Current()
			if a.jsonMode {
				return a.printer.JSON(map[string]any{
					"identity":      sess.Identity,
					"authenticated": sess.Authenticated,
					"baseUrl":       a.client.BaseURL(),
				})
			}
			if err := a.requireSession(); err != nil {
				return err
			}
			a.printer.Print("%s @ %s", a.printer.Bold(sess.Identity), a.client.BaseURL())
			return nil
		},
	}
	addJSONFlag(cmd, a)
	return cmd
}
