package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cookiverse/cookiverse/internal/auth"
)

func newSignInCmd(c *cli) *cobra.Command {
	var idToken string
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in",
		Long: `Sign in with the configured identity provider.

In remote mode pass a Firebase ID token with --id-token. In local mode
everyone signs in as the demo chef.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.opContext(cmd)
			defer cancel()

			user, err := c.app.session.SignIn(ctx, auth.Credential{IDToken: idToken})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", user.DisplayName, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&idToken, "id-token", "", "Identity token from the provider (remote mode)")
	return cmd
}

func newSignOutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.opContext(cmd)
			defer cancel()

			c.app.session.SignOut(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoAmICmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and storage mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if u := c.app.session.Current(); u != nil {
				fmt.Fprintf(out, "%s (%s) uid=%s\n", u.DisplayName, u.Email, u.UID)
			} else {
				fmt.Fprintln(out, "Not signed in")
			}
			fmt.Fprintf(out, "storage: %s\n", c.app.backend.Mode)
			return nil
		},
	}
}
