package main

import (
	"fmt"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/pkg/apperror"

	"github.com/spf13/cobra"
)

func (a *app) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print the tokens to export",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return apperror.ValidationFields("Validation failed", map[string]string{
					"email":    "email and password are required",
					"password": "email and password are required",
				})
			}
			tokens, err := a.client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "export CITAS_TOKEN=%s\n", tokens.AccessToken)
			fmt.Fprintf(a.out, "# refresh token: %s\n", tokens.RefreshToken)
			if sess, ok := converter.SessionFromResponse(tokens.Session); ok {
				fmt.Fprintf(a.out, "# logged in as %s (%s)\n", sess.Email, sess.Role)
				renderMenu(a.out, sess)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	var refreshToken string
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Revoke the current access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Logout(cmd.Context(), refreshToken); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out. Unset CITAS_TOKEN.")
			return nil
		},
	}
	cmd.Flags().StringVar(&refreshToken, "refresh-token", "", "Also revoke this refresh token")
	return cmd
}

func (a *app) refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh <refresh-token>",
		Short: "Exchange a refresh token for a new token pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := a.client.Refresh(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "export CITAS_TOKEN=%s\n", tokens.AccessToken)
			fmt.Fprintf(a.out, "# refresh token: %s\n", tokens.RefreshToken)
			return nil
		},
	}
}

func (a *app) meCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s <%s>\nrole: %s\nid:   %s\n", sess.FullName, sess.Email, sess.Role, sess.UserID)
			return nil
		},
	}
}

func (a *app) menuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Show what your role can do",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			renderMenu(a.out, sess)
			return nil
		},
	}
}
