package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func registerCmd(a *app) *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			a.router.Form.Email, a.router.Form.Password, a.router.Form.Name = email, password, name
			if err := a.router.SubmitSignup(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signed up as %s\n", a.router.Session().Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "email (required)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password, at least 6 characters (required)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func loginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			a.router.Form.Email, a.router.Form.Password = email, password
			if err := a.router.SubmitLogin(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "email (required)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			if err := a.router.SignOut(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func resetPasswordCmd(a *app) *cobra.Command {
	var token, password string
	cmd := &cobra.Command{
		Use:   "reset-password [EMAIL]",
		Short: "Request a reset link, or set a new password with --token",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			out := cmd.OutOrStdout()
			if token != "" {
				if password == "" {
					return errors.New("--password is required with --token")
				}
				if err := a.api.ConfirmPasswordReset(ctx, token, password); err != nil {
					return err
				}
				fmt.Fprintln(out, "password updated, sign in again")
				return nil
			}
			if len(args) != 1 {
				return errors.New("email is required")
			}
			if err := a.api.RequestPasswordReset(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(out, "if the account exists, a reset link has been sent")
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "reset token from the email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "new password")
	return cmd
}

func meCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.session(); err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			id, err := a.api.Me(ctx)
			if err != nil {
				return err
			}
			a.print(cmd.OutOrStdout(), id, func(w io.Writer) { renderIdentity(w, id) })
			return nil
		},
	}
}

func accountCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "account", Short: "Change email, password or display name"}

	cmd.AddCommand(&cobra.Command{
		Use:   "email NEW_EMAIL",
		Short: "Change the sign-in email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.session(); err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			if err := a.api.ChangeEmail(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "email updated")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "password NEW_PASSWORD",
		Short: "Change the password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.session(); err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			if err := a.api.ChangePassword(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "password updated")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "name NEW_NAME",
		Short: "Change the display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.session(); err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			id, err := a.api.ChangeDisplayName(ctx, args[0])
			if err != nil {
				return err
			}
			a.print(cmd.OutOrStdout(), id, func(w io.Writer) { renderIdentity(w, id) })
			return nil
		},
	})
	return cmd
}
