package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/and161185/studysync/internal/api"
	"github.com/and161185/studysync/internal/errs"
)

func profileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "profile", Short: "View and edit the profile"}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.session(); err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			p, err := a.api.Profile(ctx)
			if err != nil {
				return err
			}
			a.print(cmd.OutOrStdout(), p, func(w io.Writer) { renderProfile(w, p) })
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set FIELD=VALUE...",
		Short: "Update editable fields: name, email, bio, institution, program, year",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.session(); err != nil {
				return err
			}
			patch, err := parsePatch(args)
			if err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			p, err := a.api.PatchProfile(ctx, patch)
			if err != nil {
				return err
			}
			a.print(cmd.OutOrStdout(), p, func(w io.Writer) { renderProfile(w, p) })
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Recount notes and tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.session(); err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			s, err := a.api.Stats(ctx)
			if err != nil {
				return err
			}
			a.print(cmd.OutOrStdout(), s, func(w io.Writer) { renderStats(w, s) })
			return nil
		},
	})
	return cmd
}

func parsePatch(args []string) (api.ProfilePatch, error) {
	patch := api.ProfilePatch{}
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, errs.Validation(fmt.Sprintf("expected FIELD=VALUE, got %q", arg))
		}
		patch[strings.TrimSpace(k)] = v
	}
	return patch, nil
}

func homeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			return a.renderHome(ctx, cmd.OutOrStdout())
		},
	}
}
