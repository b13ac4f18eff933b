package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
)

func resourcesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "resources", Short: "Upload and manage study files"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List uploaded files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.session(); err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			rs, err := a.api.Resources(ctx)
			if err != nil {
				return err
			}
			a.print(cmd.OutOrStdout(), rs, func(w io.Writer) { renderResources(w, rs) })
			return nil
		},
	})

	var name string
	upload := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a file (- reads stdin, then --name is required)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.session(); err != nil {
				return err
			}
			data, err := readAll(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			if name == "" && args[0] != "-" {
				name = filepath.Base(args[0])
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			r, err := a.api.Upload(ctx, name, data)
			if err != nil {
				return err
			}
			a.print(cmd.OutOrStdout(), r, func(w io.Writer) {
				fmt.Fprintf(w, "uploaded %s (%d bytes)\n%s\n", r.Name, r.Size, r.URL)
			})
			return nil
		},
	}
	upload.Flags().StringVarP(&name, "name", "n", "", "file name to store")
	cmd.AddCommand(upload)

	cmd.AddCommand(&cobra.Command{
		Use:   "rm ID",
		Short: "Delete a file record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.session(); err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			if err := a.api.DeleteResource(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "activity",
		Short: "Show the latest uploads and deletes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.session(); err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			as, err := a.api.Activity(ctx)
			if err != nil {
				return err
			}
			a.print(cmd.OutOrStdout(), as, func(w io.Writer) { renderActivity(w, as) })
			return nil
		},
	})
	return cmd
}
