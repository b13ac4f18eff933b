package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/and161185/studysync/internal/api"
	"github.com/and161185/studysync/internal/client"
	"github.com/and161185/studysync/internal/errs"
	"github.com/and161185/studysync/internal/model"
)

func (a *app) notesPanel() (*client.NotesPanel, error) {
	s, err := a.session()
	if err != nil {
		return nil, err
	}
	return client.NewNotesPanel(a.api, s)
}

func noteFlags(cmd *cobra.Command, in *api.NoteInput) {
	cmd.Flags().StringVarP(&in.Title, "title", "t", "", "note title")
	cmd.Flags().StringVarP(&in.Content, "content", "c", "", "note body")
	cmd.Flags().StringVar(&in.Subject, "subject", "", "subject (default General)")
	cmd.Flags().StringVar(&in.Tags, "tags", "", "comma separated tags")
}

func notesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "notes", Short: "List and edit notes"}

	var filter model.NoteFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List notes, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.notesPanel()
			if err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			if err := p.Load(ctx); err != nil {
				return err
			}
			p.Filter = filter
			visible := p.Visible()
			a.print(cmd.OutOrStdout(), visible, func(w io.Writer) {
				fmt.Fprintf(w, "subjects: %s\n", strings.Join(p.Subjects, ", "))
				renderNotes(w, visible)
			})
			return nil
		},
	}
	list.Flags().StringVarP(&filter.Search, "search", "q", "", "text in title, body or tags")
	list.Flags().StringVar(&filter.Subject, "subject", "", "subject, or all")
	cmd.AddCommand(list)

	var add api.NoteInput
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.notesPanel()
			if err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			if err := p.Create(ctx, add); err != nil {
				return err
			}
			a.print(cmd.OutOrStdout(), p.All, func(w io.Writer) {
				fmt.Fprintf(w, "saved, %d notes\n", len(p.All))
				renderNotes(w, p.Visible())
			})
			return nil
		},
	}
	noteFlags(addCmd, &add)
	cmd.AddCommand(addCmd)

	var edit api.NoteInput
	editCmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a note; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.notesPanel()
			if err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			if err := p.Load(ctx); err != nil {
				return err
			}
			var cur *model.Note
			for i := range p.All {
				if p.All[i].ID.String() == args[0] {
					cur = &p.All[i]
				}
			}
			if cur == nil {
				return fmt.Errorf("note %s: %w", args[0], errs.ErrNotFound)
			}
			in := api.NoteInput{
				Title:   choose(edit.Title, cur.Title),
				Content: choose(edit.Content, cur.Content),
				Subject: choose(edit.Subject, cur.Subject),
				Tags:    strings.Join(cur.Tags, ", "),
			}
			if cmd.Flags().Changed("tags") {
				in.Tags = edit.Tags
			}
			if err := p.Update(ctx, args[0], in); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "updated")
			return nil
		},
	}
	noteFlags(editCmd, &edit)
	cmd.AddCommand(editCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "rm ID",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.notesPanel()
			if err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			if err := p.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	})
	return cmd
}
