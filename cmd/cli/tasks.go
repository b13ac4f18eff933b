package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/and161185/studysync/internal/api"
	"github.com/and161185/studysync/internal/client"
	"github.com/and161185/studysync/internal/errs"
	"github.com/and161185/studysync/internal/model"
)

func (a *app) plannerPanel() (*client.PlannerPanel, error) {
	s, err := a.session()
	if err != nil {
		return nil, err
	}
	return client.NewPlannerPanel(a.api, s)
}

func taskFlags(cmd *cobra.Command, in *api.TaskInput) {
	cmd.Flags().StringVarP(&in.Title, "title", "t", "", "task title")
	cmd.Flags().StringVarP(&in.Description, "description", "d", "", "details")
	cmd.Flags().StringVar(&in.Subject, "subject", "", "subject (default General)")
	cmd.Flags().StringVar(&in.DueDate, "due", "", "due date, YYYY-MM-DD")
	cmd.Flags().StringVar(&in.Priority, "priority", "", "high, medium or low (default medium)")
}

func tasksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "tasks", Short: "Plan and complete tasks"}

	var filter model.TaskFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := filter.Validate(); err != nil {
				return err
			}
			p, err := a.plannerPanel()
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
				if n := p.Overdue(); n > 0 {
					fmt.Fprintf(w, "%d overdue\n", n)
				}
				renderTasks(w, visible, time.Now())
			})
			return nil
		},
	}
	list.Flags().StringVar(&filter.Status, "status", "", "all, pending or completed")
	list.Flags().StringVar(&filter.Priority, "priority", "", "all, high, medium or low")
	cmd.AddCommand(list)

	var add api.TaskInput
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.session(); err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			t, err := a.api.CreateTask(ctx, add)
			if err != nil {
				return err
			}
			a.print(cmd.OutOrStdout(), t, func(w io.Writer) { renderAPITask(w, t) })
			return nil
		},
	}
	taskFlags(addCmd, &add)
	cmd.AddCommand(addCmd)

	var edit api.TaskInput
	editCmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a task; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.plannerPanel()
			if err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			if err := p.Load(ctx); err != nil {
				return err
			}
			var cur *model.Task
			for i := range p.All {
				if p.All[i].ID.String() == args[0] {
					cur = &p.All[i]
				}
			}
			if cur == nil {
				return fmt.Errorf("task %s: %w", args[0], errs.ErrNotFound)
			}
			in := api.TaskInput{
				Title:       choose(edit.Title, cur.Title),
				Description: choose(edit.Description, cur.Description),
				Subject:     choose(edit.Subject, cur.Subject),
				DueDate:     choose(edit.DueDate, cur.DueDate),
				Priority:    choose(edit.Priority, string(cur.Priority)),
			}
			t, err := a.api.UpdateTask(ctx, args[0], in)
			if err != nil {
				return err
			}
			a.print(cmd.OutOrStdout(), t, func(w io.Writer) { renderAPITask(w, t) })
			return nil
		},
	}
	taskFlags(editCmd, &edit)
	cmd.AddCommand(editCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle ID",
		Short: "Flip the completion of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.plannerPanel()
			if err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			res, err := p.Toggle(ctx, args[0])
			if err != nil {
				return err
			}
			a.print(cmd.OutOrStdout(), res, func(w io.Writer) {
				renderAPITask(w, res.Task)
				if res.Celebrate {
					fmt.Fprintf(w, "*** %s ***\n", res.Message)
				}
			})
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.plannerPanel()
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
