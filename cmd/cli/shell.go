package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/and161185/studysync/internal/client"
	"github.com/and161185/studysync/internal/errs"
)

const shellHelp = `views:    go home|notes|planner|profile|resources|login|signup
forms:    set email|password|name VALUE, submit
session:  logout
anything else runs as a subcommand, e.g. notes add -t "Title" -c "Body"
help, quit`

func shellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive mode that shows the current view after every command",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.shell(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func (a *app) shell(ctx context.Context, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	a.show(ctx, out)
	for {
		fmt.Fprintf(out, "\nstudysync:%s> ", a.router.View())
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		args, err := splitArgs(sc.Text())
		if err != nil {
			fmt.Fprintln(out, "error:", err)
			continue
		}
		if len(args) == 0 {
			a.show(ctx, out)
			continue
		}
		switch args[0] {
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(out, shellHelp)
			continue
		}
		if err := a.shellLine(ctx, args, out); err != nil {
			fmt.Fprintln(out, "error:", err)
		}
		a.show(ctx, out)
	}
}

func (a *app) shellLine(ctx context.Context, args []string, out io.Writer) error {
	switch args[0] {
	case "go", "open":
		if len(args) != 2 {
			return errs.Validation("usage: go VIEW")
		}
		v, err := client.ParseView(args[1])
		if err != nil {
			return err
		}
		if err := a.router.Navigate(v); err != nil {
			if errors.Is(err, errs.ErrNotAuthenticated) {
				return errors.New("sign in first: go login")
			}
			return err
		}
		return nil
	case "set":
		if len(args) < 2 {
			return errs.Validation("usage: set FIELD VALUE")
		}
		return a.router.SetField(args[1], strings.Join(args[2:], " "))
	case "submit":
		sctx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()
		var err error
		switch a.router.View() {
		case client.ViewLogin:
			err = a.router.SubmitLogin(sctx)
		case client.ViewSignup:
			err = a.router.SubmitSignup(sctx)
		default:
			return errs.Validation("submit works on the login and signup views")
		}
		// Auth failures are rendered with the form.
		if err != nil && a.router.Err == "" {
			return err
		}
		return nil
	case "logout":
		sctx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()
		return a.router.SignOut(sctx)
	case "shell":
		return errs.Validation("already in the shell")
	}

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(strings.NewReader(""))
	root.SetOut(out)
	root.SetErr(out)
	return root.ExecuteContext(ctx)
}

// show renders the panel of the current view.
func (a *app) show(ctx context.Context, out io.Writer) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	fmt.Fprintf(out, "\n== %s ==\n", a.router.View())
	if err := a.renderView(ctx, out); err != nil {
		fmt.Fprintln(out, "error:", err)
	}
}

func (a *app) renderView(ctx context.Context, w io.Writer) error {
	switch a.router.View() {
	case client.ViewHome:
		return a.renderHome(ctx, w)
	case client.ViewLogin, client.ViewSignup:
		renderForm(w, a.router)
		return nil
	case client.ViewNotes:
		p, err := a.notesPanel()
		if err != nil {
			return err
		}
		if err := p.Load(ctx); err != nil {
			return err
		}
		fmt.Fprintf(w, "subjects: %s\n", strings.Join(p.Subjects, ", "))
		renderNotes(w, p.Visible())
	case client.ViewPlanner:
		p, err := a.plannerPanel()
		if err != nil {
			return err
		}
		if err := p.Load(ctx); err != nil {
			return err
		}
		fmt.Fprintf(w, "%d overdue\n", p.Overdue())
		renderTasks(w, p.Visible(), time.Now())
	case client.ViewProfile:
		p, err := a.api.Profile(ctx)
		if err != nil {
			return err
		}
		renderProfile(w, p)
		s, err := a.api.Stats(ctx)
		if err != nil {
			return err
		}
		renderStats(w, s)
	case client.ViewResources:
		rs, err := a.api.Resources(ctx)
		if err != nil {
			return err
		}
		renderResources(w, rs)
		as, err := a.api.Activity(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "\nRecent activity:")
		renderActivity(w, as)
	}
	return nil
}

func (a *app) renderHome(ctx context.Context, w io.Writer) error {
	if !a.router.SignedIn() {
		fmt.Fprintln(w, "Welcome to StudySync. Sign in or create an account to get started.")
		return nil
	}
	s, err := a.api.Home(ctx)
	if err != nil {
		return err
	}
	a.print(w, s, func(w io.Writer) { renderSummary(w, s) })
	return nil
}

func renderForm(w io.Writer, r *client.Router) {
	f := r.Form
	fmt.Fprintf(w, "email:    %s\n", f.Email)
	if r.View() == client.ViewSignup {
		fmt.Fprintf(w, "name:     %s\n", f.Name)
	}
	fmt.Fprintf(w, "password: %s\n", strings.Repeat("*", len(f.Password)))
	if r.Err != "" {
		fmt.Fprintf(w, "error:    %s\n", r.Err)
	}
}

// splitArgs splits a shell line on spaces, keeping double quoted parts together.
func splitArgs(line string) ([]string, error) {
	var (
		args   []string
		cur    strings.Builder
		quoted bool
		inArg  bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			inArg = true
		case (r == ' ' || r == '\t') && !quoted:
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if quoted {
		return nil, errs.Validation("unterminated quote")
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
