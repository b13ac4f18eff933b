package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/and161185/studysync/internal/api"
	"github.com/and161185/studysync/internal/model"
)

const dateTime = "2006-01-02 15:04"

func table(w io.Writer, header string, rows func(tw *tabwriter.Writer)) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	_ = tw.Flush()
}

func renderIdentity(w io.Writer, id api.Identity) {
	fmt.Fprintf(w, "%s <%s>\n", id.User.DisplayName, id.User.Email)
	fmt.Fprintf(w, "id: %s\n", id.User.ID)
}

func renderNotes(w io.Writer, notes []model.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(w, "no notes")
		return
	}
	table(w, "ID\tTITLE\tSUBJECT\tTAGS\tCREATED", func(tw *tabwriter.Writer) {
		for _, n := range notes {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", n.ID, n.Title, n.Subject, strings.Join(n.Tags, ","), n.CreatedAt.Local().Format(dateTime))
		}
	})
}

func renderAPINotes(w io.Writer, notes []api.Note) {
	table(w, "ID\tTITLE\tSUBJECT", func(tw *tabwriter.Writer) {
		for _, n := range notes {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", n.ID, n.Title, n.Subject)
		}
	})
}

func renderTasks(w io.Writer, tasks []model.Task, today time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "no tasks")
		return
	}
	table(w, "ID\tDONE\tTITLE\tSUBJECT\tDUE\tPRIORITY", func(tw *tabwriter.Writer) {
		for _, t := range tasks {
			due := t.DueDate
			if t.IsOverdue(today) {
				due += " (overdue)"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, check(t.Completed), t.Title, t.Subject, due, t.Priority.Display())
		}
	})
}

func renderAPITask(w io.Writer, t api.Task) {
	due := t.DueDate
	if t.Overdue {
		due += " (overdue)"
	}
	fmt.Fprintf(w, "%s [%s] %s  due %s  %s\n", t.ID, check(t.Completed), t.Title, due, t.Priority)
}

func check(done bool) string {
	if done {
		return "x"
	}
	return " "
}

func renderResources(w io.Writer, rs []api.Resource) {
	if len(rs) == 0 {
		fmt.Fprintln(w, "no resources")
		return
	}
	table(w, "ID\tNAME\tTYPE\tSIZE\tURL", func(tw *tabwriter.Writer) {
		for _, r := range rs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", r.ID, r.Name, r.MimeType, r.Size, r.URL)
		}
	})
}

func renderActivity(w io.Writer, as []api.Activity) {
	if len(as) == 0 {
		fmt.Fprintln(w, "no recent activity")
		return
	}
	for _, a := range as {
		fmt.Fprintf(w, "%s  %-6s %s\n", a.CreatedAt.Local().Format(dateTime), a.Kind, a.ResourceName)
	}
}

func renderProfile(w io.Writer, p api.Profile) {
	table(w, "FIELD\tVALUE", func(tw *tabwriter.Writer) {
		for _, kv := range [][2]string{
			{"name", p.Name}, {"email", p.Email}, {"bio", p.Bio},
			{"institution", p.Institution}, {"program", p.Program}, {"year", p.Year},
		} {
			fmt.Fprintf(tw, "%s\t%s\n", kv[0], kv[1])
		}
		fmt.Fprintf(tw, "joined\t%s\n", p.JoinDate.Local().Format(dateTime))
		fmt.Fprintf(tw, "streak\t%d\n", p.StudyStreak)
	})
}

func renderStats(w io.Writer, s api.Stats) {
	fmt.Fprintf(w, "notes: %d  tasks: %d  completed: %d  pending: %d\n", s.TotalNotes, s.TotalTasks, s.CompletedTasks, s.PendingTasks)
}

func renderSummary(w io.Writer, s api.Summary) {
	fmt.Fprintf(w, "Welcome back, %s\n\n", s.Name)
	renderStats(w, s.Stats)
	fmt.Fprintln(w, "\nRecent notes:")
	if len(s.RecentNotes) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, n := range s.RecentNotes {
		fmt.Fprintf(w, "  %s (%s)\n", n.Title, n.Subject)
	}
	fmt.Fprintln(w, "\nPending tasks:")
	if len(s.PendingTasks) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, t := range s.PendingTasks {
		fmt.Fprint(w, "  ")
		renderAPITask(w, t)
	}
	fmt.Fprintln(w, "\nRecent activity:")
	renderActivity(w, s.RecentActivity)
}
