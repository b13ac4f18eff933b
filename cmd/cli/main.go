// Command studysync is the command line client of the StudySync service.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/and161185/studysync/internal/client"
	"github.com/and161185/studysync/internal/errs"
	"github.com/and161185/studysync/internal/logging"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// app is the state shared by all subcommands of one process.
type app struct {
	server   string
	timeout  time.Duration
	asJSON   bool
	dir      string
	logLevel string
	// store defaults to a FileStore under dir.
	store    client.SessionStore

	log    *zap.Logger
	api    *client.Client
	router *client.Router
}

func (a *app) init() error {
	if a.router != nil {
		return nil
	}
	if a.dir == "" {
		a.dir = client.DefaultDir()
	}
	if a.log == nil {
		log, err := logging.New(a.logLevel, "console")
		if err != nil {
			return err
		}
		a.log = log
	}
	if a.store == nil {
		a.store = client.FileStore{Dir: a.dir}
	}
	a.api = client.New(a.server, a.timeout)
	r, err := client.NewRouter(a.api, a.store, a.log)
	if err != nil {
		return err
	}
	a.router = r
	return nil
}

// session returns the stored session or ErrNotAuthenticated.
func (a *app) session() (client.Session, error) {
	if !a.router.SignedIn() {
		return client.Session{}, fmt.Errorf("%w: run `studysync login` first", errs.ErrNotAuthenticated)
	}
	return a.router.Session(), nil
}

func (a *app) ctx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.timeout)
}

func (a *app) print(w io.Writer, v any, text func(io.Writer)) {
	if a.asJSON {
		printJSON(w, v)
		return
	}
	text(w)
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func readAll(in io.Reader, p string) ([]byte, error) {
	if p == "-" {
		return io.ReadAll(in)
	}
	return os.ReadFile(p)
}

func choose(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "studysync",
		Short:         "Notes, tasks and study resources from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
	}
	if a.server == "" {
		a.server = envOr("STUDYSYNC_SERVER", "http://localhost:8080")
	}
	if a.timeout == 0 {
		a.timeout = 30 * time.Second
	}
	if a.logLevel == "" {
		a.logLevel = envOr("STUDYSYNC_LOG_LEVEL", "warn")
	}
	root.PersistentFlags().StringVarP(&a.server, "server", "s", a.server, "StudySync server base URL")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", a.timeout, "request timeout")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", a.asJSON, "print raw JSON")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", a.logLevel, "diagnostics level written to stderr")

	root.AddCommand(
		versionCmd(),
		registerCmd(a), loginCmd(a), logoutCmd(a), resetPasswordCmd(a), meCmd(a), accountCmd(a),
		notesCmd(a), tasksCmd(a), resourcesCmd(a), profileCmd(a), homeCmd(a),
		shellCmd(a),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "studysync %s (%s)\n", version, buildDate)
		},
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&app{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
