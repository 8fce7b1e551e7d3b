package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"bizops/internal/config"
	"bizops/internal/core"
	"bizops/internal/services"
)

// Options configure a command tree. Zero values read the environment and
// write to the process streams.
type Options struct {
	Out    io.Writer
	Err    io.Writer
	Config func() *config.Config
	App    AppOptions
}

// env is the state every subcommand shares for one invocation.
type env struct {
	opts    Options
	cfg     *config.Config
	app     *services.App
	cleanup func() error

	backend string
	dbPath  string
}

// Execute runs the bizops command tree with args and closes whatever the
// invocation opened, whether or not the command succeeded.
func Execute(ctx context.Context, args []string, opts Options) error {
	root, e := newRootCommand(opts)
	root.SetArgs(args)
	defer e.close()
	return root.ExecuteContext(ctx)
}

func newRootCommand(opts Options) (*cobra.Command, *env) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Config == nil {
		opts.Config = func() *config.Config {
			LoadEnvFile()
			return config.Load()
		}
	}
	e := &env{opts: opts}

	root := &cobra.Command{
		Use:           "bizops",
		Short:         "Bookings, wallets, expenses and reports for a travel agency",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return e.open(cmd.Context())
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)
	root.PersistentFlags().StringVar(&e.backend, "backend", "", "Storage backend (memory|sqlite), overrides DATA_BACKEND")
	root.PersistentFlags().StringVar(&e.dbPath, "db", "", "SQLite database path, overrides SQLITE_DB_PATH")

	root.AddCommand(newBookingCmd(e), newWalletCmd(e), newExpenseCmd(e), newReportCmd(e))
	return root, e
}

func (e *env) open(ctx context.Context) error {
	cfg := e.opts.Config()
	if e.backend != "" {
		cfg.DataBackend = e.backend
	}
	if e.dbPath != "" {
		cfg.SQLiteDBPath = e.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := SetupLogger(e.opts.Err, cfg.LogLevel)

	app, cleanup, err := OpenApp(ctx, cfg, logger, e.opts.App)
	if err != nil {
		return err
	}
	e.cfg, e.app, e.cleanup = cfg, app, cleanup
	return nil
}

func (e *env) close() {
	if e.cleanup != nil {
		_ = e.cleanup()
		e.cleanup = nil
	}
}

func (e *env) table() *tabwriter.Writer {
	return tabwriter.NewWriter(e.opts.Out, 0, 0, 2, ' ', 0)
}

func (e *env) printf(format string, args ...any) {
	fmt.Fprintf(e.opts.Out, format, args...)
}

// now is the current instant in the report timezone.
func (e *env) now() time.Time {
	clock := e.opts.App.Clock
	if clock == nil {
		clock = core.SystemClock{}
	}
	return clock.Now().In(e.cfg.Location())
}

// parseDate reads YYYY-MM-DD in the report timezone; empty means today.
func (e *env) parseDate(s string) (time.Time, error) {
	if s == "" {
		return e.now(), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, e.cfg.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
