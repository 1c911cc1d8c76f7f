// Package cmd contains all CLI commands for adminctl
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/juju/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/alt-project/adminctl/internal/admin"
	"github.com/alt-project/adminctl/internal/config"
	"github.com/alt-project/adminctl/internal/domain"
	"github.com/alt-project/adminctl/internal/gateway"
	"github.com/alt-project/adminctl/internal/interaction"
	"github.com/alt-project/adminctl/internal/logger"
	"github.com/alt-project/adminctl/internal/metrics"
	"github.com/alt-project/adminctl/internal/output"
	"github.com/alt-project/adminctl/internal/resource"
	"github.com/alt-project/adminctl/internal/session"
)

var version = "dev"

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

// app holds everything one adminctl process shares between commands. The
// shell reuses a single app for every line it runs.
type app struct {
	// global flags
	cfgFile   string
	verbose   bool
	baseURL   string
	ephemeral bool
	colorMode string
	quiet     bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg     *config.Config
	clock   clock.Clock
	storage session.Storage
	prompt  prompter

	ready    bool
	logger   *slog.Logger
	printer  *output.Printer
	metrics  *metrics.Collector
	store    *session.Store
	client   *gateway.Client
	engine   *resource.Engine
	console  *admin.Console
	auth     *admin.Authenticator
	notes    *interaction.Notifications
	screens  *interaction.Screens
	closers  []func() error
	jsonMode bool
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{stdin: stdin, stdout: stdout, stderr: stderr}
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context) int {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	defer a.close()

	err := newRootCmd(a).ExecuteContext(ctx)
	if err == nil {
		return output.ExitSuccess
	}
	cliErr := output.FromError(err)
	a.errorPrinter().FormatError(cliErr)
	return cliErr.ExitCode
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "adminctl",
		Short: "Admin console for the rewards backend",
		Long: `adminctl manages users, campaigns, channels, gift codes, API keys,
withdrawals, screenshots and settings of the rewards backend.

Example usage:
  adminctl login                     # Sign in and persist the session
  adminctl dashboard                 # Show summary counters
  adminctl withdrawals list --status pending
  adminctl screenshots approve --all # Approve every pending screenshot
  adminctl shell                     # Interactive shell with a shared cache`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context())
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is .adminctl.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&a.baseURL, "base-url", "", "backend base URL (overrides api.base_url)")
	flags.BoolVar(&a.ephemeral, "ephemeral", false, "keep the session in memory only")
	flags.StringVar(&a.colorMode, "color", "auto", "color output: auto, always, or never")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "suppress informational output")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newDashboardCmd(a),
		newUsersCmd(a),
		newCampaignsCmd(a),
		newChannelsCmd(a),
		newGiftCodesCmd(a),
		newAPIKeysCmd(a),
		newWithdrawalsCmd(a),
		newScreenshotsCmd(a),
		newSettingsCmd(a),
		newCacheCmd(a),
		newShellCmd(a),
		newVersionCmd(),
	)
	return root
}

// init builds the shared state once. Later calls only refresh the printer so
// that per-command flags like --color take effect inside the shell.
func (a *app) init(ctx context.Context) error {
	if a.cfg == nil {
		cfg, err := config.Load(a.cfgFile)
		if err != nil {
			return &output.CLIError{
				Summary:    "loading config failed",
				Detail:     err.Error(),
				Suggestion: "Check .adminctl.yaml syntax or use --config flag",
				ExitCode:   output.ExitConfigError,
				Err:        err,
			}
		}
		a.cfg = cfg
	}
	if a.baseURL != "" {
		a.cfg.API.BaseURL = a.baseURL
	}

	mode, err := output.ParseColorMode(a.colorMode)
	if err != nil {
		return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitUsageError, Err: err}
	}
	a.printer = output.NewPrinterWithOptions(output.PrinterOptions{
		ColorMode:    mode,
		ConfigColors: a.cfg.Output.Colors,
		Quiet:        a.quiet,
		Out:          a.stdout,
		Err:          a.stderr,
	})

	if a.ready {
		return nil
	}

	level := a.cfg.Logging.Level
	if a.verbose {
		level = "debug"
	}
	a.logger = logger.New(logger.Options{Level: level, Format: a.cfg.Logging.Format, Writer: a.stderr})

	if a.clock == nil {
		a.clock = clock.WallClock
	}
	a.metrics = metrics.NewCollector(prometheus.NewRegistry())

	if a.storage == nil {
		storage, err := a.openStorage()
		if err != nil {
			return &output.CLIError{
				Summary:  "opening session storage failed",
				Detail:   err.Error(),
				ExitCode: output.ExitConfigError,
				Err:      err,
			}
		}
		a.storage = storage
	}
	a.store = session.New(a.storage, a.logger)
	a.store.Restore(ctx)

	a.client = gateway.New(gateway.Config{
		BaseURL: a.cfg.API.BaseURL,
		Timeout: a.cfg.API.Timeout,
		Metrics: a.metrics,
	}, a.store, a.logger)

	stale := admin.DefaultStaleWindows()
	for t, d := range a.cfg.Cache.Stale {
		if !admin.IsType(t) {
			a.logger.Warn("ignoring staleness window for unknown type", "type", t)
			continue
		}
		stale[t] = d
	}
	a.engine = resource.NewEngine(resource.Options{
		Clock:      a.clock,
		MaxEntries: a.cfg.Cache.MaxEntries,
		Stale:      stale,
		Dependents: admin.Dependents(),
		Metrics:    a.metrics,
		Logger:     a.logger,
	})
	a.closers = append(a.closers, func() error { a.engine.Close(); return nil })

	a.console = admin.NewConsole(a.client, a.engine)
	a.auth = admin.NewAuthenticator(a.client, a.store, a.engine, a.logger)
	a.notes = interaction.NewNotifications(a.clock,
		interaction.WithCapacity(a.cfg.Notifications.Capacity),
		interaction.WithDuration(a.cfg.Notifications.Duration),
		interaction.OnPush(a.announce),
	)
	a.screens = interaction.NewScreens(a.console, a.notes)
	a.ready = true

	a.logger.Debug("configuration loaded",
		"base_url", a.cfg.API.BaseURL,
		"session_backend", a.sessionBackend(),
		"authenticated", a.store.Current().Authenticated,
	)
	return nil
}

func (a *app) sessionBackend() string {
	if a.ephemeral {
		return config.BackendMemory
	}
	return a.cfg.Session.Backend
}

func (a *app) openStorage() (session.Storage, error) {
	switch a.sessionBackend() {
	case config.BackendMemory:
		return session.NewMemoryStorage(), nil
	case config.BackendRedis:
		rs, err := session.NewRedisStorage(a.cfg.Session.RedisURL, a.cfg.Session.Name, a.cfg.Session.TTL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rs.Close)
		return rs, nil
	default:
		return session.NewFileStorage(a.cfg.Session.Path), nil
	}
}

// announce prints a notification as it is pushed. JSON output stays machine
// readable, so success notifications are suppressed there.
func (a *app) announce(n interaction.Notification) {
	if a.printer == nil {
		return
	}
	switch n.Level {
	case interaction.LevelFailure:
		a.printer.Error("%s", n.Text)
	default:
		if !a.jsonMode {
			a.printer.Success("%s", n.Text)
		}
	}
}

func (a *app) errorPrinter() *output.Printer {
	if a.printer != nil {
		return a.printer
	}
	return output.NewPrinterWithOptions(output.PrinterOptions{ColorMode: output.ColorNever, Out: a.stdout, Err: a.stderr})
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.logger != nil {
			a.logger.Debug("close failed", "error", err)
		}
	}
	a.closers = nil
}

// requireSession fails fast when no session is stored.
func (a *app) requireSession() error {
	if !a.store.Current().Authenticated {
		return domain.ErrNotAuthenticated
	}
	return nil
}

// settle turns a view into a command result: a load error with nothing to
// show fails the command, a load error over older data is a warning.
func settle[T any](a *app, v interaction.View[T]) error {
	if v.Err == nil {
		return nil
	}
	if !v.HasData {
		return fmt.Errorf("%s %w", v.ErrText, v.Err)
	}
	a.printer.Warning("%s Showing data from %s.", v.ErrText, v.FetchedAt.Format("15:04:05"))
	return nil
}

// newGroupCmd builds a parent command whose subcommands need a session.
func newGroupCmd(a *app, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.init(cmd.Context()); err != nil {
				return err
			}
			return a.requireSession()
		},
	}
}

func addJSONFlag(cmd *cobra.Command, a *app) {
	cmd.Flags().BoolVar(&a.jsonMode, "json", false, "output as JSON")
}

var errCancelled = errors.New("cancelled")
