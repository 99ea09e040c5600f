package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sandeepkv93/focusflow/internal/config"
	"github.com/sandeepkv93/focusflow/internal/logging"
	"github.com/sandeepkv93/focusflow/internal/session"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type app struct {
	configPath  string
	verbose     bool
	sessionOpts []session.Option
	// stderrLog sends logs to stderr instead of the log file; headless
	// commands use it with --verbose.
	stderrLog io.Writer
}

// NewRootCommand builds the focusflow command tree. Running it without a
// subcommand opens the TUI.
func NewRootCommand(version string) *cobra.Command {
	return newRootCmd(&app{}, version)
}

func newRootCmd(a *app, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "focusflow",
		Short: "FocusFlow - tasks, reminders and a daily recap in your terminal",
		Long: `FocusFlow tracks tasks across a dashboard, board, calendar and archive,
fires reminders, clears old archives and writes a daily recap of overdue work.

Quick Start:
  focusflow                         Launch the TUI (default)
  focusflow add "Write report" --due 2026-01-02 --at 09:30
  focusflow capture web             Turn an activity into a task
  focusflow report --copy           Copy today's report

Config: ~/.focusflow/config.yaml (FOCUSFLOW_* env overrides it)
Logs:   ~/.focusflow/focusflow.log`,
		Version:       version,
		RunE:          a.runTUI,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.DefaultPath(), "config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		a.addCmd(),
		a.listCmd(),
		a.doneCmd(),
		a.runCmd(),
		a.captureCmd(),
		a.reportCmd(),
		a.recapCmd(),
		a.sweepCmd(),
		a.configCmd(),
	)
	return root
}

// Execute runs the root command
func Execute(version string) error {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (a *app) loadConfig() (config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func (a *app) logger(cfg config.Config) (*logrus.Logger, io.Closer, error) {
	opts := logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Path: cfg.LogPath()}
	if a.stderrLog != nil {
		opts.Path = ""
		opts.Output = a.stderrLog
	}
	return logging.New(opts)
}

// withSession opens a session for one command and closes it afterwards.
// Housekeeping jobs are not started.
func (a *app) withSession(ctx context.Context, fn func(*session.Session) error) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	log, closer, err := a.logger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	s, err := session.Open(ctx, cfg, log, a.sessionOpts...)
	if err != nil {
		return err
	}
	runErr := fn(s)
	if err := s.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
