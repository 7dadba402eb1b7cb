package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhcgn/spool-pager/cmd"
	"github.com/dhcgn/spool-pager/config"
	"github.com/dhcgn/spool-pager/session"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "spool-pager [USER]",
		Short:        "Page through local mail spool files in the terminal",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(c, args)
			if err != nil {
				return err
			}

			logger, cleanup, err := setupLogger(cfg, os.Stderr)
			if err != nil {
				return err
			}
			defer func() {
				_ = cleanup()
			}()

			slog.SetDefault(logger)
			logger.Info("starting spool-pager", "path", cfg.MailPath, "user", cfg.User, "format", cfg.Format)

			return run(cfg, logger, c.OutOrStdout())
		},
	}

	if err := config.RegisterFlags(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register CLI flags: %v\n", err)
		os.Exit(1)
	}
	rootCmd.AddCommand(cmd.NewStatsCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger, out io.Writer) error {
	store, collector, err := cmd.LoadStore(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("mail loaded", collector.Snapshot().LogAttrs()...)

	state, err := session.Page(store, session.Options{
		DecodeHeaders: cfg.DecodeHeaders,
		Logger:        logger,
	})
	if errors.Is(err, session.ErrNoMail) {
		fmt.Fprintln(out, "No mail.")
		return nil
	}
	if err != nil {
		return err
	}

	logger.Debug("session finished", "message", state.Message+1, "line", state.Line)
	return nil
}

// setupLogger builds the process logger. With a log directory the logs go to
// a file only, since the terminal is owned by the pager while it runs.
func setupLogger(cfg config.Config, stderr io.Writer) (*slog.Logger, func() error, error) {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)

	switch cfg.LogLevel {
	case "debug":
		level.Set(slog.LevelDebug)
	case "info":
		level.Set(slog.LevelInfo)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	}

	opts := &slog.HandlerOptions{Level: level}
	cleanup := func() error { return nil }

	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
			return nil, cleanup, err
		}

		logFilePath := filepath.Join(cfg.LogDir, fmt.Sprintf("spool-pager-%s.log", time.Now().Format("20060102T150405")))
		file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, cleanup, err
		}

		cleanup = func() error {
			return file.Close()
		}
		return slog.New(slog.NewTextHandler(file, opts)), cleanup, nil
	}

	return slog.New(slog.NewTextHandler(stderr, opts)), cleanup, nil
}
