// Package cli defines the pubbench command tree.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pubbench/pubbench/pkg/config"
)

// app carries the configuration and logger through the command tree
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

// Execute runs the pubbench command tree with signal-driven cancellation
func Execute(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{cfg: cfg}
	return a.newRootCmd().ExecuteContext(ctx)
}

func (a *app) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pubbench",
		Short:         "MQTT publish/subscribe measurement harness",
		Long:          "pubbench connects to an MQTT broker and either publishes synthetic\npayloads at a fixed cadence for a bounded duration, prints messages\nfrom subscribed topics, or opens an interactive session.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			a.logger = newLogger(a.cfg.LogLevel)
			slog.SetDefault(a.logger)
			return nil
		},
	}

	a.cfg.RegisterConnectionFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		a.newPubCmd(),
		a.newSubCmd(),
		a.newShellCmd(),
		a.newHistoryCmd(),
	)

	return cmd
}

func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
