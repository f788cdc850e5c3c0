package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tempo/internal/bootstrap"
	"tempo/internal/daemon"
	"tempo/internal/platform/config"
	"tempo/internal/platform/timefmt"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "tempo",
		Short:         "Track activities, get reminders, and review your habits",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", defaultDataDir(), "data directory (holds .tempo/)")

	root.AddCommand(newActivityCmd(&dataDir))
	root.AddCommand(newTrackCmd(&dataDir))
	root.AddCommand(newStopCmd(&dataDir))
	root.AddCommand(newRecordCmd(&dataDir))
	root.AddCommand(newReminderCmd(&dataDir))
	root.AddCommand(newStatsCmd(&dataDir))
	root.AddCommand(newTrendsCmd(&dataDir))
	root.AddCommand(newHoursCmd(&dataDir))
	root.AddCommand(newSuggestCmd(&dataDir))
	root.AddCommand(newOverviewCmd(&dataDir))
	root.AddCommand(newExportCmd(&dataDir))
	root.AddCommand(newClearCmd(&dataDir))
	root.AddCommand(newDaemonCmd(&dataDir))
	root.AddCommand(newTUICmd(&dataDir))
	return root
}

// displayLoc is the configured timezone; stored times are UTC.
var displayLoc = time.Local

func stamp(t time.Time) string {
	return timefmt.DateTime(t.In(displayLoc))
}

func defaultDataDir() string {
	if dir := os.Getenv("TEMPO_DATA"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

func loadApp(ctx context.Context, dataDir string, mode bootstrap.Mode) (*bootstrap.App, error) {
	abs, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	cfg, err := config.Load(abs)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(ctx, cfg, mode)
}

// withApp runs fn against a one-shot app and always flushes pending writes.
// A persistence failure surfaces as the command's error.
func withApp(cmd *cobra.Command, dataDir string, fn func(ctx context.Context, app *bootstrap.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := loadApp(ctx, dataDir, bootstrap.ModeCLI)
	if err != nil {
		return err
	}
	displayLoc = app.Clock.Now().Location()
	runErr := fn(ctx, app)
	closeErr := app.Close(ctx)
	if last, ok := app.TrackerCLI.LastError(ctx); ok && runErr == nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", last.Kind, last.Message)
	}
	return errors.Join(runErr, closeErr)
}

func newDaemonCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Deliver reminders and serve /healthz and /metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			app, err := loadApp(ctx, *dataDir, bootstrap.ModeDaemon)
			if err != nil {
				return err
			}
			srv := daemon.New(app.Tracker, app.Reminders, app.Logger.Named("daemon"), app.Config.MetricsAddress, app.Config.ReloadInterval)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tempo daemon on http://%s (healthz, metrics)\n", app.Config.MetricsAddress)
			runErr := srv.Run(ctx)
			return errors.Join(runErr, app.Close(context.Background()))
		},
	}
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the tempo terminal dashboard",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()
			app, err := loadApp(ctx, *dataDir, bootstrap.ModeTUI)
			if err != nil {
				return err
			}
			runErr := bootstrap.RunTUI(app)
			return errors.Join(runErr, app.Close(ctx))
		},
	}
}
