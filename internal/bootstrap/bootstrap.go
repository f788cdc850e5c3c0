package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	hclog "github.com/hashicorp/go-hclog"

	analyticsinadapter "tempo/internal/modules/analytics/adapter/in"
	analyticsoutadapter "tempo/internal/modules/analytics/adapter/out"
	analyticsservice "tempo/internal/modules/analytics/service"
	analyticsusecase "tempo/internal/modules/analytics/usecase"
	reminderoutadapter "tempo/internal/modules/reminder/adapter/out"
	reminderdomain "tempo/internal/modules/reminder/domain"
	reminderin "tempo/internal/modules/reminder/port/in"
	reminderout "tempo/internal/modules/reminder/port/out"
	reminderservice "tempo/internal/modules/reminder/service"
	reminderusecase "tempo/internal/modules/reminder/usecase"
	trackerinadapter "tempo/internal/modules/tracker/adapter/in"
	trackeroutadapter "tempo/internal/modules/tracker/adapter/out"
	"tempo/internal/modules/tracker/dto"
	trackerin "tempo/internal/modules/tracker/port/in"
	trackerout "tempo/internal/modules/tracker/port/out"
	trackerservice "tempo/internal/modules/tracker/service"
	trackerusecase "tempo/internal/modules/tracker/usecase"
	"tempo/internal/platform/clock"
	"tempo/internal/platform/config"
	"tempo/internal/platform/id"
	"tempo/internal/platform/logging"
)

// Mode selects how the process hosts reminders.
type Mode int

const (
	// ModeCLI runs one command and exits. Reminders are not armed because
	// nothing would outlive the process to deliver them.
	ModeCLI Mode = iota
	// ModeDaemon delivers reminders for state written by other processes.
	// It reloads storage periodically and never writes it.
	ModeDaemon
	// ModeTUI owns the state for an interactive session and delivers
	// reminders into the dashboard.
	ModeTUI
)

type App struct {
	Config     config.Config
	Logger     hclog.Logger
	Clock      clock.Clock
	LoadReport dto.LoadReport

	Tracker   trackerin.Usecase
	Reminders reminderin.Usecase

	TrackerCLI   trackerinadapter.CLIHandler
	AnalyticsCLI analyticsinadapter.CLIHandler

	// Notices carries fired reminders in ModeTUI.
	Notices <-chan string

	closers []func() error
}

func New(ctx context.Context, cfg config.Config, mode Mode) (*App, error) {
	app := &App{Config: cfg}
	logger, err := app.newLogger(mode)
	if err != nil {
		return nil, err
	}
	app.Logger = logger

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	clk := clock.SystemClock{Loc: loc}
	app.Clock = clk
	ids := id.UUID{}

	blobs, err := app.openBlobStore()
	if err != nil {
		_ = app.closeAll()
		return nil, err
	}
	repo := trackeroutadapter.NewBlobRepository(blobs)
	if mode == ModeDaemon {
		repo = trackeroutadapter.NewReadOnlyRepository(repo)
	}

	notifier, err := app.newNotifier(mode)
	if err != nil {
		_ = app.closeAll()
		return nil, err
	}
	reminderUC := reminderusecase.NewInteractor(reminderservice.NewScheduler(clk, notifier, logger.Named("reminder")))

	trackerUC := trackerusecase.NewInteractor(
		trackerservice.NewStore(ids),
		repo,
		trackeroutadapter.NewReminderAdapter(reminderUC),
		clk,
		logger.Named("store"),
		cfg.DebounceWindow,
	)
	analyticsUC := analyticsusecase.NewInteractor(analyticsservice.NewEngine(clk, analyticsoutadapter.NewTrackerSource(trackerUC)))

	app.Tracker = trackerUC
	app.Reminders = reminderUC
	app.TrackerCLI = trackerinadapter.NewCLIHandler(trackerUC)
	app.AnalyticsCLI = analyticsinadapter.NewCLIHandler(analyticsUC)

	report, err := trackerUC.Load(ctx)
	if err != nil {
		_ = app.Close(ctx)
		return nil, fmt.Errorf("load state: %w", err)
	}
	app.LoadReport = report
	for _, msg := range report.Errors {
		logger.Warn("state loaded degraded", "error", msg)
	}

	if mode != ModeCLI && reminderUC.Supported() {
		if err := reminderUC.Setup(ctx); err != nil {
			logger.Warn("notification permission", "error", err)
		}
		if err := trackerUC.RescheduleAll(ctx); err != nil {
			logger.Warn("reschedule reminders", "error", err)
		}
	}
	return app, nil
}

// Close flushes pending writes and releases storage and notifier resources.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Tracker != nil {
		if err := a.Tracker.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush state: %w", err))
		}
	}
	if err := a.closeAll(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) closeAll() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) newLogger(mode Mode) (hclog.Logger, error) {
	var out io.Writer = os.Stderr
	if mode == ModeTUI {
		if err := os.MkdirAll(a.Config.StateDir, 0o755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(a.Config.StateDir, "tempo.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		a.closers = append(a.closers, f.Close)
		out = f
	}
	return logging.New(a.Config.LogLevel, out), nil
}

func (a *App) openBlobStore() (trackerout.BlobStore, error) {
	switch a.Config.StorageDriver {
	case config.StorageRedis:
		store, err := trackeroutadapter.NewRedisBlobStore(a.Config.RedisURL, a.Config.RedisKeyPrefix)
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	case config.StorageMemory:
		return trackeroutadapter.NewMemoryBlobStore(), nil
	default:
		store, err := trackeroutadapter.NewSQLiteBlobStore(a.Config.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	}
}

func (a *App) newNotifier(mode Mode) (reminderout.NotificationService, error) {
	if mode == ModeCLI {
		return reminderoutadapter.NewUnsupportedNotifier(), nil
	}
	switch a.Config.NotifierDriver {
	case config.NotifierNone:
		return reminderoutadapter.NewUnsupportedNotifier(), nil
	case config.NotifierPlugin:
		binary := a.Config.NotifierPlugin
		if !filepath.IsAbs(binary) {
			binary = filepath.Join(a.Config.DataDir, binary)
		}
		notifier := reminderoutadapter.NewPluginNotifier(binary, a.Logger.Named("notifier"))
		a.closers = append(a.closers, func() error { notifier.Close(); return nil })
		return notifier, nil
	default:
		notifier := reminderoutadapter.NewLocalNotifier(id.UUID{}, a.delivery(mode))
		a.closers = append(a.closers, func() error { notifier.Close(); return nil })
		return notifier, nil
	}
}

func (a *App) delivery(mode Mode) reminderoutadapter.Delivery {
	if mode != ModeTUI {
		return reminderoutadapter.WriterDelivery(os.Stdout, a.Logger.Named("notifier"))
	}
	notices := make(chan string, 16)
	a.Notices = notices
	logger := a.Logger.Named("notifier")
	return func(content reminderdomain.Content) {
		logger.Info("reminder fired", "title", content.Title, "body", content.Body)
		select {
		case notices <- content.Title + ": " + content.Body:
		default:
			logger.Warn("dropping reminder notice, dashboard is not reading")
		}
	}
}
