package bootstrap

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	feedoutadapter "octowatch/internal/modules/feed/adapter/out"
	feedservice "octowatch/internal/modules/feed/service"
	feedusecase "octowatch/internal/modules/feed/usecase"
	notifyinadapter "octowatch/internal/modules/notify/adapter/in"
	notifyoutadapter "octowatch/internal/modules/notify/adapter/out"
	notifyout "octowatch/internal/modules/notify/port/out"
	notifyservice "octowatch/internal/modules/notify/service"
	notifyusecase "octowatch/internal/modules/notify/usecase"
	watchinadapter "octowatch/internal/modules/watch/adapter/in"
	watchoutadapter "octowatch/internal/modules/watch/adapter/out"
	watchservice "octowatch/internal/modules/watch/service"
	watchusecase "octowatch/internal/modules/watch/usecase"
	"octowatch/internal/platform/clock"
	"octowatch/internal/platform/config"
	"octowatch/internal/platform/id"
	"octowatch/internal/platform/logging"
	"octowatch/internal/platform/tx"
	uiapp "octowatch/internal/ui/app"
)

type App struct {
	Config    config.Config
	Log       *logging.Logger
	WatchCLI  watchinadapter.CLIHandler
	NotifyCLI notifyinadapter.CLIHandler
	Poller    *watchinadapter.Poller

	logFile *os.File
	history *notifyoutadapter.SQLiteHistoryStore
}

func New(cfg config.Config) (*App, error) {
	logFile, err := os.OpenFile(cfg.LogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log := logging.New(io.MultiWriter(os.Stderr, logFile))

	clk := clock.SystemClock{}
	ids := id.RandomHex{}

	history, err := notifyoutadapter.NewSQLiteHistoryStore(cfg.DBPath)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("new history store: %w", err)
	}

	var webhook notifyout.Sink
	if cfg.WebhookURL != "" {
		webhook = notifyoutadapter.NewWebhookSink(cfg.WebhookURL)
	}
	notifySvc := notifyservice.NewNotifyService(
		webhook,
		notifyoutadapter.NewFileManifestStore(cfg.OutputDir),
		notifyoutadapter.NewGRPCHost(),
		history,
		clk,
		ids,
		log,
		cfg.SourceURL,
	)
	notifyUC := notifyusecase.NewInteractor(notifySvc)

	feedSvc := feedservice.NewFeedService(feedoutadapter.NewHTTPFetcher(), cfg.SourceURL, log)
	feedUC := feedusecase.NewInteractor(feedSvc)

	sessionStore := watchoutadapter.NewFileSessionStore(cfg.OutputDir, log)
	reportStore := watchoutadapter.NewFileReportStore(cfg.OutputDir)
	watchUC := watchusecase.NewInteractor(
		watchservice.NewLifecycleService(notifyUC, log),
		watchservice.NewReconcileService(log),
		feedUC,
		sessionStore,
		reportStore,
		&tx.MutexManager{},
		clk,
		log,
	)

	return &App{
		Config:    cfg,
		Log:       log,
		WatchCLI:  watchinadapter.NewCLIHandler(watchUC),
		NotifyCLI: notifyinadapter.NewCLIHandler(notifyUC),
		Poller:    watchinadapter.NewPoller(watchUC, log),
		logFile:   logFile,
		history:   history,
	}, nil
}

func (a *App) Close() {
	if a.history != nil {
		_ = a.history.Close()
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.WatchCLI, app.NotifyCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
