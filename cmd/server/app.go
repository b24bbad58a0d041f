package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/workspace-api/internal/config"
	"github.com/phrazzld/workspace-api/internal/notify"
	"github.com/phrazzld/workspace-api/internal/platform/postgres"
	"github.com/phrazzld/workspace-api/internal/platform/remote"
	"github.com/phrazzld/workspace-api/internal/platform/slack"
	"github.com/phrazzld/workspace-api/internal/platform/sqlite"
	"github.com/phrazzld/workspace-api/internal/service"
	"github.com/phrazzld/workspace-api/internal/store"
)

// dispatcherStopTimeout bounds how long shutdown waits for queued
// notifications.
const dispatcherStopTimeout = 5 * time.Second

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	recordStore      store.RecordStore
	dispatcher       *notify.Dispatcher
	workspaceService service.WorkspaceService
}

// newApplication wires stores, the notification dispatcher, and the
// workspace service. The dispatcher is started; cleanup stops it.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	switch cfg.Database.Driver {
	case "postgres":
		app.recordStore = postgres.NewPostgresRecordStore(db, logger)
	case "sqlite":
		app.recordStore = sqlite.NewRecordStore(db, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	var opts service.Options
	opts.EnrichConcurrency = cfg.Enrichment.Concurrency
	if cfg.Enrichment.PeerURL != "" {
		client, err := remote.NewClient(
			cfg.Enrichment.PeerURL,
			&http.Client{Timeout: time.Duration(cfg.Enrichment.TimeoutSeconds) * time.Second},
			logger,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize peer lookup: %w", err)
		}
		opts.Lookup = client
		logger.Info("search enrichment delegated to peer")
	}

	var sender notify.Sender
	if cfg.Notify.WebhookURL != "" {
		webhook, err := slack.NewWebhookSender(cfg.Notify.WebhookURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize webhook sender: %w", err)
		}
		sender = webhook
	} else {
		logger.Warn("notify.webhook_url not set, notifications will be discarded")
	}

	app.dispatcher = notify.NewDispatcher(sender, notify.Config{
		QueueSize:     cfg.Notify.QueueSize,
		WorkerCount:   cfg.Notify.WorkerCount,
		RatePerSecond: cfg.Notify.RatePerSecond,
		Timeout:       time.Duration(cfg.Notify.TimeoutSeconds) * time.Second,
	}, logger)

	svc, err := service.NewWorkspaceService(app.recordStore, app.dispatcher, logger, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize workspace service: %w", err)
	}
	app.workspaceService = svc

	app.dispatcher.Start()
	return app, nil
}

// cleanup stops background work and releases the database.
func (app *application) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), dispatcherStopTimeout)
	defer cancel()

	if err := app.dispatcher.Stop(ctx); err != nil {
		app.logger.Warn("notification dispatcher did not drain", "error", err)
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
