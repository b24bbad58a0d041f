package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/workspace-api/internal/config"
	"github.com/phrazzld/workspace-api/internal/platform/logger"
	"github.com/phrazzld/workspace-api/internal/platform/migrations"
	"github.com/spf13/cobra"
)

// newRootCommand builds the workspace-api command tree. Running the root
// command without a subcommand starts the server.
func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "workspace-api",
		Short:         "Workspace directory service",
		Long:          `Serves workspace lookup, search, and notification endpoints over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "",
		"path to a YAML config file (default ./config.yaml when present)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}

	migrate := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply, roll back, or report database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{migrations.CommandUp, migrations.CommandDown, migrations.CommandStatus},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := migrations.CommandUp
			if len(args) == 1 {
				command = args[0]
			}
			return runMigrate(cmd.Context(), configPath, command)
		},
	}

	root.AddCommand(serve, migrate)
	return root
}

// loadConfigAndLogger loads configuration and installs the configured
// logger as the process default.
func loadConfigAndLogger(configPath string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"developer_mode", cfg.Server.DeveloperMode,
		"database_driver", cfg.Database.Driver,
		"peer_enrichment", cfg.Enrichment.PeerURL != "",
		"webhook_configured", cfg.Notify.WebhookURL != "")
	return cfg, log, nil
}

func runServe(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, err := loadConfigAndLogger(configPath)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		return err
	}

	if err := migrations.Up(ctx, db, cfg.Database.Driver, log); err != nil {
		log.Error("failed to apply migrations", "error", err)
		_ = db.Close()
		return err
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		_ = db.Close()
		return err
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}

func runMigrate(ctx context.Context, configPath, command string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, log, err := loadConfigAndLogger(configPath)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Warn("failed to close database", "error", cerr)
		}
	}()

	return migrations.Run(ctx, db, cfg.Database.Driver, command, log)
}
