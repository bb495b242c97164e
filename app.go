package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"

	"policyqa/internal/config"
	"policyqa/internal/database"
	"policyqa/internal/events"
	"policyqa/internal/qa"
	"policyqa/internal/repositories"
	"policyqa/internal/services"
	"policyqa/internal/utils"
)

// App wires configuration, storage, and services for the CLI commands.
type App struct {
	ctx     context.Context
	cfg     config.Config
	dbClose func() error

	Client   qa.Client
	History  services.ChatHistoryService
	Session  services.SessionService
	Settings services.AppSettingsService
}

// NewApp creates a new App application struct
func NewApp(cfg config.Config) *App {
	return &App{cfg: cfg}
}

// startup opens the database and constructs every service. The context is
// saved so commands can hand it to blocking operations.
func (a *App) startup(ctx context.Context) error {
	a.ctx = ctx

	if err := utils.EnsureParentDir(a.cfg.DBPath); err != nil {
		return fmt.Errorf("prepare db directory: %w", err)
	}

	db, err := database.Init(database.Config{
		Path:     a.cfg.DBPath,
		LogLevel: logger.Warn,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	// Capture DB close for graceful shutdown
	if sqlDB, err := db.DB(); err == nil {
		a.dbClose = sqlDB.Close
	}

	kvRepo := repositories.NewKVRepository(db)

	a.Client = qa.NewClient(a.cfg.ServiceURL)
	a.History = services.NewChatHistoryService(kvRepo)
	a.Session = services.NewSessionService(a.Client, a.History)
	a.Settings = services.NewAppSettingsService(kvRepo)

	a.History.Startup(ctx)
	a.Session.Startup(ctx)
	a.Settings.Startup(ctx)

	events.EnableLogEmitter()

	return nil
}

// shutdown releases held resources. Safe to call more than once.
func (a *App) shutdown() {
	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			log.Warn().Err(err).Msg("failed to close database")
		}
		a.dbClose = nil
	}
}
