package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/learnhub/lms-backend/internal/db"
	"github.com/learnhub/lms-backend/internal/pkg/logger"
)

type App struct {
	cfg      *Config
	log      *logger.Logger
	server   *http.Server
	services *serviceSet
}

func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pg, err := db.NewPostgresService(log, db.PostgresConfig{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		Name:     cfg.PostgresName,
	})
	if err != nil {
		return nil, err
	}
	if err := pg.AutoMigrateAll(); err != nil {
		return nil, err
	}

	repoSet := wireRepos(pg.DB(), log)
	serviceSet, err := wireServices(ctx, cfg, pg.DB(), log, repoSet)
	if err != nil {
		return nil, err
	}
	handlerSet := wireHandlers(cfg, log, serviceSet)
	middlewareSet := wireMiddleware(cfg, log, serviceSet)
	router := wireRouter(cfg, log, handlerSet, middlewareSet)

	if err := serviceSet.users.EnsureSuperAdmin(ctx, cfg.SuperAdminEmail, cfg.SuperAdminPassword); err != nil {
		log.Error("failed to seed super admin", "error", err)
	}

	return &App{
		cfg: cfg,
		log: log,
		server: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		services: serviceSet,
	}, nil
}

func (a *App) Run() error {
	a.log.Info("server listening", "addr", a.server.Addr, "mode", a.cfg.Mode)
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.log.Info("shutting down")
	if a.services.uploader != nil {
		if err := a.services.uploader.Close(); err != nil {
			a.log.Warn("failed to close uploader", "error", err)
		}
	}
	return a.server.Shutdown(ctx)
}
