package app

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/phoneshop-backend/internal/data/db"
	"github.com/yungbote/phoneshop-backend/internal/observability"
	"github.com/yungbote/phoneshop-backend/internal/pkg/logger"
)

var initOTel = observability.InitOTel

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics

	database     *db.DatabaseService
	otelShutdown func(context.Context) error
}

// New connects the database, migrates it, applies the catalog seed when one is
// configured and wires repos, aggregates and services.
func New(ctx context.Context, cfg Config) (*App, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	shutdown := initOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Otel.Enabled,
		ServiceName: cfg.Otel.ServiceName,
		Environment: cfg.Otel.Environment,
		Version:     cfg.Otel.Version,
	})
	metrics := observability.Init(log, cfg.MetricsNamespace)
	fail := func(database *db.DatabaseService, err error) (*App, error) {
		if database != nil {
			_ = database.Close()
		}
		if shutdownErr := shutdown(ctx); shutdownErr != nil {
			log.Warn("otel shutdown failed", "error", shutdownErr)
		}
		log.Sync()
		return nil, err
	}

	database, err := db.NewDatabaseService(cfg.Database, log)
	if err != nil {
		return fail(nil, fmt.Errorf("init database: %w", err))
	}
	theDB := database.DB()
	if err := db.AutoMigrateAll(theDB); err != nil {
		return fail(database, fmt.Errorf("automigrate: %w", err))
	}
	if cfg.CatalogSeedFile != "" {
		if _, err := db.SeedCatalogFile(ctx, theDB, log, cfg.CatalogSeedFile); err != nil {
			return fail(database, fmt.Errorf("seed catalog: %w", err))
		}
	}

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, reposet, metrics)
	if err != nil {
		return fail(database, err)
	}

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      metrics,
		database:     database,
		otelShutdown: shutdown,
	}, nil
}

func (a *App) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var errs []error
	if a.otelShutdown != nil {
		errs = append(errs, a.otelShutdown(ctx))
		a.otelShutdown = nil
	}
	if a.database != nil {
		errs = append(errs, a.database.Close())
		a.database = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
	return errors.Join(errs...)
}
