package cmd

import (
	"context"
	"fmt"

	"tour-admin/core/config"
	"tour-admin/core/database"
	"tour-admin/core/lock"
	"tour-admin/core/logger"
	"tour-admin/core/storage"
	"tour-admin/feature/tour"
	"tour-admin/feature/tour/ai"
	"tour-admin/feature/tour/english"
	"tour-admin/feature/tour/store"
	"tour-admin/feature/tour/tourapi"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// application bundles the dependencies shared by the commands.
type application struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	storage storage.Client
	catalog *tourapi.Client
	service *tour.Service
}

// bootstrap loads configuration and wires the tour service. The database is
// required; object storage, redis and the AI generator are optional.
func bootstrap(ctx context.Context) (*application, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	app := &application{cfg: cfg, logger: logg, db: db}

	opts := tour.Options{
		Store:         store.New(db),
		Config:        cfg.Sync,
		Logger:        logg,
		Bucket:        cfg.Storage.Bucket,
		ArchivePrefix: cfg.Storage.ArchivePrefix,
	}

	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		app.storage = client
		opts.Archive = client
	} else {
		logg.Warn("Object storage disabled, orphans are deleted without an archive")
	}

	if cfg.Redis.Enabled {
		locker, err := lock.Dial(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		opts.Locker = locker
		logg.Info("Using redis locks", zap.String("addr", cfg.Redis.Addr))
	}

	if cfg.TourAPI.ServiceKey == "" {
		logg.Warn("TourAPI service key is empty, catalog requests will be rejected")
	}
	app.catalog = tourapi.NewClient(cfg.TourAPI, logg)
	opts.Catalog = app.catalog

	if cfg.AI.Enabled {
		opts.Generator = ai.NewClient(cfg.AI, logg)
	}

	equivalences, err := english.LoadEquivalences(cfg.Sync.EquivalencesFile)
	if err != nil {
		return nil, err
	}
	opts.Matcher = english.DefaultChain(equivalences)

	app.service = tour.NewService(opts)
	return app, nil
}
