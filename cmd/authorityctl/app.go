package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/localauth/pkg/authority"
	"github.com/doodlesbykumbi/localauth/pkg/config"
	"github.com/doodlesbykumbi/localauth/pkg/db"
	"github.com/doodlesbykumbi/localauth/pkg/logging"
)

// app wires the configured store, logger and metrics for a command
type app struct {
	cfg      *config.AuthorityConfig
	logger   *slog.Logger
	db       *gorm.DB
	store    *authority.GormStore
	registry *prometheus.Registry
	metrics  *authority.Metrics
}

func loadConfig(cmd *cobra.Command) (*config.AuthorityConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.New(cfg.LogLevel, os.Stderr)

	database, err := db.Connect(db.Config{LogLevel: cfg.LogLevel})
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		db:     database,
		store: authority.NewGormStore(database, authority.StoreOptions{
			BulkInsert: cfg.UseBulkInsert(),
			BatchSize:  cfg.HarvestBatchSize,
		}),
	}

	if cfg.MetricsEnabled {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		if a.metrics, err = authority.NewMetrics(a.registry); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return a, nil
}

func (a *app) harvester(atomic bool) *authority.Harvester {
	return authority.NewHarvester(a.store,
		authority.WithOpener(authority.NewSourceOpener(a.cfg.SourceTimeout())),
		authority.WithLogger(a.logger),
		authority.WithMetrics(a.metrics),
		authority.WithAtomic(atomic),
	)
}

func (a *app) vocabularies() *authority.Registry {
	return authority.NewRegistry(a.store, a.logger)
}

func (a *app) resolver() *authority.Resolver {
	return authority.NewResolver(a.store,
		authority.WithSubjectTerm(a.cfg.SubjectTerm),
		authority.WithLookupMetrics(a.metrics),
	)
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
