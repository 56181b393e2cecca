package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/ghuser/stockkeeper/pkg/app"
	"github.com/ghuser/stockkeeper/pkg/cache"
	"github.com/ghuser/stockkeeper/pkg/config"
	"github.com/ghuser/stockkeeper/pkg/database"
	"github.com/ghuser/stockkeeper/pkg/events"
	"github.com/ghuser/stockkeeper/pkg/logger"
	appsvcs "github.com/ghuser/stockkeeper/services/inventory/application/services"
	"github.com/ghuser/stockkeeper/services/inventory/domain/models"
	"github.com/ghuser/stockkeeper/services/inventory/infrastructure/persistence/postgres"
)

// recipeStore persists recipes with their bill of materials.
type recipeStore interface {
	SaveRecipe(ctx context.Context, recipe *models.Recipe, lines []models.BOMLine) error
}

// backend is what a command runs against.
type backend struct {
	Engine  *appsvcs.InventoryService
	Recipes recipeStore
	DB      *database.Database // nil when the backend is not PostgreSQL
	closers []func() error
}

// Close releases everything the backend opened, last opened first.
func (b *backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	return errors.Join(errs...)
}

type opener func(ctx context.Context) (*backend, error)

// engineOptions apply to every engine the CLI builds. The process exits as
// soon as a command returns, so cache refreshes must not outlive the call.
var engineOptions = []appsvcs.Option{appsvcs.WithSyncCacheRefresh()}

// openPostgres connects to the ledger named by the environment. Redis and
// the event bus are attached when reachable so the read model stays warm.
func openPostgres(ctx context.Context) (*backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg)

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	b := &backend{DB: pool, closers: []func() error{pool.Close}}
	a := &app.Application{Config: cfg, Db: pool, Logger: log}

	if bus, err := events.NewEventBus(pool.DB(), cfg, log); err != nil {
		log.Warn("event bus unavailable, changes will not be published", "error", err)
	} else {
		a.EventBus = bus
		b.closers = append(b.closers, bus.Close)
	}
	if rdb, err := cache.NewRedisClient(cfg); err != nil {
		log.Warn("redis unavailable, reads go to the ledger", "error", err)
	} else {
		a.Redis = rdb
		b.closers = append(b.closers, rdb.Close)
	}

	b.Engine = appsvcs.New(a, engineOptions...).Inventory
	b.Recipes = postgres.NewStore(pool)
	return b, nil
}
