package main

import (
	"context"

	"github.com/ghuser/stockkeeper/migrations"
	"github.com/ghuser/stockkeeper/pkg/config"
	"github.com/ghuser/stockkeeper/pkg/migrator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := migrator.RunMigrations(context.Background(), cfg.DatabaseURL, migrations.Inventory()); err != nil {
		panic(err)
	}
}
