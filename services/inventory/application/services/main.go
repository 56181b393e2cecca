package services

import (
	"github.com/ghuser/stockkeeper/pkg/app"
	"github.com/ghuser/stockkeeper/pkg/cache"
	"github.com/ghuser/stockkeeper/services/inventory/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Inventory *InventoryService
}

// New wires the inventory engine with infrastructure from the Application
// container. extra is applied after the container-derived options.
func New(a *app.Application, extra ...Option) *Services {
	opts := []Option{}
	if a.Redis != nil {
		opts = append(opts, WithCache(cache.NewStockCache(a.Redis)))
	}
	if a.EventBus != nil {
		opts = append(opts, WithNotifier(NewNotifier(a.EventBus, a.Logger)))
	}
	opts = append(opts, extra...)
	store := postgres.NewStore(a.Db)
	return &Services{
		Inventory: NewInventoryService(store, a.Config.LockTimeout, a.Logger, opts...),
	}
}
