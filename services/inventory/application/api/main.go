package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/stockkeeper/pkg/app"
	"github.com/ghuser/stockkeeper/pkg/auth"
	"github.com/ghuser/stockkeeper/pkg/config"
	"github.com/ghuser/stockkeeper/services/inventory/application/handlers"
	appsvcs "github.com/ghuser/stockkeeper/services/inventory/application/services"
)

// InventoryRoutes registers stock, production and sales endpoints on the provided chi router.
func InventoryRoutes(r chi.Router, a *app.Application) {
	h := handlers.New(appsvcs.New(a), a.Config.Environment == config.EnvProduction)
	r.Get("/stock-items/{id}", h.GetStockItem)

	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(a.SessionStore, a.Logger, a.Config.RequireAuth))
		r.Post("/stock-items", h.CreateStockItem)
		r.Post("/stock-items/{id}/adjustments", h.AdjustStock)
		r.Post("/batches", h.CreateProductionBatch)
		r.Post("/batches/{id}/sales", h.FulfillSale)
	})
}
