package handlers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/stockkeeper/pkg/auth"
	"github.com/ghuser/stockkeeper/pkg/httpx"
	pkgvalidator "github.com/ghuser/stockkeeper/pkg/validator"
	"github.com/ghuser/stockkeeper/services/inventory/domain/models"
)

// CreateStockItemRequest is the request body for POST /stock-items.
type CreateStockItemRequest struct {
	Name             string          `json:"name"              validate:"required,min=1,max=255" example:"Cocoa Butter"`
	Unit             string          `json:"unit"              validate:"required,max=32"        example:"kg"`
	Quantity         decimal.Decimal `json:"quantity"          validate:"dec_gte0,dec_scale4"    example:"200" swaggertype:"string"`
	MinimumThreshold decimal.Decimal `json:"minimum_threshold" validate:"dec_gte0,dec_scale4"    example:"50" swaggertype:"string"`
	OptimalThreshold decimal.Decimal `json:"optimal_threshold" validate:"dec_gte0,dec_scale4"    example:"400" swaggertype:"string"`
	CostRate         decimal.Decimal `json:"cost_rate"         validate:"dec_gte0,dec_scale4"    example:"7.25" swaggertype:"string"`
	ExpiresAt        *time.Time      `json:"expires_at,omitempty"                                example:"2026-01-31T00:00:00Z"`
} // @name CreateStockItemRequest

// CreateStockItem records a new stock item with its opening quantity.
//
//	@Summary		Create stock item
//	@Description	Takes a new ingredient or material into stock and audits the intake
//	@Tags			stock
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateStockItemRequest	true	"Stock item intake"
//	@Success		201		{object}	StockItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/stock-items [post]
func (h *Handler) CreateStockItem(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateStockItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Inventory.CreateStockItem(r.Context(), auth.Actor(r.Context()), models.NewStockItemParams{
		Name:             req.Name,
		Quantity:         req.Quantity,
		MinimumThreshold: req.MinimumThreshold,
		OptimalThreshold: req.OptimalThreshold,
		Unit:             req.Unit,
		CostRate:         req.CostRate,
		ExpiresAt:        req.ExpiresAt,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	httpx.Created(w, r, item.ID.String(), stockItemResponse(item))
}
