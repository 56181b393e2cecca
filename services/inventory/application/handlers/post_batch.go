package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/stockkeeper/pkg/auth"
	"github.com/ghuser/stockkeeper/pkg/httpx"
	pkgvalidator "github.com/ghuser/stockkeeper/pkg/validator"
	appsvcs "github.com/ghuser/stockkeeper/services/inventory/application/services"
	"github.com/ghuser/stockkeeper/services/inventory/domain/models"
)

// CreateBatchRequest is the request body for POST /batches.
type CreateBatchRequest struct {
	RecipeID string          `json:"recipe_id" validate:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Quantity decimal.Decimal `json:"quantity"  validate:"dec_gt0,dec_scale4" example:"50" swaggertype:"string"`
} // @name CreateBatchRequest

// ConsumptionResponse is one ingredient a batch consumed.
type ConsumptionResponse struct {
	IngredientID uuid.UUID       `json:"ingredient_id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Quantity     decimal.Decimal `json:"quantity"      example:"250" swaggertype:"string"`
	CostRate     decimal.Decimal `json:"cost_rate"     example:"7.25" swaggertype:"string"`
	Cost         decimal.Decimal `json:"cost"          example:"1812.5" swaggertype:"string"`
} // @name ConsumptionResponse

// BatchResponse describes a production batch.
type BatchResponse struct {
	ID           uuid.UUID             `json:"id"            example:"9b2f6c1e-0d1a-4d7e-8a53-2f0f1f6f9b11"`
	BatchNumber  string                `json:"batch_number"  example:"B-20250301-9B2F6C1E"`
	RecipeID     uuid.UUID             `json:"recipe_id"     example:"550e8400-e29b-41d4-a716-446655440000"`
	Quantity     decimal.Decimal       `json:"quantity"      example:"50" swaggertype:"string"`
	Remaining    decimal.Decimal       `json:"remaining"     example:"50" swaggertype:"string"`
	Cost         decimal.Decimal       `json:"cost"          example:"1812.5" swaggertype:"string"`
	UnitCost     decimal.Decimal       `json:"unit_cost"     example:"36.25" swaggertype:"string"`
	Status       models.BatchStatus    `json:"status"        example:"produced" swaggertype:"string"`
	Consumptions []ConsumptionResponse `json:"consumptions"`
	AuditID      uuid.UUID             `json:"audit_id"      example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
	CreatedAt    time.Time             `json:"created_at"    example:"2025-03-01T08:00:00Z"`
} // @name BatchResponse

// CreateProductionBatch produces a batch, consuming every recipe ingredient atomically.
//
//	@Summary		Create production batch
//	@Description	Locks every ingredient, checks all of them, then deducts, records traceability and audits in one transaction
//	@Tags			production
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateBatchRequest	true	"Production run"
//	@Success		201		{object}	BatchResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"lock timeout; retry"
//	@Failure		422		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/batches [post]
func (h *Handler) CreateProductionBatch(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateBatchRequest](w, r)
	if !ok {
		return
	}

	res, err := h.svc.Inventory.CreateProductionBatch(r.Context(), appsvcs.CreateBatchInput{
		RecipeID:   uuid.MustParse(req.RecipeID),
		Quantity:   req.Quantity,
		ProducedBy: auth.Actor(r.Context()),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	b := res.Batch
	lines := make([]ConsumptionResponse, len(res.Consumptions))
	for i, c := range res.Consumptions {
		lines[i] = ConsumptionResponse{
			IngredientID: c.IngredientID,
			Quantity:     c.Quantity,
			CostRate:     c.CostRate,
			Cost:         c.Cost,
		}
	}
	httpx.JSON(w, http.StatusCreated, BatchResponse{
		ID:           b.ID,
		BatchNumber:  b.BatchNumber,
		RecipeID:     b.RecipeID,
		Quantity:     b.Quantity,
		Remaining:    b.Remaining,
		Cost:         b.Cost,
		UnitCost:     b.UnitCost(),
		Status:       b.Status,
		Consumptions: lines,
		AuditID:      res.Audit.ID,
		CreatedAt:    b.CreatedAt,
	})
}
