package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/stockkeeper/pkg/auth"
	"github.com/ghuser/stockkeeper/pkg/httpx"
	pkgvalidator "github.com/ghuser/stockkeeper/pkg/validator"
	appsvcs "github.com/ghuser/stockkeeper/services/inventory/application/services"
)

// AdjustStockRequest is the request body for POST /stock-items/{id}/adjustments.
type AdjustStockRequest struct {
	Delta  decimal.Decimal `json:"delta"  validate:"dec_nonzero,dec_scale4"   example:"-30" swaggertype:"string"`
	Reason string          `json:"reason" validate:"required,min=1,max=500"   example:"spoilage"`
} // @name AdjustStockRequest

// AdjustStockResponse reports the stock level after an adjustment.
type AdjustStockResponse struct {
	Item        StockItemResponse `json:"item"`
	OldQuantity decimal.Decimal   `json:"old_quantity" example:"100" swaggertype:"string"`
	AuditID     uuid.UUID         `json:"audit_id"     example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
} // @name AdjustStockResponse

// AdjustStock applies a signed manual correction to one stock item.
//
//	@Summary		Adjust stock
//	@Description	Adds or removes quantity under an exclusive row lock; never leaves a negative level
//	@Tags			stock
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Stock item ID"	format(uuid)
//	@Param			request	body		AdjustStockRequest	true	"Adjustment"
//	@Success		200		{object}	AdjustStockResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"lock timeout; retry"
//	@Failure		422		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/stock-items/{id}/adjustments [post]
func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[AdjustStockRequest](w, r)
	if !ok {
		return
	}

	res, err := h.svc.Inventory.AdjustStock(r.Context(), appsvcs.AdjustStockInput{
		ItemID: id,
		Delta:  req.Delta,
		Reason: req.Reason,
		Actor:  auth.Actor(r.Context()),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, AdjustStockResponse{
		Item:        stockItemResponse(res.Item),
		OldQuantity: res.OldQuantity,
		AuditID:     res.Audit.ID,
	})
}
