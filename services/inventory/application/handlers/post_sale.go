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

// FulfillSaleRequest is the request body for POST /batches/{id}/sales.
type FulfillSaleRequest struct {
	Quantity decimal.Decimal `json:"quantity"           validate:"dec_gt0,dec_scale4"  example:"10" swaggertype:"string"`
	BuyerID  string          `json:"buyer_id,omitempty" validate:"omitempty,uuid" example:"5f8d0d55-b6a4-4c0b-8d6f-1f0a9b7e2c33"`
} // @name FulfillSaleRequest

// SaleResponse reports a recorded sale and what is left of its batch.
type SaleResponse struct {
	ID          uuid.UUID          `json:"id"           example:"0a6f3d2c-5e1b-4f8a-9c7d-3b2a1e0f9d8c"`
	BatchID     uuid.UUID          `json:"batch_id"     example:"9b2f6c1e-0d1a-4d7e-8a53-2f0f1f6f9b11"`
	Quantity    decimal.Decimal    `json:"quantity"     example:"10" swaggertype:"string"`
	Remaining   decimal.Decimal    `json:"remaining"    example:"40" swaggertype:"string"`
	BatchStatus models.BatchStatus `json:"batch_status" example:"produced" swaggertype:"string"`
	AuditID     uuid.UUID          `json:"audit_id"     example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
	SoldAt      time.Time          `json:"sold_at"      example:"2025-03-01T09:15:00Z"`
} // @name SaleResponse

// FulfillSale takes finished goods out of a batch.
//
//	@Summary		Fulfill sale
//	@Description	Decrements a batch's remaining quantity under its row lock and records the sale
//	@Tags			production
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Batch ID"	format(uuid)
//	@Param			request	body		FulfillSaleRequest	true	"Sale"
//	@Success		201		{object}	SaleResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"lock timeout; retry"
//	@Failure		422		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/batches/{id}/sales [post]
func (h *Handler) FulfillSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[FulfillSaleRequest](w, r)
	if !ok {
		return
	}

	res, err := h.svc.Inventory.FulfillSale(r.Context(), appsvcs.FulfillSaleInput{
		BatchID:  id,
		Quantity: req.Quantity,
		SellerID: auth.Actor(r.Context()),
		BuyerID:  optionalID(req.BuyerID),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, SaleResponse{
		ID:          res.Sale.ID,
		BatchID:     res.Sale.BatchID,
		Quantity:    res.Sale.Quantity,
		Remaining:   res.Batch.Remaining,
		BatchStatus: res.Batch.Status,
		AuditID:     res.Audit.ID,
		SoldAt:      res.Sale.SoldAt,
	})
}
