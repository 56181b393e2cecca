package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/stockkeeper/pkg/errhttp"
	"github.com/ghuser/stockkeeper/pkg/httpx"
	appsvcs "github.com/ghuser/stockkeeper/services/inventory/application/services"
	"github.com/ghuser/stockkeeper/services/inventory/domain/models"
)

// ErrorResponse is returned on all error responses.
type ErrorResponse = errhttp.ErrorResponse

// Handler carries what every inventory endpoint needs.
type Handler struct {
	svc          *appsvcs.Services
	isProduction bool
}

// New returns the inventory endpoints backed by svc. isProduction hides
// internal error messages from 5xx responses.
func New(svc *appsvcs.Services, isProduction bool) *Handler {
	return &Handler{svc: svc, isProduction: isProduction}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	errhttp.WriteError(w, r, err, h.isProduction)
}

// pathID parses the {id} URL parameter, writing a 400 when it is not a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "id must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

// optionalID parses an already validated optional UUID string.
func optionalID(s string) uuid.NullUUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: id, Valid: true}
}

// StockItemResponse is the public view of a stock level.
type StockItemResponse struct {
	ID               uuid.UUID       `json:"id"                example:"123e4567-e89b-12d3-a456-426614174000"`
	Name             string          `json:"name"              example:"Cocoa Butter"`
	Unit             string          `json:"unit"              example:"kg"`
	Quantity         decimal.Decimal `json:"quantity"          example:"200" swaggertype:"string"`
	MinimumThreshold decimal.Decimal `json:"minimum_threshold" example:"50" swaggertype:"string"`
	OptimalThreshold decimal.Decimal `json:"optimal_threshold" example:"400" swaggertype:"string"`
	BelowMinimum     bool            `json:"below_minimum"     example:"false"`
	UpdatedAt        time.Time       `json:"updated_at"        example:"2025-03-01T08:00:00Z"`
} // @name StockItemResponse

func stockItemResponse(item *models.StockItem) StockItemResponse {
	return StockItemResponse{
		ID:               item.ID,
		Name:             item.Name,
		Unit:             item.Unit,
		Quantity:         item.Quantity,
		MinimumThreshold: item.MinimumThreshold,
		OptimalThreshold: item.OptimalThreshold,
		BelowMinimum:     item.IsBelowMinimum(),
		UpdatedAt:        item.UpdatedAt,
	}
}
