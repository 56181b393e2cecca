package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchStatus is the lifecycle state of a ProductionBatch.
type BatchStatus string

const (
	BatchStatusProduced BatchStatus = "produced"
	BatchStatusDepleted BatchStatus = "depleted"
)

// ProductionBatch is one production run. Quantity and Cost are fixed at
// creation; Remaining is the finished quantity still available for sale.
type ProductionBatch struct {
	ID          uuid.UUID
	BatchNumber string
	RecipeID    uuid.UUID
	Quantity    decimal.Decimal
	Remaining   decimal.Decimal
	Cost        decimal.Decimal // snapshot of consumed quantity x cost rate at production time
	ProducedBy  uuid.NullUUID
	Status      BatchStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProductionBatch constructs a batch whose remaining quantity equals what was produced.
func NewProductionBatch(recipeID uuid.UUID, quantity, cost decimal.Decimal, producedBy uuid.NullUUID, now time.Time) *ProductionBatch {
	id := uuid.New()
	return &ProductionBatch{
		ID:          id,
		BatchNumber: BatchNumber(id, now),
		RecipeID:    recipeID,
		Quantity:    quantity,
		Remaining:   quantity,
		Cost:        cost,
		ProducedBy:  producedBy,
		Status:      BatchStatusProduced,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// BatchNumber formats the human-facing batch number: B-YYYYMMDD-XXXXXXXX.
func BatchNumber(id uuid.UUID, at time.Time) string {
	short := strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
	return fmt.Sprintf("B-%s-%s", at.UTC().Format("20060102"), short)
}

// UnitCost is the batch cost divided over the produced quantity.
func (b *ProductionBatch) UnitCost() decimal.Decimal {
	if b.Quantity.IsZero() {
		return decimal.Zero
	}
	return b.Cost.DivRound(b.Quantity, 4)
}

// BatchConsumption is the traceability line recording what a batch actually
// consumed of one ingredient, independent of later recipe edits.
type BatchConsumption struct {
	ID           uuid.UUID
	BatchID      uuid.UUID
	IngredientID uuid.UUID
	Quantity     decimal.Decimal
	CostRate     decimal.Decimal
	Cost         decimal.Decimal
	CreatedAt    time.Time
}
