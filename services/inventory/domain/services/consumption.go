// Package services contains stateless domain services for the inventory
// bounded context. They operate purely on domain types: callers load and lock
// rows, these functions decide, callers persist.
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/stockkeeper/services/inventory/domain"
	"github.com/ghuser/stockkeeper/services/inventory/domain/models"
)

// ItemLookup returns a locked stock row, or false when the row does not exist.
type ItemLookup func(id uuid.UUID) (*models.StockItem, bool)

// ConsumptionLine is what one ingredient contributes to a batch.
type ConsumptionLine struct {
	Item        *models.StockItem
	Needed      decimal.Decimal
	OldQuantity decimal.Decimal
	NewQuantity decimal.Decimal
	CostRate    decimal.Decimal
	Cost        decimal.Decimal
}

// ConsumptionPlan is a fully validated set of deductions for one batch.
type ConsumptionPlan struct {
	Lines     []ConsumptionLine // one per distinct ingredient, in recipe order
	TotalCost decimal.Decimal
}

// PlanConsumption validates every bill-of-materials line against the locked
// stock rows before anything is deducted. Lines naming the same ingredient are
// summed. The first ingredient (in recipe order) that is missing, soft-deleted
// or short fails the whole plan, so callers either apply every line or none.
// Cost uses the rate held by the locked row. Per-ingredient requirements are
// rounded up to the stored scale and costs are rounded half away from zero.
func PlanConsumption(lines []models.BOMLine, quantity decimal.Decimal, lookup ItemLookup) (*ConsumptionPlan, error) {
	if !quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	if !models.FitsScale(quantity) {
		return nil, scaleError(quantity)
	}

	order := make([]uuid.UUID, 0, len(lines))
	needed := make(map[uuid.UUID]decimal.Decimal, len(lines))
	for _, l := range lines {
		if _, seen := needed[l.IngredientID]; !seen {
			order = append(order, l.IngredientID)
			needed[l.IngredientID] = decimal.Zero
		}
		needed[l.IngredientID] = needed[l.IngredientID].Add(l.QuantityPerUnit.Mul(quantity))
	}
	for id, n := range needed {
		needed[id] = models.ConsumedQuantity(n)
	}

	// Pass 1: validate all.
	for _, id := range order {
		item, ok := lookup(id)
		if !ok || item.IsDeleted() {
			return nil, domain.NewNotFoundError(domain.ResourceStockItem, id)
		}
		if item.Quantity.LessThan(needed[id]) {
			return nil, &domain.InsufficientStockError{
				Resource:  domain.ResourceStockItem,
				ID:        id,
				Name:      item.Name,
				Unit:      item.Unit,
				Needed:    needed[id],
				Available: item.Quantity,
			}
		}
	}

	// Pass 2: compute the deductions.
	plan := &ConsumptionPlan{Lines: make([]ConsumptionLine, 0, len(order)), TotalCost: decimal.Zero}
	for _, id := range order {
		item, _ := lookup(id)
		cost := models.Money(needed[id].Mul(item.CostRate))
		plan.Lines = append(plan.Lines, ConsumptionLine{
			Item:        item,
			Needed:      needed[id],
			OldQuantity: item.Quantity,
			NewQuantity: item.Quantity.Sub(needed[id]),
			CostRate:    item.CostRate,
			Cost:        cost,
		})
		plan.TotalCost = plan.TotalCost.Add(cost)
	}
	return plan, nil
}

// ApplyAdjustment returns the quantity an item would hold after delta, or an
// InvalidAdjustmentError when the result would be negative.
func ApplyAdjustment(item *models.StockItem, delta decimal.Decimal) (decimal.Decimal, error) {
	if !models.FitsScale(delta) {
		return decimal.Zero, scaleError(delta)
	}
	next := item.Quantity.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, &domain.InvalidAdjustmentError{
			ItemID:  item.ID,
			Name:    item.Name,
			Unit:    item.Unit,
			Current: item.Quantity,
			Delta:   delta,
		}
	}
	return next, nil
}

// ApplySale returns the batch's remaining quantity after selling quantity, or
// an InsufficientStockError naming the batch.
func ApplySale(batch *models.ProductionBatch, quantity decimal.Decimal) (decimal.Decimal, models.BatchStatus, error) {
	if !quantity.IsPositive() {
		return decimal.Zero, "", domain.ErrInvalidQuantity
	}
	if !models.FitsScale(quantity) {
		return decimal.Zero, "", scaleError(quantity)
	}
	if batch.Remaining.LessThan(quantity) {
		return decimal.Zero, "", &domain.InsufficientStockError{
			Resource:  domain.ResourceBatch,
			ID:        batch.ID,
			Name:      "batch " + batch.BatchNumber,
			Needed:    quantity,
			Available: batch.Remaining,
		}
	}
	remaining := batch.Remaining.Sub(quantity)
	status := batch.Status
	if remaining.IsZero() {
		status = models.BatchStatusDepleted
	}
	return remaining, status, nil
}

func scaleError(q decimal.Decimal) error {
	return fmt.Errorf("%w: %s has more than %d decimal places", domain.ErrInvalidQuantity, q, models.QuantityScale)
}
