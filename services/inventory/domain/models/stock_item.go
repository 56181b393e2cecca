package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItem is one trackable ingredient or material in the stock ledger.
// Quantity is never negative at a commit boundary and only changes through
// the inventory business operations.
type StockItem struct {
	ID               uuid.UUID
	Name             string
	Quantity         decimal.Decimal
	MinimumThreshold decimal.Decimal
	OptimalThreshold decimal.Decimal
	Unit             string
	CostRate         decimal.Decimal // cost per unit of measure
	ExpiresAt        *time.Time
	DeletedAt        *time.Time // soft-delete marker
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewStockItemParams holds the intake attributes of a new StockItem.
type NewStockItemParams struct {
	Name             string
	Quantity         decimal.Decimal
	MinimumThreshold decimal.Decimal
	OptimalThreshold decimal.Decimal
	Unit             string
	CostRate         decimal.Decimal
	ExpiresAt        *time.Time
}

// NewStockItem constructs a StockItem from intake parameters.
func NewStockItem(p NewStockItemParams, now time.Time) (*StockItem, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, fmt.Errorf("stock item name must not be empty")
	}
	if strings.TrimSpace(p.Unit) == "" {
		return nil, fmt.Errorf("stock item unit must not be empty")
	}
	if p.Quantity.IsNegative() {
		return nil, fmt.Errorf("initial quantity must not be negative")
	}
	if p.MinimumThreshold.IsNegative() || p.OptimalThreshold.IsNegative() {
		return nil, fmt.Errorf("thresholds must not be negative")
	}
	if p.OptimalThreshold.LessThan(p.MinimumThreshold) {
		return nil, fmt.Errorf("optimal threshold must be at least the minimum threshold")
	}
	if p.CostRate.IsNegative() {
		return nil, fmt.Errorf("cost rate must not be negative")
	}
	for _, v := range []decimal.Decimal{p.Quantity, p.MinimumThreshold, p.OptimalThreshold, p.CostRate} {
		if !FitsScale(v) {
			return nil, fmt.Errorf("%s has more than %d decimal places", v, QuantityScale)
		}
	}

	return &StockItem{
		ID:               uuid.New(),
		Name:             name,
		Quantity:         p.Quantity,
		MinimumThreshold: p.MinimumThreshold,
		OptimalThreshold: p.OptimalThreshold,
		Unit:             strings.TrimSpace(p.Unit),
		CostRate:         p.CostRate,
		ExpiresAt:        p.ExpiresAt,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// IsDeleted reports whether the item has been soft-deleted.
func (s *StockItem) IsDeleted() bool {
	return s.DeletedAt != nil
}

// IsBelowMinimum reports whether the current quantity is under the minimum threshold.
func (s *StockItem) IsBelowMinimum() bool {
	return s.Quantity.LessThan(s.MinimumThreshold)
}

// CrossesBelowMinimum reports whether moving from old to the item's current
// quantity takes it from at-or-above the minimum threshold to below it.
func (s *StockItem) CrossesBelowMinimum(old decimal.Decimal) bool {
	return !old.LessThan(s.MinimumThreshold) && s.IsBelowMinimum()
}
