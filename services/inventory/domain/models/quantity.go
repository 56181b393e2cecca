package models

import "github.com/shopspring/decimal"

// QuantityScale is the number of decimal places the ledger stores for
// quantities, thresholds, rates and costs (NUMERIC(18,4)).
const QuantityScale = 4

// FitsScale reports whether d is stored exactly at QuantityScale.
func FitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(QuantityScale))
}

// ConsumedQuantity rounds a computed consumption up to the stored scale, so
// a positive requirement never rounds down to nothing.
func ConsumedQuantity(d decimal.Decimal) decimal.Decimal {
	return d.RoundCeil(QuantityScale)
}

// Money rounds a computed cost to the stored scale.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(QuantityScale)
}
