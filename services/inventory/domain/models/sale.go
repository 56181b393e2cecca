package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale records finished goods taken out of a ProductionBatch.
type Sale struct {
	ID       uuid.UUID
	BatchID  uuid.UUID
	Quantity decimal.Decimal
	SellerID uuid.NullUUID
	BuyerID  uuid.NullUUID
	SoldAt   time.Time
}

func NewSale(batchID uuid.UUID, quantity decimal.Decimal, seller, buyer uuid.NullUUID, now time.Time) *Sale {
	return &Sale{
		ID:       uuid.New(),
		BatchID:  batchID,
		Quantity: quantity,
		SellerID: seller,
		BuyerID:  buyer,
		SoldAt:   now,
	}
}
