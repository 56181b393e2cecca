package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Watermill topics published after an inventory operation commits.
const (
	TopicStockLevelChanged = "inventory.stock_level_changed"
	TopicStockBelowMinimum = "inventory.stock_below_minimum"
	TopicBatchCreated      = "inventory.batch_created"
	TopicSaleFulfilled     = "inventory.sale_fulfilled"
)

// Topics lists every inventory topic, in the order the worker subscribes.
var Topics = []string{
	TopicStockLevelChanged,
	TopicStockBelowMinimum,
	TopicBatchCreated,
	TopicSaleFulfilled,
}

// Envelope carries the fields every inventory event shares.
type Envelope struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	OccurredAt time.Time `json:"occurred_at"`
}

// SchemaVersion is the current version of every inventory event payload.
const SchemaVersion = 1

// NewEnvelope stamps a fresh event id at the current schema version.
func NewEnvelope(at time.Time) Envelope {
	return Envelope{EventID: uuid.New(), Version: SchemaVersion, OccurredAt: at}
}

// StockLevelChangedEvent is published for every item whose quantity changed.
type StockLevelChangedEvent struct {
	Envelope
	ItemID           uuid.UUID       `json:"item_id"`
	Name             string          `json:"name"`
	Unit             string          `json:"unit"`
	OldQuantity      decimal.Decimal `json:"old_quantity"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	MinimumThreshold decimal.Decimal `json:"minimum_threshold"`
	OptimalThreshold decimal.Decimal `json:"optimal_threshold"`
	Cause            string          `json:"cause"` // audit action that caused the change
}

// StockBelowMinimumEvent is published when an item crosses from at-or-above
// its minimum threshold to below it.
type StockBelowMinimumEvent struct {
	Envelope
	ItemID           uuid.UUID       `json:"item_id"`
	Name             string          `json:"name"`
	Unit             string          `json:"unit"`
	Quantity         decimal.Decimal `json:"quantity"`
	MinimumThreshold decimal.Decimal `json:"minimum_threshold"`
	OptimalThreshold decimal.Decimal `json:"optimal_threshold"`
}

// BatchCreatedEvent is published after a production batch commits.
type BatchCreatedEvent struct {
	Envelope
	BatchID     uuid.UUID       `json:"batch_id"`
	BatchNumber string          `json:"batch_number"`
	RecipeID    uuid.UUID       `json:"recipe_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Cost        decimal.Decimal `json:"cost"`
	ProducedBy  uuid.NullUUID   `json:"produced_by"`
}

// SaleFulfilledEvent is published after a sale commits.
type SaleFulfilledEvent struct {
	Envelope
	SaleID    uuid.UUID       `json:"sale_id"`
	BatchID   uuid.UUID       `json:"batch_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Remaining decimal.Decimal `json:"remaining"`
	Depleted  bool            `json:"depleted"`
}
