package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditAction names the kind of committed mutation an AuditEntry records.
type AuditAction string

const (
	AuditStockItemCreated AuditAction = "stock_item.created"
	AuditStockAdjusted    AuditAction = "stock.adjusted"
	AuditBatchCreated     AuditAction = "batch.created"
	AuditSaleFulfilled    AuditAction = "sale.fulfilled"
)

// AuditDetail is the structured payload of an AuditEntry.
type AuditDetail struct {
	OldValue any    `json:"old_value,omitempty"`
	NewValue any    `json:"new_value,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// AuditEntry is an immutable record of one committed business operation.
// ActorID is invalid (null) for system actions.
type AuditEntry struct {
	ID           uuid.UUID
	ActorID      uuid.NullUUID
	Action       AuditAction
	ResourceType string
	ResourceID   uuid.UUID
	Detail       json.RawMessage
	CreatedAt    time.Time
}
