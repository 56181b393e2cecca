package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/stockkeeper/services/inventory/domain/models"
	"github.com/ghuser/stockkeeper/services/inventory/domain/repositories"
)

// RecordAudit appends one audit entry through an open transaction. An error
// here must fail the enclosing operation.
func RecordAudit(
	ctx context.Context,
	tx repositories.Tx,
	actor uuid.NullUUID,
	action models.AuditAction,
	resourceType string,
	resourceID uuid.UUID,
	detail models.AuditDetail,
	at time.Time,
) (*models.AuditEntry, error) {
	payload, err := json.Marshal(detail)
	if err != nil {
		return nil, fmt.Errorf("marshal audit detail: %w", err)
	}
	entry := &models.AuditEntry{
		ID:           uuid.New(),
		ActorID:      actor,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Detail:       payload,
		CreatedAt:    at,
	}
	if err := tx.InsertAuditEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("insert audit entry: %w", err)
	}
	return entry, nil
}
