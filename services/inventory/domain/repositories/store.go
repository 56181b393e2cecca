package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/stockkeeper/services/inventory/domain/models"
)

// TxOptions configures one unit of work.
type TxOptions struct {
	// LockTimeout bounds each row-lock wait. Zero means wait until ctx is done.
	LockTimeout time.Duration
}

// RecipeReader is the read side used to resolve a bill of materials. Both
// Store and Tx satisfy it. Missing recipes are reported as (nil, nil).
type RecipeReader interface {
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	// ListRecipeLines returns the recipe's lines ordered by position.
	ListRecipeLines(ctx context.Context, recipeID uuid.UUID) ([]models.BOMLine, error)
}

// Store is the transactional stock ledger. The domain layer owns this
// interface; infrastructure implements it.
type Store interface {
	RecipeReader

	// WithinTx runs fn inside one transaction. The transaction commits when fn
	// returns nil and rolls back otherwise, releasing every row lock it holds.
	// A lock wait exceeding opts.LockTimeout fails with domain.ErrLockTimeout.
	WithinTx(ctx context.Context, opts TxOptions, fn func(ctx context.Context, tx Tx) error) error

	// GetStockItem reads the last committed state of an item without locking.
	// Returns (nil, nil) when the item does not exist.
	GetStockItem(ctx context.Context, id uuid.UUID) (*models.StockItem, error)
}

// Tx is the write path of the ledger, usable only inside Store.WithinTx.
type Tx interface {
	RecipeReader

	// LockStockItem takes an exclusive lock on the item row and returns its
	// current state, or (nil, nil) when the row does not exist. Soft-deleted
	// rows are returned as-is; callers decide what they mean.
	LockStockItem(ctx context.Context, id uuid.UUID) (*models.StockItem, error)
	// LockBatch is LockStockItem for a production batch.
	LockBatch(ctx context.Context, id uuid.UUID) (*models.ProductionBatch, error)

	InsertStockItem(ctx context.Context, item *models.StockItem) error
	UpdateStockQuantity(ctx context.Context, id uuid.UUID, quantity decimal.Decimal, at time.Time) error

	InsertBatch(ctx context.Context, batch *models.ProductionBatch) error
	UpdateBatchRemaining(ctx context.Context, id uuid.UUID, remaining decimal.Decimal, status models.BatchStatus, at time.Time) error
	InsertConsumptions(ctx context.Context, lines []models.BatchConsumption) error

	InsertSale(ctx context.Context, sale *models.Sale) error

	// InsertAuditEntry appends to the audit log. Entries are never updated.
	InsertAuditEntry(ctx context.Context, entry *models.AuditEntry) error
}
