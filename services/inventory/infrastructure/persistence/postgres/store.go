package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/stockkeeper/pkg/database"
	"github.com/ghuser/stockkeeper/services/inventory/domain"
	"github.com/ghuser/stockkeeper/services/inventory/domain/models"
	"github.com/ghuser/stockkeeper/services/inventory/domain/repositories"
	"github.com/ghuser/stockkeeper/services/inventory/infrastructure/persistence/postgres/db"
)

// Store implements repositories.Store against PostgreSQL. Row locks are taken
// with SELECT ... FOR UPDATE and bounded by a transaction-local lock_timeout.
type Store struct {
	db *database.Database
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(database *database.Database) *Store {
	return &Store{db: database}
}

// WithinTx runs fn in a read-committed transaction with lock_timeout set from opts.
func (s *Store) WithinTx(ctx context.Context, opts repositories.TxOptions, fn func(ctx context.Context, tx repositories.Tx) error) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		if opts.LockTimeout > 0 {
			if err := q.SetLockTimeout(ctx, strconv.FormatInt(opts.LockTimeout.Milliseconds(), 10)); err != nil {
				return fmt.Errorf("set lock timeout: %w", err)
			}
		}
		return fn(ctx, &pgTx{q: q})
	})
}

// GetStockItem reads the committed state of an item. Returns (nil, nil) when absent.
func (s *Store) GetStockItem(ctx context.Context, id uuid.UUID) (*models.StockItem, error) {
	row, err := db.New(s.db.DB()).GetStockItem(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query stock item: %w", err)
	}
	return rowToStockItem(row), nil
}

func (s *Store) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	return getRecipe(ctx, db.New(s.db.DB()), id)
}

func (s *Store) ListRecipeLines(ctx context.Context, recipeID uuid.UUID) ([]models.BOMLine, error) {
	return listRecipeLines(ctx, db.New(s.db.DB()), recipeID)
}

// SaveRecipe inserts a recipe together with its bill-of-materials lines.
// Recipes are maintained outside the engine; this exists for seeding and tooling.
func (s *Store) SaveRecipe(ctx context.Context, recipe *models.Recipe, lines []models.BOMLine) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		if err := q.InsertRecipe(ctx, db.InsertRecipeParams{
			ID:         recipe.ID,
			Name:       recipe.Name,
			OutputUnit: recipe.OutputUnit,
			CreatedAt:  recipe.CreatedAt,
		}); err != nil {
			if database.HasCode(err, database.CodeUniqueViolation) {
				return fmt.Errorf("recipe %s already exists: %w", recipe.ID, domain.ErrInvalidRecipe)
			}
			return fmt.Errorf("insert recipe: %w", err)
		}
		for _, l := range lines {
			if err := q.InsertRecipeLine(ctx, db.InsertRecipeLineParams{
				RecipeID:        recipe.ID,
				Position:        int32(l.Position),
				IngredientID:    l.IngredientID,
				QuantityPerUnit: l.QuantityPerUnit,
			}); err != nil {
				return fmt.Errorf("insert recipe line %d: %w", l.Position, err)
			}
		}
		return nil
	})
}

// AuditCount returns how many audit entries reference resourceID.
func (s *Store) AuditCount(ctx context.Context, resourceID uuid.UUID) (int, error) {
	n, err := db.New(s.db.DB()).CountAuditEntriesByResource(ctx, resourceID)
	if err != nil {
		return 0, fmt.Errorf("count audit entries: %w", err)
	}
	return int(n), nil
}

// pgTx is the repositories.Tx of one database transaction.
type pgTx struct {
	q *db.Queries
}

func (t *pgTx) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	return getRecipe(ctx, t.q, id)
}

func (t *pgTx) ListRecipeLines(ctx context.Context, recipeID uuid.UUID) ([]models.BOMLine, error) {
	return listRecipeLines(ctx, t.q, recipeID)
}

func (t *pgTx) LockStockItem(ctx context.Context, id uuid.UUID) (*models.StockItem, error) {
	row, err := t.q.LockStockItem(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, lockErr("stock item", id, err)
	}
	return rowToStockItem(row), nil
}

func (t *pgTx) LockBatch(ctx context.Context, id uuid.UUID) (*models.ProductionBatch, error) {
	row, err := t.q.LockBatch(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, lockErr("batch", id, err)
	}
	return rowToBatch(row), nil
}

func (t *pgTx) InsertStockItem(ctx context.Context, item *models.StockItem) error {
	if err := t.q.InsertStockItem(ctx, db.InsertStockItemParams{
		ID:               item.ID,
		Name:             item.Name,
		Quantity:         item.Quantity,
		MinimumThreshold: item.MinimumThreshold,
		OptimalThreshold: item.OptimalThreshold,
		Unit:             item.Unit,
		CostRate:         item.CostRate,
		ExpiresAt:        nullTime(item.ExpiresAt),
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
	}); err != nil {
		if database.HasCode(err, database.CodeCheckViolation) {
			return fmt.Errorf("insert stock item: %w: %w", domain.ErrInvalidStockItem, err)
		}
		return fmt.Errorf("insert stock item: %w", err)
	}
	return nil
}

func (t *pgTx) UpdateStockQuantity(ctx context.Context, id uuid.UUID, quantity decimal.Decimal, at time.Time) error {
	if err := t.q.UpdateStockQuantity(ctx, db.UpdateStockQuantityParams{
		ID:        id,
		Quantity:  quantity,
		UpdatedAt: at,
	}); err != nil {
		return fmt.Errorf("update stock quantity: %w", err)
	}
	return nil
}

func (t *pgTx) InsertBatch(ctx context.Context, batch *models.ProductionBatch) error {
	if err := t.q.InsertBatch(ctx, db.InsertBatchParams{
		ID:          batch.ID,
		BatchNumber: batch.BatchNumber,
		RecipeID:    batch.RecipeID,
		Quantity:    batch.Quantity,
		Remaining:   batch.Remaining,
		Cost:        batch.Cost,
		ProducedBy:  batch.ProducedBy,
		Status:      string(batch.Status),
		CreatedAt:   batch.CreatedAt,
		UpdatedAt:   batch.UpdatedAt,
	}); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

func (t *pgTx) UpdateBatchRemaining(ctx context.Context, id uuid.UUID, remaining decimal.Decimal, status models.BatchStatus, at time.Time) error {
	if err := t.q.UpdateBatchRemaining(ctx, db.UpdateBatchRemainingParams{
		ID:        id,
		Remaining: remaining,
		Status:    string(status),
		UpdatedAt: at,
	}); err != nil {
		return fmt.Errorf("update batch remaining: %w", err)
	}
	return nil
}

func (t *pgTx) InsertConsumptions(ctx context.Context, lines []models.BatchConsumption) error {
	for _, c := range lines {
		if err := t.q.InsertConsumption(ctx, db.InsertConsumptionParams{
			ID:           c.ID,
			BatchID:      c.BatchID,
			IngredientID: c.IngredientID,
			Quantity:     c.Quantity,
			CostRate:     c.CostRate,
			Cost:         c.Cost,
			CreatedAt:    c.CreatedAt,
		}); err != nil {
			return fmt.Errorf("insert consumption for %s: %w", c.IngredientID, err)
		}
	}
	return nil
}

func (t *pgTx) InsertSale(ctx context.Context, sale *models.Sale) error {
	if err := t.q.InsertSale(ctx, db.InsertSaleParams{
		ID:       sale.ID,
		BatchID:  sale.BatchID,
		Quantity: sale.Quantity,
		SellerID: sale.SellerID,
		BuyerID:  sale.BuyerID,
		SoldAt:   sale.SoldAt,
	}); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (t *pgTx) InsertAuditEntry(ctx context.Context, entry *models.AuditEntry) error {
	if err := t.q.InsertAuditEntry(ctx, db.InsertAuditEntryParams{
		ID:           entry.ID,
		ActorID:      entry.ActorID,
		Action:       string(entry.Action),
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Detail:       entry.Detail,
		CreatedAt:    entry.CreatedAt,
	}); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func getRecipe(ctx context.Context, q *db.Queries, id uuid.UUID) (*models.Recipe, error) {
	row, err := q.GetRecipe(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query recipe: %w", err)
	}
	return &models.Recipe{
		ID:         row.ID,
		Name:       row.Name,
		OutputUnit: row.OutputUnit,
		DeletedAt:  timePtr(row.DeletedAt),
		CreatedAt:  row.CreatedAt,
	}, nil
}

func listRecipeLines(ctx context.Context, q *db.Queries, recipeID uuid.UUID) ([]models.BOMLine, error) {
	rows, err := q.ListRecipeLines(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("query recipe lines: %w", err)
	}
	lines := make([]models.BOMLine, len(rows))
	for i, row := range rows {
		lines[i] = models.BOMLine{
			RecipeID:        row.RecipeID,
			Position:        int(row.Position),
			IngredientID:    row.IngredientID,
			QuantityPerUnit: row.QuantityPerUnit,
		}
	}
	return lines, nil
}

// lockErr turns a lock_timeout cancellation into domain.ErrLockTimeout.
func lockErr(what string, id uuid.UUID, err error) error {
	if database.HasCode(err, database.CodeLockNotAvailable) {
		return fmt.Errorf("lock %s %s: %w", what, id, domain.ErrLockTimeout)
	}
	return fmt.Errorf("lock %s %s: %w", what, id, err)
}

func rowToStockItem(row db.StockItem) *models.StockItem {
	return &models.StockItem{
		ID:               row.ID,
		Name:             row.Name,
		Quantity:         row.Quantity,
		MinimumThreshold: row.MinimumThreshold,
		OptimalThreshold: row.OptimalThreshold,
		Unit:             row.Unit,
		CostRate:         row.CostRate,
		ExpiresAt:        timePtr(row.ExpiresAt),
		DeletedAt:        timePtr(row.DeletedAt),
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

func rowToBatch(row db.ProductionBatch) *models.ProductionBatch {
	return &models.ProductionBatch{
		ID:          row.ID,
		BatchNumber: row.BatchNumber,
		RecipeID:    row.RecipeID,
		Quantity:    row.Quantity,
		Remaining:   row.Remaining,
		Cost:        row.Cost,
		ProducedBy:  row.ProducedBy,
		Status:      models.BatchStatus(row.Status),
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
