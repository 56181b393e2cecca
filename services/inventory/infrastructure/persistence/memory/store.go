// Package memory implements the inventory ledger in process memory. Row locks
// are exclusive and held until the owning transaction ends; writes are staged
// on the transaction and applied together at commit. It backs the engine test
// suites and local tooling that runs without PostgreSQL.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/stockkeeper/services/inventory/domain"
	"github.com/ghuser/stockkeeper/services/inventory/domain/models"
	"github.com/ghuser/stockkeeper/services/inventory/domain/repositories"
)

// Op names a Tx method for fault injection.
type Op string

const (
	OpLockStockItem       Op = "LockStockItem"
	OpLockBatch           Op = "LockBatch"
	OpInsertStockItem     Op = "InsertStockItem"
	OpUpdateStockQuantity Op = "UpdateStockQuantity"
	OpInsertBatch         Op = "InsertBatch"
	OpUpdateBatch         Op = "UpdateBatchRemaining"
	OpInsertConsumptions  Op = "InsertConsumptions"
	OpInsertSale          Op = "InsertSale"
	OpInsertAuditEntry    Op = "InsertAuditEntry"
	OpCommit              Op = "Commit"
)

// Store is an in-memory repositories.Store.
type Store struct {
	mu           sync.Mutex
	items        map[uuid.UUID]models.StockItem
	recipes      map[uuid.UUID]models.Recipe
	lines        map[uuid.UUID][]models.BOMLine
	batches      map[uuid.UUID]models.ProductionBatch
	consumptions []models.BatchConsumption
	sales        []models.Sale
	audit        []models.AuditEntry
	faults       map[Op]error

	lockMu sync.Mutex
	locks  map[uuid.UUID]chan struct{}
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		items:   make(map[uuid.UUID]models.StockItem),
		recipes: make(map[uuid.UUID]models.Recipe),
		lines:   make(map[uuid.UUID][]models.BOMLine),
		batches: make(map[uuid.UUID]models.ProductionBatch),
		faults:  make(map[Op]error),
		locks:   make(map[uuid.UUID]chan struct{}),
	}
}

// InjectFault makes every later call of op fail with err. A nil err clears it.
func (s *Store) InjectFault(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

func (s *Store) fault(op Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faults[op]
}

// PutStockItem writes an item directly, bypassing the engine. Used for
// seeding and for edits owned by intake management (cost rate changes).
func (s *Store) PutStockItem(item models.StockItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
}

// PutRecipe stores a recipe with its bill of materials.
func (s *Store) PutRecipe(recipe models.Recipe, lines ...models.BOMLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes[recipe.ID] = recipe
	sorted := append([]models.BOMLine(nil), lines...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })
	s.lines[recipe.ID] = sorted
}

// PutBatch stores a production batch directly.
func (s *Store) PutBatch(batch models.ProductionBatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[batch.ID] = batch
}

// Batch returns the committed state of a batch.
func (s *Store) Batch(id uuid.UUID) (models.ProductionBatch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batches[id]
	return b, ok
}

// Batches returns every committed batch.
func (s *Store) Batches() []models.ProductionBatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ProductionBatch, 0, len(s.batches))
	for _, b := range s.batches {
		out = append(out, b)
	}
	return out
}

// Consumptions returns every committed traceability line.
func (s *Store) Consumptions() []models.BatchConsumption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.BatchConsumption(nil), s.consumptions...)
}

// Sales returns every committed sale.
func (s *Store) Sales() []models.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Sale(nil), s.sales...)
}

// AuditEntries returns the audit log in append order.
func (s *Store) AuditEntries() []models.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AuditEntry(nil), s.audit...)
}

// GetStockItem implements repositories.Store.
func (s *Store) GetStockItem(_ context.Context, id uuid.UUID) (*models.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

// GetRecipe implements repositories.RecipeReader.
func (s *Store) GetRecipe(_ context.Context, id uuid.UUID) (*models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipes[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

// ListRecipeLines implements repositories.RecipeReader.
func (s *Store) ListRecipeLines(_ context.Context, recipeID uuid.UUID) ([]models.BOMLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.BOMLine(nil), s.lines[recipeID]...), nil
}

// WithinTx implements repositories.Store.
func (s *Store) WithinTx(ctx context.Context, opts repositories.TxOptions, fn func(ctx context.Context, tx repositories.Tx) error) error {
	tx := &memTx{
		store:   s,
		opts:    opts,
		held:    make(map[uuid.UUID]struct{}),
		items:   make(map[uuid.UUID]models.StockItem),
		batches: make(map[uuid.UUID]models.ProductionBatch),
	}
	defer tx.release()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.commit()
}

func (s *Store) lockChan(id uuid.UUID) chan struct{} {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	ch, ok := s.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[id] = ch
	}
	return ch
}

// memTx stages writes until commit. Rows it has locked are owned exclusively,
// so staged copies cannot be invalidated by another transaction.
type memTx struct {
	store *Store
	opts  repositories.TxOptions
	held  map[uuid.UUID]struct{}

	items        map[uuid.UUID]models.StockItem
	batches      map[uuid.UUID]models.ProductionBatch
	consumptions []models.BatchConsumption
	sales        []models.Sale
	audit        []models.AuditEntry
}

func (t *memTx) lock(ctx context.Context, id uuid.UUID) error {
	if _, ok := t.held[id]; ok {
		return nil
	}
	ch := t.store.lockChan(id)

	var timeout <-chan time.Time
	if t.opts.LockTimeout > 0 {
		timer := time.NewTimer(t.opts.LockTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case ch <- struct{}{}:
		t.held[id] = struct{}{}
		return nil
	case <-timeout:
		return fmt.Errorf("lock row %s: %w", id, domain.ErrLockTimeout)
	case <-ctx.Done():
		return fmt.Errorf("lock row %s: %w", id, ctx.Err())
	}
}

func (t *memTx) release() {
	for id := range t.held {
		<-t.store.lockChan(id)
	}
	t.held = nil
}

func (t *memTx) LockStockItem(ctx context.Context, id uuid.UUID) (*models.StockItem, error) {
	if err := t.store.fault(OpLockStockItem); err != nil {
		return nil, err
	}
	if err := t.lock(ctx, id); err != nil {
		return nil, err
	}
	if staged, ok := t.items[id]; ok {
		return &staged, nil
	}
	return t.store.GetStockItem(ctx, id)
}

func (t *memTx) LockBatch(ctx context.Context, id uuid.UUID) (*models.ProductionBatch, error) {
	if err := t.store.fault(OpLockBatch); err != nil {
		return nil, err
	}
	if err := t.lock(ctx, id); err != nil {
		return nil, err
	}
	if staged, ok := t.batches[id]; ok {
		return &staged, nil
	}
	b, ok := t.store.Batch(id)
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (t *memTx) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	return t.store.GetRecipe(ctx, id)
}

func (t *memTx) ListRecipeLines(ctx context.Context, recipeID uuid.UUID) ([]models.BOMLine, error) {
	return t.store.ListRecipeLines(ctx, recipeID)
}

func (t *memTx) InsertStockItem(ctx context.Context, item *models.StockItem) error {
	if err := t.store.fault(OpInsertStockItem); err != nil {
		return err
	}
	if existing, _ := t.store.GetStockItem(ctx, item.ID); existing != nil {
		return fmt.Errorf("insert stock item %s: duplicate id", item.ID)
	}
	if err := t.lock(ctx, item.ID); err != nil {
		return err
	}
	t.items[item.ID] = *item
	return nil
}

func (t *memTx) UpdateStockQuantity(ctx context.Context, id uuid.UUID, quantity decimal.Decimal, at time.Time) error {
	if err := t.store.fault(OpUpdateStockQuantity); err != nil {
		return err
	}
	if _, ok := t.held[id]; !ok {
		return fmt.Errorf("update stock item %s: row not locked", id)
	}
	if quantity.IsNegative() {
		return fmt.Errorf("update stock item %s: quantity check violated", id)
	}
	item, err := t.LockStockItem(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("update stock item %s: no such row", id)
	}
	item.Quantity = quantity
	item.UpdatedAt = at
	t.items[id] = *item
	return nil
}

func (t *memTx) InsertBatch(ctx context.Context, batch *models.ProductionBatch) error {
	if err := t.store.fault(OpInsertBatch); err != nil {
		return err
	}
	if err := t.lock(ctx, batch.ID); err != nil {
		return err
	}
	t.batches[batch.ID] = *batch
	return nil
}

func (t *memTx) UpdateBatchRemaining(ctx context.Context, id uuid.UUID, remaining decimal.Decimal, status models.BatchStatus, at time.Time) error {
	if err := t.store.fault(OpUpdateBatch); err != nil {
		return err
	}
	if _, ok := t.held[id]; !ok {
		return fmt.Errorf("update batch %s: row not locked", id)
	}
	if remaining.IsNegative() {
		return fmt.Errorf("update batch %s: remaining check violated", id)
	}
	b, err := t.LockBatch(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return fmt.Errorf("update batch %s: no such row", id)
	}
	b.Remaining = remaining
	b.Status = status
	b.UpdatedAt = at
	t.batches[id] = *b
	return nil
}

func (t *memTx) InsertConsumptions(_ context.Context, lines []models.BatchConsumption) error {
	if err := t.store.fault(OpInsertConsumptions); err != nil {
		return err
	}
	t.consumptions = append(t.consumptions, lines...)
	return nil
}

func (t *memTx) InsertSale(_ context.Context, sale *models.Sale) error {
	if err := t.store.fault(OpInsertSale); err != nil {
		return err
	}
	t.sales = append(t.sales, *sale)
	return nil
}

func (t *memTx) InsertAuditEntry(_ context.Context, entry *models.AuditEntry) error {
	if err := t.store.fault(OpInsertAuditEntry); err != nil {
		return err
	}
	t.audit = append(t.audit, *entry)
	return nil
}

func (t *memTx) commit() error {
	if err := t.store.fault(OpCommit); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, item := range t.items {
		s.items[id] = item
	}
	for id, b := range t.batches {
		s.batches[id] = b
	}
	s.consumptions = append(s.consumptions, t.consumptions...)
	s.sales = append(s.sales, t.sales...)
	s.audit = append(s.audit, t.audit...)
	return nil
}

// ErrInjected is a convenience fault for tests.
var ErrInjected = errors.New("memory: injected fault")

var _ repositories.Store = (*Store)(nil)
