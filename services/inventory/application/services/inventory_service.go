package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	pkgcache "github.com/ghuser/stockkeeper/pkg/cache"
	"github.com/ghuser/stockkeeper/pkg/logger"
	"github.com/ghuser/stockkeeper/services/inventory/domain"
	"github.com/ghuser/stockkeeper/services/inventory/domain/models"
	"github.com/ghuser/stockkeeper/services/inventory/domain/repositories"
	domainsvcs "github.com/ghuser/stockkeeper/services/inventory/domain/services"
)

// InventoryService is the engine's public surface. Every mutating operation
// runs inside one coordinator unit: it locks what it touches, validates
// everything, writes, and records exactly one audit entry before commit.
// Notifications and cache refreshes happen after commit and never fail the call.
type InventoryService struct {
	coord    *Coordinator
	store    repositories.Store
	cache    StockCache
	notifier *Notifier
	log      logger.Logger
	now      func() time.Time
	tracer   trace.Tracer
	ops      metric.Int64Counter

	syncRefresh bool
}

// StockCache is the stock-level read model. *cache.StockCache satisfies it.
type StockCache interface {
	Get(ctx context.Context, itemID uuid.UUID) (*pkgcache.CachedStockItem, error)
	Set(ctx context.Context, item *pkgcache.CachedStockItem) error
}

// Option configures an InventoryService.
type Option func(*InventoryService)

// WithCache serves GetStockItem from Redis and refreshes it after commits.
func WithCache(c StockCache) Option {
	return func(s *InventoryService) { s.cache = c }
}

// WithSyncCacheRefresh makes cache refreshes finish before an operation
// returns. Short-lived processes use it so no write is lost at exit.
func WithSyncCacheRefresh() Option {
	return func(s *InventoryService) { s.syncRefresh = true }
}

// WithNotifier publishes committed changes to the event bus.
func WithNotifier(n *Notifier) Option {
	return func(s *InventoryService) { s.notifier = n }
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *InventoryService) { s.now = now }
}

// NewInventoryService returns an InventoryService over store.
func NewInventoryService(store repositories.Store, lockTimeout time.Duration, log logger.Logger, opts ...Option) *InventoryService {
	ops, _ := otel.Meter(instrumentationName).Int64Counter(
		"inventory.operations",
		metric.WithDescription("Inventory business operations by outcome"),
	)
	s := &InventoryService{
		coord:  NewCoordinator(store, lockTimeout, log),
		store:  store,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
		tracer: otel.Tracer(instrumentationName),
		ops:    ops,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AdjustStockInput is a signed manual correction to one item.
type AdjustStockInput struct {
	ItemID uuid.UUID
	Delta  decimal.Decimal // positive increases, negative decreases
	Reason string
	Actor  uuid.NullUUID
}

// AdjustStockResult is the committed outcome of AdjustStock.
type AdjustStockResult struct {
	Item        *models.StockItem
	OldQuantity decimal.Decimal
	Audit       *models.AuditEntry
}

// CreateBatchInput asks for quantity units of a recipe's output.
type CreateBatchInput struct {
	RecipeID   uuid.UUID
	Quantity   decimal.Decimal
	ProducedBy uuid.NullUUID
}

// CreateBatchResult is the committed outcome of CreateProductionBatch.
type CreateBatchResult struct {
	Batch        *models.ProductionBatch
	Consumptions []models.BatchConsumption
	Audit        *models.AuditEntry

	changes []stockChange
}

// FulfillSaleInput takes quantity out of a batch's remaining stock.
type FulfillSaleInput struct {
	BatchID  uuid.UUID
	Quantity decimal.Decimal
	SellerID uuid.NullUUID
	BuyerID  uuid.NullUUID
}

// FulfillSaleResult is the committed outcome of FulfillSale.
type FulfillSaleResult struct {
	Sale  *models.Sale
	Batch *models.ProductionBatch
	Audit *models.AuditEntry
}

type stockSnapshot struct {
	Name             string          `json:"name"`
	Unit             string          `json:"unit"`
	Quantity         decimal.Decimal `json:"quantity"`
	MinimumThreshold decimal.Decimal `json:"minimum_threshold"`
	OptimalThreshold decimal.Decimal `json:"optimal_threshold"`
	CostRate         decimal.Decimal `json:"cost_rate"`
}

type consumedLine struct {
	IngredientID uuid.UUID       `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	CostRate     decimal.Decimal `json:"cost_rate"`
	Before       decimal.Decimal `json:"before"`
	After        decimal.Decimal `json:"after"`
}

type batchSnapshot struct {
	BatchNumber string          `json:"batch_number"`
	RecipeID    uuid.UUID       `json:"recipe_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Cost        decimal.Decimal `json:"cost"`
	Consumed    []consumedLine  `json:"consumed"`
}

type remainingSnapshot struct {
	BatchID   uuid.UUID          `json:"batch_id"`
	Remaining decimal.Decimal    `json:"remaining"`
	Status    models.BatchStatus `json:"status"`
}

// CreateStockItem registers a new item with its opening quantity.
func (s *InventoryService) CreateStockItem(ctx context.Context, actor uuid.NullUUID, p models.NewStockItemParams) (item *models.StockItem, err error) {
	ctx, span := s.start(ctx, "CreateStockItem")
	defer func() { s.finish(ctx, span, "create_stock_item", err) }()

	item, err = models.NewStockItem(p, commitStamp(s.now()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidStockItem, err)
	}

	_, err = RunExclusive(ctx, s.coord, nil, func(ctx context.Context, u *Unit) (*models.AuditEntry, error) {
		if err := u.Tx().InsertStockItem(ctx, item); err != nil {
			return nil, fmt.Errorf("insert stock item: %w", err)
		}
		return RecordAudit(ctx, u.Tx(), actor, models.AuditStockItemCreated, domain.ResourceStockItem, item.ID,
			models.AuditDetail{NewValue: snapshotOf(item)}, item.CreatedAt)
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("stock_item.id", item.ID.String()))
	s.afterStockCommit(ctx, []stockChange{{item: *item, old: models.StockItem{}, action: models.AuditStockItemCreated}})
	return item, nil
}

// AdjustStock applies a signed delta to one item. A result below zero fails
// with InvalidAdjustment and nothing is written.
func (s *InventoryService) AdjustStock(ctx context.Context, in AdjustStockInput) (res *AdjustStockResult, err error) {
	ctx, span := s.start(ctx, "AdjustStock", attribute.String("stock_item.id", in.ItemID.String()))
	defer func() { s.finish(ctx, span, "adjust_stock", err) }()

	res, err = RunExclusive(ctx, s.coord, []uuid.UUID{in.ItemID}, func(ctx context.Context, u *Unit) (*AdjustStockResult, error) {
		item, ok := u.Item(in.ItemID)
		if !ok || item.IsDeleted() {
			return nil, domain.NewNotFoundError(domain.ResourceStockItem, in.ItemID)
		}
		next, err := domainsvcs.ApplyAdjustment(item, in.Delta)
		if err != nil {
			return nil, err
		}

		now := commitStamp(s.now(), item.UpdatedAt)
		if err := u.Tx().UpdateStockQuantity(ctx, item.ID, next, now); err != nil {
			return nil, fmt.Errorf("update stock quantity: %w", err)
		}
		old := item.Quantity
		item.Quantity = next
		item.UpdatedAt = now

		entry, err := RecordAudit(ctx, u.Tx(), in.Actor, models.AuditStockAdjusted, domain.ResourceStockItem, item.ID,
			models.AuditDetail{OldValue: old, NewValue: next, Reason: in.Reason}, now)
		if err != nil {
			return nil, err
		}
		return &AdjustStockResult{Item: item, OldQuantity: old, Audit: entry}, nil
	})
	if err != nil {
		return nil, err
	}

	before := *res.Item
	before.Quantity = res.OldQuantity
	s.afterStockCommit(ctx, []stockChange{{item: *res.Item, old: before, action: models.AuditStockAdjusted}})
	return res, nil
}

// CreateProductionBatch consumes the recipe's bill of materials for quantity
// units of output. All ingredients are locked together; if any is missing
// or short, nothing is deducted and no batch is created.
func (s *InventoryService) CreateProductionBatch(ctx context.Context, in CreateBatchInput) (res *CreateBatchResult, err error) {
	ctx, span := s.start(ctx, "CreateProductionBatch", attribute.String("recipe.id", in.RecipeID.String()))
	defer func() { s.finish(ctx, span, "create_production_batch", err) }()

	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}

	lines, err := ResolveBOM(ctx, s.store, in.RecipeID)
	if err != nil {
		return nil, classify(err)
	}

	res, err = RunExclusive(ctx, s.coord, IngredientIDs(lines), func(ctx context.Context, u *Unit) (*CreateBatchResult, error) {
		plan, err := domainsvcs.PlanConsumption(lines, in.Quantity, u.Item)
		if err != nil {
			return nil, err
		}

		prior := make([]time.Time, len(plan.Lines))
		for i, l := range plan.Lines {
			prior[i] = l.Item.UpdatedAt
		}
		now := commitStamp(s.now(), prior...)
		batch := models.NewProductionBatch(in.RecipeID, in.Quantity, plan.TotalCost, in.ProducedBy, now)
		out := &CreateBatchResult{Batch: batch}
		consumed := make([]consumedLine, 0, len(plan.Lines))

		for _, l := range plan.Lines {
			if err := u.Tx().UpdateStockQuantity(ctx, l.Item.ID, l.NewQuantity, now); err != nil {
				return nil, fmt.Errorf("deduct %s: %w", l.Item.ID, err)
			}
			before := *l.Item
			after := *l.Item
			after.Quantity = l.NewQuantity
			after.UpdatedAt = now
			out.changes = append(out.changes, stockChange{item: after, old: before, action: models.AuditBatchCreated})
			consumed = append(consumed, consumedLine{
				IngredientID: l.Item.ID,
				Quantity:     l.Needed,
				CostRate:     l.CostRate,
				Before:       l.OldQuantity,
				After:        l.NewQuantity,
			})
		}

		if err := u.Tx().InsertBatch(ctx, batch); err != nil {
			return nil, fmt.Errorf("insert batch: %w", err)
		}

		out.Consumptions = make([]models.BatchConsumption, len(plan.Lines))
		for i, l := range plan.Lines {
			out.Consumptions[i] = models.BatchConsumption{
				ID:           uuid.New(),
				BatchID:      batch.ID,
				IngredientID: l.Item.ID,
				Quantity:     l.Needed,
				CostRate:     l.CostRate,
				Cost:         l.Cost,
				CreatedAt:    now,
			}
		}
		if err := u.Tx().InsertConsumptions(ctx, out.Consumptions); err != nil {
			return nil, fmt.Errorf("insert consumptions: %w", err)
		}

		out.Audit, err = RecordAudit(ctx, u.Tx(), in.ProducedBy, models.AuditBatchCreated, domain.ResourceBatch, batch.ID,
			models.AuditDetail{NewValue: batchSnapshot{
				BatchNumber: batch.BatchNumber,
				RecipeID:    batch.RecipeID,
				Quantity:    batch.Quantity,
				Cost:        batch.Cost,
				Consumed:    consumed,
			}}, now)
		if err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("batch.id", res.Batch.ID.String()))
	s.afterStockCommit(ctx, res.changes)
	s.notifier.batchCreated(ctx, res.Batch)
	return res, nil
}

// FulfillSale takes quantity from a batch's remaining stock. Selling more
// than remains fails with InsufficientStock naming the batch.
func (s *InventoryService) FulfillSale(ctx context.Context, in FulfillSaleInput) (res *FulfillSaleResult, err error) {
	ctx, span := s.start(ctx, "FulfillSale", attribute.String("batch.id", in.BatchID.String()))
	defer func() { s.finish(ctx, span, "fulfill_sale", err) }()

	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}

	res, err = RunExclusive(ctx, s.coord, nil, func(ctx context.Context, u *Unit) (*FulfillSaleResult, error) {
		batch, err := u.LockBatch(ctx, in.BatchID)
		if err != nil {
			return nil, err
		}
		if batch == nil {
			return nil, domain.NewNotFoundError(domain.ResourceBatch, in.BatchID)
		}
		remaining, status, err := domainsvcs.ApplySale(batch, in.Quantity)
		if err != nil {
			return nil, err
		}

		now := commitStamp(s.now(), batch.UpdatedAt)
		if err := u.Tx().UpdateBatchRemaining(ctx, batch.ID, remaining, status, now); err != nil {
			return nil, fmt.Errorf("update batch remaining: %w", err)
		}
		before := remainingSnapshot{BatchID: batch.ID, Remaining: batch.Remaining, Status: batch.Status}
		batch.Remaining = remaining
		batch.Status = status
		batch.UpdatedAt = now

		sale := models.NewSale(batch.ID, in.Quantity, in.SellerID, in.BuyerID, now)
		if err := u.Tx().InsertSale(ctx, sale); err != nil {
			return nil, fmt.Errorf("insert sale: %w", err)
		}

		entry, err := RecordAudit(ctx, u.Tx(), in.SellerID, models.AuditSaleFulfilled, domain.ResourceSale, sale.ID,
			models.AuditDetail{
				OldValue: before,
				NewValue: remainingSnapshot{BatchID: batch.ID, Remaining: remaining, Status: status},
			}, now)
		if err != nil {
			return nil, err
		}
		return &FulfillSaleResult{Sale: sale, Batch: batch, Audit: entry}, nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("sale.id", res.Sale.ID.String()))
	s.notifier.saleFulfilled(ctx, res.Sale, res.Batch)
	return res, nil
}

// GetStockItem reads the last committed stock level using a read-through
// cache: Redis first, then the ledger, warming Redis asynchronously on a miss.
// The result may trail in-flight operations.
func (s *InventoryService) GetStockItem(ctx context.Context, id uuid.UUID) (*models.StockItem, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, id); err == nil {
			return &models.StockItem{
				ID:               cached.ID,
				Name:             cached.Name,
				Unit:             cached.Unit,
				Quantity:         cached.Quantity,
				MinimumThreshold: cached.MinimumThreshold,
				OptimalThreshold: cached.OptimalThreshold,
				UpdatedAt:        cached.UpdatedAt,
			}, nil
		} else if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "inventory: cache read failed", "stock_item_id", id, "error", err)
		}
	}

	item, err := s.store.GetStockItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: get stock item: %w", domain.ErrStorageFailure, err)
	}
	if item == nil || item.IsDeleted() {
		return nil, domain.NewNotFoundError(domain.ResourceStockItem, id)
	}

	s.refreshCache(ctx, *item)
	return item, nil
}

func (s *InventoryService) afterStockCommit(ctx context.Context, changes []stockChange) {
	items := make([]models.StockItem, len(changes))
	for i, c := range changes {
		items[i] = c.item
	}
	s.refreshCache(ctx, items...)
	s.notifier.stockChanged(ctx, changes)
}

func (s *InventoryService) refreshCache(ctx context.Context, items ...models.StockItem) {
	if s.cache == nil || len(items) == 0 {
		return
	}
	refresh := func() {
		bg := context.WithoutCancel(ctx)
		for _, it := range items {
			if err := s.cache.Set(bg, toCached(it)); err != nil {
				s.log.WarnContext(bg, "inventory: cache refresh failed", "stock_item_id", it.ID, "error", err)
			}
		}
	}
	if s.syncRefresh {
		refresh()
		return
	}
	go refresh()
}

// commitStamp returns the UpdatedAt for a write over rows last stamped at
// prior. It is truncated to the microsecond PostgreSQL stores and is always
// later than every prior stamp, so cache snapshots order by it even when the
// wall clock steps back.
func commitStamp(now time.Time, prior ...time.Time) time.Time {
	t := now.UTC().Truncate(time.Microsecond)
	for _, p := range prior {
		if !t.After(p) {
			t = p.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
		}
	}
	return t
}

func (s *InventoryService) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "inventory."+op, trace.WithAttributes(attrs...))
}

// finish ends the span, counts the outcome and logs at a level matching it:
// commits at info, business rejections at warn, storage failures at error.
func (s *InventoryService) finish(ctx context.Context, span trace.Span, op string, err error) {
	defer span.End()

	outcome := "committed"
	if err != nil {
		outcome = domain.Kind(err)
	}
	if s.ops != nil {
		s.ops.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", op),
			attribute.String("outcome", outcome),
		))
	}

	switch {
	case err == nil:
		s.log.InfoContext(ctx, "inventory: operation committed", "operation", op)
	case errors.Is(err, domain.ErrStorageFailure):
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.ErrorContext(ctx, "inventory: operation failed", "operation", op, "kind", outcome, "error", err)
	default:
		span.SetStatus(codes.Error, outcome)
		s.log.WarnContext(ctx, "inventory: operation rejected", "operation", op, "kind", outcome, "error", err)
	}
}

func snapshotOf(item *models.StockItem) stockSnapshot {
	return stockSnapshot{
		Name:             item.Name,
		Unit:             item.Unit,
		Quantity:         item.Quantity,
		MinimumThreshold: item.MinimumThreshold,
		OptimalThreshold: item.OptimalThreshold,
		CostRate:         item.CostRate,
	}
}

func toCached(item models.StockItem) *pkgcache.CachedStockItem {
	return &pkgcache.CachedStockItem{
		ID:               item.ID,
		Name:             item.Name,
		Unit:             item.Unit,
		Quantity:         item.Quantity,
		MinimumThreshold: item.MinimumThreshold,
		OptimalThreshold: item.OptimalThreshold,
		UpdatedAt:        item.UpdatedAt,
	}
}
