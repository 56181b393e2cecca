package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/ghuser/stockkeeper/pkg/logger"
	"github.com/ghuser/stockkeeper/pkg/telemetry"
	"github.com/ghuser/stockkeeper/services/inventory/domain"
	"github.com/ghuser/stockkeeper/services/inventory/domain/models"
	"github.com/ghuser/stockkeeper/services/inventory/domain/repositories"
)

const instrumentationName = "github.com/ghuser/stockkeeper/services/inventory"

// Coordinator opens units of work over the stock ledger and acquires row
// locks in canonical order. It knows nothing about business meaning.
type Coordinator struct {
	store       repositories.Store
	lockTimeout time.Duration
	log         logger.Logger
	lockWait    metric.Float64Histogram
}

// NewCoordinator returns a Coordinator whose row-lock waits are bounded by lockTimeout.
func NewCoordinator(store repositories.Store, lockTimeout time.Duration, log logger.Logger) *Coordinator {
	lockWait, _ := otel.Meter(instrumentationName).Float64Histogram(
		telemetry.LockWaitInstrument,
		metric.WithDescription("Time spent acquiring stock and batch row locks"),
		metric.WithUnit("ms"),
	)
	return &Coordinator{store: store, lockTimeout: lockTimeout, log: log, lockWait: lockWait}
}

// Unit is the body's view of an open unit of work.
type Unit struct {
	c     *Coordinator
	tx    repositories.Tx
	items map[uuid.UUID]*models.StockItem
}

// Tx exposes the write path of the open transaction.
func (u *Unit) Tx() repositories.Tx { return u.tx }

// Item returns a row locked by RunExclusive. ok is false when the row does
// not exist.
func (u *Unit) Item(id uuid.UUID) (*models.StockItem, bool) {
	item, ok := u.items[id]
	return item, ok
}

// LockBatch locks a production batch row inside the unit.
func (u *Unit) LockBatch(ctx context.Context, id uuid.UUID) (*models.ProductionBatch, error) {
	start := time.Now()
	b, err := u.tx.LockBatch(ctx, id)
	u.c.recordWait(ctx, start)
	if err != nil {
		return nil, lockError(ctx, err)
	}
	return b, nil
}

// RunExclusive locks every item in itemIDs, lowest id first, then runs body
// while holding them. Body's writes commit only when it returns nil; on any
// failure they are discarded and every lock is released.
//
// Domain failures pass through unchanged. Lock waits beyond the configured
// bound become ErrLockTimeout; anything else from the store is wrapped in
// ErrStorageFailure.
func RunExclusive[T any](ctx context.Context, c *Coordinator, itemIDs []uuid.UUID, body func(ctx context.Context, u *Unit) (T, error)) (T, error) {
	var result T
	ids := SortedUnique(itemIDs)

	err := c.store.WithinTx(ctx, repositories.TxOptions{LockTimeout: c.lockTimeout}, func(ctx context.Context, tx repositories.Tx) error {
		u := &Unit{c: c, tx: tx, items: make(map[uuid.UUID]*models.StockItem, len(ids))}

		if len(ids) > 0 {
			start := time.Now()
			for _, id := range ids {
				item, err := tx.LockStockItem(ctx, id)
				if err != nil {
					c.recordWait(ctx, start)
					c.log.DebugContext(ctx, "inventory: row lock failed", "row_id", id, "error", err)
					return lockError(ctx, err)
				}
				if item != nil {
					u.items[id] = item
				}
			}
			c.recordWait(ctx, start)
		}

		var err error
		result, err = body(ctx, u)
		return err
	})
	if err != nil {
		var zero T
		return zero, classify(err)
	}
	return result, nil
}

// SortedUnique returns ids de-duplicated and sorted by their byte order.
func SortedUnique(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i][:], out[j][:]) < 0 })
	return out
}

func (c *Coordinator) recordWait(ctx context.Context, start time.Time) {
	if c.lockWait == nil {
		return
	}
	c.lockWait.Record(ctx, float64(time.Since(start).Microseconds())/1000)
}

// lockError maps an expired caller deadline during a lock wait to ErrLockTimeout.
func lockError(ctx context.Context, err error) error {
	if errors.Is(err, domain.ErrLockTimeout) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrLockTimeout, err)
	}
	return err
}

func classify(err error) error {
	if domain.IsKind(err) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
}
