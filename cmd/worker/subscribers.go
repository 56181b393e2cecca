package main

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/stockkeeper/pkg/cache"
	"github.com/ghuser/stockkeeper/pkg/events"
	"github.com/ghuser/stockkeeper/pkg/logger"
	domainevents "github.com/ghuser/stockkeeper/services/inventory/domain/events"
)

// subscribers holds the inventory event handlers.
// Handlers must be idempotent: EventBus retries up to 3x and Watermill may
// redeliver after a Nack.
type subscribers struct {
	cache *cache.StockCache
	log   logger.Logger
}

func newSubscribers(c *cache.StockCache, log logger.Logger) *subscribers {
	return &subscribers{cache: c, log: log}
}

// handlers maps every inventory topic to its handler.
// Add new topics here as more services publish events.
func (s *subscribers) handlers() map[string]events.Handler {
	return map[string]events.Handler{
		domainevents.TopicStockLevelChanged: s.stockLevelChanged,
		domainevents.TopicStockBelowMinimum: s.stockBelowMinimum,
		domainevents.TopicBatchCreated:      s.batchCreated,
		domainevents.TopicSaleFulfilled:     s.saleFulfilled,
	}
}

// stockLevelChanged refreshes the cached stock level. Stale snapshots are
// dropped by StockCache.Set, so redelivery never rolls a level back.
func (s *subscribers) stockLevelChanged(ctx context.Context, msg *message.Message) error {
	evt, err := events.Decode[domainevents.StockLevelChangedEvent](msg, domainevents.SchemaVersion)
	if err != nil {
		return err
	}
	if s.cache == nil {
		return nil
	}
	return s.cache.Set(ctx, &cache.CachedStockItem{
		ID:               evt.ItemID,
		Name:             evt.Name,
		Unit:             evt.Unit,
		Quantity:         evt.NewQuantity,
		MinimumThreshold: evt.MinimumThreshold,
		OptimalThreshold: evt.OptimalThreshold,
		UpdatedAt:        evt.OccurredAt,
	})
}

// stockBelowMinimum raises the low-stock alert and records the item in the
// low-stock set.
func (s *subscribers) stockBelowMinimum(ctx context.Context, msg *message.Message) error {
	evt, err := events.Decode[domainevents.StockBelowMinimumEvent](msg, domainevents.SchemaVersion)
	if err != nil {
		return err
	}
	s.log.WarnContext(ctx, "low stock",
		"stock_item_id", evt.ItemID,
		"name", evt.Name,
		"quantity", evt.Quantity.String(),
		"minimum_threshold", evt.MinimumThreshold.String(),
		"reorder_to", evt.OptimalThreshold.String(),
		"unit", evt.Unit,
	)
	if s.cache == nil {
		return nil
	}
	return s.cache.MarkLow(ctx, evt.ItemID)
}

func (s *subscribers) batchCreated(ctx context.Context, msg *message.Message) error {
	evt, err := events.Decode[domainevents.BatchCreatedEvent](msg, domainevents.SchemaVersion)
	if err != nil {
		return err
	}
	s.log.InfoContext(ctx, "production batch created",
		"batch_id", evt.BatchID,
		"batch_number", evt.BatchNumber,
		"recipe_id", evt.RecipeID,
		"quantity", evt.Quantity.String(),
		"cost", evt.Cost.String(),
	)
	return nil
}

func (s *subscribers) saleFulfilled(ctx context.Context, msg *message.Message) error {
	evt, err := events.Decode[domainevents.SaleFulfilledEvent](msg, domainevents.SchemaVersion)
	if err != nil {
		return err
	}
	s.log.InfoContext(ctx, "sale fulfilled",
		"sale_id", evt.SaleID,
		"batch_id", evt.BatchID,
		"quantity", evt.Quantity.String(),
		"remaining", evt.Remaining.String(),
		"depleted", evt.Depleted,
	)
	return nil
}
