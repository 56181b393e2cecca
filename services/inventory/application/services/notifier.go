package services

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/stockkeeper/pkg/events"
	"github.com/ghuser/stockkeeper/pkg/logger"
	domainevents "github.com/ghuser/stockkeeper/services/inventory/domain/events"
	"github.com/ghuser/stockkeeper/services/inventory/domain/models"
)

// Publisher is satisfied by *events.EventBus.
type Publisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// Notifier fans committed changes out to the event bus. It runs strictly
// after commit and only logs failures.
type Notifier struct {
	pub Publisher
	log logger.Logger
}

// NewNotifier returns a Notifier publishing through pub. A nil pub yields a
// notifier that drops everything.
func NewNotifier(pub Publisher, log logger.Logger) *Notifier {
	return &Notifier{pub: pub, log: log}
}

// stockChange is one item's quantity transition inside a committed operation.
type stockChange struct {
	item   models.StockItem // state after commit
	old    models.StockItem // state before the operation
	action models.AuditAction
}

func (n *Notifier) stockChanged(ctx context.Context, changes []stockChange) {
	for _, c := range changes {
		at := c.item.UpdatedAt
		n.publish(ctx, domainevents.TopicStockLevelChanged, domainevents.StockLevelChangedEvent{
			Envelope:         domainevents.NewEnvelope(at),
			ItemID:           c.item.ID,
			Name:             c.item.Name,
			Unit:             c.item.Unit,
			OldQuantity:      c.old.Quantity,
			NewQuantity:      c.item.Quantity,
			MinimumThreshold: c.item.MinimumThreshold,
			OptimalThreshold: c.item.OptimalThreshold,
			Cause:            string(c.action),
		})
		if c.item.CrossesBelowMinimum(c.old.Quantity) {
			n.publish(ctx, domainevents.TopicStockBelowMinimum, domainevents.StockBelowMinimumEvent{
				Envelope:         domainevents.NewEnvelope(at),
				ItemID:           c.item.ID,
				Name:             c.item.Name,
				Unit:             c.item.Unit,
				Quantity:         c.item.Quantity,
				MinimumThreshold: c.item.MinimumThreshold,
				OptimalThreshold: c.item.OptimalThreshold,
			})
		}
	}
}

func (n *Notifier) batchCreated(ctx context.Context, b *models.ProductionBatch) {
	n.publish(ctx, domainevents.TopicBatchCreated, domainevents.BatchCreatedEvent{
		Envelope:    domainevents.NewEnvelope(b.CreatedAt),
		BatchID:     b.ID,
		BatchNumber: b.BatchNumber,
		RecipeID:    b.RecipeID,
		Quantity:    b.Quantity,
		Cost:        b.Cost,
		ProducedBy:  b.ProducedBy,
	})
}

func (n *Notifier) saleFulfilled(ctx context.Context, s *models.Sale, b *models.ProductionBatch) {
	n.publish(ctx, domainevents.TopicSaleFulfilled, domainevents.SaleFulfilledEvent{
		Envelope:  domainevents.NewEnvelope(s.SoldAt),
		SaleID:    s.ID,
		BatchID:   b.ID,
		Quantity:  s.Quantity,
		Remaining: b.Remaining,
		Depleted:  b.Status == models.BatchStatusDepleted,
	})
}

// publish marshals event and hands it to the bus. Errors are logged only.
func (n *Notifier) publish(ctx context.Context, topic string, event any) {
	if n == nil || n.pub == nil {
		return
	}
	msg, err := newMessage(event)
	if err == nil {
		err = n.pub.Publish(ctx, topic, msg)
	}
	if err != nil {
		n.log.WarnContext(ctx, "inventory: notify failed", "topic", topic, "error", err)
	}
}

func newMessage(event any) (*message.Message, error) {
	env, ok := envelopeOf(event)
	if !ok {
		return nil, fmt.Errorf("unknown event %T", event)
	}
	return events.NewJSONMessage(env.EventID.String(), env.Version, event)
}

func envelopeOf(event any) (domainevents.Envelope, bool) {
	switch e := event.(type) {
	case domainevents.StockLevelChangedEvent:
		return e.Envelope, true
	case domainevents.StockBelowMinimumEvent:
		return e.Envelope, true
	case domainevents.BatchCreatedEvent:
		return e.Envelope, true
	case domainevents.SaleFulfilledEvent:
		return e.Envelope, true
	}
	return domainevents.Envelope{}, false
}
