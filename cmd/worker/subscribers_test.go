package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/stockkeeper/pkg/config"
	"github.com/ghuser/stockkeeper/pkg/events"
	"github.com/ghuser/stockkeeper/pkg/logger"
	domainevents "github.com/ghuser/stockkeeper/services/inventory/domain/events"
)

func newTestSubscribers(t *testing.T) (*subscribers, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	log := logger.NewWithWriter(&config.Config{LogLevel: "info"}, &buf)
	return newSubscribers(nil, log), &buf
}

func mustMessage(t *testing.T, version int, payload any) *message.Message {
	t.Helper()
	msg, err := events.NewJSONMessage(uuid.NewString(), version, payload)
	require.NoError(t, err)
	return msg
}

func TestHandlers_CoverEveryTopic(t *testing.T) {
	s, _ := newTestSubscribers(t)
	h := s.handlers()
	for _, topic := range domainevents.Topics {
		assert.Contains(t, h, topic)
	}
	assert.Len(t, h, len(domainevents.Topics))
}

func TestStockBelowMinimum_LogsAlert(t *testing.T) {
	s, buf := newTestSubscribers(t)
	id := uuid.New()
	msg := mustMessage(t, domainevents.SchemaVersion, domainevents.StockBelowMinimumEvent{
		Envelope:         domainevents.NewEnvelope(time.Now()),
		ItemID:           id,
		Name:             "Sugar",
		Unit:             "kg",
		Quantity:         decimal.NewFromInt(4),
		MinimumThreshold: decimal.NewFromInt(10),
		OptimalThreshold: decimal.NewFromInt(40),
	})

	require.NoError(t, s.stockBelowMinimum(context.Background(), msg))
	out := buf.String()
	assert.Contains(t, out, "low stock")
	assert.Contains(t, out, id.String())
}

func TestBatchAndSale_Log(t *testing.T) {
	s, buf := newTestSubscribers(t)
	batchID := uuid.New()

	require.NoError(t, s.batchCreated(context.Background(), mustMessage(t, domainevents.SchemaVersion, domainevents.BatchCreatedEvent{
		Envelope:    domainevents.NewEnvelope(time.Now()),
		BatchID:     batchID,
		BatchNumber: "B-20250301-ABCDEF01",
		Quantity:    decimal.NewFromInt(50),
		Cost:        decimal.NewFromInt(100),
	})))
	require.NoError(t, s.saleFulfilled(context.Background(), mustMessage(t, domainevents.SchemaVersion, domainevents.SaleFulfilledEvent{
		Envelope:  domainevents.NewEnvelope(time.Now()),
		SaleID:    uuid.New(),
		BatchID:   batchID,
		Quantity:  decimal.NewFromInt(50),
		Remaining: decimal.Zero,
		Depleted:  true,
	})))

	out := buf.String()
	assert.Contains(t, out, "production batch created")
	assert.Contains(t, out, "sale fulfilled")
	assert.Contains(t, out, "B-20250301-ABCDEF01")
}

func TestHandlers_RejectBadMessages(t *testing.T) {
	s, _ := newTestSubscribers(t)
	ctx := context.Background()

	newer := mustMessage(t, domainevents.SchemaVersion+1, domainevents.StockLevelChangedEvent{})
	assert.Error(t, s.stockLevelChanged(ctx, newer))

	garbage := message.NewMessage(uuid.NewString(), []byte("{not json"))
	for topic, h := range s.handlers() {
		assert.Error(t, h(ctx, garbage), topic)
	}
}

func TestStockLevelChanged_WithoutCache(t *testing.T) {
	s, _ := newTestSubscribers(t)
	msg := mustMessage(t, domainevents.SchemaVersion, domainevents.StockLevelChangedEvent{
		Envelope:    domainevents.NewEnvelope(time.Now()),
		ItemID:      uuid.New(),
		NewQuantity: decimal.NewFromInt(3),
	})
	assert.NoError(t, s.stockLevelChanged(context.Background(), msg))
}
