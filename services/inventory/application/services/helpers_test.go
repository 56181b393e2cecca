package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/stockkeeper/pkg/config"
	"github.com/ghuser/stockkeeper/pkg/logger"
	"github.com/ghuser/stockkeeper/services/inventory/domain/models"
	"github.com/ghuser/stockkeeper/services/inventory/infrastructure/persistence/memory"
)

var testNow = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testLogger() logger.Logger {
	return logger.NewWithWriter(&config.Config{LogLevel: "error"}, io.Discard)
}

// fakePublisher records published topics and can be told to fail.
type fakePublisher struct {
	mu     sync.Mutex
	topics []string
	msgs   []*message.Message
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, topic string, msgs ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	for _, m := range msgs {
		p.topics = append(p.topics, topic)
		p.msgs = append(p.msgs, m)
	}
	return nil
}

func (p *fakePublisher) count(topic string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, t := range p.topics {
		if t == topic {
			n++
		}
	}
	return n
}

type fixture struct {
	store *memory.Store
	pub   *fakePublisher
	svc   *InventoryService
}

func newFixture(t *testing.T, lockTimeout time.Duration) *fixture {
	t.Helper()
	store := memory.New()
	pub := &fakePublisher{}
	log := testLogger()
	svc := NewInventoryService(store, lockTimeout, log,
		WithNotifier(NewNotifier(pub, log)),
		WithClock(func() time.Time { return testNow }),
	)
	return &fixture{store: store, pub: pub, svc: svc}
}

func (f *fixture) item(name, qty, minimum, rate string) models.StockItem {
	item := models.StockItem{
		ID:               uuid.New(),
		Name:             name,
		Unit:             "kg",
		Quantity:         dec(qty),
		MinimumThreshold: dec(minimum),
		OptimalThreshold: dec(minimum).Mul(decimal.NewFromInt(2)),
		CostRate:         dec(rate),
		CreatedAt:        testNow.Add(-time.Hour),
		UpdatedAt:        testNow.Add(-time.Hour),
	}
	f.store.PutStockItem(item)
	return item
}

// recipe stores a recipe whose lines follow the order of perUnit.
func (f *fixture) recipe(perUnit ...any) models.Recipe {
	r := models.Recipe{ID: uuid.New(), Name: "Dark Chocolate", OutputUnit: "bar", CreatedAt: testNow}
	lines := make([]models.BOMLine, 0, len(perUnit)/2)
	for i := 0; i+1 < len(perUnit); i += 2 {
		item := perUnit[i].(models.StockItem)
		lines = append(lines, models.BOMLine{
			RecipeID:        r.ID,
			Position:        len(lines) + 1,
			IngredientID:    item.ID,
			QuantityPerUnit: dec(perUnit[i+1].(string)),
		})
	}
	f.store.PutRecipe(r, lines...)
	return r
}

func (f *fixture) quantity(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	item, err := f.store.GetStockItem(context.Background(), id)
	if err != nil || item == nil {
		t.Fatalf("stock item %s not found: %v", id, err)
	}
	return item.Quantity
}

func (f *fixture) auditFor(resourceID uuid.UUID) []models.AuditEntry {
	var out []models.AuditEntry
	for _, e := range f.store.AuditEntries() {
		if e.ResourceID == resourceID {
			out = append(out, e)
		}
	}
	return out
}

var errPublish = errors.New("bus down")
