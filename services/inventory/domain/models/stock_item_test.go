package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func validParams() NewStockItemParams {
	return NewStockItemParams{
		Name:             "Cocoa Butter",
		Quantity:         decimal.NewFromInt(600),
		MinimumThreshold: decimal.NewFromInt(500),
		OptimalThreshold: decimal.NewFromInt(1000),
		Unit:             "kg",
		CostRate:         decimal.RequireFromString("7.25"),
	}
}

func TestNewStockItem(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	t.Run("valid params", func(t *testing.T) {
		item, err := NewStockItem(validParams(), now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.ID == uuid.Nil {
			t.Fatal("expected non-zero ID")
		}
		if !item.Quantity.Equal(decimal.NewFromInt(600)) {
			t.Fatalf("expected quantity 600, got %s", item.Quantity)
		}
		if !item.CreatedAt.Equal(now) || !item.UpdatedAt.Equal(now) {
			t.Fatalf("expected timestamps %v, got %v / %v", now, item.CreatedAt, item.UpdatedAt)
		}
		if item.IsDeleted() {
			t.Fatal("new item must not be deleted")
		}
	})

	t.Run("trims name and unit", func(t *testing.T) {
		p := validParams()
		p.Name = "  Sugar "
		p.Unit = " kg "
		item, err := NewStockItem(p, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.Name != "Sugar" || item.Unit != "kg" {
			t.Fatalf("expected trimmed values, got %q / %q", item.Name, item.Unit)
		}
	})

	failures := map[string]func(*NewStockItemParams){
		"empty name":            func(p *NewStockItemParams) { p.Name = " " },
		"empty unit":            func(p *NewStockItemParams) { p.Unit = "" },
		"negative quantity":     func(p *NewStockItemParams) { p.Quantity = decimal.NewFromInt(-1) },
		"negative minimum":      func(p *NewStockItemParams) { p.MinimumThreshold = decimal.NewFromInt(-1) },
		"optimal below minimum": func(p *NewStockItemParams) { p.OptimalThreshold = decimal.NewFromInt(10) },
		"negative cost rate":    func(p *NewStockItemParams) { p.CostRate = decimal.NewFromInt(-2) },
		"quantity too precise":  func(p *NewStockItemParams) { p.Quantity = decimal.RequireFromString("1.00005") },
		"cost rate too precise": func(p *NewStockItemParams) { p.CostRate = decimal.RequireFromString("0.12345") },
	}
	for name, mutate := range failures {
		t.Run(name, func(t *testing.T) {
			p := validParams()
			mutate(&p)
			if _, err := NewStockItem(p, now); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestStockItem_CrossesBelowMinimum(t *testing.T) {
	item := &StockItem{MinimumThreshold: decimal.NewFromInt(500)}

	tests := []struct {
		name    string
		old     int64
		current int64
		want    bool
	}{
		{"above to below", 600, 350, true},
		{"exactly minimum to below", 500, 499, true},
		{"already below", 400, 300, false},
		{"stays above", 900, 600, false},
		{"lands on minimum", 600, 500, false},
		{"restock from below", 200, 800, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item.Quantity = decimal.NewFromInt(tt.current)
			if got := item.CrossesBelowMinimum(decimal.NewFromInt(tt.old)); got != tt.want {
				t.Fatalf("CrossesBelowMinimum(%d -> %d) = %v, want %v", tt.old, tt.current, got, tt.want)
			}
		})
	}
}

func TestNewProductionBatch(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	producer := uuid.NullUUID{UUID: uuid.New(), Valid: true}

	b := NewProductionBatch(uuid.New(), decimal.NewFromInt(4), decimal.RequireFromString("1812.50"), producer, now)

	if !b.Remaining.Equal(b.Quantity) {
		t.Fatalf("expected remaining == quantity, got %s vs %s", b.Remaining, b.Quantity)
	}
	if b.Status != BatchStatusProduced {
		t.Fatalf("expected status produced, got %s", b.Status)
	}
	if len(b.BatchNumber) != len("B-20250301-ABCDEF12") || b.BatchNumber[:11] != "B-20250301-" {
		t.Fatalf("unexpected batch number %q", b.BatchNumber)
	}
	if got := b.UnitCost(); !got.Equal(decimal.RequireFromString("453.125")) {
		t.Fatalf("expected unit cost 453.125, got %s", got)
	}
}

func TestFitsScale(t *testing.T) {
	for in, want := range map[string]bool{
		"12":       true,
		"0.0001":   true,
		"1.50000":  true,
		"0.00001":  false,
		"-3.14159": false,
	} {
		if got := FitsScale(decimal.RequireFromString(in)); got != want {
			t.Errorf("FitsScale(%s) = %v, want %v", in, got, want)
		}
	}
}
