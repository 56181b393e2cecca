package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/stockkeeper/services/inventory/domain"
	"github.com/ghuser/stockkeeper/services/inventory/domain/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func stock(name string, qty, rate string) *models.StockItem {
	return &models.StockItem{ID: uuid.New(), Name: name, Unit: "kg", Quantity: d(qty), CostRate: d(rate)}
}

func lookupOf(items ...*models.StockItem) ItemLookup {
	m := make(map[uuid.UUID]*models.StockItem, len(items))
	for _, it := range items {
		m[it.ID] = it
	}
	return func(id uuid.UUID) (*models.StockItem, bool) {
		it, ok := m[id]
		return it, ok
	}
}

func line(recipe uuid.UUID, pos int, item *models.StockItem, perUnit string) models.BOMLine {
	return models.BOMLine{RecipeID: recipe, Position: pos, IngredientID: item.ID, QuantityPerUnit: d(perUnit)}
}

func TestPlanConsumption_Success(t *testing.T) {
	recipe := uuid.New()
	butter := stock("Cocoa Butter", "600", "7.5")
	sugar := stock("Sugar", "100", "1.2")

	plan, err := PlanConsumption([]models.BOMLine{
		line(recipe, 1, butter, "250"),
		line(recipe, 2, sugar, "20"),
	}, d("1"), lookupOf(butter, sugar))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(plan.Lines))
	}
	if !plan.Lines[0].NewQuantity.Equal(d("350")) {
		t.Errorf("butter new quantity: got %s, want 350", plan.Lines[0].NewQuantity)
	}
	if !plan.Lines[1].NewQuantity.Equal(d("80")) {
		t.Errorf("sugar new quantity: got %s, want 80", plan.Lines[1].NewQuantity)
	}
	// 250*7.5 + 20*1.2
	if !plan.TotalCost.Equal(d("1899")) {
		t.Errorf("total cost: got %s, want 1899", plan.TotalCost)
	}
	if !butter.Quantity.Equal(d("600")) {
		t.Error("planning must not mutate the locked rows")
	}
}

func TestPlanConsumption_AggregatesDuplicateIngredients(t *testing.T) {
	recipe := uuid.New()
	milk := stock("Milk Powder", "50", "2")

	_, err := PlanConsumption([]models.BOMLine{
		line(recipe, 1, milk, "30"),
		line(recipe, 2, milk, "30"),
	}, d("1"), lookupOf(milk))

	var insufficient *domain.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if !insufficient.Needed.Equal(d("60")) {
		t.Fatalf("expected summed need of 60, got %s", insufficient.Needed)
	}
}

func TestPlanConsumption_FirstFailingIngredientInRecipeOrder(t *testing.T) {
	recipe := uuid.New()
	a := stock("A", "100", "1")
	b := stock("B", "100", "1")
	c := stock("C", "1", "1")
	e := stock("E", "0", "1")

	_, err := PlanConsumption([]models.BOMLine{
		line(recipe, 1, a, "10"),
		line(recipe, 2, b, "10"),
		line(recipe, 3, c, "10"),
		line(recipe, 4, e, "10"),
	}, d("2"), lookupOf(a, b, c, e))

	var insufficient *domain.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficient.ID != c.ID {
		t.Fatalf("expected failure on third ingredient %s, got %s", c.ID, insufficient.ID)
	}
	if insufficient.Error() != "insufficient C: need 20kg, have 1kg" {
		t.Fatalf("unexpected message %q", insufficient.Error())
	}
}

func TestPlanConsumption_MissingAndDeletedIngredients(t *testing.T) {
	recipe := uuid.New()
	ghost := stock("Ghost", "100", "1")

	_, err := PlanConsumption([]models.BOMLine{line(recipe, 1, ghost, "1")}, d("1"), lookupOf())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing row, got %v", err)
	}

	deletedAt := time.Now()
	ghost.DeletedAt = &deletedAt
	_, err = PlanConsumption([]models.BOMLine{line(recipe, 1, ghost, "1")}, d("1"), lookupOf(ghost))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for soft-deleted row, got %v", err)
	}
}

func TestPlanConsumption_NonPositiveQuantity(t *testing.T) {
	for _, q := range []string{"0", "-1"} {
		if _, err := PlanConsumption(nil, d(q), lookupOf()); !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Fatalf("quantity %s: expected ErrInvalidQuantity, got %v", q, err)
		}
	}
}

func TestPlanConsumption_RoundsToLedgerScale(t *testing.T) {
	recipe := uuid.New()
	salt := stock("Salt", "1", "0.3333")

	plan, err := PlanConsumption([]models.BOMLine{line(recipe, 1, salt, "0.0001")}, d("0.3"), lookupOf(salt))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := plan.Lines[0]
	// 0.00003 rounds up so the batch still consumes something.
	if !got.Needed.Equal(d("0.0001")) {
		t.Errorf("needed: got %s, want 0.0001", got.Needed)
	}
	if !got.NewQuantity.Equal(d("0.9999")) {
		t.Errorf("new quantity: got %s, want 0.9999", got.NewQuantity)
	}
	// 0.0001 * 0.3333 = 0.00003333
	if !got.Cost.Equal(d("0")) {
		t.Errorf("cost: got %s, want 0", got.Cost)
	}

	butter := stock("Cocoa Butter", "100", "7.3333")
	plan, err = PlanConsumption([]models.BOMLine{line(recipe, 1, butter, "0.125")}, d("3"), lookupOf(butter))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 0.375 * 7.3333 = 2.7499875
	if !plan.TotalCost.Equal(d("2.75")) {
		t.Errorf("total cost: got %s, want 2.75", plan.TotalCost)
	}
	if plan.TotalCost.Exponent() < -models.QuantityScale {
		t.Errorf("total cost %s exceeds ledger scale", plan.TotalCost)
	}
}

func TestPlanConsumption_QuantityFinerThanLedger(t *testing.T) {
	recipe := uuid.New()
	sugar := stock("Sugar", "100", "1")
	_, err := PlanConsumption([]models.BOMLine{line(recipe, 1, sugar, "1")}, d("1.00001"), lookupOf(sugar))
	if !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestApplyAdjustment(t *testing.T) {
	tests := []struct {
		name    string
		current string
		delta   string
		want    string
		wantErr error
	}{
		{"increase", "100", "25.5", "125.5", nil},
		{"decrease", "100", "-30", "70", nil},
		{"to zero", "100", "-100", "0", nil},
		{"below zero", "100", "-100.0001", "", domain.ErrInvalidAdjustment},
		{"finer than ledger", "100", "-0.00001", "", domain.ErrInvalidQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := stock("Vanilla", tt.current, "1")
			got, err := ApplyAdjustment(item, d(tt.delta))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(d(tt.want)) {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestApplySale(t *testing.T) {
	batch := &models.ProductionBatch{ID: uuid.New(), BatchNumber: "B-1", Remaining: d("10"), Status: models.BatchStatusProduced}

	remaining, status, err := ApplySale(batch, d("4"))
	if err != nil || !remaining.Equal(d("6")) || status != models.BatchStatusProduced {
		t.Fatalf("partial sale: got %s %s %v", remaining, status, err)
	}

	remaining, status, err = ApplySale(batch, d("10"))
	if err != nil || !remaining.IsZero() || status != models.BatchStatusDepleted {
		t.Fatalf("full sale: got %s %s %v", remaining, status, err)
	}

	_, _, err = ApplySale(batch, d("10.5"))
	var insufficient *domain.InsufficientStockError
	if !errors.As(err, &insufficient) || insufficient.Resource != domain.ResourceBatch {
		t.Fatalf("oversell: expected batch InsufficientStockError, got %v", err)
	}

	if _, _, err := ApplySale(batch, d("0")); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("zero sale: expected ErrInvalidQuantity, got %v", err)
	}

	fresh := &models.ProductionBatch{ID: uuid.New(), BatchNumber: "B-2", Remaining: d("10"), Status: models.BatchStatusProduced}
	if _, _, err := ApplySale(fresh, d("0.00001")); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("sub-scale sale: expected ErrInvalidQuantity, got %v", err)
	}
}
