package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/stockkeeper/services/inventory/domain"
	"github.com/ghuser/stockkeeper/services/inventory/domain/models"
	"github.com/ghuser/stockkeeper/services/inventory/infrastructure/persistence/memory"
)

func TestResolveBOM(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	recipe := models.Recipe{ID: uuid.New(), Name: "Praline"}
	nuts, sugar := uuid.New(), uuid.New()
	store.PutRecipe(recipe,
		models.BOMLine{RecipeID: recipe.ID, Position: 2, IngredientID: sugar, QuantityPerUnit: decimal.NewFromInt(1)},
		models.BOMLine{RecipeID: recipe.ID, Position: 1, IngredientID: nuts, QuantityPerUnit: decimal.RequireFromString("0.5")},
	)

	lines, err := ResolveBOM(ctx, store, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{nuts, sugar}, IngredientIDs(lines))

	t.Run("missing recipe", func(t *testing.T) {
		_, err := ResolveBOM(ctx, store, uuid.New())
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("deleted recipe", func(t *testing.T) {
		at := time.Now()
		gone := models.Recipe{ID: uuid.New(), DeletedAt: &at}
		store.PutRecipe(gone, models.BOMLine{RecipeID: gone.ID, Position: 1, IngredientID: nuts, QuantityPerUnit: decimal.NewFromInt(1)})
		_, err := ResolveBOM(ctx, store, gone.ID)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("no lines", func(t *testing.T) {
		empty := models.Recipe{ID: uuid.New()}
		store.PutRecipe(empty)
		_, err := ResolveBOM(ctx, store, empty.ID)
		require.ErrorIs(t, err, domain.ErrInvalidRecipe)
	})

	t.Run("non-positive line", func(t *testing.T) {
		bad := models.Recipe{ID: uuid.New()}
		store.PutRecipe(bad, models.BOMLine{RecipeID: bad.ID, Position: 1, IngredientID: nuts, QuantityPerUnit: decimal.Zero})
		_, err := ResolveBOM(ctx, store, bad.ID)
		require.ErrorIs(t, err, domain.ErrInvalidRecipe)
	})
}
