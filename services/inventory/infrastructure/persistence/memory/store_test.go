package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/stockkeeper/services/inventory/domain"
	"github.com/ghuser/stockkeeper/services/inventory/domain/models"
	"github.com/ghuser/stockkeeper/services/inventory/domain/repositories"
)

func seedItem(s *Store, qty int64) models.StockItem {
	item := models.StockItem{ID: uuid.New(), Name: "Sugar", Unit: "kg", Quantity: decimal.NewFromInt(qty)}
	s.PutStockItem(item)
	return item
}

func TestWithinTx_CommitAppliesStagedWrites(t *testing.T) {
	s := New()
	item := seedItem(s, 10)
	ctx := context.Background()

	err := s.WithinTx(ctx, repositories.TxOptions{}, func(ctx context.Context, tx repositories.Tx) error {
		locked, err := tx.LockStockItem(ctx, item.ID)
		require.NoError(t, err)
		require.NotNil(t, locked)

		require.NoError(t, tx.UpdateStockQuantity(ctx, item.ID, decimal.NewFromInt(4), time.Now()))

		// the transaction sees its own write, the store does not yet
		again, err := tx.LockStockItem(ctx, item.ID)
		require.NoError(t, err)
		assert.True(t, again.Quantity.Equal(decimal.NewFromInt(4)))
		committed, _ := s.GetStockItem(ctx, item.ID)
		assert.True(t, committed.Quantity.Equal(decimal.NewFromInt(10)))

		return tx.InsertAuditEntry(ctx, &models.AuditEntry{ID: uuid.New(), ResourceID: item.ID})
	})
	require.NoError(t, err)

	got, _ := s.GetStockItem(ctx, item.ID)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(4)))
	assert.Len(t, s.AuditEntries(), 1)
}

func TestWithinTx_ErrorDiscardsWrites(t *testing.T) {
	s := New()
	item := seedItem(s, 10)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, repositories.TxOptions{}, func(ctx context.Context, tx repositories.Tx) error {
		_, err := tx.LockStockItem(ctx, item.ID)
		require.NoError(t, err)
		require.NoError(t, tx.UpdateStockQuantity(ctx, item.ID, decimal.Zero, time.Now()))
		require.NoError(t, tx.InsertAuditEntry(ctx, &models.AuditEntry{ID: uuid.New()}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, _ := s.GetStockItem(ctx, item.ID)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(10)))
	assert.Empty(t, s.AuditEntries())
}

func TestWithinTx_CommitFault(t *testing.T) {
	s := New()
	item := seedItem(s, 10)
	s.InjectFault(OpCommit, ErrInjected)
	ctx := context.Background()

	err := s.WithinTx(ctx, repositories.TxOptions{}, func(ctx context.Context, tx repositories.Tx) error {
		_, _ = tx.LockStockItem(ctx, item.ID)
		return tx.UpdateStockQuantity(ctx, item.ID, decimal.Zero, time.Now())
	})
	require.ErrorIs(t, err, ErrInjected)

	got, _ := s.GetStockItem(ctx, item.ID)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(10)))

	// lock was released despite the failure
	s.InjectFault(OpCommit, nil)
	err = s.WithinTx(ctx, repositories.TxOptions{LockTimeout: 50 * time.Millisecond}, func(ctx context.Context, tx repositories.Tx) error {
		_, err := tx.LockStockItem(ctx, item.ID)
		return err
	})
	require.NoError(t, err)
}

func TestLock_TimesOutWhileHeld(t *testing.T) {
	s := New()
	item := seedItem(s, 10)
	ctx := context.Background()

	locked := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = s.WithinTx(ctx, repositories.TxOptions{}, func(ctx context.Context, tx repositories.Tx) error {
			_, _ = tx.LockStockItem(ctx, item.ID)
			close(locked)
			<-done
			return nil
		})
	}()
	<-locked
	defer close(done)

	start := time.Now()
	err := s.WithinTx(ctx, repositories.TxOptions{LockTimeout: 30 * time.Millisecond}, func(ctx context.Context, tx repositories.Tx) error {
		_, err := tx.LockStockItem(ctx, item.ID)
		return err
	})
	require.ErrorIs(t, err, domain.ErrLockTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestLock_DisjointRowsDoNotBlock(t *testing.T) {
	s := New()
	a := seedItem(s, 1)
	b := seedItem(s, 1)
	ctx := context.Background()

	locked := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = s.WithinTx(ctx, repositories.TxOptions{}, func(ctx context.Context, tx repositories.Tx) error {
			_, _ = tx.LockStockItem(ctx, a.ID)
			close(locked)
			<-done
			return nil
		})
	}()
	<-locked
	defer close(done)

	err := s.WithinTx(ctx, repositories.TxOptions{LockTimeout: 30 * time.Millisecond}, func(ctx context.Context, tx repositories.Tx) error {
		_, err := tx.LockStockItem(ctx, b.ID)
		return err
	})
	require.NoError(t, err)
}

func TestLockStockItem_MissingRow(t *testing.T) {
	s := New()
	err := s.WithinTx(context.Background(), repositories.TxOptions{}, func(ctx context.Context, tx repositories.Tx) error {
		item, err := tx.LockStockItem(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, item)
		return nil
	})
	require.NoError(t, err)
}

func TestUpdateStockQuantity_RejectsNegativeAndUnlocked(t *testing.T) {
	s := New()
	item := seedItem(s, 10)

	err := s.WithinTx(context.Background(), repositories.TxOptions{}, func(ctx context.Context, tx repositories.Tx) error {
		require.Error(t, tx.UpdateStockQuantity(ctx, item.ID, decimal.NewFromInt(1), time.Now()), "unlocked row")
		_, _ = tx.LockStockItem(ctx, item.ID)
		require.Error(t, tx.UpdateStockQuantity(ctx, item.ID, decimal.NewFromInt(-1), time.Now()), "negative quantity")
		return nil
	})
	require.NoError(t, err)
}

func TestPutRecipe_OrdersLinesByPosition(t *testing.T) {
	s := New()
	recipe := models.Recipe{ID: uuid.New(), Name: "Dark Chocolate"}
	s.PutRecipe(recipe,
		models.BOMLine{RecipeID: recipe.ID, Position: 2, IngredientID: uuid.New(), QuantityPerUnit: decimal.NewFromInt(1)},
		models.BOMLine{RecipeID: recipe.ID, Position: 1, IngredientID: uuid.New(), QuantityPerUnit: decimal.NewFromInt(1)},
	)

	lines, err := s.ListRecipeLines(context.Background(), recipe.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].Position)
	assert.Equal(t, 2, lines[1].Position)
}
