package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestLevel(t *testing.T) *InventoryLevel {
	level, err := NewInventoryLevel(uuid.New(), uuid.New())
	require.NoError(t, err)
	return level
}

func createTestLevelWithStock(t *testing.T, quantity int64) *InventoryLevel {
	level := createTestLevel(t)
	require.NoError(t, level.Increase(decimal.NewFromInt(quantity)))
	level.ClearDomainEvents()
	return level
}

func TestNewInventoryLevel(t *testing.T) {
	t.Run("starts empty", func(t *testing.T) {
		level := createTestLevel(t)
		assert.True(t, level.QuantityAvailable.IsZero())
		assert.True(t, level.QuantityReserved.IsZero())
		assert.True(t, level.QuantityOnHand().IsZero())
	})

	t.Run("rejects nil product", func(t *testing.T) {
		_, err := NewInventoryLevel(uuid.Nil, uuid.New())
		assert.Error(t, err)
	})

	t.Run("rejects nil warehouse", func(t *testing.T) {
		_, err := NewInventoryLevel(uuid.New(), uuid.Nil)
		assert.Error(t, err)
	})
}

func TestInventoryLevel_Increase(t *testing.T) {
	t.Run("adds to available", func(t *testing.T) {
		level := createTestLevel(t)
		require.NoError(t, level.Increase(decimal.NewFromInt(10)))
		require.NoError(t, level.Increase(decimal.NewFromFloat(2.5)))
		assert.True(t, level.QuantityAvailable.Equal(decimal.NewFromFloat(12.5)))
	})

	t.Run("emits stock increased event", func(t *testing.T) {
		level := createTestLevel(t)
		require.NoError(t, level.Increase(decimal.NewFromInt(10)))

		events := level.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockIncreased, events[0].EventType())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		level := createTestLevel(t)
		assert.Error(t, level.Increase(decimal.Zero))
		assert.Error(t, level.Increase(decimal.NewFromInt(-1)))
	})
}

func TestInventoryLevel_Decrease(t *testing.T) {
	t.Run("subtracts from available", func(t *testing.T) {
		level := createTestLevelWithStock(t, 10)
		require.NoError(t, level.Decrease(decimal.NewFromInt(4)))
		assert.True(t, level.QuantityAvailable.Equal(decimal.NewFromInt(6)))
	})

	t.Run("fails on insufficient stock", func(t *testing.T) {
		level := createTestLevelWithStock(t, 3)
		err := level.Decrease(decimal.NewFromInt(4))
		require.Error(t, err)
		assert.True(t, level.QuantityAvailable.Equal(decimal.NewFromInt(3)), "failed decrease must not change quantity")
	})

	t.Run("allows draining to exactly zero", func(t *testing.T) {
		level := createTestLevelWithStock(t, 5)
		require.NoError(t, level.Decrease(decimal.NewFromInt(5)))
		assert.True(t, level.QuantityAvailable.IsZero())
	})

	t.Run("emits below minimum event when crossing threshold", func(t *testing.T) {
		level := createTestLevelWithStock(t, 10)
		require.NoError(t, level.SetMinimumStock(decimal.NewFromInt(5)))
		level.ClearDomainEvents()

		require.NoError(t, level.Decrease(decimal.NewFromInt(7)))

		types := make([]string, 0)
		for _, evt := range level.GetDomainEvents() {
			types = append(types, evt.EventType())
		}
		assert.Contains(t, types, EventTypeStockDecreased)
		assert.Contains(t, types, EventTypeStockBelowMinimum)
	})
}

func TestInventoryLevel_SetQuantity(t *testing.T) {
	t.Run("overwrites available quantity", func(t *testing.T) {
		level := createTestLevelWithStock(t, 10)
		require.NoError(t, level.SetQuantity(decimal.NewFromInt(3)))
		assert.True(t, level.QuantityAvailable.Equal(decimal.NewFromInt(3)))
	})

	t.Run("bumps version for optimistic locking", func(t *testing.T) {
		level := createTestLevelWithStock(t, 10)
		before := level.Version
		require.NoError(t, level.SetQuantity(decimal.NewFromInt(3)))
		assert.Equal(t, before+1, level.Version)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		level := createTestLevel(t)
		assert.Error(t, level.SetQuantity(decimal.NewFromInt(-1)))
	})

	t.Run("emits below minimum event when set under threshold", func(t *testing.T) {
		level := createTestLevelWithStock(t, 10)
		require.NoError(t, level.SetMinimumStock(decimal.NewFromInt(5)))
		level.ClearDomainEvents()

		require.NoError(t, level.SetQuantity(decimal.NewFromInt(2)))

		events := level.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockBelowMinimum, events[0].EventType())
	})
}

func TestInventoryLevel_MarkCounted(t *testing.T) {
	level := createTestLevelWithStock(t, 10)
	require.Nil(t, level.LastCountedDate)

	counted := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	level.MarkCounted(counted)

	require.NotNil(t, level.LastCountedDate)
	assert.True(t, level.LastCountedDate.Equal(counted))
}

func TestInventoryLevel_Thresholds(t *testing.T) {
	t.Run("below minimum detection", func(t *testing.T) {
		level := createTestLevelWithStock(t, 10)
		require.NoError(t, level.SetMinimumStock(decimal.NewFromInt(5)))

		assert.False(t, level.IsBelowMinimum())
		require.NoError(t, level.Decrease(decimal.NewFromInt(6)))
		assert.True(t, level.IsBelowMinimum())
	})

	t.Run("zero minimum never triggers", func(t *testing.T) {
		level := createTestLevel(t)
		assert.False(t, level.IsBelowMinimum())
	})

	t.Run("reorder point detection", func(t *testing.T) {
		level := createTestLevelWithStock(t, 10)
		require.NoError(t, level.SetReorderPoint(decimal.NewFromInt(10)))
		assert.True(t, level.NeedsReorder())
	})
}

func TestInventoryLevel_CanFulfill(t *testing.T) {
	level := createTestLevelWithStock(t, 5)
	assert.True(t, level.CanFulfill(decimal.NewFromInt(5)))
	assert.False(t, level.CanFulfill(decimal.NewFromInt(6)))
}

func TestInventoryLevel_HasAvailableStock(t *testing.T) {
	assert.False(t, createTestLevel(t).HasAvailableStock())
	assert.True(t, createTestLevelWithStock(t, 1).HasAvailableStock())
}

func TestInventoryLevel_Batch(t *testing.T) {
	level := createTestLevel(t)
	expiry := time.Now().AddDate(1, 0, 0)
	level.SetBatch("LOT-42", &expiry)

	assert.Equal(t, "LOT-42", level.BatchNumber)
	require.NotNil(t, level.ExpiryDate)
	assert.True(t, level.ExpiryDate.Equal(expiry))
}
