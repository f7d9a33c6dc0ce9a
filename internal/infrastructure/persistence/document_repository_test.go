package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/atlas-erp/backend/internal/application/inventory"
	"github.com/atlas-erp/backend/internal/domain/inventory"
	"github.com/atlas-erp/backend/internal/domain/shared"
	"github.com/atlas-erp/backend/internal/domain/trade"
)

func TestGormStockTransferRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockTransferRepository(db)
	ctx := context.Background()
	actor := uuid.New()

	t.Run("sequence starts at one", func(t *testing.T) {
		seq, err := repo.NextSequence(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), seq)
	})

	t.Run("round-trips a transfer with items", func(t *testing.T) {
		transfer, err := inventory.NewStockTransfer(
			inventory.FormatTransferNumber(1), uuid.New(), uuid.New(), actor)
		require.NoError(t, err)
		_, err = transfer.AddItem(uuid.New(), decimal.NewFromInt(10))
		require.NoError(t, err)
		_, err = transfer.AddItem(uuid.New(), decimal.NewFromInt(5))
		require.NoError(t, err)

		require.NoError(t, repo.Save(ctx, transfer))

		loaded, err := repo.FindByID(ctx, transfer.ID)
		require.NoError(t, err)
		assert.Equal(t, transfer.TransferNumber, loaded.TransferNumber)
		assert.Len(t, loaded.Items, 2)

		seq, err := repo.NextSequence(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), seq)
	})

	t.Run("removed items are deleted on save", func(t *testing.T) {
		transfer, err := inventory.NewStockTransfer(
			inventory.FormatTransferNumber(2), uuid.New(), uuid.New(), actor)
		require.NoError(t, err)
		_, err = transfer.AddItem(uuid.New(), decimal.NewFromInt(1))
		require.NoError(t, err)
		_, err = transfer.AddItem(uuid.New(), decimal.NewFromInt(2))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, transfer))

		transfer.Items = transfer.Items[:1]
		require.NoError(t, repo.Save(ctx, transfer))

		loaded, err := repo.FindByID(ctx, transfer.ID)
		require.NoError(t, err)
		assert.Len(t, loaded.Items, 1)
	})

	t.Run("missing transfer maps to not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, inventory.ErrTransferNotFound)
	})

	t.Run("filters by status", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters = map[string]interface{}{"status": "draft"}

		transfers, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.NotEmpty(t, transfers)
		for _, tr := range transfers {
			assert.Equal(t, inventory.StockTransferStatusDraft, tr.Status)
		}
	})
}

func TestGormStockAdjustmentRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockAdjustmentRepository(db)
	ctx := context.Background()

	adjustment, err := inventory.NewStockAdjustment(
		inventory.FormatAdjustmentNumber(1), uuid.New(),
		inventory.AdjustmentReasonPhysicalCount, uuid.New())
	require.NoError(t, err)
	_, err = adjustment.AddItem(uuid.New(), decimal.NewFromInt(10), decimal.NewFromInt(7))
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, adjustment))

	loaded, err := repo.FindByID(ctx, adjustment.ID)
	require.NoError(t, err)
	assert.Equal(t, adjustment.AdjustmentNumber, loaded.AdjustmentNumber)
	require.Len(t, loaded.Items, 1)
	assert.True(t, loaded.Items[0].Quantity.Equal(decimal.NewFromInt(-3)),
		"frozen delta must survive the round trip")

	seq, err := repo.NextSequence(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), seq)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, inventory.ErrAdjustmentNotFound)
}

func TestGormPurchaseOrderRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)
	ctx := context.Background()

	order, err := trade.NewPurchaseOrder(
		trade.FormatPurchaseOrderNumber(1), uuid.New(), "Acme Supplies", uuid.New())
	require.NoError(t, err)
	_, err = order.AddItem(uuid.New(), "Widget", decimal.NewFromInt(10), decimal.NewFromInt(3))
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, order))

	t.Run("finds by number", func(t *testing.T) {
		loaded, err := repo.FindByNumber(ctx, order.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, order.ID, loaded.ID)
		require.Len(t, loaded.Items, 1)
		assert.True(t, loaded.TotalAmount.Equal(decimal.NewFromInt(30)))
	})

	t.Run("missing order maps to not found", func(t *testing.T) {
		_, err := repo.FindByNumber(ctx, "PO999999")
		assert.ErrorIs(t, err, trade.ErrPurchaseOrderNotFound)
	})

	t.Run("sequence follows the highest stored number", func(t *testing.T) {
		seq, err := repo.NextSequence(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), seq)
	})

	t.Run("searches by supplier name", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "Acme"

		orders, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})
}

func TestGormSalesOrderRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSalesOrderRepository(db)
	ctx := context.Background()

	order, err := trade.NewSalesOrder(
		trade.FormatSalesOrderNumber(1), uuid.New(), "Globex Corp", uuid.New())
	require.NoError(t, err)
	_, err = order.AddItem(uuid.New(), "Widget", decimal.NewFromInt(4), decimal.NewFromInt(25))
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, order))

	loaded, err := repo.FindByNumber(ctx, order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.ID, loaded.ID)
	assert.True(t, loaded.TotalAmount.Equal(decimal.NewFromInt(100)))

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, trade.ErrSalesOrderNotFound)

	seq, err := repo.NextSequence(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), seq)
}

func TestGormTransactionScope(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormTransactionScope(db)
	levelRepo := NewGormInventoryLevelRepository(db)
	ctx := context.Background()

	productID := uuid.New()
	warehouseID := uuid.New()
	seedLevel(t, levelRepo, productID, warehouseID, decimal.NewFromInt(100))

	t.Run("commits on success", func(t *testing.T) {
		err := scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
			return repos.LevelRepo().DeductQuantity(ctx, productID, warehouseID, decimal.NewFromInt(40))
		})
		require.NoError(t, err)

		level, err := levelRepo.FindByProductAndWarehouse(ctx, productID, warehouseID)
		require.NoError(t, err)
		assert.True(t, level.QuantityAvailable.Equal(decimal.NewFromInt(60)))
	})

	t.Run("rolls back every write on failure", func(t *testing.T) {
		actor := uuid.New()
		err := scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
			if err := repos.LevelRepo().DeductQuantity(ctx, productID, warehouseID, decimal.NewFromInt(60)); err != nil {
				return err
			}
			tx, err := inventory.NewInventoryTransaction(
				productID, warehouseID, inventory.TransactionTypeTransferOut,
				inventory.StockTransferReference(uuid.New()), decimal.NewFromInt(-60), actor)
			if err != nil {
				return err
			}
			if err := repos.TransactionRepo().Create(ctx, tx); err != nil {
				return err
			}
			// Destination has no ledger row, so the second leg fails and
			// the deduction plus the log entry must both unwind.
			return repos.LevelRepo().AddQuantity(ctx, productID, uuid.New(), decimal.NewFromInt(60))
		})
		require.ErrorIs(t, err, inventory.ErrLevelNotFound)

		level, err := levelRepo.FindByProductAndWarehouse(ctx, productID, warehouseID)
		require.NoError(t, err)
		assert.True(t, level.QuantityAvailable.Equal(decimal.NewFromInt(60)),
			"deduction inside the failed transaction must be rolled back")

		txRepo := NewGormInventoryTransactionRepository(db)
		sum, err := txRepo.SumQuantity(ctx, productID, warehouseID)
		require.NoError(t, err)
		assert.False(t, sum.Equal(decimal.NewFromInt(-60)), "log append must be rolled back")
	})
}
