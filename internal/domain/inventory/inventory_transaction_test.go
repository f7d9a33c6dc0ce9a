package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// TransactionType Tests
// ============================================

func TestTransactionType_Direction(t *testing.T) {
	inbound := []TransactionType{
		TransactionTypeStockIn,
		TransactionTypeAdjustmentAdd,
		TransactionTypeTransferIn,
		TransactionTypePurchase,
		TransactionTypeReturnIn,
	}
	outbound := []TransactionType{
		TransactionTypeStockOut,
		TransactionTypeAdjustmentRemove,
		TransactionTypeTransferOut,
		TransactionTypeSale,
		TransactionTypeReturnOut,
	}

	for _, tt := range inbound {
		t.Run(string(tt), func(t *testing.T) {
			assert.True(t, tt.IsValid())
			assert.True(t, tt.IsInbound())
			assert.False(t, tt.IsOutbound())
		})
	}
	for _, tt := range outbound {
		t.Run(string(tt), func(t *testing.T) {
			assert.True(t, tt.IsValid())
			assert.True(t, tt.IsOutbound())
			assert.False(t, tt.IsInbound())
		})
	}

	assert.False(t, TransactionType("refund").IsValid())
	assert.False(t, TransactionType("").IsValid())
}

// ============================================
// Reference Tests
// ============================================

func TestReference_IsValid(t *testing.T) {
	t.Run("document references require an ID", func(t *testing.T) {
		assert.True(t, PurchaseOrderReference(uuid.New()).IsValid())
		assert.True(t, SalesOrderReference(uuid.New()).IsValid())
		assert.True(t, StockAdjustmentReference(uuid.New()).IsValid())
		assert.True(t, StockTransferReference(uuid.New()).IsValid())

		assert.False(t, Reference{Type: ReferenceTypePurchaseOrder}.IsValid())
		nilID := uuid.Nil
		assert.False(t, Reference{Type: ReferenceTypeSalesOrder, ID: &nilID}.IsValid())
	})

	t.Run("manual reference must not carry an ID", func(t *testing.T) {
		assert.True(t, ManualReference().IsValid())
		id := uuid.New()
		assert.False(t, Reference{Type: ReferenceTypeManual, ID: &id}.IsValid())
	})

	t.Run("unknown type is invalid", func(t *testing.T) {
		assert.False(t, Reference{Type: "shipment"}.IsValid())
	})
}

// ============================================
// InventoryTransaction Tests
// ============================================

func TestNewInventoryTransaction(t *testing.T) {
	productID := uuid.New()
	warehouseID := uuid.New()
	actor := uuid.New()

	t.Run("creates inbound transaction", func(t *testing.T) {
		tx, err := NewInventoryTransaction(productID, warehouseID, TransactionTypePurchase,
			PurchaseOrderReference(uuid.New()), decimal.NewFromInt(20), actor)
		require.NoError(t, err)
		assert.True(t, tx.IsIncrease())
		assert.True(t, tx.AbsoluteQuantity().Equal(decimal.NewFromInt(20)))
	})

	t.Run("creates outbound transaction", func(t *testing.T) {
		tx, err := NewInventoryTransaction(productID, warehouseID, TransactionTypeSale,
			SalesOrderReference(uuid.New()), decimal.NewFromInt(-6), actor)
		require.NoError(t, err)
		assert.False(t, tx.IsIncrease())
		assert.True(t, tx.AbsoluteQuantity().Equal(decimal.NewFromInt(6)))
	})

	t.Run("rejects sign mismatches", func(t *testing.T) {
		_, err := NewInventoryTransaction(productID, warehouseID, TransactionTypePurchase,
			PurchaseOrderReference(uuid.New()), decimal.NewFromInt(-20), actor)
		assert.Error(t, err, "inbound type with negative quantity")

		_, err = NewInventoryTransaction(productID, warehouseID, TransactionTypeSale,
			SalesOrderReference(uuid.New()), decimal.NewFromInt(6), actor)
		assert.Error(t, err, "outbound type with positive quantity")
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewInventoryTransaction(productID, warehouseID, TransactionTypeStockIn,
			ManualReference(), decimal.Zero, actor)
		assert.Error(t, err)
	})

	t.Run("rejects invalid reference", func(t *testing.T) {
		_, err := NewInventoryTransaction(productID, warehouseID, TransactionTypePurchase,
			Reference{Type: ReferenceTypePurchaseOrder}, decimal.NewFromInt(5), actor)
		assert.Error(t, err)
	})

	t.Run("rejects nil actor", func(t *testing.T) {
		_, err := NewInventoryTransaction(productID, warehouseID, TransactionTypeStockIn,
			ManualReference(), decimal.NewFromInt(5), uuid.Nil)
		assert.Error(t, err)
	})

	t.Run("attaches batch and notes", func(t *testing.T) {
		tx, err := NewInventoryTransaction(productID, warehouseID, TransactionTypeStockIn,
			ManualReference(), decimal.NewFromInt(5), actor)
		require.NoError(t, err)

		tx = tx.WithBatch("LOT-7", nil).WithNotes("cycle count intake")
		assert.Equal(t, "LOT-7", tx.BatchNumber)
		assert.Equal(t, "cycle count intake", tx.Notes)
	})
}
