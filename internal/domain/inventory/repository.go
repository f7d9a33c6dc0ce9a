package inventory

import (
	"context"

	"github.com/atlas-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryLevelRepository persists the inventory ledger.
// Quantity mutations during movements go through the atomic
// AddQuantity/DeductQuantity methods so that concurrent movements against
// the same row serialize inside the database instead of racing a
// read-modify-write cycle.
type InventoryLevelRepository interface {
	// FindByID finds a ledger row by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryLevel, error)
	// FindByProductAndWarehouse finds the ledger row for a product-warehouse pair
	FindByProductAndWarehouse(ctx context.Context, productID, warehouseID uuid.UUID) (*InventoryLevel, error)
	// FindByProductForAllocation returns rows with available stock for a
	// product ordered by warehouse ID ascending, locked for update. The
	// ordering is the fixed allocation order for sales fulfilment.
	FindByProductForAllocation(ctx context.Context, productID uuid.UUID) ([]InventoryLevel, error)
	// FindAll lists ledger rows with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryLevel, error)
	// Count counts ledger rows matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// FindBelowMinimum lists rows below their minimum stock threshold
	FindBelowMinimum(ctx context.Context, filter shared.Filter) ([]InventoryLevel, error)
	// GetOrCreate returns the ledger row for the pair, creating an empty one if absent
	GetOrCreate(ctx context.Context, productID, warehouseID uuid.UUID) (*InventoryLevel, error)
	// Save creates or updates a ledger row
	Save(ctx context.Context, level *InventoryLevel) error
	// SaveWithLock updates a ledger row guarded by its optimistic version
	SaveWithLock(ctx context.Context, level *InventoryLevel) error
	// AddQuantity atomically increments quantity_available for the pair
	AddQuantity(ctx context.Context, productID, warehouseID uuid.UUID, quantity decimal.Decimal) error
	// DeductQuantity atomically decrements quantity_available, failing with
	// ErrInsufficientStock when the row is absent or holds less than quantity
	DeductQuantity(ctx context.Context, productID, warehouseID uuid.UUID, quantity decimal.Decimal) error
	// Delete removes a ledger row
	Delete(ctx context.Context, id uuid.UUID) error
}

// InventoryTransactionRepository persists the append-only transaction log.
// There are deliberately no update or delete methods.
type InventoryTransactionRepository interface {
	// Create appends a transaction to the log
	Create(ctx context.Context, tx *InventoryTransaction) error
	// FindByID finds a transaction by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryTransaction, error)
	// FindAll lists transactions with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryTransaction, error)
	// Count counts transactions matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// FindByReference lists transactions originating from a document
	FindByReference(ctx context.Context, ref Reference) ([]InventoryTransaction, error)
	// SumQuantity returns the signed sum of all transactions for a
	// product-warehouse pair, used to detect drift between the ledger and
	// the log
	SumQuantity(ctx context.Context, productID, warehouseID uuid.UUID) (decimal.Decimal, error)
}

// StockTransferRepository persists stock transfer aggregates
type StockTransferRepository interface {
	// FindByID finds a transfer with its items
	FindByID(ctx context.Context, id uuid.UUID) (*StockTransfer, error)
	// FindAll lists transfers with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]StockTransfer, error)
	// Count counts transfers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Save creates or updates a transfer and its items
	Save(ctx context.Context, transfer *StockTransfer) error
	// NextSequence returns the next number in the transfer numbering sequence
	NextSequence(ctx context.Context) (int64, error)
}

// StockAdjustmentRepository persists stock adjustment aggregates
type StockAdjustmentRepository interface {
	// FindByID finds an adjustment with its items
	FindByID(ctx context.Context, id uuid.UUID) (*StockAdjustment, error)
	// FindAll lists adjustments with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]StockAdjustment, error)
	// Count counts adjustments matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Save creates or updates an adjustment and its items
	Save(ctx context.Context, adjustment *StockAdjustment) error
	// NextSequence returns the next number in the adjustment numbering sequence
	NextSequence(ctx context.Context) (int64, error)
}
