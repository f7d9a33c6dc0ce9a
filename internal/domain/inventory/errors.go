package inventory

import "github.com/atlas-erp/backend/internal/domain/shared"

// ErrInsufficientStock is returned by guarded ledger decrements when the
// available quantity does not cover the requested deduction. Callers use
// errors.Is to tell a shortfall apart from infrastructure failures.
var ErrInsufficientStock = shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient available stock")

// ErrAllocationIncomplete is returned when a sales allocation run could not
// cover every item. Allocations made before the shortfall stay committed.
var ErrAllocationIncomplete = shared.NewDomainError("ALLOCATION_INCOMPLETE", "Sales order could not be fully allocated")

// ErrLevelNotFound is returned when no ledger row exists for a lookup
var ErrLevelNotFound = shared.NewDomainError("INVENTORY_LEVEL_NOT_FOUND", "Inventory level not found")

// ErrTransferNotFound is returned when a stock transfer does not exist
var ErrTransferNotFound = shared.NewDomainError("STOCK_TRANSFER_NOT_FOUND", "Stock transfer not found")

// ErrAdjustmentNotFound is returned when a stock adjustment does not exist
var ErrAdjustmentNotFound = shared.NewDomainError("STOCK_ADJUSTMENT_NOT_FOUND", "Stock adjustment not found")
