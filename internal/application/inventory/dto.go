package inventory

import (
	"time"

	"github.com/atlas-erp/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryLevelResponse is the API representation of a ledger row
type InventoryLevelResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	WarehouseID       uuid.UUID       `json:"warehouse_id"`
	QuantityAvailable decimal.Decimal `json:"quantity_available"`
	QuantityReserved  decimal.Decimal `json:"quantity_reserved"`
	QuantityOnHand    decimal.Decimal `json:"quantity_on_hand"`
	MinimumStock      decimal.Decimal `json:"minimum_stock"`
	ReorderPoint      decimal.Decimal `json:"reorder_point"`
	BatchNumber       string          `json:"batch_number,omitempty"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	BelowMinimum      bool            `json:"below_minimum"`
	NeedsReorder      bool            `json:"needs_reorder"`
	LastCountedDate   *time.Time      `json:"last_counted_date,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToInventoryLevelResponse converts a ledger row to its API representation
func ToInventoryLevelResponse(level *inventory.InventoryLevel) InventoryLevelResponse {
	return InventoryLevelResponse{
		ID:                level.ID,
		ProductID:         level.ProductID,
		WarehouseID:       level.WarehouseID,
		QuantityAvailable: level.QuantityAvailable,
		QuantityReserved:  level.QuantityReserved,
		QuantityOnHand:    level.QuantityOnHand(),
		MinimumStock:      level.MinimumStock,
		ReorderPoint:      level.ReorderPoint,
		BatchNumber:       level.BatchNumber,
		ExpiryDate:        level.ExpiryDate,
		BelowMinimum:      level.IsBelowMinimum(),
		NeedsReorder:      level.NeedsReorder(),
		LastCountedDate:   level.LastCountedDate,
		UpdatedAt:         level.UpdatedAt,
	}
}

// InventoryTransactionResponse is the API representation of a log entry
type InventoryTransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	WarehouseID     uuid.UUID       `json:"warehouse_id"`
	TransactionType string          `json:"transaction_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	ReferenceType   string          `json:"reference_type"`
	ReferenceID     *uuid.UUID      `json:"reference_id,omitempty"`
	BatchNumber     string          `json:"batch_number,omitempty"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedBy       uuid.UUID       `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToInventoryTransactionResponse converts a log entry to its API representation
func ToInventoryTransactionResponse(tx *inventory.InventoryTransaction) InventoryTransactionResponse {
	return InventoryTransactionResponse{
		ID:              tx.ID,
		ProductID:       tx.ProductID,
		WarehouseID:     tx.WarehouseID,
		TransactionType: tx.TransactionType.String(),
		Quantity:        tx.Quantity,
		ReferenceType:   tx.Reference.Type.String(),
		ReferenceID:     tx.Reference.ID,
		BatchNumber:     tx.BatchNumber,
		ExpiryDate:      tx.ExpiryDate,
		Notes:           tx.Notes,
		CreatedBy:       tx.CreatedBy,
		CreatedAt:       tx.CreatedAt,
	}
}

// ToInventoryTransactionResponses converts a slice of log entries
func ToInventoryTransactionResponses(txs []inventory.InventoryTransaction) []InventoryTransactionResponse {
	out := make([]InventoryTransactionResponse, len(txs))
	for i := range txs {
		out[i] = ToInventoryTransactionResponse(&txs[i])
	}
	return out
}

// SetLevelQuantityRequest overwrites the stored quantity of a ledger row,
// optionally stamping it as a physical count
type SetLevelQuantityRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Counted     bool            `json:"counted"`
	Notes       string          `json:"notes"`
}

// TransferStockRequest moves a quantity of one product between warehouses
type TransferStockRequest struct {
	ProductID              uuid.UUID       `json:"product_id" binding:"required"`
	SourceWarehouseID      uuid.UUID       `json:"source_warehouse_id" binding:"required"`
	DestinationWarehouseID uuid.UUID       `json:"destination_warehouse_id" binding:"required"`
	Quantity               decimal.Decimal `json:"quantity" binding:"required"`
	BatchNumber            string          `json:"batch_number"`
	ExpiryDate             *time.Time      `json:"expiry_date"`
	Notes                  string          `json:"notes"`
}

// TransferItemRequest is one line of a stock transfer document
type TransferItemRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	BatchNumber string          `json:"batch_number"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
}

// CreateTransferRequest creates a draft stock transfer
type CreateTransferRequest struct {
	SourceWarehouseID      uuid.UUID             `json:"source_warehouse_id" binding:"required"`
	DestinationWarehouseID uuid.UUID             `json:"destination_warehouse_id" binding:"required"`
	Notes                  string                `json:"notes"`
	Items                  []TransferItemRequest `json:"items"`
}

// StockTransferItemResponse is the API representation of a transfer line
type StockTransferItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	BatchNumber string          `json:"batch_number,omitempty"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
}

// StockTransferResponse is the API representation of a stock transfer
type StockTransferResponse struct {
	ID                     uuid.UUID                   `json:"id"`
	TransferNumber         string                      `json:"transfer_number"`
	SourceWarehouseID      uuid.UUID                   `json:"source_warehouse_id"`
	DestinationWarehouseID uuid.UUID                   `json:"destination_warehouse_id"`
	Status                 string                      `json:"status"`
	Notes                  string                      `json:"notes,omitempty"`
	Items                  []StockTransferItemResponse `json:"items"`
	TotalQuantity          decimal.Decimal             `json:"total_quantity"`
	ApprovedBy             *uuid.UUID                  `json:"approved_by,omitempty"`
	ApprovedAt             *time.Time                  `json:"approved_at,omitempty"`
	CompletedAt            *time.Time                  `json:"completed_at,omitempty"`
	CreatedAt              time.Time                   `json:"created_at"`
	UpdatedAt              time.Time                   `json:"updated_at"`
}

// ToStockTransferResponse converts a transfer to its API representation
func ToStockTransferResponse(transfer *inventory.StockTransfer) StockTransferResponse {
	items := make([]StockTransferItemResponse, len(transfer.Items))
	for i, item := range transfer.Items {
		items[i] = StockTransferItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			BatchNumber: item.BatchNumber,
			ExpiryDate:  item.ExpiryDate,
		}
	}
	return StockTransferResponse{
		ID:                     transfer.ID,
		TransferNumber:         transfer.TransferNumber,
		SourceWarehouseID:      transfer.SourceWarehouseID,
		DestinationWarehouseID: transfer.DestinationWarehouseID,
		Status:                 transfer.Status.String(),
		Notes:                  transfer.Notes,
		Items:                  items,
		TotalQuantity:          transfer.TotalQuantity(),
		ApprovedBy:             transfer.ApprovedBy,
		ApprovedAt:             transfer.ApprovedAt,
		CompletedAt:            transfer.CompletedAt,
		CreatedAt:              transfer.CreatedAt,
		UpdatedAt:              transfer.UpdatedAt,
	}
}

// AdjustmentItemRequest is one line of a stock adjustment document
type AdjustmentItemRequest struct {
	ProductID       uuid.UUID       `json:"product_id" binding:"required"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	NewQuantity     decimal.Decimal `json:"new_quantity"`
}

// CreateAdjustmentRequest creates a draft stock adjustment
type CreateAdjustmentRequest struct {
	WarehouseID     uuid.UUID               `json:"warehouse_id" binding:"required"`
	Reason          string                  `json:"reason" binding:"required"`
	ReferenceNumber string                  `json:"reference_number"`
	Notes           string                  `json:"notes"`
	Items           []AdjustmentItemRequest `json:"items"`
}

// StockAdjustmentItemResponse is the API representation of an adjustment line
type StockAdjustmentItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	NewQuantity     decimal.Decimal `json:"new_quantity"`
	Quantity        decimal.Decimal `json:"quantity"`
}

// StockAdjustmentResponse is the API representation of a stock adjustment
type StockAdjustmentResponse struct {
	ID               uuid.UUID                     `json:"id"`
	AdjustmentNumber string                        `json:"adjustment_number"`
	WarehouseID      uuid.UUID                     `json:"warehouse_id"`
	Reason           string                        `json:"reason"`
	ReferenceNumber  string                        `json:"reference_number,omitempty"`
	Status           string                        `json:"status"`
	Notes            string                        `json:"notes,omitempty"`
	Items            []StockAdjustmentItemResponse `json:"items"`
	ApprovedBy       *uuid.UUID                    `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time                    `json:"approved_at,omitempty"`
	CreatedAt        time.Time                     `json:"created_at"`
	UpdatedAt        time.Time                     `json:"updated_at"`
}

// ToStockAdjustmentResponse converts an adjustment to its API representation
func ToStockAdjustmentResponse(adjustment *inventory.StockAdjustment) StockAdjustmentResponse {
	items := make([]StockAdjustmentItemResponse, len(adjustment.Items))
	for i, item := range adjustment.Items {
		items[i] = StockAdjustmentItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			CurrentQuantity: item.CurrentQuantity,
			NewQuantity:     item.NewQuantity,
			Quantity:        item.Quantity,
		}
	}
	return StockAdjustmentResponse{
		ID:               adjustment.ID,
		AdjustmentNumber: adjustment.AdjustmentNumber,
		WarehouseID:      adjustment.WarehouseID,
		Reason:           string(adjustment.Reason),
		ReferenceNumber:  adjustment.ReferenceNumber,
		Status:           adjustment.Status.String(),
		Notes:            adjustment.Notes,
		Items:            items,
		ApprovedBy:       adjustment.ApprovedBy,
		ApprovedAt:       adjustment.ApprovedAt,
		CreatedAt:        adjustment.CreatedAt,
		UpdatedAt:        adjustment.UpdatedAt,
	}
}

// AllocationLine reports how one sales order item was allocated
type AllocationLine struct {
	ItemID    uuid.UUID       `json:"item_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Requested decimal.Decimal `json:"requested"`
	Allocated decimal.Decimal `json:"allocated"`
	Shortfall decimal.Decimal `json:"shortfall"`
}

// AllocationResult reports the outcome of a sales order allocation run.
// Allocations already written are committed even when the run as a whole
// falls short; FullyAllocated distinguishes the two outcomes.
type AllocationResult struct {
	OrderID        uuid.UUID        `json:"order_id"`
	OrderStatus    string           `json:"order_status"`
	Lines          []AllocationLine `json:"lines"`
	FullyAllocated bool             `json:"fully_allocated"`
}

// TransferItemFailure reports a transfer line that could not be moved
type TransferItemFailure struct {
	ItemID    uuid.UUID `json:"item_id"`
	ProductID uuid.UUID `json:"product_id"`
	Error     string    `json:"error"`
}

// TransferProcessResult reports the outcome of processing a transfer
// document. Items already moved stay committed even when later items fail.
type TransferProcessResult struct {
	TransferID  uuid.UUID             `json:"transfer_id"`
	Status      string                `json:"status"`
	Completed   bool                  `json:"completed"`
	FailedItems []TransferItemFailure `json:"failed_items,omitempty"`
}

// ReconciliationReport compares a ledger row against the signed sum of its
// transaction log entries. Drift is ledger minus log; a non-zero drift
// usually points at adjustments, which by policy write the log only.
type ReconciliationReport struct {
	ProductID      uuid.UUID       `json:"product_id"`
	WarehouseID    uuid.UUID       `json:"warehouse_id"`
	LevelQuantity  decimal.Decimal `json:"level_quantity"`
	TransactionSum decimal.Decimal `json:"transaction_sum"`
	Drift          decimal.Decimal `json:"drift"`
	InSync         bool            `json:"in_sync"`
}
