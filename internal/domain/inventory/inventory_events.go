package inventory

import (
	"github.com/atlas-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for the inventory context
const (
	EventTypeStockIncreased      = "inventory.stock_increased"
	EventTypeStockDecreased      = "inventory.stock_decreased"
	EventTypeStockBelowMinimum   = "inventory.stock_below_minimum"
	EventTypeTransferApproved    = "inventory.transfer_approved"
	EventTypeTransferCompleted   = "inventory.transfer_completed"
	EventTypeAdjustmentApproved  = "inventory.adjustment_approved"
	EventTypeAdjustmentCancelled = "inventory.adjustment_cancelled"
)

// StockIncreasedEvent is emitted when available stock increases
type StockIncreasedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID       `json:"product_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
}

// NewStockIncreasedEvent creates a new StockIncreasedEvent
func NewStockIncreasedEvent(level *InventoryLevel, quantity decimal.Decimal) *StockIncreasedEvent {
	return &StockIncreasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockIncreased, "InventoryLevel", level.ID),
		ProductID:       level.ProductID,
		WarehouseID:     level.WarehouseID,
		Quantity:        quantity,
		NewQuantity:     level.QuantityAvailable,
	}
}

// StockDecreasedEvent is emitted when available stock decreases
type StockDecreasedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID       `json:"product_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
}

// NewStockDecreasedEvent creates a new StockDecreasedEvent
func NewStockDecreasedEvent(level *InventoryLevel, quantity decimal.Decimal) *StockDecreasedEvent {
	return &StockDecreasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDecreased, "InventoryLevel", level.ID),
		ProductID:       level.ProductID,
		WarehouseID:     level.WarehouseID,
		Quantity:        quantity,
		NewQuantity:     level.QuantityAvailable,
	}
}

// StockBelowMinimumEvent is emitted when available stock falls below the minimum threshold
type StockBelowMinimumEvent struct {
	shared.BaseDomainEvent
	ProductID         uuid.UUID       `json:"product_id"`
	WarehouseID       uuid.UUID       `json:"warehouse_id"`
	QuantityAvailable decimal.Decimal `json:"quantity_available"`
	MinimumStock      decimal.Decimal `json:"minimum_stock"`
}

// NewStockBelowMinimumEvent creates a new StockBelowMinimumEvent
func NewStockBelowMinimumEvent(level *InventoryLevel) *StockBelowMinimumEvent {
	return &StockBelowMinimumEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeStockBelowMinimum, "InventoryLevel", level.ID),
		ProductID:         level.ProductID,
		WarehouseID:       level.WarehouseID,
		QuantityAvailable: level.QuantityAvailable,
		MinimumStock:      level.MinimumStock,
	}
}

// TransferApprovedEvent is emitted when a stock transfer is approved
type TransferApprovedEvent struct {
	shared.BaseDomainEvent
	TransferNumber         string    `json:"transfer_number"`
	SourceWarehouseID      uuid.UUID `json:"source_warehouse_id"`
	DestinationWarehouseID uuid.UUID `json:"destination_warehouse_id"`
	ApprovedBy             uuid.UUID `json:"approved_by"`
}

// NewTransferApprovedEvent creates a new TransferApprovedEvent
func NewTransferApprovedEvent(transfer *StockTransfer, approvedBy uuid.UUID) *TransferApprovedEvent {
	return &TransferApprovedEvent{
		BaseDomainEvent:        shared.NewBaseDomainEvent(EventTypeTransferApproved, "StockTransfer", transfer.ID),
		TransferNumber:         transfer.TransferNumber,
		SourceWarehouseID:      transfer.SourceWarehouseID,
		DestinationWarehouseID: transfer.DestinationWarehouseID,
		ApprovedBy:             approvedBy,
	}
}

// TransferCompletedEvent is emitted when every item of a transfer has moved
type TransferCompletedEvent struct {
	shared.BaseDomainEvent
	TransferNumber         string    `json:"transfer_number"`
	SourceWarehouseID      uuid.UUID `json:"source_warehouse_id"`
	DestinationWarehouseID uuid.UUID `json:"destination_warehouse_id"`
	ItemCount              int       `json:"item_count"`
}

// NewTransferCompletedEvent creates a new TransferCompletedEvent
func NewTransferCompletedEvent(transfer *StockTransfer) *TransferCompletedEvent {
	return &TransferCompletedEvent{
		BaseDomainEvent:        shared.NewBaseDomainEvent(EventTypeTransferCompleted, "StockTransfer", transfer.ID),
		TransferNumber:         transfer.TransferNumber,
		SourceWarehouseID:      transfer.SourceWarehouseID,
		DestinationWarehouseID: transfer.DestinationWarehouseID,
		ItemCount:              len(transfer.Items),
	}
}

// AdjustmentApprovedEvent is emitted when a stock adjustment is approved
type AdjustmentApprovedEvent struct {
	shared.BaseDomainEvent
	AdjustmentNumber string    `json:"adjustment_number"`
	WarehouseID      uuid.UUID `json:"warehouse_id"`
	Reason           string    `json:"reason"`
	ApprovedBy       uuid.UUID `json:"approved_by"`
}

// NewAdjustmentApprovedEvent creates a new AdjustmentApprovedEvent
func NewAdjustmentApprovedEvent(adjustment *StockAdjustment, approvedBy uuid.UUID) *AdjustmentApprovedEvent {
	return &AdjustmentApprovedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeAdjustmentApproved, "StockAdjustment", adjustment.ID),
		AdjustmentNumber: adjustment.AdjustmentNumber,
		WarehouseID:      adjustment.WarehouseID,
		Reason:           string(adjustment.Reason),
		ApprovedBy:       approvedBy,
	}
}
