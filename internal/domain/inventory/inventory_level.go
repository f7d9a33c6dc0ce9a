package inventory

import (
	"time"

	"github.com/atlas-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryLevel is the ledger row for a product at a warehouse.
// It is the aggregate root for stock quantities; the composite identifier
// is ProductID + WarehouseID. Quantities are mutated exclusively by the
// movement services, never recomputed from the transaction log.
type InventoryLevel struct {
	shared.BaseAggregateRoot
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_product_warehouse,priority:1"`
	WarehouseID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_product_warehouse,priority:2"`
	QuantityAvailable decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	QuantityReserved  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinimumStock      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderPoint      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BatchNumber       string          `gorm:"type:varchar(100)"`
	ExpiryDate        *time.Time      `gorm:"type:date"`
	LastCountedDate   *time.Time      `gorm:"type:date"`
	Notes             string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (InventoryLevel) TableName() string {
	return "inventories"
}

// NewInventoryLevel creates an empty ledger row for a product-warehouse pair
func NewInventoryLevel(productID, warehouseID uuid.UUID) (*InventoryLevel, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}

	return &InventoryLevel{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		WarehouseID:       warehouseID,
		QuantityAvailable: decimal.Zero,
		QuantityReserved:  decimal.Zero,
		MinimumStock:      decimal.Zero,
		ReorderPoint:      decimal.Zero,
	}, nil
}

// QuantityOnHand returns available minus reserved
func (l *InventoryLevel) QuantityOnHand() decimal.Decimal {
	return l.QuantityAvailable.Sub(l.QuantityReserved)
}

// CanFulfill returns true if the available quantity covers the requested quantity
func (l *InventoryLevel) CanFulfill(quantity decimal.Decimal) bool {
	return l.QuantityAvailable.GreaterThanOrEqual(quantity)
}

// HasAvailableStock returns true if there is any available stock
func (l *InventoryLevel) HasAvailableStock() bool {
	return l.QuantityAvailable.GreaterThan(decimal.Zero)
}

// Increase adds quantity to the available stock
func (l *InventoryLevel) Increase(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	l.QuantityAvailable = l.QuantityAvailable.Add(quantity)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewStockIncreasedEvent(l, quantity))

	return nil
}

// Decrease removes quantity from the available stock.
// Fails with INSUFFICIENT_STOCK if the available quantity does not cover it.
func (l *InventoryLevel) Decrease(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if l.QuantityAvailable.LessThan(quantity) {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient available stock")
	}

	l.QuantityAvailable = l.QuantityAvailable.Sub(quantity)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewStockDecreasedEvent(l, quantity))

	if l.IsBelowMinimum() {
		l.AddDomainEvent(NewStockBelowMinimumEvent(l))
	}

	return nil
}

// SetQuantity overwrites the available quantity (direct CRUD edits and
// physical counts). This bypasses the increase/decrease invariants on purpose.
func (l *InventoryLevel) SetQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}

	l.QuantityAvailable = quantity
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	if l.IsBelowMinimum() {
		l.AddDomainEvent(NewStockBelowMinimumEvent(l))
	}

	return nil
}

// SetMinimumStock sets the minimum stock threshold for alerts
func (l *InventoryLevel) SetMinimumStock(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Minimum stock cannot be negative")
	}

	l.MinimumStock = quantity
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// SetReorderPoint sets the reorder point threshold
func (l *InventoryLevel) SetReorderPoint(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Reorder point cannot be negative")
	}

	l.ReorderPoint = quantity
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// SetBatch records batch metadata on the ledger row
func (l *InventoryLevel) SetBatch(batchNumber string, expiryDate *time.Time) {
	l.BatchNumber = batchNumber
	l.ExpiryDate = expiryDate
	l.UpdatedAt = time.Now()
}

// MarkCounted records the date of the last physical count
func (l *InventoryLevel) MarkCounted(date time.Time) {
	l.LastCountedDate = &date
	l.UpdatedAt = time.Now()
}

// IsBelowMinimum returns true if available stock is below the minimum threshold
func (l *InventoryLevel) IsBelowMinimum() bool {
	return l.MinimumStock.GreaterThan(decimal.Zero) && l.QuantityAvailable.LessThan(l.MinimumStock)
}

// NeedsReorder returns true if available stock is at or below the reorder point
func (l *InventoryLevel) NeedsReorder() bool {
	return l.ReorderPoint.GreaterThan(decimal.Zero) && l.QuantityAvailable.LessThanOrEqual(l.ReorderPoint)
}
