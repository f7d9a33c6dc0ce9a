package inventory

import (
	"time"

	"github.com/atlas-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType classifies a stock movement in the transaction log
type TransactionType string

const (
	// TransactionTypeStockIn is a generic inbound movement
	TransactionTypeStockIn TransactionType = "stock_in"
	// TransactionTypeStockOut is a generic outbound movement
	TransactionTypeStockOut TransactionType = "stock_out"
	// TransactionTypeAdjustmentAdd is a positive stock adjustment
	TransactionTypeAdjustmentAdd TransactionType = "adjustment_add"
	// TransactionTypeAdjustmentRemove is a negative stock adjustment
	TransactionTypeAdjustmentRemove TransactionType = "adjustment_remove"
	// TransactionTypeTransferIn is stock arriving from another warehouse
	TransactionTypeTransferIn TransactionType = "transfer_in"
	// TransactionTypeTransferOut is stock leaving for another warehouse
	TransactionTypeTransferOut TransactionType = "transfer_out"
	// TransactionTypeSale is stock consumed by a sales order
	TransactionTypeSale TransactionType = "sale"
	// TransactionTypePurchase is stock received against a purchase order
	TransactionTypePurchase TransactionType = "purchase"
	// TransactionTypeReturnIn is stock returned by a customer
	TransactionTypeReturnIn TransactionType = "return_in"
	// TransactionTypeReturnOut is stock returned to a supplier
	TransactionTypeReturnOut TransactionType = "return_out"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeStockIn,
		TransactionTypeStockOut,
		TransactionTypeAdjustmentAdd,
		TransactionTypeAdjustmentRemove,
		TransactionTypeTransferIn,
		TransactionTypeTransferOut,
		TransactionTypeSale,
		TransactionTypePurchase,
		TransactionTypeReturnIn,
		TransactionTypeReturnOut:
		return true
	}
	return false
}

// IsInbound returns true if this transaction type increases stock
func (t TransactionType) IsInbound() bool {
	switch t {
	case TransactionTypeStockIn,
		TransactionTypeAdjustmentAdd,
		TransactionTypeTransferIn,
		TransactionTypePurchase,
		TransactionTypeReturnIn:
		return true
	}
	return false
}

// IsOutbound returns true if this transaction type decreases stock
func (t TransactionType) IsOutbound() bool {
	switch t {
	case TransactionTypeStockOut,
		TransactionTypeAdjustmentRemove,
		TransactionTypeTransferOut,
		TransactionTypeSale,
		TransactionTypeReturnOut:
		return true
	}
	return false
}

// ReferenceType identifies the kind of document a transaction originated from
type ReferenceType string

const (
	ReferenceTypePurchaseOrder   ReferenceType = "purchase_order"
	ReferenceTypeSalesOrder      ReferenceType = "sales_order"
	ReferenceTypeStockAdjustment ReferenceType = "stock_adjustment"
	ReferenceTypeStockTransfer   ReferenceType = "stock_transfer"
	ReferenceTypeManual          ReferenceType = "manual"
)

// String returns the string representation of ReferenceType
func (r ReferenceType) String() string {
	return string(r)
}

// IsValid returns true if the reference type is valid
func (r ReferenceType) IsValid() bool {
	switch r {
	case ReferenceTypePurchaseOrder,
		ReferenceTypeSalesOrder,
		ReferenceTypeStockAdjustment,
		ReferenceTypeStockTransfer,
		ReferenceTypeManual:
		return true
	}
	return false
}

// Reference is the provenance of a transaction: a typed link to the
// originating document, or Manual for movements with no source document.
// Using a closed union instead of a free-form (string, id) pair keeps
// provenance handling exhaustive at compile time.
type Reference struct {
	Type ReferenceType `gorm:"column:reference_type;type:varchar(30);not null;index:idx_inv_tx_reference"`
	ID   *uuid.UUID    `gorm:"column:reference_id;type:uuid;index:idx_inv_tx_reference"`
}

// PurchaseOrderReference links a transaction to a purchase order
func PurchaseOrderReference(id uuid.UUID) Reference {
	return Reference{Type: ReferenceTypePurchaseOrder, ID: &id}
}

// SalesOrderReference links a transaction to a sales order
func SalesOrderReference(id uuid.UUID) Reference {
	return Reference{Type: ReferenceTypeSalesOrder, ID: &id}
}

// StockAdjustmentReference links a transaction to a stock adjustment
func StockAdjustmentReference(id uuid.UUID) Reference {
	return Reference{Type: ReferenceTypeStockAdjustment, ID: &id}
}

// StockTransferReference links a transaction to a stock transfer
func StockTransferReference(id uuid.UUID) Reference {
	return Reference{Type: ReferenceTypeStockTransfer, ID: &id}
}

// ManualReference marks a transaction with no originating document
func ManualReference() Reference {
	return Reference{Type: ReferenceTypeManual}
}

// IsValid checks the reference invariant: every type except manual carries an ID
func (r Reference) IsValid() bool {
	if !r.Type.IsValid() {
		return false
	}
	if r.Type == ReferenceTypeManual {
		return r.ID == nil
	}
	return r.ID != nil && *r.ID != uuid.Nil
}

// InventoryTransaction is an immutable record of a single stock mutation.
// Quantity is signed: positive increases stock, negative decreases it.
// Once created, transactions are never updated or deleted; corrections are
// made with new transactions.
type InventoryTransaction struct {
	shared.BaseEntity
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_inv_tx_product_warehouse,priority:1"`
	WarehouseID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_inv_tx_product_warehouse,priority:2"`
	TransactionType TransactionType `gorm:"type:varchar(30);not null;index:idx_inv_tx_type"`
	Reference       Reference       `gorm:"embedded"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BatchNumber     string          `gorm:"type:varchar(100)"`
	ExpiryDate      *time.Time      `gorm:"type:date"`
	Notes           string          `gorm:"type:varchar(500)"`
	CreatedBy       uuid.UUID       `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}

// NewInventoryTransaction creates a new transaction log entry.
// The sign of quantity must match the direction of the transaction type.
func NewInventoryTransaction(
	productID uuid.UUID,
	warehouseID uuid.UUID,
	txType TransactionType,
	reference Reference,
	quantity decimal.Decimal,
	createdBy uuid.UUID,
) (*InventoryTransaction, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	}
	if !reference.IsValid() {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Invalid transaction reference")
	}
	if quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be zero")
	}
	if txType.IsInbound() && quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Inbound transaction quantity must be positive")
	}
	if txType.IsOutbound() && quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Outbound transaction quantity must be negative")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Acting user ID cannot be empty")
	}

	return &InventoryTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		ProductID:       productID,
		WarehouseID:     warehouseID,
		TransactionType: txType,
		Reference:       reference,
		Quantity:        quantity,
		CreatedBy:       createdBy,
	}, nil
}

// WithBatch attaches batch metadata to the transaction
func (t *InventoryTransaction) WithBatch(batchNumber string, expiryDate *time.Time) *InventoryTransaction {
	t.BatchNumber = batchNumber
	t.ExpiryDate = expiryDate
	return t
}

// WithNotes attaches a human-readable note to the transaction
func (t *InventoryTransaction) WithNotes(notes string) *InventoryTransaction {
	t.Notes = notes
	return t
}

// IsIncrease returns true if this transaction increases stock
func (t *InventoryTransaction) IsIncrease() bool {
	return t.Quantity.IsPositive()
}

// AbsoluteQuantity returns the unsigned quantity moved
func (t *InventoryTransaction) AbsoluteQuantity() decimal.Decimal {
	return t.Quantity.Abs()
}
