package inventory

import (
	"fmt"
	"time"

	"github.com/atlas-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockAdjustmentStatus represents the status of a stock adjustment
type StockAdjustmentStatus string

const (
	StockAdjustmentStatusDraft     StockAdjustmentStatus = "draft"
	StockAdjustmentStatusPending   StockAdjustmentStatus = "pending"
	StockAdjustmentStatusApproved  StockAdjustmentStatus = "approved"
	StockAdjustmentStatusCancelled StockAdjustmentStatus = "cancelled"
)

// IsValid checks if the status is a valid StockAdjustmentStatus
func (s StockAdjustmentStatus) IsValid() bool {
	switch s {
	case StockAdjustmentStatusDraft, StockAdjustmentStatusPending,
		StockAdjustmentStatusApproved, StockAdjustmentStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of StockAdjustmentStatus
func (s StockAdjustmentStatus) String() string {
	return string(s)
}

// CanApprove returns true if an approval is allowed from this status
func (s StockAdjustmentStatus) CanApprove() bool {
	return s == StockAdjustmentStatusDraft || s == StockAdjustmentStatusPending
}

// AdjustmentReason classifies why stock was adjusted
type AdjustmentReason string

const (
	AdjustmentReasonPhysicalCount  AdjustmentReason = "physical_count"
	AdjustmentReasonDamage         AdjustmentReason = "damage"
	AdjustmentReasonExpiry         AdjustmentReason = "expiry"
	AdjustmentReasonTheft          AdjustmentReason = "theft"
	AdjustmentReasonReturn         AdjustmentReason = "return"
	AdjustmentReasonSupplierReturn AdjustmentReason = "supplier_return"
	AdjustmentReasonOther          AdjustmentReason = "other"
)

// IsValid returns true if the reason is a known adjustment reason
func (r AdjustmentReason) IsValid() bool {
	switch r {
	case AdjustmentReasonPhysicalCount, AdjustmentReasonDamage, AdjustmentReasonExpiry,
		AdjustmentReasonTheft, AdjustmentReasonReturn, AdjustmentReasonSupplierReturn,
		AdjustmentReasonOther:
		return true
	}
	return false
}

// StockAdjustmentItem is a line item of a stock adjustment. The delta
// Quantity is computed from current and new quantity when the item is
// saved and is NOT recomputed against the ledger at approval time; a
// concurrent movement between save and approval makes the delta stale.
type StockAdjustmentItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	AdjustmentID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	CurrentQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NewQuantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"` // NewQuantity - CurrentQuantity, signed
	BatchNumber     string          `gorm:"type:varchar(100)"`
	Notes           string          `gorm:"type:varchar(500)"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockAdjustmentItem) TableName() string {
	return "stock_adjustment_items"
}

// NewStockAdjustmentItem creates a new adjustment line item, freezing the
// signed delta at creation time.
func NewStockAdjustmentItem(adjustmentID, productID uuid.UUID, currentQuantity, newQuantity decimal.Decimal) (*StockAdjustmentItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if currentQuantity.IsNegative() || newQuantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantities cannot be negative")
	}

	now := time.Now()
	return &StockAdjustmentItem{
		ID:              uuid.New(),
		AdjustmentID:    adjustmentID,
		ProductID:       productID,
		CurrentQuantity: currentQuantity,
		NewQuantity:     newQuantity,
		Quantity:        newQuantity.Sub(currentQuantity),
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// TransactionType returns the transaction type matching the sign of the delta
func (i *StockAdjustmentItem) TransactionType() TransactionType {
	if i.Quantity.IsNegative() {
		return TransactionTypeAdjustmentRemove
	}
	return TransactionTypeAdjustmentAdd
}

// StockAdjustment corrects ledger quantities at a single warehouse.
// Items carry precomputed signed deltas; drafts have no ledger effect.
type StockAdjustment struct {
	shared.AuditedAggregateRoot
	AdjustmentNumber string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	WarehouseID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	AdjustmentDate   time.Time             `gorm:"type:date;not null"`
	ReferenceNumber  string                `gorm:"type:varchar(100)"`
	Reason           AdjustmentReason      `gorm:"type:varchar(30);not null"`
	Notes            string                `gorm:"type:text"`
	Status           StockAdjustmentStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	Items            []StockAdjustmentItem `gorm:"foreignKey:AdjustmentID;references:ID"`
	ApprovedBy       *uuid.UUID            `gorm:"type:uuid"`
	ApprovedAt       *time.Time
}

// TableName returns the table name for GORM
func (StockAdjustment) TableName() string {
	return "stock_adjustments"
}

// NewStockAdjustment creates a new draft stock adjustment
func NewStockAdjustment(adjustmentNumber string, warehouseID uuid.UUID, reason AdjustmentReason, createdBy uuid.UUID) (*StockAdjustment, error) {
	if adjustmentNumber == "" {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT_NUMBER", "Adjustment number cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Invalid adjustment reason")
	}

	return &StockAdjustment{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		AdjustmentNumber:     adjustmentNumber,
		WarehouseID:          warehouseID,
		AdjustmentDate:       time.Now(),
		Reason:               reason,
		Status:               StockAdjustmentStatusDraft,
		Items:                make([]StockAdjustmentItem, 0),
	}, nil
}

// AddItem adds a line item. Only allowed in draft status.
func (a *StockAdjustment) AddItem(productID uuid.UUID, currentQuantity, newQuantity decimal.Decimal) (*StockAdjustmentItem, error) {
	if a.Status != StockAdjustmentStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft adjustment")
	}
	for _, item := range a.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in adjustment")
		}
	}

	item, err := NewStockAdjustmentItem(a.ID, productID, currentQuantity, newQuantity)
	if err != nil {
		return nil, err
	}

	a.Items = append(a.Items, *item)
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return item, nil
}

// RemoveItem removes a line item. Only allowed in draft status.
func (a *StockAdjustment) RemoveItem(itemID uuid.UUID) error {
	if a.Status != StockAdjustmentStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft adjustment")
	}

	for idx, item := range a.Items {
		if item.ID == itemID {
			a.Items = append(a.Items[:idx], a.Items[idx+1:]...)
			a.UpdatedAt = time.Now()
			a.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Adjustment item not found")
}

// Submit moves the adjustment from draft to pending approval
func (a *StockAdjustment) Submit() error {
	if a.Status != StockAdjustmentStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit adjustment in %s status", a.Status))
	}
	if len(a.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot submit adjustment without items")
	}

	a.Status = StockAdjustmentStatusPending
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// Approve records the approver and timestamp and marks the adjustment approved
func (a *StockAdjustment) Approve(approvedBy uuid.UUID) error {
	if !a.Status.CanApprove() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve adjustment in %s status", a.Status))
	}
	if len(a.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot approve adjustment without items")
	}
	if approvedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_ACTOR", "Approver ID cannot be empty")
	}

	now := time.Now()
	a.Status = StockAdjustmentStatusApproved
	a.ApprovedBy = &approvedBy
	a.ApprovedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(NewAdjustmentApprovedEvent(a, approvedBy))

	return nil
}

// Cancel cancels an adjustment before approval
func (a *StockAdjustment) Cancel() error {
	if a.Status != StockAdjustmentStatusDraft && a.Status != StockAdjustmentStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel adjustment in %s status", a.Status))
	}

	a.Status = StockAdjustmentStatusCancelled
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// SetNotes sets the adjustment notes
func (a *StockAdjustment) SetNotes(notes string) {
	a.Notes = notes
	a.UpdatedAt = time.Now()
}

// SetReferenceNumber links the adjustment to an external document number
func (a *StockAdjustment) SetReferenceNumber(referenceNumber string) {
	a.ReferenceNumber = referenceNumber
	a.UpdatedAt = time.Now()
}

// FormatAdjustmentNumber renders a sequential adjustment number such as ADJ000042
func FormatAdjustmentNumber(sequence int64) string {
	return fmt.Sprintf("ADJ%06d", sequence)
}
