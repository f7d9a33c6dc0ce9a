package inventory

import (
	"fmt"
	"time"

	"github.com/atlas-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockTransferStatus represents the status of a stock transfer
type StockTransferStatus string

const (
	StockTransferStatusDraft     StockTransferStatus = "draft"
	StockTransferStatusPending   StockTransferStatus = "pending"
	StockTransferStatusApproved  StockTransferStatus = "approved"
	StockTransferStatusCancelled StockTransferStatus = "cancelled"
	StockTransferStatusCompleted StockTransferStatus = "completed"
)

// IsValid checks if the status is a valid StockTransferStatus
func (s StockTransferStatus) IsValid() bool {
	switch s {
	case StockTransferStatusDraft, StockTransferStatusPending, StockTransferStatusApproved,
		StockTransferStatusCancelled, StockTransferStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of StockTransferStatus
func (s StockTransferStatus) String() string {
	return string(s)
}

// CanApprove returns true if an approval is allowed from this status
func (s StockTransferStatus) CanApprove() bool {
	return s == StockTransferStatusDraft || s == StockTransferStatusPending
}

// IsTerminal returns true for statuses with no outgoing transitions
func (s StockTransferStatus) IsTerminal() bool {
	return s == StockTransferStatusCancelled || s == StockTransferStatusCompleted
}

// StockTransferItem is a line item of a stock transfer
type StockTransferItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	TransferID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BatchNumber string          `gorm:"type:varchar(100)"`
	ExpiryDate  *time.Time      `gorm:"type:date"`
	Notes       string          `gorm:"type:varchar(500)"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockTransferItem) TableName() string {
	return "stock_transfer_items"
}

// NewStockTransferItem creates a new transfer line item
func NewStockTransferItem(transferID, productID uuid.UUID, quantity decimal.Decimal) (*StockTransferItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Transfer quantity must be positive")
	}

	now := time.Now()
	return &StockTransferItem{
		ID:         uuid.New(),
		TransferID: transferID,
		ProductID:  productID,
		Quantity:   quantity,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// SetBatch attaches batch metadata to the item
func (i *StockTransferItem) SetBatch(batchNumber string, expiryDate *time.Time) {
	i.BatchNumber = batchNumber
	i.ExpiryDate = expiryDate
	i.UpdatedAt = time.Now()
}

// StockTransfer moves stock between two warehouses. It is an aggregate root
// with an approval workflow; approval immediately processes the movement,
// drafts never touch the ledger.
type StockTransfer struct {
	shared.AuditedAggregateRoot
	TransferNumber         string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	SourceWarehouseID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	DestinationWarehouseID uuid.UUID           `gorm:"type:uuid;not null;index"`
	TransferDate           time.Time           `gorm:"type:date;not null"`
	Status                 StockTransferStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	Notes                  string              `gorm:"type:text"`
	Items                  []StockTransferItem `gorm:"foreignKey:TransferID;references:ID"`
	ApprovedBy             *uuid.UUID          `gorm:"type:uuid"`
	ApprovedAt             *time.Time
	CompletedAt            *time.Time
}

// TableName returns the table name for GORM
func (StockTransfer) TableName() string {
	return "stock_transfers"
}

// NewStockTransfer creates a new draft stock transfer
func NewStockTransfer(transferNumber string, sourceWarehouseID, destinationWarehouseID, createdBy uuid.UUID) (*StockTransfer, error) {
	if transferNumber == "" {
		return nil, shared.NewDomainError("INVALID_TRANSFER_NUMBER", "Transfer number cannot be empty")
	}
	if sourceWarehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Source warehouse ID cannot be empty")
	}
	if destinationWarehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Destination warehouse ID cannot be empty")
	}
	if sourceWarehouseID == destinationWarehouseID {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Source and destination warehouses must differ")
	}

	return &StockTransfer{
		AuditedAggregateRoot:   shared.NewAuditedAggregateRoot(createdBy),
		TransferNumber:         transferNumber,
		SourceWarehouseID:      sourceWarehouseID,
		DestinationWarehouseID: destinationWarehouseID,
		TransferDate:           time.Now(),
		Status:                 StockTransferStatusDraft,
		Items:                  make([]StockTransferItem, 0),
	}, nil
}

// AddItem adds a line item to the transfer. Only allowed in draft status.
func (t *StockTransfer) AddItem(productID uuid.UUID, quantity decimal.Decimal) (*StockTransferItem, error) {
	if t.Status != StockTransferStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft transfer")
	}
	for _, item := range t.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in transfer")
		}
	}

	item, err := NewStockTransferItem(t.ID, productID, quantity)
	if err != nil {
		return nil, err
	}

	t.Items = append(t.Items, *item)
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return item, nil
}

// RemoveItem removes a line item. Only allowed in draft status.
func (t *StockTransfer) RemoveItem(itemID uuid.UUID) error {
	if t.Status != StockTransferStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft transfer")
	}

	for idx, item := range t.Items {
		if item.ID == itemID {
			t.Items = append(t.Items[:idx], t.Items[idx+1:]...)
			t.UpdatedAt = time.Now()
			t.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Transfer item not found")
}

// Submit moves the transfer from draft to pending approval
func (t *StockTransfer) Submit() error {
	if t.Status != StockTransferStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit transfer in %s status", t.Status))
	}
	if len(t.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot submit transfer without items")
	}

	t.Status = StockTransferStatusPending
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// Approve records the approver and timestamp and marks the transfer approved.
// The caller is expected to process the movement immediately afterwards.
func (t *StockTransfer) Approve(approvedBy uuid.UUID) error {
	if !t.Status.CanApprove() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve transfer in %s status", t.Status))
	}
	if len(t.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot approve transfer without items")
	}
	if approvedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_ACTOR", "Approver ID cannot be empty")
	}

	now := time.Now()
	t.Status = StockTransferStatusApproved
	t.ApprovedBy = &approvedBy
	t.ApprovedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferApprovedEvent(t, approvedBy))

	return nil
}

// MarkCompleted flips an approved transfer to completed once every item moved
func (t *StockTransfer) MarkCompleted() error {
	if t.Status != StockTransferStatusApproved {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete transfer in %s status", t.Status))
	}

	now := time.Now()
	t.Status = StockTransferStatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferCompletedEvent(t))

	return nil
}

// Cancel cancels a transfer that has not moved stock yet
func (t *StockTransfer) Cancel() error {
	if t.Status != StockTransferStatusDraft && t.Status != StockTransferStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel transfer in %s status", t.Status))
	}

	t.Status = StockTransferStatusCancelled
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetNotes sets the transfer notes
func (t *StockTransfer) SetNotes(notes string) {
	t.Notes = notes
	t.UpdatedAt = time.Now()
}

// TotalQuantity returns the total quantity across all items
func (t *StockTransfer) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range t.Items {
		total = total.Add(item.Quantity)
	}
	return total
}

// FormatTransferNumber renders a sequential transfer number such as TRF000042
func FormatTransferNumber(sequence int64) string {
	return fmt.Sprintf("TRF%06d", sequence)
}
