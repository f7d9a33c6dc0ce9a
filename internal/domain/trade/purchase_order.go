package trade

import (
	"fmt"
	"time"

	"github.com/atlas-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft            PurchaseOrderStatus = "draft"
	PurchaseOrderStatusPending          PurchaseOrderStatus = "pending"
	PurchaseOrderStatusApproved         PurchaseOrderStatus = "approved"
	PurchaseOrderStatusOrdered          PurchaseOrderStatus = "ordered"
	PurchaseOrderStatusReceivedPartial  PurchaseOrderStatus = "received_partial"
	PurchaseOrderStatusReceivedComplete PurchaseOrderStatus = "received_complete"
	PurchaseOrderStatusCancelled        PurchaseOrderStatus = "cancelled"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusPending, PurchaseOrderStatusApproved,
		PurchaseOrderStatusOrdered, PurchaseOrderStatusReceivedPartial,
		PurchaseOrderStatusReceivedComplete, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanApprove returns true if an approval is allowed from this status
func (s PurchaseOrderStatus) CanApprove() bool {
	return s == PurchaseOrderStatusDraft || s == PurchaseOrderStatusPending
}

// CanReceive returns true if receiving goods is allowed in this status
func (s PurchaseOrderStatus) CanReceive() bool {
	switch s {
	case PurchaseOrderStatusApproved, PurchaseOrderStatusOrdered, PurchaseOrderStatusReceivedPartial:
		return true
	}
	return false
}

// IsTerminal returns true if no further transitions are possible
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusReceivedComplete || s == PurchaseOrderStatusCancelled
}

// PurchaseOrderItemStatus represents the receiving status of a line item
type PurchaseOrderItemStatus string

const (
	PurchaseOrderItemStatusPending          PurchaseOrderItemStatus = "pending"
	PurchaseOrderItemStatusPartial          PurchaseOrderItemStatus = "partial"
	PurchaseOrderItemStatusReceivedComplete PurchaseOrderItemStatus = "received_complete"
)

// IsValid checks if the status is a valid PurchaseOrderItemStatus
func (s PurchaseOrderItemStatus) IsValid() bool {
	switch s {
	case PurchaseOrderItemStatusPending, PurchaseOrderItemStatusPartial, PurchaseOrderItemStatusReceivedComplete:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderItemStatus
func (s PurchaseOrderItemStatus) String() string {
	return string(s)
}

// DerivePurchaseOrderStatus computes the order status from the statuses of
// its line items. The result is received_complete when every item is fully
// received, received_partial when any item shows receiving progress, and
// the current status otherwise. An order without items keeps its status.
func DerivePurchaseOrderStatus(current PurchaseOrderStatus, items []PurchaseOrderItemStatus) PurchaseOrderStatus {
	if len(items) == 0 {
		return current
	}

	complete := 0
	progressed := 0
	for _, s := range items {
		switch s {
		case PurchaseOrderItemStatusReceivedComplete:
			complete++
			progressed++
		case PurchaseOrderItemStatusPartial:
			progressed++
		}
	}

	if complete == len(items) {
		return PurchaseOrderStatusReceivedComplete
	}
	if progressed > 0 {
		return PurchaseOrderStatusReceivedPartial
	}
	return current
}

// PurchaseOrderItem represents a line item in a purchase order
type PurchaseOrderItem struct {
	ID               uuid.UUID               `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID               `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID               `gorm:"type:uuid;not null"`
	ProductName      string                  `gorm:"type:varchar(200);not null"`
	Quantity         decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	UnitCost         decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	Amount           decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	Status           PurchaseOrderItemStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt        time.Time               `gorm:"not null"`
	UpdatedAt        time.Time               `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// NewPurchaseOrderItem creates a new purchase order item
func NewPurchaseOrderItem(orderID, productID uuid.UUID, productName string, quantity, unitCost decimal.Decimal) (*PurchaseOrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	now := time.Now()
	return &PurchaseOrderItem{
		ID:               uuid.New(),
		OrderID:          orderID,
		ProductID:        productID,
		ProductName:      productName,
		Quantity:         quantity,
		ReceivedQuantity: decimal.Zero,
		UnitCost:         unitCost,
		Amount:           quantity.Mul(unitCost),
		Status:           PurchaseOrderItemStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// RemainingQuantity returns the quantity still to be received
func (i *PurchaseOrderItem) RemainingQuantity() decimal.Decimal {
	remaining := i.Quantity.Sub(i.ReceivedQuantity)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsFullyReceived returns true if all ordered quantity has been received
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQuantity.GreaterThanOrEqual(i.Quantity)
}

// ApplyReceipt records a delivery against the item. The requested quantity
// is clamped to the remaining receivable quantity; the applied quantity is
// returned, zero when nothing remains to receive. The item status follows
// the received quantity.
func (i *PurchaseOrderItem) ApplyReceipt(quantity decimal.Decimal) decimal.Decimal {
	applied := quantity
	if remaining := i.RemainingQuantity(); applied.GreaterThan(remaining) {
		applied = remaining
	}
	if applied.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	i.ReceivedQuantity = i.ReceivedQuantity.Add(applied)
	if i.IsFullyReceived() {
		i.Status = PurchaseOrderItemStatusReceivedComplete
	} else {
		i.Status = PurchaseOrderItemStatusPartial
	}
	i.UpdatedAt = time.Now()

	return applied
}

// UpdateQuantity updates the ordered quantity and recalculates the amount
func (i *PurchaseOrderItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity.LessThan(i.ReceivedQuantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity cannot be less than received quantity")
	}

	i.Quantity = quantity
	i.Amount = quantity.Mul(i.UnitCost)
	i.UpdatedAt = time.Now()

	return nil
}

// ReceiptLine reports one line item touched by a receipt
type ReceiptLine struct {
	ItemID      uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
}

// PurchaseOrder represents a purchase order aggregate root.
// Drafting and approval are pure data entry; the inventory ledger is only
// touched when goods are received against an approved order.
type PurchaseOrder struct {
	shared.AuditedAggregateRoot
	OrderNumber  string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchase_order_number"`
	SupplierID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	SupplierName string              `gorm:"type:varchar(200);not null"`
	WarehouseID  *uuid.UUID          `gorm:"type:uuid;index"`
	Items        []PurchaseOrderItem `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount  decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Status       PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	Notes        string              `gorm:"type:text"`
	ApprovedBy   *uuid.UUID          `gorm:"type:uuid"`
	ApprovedAt   *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// FormatPurchaseOrderNumber formats a sequence number as an order number
func FormatPurchaseOrderNumber(seq int64) string {
	return fmt.Sprintf("PO%06d", seq)
}

// NewPurchaseOrder creates a new purchase order in draft status
func NewPurchaseOrder(orderNumber string, supplierID uuid.UUID, supplierName string, createdBy uuid.UUID) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}

	order := &PurchaseOrder{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		OrderNumber:          orderNumber,
		SupplierID:           supplierID,
		SupplierName:         supplierName,
		Items:                make([]PurchaseOrderItem, 0),
		TotalAmount:          decimal.Zero,
		Status:               PurchaseOrderStatusDraft,
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a new line item. Only allowed in draft status.
func (o *PurchaseOrder) AddItem(productID uuid.UUID, productName string, quantity, unitCost decimal.Decimal) (*PurchaseOrderItem, error) {
	if o.Status != PurchaseOrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft order")
	}

	for _, item := range o.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order, update quantity instead")
		}
	}

	item, err := NewPurchaseOrderItem(o.ID, productID, productName, quantity, unitCost)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return item, nil
}

// UpdateItemQuantity updates the ordered quantity of an existing item.
// Only allowed in draft status.
func (o *PurchaseOrder) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a non-draft order")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if err := o.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			o.recalculateTotal()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// RemoveItem removes a line item. Only allowed in draft status.
func (o *PurchaseOrder) RemoveItem(itemID uuid.UUID) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft order")
	}

	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotal()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// SetWarehouse sets the default warehouse for receiving
func (o *PurchaseOrder) SetWarehouse(warehouseID uuid.UUID) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot set warehouse on a closed order")
	}
	if warehouseID == uuid.Nil {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}

	o.WarehouseID = &warehouseID
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetNotes sets the order notes
func (o *PurchaseOrder) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// Submit moves the order from draft to pending approval
func (o *PurchaseOrder) Submit() error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot submit order without items")
	}

	o.Status = PurchaseOrderStatusPending
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Approve approves the order, recording the approver and the time.
// Allowed from draft or pending status.
func (o *PurchaseOrder) Approve(approvedBy uuid.UUID) error {
	if !o.Status.CanApprove() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve order in %s status", o.Status))
	}
	if approvedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_APPROVER", "Approver ID cannot be empty")
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot approve order without items")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusApproved
	o.ApprovedBy = &approvedBy
	o.ApprovedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderApprovedEvent(o))

	return nil
}

// MarkOrdered records that the order has been placed with the supplier
func (o *PurchaseOrder) MarkOrdered() error {
	if o.Status != PurchaseOrderStatusApproved {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark order in %s status as ordered", o.Status))
	}

	o.Status = PurchaseOrderStatusOrdered
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Receive applies a delivery given as a mapping of item ID to received
// quantity. Each requested quantity is clamped to the item's remaining
// receivable quantity; fully received items and non-positive requests are
// skipped. The returned lines carry the applied quantities only, ready to
// be posted to the inventory ledger. The order status is recomputed from
// the item statuses afterwards.
func (o *PurchaseOrder) Receive(lines map[uuid.UUID]decimal.Decimal) ([]ReceiptLine, error) {
	if !o.Status.CanReceive() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot receive goods for order in %s status", o.Status))
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Receive lines cannot be empty")
	}

	received := make([]ReceiptLine, 0, len(lines))
	for itemID, quantity := range lines {
		item := o.GetItem(itemID)
		if item == nil {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("Order item %s not found", itemID))
		}

		applied := item.ApplyReceipt(quantity)
		if applied.IsZero() {
			continue
		}

		received = append(received, ReceiptLine{
			ItemID:      item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    applied,
			UnitCost:    item.UnitCost,
		})
	}

	o.RecomputeStatus()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	if len(received) > 0 {
		o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o, received))
	}

	return received, nil
}

// RecomputeStatus re-derives the order status from its item statuses
func (o *PurchaseOrder) RecomputeStatus() {
	statuses := make([]PurchaseOrderItemStatus, len(o.Items))
	for idx, item := range o.Items {
		statuses[idx] = item.Status
	}
	o.Status = DerivePurchaseOrderStatus(o.Status, statuses)
}

// Cancel cancels the order. Not allowed once goods have been received.
func (o *PurchaseOrder) Cancel(reason string) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	if o.hasReceivedAnyGoods() {
		return shared.NewDomainError("ALREADY_RECEIVED", "Cannot cancel order after goods have been received")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o))

	return nil
}

// GetItem returns an item by its ID, nil when absent
func (o *PurchaseOrder) GetItem(itemID uuid.UUID) *PurchaseOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// GetItemByProduct returns an item by product ID, nil when absent
func (o *PurchaseOrder) GetItemByProduct(productID uuid.UUID) *PurchaseOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			return &o.Items[idx]
		}
	}
	return nil
}

// TotalOrderedQuantity returns the total ordered quantity across items
func (o *PurchaseOrder) TotalOrderedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Quantity)
	}
	return total
}

// TotalReceivedQuantity returns the total received quantity across items
func (o *PurchaseOrder) TotalReceivedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.ReceivedQuantity)
	}
	return total
}

func (o *PurchaseOrder) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
	}
	o.TotalAmount = total
}

func (o *PurchaseOrder) hasReceivedAnyGoods() bool {
	for _, item := range o.Items {
		if item.ReceivedQuantity.GreaterThan(decimal.Zero) {
			return true
		}
	}
	return false
}
