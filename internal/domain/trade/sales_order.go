package trade

import (
	"fmt"
	"time"

	"github.com/atlas-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesOrderStatus represents the status of a sales order
type SalesOrderStatus string

const (
	SalesOrderStatusDraft           SalesOrderStatus = "draft"
	SalesOrderStatusPending         SalesOrderStatus = "pending"
	SalesOrderStatusApproved        SalesOrderStatus = "approved"
	SalesOrderStatusProcessing      SalesOrderStatus = "processing"
	SalesOrderStatusShippedPartial  SalesOrderStatus = "shipped_partial"
	SalesOrderStatusShippedComplete SalesOrderStatus = "shipped_complete"
	SalesOrderStatusDelivered       SalesOrderStatus = "delivered"
	SalesOrderStatusCancelled       SalesOrderStatus = "cancelled"
)

// IsValid checks if the status is a valid SalesOrderStatus
func (s SalesOrderStatus) IsValid() bool {
	switch s {
	case SalesOrderStatusDraft, SalesOrderStatusPending, SalesOrderStatusApproved,
		SalesOrderStatusProcessing, SalesOrderStatusShippedPartial,
		SalesOrderStatusShippedComplete, SalesOrderStatusDelivered, SalesOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SalesOrderStatus
func (s SalesOrderStatus) String() string {
	return string(s)
}

// CanApprove returns true if an approval is allowed from this status
func (s SalesOrderStatus) CanApprove() bool {
	return s == SalesOrderStatusDraft || s == SalesOrderStatusPending
}

// CanAllocate returns true if stock allocation is allowed in this status.
// Partially shipped orders remain allocatable so that a later allocation
// run can fill the shortfall once stock arrives.
func (s SalesOrderStatus) CanAllocate() bool {
	switch s {
	case SalesOrderStatusApproved, SalesOrderStatusProcessing, SalesOrderStatusShippedPartial:
		return true
	}
	return false
}

// IsTerminal returns true if no further transitions are possible
func (s SalesOrderStatus) IsTerminal() bool {
	return s == SalesOrderStatusDelivered || s == SalesOrderStatusCancelled
}

// SalesOrderItemStatus represents the shipping status of a line item
type SalesOrderItemStatus string

const (
	SalesOrderItemStatusPending         SalesOrderItemStatus = "pending"
	SalesOrderItemStatusShippedPartial  SalesOrderItemStatus = "shipped_partial"
	SalesOrderItemStatusShippedComplete SalesOrderItemStatus = "shipped_complete"
)

// IsValid checks if the status is a valid SalesOrderItemStatus
func (s SalesOrderItemStatus) IsValid() bool {
	switch s {
	case SalesOrderItemStatusPending, SalesOrderItemStatusShippedPartial, SalesOrderItemStatusShippedComplete:
		return true
	}
	return false
}

// String returns the string representation of SalesOrderItemStatus
func (s SalesOrderItemStatus) String() string {
	return string(s)
}

// DeriveSalesOrderStatus computes the order status from the statuses of its
// line items. The result is shipped_complete when every item is fully
// shipped, shipped_partial when any item shows shipping progress, and the
// current status otherwise. An order without items keeps its status.
func DeriveSalesOrderStatus(current SalesOrderStatus, items []SalesOrderItemStatus) SalesOrderStatus {
	if len(items) == 0 {
		return current
	}

	complete := 0
	progressed := 0
	for _, s := range items {
		switch s {
		case SalesOrderItemStatusShippedComplete:
			complete++
			progressed++
		case SalesOrderItemStatusShippedPartial:
			progressed++
		}
	}

	if complete == len(items) {
		return SalesOrderStatusShippedComplete
	}
	if progressed > 0 {
		return SalesOrderStatusShippedPartial
	}
	return current
}

// SalesOrderItem represents a line item in a sales order
type SalesOrderItem struct {
	ID              uuid.UUID            `gorm:"type:uuid;primary_key"`
	OrderID         uuid.UUID            `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID            `gorm:"type:uuid;not null"`
	ProductName     string               `gorm:"type:varchar(200);not null"`
	Quantity        decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	ShippedQuantity decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	UnitPrice       decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Amount          decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Status          SalesOrderItemStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt       time.Time            `gorm:"not null"`
	UpdatedAt       time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SalesOrderItem) TableName() string {
	return "sales_order_items"
}

// NewSalesOrderItem creates a new sales order item
func NewSalesOrderItem(orderID, productID uuid.UUID, productName string, quantity, unitPrice decimal.Decimal) (*SalesOrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &SalesOrderItem{
		ID:              uuid.New(),
		OrderID:         orderID,
		ProductID:       productID,
		ProductName:     productName,
		Quantity:        quantity,
		ShippedQuantity: decimal.Zero,
		UnitPrice:       unitPrice,
		Amount:          quantity.Mul(unitPrice),
		Status:          SalesOrderItemStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// RemainingQuantity returns the quantity still to be shipped
func (i *SalesOrderItem) RemainingQuantity() decimal.Decimal {
	remaining := i.Quantity.Sub(i.ShippedQuantity)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsFullyShipped returns true if all ordered quantity has been shipped
func (i *SalesOrderItem) IsFullyShipped() bool {
	return i.ShippedQuantity.GreaterThanOrEqual(i.Quantity)
}

// Allocate records stock taken for this item and refreshes its status
func (i *SalesOrderItem) Allocate(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Allocation quantity must be positive")
	}
	if quantity.GreaterThan(i.RemainingQuantity()) {
		return shared.NewDomainError("QUANTITY_EXCEEDED", fmt.Sprintf("Cannot allocate %s, only %s remaining", quantity.String(), i.RemainingQuantity().String()))
	}

	i.ShippedQuantity = i.ShippedQuantity.Add(quantity)
	i.RefreshStatus()
	i.UpdatedAt = time.Now()

	return nil
}

// RefreshStatus re-derives the item status from its shipped quantity
func (i *SalesOrderItem) RefreshStatus() {
	switch {
	case i.IsFullyShipped():
		i.Status = SalesOrderItemStatusShippedComplete
	case i.ShippedQuantity.GreaterThan(decimal.Zero):
		i.Status = SalesOrderItemStatusShippedPartial
	default:
		i.Status = SalesOrderItemStatusPending
	}
}

// UpdateQuantity updates the ordered quantity and recalculates the amount
func (i *SalesOrderItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity.LessThan(i.ShippedQuantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity cannot be less than shipped quantity")
	}

	i.Quantity = quantity
	i.Amount = quantity.Mul(i.UnitPrice)
	i.UpdatedAt = time.Now()

	return nil
}

// SalesOrder represents a sales order aggregate root.
// Stock is never reserved at draft time; allocation against the inventory
// ledger happens only after approval, as an explicit action.
type SalesOrder struct {
	shared.AuditedAggregateRoot
	OrderNumber  string           `gorm:"type:varchar(50);not null;uniqueIndex:idx_sales_order_number"`
	CustomerID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	CustomerName string           `gorm:"type:varchar(200);not null"`
	Items        []SalesOrderItem `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount  decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Status       SalesOrderStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	Notes        string           `gorm:"type:text"`
	ApprovedBy   *uuid.UUID       `gorm:"type:uuid"`
	ApprovedAt   *time.Time
	DeliveredAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (SalesOrder) TableName() string {
	return "sales_orders"
}

// FormatSalesOrderNumber formats a sequence number as an order number
func FormatSalesOrderNumber(seq int64) string {
	return fmt.Sprintf("SO%06d", seq)
}

// NewSalesOrder creates a new sales order in draft status
func NewSalesOrder(orderNumber string, customerID uuid.UUID, customerName string, createdBy uuid.UUID) (*SalesOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}

	order := &SalesOrder{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		OrderNumber:          orderNumber,
		CustomerID:           customerID,
		CustomerName:         customerName,
		Items:                make([]SalesOrderItem, 0),
		TotalAmount:          decimal.Zero,
		Status:               SalesOrderStatusDraft,
	}

	order.AddDomainEvent(NewSalesOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a new line item. Only allowed in draft status.
func (o *SalesOrder) AddItem(productID uuid.UUID, productName string, quantity, unitPrice decimal.Decimal) (*SalesOrderItem, error) {
	if o.Status != SalesOrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft order")
	}

	for _, item := range o.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order, update quantity instead")
		}
	}

	item, err := NewSalesOrderItem(o.ID, productID, productName, quantity, unitPrice)
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
func (o *SalesOrder) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status != SalesOrderStatusDraft {
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
func (o *SalesOrder) RemoveItem(itemID uuid.UUID) error {
	if o.Status != SalesOrderStatusDraft {
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

// SetNotes sets the order notes
func (o *SalesOrder) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// Submit moves the order from draft to pending approval
func (o *SalesOrder) Submit() error {
	if o.Status != SalesOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot submit order without items")
	}

	o.Status = SalesOrderStatusPending
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Approve approves the order, recording the approver and the time.
// Allowed from draft or pending status. Approval does not allocate stock;
// allocation is a separate explicit action.
func (o *SalesOrder) Approve(approvedBy uuid.UUID) error {
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
	o.Status = SalesOrderStatusApproved
	o.ApprovedBy = &approvedBy
	o.ApprovedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewSalesOrderApprovedEvent(o))

	return nil
}

// RecomputeStatus re-derives the order status from its item statuses
func (o *SalesOrder) RecomputeStatus() {
	statuses := make([]SalesOrderItemStatus, len(o.Items))
	for idx, item := range o.Items {
		statuses[idx] = item.Status
	}
	o.Status = DeriveSalesOrderStatus(o.Status, statuses)
}

// MarkDelivered records delivery of a fully shipped order
func (o *SalesOrder) MarkDelivered() error {
	if o.Status != SalesOrderStatusShippedComplete {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark order in %s status as delivered", o.Status))
	}

	now := time.Now()
	o.Status = SalesOrderStatusDelivered
	o.DeliveredAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// Cancel cancels the order. Not allowed once stock has been shipped.
func (o *SalesOrder) Cancel(reason string) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	if o.hasShippedAnyGoods() {
		return shared.NewDomainError("ALREADY_SHIPPED", "Cannot cancel order after stock has been shipped")
	}

	now := time.Now()
	o.Status = SalesOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewSalesOrderCancelledEvent(o))

	return nil
}

// GetItem returns an item by its ID, nil when absent
func (o *SalesOrder) GetItem(itemID uuid.UUID) *SalesOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// UnshippedItems returns pointers to the items still awaiting stock
func (o *SalesOrder) UnshippedItems() []*SalesOrderItem {
	items := make([]*SalesOrderItem, 0)
	for idx := range o.Items {
		if !o.Items[idx].IsFullyShipped() {
			items = append(items, &o.Items[idx])
		}
	}
	return items
}

// TotalOrderedQuantity returns the total ordered quantity across items
func (o *SalesOrder) TotalOrderedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Quantity)
	}
	return total
}

// TotalShippedQuantity returns the total shipped quantity across items
func (o *SalesOrder) TotalShippedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.ShippedQuantity)
	}
	return total
}

func (o *SalesOrder) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
	}
	o.TotalAmount = total
}

func (o *SalesOrder) hasShippedAnyGoods() bool {
	for _, item := range o.Items {
		if item.ShippedQuantity.GreaterThan(decimal.Zero) {
			return true
		}
	}
	return false
}
