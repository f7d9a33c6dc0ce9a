package trade

import (
	"github.com/atlas-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for purchase orders
const (
	EventTypePurchaseOrderCreated   = "trade.purchase_order_created"
	EventTypePurchaseOrderApproved  = "trade.purchase_order_approved"
	EventTypePurchaseOrderReceived  = "trade.purchase_order_received"
	EventTypePurchaseOrderCancelled = "trade.purchase_order_cancelled"
)

// PurchaseOrderCreatedEvent is emitted when a purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	SupplierID  uuid.UUID `json:"supplier_id"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, "PurchaseOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
	}
}

// PurchaseOrderApprovedEvent is emitted when a purchase order is approved
type PurchaseOrderApprovedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ApprovedBy  uuid.UUID       `json:"approved_by"`
}

// NewPurchaseOrderApprovedEvent creates a new PurchaseOrderApprovedEvent
func NewPurchaseOrderApprovedEvent(order *PurchaseOrder) *PurchaseOrderApprovedEvent {
	evt := &PurchaseOrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderApproved, "PurchaseOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		TotalAmount:     order.TotalAmount,
	}
	if order.ApprovedBy != nil {
		evt.ApprovedBy = *order.ApprovedBy
	}
	return evt
}

// PurchaseOrderReceivedEvent is emitted when goods are received against an order
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string        `json:"order_number"`
	Status      string        `json:"status"`
	Lines       []ReceiptLine `json:"lines"`
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(order *PurchaseOrder, lines []ReceiptLine) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, "PurchaseOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		Status:          order.Status.String(),
		Lines:           lines,
	}
}

// PurchaseOrderCancelledEvent is emitted when a purchase order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	Reason      string `json:"reason"`
}

// NewPurchaseOrderCancelledEvent creates a new PurchaseOrderCancelledEvent
func NewPurchaseOrderCancelledEvent(order *PurchaseOrder) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCancelled, "PurchaseOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		Reason:          order.CancelReason,
	}
}
