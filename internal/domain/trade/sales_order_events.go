package trade

import (
	"github.com/atlas-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for sales orders
const (
	EventTypeSalesOrderCreated   = "trade.sales_order_created"
	EventTypeSalesOrderApproved  = "trade.sales_order_approved"
	EventTypeSalesOrderAllocated = "trade.sales_order_allocated"
	EventTypeSalesOrderCancelled = "trade.sales_order_cancelled"
)

// SalesOrderCreatedEvent is emitted when a sales order is created
type SalesOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	CustomerID  uuid.UUID `json:"customer_id"`
}

// NewSalesOrderCreatedEvent creates a new SalesOrderCreatedEvent
func NewSalesOrderCreatedEvent(order *SalesOrder) *SalesOrderCreatedEvent {
	return &SalesOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCreated, "SalesOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
	}
}

// SalesOrderApprovedEvent is emitted when a sales order is approved
type SalesOrderApprovedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ApprovedBy  uuid.UUID       `json:"approved_by"`
}

// NewSalesOrderApprovedEvent creates a new SalesOrderApprovedEvent
func NewSalesOrderApprovedEvent(order *SalesOrder) *SalesOrderApprovedEvent {
	evt := &SalesOrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderApproved, "SalesOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
		TotalAmount:     order.TotalAmount,
	}
	if order.ApprovedBy != nil {
		evt.ApprovedBy = *order.ApprovedBy
	}
	return evt
}

// SalesOrderAllocatedEvent is emitted after a stock allocation run
type SalesOrderAllocatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber    string          `json:"order_number"`
	Status         string          `json:"status"`
	AllocatedTotal decimal.Decimal `json:"allocated_total"`
	FullyAllocated bool            `json:"fully_allocated"`
}

// NewSalesOrderAllocatedEvent creates a new SalesOrderAllocatedEvent
func NewSalesOrderAllocatedEvent(order *SalesOrder, allocatedTotal decimal.Decimal, fullyAllocated bool) *SalesOrderAllocatedEvent {
	return &SalesOrderAllocatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderAllocated, "SalesOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		Status:          order.Status.String(),
		AllocatedTotal:  allocatedTotal,
		FullyAllocated:  fullyAllocated,
	}
}

// SalesOrderCancelledEvent is emitted when a sales order is cancelled
type SalesOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	Reason      string `json:"reason"`
}

// NewSalesOrderCancelledEvent creates a new SalesOrderCancelledEvent
func NewSalesOrderCancelledEvent(order *SalesOrder) *SalesOrderCancelledEvent {
	return &SalesOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCancelled, "SalesOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		Reason:          order.CancelReason,
	}
}
