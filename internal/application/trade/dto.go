package trade

import (
	"time"

	"github.com/atlas-erp/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one line of an order create or update request
type OrderItemRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreatePurchaseOrderRequest creates a draft purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID   uuid.UUID          `json:"supplier_id" binding:"required"`
	SupplierName string             `json:"supplier_name" binding:"required"`
	WarehouseID  *uuid.UUID         `json:"warehouse_id"`
	Notes        string             `json:"notes"`
	Items        []OrderItemRequest `json:"items"`
}

// ReceiptLineRequest is one line of a goods receipt: how much of an order
// item arrived, plus batch metadata for the ledger
type ReceiptLineRequest struct {
	ItemID      uuid.UUID       `json:"item_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	BatchNumber string          `json:"batch_number"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
}

// ProcessReceiptRequest records a delivery against an approved purchase
// order. WarehouseID overrides the order's default warehouse when set.
type ProcessReceiptRequest struct {
	WarehouseID *uuid.UUID           `json:"warehouse_id"`
	Lines       []ReceiptLineRequest `json:"lines" binding:"required"`
}

// PurchaseOrderItemResponse is the API representation of an order line
type PurchaseOrderItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	Amount           decimal.Decimal `json:"amount"`
	Status           string          `json:"status"`
}

// PurchaseOrderResponse is the API representation of a purchase order
type PurchaseOrderResponse struct {
	ID           uuid.UUID                   `json:"id"`
	OrderNumber  string                      `json:"order_number"`
	SupplierID   uuid.UUID                   `json:"supplier_id"`
	SupplierName string                      `json:"supplier_name"`
	WarehouseID  *uuid.UUID                  `json:"warehouse_id,omitempty"`
	Items        []PurchaseOrderItemResponse `json:"items"`
	TotalAmount  decimal.Decimal             `json:"total_amount"`
	Status       string                      `json:"status"`
	Notes        string                      `json:"notes,omitempty"`
	ApprovedBy   *uuid.UUID                  `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time                  `json:"approved_at,omitempty"`
	CancelledAt  *time.Time                  `json:"cancelled_at,omitempty"`
	CancelReason string                      `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

// ToPurchaseOrderResponse converts a purchase order to its API representation
func ToPurchaseOrderResponse(order *trade.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = PurchaseOrderItemResponse{
			ID:               item.ID,
			ProductID:        item.ProductID,
			ProductName:      item.ProductName,
			Quantity:         item.Quantity,
			ReceivedQuantity: item.ReceivedQuantity,
			UnitCost:         item.UnitCost,
			Amount:           item.Amount,
			Status:           item.Status.String(),
		}
	}
	return PurchaseOrderResponse{
		ID:           order.ID,
		OrderNumber:  order.OrderNumber,
		SupplierID:   order.SupplierID,
		SupplierName: order.SupplierName,
		WarehouseID:  order.WarehouseID,
		Items:        items,
		TotalAmount:  order.TotalAmount,
		Status:       order.Status.String(),
		Notes:        order.Notes,
		ApprovedBy:   order.ApprovedBy,
		ApprovedAt:   order.ApprovedAt,
		CancelledAt:  order.CancelledAt,
		CancelReason: order.CancelReason,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}

// ReceiptResult reports what a receipt call actually booked after clamping
// each line to the quantity still outstanding on its item
type ReceiptResult struct {
	OrderID     uuid.UUID           `json:"order_id"`
	OrderStatus string              `json:"order_status"`
	Lines       []ReceiptLineResult `json:"lines"`
}

// ReceiptLineResult is one booked receipt line
type ReceiptLineResult struct {
	ItemID    uuid.UUID       `json:"item_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateSalesOrderRequest creates a draft sales order
type CreateSalesOrderRequest struct {
	CustomerID   uuid.UUID          `json:"customer_id" binding:"required"`
	CustomerName string             `json:"customer_name" binding:"required"`
	Notes        string             `json:"notes"`
	Items        []OrderItemRequest `json:"items"`
}

// SalesOrderItemResponse is the API representation of an order line
type SalesOrderItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	ShippedQuantity decimal.Decimal `json:"shipped_quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Amount          decimal.Decimal `json:"amount"`
	Status          string          `json:"status"`
}

// SalesOrderResponse is the API representation of a sales order
type SalesOrderResponse struct {
	ID           uuid.UUID                `json:"id"`
	OrderNumber  string                   `json:"order_number"`
	CustomerID   uuid.UUID                `json:"customer_id"`
	CustomerName string                   `json:"customer_name"`
	Items        []SalesOrderItemResponse `json:"items"`
	TotalAmount  decimal.Decimal          `json:"total_amount"`
	Status       string                   `json:"status"`
	Notes        string                   `json:"notes,omitempty"`
	ApprovedBy   *uuid.UUID               `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time               `json:"approved_at,omitempty"`
	DeliveredAt  *time.Time               `json:"delivered_at,omitempty"`
	CancelledAt  *time.Time               `json:"cancelled_at,omitempty"`
	CancelReason string                   `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// ToSalesOrderResponse converts a sales order to its API representation
func ToSalesOrderResponse(order *trade.SalesOrder) SalesOrderResponse {
	items := make([]SalesOrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = SalesOrderItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			ShippedQuantity: item.ShippedQuantity,
			UnitPrice:       item.UnitPrice,
			Amount:          item.Amount,
			Status:          item.Status.String(),
		}
	}
	return SalesOrderResponse{
		ID:           order.ID,
		OrderNumber:  order.OrderNumber,
		CustomerID:   order.CustomerID,
		CustomerName: order.CustomerName,
		Items:        items,
		TotalAmount:  order.TotalAmount,
		Status:       order.Status.String(),
		Notes:        order.Notes,
		ApprovedBy:   order.ApprovedBy,
		ApprovedAt:   order.ApprovedAt,
		DeliveredAt:  order.DeliveredAt,
		CancelledAt:  order.CancelledAt,
		CancelReason: order.CancelReason,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}
