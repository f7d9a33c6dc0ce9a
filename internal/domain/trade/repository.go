package trade

import (
	"context"

	"github.com/atlas-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseOrderRepository persists purchase order aggregates
type PurchaseOrderRepository interface {
	// FindByID finds an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	// FindByNumber finds an order by its order number
	FindByNumber(ctx context.Context, orderNumber string) (*PurchaseOrder, error)
	// FindAll lists orders with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)
	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Save creates or updates an order and its items
	Save(ctx context.Context, order *PurchaseOrder) error
	// NextSequence returns the next number in the order numbering sequence
	NextSequence(ctx context.Context) (int64, error)
}

// SalesOrderRepository persists sales order aggregates
type SalesOrderRepository interface {
	// FindByID finds an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)
	// FindByNumber finds an order by its order number
	FindByNumber(ctx context.Context, orderNumber string) (*SalesOrder, error)
	// FindAll lists orders with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]SalesOrder, error)
	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Save creates or updates an order and its items
	Save(ctx context.Context, order *SalesOrder) error
	// NextSequence returns the next number in the order numbering sequence
	NextSequence(ctx context.Context) (int64, error)
}
