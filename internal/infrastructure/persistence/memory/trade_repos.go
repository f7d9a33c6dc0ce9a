package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/atlas-erp/backend/internal/domain/shared"
	"github.com/atlas-erp/backend/internal/domain/trade"
	"github.com/google/uuid"
)

// PurchaseOrderRepository is an in-memory purchase order store
type PurchaseOrderRepository struct {
	mu       sync.RWMutex
	orders   map[uuid.UUID]*trade.PurchaseOrder
	sequence int64
}

// NewPurchaseOrderRepository creates an empty in-memory purchase order store
func NewPurchaseOrderRepository() *PurchaseOrderRepository {
	return &PurchaseOrderRepository{orders: make(map[uuid.UUID]*trade.PurchaseOrder)}
}

func (r *PurchaseOrderRepository) FindByID(_ context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, trade.ErrPurchaseOrderNotFound
	}
	return order, nil
}

func (r *PurchaseOrderRepository) FindByNumber(_ context.Context, orderNumber string) (*trade.PurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, order := range r.orders {
		if order.OrderNumber == orderNumber {
			return order, nil
		}
	}
	return nil, trade.ErrPurchaseOrderNotFound
}

func (r *PurchaseOrderRepository) FindAll(_ context.Context, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]trade.PurchaseOrder, 0, len(r.orders))
	for _, order := range r.orders {
		result = append(result, *order)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].OrderNumber < result[j].OrderNumber
	})
	return paginate(result, filter), nil
}

func (r *PurchaseOrderRepository) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.orders)), nil
}

func (r *PurchaseOrderRepository) Save(_ context.Context, order *trade.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
	return nil
}

func (r *PurchaseOrderRepository) NextSequence(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequence++
	return r.sequence, nil
}

// SalesOrderRepository is an in-memory sales order store
type SalesOrderRepository struct {
	mu       sync.RWMutex
	orders   map[uuid.UUID]*trade.SalesOrder
	sequence int64
}

// NewSalesOrderRepository creates an empty in-memory sales order store
func NewSalesOrderRepository() *SalesOrderRepository {
	return &SalesOrderRepository{orders: make(map[uuid.UUID]*trade.SalesOrder)}
}

func (r *SalesOrderRepository) FindByID(_ context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, trade.ErrSalesOrderNotFound
	}
	return order, nil
}

func (r *SalesOrderRepository) FindByNumber(_ context.Context, orderNumber string) (*trade.SalesOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, order := range r.orders {
		if order.OrderNumber == orderNumber {
			return order, nil
		}
	}
	return nil, trade.ErrSalesOrderNotFound
}

func (r *SalesOrderRepository) FindAll(_ context.Context, filter shared.Filter) ([]trade.SalesOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]trade.SalesOrder, 0, len(r.orders))
	for _, order := range r.orders {
		result = append(result, *order)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].OrderNumber < result[j].OrderNumber
	})
	return paginate(result, filter), nil
}

func (r *SalesOrderRepository) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.orders)), nil
}

func (r *SalesOrderRepository) Save(_ context.Context, order *trade.SalesOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
	return nil
}

func (r *SalesOrderRepository) NextSequence(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequence++
	return r.sequence, nil
}

var _ trade.PurchaseOrderRepository = (*PurchaseOrderRepository)(nil)
var _ trade.SalesOrderRepository = (*SalesOrderRepository)(nil)
