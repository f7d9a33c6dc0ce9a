package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlas-erp/backend/internal/domain/shared"
	"github.com/atlas-erp/backend/internal/domain/trade"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds an order with its items
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, trade.ErrPurchaseOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByNumber finds an order by its order number
func (r *GormPurchaseOrderRepository) FindByNumber(ctx context.Context, orderNumber string) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, trade.ErrPurchaseOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll lists orders with filtering and pagination
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	var orders []trade.PurchaseOrder
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.PurchaseOrder{}), filter)
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormPurchaseOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.PurchaseOrder{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an order and its items
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}

		itemIDs := make([]uuid.UUID, len(order.Items))
		for i := range order.Items {
			itemIDs[i] = order.Items[i].ID
		}
		if len(itemIDs) > 0 {
			if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, itemIDs).
				Delete(&trade.PurchaseOrderItem{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("order_id = ?", order.ID).
				Delete(&trade.PurchaseOrderItem{}).Error; err != nil {
				return err
			}
		}

		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			if err := tx.Save(&order.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// NextSequence returns the next number in the order numbering sequence
func (r *GormPurchaseOrderRepository) NextSequence(ctx context.Context) (int64, error) {
	return nextDocumentSequence(r.db.WithContext(ctx), &trade.PurchaseOrder{}, "order_number", "PO")
}

// applyFilter applies filter options to the query
func (r *GormPurchaseOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PurchaseOrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormPurchaseOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status", "supplier_id", "warehouse_id":
			query = query.Where(key+" = ?", value)
		}
	}
	if filter.Search != "" {
		query = query.Where("order_number LIKE ? OR supplier_name LIKE ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	return query
}
