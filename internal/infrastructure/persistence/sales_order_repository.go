package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlas-erp/backend/internal/domain/shared"
	"github.com/atlas-erp/backend/internal/domain/trade"
)

// GormSalesOrderRepository implements SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

// FindByID finds an order with its items
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	var order trade.SalesOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, trade.ErrSalesOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByNumber finds an order by its order number
func (r *GormSalesOrderRepository) FindByNumber(ctx context.Context, orderNumber string) (*trade.SalesOrder, error) {
	var order trade.SalesOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, trade.ErrSalesOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll lists orders with filtering and pagination
func (r *GormSalesOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.SalesOrder, error) {
	var orders []trade.SalesOrder
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.SalesOrder{}), filter)
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormSalesOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.SalesOrder{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an order and its items
func (r *GormSalesOrderRepository) Save(ctx context.Context, order *trade.SalesOrder) error {
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
				Delete(&trade.SalesOrderItem{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("order_id = ?", order.ID).
				Delete(&trade.SalesOrderItem{}).Error; err != nil {
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
func (r *GormSalesOrderRepository) NextSequence(ctx context.Context) (int64, error) {
	return nextDocumentSequence(r.db.WithContext(ctx), &trade.SalesOrder{}, "order_number", "SO")
}

// applyFilter applies filter options to the query
func (r *GormSalesOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, SalesOrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormSalesOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status", "customer_id":
			query = query.Where(key+" = ?", value)
		}
	}
	if filter.Search != "" {
		query = query.Where("order_number LIKE ? OR customer_name LIKE ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	return query
}
