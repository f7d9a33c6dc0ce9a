package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlas-erp/backend/internal/domain/inventory"
	"github.com/atlas-erp/backend/internal/domain/shared"
)

// GormStockAdjustmentRepository implements StockAdjustmentRepository using GORM
type GormStockAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormStockAdjustmentRepository creates a new GormStockAdjustmentRepository
func NewGormStockAdjustmentRepository(db *gorm.DB) *GormStockAdjustmentRepository {
	return &GormStockAdjustmentRepository{db: db}
}

// FindByID finds an adjustment with its items
func (r *GormStockAdjustmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockAdjustment, error) {
	var adjustment inventory.StockAdjustment
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&adjustment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrAdjustmentNotFound
		}
		return nil, err
	}
	return &adjustment, nil
}

// FindAll lists adjustments with filtering and pagination
func (r *GormStockAdjustmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockAdjustment, error) {
	var adjustments []inventory.StockAdjustment
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.StockAdjustment{}), filter)
	if err := query.Preload("Items").Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// Count counts adjustments matching the filter
func (r *GormStockAdjustmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.StockAdjustment{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an adjustment and its items
func (r *GormStockAdjustmentRepository) Save(ctx context.Context, adjustment *inventory.StockAdjustment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(adjustment).Error; err != nil {
			return err
		}

		itemIDs := make([]uuid.UUID, len(adjustment.Items))
		for i := range adjustment.Items {
			itemIDs[i] = adjustment.Items[i].ID
		}
		if len(itemIDs) > 0 {
			if err := tx.Where("adjustment_id = ? AND id NOT IN ?", adjustment.ID, itemIDs).
				Delete(&inventory.StockAdjustmentItem{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("adjustment_id = ?", adjustment.ID).
				Delete(&inventory.StockAdjustmentItem{}).Error; err != nil {
				return err
			}
		}

		for i := range adjustment.Items {
			adjustment.Items[i].AdjustmentID = adjustment.ID
			if err := tx.Save(&adjustment.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// NextSequence returns the next number in the adjustment numbering sequence
func (r *GormStockAdjustmentRepository) NextSequence(ctx context.Context) (int64, error) {
	return nextDocumentSequence(r.db.WithContext(ctx), &inventory.StockAdjustment{}, "adjustment_number", "ADJ")
}

// applyFilter applies filter options to the query
func (r *GormStockAdjustmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, StockAdjustmentSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormStockAdjustmentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status", "warehouse_id", "reason":
			query = query.Where(key+" = ?", value)
		}
	}
	if filter.Search != "" {
		query = query.Where("adjustment_number LIKE ? OR reference_number LIKE ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	return query
}
