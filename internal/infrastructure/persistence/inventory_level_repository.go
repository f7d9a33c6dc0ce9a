package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/atlas-erp/backend/internal/domain/inventory"
	"github.com/atlas-erp/backend/internal/domain/shared"
)

// GormInventoryLevelRepository implements InventoryLevelRepository using GORM
type GormInventoryLevelRepository struct {
	db *gorm.DB
}

// NewGormInventoryLevelRepository creates a new GormInventoryLevelRepository
func NewGormInventoryLevelRepository(db *gorm.DB) *GormInventoryLevelRepository {
	return &GormInventoryLevelRepository{db: db}
}

// FindByID finds a ledger row by its ID
func (r *GormInventoryLevelRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryLevel, error) {
	var level inventory.InventoryLevel
	if err := r.db.WithContext(ctx).First(&level, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrLevelNotFound
		}
		return nil, err
	}
	return &level, nil
}

// FindByProductAndWarehouse finds the ledger row for a product-warehouse pair
func (r *GormInventoryLevelRepository) FindByProductAndWarehouse(ctx context.Context, productID, warehouseID uuid.UUID) (*inventory.InventoryLevel, error) {
	var level inventory.InventoryLevel
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		First(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrLevelNotFound
		}
		return nil, err
	}
	return &level, nil
}

// FindByProductForAllocation returns rows with available stock for a product,
// ordered by warehouse ID ascending and locked for update so that concurrent
// allocations against the same product serialize.
func (r *GormInventoryLevelRepository) FindByProductForAllocation(ctx context.Context, productID uuid.UUID) ([]inventory.InventoryLevel, error) {
	var levels []inventory.InventoryLevel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND quantity_available > 0", productID).
		Order("warehouse_id ASC").
		Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// FindAll lists ledger rows with filtering and pagination
func (r *GormInventoryLevelRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryLevel, error) {
	var levels []inventory.InventoryLevel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.InventoryLevel{}), filter)
	if err := query.Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// Count counts ledger rows matching the filter
func (r *GormInventoryLevelRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.InventoryLevel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindBelowMinimum lists rows below their minimum stock threshold
func (r *GormInventoryLevelRepository) FindBelowMinimum(ctx context.Context, filter shared.Filter) ([]inventory.InventoryLevel, error) {
	var levels []inventory.InventoryLevel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.InventoryLevel{}), filter).
		Where("minimum_stock > 0 AND quantity_available < minimum_stock")
	if err := query.Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// GetOrCreate returns the ledger row for the pair, creating an empty one if absent.
// Creation uses ON CONFLICT DO NOTHING so concurrent callers converge on the
// same row instead of failing on the unique index.
func (r *GormInventoryLevelRepository) GetOrCreate(ctx context.Context, productID, warehouseID uuid.UUID) (*inventory.InventoryLevel, error) {
	level, err := r.FindByProductAndWarehouse(ctx, productID, warehouseID)
	if err == nil {
		return level, nil
	}
	if !errors.Is(err, inventory.ErrLevelNotFound) {
		return nil, err
	}

	fresh, err := inventory.NewInventoryLevel(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	fresh.ClearDomainEvents()

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "warehouse_id"}},
			DoNothing: true,
		}).
		Create(fresh)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Lost the race; another caller created the row first.
		return r.FindByProductAndWarehouse(ctx, productID, warehouseID)
	}
	return fresh, nil
}

// Save creates or updates a ledger row
func (r *GormInventoryLevelRepository) Save(ctx context.Context, level *inventory.InventoryLevel) error {
	return r.db.WithContext(ctx).Save(level).Error
}

// SaveWithLock updates a ledger row guarded by its optimistic version.
// The caller increments the version before saving; the update only lands
// when the stored version is still the previous one.
func (r *GormInventoryLevelRepository) SaveWithLock(ctx context.Context, level *inventory.InventoryLevel) error {
	level.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).
		Model(&inventory.InventoryLevel{}).
		Where("id = ? AND version = ?", level.ID, level.Version-1).
		Updates(map[string]interface{}{
			"quantity_available": level.QuantityAvailable,
			"quantity_reserved":  level.QuantityReserved,
			"minimum_stock":      level.MinimumStock,
			"reorder_point":      level.ReorderPoint,
			"batch_number":       level.BatchNumber,
			"expiry_date":        level.ExpiryDate,
			"last_counted_date":  level.LastCountedDate,
			"notes":              level.Notes,
			"version":            level.Version,
			"updated_at":         level.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "inventory level was modified by another operation")
	}
	return nil
}

// AddQuantity atomically increments quantity_available for the pair
func (r *GormInventoryLevelRepository) AddQuantity(ctx context.Context, productID, warehouseID uuid.UUID, quantity decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.InventoryLevel{}).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		Updates(map[string]interface{}{
			"quantity_available": gorm.Expr("quantity_available + ?", quantity),
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return inventory.ErrLevelNotFound
	}
	return nil
}

// DeductQuantity atomically decrements quantity_available. The WHERE clause
// guards the balance so the row never goes negative; zero rows affected means
// the row is absent or holds less than the requested quantity.
func (r *GormInventoryLevelRepository) DeductQuantity(ctx context.Context, productID, warehouseID uuid.UUID, quantity decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.InventoryLevel{}).
		Where("product_id = ? AND warehouse_id = ? AND quantity_available >= ?", productID, warehouseID, quantity).
		Updates(map[string]interface{}{
			"quantity_available": gorm.Expr("quantity_available - ?", quantity),
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return inventory.ErrInsufficientStock
	}
	return nil
}

// Delete removes a ledger row
func (r *GormInventoryLevelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&inventory.InventoryLevel{}, "id = ?", id).Error
}

// applyFilter applies filter options to the query
func (r *GormInventoryLevelRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InventoryLevelSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormInventoryLevelRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id", "warehouse_id", "batch_number":
			query = query.Where(key+" = ?", value)
		}
	}
	return query
}
