package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/atlas-erp/backend/internal/domain/inventory"
	"github.com/atlas-erp/backend/internal/domain/shared"
)

// GormInventoryTransactionRepository implements InventoryTransactionRepository
// using GORM. The log is append-only, so the repository exposes no update or
// delete methods.
type GormInventoryTransactionRepository struct {
	db *gorm.DB
}

// NewGormInventoryTransactionRepository creates a new GormInventoryTransactionRepository
func NewGormInventoryTransactionRepository(db *gorm.DB) *GormInventoryTransactionRepository {
	return &GormInventoryTransactionRepository{db: db}
}

// Create appends a transaction to the log
func (r *GormInventoryTransactionRepository) Create(ctx context.Context, tx *inventory.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// FindByID finds a transaction by its ID
func (r *GormInventoryTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryTransaction, error) {
	var tx inventory.InventoryTransaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError("TRANSACTION_NOT_FOUND", "inventory transaction not found")
		}
		return nil, err
	}
	return &tx, nil
}

// FindAll lists transactions with filtering and pagination
func (r *GormInventoryTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	var txs []inventory.InventoryTransaction
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.InventoryTransaction{}), filter)
	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// Count counts transactions matching the filter
func (r *GormInventoryTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.InventoryTransaction{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByReference lists transactions originating from a document
func (r *GormInventoryTransactionRepository) FindByReference(ctx context.Context, ref inventory.Reference) ([]inventory.InventoryTransaction, error) {
	query := r.db.WithContext(ctx).
		Where("reference_type = ?", ref.Type)
	if ref.ID != nil {
		query = query.Where("reference_id = ?", *ref.ID)
	}

	var txs []inventory.InventoryTransaction
	if err := query.Order("created_at ASC").Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// SumQuantity returns the signed sum of all transactions for a
// product-warehouse pair
func (r *GormInventoryTransactionRepository) SumQuantity(ctx context.Context, productID, warehouseID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryTransaction{}).
		Select("COALESCE(SUM(quantity), 0) as total").
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// applyFilter applies filter options to the query
func (r *GormInventoryTransactionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InventoryTransactionSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormInventoryTransactionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id", "warehouse_id", "transaction_type", "reference_type", "reference_id", "created_by":
			query = query.Where(key+" = ?", value)
		}
	}
	return query
}
