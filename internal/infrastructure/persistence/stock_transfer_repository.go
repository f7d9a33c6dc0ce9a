package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlas-erp/backend/internal/domain/inventory"
	"github.com/atlas-erp/backend/internal/domain/shared"
)

// GormStockTransferRepository implements StockTransferRepository using GORM
type GormStockTransferRepository struct {
	db *gorm.DB
}

// NewGormStockTransferRepository creates a new GormStockTransferRepository
func NewGormStockTransferRepository(db *gorm.DB) *GormStockTransferRepository {
	return &GormStockTransferRepository{db: db}
}

// FindByID finds a transfer with its items
func (r *GormStockTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockTransfer, error) {
	var transfer inventory.StockTransfer
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&transfer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrTransferNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// FindAll lists transfers with filtering and pagination
func (r *GormStockTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockTransfer, error) {
	var transfers []inventory.StockTransfer
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.StockTransfer{}), filter)
	if err := query.Preload("Items").Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// Count counts transfers matching the filter
func (r *GormStockTransferRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.StockTransfer{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a transfer and its items. Items removed from the
// aggregate are deleted so the stored item set mirrors the in-memory one.
func (r *GormStockTransferRepository) Save(ctx context.Context, transfer *inventory.StockTransfer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(transfer).Error; err != nil {
			return err
		}

		itemIDs := make([]uuid.UUID, len(transfer.Items))
		for i := range transfer.Items {
			itemIDs[i] = transfer.Items[i].ID
		}
		if len(itemIDs) > 0 {
			if err := tx.Where("transfer_id = ? AND id NOT IN ?", transfer.ID, itemIDs).
				Delete(&inventory.StockTransferItem{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("transfer_id = ?", transfer.ID).
				Delete(&inventory.StockTransferItem{}).Error; err != nil {
				return err
			}
		}

		for i := range transfer.Items {
			transfer.Items[i].TransferID = transfer.ID
			if err := tx.Save(&transfer.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// NextSequence returns the next number in the transfer numbering sequence
func (r *GormStockTransferRepository) NextSequence(ctx context.Context) (int64, error) {
	return nextDocumentSequence(r.db.WithContext(ctx), &inventory.StockTransfer{}, "transfer_number", "TRF")
}

// applyFilter applies filter options to the query
func (r *GormStockTransferRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, StockTransferSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormStockTransferRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status", "source_warehouse_id", "destination_warehouse_id":
			query = query.Where(key+" = ?", value)
		}
	}
	if filter.Search != "" {
		query = query.Where("transfer_number LIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// nextDocumentSequence derives the next document number from the highest
// stored one. Numbers share a fixed prefix and a zero-padded numeric suffix,
// so lexical and numeric order agree.
func nextDocumentSequence(db *gorm.DB, model interface{}, column, prefix string) (int64, error) {
	var last string
	if err := db.Model(model).
		Select(column).
		Order(column + " DESC").
		Limit(1).
		Scan(&last).Error; err != nil {
		return 0, err
	}
	if last == "" {
		return 1, nil
	}
	var num int64
	if _, err := fmt.Sscanf(last, prefix+"%d", &num); err != nil {
		return 0, fmt.Errorf("malformed document number %q: %w", last, err)
	}
	return num + 1, nil
}
