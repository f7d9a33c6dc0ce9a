// Package memory provides in-memory repository implementations backed by
// maps and a mutex. They mirror the semantics of the GORM repositories,
// including the guarded ledger decrement, and back the application-layer
// tests together with the no-op transaction scope.
package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/atlas-erp/backend/internal/domain/inventory"
	"github.com/atlas-erp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type levelKey struct {
	productID   uuid.UUID
	warehouseID uuid.UUID
}

// InventoryLevelRepository is an in-memory inventory ledger
type InventoryLevelRepository struct {
	mu     sync.RWMutex
	levels map[levelKey]*inventory.InventoryLevel
}

// NewInventoryLevelRepository creates an empty in-memory ledger
func NewInventoryLevelRepository() *InventoryLevelRepository {
	return &InventoryLevelRepository{levels: make(map[levelKey]*inventory.InventoryLevel)}
}

func (r *InventoryLevelRepository) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryLevel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, level := range r.levels {
		if level.ID == id {
			return level, nil
		}
	}
	return nil, inventory.ErrLevelNotFound
}

func (r *InventoryLevelRepository) FindByProductAndWarehouse(_ context.Context, productID, warehouseID uuid.UUID) (*inventory.InventoryLevel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	level, ok := r.levels[levelKey{productID, warehouseID}]
	if !ok {
		return nil, inventory.ErrLevelNotFound
	}
	return level, nil
}

func (r *InventoryLevelRepository) FindByProductForAllocation(_ context.Context, productID uuid.UUID) ([]inventory.InventoryLevel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []inventory.InventoryLevel
	for _, level := range r.levels {
		if level.ProductID == productID && level.HasAvailableStock() {
			result = append(result, *level)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return bytes.Compare(result[i].WarehouseID[:], result[j].WarehouseID[:]) < 0
	})
	return result, nil
}

func (r *InventoryLevelRepository) FindAll(_ context.Context, filter shared.Filter) ([]inventory.InventoryLevel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]inventory.InventoryLevel, 0, len(r.levels))
	for _, level := range r.levels {
		result = append(result, *level)
	}
	sort.Slice(result, func(i, j int) bool {
		return bytes.Compare(result[i].ID[:], result[j].ID[:]) < 0
	})
	return paginate(result, filter), nil
}

func (r *InventoryLevelRepository) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.levels)), nil
}

func (r *InventoryLevelRepository) FindBelowMinimum(_ context.Context, filter shared.Filter) ([]inventory.InventoryLevel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []inventory.InventoryLevel
	for _, level := range r.levels {
		if level.IsBelowMinimum() {
			result = append(result, *level)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return bytes.Compare(result[i].ID[:], result[j].ID[:]) < 0
	})
	return paginate(result, filter), nil
}

func (r *InventoryLevelRepository) GetOrCreate(_ context.Context, productID, warehouseID uuid.UUID) (*inventory.InventoryLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := levelKey{productID, warehouseID}
	if level, ok := r.levels[key]; ok {
		return level, nil
	}
	level, err := inventory.NewInventoryLevel(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	level.ClearDomainEvents()
	r.levels[key] = level
	return level, nil
}

func (r *InventoryLevelRepository) Save(_ context.Context, level *inventory.InventoryLevel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels[levelKey{level.ProductID, level.WarehouseID}] = level
	return nil
}

func (r *InventoryLevelRepository) SaveWithLock(ctx context.Context, level *inventory.InventoryLevel) error {
	return r.Save(ctx, level)
}

func (r *InventoryLevelRepository) AddQuantity(_ context.Context, productID, warehouseID uuid.UUID, quantity decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	level, ok := r.levels[levelKey{productID, warehouseID}]
	if !ok {
		return inventory.ErrLevelNotFound
	}
	level.QuantityAvailable = level.QuantityAvailable.Add(quantity)
	return nil
}

func (r *InventoryLevelRepository) DeductQuantity(_ context.Context, productID, warehouseID uuid.UUID, quantity decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	level, ok := r.levels[levelKey{productID, warehouseID}]
	if !ok || !level.CanFulfill(quantity) {
		return inventory.ErrInsufficientStock
	}
	level.QuantityAvailable = level.QuantityAvailable.Sub(quantity)
	return nil
}

func (r *InventoryLevelRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, level := range r.levels {
		if level.ID == id {
			delete(r.levels, key)
			return nil
		}
	}
	return inventory.ErrLevelNotFound
}

// InventoryTransactionRepository is an in-memory append-only transaction log
type InventoryTransactionRepository struct {
	mu  sync.RWMutex
	log []inventory.InventoryTransaction
}

// NewInventoryTransactionRepository creates an empty in-memory log
func NewInventoryTransactionRepository() *InventoryTransactionRepository {
	return &InventoryTransactionRepository{}
}

func (r *InventoryTransactionRepository) Create(_ context.Context, tx *inventory.InventoryTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, *tx)
	return nil
}

func (r *InventoryTransactionRepository) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.log {
		if r.log[i].ID == id {
			tx := r.log[i]
			return &tx, nil
		}
	}
	return nil, shared.NewDomainError("TRANSACTION_NOT_FOUND", "Inventory transaction not found")
}

func (r *InventoryTransactionRepository) FindAll(_ context.Context, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]inventory.InventoryTransaction, len(r.log))
	copy(result, r.log)
	return paginate(result, filter), nil
}

func (r *InventoryTransactionRepository) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.log)), nil
}

func (r *InventoryTransactionRepository) FindByReference(_ context.Context, ref inventory.Reference) ([]inventory.InventoryTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []inventory.InventoryTransaction
	for i := range r.log {
		tx := r.log[i]
		if tx.Reference.Type != ref.Type {
			continue
		}
		if ref.ID != nil && (tx.Reference.ID == nil || *tx.Reference.ID != *ref.ID) {
			continue
		}
		result = append(result, tx)
	}
	return result, nil
}

func (r *InventoryTransactionRepository) SumQuantity(_ context.Context, productID, warehouseID uuid.UUID) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sum := decimal.Zero
	for i := range r.log {
		if r.log[i].ProductID == productID && r.log[i].WarehouseID == warehouseID {
			sum = sum.Add(r.log[i].Quantity)
		}
	}
	return sum, nil
}

// StockTransferRepository is an in-memory stock transfer store
type StockTransferRepository struct {
	mu        sync.RWMutex
	transfers map[uuid.UUID]*inventory.StockTransfer
	sequence  int64
}

// NewStockTransferRepository creates an empty in-memory transfer store
func NewStockTransferRepository() *StockTransferRepository {
	return &StockTransferRepository{transfers: make(map[uuid.UUID]*inventory.StockTransfer)}
}

func (r *StockTransferRepository) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockTransfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	transfer, ok := r.transfers[id]
	if !ok {
		return nil, inventory.ErrTransferNotFound
	}
	return transfer, nil
}

func (r *StockTransferRepository) FindAll(_ context.Context, filter shared.Filter) ([]inventory.StockTransfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]inventory.StockTransfer, 0, len(r.transfers))
	for _, transfer := range r.transfers {
		result = append(result, *transfer)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].TransferNumber < result[j].TransferNumber
	})
	return paginate(result, filter), nil
}

func (r *StockTransferRepository) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.transfers)), nil
}

func (r *StockTransferRepository) Save(_ context.Context, transfer *inventory.StockTransfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transfers[transfer.ID] = transfer
	return nil
}

func (r *StockTransferRepository) NextSequence(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequence++
	return r.sequence, nil
}

// StockAdjustmentRepository is an in-memory stock adjustment store
type StockAdjustmentRepository struct {
	mu          sync.RWMutex
	adjustments map[uuid.UUID]*inventory.StockAdjustment
	sequence    int64
}

// NewStockAdjustmentRepository creates an empty in-memory adjustment store
func NewStockAdjustmentRepository() *StockAdjustmentRepository {
	return &StockAdjustmentRepository{adjustments: make(map[uuid.UUID]*inventory.StockAdjustment)}
}

func (r *StockAdjustmentRepository) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockAdjustment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	adjustment, ok := r.adjustments[id]
	if !ok {
		return nil, inventory.ErrAdjustmentNotFound
	}
	return adjustment, nil
}

func (r *StockAdjustmentRepository) FindAll(_ context.Context, filter shared.Filter) ([]inventory.StockAdjustment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]inventory.StockAdjustment, 0, len(r.adjustments))
	for _, adjustment := range r.adjustments {
		result = append(result, *adjustment)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].AdjustmentNumber < result[j].AdjustmentNumber
	})
	return paginate(result, filter), nil
}

func (r *StockAdjustmentRepository) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.adjustments)), nil
}

func (r *StockAdjustmentRepository) Save(_ context.Context, adjustment *inventory.StockAdjustment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adjustments[adjustment.ID] = adjustment
	return nil
}

func (r *StockAdjustmentRepository) NextSequence(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequence++
	return r.sequence, nil
}

// paginate applies filter paging to a slice, defaulting to everything when
// the filter carries no page size
func paginate[T any](items []T, filter shared.Filter) []T {
	if filter.PageSize <= 0 {
		return items
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * filter.PageSize
	if start >= len(items) {
		return nil
	}
	end := start + filter.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

var _ inventory.InventoryLevelRepository = (*InventoryLevelRepository)(nil)
var _ inventory.InventoryTransactionRepository = (*InventoryTransactionRepository)(nil)
var _ inventory.StockTransferRepository = (*StockTransferRepository)(nil)
var _ inventory.StockAdjustmentRepository = (*StockAdjustmentRepository)(nil)
