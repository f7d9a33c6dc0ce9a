package persistence

import (
	"context"

	"gorm.io/gorm"

	appinventory "github.com/atlas-erp/backend/internal/application/inventory"
	"github.com/atlas-erp/backend/internal/domain/inventory"
	"github.com/atlas-erp/backend/internal/domain/trade"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Every repository handed to the callback is bound to the same *gorm.DB
// transaction, so a movement's ledger write, log append and document save
// commit or roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides repositories bound to a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) LevelRepo() inventory.InventoryLevelRepository {
	return NewGormInventoryLevelRepository(r.tx)
}

func (r *gormTransactionalRepositories) TransactionRepo() inventory.InventoryTransactionRepository {
	return NewGormInventoryTransactionRepository(r.tx)
}

func (r *gormTransactionalRepositories) TransferRepo() inventory.StockTransferRepository {
	return NewGormStockTransferRepository(r.tx)
}

func (r *gormTransactionalRepositories) AdjustmentRepo() inventory.StockAdjustmentRepository {
	return NewGormStockAdjustmentRepository(r.tx)
}

func (r *gormTransactionalRepositories) PurchaseOrderRepo() trade.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) SalesOrderRepo() trade.SalesOrderRepository {
	return NewGormSalesOrderRepository(r.tx)
}

// Interface compliance checks
var (
	_ appinventory.TransactionScope            = (*GormTransactionScope)(nil)
	_ appinventory.TransactionalRepositories   = (*gormTransactionalRepositories)(nil)
	_ inventory.InventoryLevelRepository       = (*GormInventoryLevelRepository)(nil)
	_ inventory.InventoryTransactionRepository = (*GormInventoryTransactionRepository)(nil)
	_ inventory.StockTransferRepository        = (*GormStockTransferRepository)(nil)
	_ inventory.StockAdjustmentRepository      = (*GormStockAdjustmentRepository)(nil)
	_ trade.PurchaseOrderRepository            = (*GormPurchaseOrderRepository)(nil)
	_ trade.SalesOrderRepository               = (*GormSalesOrderRepository)(nil)
)
