package inventory

import (
	"context"

	"github.com/atlas-erp/backend/internal/domain/inventory"
	"github.com/atlas-erp/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the repositories a
// stock movement touches. When a function is executed within a scope, all
// repository operations are part of the same database transaction and are
// committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all movement-relevant
// repositories within a transaction. All repositories returned share the
// same underlying database transaction.
//
// Order aggregates and the inventory ledger are distinct aggregates, but a
// movement (receipt, allocation, transfer, adjustment) must mutate both
// sides in one transaction, so the scope spans both contexts.
type TransactionalRepositories interface {
	// LevelRepo returns the inventory level repository scoped to the current transaction
	LevelRepo() inventory.InventoryLevelRepository
	// TransactionRepo returns the inventory transaction repository scoped to the current transaction
	TransactionRepo() inventory.InventoryTransactionRepository
	// TransferRepo returns the stock transfer repository scoped to the current transaction
	TransferRepo() inventory.StockTransferRepository
	// AdjustmentRepo returns the stock adjustment repository scoped to the current transaction
	AdjustmentRepo() inventory.StockAdjustmentRepository
	// PurchaseOrderRepo returns the purchase order repository scoped to the current transaction
	PurchaseOrderRepo() trade.PurchaseOrderRepository
	// SalesOrderRepo returns the sales order repository scoped to the current transaction
	SalesOrderRepo() trade.SalesOrderRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing with in-memory repositories.
type NoOpTransactionScope struct {
	levelRepo         inventory.InventoryLevelRepository
	transactionRepo   inventory.InventoryTransactionRepository
	transferRepo      inventory.StockTransferRepository
	adjustmentRepo    inventory.StockAdjustmentRepository
	purchaseOrderRepo trade.PurchaseOrderRepository
	salesOrderRepo    trade.SalesOrderRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	levelRepo inventory.InventoryLevelRepository,
	transactionRepo inventory.InventoryTransactionRepository,
	transferRepo inventory.StockTransferRepository,
	adjustmentRepo inventory.StockAdjustmentRepository,
	purchaseOrderRepo trade.PurchaseOrderRepository,
	salesOrderRepo trade.SalesOrderRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		levelRepo:         levelRepo,
		transactionRepo:   transactionRepo,
		transferRepo:      transferRepo,
		adjustmentRepo:    adjustmentRepo,
		purchaseOrderRepo: purchaseOrderRepo,
		salesOrderRepo:    salesOrderRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// LevelRepo returns the inventory level repository
func (s *NoOpTransactionScope) LevelRepo() inventory.InventoryLevelRepository {
	return s.levelRepo
}

// TransactionRepo returns the inventory transaction repository
func (s *NoOpTransactionScope) TransactionRepo() inventory.InventoryTransactionRepository {
	return s.transactionRepo
}

// TransferRepo returns the stock transfer repository
func (s *NoOpTransactionScope) TransferRepo() inventory.StockTransferRepository {
	return s.transferRepo
}

// AdjustmentRepo returns the stock adjustment repository
func (s *NoOpTransactionScope) AdjustmentRepo() inventory.StockAdjustmentRepository {
	return s.adjustmentRepo
}

// PurchaseOrderRepo returns the purchase order repository
func (s *NoOpTransactionScope) PurchaseOrderRepo() trade.PurchaseOrderRepository {
	return s.purchaseOrderRepo
}

// SalesOrderRepo returns the sales order repository
func (s *NoOpTransactionScope) SalesOrderRepo() trade.SalesOrderRepository {
	return s.salesOrderRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
