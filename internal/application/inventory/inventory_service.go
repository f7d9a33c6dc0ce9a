package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atlas-erp/backend/internal/domain/inventory"
	"github.com/atlas-erp/backend/internal/domain/shared"
	"github.com/atlas-erp/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InventoryService coordinates stock movements against the inventory ledger
// and the append-only transaction log. Every movement runs inside a
// TransactionScope so that ledger rows, log entries and the originating
// document commit or roll back together.
type InventoryService struct {
	levelRepo       inventory.InventoryLevelRepository
	transactionRepo inventory.InventoryTransactionRepository
	transferRepo    inventory.StockTransferRepository
	adjustmentRepo  inventory.StockAdjustmentRepository
	txScope         TransactionScope
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	levelRepo inventory.InventoryLevelRepository,
	transactionRepo inventory.InventoryTransactionRepository,
	transferRepo inventory.StockTransferRepository,
	adjustmentRepo inventory.StockAdjustmentRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		levelRepo:       levelRepo,
		transactionRepo: transactionRepo,
		transferRepo:    transferRepo,
		adjustmentRepo:  adjustmentRepo,
		txScope:         txScope,
		logger:          logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishDomainEvents publishes collected domain events after a successful
// commit. Publishing failures are logged, never propagated.
func (s *InventoryService) publishDomainEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events",
			zap.Int("event_count", len(events)),
			zap.Error(err))
	}
}

// ============================================================================
// Ledger queries
// ============================================================================

// GetLevel returns the ledger row for a product-warehouse pair
func (s *InventoryService) GetLevel(ctx context.Context, productID, warehouseID uuid.UUID) (*InventoryLevelResponse, error) {
	level, err := s.levelRepo.FindByProductAndWarehouse(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	resp := ToInventoryLevelResponse(level)
	return &resp, nil
}

// ListLevels lists ledger rows with pagination
func (s *InventoryService) ListLevels(ctx context.Context, filter shared.Filter) (*shared.Paginated[InventoryLevelResponse], error) {
	levels, err := s.levelRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.levelRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]InventoryLevelResponse, len(levels))
	for i := range levels {
		items[i] = ToInventoryLevelResponse(&levels[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListBelowMinimum lists ledger rows that have fallen below their minimum
// stock threshold
func (s *InventoryService) ListBelowMinimum(ctx context.Context, filter shared.Filter) ([]InventoryLevelResponse, error) {
	levels, err := s.levelRepo.FindBelowMinimum(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]InventoryLevelResponse, len(levels))
	for i := range levels {
		items[i] = ToInventoryLevelResponse(&levels[i])
	}
	return items, nil
}

// UpdateThresholds sets the minimum stock and reorder point on a ledger row,
// creating the row if it does not exist yet
func (s *InventoryService) UpdateThresholds(ctx context.Context, productID, warehouseID uuid.UUID, minimumStock, reorderPoint decimal.Decimal) (*InventoryLevelResponse, error) {
	level, err := s.levelRepo.GetOrCreate(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if err := level.SetMinimumStock(minimumStock); err != nil {
		return nil, err
	}
	if err := level.SetReorderPoint(reorderPoint); err != nil {
		return nil, err
	}
	if err := s.levelRepo.Save(ctx, level); err != nil {
		s.logger.Error("failed to save inventory level thresholds",
			zap.String("product_id", productID.String()),
			zap.String("warehouse_id", warehouseID.String()),
			zap.Error(err))
		return nil, err
	}
	resp := ToInventoryLevelResponse(level)
	return &resp, nil
}

// SetLevelQuantity overwrites the available quantity on a ledger row,
// creating the row if it does not exist yet. This is the direct-edit path
// for corrections and physical counts; it writes no transaction log entry,
// so the edit shows up as drift in ReconcileLevel until accounted for.
func (s *InventoryService) SetLevelQuantity(ctx context.Context, req SetLevelQuantityRequest) (*InventoryLevelResponse, error) {
	level, err := s.levelRepo.GetOrCreate(ctx, req.ProductID, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	if err := level.SetQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if req.Counted {
		level.MarkCounted(time.Now())
	}
	if req.Notes != "" {
		level.Notes = req.Notes
	}
	events := level.GetDomainEvents()
	level.ClearDomainEvents()
	if err := s.levelRepo.SaveWithLock(ctx, level); err != nil {
		s.logger.Error("failed to save inventory level quantity",
			zap.String("product_id", req.ProductID.String()),
			zap.String("warehouse_id", req.WarehouseID.String()),
			zap.Error(err))
		return nil, err
	}
	s.publishDomainEvents(ctx, events)
	resp := ToInventoryLevelResponse(level)
	return &resp, nil
}

// ListTransactions lists transaction log entries with pagination
func (s *InventoryService) ListTransactions(ctx context.Context, filter shared.Filter) (*shared.Paginated[InventoryTransactionResponse], error) {
	txs, err := s.transactionRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.transactionRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ToInventoryTransactionResponses(txs), total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListTransactionsByReference lists the log entries written for a document
func (s *InventoryService) ListTransactionsByReference(ctx context.Context, ref inventory.Reference) ([]InventoryTransactionResponse, error) {
	if !ref.IsValid() {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Invalid transaction reference")
	}
	txs, err := s.transactionRepo.FindByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	return ToInventoryTransactionResponses(txs), nil
}

// ReconcileLevel compares a ledger row against the signed sum of its log
// entries. The ledger row stays authoritative; this report only surfaces
// drift, it never rewrites quantities.
func (s *InventoryService) ReconcileLevel(ctx context.Context, productID, warehouseID uuid.UUID) (*ReconciliationReport, error) {
	level, err := s.levelRepo.FindByProductAndWarehouse(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	sum, err := s.transactionRepo.SumQuantity(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	drift := level.QuantityAvailable.Sub(sum)
	if !drift.IsZero() {
		s.logger.Warn("inventory ledger drift detected",
			zap.String("product_id", productID.String()),
			zap.String("warehouse_id", warehouseID.String()),
			zap.String("level_quantity", level.QuantityAvailable.String()),
			zap.String("transaction_sum", sum.String()))
	}
	return &ReconciliationReport{
		ProductID:      productID,
		WarehouseID:    warehouseID,
		LevelQuantity:  level.QuantityAvailable,
		TransactionSum: sum,
		Drift:          drift,
		InSync:         drift.IsZero(),
	}, nil
}

// ============================================================================
// Stock movement primitives
// ============================================================================

// moveStock moves a quantity of one product between two warehouses using the
// repositories of the enclosing transaction: guarded decrement on the source,
// upsert-and-increment on the destination, and one signed log entry per side.
func (s *InventoryService) moveStock(
	ctx context.Context,
	repos TransactionalRepositories,
	productID, sourceWarehouseID, destinationWarehouseID uuid.UUID,
	quantity decimal.Decimal,
	batchNumber string,
	expiryDate *time.Time,
	reference inventory.Reference,
	actor uuid.UUID,
) error {
	if err := repos.LevelRepo().DeductQuantity(ctx, productID, sourceWarehouseID, quantity); err != nil {
		return err
	}

	outTx, err := inventory.NewInventoryTransaction(
		productID, sourceWarehouseID,
		inventory.TransactionTypeTransferOut, reference,
		quantity.Neg(), actor,
	)
	if err != nil {
		return err
	}
	outTx.WithBatch(batchNumber, expiryDate).
		WithNotes(fmt.Sprintf("Transfer to warehouse %s", destinationWarehouseID))
	if err := repos.TransactionRepo().Create(ctx, outTx); err != nil {
		return err
	}

	if _, err := repos.LevelRepo().GetOrCreate(ctx, productID, destinationWarehouseID); err != nil {
		return err
	}
	if err := repos.LevelRepo().AddQuantity(ctx, productID, destinationWarehouseID, quantity); err != nil {
		return err
	}

	inTx, err := inventory.NewInventoryTransaction(
		productID, destinationWarehouseID,
		inventory.TransactionTypeTransferIn, reference,
		quantity, actor,
	)
	if err != nil {
		return err
	}
	inTx.WithBatch(batchNumber, expiryDate).
		WithNotes(fmt.Sprintf("Transfer from warehouse %s", sourceWarehouseID))
	return repos.TransactionRepo().Create(ctx, inTx)
}

// TransferStock moves a quantity of one product between warehouses outside
// of any transfer document. The two ledger updates and two log entries
// commit or roll back as one unit.
func (s *InventoryService) TransferStock(ctx context.Context, req TransferStockRequest, actor uuid.UUID) error {
	if !req.Quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Transfer quantity must be positive")
	}
	if req.SourceWarehouseID == req.DestinationWarehouseID {
		return shared.NewDomainError("SAME_WAREHOUSE", "Source and destination warehouses must differ")
	}

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return s.moveStock(ctx, repos,
			req.ProductID, req.SourceWarehouseID, req.DestinationWarehouseID,
			req.Quantity, req.BatchNumber, req.ExpiryDate,
			inventory.ManualReference(), actor)
	})
	if err != nil {
		s.logger.Error("stock transfer failed",
			zap.String("product_id", req.ProductID.String()),
			zap.String("source_warehouse_id", req.SourceWarehouseID.String()),
			zap.String("destination_warehouse_id", req.DestinationWarehouseID.String()),
			zap.String("requested", req.Quantity.String()),
			zap.Error(err))
		return err
	}
	return nil
}

// ============================================================================
// Sales order allocation
// ============================================================================

// ProcessSalesOrderInventory allocates stock to an approved sales order.
// For each unshipped item it walks the ledger rows for that product in
// warehouse ID order, deducting what each warehouse can give until the item
// is covered. The whole run commits as one transaction; when stock runs out
// the allocations already made are kept and the call reports
// ErrAllocationIncomplete alongside the per-item result.
func (s *InventoryService) ProcessSalesOrderInventory(ctx context.Context, orderID uuid.UUID, actor uuid.UUID) (*AllocationResult, error) {
	var result *AllocationResult
	var events []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.SalesOrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanAllocate() {
			return shared.NewDomainError("INVALID_STATUS",
				fmt.Sprintf("Cannot allocate inventory for order in status %s", order.Status))
		}

		lines := make([]AllocationLine, 0, len(order.Items))
		allocatedTotal := decimal.Zero
		fullyAllocated := true

		for _, item := range order.UnshippedItems() {
			remaining := item.RemainingQuantity()
			allocated := decimal.Zero

			levels, err := repos.LevelRepo().FindByProductForAllocation(ctx, item.ProductID)
			if err != nil {
				return err
			}
			for i := range levels {
				if !remaining.IsPositive() {
					break
				}
				level := &levels[i]
				if !level.HasAvailableStock() {
					continue
				}
				take := decimal.Min(level.QuantityAvailable, remaining)
				if err := repos.LevelRepo().DeductQuantity(ctx, item.ProductID, level.WarehouseID, take); err != nil {
					return err
				}
				saleTx, err := inventory.NewInventoryTransaction(
					item.ProductID, level.WarehouseID,
					inventory.TransactionTypeSale,
					inventory.SalesOrderReference(order.ID),
					take.Neg(), actor,
				)
				if err != nil {
					return err
				}
				saleTx.WithNotes(fmt.Sprintf("Allocation for sales order %s", order.OrderNumber))
				if err := repos.TransactionRepo().Create(ctx, saleTx); err != nil {
					return err
				}
				if err := item.Allocate(take); err != nil {
					return err
				}
				allocated = allocated.Add(take)
				remaining = remaining.Sub(take)
			}

			allocatedTotal = allocatedTotal.Add(allocated)
			if remaining.IsPositive() {
				fullyAllocated = false
				s.logger.Warn("insufficient stock for sales order item",
					zap.String("order_id", order.ID.String()),
					zap.String("order_number", order.OrderNumber),
					zap.String("item_id", item.ID.String()),
					zap.String("product_id", item.ProductID.String()),
					zap.String("requested", item.Quantity.String()),
					zap.String("allocated", allocated.String()),
					zap.String("unallocated", remaining.String()))
			}
			lines = append(lines, AllocationLine{
				ItemID:    item.ID,
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Allocated: allocated,
				Shortfall: remaining,
			})
		}

		order.RecomputeStatus()
		order.AddDomainEvent(trade.NewSalesOrderAllocatedEvent(order, allocatedTotal, fullyAllocated))
		events = order.GetDomainEvents()
		order.ClearDomainEvents()
		if err := repos.SalesOrderRepo().Save(ctx, order); err != nil {
			return err
		}

		result = &AllocationResult{
			OrderID:        order.ID,
			OrderStatus:    order.Status.String(),
			Lines:          lines,
			FullyAllocated: fullyAllocated,
		}
		return nil
	})
	if err != nil {
		s.logger.Error("sales order allocation failed",
			zap.String("order_id", orderID.String()),
			zap.Error(err))
		return nil, err
	}

	s.publishDomainEvents(ctx, events)
	if !result.FullyAllocated {
		return result, inventory.ErrAllocationIncomplete
	}
	return result, nil
}

// ============================================================================
// Stock transfers
// ============================================================================

// CreateTransfer creates a draft stock transfer document
func (s *InventoryService) CreateTransfer(ctx context.Context, req CreateTransferRequest, actor uuid.UUID) (*StockTransferResponse, error) {
	sequence, err := s.transferRepo.NextSequence(ctx)
	if err != nil {
		return nil, err
	}
	transfer, err := inventory.NewStockTransfer(
		inventory.FormatTransferNumber(sequence),
		req.SourceWarehouseID, req.DestinationWarehouseID, actor,
	)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		transfer.SetNotes(req.Notes)
	}
	for _, line := range req.Items {
		item, err := transfer.AddItem(line.ProductID, line.Quantity)
		if err != nil {
			return nil, err
		}
		if line.BatchNumber != "" || line.ExpiryDate != nil {
			item.SetBatch(line.BatchNumber, line.ExpiryDate)
		}
	}
	if err := s.transferRepo.Save(ctx, transfer); err != nil {
		s.logger.Error("failed to save stock transfer",
			zap.String("transfer_number", transfer.TransferNumber),
			zap.Error(err))
		return nil, err
	}
	resp := ToStockTransferResponse(transfer)
	return &resp, nil
}

// GetTransfer returns a stock transfer with its items
func (s *InventoryService) GetTransfer(ctx context.Context, id uuid.UUID) (*StockTransferResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToStockTransferResponse(transfer)
	return &resp, nil
}

// ListTransfers lists stock transfers with pagination
func (s *InventoryService) ListTransfers(ctx context.Context, filter shared.Filter) (*shared.Paginated[StockTransferResponse], error) {
	transfers, err := s.transferRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.transferRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]StockTransferResponse, len(transfers))
	for i := range transfers {
		items[i] = ToStockTransferResponse(&transfers[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// SubmitTransfer moves a draft transfer to pending
func (s *InventoryService) SubmitTransfer(ctx context.Context, id uuid.UUID) (*StockTransferResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := transfer.Submit(); err != nil {
		return nil, err
	}
	if err := s.transferRepo.Save(ctx, transfer); err != nil {
		return nil, err
	}
	resp := ToStockTransferResponse(transfer)
	return &resp, nil
}

// CancelTransfer cancels a transfer that has not been approved yet
func (s *InventoryService) CancelTransfer(ctx context.Context, id uuid.UUID) (*StockTransferResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := transfer.Cancel(); err != nil {
		return nil, err
	}
	if err := s.transferRepo.Save(ctx, transfer); err != nil {
		return nil, err
	}
	resp := ToStockTransferResponse(transfer)
	return &resp, nil
}

// ApproveTransfer approves a transfer and immediately moves its stock.
// Approval is committed first; the per-item movements then run with the
// usual commit-what-you-can policy.
func (s *InventoryService) ApproveTransfer(ctx context.Context, id uuid.UUID, approvedBy uuid.UUID) (*TransferProcessResult, error) {
	transfer, err := s.transferRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := transfer.Approve(approvedBy); err != nil {
		return nil, err
	}
	events := transfer.GetDomainEvents()
	transfer.ClearDomainEvents()
	if err := s.transferRepo.Save(ctx, transfer); err != nil {
		s.logger.Error("failed to save approved transfer",
			zap.String("transfer_id", transfer.ID.String()),
			zap.Error(err))
		return nil, err
	}
	s.publishDomainEvents(ctx, events)

	return s.processTransferItems(ctx, transfer, approvedBy)
}

// ProcessStockTransfer retries the stock movements of an approved transfer,
// for example after an earlier run left some items unmoved
func (s *InventoryService) ProcessStockTransfer(ctx context.Context, id uuid.UUID, actor uuid.UUID) (*TransferProcessResult, error) {
	transfer, err := s.transferRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if transfer.Status != inventory.StockTransferStatusApproved {
		return nil, shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Cannot process transfer in status %s", transfer.Status))
	}
	return s.processTransferItems(ctx, transfer, actor)
}

// processTransferItems moves each transfer item in its own transaction.
// An item that fails does not undo items already moved; the transfer only
// advances to completed when every item moved, so a failed run stays
// approved and can be retried once stock is available.
func (s *InventoryService) processTransferItems(ctx context.Context, transfer *inventory.StockTransfer, actor uuid.UUID) (*TransferProcessResult, error) {
	reference := inventory.StockTransferReference(transfer.ID)
	alreadyMoved, err := s.movedProductIDs(ctx, reference)
	if err != nil {
		return nil, err
	}

	var failures []TransferItemFailure
	for i := range transfer.Items {
		item := &transfer.Items[i]
		if alreadyMoved[item.ProductID] {
			continue
		}
		err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			return s.moveStock(ctx, repos,
				item.ProductID, transfer.SourceWarehouseID, transfer.DestinationWarehouseID,
				item.Quantity, item.BatchNumber, item.ExpiryDate,
				reference, actor)
		})
		if err != nil {
			s.logger.Error("transfer item failed",
				zap.String("transfer_id", transfer.ID.String()),
				zap.String("transfer_number", transfer.TransferNumber),
				zap.String("item_id", item.ID.String()),
				zap.String("product_id", item.ProductID.String()),
				zap.String("requested", item.Quantity.String()),
				zap.Error(err))
			failures = append(failures, TransferItemFailure{
				ItemID:    item.ID,
				ProductID: item.ProductID,
				Error:     err.Error(),
			})
		}
	}

	result := &TransferProcessResult{
		TransferID:  transfer.ID,
		Status:      transfer.Status.String(),
		Completed:   len(failures) == 0,
		FailedItems: failures,
	}
	if len(failures) > 0 {
		return result, inventory.ErrInsufficientStock
	}

	if err := transfer.MarkCompleted(); err != nil {
		return nil, err
	}
	events := transfer.GetDomainEvents()
	transfer.ClearDomainEvents()
	if err := s.transferRepo.Save(ctx, transfer); err != nil {
		s.logger.Error("failed to save completed transfer",
			zap.String("transfer_id", transfer.ID.String()),
			zap.Error(err))
		return nil, err
	}
	s.publishDomainEvents(ctx, events)
	result.Status = transfer.Status.String()
	return result, nil
}

// movedProductIDs returns the products a transfer has already written
// transfer_out entries for, so a retried run skips them
func (s *InventoryService) movedProductIDs(ctx context.Context, reference inventory.Reference) (map[uuid.UUID]bool, error) {
	txs, err := s.transactionRepo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	moved := make(map[uuid.UUID]bool)
	for i := range txs {
		if txs[i].TransactionType == inventory.TransactionTypeTransferOut {
			moved[txs[i].ProductID] = true
		}
	}
	return moved, nil
}

// ============================================================================
// Stock adjustments
// ============================================================================

// CreateAdjustment creates a draft stock adjustment document. Each item
// freezes its signed delta (new minus current) at creation time.
func (s *InventoryService) CreateAdjustment(ctx context.Context, req CreateAdjustmentRequest, actor uuid.UUID) (*StockAdjustmentResponse, error) {
	sequence, err := s.adjustmentRepo.NextSequence(ctx)
	if err != nil {
		return nil, err
	}
	adjustment, err := inventory.NewStockAdjustment(
		inventory.FormatAdjustmentNumber(sequence),
		req.WarehouseID,
		inventory.AdjustmentReason(req.Reason),
		actor,
	)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		adjustment.SetNotes(req.Notes)
	}
	if req.ReferenceNumber != "" {
		adjustment.SetReferenceNumber(req.ReferenceNumber)
	}
	for _, line := range req.Items {
		if _, err := adjustment.AddItem(line.ProductID, line.CurrentQuantity, line.NewQuantity); err != nil {
			return nil, err
		}
	}
	if err := s.adjustmentRepo.Save(ctx, adjustment); err != nil {
		s.logger.Error("failed to save stock adjustment",
			zap.String("adjustment_number", adjustment.AdjustmentNumber),
			zap.Error(err))
		return nil, err
	}
	resp := ToStockAdjustmentResponse(adjustment)
	return &resp, nil
}

// GetAdjustment returns a stock adjustment with its items
func (s *InventoryService) GetAdjustment(ctx context.Context, id uuid.UUID) (*StockAdjustmentResponse, error) {
	adjustment, err := s.adjustmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToStockAdjustmentResponse(adjustment)
	return &resp, nil
}

// ListAdjustments lists stock adjustments with pagination
func (s *InventoryService) ListAdjustments(ctx context.Context, filter shared.Filter) (*shared.Paginated[StockAdjustmentResponse], error) {
	adjustments, err := s.adjustmentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.adjustmentRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]StockAdjustmentResponse, len(adjustments))
	for i := range adjustments {
		items[i] = ToStockAdjustmentResponse(&adjustments[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// SubmitAdjustment moves a draft adjustment to pending
func (s *InventoryService) SubmitAdjustment(ctx context.Context, id uuid.UUID) (*StockAdjustmentResponse, error) {
	adjustment, err := s.adjustmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := adjustment.Submit(); err != nil {
		return nil, err
	}
	if err := s.adjustmentRepo.Save(ctx, adjustment); err != nil {
		return nil, err
	}
	resp := ToStockAdjustmentResponse(adjustment)
	return &resp, nil
}

// ApproveAdjustment approves an adjustment. Unlike transfers, approval does
// not write the transaction log; ProcessStockAdjustment is a separate call.
func (s *InventoryService) ApproveAdjustment(ctx context.Context, id uuid.UUID, approvedBy uuid.UUID) (*StockAdjustmentResponse, error) {
	adjustment, err := s.adjustmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := adjustment.Approve(approvedBy); err != nil {
		return nil, err
	}
	events := adjustment.GetDomainEvents()
	adjustment.ClearDomainEvents()
	if err := s.adjustmentRepo.Save(ctx, adjustment); err != nil {
		s.logger.Error("failed to save approved adjustment",
			zap.String("adjustment_id", adjustment.ID.String()),
			zap.Error(err))
		return nil, err
	}
	s.publishDomainEvents(ctx, events)
	resp := ToStockAdjustmentResponse(adjustment)
	return &resp, nil
}

// CancelAdjustment cancels an adjustment that has not been approved yet
func (s *InventoryService) CancelAdjustment(ctx context.Context, id uuid.UUID) (*StockAdjustmentResponse, error) {
	adjustment, err := s.adjustmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := adjustment.Cancel(); err != nil {
		return nil, err
	}
	if err := s.adjustmentRepo.Save(ctx, adjustment); err != nil {
		return nil, err
	}
	resp := ToStockAdjustmentResponse(adjustment)
	return &resp, nil
}

// ProcessStockAdjustment writes the transaction log entries for an approved
// adjustment. Each item becomes one adjustment_add or adjustment_remove
// entry carrying the delta frozen at item creation; items with a zero delta
// are skipped. The ledger row itself is not touched here: adjustments record
// corrections whose quantities were already applied by direct level edits,
// which is exactly the drift ReconcileLevel exists to surface.
func (s *InventoryService) ProcessStockAdjustment(ctx context.Context, id uuid.UUID, actor uuid.UUID) error {
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		adjustment, err := repos.AdjustmentRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if adjustment.Status != inventory.StockAdjustmentStatusApproved {
			return shared.NewDomainError("INVALID_STATUS",
				fmt.Sprintf("Cannot process adjustment in status %s", adjustment.Status))
		}

		reference := inventory.StockAdjustmentReference(adjustment.ID)
		existing, err := repos.TransactionRepo().FindByReference(ctx, reference)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return shared.NewDomainError("ALREADY_PROCESSED", "Adjustment has already been processed")
		}

		for i := range adjustment.Items {
			item := &adjustment.Items[i]
			if item.Quantity.IsZero() {
				continue
			}
			adjTx, err := inventory.NewInventoryTransaction(
				item.ProductID, adjustment.WarehouseID,
				item.TransactionType(), reference,
				item.Quantity, actor,
			)
			if err != nil {
				return err
			}
			adjTx.WithBatch(item.BatchNumber, nil).
				WithNotes(fmt.Sprintf("Adjustment %s: %s", adjustment.AdjustmentNumber, adjustment.Reason))
			if err := repos.TransactionRepo().Create(ctx, adjTx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, inventory.ErrAdjustmentNotFound) {
			s.logger.Error("stock adjustment processing failed",
				zap.String("adjustment_id", id.String()),
				zap.Error(err))
		}
		return err
	}
	return nil
}
