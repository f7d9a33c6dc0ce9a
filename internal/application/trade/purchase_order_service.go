package trade

import (
	"context"
	"fmt"

	appinventory "github.com/atlas-erp/backend/internal/application/inventory"
	"github.com/atlas-erp/backend/internal/domain/inventory"
	"github.com/atlas-erp/backend/internal/domain/shared"
	"github.com/atlas-erp/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PurchaseOrderService manages the purchase order lifecycle and goods
// receipts. A receipt writes the order, the inventory ledger and the
// transaction log in one database transaction; if any write fails the
// whole receipt rolls back.
type PurchaseOrderService struct {
	orderRepo      trade.PurchaseOrderRepository
	txScope        appinventory.TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPurchaseOrderService creates a new purchase order service
func NewPurchaseOrderService(
	orderRepo trade.PurchaseOrderRepository,
	txScope appinventory.TransactionScope,
	logger *zap.Logger,
) *PurchaseOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseOrderService{
		orderRepo: orderRepo,
		txScope:   txScope,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *PurchaseOrderService) publishDomainEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events",
			zap.Int("event_count", len(events)),
			zap.Error(err))
	}
}

// Create creates a draft purchase order
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest, actor uuid.UUID) (*PurchaseOrderResponse, error) {
	sequence, err := s.orderRepo.NextSequence(ctx)
	if err != nil {
		return nil, err
	}
	order, err := trade.NewPurchaseOrder(
		trade.FormatPurchaseOrderNumber(sequence),
		req.SupplierID, req.SupplierName, actor,
	)
	if err != nil {
		return nil, err
	}
	if req.WarehouseID != nil {
		if err := order.SetWarehouse(*req.WarehouseID); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		order.SetNotes(req.Notes)
	}
	for _, line := range req.Items {
		if _, err := order.AddItem(line.ProductID, line.ProductName, line.Quantity, line.UnitPrice); err != nil {
			return nil, err
		}
	}
	if err := s.saveAndPublish(ctx, order); err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// Get returns a purchase order with its items
func (s *PurchaseOrderService) Get(ctx context.Context, id uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// GetByNumber returns a purchase order by its order number
func (s *PurchaseOrderService) GetByNumber(ctx context.Context, orderNumber string) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

// List lists purchase orders with pagination
func (s *PurchaseOrderService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[PurchaseOrderResponse], error) {
	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		items[i] = ToPurchaseOrderResponse(&orders[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// AddItem adds a line to a draft purchase order
func (s *PurchaseOrderService) AddItem(ctx context.Context, orderID uuid.UUID, req OrderItemRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.PurchaseOrder) error {
		_, err := order.AddItem(req.ProductID, req.ProductName, req.Quantity, req.UnitPrice)
		return err
	})
}

// UpdateItemQuantity changes the ordered quantity of a draft order line
func (s *PurchaseOrderService) UpdateItemQuantity(ctx context.Context, orderID, itemID uuid.UUID, quantity decimal.Decimal) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.PurchaseOrder) error {
		return order.UpdateItemQuantity(itemID, quantity)
	})
}

// RemoveItem removes a line from a draft purchase order
func (s *PurchaseOrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.PurchaseOrder) error {
		return order.RemoveItem(itemID)
	})
}

// SetWarehouse sets the default receiving warehouse of a purchase order
func (s *PurchaseOrderService) SetWarehouse(ctx context.Context, orderID, warehouseID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.PurchaseOrder) error {
		return order.SetWarehouse(warehouseID)
	})
}

// Submit moves a draft purchase order to pending
func (s *PurchaseOrderService) Submit(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.PurchaseOrder) error {
		return order.Submit()
	})
}

// Approve approves a purchase order. Approval is pure data entry; goods
// only hit the ledger when a receipt is processed later.
func (s *PurchaseOrderService) Approve(ctx context.Context, orderID, approvedBy uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.PurchaseOrder) error {
		return order.Approve(approvedBy)
	})
}

// MarkOrdered records that an approved order was placed with the supplier
func (s *PurchaseOrderService) MarkOrdered(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.PurchaseOrder) error {
		return order.MarkOrdered()
	})
}

// Cancel cancels a purchase order that has not received any goods
func (s *PurchaseOrderService) Cancel(ctx context.Context, orderID uuid.UUID, reason string) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.PurchaseOrder) error {
		return order.Cancel(reason)
	})
}

// ProcessReceipt books a delivery against a receivable purchase order.
// Each line is clamped to the quantity still outstanding on its item; for
// every clamped line the warehouse ledger row is incremented and a positive
// purchase transaction appended. The order update, ledger updates and log
// entries commit together or not at all.
func (s *PurchaseOrderService) ProcessReceipt(ctx context.Context, orderID uuid.UUID, req ProcessReceiptRequest, actor uuid.UUID) (*ReceiptResult, error) {
	var result *ReceiptResult
	var events []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		order, err := repos.PurchaseOrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		warehouseID := order.WarehouseID
		if req.WarehouseID != nil {
			warehouseID = req.WarehouseID
		}
		if warehouseID == nil {
			return shared.NewDomainError("NO_WAREHOUSE", "Purchase order has no receiving warehouse")
		}

		lines := make(map[uuid.UUID]decimal.Decimal, len(req.Lines))
		batches := make(map[uuid.UUID]ReceiptLineRequest, len(req.Lines))
		for _, line := range req.Lines {
			lines[line.ItemID] = line.Quantity
			batches[line.ItemID] = line
		}

		booked, err := order.Receive(lines)
		if err != nil {
			return err
		}

		resultLines := make([]ReceiptLineResult, 0, len(booked))
		for _, line := range booked {
			if _, err := repos.LevelRepo().GetOrCreate(ctx, line.ProductID, *warehouseID); err != nil {
				return err
			}
			if err := repos.LevelRepo().AddQuantity(ctx, line.ProductID, *warehouseID, line.Quantity); err != nil {
				return err
			}
			purchaseTx, err := inventory.NewInventoryTransaction(
				line.ProductID, *warehouseID,
				inventory.TransactionTypePurchase,
				inventory.PurchaseOrderReference(order.ID),
				line.Quantity, actor,
			)
			if err != nil {
				return err
			}
			meta := batches[line.ItemID]
			purchaseTx.WithBatch(meta.BatchNumber, meta.ExpiryDate).
				WithNotes(fmt.Sprintf("Receipt for purchase order %s", order.OrderNumber))
			if err := repos.TransactionRepo().Create(ctx, purchaseTx); err != nil {
				return err
			}
			resultLines = append(resultLines, ReceiptLineResult{
				ItemID:    line.ItemID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			})
		}

		events = order.GetDomainEvents()
		order.ClearDomainEvents()
		if err := repos.PurchaseOrderRepo().Save(ctx, order); err != nil {
			return err
		}

		result = &ReceiptResult{
			OrderID:     order.ID,
			OrderStatus: order.Status.String(),
			Lines:       resultLines,
		}
		return nil
	})
	if err != nil {
		s.logger.Error("purchase order receipt failed",
			zap.String("order_id", orderID.String()),
			zap.Error(err))
		return nil, err
	}

	s.publishDomainEvents(ctx, events)
	return result, nil
}

// mutate loads an order, applies a domain operation and saves the result
func (s *PurchaseOrderService) mutate(ctx context.Context, orderID uuid.UUID, fn func(order *trade.PurchaseOrder) error) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := fn(order); err != nil {
		return nil, err
	}
	if err := s.saveAndPublish(ctx, order); err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(order)
	return &resp, nil
}

func (s *PurchaseOrderService) saveAndPublish(ctx context.Context, order *trade.PurchaseOrder) error {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	if err := s.orderRepo.Save(ctx, order); err != nil {
		s.logger.Error("failed to save purchase order",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		return err
	}
	s.publishDomainEvents(ctx, events)
	return nil
}
