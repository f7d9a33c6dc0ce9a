package trade

import (
	"context"

	"github.com/atlas-erp/backend/internal/domain/shared"
	"github.com/atlas-erp/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SalesOrderService manages the sales order lifecycle. Stock allocation
// against approved orders lives in the inventory service; this service only
// handles drafting, approval and cancellation.
type SalesOrderService struct {
	orderRepo      trade.SalesOrderRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSalesOrderService creates a new sales order service
func NewSalesOrderService(orderRepo trade.SalesOrderRepository, logger *zap.Logger) *SalesOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesOrderService{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *SalesOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *SalesOrderService) publishDomainEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events",
			zap.Int("event_count", len(events)),
			zap.Error(err))
	}
}

// Create creates a draft sales order
func (s *SalesOrderService) Create(ctx context.Context, req CreateSalesOrderRequest, actor uuid.UUID) (*SalesOrderResponse, error) {
	sequence, err := s.orderRepo.NextSequence(ctx)
	if err != nil {
		return nil, err
	}
	order, err := trade.NewSalesOrder(
		trade.FormatSalesOrderNumber(sequence),
		req.CustomerID, req.CustomerName, actor,
	)
	if err != nil {
		return nil, err
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
	resp := ToSalesOrderResponse(order)
	return &resp, nil
}

// Get returns a sales order with its items
func (s *SalesOrderService) Get(ctx context.Context, id uuid.UUID) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSalesOrderResponse(order)
	return &resp, nil
}

// GetByNumber returns a sales order by its order number
func (s *SalesOrderService) GetByNumber(ctx context.Context, orderNumber string) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	resp := ToSalesOrderResponse(order)
	return &resp, nil
}

// List lists sales orders with pagination
func (s *SalesOrderService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[SalesOrderResponse], error) {
	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]SalesOrderResponse, len(orders))
	for i := range orders {
		items[i] = ToSalesOrderResponse(&orders[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// AddItem adds a line to a draft sales order
func (s *SalesOrderService) AddItem(ctx context.Context, orderID uuid.UUID, req OrderItemRequest) (*SalesOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.SalesOrder) error {
		_, err := order.AddItem(req.ProductID, req.ProductName, req.Quantity, req.UnitPrice)
		return err
	})
}

// UpdateItemQuantity changes the ordered quantity of a draft order line
func (s *SalesOrderService) UpdateItemQuantity(ctx context.Context, orderID, itemID uuid.UUID, quantity decimal.Decimal) (*SalesOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.SalesOrder) error {
		return order.UpdateItemQuantity(itemID, quantity)
	})
}

// RemoveItem removes a line from a draft sales order
func (s *SalesOrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*SalesOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.SalesOrder) error {
		return order.RemoveItem(itemID)
	})
}

// Submit moves a draft sales order to pending
func (s *SalesOrderService) Submit(ctx context.Context, orderID uuid.UUID) (*SalesOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.SalesOrder) error {
		return order.Submit()
	})
}

// Approve approves a sales order. Allocation is a separate explicit action
// invoked through the inventory service.
func (s *SalesOrderService) Approve(ctx context.Context, orderID, approvedBy uuid.UUID) (*SalesOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.SalesOrder) error {
		return order.Approve(approvedBy)
	})
}

// MarkDelivered records delivery of a fully shipped order
func (s *SalesOrderService) MarkDelivered(ctx context.Context, orderID uuid.UUID) (*SalesOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.SalesOrder) error {
		return order.MarkDelivered()
	})
}

// Cancel cancels a sales order that has not shipped any goods
func (s *SalesOrderService) Cancel(ctx context.Context, orderID uuid.UUID, reason string) (*SalesOrderResponse, error) {
	return s.mutate(ctx, orderID, func(order *trade.SalesOrder) error {
		return order.Cancel(reason)
	})
}

// mutate loads an order, applies a domain operation and saves the result
func (s *SalesOrderService) mutate(ctx context.Context, orderID uuid.UUID, fn func(order *trade.SalesOrder) error) (*SalesOrderResponse, error) {
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
	resp := ToSalesOrderResponse(order)
	return &resp, nil
}

func (s *SalesOrderService) saveAndPublish(ctx context.Context, order *trade.SalesOrder) error {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	if err := s.orderRepo.Save(ctx, order); err != nil {
		s.logger.Error("failed to save sales order",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		return err
	}
	s.publishDomainEvents(ctx, events)
	return nil
}
