package inventory

import (
	"context"

	"github.com/atlas-erp/backend/internal/domain/inventory"
	"github.com/atlas-erp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockAlertHandler logs a warning whenever available stock on a ledger
// row falls below its minimum threshold
type LowStockAlertHandler struct {
	logger *zap.Logger
}

// NewLowStockAlertHandler creates the handler
func NewLowStockAlertHandler(logger *zap.Logger) *LowStockAlertHandler {
	return &LowStockAlertHandler{logger: logger.Named("lowstock")}
}

// EventTypes implements shared.EventHandler
func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowMinimum}
}

// Handle implements shared.EventHandler
func (h *LowStockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*inventory.StockBelowMinimumEvent)
	if !ok {
		return nil
	}
	h.logger.Warn("stock below minimum threshold",
		zap.String("product_id", e.ProductID.String()),
		zap.String("warehouse_id", e.WarehouseID.String()),
		zap.String("quantity_available", e.QuantityAvailable.String()),
		zap.String("minimum_stock", e.MinimumStock.String()),
	)
	return nil
}

var _ shared.EventHandler = (*LowStockAlertHandler)(nil)
