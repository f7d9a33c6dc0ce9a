package handler

import (
	inventoryapp "github.com/atlas-erp/backend/internal/application/inventory"
	"github.com/atlas-erp/backend/internal/domain/inventory"
	"github.com/atlas-erp/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryHandler exposes the inventory ledger, the transaction log and the
// stock movement documents over HTTP
type InventoryHandler struct {
	BaseHandler
	service *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(service *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	{
		inv.GET("/levels", h.ListLevels)
		inv.GET("/levels/below-minimum", h.ListBelowMinimum)
		inv.GET("/levels/detail", h.GetLevel)
		inv.GET("/levels/reconciliation", h.ReconcileLevel)
		inv.PUT("/levels/thresholds", h.UpdateThresholds)
		inv.PUT("/levels/quantity", h.SetLevelQuantity)

		inv.GET("/transactions", h.ListTransactions)
		inv.GET("/transactions/by-reference", h.ListTransactionsByReference)

		inv.POST("/transfer-stock", h.TransferStock)

		inv.POST("/transfers", h.CreateTransfer)
		inv.GET("/transfers", h.ListTransfers)
		inv.GET("/transfers/:id", h.GetTransfer)
		inv.POST("/transfers/:id/submit", h.SubmitTransfer)
		inv.POST("/transfers/:id/approve", h.ApproveTransfer)
		inv.POST("/transfers/:id/cancel", h.CancelTransfer)
		inv.POST("/transfers/:id/process", h.ProcessTransfer)

		inv.POST("/adjustments", h.CreateAdjustment)
		inv.GET("/adjustments", h.ListAdjustments)
		inv.GET("/adjustments/:id", h.GetAdjustment)
		inv.POST("/adjustments/:id/submit", h.SubmitAdjustment)
		inv.POST("/adjustments/:id/approve", h.ApproveAdjustment)
		inv.POST("/adjustments/:id/cancel", h.CancelAdjustment)
		inv.POST("/adjustments/:id/process", h.ProcessAdjustment)
	}
}

// levelKeyRequest identifies a ledger row by product and warehouse
type levelKeyRequest struct {
	ProductID   uuid.UUID `form:"product_id" binding:"required"`
	WarehouseID uuid.UUID `form:"warehouse_id" binding:"required"`
}

// updateThresholdsRequest sets the stock thresholds on a ledger row
type updateThresholdsRequest struct {
	ProductID    uuid.UUID       `json:"product_id" binding:"required"`
	WarehouseID  uuid.UUID       `json:"warehouse_id" binding:"required"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
}

// ListLevels handles GET /inventory/levels
func (h *InventoryHandler) ListLevels(c *gin.Context) {
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}
	applyQueryFilters(c, &filter, "product_id", "warehouse_id", "batch_number")

	result, err := h.service.ListLevels(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListBelowMinimum handles GET /inventory/levels/below-minimum
func (h *InventoryHandler) ListBelowMinimum(c *gin.Context) {
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}
	applyQueryFilters(c, &filter, "warehouse_id")

	levels, err := h.service.ListBelowMinimum(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, levels)
}

// GetLevel handles GET /inventory/levels/detail
func (h *InventoryHandler) GetLevel(c *gin.Context) {
	var req levelKeyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "product_id and warehouse_id are required")
		return
	}
	level, err := h.service.GetLevel(c.Request.Context(), req.ProductID, req.WarehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, level)
}

// ReconcileLevel handles GET /inventory/levels/reconciliation
func (h *InventoryHandler) ReconcileLevel(c *gin.Context) {
	var req levelKeyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "product_id and warehouse_id are required")
		return
	}
	report, err := h.service.ReconcileLevel(c.Request.Context(), req.ProductID, req.WarehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// UpdateThresholds handles PUT /inventory/levels/thresholds
func (h *InventoryHandler) UpdateThresholds(c *gin.Context) {
	var req updateThresholdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	level, err := h.service.UpdateThresholds(c.Request.Context(),
		req.ProductID, req.WarehouseID, req.MinimumStock, req.ReorderPoint)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, level)
}

// SetLevelQuantity handles PUT /inventory/levels/quantity.
// This edits the ledger row directly without writing a log entry, so the
// change surfaces as drift on the reconciliation endpoint.
func (h *InventoryHandler) SetLevelQuantity(c *gin.Context) {
	var req inventoryapp.SetLevelQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	level, err := h.service.SetLevelQuantity(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, level)
}

// ListTransactions handles GET /inventory/transactions
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}
	applyQueryFilters(c, &filter,
		"product_id", "warehouse_id", "transaction_type", "reference_type", "reference_id", "created_by")

	result, err := h.service.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListTransactionsByReference handles GET /inventory/transactions/by-reference
func (h *InventoryHandler) ListTransactionsByReference(c *gin.Context) {
	refType := c.Query("reference_type")
	if refType == "" {
		h.BadRequest(c, "reference_type is required")
		return
	}
	ref := inventory.Reference{Type: inventory.ReferenceType(refType)}
	if idStr := c.Query("reference_id"); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			h.BadRequest(c, "Invalid reference_id format")
			return
		}
		ref.ID = &id
	}

	txs, err := h.service.ListTransactionsByReference(c.Request.Context(), ref)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, txs)
}

// TransferStock handles POST /inventory/transfer-stock
func (h *InventoryHandler) TransferStock(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req inventoryapp.TransferStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	if err := h.service.TransferStock(c.Request.Context(), req, actor); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateTransfer handles POST /inventory/transfers
func (h *InventoryHandler) CreateTransfer(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req inventoryapp.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	transfer, err := h.service.CreateTransfer(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, transfer)
}

// ListTransfers handles GET /inventory/transfers
func (h *InventoryHandler) ListTransfers(c *gin.Context) {
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}
	applyQueryFilters(c, &filter, "status", "source_warehouse_id", "destination_warehouse_id")

	result, err := h.service.ListTransfers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetTransfer handles GET /inventory/transfers/:id
func (h *InventoryHandler) GetTransfer(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	transfer, err := h.service.GetTransfer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transfer)
}

// SubmitTransfer handles POST /inventory/transfers/:id/submit
func (h *InventoryHandler) SubmitTransfer(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	transfer, err := h.service.SubmitTransfer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transfer)
}

// ApproveTransfer handles POST /inventory/transfers/:id/approve.
// Approval also moves the stock; the response reports any items that
// could not be moved.
func (h *InventoryHandler) ApproveTransfer(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	result, err := h.service.ApproveTransfer(c.Request.Context(), id, actor)
	if err != nil && result == nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// CancelTransfer handles POST /inventory/transfers/:id/cancel
func (h *InventoryHandler) CancelTransfer(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	transfer, err := h.service.CancelTransfer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transfer)
}

// ProcessTransfer handles POST /inventory/transfers/:id/process
func (h *InventoryHandler) ProcessTransfer(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	result, err := h.service.ProcessStockTransfer(c.Request.Context(), id, actor)
	if err != nil && result == nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// CreateAdjustment handles POST /inventory/adjustments
func (h *InventoryHandler) CreateAdjustment(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req inventoryapp.CreateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	adjustment, err := h.service.CreateAdjustment(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, adjustment)
}

// ListAdjustments handles GET /inventory/adjustments
func (h *InventoryHandler) ListAdjustments(c *gin.Context) {
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}
	applyQueryFilters(c, &filter, "status", "warehouse_id", "reason")

	result, err := h.service.ListAdjustments(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetAdjustment handles GET /inventory/adjustments/:id
func (h *InventoryHandler) GetAdjustment(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	adjustment, err := h.service.GetAdjustment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, adjustment)
}

// SubmitAdjustment handles POST /inventory/adjustments/:id/submit
func (h *InventoryHandler) SubmitAdjustment(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	adjustment, err := h.service.SubmitAdjustment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, adjustment)
}

// ApproveAdjustment handles POST /inventory/adjustments/:id/approve
func (h *InventoryHandler) ApproveAdjustment(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	adjustment, err := h.service.ApproveAdjustment(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, adjustment)
}

// CancelAdjustment handles POST /inventory/adjustments/:id/cancel
func (h *InventoryHandler) CancelAdjustment(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	adjustment, err := h.service.CancelAdjustment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, adjustment)
}

// ProcessAdjustment handles POST /inventory/adjustments/:id/process
func (h *InventoryHandler) ProcessAdjustment(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	if err := h.service.ProcessStockAdjustment(c.Request.Context(), id, actor); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// applyQueryFilters copies the named query parameters into the filter map
func applyQueryFilters(c *gin.Context, filter *shared.Filter, keys ...string) {
	for _, key := range keys {
		if value := c.Query(key); value != "" {
			if filter.Filters == nil {
				filter.Filters = make(map[string]interface{})
			}
			filter.Filters[key] = value
		}
	}
}
