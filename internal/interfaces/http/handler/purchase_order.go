package handler

import (
	tradeapp "github.com/atlas-erp/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderHandler exposes purchase order management over HTTP
type PurchaseOrderHandler struct {
	BaseHandler
	service *tradeapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new purchase order handler
func NewPurchaseOrderHandler(service *tradeapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{service: service}
}

// RegisterRoutes registers purchase order routes
func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/purchase-orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.GET("/by-number/:number", h.GetByNumber)
		orders.POST("/:id/items", h.AddItem)
		orders.PUT("/:id/items/:itemID", h.UpdateItemQuantity)
		orders.DELETE("/:id/items/:itemID", h.RemoveItem)
		orders.PUT("/:id/warehouse", h.SetWarehouse)
		orders.POST("/:id/submit", h.Submit)
		orders.POST("/:id/approve", h.Approve)
		orders.POST("/:id/mark-ordered", h.MarkOrdered)
		orders.POST("/:id/cancel", h.Cancel)
		orders.POST("/:id/receipts", h.ProcessReceipt)
	}
}

// updateItemQuantityRequest changes the quantity of one order line
type updateItemQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// setWarehouseRequest sets the receiving warehouse on an order
type setWarehouseRequest struct {
	WarehouseID uuid.UUID `json:"warehouse_id" binding:"required"`
}

// cancelRequest carries the cancellation reason
type cancelRequest struct {
	Reason string `json:"reason"`
}

// Create handles POST /purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req tradeapp.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	order, err := h.service.Create(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// List handles GET /purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}
	applyQueryFilters(c, &filter, "status", "supplier_id", "warehouse_id")

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get handles GET /purchase-orders/:id
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	order, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// GetByNumber handles GET /purchase-orders/by-number/:number
func (h *PurchaseOrderHandler) GetByNumber(c *gin.Context) {
	order, err := h.service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// AddItem handles POST /purchase-orders/:id/items
func (h *PurchaseOrderHandler) AddItem(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	var req tradeapp.OrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	order, err := h.service.AddItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdateItemQuantity handles PUT /purchase-orders/:id/items/:itemID
func (h *PurchaseOrderHandler) UpdateItemQuantity(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("itemID"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}
	var req updateItemQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	order, err := h.service.UpdateItemQuantity(c.Request.Context(), id, itemID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// RemoveItem handles DELETE /purchase-orders/:id/items/:itemID
func (h *PurchaseOrderHandler) RemoveItem(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("itemID"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}
	order, err := h.service.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// SetWarehouse handles PUT /purchase-orders/:id/warehouse
func (h *PurchaseOrderHandler) SetWarehouse(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	var req setWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	order, err := h.service.SetWarehouse(c.Request.Context(), id, req.WarehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Submit handles POST /purchase-orders/:id/submit
func (h *PurchaseOrderHandler) Submit(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	order, err := h.service.Submit(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Approve handles POST /purchase-orders/:id/approve
func (h *PurchaseOrderHandler) Approve(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	order, err := h.service.Approve(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// MarkOrdered handles POST /purchase-orders/:id/mark-ordered
func (h *PurchaseOrderHandler) MarkOrdered(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	order, err := h.service.MarkOrdered(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel handles POST /purchase-orders/:id/cancel
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	var req cancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, "Invalid request body")
			return
		}
	}
	order, err := h.service.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ProcessReceipt handles POST /purchase-orders/:id/receipts.
// Books a goods delivery against an approved order: ledger rows are
// incremented and one purchase entry per line lands in the transaction log.
func (h *PurchaseOrderHandler) ProcessReceipt(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req tradeapp.ProcessReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	result, err := h.service.ProcessReceipt(c.Request.Context(), id, req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
