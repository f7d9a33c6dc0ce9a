package handler

import (
	inventoryapp "github.com/atlas-erp/backend/internal/application/inventory"
	tradeapp "github.com/atlas-erp/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SalesOrderHandler exposes sales order management over HTTP. Allocation
// goes through the inventory service because it writes the ledger and the
// transaction log, not just the order.
type SalesOrderHandler struct {
	BaseHandler
	service          *tradeapp.SalesOrderService
	inventoryService *inventoryapp.InventoryService
}

// NewSalesOrderHandler creates a new sales order handler
func NewSalesOrderHandler(service *tradeapp.SalesOrderService, inventoryService *inventoryapp.InventoryService) *SalesOrderHandler {
	return &SalesOrderHandler{service: service, inventoryService: inventoryService}
}

// RegisterRoutes registers sales order routes
func (h *SalesOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/sales-orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.GET("/by-number/:number", h.GetByNumber)
		orders.POST("/:id/items", h.AddItem)
		orders.PUT("/:id/items/:itemID", h.UpdateItemQuantity)
		orders.DELETE("/:id/items/:itemID", h.RemoveItem)
		orders.POST("/:id/submit", h.Submit)
		orders.POST("/:id/approve", h.Approve)
		orders.POST("/:id/allocate", h.Allocate)
		orders.POST("/:id/mark-delivered", h.MarkDelivered)
		orders.POST("/:id/cancel", h.Cancel)
	}
}

// Create handles POST /sales-orders
func (h *SalesOrderHandler) Create(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	var req tradeapp.CreateSalesOrderRequest
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

// List handles GET /sales-orders
func (h *SalesOrderHandler) List(c *gin.Context) {
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}
	applyQueryFilters(c, &filter, "status", "customer_id")

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get handles GET /sales-orders/:id
func (h *SalesOrderHandler) Get(c *gin.Context) {
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

// GetByNumber handles GET /sales-orders/by-number/:number
func (h *SalesOrderHandler) GetByNumber(c *gin.Context) {
	order, err := h.service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// AddItem handles POST /sales-orders/:id/items
func (h *SalesOrderHandler) AddItem(c *gin.Context) {
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

// UpdateItemQuantity handles PUT /sales-orders/:id/items/:itemID
func (h *SalesOrderHandler) UpdateItemQuantity(c *gin.Context) {
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

// RemoveItem handles DELETE /sales-orders/:id/items/:itemID
func (h *SalesOrderHandler) RemoveItem(c *gin.Context) {
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

// Submit handles POST /sales-orders/:id/submit
func (h *SalesOrderHandler) Submit(c *gin.Context) {
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

// Approve handles POST /sales-orders/:id/approve
func (h *SalesOrderHandler) Approve(c *gin.Context) {
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

// Allocate handles POST /sales-orders/:id/allocate. Walks the ledger in
// warehouse order deducting stock for each unshipped item; partial
// allocations are kept and reported per line.
func (h *SalesOrderHandler) Allocate(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	result, err := h.inventoryService.ProcessSalesOrderInventory(c.Request.Context(), id, actor)
	if err != nil && result == nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// MarkDelivered handles POST /sales-orders/:id/mark-delivered
func (h *SalesOrderHandler) MarkDelivered(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}
	order, err := h.service.MarkDelivered(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel handles POST /sales-orders/:id/cancel
func (h *SalesOrderHandler) Cancel(c *gin.Context) {
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
