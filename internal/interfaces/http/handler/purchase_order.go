package handler

import (
	"github.com/gin-gonic/gin"
	purchaseapp "github.com/resale/backoffice/internal/application/purchase"
)

// PurchaseOrderHandler handles purchase order API endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *purchaseapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *purchaseapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService}
}

// RegisterRoutes registers purchase order routes
func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/purchase-orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.PUT("/:id", h.UpdateHeader)
		orders.POST("/:id/lock", h.Lock)
		orders.POST("/:id/lines", h.AddLine)
		orders.PUT("/:id/lines/:line_id", h.UpdateLine)
		orders.DELETE("/:id/lines/:line_id", h.RemoveLine)
	}
}

// Create creates a new purchase order with a generated PO number
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req purchaseapp.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// List lists purchase orders with filtering and pagination
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if sourceID := c.Query("source_id"); sourceID != "" {
		filter.Filters["source_id"] = sourceID
	}

	page, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Limit, page.Offset)
}

// Get retrieves a purchase order with its lines
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	orderID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdateHeader updates an unlocked order's header fields
func (h *PurchaseOrderHandler) UpdateHeader(c *gin.Context) {
	orderID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req purchaseapp.UpdatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateHeader(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Lock locks the order and runs cost allocation
func (h *PurchaseOrderHandler) Lock(c *gin.Context) {
	orderID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Lock(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// AddLine adds a line to an unlocked order
func (h *PurchaseOrderHandler) AddLine(c *gin.Context) {
	orderID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req purchaseapp.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.AddLine(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// UpdateLine updates a line on an unlocked order
func (h *PurchaseOrderHandler) UpdateLine(c *gin.Context) {
	orderID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.parseIDParam(c, "line_id")
	if !ok {
		return
	}

	var req purchaseapp.UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateLine(c.Request.Context(), orderID, lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// RemoveLine removes a line from an unlocked order
func (h *PurchaseOrderHandler) RemoveLine(c *gin.Context) {
	orderID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	lineID, ok := h.parseIDParam(c, "line_id")
	if !ok {
		return
	}

	order, err := h.orderService.RemoveLine(c.Request.Context(), orderID, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
