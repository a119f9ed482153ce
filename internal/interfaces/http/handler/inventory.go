package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/resale/backoffice/internal/application/inventory"
)

// InventoryHandler handles inventory cohort API endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/inventory-items")
	{
		items.GET("", h.List)
		items.GET("/:id", h.Get)
		items.PUT("/:id", h.Update)
		items.POST("/:id/adjust", h.Adjust)
		items.GET("/:id/events", h.ListEvents)
	}
}

// List lists inventory cohorts with filtering and pagination
func (h *InventoryHandler) List(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if variantID := c.Query("variant_id"); variantID != "" {
		filter.Filters["variant_id"] = variantID
	}

	page, err := h.inventoryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Limit, page.Offset)
}

// Get retrieves a single inventory cohort
func (h *InventoryHandler) Get(c *gin.Context) {
	itemID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.inventoryService.Get(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Update edits a cohort's seller SKU or condition grade
func (h *InventoryHandler) Update(c *gin.Context) {
	itemID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req inventoryapp.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.inventoryService.Update(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Adjust applies a quantity adjustment to a cohort
func (h *InventoryHandler) Adjust(c *gin.Context) {
	itemID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req inventoryapp.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.inventoryService.Adjust(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ListEvents lists the adjustment history for a cohort
func (h *InventoryHandler) ListEvents(c *gin.Context) {
	itemID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	events, err := h.inventoryService.ListEvents(c.Request.Context(), itemID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, events)
}
