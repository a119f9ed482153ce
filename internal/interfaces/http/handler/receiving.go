package handler

import (
	"github.com/gin-gonic/gin"
	receivingapp "github.com/resale/backoffice/internal/application/receiving"
)

// ReceivingHandler handles the receiving workflow API endpoints
type ReceivingHandler struct {
	BaseHandler
	receivingService *receivingapp.ReceivingService
}

// NewReceivingHandler creates a new ReceivingHandler
func NewReceivingHandler(receivingService *receivingapp.ReceivingService) *ReceivingHandler {
	return &ReceivingHandler{receivingService: receivingService}
}

// RegisterRoutes registers receiving routes under the purchase order resource
func (h *ReceivingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	receiving := rg.Group("/purchase-orders/:id/receiving")
	{
		receiving.GET("/staging", h.Staging)
		receiving.POST("/commit", h.Commit)
		receiving.GET("/events", h.ListEvents)
	}
}

// Staging returns the receiving worksheet for a locked order
func (h *ReceivingHandler) Staging(c *gin.Context) {
	orderID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	includeCompleted := c.Query("include_completed") == "true"
	staging, err := h.receivingService.BuildStaging(c.Request.Context(), orderID, includeCompleted)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, staging)
}

// Commit applies a receiving batch atomically
func (h *ReceivingHandler) Commit(c *gin.Context) {
	orderID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req receivingapp.CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.receivingService.Commit(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListEvents lists the receiving audit trail for an order
func (h *ReceivingHandler) ListEvents(c *gin.Context) {
	orderID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}
	if eventType := c.Query("event_type"); eventType != "" {
		filter.Filters["event_type"] = eventType
	}

	events, err := h.receivingService.ListEvents(c.Request.Context(), orderID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, events)
}
