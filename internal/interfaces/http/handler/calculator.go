package handler

import (
	"github.com/gin-gonic/gin"
	pricingapp "github.com/resale/backoffice/internal/application/pricing"
	"github.com/resale/backoffice/internal/domain/pricing"
)

// CalculatorHandler handles purchase price quote and fee config endpoints
type CalculatorHandler struct {
	BaseHandler
	pricingService *pricingapp.PricingService
}

// NewCalculatorHandler creates a new CalculatorHandler
func NewCalculatorHandler(pricingService *pricingapp.PricingService) *CalculatorHandler {
	return &CalculatorHandler{pricingService: pricingService}
}

// RegisterRoutes registers calculator routes
func (h *CalculatorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	calc := rg.Group("/calculator")
	{
		calc.POST("/quote", h.Quote)
		calc.GET("/config", h.GetConfig)
		calc.PUT("/config", h.UpdateConfig)
	}
	rg.GET("/pricefeed/products/:id", h.LookupPrices)
}

// LookupPrices returns the feed's loose/CIB/new prices for an external
// product id. An empty triple is a normal response, not an error.
func (h *CalculatorHandler) LookupPrices(c *gin.Context) {
	triple := h.pricingService.LookupPriceTriple(c.Request.Context(), c.Param("id"))
	h.Success(c, triple)
}

// Quote computes a purchase price quote for a single item
func (h *CalculatorHandler) Quote(c *gin.Context) {
	var req pricingapp.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quote, err := h.pricingService.Quote(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// GetConfig returns the current fee configuration
func (h *CalculatorHandler) GetConfig(c *gin.Context) {
	cfg, err := h.pricingService.GetConfig(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cfg)
}

// UpdateConfig replaces the fee configuration
func (h *CalculatorHandler) UpdateConfig(c *gin.Context) {
	var cfg pricing.FeeConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.pricingService.UpdateConfig(c.Request.Context(), cfg)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}
