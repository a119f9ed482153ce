package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/resale/backoffice/internal/application/catalog"
)

// CatalogHandler handles source, product, and attribute schema endpoints
type CatalogHandler struct {
	BaseHandler
	catalogService *catalogapp.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *catalogapp.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// RegisterRoutes registers catalog routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/sources", h.ListSources)
	rg.POST("/sources", h.CreateSource)
	rg.GET("/products", h.SearchProducts)
	rg.GET("/variants/:id/context", h.GetVariantContext)

	fields := rg.Group("/attribute-fields")
	{
		fields.GET("", h.ListAttributeFields)
		fields.POST("", h.CreateAttributeField)
		fields.POST("/validate", h.ValidateAttributes)
	}
}

// ListSources lists all acquisition sources
func (h *CatalogHandler) ListSources(c *gin.Context) {
	sources, err := h.catalogService.ListSources(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sources)
}

// CreateSource registers a new acquisition source
func (h *CatalogHandler) CreateSource(c *gin.Context) {
	var req catalogapp.CreateSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	source, err := h.catalogService.CreateSource(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, source)
}

// SearchProducts searches catalog products
func (h *CatalogHandler) SearchProducts(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}
	if category := c.Query("category"); category != "" {
		filter.Filters["category_name"] = category
	}
	if platform := c.Query("platform"); platform != "" {
		filter.Filters["platform_short"] = platform
	}

	page, err := h.catalogService.SearchProducts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Limit, page.Offset)
}

// GetVariantContext resolves a variant's purchasing context
func (h *CatalogHandler) GetVariantContext(c *gin.Context) {
	variantID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	vctx, err := h.catalogService.GetVariantContext(c.Request.Context(), variantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, vctx)
}

// ListAttributeFields lists field descriptors for a category
func (h *CatalogHandler) ListAttributeFields(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		h.BadRequest(c, "category query parameter is required")
		return
	}

	fields, err := h.catalogService.ListAttributeFields(c.Request.Context(), category)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fields)
}

// CreateAttributeField defines a new attribute field for a category
func (h *CatalogHandler) CreateAttributeField(c *gin.Context) {
	var req catalogapp.CreateAttributeFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	field, err := h.catalogService.CreateAttributeField(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, field)
}

// ValidateAttributes validates attribute values against a category's schema
func (h *CatalogHandler) ValidateAttributes(c *gin.Context) {
	var req catalogapp.ValidateAttributesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.catalogService.ValidateAttributes(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"valid": true})
}
