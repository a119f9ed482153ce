package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/attributes"
	"github.com/resale/backoffice/internal/domain/catalog"
	"github.com/resale/backoffice/internal/domain/shared"
)

// SourceResponse represents an acquisition source
type SourceResponse struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	IsActive bool      `json:"is_active"`
}

// CreateSourceRequest represents a request to register a source
type CreateSourceRequest struct {
	Code string `json:"code" binding:"required,max=10"`
	Name string `json:"name" binding:"required,max=200"`
}

// ProductResponse represents a catalog product in search results
type ProductResponse struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	CategoryName  string    `json:"category_name"`
	PlatformShort string    `json:"platform_short,omitempty"`
	UPC           string    `json:"upc,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// AttributeFieldResponse represents a field descriptor
type AttributeFieldResponse struct {
	ID           uuid.UUID `json:"id"`
	CategoryName string    `json:"category_name"`
	Key          string    `json:"key"`
	Label        string    `json:"label"`
	DataType     string    `json:"data_type"`
	Required     bool      `json:"required"`
	Options      []string  `json:"options,omitempty"`
	SortOrder    int       `json:"sort_order"`
}

// CreateAttributeFieldRequest represents a request to define an attribute field
type CreateAttributeFieldRequest struct {
	CategoryName string   `json:"category_name" binding:"required,max=100"`
	Key          string   `json:"key" binding:"required,max=100"`
	Label        string   `json:"label" binding:"required,max=200"`
	DataType     string   `json:"data_type" binding:"required"`
	Required     bool     `json:"required"`
	Options      []string `json:"options"`
}

// ValidateAttributesRequest carries attribute values to validate
type ValidateAttributesRequest struct {
	CategoryName string            `json:"category_name" binding:"required"`
	Values       map[string]string `json:"values" binding:"required"`
}

// CatalogService handles sources, product search, and attribute schemas
type CatalogService struct {
	sourceRepo  catalog.SourceRepository
	productRepo catalog.ProductRepository
	variantRepo catalog.VariantRepository
	fieldRepo   attributes.AttributeFieldRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	sourceRepo catalog.SourceRepository,
	productRepo catalog.ProductRepository,
	variantRepo catalog.VariantRepository,
	fieldRepo attributes.AttributeFieldRepository,
) *CatalogService {
	return &CatalogService{
		sourceRepo:  sourceRepo,
		productRepo: productRepo,
		variantRepo: variantRepo,
		fieldRepo:   fieldRepo,
	}
}

// ListSources returns all registered sources
func (s *CatalogService) ListSources(ctx context.Context) ([]SourceResponse, error) {
	sources, err := s.sourceRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SourceResponse, 0, len(sources))
	for i := range sources {
		out = append(out, SourceResponse{
			ID:       sources[i].ID,
			Code:     sources[i].Code,
			Name:     sources[i].Name,
			IsActive: sources[i].IsActive,
		})
	}
	return out, nil
}

// CreateSource registers a new acquisition source
func (s *CatalogService) CreateSource(ctx context.Context, req CreateSourceRequest) (*SourceResponse, error) {
	source, err := catalog.NewSource(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.sourceRepo.Save(ctx, source); err != nil {
		return nil, err
	}
	return &SourceResponse{
		ID:       source.ID,
		Code:     source.Code,
		Name:     source.Name,
		IsActive: source.IsActive,
	}, nil
}

// SearchProducts searches the catalog with pagination
func (s *CatalogService) SearchProducts(ctx context.Context, filter shared.Filter) (*shared.Page[ProductResponse], error) {
	products, total, err := s.productRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, ProductResponse{
			ID:            products[i].ID,
			Title:         products[i].Title,
			CategoryName:  products[i].CategoryName,
			PlatformShort: products[i].PlatformShort,
			UPC:           products[i].UPC,
			CreatedAt:     products[i].CreatedAt,
		})
	}
	page := shared.NewPage(out, total, filter.Limit, filter.Offset)
	return &page, nil
}

// GetVariantContext resolves a variant's purchasing context
func (s *CatalogService) GetVariantContext(ctx context.Context, variantID uuid.UUID) (*catalog.VariantContext, error) {
	return s.variantRepo.GetVariantContext(ctx, variantID)
}

// ListAttributeFields returns the attribute schema of a category
func (s *CatalogService) ListAttributeFields(ctx context.Context, categoryName string) ([]AttributeFieldResponse, error) {
	fields, err := s.fieldRepo.FindByCategory(ctx, categoryName)
	if err != nil {
		return nil, err
	}
	out := make([]AttributeFieldResponse, 0, len(fields))
	for _, f := range fields {
		out = append(out, toFieldResponse(f))
	}
	return out, nil
}

// CreateAttributeField defines a new attribute field for a category
func (s *CatalogService) CreateAttributeField(ctx context.Context, req CreateAttributeFieldRequest) (*AttributeFieldResponse, error) {
	field, err := attributes.NewAttributeField(
		req.CategoryName, req.Key, req.Label,
		attributes.DataType(req.DataType), req.Required, req.Options,
	)
	if err != nil {
		return nil, err
	}
	if err := s.fieldRepo.Create(ctx, field); err != nil {
		return nil, err
	}
	resp := toFieldResponse(field)
	return &resp, nil
}

// ValidateAttributes checks a value map against a category's schema
func (s *CatalogService) ValidateAttributes(ctx context.Context, req ValidateAttributesRequest) error {
	fields, err := s.fieldRepo.FindByCategory(ctx, req.CategoryName)
	if err != nil {
		return err
	}
	return attributes.ValidateSet(fields, req.Values)
}

func toFieldResponse(f *attributes.AttributeField) AttributeFieldResponse {
	return AttributeFieldResponse{
		ID:           f.ID,
		CategoryName: f.CategoryName,
		Key:          f.Key,
		Label:        f.Label,
		DataType:     string(f.DataType),
		Required:     f.Required,
		Options:      f.Options,
		SortOrder:    f.SortOrder,
	}
}
