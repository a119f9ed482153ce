package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/shared"
)

// SourceRepository provides access to acquisition sources
type SourceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Source, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*Source, error)
	FindAll(ctx context.Context) ([]Source, error)
	Save(ctx context.Context, source *Source) error
}

// VariantRepository resolves listing variants to their purchasing context
type VariantRepository interface {
	// GetVariantContext returns the display/identity context for a variant.
	// Returns shared.ErrNotFound when the variant does not exist.
	GetVariantContext(ctx context.Context, variantID uuid.UUID) (*VariantContext, error)
}

// ConditionGradeRepository provides access to condition grades
type ConditionGradeRepository interface {
	// FindByCode returns the grade with the given code.
	// The UNKNOWN sentinel grade must exist; callers treat its absence as a
	// fatal configuration error.
	FindByCode(ctx context.Context, code string) (*ConditionGrade, error)
	// FindByID returns the grade with the given id, or shared.ErrNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*ConditionGrade, error)
}

// ProductRepository provides catalog product queries
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CatalogProduct, error)
	Search(ctx context.Context, filter shared.Filter) ([]CatalogProduct, int64, error)
}
