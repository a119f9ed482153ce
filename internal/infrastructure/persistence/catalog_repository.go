package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/catalog"
	"github.com/resale/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSourceRepository implements SourceRepository using GORM
type GormSourceRepository struct {
	db *gorm.DB
}

// NewGormSourceRepository creates a new GormSourceRepository
func NewGormSourceRepository(db *gorm.DB) *GormSourceRepository {
	return &GormSourceRepository{db: db}
}

// FindByID finds a source by its ID
func (r *GormSourceRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Source, error) {
	var source catalog.Source
	if err := r.db.WithContext(ctx).First(&source, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &source, nil
}

// FindActiveByID finds a source by ID, treating inactive sources as absent
func (r *GormSourceRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*catalog.Source, error) {
	var source catalog.Source
	if err := r.db.WithContext(ctx).
		First(&source, "id = ? AND is_active = ?", id, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &source, nil
}

// FindAll lists all sources ordered by code
func (r *GormSourceRepository) FindAll(ctx context.Context) ([]catalog.Source, error) {
	var sources []catalog.Source
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&sources).Error; err != nil {
		return nil, err
	}
	return sources, nil
}

// Save creates or updates a source. A code uniqueness violation maps to
// shared.ErrAlreadyExists.
func (r *GormSourceRepository) Save(ctx context.Context, source *catalog.Source) error {
	if err := r.db.WithContext(ctx).Save(source).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GormVariantRepository implements VariantRepository using GORM
type GormVariantRepository struct {
	db *gorm.DB
}

// NewGormVariantRepository creates a new GormVariantRepository
func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// GetVariantContext resolves a variant and its product into the purchasing
// read model
func (r *GormVariantRepository) GetVariantContext(ctx context.Context, variantID uuid.UUID) (*catalog.VariantContext, error) {
	var variant catalog.Variant
	if err := r.db.WithContext(ctx).
		First(&variant, "id = ? AND is_active = ?", variantID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	var product catalog.CatalogProduct
	if err := r.db.WithContext(ctx).
		First(&product, "id = ?", variant.CatalogProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	return variant.Context(&product), nil
}

// GormConditionGradeRepository implements ConditionGradeRepository using GORM
type GormConditionGradeRepository struct {
	db *gorm.DB
}

// NewGormConditionGradeRepository creates a new GormConditionGradeRepository
func NewGormConditionGradeRepository(db *gorm.DB) *GormConditionGradeRepository {
	return &GormConditionGradeRepository{db: db}
}

// FindByCode finds a condition grade by its code
func (r *GormConditionGradeRepository) FindByCode(ctx context.Context, code string) (*catalog.ConditionGrade, error) {
	var grade catalog.ConditionGrade
	if err := r.db.WithContext(ctx).First(&grade, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &grade, nil
}

// FindByID finds a condition grade by its id
func (r *GormConditionGradeRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ConditionGrade, error) {
	var grade catalog.ConditionGrade
	if err := r.db.WithContext(ctx).First(&grade, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &grade, nil
}

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a catalog product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.CatalogProduct, error) {
	var product catalog.CatalogProduct
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Search lists catalog products matching the filter with a total count
func (r *GormProductRepository) Search(ctx context.Context, filter shared.Filter) ([]catalog.CatalogProduct, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.CatalogProduct{})

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR upc ILIKE ?", searchPattern, searchPattern)
	}
	if category, ok := filter.Filters["category_name"]; ok {
		query = query.Where("category_name = ?", category)
	}
	if platform, ok := filter.Filters["platform_short"]; ok {
		query = query.Where("platform_short = ?", platform)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(ValidateOrderBy(filter.OrderBy, CatalogProductSortFields, "title ASC"))
	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	var products []catalog.CatalogProduct
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

var (
	_ catalog.SourceRepository         = (*GormSourceRepository)(nil)
	_ catalog.VariantRepository        = (*GormVariantRepository)(nil)
	_ catalog.ConditionGradeRepository = (*GormConditionGradeRepository)(nil)
	_ catalog.ProductRepository        = (*GormProductRepository)(nil)
)
