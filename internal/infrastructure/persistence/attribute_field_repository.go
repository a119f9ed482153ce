package persistence

import (
	"context"
	"errors"

	"github.com/resale/backoffice/internal/domain/attributes"
	"github.com/resale/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAttributeFieldRepository implements AttributeFieldRepository using GORM
type GormAttributeFieldRepository struct {
	db *gorm.DB
}

// NewGormAttributeFieldRepository creates a new GormAttributeFieldRepository
func NewGormAttributeFieldRepository(db *gorm.DB) *GormAttributeFieldRepository {
	return &GormAttributeFieldRepository{db: db}
}

// FindByCategory lists attribute field descriptors for a category in display order
func (r *GormAttributeFieldRepository) FindByCategory(ctx context.Context, categoryName string) ([]*attributes.AttributeField, error) {
	var fields []*attributes.AttributeField
	if err := r.db.WithContext(ctx).
		Where("category_name = ?", categoryName).
		Order("sort_order ASC, key ASC").
		Find(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

// Create inserts an attribute field descriptor. A (category, key)
// uniqueness violation maps to shared.ErrAlreadyExists.
func (r *GormAttributeFieldRepository) Create(ctx context.Context, field *attributes.AttributeField) error {
	if err := r.db.WithContext(ctx).Create(field).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete removes an attribute field descriptor by category and key
func (r *GormAttributeFieldRepository) Delete(ctx context.Context, categoryName, key string) error {
	result := r.db.WithContext(ctx).
		Where("category_name = ? AND key = ?", categoryName, key).
		Delete(&attributes.AttributeField{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ attributes.AttributeFieldRepository = (*GormAttributeFieldRepository)(nil)
