package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/inventory"
	"github.com/resale/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

// GormInventoryItemRepository implements InventoryItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// FindByID finds an inventory cohort by its ID
func (r *GormInventoryItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindBySKU finds an inventory cohort by its seller SKU
func (r *GormInventoryItemRepository) FindBySKU(ctx context.Context, sellerSKU string) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "seller_sku = ?", sellerSKU).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindAll lists inventory cohorts with filtering and pagination
func (r *GormInventoryItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*inventory.InventoryItem, error) {
	var items []*inventory.InventoryItem

	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.InventoryItem{}), filter)
	query = query.Order(ValidateOrderBy(filter.OrderBy, InventoryItemSortFields, "created_at DESC"))
	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Count counts inventory cohorts matching the filter, ignoring pagination
func (r *GormInventoryItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.InventoryItem{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SKUExists reports whether any cohort already holds the given seller SKU
func (r *GormInventoryItemRepository) SKUExists(ctx context.Context, sellerSKU string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryItem{}).
		Where("seller_sku = ?", sellerSKU).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new inventory cohort. A seller_sku uniqueness violation
// maps to shared.ErrAlreadyExists.
func (r *GormInventoryItemRepository) Create(ctx context.Context, item *inventory.InventoryItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save persists a mutated cohort guarded by its version counter. The
// caller's aggregate already carries the incremented version; the stored
// row must still hold the previous one. A seller_sku uniqueness violation
// maps to shared.ErrAlreadyExists.
func (r *GormInventoryItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	item.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).
		Model(&inventory.InventoryItem{}).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(map[string]interface{}{
			"seller_sku":         item.SellerSKU,
			"condition_grade_id": item.ConditionGradeID,
			"quantity":           item.Quantity,
			"status":             item.Status,
			"version":            item.Version,
			"updated_at":         item.UpdatedAt,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// applyFilter applies search and field filters without pagination
func (r *GormInventoryItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("seller_sku ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "variant_id":
			query = query.Where("variant_id = ?", value)
		case "purchase_order_line_id":
			query = query.Where("purchase_order_line_id = ?", value)
		case "min_quantity":
			query = query.Where("quantity >= ?", value)
		}
	}

	return query
}

// GormInventoryEventRepository implements InventoryEventRepository using GORM
type GormInventoryEventRepository struct {
	db *gorm.DB
}

// NewGormInventoryEventRepository creates a new GormInventoryEventRepository
func NewGormInventoryEventRepository(db *gorm.DB) *GormInventoryEventRepository {
	return &GormInventoryEventRepository{db: db}
}

// Create appends an adjustment event
func (r *GormInventoryEventRepository) Create(ctx context.Context, event *inventory.InventoryEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// FindByItemID lists adjustment events for a cohort, newest first
func (r *GormInventoryEventRepository) FindByItemID(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]*inventory.InventoryEvent, error) {
	var events []*inventory.InventoryEvent

	query := r.db.WithContext(ctx).
		Model(&inventory.InventoryEvent{}).
		Where("inventory_item_id = ?", itemID).
		Order(ValidateOrderBy(filter.OrderBy, EventSortFields, "occurred_at DESC"))
	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

var (
	_ inventory.InventoryItemRepository  = (*GormInventoryItemRepository)(nil)
	_ inventory.InventoryEventRepository = (*GormInventoryEventRepository)(nil)
)
