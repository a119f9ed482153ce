package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/shared"
)

// InventoryItemRepository defines persistence operations for inventory cohorts
type InventoryItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)
	FindBySKU(ctx context.Context, sellerSKU string) (*InventoryItem, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*InventoryItem, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// SKUExists reports whether any cohort already holds the given seller SKU.
	SKUExists(ctx context.Context, sellerSKU string) (bool, error)
	Create(ctx context.Context, item *InventoryItem) error
	// Save persists a mutated cohort guarded by its version counter and
	// returns shared.ErrConcurrencyConflict when the stored version moved.
	Save(ctx context.Context, item *InventoryItem) error
}

// InventoryEventRepository defines persistence operations for adjustment events
type InventoryEventRepository interface {
	Create(ctx context.Context, event *InventoryEvent) error
	FindByItemID(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]*InventoryEvent, error)
}
