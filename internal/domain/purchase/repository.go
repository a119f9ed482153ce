package purchase

import (
	"context"

	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/shared"
)

// PurchaseOrderRepository provides access to purchase orders
type PurchaseOrderRepository interface {
	// FindByID loads an order with its lines.
	// Returns shared.ErrNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	// FindByNumber loads an order by its human-readable number
	FindByNumber(ctx context.Context, poNumber string) (*PurchaseOrder, error)
	// FindAll lists orders with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)
	// Count counts orders matching the filter (ignoring pagination)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// NextSequence returns one past the highest numeric tail among existing
	// po_numbers for the source. Callers must be prepared for Create to fail
	// with shared.ErrAlreadyExists when a concurrent caller wins the race.
	NextSequence(ctx context.Context, sourceID uuid.UUID, sourceCode string) (int, error)

	// Create inserts a new order header (no lines yet).
	// Returns shared.ErrAlreadyExists on a po_number uniqueness violation.
	Create(ctx context.Context, order *PurchaseOrder) error

	// Save persists the order and its lines with an aggregate version check;
	// returns shared.ErrConcurrencyConflict when the stored version moved.
	Save(ctx context.Context, order *PurchaseOrder) error

	// UpdateLineReceiveState applies a receiving outcome to a single line
	// guarded by the line's version counter. The stored row is updated only
	// when its version still equals expectedVersion; otherwise
	// shared.ErrConcurrencyConflict is returned and nothing changes.
	UpdateLineReceiveState(ctx context.Context, lineID uuid.UUID, expectedVersion, quantityReceived int, status ReceiveStatus) error

	// UpdateStatus overwrites the order's derived status
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status PurchaseOrderStatus) error
}
