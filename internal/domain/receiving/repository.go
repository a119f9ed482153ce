package receiving

import (
	"context"

	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/shared"
)

// ReceivingEventRepository defines persistence for the receiving audit trail
type ReceivingEventRepository interface {
	Create(ctx context.Context, event *ReceivingEvent) error
	FindByOrderID(ctx context.Context, orderID uuid.UUID, filter shared.Filter) ([]*ReceivingEvent, error)
	FindByLineID(ctx context.Context, lineID uuid.UUID, filter shared.Filter) ([]*ReceivingEvent, error)
}
