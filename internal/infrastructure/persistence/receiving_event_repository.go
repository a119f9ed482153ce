package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/receiving"
	"github.com/resale/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

// GormReceivingEventRepository implements ReceivingEventRepository using GORM
type GormReceivingEventRepository struct {
	db *gorm.DB
}

// NewGormReceivingEventRepository creates a new GormReceivingEventRepository
func NewGormReceivingEventRepository(db *gorm.DB) *GormReceivingEventRepository {
	return &GormReceivingEventRepository{db: db}
}

// Create appends a receiving event
func (r *GormReceivingEventRepository) Create(ctx context.Context, event *receiving.ReceivingEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// FindByOrderID lists receiving events for a purchase order
func (r *GormReceivingEventRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID, filter shared.Filter) ([]*receiving.ReceivingEvent, error) {
	return r.find(ctx, "purchase_order_id = ?", orderID, filter)
}

// FindByLineID lists receiving events for a purchase order line
func (r *GormReceivingEventRepository) FindByLineID(ctx context.Context, lineID uuid.UUID, filter shared.Filter) ([]*receiving.ReceivingEvent, error) {
	return r.find(ctx, "purchase_order_line_id = ?", lineID, filter)
}

func (r *GormReceivingEventRepository) find(ctx context.Context, cond string, id uuid.UUID, filter shared.Filter) ([]*receiving.ReceivingEvent, error) {
	var events []*receiving.ReceivingEvent

	query := r.db.WithContext(ctx).
		Model(&receiving.ReceivingEvent{}).
		Where(cond, id)

	if eventType, ok := filter.Filters["event_type"]; ok {
		query = query.Where("event_type = ?", eventType)
	}

	query = query.Order(ValidateOrderBy(filter.OrderBy, EventSortFields, "occurred_at DESC"))
	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

var _ receiving.ReceivingEventRepository = (*GormReceivingEventRepository)(nil)
