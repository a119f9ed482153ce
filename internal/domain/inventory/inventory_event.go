package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/shared"
)

// InventoryEvent is an append-only record of a cohort adjustment.
// Events are never updated or deleted after creation.
type InventoryEvent struct {
	shared.BaseEntity
	InventoryItemID uuid.UUID    `gorm:"type:uuid;not null;index"`
	Reason          AdjustReason `gorm:"type:varchar(20);not null"`
	QuantityDelta   int          `gorm:"not null"`
	QuantityBefore  int          `gorm:"not null"`
	QuantityAfter   int          `gorm:"not null"`
	StatusBefore    ItemStatus   `gorm:"type:varchar(20);not null"`
	StatusAfter     ItemStatus   `gorm:"type:varchar(20);not null"`
	Notes           string       `gorm:"type:text"`
	OccurredAt      time.Time    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InventoryEvent) TableName() string {
	return "inventory_events"
}

// NewInventoryEvent creates an adjustment event snapshot
func NewInventoryEvent(itemID uuid.UUID, reason AdjustReason, delta, qtyBefore, qtyAfter int,
	statusBefore, statusAfter ItemStatus, notes string) *InventoryEvent {
	return &InventoryEvent{
		BaseEntity:      shared.NewBaseEntity(),
		InventoryItemID: itemID,
		Reason:          reason,
		QuantityDelta:   delta,
		QuantityBefore:  qtyBefore,
		QuantityAfter:   qtyAfter,
		StatusBefore:    statusBefore,
		StatusAfter:     statusAfter,
		Notes:           notes,
		OccurredAt:      time.Now(),
	}
}
