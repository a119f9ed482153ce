package receiving

import (
	"time"

	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/shared"
)

// EventType classifies a receiving event
type EventType string

const (
	// EventReceive records units physically received against a line
	EventReceive EventType = "receive"
	// EventDamage records units received in damaged condition
	EventDamage EventType = "damage"
	// EventOverage records units received beyond the line's expectation
	EventOverage EventType = "overage"
	// EventShort records units declared as never arriving
	EventShort EventType = "short"
)

// ReceivingEvent is an append-only audit record produced by a commit.
// Events are never updated or deleted after creation.
type ReceivingEvent struct {
	shared.BaseEntity
	PurchaseOrderID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	PurchaseOrderLineID uuid.UUID  `gorm:"type:uuid;not null;index"`
	InventoryItemID     *uuid.UUID `gorm:"type:uuid"`
	EventType           EventType  `gorm:"type:varchar(20);not null"`
	Quantity            int        `gorm:"not null"`
	SellerSKU           string     `gorm:"type:varchar(100)"`
	Notes               string     `gorm:"type:text"`
	OccurredAt          time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReceivingEvent) TableName() string {
	return "receiving_events"
}

// NewReceivingEvent creates an audit event for a commit
func NewReceivingEvent(orderID, lineID uuid.UUID, eventType EventType, quantity int, sellerSKU, notes string) *ReceivingEvent {
	return &ReceivingEvent{
		BaseEntity:          shared.NewBaseEntity(),
		PurchaseOrderID:     orderID,
		PurchaseOrderLineID: lineID,
		EventType:           eventType,
		Quantity:            quantity,
		SellerSKU:           sellerSKU,
		Notes:               notes,
		OccurredAt:          time.Now(),
	}
}
