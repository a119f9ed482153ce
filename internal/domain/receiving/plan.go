package receiving

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/inventory"
	"github.com/resale/backoffice/internal/domain/purchase"
	"github.com/resale/backoffice/internal/domain/shared"
)

// ReceiveItem is one line entry in a commit request
type ReceiveItem struct {
	LineID       uuid.UUID
	QtyToReceive int
	SellerSKU    string
	Damaged      bool
	Short        bool
	Notes        string
	// Version is the caller's view of the line's version counter,
	// taken from the staging payload.
	Version int
}

// EventSpec describes a receiving event the commit must append.
// AttachCohort marks events that reference the created cohort.
type EventSpec struct {
	Type         EventType
	Quantity     int
	AttachCohort bool
}

// LinePlan is the computed outcome for one commit entry: the cohort to
// insert, the events to append, and the line mutation to apply. A nil
// plan with a nil error means the entry was skipped (zero quantity).
type LinePlan struct {
	Line            *purchase.PurchaseOrderLine
	SellerSKU       string
	CohortStatus    inventory.ItemStatus
	CreateCohort    bool
	Events          []EventSpec
	NewReceived     int
	NewStatus       purchase.ReceiveStatus
	ExpectedVersion int
}

// BuildLinePlan computes the commit outcome for a single line without
// touching storage. Validation failures abort the whole batch upstream.
func BuildLinePlan(order *purchase.PurchaseOrder, line *purchase.PurchaseOrderLine, item ReceiveItem) (*LinePlan, error) {
	if item.QtyToReceive < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("qty_to_receive cannot be negative for line %d", line.LineNumber))
	}
	if item.QtyToReceive == 0 {
		return nil, nil
	}

	remainingBefore := line.Remaining()
	newReceived := line.QuantityReceived + item.QtyToReceive

	sku := item.SellerSKU
	if sku == "" {
		sku = line.DefaultSellerSKU(order.PONumber)
	}

	plan := &LinePlan{
		Line:            line,
		SellerSKU:       sku,
		NewReceived:     newReceived,
		ExpectedVersion: item.Version,
	}

	plan.CreateCohort = true
	plan.CohortStatus = inventory.ItemStatusPending
	if item.Damaged {
		plan.CohortStatus = inventory.ItemStatusDamaged
	}

	plan.Events = append(plan.Events, EventSpec{Type: EventReceive, Quantity: item.QtyToReceive, AttachCohort: true})
	if item.Damaged {
		plan.Events = append(plan.Events, EventSpec{Type: EventDamage, Quantity: item.QtyToReceive, AttachCohort: true})
	}
	if excess := item.QtyToReceive - remainingBefore; excess > 0 {
		plan.Events = append(plan.Events, EventSpec{Type: EventOverage, Quantity: excess, AttachCohort: true})
	}

	// A short declaration only sticks when the line is still under its
	// expected quantity after this receipt.
	if item.Short && newReceived < line.QuantityExpected {
		plan.Events = append(plan.Events, EventSpec{Type: EventShort, Quantity: line.QuantityExpected - newReceived})
	}

	switch {
	case item.Short && newReceived < line.QuantityExpected:
		plan.NewStatus = purchase.ReceiveStatusShort
	case newReceived >= line.QuantityExpected:
		plan.NewStatus = purchase.ReceiveStatusReceived
	case newReceived > 0:
		plan.NewStatus = purchase.ReceiveStatusPartial
	default:
		plan.NewStatus = purchase.ReceiveStatusPending
	}

	return plan, nil
}
