package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemStatus represents the lifecycle status of an inventory cohort
type ItemStatus string

const (
	ItemStatusPending  ItemStatus = "Pending"
	ItemStatusActive   ItemStatus = "Active"
	ItemStatusDamaged  ItemStatus = "Damaged"
	ItemStatusArchived ItemStatus = "Archived"
)

// IsValid checks if the status is a valid ItemStatus
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusPending, ItemStatusActive, ItemStatusDamaged, ItemStatusArchived:
		return true
	}
	return false
}

// AdjustReason is the fixed enumerated set of adjustment reasons
type AdjustReason string

const (
	AdjustReasonCycleCount AdjustReason = "cycle_count"
	AdjustReasonDamage     AdjustReason = "damage"
	AdjustReasonLoss       AdjustReason = "loss"
	AdjustReasonCorrection AdjustReason = "correction"
	AdjustReasonFound      AdjustReason = "found"
)

// IsValid checks if the reason is one of the allowed values
func (r AdjustReason) IsValid() bool {
	switch r {
	case AdjustReasonCycleCount, AdjustReasonDamage, AdjustReasonLoss,
		AdjustReasonCorrection, AdjustReasonFound:
		return true
	}
	return false
}

// InventoryItem represents an inventory cohort: a batch of identical-condition,
// identically-priced units received together. Cohorts are created exclusively
// by the receiving commit engine; quantity and status mutate afterwards only
// through Adjust, each mutation paired with an InventoryEvent. Identifying
// details (SKU, grade) are edited through UpdateDetails.
type InventoryItem struct {
	shared.BaseAggregateRoot
	PurchaseOrderLineID uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	SellerSKU           string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Quantity            int             `gorm:"not null"`
	AllocatedUnitCost   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ConditionGradeID    uuid.UUID       `gorm:"type:uuid;not null"`
	Status              ItemStatus      `gorm:"type:varchar(20);not null;default:'Pending'"`
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewCohortParams carries the receiving-side inputs for a new cohort
type NewCohortParams struct {
	PurchaseOrderLineID uuid.UUID
	VariantID           uuid.UUID
	SellerSKU           string
	Quantity            int
	AllocatedUnitCost   decimal.Decimal
	ConditionGradeID    uuid.UUID
	Damaged             bool
}

// NewCohort creates an inventory cohort at receipt time.
// Damaged receipts start in Damaged status, everything else in Pending.
func NewCohort(params NewCohortParams) (*InventoryItem, error) {
	if params.SellerSKU == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "seller_sku cannot be empty")
	}
	if params.Quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Cohort quantity must be positive")
	}
	if params.ConditionGradeID == uuid.Nil {
		return nil, shared.ErrConfiguration
	}

	status := ItemStatusPending
	if params.Damaged {
		status = ItemStatusDamaged
	}

	return &InventoryItem{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		PurchaseOrderLineID: params.PurchaseOrderLineID,
		VariantID:           params.VariantID,
		SellerSKU:           params.SellerSKU,
		Quantity:            params.Quantity,
		AllocatedUnitCost:   params.AllocatedUnitCost,
		ConditionGradeID:    params.ConditionGradeID,
		Status:              status,
	}, nil
}

// UpdateDetailsParams carries the optional detail fields of a cohort edit.
// Nil fields are left untouched.
type UpdateDetailsParams struct {
	SellerSKU        *string
	ConditionGradeID *uuid.UUID
}

// UpdateDetails rewrites the cohort's identifying details. Grade existence is
// the caller's responsibility. Returns false when nothing changed.
func (i *InventoryItem) UpdateDetails(params UpdateDetailsParams) (bool, error) {
	newSKU := i.SellerSKU
	if params.SellerSKU != nil {
		newSKU = strings.TrimSpace(*params.SellerSKU)
		if newSKU == "" {
			return false, shared.NewDomainError("INVALID_SKU", "seller_sku cannot be empty")
		}
	}
	newGrade := i.ConditionGradeID
	if params.ConditionGradeID != nil {
		if *params.ConditionGradeID == uuid.Nil {
			return false, shared.NewDomainError("INVALID_GRADE", "condition_grade_id cannot be empty")
		}
		newGrade = *params.ConditionGradeID
	}

	if newSKU == i.SellerSKU && newGrade == i.ConditionGradeID {
		return false, nil
	}

	i.SellerSKU = newSKU
	i.ConditionGradeID = newGrade
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return true, nil
}

// AdjustParams carries the inputs for a post-receipt adjustment
type AdjustParams struct {
	Delta               int
	Reason              AdjustReason
	SetStatus           *ItemStatus
	Notes               string
	AutoArchiveWhenZero bool
}

// Adjust applies a quantity delta and resolves the resulting status:
// an explicit SetStatus wins; else quantity zero auto-archives when enabled;
// else the status is unchanged. Returns the event capturing before/after.
func (i *InventoryItem) Adjust(params AdjustParams) (*InventoryEvent, error) {
	if !params.Reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON",
			fmt.Sprintf("Invalid reason '%s'", params.Reason))
	}
	if params.SetStatus != nil && !params.SetStatus.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Invalid status '%s'", *params.SetStatus))
	}

	qtyBefore := i.Quantity
	statusBefore := i.Status

	qtyAfter := qtyBefore + params.Delta
	if qtyAfter < 0 {
		return nil, shared.NewDomainError("INSUFFICIENT_QUANTITY", "Insufficient quantity for this adjustment")
	}

	statusAfter := statusBefore
	switch {
	case params.SetStatus != nil:
		statusAfter = *params.SetStatus
	case params.AutoArchiveWhenZero && qtyAfter == 0:
		statusAfter = ItemStatusArchived
	}

	i.Quantity = qtyAfter
	i.Status = statusAfter
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return NewInventoryEvent(i.ID, params.Reason, params.Delta,
		qtyBefore, qtyAfter, statusBefore, statusAfter, params.Notes), nil
}
