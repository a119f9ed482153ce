package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/catalog"
	"github.com/resale/backoffice/internal/domain/inventory"
	"github.com/resale/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AdjustRequest represents a cohort adjustment
type AdjustRequest struct {
	Delta     int     `json:"delta" binding:"required"`
	Reason    string  `json:"reason" binding:"required"`
	SetStatus *string `json:"set_status"`
	Notes     string  `json:"notes"`
	// ExpectedVersion, when set, guards against concurrent adjustments of
	// the same cohort.
	ExpectedVersion *int `json:"expected_version"`
}

// UpdateRequest represents a cohort detail edit. Omitted fields stay as they
// are.
type UpdateRequest struct {
	SellerSKU        *string    `json:"seller_sku"`
	ConditionGradeID *uuid.UUID `json:"condition_grade_id"`
}

// ItemResponse represents a cohort in responses
type ItemResponse struct {
	ID                  uuid.UUID       `json:"id"`
	PurchaseOrderLineID uuid.UUID       `json:"purchase_order_line_id"`
	VariantID           uuid.UUID       `json:"variant_id"`
	SellerSKU           string          `json:"seller_sku"`
	Quantity            int             `json:"quantity"`
	AllocatedUnitCost   decimal.Decimal `json:"allocated_unit_cost"`
	ConditionGradeID    uuid.UUID       `json:"condition_grade_id"`
	Status              string          `json:"status"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	Version             int             `json:"version"`
}

// EventResponse represents an adjustment event in audit listings
type EventResponse struct {
	ID             uuid.UUID `json:"id"`
	Reason         string    `json:"reason"`
	QuantityDelta  int       `json:"quantity_delta"`
	QuantityBefore int       `json:"quantity_before"`
	QuantityAfter  int       `json:"quantity_after"`
	StatusBefore   string    `json:"status_before"`
	StatusAfter    string    `json:"status_after"`
	Notes          string    `json:"notes,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// InventoryService handles cohort queries and adjustments
type InventoryService struct {
	itemRepo  inventory.InventoryItemRepository
	eventRepo inventory.InventoryEventRepository
	gradeRepo catalog.ConditionGradeRepository
	txScope   TransactionScope
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	itemRepo inventory.InventoryItemRepository,
	eventRepo inventory.InventoryEventRepository,
	gradeRepo catalog.ConditionGradeRepository,
	txScope TransactionScope,
) *InventoryService {
	return &InventoryService{
		itemRepo:  itemRepo,
		eventRepo: eventRepo,
		gradeRepo: gradeRepo,
		txScope:   txScope,
	}
}

// Get retrieves a cohort by id
func (s *InventoryService) Get(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// List retrieves cohorts with pagination
func (s *InventoryService) List(ctx context.Context, filter shared.Filter) (*shared.Page[ItemResponse], error) {
	items, err := s.itemRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.itemRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, *toItemResponse(item))
	}
	page := shared.NewPage(out, total, filter.Limit, filter.Offset)
	return &page, nil
}

// Adjust applies a quantity/status adjustment to a cohort. The mutation and
// its audit event persist in one transaction; a stale ExpectedVersion or a
// concurrent save conflict rolls both back.
func (s *InventoryService) Adjust(ctx context.Context, itemID uuid.UUID, req AdjustRequest) (*ItemResponse, error) {
	var resp *ItemResponse

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		if req.ExpectedVersion != nil && *req.ExpectedVersion != item.GetVersion() {
			return shared.ErrConcurrencyConflict
		}

		var setStatus *inventory.ItemStatus
		if req.SetStatus != nil {
			st := inventory.ItemStatus(*req.SetStatus)
			setStatus = &st
		}

		event, err := item.Adjust(inventory.AdjustParams{
			Delta:               req.Delta,
			Reason:              inventory.AdjustReason(req.Reason),
			SetStatus:           setStatus,
			Notes:               req.Notes,
			AutoArchiveWhenZero: true,
		})
		if err != nil {
			return err
		}

		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}
		if err := repos.EventRepo().Create(ctx, event); err != nil {
			return err
		}

		resp = toItemResponse(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Update edits a cohort's identifying details. A grade reassignment must
// reference an existing condition grade; a SKU change must not collide with
// another cohort. An empty request returns the current cohort untouched.
func (s *InventoryService) Update(ctx context.Context, itemID uuid.UUID, req UpdateRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if req.ConditionGradeID != nil && *req.ConditionGradeID != item.ConditionGradeID {
		if _, err := s.gradeRepo.FindByID(ctx, *req.ConditionGradeID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_GRADE",
					fmt.Sprintf("condition grade %s not found", *req.ConditionGradeID))
			}
			return nil, err
		}
	}

	if req.SellerSKU != nil {
		newSKU := strings.TrimSpace(*req.SellerSKU)
		if newSKU != "" && newSKU != item.SellerSKU {
			exists, err := s.itemRepo.SKUExists(ctx, newSKU)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.ErrAlreadyExists
			}
		}
	}

	changed, err := item.UpdateDetails(inventory.UpdateDetailsParams{
		SellerSKU:        req.SellerSKU,
		ConditionGradeID: req.ConditionGradeID,
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return toItemResponse(item), nil
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// ListEvents returns the adjustment history of a cohort
func (s *InventoryService) ListEvents(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]EventResponse, error) {
	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		return nil, err
	}

	events, err := s.eventRepo.FindByItemID(ctx, itemID, filter)
	if err != nil {
		return nil, err
	}

	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, EventResponse{
			ID:             e.ID,
			Reason:         string(e.Reason),
			QuantityDelta:  e.QuantityDelta,
			QuantityBefore: e.QuantityBefore,
			QuantityAfter:  e.QuantityAfter,
			StatusBefore:   string(e.StatusBefore),
			StatusAfter:    string(e.StatusAfter),
			Notes:          e.Notes,
			OccurredAt:     e.OccurredAt,
		})
	}
	return out, nil
}

func toItemResponse(item *inventory.InventoryItem) *ItemResponse {
	return &ItemResponse{
		ID:                  item.ID,
		PurchaseOrderLineID: item.PurchaseOrderLineID,
		VariantID:           item.VariantID,
		SellerSKU:           item.SellerSKU,
		Quantity:            item.Quantity,
		AllocatedUnitCost:   item.AllocatedUnitCost,
		ConditionGradeID:    item.ConditionGradeID,
		Status:              string(item.Status),
		CreatedAt:           item.CreatedAt,
		UpdatedAt:           item.UpdatedAt,
		Version:             item.GetVersion(),
	}
}
