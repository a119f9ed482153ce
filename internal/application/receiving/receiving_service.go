package receiving

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/catalog"
	"github.com/resale/backoffice/internal/domain/inventory"
	"github.com/resale/backoffice/internal/domain/purchase"
	"github.com/resale/backoffice/internal/domain/receiving"
	"github.com/resale/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReceivingService builds receiving worksheets and executes commit batches.
// A commit batch is all-or-nothing: any validation failure, SKU conflict, or
// stale line version rolls back every line in the batch.
type ReceivingService struct {
	orderRepo purchase.PurchaseOrderRepository
	eventRepo receiving.ReceivingEventRepository
	txScope   TransactionScope
}

// NewReceivingService creates a new ReceivingService
func NewReceivingService(
	orderRepo purchase.PurchaseOrderRepository,
	eventRepo receiving.ReceivingEventRepository,
	txScope TransactionScope,
) *ReceivingService {
	return &ReceivingService{
		orderRepo: orderRepo,
		eventRepo: eventRepo,
		txScope:   txScope,
	}
}

// BuildStaging assembles the receiving worksheet for a locked order.
// Receivable lines only by default; includeNonReceivable adds completed and
// short lines for reference.
func (s *ReceivingService) BuildStaging(ctx context.Context, orderID uuid.UUID, includeNonReceivable bool) (*StagingResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsLocked {
		return nil, shared.NewDomainError("PO_NOT_LOCKED", "PO must be locked before receiving")
	}

	lines := make([]StagingLineResponse, 0, len(order.Lines))
	for i := range order.Lines {
		line := &order.Lines[i]
		if !includeNonReceivable && !line.IsReceivable() {
			continue
		}
		lines = append(lines, StagingLineResponse{
			LineID:            line.ID,
			LineNumber:        line.LineNumber,
			VariantID:         line.VariantID,
			CatalogProductID:  line.CatalogProductID,
			QuantityExpected:  line.QuantityExpected,
			QuantityReceived:  line.QuantityReceived,
			QuantityRemaining: line.Remaining(),
			SKUPreview:        line.SKUPreview(order.PONumber),
			AllocatedUnitCost: line.AllocatedUnitCost,
			ReceiveStatus:     string(line.ReceiveStatus),
			Version:           line.Version,
		})
	}

	return &StagingResponse{
		OrderID:     order.ID,
		PONumber:    order.PONumber,
		Status:      string(order.Status),
		IsLocked:    order.IsLocked,
		ReceivedPct: order.ReceivedPct(),
		Lines:       lines,
	}, nil
}

// Commit executes a receiving batch against a locked order. Per line it
// inserts the inventory cohort, appends audit events, and advances the
// line's received quantity and status guarded by the caller's version
// token. The order status is refreshed from line totals at the end.
func (s *ReceivingService) Commit(ctx context.Context, orderID uuid.UUID, req CommitRequest) (*CommitResponse, error) {
	var resp *CommitResponse

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.IsLocked {
			return shared.NewDomainError("PO_NOT_LOCKED", "PO must be locked before receiving")
		}

		grade, err := repos.GradeRepo().FindByCode(ctx, catalog.ConditionGradeUnknown)
		if err != nil {
			return shared.ErrConfiguration
		}

		results := make([]CommitLineResult, 0, len(req.Items))
		eventsCreated := 0

		for _, item := range req.Items {
			line := order.GetLine(item.LineID)
			if line == nil {
				return shared.NewDomainError("LINE_NOT_FOUND",
					fmt.Sprintf("Line %s does not belong to this PO", item.LineID))
			}

			plan, err := receiving.BuildLinePlan(order, line, toReceiveItem(item))
			if err != nil {
				return err
			}
			if plan == nil {
				results = append(results, CommitLineResult{
					LineID:           line.ID,
					QuantityReceived: line.QuantityReceived,
					ReceiveStatus:    string(line.ReceiveStatus),
					Skipped:          true,
				})
				continue
			}

			result := CommitLineResult{
				LineID:           line.ID,
				QuantityReceived: plan.NewReceived,
				ReceiveStatus:    string(plan.NewStatus),
			}

			var cohortID *uuid.UUID
			if plan.CreateCohort {
				exists, err := repos.InventoryRepo().SKUExists(ctx, plan.SellerSKU)
				if err != nil {
					return err
				}
				if exists {
					return shared.NewDomainError("SKU_CONFLICT",
						fmt.Sprintf("SKU '%s' already exists", plan.SellerSKU))
				}

				cohort, err := inventory.NewCohort(inventory.NewCohortParams{
					PurchaseOrderLineID: line.ID,
					VariantID:           line.VariantID,
					SellerSKU:           plan.SellerSKU,
					Quantity:            item.QtyToReceive,
					AllocatedUnitCost:   allocatedCost(line),
					ConditionGradeID:    grade.ID,
					Damaged:             item.Damaged,
				})
				if err != nil {
					return err
				}
				if err := repos.InventoryRepo().Create(ctx, cohort); err != nil {
					return err
				}
				cohortID = &cohort.ID
				result.InventoryItemID = &cohort.ID
				result.SellerSKU = plan.SellerSKU
			}

			for _, spec := range plan.Events {
				event := receiving.NewReceivingEvent(order.ID, line.ID, spec.Type, spec.Quantity, plan.SellerSKU, item.Notes)
				if spec.AttachCohort {
					event.InventoryItemID = cohortID
				}
				if err := repos.EventRepo().Create(ctx, event); err != nil {
					return err
				}
				eventsCreated++
			}

			err = repos.OrderRepo().UpdateLineReceiveState(ctx, line.ID, plan.ExpectedVersion, plan.NewReceived, plan.NewStatus)
			if err != nil {
				return err
			}
			line.QuantityReceived = plan.NewReceived
			line.ReceiveStatus = plan.NewStatus
			line.Version = plan.ExpectedVersion + 1

			results = append(results, result)
		}

		statusChanged := order.RefreshStatus()
		if statusChanged {
			if err := repos.OrderRepo().UpdateStatus(ctx, order.ID, order.Status); err != nil {
				return err
			}
		}

		resp = &CommitResponse{
			OrderID:       order.ID,
			Results:       results,
			EventsCreated: eventsCreated,
			OrderStatus:   string(order.Status),
			ReceivedPct:   order.ReceivedPct(),
			CommittedAt:   time.Now(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ListEvents returns the audit trail for an order
func (s *ReceivingService) ListEvents(ctx context.Context, orderID uuid.UUID, filter shared.Filter) ([]EventResponse, error) {
	events, err := s.eventRepo.FindByOrderID(ctx, orderID, filter)
	if err != nil {
		return nil, err
	}

	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, EventResponse{
			ID:                  e.ID,
			PurchaseOrderLineID: e.PurchaseOrderLineID,
			InventoryItemID:     e.InventoryItemID,
			EventType:           string(e.EventType),
			Quantity:            e.Quantity,
			SellerSKU:           e.SellerSKU,
			Notes:               e.Notes,
			OccurredAt:          e.OccurredAt,
		})
	}
	return out, nil
}

func toReceiveItem(item CommitItemRequest) receiving.ReceiveItem {
	return receiving.ReceiveItem{
		LineID:       item.LineID,
		QtyToReceive: item.QtyToReceive,
		SellerSKU:    item.SellerSKU,
		Damaged:      item.Damaged,
		Short:        item.Short,
		Notes:        item.Notes,
		Version:      item.Version,
	}
}

func allocatedCost(line *purchase.PurchaseOrderLine) decimal.Decimal {
	if line.AllocatedUnitCost == nil {
		return decimal.Zero
	}
	return *line.AllocatedUnitCost
}
