package purchase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/catalog"
	"github.com/resale/backoffice/internal/domain/purchase"
	"github.com/resale/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	orderRepo   purchase.PurchaseOrderRepository
	sourceRepo  catalog.SourceRepository
	variantRepo catalog.VariantRepository
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo purchase.PurchaseOrderRepository,
	sourceRepo catalog.SourceRepository,
	variantRepo catalog.VariantRepository,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:   orderRepo,
		sourceRepo:  sourceRepo,
		variantRepo: variantRepo,
	}
}

// Create creates a new purchase order, allocating its number from the
// source's sequence. A concurrent creator can win the number race; the
// allocation is retried once before the conflict surfaces to the caller.
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	source, err := s.sourceRepo.FindByID(ctx, req.SourceID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_SOURCE", "Source not found")
		}
		return nil, err
	}

	amounts := purchase.HeaderAmounts{
		Subtotal:  valueOrZero(req.Subtotal),
		Tax:       valueOrZero(req.Tax),
		Shipping:  valueOrZero(req.Shipping),
		Fees:      valueOrZero(req.Fees),
		Discounts: valueOrZero(req.Discounts),
	}

	var order *purchase.PurchaseOrder
	for attempt := 0; attempt < 2; attempt++ {
		seq, err := s.orderRepo.NextSequence(ctx, source.ID, source.Code)
		if err != nil {
			return nil, err
		}

		order, err = purchase.NewPurchaseOrder(source, purchase.FormatPONumber(source.Code, seq), amounts)
		if err != nil {
			return nil, err
		}
		order.DatePurchased = req.DatePurchased
		order.PaymentMethod = req.PaymentMethod
		order.ExternalOrderNumber = req.ExternalOrderNumber
		order.Notes = req.Notes

		err = s.orderRepo.Create(ctx, order)
		if err == nil {
			return toPurchaseOrderResponse(order), nil
		}
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return nil, err
		}
	}

	return nil, shared.NewDomainError("PO_NUMBER_CONFLICT", "Could not allocate a unique PO number, please retry")
}

// Get retrieves a purchase order with its lines
func (s *PurchaseOrderService) Get(ctx context.Context, id uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(order), nil
}

// List retrieves purchase orders with pagination
func (s *PurchaseOrderService) List(ctx context.Context, filter shared.Filter) (*shared.Page[PurchaseOrderListItemResponse], error) {
	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]PurchaseOrderListItemResponse, 0, len(orders))
	for i := range orders {
		items = append(items, toListItemResponse(&orders[i]))
	}
	page := shared.NewPage(items, total, filter.Limit, filter.Offset)
	return &page, nil
}

// UpdateHeader applies a partial header update to an unlocked order
func (s *PurchaseOrderService) UpdateHeader(ctx context.Context, id uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update := purchase.HeaderUpdate{
		DatePurchased:       req.DatePurchased,
		PaymentMethod:       req.PaymentMethod,
		ExternalOrderNumber: req.ExternalOrderNumber,
		Subtotal:            req.Subtotal,
		Tax:                 req.Tax,
		Shipping:            req.Shipping,
		Fees:                req.Fees,
		Discounts:           req.Discounts,
		Notes:               req.Notes,
	}
	if err := order.UpdateHeader(update); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(order), nil
}

// AddLine adds a line to an unlocked order. The variant context is resolved
// server-side and must agree with the caller's catalog product id.
func (s *PurchaseOrderService) AddLine(ctx context.Context, orderID uuid.UUID, req AddLineRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	vctx, err := s.variantRepo.GetVariantContext(ctx, req.VariantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_VARIANT", "Variant not found")
		}
		return nil, err
	}

	basis := valueOrZero(req.AllocationBasis)
	basisSource := req.BasisSource
	// A missing basis falls back to the variant's current market value.
	if req.AllocationBasis == nil && vctx.CurrentMarketValue != nil {
		basis = *vctx.CurrentMarketValue
		basisSource = "market"
	}

	_, err = order.AddLine(*vctx, purchase.NewLineParams{
		CatalogProductID:  req.CatalogProductID,
		QuantityExpected:  req.QuantityExpected,
		AllocationBasis:   basis,
		BasisSource:       basisSource,
		CostMethod:        purchase.CostAssignmentMethod(req.CostMethod),
		AllocatedUnitCost: req.ManualUnitCost,
		Notes:             req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(order), nil
}

// UpdateLine applies a partial line update on an unlocked order
func (s *PurchaseOrderService) UpdateLine(ctx context.Context, orderID, lineID uuid.UUID, req UpdateLineRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var costMethod *purchase.CostAssignmentMethod
	if req.CostMethod != nil {
		m := purchase.CostAssignmentMethod(*req.CostMethod)
		costMethod = &m
	}

	err = order.UpdateLine(lineID, purchase.LineUpdate{
		QuantityExpected:  req.QuantityExpected,
		AllocationBasis:   req.AllocationBasis,
		BasisSource:       req.BasisSource,
		CostMethod:        costMethod,
		AllocatedUnitCost: req.ManualUnitCost,
		Notes:             req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(order), nil
}

// RemoveLine deletes a line from an unlocked order
func (s *PurchaseOrderService) RemoveLine(ctx context.Context, orderID, lineID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.RemoveLine(lineID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(order), nil
}

// Lock locks the order and runs cost allocation over its lines. The lock
// and the allocated unit costs persist together; receiving opens only on
// locked orders.
func (s *PurchaseOrderService) Lock(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Lock(); err != nil {
		return nil, err
	}

	result, err := purchase.Allocate(order)
	if err != nil {
		return nil, err
	}
	order.ApplyAllocation(result)

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(order), nil
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
