package purchase

import (
	"time"

	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/purchase"
	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	SourceID            uuid.UUID        `json:"source_id" binding:"required"`
	DatePurchased       *time.Time       `json:"date_purchased"`
	PaymentMethod       string           `json:"payment_method" binding:"max=50"`
	ExternalOrderNumber string           `json:"external_order_number" binding:"max=100"`
	Subtotal            *decimal.Decimal `json:"subtotal"`
	Tax                 *decimal.Decimal `json:"tax"`
	Shipping            *decimal.Decimal `json:"shipping"`
	Fees                *decimal.Decimal `json:"fees"`
	Discounts           *decimal.Decimal `json:"discounts"`
	Notes               string           `json:"notes"`
}

// UpdatePurchaseOrderRequest represents a partial header update
type UpdatePurchaseOrderRequest struct {
	DatePurchased       *time.Time       `json:"date_purchased"`
	PaymentMethod       *string          `json:"payment_method"`
	ExternalOrderNumber *string          `json:"external_order_number"`
	Subtotal            *decimal.Decimal `json:"subtotal"`
	Tax                 *decimal.Decimal `json:"tax"`
	Shipping            *decimal.Decimal `json:"shipping"`
	Fees                *decimal.Decimal `json:"fees"`
	Discounts           *decimal.Decimal `json:"discounts"`
	Notes               *string          `json:"notes"`
}

// AddLineRequest represents a request to add a line to a purchase order
type AddLineRequest struct {
	VariantID        uuid.UUID        `json:"variant_id" binding:"required"`
	CatalogProductID uuid.UUID        `json:"catalog_product_id" binding:"required"`
	QuantityExpected int              `json:"quantity_expected" binding:"min=0"`
	AllocationBasis  *decimal.Decimal `json:"allocation_basis"`
	BasisSource      string           `json:"basis_source"`
	CostMethod       string           `json:"cost_assignment_method" binding:"required"`
	ManualUnitCost   *decimal.Decimal `json:"manual_unit_cost"`
	Notes            string           `json:"notes"`
}

// UpdateLineRequest represents a partial line update
type UpdateLineRequest struct {
	QuantityExpected *int             `json:"quantity_expected"`
	AllocationBasis  *decimal.Decimal `json:"allocation_basis"`
	BasisSource      *string          `json:"basis_source"`
	CostMethod       *string          `json:"cost_assignment_method"`
	ManualUnitCost   *decimal.Decimal `json:"manual_unit_cost"`
	Notes            *string          `json:"notes"`
}

// LineResponse represents a purchase order line in responses
type LineResponse struct {
	ID                uuid.UUID        `json:"id"`
	LineNumber        int              `json:"line_number"`
	VariantID         uuid.UUID        `json:"variant_id"`
	CatalogProductID  uuid.UUID        `json:"catalog_product_id"`
	QuantityExpected  int              `json:"quantity_expected"`
	QuantityReceived  int              `json:"quantity_received"`
	QuantityRemaining int              `json:"quantity_remaining"`
	AllocationBasis   decimal.Decimal  `json:"allocation_basis"`
	BasisSource       string           `json:"basis_source"`
	CostMethod        string           `json:"cost_assignment_method"`
	AllocatedUnitCost *decimal.Decimal `json:"allocated_unit_cost,omitempty"`
	ReceiveStatus     string           `json:"receive_status"`
	Notes             string           `json:"notes,omitempty"`
	Version           int              `json:"version"`
}

// PurchaseOrderResponse represents a purchase order in detail responses
type PurchaseOrderResponse struct {
	ID                  uuid.UUID       `json:"id"`
	PONumber            string          `json:"po_number"`
	SourceID            uuid.UUID       `json:"source_id"`
	SourceCode          string          `json:"source_code"`
	DatePurchased       *time.Time      `json:"date_purchased,omitempty"`
	PaymentMethod       string          `json:"payment_method,omitempty"`
	ExternalOrderNumber string          `json:"external_order_number,omitempty"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	Tax                 decimal.Decimal `json:"tax"`
	Shipping            decimal.Decimal `json:"shipping"`
	Fees                decimal.Decimal `json:"fees"`
	Discounts           decimal.Decimal `json:"discounts"`
	TotalCost           decimal.Decimal `json:"total_cost"`
	Status              string          `json:"status"`
	IsLocked            bool            `json:"is_locked"`
	LockedAt            *time.Time      `json:"locked_at,omitempty"`
	Notes               string          `json:"notes,omitempty"`
	ReceivedPct         decimal.Decimal `json:"received_pct"`
	Lines               []LineResponse  `json:"lines"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	Version             int             `json:"version"`
}

// PurchaseOrderListItemResponse represents an order in list responses
type PurchaseOrderListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	PONumber      string          `json:"po_number"`
	SourceCode    string          `json:"source_code"`
	DatePurchased *time.Time      `json:"date_purchased,omitempty"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Status        string          `json:"status"`
	IsLocked      bool            `json:"is_locked"`
	LineCount     int             `json:"line_count"`
	ReceivedPct   decimal.Decimal `json:"received_pct"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toLineResponse(line *purchase.PurchaseOrderLine) LineResponse {
	return LineResponse{
		ID:                line.ID,
		LineNumber:        line.LineNumber,
		VariantID:         line.VariantID,
		CatalogProductID:  line.CatalogProductID,
		QuantityExpected:  line.QuantityExpected,
		QuantityReceived:  line.QuantityReceived,
		QuantityRemaining: line.Remaining(),
		AllocationBasis:   line.AllocationBasis,
		BasisSource:       line.BasisSource,
		CostMethod:        string(line.CostMethod),
		AllocatedUnitCost: line.AllocatedUnitCost,
		ReceiveStatus:     string(line.ReceiveStatus),
		Notes:             line.Notes,
		Version:           line.Version,
	}
}

func toPurchaseOrderResponse(order *purchase.PurchaseOrder) *PurchaseOrderResponse {
	lines := make([]LineResponse, 0, len(order.Lines))
	for i := range order.Lines {
		lines = append(lines, toLineResponse(&order.Lines[i]))
	}
	return &PurchaseOrderResponse{
		ID:                  order.ID,
		PONumber:            order.PONumber,
		SourceID:            order.SourceID,
		SourceCode:          order.SourceCode,
		DatePurchased:       order.DatePurchased,
		PaymentMethod:       order.PaymentMethod,
		ExternalOrderNumber: order.ExternalOrderNumber,
		Subtotal:            order.Subtotal,
		Tax:                 order.Tax,
		Shipping:            order.Shipping,
		Fees:                order.Fees,
		Discounts:           order.Discounts,
		TotalCost:           order.TotalCost(),
		Status:              string(order.Status),
		IsLocked:            order.IsLocked,
		LockedAt:            order.LockedAt,
		Notes:               order.Notes,
		ReceivedPct:         order.ReceivedPct(),
		Lines:               lines,
		CreatedAt:           order.CreatedAt,
		UpdatedAt:           order.UpdatedAt,
		Version:             order.GetVersion(),
	}
}

func toListItemResponse(order *purchase.PurchaseOrder) PurchaseOrderListItemResponse {
	return PurchaseOrderListItemResponse{
		ID:            order.ID,
		PONumber:      order.PONumber,
		SourceCode:    order.SourceCode,
		DatePurchased: order.DatePurchased,
		TotalCost:     order.TotalCost(),
		Status:        string(order.Status),
		IsLocked:      order.IsLocked,
		LineCount:     len(order.Lines),
		ReceivedPct:   order.ReceivedPct(),
		CreatedAt:     order.CreatedAt,
	}
}
