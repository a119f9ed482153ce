package receiving

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StagingLineResponse is one line of the receiving worksheet
type StagingLineResponse struct {
	LineID            uuid.UUID        `json:"line_id"`
	LineNumber        int              `json:"line_number"`
	VariantID         uuid.UUID        `json:"variant_id"`
	CatalogProductID  uuid.UUID        `json:"catalog_product_id"`
	QuantityExpected  int              `json:"quantity_expected"`
	QuantityReceived  int              `json:"quantity_received"`
	QuantityRemaining int              `json:"quantity_remaining"`
	SKUPreview        string           `json:"sku_preview"`
	AllocatedUnitCost *decimal.Decimal `json:"allocated_unit_cost,omitempty"`
	ReceiveStatus     string           `json:"receive_status"`
	Version           int              `json:"version"`
}

// StagingResponse is the receiving worksheet for a locked purchase order
type StagingResponse struct {
	OrderID     uuid.UUID             `json:"order_id"`
	PONumber    string                `json:"po_number"`
	Status      string                `json:"status"`
	IsLocked    bool                  `json:"is_locked"`
	ReceivedPct decimal.Decimal       `json:"received_pct"`
	Lines       []StagingLineResponse `json:"lines"`
}

// CommitItemRequest is one entry of a commit batch
type CommitItemRequest struct {
	LineID       uuid.UUID `json:"line_id" binding:"required"`
	QtyToReceive int       `json:"qty_to_receive"`
	SellerSKU    string    `json:"seller_sku" binding:"max=100"`
	Damaged      bool      `json:"damaged"`
	Short        bool      `json:"short"`
	Notes        string    `json:"notes"`
	Version      int       `json:"version" binding:"required"`
}

// CommitRequest is a receiving commit batch
type CommitRequest struct {
	Items []CommitItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CommitLineResult reports the outcome for one committed line
type CommitLineResult struct {
	LineID           uuid.UUID  `json:"line_id"`
	InventoryItemID  *uuid.UUID `json:"inventory_item_id,omitempty"`
	SellerSKU        string     `json:"seller_sku,omitempty"`
	QuantityReceived int        `json:"quantity_received"`
	ReceiveStatus    string     `json:"receive_status"`
	Skipped          bool       `json:"skipped"`
}

// CommitResponse reports the outcome of a commit batch
type CommitResponse struct {
	OrderID       uuid.UUID          `json:"order_id"`
	Results       []CommitLineResult `json:"results"`
	EventsCreated int                `json:"events_created"`
	OrderStatus   string             `json:"order_status"`
	ReceivedPct   decimal.Decimal    `json:"received_pct"`
	CommittedAt   time.Time          `json:"committed_at"`
}

// EventResponse is a receiving event in audit listings
type EventResponse struct {
	ID                  uuid.UUID  `json:"id"`
	PurchaseOrderLineID uuid.UUID  `json:"purchase_order_line_id"`
	InventoryItemID     *uuid.UUID `json:"inventory_item_id,omitempty"`
	EventType           string     `json:"event_type"`
	Quantity            int        `json:"quantity"`
	SellerSKU           string     `json:"seller_sku,omitempty"`
	Notes               string     `json:"notes,omitempty"`
	OccurredAt          time.Time  `json:"occurred_at"`
}
