package purchase

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/catalog"
	"github.com/resale/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the derived status of a purchase order.
// It is recomputed from line totals after every receiving commit and is
// never set directly by clients once receiving starts.
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusOpen             PurchaseOrderStatus = "open"
	PurchaseOrderStatusPartialReceived  PurchaseOrderStatus = "partially_received"
	PurchaseOrderStatusReceived         PurchaseOrderStatus = "received"
	PurchaseOrderStatusClosedExceptions PurchaseOrderStatus = "closed_with_exceptions"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusOpen, PurchaseOrderStatusPartialReceived,
		PurchaseOrderStatusReceived, PurchaseOrderStatusClosedExceptions:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// ReceiveStatus tracks per-line receiving progress, distinct from the
// inventory status of the cohorts a line produced.
type ReceiveStatus string

const (
	ReceiveStatusPending  ReceiveStatus = "pending"
	ReceiveStatusPartial  ReceiveStatus = "partial"
	ReceiveStatusReceived ReceiveStatus = "received"
	ReceiveStatusShort    ReceiveStatus = "short"
)

// IsValid checks if the status is a valid ReceiveStatus
func (s ReceiveStatus) IsValid() bool {
	switch s {
	case ReceiveStatusPending, ReceiveStatusPartial, ReceiveStatusReceived, ReceiveStatusShort:
		return true
	}
	return false
}

// CostAssignmentMethod determines how a line acquires its allocated unit cost
type CostAssignmentMethod string

const (
	CostAssignmentManual        CostAssignmentMethod = "manual"
	CostAssignmentByMarketValue CostAssignmentMethod = "by_market_value"
)

// IsValid checks if the method is one of the two allowed values
func (m CostAssignmentMethod) IsValid() bool {
	return m == CostAssignmentManual || m == CostAssignmentByMarketValue
}

// PurchaseOrderLine represents a line item in a purchase order
type PurchaseOrderLine struct {
	ID                uuid.UUID            `gorm:"type:uuid;primary_key"`
	OrderID           uuid.UUID            `gorm:"type:uuid;not null;index"`
	LineNumber        int                  `gorm:"not null"` // sequential within the order, feeds SKU generation
	VariantID         uuid.UUID            `gorm:"type:uuid;not null"`
	CatalogProductID  uuid.UUID            `gorm:"type:uuid;not null"`
	QuantityExpected  int                  `gorm:"not null"`
	QuantityReceived  int                  `gorm:"not null;default:0"`
	AllocationBasis   decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	BasisSource       string               `gorm:"type:varchar(50);not null;default:'other'"`
	CostMethod        CostAssignmentMethod `gorm:"type:varchar(20);not null"`
	AllocatedUnitCost *decimal.Decimal     `gorm:"type:decimal(18,4)"` // nil until locked/allocated for market-value lines
	ReceiveStatus     ReceiveStatus        `gorm:"type:varchar(20);not null;default:'pending'"`
	Notes             string               `gorm:"type:varchar(500)"`
	Version           int                  `gorm:"not null;default:1"` // optimistic-concurrency token echoed through staging/commit
	CreatedAt         time.Time            `gorm:"not null"`
	UpdatedAt         time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderLine) TableName() string {
	return "purchase_order_lines"
}

// NewLineParams carries the caller-supplied fields for a new line
type NewLineParams struct {
	CatalogProductID  uuid.UUID
	QuantityExpected  int
	AllocationBasis   decimal.Decimal
	BasisSource       string
	CostMethod        CostAssignmentMethod
	AllocatedUnitCost *decimal.Decimal
	Notes             string
}

// Remaining returns the outstanding quantity, floored at zero (overage is
// tracked through events, not negative remainders).
func (l *PurchaseOrderLine) Remaining() int {
	remaining := l.QuantityExpected - l.QuantityReceived
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsReceivable returns true if the line still has outstanding quantity
func (l *PurchaseOrderLine) IsReceivable() bool {
	return l.Remaining() > 0
}

// DefaultSellerSKU returns the deterministic SKU used when the receiving
// caller does not supply one: po number plus the zero-padded line number.
func (l *PurchaseOrderLine) DefaultSellerSKU(poNumber string) string {
	return fmt.Sprintf("%s%04d", poNumber, l.LineNumber)
}

// SKUPreview returns the staging-preview rendering of the default SKU.
// The preview uses a visual separator the committed SKU does not.
func (l *PurchaseOrderLine) SKUPreview(poNumber string) string {
	return fmt.Sprintf("%s__%04d", poNumber, l.LineNumber)
}

// PurchaseOrder represents a purchase order aggregate root.
// It owns the lock lifecycle and cost-assignment validation; receiving-side
// mutations of its lines run through the receiving engine, which enforces
// per-line optimistic concurrency on Version.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	PONumber            string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	SourceID            uuid.UUID           `gorm:"type:uuid;not null;index"`
	SourceCode          string              `gorm:"type:varchar(10);not null"`
	DatePurchased       *time.Time          `gorm:"index"`
	PaymentMethod       string              `gorm:"type:varchar(50)"`
	ExternalOrderNumber string              `gorm:"type:varchar(100)"`
	Subtotal            decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Tax                 decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Shipping            decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Fees                decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Discounts           decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Status              PurchaseOrderStatus `gorm:"type:varchar(30);not null;default:'open'"`
	IsLocked            bool                `gorm:"not null;default:false"`
	LockedAt            *time.Time
	Notes               string              `gorm:"type:text"`
	Lines               []PurchaseOrderLine `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// HeaderAmounts carries the monetary header fields of a purchase order
type HeaderAmounts struct {
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Shipping  decimal.Decimal
	Fees      decimal.Decimal
	Discounts decimal.Decimal
}

// Validate checks all monetary fields are non-negative
func (h HeaderAmounts) Validate() error {
	fields := map[string]decimal.Decimal{
		"subtotal":  h.Subtotal,
		"tax":       h.Tax,
		"shipping":  h.Shipping,
		"fees":      h.Fees,
		"discounts": h.Discounts,
	}
	for name, v := range fields {
		if v.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", fmt.Sprintf("Invalid %s: must be >= 0", name))
		}
	}
	return nil
}

// FormatPONumber renders a purchase order number for a source code and
// sequence: the source code followed by the zero-padded sequence.
func FormatPONumber(sourceCode string, seq int) string {
	return fmt.Sprintf("%s%03d", sourceCode, seq)
}

// NewPurchaseOrder creates a new purchase order in the open, unlocked state
func NewPurchaseOrder(source *catalog.Source, poNumber string, amounts HeaderAmounts) (*PurchaseOrder, error) {
	if poNumber == "" {
		return nil, shared.NewDomainError("INVALID_PO_NUMBER", "PO number cannot be empty")
	}
	if source == nil || !source.IsActive {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Source is missing or inactive")
	}
	if err := amounts.Validate(); err != nil {
		return nil, err
	}

	return &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PONumber:          poNumber,
		SourceID:          source.ID,
		SourceCode:        source.Code,
		Subtotal:          amounts.Subtotal,
		Tax:               amounts.Tax,
		Shipping:          amounts.Shipping,
		Fees:              amounts.Fees,
		Discounts:         amounts.Discounts,
		Status:            PurchaseOrderStatusOpen,
		IsLocked:          false,
		Lines:             make([]PurchaseOrderLine, 0),
	}, nil
}

// TotalCost returns subtotal + tax + shipping + fees - discounts
func (o *PurchaseOrder) TotalCost() decimal.Decimal {
	return o.Subtotal.Add(o.Tax).Add(o.Shipping).Add(o.Fees).Sub(o.Discounts)
}

// AddLine adds a new line to the order.
// The variant context must match the caller-supplied catalog product id.
func (o *PurchaseOrder) AddLine(vctx catalog.VariantContext, params NewLineParams) (*PurchaseOrderLine, error) {
	if o.IsLocked {
		return nil, shared.NewDomainError("PO_LOCKED", "PO is locked; cannot add lines")
	}
	if params.CatalogProductID != vctx.CatalogProductID {
		return nil, shared.NewDomainError("PRODUCT_MISMATCH", "catalog_product_id does not match variant")
	}
	if params.QuantityExpected < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "quantity_expected must be >= 0")
	}
	if params.AllocationBasis.IsNegative() {
		return nil, shared.NewDomainError("INVALID_BASIS", "allocation_basis is required (>= 0)")
	}
	if !params.CostMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_COST_METHOD", "Invalid cost_assignment_method")
	}

	basisSource := params.BasisSource
	if basisSource == "" {
		basisSource = "other"
	}

	now := time.Now()
	line := PurchaseOrderLine{
		ID:                uuid.New(),
		OrderID:           o.ID,
		LineNumber:        o.nextLineNumber(),
		VariantID:         vctx.VariantID,
		CatalogProductID:  vctx.CatalogProductID,
		QuantityExpected:  params.QuantityExpected,
		QuantityReceived:  0,
		AllocationBasis:   params.AllocationBasis,
		BasisSource:       basisSource,
		CostMethod:        params.CostMethod,
		AllocatedUnitCost: params.AllocatedUnitCost,
		ReceiveStatus:     ReceiveStatusPending,
		Notes:             params.Notes,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	o.Lines = append(o.Lines, line)
	o.UpdatedAt = now
	o.IncrementVersion()

	return &o.Lines[len(o.Lines)-1], nil
}

// LineUpdate carries partial updates for a line
type LineUpdate struct {
	QuantityExpected  *int
	AllocationBasis   *decimal.Decimal
	BasisSource       *string
	CostMethod        *CostAssignmentMethod
	AllocatedUnitCost *decimal.Decimal
	Notes             *string
}

// UpdateLine applies a partial update to an existing line
func (o *PurchaseOrder) UpdateLine(lineID uuid.UUID, update LineUpdate) error {
	if o.IsLocked {
		return shared.NewDomainError("PO_LOCKED", "PO is locked; cannot update line items")
	}

	line := o.GetLine(lineID)
	if line == nil {
		return shared.ErrNotFound
	}

	if update.QuantityExpected != nil {
		if *update.QuantityExpected < 0 {
			return shared.NewDomainError("INVALID_QUANTITY", "quantity_expected must be >= 0")
		}
		line.QuantityExpected = *update.QuantityExpected
	}
	if update.AllocationBasis != nil {
		if update.AllocationBasis.IsNegative() {
			return shared.NewDomainError("INVALID_BASIS", "allocation_basis must be >= 0")
		}
		line.AllocationBasis = *update.AllocationBasis
	}
	if update.BasisSource != nil {
		line.BasisSource = *update.BasisSource
	}
	if update.CostMethod != nil {
		if !update.CostMethod.IsValid() {
			return shared.NewDomainError("INVALID_COST_METHOD", "Invalid cost_assignment_method")
		}
		line.CostMethod = *update.CostMethod
	}
	if update.AllocatedUnitCost != nil {
		line.AllocatedUnitCost = update.AllocatedUnitCost
	}
	if update.Notes != nil {
		line.Notes = *update.Notes
	}

	line.UpdatedAt = time.Now()
	line.Version++
	o.UpdatedAt = line.UpdatedAt
	o.IncrementVersion()

	return nil
}

// RemoveLine removes a line from the order
func (o *PurchaseOrder) RemoveLine(lineID uuid.UUID) error {
	if o.IsLocked {
		return shared.NewDomainError("PO_LOCKED", "PO is locked; cannot delete line items")
	}

	for idx, line := range o.Lines {
		if line.ID == lineID {
			o.Lines = append(o.Lines[:idx], o.Lines[idx+1:]...)
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.ErrNotFound
}

// HeaderUpdate carries partial updates for the order header
type HeaderUpdate struct {
	DatePurchased       *time.Time
	PaymentMethod       *string
	ExternalOrderNumber *string
	Subtotal            *decimal.Decimal
	Tax                 *decimal.Decimal
	Shipping            *decimal.Decimal
	Fees                *decimal.Decimal
	Discounts           *decimal.Decimal
	Notes               *string
}

// UpdateHeader applies a partial update of provided fields only
func (o *PurchaseOrder) UpdateHeader(update HeaderUpdate) error {
	if o.IsLocked {
		return shared.NewDomainError("PO_LOCKED", "PO is locked; cannot update header")
	}

	money := map[string]*decimal.Decimal{
		"subtotal":  update.Subtotal,
		"tax":       update.Tax,
		"shipping":  update.Shipping,
		"fees":      update.Fees,
		"discounts": update.Discounts,
	}
	for name, v := range money {
		if v != nil && v.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", fmt.Sprintf("Invalid %s: must be >= 0", name))
		}
	}

	if update.DatePurchased != nil {
		o.DatePurchased = update.DatePurchased
	}
	if update.PaymentMethod != nil {
		o.PaymentMethod = *update.PaymentMethod
	}
	if update.ExternalOrderNumber != nil {
		o.ExternalOrderNumber = *update.ExternalOrderNumber
	}
	if update.Subtotal != nil {
		o.Subtotal = *update.Subtotal
	}
	if update.Tax != nil {
		o.Tax = *update.Tax
	}
	if update.Shipping != nil {
		o.Shipping = *update.Shipping
	}
	if update.Fees != nil {
		o.Fees = *update.Fees
	}
	if update.Discounts != nil {
		o.Discounts = *update.Discounts
	}
	if update.Notes != nil {
		o.Notes = *update.Notes
	}

	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Lock transitions the order into the locked state. Locking is one-way:
// there is no unlock operation. Every manual line must carry a cost before
// locking; cost allocation runs immediately after a successful Lock.
func (o *PurchaseOrder) Lock() error {
	if o.IsLocked {
		return shared.NewDomainError("PO_LOCKED", "PO is already locked")
	}
	for i := range o.Lines {
		line := &o.Lines[i]
		if line.CostMethod == CostAssignmentManual && line.AllocatedUnitCost == nil {
			return shared.NewDomainError("MISSING_MANUAL_COST", "Manual lines must have allocated_unit_cost before locking")
		}
	}

	now := time.Now()
	o.IsLocked = true
	o.LockedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// LineTotals aggregates the receiving progress across all lines.
// A line is satisfied when its cumulative received quantity covers the
// expected quantity or it was declared short; both are terminal for
// status derivation.
type LineTotals struct {
	TotalExpected  int
	TotalReceived  int
	ShortLines     int
	SatisfiedLines int
	TotalLines     int
}

// Totals computes the line aggregates that drive status derivation
func (o *PurchaseOrder) Totals() LineTotals {
	t := LineTotals{TotalLines: len(o.Lines)}
	for i := range o.Lines {
		line := &o.Lines[i]
		t.TotalExpected += line.QuantityExpected
		t.TotalReceived += line.QuantityReceived
		if line.ReceiveStatus == ReceiveStatusShort {
			t.ShortLines++
		}
		if line.QuantityReceived >= line.QuantityExpected || line.ReceiveStatus == ReceiveStatusShort {
			t.SatisfiedLines++
		}
	}
	return t
}

// DeriveStatus computes the order status from line totals.
// A zero-expected order keeps its current status.
func DeriveStatus(current PurchaseOrderStatus, totals LineTotals) PurchaseOrderStatus {
	if totals.TotalExpected == 0 {
		return current
	}
	switch {
	case totals.SatisfiedLines == totals.TotalLines:
		if totals.ShortLines > 0 {
			return PurchaseOrderStatusClosedExceptions
		}
		return PurchaseOrderStatusReceived
	case totals.TotalReceived > 0:
		return PurchaseOrderStatusPartialReceived
	default:
		return PurchaseOrderStatusOpen
	}
}

// RefreshStatus recomputes and applies the derived status.
// Returns true if the status changed.
func (o *PurchaseOrder) RefreshStatus() bool {
	next := DeriveStatus(o.Status, o.Totals())
	if next == o.Status {
		return false
	}
	o.Status = next
	o.UpdatedAt = time.Now()
	return true
}

// ReceivedPct returns receiving progress as a percentage (0-100)
func (o *PurchaseOrder) ReceivedPct() decimal.Decimal {
	totals := o.Totals()
	if totals.TotalExpected == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(totals.TotalReceived)).
		Div(decimal.NewFromInt(int64(totals.TotalExpected))).
		Mul(decimal.NewFromInt(100)).Round(2)
}

// GetLine returns a line by its ID, or nil
func (o *PurchaseOrder) GetLine(lineID uuid.UUID) *PurchaseOrderLine {
	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			return &o.Lines[idx]
		}
	}
	return nil
}

// ReceivableLines returns lines that still have outstanding quantity
func (o *PurchaseOrder) ReceivableLines() []PurchaseOrderLine {
	lines := make([]PurchaseOrderLine, 0)
	for _, line := range o.Lines {
		if line.IsReceivable() {
			lines = append(lines, line)
		}
	}
	return lines
}

// nextLineNumber returns one past the highest line number in the order
func (o *PurchaseOrder) nextLineNumber() int {
	max := 0
	for i := range o.Lines {
		if o.Lines[i].LineNumber > max {
			max = o.Lines[i].LineNumber
		}
	}
	return max + 1
}
