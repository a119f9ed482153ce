package purchase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addManualLine(t *testing.T, order *PurchaseOrder, qty int, unitCost float64) *PurchaseOrderLine {
	vctx := testVariantContext()
	cost := decimal.NewFromFloat(unitCost)
	line, err := order.AddLine(vctx, NewLineParams{
		CatalogProductID:  vctx.CatalogProductID,
		QuantityExpected:  qty,
		AllocationBasis:   decimal.Zero,
		CostMethod:        CostAssignmentManual,
		AllocatedUnitCost: &cost,
	})
	require.NoError(t, err)
	return line
}

func TestAllocate_SingleMarketLine(t *testing.T) {
	order := createTestPurchaseOrder(t) // subtotal 100, tax 7, shipping 5
	line := addTestLine(t, order, 2, 30.00)

	result, err := Allocate(order)
	require.NoError(t, err)

	alloc := result[line.ID]
	// goods pool 100 + overhead pool 12, all on one line
	assert.True(t, alloc.Share.Equal(decimal.NewFromInt(112)), "share = %s", alloc.Share)
	assert.True(t, alloc.UnitCost.Equal(decimal.NewFromInt(56)), "unit cost = %s", alloc.UnitCost)
}

func TestAllocate_ProportionalToBasisTimesQty(t *testing.T) {
	order := createTestPurchaseOrder(t)
	order.Tax = decimal.Zero
	order.Shipping = decimal.Zero
	// weights: 1*75=75 and 1*25=25 -> 75%/25% of the 100 subtotal
	lineA := addTestLine(t, order, 1, 75.00)
	lineB := addTestLine(t, order, 1, 25.00)

	result, err := Allocate(order)
	require.NoError(t, err)

	assert.True(t, result[lineA.ID].Share.Equal(decimal.NewFromInt(75)))
	assert.True(t, result[lineB.ID].Share.Equal(decimal.NewFromInt(25)))
}

func TestAllocate_PoolConservation(t *testing.T) {
	order := createTestPurchaseOrder(t)
	order.Subtotal = decimal.NewFromFloat(100.00)
	order.Tax = decimal.NewFromFloat(0.01)
	order.Shipping = decimal.Zero
	// Three equal weights cannot split 100.01 evenly; the remainder folds
	// into the largest-weight line so the total is conserved exactly.
	lineA := addTestLine(t, order, 1, 10.00)
	lineB := addTestLine(t, order, 1, 10.00)
	lineC := addTestLine(t, order, 1, 10.00)

	result, err := Allocate(order)
	require.NoError(t, err)

	total := result[lineA.ID].Share.Add(result[lineB.ID].Share).Add(result[lineC.ID].Share)
	assert.True(t, total.Equal(decimal.NewFromFloat(100.01)), "total = %s", total)
}

func TestAllocate_ManualLineKeepsCostPlusOverhead(t *testing.T) {
	order := createTestPurchaseOrder(t)
	order.Subtotal = decimal.NewFromFloat(100.00)
	order.Tax = decimal.NewFromFloat(10.00)
	order.Shipping = decimal.Zero

	manual := addManualLine(t, order, 2, 20.00) // consumes 40 of the goods pool
	market := addTestLine(t, order, 1, 60.00)

	result, err := Allocate(order)
	require.NoError(t, err)

	// goods pool = 100 - 40 = 60, all to the market line.
	// overhead 10 splits by weight: manual weight 0 (basis 0), market 60.
	marketAlloc := result[market.ID]
	assert.True(t, marketAlloc.Share.Equal(decimal.NewFromInt(70)), "market share = %s", marketAlloc.Share)

	manualAlloc := result[manual.ID]
	assert.True(t, manualAlloc.UnitCost.Equal(decimal.NewFromInt(20)), "manual unit cost = %s", manualAlloc.UnitCost)
}

func TestAllocate_MissingManualCost(t *testing.T) {
	order := createTestPurchaseOrder(t)
	vctx := testVariantContext()
	_, err := order.AddLine(vctx, NewLineParams{
		CatalogProductID: vctx.CatalogProductID,
		QuantityExpected: 1,
		AllocationBasis:  decimal.NewFromInt(10),
		CostMethod:       CostAssignmentManual,
	})
	require.NoError(t, err)

	_, err = Allocate(order)
	assert.Error(t, err)
}

func TestAllocate_GoodsPoolFloorsAtZero(t *testing.T) {
	order := createTestPurchaseOrder(t)
	order.Subtotal = decimal.NewFromFloat(30.00)
	order.Tax = decimal.Zero
	order.Shipping = decimal.Zero

	// Manual lines already account for more than the subtotal.
	addManualLine(t, order, 2, 20.00)
	market := addTestLine(t, order, 1, 50.00)

	result, err := Allocate(order)
	require.NoError(t, err)
	assert.True(t, result[market.ID].Share.IsZero())
}

func TestApplyAllocation(t *testing.T) {
	order := createTestPurchaseOrder(t)
	line := addTestLine(t, order, 2, 30.00)
	versionBefore := line.Version

	result, err := Allocate(order)
	require.NoError(t, err)
	order.ApplyAllocation(result)

	applied := order.GetLine(line.ID)
	require.NotNil(t, applied.AllocatedUnitCost)
	assert.True(t, applied.AllocatedUnitCost.Equal(decimal.NewFromInt(56)))
	assert.Equal(t, versionBefore+1, applied.Version)
}
