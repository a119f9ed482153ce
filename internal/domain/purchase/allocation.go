package purchase

import (
	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LineAllocation is the allocation outcome for a single line
type LineAllocation struct {
	LineID    uuid.UUID
	Share     decimal.Decimal // the line's slice of the distributed pools
	UnitCost  decimal.Decimal // final allocated unit cost
}

// AllocationResult maps line ids to their allocation outcome
type AllocationResult map[uuid.UUID]LineAllocation

// Allocate distributes the order's header-level costs across its lines in
// proportion to each line's allocation basis weighted by expected quantity.
//
// Two pools are distributed:
//   - the goods pool: subtotal minus the cost already assigned to manual
//     lines, spread over by_market_value lines;
//   - the overhead pool: tax + shipping + fees - discounts, spread over all
//     lines.
//
// Rounding remainders fold into the largest-weight line of each pool, so the
// distributed totals are conserved exactly. Manual lines keep their manual
// unit cost plus their overhead share.
func Allocate(o *PurchaseOrder) (AllocationResult, error) {
	for i := range o.Lines {
		line := &o.Lines[i]
		if line.CostMethod == CostAssignmentManual && line.AllocatedUnitCost == nil {
			return nil, shared.NewDomainError("MISSING_MANUAL_COST", "Manual lines must have allocated_unit_cost before allocation")
		}
	}

	weights := make(map[uuid.UUID]decimal.Decimal, len(o.Lines))
	totalWeight := decimal.Zero
	marketWeight := decimal.Zero
	manualGoods := decimal.Zero
	for i := range o.Lines {
		line := &o.Lines[i]
		w := line.AllocationBasis.Mul(decimal.NewFromInt(int64(line.QuantityExpected)))
		weights[line.ID] = w
		totalWeight = totalWeight.Add(w)
		if line.CostMethod == CostAssignmentByMarketValue {
			marketWeight = marketWeight.Add(w)
		} else {
			manualGoods = manualGoods.Add(line.AllocatedUnitCost.Mul(decimal.NewFromInt(int64(line.QuantityExpected))))
		}
	}

	goodsPool := o.Subtotal.Sub(manualGoods)
	if goodsPool.IsNegative() {
		goodsPool = decimal.Zero
	}
	overheadPool := o.Tax.Add(o.Shipping).Add(o.Fees).Sub(o.Discounts)

	goodsShares := distribute(o.Lines, weights, marketWeight, goodsPool, func(l *PurchaseOrderLine) bool {
		return l.CostMethod == CostAssignmentByMarketValue
	})
	overheadShares := distribute(o.Lines, weights, totalWeight, overheadPool, func(l *PurchaseOrderLine) bool {
		return true
	})

	result := make(AllocationResult, len(o.Lines))
	for i := range o.Lines {
		line := &o.Lines[i]
		share := goodsShares[line.ID].Add(overheadShares[line.ID])

		var unitCost decimal.Decimal
		qty := decimal.NewFromInt(int64(line.QuantityExpected))
		switch {
		case line.QuantityExpected == 0:
			if line.CostMethod == CostAssignmentManual {
				unitCost = *line.AllocatedUnitCost
			}
		case line.CostMethod == CostAssignmentManual:
			unitCost = line.AllocatedUnitCost.Add(overheadShares[line.ID].Div(qty)).Round(4)
		default:
			unitCost = share.Div(qty).Round(4)
		}

		result[line.ID] = LineAllocation{
			LineID:   line.ID,
			Share:    share,
			UnitCost: unitCost,
		}
	}

	return result, nil
}

// ApplyAllocation writes allocation results onto the order's lines
func (o *PurchaseOrder) ApplyAllocation(result AllocationResult) {
	for i := range o.Lines {
		line := &o.Lines[i]
		alloc, ok := result[line.ID]
		if !ok {
			continue
		}
		cost := alloc.UnitCost
		line.AllocatedUnitCost = &cost
		line.Version++
		line.UpdatedAt = o.UpdatedAt
	}
}

// distribute splits pool across eligible lines proportionally to weight,
// rounding each share to 4 decimal places and folding the remainder into the
// largest-weight eligible line.
func distribute(lines []PurchaseOrderLine, weights map[uuid.UUID]decimal.Decimal, totalWeight, pool decimal.Decimal, eligible func(*PurchaseOrderLine) bool) map[uuid.UUID]decimal.Decimal {
	shares := make(map[uuid.UUID]decimal.Decimal, len(lines))
	for i := range lines {
		shares[lines[i].ID] = decimal.Zero
	}
	if pool.IsZero() || totalWeight.IsZero() {
		return shares
	}

	allocated := decimal.Zero
	var largestID uuid.UUID
	largestWeight := decimal.NewFromInt(-1)
	for i := range lines {
		line := &lines[i]
		if !eligible(line) {
			continue
		}
		w := weights[line.ID]
		share := pool.Mul(w).Div(totalWeight).Round(4)
		shares[line.ID] = share
		allocated = allocated.Add(share)
		if w.GreaterThan(largestWeight) {
			largestWeight = w
			largestID = line.ID
		}
	}

	remainder := pool.Sub(allocated)
	if !remainder.IsZero() && largestID != uuid.Nil {
		shares[largestID] = shares[largestID].Add(remainder)
	}

	return shares
}
