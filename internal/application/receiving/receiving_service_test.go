package receiving

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/catalog"
	"github.com/resale/backoffice/internal/domain/inventory"
	"github.com/resale/backoffice/internal/domain/purchase"
	"github.com/resale/backoffice/internal/domain/receiving"
	"github.com/resale/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory fakes. The commit engine coordinates four repositories, so a
// stateful fake per repository reads better than a pile of mock.On calls.

type fakeOrderRepo struct {
	orders map[uuid.UUID]*purchase.PurchaseOrder
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*purchase.PurchaseOrder)}
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*purchase.PurchaseOrder, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

func (r *fakeOrderRepo) FindByNumber(_ context.Context, poNumber string) (*purchase.PurchaseOrder, error) {
	for _, o := range r.orders {
		if o.PONumber == poNumber {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindAll(_ context.Context, _ shared.Filter) ([]purchase.PurchaseOrder, error) {
	out := make([]purchase.PurchaseOrder, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeOrderRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.orders)), nil
}

func (r *fakeOrderRepo) NextSequence(_ context.Context, _ uuid.UUID, _ string) (int, error) {
	return len(r.orders) + 1, nil
}

func (r *fakeOrderRepo) Create(_ context.Context, order *purchase.PurchaseOrder) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) Save(_ context.Context, order *purchase.PurchaseOrder) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) UpdateLineReceiveState(_ context.Context, lineID uuid.UUID, expectedVersion, quantityReceived int, status purchase.ReceiveStatus) error {
	for _, order := range r.orders {
		line := order.GetLine(lineID)
		if line == nil {
			continue
		}
		if line.Version != expectedVersion {
			return shared.ErrConcurrencyConflict
		}
		line.QuantityReceived = quantityReceived
		line.ReceiveStatus = status
		line.Version++
		return nil
	}
	return shared.ErrNotFound
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, orderID uuid.UUID, status purchase.PurchaseOrderStatus) error {
	order, ok := r.orders[orderID]
	if !ok {
		return shared.ErrNotFound
	}
	order.Status = status
	return nil
}

type fakeInventoryRepo struct {
	items map[string]*inventory.InventoryItem // by seller SKU
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{items: make(map[string]*inventory.InventoryItem)}
}

func (r *fakeInventoryRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	for _, item := range r.items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeInventoryRepo) FindBySKU(_ context.Context, sellerSKU string) (*inventory.InventoryItem, error) {
	item, ok := r.items[sellerSKU]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

func (r *fakeInventoryRepo) FindAll(_ context.Context, _ shared.Filter) ([]*inventory.InventoryItem, error) {
	out := make([]*inventory.InventoryItem, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}

func (r *fakeInventoryRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *fakeInventoryRepo) SKUExists(_ context.Context, sellerSKU string) (bool, error) {
	_, ok := r.items[sellerSKU]
	return ok, nil
}

func (r *fakeInventoryRepo) Create(_ context.Context, item *inventory.InventoryItem) error {
	r.items[item.SellerSKU] = item
	return nil
}

func (r *fakeInventoryRepo) Save(_ context.Context, item *inventory.InventoryItem) error {
	r.items[item.SellerSKU] = item
	return nil
}

type fakeEventRepo struct {
	events []*receiving.ReceivingEvent
}

func (r *fakeEventRepo) Create(_ context.Context, event *receiving.ReceivingEvent) error {
	r.events = append(r.events, event)
	return nil
}

func (r *fakeEventRepo) FindByOrderID(_ context.Context, orderID uuid.UUID, _ shared.Filter) ([]*receiving.ReceivingEvent, error) {
	out := make([]*receiving.ReceivingEvent, 0)
	for _, e := range r.events {
		if e.PurchaseOrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) FindByLineID(_ context.Context, lineID uuid.UUID, _ shared.Filter) ([]*receiving.ReceivingEvent, error) {
	out := make([]*receiving.ReceivingEvent, 0)
	for _, e := range r.events {
		if e.PurchaseOrderLineID == lineID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeGradeRepo struct {
	grades map[string]*catalog.ConditionGrade
}

func newFakeGradeRepo() *fakeGradeRepo {
	unknown := &catalog.ConditionGrade{
		BaseEntity:  shared.NewBaseEntity(),
		Code:        catalog.ConditionGradeUnknown,
		DisplayName: "Ungraded",
	}
	return &fakeGradeRepo{grades: map[string]*catalog.ConditionGrade{unknown.Code: unknown}}
}

func (r *fakeGradeRepo) FindByCode(_ context.Context, code string) (*catalog.ConditionGrade, error) {
	grade, ok := r.grades[code]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return grade, nil
}

func (r *fakeGradeRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.ConditionGrade, error) {
	for _, grade := range r.grades {
		if grade.ID == id {
			return grade, nil
		}
	}
	return nil, shared.ErrNotFound
}

type testEnv struct {
	service   *ReceivingService
	orderRepo *fakeOrderRepo
	invRepo   *fakeInventoryRepo
	eventRepo *fakeEventRepo
}

func newTestEnv() *testEnv {
	orderRepo := newFakeOrderRepo()
	invRepo := newFakeInventoryRepo()
	eventRepo := &fakeEventRepo{}
	scope := NewNoOpTransactionScope(orderRepo, invRepo, eventRepo, newFakeGradeRepo())
	return &testEnv{
		service:   NewReceivingService(orderRepo, eventRepo, scope),
		orderRepo: orderRepo,
		invRepo:   invRepo,
		eventRepo: eventRepo,
	}
}

func newLockedOrderWithLine(t *testing.T, env *testEnv, qtyExpected int) (*purchase.PurchaseOrder, *purchase.PurchaseOrderLine) {
	source, err := catalog.NewSource("GS", "Garage Sale")
	require.NoError(t, err)
	order, err := purchase.NewPurchaseOrder(source, "GS001", purchase.HeaderAmounts{
		Subtotal: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	vctx := catalog.VariantContext{VariantID: uuid.New(), CatalogProductID: uuid.New()}
	line, err := order.AddLine(vctx, purchase.NewLineParams{
		CatalogProductID: vctx.CatalogProductID,
		QuantityExpected: qtyExpected,
		AllocationBasis:  decimal.NewFromInt(25),
		CostMethod:       purchase.CostAssignmentByMarketValue,
	})
	require.NoError(t, err)

	require.NoError(t, order.Lock())
	alloc, err := purchase.Allocate(order)
	require.NoError(t, err)
	order.ApplyAllocation(alloc)

	require.NoError(t, env.orderRepo.Create(context.Background(), order))
	return order, line
}

func TestReceivingService_BuildStaging(t *testing.T) {
	env := newTestEnv()
	order, line := newLockedOrderWithLine(t, env, 5)

	staging, err := env.service.BuildStaging(context.Background(), order.ID, false)
	require.NoError(t, err)
	require.Len(t, staging.Lines, 1)
	assert.Equal(t, "GS001__0001", staging.Lines[0].SKUPreview)
	assert.Equal(t, 5, staging.Lines[0].QuantityRemaining)
	assert.Equal(t, line.Version, staging.Lines[0].Version)
}

func TestReceivingService_BuildStaging_NotLocked(t *testing.T) {
	env := newTestEnv()
	source, err := catalog.NewSource("GS", "Garage Sale")
	require.NoError(t, err)
	order, err := purchase.NewPurchaseOrder(source, "GS002", purchase.HeaderAmounts{})
	require.NoError(t, err)
	require.NoError(t, env.orderRepo.Create(context.Background(), order))

	_, err = env.service.BuildStaging(context.Background(), order.ID, false)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PO_NOT_LOCKED", domainErr.Code)
}

func TestReceivingService_BuildStaging_FiltersCompletedLines(t *testing.T) {
	env := newTestEnv()
	order, line := newLockedOrderWithLine(t, env, 2)
	line.QuantityReceived = 2
	line.ReceiveStatus = purchase.ReceiveStatusReceived

	staging, err := env.service.BuildStaging(context.Background(), order.ID, false)
	require.NoError(t, err)
	assert.Empty(t, staging.Lines)

	staging, err = env.service.BuildStaging(context.Background(), order.ID, true)
	require.NoError(t, err)
	assert.Len(t, staging.Lines, 1)
}

func TestReceivingService_Commit_FullReceive(t *testing.T) {
	env := newTestEnv()
	order, line := newLockedOrderWithLine(t, env, 5)

	resp, err := env.service.Commit(context.Background(), order.ID, CommitRequest{
		Items: []CommitItemRequest{{LineID: line.ID, QtyToReceive: 5, Version: line.Version}},
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, "received", resp.Results[0].ReceiveStatus)
	assert.Equal(t, "GS0010001", resp.Results[0].SellerSKU)
	assert.Equal(t, "received", resp.OrderStatus)
	assert.Equal(t, 1, resp.EventsCreated)

	// Cohort was created with the line's allocated cost and UNKNOWN grade
	item, err := env.invRepo.FindBySKU(context.Background(), "GS0010001")
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)
	assert.Equal(t, inventory.ItemStatusPending, item.Status)
	require.NotNil(t, line.AllocatedUnitCost)
	assert.True(t, item.AllocatedUnitCost.Equal(*line.AllocatedUnitCost))
}

func TestReceivingService_Commit_StaleVersionAbortsBatch(t *testing.T) {
	env := newTestEnv()
	order, line := newLockedOrderWithLine(t, env, 5)

	_, err := env.service.Commit(context.Background(), order.ID, CommitRequest{
		Items: []CommitItemRequest{{LineID: line.ID, QtyToReceive: 2, Version: line.Version - 1}},
	})
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestReceivingService_Commit_SKUConflictAbortsBatch(t *testing.T) {
	env := newTestEnv()
	order, line := newLockedOrderWithLine(t, env, 5)

	taken, err := inventory.NewCohort(inventory.NewCohortParams{
		PurchaseOrderLineID: uuid.New(),
		VariantID:           uuid.New(),
		SellerSKU:           "GS0010001",
		Quantity:            1,
		ConditionGradeID:    uuid.New(),
	})
	require.NoError(t, err)
	require.NoError(t, env.invRepo.Create(context.Background(), taken))

	_, err = env.service.Commit(context.Background(), order.ID, CommitRequest{
		Items: []CommitItemRequest{{LineID: line.ID, QtyToReceive: 5, Version: line.Version}},
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SKU_CONFLICT", domainErr.Code)
	// Line untouched
	assert.Equal(t, 0, line.QuantityReceived)
}

func TestReceivingService_Commit_DamagedAndShort(t *testing.T) {
	env := newTestEnv()
	order, line := newLockedOrderWithLine(t, env, 5)

	resp, err := env.service.Commit(context.Background(), order.ID, CommitRequest{
		Items: []CommitItemRequest{{
			LineID:       line.ID,
			QtyToReceive: 2,
			Damaged:      true,
			Short:        true,
			Version:      line.Version,
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, "short", resp.Results[0].ReceiveStatus)
	// receive + damage + short
	assert.Equal(t, 3, resp.EventsCreated)
	assert.Equal(t, "closed_with_exceptions", resp.OrderStatus)

	item, err := env.invRepo.FindBySKU(context.Background(), "GS0010001")
	require.NoError(t, err)
	assert.Equal(t, inventory.ItemStatusDamaged, item.Status)

	events, err := env.eventRepo.FindByLineID(context.Background(), line.ID, shared.DefaultFilter())
	require.NoError(t, err)
	types := make([]receiving.EventType, 0, len(events))
	for _, e := range events {
		types = append(types, e.EventType)
	}
	assert.Equal(t, []receiving.EventType{receiving.EventReceive, receiving.EventDamage, receiving.EventShort}, types)
}

func TestReceivingService_Commit_ZeroQuantitySkipped(t *testing.T) {
	env := newTestEnv()
	order, line := newLockedOrderWithLine(t, env, 5)

	resp, err := env.service.Commit(context.Background(), order.ID, CommitRequest{
		Items: []CommitItemRequest{{LineID: line.ID, QtyToReceive: 0, Version: line.Version}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.True(t, resp.Results[0].Skipped)
	assert.Equal(t, 0, resp.EventsCreated)
	assert.Equal(t, "open", resp.OrderStatus)
}

func TestReceivingService_Commit_CustomSKU(t *testing.T) {
	env := newTestEnv()
	order, line := newLockedOrderWithLine(t, env, 2)

	resp, err := env.service.Commit(context.Background(), order.ID, CommitRequest{
		Items: []CommitItemRequest{{
			LineID:       line.ID,
			QtyToReceive: 2,
			SellerSKU:    "CUSTOM-1",
			Version:      line.Version,
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "CUSTOM-1", resp.Results[0].SellerSKU)

	_, err = env.invRepo.FindBySKU(context.Background(), "CUSTOM-1")
	assert.NoError(t, err)
}

func TestReceivingService_Commit_NotLocked(t *testing.T) {
	env := newTestEnv()
	source, err := catalog.NewSource("GS", "Garage Sale")
	require.NoError(t, err)
	order, err := purchase.NewPurchaseOrder(source, "GS003", purchase.HeaderAmounts{})
	require.NoError(t, err)
	require.NoError(t, env.orderRepo.Create(context.Background(), order))

	_, err = env.service.Commit(context.Background(), order.ID, CommitRequest{
		Items: []CommitItemRequest{{LineID: uuid.New(), QtyToReceive: 1, Version: 1}},
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PO_NOT_LOCKED", domainErr.Code)
}

func TestReceivingService_Commit_UnknownLine(t *testing.T) {
	env := newTestEnv()
	order, _ := newLockedOrderWithLine(t, env, 5)

	_, err := env.service.Commit(context.Background(), order.ID, CommitRequest{
		Items: []CommitItemRequest{{LineID: uuid.New(), QtyToReceive: 1, Version: 1}},
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "LINE_NOT_FOUND", domainErr.Code)
}

func TestReceivingService_Commit_PartialThenComplete(t *testing.T) {
	env := newTestEnv()
	order, line := newLockedOrderWithLine(t, env, 5)

	resp, err := env.service.Commit(context.Background(), order.ID, CommitRequest{
		Items: []CommitItemRequest{{LineID: line.ID, QtyToReceive: 2, Version: line.Version}},
	})
	require.NoError(t, err)
	assert.Equal(t, "partially_received", resp.OrderStatus)

	// Second batch with a custom SKU; the default would now collide
	resp, err = env.service.Commit(context.Background(), order.ID, CommitRequest{
		Items: []CommitItemRequest{{
			LineID:       line.ID,
			QtyToReceive: 3,
			SellerSKU:    "GS0010001-B",
			Version:      line.Version,
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "received", resp.OrderStatus)
	assert.Equal(t, 5, line.QuantityReceived)
}
