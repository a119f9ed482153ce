package purchase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/resale/backoffice/internal/domain/catalog"
	"github.com/resale/backoffice/internal/domain/purchase"
	"github.com/resale/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPurchaseOrderRepository is a mock implementation of PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchase.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchase.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByNumber(ctx context.Context, poNumber string) (*purchase.PurchaseOrder, error) {
	args := m.Called(ctx, poNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchase.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]purchase.PurchaseOrder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]purchase.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseOrderRepository) NextSequence(ctx context.Context, sourceID uuid.UUID, sourceCode string) (int, error) {
	args := m.Called(ctx, sourceID, sourceCode)
	return args.Int(0), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Create(ctx context.Context, order *purchase.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, order *purchase.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) UpdateLineReceiveState(ctx context.Context, lineID uuid.UUID, expectedVersion, quantityReceived int, status purchase.ReceiveStatus) error {
	args := m.Called(ctx, lineID, expectedVersion, quantityReceived, status)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status purchase.PurchaseOrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

// MockSourceRepository is a mock implementation of SourceRepository
type MockSourceRepository struct {
	mock.Mock
}

func (m *MockSourceRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Source, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Source), args.Error(1)
}

func (m *MockSourceRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*catalog.Source, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Source), args.Error(1)
}

func (m *MockSourceRepository) FindAll(ctx context.Context) ([]catalog.Source, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Source), args.Error(1)
}

func (m *MockSourceRepository) Save(ctx context.Context, source *catalog.Source) error {
	args := m.Called(ctx, source)
	return args.Error(0)
}

// MockVariantRepository is a mock implementation of VariantRepository
type MockVariantRepository struct {
	mock.Mock
}

func (m *MockVariantRepository) GetVariantContext(ctx context.Context, variantID uuid.UUID) (*catalog.VariantContext, error) {
	args := m.Called(ctx, variantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.VariantContext), args.Error(1)
}

func newTestService() (*PurchaseOrderService, *MockPurchaseOrderRepository, *MockSourceRepository, *MockVariantRepository) {
	orderRepo := new(MockPurchaseOrderRepository)
	sourceRepo := new(MockSourceRepository)
	variantRepo := new(MockVariantRepository)
	return NewPurchaseOrderService(orderRepo, sourceRepo, variantRepo), orderRepo, sourceRepo, variantRepo
}

func newTestSource(t *testing.T) *catalog.Source {
	source, err := catalog.NewSource("GS", "Garage Sale")
	require.NoError(t, err)
	return source
}

func newLockedOrder(t *testing.T, source *catalog.Source) *purchase.PurchaseOrder {
	order := newOpenOrder(t, source)
	require.NoError(t, order.Lock())
	return order
}

func newOpenOrder(t *testing.T, source *catalog.Source) *purchase.PurchaseOrder {
	order, err := purchase.NewPurchaseOrder(source, "GS001", purchase.HeaderAmounts{
		Subtotal: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	return order
}

func TestPurchaseOrderService_Create(t *testing.T) {
	service, orderRepo, sourceRepo, _ := newTestService()
	source := newTestSource(t)

	sourceRepo.On("FindByID", mock.Anything, source.ID).Return(source, nil)
	orderRepo.On("NextSequence", mock.Anything, source.ID, "GS").Return(7, nil)
	orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*purchase.PurchaseOrder")).Return(nil)

	resp, err := service.Create(context.Background(), CreatePurchaseOrderRequest{SourceID: source.ID})
	require.NoError(t, err)
	assert.Equal(t, "GS007", resp.PONumber)
	assert.Equal(t, "open", resp.Status)
	orderRepo.AssertExpectations(t)
}

func TestPurchaseOrderService_Create_RetriesOnceOnNumberRace(t *testing.T) {
	service, orderRepo, sourceRepo, _ := newTestService()
	source := newTestSource(t)

	sourceRepo.On("FindByID", mock.Anything, source.ID).Return(source, nil)
	orderRepo.On("NextSequence", mock.Anything, source.ID, "GS").Return(7, nil).Once()
	orderRepo.On("NextSequence", mock.Anything, source.ID, "GS").Return(8, nil).Once()
	orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*purchase.PurchaseOrder")).Return(shared.ErrAlreadyExists).Once()
	orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*purchase.PurchaseOrder")).Return(nil).Once()

	resp, err := service.Create(context.Background(), CreatePurchaseOrderRequest{SourceID: source.ID})
	require.NoError(t, err)
	assert.Equal(t, "GS008", resp.PONumber)
	orderRepo.AssertExpectations(t)
}

func TestPurchaseOrderService_Create_GivesUpAfterSecondRace(t *testing.T) {
	service, orderRepo, sourceRepo, _ := newTestService()
	source := newTestSource(t)

	sourceRepo.On("FindByID", mock.Anything, source.ID).Return(source, nil)
	orderRepo.On("NextSequence", mock.Anything, source.ID, "GS").Return(7, nil)
	orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*purchase.PurchaseOrder")).Return(shared.ErrAlreadyExists)

	_, err := service.Create(context.Background(), CreatePurchaseOrderRequest{SourceID: source.ID})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PO_NUMBER_CONFLICT", domainErr.Code)
	orderRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestPurchaseOrderService_Create_UnknownSource(t *testing.T) {
	service, _, sourceRepo, _ := newTestService()
	sourceID := uuid.New()

	sourceRepo.On("FindByID", mock.Anything, sourceID).Return(nil, shared.ErrNotFound)

	_, err := service.Create(context.Background(), CreatePurchaseOrderRequest{SourceID: sourceID})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_SOURCE", domainErr.Code)
}

func TestPurchaseOrderService_AddLine(t *testing.T) {
	service, orderRepo, _, variantRepo := newTestService()
	source := newTestSource(t)
	order := newOpenOrder(t, source)

	vctx := &catalog.VariantContext{
		VariantID:        uuid.New(),
		CatalogProductID: uuid.New(),
		VariantTypeCode:  catalog.VariantTypeLoose,
	}

	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	variantRepo.On("GetVariantContext", mock.Anything, vctx.VariantID).Return(vctx, nil)
	orderRepo.On("Save", mock.Anything, order).Return(nil)

	basis := decimal.NewFromInt(25)
	resp, err := service.AddLine(context.Background(), order.ID, AddLineRequest{
		VariantID:        vctx.VariantID,
		CatalogProductID: vctx.CatalogProductID,
		QuantityExpected: 2,
		AllocationBasis:  &basis,
		CostMethod:       "by_market_value",
	})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 1, resp.Lines[0].LineNumber)
	assert.Equal(t, 2, resp.Lines[0].QuantityRemaining)
}

func TestPurchaseOrderService_AddLine_MarketValueFallback(t *testing.T) {
	service, orderRepo, _, variantRepo := newTestService()
	source := newTestSource(t)
	order := newOpenOrder(t, source)

	market := decimal.NewFromFloat(34.99)
	vctx := &catalog.VariantContext{
		VariantID:          uuid.New(),
		CatalogProductID:   uuid.New(),
		VariantTypeCode:    catalog.VariantTypeCIB,
		CurrentMarketValue: &market,
	}

	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	variantRepo.On("GetVariantContext", mock.Anything, vctx.VariantID).Return(vctx, nil)
	orderRepo.On("Save", mock.Anything, order).Return(nil)

	resp, err := service.AddLine(context.Background(), order.ID, AddLineRequest{
		VariantID:        vctx.VariantID,
		CatalogProductID: vctx.CatalogProductID,
		QuantityExpected: 1,
		CostMethod:       "by_market_value",
	})
	require.NoError(t, err)
	assert.True(t, resp.Lines[0].AllocationBasis.Equal(market))
	assert.Equal(t, "market", resp.Lines[0].BasisSource)
}

func TestPurchaseOrderService_AddLine_LockedOrder(t *testing.T) {
	service, orderRepo, _, variantRepo := newTestService()
	source := newTestSource(t)
	order := newLockedOrder(t, source)

	vctx := &catalog.VariantContext{
		VariantID:        uuid.New(),
		CatalogProductID: uuid.New(),
	}

	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	variantRepo.On("GetVariantContext", mock.Anything, vctx.VariantID).Return(vctx, nil)

	_, err := service.AddLine(context.Background(), order.ID, AddLineRequest{
		VariantID:        vctx.VariantID,
		CatalogProductID: vctx.CatalogProductID,
		QuantityExpected: 1,
		CostMethod:       "by_market_value",
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PO_LOCKED", domainErr.Code)
	orderRepo.AssertNotCalled(t, "Save")
}

func TestPurchaseOrderService_Lock_RunsAllocation(t *testing.T) {
	service, orderRepo, _, _ := newTestService()
	source := newTestSource(t)
	order := newOpenOrder(t, source)

	vctx := catalog.VariantContext{VariantID: uuid.New(), CatalogProductID: uuid.New()}
	_, err := order.AddLine(vctx, purchase.NewLineParams{
		CatalogProductID: vctx.CatalogProductID,
		QuantityExpected: 2,
		AllocationBasis:  decimal.NewFromInt(50),
		CostMethod:       purchase.CostAssignmentByMarketValue,
	})
	require.NoError(t, err)

	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	orderRepo.On("Save", mock.Anything, order).Return(nil)

	resp, err := service.Lock(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsLocked)
	require.NotNil(t, resp.Lines[0].AllocatedUnitCost)
	// subtotal 100 over 2 units
	assert.True(t, resp.Lines[0].AllocatedUnitCost.Equal(decimal.NewFromInt(50)))
}

func TestPurchaseOrderService_Lock_SaveConflictSurfaces(t *testing.T) {
	service, orderRepo, _, _ := newTestService()
	source := newTestSource(t)
	order := newOpenOrder(t, source)

	orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	orderRepo.On("Save", mock.Anything, order).Return(shared.ErrConcurrencyConflict)

	_, err := service.Lock(context.Background(), order.ID)
	assert.True(t, errors.Is(err, shared.ErrConcurrencyConflict))
}

func TestPurchaseOrderService_Get_NotFound(t *testing.T) {
	service, orderRepo, _, _ := newTestService()
	id := uuid.New()

	orderRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := service.Get(context.Background(), id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPurchaseOrderService_List(t *testing.T) {
	service, orderRepo, _, _ := newTestService()
	source := newTestSource(t)
	order := newOpenOrder(t, source)

	filter := shared.DefaultFilter()
	orderRepo.On("FindAll", mock.Anything, filter).Return([]purchase.PurchaseOrder{*order}, nil)
	orderRepo.On("Count", mock.Anything, filter).Return(int64(1), nil)

	page, err := service.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "GS001", page.Items[0].PONumber)
}
