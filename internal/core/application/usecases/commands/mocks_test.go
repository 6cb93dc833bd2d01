package commands_test

import (
	"context"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockFulfillmentOrderRepository struct{ mock.Mock }

func (m *MockFulfillmentOrderRepository) Add(ctx context.Context, o *fulfillment.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockFulfillmentOrderRepository) Update(ctx context.Context, o *fulfillment.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockFulfillmentOrderRepository) Get(ctx context.Context, id kernel.UUID) (*fulfillment.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*fulfillment.Order)
	return o, args.Error(1)
}

func (m *MockFulfillmentOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*fulfillment.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*fulfillment.Order)
	return o, args.Error(1)
}

func (m *MockFulfillmentOrderRepository) GetByItemForUpdate(ctx context.Context, itemID kernel.UUID) (*fulfillment.Order, error) {
	args := m.Called(ctx, itemID)
	o, _ := args.Get(0).(*fulfillment.Order)
	return o, args.Error(1)
}

func (m *MockFulfillmentOrderRepository) ExistsForSourceOrder(ctx context.Context, id kernel.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockStatusLedger struct{ mock.Mock }

func (m *MockStatusLedger) Append(ctx context.Context, changes ...*fulfillment.StatusChange) error {
	return m.Called(ctx, changes).Error(0)
}

func (m *MockStatusLedger) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*fulfillment.StatusChange, error) {
	args := m.Called(ctx, orderID)
	changes, _ := args.Get(0).([]*fulfillment.StatusChange)
	return changes, args.Error(1)
}

type MockSequenceGenerator struct{ mock.Mock }

func (m *MockSequenceGenerator) NextFulfillmentNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockSequenceGenerator) NextPackageNumber(ctx context.Context, orderID kernel.UUID) (string, error) {
	args := m.Called(ctx, orderID)
	return args.String(0), args.Error(1)
}

type MockSourceOrderProvider struct{ mock.Mock }

func (m *MockSourceOrderProvider) Get(ctx context.Context, id kernel.UUID) (ports.SourceOrder, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(ports.SourceOrder)
	return o, args.Error(1)
}

// MockUoW satisfies both FulfillmentUoW and NumberingUoW.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) FulfillmentOrderRepository() ports.FulfillmentOrderRepository {
	return m.Called().Get(0).(ports.FulfillmentOrderRepository)
}

func (m *MockUoW) StatusLedger() ports.StatusLedger {
	return m.Called().Get(0).(ports.StatusLedger)
}

func (m *MockUoW) SequenceGenerator() ports.SequenceGenerator {
	return m.Called().Get(0).(ports.SequenceGenerator)
}

type MockFulfillmentUoWFactory struct{ mock.Mock }

func (m *MockFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	return m.Called().Get(0).(commands.FulfillmentUoW)
}

type MockNumberingUoWFactory struct{ mock.Mock }

func (m *MockNumberingUoWFactory) Create() commands.NumberingUoW {
	return m.Called().Get(0).(commands.NumberingUoW)
}

// testEnv wires one MockUoW to fresh repository doubles.
type testEnv struct {
	repo   *MockFulfillmentOrderRepository
	ledger *MockStatusLedger
	seq    *MockSequenceGenerator
	uow    *MockUoW
}

func newTestEnv() *testEnv {
	env := &testEnv{
		repo:   new(MockFulfillmentOrderRepository),
		ledger: new(MockStatusLedger),
		seq:    new(MockSequenceGenerator),
		uow:    new(MockUoW),
	}
	env.uow.On("FulfillmentOrderRepository").Return(env.repo).Maybe()
	env.uow.On("StatusLedger").Return(env.ledger).Maybe()
	env.uow.On("SequenceGenerator").Return(env.seq).Maybe()
	return env
}

func (e *testEnv) fulfillmentFactory() *MockFulfillmentUoWFactory {
	f := new(MockFulfillmentUoWFactory)
	f.On("Create").Return(e.uow).Once()
	return f
}

func (e *testEnv) numberingFactory() *MockNumberingUoWFactory {
	f := new(MockNumberingUoWFactory)
	f.On("Create").Return(e.uow).Once()
	return f
}

func (e *testEnv) assertExpectations(t mock.TestingT) {
	e.repo.AssertExpectations(t)
	e.ledger.AssertExpectations(t)
	e.seq.AssertExpectations(t)
	e.uow.AssertExpectations(t)
}

func newOrder(quantities ...int) *fulfillment.Order {
	lines := make([]fulfillment.Line, 0, len(quantities))
	for _, q := range quantities {
		lines = append(lines, fulfillment.Line{ProductRef: "RING-01", Quantity: q, UnitPrice: 100})
	}
	o, err := fulfillment.NewOrder(fulfillment.NewOrderParams{
		ID:            kernel.NewUUID(),
		Number:        "FUL-00000010",
		SourceOrderID: kernel.NewUUID(),
		Priority:      fulfillment.PriorityNormal,
		Lines:         lines,
	})
	if err != nil {
		panic(err)
	}
	o.PullStatusChanges()
	return o
}

func changesOfLen(n int) any {
	return mock.MatchedBy(func(changes []*fulfillment.StatusChange) bool {
		return len(changes) == n
	})
}
