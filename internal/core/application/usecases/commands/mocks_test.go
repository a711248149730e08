package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pharmaflow/internal/core/application/usecases/commands"
	"pharmaflow/internal/core/domain/model/agent"
	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/core/domain/model/order"
	"pharmaflow/internal/core/domain/model/prescription"
	"pharmaflow/internal/core/ports"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllAwaitingAcceptanceBefore(
	ctx context.Context, deadline time.Time,
) ([]*order.Order, error) {
	args := m.Called(ctx, deadline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockAgentRepository struct{ mock.Mock }

func (m *MockAgentRepository) Add(ctx context.Context, a *agent.DeliveryAgent) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAgentRepository) Update(ctx context.Context, a *agent.DeliveryAgent) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAgentRepository) Get(ctx context.Context, id kernel.UUID) (*agent.DeliveryAgent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agent.DeliveryAgent), args.Error(1)
}

type MockInventoryRepository struct{ mock.Mock }

func (m *MockInventoryRepository) Snapshots(ctx context.Context) (
	[]prescription.PharmacySnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]prescription.PharmacySnapshot), args.Error(1)
}

func (m *MockInventoryRepository) ReserveStock(
	ctx context.Context, items []prescription.RequestItem,
) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) PublishStatusChanged(o *order.Order) {
	m.Called(o)
}

func (m *MockEventPublisher) PublishLocationUpdated(orderID kernel.UUID, location kernel.GeoPoint) {
	m.Called(orderID, location)
}

// MockUoW satisfies every unit of work shape the handlers depend on.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) AgentRepository() ports.AgentRepository {
	args := m.Called()
	return args.Get(0).(ports.AgentRepository)
}

func (m *MockUoW) InventoryRepository() ports.InventoryProvider {
	args := m.Called()
	return args.Get(0).(ports.InventoryProvider)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockAgentUoWFactory struct{ mock.Mock }

func (m *MockAgentUoWFactory) Create() commands.AgentUoW {
	args := m.Called()
	return args.Get(0).(commands.AgentUoW)
}

type MockOrderAgentUoWFactory struct{ mock.Mock }

func (m *MockOrderAgentUoWFactory) Create() commands.OrderAgentUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderAgentUoW)
}

type MockOrderInventoryUoWFactory struct{ mock.Mock }

func (m *MockOrderInventoryUoWFactory) Create() commands.OrderInventoryUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderInventoryUoW)
}

func testDeliveryAddress(t *testing.T) kernel.Address {
	t.Helper()

	location, err := kernel.NewGeoPoint(31.95, 35.91)
	require.NoError(t, err)
	address, err := kernel.NewAddress("12 Main St", "Amman", "11118", "+962790000000", location)
	require.NoError(t, err)
	return address
}

func testCreationRequest(t *testing.T, pharmacyID kernel.UUID) prescription.OrderCreationRequest {
	t.Helper()

	request, err := prescription.NewOrderCreationRequest(
		pharmacyID,
		[]prescription.RequestItem{
			{MedicineID: kernel.NewUUID(), Name: "Paracetamol", UnitPrice: 2.5, Quantity: 2},
		},
		testDeliveryAddress(t),
		order.CashOnDelivery,
	)
	require.NoError(t, err)
	return request
}

func testPendingOrder(t *testing.T, pharmacyID, customerID kernel.UUID) *order.Order {
	t.Helper()

	item, err := order.NewItem(kernel.NewUUID(), "Paracetamol", 2.5, 2)
	require.NoError(t, err)
	aggregate, err := order.NewOrder(kernel.NewUUID(), pharmacyID, customerID,
		[]order.Item{item}, testDeliveryAddress(t), order.CashOnDelivery)
	require.NoError(t, err)
	return aggregate
}

func testReadyOrder(t *testing.T, pharmacyID, customerID kernel.UUID) *order.Order {
	t.Helper()

	aggregate := testPendingOrder(t, pharmacyID, customerID)
	pharmacy, err := order.NewActor(pharmacyID, order.RolePharmacy)
	require.NoError(t, err)
	require.NoError(t, aggregate.Confirm(pharmacy))
	require.NoError(t, aggregate.StartPreparing(pharmacy))
	require.NoError(t, aggregate.MarkReady(pharmacy))
	return aggregate
}
