package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pharmaflow/internal/adapters/out/postgres/orderrepo"
	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/core/domain/model/order"
	"pharmaflow/internal/pkg/errs"
)

// MockAggregateTracker is a mock implementation of the aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite verifies order persistence against a
// real PostgreSQL instance, including the items and history child tables.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{}, &orderrepo.ItemDTO{}, &orderrepo.StatusChangeDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec(
		"TRUNCATE TABLE orders, order_items, order_status_changes").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder() *order.Order {
	location, err := kernel.NewGeoPoint(31.95, 35.91)
	suite.Require().NoError(err)
	address, err := kernel.NewAddress("12 Main St", "Amman", "11118", "+962790000000", location)
	suite.Require().NoError(err)

	paracetamol, err := order.NewItem(kernel.NewUUID(), "Paracetamol", 2.5, 2)
	suite.Require().NoError(err)
	amoxicillin, err := order.NewItem(kernel.NewUUID(), "Amoxicillin", 7.0, 1)
	suite.Require().NoError(err)

	aggregate, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		[]order.Item{paracetamol, amoxicillin}, address, order.CashOnDelivery)
	suite.Require().NoError(err)
	return aggregate
}

func (suite *OrderRepositoryIntegrationTestSuite) pharmacyActor(aggregate *order.Order) order.Actor {
	actor, err := order.NewActor(aggregate.PharmacyID(), order.RolePharmacy)
	suite.Require().NoError(err)
	return actor
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()
	aggregate := suite.createTestOrder()

	suite.Require().NoError(suite.repository.Add(ctx, aggregate))

	restored, err := suite.repository.Get(ctx, aggregate.ID())
	suite.Require().NoError(err)

	suite.True(restored.ID().IsEqual(aggregate.ID()))
	suite.True(restored.PharmacyID().IsEqual(aggregate.PharmacyID()))
	suite.True(restored.CustomerID().IsEqual(aggregate.CustomerID()))
	suite.Equal(order.Pending, restored.Status())
	suite.Equal(order.CashOnDelivery, restored.PaymentMethod())
	suite.Empty(restored.History())
	suite.Nil(restored.DeliveryAgent())
	suite.Nil(restored.TrackingLocation())

	items := restored.Items()
	suite.Require().Len(items, 2)
	suite.Equal("Paracetamol", items[0].Name())
	suite.InDelta(2.5, items[0].UnitPrice(), 0.001)
	suite.Equal(2, items[0].Quantity())
	suite.Equal("Amoxicillin", items[1].Name())
	suite.InDelta(12.0, restored.Total(), 0.001)

	address := restored.DeliveryAddress()
	suite.Equal("12 Main St", address.Street())
	suite.Equal("Amman", address.City())
	suite.InDelta(31.95, address.Location().Latitude(), 0.000001)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsHistoryAndAssignment() {
	ctx := context.Background()
	aggregate := suite.createTestOrder()
	suite.Require().NoError(suite.repository.Add(ctx, aggregate))

	pharmacy := suite.pharmacyActor(aggregate)
	suite.Require().NoError(aggregate.Confirm(pharmacy))
	suite.Require().NoError(aggregate.StartPreparing(pharmacy))
	suite.Require().NoError(aggregate.MarkReady(pharmacy))
	agentID := kernel.NewUUID()
	suite.Require().NoError(aggregate.ProposeAgent(pharmacy, agentID))

	suite.Require().NoError(suite.repository.Update(ctx, aggregate))

	restored, err := suite.repository.Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Equal(order.PendingAcceptance, restored.Status())
	suite.Require().NotNil(restored.DeliveryAgent())
	suite.True(restored.DeliveryAgent().IsEqual(agentID))
	suite.Require().NotNil(restored.AgentProposedAt())

	history := restored.History()
	suite.Require().Len(history, 3)
	suite.Equal(order.Confirmed, history[0].Status())
	suite.Equal(order.Preparing, history[1].Status())
	suite.Equal(order.Ready, history[2].Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_ClearsAssignmentOnRejection() {
	ctx := context.Background()
	aggregate := suite.createTestOrder()
	pharmacy := suite.pharmacyActor(aggregate)
	suite.Require().NoError(aggregate.Confirm(pharmacy))
	suite.Require().NoError(aggregate.StartPreparing(pharmacy))
	suite.Require().NoError(aggregate.MarkReady(pharmacy))
	agentID := kernel.NewUUID()
	suite.Require().NoError(aggregate.ProposeAgent(pharmacy, agentID))
	suite.Require().NoError(suite.repository.Add(ctx, aggregate))

	agentActor, err := order.NewActor(agentID, order.RoleDeliveryAgent)
	suite.Require().NoError(err)
	suite.Require().NoError(aggregate.RespondToAssignment(agentActor, false))
	suite.Require().NoError(suite.repository.Update(ctx, aggregate))

	restored, err := suite.repository.Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Ready, restored.Status())
	suite.Nil(restored.DeliveryAgent())
	suite.Nil(restored.AgentProposedAt())

	history := restored.History()
	suite.Require().Len(history, 4)
	suite.Equal(order.Ready, history[3].Status())
	suite.Equal("assignment rejected by agent", history[3].Note())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsTrackingLocation() {
	ctx := context.Background()
	aggregate := suite.createTestOrder()
	pharmacy := suite.pharmacyActor(aggregate)
	suite.Require().NoError(aggregate.Confirm(pharmacy))
	suite.Require().NoError(aggregate.StartPreparing(pharmacy))
	suite.Require().NoError(aggregate.MarkReady(pharmacy))
	agentID := kernel.NewUUID()
	suite.Require().NoError(aggregate.ProposeAgent(pharmacy, agentID))
	agentActor, err := order.NewActor(agentID, order.RoleDeliveryAgent)
	suite.Require().NoError(err)
	suite.Require().NoError(aggregate.RespondToAssignment(agentActor, true))
	suite.Require().NoError(suite.repository.Add(ctx, aggregate))

	location, err := kernel.NewGeoPoint(31.97, 35.89)
	suite.Require().NoError(err)
	suite.Require().NoError(aggregate.UpdateTrackingLocation(agentActor, location))
	suite.Require().NoError(suite.repository.Update(ctx, aggregate))

	restored, err := suite.repository.Get(ctx, aggregate.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(restored.TrackingLocation())
	suite.True(restored.TrackingLocation().IsEqual(location))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NotFound() {
	err := suite.repository.Update(context.Background(), suite.createTestOrder())
	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllAwaitingAcceptanceBefore() {
	ctx := context.Background()

	overdue := suite.createTestOrder()
	pharmacy := suite.pharmacyActor(overdue)
	suite.Require().NoError(overdue.Confirm(pharmacy))
	suite.Require().NoError(overdue.StartPreparing(pharmacy))
	suite.Require().NoError(overdue.MarkReady(pharmacy))
	suite.Require().NoError(overdue.ProposeAgent(pharmacy, kernel.NewUUID()))
	suite.Require().NoError(suite.repository.Add(ctx, overdue))

	fresh := suite.createTestOrder()
	suite.Require().NoError(suite.repository.Add(ctx, fresh))

	cutoff := time.Now().Add(time.Minute)
	found, err := suite.repository.GetAllAwaitingAcceptanceBefore(ctx, cutoff)
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.True(found[0].ID().IsEqual(overdue.ID()))

	past := time.Now().Add(-time.Hour)
	none, err := suite.repository.GetAllAwaitingAcceptanceBefore(ctx, past)
	suite.Require().NoError(err)
	suite.Empty(none)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
