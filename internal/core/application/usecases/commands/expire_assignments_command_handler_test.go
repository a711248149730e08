package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pharmaflow/internal/core/application/usecases/commands"
	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/core/domain/model/order"
	"pharmaflow/internal/pkg/locks"
)

func overdueOrder(t *testing.T, proposedAt time.Time) *order.Order {
	t.Helper()

	pharmacyID := kernel.NewUUID()
	source := proposedOrder(t, pharmacyID, kernel.NewUUID())

	restored, err := order.RestoreOrder(
		source.ID(), source.PharmacyID(), source.CustomerID(), source.Items(),
		source.DeliveryAddress(), source.PaymentMethod(), order.PendingAcceptance,
		source.History(), source.DeliveryAgent(), &proposedAt, nil)
	require.NoError(t, err)
	return restored
}

func TestExpireAssignmentsCommandHandler_Handle_ExpiresOverdue(t *testing.T) {
	ctx := t.Context()
	timeout := 2 * time.Minute
	proposedAt := time.Now().Add(-5 * time.Minute)
	aggregate := overdueOrder(t, proposedAt)

	cmd, err := commands.NewExpireAssignmentsCommand(timeout)
	require.NoError(t, err)

	queryRepo := new(MockOrderRepository)
	queryUow := new(MockUoW)
	mock.InOrder(
		queryUow.On("Begin", ctx).Return(nil).Once(),
		queryUow.On("OrderRepository").Return(queryRepo).Once(),
		queryRepo.On("GetAllAwaitingAcceptanceBefore", mock.Anything, mock.AnythingOfType("time.Time")).
			Return([]*order.Order{aggregate}, nil).Once(),
		queryUow.On("Commit", ctx).Return(nil).Once(),
		queryUow.On("Rollback", ctx).Return(nil).Once(),
	)

	expireRepo := new(MockOrderRepository)
	expireUow := new(MockUoW)
	mock.InOrder(
		expireUow.On("Begin", ctx).Return(nil).Once(),
		expireUow.On("OrderRepository").Return(expireRepo).Once(),
		expireRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		expireUow.On("OrderRepository").Return(expireRepo).Once(),
		expireRepo.On("Update", mock.Anything, aggregate).Return(nil).Once(),
		expireUow.On("Commit", ctx).Return(nil).Once(),
		expireUow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(queryUow).Once(),
		factory.On("Create").Return(expireUow).Once(),
	)

	publisher := new(MockEventPublisher)
	publisher.On("PublishStatusChanged", aggregate).Once()

	h := commands.NewExpireAssignmentsCommandHandler(factory, publisher, locks.NewKeyedMutex())
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.Ready, aggregate.Status())
	assert.Nil(t, aggregate.DeliveryAgent())
	history := aggregate.History()
	require.NotEmpty(t, history)
	assert.Equal(t, "assignment acceptance timed out", history[len(history)-1].Note())
	publisher.AssertExpectations(t)
}

func TestExpireAssignmentsCommandHandler_Handle_RacedResponseWins(t *testing.T) {
	ctx := t.Context()
	timeout := 2 * time.Minute
	// listed as overdue, but by the locked re-read the agent has accepted
	agentID := kernel.NewUUID()
	aggregate := assignedOrder(t, kernel.NewUUID(), agentID)

	cmd, err := commands.NewExpireAssignmentsCommand(timeout)
	require.NoError(t, err)

	queryRepo := new(MockOrderRepository)
	queryUow := new(MockUoW)
	mock.InOrder(
		queryUow.On("Begin", ctx).Return(nil).Once(),
		queryUow.On("OrderRepository").Return(queryRepo).Once(),
		queryRepo.On("GetAllAwaitingAcceptanceBefore", mock.Anything, mock.AnythingOfType("time.Time")).
			Return([]*order.Order{aggregate}, nil).Once(),
		queryUow.On("Commit", ctx).Return(nil).Once(),
		queryUow.On("Rollback", ctx).Return(nil).Once(),
	)

	expireRepo := new(MockOrderRepository)
	expireUow := new(MockUoW)
	mock.InOrder(
		expireUow.On("Begin", ctx).Return(nil).Once(),
		expireUow.On("OrderRepository").Return(expireRepo).Once(),
		expireRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		expireUow.On("Commit", ctx).Return(nil).Once(),
		expireUow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(queryUow).Once(),
		factory.On("Create").Return(expireUow).Once(),
	)

	publisher := new(MockEventPublisher)

	h := commands.NewExpireAssignmentsCommandHandler(factory, publisher, locks.NewKeyedMutex())
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.Assigned, aggregate.Status())
	expireRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "PublishStatusChanged", mock.Anything)
}

func TestNewExpireAssignmentsCommand_RejectsNonPositiveTimeout(t *testing.T) {
	_, err := commands.NewExpireAssignmentsCommand(0)
	require.Error(t, err)

	_, err = commands.NewExpireAssignmentsCommand(-time.Minute)
	require.Error(t, err)
}
