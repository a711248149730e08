package commands_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pharmaflow/internal/core/application/usecases/commands"
	"pharmaflow/internal/core/domain/model/kernel"
)

func TestNewCreateAgentCommand(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cmd, err := commands.NewCreateAgentCommand(kernel.NewUUID(), "Sami", "+962791111111")
		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		_, err := commands.NewCreateAgentCommand(kernel.UUID{}, "Sami", "+962791111111")
		require.Error(t, err)

		_, err = commands.NewCreateAgentCommand(kernel.NewUUID(), "", "+962791111111")
		require.Error(t, err)

		_, err = commands.NewCreateAgentCommand(kernel.NewUUID(), "Sami", "")
		require.Error(t, err)
	})
}

func TestCreateAgentCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateAgentCommand(kernel.NewUUID(), "Sami", "+962791111111")
	require.NoError(t, err)

	agentRepo := new(MockAgentRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		agentRepo.On("Add", mock.Anything, mock.AnythingOfType("*agent.DeliveryAgent")).
			Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockAgentUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateAgentCommandHandler(factory)
	require.NoError(t, h.Handle(ctx, cmd))

	agentRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateAgentCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateAgentCommand(kernel.NewUUID(), "Sami", "+962791111111")
	require.NoError(t, err)

	agentRepo := new(MockAgentRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		agentRepo.On("Add", mock.Anything, mock.AnythingOfType("*agent.DeliveryAgent")).
			Return(errors.New("duplicate key")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockAgentUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateAgentCommandHandler(factory)
	require.Error(t, h.Handle(ctx, cmd))
}
