package agent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmaflow/internal/core/domain/model/agent"
	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/pkg/errs"
)

func TestNewDeliveryAgent(t *testing.T) {
	t.Run("creates an available agent", func(t *testing.T) {
		id := kernel.NewUUID()

		created, err := agent.NewDeliveryAgent(id, "Sami", "+962791111111")
		require.NoError(t, err)

		assert.NoError(t, created.Validate())
		assert.True(t, created.ID().IsEqual(id))
		assert.Equal(t, "Sami", created.Name())
		assert.Equal(t, "+962791111111", created.Phone())
		assert.True(t, created.IsAvailable())
	})

	t.Run("requires id, name and phone", func(t *testing.T) {
		_, err := agent.NewDeliveryAgent(kernel.UUID{}, "Sami", "+962791111111")
		assert.Error(t, err)

		_, err = agent.NewDeliveryAgent(kernel.NewUUID(), "", "+962791111111")
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)

		_, err = agent.NewDeliveryAgent(kernel.NewUUID(), "Sami", "")
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestRestoreDeliveryAgent(t *testing.T) {
	restored, err := agent.RestoreDeliveryAgent(kernel.NewUUID(), "Sami", "+962791111111", false)
	require.NoError(t, err)

	assert.NoError(t, restored.Validate())
	assert.False(t, restored.IsAvailable())
}

func TestDeliveryAgentSetAvailability(t *testing.T) {
	created, err := agent.NewDeliveryAgent(kernel.NewUUID(), "Sami", "+962791111111")
	require.NoError(t, err)

	created.SetAvailability(false)
	assert.False(t, created.IsAvailable())

	created.SetAvailability(true)
	assert.True(t, created.IsAvailable())
}

func TestDeliveryAgentValidateNotConstructed(t *testing.T) {
	var zero agent.DeliveryAgent
	assert.ErrorIs(t, zero.Validate(), agent.ErrDeliveryAgentIsNotConstructed)
}
