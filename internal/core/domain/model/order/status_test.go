package order_test

import (
	"testing"

	"pharmaflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allStatuses() []order.Status {
	return []order.Status{
		order.Pending, order.Confirmed, order.Preparing, order.Ready,
		order.PendingAcceptance, order.Assigned, order.OutForDelivery,
		order.Delivered, order.Cancelled,
	}
}

func TestStatus_String(t *testing.T) {
	cases := map[order.Status]string{
		order.Unknown:           "unknown",
		order.Pending:           "pending",
		order.Confirmed:         "confirmed",
		order.Preparing:         "preparing",
		order.Ready:             "ready",
		order.PendingAcceptance: "pending_acceptance",
		order.Assigned:          "assigned",
		order.OutForDelivery:    "out_for_delivery",
		order.Delivered:         "delivered",
		order.Cancelled:         "cancelled",
	}
	for status, want := range cases {
		assert.Equal(t, want, status.String())
	}
	assert.Equal(t, "unknown", order.Status(99).String())
}

func TestStatus_Validate(t *testing.T) {
	for _, s := range allStatuses() {
		require.NoError(t, s.Validate(), s.String())
	}
	require.Error(t, order.Unknown.Validate())
	require.Error(t, order.Status(99).Validate())
}

// Each transition method must accept exactly one source status and reject
// every other, leaving the caller to surface the failed precondition.
func TestStatus_TransitionTable(t *testing.T) {
	transitions := []struct {
		name string
		from order.Status
		to   order.Status
		call func(order.Status) (order.Status, error)
	}{
		{"Confirm", order.Pending, order.Confirmed, order.Status.Confirm},
		{"StartPreparing", order.Confirmed, order.Preparing, order.Status.StartPreparing},
		{"MarkReady", order.Preparing, order.Ready, order.Status.MarkReady},
		{"Propose", order.Ready, order.PendingAcceptance, order.Status.Propose},
		{"Accept", order.PendingAcceptance, order.Assigned, order.Status.Accept},
		{"Reject", order.PendingAcceptance, order.Ready, order.Status.Reject},
		{"Dispatch", order.Assigned, order.OutForDelivery, order.Status.Dispatch},
		{"Deliver", order.OutForDelivery, order.Delivered, order.Status.Deliver},
	}

	for _, tc := range transitions {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.call(tc.from)
			require.NoError(t, err)
			assert.Equal(t, tc.to, got)

			for _, from := range allStatuses() {
				if from == tc.from {
					continue
				}
				// Reject shares its source status with Accept.
				if tc.name == "Reject" && from == order.PendingAcceptance {
					continue
				}
				_, err := tc.call(from)
				require.Error(t, err, "%s from %s must fail", tc.name, from)
			}
		})
	}
}

func TestStatus_Cancel(t *testing.T) {
	t.Run("allowed from every non-terminal status", func(t *testing.T) {
		for _, s := range allStatuses() {
			if s.IsTerminal() {
				continue
			}
			got, err := s.Cancel()
			require.NoError(t, err, s.String())
			assert.Equal(t, order.Cancelled, got)
		}
	})

	t.Run("rejected from terminal statuses", func(t *testing.T) {
		_, err := order.Delivered.Cancel()
		require.Error(t, err)

		_, err = order.Cancelled.Cancel()
		require.Error(t, err)
	})

	t.Run("rejected for unknown status", func(t *testing.T) {
		_, err := order.Unknown.Cancel()
		require.Error(t, err)
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, order.Delivered.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())
	for _, s := range []order.Status{
		order.Pending, order.Confirmed, order.Preparing, order.Ready,
		order.PendingAcceptance, order.Assigned, order.OutForDelivery,
	} {
		assert.False(t, s.IsTerminal(), s.String())
	}
}

func TestStatus_AllowsLocationUpdate(t *testing.T) {
	assert.True(t, order.Assigned.AllowsLocationUpdate())
	assert.True(t, order.OutForDelivery.AllowsLocationUpdate())
	for _, s := range []order.Status{
		order.Pending, order.Confirmed, order.Preparing, order.Ready,
		order.PendingAcceptance, order.Delivered, order.Cancelled,
	} {
		assert.False(t, s.AllowsLocationUpdate(), s.String())
	}
}

func TestStatus_ValidateCanHaveAgent(t *testing.T) {
	t.Run("pre-assignment statuses must not carry an agent", func(t *testing.T) {
		for _, s := range []order.Status{order.Pending, order.Confirmed, order.Preparing, order.Ready} {
			require.Error(t, s.ValidateCanHaveAgent(true), s.String())
			require.NoError(t, s.ValidateCanHaveAgent(false), s.String())
		}
	})

	t.Run("assignment statuses require an agent", func(t *testing.T) {
		for _, s := range []order.Status{order.PendingAcceptance, order.Assigned, order.OutForDelivery} {
			require.NoError(t, s.ValidateCanHaveAgent(true), s.String())
			require.Error(t, s.ValidateCanHaveAgent(false), s.String())
		}
	})

	t.Run("terminal statuses accept either", func(t *testing.T) {
		for _, s := range []order.Status{order.Delivered, order.Cancelled} {
			require.NoError(t, s.ValidateCanHaveAgent(true), s.String())
			require.NoError(t, s.ValidateCanHaveAgent(false), s.String())
		}
	})
}
