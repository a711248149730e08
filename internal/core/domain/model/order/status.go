package order

import (
	"fmt"

	"pharmaflow/internal/pkg/errs"
)

// Status represents the lifecycle state of a pharmacy order.
//
// State transitions:
//
//	pending ──> confirmed ──> preparing ──> ready ──> pending_acceptance ──> assigned ──> out_for_delivery ──> delivered
//	                                          ^               │
//	                                          └───────────────┘
//	                                     (agent rejects or acceptance times out)
//
// cancelled is reachable from every non-terminal state. delivered and
// cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the initial status of a freshly placed order, awaiting
	// confirmation by the pharmacy.
	Pending

	// Confirmed means the pharmacy accepted the order.
	Confirmed

	// Preparing means the pharmacy is picking and packing the medicines.
	Preparing

	// Ready means the order is packed and waiting for a delivery agent.
	Ready

	// PendingAcceptance means a delivery agent has been proposed but has not
	// yet accepted or rejected the assignment.
	PendingAcceptance

	// Assigned means the proposed delivery agent accepted the assignment.
	Assigned

	// OutForDelivery means the agent picked the order up and is en route.
	OutForDelivery

	// Delivered is the terminal success state.
	Delivered

	// Cancelled is the terminal state for orders withdrawn by the pharmacy
	// or the customer before delivery.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:           "unknown",
		Pending:           "pending",
		Confirmed:         "confirmed",
		Preparing:         "preparing",
		Ready:             "ready",
		PendingAcceptance: "pending_acceptance",
		Assigned:          "assigned",
		OutForDelivery:    "out_for_delivery",
		Delivered:         "delivered",
		Cancelled:         "cancelled",
	}
}

// String returns the wire name of the status ("pending", "out_for_delivery", ...).
// Unknown and out-of-range values return "unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate checks that the Status is one of the defined lifecycle states.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// AllowsLocationUpdate reports whether delivery tracking locations are
// accepted in this status.
func (s Status) AllowsLocationUpdate() bool {
	return s == Assigned || s == OutForDelivery
}

// Confirm transitions pending -> confirmed.
func (s Status) Confirm() (Status, error) {
	if s != Pending {
		return 0, s.invalid("confirm")
	}
	return Confirmed, nil
}

// StartPreparing transitions confirmed -> preparing.
func (s Status) StartPreparing() (Status, error) {
	if s != Confirmed {
		return 0, s.invalid("prepare")
	}
	return Preparing, nil
}

// MarkReady transitions preparing -> ready.
func (s Status) MarkReady() (Status, error) {
	if s != Preparing {
		return 0, s.invalid("mark ready")
	}
	return Ready, nil
}

// Propose transitions ready -> pending_acceptance when a delivery agent is
// proposed for the order.
func (s Status) Propose() (Status, error) {
	if s != Ready {
		return 0, s.invalid("propose an agent for")
	}
	return PendingAcceptance, nil
}

// Accept transitions pending_acceptance -> assigned.
func (s Status) Accept() (Status, error) {
	if s != PendingAcceptance {
		return 0, s.invalid("accept")
	}
	return Assigned, nil
}

// Reject transitions pending_acceptance back to ready.
func (s Status) Reject() (Status, error) {
	if s != PendingAcceptance {
		return 0, s.invalid("reject")
	}
	return Ready, nil
}

// Dispatch transitions assigned -> out_for_delivery.
func (s Status) Dispatch() (Status, error) {
	if s != Assigned {
		return 0, s.invalid("dispatch")
	}
	return OutForDelivery, nil
}

// Deliver transitions out_for_delivery -> delivered.
func (s Status) Deliver() (Status, error) {
	if s != OutForDelivery {
		return 0, s.invalid("deliver")
	}
	return Delivered, nil
}

// Cancel transitions any non-terminal status to cancelled.
func (s Status) Cancel() (Status, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if s.IsTerminal() {
		return 0, s.invalid("cancel")
	}
	return Cancelled, nil
}

// ValidateCanHaveAgent validates consistency between the status and the
// presence of a delivery agent. Orders before pending_acceptance must not
// reference an agent; assigned and out_for_delivery orders must.
func (s Status) ValidateCanHaveAgent(hasAgent bool) error {
	requiresAgent := s == PendingAcceptance || s == Assigned || s == OutForDelivery
	if hasAgent && !requiresAgent && s != Delivered && s != Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have a delivery agent", s))
	}
	if !hasAgent && requiresAgent {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have no delivery agent", s))
	}
	return nil
}

func (s Status) invalid(action string) error {
	return errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%s is not a valid status to %s an order", s, action))
}
