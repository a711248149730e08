package order

import (
	"errors"
	"fmt"

	"pharmaflow/internal/core/domain/model/kernel"
)

var (
	// ErrInvalidTransition is the sentinel for transitions attempted by the
	// wrong actor or from an incompatible status.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrAssignmentInProgress is the sentinel for a second agent proposal
	// while one is still awaiting a response.
	ErrAssignmentInProgress = errors.New("assignment already in progress")
)

// InvalidTransitionError reports a rejected transition together with the
// precondition that failed. The order is left unchanged when it is returned.
type InvalidTransitionError struct {
	Action string
	From   Status
	Actor  Actor
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s by %s in status %s: %s",
		ErrInvalidTransition, e.Action, e.Actor.Role(), e.From, e.Reason)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// AssignmentInProgressError reports that an agent proposal was attempted while
// another proposal is still pending acceptance.
type AssignmentInProgressError struct {
	OrderID         kernel.UUID
	ProposedAgentID kernel.UUID
}

func (e *AssignmentInProgressError) Error() string {
	return fmt.Sprintf("%s: order %s is awaiting a response from agent %s",
		ErrAssignmentInProgress, e.OrderID, e.ProposedAgentID)
}

func (e *AssignmentInProgressError) Unwrap() error {
	return ErrAssignmentInProgress
}
