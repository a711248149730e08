package commands

import (
	"errors"
	"fmt"
	"time"

	"pharmaflow/internal/pkg/errs"
	"pharmaflow/internal/pkg/guard"
)

// ErrExpireAssignmentsCommandIsNotConstructed is returned when an
// ExpireAssignmentsCommand was not created via its constructor.
var ErrExpireAssignmentsCommandIsNotConstructed = errors.New(
	"ExpireAssignmentsCommand must be created via NewExpireAssignmentsCommand constructor",
)

// ExpireAssignmentsCommand represents a sweep over orders whose assignment
// proposal has outlived the acceptance window.
type ExpireAssignmentsCommand struct { //nolint:recvcheck //using for validation
	timeout time.Duration

	guard guard.ConstructorGuard
}

// NewExpireAssignmentsCommand creates a sweep command with the acceptance window.
func NewExpireAssignmentsCommand(timeout time.Duration) (ExpireAssignmentsCommand, error) {
	if timeout <= 0 {
		return ExpireAssignmentsCommand{}, errs.NewValueIsInvalidErrorWithCause("timeout",
			fmt.Errorf("%s is not greater than 0", timeout))
	}

	return ExpireAssignmentsCommand{
		timeout: timeout,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ExpireAssignmentsCommand) Validate() error {
	return c.guard.Validate(ErrExpireAssignmentsCommandIsNotConstructed)
}

// Timeout returns how long an agent has to answer a proposal.
func (c ExpireAssignmentsCommand) Timeout() time.Duration {
	return c.timeout
}
