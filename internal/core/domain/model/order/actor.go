package order

import (
	"fmt"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/pkg/errs"
)

// Role identifies which kind of participant is acting on an order. The
// authentication collaborator supplies the role together with the actor's
// identity; the aggregate independently re-checks both on every transition.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	RoleUnknown Role = iota

	// RoleCustomer is the patient who placed the order.
	RoleCustomer

	// RolePharmacy is the pharmacy fulfilling the order.
	RolePharmacy

	// RoleDeliveryAgent is the courier delivering the order.
	RoleDeliveryAgent
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleCustomer:      "customer",
		RolePharmacy:      "pharmacy",
		RoleDeliveryAgent: "delivery_agent",
	}
}

// String returns the wire name of the role.
func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "unknown"
}

// RoleFromString parses a wire role name ("customer", "pharmacy", "delivery_agent").
func RoleFromString(s string) (Role, error) {
	for role, str := range getRoleStrings() {
		if str == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role",
		fmt.Errorf("%q is not a valid role", s))
}

// Validate checks that the Role is one of the defined roles.
func (r Role) Validate() error {
	if _, ok := getRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// Actor is the authenticated identity performing an operation on an order.
type Actor struct {
	id   kernel.UUID
	role Role
}

// NewActor creates an Actor from a validated identity and role.
func NewActor(id kernel.UUID, role Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role}, nil
}

// ID returns the actor's identity.
func (a Actor) ID() kernel.UUID {
	return a.id
}

// Role returns the actor's role.
func (a Actor) Role() Role {
	return a.role
}

// Validate ensures the Actor carries a constructed identity and a known role.
func (a Actor) Validate() error {
	if err := a.id.Validate(); err != nil {
		return err
	}
	return a.role.Validate()
}
