package order

import (
	"errors"
	"time"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is the aggregate root coordinating a pharmacy order from placement
// through delivery. Three actors mutate it (the customer, the pharmacy and
// the delivery agent) and every mutation goes through a named, actor-gated
// transition method.
//
// Invariants:
//   - line item prices are bound at creation and never recomputed
//   - the status history is append-only and ordered by acceptance time
//   - at most one active (non-rejected) agent assignment exists at a time
//   - a rejected transition leaves the order completely unchanged
type Order struct {
	id         kernel.UUID
	pharmacyID kernel.UUID
	customerID kernel.UUID

	items           []Item
	deliveryAddress kernel.Address
	paymentMethod   PaymentMethod

	status  Status
	history []StatusChange

	// agentID is the proposed or accepted delivery agent, nil when none.
	agentID *kernel.UUID
	// agentProposedAt is set while the assignment awaits the agent's response.
	agentProposedAt *time.Time

	trackingLocation *kernel.GeoPoint

	isConstructed bool
}

// NewOrder creates an order in the pending status from a validated creation
// request. The history starts empty; entries are appended per accepted
// transition.
func NewOrder(
	id kernel.UUID,
	pharmacyID kernel.UUID,
	customerID kernel.UUID,
	items []Item,
	deliveryAddress kernel.Address,
	paymentMethod PaymentMethod,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setPharmacyID(pharmacyID),
		o.setCustomerID(customerID),
		o.setItems(items),
		o.setDeliveryAddress(deliveryAddress),
		o.setPaymentMethod(paymentMethod),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an order from persistence, including its status,
// history, assignment, and tracking location. It validates the consistency
// between status and agent assignment.
func RestoreOrder(
	id kernel.UUID,
	pharmacyID kernel.UUID,
	customerID kernel.UUID,
	items []Item,
	deliveryAddress kernel.Address,
	paymentMethod PaymentMethod,
	status Status,
	history []StatusChange,
	agentID *kernel.UUID,
	agentProposedAt *time.Time,
	trackingLocation *kernel.GeoPoint,
) (*Order, error) {
	o, err := NewOrder(id, pharmacyID, customerID, items, deliveryAddress, paymentMethod)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	if err = status.ValidateCanHaveAgent(agentID != nil); err != nil {
		return nil, err
	}
	if agentID != nil {
		if err = agentID.Validate(); err != nil {
			return nil, err
		}
	}
	if status == PendingAcceptance && agentProposedAt == nil {
		return nil, errs.NewValueIsRequiredError("agent proposal time")
	}

	o.status = status
	o.history = history
	o.agentID = agentID
	o.agentProposedAt = agentProposedAt
	o.trackingLocation = trackingLocation
	return o, nil
}

// Validate ensures the Order was created via NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// PharmacyID returns the pharmacy fulfilling the order.
func (o *Order) PharmacyID() kernel.UUID {
	return o.pharmacyID
}

// CustomerID returns the customer who placed the order.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// DeliveryAddress returns the delivery destination.
func (o *Order) DeliveryAddress() kernel.Address {
	return o.deliveryAddress
}

// PaymentMethod returns how the order is paid.
func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// History returns a copy of the append-only status history, ordered by
// acceptance time.
func (o *Order) History() []StatusChange {
	history := make([]StatusChange, len(o.history))
	copy(history, o.history)
	return history
}

// DeliveryAgent returns the proposed or accepted delivery agent, nil when none.
func (o *Order) DeliveryAgent() *kernel.UUID {
	if o.agentID == nil {
		return nil
	}
	id := *o.agentID
	return &id
}

// AgentProposedAt returns when the pending assignment was proposed, nil
// unless the order is awaiting the agent's response.
func (o *Order) AgentProposedAt() *time.Time {
	if o.agentProposedAt == nil {
		return nil
	}
	t := *o.agentProposedAt
	return &t
}

// TrackingLocation returns the agent's last reported position, nil when the
// agent has not reported one yet.
func (o *Order) TrackingLocation() *kernel.GeoPoint {
	if o.trackingLocation == nil {
		return nil
	}
	loc := *o.trackingLocation
	return &loc
}

// Total returns the advisory sum of line subtotals. The persisted total is
// computed by the order store from the same items.
func (o *Order) Total() float64 {
	var total float64
	for _, item := range o.items {
		total += item.Subtotal()
	}
	return total
}

// Confirm moves the order from pending to confirmed. Pharmacy only.
func (o *Order) Confirm(actor Actor) error {
	return o.pharmacyTransition(actor, "confirm", Status.Confirm)
}

// StartPreparing moves the order from confirmed to preparing. Pharmacy only.
func (o *Order) StartPreparing(actor Actor) error {
	return o.pharmacyTransition(actor, "prepare", Status.StartPreparing)
}

// MarkReady moves the order from preparing to ready. Pharmacy only.
func (o *Order) MarkReady(actor Actor) error {
	return o.pharmacyTransition(actor, "mark ready", Status.MarkReady)
}

// ProposeAgent proposes a delivery agent for a ready order and puts the
// order into pending_acceptance until the agent responds. Only the owning
// pharmacy may propose, and only one proposal may be outstanding at a time.
//
// The proposal is provisional: no history entry is appended until the agent
// accepts (assigned) or rejects (back to ready).
func (o *Order) ProposeAgent(actor Actor, agentID kernel.UUID) error {
	const action = "assign"

	if err := o.requirePharmacy(actor, action); err != nil {
		return err
	}
	if err := agentID.Validate(); err != nil {
		return err
	}
	if o.status == PendingAcceptance {
		return &AssignmentInProgressError{OrderID: o.id, ProposedAgentID: *o.agentID}
	}

	newStatus, err := o.status.Propose()
	if err != nil {
		return o.invalidTransition(action, actor, err)
	}

	now := time.Now()
	o.status = newStatus
	o.agentID = &agentID
	o.agentProposedAt = &now
	return nil
}

// RespondToAssignment records the proposed agent's accept or reject decision.
// Accepting commits the assignment (status assigned); rejecting clears it and
// returns the order to ready, recording the rejection in the history.
func (o *Order) RespondToAssignment(actor Actor, accept bool) error {
	const action = "respond to assignment of"

	if err := o.requireProposedAgent(actor, action); err != nil {
		return err
	}

	if accept {
		newStatus, err := o.status.Accept()
		if err != nil {
			return o.invalidTransition(action, actor, err)
		}
		o.status = newStatus
		o.agentProposedAt = nil
		o.appendHistory(newStatus, "")
		return nil
	}

	newStatus, err := o.status.Reject()
	if err != nil {
		return o.invalidTransition(action, actor, err)
	}
	o.status = newStatus
	o.agentID = nil
	o.agentProposedAt = nil
	o.appendHistory(newStatus, "assignment rejected by agent")
	return nil
}

// ExpireAssignment reverts a pending acceptance that has been outstanding
// for longer than timeout back to ready, clearing the proposal. It reports
// whether the order changed. Called by the timeout sweep, not by an actor.
func (o *Order) ExpireAssignment(timeout time.Duration) (bool, error) {
	if o.status != PendingAcceptance || o.agentProposedAt == nil {
		return false, nil
	}
	if time.Since(*o.agentProposedAt) < timeout {
		return false, nil
	}

	newStatus, err := o.status.Reject()
	if err != nil {
		return false, err
	}
	o.status = newStatus
	o.agentID = nil
	o.agentProposedAt = nil
	o.appendHistory(newStatus, "assignment acceptance timed out")
	return true, nil
}

// Dispatch moves the order from assigned to out_for_delivery. Assigned
// delivery agent only.
func (o *Order) Dispatch(actor Actor) error {
	const action = "dispatch"

	if err := o.requireAssignedAgent(actor, action); err != nil {
		return err
	}
	newStatus, err := o.status.Dispatch()
	if err != nil {
		return o.invalidTransition(action, actor, err)
	}
	o.status = newStatus
	o.appendHistory(newStatus, "")
	return nil
}

// Deliver moves the order from out_for_delivery to delivered. Assigned
// delivery agent only.
func (o *Order) Deliver(actor Actor) error {
	const action = "deliver"

	if err := o.requireAssignedAgent(actor, action); err != nil {
		return err
	}
	newStatus, err := o.status.Deliver()
	if err != nil {
		return o.invalidTransition(action, actor, err)
	}
	o.status = newStatus
	o.appendHistory(newStatus, "")
	return nil
}

// Cancel moves any non-terminal order to cancelled. The owning pharmacy or
// the ordering customer may cancel; an outstanding agent proposal is cleared.
func (o *Order) Cancel(actor Actor, reason string) error {
	const action = "cancel"

	if err := actor.Validate(); err != nil {
		return err
	}

	owner := (actor.Role() == RolePharmacy && actor.ID().IsEqual(o.pharmacyID)) ||
		(actor.Role() == RoleCustomer && actor.ID().IsEqual(o.customerID))
	if !owner {
		return &InvalidTransitionError{
			Action: action, From: o.status, Actor: actor,
			Reason: "only the owning pharmacy or the ordering customer may cancel",
		}
	}

	newStatus, err := o.status.Cancel()
	if err != nil {
		return o.invalidTransition(action, actor, err)
	}

	if o.status == PendingAcceptance {
		o.agentID = nil
	}
	o.status = newStatus
	o.agentProposedAt = nil
	o.appendHistory(newStatus, reason)
	return nil
}

// UpdateTrackingLocation stores the delivery agent's current position. It is
// accepted while the order is assigned or out_for_delivery and changes
// neither the status nor the history.
func (o *Order) UpdateTrackingLocation(actor Actor, location kernel.GeoPoint) error {
	const action = "report a location for"

	if err := o.requireAssignedAgent(actor, action); err != nil {
		return err
	}
	if err := location.Validate(); err != nil {
		return err
	}
	if !o.status.AllowsLocationUpdate() {
		return &InvalidTransitionError{
			Action: action, From: o.status, Actor: actor,
			Reason: "tracking locations are accepted only while assigned or out for delivery",
		}
	}

	o.trackingLocation = &location
	return nil
}

func (o *Order) pharmacyTransition(actor Actor, action string, next func(Status) (Status, error)) error {
	if err := o.requirePharmacy(actor, action); err != nil {
		return err
	}
	newStatus, err := next(o.status)
	if err != nil {
		return o.invalidTransition(action, actor, err)
	}
	o.status = newStatus
	o.appendHistory(newStatus, "")
	return nil
}

func (o *Order) requirePharmacy(actor Actor, action string) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor.Role() != RolePharmacy || !actor.ID().IsEqual(o.pharmacyID) {
		return &InvalidTransitionError{
			Action: action, From: o.status, Actor: actor,
			Reason: "only the owning pharmacy may perform this transition",
		}
	}
	return nil
}

func (o *Order) requireProposedAgent(actor Actor, action string) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor.Role() != RoleDeliveryAgent || o.agentID == nil || !actor.ID().IsEqual(*o.agentID) {
		return &InvalidTransitionError{
			Action: action, From: o.status, Actor: actor,
			Reason: "only the proposed delivery agent may respond",
		}
	}
	return nil
}

func (o *Order) requireAssignedAgent(actor Actor, action string) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor.Role() != RoleDeliveryAgent || o.agentID == nil || !actor.ID().IsEqual(*o.agentID) {
		return &InvalidTransitionError{
			Action: action, From: o.status, Actor: actor,
			Reason: "only the assigned delivery agent may perform this transition",
		}
	}
	return nil
}

func (o *Order) invalidTransition(action string, actor Actor, cause error) error {
	return &InvalidTransitionError{
		Action: action, From: o.status, Actor: actor, Reason: cause.Error(),
	}
}

func (o *Order) appendHistory(status Status, note string) {
	o.history = append(o.history, StatusChange{
		status:    status,
		timestamp: time.Now(),
		note:      note,
	})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setPharmacyID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.pharmacyID = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.customerID = id
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("order items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setDeliveryAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.deliveryAddress = address
	return nil
}

func (o *Order) setPaymentMethod(method PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	o.paymentMethod = method
	return nil
}
