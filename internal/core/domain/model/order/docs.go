// Package order contains the order aggregate: the lifecycle state machine,
// actor-gated transitions, delivery-agent assignment, the append-only status
// history, and delivery tracking. It is the only shared mutable entity in the
// core; callers serialize operations per order before invoking its methods.
package order
