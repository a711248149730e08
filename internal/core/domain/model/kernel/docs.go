// Package kernel contains shared value objects used across aggregates:
// identifiers, geographic points, and delivery addresses. All types here are
// immutable after construction and validate their invariants in their
// constructor functions.
package kernel
