// Package agent contains the DeliveryAgent aggregate: the courier identity
// that pharmacies propose order assignments to.
package agent
