// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the pharmacy system. It
// implements workflows that don't naturally belong to a single aggregate
// root.
//
// The package includes:
//   - PrescriptionMatcher: binds extracted drug mentions to pharmacy stock
//   - OrderRequestBuilder: revalidates an edited match result into an
//     immutable order creation request at submission time
package services
