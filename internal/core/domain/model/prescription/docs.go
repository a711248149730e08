// Package prescription contains the matching side of the domain: drug
// mentions extracted from a prescription, pharmacy inventory snapshots, the
// caller-owned match result with its selections and expiry, and the
// immutable order creation request produced at submission.
package prescription
