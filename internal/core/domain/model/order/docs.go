// Package order provides the Order aggregate root of the fulfillment service.
// An order is one purchased compliance service moving through the pipeline
// customer -> sales -> accounts -> operations -> admin.
//
// The package includes:
//   - Order: the aggregate root holding identity, pricing snapshot, assignment
//     and the two orthogonal lifecycle axes
//   - Status: the fulfillment state machine
//     (awaiting_payment -> awaiting_docs -> under_review -> in_progress -> completed, or failed)
//   - PaymentStatus: the payment axis (unpaid -> partially_paid -> paid, or failed)
//
// Key business rules:
//   - Status and payment status are independent; a transition may require a
//     payment status but never sets it
//   - Payment status is always derived from the sum of successful payments
//     and never regresses
//   - The order carries an explicit stage (the role that owns it) next to its status
//   - completed requires paid and an approved deliverable; it is only reachable
//     through Complete
//   - completed and failed are terminal; any further transition is a conflict
package order
