// Package services provides domain services that coordinate several aggregates
// of the fulfillment pipeline. They hold business rules that do not belong to a
// single aggregate root.
//
// The package includes:
//   - HandoffPolicy: the payment and gate dependent routing rules between stages
//   - StaffDispatcher: picks the least loaded staff member for an unowned order
//
// Services are stateless; facts that live in other aggregates (documents,
// deliverables) are passed in by the use cases that loaded them.
package services
