// Package errs provides standardized error types for the fulfillment service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes error types for every class of failure an order
// lifecycle operation can report:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: malformed input
//   - ObjectNotFoundError: a referenced order, payment, document or deliverable does not exist
//   - AuthorizationError: the acting role may not perform the attempted action
//   - PreconditionFailedError: a gate (payment, documents, deliverable) is not satisfied
//   - ConflictError: the action was already applied or the row changed underneath us
//   - UpstreamError: a collaborator (blob store, gateway, notifier) failed
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is works across wrapping
package errs
