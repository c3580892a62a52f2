// Package payment provides the payment ledger of an order.
//
// A Payment is one attempt reported by the external gateway: it is recorded as
// initiated and later confirmed (success) or failed, exactly once. The order's
// payment status is never stored incrementally; it is derived by a Ledger from
// the sum of every successful payment.
package payment
