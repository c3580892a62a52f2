package order

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// PaymentStatus is the payment axis of an order, derived from the ledger.
type PaymentStatus int

const (
	PaymentUnknown PaymentStatus = iota
	Unpaid
	PartiallyPaid
	Paid
	// PaymentFailed is only set together with the order moving to Failed.
	PaymentFailed
)

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentUnknown: "unknown",
		Unpaid:         "unpaid",
		PartiallyPaid:  "partially_paid",
		Paid:           "paid",
		PaymentFailed:  "failed",
	}
}

// ParsePaymentStatus converts the stored representation back to a PaymentStatus.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for status, str := range getPaymentStatusStrings() {
		if str == s && status != PaymentUnknown {
			return status, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause(
		"payment status", fmt.Errorf("%q is not a valid payment status", s))
}

func (p PaymentStatus) Validate() error {
	if p <= PaymentUnknown || p > PaymentFailed {
		return errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%d is not a valid payment status", p))
	}
	return nil
}

func (p PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[p]; ok {
		return str
	}
	return "unknown"
}

// DerivePaymentStatus computes the payment axis from the sum of successful payments:
// nothing paid is unpaid, less than total is partially paid, total or more is paid.
func DerivePaymentStatus(total, paid kernel.Money) PaymentStatus {
	switch {
	case paid.IsZero():
		return Unpaid
	case paid.LessThan(total):
		return PartiallyPaid
	default:
		return Paid
	}
}

// CanAdvanceTo reports whether moving to next keeps the axis monotonic:
// unpaid -> partially_paid -> paid, and failed only from unpaid or partially_paid.
func (p PaymentStatus) CanAdvanceTo(next PaymentStatus) bool {
	if next == PaymentFailed {
		return p == Unpaid || p == PartiallyPaid
	}
	if p == PaymentFailed {
		return false
	}
	return next >= p
}
