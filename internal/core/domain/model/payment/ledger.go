package payment

import (
	"fulfillment/internal/core/domain/model/kernel"
)

// Ledger is the read model over every payment recorded for one order.
type Ledger struct {
	payments []*Payment
}

// NewLedger builds a ledger from the order's payments.
func NewLedger(payments []*Payment) Ledger {
	return Ledger{payments: payments}
}

// Succeeded sums every successful payment.
func (l Ledger) Succeeded() kernel.Money {
	sum := kernel.ZeroMoney()
	for _, p := range l.payments {
		if p.IsSucceeded() {
			sum = sum.Add(p.amount)
		}
	}
	return sum
}

// Initiated sums payments still waiting for the gateway outcome.
func (l Ledger) Initiated() kernel.Money {
	sum := kernel.ZeroMoney()
	for _, p := range l.payments {
		if p.status == Initiated {
			sum = sum.Add(p.amount)
		}
	}
	return sum
}

// IsOnlyAttempt reports whether id is the order's single payment attempt that
// can still matter: no other payment succeeded or is awaiting an outcome.
// A failure of the only attempt fails the order.
func (l Ledger) IsOnlyAttempt(id kernel.UUID) bool {
	for _, p := range l.payments {
		if p.id.IsEqual(id) {
			continue
		}
		if p.status == Success || p.status == Initiated {
			return false
		}
	}
	return true
}

// Len returns the number of recorded payments.
func (l Ledger) Len() int {
	return len(l.payments)
}
