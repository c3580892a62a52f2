package services

import (
	"fmt"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/errs"
)

// HandoffFacts are the gate results a forward decision depends on.
type HandoffFacts struct {
	// DocumentsSatisfied is the onboarding gate: every mandatory document has a
	// live (not rejected) submission.
	DocumentsSatisfied bool
	// HasDeliverable is true once Operations uploaded at least one version.
	HasDeliverable bool
	// RecurringBlocked is true when a recurring service has a rejected period document.
	RecurringBlocked bool
}

// HandoffPolicy decides whether an order may move from its current stage to a target stage.
//
// Routing table:
//
//	sales      -> accounts    documents satisfied, status under_review
//	sales      -> operations  paid, documents satisfied
//	accounts   -> operations  partially_paid or paid, documents satisfied
//	accounts   -> admin       paid, a deliverable exists
//	operations -> admin       paid, a deliverable exists, recurring gate not blocked
//	operations -> accounts    partially_paid
//	admin      -> operations  in_progress
//
// Partially paid orders therefore reach Admin only through Accounts once the
// balance is settled; paid orders go straight from Operations to Admin.
//
// Example usage:
//
//	policy := services.NewHandoffPolicy()
//	if err := policy.Check(o, role.Operations, services.HandoffFacts{DocumentsSatisfied: true}); err != nil {
//	    return err // PreconditionFailedError naming the gate
//	}
type HandoffPolicy struct{}

func NewHandoffPolicy() HandoffPolicy {
	return HandoffPolicy{}
}

// Check returns a PreconditionFailedError naming the first unmet condition.
func (p HandoffPolicy) Check(o *order.Order, target role.Role, facts HandoffFacts) error {
	if err := o.Validate(); err != nil {
		return err
	}

	from := o.Stage()
	if !from.CanForwardTo(target) {
		return errs.NewPreconditionFailedError("routing", fmt.Sprintf("%s cannot forward an order to %s", from, target))
	}

	paid := o.PaymentStatus() == order.Paid
	partiallyPaid := o.PaymentStatus() == order.PartiallyPaid

	switch {
	case from == role.Sales && target == role.Accounts:
		if err := requireDocuments(facts); err != nil {
			return err
		}
		if o.Status() != order.UnderReview {
			return errs.NewPreconditionFailedError("status", fmt.Sprintf("order is %s, not %s", o.Status(), order.UnderReview))
		}

	case from == role.Sales && target == role.Operations:
		if !paid {
			return requirePayment(o, "sales can forward only paid orders to operations, partially paid orders go to accounts")
		}
		return requireDocuments(facts)

	case from == role.Accounts && target == role.Operations:
		if !paid && !partiallyPaid {
			return requirePayment(o, "the required minimum has not been paid")
		}
		return requireDocuments(facts)

	case from == role.Accounts && target == role.Admin:
		if !paid {
			return requirePayment(o, "orders reach admin only when fully paid")
		}
		if !facts.HasDeliverable {
			return errs.NewPreconditionFailedError("deliverable", "the order has not been through operations yet")
		}

	case from == role.Operations && target == role.Admin:
		if !paid {
			return requirePayment(o, "partially paid orders must be routed to accounts")
		}
		if !facts.HasDeliverable {
			return errs.NewPreconditionFailedError("deliverable", "no deliverable has been uploaded")
		}
		if facts.RecurringBlocked {
			return errs.NewPreconditionFailedError("recurring documents", "a period document is rejected")
		}

	case from == role.Operations && target == role.Accounts:
		if !partiallyPaid {
			return requirePayment(o, "only partially paid orders are routed back to accounts")
		}

	case from == role.Admin && target == role.Operations:
		if o.Status() != order.InProgress {
			return errs.NewPreconditionFailedError("status", fmt.Sprintf("order is %s, not %s", o.Status(), order.InProgress))
		}
	}

	return nil
}

// NextReviewer returns the stage that receives an order after Operations
// delivers: Admin when paid, Accounts while a balance is pending.
func (p HandoffPolicy) NextReviewer(o *order.Order) (role.Role, error) {
	switch o.PaymentStatus() {
	case order.Paid:
		return role.Admin, nil
	case order.PartiallyPaid:
		return role.Accounts, nil
	default:
		return role.Unknown, requirePayment(o, "nothing has been paid")
	}
}

func requireDocuments(facts HandoffFacts) error {
	if !facts.DocumentsSatisfied {
		return errs.NewPreconditionFailedError("documents", "mandatory documents are missing or rejected")
	}
	return nil
}

func requirePayment(o *order.Order, reason string) error {
	return errs.NewPreconditionFailedError("payment", fmt.Sprintf("order is %s: %s", o.PaymentStatus(), reason))
}
