package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the fulfillment state of an order.
//
// State transitions:
//
//	AwaitingPayment ──> AwaitingDocs ──> UnderReview ──> InProgress ──> Completed
//	       │                                                 ↺ (sent back to operations)
//	       └──> Failed
//
// Statuses are declared in lifecycle order; a request to move to a status the
// order has already reached or passed is reported as a conflict, any other
// illegal move as a failed precondition.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// AwaitingPayment is the initial status; the customer has not paid the required minimum.
	AwaitingPayment

	// AwaitingDocs means the required minimum was paid and onboarding documents are outstanding.
	AwaitingDocs

	// UnderReview means every mandatory document has been verified.
	UnderReview

	// InProgress means Operations owns the order and produces the deliverable.
	InProgress

	// Completed is final: payment complete and a deliverable approved by Admin.
	Completed

	// Failed is final: the payment attempt that would have opened the order failed.
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:         "unknown",
		AwaitingPayment: "awaiting_payment",
		AwaitingDocs:    "awaiting_docs",
		UnderReview:     "under_review",
		InProgress:      "in_progress",
		Completed:       "completed",
		Failed:          "failed",
	}
}

// ParseStatus converts the stored representation back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that the status is one of the defined lifecycle states.
func (s Status) Validate() error {
	if s <= Unknown || s > Failed {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire and storage representation, e.g. "awaiting_docs".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Failed
}

// ConfirmPayment moves AwaitingPayment -> AwaitingDocs once the required minimum is paid.
func (s Status) ConfirmPayment() (Status, error) {
	return s.transition(AwaitingDocs, AwaitingPayment)
}

// FailPayment moves AwaitingPayment -> Failed.
func (s Status) FailPayment() (Status, error) {
	return s.transition(Failed, AwaitingPayment)
}

// VerifyDocuments moves AwaitingDocs -> UnderReview when every mandatory document is verified.
func (s Status) VerifyDocuments() (Status, error) {
	return s.transition(UnderReview, AwaitingDocs)
}

// StartFulfillment moves UnderReview -> InProgress when the order reaches Operations.
// InProgress is accepted too: an order sent back to Operations stays in progress.
func (s Status) StartFulfillment() (Status, error) {
	return s.transition(InProgress, UnderReview, InProgress)
}

// Complete moves InProgress -> Completed.
func (s Status) Complete() (Status, error) {
	return s.transition(Completed, InProgress)
}

func (s Status) transition(target Status, from ...Status) (Status, error) {
	for _, allowed := range from {
		if s == allowed {
			return target, nil
		}
	}

	if s.IsTerminal() || (s >= target && target != Failed) {
		return Unknown, errs.NewConflictError("order status", fmt.Sprintf("order is already %s", s))
	}

	return Unknown, errs.NewPreconditionFailedError(
		"status",
		fmt.Sprintf("%s is not a valid status to move to %s", s, target),
	)
}
