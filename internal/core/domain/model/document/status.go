package document

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status is the review state shared by both document shapes. Order documents
// use Verified, customer documents use Approved.
type Status string

const (
	StatusUnknown Status = ""
	Pending       Status = "pending"
	Verified      Status = "verified"
	Approved      Status = "approved"
	Rejected      Status = "rejected"
)

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if err := st.Validate(); err != nil {
		return StatusUnknown, err
	}
	return st, nil
}

func (s Status) Validate() error {
	switch s {
	case Pending, Verified, Approved, Rejected:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("document status", fmt.Errorf("%q is not a valid status", string(s)))
	}
}

func (s Status) String() string {
	return string(s)
}

// IsAccepted reports a positive review decision of either document shape.
func (s Status) IsAccepted() bool {
	return s == Verified || s == Approved
}

func checkDecision(decision Status, accepted Status) error {
	if decision != accepted && decision != Rejected {
		return errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%q is not one of %s, %s", decision, accepted, Rejected))
	}
	return nil
}
