package payment

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status is the gateway outcome of a payment attempt.
//
//	Initiated ──> Success
//	    └───────> Failed
type Status int

const (
	StatusUnknown Status = iota
	Initiated
	Success
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "unknown",
		Initiated:     "initiated",
		Success:       "success",
		Failed:        "failed",
	}
}

func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if s <= StatusUnknown || s > Failed {
		return errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Type names what a payment is for.
type Type string

const (
	TypeUnknown Type = ""
	// Advance is the first payment of a service that has an advance amount.
	Advance Type = "advance"
	// Full is the first payment of a service without advance.
	Full Type = "full"
	// PendingBalance settles total minus everything paid so far.
	PendingBalance Type = "pending_balance"
)

func ParseType(s string) (Type, error) {
	t := Type(s)
	if err := t.Validate(); err != nil {
		return TypeUnknown, err
	}
	return t, nil
}

func (t Type) Validate() error {
	switch t {
	case Advance, Full, PendingBalance:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payment type", fmt.Errorf("%q is not a valid payment type", string(t)))
	}
}

func (t Type) String() string {
	return string(t)
}
