package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrConfirmPaymentCommandIsNotConstructed = errors.New(
		"ConfirmPaymentCommand must be created via NewConfirmPaymentCommand constructor",
	)
	ErrFailPaymentCommandIsNotConstructed = errors.New(
		"FailPaymentCommand must be created via NewFailPaymentCommand constructor",
	)
)

// ConfirmPaymentCommand is the gateway reporting a successful payment.
// It always runs as the system actor.
type ConfirmPaymentCommand struct {
	paymentID  kernel.UUID
	gatewayRef string

	guard guard.ConstructorGuard
}

func NewConfirmPaymentCommand(paymentID kernel.UUID, gatewayRef string) (ConfirmPaymentCommand, error) {
	if err := validateCallback(paymentID, gatewayRef); err != nil {
		return ConfirmPaymentCommand{}, err
	}
	return ConfirmPaymentCommand{
		paymentID:  paymentID,
		gatewayRef: strings.TrimSpace(gatewayRef),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmPaymentCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPaymentCommandIsNotConstructed)
}

func (c ConfirmPaymentCommand) PaymentID() kernel.UUID { return c.paymentID }
func (c ConfirmPaymentCommand) GatewayRef() string { return c.gatewayRef }

// FailPaymentCommand is the gateway reporting a failed payment.
type FailPaymentCommand struct {
	paymentID  kernel.UUID
	gatewayRef string

	guard guard.ConstructorGuard
}

func NewFailPaymentCommand(paymentID kernel.UUID, gatewayRef string) (FailPaymentCommand, error) {
	if err := validateCallback(paymentID, gatewayRef); err != nil {
		return FailPaymentCommand{}, err
	}
	return FailPaymentCommand{
		paymentID:  paymentID,
		gatewayRef: strings.TrimSpace(gatewayRef),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c FailPaymentCommand) Validate() error {
	return c.guard.Validate(ErrFailPaymentCommandIsNotConstructed)
}

func (c FailPaymentCommand) PaymentID() kernel.UUID { return c.paymentID }
func (c FailPaymentCommand) GatewayRef() string { return c.gatewayRef }

func validateCallback(paymentID kernel.UUID, gatewayRef string) error {
	var refErr error
	if strings.TrimSpace(gatewayRef) == "" {
		refErr = errs.NewValueIsRequiredError("gateway reference")
	}
	return errors.Join(paymentID.Validate(), refErr)
}
