package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRecordPaymentCommandIsNotConstructed = errors.New(
	"RecordPaymentCommand must be created via NewRecordPaymentCommand constructor",
)

// RecordPaymentCommand opens a payment of an arbitrary amount against an order.
type RecordPaymentCommand struct {
	actor       role.Actor
	orderID     kernel.UUID
	paymentType payment.Type
	mode        string
	amount      kernel.Money

	guard guard.ConstructorGuard
}

func NewRecordPaymentCommand(
	actor role.Actor,
	orderID kernel.UUID,
	paymentType payment.Type,
	mode string,
	amount kernel.Money,
) (RecordPaymentCommand, error) {
	var modeErr error
	if strings.TrimSpace(mode) == "" {
		modeErr = errs.NewValueIsRequiredError("mode")
	}

	if err := errors.Join(
		actor.Validate(),
		orderID.Validate(),
		paymentType.Validate(),
		modeErr,
		amount.Validate(),
	); err != nil {
		return RecordPaymentCommand{}, err
	}

	return RecordPaymentCommand{
		actor:       actor,
		orderID:     orderID,
		paymentType: paymentType,
		mode:        mode,
		amount:      amount,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c RecordPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRecordPaymentCommandIsNotConstructed)
}

func (c RecordPaymentCommand) Actor() role.Actor { return c.actor }
func (c RecordPaymentCommand) OrderID() kernel.UUID { return c.orderID }
func (c RecordPaymentCommand) Type() payment.Type { return c.paymentType }
func (c RecordPaymentCommand) Mode() string { return c.mode }
func (c RecordPaymentCommand) Amount() kernel.Money { return c.amount }
