package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreatePendingBalanceLinkCommandIsNotConstructed = errors.New(
	"CreatePendingBalanceLinkCommand must be created via NewCreatePendingBalanceLinkCommand constructor",
)

// CreatePendingBalanceLinkCommand asks for a payment of everything still due on
// a partially paid order.
type CreatePendingBalanceLinkCommand struct {
	actor   role.Actor
	orderID kernel.UUID
	mode    string

	guard guard.ConstructorGuard
}

func NewCreatePendingBalanceLinkCommand(actor role.Actor, orderID kernel.UUID, mode string) (CreatePendingBalanceLinkCommand, error) {
	var modeErr error
	if strings.TrimSpace(mode) == "" {
		modeErr = errs.NewValueIsRequiredError("mode")
	}
	if err := errors.Join(actor.Validate(), orderID.Validate(), modeErr); err != nil {
		return CreatePendingBalanceLinkCommand{}, err
	}

	return CreatePendingBalanceLinkCommand{
		actor:   actor,
		orderID: orderID,
		mode:    mode,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CreatePendingBalanceLinkCommand) Validate() error {
	return c.guard.Validate(ErrCreatePendingBalanceLinkCommandIsNotConstructed)
}

func (c CreatePendingBalanceLinkCommand) Actor() role.Actor { return c.actor }
func (c CreatePendingBalanceLinkCommand) OrderID() kernel.UUID { return c.orderID }
func (c CreatePendingBalanceLinkCommand) Mode() string { return c.mode }
