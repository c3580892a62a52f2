package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a customer purchasing a service.
// The order snapshots the service price and advance and opens its first payment.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(customer, serviceID, "card")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
//	// result.PaymentLink is empty when the gateway could not be reached
type CreateOrderCommand struct {
	actor     role.Actor
	serviceID kernel.UUID
	mode      string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Validates that the actor is a customer, the service id is set and a payment mode is given.
func NewCreateOrderCommand(actor role.Actor, serviceID kernel.UUID, mode string) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setActor(actor),
		cmd.setServiceID(serviceID),
		cmd.setMode(mode),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Actor() role.Actor {
	return c.actor
}

func (c CreateOrderCommand) ServiceID() kernel.UUID {
	return c.serviceID
}

// Mode returns the payment mode chosen by the customer, e.g. "card".
func (c CreateOrderCommand) Mode() string {
	return c.mode
}

func (c *CreateOrderCommand) setActor(actor role.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if err := actor.Require(actor.Role().CanPurchase(), "purchase services"); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *CreateOrderCommand) setServiceID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("service", err)
	}
	c.serviceID = id
	return nil
}

func (c *CreateOrderCommand) setMode(mode string) error {
	mode = strings.TrimSpace(mode)
	if mode == "" {
		return errs.NewValueIsRequiredError("mode")
	}
	c.mode = mode
	return nil
}
