package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateServiceCommandIsNotConstructed = errors.New(
	"CreateServiceCommand must be created via NewCreateServiceCommand constructor",
)

// RequiredDocumentSpec describes one document template of a new service.
type RequiredDocumentSpec struct {
	Code          string
	Name          string
	Mandatory     bool
	AllowMultiple bool
}

// CreateServiceCommand defines a purchasable service. Admin only.
//
// Example:
//
//	price, _ := kernel.MoneyFromString("10000")
//	cmd, err := NewCreateServiceCommand(admin, "GST registration", price, nil, false,
//	    []RequiredDocumentSpec{{Code: "pan_card", Name: "PAN card", Mandatory: true}})
type CreateServiceCommand struct {
	actor     role.Actor
	name      string
	price     kernel.Money
	advance   *kernel.Money
	recurring bool
	documents []RequiredDocumentSpec

	guard guard.ConstructorGuard
}

// NewCreateServiceCommand validates the actor and the amounts; the remaining
// rules are enforced by catalog.NewService.
func NewCreateServiceCommand(
	actor role.Actor,
	name string,
	price kernel.Money,
	advance *kernel.Money,
	recurring bool,
	documents []RequiredDocumentSpec,
) (CreateServiceCommand, error) {
	var advanceErr error
	if advance != nil {
		advanceErr = advance.Validate()
	}
	if err := errors.Join(actor.Validate(), price.Validate(), advanceErr); err != nil {
		return CreateServiceCommand{}, err
	}

	return CreateServiceCommand{
		actor:     actor,
		name:      name,
		price:     price,
		advance:   advance,
		recurring: recurring,
		documents: append([]RequiredDocumentSpec(nil), documents...),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c CreateServiceCommand) Validate() error {
	return c.guard.Validate(ErrCreateServiceCommandIsNotConstructed)
}

func (c CreateServiceCommand) Actor() role.Actor { return c.actor }
func (c CreateServiceCommand) Name() string { return c.name }
func (c CreateServiceCommand) Price() kernel.Money { return c.price }
func (c CreateServiceCommand) Advance() *kernel.Money { return c.advance }
func (c CreateServiceCommand) Recurring() bool { return c.recurring }
func (c CreateServiceCommand) Documents() []RequiredDocumentSpec { return c.documents }
