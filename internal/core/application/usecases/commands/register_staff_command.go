package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/guard"
)

var ErrRegisterStaffCommandIsNotConstructed = errors.New(
	"RegisterStaffCommand must be created via NewRegisterStaffCommand constructor",
)

// RegisterStaffCommand adds a user to the staff directory. The user id comes
// from the identity provider.
type RegisterStaffCommand struct {
	actor  role.Actor
	userID kernel.UUID
	name   string
	role   role.Role

	guard guard.ConstructorGuard
}

func NewRegisterStaffCommand(actor role.Actor, userID kernel.UUID, name string, r role.Role) (RegisterStaffCommand, error) {
	if err := errors.Join(actor.Validate(), userID.Validate(), r.Validate()); err != nil {
		return RegisterStaffCommand{}, err
	}

	return RegisterStaffCommand{
		actor:  actor,
		userID: userID,
		name:   name,
		role:   r,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterStaffCommand) Validate() error {
	return c.guard.Validate(ErrRegisterStaffCommandIsNotConstructed)
}

func (c RegisterStaffCommand) Actor() role.Actor { return c.actor }
func (c RegisterStaffCommand) UserID() kernel.UUID { return c.userID }
func (c RegisterStaffCommand) Name() string { return c.name }
func (c RegisterStaffCommand) Role() role.Role { return c.role }
