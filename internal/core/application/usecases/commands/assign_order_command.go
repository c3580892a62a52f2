package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrAssignOrderCommandIsNotConstructed = errors.New(
		"AssignOrderCommand must be created via NewAssignOrderCommand constructor",
	)
	ErrDispatchOrderCommandIsNotConstructed = errors.New(
		"DispatchOrderCommand must be created via NewDispatchOrderCommand constructor",
	)
)

// AssignOrderCommand gives an unowned order to a member of its current stage.
// Issued by the system dispatcher or by an admin.
type AssignOrderCommand struct {
	actor      role.Actor
	orderID    kernel.UUID
	targetUser kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignOrderCommand(actor role.Actor, orderID, targetUser kernel.UUID) (AssignOrderCommand, error) {
	var actorErr error
	if err := actor.Validate(); err != nil {
		actorErr = err
	} else {
		actorErr = actor.Require(actor.Role() == role.System || actor.Role() == role.Admin, "assign orders")
	}

	var targetErr error
	if err := targetUser.Validate(); err != nil {
		targetErr = errs.NewValueIsRequiredErrorWithCause("target user", err)
	}

	if err := errors.Join(actorErr, orderID.Validate(), targetErr); err != nil {
		return AssignOrderCommand{}, err
	}

	return AssignOrderCommand{
		actor:      actor,
		orderID:    orderID,
		targetUser: targetUser,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AssignOrderCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrderCommandIsNotConstructed)
}

func (c AssignOrderCommand) Actor() role.Actor { return c.actor }
func (c AssignOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c AssignOrderCommand) TargetUser() kernel.UUID { return c.targetUser }

// DispatchOrderCommand triggers assignment of the oldest unowned order of a
// stage to the least loaded member of that stage.
//
// Example:
//
//	cmd := NewDispatchOrderCommand(role.Sales)
//	err := handler.Handle(ctx, cmd)
//	if errors.Is(err, ErrNoOrderFound) {
//	    // nothing to dispatch
//	}
type DispatchOrderCommand struct {
	stage role.Role

	guard guard.ConstructorGuard
}

func NewDispatchOrderCommand(stage role.Role) (DispatchOrderCommand, error) {
	if !stage.IsStaff() {
		return DispatchOrderCommand{}, errs.NewValueIsInvalidError("stage")
	}
	return DispatchOrderCommand{stage: stage, guard: guard.NewConstructorGuard()}, nil
}

func (c DispatchOrderCommand) Validate() error {
	return c.guard.Validate(ErrDispatchOrderCommandIsNotConstructed)
}

func (c DispatchOrderCommand) Stage() role.Role { return c.stage }
