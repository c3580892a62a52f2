package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const maxRemarksLength = 1000

var ErrForwardOrderCommandIsNotConstructed = errors.New(
	"ForwardOrderCommand must be created via NewForwardOrderCommand constructor",
)

// ForwardOrderCommand hands an order to a staff user of the next stage.
// The target stage is the target user's role.
type ForwardOrderCommand struct {
	actor      role.Actor
	orderID    kernel.UUID
	targetUser kernel.UUID
	remarks    string

	guard guard.ConstructorGuard
}

func NewForwardOrderCommand(
	actor role.Actor,
	orderID kernel.UUID,
	targetUser kernel.UUID,
	remarks string,
) (ForwardOrderCommand, error) {
	remarks = strings.TrimSpace(remarks)

	var targetErr error
	if err := targetUser.Validate(); err != nil {
		targetErr = errs.NewValueIsRequiredErrorWithCause("target user", err)
	}

	if err := errors.Join(
		actor.Validate(),
		orderID.Validate(),
		targetErr,
		checkRemarks(remarks),
	); err != nil {
		return ForwardOrderCommand{}, err
	}

	return ForwardOrderCommand{
		actor:      actor,
		orderID:    orderID,
		targetUser: targetUser,
		remarks:    remarks,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ForwardOrderCommand) Validate() error {
	return c.guard.Validate(ErrForwardOrderCommandIsNotConstructed)
}

func (c ForwardOrderCommand) Actor() role.Actor { return c.actor }
func (c ForwardOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c ForwardOrderCommand) TargetUser() kernel.UUID { return c.targetUser }
func (c ForwardOrderCommand) Remarks() string { return c.remarks }

func checkRemarks(remarks string) error {
	if len(remarks) > maxRemarksLength {
		return errs.NewValueIsOutOfRangeError("remarks", len(remarks), 0, maxRemarksLength)
	}
	return nil
}
