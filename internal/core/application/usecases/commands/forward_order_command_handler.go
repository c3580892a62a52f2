package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/auditlog"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

// ForwardOrderCommandHandler moves an order to the next stage and assigns it
// to the target user.
//
// Checks run in this order, the first failure wins:
//  1. terminal order: ConflictError
//  2. target stage equals the current stage: ConflictError
//  3. actor is not the owner of the current stage: AuthorizationError
//  4. inactive target user: ValueIsInvalidError
//  5. routing table (services.HandoffPolicy): PreconditionFailedError
//
// Unknown target users are reported as ObjectNotFoundError.
type ForwardOrderCommandHandler struct {
	uowFactory UoWFactory
	policy     services.HandoffPolicy
}

func NewForwardOrderCommandHandler(uowFactory UoWFactory) ForwardOrderCommandHandler {
	return ForwardOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     services.NewHandoffPolicy(),
	}
}

func (h ForwardOrderCommandHandler) Handle(ctx context.Context, cmd ForwardOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	// Non-staff callers learn nothing about the order's stage or status.
	if err := cmd.Actor().Require(cmd.Actor().Role().IsStaff(), "forward orders"); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if o.IsTerminal() {
		return errs.NewConflictError("order", fmt.Sprintf("order is %s", o.Status()))
	}

	member, err := uow.StaffRepository().Get(ctx, cmd.TargetUser())
	if err != nil {
		return err
	}
	target := member.Role()
	if target == o.Stage() {
		return errs.NewConflictError("order", fmt.Sprintf("order is already with %s", target))
	}

	if err = cmd.Actor().Require(o.IsOwnedBy(cmd.Actor()), fmt.Sprintf("forward an order owned by %s", o.Stage())); err != nil {
		return err
	}
	if !member.IsActive() {
		return errs.NewValueIsInvalidErrorWithCause("target user", fmt.Errorf("%s is not active", member.Name()))
	}

	facts, err := handoffFacts(ctx, uow, o)
	if err != nil {
		return err
	}
	if err = h.policy.Check(o, target, facts); err != nil {
		return err
	}

	from := o.Stage()
	if err = o.Forward(target, member.ID()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	if err = appendAudit(ctx, uow, o.ID(), cmd.Actor(), handoffTo(member), auditlog.OrderForwarded, cmd.Remarks()); err != nil {
		return err
	}
	if err = enqueue(ctx, uow, o.ID(), member.ID(), notification.OrderForwarded, map[string]string{
		"from":   from.String(),
		"status": o.Status().String(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
