package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/auditlog"
	"fulfillment/internal/core/domain/model/deliverable"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/pkg/errs"
)

// ApproveCompletionCommandHandler completes an order held by Admin.
// The order must be in_progress and paid with at least one approved deliverable.
// Approving a completed order again is a ConflictError.
type ApproveCompletionCommandHandler struct {
	uowFactory UoWFactory
}

func NewApproveCompletionCommandHandler(uowFactory UoWFactory) ApproveCompletionCommandHandler {
	return ApproveCompletionCommandHandler{uowFactory: uowFactory}
}

func (h ApproveCompletionCommandHandler) Handle(ctx context.Context, cmd ApproveCompletionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	actor := cmd.Actor()
	if err := actor.Require(actor.Role().CanApproveCompletion(), "complete orders"); err != nil {
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
	if err = actor.Require(o.IsOwnedBy(actor), fmt.Sprintf("complete an order owned by %s", o.Stage())); err != nil {
		return err
	}

	deliverables, err := uow.DeliverableRepository().ListByOrder(ctx, o.ID())
	if err != nil {
		return err
	}
	if err = o.Complete(deliverable.HasApproved(deliverables)); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	if err = appendAudit(ctx, uow, o.ID(), actor, noHandoff, auditlog.OrderCompleted, cmd.Remarks()); err != nil {
		return err
	}
	if err = enqueue(ctx, uow, o.ID(), o.CustomerID(), notification.OrderCompleted, map[string]string{
		"total": o.Total().String(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
