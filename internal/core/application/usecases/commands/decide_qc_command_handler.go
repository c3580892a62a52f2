package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/auditlog"
	"fulfillment/internal/pkg/errs"
)

// DecideQCCommandHandler records the Admin decision on a pending deliverable.
// A rejection does not move the order; Admin sends it back to Operations
// with a forward.
type DecideQCCommandHandler struct {
	uowFactory UoWFactory
}

func NewDecideQCCommandHandler(uowFactory UoWFactory) DecideQCCommandHandler {
	return DecideQCCommandHandler{uowFactory: uowFactory}
}

func (h DecideQCCommandHandler) Handle(ctx context.Context, cmd DecideQCCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	actor := cmd.Actor()
	if err := actor.Require(actor.Role().CanDecideQC(), "decide quality checks"); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	unlocked, err := uow.DeliverableRepository().Get(ctx, cmd.DeliverableID())
	if err != nil {
		return err
	}
	o, err := uow.OrderRepository().GetForUpdate(ctx, unlocked.OrderID())
	if err != nil {
		return err
	}
	d, err := uow.DeliverableRepository().Get(ctx, cmd.DeliverableID())
	if err != nil {
		return err
	}

	if o.IsTerminal() {
		return errs.NewConflictError("order", fmt.Sprintf("order is %s", o.Status()))
	}
	if err = actor.Require(o.IsOwnedBy(actor), fmt.Sprintf("check an order owned by %s", o.Stage())); err != nil {
		return err
	}

	if err = d.Decide(cmd.Decision(), cmd.Remarks(), now()); err != nil {
		return err
	}

	if err = uow.DeliverableRepository().Update(ctx, d); err != nil {
		return err
	}

	remarks := fmt.Sprintf("version %d %s", d.Version(), d.QCStatus())
	if cmd.Remarks() != "" {
		remarks += ": " + cmd.Remarks()
	}
	if err = appendAudit(ctx, uow, o.ID(), actor, noHandoff, auditlog.DeliverableReviewed, remarks); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
