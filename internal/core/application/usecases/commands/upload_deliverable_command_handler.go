package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/auditlog"
	"fulfillment/internal/core/domain/model/deliverable"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

// UploadDeliverableCommandHandler stores a new deliverable version and hands
// the order to the next reviewer in the same transaction: Admin when the order
// is paid, Accounts while a balance is pending. The upload and the hand-off
// are one action with one audit entry.
type UploadDeliverableCommandHandler struct {
	uowFactory UoWFactory
	policy     services.HandoffPolicy
}

func NewUploadDeliverableCommandHandler(uowFactory UoWFactory) UploadDeliverableCommandHandler {
	return UploadDeliverableCommandHandler{
		uowFactory: uowFactory,
		policy:     services.NewHandoffPolicy(),
	}
}

func (h UploadDeliverableCommandHandler) Handle(ctx context.Context, cmd UploadDeliverableCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}
	actor := cmd.Actor()
	if err := actor.Require(actor.Role().CanUploadDeliverable(), "upload deliverables"); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return kernel.UUID{}, err
	}
	if o.IsTerminal() {
		return kernel.UUID{}, errs.NewConflictError("order", fmt.Sprintf("order is %s", o.Status()))
	}
	if err = actor.Require(o.IsOwnedBy(actor), fmt.Sprintf("deliver an order owned by %s", o.Stage())); err != nil {
		return kernel.UUID{}, err
	}
	if o.Status() != order.InProgress && o.Status() != order.UnderReview {
		return kernel.UUID{}, errs.NewPreconditionFailedError(
			"status", fmt.Sprintf("deliverables need an order in fulfillment, order is %s", o.Status()))
	}

	existing, err := uow.DeliverableRepository().ListByOrder(ctx, o.ID())
	if err != nil {
		return kernel.UUID{}, err
	}

	// Forwarding unchanged hands the latest version on again without a new row.
	var d *deliverable.Deliverable
	action := auditlog.DeliverableUploaded
	if cmd.Unchanged() {
		d = latestDeliverable(existing)
		if d == nil {
			return kernel.UUID{}, errs.NewPreconditionFailedError(
				"deliverable", "nothing was delivered yet, upload files instead")
		}
		action = auditlog.DeliverableForwardedUnchanged
	} else {
		d, err = deliverable.NewDeliverable(
			kernel.NewUUID(), o.ID(), deliverable.NextVersion(existing), cmd.Files(), *actor.UserID(), cmd.Remarks(), now())
		if err != nil {
			return kernel.UUID{}, err
		}
	}

	next, err := h.policy.NextReviewer(o)
	if err != nil {
		return kernel.UUID{}, err
	}
	member, err := uow.StaffRepository().Get(ctx, cmd.TargetUser())
	if err != nil {
		return kernel.UUID{}, err
	}
	if member.Role() != next {
		return kernel.UUID{}, errs.NewPreconditionFailedError(
			"routing", fmt.Sprintf("a %s order is reviewed by %s, not %s", o.PaymentStatus(), next, member.Role()))
	}
	if !member.IsActive() {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(
			"target user", fmt.Errorf("%s is not active", member.Name()))
	}

	if !cmd.Unchanged() {
		if err = uow.DeliverableRepository().Add(ctx, d); err != nil {
			return kernel.UUID{}, err
		}
	}

	facts, err := handoffFacts(ctx, uow, o)
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = h.policy.Check(o, next, facts); err != nil {
		return kernel.UUID{}, err
	}
	if err = o.Forward(next, member.ID()); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return kernel.UUID{}, err
	}

	remarks := fmt.Sprintf("version %d", d.Version())
	if cmd.Remarks() != "" {
		remarks += ": " + cmd.Remarks()
	}
	if err = appendAudit(ctx, uow, o.ID(), actor, handoffTo(member), action, remarks); err != nil {
		return kernel.UUID{}, err
	}
	if err = enqueue(ctx, uow, o.ID(), member.ID(), notification.OrderForwarded, map[string]string{
		"from":    actor.Role().String(),
		"status":  o.Status().String(),
		"version": fmt.Sprint(d.Version()),
	}); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return d.ID(), nil
}

func latestDeliverable(existing []*deliverable.Deliverable) *deliverable.Deliverable {
	var latest *deliverable.Deliverable
	for _, d := range existing {
		if latest == nil || d.Version() > latest.Version() {
			latest = d
		}
	}
	return latest
}
