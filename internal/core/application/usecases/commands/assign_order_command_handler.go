package commands

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/auditlog"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/core/domain/model/staff"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

var (
	ErrNoFreeStaffFound = errors.New("no active staff found")
	ErrNoOrderFound     = errors.New("no order found")
)

// AssignOrderCommandHandler assigns an unowned order within its current stage.
type AssignOrderCommandHandler struct {
	uowFactory UoWFactory
}

func NewAssignOrderCommandHandler(uowFactory UoWFactory) AssignOrderCommandHandler {
	return AssignOrderCommandHandler{uowFactory: uowFactory}
}

func (h AssignOrderCommandHandler) Handle(ctx context.Context, cmd AssignOrderCommand) error {
	if err := cmd.Validate(); err != nil {
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
	member, err := uow.StaffRepository().Get(ctx, cmd.TargetUser())
	if err != nil {
		return err
	}
	if !member.CanReceive(o.Stage()) {
		return errs.NewPreconditionFailedError(
			"assignment", fmt.Sprintf("%s cannot take orders of the %s stage", member.Name(), o.Stage()))
	}

	if err = o.Assign(member.ID()); err != nil {
		return err
	}

	if err = assigned(ctx, uow, o, cmd.Actor(), member); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// DispatchOrderCommandHandler assigns the oldest unowned order of a stage to
// the least loaded active member of that stage. One order per call; the
// dispatch job calls it on every tick.
//
// Returns ErrNoOrderFound when nothing waits for an owner and
// ErrNoFreeStaffFound when the stage has no active members.
type DispatchOrderCommandHandler struct {
	uowFactory UoWFactory
	dispatcher services.StaffDispatcher
}

func NewDispatchOrderCommandHandler(uowFactory UoWFactory) DispatchOrderCommandHandler {
	return DispatchOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: services.NewStaffDispatcher(),
	}
}

func (h DispatchOrderCommandHandler) Handle(ctx context.Context, cmd DispatchOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	candidates, err := uow.OrderRepository().ListUnassigned(ctx, cmd.Stage(), 1)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return ErrNoOrderFound
	}

	o, err := uow.OrderRepository().GetForUpdate(ctx, candidates[0].ID())
	if err != nil {
		return err
	}
	if o.AssignedTo() != nil || o.Stage() != cmd.Stage() || o.IsTerminal() {
		return ErrNoOrderFound
	}

	members, err := uow.StaffRepository().ListActiveByRole(ctx, cmd.Stage())
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return ErrNoFreeStaffFound
	}
	counts, err := uow.OrderRepository().CountOpenByAssignee(ctx, cmd.Stage())
	if err != nil {
		return err
	}

	workloads := make([]staff.Workload, 0, len(members))
	for _, m := range members {
		workloads = append(workloads, staff.Workload{Member: m, OpenOrders: counts[m.ID()]})
	}

	member, err := h.dispatcher.Dispatch(o, workloads)
	if errors.Is(err, services.ErrStaffNotFound) {
		return ErrNoFreeStaffFound
	}
	if err != nil {
		return err
	}

	if err = assigned(ctx, uow, o, role.SystemActor(), member); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func assigned(ctx context.Context, uow UoW, o *order.Order, actor role.Actor, member *staff.Member) error {
	if err := uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	if err := appendAudit(ctx, uow, o.ID(), actor, handoffTo(member), auditlog.OrderAssigned, member.Name()); err != nil {
		return err
	}
	return enqueue(ctx, uow, o.ID(), member.ID(), notification.OrderForwarded, map[string]string{
		"from":   actor.Role().String(),
		"status": o.Status().String(),
	})
}
