package commands

import (
	"context"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/domain/model/auditlog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// CreatePendingBalanceLinkCommandHandler opens a pending_balance payment for
// total minus the sum of successful payments. Only partially paid orders qualify.
type CreatePendingBalanceLinkCommandHandler struct {
	uowFactory UoWFactory
	gateway    ports.PaymentGateway
	logger     *slog.Logger
}

func NewCreatePendingBalanceLinkCommandHandler(
	uowFactory UoWFactory,
	gateway ports.PaymentGateway,
	logger *slog.Logger,
) CreatePendingBalanceLinkCommandHandler {
	return CreatePendingBalanceLinkCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		logger:     logger.With("component", "pending_balance_link"),
	}
}

func (h CreatePendingBalanceLinkCommandHandler) Handle(
	ctx context.Context,
	cmd CreatePendingBalanceLinkCommand,
) (PaymentRequest, error) {
	if err := cmd.Validate(); err != nil {
		return PaymentRequest{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return PaymentRequest{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return PaymentRequest{}, err
	}
	if o.IsTerminal() {
		return PaymentRequest{}, errs.NewConflictError("order", fmt.Sprintf("order is %s", o.Status()))
	}
	if err = cmd.Actor().Require(o.IsCustomer(cmd.Actor()), "pay for this order"); err != nil {
		return PaymentRequest{}, err
	}
	if o.PaymentStatus() != order.PartiallyPaid {
		return PaymentRequest{}, errs.NewPreconditionFailedError(
			"payment", fmt.Sprintf("pending balance links need a partially paid order, order is %s", o.PaymentStatus()))
	}

	payments, err := uow.PaymentRepository().ListByOrder(ctx, o.ID())
	if err != nil {
		return PaymentRequest{}, err
	}
	succeeded := payment.NewLedger(payments).Succeeded()
	pending, err := o.Total().Sub(succeeded)
	if err != nil {
		return PaymentRequest{}, err
	}
	if err = o.CheckPayment(pending, succeeded); err != nil {
		return PaymentRequest{}, err
	}

	p, err := payment.NewPayment(kernel.NewUUID(), o.ID(), payment.PendingBalance, cmd.Mode(), pending, now())
	if err != nil {
		return PaymentRequest{}, err
	}

	if err = uow.PaymentRepository().Add(ctx, p); err != nil {
		return PaymentRequest{}, err
	}
	if err = appendAudit(ctx, uow, o.ID(), cmd.Actor(), noHandoff, auditlog.PendingBalanceRequested,
		pending.String()); err != nil {
		return PaymentRequest{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return PaymentRequest{}, err
	}

	return requestPaymentLink(ctx, h.gateway, h.logger, p, o.CustomerID()), nil
}
