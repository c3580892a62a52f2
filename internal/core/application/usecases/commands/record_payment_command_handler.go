package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/auditlog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/ports"
)

// RecordPaymentCommandHandler records an initiated payment. The order itself is
// not mutated; amounts above the outstanding balance are refused.
type RecordPaymentCommandHandler struct {
	uowFactory UoWFactory
	gateway    ports.PaymentGateway
	logger     *slog.Logger
}

func NewRecordPaymentCommandHandler(
	uowFactory UoWFactory,
	gateway ports.PaymentGateway,
	logger *slog.Logger,
) RecordPaymentCommandHandler {
	return RecordPaymentCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		logger:     logger.With("component", "record_payment"),
	}
}

func (h RecordPaymentCommandHandler) Handle(ctx context.Context, cmd RecordPaymentCommand) (PaymentRequest, error) {
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
	if err = cmd.Actor().Require(o.IsCustomer(cmd.Actor()), "pay for this order"); err != nil {
		return PaymentRequest{}, err
	}

	payments, err := uow.PaymentRepository().ListByOrder(ctx, o.ID())
	if err != nil {
		return PaymentRequest{}, err
	}
	if err = o.CheckPayment(cmd.Amount(), payment.NewLedger(payments).Succeeded()); err != nil {
		return PaymentRequest{}, err
	}

	p, err := payment.NewPayment(kernel.NewUUID(), o.ID(), cmd.Type(), cmd.Mode(), cmd.Amount(), now())
	if err != nil {
		return PaymentRequest{}, err
	}

	if err = uow.PaymentRepository().Add(ctx, p); err != nil {
		return PaymentRequest{}, err
	}
	if err = appendAudit(ctx, uow, o.ID(), cmd.Actor(), noHandoff, auditlog.PaymentInitiated,
		p.Type().String()+" "+p.Amount().String()); err != nil {
		return PaymentRequest{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return PaymentRequest{}, err
	}

	return requestPaymentLink(ctx, h.gateway, h.logger, p, o.CustomerID()), nil
}
