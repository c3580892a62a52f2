package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/auditlog"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/domain/model/role"
)

// FailPaymentCommandHandler marks a payment as failed. When it was the order's
// only attempt that could still count (nothing succeeded, nothing else is
// pending) and the order is still awaiting payment, the order fails too.
// Nothing is retried.
type FailPaymentCommandHandler struct {
	uowFactory UoWFactory
}

func NewFailPaymentCommandHandler(uowFactory UoWFactory) FailPaymentCommandHandler {
	return FailPaymentCommandHandler{uowFactory: uowFactory}
}

func (h FailPaymentCommandHandler) Handle(ctx context.Context, cmd FailPaymentCommand) error {
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

	o, p, payments, err := lockPaymentOrder(ctx, uow, cmd.PaymentID())
	if err != nil {
		return err
	}

	if err = p.Fail(cmd.GatewayRef(), now()); err != nil {
		return err
	}
	if err = uow.PaymentRepository().Update(ctx, p); err != nil {
		return err
	}

	remarks := p.Type().String() + " " + p.Amount().String() + " ref " + p.GatewayRef()
	if o.Status() == order.AwaitingPayment && payment.NewLedger(payments).IsOnlyAttempt(p.ID()) {
		if err = o.FailPayment(); err != nil {
			return err
		}
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return err
		}
		remarks += ", order failed"
	}

	if err = appendAudit(ctx, uow, o.ID(), role.SystemActor(), noHandoff, auditlog.PaymentFailed, remarks); err != nil {
		return err
	}
	if err = enqueue(ctx, uow, o.ID(), o.CustomerID(), notification.PaymentFailed, map[string]string{
		"amount":       p.Amount().String(),
		"order_status": o.Status().String(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
