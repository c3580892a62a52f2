package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/auditlog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/errs"
)

// ConfirmPaymentCommandHandler marks a payment as succeeded and derives the
// order's payment status from the sum of all successful payments.
//
// Business rules:
//   - a payment is confirmed once; a repeated callback is a ConflictError
//   - the confirmed sum may never exceed the order total; an overpaying
//     confirmation is refused and the payment stays initiated
//   - reaching the required minimum moves the order to awaiting_docs in the
//     sales stage, and straight to under_review when the service has no
//     mandatory documents
//   - one payment_confirmed entry is written by the system actor
type ConfirmPaymentCommandHandler struct {
	uowFactory UoWFactory
}

func NewConfirmPaymentCommandHandler(uowFactory UoWFactory) ConfirmPaymentCommandHandler {
	return ConfirmPaymentCommandHandler{uowFactory: uowFactory}
}

func (h ConfirmPaymentCommandHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) error {
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

	before := payment.NewLedger(payments).Succeeded()
	if err = p.Confirm(cmd.GatewayRef(), now()); err != nil {
		return err
	}
	if err = o.CheckPayment(p.Amount(), before); err != nil {
		return err
	}

	opened, err := o.ApplyPayments(payment.NewLedger(payments).Succeeded())
	if err != nil {
		return err
	}

	to := noHandoff
	if opened {
		to = handoff{role: o.Stage()}

		service, serviceErr := uow.ServiceRepository().Get(ctx, o.ServiceID())
		if serviceErr != nil {
			return serviceErr
		}
		if len(service.MandatoryCodes()) == 0 && o.Status() == order.AwaitingDocs {
			if err = o.VerifyDocuments(); err != nil {
				return err
			}
		}
	}

	if err = uow.PaymentRepository().Update(ctx, p); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	if err = appendAudit(ctx, uow, o.ID(), role.SystemActor(), to, auditlog.PaymentConfirmed,
		p.Type().String()+" "+p.Amount().String()+" ref "+p.GatewayRef()); err != nil {
		return err
	}
	if err = enqueue(ctx, uow, o.ID(), o.CustomerID(), notification.PaymentReceived, map[string]string{
		"amount":         p.Amount().String(),
		"payment_status": o.PaymentStatus().String(),
		"pending":        o.Pending().String(),
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// lockPaymentOrder locks the order a payment belongs to and re-reads the
// order's payments under that lock.
func lockPaymentOrder(
	ctx context.Context,
	uow UoW,
	paymentID kernel.UUID,
) (*order.Order, *payment.Payment, []*payment.Payment, error) {
	unlocked, err := uow.PaymentRepository().Get(ctx, paymentID)
	if err != nil {
		return nil, nil, nil, err
	}

	o, err := uow.OrderRepository().GetForUpdate(ctx, unlocked.OrderID())
	if err != nil {
		return nil, nil, nil, err
	}

	payments, err := uow.PaymentRepository().ListByOrder(ctx, o.ID())
	if err != nil {
		return nil, nil, nil, err
	}
	for _, p := range payments {
		if p.ID().IsEqual(paymentID) {
			return o, p, payments, nil
		}
	}

	return nil, nil, nil, errs.NewObjectNotFoundError("payment", paymentID.String())
}
