package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/auditlog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/ports"
)

// PaymentRequest is returned by commands that open a payment.
// PaymentLink is empty when the gateway failed; the payment stays initiated
// and a new link can be requested.
type PaymentRequest struct {
	OrderID     kernel.UUID
	PaymentID   kernel.UUID
	Amount      kernel.Money
	PaymentLink string
}

// CreateOrderCommandHandler handles the business logic for order creation.
// Creates the order in awaiting_payment together with its first payment
// (advance when the service has one, full otherwise) and requests the payment
// link after commit.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, gateway, logger)
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	redirect(result.PaymentLink)
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	gateway    ports.PaymentGateway
	logger     *slog.Logger
}

func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	gateway ports.PaymentGateway,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		logger:     logger.With("component", "create_order"),
	}
}

// Handle processes the order creation command.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (PaymentRequest, error) {
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

	service, err := uow.ServiceRepository().Get(ctx, cmd.ServiceID())
	if err != nil {
		return PaymentRequest{}, err
	}

	customerID := *cmd.Actor().UserID()
	o, err := order.NewOrder(kernel.NewUUID(), customerID, service.ID(), service.Price(), service.Advance(), now())
	if err != nil {
		return PaymentRequest{}, err
	}

	paymentType := payment.Full
	if o.Advance() != nil {
		paymentType = payment.Advance
	}
	amount := o.RequiredMinimum()
	if err = o.CheckPayment(amount, kernel.ZeroMoney()); err != nil {
		return PaymentRequest{}, err
	}

	p, err := payment.NewPayment(kernel.NewUUID(), o.ID(), paymentType, cmd.Mode(), amount, now())
	if err != nil {
		return PaymentRequest{}, err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return PaymentRequest{}, err
	}
	if err = uow.PaymentRepository().Add(ctx, p); err != nil {
		return PaymentRequest{}, err
	}
	if err = appendAudit(ctx, uow, o.ID(), cmd.Actor(), noHandoff, auditlog.OrderCreated, service.Name()); err != nil {
		return PaymentRequest{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return PaymentRequest{}, err
	}

	return requestPaymentLink(ctx, h.gateway, h.logger, p, customerID), nil
}
