package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// requestPaymentLink asks the gateway for a hosted link once the payment is
// committed. A gateway failure does not undo the committed state; it is logged
// and an empty link is returned.
func requestPaymentLink(
	ctx context.Context,
	gateway ports.PaymentGateway,
	logger *slog.Logger,
	p *payment.Payment,
	customerID kernel.UUID,
) PaymentRequest {
	result := PaymentRequest{OrderID: p.OrderID(), PaymentID: p.ID(), Amount: p.Amount()}

	link, err := gateway.CreatePaymentLink(ctx, ports.PaymentLinkRequest{
		PaymentID:  p.ID(),
		OrderID:    p.OrderID(),
		CustomerID: customerID,
		Amount:     p.Amount(),
	})
	if err != nil {
		logger.ErrorContext(ctx, "Payment link request failed",
			"order_id", p.OrderID().String(),
			"payment_id", p.ID().String(),
			"error", errs.NewUpstreamError("payment gateway", err),
		)
		return result
	}

	result.PaymentLink = link
	return result
}
