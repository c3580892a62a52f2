package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// DispatchResult counts the outcome of one outbox pass.
type DispatchResult struct {
	Sent   int
	Failed int
}

// DispatchNotificationsCommandHandler hands pending outbox messages to the
// notifier. Each message is attempted once: a delivery failure is logged and
// the message is marked failed.
type DispatchNotificationsCommandHandler struct {
	uowFactory OutboxUoWFactory
	notifier   ports.Notifier
	logger     *slog.Logger
}

func NewDispatchNotificationsCommandHandler(
	uowFactory OutboxUoWFactory,
	notifier ports.Notifier,
	logger *slog.Logger,
) DispatchNotificationsCommandHandler {
	return DispatchNotificationsCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     logger.With("component", "dispatch_notifications"),
	}
}

func (h DispatchNotificationsCommandHandler) Handle(
	ctx context.Context,
	cmd DispatchNotificationsCommand,
) (DispatchResult, error) {
	if err := cmd.Validate(); err != nil {
		return DispatchResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return DispatchResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	messages, err := uow.OutboxRepository().ListPending(ctx, cmd.BatchSize())
	if err != nil {
		return DispatchResult{}, err
	}

	var result DispatchResult
	for _, m := range messages {
		notifyErr := h.notifier.Notify(ctx, m.Recipient(), string(m.Template()), m.Data())
		if notifyErr != nil {
			cause := errs.NewUpstreamError("notifier", notifyErr)
			h.logger.ErrorContext(ctx, "Notification delivery failed",
				"message_id", m.ID().String(),
				"order_id", m.OrderID().String(),
				"template", string(m.Template()),
				"error", cause,
			)
			if err = m.MarkFailed(cause); err != nil {
				return DispatchResult{}, err
			}
			result.Failed++
		} else {
			if err = m.MarkSent(now()); err != nil {
				return DispatchResult{}, err
			}
			result.Sent++
		}

		if err = uow.OutboxRepository().Update(ctx, m); err != nil {
			return DispatchResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return DispatchResult{}, err
	}

	return result, nil
}
