package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const (
	outboxBatchSize = 100
	outboxLockTTL   = 30 * time.Second
)

type notificationDispatcher interface {
	Handle(ctx context.Context, cmd commands.DispatchNotificationsCommand) (commands.DispatchResult, error)
}

// NotificationOutboxJob delivers pending outbox messages every five seconds.
type NotificationOutboxJob struct {
	handler notificationDispatcher
	locker  Locker
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewNotificationOutboxJob(handler notificationDispatcher, locker Locker, logger *slog.Logger) *NotificationOutboxJob {
	return &NotificationOutboxJob{
		handler: handler,
		locker:  locker,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "notification_outbox_job"),
	}
}

func (j *NotificationOutboxJob) Start() error {
	if _, err := j.cron.AddFunc("*/5 * * * * *", func() { j.tick(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification outbox job started (running every 5 seconds)")
	return nil
}

func (j *NotificationOutboxJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Notification outbox job stopped")
}

func (j *NotificationOutboxJob) tick(ctx context.Context) {
	release, ok, err := j.locker.TryLock(ctx, "notification_outbox", outboxLockTTL)
	if err != nil {
		j.logger.ErrorContext(ctx, "Notification outbox lock failed", "error", err)
		return
	}
	if !ok {
		return
	}
	defer release()

	cmd, err := commands.NewDispatchNotificationsCommand(outboxBatchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Notification outbox job failed", "error", err)
		return
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Notification outbox job failed", "error", err)
		return
	}
	if result.Sent+result.Failed > 0 {
		j.logger.InfoContext(ctx, "Notifications dispatched", "sent", result.Sent, "failed", result.Failed)
	}
}
