package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/role"

	"github.com/robfig/cron/v3"
)

const dispatchLockTTL = 5 * time.Second

type orderDispatcher interface {
	Handle(ctx context.Context, cmd commands.DispatchOrderCommand) error
}

// StaffDispatchJob assigns unowned Sales stage orders to the least loaded
// active sales user. Runs every second, one order per tick.
type StaffDispatchJob struct {
	handler orderDispatcher
	locker  Locker
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewStaffDispatchJob(handler orderDispatcher, locker Locker, logger *slog.Logger) *StaffDispatchJob {
	return &StaffDispatchJob{
		handler: handler,
		locker:  locker,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "staff_dispatch_job"),
	}
}

func (j *StaffDispatchJob) Start() error {
	if _, err := j.cron.AddFunc("* * * * * *", func() { j.tick(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Staff dispatch job started (running every second)")
	return nil
}

func (j *StaffDispatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Staff dispatch job stopped")
}

func (j *StaffDispatchJob) tick(ctx context.Context) {
	release, ok, err := j.locker.TryLock(ctx, "staff_dispatch", dispatchLockTTL)
	if err != nil {
		j.logger.ErrorContext(ctx, "Staff dispatch lock failed", "error", err)
		return
	}
	if !ok {
		return
	}
	defer release()

	cmd, err := commands.NewDispatchOrderCommand(role.Sales)
	if err != nil {
		j.logger.ErrorContext(ctx, "Staff dispatch job failed", "error", err)
		return
	}

	if err = j.handler.Handle(ctx, cmd); err != nil {
		// Nothing to dispatch or nobody to dispatch to is the normal idle state.
		if !errors.Is(err, commands.ErrNoOrderFound) && !errors.Is(err, commands.ErrNoFreeStaffFound) {
			j.logger.ErrorContext(ctx, "Staff dispatch job failed", "error", err)
		}
	}
}
