package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	staffDispatchJob      *StaffDispatchJob
	notificationOutboxJob *NotificationOutboxJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	dispatchOrderHandler orderDispatcher,
	dispatchNotificationsHandler notificationDispatcher,
	locker Locker,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		staffDispatchJob:      NewStaffDispatchJob(dispatchOrderHandler, locker, logger),
		notificationOutboxJob: NewNotificationOutboxJob(dispatchNotificationsHandler, locker, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.staffDispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start staff dispatch job: %w", err)
	}

	if err := jm.notificationOutboxJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.staffDispatchJob.Stop()
		return fmt.Errorf("failed to start notification outbox job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ticks to finish.
func (jm *JobManager) StopAll() {
	jm.notificationOutboxJob.Stop()
	jm.staffDispatchJob.Stop()
}
