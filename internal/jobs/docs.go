// Package jobs provides scheduled background tasks for the fulfillment service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. StaffDispatchJob - Runs every second to assign unowned Sales stage orders to the least loaded sales user
// 2. NotificationOutboxJob - Runs every 5 seconds to hand pending outbox messages to the notifier
//
// # Usage
//
//	locker := jobs.NewRedisLocker(redisClient) // or jobs.LocalLocker{} for a single instance
//	jobManager := jobs.NewJobManager(dispatchOrderHandler, dispatchNotificationsHandler, locker, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Locking
//
// Every tick first takes a Locker key so that only one instance dispatches at a
// time. A tick that cannot get the lock is skipped.
//
// # Error Handling
//
// - Dispatch job ignores expected business errors (no orders, no free staff)
// - Outbox job logs handler errors; per message failures are logged by the handler
package jobs
