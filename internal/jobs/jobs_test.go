package jobs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/role"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOrderDispatcher struct {
	mock.Mock
}

func (m *mockOrderDispatcher) Handle(ctx context.Context, cmd commands.DispatchOrderCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type mockNotificationDispatcher struct {
	mock.Mock
}

func (m *mockNotificationDispatcher) Handle(
	ctx context.Context,
	cmd commands.DispatchNotificationsCommand,
) (commands.DispatchResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.DispatchResult), args.Error(1)
}

type mockLocker struct {
	mock.Mock
	released int
}

func (m *mockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	args := m.Called(ctx, key, ttl)
	return func() { m.released++ }, args.Bool(0), args.Error(1)
}

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func salesDispatch() any {
	return mock.MatchedBy(func(cmd commands.DispatchOrderCommand) bool {
		return cmd.Stage() == role.Sales
	})
}

func Test_StaffDispatchJobDispatchesSalesOrders(t *testing.T) {
	handler := new(mockOrderDispatcher)
	locker := new(mockLocker)
	logger, buf := newTestLogger()
	locker.On("TryLock", mock.Anything, "staff_dispatch", dispatchLockTTL).Return(true, nil).Once()
	handler.On("Handle", mock.Anything, salesDispatch()).Return(nil).Once()

	NewStaffDispatchJob(handler, locker, logger).tick(context.Background())

	handler.AssertExpectations(t)
	assert.Equal(t, 1, locker.released)
	assert.NotContains(t, buf.String(), "level=ERROR")
}

func Test_StaffDispatchJobIgnoresIdleErrors(t *testing.T) {
	for _, idle := range []error{commands.ErrNoOrderFound, commands.ErrNoFreeStaffFound} {
		handler := new(mockOrderDispatcher)
		locker := new(mockLocker)
		logger, buf := newTestLogger()
		locker.On("TryLock", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
		handler.On("Handle", mock.Anything, mock.Anything).Return(idle).Once()

		NewStaffDispatchJob(handler, locker, logger).tick(context.Background())

		assert.NotContains(t, buf.String(), "Staff dispatch job failed")
	}
}

func Test_StaffDispatchJobLogsUnexpectedErrors(t *testing.T) {
	handler := new(mockOrderDispatcher)
	locker := new(mockLocker)
	logger, buf := newTestLogger()
	locker.On("TryLock", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	handler.On("Handle", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()

	NewStaffDispatchJob(handler, locker, logger).tick(context.Background())

	assert.Contains(t, buf.String(), "Staff dispatch job failed")
	assert.Contains(t, buf.String(), "connection reset")
	assert.Equal(t, 1, locker.released)
}

func Test_StaffDispatchJobSkipsTickWithoutLock(t *testing.T) {
	handler := new(mockOrderDispatcher)
	locker := new(mockLocker)
	logger, _ := newTestLogger()
	locker.On("TryLock", mock.Anything, mock.Anything, mock.Anything).Return(false, nil).Once()

	NewStaffDispatchJob(handler, locker, logger).tick(context.Background())

	handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	assert.Equal(t, 0, locker.released)
}

func Test_NotificationOutboxJobDispatchesBatch(t *testing.T) {
	handler := new(mockNotificationDispatcher)
	locker := new(mockLocker)
	logger, buf := newTestLogger()
	locker.On("TryLock", mock.Anything, "notification_outbox", outboxLockTTL).Return(true, nil).Once()
	handler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.DispatchNotificationsCommand) bool {
		return cmd.BatchSize() == outboxBatchSize
	})).Return(commands.DispatchResult{Sent: 2, Failed: 1}, nil).Once()

	NewNotificationOutboxJob(handler, locker, logger).tick(context.Background())

	handler.AssertExpectations(t)
	assert.Contains(t, buf.String(), "sent=2 failed=1")
	assert.Equal(t, 1, locker.released)
}

func Test_NotificationOutboxJobLogsLockErrors(t *testing.T) {
	handler := new(mockNotificationDispatcher)
	locker := new(mockLocker)
	logger, buf := newTestLogger()
	locker.On("TryLock", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("redis down")).Once()

	NewNotificationOutboxJob(handler, locker, logger).tick(context.Background())

	handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	assert.Contains(t, buf.String(), "Notification outbox lock failed")
}

func Test_JobManagerStartsAndStopsAllJobs(t *testing.T) {
	logger, buf := newTestLogger()
	jm := NewJobManager(new(mockOrderDispatcher), new(mockNotificationDispatcher), &idleLocker{}, logger)

	require.NoError(t, jm.StartAll())
	jm.StopAll()

	assert.Contains(t, buf.String(), "Staff dispatch job started")
	assert.Contains(t, buf.String(), "Notification outbox job stopped")
}

func Test_LocalLockerAlwaysGrants(t *testing.T) {
	release, ok, err := LocalLocker{}.TryLock(context.Background(), "any", time.Second)

	require.NoError(t, err)
	assert.True(t, ok)
	release()
}

// idleLocker never grants the lock so started jobs never reach their handlers.
type idleLocker struct{}

func (idleLocker) TryLock(context.Context, string, time.Duration) (func(), bool, error) {
	return nil, false, nil
}
