package auditlog_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/auditlog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	orderID := kernel.NewUUID()

	t.Run("should record a human handoff", func(t *testing.T) {
		seller, err := role.NewActor(kernel.NewUUID(), role.Sales)
		require.NoError(t, err)
		accountant := kernel.NewUUID()

		e, err := auditlog.NewEntry(kernel.NewUUID(), orderID, seller, role.Accounts, &accountant,
			auditlog.OrderForwarded, " documents verified ", time.Now())

		require.NoError(t, err)
		require.NoError(t, e.Validate())
		assert.Equal(t, role.Sales, e.FromRole())
		require.NotNil(t, e.FromUser())
		assert.True(t, e.FromUser().IsEqual(*seller.UserID()))
		assert.Equal(t, role.Accounts, e.ToRole())
		assert.True(t, e.ToUser().IsEqual(accountant))
		assert.Equal(t, "documents verified", e.Remarks())
		assert.False(t, e.IsSystem())
	})

	t.Run("should record a system action without user", func(t *testing.T) {
		e, err := auditlog.NewEntry(kernel.NewUUID(), orderID, role.SystemActor(), role.Unknown, nil,
			auditlog.PaymentConfirmed, "", time.Now())

		require.NoError(t, err)
		assert.True(t, e.IsSystem())
		assert.Nil(t, e.FromUser())
		assert.Nil(t, e.ToUser())
	})

	t.Run("should reject unknown actions", func(t *testing.T) {
		_, err := auditlog.NewEntry(kernel.NewUUID(), orderID, role.SystemActor(), role.Unknown, nil,
			auditlog.Action("order_deleted"), "", time.Now())

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestHumanTimeline(t *testing.T) {
	orderID := kernel.NewUUID()
	customer, err := role.NewActor(kernel.NewUUID(), role.Customer)
	require.NoError(t, err)

	created, err := auditlog.NewEntry(kernel.NewUUID(), orderID, customer, role.Unknown, nil, auditlog.OrderCreated, "", time.Now())
	require.NoError(t, err)
	confirmed, err := auditlog.NewEntry(kernel.NewUUID(), orderID, role.SystemActor(), role.Sales, nil, auditlog.PaymentConfirmed, "", time.Now())
	require.NoError(t, err)

	all := []*auditlog.Entry{created, confirmed}
	timeline := auditlog.HumanTimeline(all)

	require.Len(t, timeline, 1)
	assert.Equal(t, auditlog.OrderCreated, timeline[0].Action())
	assert.Len(t, all, 2)
}
