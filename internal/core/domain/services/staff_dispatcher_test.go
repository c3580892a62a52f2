package services_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/core/domain/model/staff"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMember(t *testing.T, name string, r role.Role) *staff.Member {
	t.Helper()
	m, err := staff.NewMember(kernel.NewUUID(), name, r)
	require.NoError(t, err)
	return m
}

func TestStaffDispatcher_Dispatch(t *testing.T) {
	dispatcher := services.NewStaffDispatcher()

	t.Run("should assign the least loaded sales member", func(t *testing.T) {
		o := restoredOrder(t, order.AwaitingDocs, order.PartiallyPaid, role.Sales, "3000")
		busy := mustMember(t, "Busy", role.Sales)
		free := mustMember(t, "Free", role.Sales)
		accountant := mustMember(t, "Accountant", role.Accounts)

		member, err := dispatcher.Dispatch(o, []staff.Workload{
			{Member: busy, OpenOrders: 4},
			{Member: accountant, OpenOrders: 0},
			{Member: free, OpenOrders: 1},
		})

		require.NoError(t, err)
		assert.Equal(t, "Free", member.Name())
		require.NotNil(t, o.AssignedTo())
		assert.True(t, o.AssignedTo().IsEqual(free.ID()))
	})

	t.Run("should keep the first candidate on ties", func(t *testing.T) {
		o := restoredOrder(t, order.AwaitingDocs, order.PartiallyPaid, role.Sales, "3000")
		first := mustMember(t, "First", role.Sales)
		second := mustMember(t, "Second", role.Sales)

		member, err := dispatcher.Dispatch(o, []staff.Workload{{Member: first}, {Member: second}})

		require.NoError(t, err)
		assert.Equal(t, "First", member.Name())
	})

	t.Run("should skip inactive members", func(t *testing.T) {
		o := restoredOrder(t, order.AwaitingDocs, order.PartiallyPaid, role.Sales, "3000")
		inactive := mustMember(t, "Gone", role.Sales)
		inactive.Deactivate()

		member, err := dispatcher.Dispatch(o, []staff.Workload{{Member: inactive}})

		require.ErrorIs(t, err, services.ErrStaffNotFound)
		assert.Nil(t, member)
		assert.Nil(t, o.AssignedTo())
	})

	t.Run("should not reassign an owned order", func(t *testing.T) {
		o := restoredOrder(t, order.AwaitingDocs, order.PartiallyPaid, role.Sales, "3000")
		require.NoError(t, o.Assign(kernel.NewUUID()))

		_, err := dispatcher.Dispatch(o, []staff.Workload{{Member: mustMember(t, "Other", role.Sales)}})

		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("should reject invalid members", func(t *testing.T) {
		o := restoredOrder(t, order.AwaitingDocs, order.PartiallyPaid, role.Sales, "3000")

		_, err := dispatcher.Dispatch(o, []staff.Workload{{Member: &staff.Member{}}})

		require.ErrorIs(t, err, staff.ErrMemberIsNotConstructed)
	})
}
