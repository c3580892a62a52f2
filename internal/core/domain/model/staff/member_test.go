package staff_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/core/domain/model/staff"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMember(t *testing.T) {
	t.Run("should register an active staff user", func(t *testing.T) {
		m, err := staff.NewMember(kernel.NewUUID(), " Priya ", role.Accounts)

		require.NoError(t, err)
		require.NoError(t, m.Validate())
		assert.Equal(t, "Priya", m.Name())
		assert.True(t, m.IsActive())
		assert.True(t, m.CanReceive(role.Accounts))
		assert.False(t, m.CanReceive(role.Operations))
	})

	t.Run("should reject customers", func(t *testing.T) {
		_, err := staff.NewMember(kernel.NewUUID(), "Ravi", role.Customer)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should require a name", func(t *testing.T) {
		_, err := staff.NewMember(kernel.NewUUID(), "", role.Sales)

		require.ErrorIs(t, err, staff.ErrNameIsRequired)
	})

	t.Run("should not receive orders once deactivated", func(t *testing.T) {
		m, err := staff.NewMember(kernel.NewUUID(), "Asha", role.Sales)
		require.NoError(t, err)

		m.Deactivate()

		assert.False(t, m.CanReceive(role.Sales))
	})
}
