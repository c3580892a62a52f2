package role_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, s := range []string{"customer", "sales", "accounts", "operations", "admin", "system"} {
		r, err := role.Parse(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, r.String())
	}

	_, err := role.Parse("Admin")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestCanForwardTo(t *testing.T) {
	testCases := []struct {
		from, to role.Role
		allowed  bool
	}{
		{role.Sales, role.Accounts, true},
		{role.Sales, role.Operations, true},
		{role.Sales, role.Admin, false},
		{role.Accounts, role.Operations, true},
		{role.Accounts, role.Admin, true},
		{role.Operations, role.Admin, true},
		{role.Operations, role.Accounts, true},
		{role.Operations, role.Sales, false},
		{role.Admin, role.Operations, true},
		{role.Admin, role.Sales, false},
		{role.Customer, role.Sales, false},
		{role.System, role.Sales, false},
	}

	for _, tc := range testCases {
		t.Run(tc.from.String()+"->"+tc.to.String(), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanForwardTo(tc.to))
		})
	}
}

func TestCapabilities(t *testing.T) {
	assert.True(t, role.Sales.CanReview(role.OnboardingDocuments))
	assert.False(t, role.Operations.CanReview(role.OnboardingDocuments))
	assert.True(t, role.Operations.CanReview(role.RecurringDocuments))
	assert.False(t, role.Sales.CanReview(role.RecurringDocuments))

	assert.True(t, role.Operations.CanUploadDeliverable())
	assert.False(t, role.Admin.CanUploadDeliverable())
	assert.True(t, role.Admin.CanDecideQC())
	assert.True(t, role.Admin.CanApproveCompletion())
	assert.False(t, role.Accounts.CanApproveCompletion())
	assert.True(t, role.Customer.CanPurchase())

	assert.True(t, role.Accounts.IsStaff())
	assert.False(t, role.Customer.IsStaff())
	assert.False(t, role.System.IsStaff())
}

func TestActor(t *testing.T) {
	userID := kernel.NewUUID()

	t.Run("human actor", func(t *testing.T) {
		actor, err := role.NewActor(userID, role.Sales)

		require.NoError(t, err)
		require.NoError(t, actor.Validate())
		assert.True(t, actor.Is(userID))
		require.NotNil(t, actor.UserID())
		assert.True(t, actor.UserID().IsEqual(userID))
	})

	t.Run("system actor has no user", func(t *testing.T) {
		actor := role.SystemActor()

		require.NoError(t, actor.Validate())
		assert.Nil(t, actor.UserID())
		assert.False(t, actor.Is(userID))
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := role.NewActor(kernel.UUID{}, role.Sales)
		require.Error(t, err)

		_, err = role.NewActor(userID, role.Role("boss"))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		var zero role.Actor
		require.ErrorIs(t, zero.Validate(), errs.ErrValueIsRequired)
	})

	t.Run("require maps to authorization error", func(t *testing.T) {
		actor, _ := role.NewActor(userID, role.Accounts)

		require.NoError(t, actor.Require(true, "forward"))
		err := actor.Require(false, "approve completion")
		require.ErrorIs(t, err, errs.ErrNotAuthorized)
		assert.Contains(t, err.Error(), "accounts")
	})
}
