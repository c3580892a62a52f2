package order_test

import (
	"fmt"
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_ParseAndString(t *testing.T) {
	statuses := []order.Status{
		order.AwaitingPayment,
		order.AwaitingDocs,
		order.UnderReview,
		order.InProgress,
		order.Completed,
		order.Failed,
	}

	for _, status := range statuses {
		t.Run(fmt.Sprintf("should parse %s", status), func(t *testing.T) {
			parsed, err := order.ParseStatus(status.String())

			require.NoError(t, err)
			assert.Equal(t, status, parsed)
			require.NoError(t, parsed.Validate())
		})
	}

	t.Run("should reject unknown status text", func(t *testing.T) {
		_, err := order.ParseStatus("shipped")

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should not parse unknown", func(t *testing.T) {
		_, err := order.ParseStatus("unknown")

		require.Error(t, err)
	})

	t.Run("should reject out of range values", func(t *testing.T) {
		require.Error(t, order.Unknown.Validate())
		require.Error(t, order.Status(42).Validate())
		assert.Equal(t, "unknown", order.Status(42).String())
	})
}

func TestStatus_Transitions(t *testing.T) {
	t.Run("should follow the happy path", func(t *testing.T) {
		s := order.AwaitingPayment

		s, err := s.ConfirmPayment()
		require.NoError(t, err)
		assert.Equal(t, order.AwaitingDocs, s)

		s, err = s.VerifyDocuments()
		require.NoError(t, err)
		assert.Equal(t, order.UnderReview, s)

		s, err = s.StartFulfillment()
		require.NoError(t, err)
		assert.Equal(t, order.InProgress, s)

		s, err = s.Complete()
		require.NoError(t, err)
		assert.Equal(t, order.Completed, s)
		assert.True(t, s.IsTerminal())
	})

	t.Run("should keep in progress when fulfillment restarts", func(t *testing.T) {
		s, err := order.InProgress.StartFulfillment()

		require.NoError(t, err)
		assert.Equal(t, order.InProgress, s)
	})

	t.Run("should fail only from awaiting payment", func(t *testing.T) {
		s, err := order.AwaitingPayment.FailPayment()
		require.NoError(t, err)
		assert.Equal(t, order.Failed, s)
		assert.True(t, s.IsTerminal())

		_, err = order.AwaitingDocs.FailPayment()
		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
	})

	t.Run("should report conflict for a status already reached", func(t *testing.T) {
		_, err := order.AwaitingDocs.ConfirmPayment()
		require.ErrorIs(t, err, errs.ErrConflict)

		_, err = order.InProgress.VerifyDocuments()
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("should report failed precondition when skipping ahead", func(t *testing.T) {
		_, err := order.AwaitingPayment.VerifyDocuments()
		require.ErrorIs(t, err, errs.ErrPreconditionFailed)

		_, err = order.AwaitingDocs.StartFulfillment()
		require.ErrorIs(t, err, errs.ErrPreconditionFailed)

		_, err = order.UnderReview.Complete()
		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
	})

	t.Run("should reject every transition from terminal statuses", func(t *testing.T) {
		for _, terminal := range []order.Status{order.Completed, order.Failed} {
			transitions := []func() (order.Status, error){
				terminal.ConfirmPayment,
				terminal.FailPayment,
				terminal.VerifyDocuments,
				terminal.StartFulfillment,
				terminal.Complete,
			}
			for _, transition := range transitions {
				_, err := transition()
				require.ErrorIs(t, err, errs.ErrConflict)
			}
		}
	})
}

func TestDerivePaymentStatus(t *testing.T) {
	total := mustMoney(t, "10000")

	tests := []struct {
		name string
		paid string
		want order.PaymentStatus
	}{
		{"nothing paid", "0", order.Unpaid},
		{"advance paid", "3000", order.PartiallyPaid},
		{"one cent short", "9999.99", order.PartiallyPaid},
		{"fully paid", "10000", order.Paid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, order.DerivePaymentStatus(total, mustMoney(t, tt.paid)))
		})
	}
}

func TestPaymentStatus_CanAdvanceTo(t *testing.T) {
	assert.True(t, order.Unpaid.CanAdvanceTo(order.PartiallyPaid))
	assert.True(t, order.PartiallyPaid.CanAdvanceTo(order.Paid))
	assert.True(t, order.Paid.CanAdvanceTo(order.Paid))
	assert.True(t, order.Unpaid.CanAdvanceTo(order.PaymentFailed))

	assert.False(t, order.Paid.CanAdvanceTo(order.PartiallyPaid))
	assert.False(t, order.PartiallyPaid.CanAdvanceTo(order.Unpaid))
	assert.False(t, order.Paid.CanAdvanceTo(order.PaymentFailed))
	assert.False(t, order.PaymentFailed.CanAdvanceTo(order.Paid))
}

func TestParsePaymentStatus(t *testing.T) {
	parsed, err := order.ParsePaymentStatus("partially_paid")
	require.NoError(t, err)
	assert.Equal(t, order.PartiallyPaid, parsed)

	_, err = order.ParsePaymentStatus("refunded")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func mustMoney(t *testing.T, s string) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromString(s)
	require.NoError(t, err)
	return m
}
