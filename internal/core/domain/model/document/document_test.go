package document_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/document"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderDoc(t *testing.T, orderID kernel.UUID, code string) *document.OrderDocument {
	t.Helper()
	d, err := document.NewOrderDocument(kernel.NewUUID(), orderID, code, "orders/"+code+".pdf", kernel.NewUUID(), time.Now())
	require.NoError(t, err)
	return d
}

func newCustomerDoc(t *testing.T, submitter kernel.UUID, month int) *document.CustomerDocument {
	t.Helper()
	period, err := kernel.NewPeriod(month, 2026)
	require.NoError(t, err)
	d, err := document.NewCustomerDocument(kernel.NewUUID(), kernel.NewUUID(), period, "recurring/doc.pdf", submitter, time.Now())
	require.NoError(t, err)
	return d
}

func TestOrderDocument(t *testing.T) {
	t.Run("should start pending", func(t *testing.T) {
		d := newOrderDoc(t, kernel.NewUUID(), "pan_card")

		require.NoError(t, d.Validate())
		assert.Equal(t, document.Pending, d.Status())
		assert.Nil(t, d.VerifiedBy())
	})

	t.Run("should require code and file", func(t *testing.T) {
		_, err := document.NewOrderDocument(kernel.NewUUID(), kernel.NewUUID(), "", " ", kernel.NewUUID(), time.Now())

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "code")
		assert.Contains(t, err.Error(), "file key")
	})

	t.Run("should be verified once", func(t *testing.T) {
		d := newOrderDoc(t, kernel.NewUUID(), "pan_card")
		seller := kernel.NewUUID()

		require.NoError(t, d.Review(document.Verified, seller, "", time.Now()))
		assert.Equal(t, document.Verified, d.Status())
		require.NotNil(t, d.VerifiedBy())
		assert.True(t, d.VerifiedBy().IsEqual(seller))

		require.ErrorIs(t, d.Review(document.Rejected, seller, "blurred", time.Now()), errs.ErrConflict)
	})

	t.Run("should not accept the customer document vocabulary", func(t *testing.T) {
		d := newOrderDoc(t, kernel.NewUUID(), "pan_card")

		require.ErrorIs(t, d.Review(document.Approved, kernel.NewUUID(), "", time.Now()), errs.ErrValueIsInvalid)
		assert.Equal(t, document.Pending, d.Status())
	})

	t.Run("should need a remark to reject", func(t *testing.T) {
		d := newOrderDoc(t, kernel.NewUUID(), "pan_card")

		require.ErrorIs(t, d.Review(document.Rejected, kernel.NewUUID(), "", time.Now()), errs.ErrValueIsRequired)
		require.NoError(t, d.Review(document.Rejected, kernel.NewUUID(), "expired", time.Now()))
		assert.Equal(t, "expired", d.Remark())
	})
}

func TestCustomerDocument_Replace(t *testing.T) {
	customer := kernel.NewUUID()
	operator := kernel.NewUUID()

	t.Run("should reset a rejected document to pending", func(t *testing.T) {
		d := newCustomerDoc(t, customer, 3)
		require.NoError(t, d.Review(document.Rejected, operator, "wrong month", time.Now()))

		require.NoError(t, d.Replace(customer, "recurring/doc-v2.pdf", time.Now()))

		assert.Equal(t, document.Pending, d.Status())
		assert.Equal(t, "recurring/doc-v2.pdf", d.FileKey())
		assert.Empty(t, d.Remark())
		assert.Nil(t, d.VerifiedBy())
	})

	t.Run("should only be replaced by the submitter", func(t *testing.T) {
		d := newCustomerDoc(t, customer, 3)
		require.NoError(t, d.Review(document.Rejected, operator, "wrong month", time.Now()))

		err := d.Replace(kernel.NewUUID(), "recurring/other.pdf", time.Now())

		require.ErrorIs(t, err, errs.ErrNotAuthorized)
		assert.Equal(t, document.Rejected, d.Status())
	})

	t.Run("should only replace rejected documents", func(t *testing.T) {
		d := newCustomerDoc(t, customer, 3)

		require.ErrorIs(t, d.Replace(customer, "recurring/x.pdf", time.Now()), errs.ErrPreconditionFailed)

		require.NoError(t, d.Review(document.Approved, operator, "", time.Now()))
		require.ErrorIs(t, d.Replace(customer, "recurring/x.pdf", time.Now()), errs.ErrPreconditionFailed)
	})
}

func TestEvaluateOrderGate(t *testing.T) {
	orderID := kernel.NewUUID()
	seller := kernel.NewUUID()
	mandatory := []string{"pan_card", "bank_statement"}

	t.Run("should walk through the document lifecycle", func(t *testing.T) {
		pan := newOrderDoc(t, orderID, "pan_card")

		report := document.EvaluateOrderGate(mandatory, []*document.OrderDocument{pan})
		assert.False(t, report.Satisfied)
		assert.Equal(t, []string{"bank_statement"}, report.Missing)

		bank := newOrderDoc(t, orderID, "bank_statement")
		docs := []*document.OrderDocument{pan, bank}

		report = document.EvaluateOrderGate(mandatory, docs)
		assert.True(t, report.Satisfied)
		assert.False(t, report.Approved)

		require.NoError(t, pan.Review(document.Verified, seller, "", time.Now()))
		require.NoError(t, bank.Review(document.Verified, seller, "", time.Now()))

		report = document.EvaluateOrderGate(mandatory, docs)
		assert.True(t, report.Satisfied)
		assert.True(t, report.Approved)
		assert.Empty(t, report.Missing)
		assert.Empty(t, report.Unverified)
	})

	t.Run("should block on a rejected mandatory document until it is resubmitted and verified", func(t *testing.T) {
		pan := newOrderDoc(t, orderID, "pan_card")
		bank := newOrderDoc(t, orderID, "bank_statement")
		require.NoError(t, pan.Review(document.Verified, seller, "", time.Now()))
		require.NoError(t, bank.Review(document.Rejected, seller, "unreadable", time.Now()))

		report := document.EvaluateOrderGate(mandatory, []*document.OrderDocument{pan, bank})
		assert.False(t, report.Satisfied)
		assert.False(t, report.Approved)
		assert.Equal(t, []string{"bank_statement"}, report.Blocking)

		resubmitted := newOrderDoc(t, orderID, "bank_statement")
		docs := []*document.OrderDocument{pan, bank, resubmitted}

		report = document.EvaluateOrderGate(mandatory, docs)
		assert.True(t, report.Satisfied)
		assert.False(t, report.Approved)
		assert.Empty(t, report.Blocking)

		require.NoError(t, resubmitted.Review(document.Verified, seller, "", time.Now()))
		assert.True(t, document.EvaluateOrderGate(mandatory, docs).Approved)
	})

	t.Run("should ignore optional documents", func(t *testing.T) {
		report := document.EvaluateOrderGate(nil, []*document.OrderDocument{newOrderDoc(t, orderID, "other")})

		assert.True(t, report.Satisfied)
		assert.True(t, report.Approved)
	})
}

func TestEvaluateRecurringGate(t *testing.T) {
	customer := kernel.NewUUID()
	operator := kernel.NewUUID()

	march := newCustomerDoc(t, customer, 3)
	february := newCustomerDoc(t, customer, 2)
	marchSecond := newCustomerDoc(t, customer, 3)

	require.NoError(t, february.Review(document.Approved, operator, "", time.Now()))
	require.NoError(t, march.Review(document.Rejected, operator, "missing pages", time.Now()))

	report := document.EvaluateRecurringGate([]*document.CustomerDocument{march, february, marchSecond})

	require.Len(t, report.Periods, 2)
	assert.Equal(t, "2026-02", report.Periods[0].Period.String())
	assert.True(t, report.Periods[0].Approved)
	assert.True(t, report.Periods[0].Satisfied)

	assert.Equal(t, 2, report.Periods[1].Total)
	assert.True(t, report.Periods[1].Blocked)
	assert.False(t, report.Periods[1].Satisfied)
	assert.True(t, report.IsBlocked())

	require.NoError(t, march.Replace(customer, "recurring/march-v2.pdf", time.Now()))
	report = document.EvaluateRecurringGate([]*document.CustomerDocument{march, february, marchSecond})
	assert.False(t, report.IsBlocked())
	assert.True(t, report.Period(march.Period()).Satisfied)
	assert.False(t, report.Period(march.Period()).Approved)

	april, err := kernel.NewPeriod(4, 2026)
	require.NoError(t, err)
	assert.False(t, report.Period(april).Satisfied)
}
