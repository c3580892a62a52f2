package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/auditlog"
	"fulfillment/internal/core/domain/model/document"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoDocumentService(f *fixture) kernel.UUID {
	return f.service("10000", nil, false,
		commands.RequiredDocumentSpec{Code: "pan_card", Name: "PAN card", Mandatory: true},
		commands.RequiredDocumentSpec{Code: "address_proof", Name: "Address proof", Mandatory: true},
		commands.RequiredDocumentSpec{Code: "bank_statement", Name: "Bank statement", AllowMultiple: true},
	)
}

func paidOrder(f *fixture, serviceID kernel.UUID) kernel.UUID {
	f.t.Helper()
	first := f.createOrder(serviceID)
	require.NoError(f.t, f.confirm(first.PaymentID))
	return first.OrderID
}

// Two mandatory documents: the order reaches under_review only after both are
// verified.
func TestDocumentGate_TwoMandatoryDocuments(t *testing.T) {
	f := newFixture(t)
	orderID := paidOrder(f, twoDocumentService(f))

	pan, err := f.submitDocument(orderID, "pan_card")
	require.NoError(t, err)
	require.NoError(t, f.reviewDocument(pan, document.Verified, ""))
	assert.Equal(t, order.AwaitingDocs, f.store.order(orderID).Status())

	address, err := f.submitDocument(orderID, "address_proof")
	require.NoError(t, err)
	require.NoError(t, f.reviewDocument(address, document.Verified, "matches PAN"))

	assert.Equal(t, order.UnderReview, f.store.order(orderID).Status())
	assert.Len(t, f.store.entriesWith(orderID, auditlog.DocumentSubmitted), 2)
	assert.Len(t, f.store.entriesWith(orderID, auditlog.DocumentReviewed), 2)
}

func TestSubmitDocument_SingleCodeAcceptsOneLiveSubmission(t *testing.T) {
	f := newFixture(t)
	orderID := paidOrder(f, twoDocumentService(f))

	first, err := f.submitDocument(orderID, "pan_card")
	require.NoError(t, err)

	_, err = f.submitDocument(orderID, "pan_card")
	assert.ErrorIs(t, err, errs.ErrConflict)

	require.NoError(t, f.reviewDocument(first, document.Rejected, "blurred scan"))
	_, err = f.submitDocument(orderID, "pan_card")
	assert.NoError(t, err)
}

func TestSubmitDocument_MultipleCodeAcceptsMany(t *testing.T) {
	f := newFixture(t)
	orderID := paidOrder(f, twoDocumentService(f))

	_, err := f.submitDocument(orderID, "bank_statement")
	require.NoError(t, err)
	_, err = f.submitDocument(orderID, "bank_statement")

	assert.NoError(t, err)
}

func TestSubmitDocument_UnknownCode(t *testing.T) {
	f := newFixture(t)
	orderID := paidOrder(f, twoDocumentService(f))

	_, err := f.submitDocument(orderID, "passport")

	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestSubmitDocument_BeforePayment(t *testing.T) {
	f := newFixture(t)
	first := f.createOrder(twoDocumentService(f))

	_, err := f.submitDocument(first.OrderID, "pan_card")

	requireGate(t, err, "status")
}

func TestReviewDocument_RejectionNeedsRemark(t *testing.T) {
	f := newFixture(t)
	orderID := paidOrder(f, twoDocumentService(f))
	pan, err := f.submitDocument(orderID, "pan_card")
	require.NoError(t, err)

	err = f.reviewDocument(pan, document.Rejected, "")

	assert.True(t, errs.IsValidation(err))
	assert.Empty(t, f.store.entriesWith(orderID, auditlog.DocumentReviewed))
}

func TestReviewDocument_RejectionNotifiesCustomer(t *testing.T) {
	f := newFixture(t)
	orderID := paidOrder(f, twoDocumentService(f))
	pan, err := f.submitDocument(orderID, "pan_card")
	require.NoError(t, err)

	require.NoError(t, f.reviewDocument(pan, document.Rejected, "expired"))

	messages := f.store.messages(*f.customer.UserID())
	require.NotEmpty(t, messages)
	last := messages[len(messages)-1]
	assert.Equal(t, "document_rejected", string(last.Template()))
	assert.Equal(t, "expired", last.Data()["remark"])
}

func TestReviewDocument_DecidedTwiceIsConflict(t *testing.T) {
	f := newFixture(t)
	orderID := paidOrder(f, twoDocumentService(f))
	pan, err := f.submitDocument(orderID, "pan_card")
	require.NoError(t, err)
	require.NoError(t, f.reviewDocument(pan, document.Verified, ""))

	err = f.reviewDocument(pan, document.Verified, "")

	assert.ErrorIs(t, err, errs.ErrConflict)
	assert.Len(t, f.store.entriesWith(orderID, auditlog.DocumentReviewed), 1)
}

func TestReviewDocument_RejectAfterGateApprovedIsConflict(t *testing.T) {
	f := newFixture(t)
	orderID := paidOrder(f, f.onboardingService())
	pan, err := f.submitDocument(orderID, "pan_card")
	require.NoError(t, err)
	require.NoError(t, f.reviewDocument(pan, document.Verified, ""))
	require.Equal(t, order.UnderReview, f.store.order(orderID).Status())

	err = f.reviewDocument(pan, document.Rejected, "changed my mind")

	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestReviewDocument_OnlySales(t *testing.T) {
	f := newFixture(t)
	orderID := paidOrder(f, twoDocumentService(f))
	pan, err := f.submitDocument(orderID, "pan_card")
	require.NoError(t, err)

	cmd, err := commands.NewReviewDocumentCommand(f.operations, pan, document.Verified, "")
	require.NoError(t, err)
	err = commands.NewReviewDocumentCommandHandler(f.store).Handle(f.ctx, cmd)

	assert.ErrorIs(t, err, errs.ErrNotAuthorized)
}

func recurringService(f *fixture) kernel.UUID {
	return f.service("12000", nil, true,
		commands.RequiredDocumentSpec{Code: "pan_card", Name: "PAN card", Mandatory: true})
}

func (f *fixture) submitPeriodDocument(orderID kernel.UUID, month, year int) kernel.UUID {
	f.t.Helper()
	period, err := kernel.NewPeriod(month, year)
	require.NoError(f.t, err)
	cmd, err := commands.NewSubmitCustomerDocumentCommand(f.customer, orderID, period, "periods/statement.pdf")
	require.NoError(f.t, err)
	id, err := commands.NewSubmitCustomerDocumentCommandHandler(f.store).Handle(f.ctx, cmd)
	require.NoError(f.t, err)
	return id
}

func (f *fixture) reviewPeriodDocument(documentID kernel.UUID, decision document.Status, remark string) error {
	f.t.Helper()
	cmd, err := commands.NewReviewCustomerDocumentCommand(f.operations, documentID, decision, remark)
	require.NoError(f.t, err)
	return commands.NewReviewCustomerDocumentCommandHandler(f.store).Handle(f.ctx, cmd)
}

func TestCustomerDocument_RejectedPeriodBlocksAdminHandoff(t *testing.T) {
	f := newFixture(t)
	orderID := f.orderInOperations(recurringService(f), true)

	doc := f.submitPeriodDocument(orderID, 4, 2025)
	require.NoError(t, f.reviewPeriodDocument(doc, document.Rejected, "wrong month"))

	_, err := f.upload(orderID, f.admin, "deliverables/april.pdf")
	requireGate(t, err, "recurring documents")
	assert.Equal(t, role.Operations, f.store.order(orderID).Stage())

	replace, err := commands.NewReplaceCustomerDocumentCommand(f.customer, doc, "periods/april.pdf")
	require.NoError(t, err)
	require.NoError(t, commands.NewReplaceCustomerDocumentCommandHandler(f.store).Handle(f.ctx, replace))
	require.NoError(t, f.reviewPeriodDocument(doc, document.Approved, ""))

	_, err = f.upload(orderID, f.admin, "deliverables/april.pdf")
	require.NoError(t, err)
	assert.Equal(t, role.Admin, f.store.order(orderID).Stage())
	assert.Len(t, f.store.entriesWith(orderID, auditlog.CustomerDocumentReplaced), 1)
}

func TestReplaceCustomerDocument_OnlyRejectedByOriginalSubmitter(t *testing.T) {
	f := newFixture(t)
	orderID := f.orderInOperations(recurringService(f), true)
	doc := f.submitPeriodDocument(orderID, 5, 2025)

	cmd, err := commands.NewReplaceCustomerDocumentCommand(f.customer, doc, "periods/may.pdf")
	require.NoError(t, err)
	err = commands.NewReplaceCustomerDocumentCommandHandler(f.store).Handle(f.ctx, cmd)
	requireGate(t, err, "document")

	require.NoError(t, f.reviewPeriodDocument(doc, document.Rejected, "unreadable"))
	other, err := commands.NewReplaceCustomerDocumentCommand(f.actor(role.Customer), doc, "periods/may.pdf")
	require.NoError(t, err)
	err = commands.NewReplaceCustomerDocumentCommandHandler(f.store).Handle(f.ctx, other)
	assert.ErrorIs(t, err, errs.ErrNotAuthorized)
}

func TestSubmitCustomerDocument_NonRecurringService(t *testing.T) {
	f := newFixture(t)
	orderID := paidOrder(f, f.onboardingService())
	period, err := kernel.NewPeriod(1, 2025)
	require.NoError(t, err)

	cmd, err := commands.NewSubmitCustomerDocumentCommand(f.customer, orderID, period, "periods/jan.pdf")
	require.NoError(t, err)
	_, err = commands.NewSubmitCustomerDocumentCommandHandler(f.store).Handle(f.ctx, cmd)

	requireGate(t, err, "recurring documents")
}
