package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/deliverable"
	"fulfillment/internal/core/domain/model/document"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) CreatePaymentLink(ctx context.Context, req ports.PaymentLinkRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, recipient kernel.UUID, template string, data map[string]string) error {
	args := m.Called(ctx, recipient, template, data)
	return args.Error(0)
}

// fixture wires every lifecycle handler to one in-memory store and registers
// one staff member per stage.
type fixture struct {
	t       *testing.T
	ctx     context.Context
	store   *memoryStore
	gateway *MockPaymentGateway
	logger  *slog.Logger

	customer   role.Actor
	sales      role.Actor
	accounts   role.Actor
	operations role.Actor
	admin      role.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gateway := new(MockPaymentGateway)
	gateway.On("CreatePaymentLink", mock.Anything, mock.Anything).Return("https://pay.example/link", nil).Maybe()

	f := &fixture{
		t:       t,
		ctx:     t.Context(),
		store:   newMemoryStore(),
		gateway: gateway,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	f.customer = f.actor(role.Customer)
	f.admin = f.actor(role.Admin)
	f.registerStaff(f.admin, "Ada Admin")
	f.sales = f.staff(role.Sales, "Sam Sales")
	f.accounts = f.staff(role.Accounts, "Alex Accounts")
	f.operations = f.staff(role.Operations, "Olive Ops")

	return f
}

func (f *fixture) actor(r role.Role) role.Actor {
	f.t.Helper()
	a, err := role.NewActor(kernel.NewUUID(), r)
	require.NoError(f.t, err)
	return a
}

func (f *fixture) staff(r role.Role, name string) role.Actor {
	f.t.Helper()
	a := f.actor(r)
	f.registerStaff(a, name)
	return a
}

func (f *fixture) registerStaff(a role.Actor, name string) {
	f.t.Helper()
	cmd, err := commands.NewRegisterStaffCommand(f.admin, *a.UserID(), name, a.Role())
	require.NoError(f.t, err)
	require.NoError(f.t, commands.NewRegisterStaffCommandHandler(catalogStore{f.store}).Handle(f.ctx, cmd))
}

func money(t *testing.T, s string) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromString(s)
	require.NoError(t, err)
	return m
}

func moneyPtr(t *testing.T, s string) *kernel.Money {
	m := money(t, s)
	return &m
}

func (f *fixture) service(price string, advance *kernel.Money, recurring bool, docs ...commands.RequiredDocumentSpec) kernel.UUID {
	f.t.Helper()
	cmd, err := commands.NewCreateServiceCommand(f.admin, "GST filing", money(f.t, price), advance, recurring, docs)
	require.NoError(f.t, err)
	id, err := commands.NewCreateServiceCommandHandler(catalogStore{f.store}).Handle(f.ctx, cmd)
	require.NoError(f.t, err)
	return id
}

func (f *fixture) createOrder(serviceID kernel.UUID) commands.PaymentRequest {
	f.t.Helper()
	cmd, err := commands.NewCreateOrderCommand(f.customer, serviceID, "card")
	require.NoError(f.t, err)
	result, err := commands.NewCreateOrderCommandHandler(f.store, f.gateway, f.logger).Handle(f.ctx, cmd)
	require.NoError(f.t, err)
	return result
}

func (f *fixture) confirm(paymentID kernel.UUID) error {
	f.t.Helper()
	cmd, err := commands.NewConfirmPaymentCommand(paymentID, "ref-"+paymentID.String())
	require.NoError(f.t, err)
	return commands.NewConfirmPaymentCommandHandler(f.store).Handle(f.ctx, cmd)
}

func (f *fixture) fail(paymentID kernel.UUID) error {
	f.t.Helper()
	cmd, err := commands.NewFailPaymentCommand(paymentID, "ref-"+paymentID.String())
	require.NoError(f.t, err)
	return commands.NewFailPaymentCommandHandler(f.store).Handle(f.ctx, cmd)
}

func (f *fixture) payBalance(orderID kernel.UUID) commands.PaymentRequest {
	f.t.Helper()
	cmd, err := commands.NewCreatePendingBalanceLinkCommand(f.customer, orderID, "card")
	require.NoError(f.t, err)
	result, err := commands.NewCreatePendingBalanceLinkCommandHandler(f.store, f.gateway, f.logger).Handle(f.ctx, cmd)
	require.NoError(f.t, err)
	require.NoError(f.t, f.confirm(result.PaymentID))
	return result
}

func (f *fixture) submitDocument(orderID kernel.UUID, code string) (kernel.UUID, error) {
	f.t.Helper()
	cmd, err := commands.NewSubmitDocumentCommand(f.customer, orderID, code, "orders/"+orderID.String()+"/"+code+".pdf")
	require.NoError(f.t, err)
	return commands.NewSubmitDocumentCommandHandler(f.store).Handle(f.ctx, cmd)
}

func (f *fixture) reviewDocument(documentID kernel.UUID, decision document.Status, remark string) error {
	f.t.Helper()
	cmd, err := commands.NewReviewDocumentCommand(f.sales, documentID, decision, remark)
	require.NoError(f.t, err)
	return commands.NewReviewDocumentCommandHandler(f.store).Handle(f.ctx, cmd)
}

func (f *fixture) forward(actor role.Actor, orderID kernel.UUID, target role.Actor) error {
	f.t.Helper()
	cmd, err := commands.NewForwardOrderCommand(actor, orderID, *target.UserID(), "")
	require.NoError(f.t, err)
	return commands.NewForwardOrderCommandHandler(f.store).Handle(f.ctx, cmd)
}

func (f *fixture) upload(orderID kernel.UUID, target role.Actor, files ...string) (kernel.UUID, error) {
	f.t.Helper()
	cmd, err := commands.NewUploadDeliverableCommand(f.operations, orderID, files, len(files) == 0, *target.UserID(), "")
	require.NoError(f.t, err)
	return commands.NewUploadDeliverableCommandHandler(f.store).Handle(f.ctx, cmd)
}

func (f *fixture) decideQC(deliverableID kernel.UUID, decision deliverable.QCStatus, remarks string) error {
	f.t.Helper()
	cmd, err := commands.NewDecideQCCommand(f.admin, deliverableID, decision, remarks)
	require.NoError(f.t, err)
	return commands.NewDecideQCCommandHandler(f.store).Handle(f.ctx, cmd)
}

func (f *fixture) complete(orderID kernel.UUID) error {
	f.t.Helper()
	cmd, err := commands.NewApproveCompletionCommand(f.admin, orderID, "")
	require.NoError(f.t, err)
	return commands.NewApproveCompletionCommandHandler(f.store).Handle(f.ctx, cmd)
}

// onboardingService costs 10000 with a 3000 advance and needs one PAN card.
func (f *fixture) onboardingService() kernel.UUID {
	return f.service("10000", moneyPtr(f.t, "3000"), false,
		commands.RequiredDocumentSpec{Code: "pan_card", Name: "PAN card", Mandatory: true})
}

// orderInOperations drives a new order to the operations stage.
// A fully paid order goes sales -> operations, a partially paid one
// sales -> accounts -> operations.
func (f *fixture) orderInOperations(serviceID kernel.UUID, fullyPaid bool) kernel.UUID {
	f.t.Helper()

	first := f.createOrder(serviceID)
	orderID := first.OrderID
	require.NoError(f.t, f.confirm(first.PaymentID))
	if fullyPaid && f.store.order(orderID).PaymentStatus() == order.PartiallyPaid {
		f.payBalance(orderID)
	}

	docID, err := f.submitDocument(orderID, "pan_card")
	require.NoError(f.t, err)
	require.NoError(f.t, f.reviewDocument(docID, document.Verified, ""))

	if fullyPaid {
		require.NoError(f.t, f.forward(f.sales, orderID, f.operations))
	} else {
		require.NoError(f.t, f.forward(f.sales, orderID, f.accounts))
		require.NoError(f.t, f.forward(f.accounts, orderID, f.operations))
	}
	return orderID
}

func requireGate(t *testing.T, err error, gate string) {
	t.Helper()
	var precondition *errs.PreconditionFailedError
	require.True(t, errors.As(err, &precondition), "expected a precondition failure, got %v", err)
	require.Equal(t, gate, precondition.Gate)
}
