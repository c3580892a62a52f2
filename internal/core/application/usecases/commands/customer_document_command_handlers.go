package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/auditlog"
	"fulfillment/internal/core/domain/model/document"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/errs"
)

// SubmitCustomerDocumentCommandHandler stores a period document of a recurring
// service. The order must be past payment and not terminal.
type SubmitCustomerDocumentCommandHandler struct {
	uowFactory UoWFactory
}

func NewSubmitCustomerDocumentCommandHandler(uowFactory UoWFactory) SubmitCustomerDocumentCommandHandler {
	return SubmitCustomerDocumentCommandHandler{uowFactory: uowFactory}
}

func (h SubmitCustomerDocumentCommandHandler) Handle(
	ctx context.Context,
	cmd SubmitCustomerDocumentCommand,
) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = cmd.Actor().Require(o.IsCustomer(cmd.Actor()), "submit documents for this order"); err != nil {
		return kernel.UUID{}, err
	}
	if o.IsTerminal() {
		return kernel.UUID{}, errs.NewConflictError("order", fmt.Sprintf("order is %s", o.Status()))
	}
	if o.Status() == order.AwaitingPayment {
		return kernel.UUID{}, errs.NewPreconditionFailedError("payment", "order is still awaiting payment")
	}

	service, err := uow.ServiceRepository().Get(ctx, o.ServiceID())
	if err != nil {
		return kernel.UUID{}, err
	}
	if !service.IsRecurring() {
		return kernel.UUID{}, errs.NewPreconditionFailedError(
			"recurring documents", fmt.Sprintf("%s is not a recurring service", service.Name()))
	}

	doc, err := document.NewCustomerDocument(
		kernel.NewUUID(), o.ID(), cmd.Period(), cmd.FileKey(), *cmd.Actor().UserID(), now())
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.DocumentRepository().AddCustomerDocument(ctx, doc); err != nil {
		return kernel.UUID{}, err
	}
	if err = appendAudit(ctx, uow, o.ID(), cmd.Actor(), noHandoff, auditlog.CustomerDocumentSubmitted,
		doc.Period().String()); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return doc.ID(), nil
}

// ReplaceCustomerDocumentCommandHandler swaps the file of a rejected period
// document. The document goes back to pending.
type ReplaceCustomerDocumentCommandHandler struct {
	uowFactory UoWFactory
}

func NewReplaceCustomerDocumentCommandHandler(uowFactory UoWFactory) ReplaceCustomerDocumentCommandHandler {
	return ReplaceCustomerDocumentCommandHandler{uowFactory: uowFactory}
}

func (h ReplaceCustomerDocumentCommandHandler) Handle(ctx context.Context, cmd ReplaceCustomerDocumentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, doc, err := lockCustomerDocument(ctx, uow, cmd.DocumentID())
	if err != nil {
		return err
	}
	if o.IsTerminal() {
		return errs.NewConflictError("order", fmt.Sprintf("order is %s", o.Status()))
	}

	if err = doc.Replace(*cmd.Actor().UserID(), cmd.FileKey(), now()); err != nil {
		return err
	}

	if err = uow.DocumentRepository().UpdateCustomerDocument(ctx, doc); err != nil {
		return err
	}
	if err = appendAudit(ctx, uow, o.ID(), cmd.Actor(), noHandoff, auditlog.CustomerDocumentReplaced,
		doc.Period().String()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// ReviewCustomerDocumentCommandHandler records the Operations decision on a
// period document. A rejection blocks the hand-off to Admin until the customer
// replaces the file and it is approved.
type ReviewCustomerDocumentCommandHandler struct {
	uowFactory UoWFactory
}

func NewReviewCustomerDocumentCommandHandler(uowFactory UoWFactory) ReviewCustomerDocumentCommandHandler {
	return ReviewCustomerDocumentCommandHandler{uowFactory: uowFactory}
}

func (h ReviewCustomerDocumentCommandHandler) Handle(ctx context.Context, cmd ReviewCustomerDocumentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	actor := cmd.Actor()
	if err := actor.Require(actor.Role().CanReview(role.RecurringDocuments), "review period documents"); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, doc, err := lockCustomerDocument(ctx, uow, cmd.DocumentID())
	if err != nil {
		return err
	}
	if o.IsTerminal() {
		return errs.NewConflictError("order", fmt.Sprintf("order is %s", o.Status()))
	}

	if err = doc.Review(cmd.Decision(), *actor.UserID(), cmd.Remark(), now()); err != nil {
		return err
	}

	if err = uow.DocumentRepository().UpdateCustomerDocument(ctx, doc); err != nil {
		return err
	}

	remarks := doc.Period().String() + " " + doc.Status().String()
	if doc.Remark() != "" {
		remarks += ": " + doc.Remark()
	}
	if err = appendAudit(ctx, uow, o.ID(), actor, noHandoff, auditlog.CustomerDocumentReviewed, remarks); err != nil {
		return err
	}
	if doc.Status() == document.Rejected {
		if err = enqueue(ctx, uow, o.ID(), o.CustomerID(), notification.DocumentRejected, map[string]string{
			"period": doc.Period().String(),
			"remark": doc.Remark(),
		}); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}

// lockCustomerDocument locks the document's order and re-reads the document
// under that lock.
func lockCustomerDocument(
	ctx context.Context,
	uow UoW,
	documentID kernel.UUID,
) (*order.Order, *document.CustomerDocument, error) {
	unlocked, err := uow.DocumentRepository().GetCustomerDocument(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}
	o, err := uow.OrderRepository().GetForUpdate(ctx, unlocked.OrderID())
	if err != nil {
		return nil, nil, err
	}
	doc, err := uow.DocumentRepository().GetCustomerDocument(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}
	return o, doc, nil
}
