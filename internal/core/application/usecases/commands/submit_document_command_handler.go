package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/auditlog"
	"fulfillment/internal/core/domain/model/document"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// SubmitDocumentCommandHandler stores a pending document for one of the
// service's required codes.
//
// Business rules:
//   - only the customer who placed the order may submit
//   - the order must be awaiting_docs or under_review
//   - the code must be one of the service's templates
//   - a single-document code accepts a new submission only after the previous
//     one was rejected
type SubmitDocumentCommandHandler struct {
	uowFactory UoWFactory
}

func NewSubmitDocumentCommandHandler(uowFactory UoWFactory) SubmitDocumentCommandHandler {
	return SubmitDocumentCommandHandler{uowFactory: uowFactory}
}

func (h SubmitDocumentCommandHandler) Handle(ctx context.Context, cmd SubmitDocumentCommand) (kernel.UUID, error) {
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
	if o.Status() != order.AwaitingDocs && o.Status() != order.UnderReview {
		return kernel.UUID{}, errs.NewPreconditionFailedError(
			"status", fmt.Sprintf("documents are accepted after payment, order is %s", o.Status()))
	}

	service, err := uow.ServiceRepository().Get(ctx, o.ServiceID())
	if err != nil {
		return kernel.UUID{}, err
	}
	requirement, ok := service.Requirement(cmd.Code())
	if !ok {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(
			"code", fmt.Errorf("%q is not required by %s", cmd.Code(), service.Name()))
	}

	if !requirement.AllowsMultiple() {
		existing, listErr := uow.DocumentRepository().ListOrderDocuments(ctx, o.ID())
		if listErr != nil {
			return kernel.UUID{}, listErr
		}
		for _, d := range existing {
			if d.Code() == requirement.Code() && d.Status() != document.Rejected {
				return kernel.UUID{}, errs.NewConflictError(
					"document", fmt.Sprintf("%s is already submitted and %s", d.Code(), d.Status()))
			}
		}
	}

	doc, err := document.NewOrderDocument(
		kernel.NewUUID(), o.ID(), requirement.Code(), cmd.FileKey(), *cmd.Actor().UserID(), now())
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.DocumentRepository().AddOrderDocument(ctx, doc); err != nil {
		return kernel.UUID{}, err
	}
	if err = appendAudit(ctx, uow, o.ID(), cmd.Actor(), noHandoff, auditlog.DocumentSubmitted, doc.Code()); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return doc.ID(), nil
}
