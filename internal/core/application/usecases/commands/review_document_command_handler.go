package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/auditlog"
	"fulfillment/internal/core/domain/model/document"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/errs"
)

// ReviewDocumentCommandHandler records the Sales decision on an order document.
// Verifying the last unverified mandatory document moves the order to
// under_review in the same transaction. Once the gate was approved a document
// can no longer be rejected.
type ReviewDocumentCommandHandler struct {
	uowFactory UoWFactory
}

func NewReviewDocumentCommandHandler(uowFactory UoWFactory) ReviewDocumentCommandHandler {
	return ReviewDocumentCommandHandler{uowFactory: uowFactory}
}

func (h ReviewDocumentCommandHandler) Handle(ctx context.Context, cmd ReviewDocumentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	actor := cmd.Actor()
	if err := actor.Require(actor.Role().CanReview(role.OnboardingDocuments), "review order documents"); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	unlocked, err := uow.DocumentRepository().GetOrderDocument(ctx, cmd.DocumentID())
	if err != nil {
		return err
	}
	o, err := uow.OrderRepository().GetForUpdate(ctx, unlocked.OrderID())
	if err != nil {
		return err
	}
	doc, err := uow.DocumentRepository().GetOrderDocument(ctx, cmd.DocumentID())
	if err != nil {
		return err
	}

	if o.IsTerminal() {
		return errs.NewConflictError("order", fmt.Sprintf("order is %s", o.Status()))
	}
	if cmd.Decision() == document.Rejected && o.Status() != order.AwaitingDocs {
		return errs.NewConflictError("document", fmt.Sprintf("document gate is already approved, order is %s", o.Status()))
	}

	if err = doc.Review(cmd.Decision(), *actor.UserID(), cmd.Remark(), now()); err != nil {
		return err
	}
	if err = uow.DocumentRepository().UpdateOrderDocument(ctx, doc); err != nil {
		return err
	}

	remarks := doc.Code() + " " + doc.Status().String()
	if doc.Remark() != "" {
		remarks += ": " + doc.Remark()
	}

	if doc.Status() == document.Verified && o.Status() == order.AwaitingDocs {
		service, serviceErr := uow.ServiceRepository().Get(ctx, o.ServiceID())
		if serviceErr != nil {
			return serviceErr
		}
		gate, gateErr := orderGate(ctx, uow, o, service)
		if gateErr != nil {
			return gateErr
		}
		if gate.Approved {
			if err = o.VerifyDocuments(); err != nil {
				return err
			}
			if err = uow.OrderRepository().Update(ctx, o); err != nil {
				return err
			}
			remarks += ", document gate approved"
		}
	}

	if err = appendAudit(ctx, uow, o.ID(), actor, noHandoff, auditlog.DocumentReviewed, remarks); err != nil {
		return err
	}
	if doc.Status() == document.Rejected {
		if err = enqueue(ctx, uow, o.ID(), o.CustomerID(), notification.DocumentRejected, map[string]string{
			"code":   doc.Code(),
			"remark": doc.Remark(),
		}); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
