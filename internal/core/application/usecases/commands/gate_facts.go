package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/document"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

// orderGate evaluates the onboarding gate of o against its service templates.
func orderGate(ctx context.Context, uow UoW, o *order.Order, service *catalog.Service) (document.OrderGateReport, error) {
	docs, err := uow.DocumentRepository().ListOrderDocuments(ctx, o.ID())
	if err != nil {
		return document.OrderGateReport{}, err
	}
	return document.EvaluateOrderGate(service.MandatoryCodes(), docs), nil
}

// handoffFacts collects everything services.HandoffPolicy needs about o.
// The order must already be locked by the caller.
func handoffFacts(ctx context.Context, uow UoW, o *order.Order) (services.HandoffFacts, error) {
	service, err := uow.ServiceRepository().Get(ctx, o.ServiceID())
	if err != nil {
		return services.HandoffFacts{}, err
	}

	gate, err := orderGate(ctx, uow, o, service)
	if err != nil {
		return services.HandoffFacts{}, err
	}

	deliverables, err := uow.DeliverableRepository().ListByOrder(ctx, o.ID())
	if err != nil {
		return services.HandoffFacts{}, err
	}

	facts := services.HandoffFacts{
		DocumentsSatisfied: gate.Satisfied,
		HasDeliverable:     len(deliverables) > 0,
	}

	if service.IsRecurring() {
		periodDocs, listErr := uow.DocumentRepository().ListCustomerDocuments(ctx, o.ID())
		if listErr != nil {
			return services.HandoffFacts{}, listErr
		}
		facts.RecurringBlocked = document.EvaluateRecurringGate(periodDocs).IsBlocked()
	}

	return facts, nil
}
