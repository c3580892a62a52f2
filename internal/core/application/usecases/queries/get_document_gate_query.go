package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/document"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetDocumentGateQueryIsNotConstructed = errors.New(
		"GetDocumentGateQuery must be created via NewGetDocumentGateQuery constructor",
	)
)

// GetDocumentGateQuery reports the onboarding gate of an order and, for
// recurring services, the state of every monthly period.
type GetDocumentGateQuery struct {
	actor   role.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetDocumentGateQuery(actor role.Actor, orderID kernel.UUID) (GetDocumentGateQuery, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return GetDocumentGateQuery{}, err
	}

	return GetDocumentGateQuery{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDocumentGateQuery) Validate() error {
	return q.guard.Validate(ErrGetDocumentGateQueryIsNotConstructed)
}

func (q GetDocumentGateQuery) Actor() role.Actor {
	return q.actor
}

func (q GetDocumentGateQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetDocumentGateQueryResponse combines the templates, the submissions and the
// evaluated gates.
type GetDocumentGateQueryResponse struct {
	OrderID           kernel.UUID
	Recurring         bool
	Required          []RequiredDocumentView
	Documents         []DocumentView
	Gate              document.OrderGateReport
	CustomerDocuments []DocumentView
	Periods           []document.PeriodReport
}

type RequiredDocumentView struct {
	Code          string
	Name          string
	Mandatory     bool
	AllowMultiple bool
}

// DocumentView is a submitted document. Code is empty and Period set for
// recurring customer documents.
type DocumentView struct {
	ID        kernel.UUID
	Code      string
	Period    *kernel.Period
	FileKey   string
	Status    document.Status
	Remark    string
	CreatedAt time.Time
}
