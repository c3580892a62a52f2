package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/deliverable"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetDeliverableURLsQueryIsNotConstructed = errors.New(
		"GetDeliverableURLsQuery must be created via NewGetDeliverableURLsQuery constructor",
	)
)

// GetDeliverableURLsQuery issues time limited read URLs for every file of a
// deliverable version. Customers only get URLs of approved versions of their
// own orders.
type GetDeliverableURLsQuery struct {
	actor         role.Actor
	deliverableID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetDeliverableURLsQuery(actor role.Actor, deliverableID kernel.UUID) (GetDeliverableURLsQuery, error) {
	if err := errors.Join(actor.Validate(), deliverableID.Validate()); err != nil {
		return GetDeliverableURLsQuery{}, err
	}

	return GetDeliverableURLsQuery{
		actor:         actor,
		deliverableID: deliverableID,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (q GetDeliverableURLsQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliverableURLsQueryIsNotConstructed)
}

func (q GetDeliverableURLsQuery) Actor() role.Actor {
	return q.actor
}

func (q GetDeliverableURLsQuery) DeliverableID() kernel.UUID {
	return q.deliverableID
}

type GetDeliverableURLsQueryResponse struct {
	DeliverableID kernel.UUID
	OrderID       kernel.UUID
	Version       int
	QCStatus      deliverable.QCStatus
	Files         []FileURL
	ExpiresAt     time.Time
}

type FileURL struct {
	Key string
	URL string
}
