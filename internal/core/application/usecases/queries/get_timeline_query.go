package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/auditlog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetTimelineQueryIsNotConstructed = errors.New(
		"GetTimelineQuery must be created via NewGetTimelineQuery constructor",
	)
)

// GetTimelineQuery lists the audit log of an order in chronological order.
// Entries written by the system are hidden unless includeSystem is set by a
// staff member; customers always get the human timeline.
type GetTimelineQuery struct {
	actor         role.Actor
	orderID       kernel.UUID
	includeSystem bool

	guard guard.ConstructorGuard
}

func NewGetTimelineQuery(actor role.Actor, orderID kernel.UUID, includeSystem bool) (GetTimelineQuery, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return GetTimelineQuery{}, err
	}

	return GetTimelineQuery{
		actor:         actor,
		orderID:       orderID,
		includeSystem: includeSystem && actor.Role().IsStaff(),
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (q GetTimelineQuery) Validate() error {
	return q.guard.Validate(ErrGetTimelineQueryIsNotConstructed)
}

func (q GetTimelineQuery) Actor() role.Actor {
	return q.actor
}

func (q GetTimelineQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetTimelineQuery) IncludeSystem() bool {
	return q.includeSystem
}

// TimelineEntry is one audit record as shown on the order timeline.
type TimelineEntry struct {
	ID        kernel.UUID
	FromRole  role.Role
	FromUser  *kernel.UUID
	ToRole    role.Role
	ToUser    *kernel.UUID
	Action    auditlog.Action
	Remarks   string
	CreatedAt time.Time
}
