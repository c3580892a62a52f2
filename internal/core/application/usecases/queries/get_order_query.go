package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery retrieves one order with its payment attempts.
// Customers may only read their own orders.
//
// Example:
//
//	query, err := NewGetOrderQuery(actor, orderID)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
//	fmt.Printf("%s is %s, %s pending\n", view.ID, view.Status, view.Pending)
type GetOrderQuery struct {
	actor   role.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(actor role.Actor, orderID kernel.UUID) (GetOrderQuery, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) Actor() role.Actor {
	return q.actor
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse is the read model of an order.
type GetOrderQueryResponse struct {
	ID            kernel.UUID
	CustomerID    kernel.UUID
	ServiceID     kernel.UUID
	ServiceName   string
	Status        order.Status
	PaymentStatus order.PaymentStatus
	Stage         role.Role
	AssignedTo    *kernel.UUID
	Total         kernel.Money
	Advance       *kernel.Money
	Paid          kernel.Money
	Pending       kernel.Money
	Version       int64
	CreatedAt     time.Time
	Payments      []PaymentView
}

// PaymentView is one payment attempt of an order.
type PaymentView struct {
	ID         kernel.UUID
	Type       payment.Type
	Mode       string
	Amount     kernel.Money
	Status     payment.Status
	GatewayRef string
	CreatedAt  time.Time
}
