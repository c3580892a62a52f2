// Package ports defines the contracts between the fulfillment core and its
// infrastructure: repositories bound to a unit of work, and the external
// collaborators (blob store, payment gateway, notifier).
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/role"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order. The stored version must match
	// aggregate.Version(); otherwise a ConflictError is returned and nothing is written.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order without locking it.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order and locks its row until the transaction ends
	// (SELECT ... FOR UPDATE). Every guarded mutation loads the order this way.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListUnassigned returns up to limit active orders of stage without assignee,
	// oldest first.
	ListUnassigned(ctx context.Context, stage role.Role, limit int) ([]*order.Order, error)

	// CountOpenByAssignee counts non terminal orders per assignee within stage.
	// Members without open orders are absent from the result.
	CountOpenByAssignee(ctx context.Context, stage role.Role) (map[kernel.UUID]int, error)
}
