package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// authorizeRead lets staff read any order and customers only their own.
func authorizeRead(actor role.Actor, customerID kernel.UUID) error {
	if actor.Role() == role.Customer && !actor.Is(customerID) {
		return errs.NewAuthorizationError(actor.Role().String(), "read another customer's order")
	}
	return nil
}

// orderCustomer returns the customer of an order, or ObjectNotFoundError.
func orderCustomer(ctx context.Context, db *gorm.DB, orderID kernel.UUID) (kernel.UUID, error) {
	var customerID uuid.UUID
	err := db.WithContext(ctx).
		Raw(`SELECT customer_id FROM orders WHERE id = ?`, orderID.Bytes()).
		Row().
		Scan(&customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return kernel.UUID{}, errs.NewObjectNotFoundError("order", orderID.String())
	}
	if err != nil {
		return kernel.UUID{}, err
	}

	return kernel.UUIDFromBytes(customerID[:])
}

func optionalID(id uuid.NullUUID) (*kernel.UUID, error) {
	if !id.Valid {
		return nil, nil //nolint:nilnil // column is NULL
	}
	parsed, err := kernel.UUIDFromBytes(id.UUID[:])
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
