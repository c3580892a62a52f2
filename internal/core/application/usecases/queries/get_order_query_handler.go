package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads the order view straight from the database.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns the order and its payments, oldest payment first.
//
// Returns:
//   - ObjectNotFoundError when the order does not exist
//   - AuthorizationError when a customer reads someone else's order
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	view, err := h.loadOrder(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}
	if err = authorizeRead(query.Actor(), view.CustomerID); err != nil {
		return nil, err
	}

	view.Payments, err = h.loadPayments(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}

	return view, nil
}

func (h GetOrderQueryHandler) loadOrder(ctx context.Context, orderID kernel.UUID) (*GetOrderQueryResponse, error) {
	var (
		id, customerID, serviceID    uuid.UUID
		assignedTo                   uuid.NullUUID
		serviceName                  string
		status, paymentStatus, stage string
		total, paid, pending         decimal.Decimal
		advance                      decimal.NullDecimal
		view                         GetOrderQueryResponse
	)

	err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.customer_id,
			o.service_id,
			COALESCE(s.name, ''),
			o.status,
			o.payment_status,
			o.stage,
			o.assigned_to,
			o.total,
			o.advance,
			o.paid,
			o.pending,
			o.version,
			o.created_at
		FROM orders o
		LEFT JOIN services s ON s.id = o.service_id
		WHERE o.id = ?
	`, orderID.Bytes()).Row().Scan(
		&id,
		&customerID,
		&serviceID,
		&serviceName,
		&status,
		&paymentStatus,
		&stage,
		&assignedTo,
		&total,
		&advance,
		&paid,
		&pending,
		&view.Version,
		&view.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewObjectNotFoundError("order", orderID.String())
	}
	if err != nil {
		return nil, err
	}

	var statusErr, paymentErr, stageErr, assigneeErr, totalErr, paidErr, pendingErr, advanceErr error
	view.ID = kernel.MustUUIDFromBytes(id)
	view.CustomerID = kernel.MustUUIDFromBytes(customerID)
	view.ServiceID = kernel.MustUUIDFromBytes(serviceID)
	view.ServiceName = serviceName
	view.Status, statusErr = order.ParseStatus(status)
	view.PaymentStatus, paymentErr = order.ParsePaymentStatus(paymentStatus)
	view.Stage, stageErr = role.Parse(stage)
	view.AssignedTo, assigneeErr = optionalID(assignedTo)
	view.Total, totalErr = kernel.NewMoney(total)
	view.Paid, paidErr = kernel.NewMoney(paid)
	view.Pending, pendingErr = kernel.NewMoney(pending)
	if advance.Valid {
		a, err := kernel.NewMoney(advance.Decimal)
		view.Advance, advanceErr = &a, err
	}

	if err = errors.Join(statusErr, paymentErr, stageErr, assigneeErr, totalErr, paidErr, pendingErr, advanceErr); err != nil {
		return nil, err
	}

	return &view, nil
}

func (h GetOrderQueryHandler) loadPayments(ctx context.Context, orderID kernel.UUID) ([]PaymentView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			type,
			mode,
			amount,
			status,
			gateway_ref,
			created_at
		FROM payments
		WHERE order_id = ?
		ORDER BY created_at, id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]PaymentView, 0)
	for rows.Next() {
		var (
			p                         PaymentView
			id                        uuid.UUID
			paymentType, status, mode string
			amount                    decimal.Decimal
		)
		if err = rows.Scan(&id, &paymentType, &mode, &amount, &status, &p.GatewayRef, &p.CreatedAt); err != nil {
			return nil, err
		}

		var typeErr, statusErr, amountErr error
		p.ID = kernel.MustUUIDFromBytes(id)
		p.Mode = mode
		p.Type, typeErr = payment.ParseType(paymentType)
		p.Status, statusErr = payment.ParseStatus(status)
		p.Amount, amountErr = kernel.NewMoney(amount)
		if err = errors.Join(typeErr, statusErr, amountErr); err != nil {
			return nil, err
		}

		payments = append(payments, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return payments, nil
}
