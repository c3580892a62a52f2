// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/role"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Indexed for the dispatcher (stage, assignee) and for customer lookups.
type OrderDTO struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	CustomerID    uuid.UUID        `gorm:"type:uuid;index;not null"`
	ServiceID     uuid.UUID        `gorm:"type:uuid;not null"`
	Status        string           `gorm:"type:text;index;not null"`
	PaymentStatus string           `gorm:"type:text;not null"`
	Stage         string           `gorm:"type:text;index:idx_orders_stage_assignee;not null"`
	AssignedTo    *uuid.UUID       `gorm:"type:uuid;index:idx_orders_stage_assignee"`
	Total         decimal.Decimal  `gorm:"type:numeric(14,2);not null"`
	Advance       *decimal.Decimal `gorm:"type:numeric(14,2)"`
	Paid          decimal.Decimal  `gorm:"type:numeric(14,2);not null"`
	Pending       decimal.Decimal  `gorm:"type:numeric(14,2);not null"`
	Version       int64            `gorm:"not null;default:0"`
	CreatedAt     time.Time        `gorm:"not null"`
	UpdatedAt     time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	var advance *decimal.Decimal
	if a := o.Advance(); a != nil {
		amount := a.Decimal()
		advance = &amount
	}

	return OrderDTO{
		ID:            o.ID().Bytes(),
		CustomerID:    o.CustomerID().Bytes(),
		ServiceID:     o.ServiceID().Bytes(),
		Status:        o.Status().String(),
		PaymentStatus: o.PaymentStatus().String(),
		Stage:         o.Stage().String(),
		AssignedTo:    kernel.OptionalBytes(o.AssignedTo()),
		Total:         o.Total().Decimal(),
		Advance:       advance,
		Paid:          o.Paid().Decimal(),
		Pending:       o.Pending().Decimal(),
		Version:       o.Version(),
		CreatedAt:     o.CreatedAt(),
	}
}

// toDomain reconstructs the aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	status, statusErr := order.ParseStatus(dto.Status)
	paymentStatus, paymentErr := order.ParsePaymentStatus(dto.PaymentStatus)
	stage, stageErr := role.Parse(dto.Stage)
	assignedTo, assigneeErr := kernel.OptionalFromBytes(dto.AssignedTo)
	total, totalErr := kernel.NewMoney(dto.Total)
	paid, paidErr := kernel.NewMoney(dto.Paid)

	var advance *kernel.Money
	var advanceErr error
	if dto.Advance != nil {
		a, err := kernel.NewMoney(*dto.Advance)
		advance, advanceErr = &a, err
	}

	if err := errors.Join(statusErr, paymentErr, stageErr, assigneeErr, totalErr, paidErr, advanceErr); err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		kernel.MustUUIDFromBytes(dto.ID),
		kernel.MustUUIDFromBytes(dto.CustomerID),
		kernel.MustUUIDFromBytes(dto.ServiceID),
		status,
		paymentStatus,
		stage,
		assignedTo,
		total,
		advance,
		paid,
		dto.Version,
		dto.CreatedAt,
	)
}
