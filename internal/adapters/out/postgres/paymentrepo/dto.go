// Package paymentrepo persists payment attempts.
package paymentrepo

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentDTO is one row of the payments table.
type PaymentDTO struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Type       string          `gorm:"type:text;not null"`
	Mode       string          `gorm:"type:text;not null"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Status     string          `gorm:"type:text;not null"`
	GatewayRef string          `gorm:"type:text"`
	CreatedAt  time.Time       `gorm:"not null"`
	UpdatedAt  time.Time       `gorm:"not null"`
}

func (PaymentDTO) TableName() string {
	return "payments"
}

func fromDomain(p *payment.Payment) PaymentDTO {
	return PaymentDTO{
		ID:         p.ID().Bytes(),
		OrderID:    p.OrderID().Bytes(),
		Type:       p.Type().String(),
		Mode:       p.Mode(),
		Amount:     p.Amount().Decimal(),
		Status:     p.Status().String(),
		GatewayRef: p.GatewayRef(),
		CreatedAt:  p.CreatedAt(),
		UpdatedAt:  p.UpdatedAt(),
	}
}

func toDomain(dto PaymentDTO) (*payment.Payment, error) {
	paymentType, typeErr := payment.ParseType(dto.Type)
	status, statusErr := payment.ParseStatus(dto.Status)
	amount, amountErr := kernel.NewMoney(dto.Amount)
	if err := errors.Join(typeErr, statusErr, amountErr); err != nil {
		return nil, err
	}

	return payment.RestorePayment(
		kernel.MustUUIDFromBytes(dto.ID),
		kernel.MustUUIDFromBytes(dto.OrderID),
		paymentType,
		dto.Mode,
		amount,
		status,
		dto.GatewayRef,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
