// Package documentrepo persists onboarding documents (order_documents) and
// recurring monthly customer documents (customer_documents).
package documentrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/document"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// OrderDocumentDTO is a document submitted against a required document code.
type OrderDocumentDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	Code        string     `gorm:"type:varchar(64);not null"`
	FileKey     string     `gorm:"type:text;not null"`
	Status      string     `gorm:"type:text;not null"`
	Remark      string     `gorm:"type:text"`
	SubmittedBy uuid.UUID  `gorm:"type:uuid;not null"`
	VerifiedBy  *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

func (OrderDocumentDTO) TableName() string {
	return "order_documents"
}

// CustomerDocumentDTO is a recurring document for one month of an order.
type CustomerDocumentDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID  `gorm:"type:uuid;index:idx_customer_document_period;not null"`
	Year        int        `gorm:"type:smallint;index:idx_customer_document_period;not null"`
	Month       int        `gorm:"type:smallint;index:idx_customer_document_period;not null"`
	FileKey     string     `gorm:"type:text;not null"`
	Status      string     `gorm:"type:text;not null"`
	Remark      string     `gorm:"type:text"`
	SubmittedBy uuid.UUID  `gorm:"type:uuid;not null"`
	VerifiedBy  *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

func (CustomerDocumentDTO) TableName() string {
	return "customer_documents"
}

func fromOrderDocument(d *document.OrderDocument) OrderDocumentDTO {
	return OrderDocumentDTO{
		ID:          d.ID().Bytes(),
		OrderID:     d.OrderID().Bytes(),
		Code:        d.Code(),
		FileKey:     d.FileKey(),
		Status:      d.Status().String(),
		Remark:      d.Remark(),
		SubmittedBy: d.SubmittedBy().Bytes(),
		VerifiedBy:  kernel.OptionalBytes(d.VerifiedBy()),
		CreatedAt:   d.CreatedAt(),
		UpdatedAt:   d.UpdatedAt(),
	}
}

func toOrderDocument(dto OrderDocumentDTO) (*document.OrderDocument, error) {
	status, err := document.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	verifiedBy, err := kernel.OptionalFromBytes(dto.VerifiedBy)
	if err != nil {
		return nil, err
	}

	return document.RestoreOrderDocument(
		kernel.MustUUIDFromBytes(dto.ID),
		kernel.MustUUIDFromBytes(dto.OrderID),
		dto.Code,
		dto.FileKey,
		status,
		dto.Remark,
		kernel.MustUUIDFromBytes(dto.SubmittedBy),
		verifiedBy,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}

func fromCustomerDocument(d *document.CustomerDocument) CustomerDocumentDTO {
	return CustomerDocumentDTO{
		ID:          d.ID().Bytes(),
		OrderID:     d.OrderID().Bytes(),
		Year:        d.Period().Year(),
		Month:       d.Period().Month(),
		FileKey:     d.FileKey(),
		Status:      d.Status().String(),
		Remark:      d.Remark(),
		SubmittedBy: d.SubmittedBy().Bytes(),
		VerifiedBy:  kernel.OptionalBytes(d.VerifiedBy()),
		CreatedAt:   d.CreatedAt(),
		UpdatedAt:   d.UpdatedAt(),
	}
}

func toCustomerDocument(dto CustomerDocumentDTO) (*document.CustomerDocument, error) {
	status, err := document.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	period, err := kernel.NewPeriod(dto.Month, dto.Year)
	if err != nil {
		return nil, err
	}
	verifiedBy, err := kernel.OptionalFromBytes(dto.VerifiedBy)
	if err != nil {
		return nil, err
	}

	return document.RestoreCustomerDocument(
		kernel.MustUUIDFromBytes(dto.ID),
		kernel.MustUUIDFromBytes(dto.OrderID),
		period,
		dto.FileKey,
		status,
		dto.Remark,
		kernel.MustUUIDFromBytes(dto.SubmittedBy),
		verifiedBy,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
