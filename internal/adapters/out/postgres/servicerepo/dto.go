// Package servicerepo provides data transfer objects and mapping functions for the
// service catalog. A service row owns its required document templates.
package servicerepo

import (
	"time"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceDTO represents a purchasable service with its document templates.
type ServiceDTO struct {
	ID                uuid.UUID             `gorm:"type:uuid;primaryKey"`
	Name              string                `gorm:"type:varchar(200);not null"`
	Price             decimal.Decimal       `gorm:"type:numeric(14,2);not null"`
	Advance           *decimal.Decimal      `gorm:"type:numeric(14,2)"`
	Recurring         bool                  `gorm:"not null;default:false"`
	CreatedAt         time.Time             `gorm:"not null"`
	RequiredDocuments []RequiredDocumentDTO `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE"`
}

func (ServiceDTO) TableName() string {
	return "services"
}

// RequiredDocumentDTO is a document template row. Codes are unique per service.
type RequiredDocumentDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ServiceID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_required_document_code"`
	Code          string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_required_document_code"`
	Name          string    `gorm:"type:varchar(200);not null"`
	Mandatory     bool      `gorm:"not null"`
	AllowMultiple bool      `gorm:"not null"`
}

func (RequiredDocumentDTO) TableName() string {
	return "required_documents"
}

func fromDomain(s *catalog.Service) ServiceDTO {
	serviceID := s.ID().Bytes()

	var advance *decimal.Decimal
	if a := s.Advance(); a != nil {
		amount := a.Decimal()
		advance = &amount
	}

	documents := make([]RequiredDocumentDTO, 0, len(s.RequiredDocuments()))
	for _, d := range s.RequiredDocuments() {
		documents = append(documents, RequiredDocumentDTO{
			ID:            d.ID().Bytes(),
			ServiceID:     serviceID,
			Code:          d.Code(),
			Name:          d.Name(),
			Mandatory:     d.IsMandatory(),
			AllowMultiple: d.AllowsMultiple(),
		})
	}

	return ServiceDTO{
		ID:                serviceID,
		Name:              s.Name(),
		Price:             s.Price().Decimal(),
		Advance:           advance,
		Recurring:         s.IsRecurring(),
		CreatedAt:         s.CreatedAt(),
		RequiredDocuments: documents,
	}
}

func toDomain(dto ServiceDTO) (*catalog.Service, error) {
	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return nil, err
	}

	var advance *kernel.Money
	if dto.Advance != nil {
		a, err := kernel.NewMoney(*dto.Advance)
		if err != nil {
			return nil, err
		}
		advance = &a
	}

	documents := make([]catalog.RequiredDocument, 0, len(dto.RequiredDocuments))
	for _, d := range dto.RequiredDocuments {
		doc, err := catalog.NewRequiredDocument(
			kernel.MustUUIDFromBytes(d.ID),
			d.Code,
			d.Name,
			d.Mandatory,
			d.AllowMultiple,
		)
		if err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}

	return catalog.RestoreService(
		kernel.MustUUIDFromBytes(dto.ID),
		dto.Name,
		price,
		advance,
		dto.Recurring,
		documents,
		dto.CreatedAt,
	)
}
