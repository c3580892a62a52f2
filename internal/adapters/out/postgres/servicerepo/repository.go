package servicerepo

import (
	"context"

	"fulfillment/internal/adapters/out/postgres/pgerrs"
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GormServiceRepository implements ports.ServiceRepository using GORM.
// Services are immutable once defined, so there is no Update.
type GormServiceRepository struct {
	db *gorm.DB
}

func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

// Add saves the service together with its required documents.
func (r *GormServiceRepository) Add(ctx context.Context, s *catalog.Service) error {
	if err := s.Validate(); err != nil {
		return err
	}

	dto := fromDomain(s)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerrs.Translate(err, "service", s.ID().String())
	}

	return nil
}

func (r *GormServiceRepository) Get(ctx context.Context, id kernel.UUID) (*catalog.Service, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ServiceDTO
	err := r.db.WithContext(ctx).
		Preload("RequiredDocuments", func(db *gorm.DB) *gorm.DB {
			return db.Order("code")
		}).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		return nil, pgerrs.Translate(err, "service", id.String())
	}

	return toDomain(dto)
}
