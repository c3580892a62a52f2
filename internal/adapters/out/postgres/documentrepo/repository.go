package documentrepo

import (
	"context"

	"fulfillment/internal/adapters/out/postgres/pgerrs"
	"fulfillment/internal/core/domain/model/document"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDocumentRepository implements ports.DocumentRepository using GORM.
type GormDocumentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormDocumentRepository(db *gorm.DB, tracker aggregateTracker) *GormDocumentRepository {
	return &GormDocumentRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormDocumentRepository) AddOrderDocument(ctx context.Context, d *document.OrderDocument) error {
	if err := d.Validate(); err != nil {
		return err
	}

	dto := fromOrderDocument(d)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerrs.Translate(err, "document", d.ID().String())
	}

	r.tracker.TrackAggregate(d.ID(), d)
	return nil
}

// UpdateOrderDocument writes the review outcome.
func (r *GormDocumentRepository) UpdateOrderDocument(ctx context.Context, d *document.OrderDocument) error {
	if err := d.Validate(); err != nil {
		return err
	}

	dto := fromOrderDocument(d)
	if err := r.update(ctx, &OrderDocumentDTO{}, dto.ID, map[string]any{
		"status":      dto.Status,
		"remark":      dto.Remark,
		"verified_by": dto.VerifiedBy,
		"updated_at":  dto.UpdatedAt,
	}); err != nil {
		return err
	}

	r.tracker.TrackAggregate(d.ID(), d)
	return nil
}

func (r *GormDocumentRepository) GetOrderDocument(ctx context.Context, id kernel.UUID) (*document.OrderDocument, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDocumentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgerrs.Translate(err, "document", id.String())
	}

	return toOrderDocument(dto)
}

// ListOrderDocuments returns the onboarding documents of an order, oldest first.
func (r *GormDocumentRepository) ListOrderDocuments(ctx context.Context, orderID kernel.UUID) ([]*document.OrderDocument, error) {
	var dtos []OrderDocumentDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	docs := make([]*document.OrderDocument, 0, len(dtos))
	for _, dto := range dtos {
		d, err := toOrderDocument(dto)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}

	return docs, nil
}

func (r *GormDocumentRepository) AddCustomerDocument(ctx context.Context, d *document.CustomerDocument) error {
	if err := d.Validate(); err != nil {
		return err
	}

	dto := fromCustomerDocument(d)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerrs.Translate(err, "customer document", d.ID().String())
	}

	r.tracker.TrackAggregate(d.ID(), d)
	return nil
}

// UpdateCustomerDocument writes a replacement file or a review outcome.
func (r *GormDocumentRepository) UpdateCustomerDocument(ctx context.Context, d *document.CustomerDocument) error {
	if err := d.Validate(); err != nil {
		return err
	}

	dto := fromCustomerDocument(d)
	if err := r.update(ctx, &CustomerDocumentDTO{}, dto.ID, map[string]any{
		"file_key":     dto.FileKey,
		"status":       dto.Status,
		"remark":       dto.Remark,
		"submitted_by": dto.SubmittedBy,
		"verified_by":  dto.VerifiedBy,
		"updated_at":   dto.UpdatedAt,
	}); err != nil {
		return err
	}

	r.tracker.TrackAggregate(d.ID(), d)
	return nil
}

func (r *GormDocumentRepository) GetCustomerDocument(ctx context.Context, id kernel.UUID) (*document.CustomerDocument, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CustomerDocumentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgerrs.Translate(err, "customer document", id.String())
	}

	return toCustomerDocument(dto)
}

// ListCustomerDocuments returns the recurring documents of an order by period.
func (r *GormDocumentRepository) ListCustomerDocuments(ctx context.Context, orderID kernel.UUID) ([]*document.CustomerDocument, error) {
	var dtos []CustomerDocumentDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("year, month, created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	docs := make([]*document.CustomerDocument, 0, len(dtos))
	for _, dto := range dtos {
		d, err := toCustomerDocument(dto)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}

	return docs, nil
}

func (r *GormDocumentRepository) update(ctx context.Context, model any, id any, fields map[string]any) error {
	result := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("document", id)
	}
	return nil
}
