package deliverablerepo

import (
	"context"
	"fmt"

	"fulfillment/internal/adapters/out/postgres/pgerrs"
	"fulfillment/internal/core/domain/model/deliverable"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDeliverableRepository implements ports.DeliverableRepository using GORM.
type GormDeliverableRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormDeliverableRepository(db *gorm.DB, tracker aggregateTracker) *GormDeliverableRepository {
	return &GormDeliverableRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add stores a new version. A version number already used by the order is a
// ConflictError.
func (r *GormDeliverableRepository) Add(ctx context.Context, d *deliverable.Deliverable) error {
	if err := d.Validate(); err != nil {
		return err
	}

	dto := fromDomain(d)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerrs.IsUniqueViolation(err) {
			return errs.NewConflictErrorWithCause(
				"deliverable",
				fmt.Sprintf("version %d already exists for order %s", d.Version(), d.OrderID()),
				err,
			)
		}
		return err
	}

	r.tracker.TrackAggregate(d.ID(), d)
	return nil
}

// Update writes the QC decision.
func (r *GormDeliverableRepository) Update(ctx context.Context, d *deliverable.Deliverable) error {
	if err := d.Validate(); err != nil {
		return err
	}

	dto := fromDomain(d)
	result := r.db.WithContext(ctx).
		Model(&DeliverableDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"qc_status":  dto.QCStatus,
			"remark":     dto.Remark,
			"updated_at": dto.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("deliverable", d.ID().String())
	}

	r.tracker.TrackAggregate(d.ID(), d)
	return nil
}

func (r *GormDeliverableRepository) Get(ctx context.Context, id kernel.UUID) (*deliverable.Deliverable, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DeliverableDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgerrs.Translate(err, "deliverable", id.String())
	}

	return toDomain(dto)
}

// ListByOrder returns the versions of an order in ascending order.
func (r *GormDeliverableRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*deliverable.Deliverable, error) {
	var dtos []DeliverableDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("versions").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	result := make([]*deliverable.Deliverable, 0, len(dtos))
	for _, dto := range dtos {
		d, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}

	return result, nil
}
