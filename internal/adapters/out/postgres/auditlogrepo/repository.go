package auditlogrepo

import (
	"context"

	"fulfillment/internal/core/domain/model/auditlog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"

	"gorm.io/gorm"
)

// GormAuditLogRepository implements ports.AuditLogRepository. Rows are only
// ever inserted.
type GormAuditLogRepository struct {
	db *gorm.DB
}

func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

func (r *GormAuditLogRepository) Append(ctx context.Context, entry *auditlog.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListByOrder returns entries by created_at, then id.
func (r *GormAuditLogRepository) ListByOrder(
	ctx context.Context,
	orderID kernel.UUID,
	includeSystem bool,
) ([]*auditlog.Entry, error) {
	query := r.db.WithContext(ctx).Where("order_id = ?", orderID.Bytes())
	if !includeSystem {
		query = query.Where("from_role <> ?", role.System.String())
	}

	var dtos []OrderLogDTO
	if err := query.Order("created_at, id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	entries := make([]*auditlog.Entry, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, nil
}
