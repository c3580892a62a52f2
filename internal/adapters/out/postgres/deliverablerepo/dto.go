// Package deliverablerepo persists deliverable versions and their QC decisions.
package deliverablerepo

import (
	"time"

	"fulfillment/internal/core/domain/model/deliverable"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// DeliverableDTO is one version of an order's work product. The file keys are
// kept in a text[] column; (order_id, versions) is unique.
type DeliverableDTO struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_deliverable_version"`
	Version    int            `gorm:"column:versions;not null;uniqueIndex:idx_deliverable_version"`
	Files      pq.StringArray `gorm:"type:text[];not null"`
	QCStatus   string         `gorm:"column:qc_status;type:text;not null"`
	UploadedBy uuid.UUID      `gorm:"type:uuid;not null"`
	Remark     string         `gorm:"type:text"`
	CreatedAt  time.Time      `gorm:"not null"`
	UpdatedAt  time.Time      `gorm:"not null"`
}

func (DeliverableDTO) TableName() string {
	return "deliverables"
}

func fromDomain(d *deliverable.Deliverable) DeliverableDTO {
	return DeliverableDTO{
		ID:         d.ID().Bytes(),
		OrderID:    d.OrderID().Bytes(),
		Version:    d.Version(),
		Files:      pq.StringArray(d.Files()),
		QCStatus:   d.QCStatus().String(),
		UploadedBy: d.UploadedBy().Bytes(),
		Remark:     d.Remark(),
		CreatedAt:  d.CreatedAt(),
		UpdatedAt:  d.UpdatedAt(),
	}
}

func toDomain(dto DeliverableDTO) (*deliverable.Deliverable, error) {
	return deliverable.RestoreDeliverable(
		kernel.MustUUIDFromBytes(dto.ID),
		kernel.MustUUIDFromBytes(dto.OrderID),
		dto.Version,
		[]string(dto.Files),
		deliverable.QCStatus(dto.QCStatus),
		kernel.MustUUIDFromBytes(dto.UploadedBy),
		dto.Remark,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
