package staffrepo

import (
	"context"

	"fulfillment/internal/adapters/out/postgres/pgerrs"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/core/domain/model/staff"

	"gorm.io/gorm"
)

// GormStaffRepository implements ports.StaffRepository using GORM.
type GormStaffRepository struct {
	db *gorm.DB
}

func NewGormStaffRepository(db *gorm.DB) *GormStaffRepository {
	return &GormStaffRepository{db: db}
}

func (r *GormStaffRepository) Add(ctx context.Context, m *staff.Member) error {
	if err := m.Validate(); err != nil {
		return err
	}

	dto := fromDomain(m)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerrs.Translate(err, "staff member", m.ID().String())
	}
	return nil
}

func (r *GormStaffRepository) Get(ctx context.Context, id kernel.UUID) (*staff.Member, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto StaffDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgerrs.Translate(err, "staff member", id.String())
	}

	return toDomain(dto)
}

// ListActiveByRole returns active members of r ordered by id, so dispatch ties
// break the same way on every run.
func (r *GormStaffRepository) ListActiveByRole(ctx context.Context, rl role.Role) ([]*staff.Member, error) {
	var dtos []StaffDTO
	err := r.db.WithContext(ctx).
		Where("role = ? AND active", rl.String()).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	members := make([]*staff.Member, 0, len(dtos))
	for _, dto := range dtos {
		m, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return members, nil
}
