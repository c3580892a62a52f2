// Package staffrepo persists the staff directory.
package staffrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/core/domain/model/staff"

	"github.com/google/uuid"
)

// StaffDTO is a staff user. Indexed by role for the dispatcher.
type StaffDTO struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name   string    `gorm:"type:varchar(200);not null"`
	Role   string    `gorm:"type:text;index;not null"`
	Active bool      `gorm:"not null;default:true"`
}

func (StaffDTO) TableName() string {
	return "staff_users"
}

func fromDomain(m *staff.Member) StaffDTO {
	return StaffDTO{
		ID:     m.ID().Bytes(),
		Name:   m.Name(),
		Role:   m.Role().String(),
		Active: m.IsActive(),
	}
}

func toDomain(dto StaffDTO) (*staff.Member, error) {
	r, err := role.Parse(dto.Role)
	if err != nil {
		return nil, err
	}
	return staff.RestoreMember(kernel.MustUUIDFromBytes(dto.ID), dto.Name, r, dto.Active)
}
