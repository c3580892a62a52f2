// Package auditlogrepo stores the append-only order_logs table.
package auditlogrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/auditlog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"

	"github.com/google/uuid"
)

// OrderLogDTO is one audit entry. to_role is empty for actions that do not
// hand the order to anyone.
type OrderLogDTO struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID  `gorm:"type:uuid;index:idx_order_logs_order_created;not null"`
	FromRole  string     `gorm:"type:text;not null"`
	FromUser  *uuid.UUID `gorm:"type:uuid"`
	ToRole    string     `gorm:"type:text;not null;default:''"`
	ToUser    *uuid.UUID `gorm:"type:uuid"`
	Action    string     `gorm:"type:text;not null"`
	Remarks   string     `gorm:"type:text"`
	CreatedAt time.Time  `gorm:"index:idx_order_logs_order_created;not null"`
}

func (OrderLogDTO) TableName() string {
	return "order_logs"
}

func fromDomain(e *auditlog.Entry) OrderLogDTO {
	return OrderLogDTO{
		ID:        e.ID().Bytes(),
		OrderID:   e.OrderID().Bytes(),
		FromRole:  e.FromRole().String(),
		FromUser:  kernel.OptionalBytes(e.FromUser()),
		ToRole:    e.ToRole().String(),
		ToUser:    kernel.OptionalBytes(e.ToUser()),
		Action:    e.Action().String(),
		Remarks:   e.Remarks(),
		CreatedAt: e.CreatedAt(),
	}
}

func toDomain(dto OrderLogDTO) (*auditlog.Entry, error) {
	fromRole, err := role.Parse(dto.FromRole)
	if err != nil {
		return nil, err
	}
	toRole := role.Unknown
	if dto.ToRole != "" {
		if toRole, err = role.Parse(dto.ToRole); err != nil {
			return nil, err
		}
	}
	fromUser, err := kernel.OptionalFromBytes(dto.FromUser)
	if err != nil {
		return nil, err
	}
	toUser, err := kernel.OptionalFromBytes(dto.ToUser)
	if err != nil {
		return nil, err
	}

	return auditlog.RestoreEntry(
		kernel.MustUUIDFromBytes(dto.ID),
		kernel.MustUUIDFromBytes(dto.OrderID),
		fromRole,
		fromUser,
		toRole,
		toUser,
		auditlog.Action(dto.Action),
		dto.Remarks,
		dto.CreatedAt,
	)
}
