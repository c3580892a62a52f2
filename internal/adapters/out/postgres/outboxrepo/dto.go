// Package outboxrepo stores notification messages queued by lifecycle commands.
package outboxrepo

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MessageDTO is one row of the notification outbox. The template data is a
// flat JSON object.
type MessageDTO struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID         `gorm:"type:uuid;index;not null"`
	Recipient uuid.UUID         `gorm:"type:uuid;not null"`
	Template  string            `gorm:"type:text;not null"`
	Data      datatypes.JSONMap `gorm:"type:jsonb"`
	Status    string            `gorm:"type:text;index:idx_outbox_status_created;not null"`
	Error     string            `gorm:"type:text"`
	CreatedAt time.Time         `gorm:"index:idx_outbox_status_created;not null"`
	SentAt    *time.Time
}

func (MessageDTO) TableName() string {
	return "notification_outbox"
}

func fromDomain(m *notification.Message) MessageDTO {
	data := make(datatypes.JSONMap, len(m.Data()))
	for k, v := range m.Data() {
		data[k] = v
	}

	return MessageDTO{
		ID:        m.ID().Bytes(),
		OrderID:   m.OrderID().Bytes(),
		Recipient: m.Recipient().Bytes(),
		Template:  string(m.Template()),
		Data:      data,
		Status:    string(m.Status()),
		Error:     m.LastError(),
		CreatedAt: m.CreatedAt(),
		SentAt:    m.SentAt(),
	}
}

func toDomain(dto MessageDTO) (*notification.Message, error) {
	data := make(map[string]string, len(dto.Data))
	for k, v := range dto.Data {
		if s, ok := v.(string); ok {
			data[k] = s
			continue
		}
		data[k] = fmt.Sprint(v)
	}

	return notification.RestoreMessage(
		kernel.MustUUIDFromBytes(dto.ID),
		kernel.MustUUIDFromBytes(dto.OrderID),
		kernel.MustUUIDFromBytes(dto.Recipient),
		notification.Template(dto.Template),
		data,
		notification.Status(dto.Status),
		dto.Error,
		dto.CreatedAt,
		dto.SentAt,
	)
}
