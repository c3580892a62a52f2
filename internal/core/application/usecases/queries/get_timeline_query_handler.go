package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/auditlog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetTimelineQueryHandler struct {
	db *gorm.DB
}

func NewGetTimelineQueryHandler(db *gorm.DB) GetTimelineQueryHandler {
	return GetTimelineQueryHandler{db: db}
}

// Handle returns the entries ordered by created_at, then id.
func (h GetTimelineQueryHandler) Handle(ctx context.Context, query GetTimelineQuery) ([]TimelineEntry, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	customerID, err := orderCustomer(ctx, h.db, query.OrderID())
	if err != nil {
		return nil, err
	}
	if err = authorizeRead(query.Actor(), customerID); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			from_role,
			from_user,
			to_role,
			to_user,
			action,
			remarks,
			created_at
		FROM order_logs
		WHERE order_id = ? AND (? OR from_role <> ?)
		ORDER BY created_at, id
	`, query.OrderID().Bytes(), query.IncludeSystem(), role.System.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]TimelineEntry, 0)
	for rows.Next() {
		var (
			entry            TimelineEntry
			id               uuid.UUID
			fromUser, toUser uuid.NullUUID
			fromRole, toRole string
			action           string
		)
		if err = rows.Scan(&id, &fromRole, &fromUser, &toRole, &toUser, &action, &entry.Remarks, &entry.CreatedAt); err != nil {
			return nil, err
		}

		entry.ID = kernel.MustUUIDFromBytes(id)
		entry.FromRole = role.Role(fromRole)
		entry.ToRole = role.Role(toRole)
		entry.Action = auditlog.Action(action)
		if entry.FromUser, err = optionalID(fromUser); err != nil {
			return nil, err
		}
		if entry.ToUser, err = optionalID(toUser); err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
