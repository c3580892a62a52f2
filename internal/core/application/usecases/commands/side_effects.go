package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/auditlog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/core/domain/model/staff"
)

// handoff names the stage and user an audited action hands the order to.
type handoff struct {
	role role.Role
	user *kernel.UUID
}

var noHandoff = handoff{role: role.Unknown}

func handoffTo(m *staff.Member) handoff {
	id := m.ID()
	return handoff{role: m.Role(), user: &id}
}

// appendAudit writes the single audit entry of a logical action within the
// caller's transaction.
func appendAudit(
	ctx context.Context,
	uow UoW,
	orderID kernel.UUID,
	actor role.Actor,
	to handoff,
	action auditlog.Action,
	remarks string,
) error {
	entry, err := auditlog.NewEntry(kernel.NewUUID(), orderID, actor, to.role, to.user, action, remarks, now())
	if err != nil {
		return err
	}
	return uow.AuditLogRepository().Append(ctx, entry)
}

// enqueue queues a notification in the caller's transaction; it is delivered
// after commit by DispatchNotificationsCommandHandler.
func enqueue(
	ctx context.Context,
	uow UoW,
	orderID kernel.UUID,
	recipient kernel.UUID,
	template notification.Template,
	data map[string]string,
) error {
	msg, err := notification.NewMessage(kernel.NewUUID(), orderID, recipient, template, data, now())
	if err != nil {
		return err
	}
	return uow.OutboxRepository().Add(ctx, msg)
}

func now() time.Time {
	return time.Now().UTC()
}
