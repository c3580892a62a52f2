package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/auditlog"
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/deliverable"
	"fulfillment/internal/core/domain/model/document"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/core/domain/model/staff"
)

// PaymentRepository stores payment attempts. Payments of an order are only
// written while the order row is locked.
type PaymentRepository interface {
	Add(ctx context.Context, p *payment.Payment) error
	Update(ctx context.Context, p *payment.Payment) error
	Get(ctx context.Context, id kernel.UUID) (*payment.Payment, error)
	// ListByOrder returns every payment of the order, oldest first.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*payment.Payment, error)
}

// ServiceRepository stores catalog services together with their required documents.
type ServiceRepository interface {
	Add(ctx context.Context, s *catalog.Service) error
	Get(ctx context.Context, id kernel.UUID) (*catalog.Service, error)
}

// DocumentRepository stores both document shapes.
type DocumentRepository interface {
	AddOrderDocument(ctx context.Context, d *document.OrderDocument) error
	UpdateOrderDocument(ctx context.Context, d *document.OrderDocument) error
	GetOrderDocument(ctx context.Context, id kernel.UUID) (*document.OrderDocument, error)
	ListOrderDocuments(ctx context.Context, orderID kernel.UUID) ([]*document.OrderDocument, error)

	AddCustomerDocument(ctx context.Context, d *document.CustomerDocument) error
	UpdateCustomerDocument(ctx context.Context, d *document.CustomerDocument) error
	GetCustomerDocument(ctx context.Context, id kernel.UUID) (*document.CustomerDocument, error)
	ListCustomerDocuments(ctx context.Context, orderID kernel.UUID) ([]*document.CustomerDocument, error)
}

// DeliverableRepository stores deliverable versions. (order_id, version) is unique;
// a duplicate version is reported as a ConflictError.
type DeliverableRepository interface {
	Add(ctx context.Context, d *deliverable.Deliverable) error
	Update(ctx context.Context, d *deliverable.Deliverable) error
	Get(ctx context.Context, id kernel.UUID) (*deliverable.Deliverable, error)
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*deliverable.Deliverable, error)
}

// AuditLogRepository is append-only; it has no update or delete.
type AuditLogRepository interface {
	Append(ctx context.Context, entry *auditlog.Entry) error
	// ListByOrder returns entries by created_at, then id. System entries are
	// dropped unless includeSystem is set.
	ListByOrder(ctx context.Context, orderID kernel.UUID, includeSystem bool) ([]*auditlog.Entry, error)
}

// StaffRepository is the staff directory.
type StaffRepository interface {
	Add(ctx context.Context, m *staff.Member) error
	Get(ctx context.Context, id kernel.UUID) (*staff.Member, error)
	ListActiveByRole(ctx context.Context, r role.Role) ([]*staff.Member, error)
}

// OutboxRepository queues notification messages written with the state change.
type OutboxRepository interface {
	Add(ctx context.Context, m *notification.Message) error
	Update(ctx context.Context, m *notification.Message) error
	// ListPending returns up to limit pending messages, oldest first, locked with
	// SKIP LOCKED so concurrent dispatchers never pick the same message.
	ListPending(ctx context.Context, limit int) ([]*notification.Message, error)
}
