package postgres

import (
	"fulfillment/internal/adapters/out/postgres/auditlogrepo"
	"fulfillment/internal/adapters/out/postgres/deliverablerepo"
	"fulfillment/internal/adapters/out/postgres/documentrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/outboxrepo"
	"fulfillment/internal/adapters/out/postgres/paymentrepo"
	"fulfillment/internal/adapters/out/postgres/servicerepo"
	"fulfillment/internal/adapters/out/postgres/staffrepo"

	"gorm.io/gorm"
)

// Tables lists every table of the schema, for TRUNCATE in tests.
const Tables = "orders, payments, services, required_documents, order_documents, customer_documents, " +
	"deliverables, order_logs, staff_users, notification_outbox"

// Models returns the DTOs that make up the schema.
func Models() []any {
	return []any{
		&orderrepo.OrderDTO{},
		&paymentrepo.PaymentDTO{},
		&servicerepo.ServiceDTO{},
		&servicerepo.RequiredDocumentDTO{},
		&documentrepo.OrderDocumentDTO{},
		&documentrepo.CustomerDocumentDTO{},
		&deliverablerepo.DeliverableDTO{},
		&auditlogrepo.OrderLogDTO{},
		&staffrepo.StaffDTO{},
		&outboxrepo.MessageDTO{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
