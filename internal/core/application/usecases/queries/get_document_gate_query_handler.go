package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/document"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetDocumentGateQueryHandler struct {
	db *gorm.DB
}

func NewGetDocumentGateQueryHandler(db *gorm.DB) GetDocumentGateQueryHandler {
	return GetDocumentGateQueryHandler{db: db}
}

// Handle evaluates the gates with the same rules the lifecycle commands use.
func (h GetDocumentGateQueryHandler) Handle(
	ctx context.Context,
	query GetDocumentGateQuery,
) (*GetDocumentGateQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var (
		customerID uuid.UUID
		serviceID  uuid.UUID
		recurring  bool
	)
	err := h.db.WithContext(ctx).Raw(`
		SELECT o.customer_id, o.service_id, COALESCE(s.recurring, false)
		FROM orders o
		LEFT JOIN services s ON s.id = o.service_id
		WHERE o.id = ?
	`, query.OrderID().Bytes()).Row().Scan(&customerID, &serviceID, &recurring)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	if err != nil {
		return nil, err
	}
	if err = authorizeRead(query.Actor(), kernel.MustUUIDFromBytes(customerID)); err != nil {
		return nil, err
	}

	required, err := h.loadRequired(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	docs, views, err := h.loadOrderDocuments(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}

	mandatory := make([]string, 0, len(required))
	for _, r := range required {
		if r.Mandatory {
			mandatory = append(mandatory, r.Code)
		}
	}

	response := &GetDocumentGateQueryResponse{
		OrderID:           query.OrderID(),
		Recurring:         recurring,
		Required:          required,
		Documents:         views,
		Gate:              document.EvaluateOrderGate(mandatory, docs),
		CustomerDocuments: []DocumentView{},
		Periods:           []document.PeriodReport{},
	}

	if recurring {
		customerDocs, customerViews, err := h.loadCustomerDocuments(ctx, query.OrderID())
		if err != nil {
			return nil, err
		}
		response.CustomerDocuments = customerViews
		response.Periods = document.EvaluateRecurringGate(customerDocs).Periods
	}

	return response, nil
}

func (h GetDocumentGateQueryHandler) loadRequired(ctx context.Context, serviceID uuid.UUID) ([]RequiredDocumentView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT code, name, mandatory, allow_multiple
		FROM required_documents
		WHERE service_id = ?
		ORDER BY code
	`, serviceID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	required := make([]RequiredDocumentView, 0)
	for rows.Next() {
		var r RequiredDocumentView
		if err = rows.Scan(&r.Code, &r.Name, &r.Mandatory, &r.AllowMultiple); err != nil {
			return nil, err
		}
		required = append(required, r)
	}

	return required, rows.Err()
}

func (h GetDocumentGateQueryHandler) loadOrderDocuments(
	ctx context.Context,
	orderID kernel.UUID,
) ([]*document.OrderDocument, []DocumentView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, code, file_key, status, remark, submitted_by, verified_by, created_at, updated_at
		FROM order_documents
		WHERE order_id = ?
		ORDER BY created_at, id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	docs := make([]*document.OrderDocument, 0)
	views := make([]DocumentView, 0)
	for rows.Next() {
		var (
			view            DocumentView
			id, submittedBy uuid.UUID
			verifiedBy      uuid.NullUUID
			status          string
			updatedAt       sql.NullTime
		)
		err = rows.Scan(&id, &view.Code, &view.FileKey, &status, &view.Remark, &submittedBy, &verifiedBy,
			&view.CreatedAt, &updatedAt)
		if err != nil {
			return nil, nil, err
		}

		view.ID = kernel.MustUUIDFromBytes(id)
		if view.Status, err = document.ParseStatus(status); err != nil {
			return nil, nil, err
		}
		verifier, err := optionalID(verifiedBy)
		if err != nil {
			return nil, nil, err
		}

		d, err := document.RestoreOrderDocument(view.ID, orderID, view.Code, view.FileKey, view.Status, view.Remark,
			kernel.MustUUIDFromBytes(submittedBy), verifier, view.CreatedAt, updatedAt.Time)
		if err != nil {
			return nil, nil, err
		}

		docs = append(docs, d)
		views = append(views, view)
	}

	return docs, views, rows.Err()
}

func (h GetDocumentGateQueryHandler) loadCustomerDocuments(
	ctx context.Context,
	orderID kernel.UUID,
) ([]*document.CustomerDocument, []DocumentView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, month, year, file_key, status, remark, submitted_by, verified_by, created_at, updated_at
		FROM customer_documents
		WHERE order_id = ?
		ORDER BY year, month, created_at
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	docs := make([]*document.CustomerDocument, 0)
	views := make([]DocumentView, 0)
	for rows.Next() {
		var (
			view            DocumentView
			id, submittedBy uuid.UUID
			verifiedBy      uuid.NullUUID
			month, year     int
			status          string
			updatedAt       sql.NullTime
		)
		err = rows.Scan(&id, &month, &year, &view.FileKey, &status, &view.Remark, &submittedBy, &verifiedBy,
			&view.CreatedAt, &updatedAt)
		if err != nil {
			return nil, nil, err
		}

		period, err := kernel.NewPeriod(month, year)
		if err != nil {
			return nil, nil, err
		}
		view.ID = kernel.MustUUIDFromBytes(id)
		view.Period = &period
		if view.Status, err = document.ParseStatus(status); err != nil {
			return nil, nil, err
		}
		verifier, err := optionalID(verifiedBy)
		if err != nil {
			return nil, nil, err
		}

		d, err := document.RestoreCustomerDocument(view.ID, orderID, period, view.FileKey, view.Status, view.Remark,
			kernel.MustUUIDFromBytes(submittedBy), verifier, view.CreatedAt, updatedAt.Time)
		if err != nil {
			return nil, nil, err
		}

		docs = append(docs, d)
		views = append(views, view)
	}

	return docs, views, rows.Err()
}
