package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/deliverable"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetDeliverableURLsQueryHandler signs deliverable file keys with the blob store.
type GetDeliverableURLsQueryHandler struct {
	db    *gorm.DB
	blobs ports.BlobStore
	ttl   time.Duration
}

func NewGetDeliverableURLsQueryHandler(db *gorm.DB, blobs ports.BlobStore, ttl time.Duration) GetDeliverableURLsQueryHandler {
	return GetDeliverableURLsQueryHandler{db: db, blobs: blobs, ttl: ttl}
}

// Handle returns one signed URL per file. A signing failure is reported as an
// UpstreamError.
func (h GetDeliverableURLsQueryHandler) Handle(
	ctx context.Context,
	query GetDeliverableURLsQuery,
) (*GetDeliverableURLsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var (
		orderID, customerID uuid.UUID
		version             int
		files               pq.StringArray
		qcStatus            string
	)
	err := h.db.WithContext(ctx).Raw(`
		SELECT d.order_id, o.customer_id, d.versions, d.files, d.qc_status
		FROM deliverables d
		JOIN orders o ON o.id = d.order_id
		WHERE d.id = ?
	`, query.DeliverableID().Bytes()).Row().Scan(&orderID, &customerID, &version, &files, &qcStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewObjectNotFoundError("deliverable", query.DeliverableID().String())
	}
	if err != nil {
		return nil, err
	}

	actor := query.Actor()
	if err = authorizeRead(actor, kernel.MustUUIDFromBytes(customerID)); err != nil {
		return nil, err
	}
	status, err := deliverable.ParseQCStatus(qcStatus)
	if err != nil {
		return nil, err
	}
	if actor.Role() == role.Customer && status != deliverable.QCApproved {
		return nil, errs.NewAuthorizationError(actor.Role().String(), "read a deliverable before QC approval")
	}

	response := &GetDeliverableURLsQueryResponse{
		DeliverableID: query.DeliverableID(),
		OrderID:       kernel.MustUUIDFromBytes(orderID),
		Version:       version,
		QCStatus:      status,
		Files:         make([]FileURL, 0, len(files)),
		ExpiresAt:     time.Now().Add(h.ttl),
	}
	for _, key := range files {
		url, err := h.blobs.SignedURL(ctx, key, h.ttl)
		if err != nil {
			return nil, errs.NewUpstreamError("blob store", err)
		}
		response.Files = append(response.Files, FileURL{Key: key, URL: url})
	}

	return response, nil
}
