package document

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrOrderDocumentIsNotConstructed = errors.New("OrderDocument must be created via NewOrderDocument constructor")

// OrderDocument is an onboarding document submitted for one required document code.
type OrderDocument struct {
	id      kernel.UUID
	orderID kernel.UUID
	code    string
	review

	guard guard.ConstructorGuard
}

// NewOrderDocument creates a pending document. The code is checked against the
// service templates by the caller.
func NewOrderDocument(
	id kernel.UUID,
	orderID kernel.UUID,
	code string,
	fileKey string,
	submittedBy kernel.UUID,
	createdAt time.Time,
) (*OrderDocument, error) {
	r, reviewErr := newReview(fileKey, submittedBy, createdAt)

	var codeErr error
	code = strings.TrimSpace(code)
	if code == "" {
		codeErr = errs.NewValueIsRequiredError("code")
	}
	var orderErr error
	if err := orderID.Validate(); err != nil {
		orderErr = errs.NewValueIsRequiredErrorWithCause("order", err)
	}

	if err := errors.Join(id.Validate(), orderErr, codeErr, reviewErr); err != nil {
		return nil, err
	}

	return &OrderDocument{
		id:      id,
		orderID: orderID,
		code:    code,
		review:  r,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// RestoreOrderDocument reconstructs a document from persistent storage.
func RestoreOrderDocument(
	id kernel.UUID,
	orderID kernel.UUID,
	code string,
	fileKey string,
	status Status,
	remark string,
	submittedBy kernel.UUID,
	verifiedBy *kernel.UUID,
	createdAt time.Time,
	updatedAt time.Time,
) (*OrderDocument, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	d, err := NewOrderDocument(id, orderID, code, fileKey, submittedBy, createdAt)
	if err != nil {
		return nil, err
	}
	d.status = status
	d.remark = remark
	d.verifiedBy = verifiedBy
	d.updatedAt = updatedAt
	return d, nil
}

func (d *OrderDocument) Validate() error {
	if d == nil {
		return ErrOrderDocumentIsNotConstructed
	}
	return d.guard.Validate(ErrOrderDocumentIsNotConstructed)
}

func (d *OrderDocument) ID() kernel.UUID {
	return d.id
}

func (d *OrderDocument) OrderID() kernel.UUID {
	return d.orderID
}

func (d *OrderDocument) Code() string {
	return d.code
}

func (d *OrderDocument) FileKey() string {
	return d.fileKey
}

func (d *OrderDocument) Status() Status {
	return d.status
}

func (d *OrderDocument) Remark() string {
	return d.remark
}

func (d *OrderDocument) SubmittedBy() kernel.UUID {
	return d.submittedBy
}

func (d *OrderDocument) VerifiedBy() *kernel.UUID {
	return d.optionalVerifier()
}

func (d *OrderDocument) CreatedAt() time.Time {
	return d.createdAt
}

func (d *OrderDocument) UpdatedAt() time.Time {
	return d.updatedAt
}

// Review records a Sales decision: Verified or Rejected. A rejection needs a remark.
func (d *OrderDocument) Review(decision Status, reviewer kernel.UUID, remark string, at time.Time) error {
	if err := checkDecision(decision, Verified); err != nil {
		return err
	}
	return d.decide(decision, reviewer, remark, at)
}
