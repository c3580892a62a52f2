package document

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCustomerDocumentIsNotConstructed = errors.New("CustomerDocument must be created via NewCustomerDocument constructor")

// CustomerDocument is a recurring document submitted for a (month, year) period.
type CustomerDocument struct {
	id      kernel.UUID
	orderID kernel.UUID
	period  kernel.Period
	review

	guard guard.ConstructorGuard
}

func NewCustomerDocument(
	id kernel.UUID,
	orderID kernel.UUID,
	period kernel.Period,
	fileKey string,
	submittedBy kernel.UUID,
	createdAt time.Time,
) (*CustomerDocument, error) {
	r, reviewErr := newReview(fileKey, submittedBy, createdAt)

	var orderErr error
	if err := orderID.Validate(); err != nil {
		orderErr = errs.NewValueIsRequiredErrorWithCause("order", err)
	}

	if err := errors.Join(id.Validate(), orderErr, period.Validate(), reviewErr); err != nil {
		return nil, err
	}

	return &CustomerDocument{
		id:      id,
		orderID: orderID,
		period:  period,
		review:  r,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// RestoreCustomerDocument reconstructs a document from persistent storage.
func RestoreCustomerDocument(
	id kernel.UUID,
	orderID kernel.UUID,
	period kernel.Period,
	fileKey string,
	status Status,
	remark string,
	submittedBy kernel.UUID,
	verifiedBy *kernel.UUID,
	createdAt time.Time,
	updatedAt time.Time,
) (*CustomerDocument, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	d, err := NewCustomerDocument(id, orderID, period, fileKey, submittedBy, createdAt)
	if err != nil {
		return nil, err
	}
	d.status = status
	d.remark = remark
	d.verifiedBy = verifiedBy
	d.updatedAt = updatedAt
	return d, nil
}

func (d *CustomerDocument) Validate() error {
	if d == nil {
		return ErrCustomerDocumentIsNotConstructed
	}
	return d.guard.Validate(ErrCustomerDocumentIsNotConstructed)
}

func (d *CustomerDocument) ID() kernel.UUID {
	return d.id
}

func (d *CustomerDocument) OrderID() kernel.UUID {
	return d.orderID
}

func (d *CustomerDocument) Period() kernel.Period {
	return d.period
}

func (d *CustomerDocument) FileKey() string {
	return d.fileKey
}

func (d *CustomerDocument) Status() Status {
	return d.status
}

func (d *CustomerDocument) Remark() string {
	return d.remark
}

func (d *CustomerDocument) SubmittedBy() kernel.UUID {
	return d.submittedBy
}

func (d *CustomerDocument) VerifiedBy() *kernel.UUID {
	return d.optionalVerifier()
}

func (d *CustomerDocument) CreatedAt() time.Time {
	return d.createdAt
}

func (d *CustomerDocument) UpdatedAt() time.Time {
	return d.updatedAt
}

// Review records an Operations decision: Approved or Rejected. A rejection needs a remark.
func (d *CustomerDocument) Review(decision Status, reviewer kernel.UUID, remark string, at time.Time) error {
	if err := checkDecision(decision, Approved); err != nil {
		return err
	}
	return d.decide(decision, reviewer, remark, at)
}

// Replace swaps the file of a rejected document. Only the original submitter may
// replace it; the document returns to pending with verifier and remark cleared.
func (d *CustomerDocument) Replace(submitter kernel.UUID, fileKey string, at time.Time) error {
	if !d.submittedBy.IsEqual(submitter) {
		return errs.NewAuthorizationError("customer", "replace a document submitted by another user")
	}
	if d.status != Rejected {
		return errs.NewPreconditionFailedError(
			"document", fmt.Sprintf("only rejected documents can be replaced, document is %s", d.status))
	}
	if err := d.setFileKey(fileKey); err != nil {
		return err
	}

	d.status = Pending
	d.remark = ""
	d.verifiedBy = nil
	d.updatedAt = at
	return nil
}
