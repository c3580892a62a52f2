package document

import (
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

const maxRemarkLength = 1000

// review is the state shared by both document shapes.
type review struct {
	fileKey     string
	status      Status
	remark      string
	submittedBy kernel.UUID
	verifiedBy  *kernel.UUID
	createdAt   time.Time
	updatedAt   time.Time
}

func newReview(fileKey string, submittedBy kernel.UUID, at time.Time) (review, error) {
	r := review{status: Pending, createdAt: at, updatedAt: at}
	if err := r.setFileKey(fileKey); err != nil {
		return review{}, err
	}
	if err := submittedBy.Validate(); err != nil {
		return review{}, errs.NewValueIsRequiredErrorWithCause("submitted by", err)
	}
	r.submittedBy = submittedBy
	return r, nil
}

func (r *review) setFileKey(fileKey string) error {
	fileKey = strings.TrimSpace(fileKey)
	if fileKey == "" {
		return errs.NewValueIsRequiredError("file key")
	}
	r.fileKey = fileKey
	return nil
}

func (r *review) decide(decision Status, reviewer kernel.UUID, remark string, at time.Time) error {
	if r.status != Pending {
		return errs.NewConflictError("document", fmt.Sprintf("document is already %s", r.status))
	}
	if err := reviewer.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("reviewer", err)
	}
	remark = strings.TrimSpace(remark)
	if len(remark) > maxRemarkLength {
		return errs.NewValueIsOutOfRangeError("remark", len(remark), 0, maxRemarkLength)
	}
	if decision == Rejected && remark == "" {
		return errs.NewValueIsRequiredError("remark")
	}

	r.status = decision
	r.remark = remark
	r.verifiedBy = &reviewer
	r.updatedAt = at
	return nil
}

func (r *review) optionalVerifier() *kernel.UUID {
	if r.verifiedBy == nil {
		return nil
	}
	id := *r.verifiedBy
	return &id
}
