// Package deliverable models the versioned work products Operations uploads
// for an order and the QC decision Admin takes on each of them.
package deliverable

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	maxFiles        = 20
	maxRemarkLength = 1000
)

var ErrDeliverableIsNotConstructed = errors.New("Deliverable must be created via NewDeliverable constructor")

// QCStatus is Admin's decision on one deliverable version.
type QCStatus string

const (
	QCUnknown  QCStatus = ""
	QCPending  QCStatus = "pending"
	QCApproved QCStatus = "approved"
	QCRejected QCStatus = "rejected"
)

func ParseQCStatus(s string) (QCStatus, error) {
	st := QCStatus(s)
	switch st {
	case QCPending, QCApproved, QCRejected:
		return st, nil
	default:
		return QCUnknown, errs.NewValueIsInvalidErrorWithCause("qc status", fmt.Errorf("%q is not a valid status", s))
	}
}

func (s QCStatus) String() string {
	return string(s)
}

// Deliverable is one uploaded version of the order's work product.
type Deliverable struct {
	id         kernel.UUID
	orderID    kernel.UUID
	version    int
	files      []string
	qcStatus   QCStatus
	uploadedBy kernel.UUID
	remark     string
	createdAt  time.Time
	updatedAt  time.Time

	guard guard.ConstructorGuard
}

// NewDeliverable creates a pending deliverable. version comes from NextVersion.
func NewDeliverable(
	id kernel.UUID,
	orderID kernel.UUID,
	version int,
	files []string,
	uploadedBy kernel.UUID,
	remark string,
	createdAt time.Time,
) (*Deliverable, error) {
	d := &Deliverable{
		qcStatus:  QCPending,
		remark:    strings.TrimSpace(remark),
		createdAt: createdAt,
		updatedAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	var versionErr, uploaderErr, orderErr error
	if version < 1 {
		versionErr = errs.NewValueIsOutOfRangeError("version", version, 1, "unbounded")
	}
	if err := uploadedBy.Validate(); err != nil {
		uploaderErr = errs.NewValueIsRequiredErrorWithCause("uploaded by", err)
	}
	if err := orderID.Validate(); err != nil {
		orderErr = errs.NewValueIsRequiredErrorWithCause("order", err)
	}

	if err := errors.Join(id.Validate(), orderErr, versionErr, uploaderErr, d.setFiles(files)); err != nil {
		return nil, err
	}

	d.id = id
	d.orderID = orderID
	d.version = version
	d.uploadedBy = uploadedBy
	return d, nil
}

// RestoreDeliverable reconstructs a deliverable from persistent storage.
func RestoreDeliverable(
	id kernel.UUID,
	orderID kernel.UUID,
	version int,
	files []string,
	qcStatus QCStatus,
	uploadedBy kernel.UUID,
	remark string,
	createdAt time.Time,
	updatedAt time.Time,
) (*Deliverable, error) {
	if _, err := ParseQCStatus(qcStatus.String()); err != nil {
		return nil, err
	}
	d, err := NewDeliverable(id, orderID, version, files, uploadedBy, remark, createdAt)
	if err != nil {
		return nil, err
	}
	d.qcStatus = qcStatus
	d.updatedAt = updatedAt
	return d, nil
}

func (d *Deliverable) Validate() error {
	if d == nil {
		return ErrDeliverableIsNotConstructed
	}
	return d.guard.Validate(ErrDeliverableIsNotConstructed)
}

func (d *Deliverable) ID() kernel.UUID {
	return d.id
}

func (d *Deliverable) OrderID() kernel.UUID {
	return d.orderID
}

// Version is the 1 based, per order increasing version number.
func (d *Deliverable) Version() int {
	return d.version
}

// Files returns the blob keys of the uploaded files.
func (d *Deliverable) Files() []string {
	return append([]string(nil), d.files...)
}

func (d *Deliverable) QCStatus() QCStatus {
	return d.qcStatus
}

func (d *Deliverable) UploadedBy() kernel.UUID {
	return d.uploadedBy
}

func (d *Deliverable) Remark() string {
	return d.remark
}

func (d *Deliverable) CreatedAt() time.Time {
	return d.createdAt
}

func (d *Deliverable) UpdatedAt() time.Time {
	return d.updatedAt
}

func (d *Deliverable) IsApproved() bool {
	return d.qcStatus == QCApproved
}

// Decide records Admin's QC decision. Only a pending deliverable can be decided.
func (d *Deliverable) Decide(decision QCStatus, remark string, at time.Time) error {
	if decision != QCApproved && decision != QCRejected {
		return errs.NewValueIsInvalidErrorWithCause(
			"qc status", fmt.Errorf("%q is not one of %s, %s", decision, QCApproved, QCRejected))
	}
	if d.qcStatus != QCPending {
		return errs.NewConflictError("deliverable", fmt.Sprintf("version %d is already %s", d.version, d.qcStatus))
	}
	remark = strings.TrimSpace(remark)
	if len(remark) > maxRemarkLength {
		return errs.NewValueIsOutOfRangeError("remark", len(remark), 0, maxRemarkLength)
	}

	d.qcStatus = decision
	d.remark = remark
	d.updatedAt = at
	return nil
}

func (d *Deliverable) setFiles(files []string) error {
	cleaned := make([]string, 0, len(files))
	for _, f := range files {
		if f = strings.TrimSpace(f); f != "" {
			cleaned = append(cleaned, f)
		}
	}
	if len(cleaned) == 0 {
		return errs.NewValueIsRequiredError("files")
	}
	if len(cleaned) > maxFiles {
		return errs.NewValueIsOutOfRangeError("files", len(cleaned), 1, maxFiles)
	}
	d.files = cleaned
	return nil
}

// NextVersion returns max(existing versions) + 1.
func NextVersion(existing []*Deliverable) int {
	highest := 0
	for _, d := range existing {
		if d.version > highest {
			highest = d.version
		}
	}
	return highest + 1
}

// HasApproved reports whether any version passed QC.
func HasApproved(existing []*Deliverable) bool {
	for _, d := range existing {
		if d.IsApproved() {
			return true
		}
	}
	return false
}
