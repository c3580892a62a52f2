// Package auditlog is the append-only history of an order. An Entry is created
// once and never changed; the repository port exposes no update or delete.
package auditlog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const maxRemarksLength = 2000

var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry constructor")

// Action names the lifecycle event an entry records.
type Action string

const (
	OrderCreated                  Action = "order_created"
	PaymentInitiated              Action = "payment_initiated"
	PaymentConfirmed              Action = "payment_confirmed"
	PaymentFailed                 Action = "payment_failed"
	PendingBalanceRequested       Action = "pending_balance_requested"
	DocumentSubmitted             Action = "document_submitted"
	DocumentReviewed              Action = "document_reviewed"
	CustomerDocumentSubmitted     Action = "customer_document_submitted"
	CustomerDocumentReplaced      Action = "customer_document_replaced"
	CustomerDocumentReviewed      Action = "customer_document_reviewed"
	OrderForwarded                Action = "order_forwarded"
	OrderAssigned                 Action = "order_assigned"
	DeliverableUploaded           Action = "deliverable_uploaded"
	DeliverableForwardedUnchanged Action = "deliverable_forwarded_without_changes"
	DeliverableReviewed           Action = "deliverable_reviewed"
	OrderCompleted                Action = "order_completed"
)

func (a Action) String() string {
	return string(a)
}

func (a Action) Validate() error {
	switch a {
	case OrderCreated, PaymentInitiated, PaymentConfirmed, PaymentFailed, PendingBalanceRequested,
		DocumentSubmitted, DocumentReviewed,
		CustomerDocumentSubmitted, CustomerDocumentReplaced, CustomerDocumentReviewed,
		OrderForwarded, OrderAssigned,
		DeliverableUploaded, DeliverableForwardedUnchanged, DeliverableReviewed,
		OrderCompleted:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a known action", string(a)))
	}
}

// Entry is one immutable audit record.
type Entry struct {
	id       kernel.UUID
	orderID  kernel.UUID
	fromRole role.Role
	fromUser *kernel.UUID
	// toRole is empty when the action does not hand the order to anyone.
	toRole    role.Role
	toUser    *kernel.UUID
	action    Action
	remarks   string
	createdAt time.Time

	guard guard.ConstructorGuard
}

// NewEntry records an action taken by actor. toUser may be nil.
//
// Example:
//
//	entry, err := auditlog.NewEntry(kernel.NewUUID(), o.ID(), actor,
//	    role.Accounts, &accountantID, auditlog.OrderForwarded, "documents verified", time.Now())
func NewEntry(
	id kernel.UUID,
	orderID kernel.UUID,
	actor role.Actor,
	toRole role.Role,
	toUser *kernel.UUID,
	action Action,
	remarks string,
	createdAt time.Time,
) (*Entry, error) {
	return RestoreEntry(id, orderID, actor.Role(), actor.UserID(), toRole, toUser, action, remarks, createdAt)
}

// RestoreEntry reconstructs an entry from persistent storage.
func RestoreEntry(
	id kernel.UUID,
	orderID kernel.UUID,
	fromRole role.Role,
	fromUser *kernel.UUID,
	toRole role.Role,
	toUser *kernel.UUID,
	action Action,
	remarks string,
	createdAt time.Time,
) (*Entry, error) {
	remarks = strings.TrimSpace(remarks)

	var toRoleErr, remarksErr error
	if toRole != role.Unknown {
		toRoleErr = toRole.Validate()
	}
	if len(remarks) > maxRemarksLength {
		remarksErr = errs.NewValueIsOutOfRangeError("remarks", len(remarks), 0, maxRemarksLength)
	}

	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		fromRole.Validate(),
		toRoleErr,
		action.Validate(),
		remarksErr,
	); err != nil {
		return nil, err
	}

	return &Entry{
		id:        id,
		orderID:   orderID,
		fromRole:  fromRole,
		fromUser:  copyID(fromUser),
		toRole:    toRole,
		toUser:    copyID(toUser),
		action:    action,
		remarks:   remarks,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (e *Entry) Validate() error {
	if e == nil {
		return ErrEntryIsNotConstructed
	}
	return e.guard.Validate(ErrEntryIsNotConstructed)
}

func (e *Entry) ID() kernel.UUID {
	return e.id
}

func (e *Entry) OrderID() kernel.UUID {
	return e.orderID
}

func (e *Entry) FromRole() role.Role {
	return e.fromRole
}

func (e *Entry) FromUser() *kernel.UUID {
	return copyID(e.fromUser)
}

func (e *Entry) ToRole() role.Role {
	return e.toRole
}

func (e *Entry) ToUser() *kernel.UUID {
	return copyID(e.toUser)
}

func (e *Entry) Action() Action {
	return e.action
}

func (e *Entry) Remarks() string {
	return e.remarks
}

func (e *Entry) CreatedAt() time.Time {
	return e.createdAt
}

// IsSystem reports whether the entry was written by the service itself.
func (e *Entry) IsSystem() bool {
	return e.fromRole == role.System
}

// HumanTimeline drops system entries, keeping the order of the input.
func HumanTimeline(entries []*Entry) []*Entry {
	timeline := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if !e.IsSystem() {
			timeline = append(timeline, e)
		}
	}
	return timeline
}

func copyID(id *kernel.UUID) *kernel.UUID {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
