// Package notification models messages queued for the notification service.
// Messages are written to an outbox in the same transaction as the state change
// that caused them and delivered after commit, once, without retry.
package notification

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrMessageIsNotConstructed = errors.New("Message must be created via NewMessage constructor")

// Template names the message the notification service renders.
type Template string

const (
	PaymentReceived  Template = "payment_received"
	PaymentFailed    Template = "payment_failed"
	DocumentRejected Template = "document_rejected"
	OrderForwarded   Template = "order_forwarded"
	OrderCompleted   Template = "order_completed"
)

// Status is the delivery state of a message.
type Status string

const (
	Pending Status = "pending"
	Sent    Status = "sent"
	Failed  Status = "failed"
)

// Message is one outbox entry.
type Message struct {
	id        kernel.UUID
	orderID   kernel.UUID
	recipient kernel.UUID
	template  Template
	data      map[string]string
	status    Status
	lastError string
	createdAt time.Time
	sentAt    *time.Time

	guard guard.ConstructorGuard
}

// NewMessage queues a pending message for recipient.
func NewMessage(
	id kernel.UUID,
	orderID kernel.UUID,
	recipient kernel.UUID,
	template Template,
	data map[string]string,
	createdAt time.Time,
) (*Message, error) {
	return RestoreMessage(id, orderID, recipient, template, data, Pending, "", createdAt, nil)
}

// RestoreMessage reconstructs a message from the outbox table.
func RestoreMessage(
	id kernel.UUID,
	orderID kernel.UUID,
	recipient kernel.UUID,
	template Template,
	data map[string]string,
	status Status,
	lastError string,
	createdAt time.Time,
	sentAt *time.Time,
) (*Message, error) {
	var templateErr, statusErr error
	if strings.TrimSpace(string(template)) == "" {
		templateErr = errs.NewValueIsRequiredError("template")
	}
	switch status {
	case Pending, Sent, Failed:
	default:
		statusErr = errs.NewValueIsInvalidError("notification status")
	}

	if err := errors.Join(id.Validate(), orderID.Validate(), recipient.Validate(), templateErr, statusErr); err != nil {
		return nil, err
	}

	copied := make(map[string]string, len(data))
	for k, v := range data {
		copied[k] = v
	}

	return &Message{
		id:        id,
		orderID:   orderID,
		recipient: recipient,
		template:  template,
		data:      copied,
		status:    status,
		lastError: lastError,
		createdAt: createdAt,
		sentAt:    sentAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (m *Message) Validate() error {
	if m == nil {
		return ErrMessageIsNotConstructed
	}
	return m.guard.Validate(ErrMessageIsNotConstructed)
}

func (m *Message) ID() kernel.UUID {
	return m.id
}

func (m *Message) OrderID() kernel.UUID {
	return m.orderID
}

func (m *Message) Recipient() kernel.UUID {
	return m.recipient
}

func (m *Message) Template() Template {
	return m.template
}

func (m *Message) Data() map[string]string {
	copied := make(map[string]string, len(m.data))
	for k, v := range m.data {
		copied[k] = v
	}
	return copied
}

func (m *Message) Status() Status {
	return m.status
}

func (m *Message) LastError() string {
	return m.lastError
}

func (m *Message) CreatedAt() time.Time {
	return m.createdAt
}

func (m *Message) SentAt() *time.Time {
	return m.sentAt
}

// MarkSent records a successful hand over to the notifier.
func (m *Message) MarkSent(at time.Time) error {
	if m.status != Pending {
		return errs.NewConflictError("notification", "message is already "+string(m.status))
	}
	m.status = Sent
	m.sentAt = &at
	return nil
}

// MarkFailed records a delivery failure. Failed messages are not retried.
func (m *Message) MarkFailed(cause error) error {
	if m.status != Pending {
		return errs.NewConflictError("notification", "message is already "+string(m.status))
	}
	m.status = Failed
	if cause != nil {
		m.lastError = cause.Error()
	}
	return nil
}
