package ports

import (
	"context"
	"io"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// BlobStore keeps uploaded files. Keys are chosen by the caller.
type BlobStore interface {
	// Put stores body under key and returns the object URL.
	Put(ctx context.Context, key string, contentType string, body io.Reader, size int64) (string, error)
	// SignedURL issues a time limited read URL for key.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// PaymentLinkRequest describes the amount a customer is asked to pay.
type PaymentLinkRequest struct {
	PaymentID  kernel.UUID
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	Amount     kernel.Money
}

// PaymentGateway creates hosted payment links. Outcomes are reported back
// through the payment callback, never by polling.
type PaymentGateway interface {
	CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (string, error)
}

// Notifier hands a message to the notification service (fire and forget).
type Notifier interface {
	Notify(ctx context.Context, recipient kernel.UUID, template string, data map[string]string) error
}
