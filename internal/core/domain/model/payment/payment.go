package payment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// maxModeLength bounds the free text payment mode ("card", "upi", "netbanking").
const maxModeLength = 32

var ErrPaymentIsNotConstructed = errors.New("Payment must be created via NewPayment constructor")

// Payment is a single attempt to pay (part of) an order.
type Payment struct {
	id          kernel.UUID
	orderID     kernel.UUID
	paymentType Type
	mode        string
	amount      kernel.Money
	status      Status
	gatewayRef  string
	createdAt   time.Time
	updatedAt   time.Time

	guard guard.ConstructorGuard
}

// NewPayment records an initiated payment. The amount is checked against the
// order by order.Order.CheckPayment before the payment is created.
func NewPayment(
	id kernel.UUID,
	orderID kernel.UUID,
	paymentType Type,
	mode string,
	amount kernel.Money,
	createdAt time.Time,
) (*Payment, error) {
	p := &Payment{
		status:    Initiated,
		createdAt: createdAt,
		updatedAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setOrderID(orderID),
		paymentType.Validate(),
		p.setMode(mode),
		p.setAmount(amount),
	); err != nil {
		return nil, err
	}
	p.paymentType = paymentType

	return p, nil
}

// RestorePayment reconstructs a payment from persistent storage.
func RestorePayment(
	id kernel.UUID,
	orderID kernel.UUID,
	paymentType Type,
	mode string,
	amount kernel.Money,
	status Status,
	gatewayRef string,
	createdAt time.Time,
	updatedAt time.Time,
) (*Payment, error) {
	p := &Payment{
		paymentType: paymentType,
		mode:        mode,
		status:      status,
		gatewayRef:  gatewayRef,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setOrderID(orderID),
		p.setAmount(amount),
		paymentType.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Payment) Validate() error {
	if p == nil {
		return ErrPaymentIsNotConstructed
	}
	return p.guard.Validate(ErrPaymentIsNotConstructed)
}

func (p *Payment) ID() kernel.UUID {
	return p.id
}

func (p *Payment) OrderID() kernel.UUID {
	return p.orderID
}

func (p *Payment) Type() Type {
	return p.paymentType
}

func (p *Payment) Mode() string {
	return p.mode
}

func (p *Payment) Amount() kernel.Money {
	return p.amount
}

func (p *Payment) Status() Status {
	return p.status
}

func (p *Payment) GatewayRef() string {
	return p.gatewayRef
}

func (p *Payment) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Payment) UpdatedAt() time.Time {
	return p.updatedAt
}

// IsSucceeded reports whether the payment counts towards the paid amount.
func (p *Payment) IsSucceeded() bool {
	return p.status == Success
}

func (p *Payment) IsDecided() bool {
	return p.status != Initiated
}

func (p *Payment) BelongsTo(orderID kernel.UUID) bool {
	return p.orderID.IsEqual(orderID)
}

// Confirm marks the payment as succeeded. A payment is decided once; deciding it
// again is a conflict.
func (p *Payment) Confirm(gatewayRef string, at time.Time) error {
	return p.decide(Success, gatewayRef, at)
}

// Fail marks the payment as failed. There is no automatic retry; the customer
// opens a new payment.
func (p *Payment) Fail(gatewayRef string, at time.Time) error {
	return p.decide(Failed, gatewayRef, at)
}

func (p *Payment) decide(target Status, gatewayRef string, at time.Time) error {
	if p.status != Initiated {
		return errs.NewConflictError("payment", fmt.Sprintf("payment is already %s", p.status))
	}
	gatewayRef = strings.TrimSpace(gatewayRef)
	if gatewayRef == "" {
		return errs.NewValueIsRequiredError("gateway reference")
	}

	p.status = target
	p.gatewayRef = gatewayRef
	p.updatedAt = at
	return nil
}

func (p *Payment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Payment) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("order", err)
	}
	p.orderID = id
	return nil
}

func (p *Payment) setMode(mode string) error {
	mode = strings.TrimSpace(mode)
	if mode == "" {
		return errs.NewValueIsRequiredError("mode")
	}
	if len(mode) > maxModeLength {
		return errs.NewValueIsOutOfRangeError("mode", len(mode), 1, maxModeLength)
	}
	p.mode = mode
	return nil
}

func (p *Payment) setAmount(amount kernel.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is not greater than 0", amount))
	}
	p.amount = amount
	return nil
}
