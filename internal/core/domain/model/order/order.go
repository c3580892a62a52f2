package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root of one purchased compliance service.
//
// Order follows these invariants:
//   - status and paymentStatus are independent axes
//   - paid is the sum of successful payments and never exceeds total
//   - stage names the role that currently owns the order; assignedTo, when set,
//     is a user of that role
//   - Completed implies Paid
//   - terminal orders reject every mutation with a ConflictError
type Order struct {
	id         kernel.UUID
	customerID kernel.UUID
	serviceID  kernel.UUID

	status        Status
	paymentStatus PaymentStatus

	// stage is the role owning the order; assignedTo the user within that role.
	stage      role.Role
	assignedTo *kernel.UUID

	total   kernel.Money
	advance *kernel.Money
	paid    kernel.Money

	// version is the optimistic concurrency token compared by the repository.
	version   int64
	createdAt time.Time

	guard guard.ConstructorGuard
}

// NewOrder creates an order for a customer purchase. The order starts in
// AwaitingPayment, unpaid, owned by the customer.
//
// Parameters:
//   - total: snapshot of the service price (must be positive)
//   - advance: optional minimum first payment (positive and below total)
//
// Example:
//
//	total, _ := kernel.MoneyFromString("10000")
//	advance, _ := kernel.MoneyFromString("3000")
//	o, err := order.NewOrder(kernel.NewUUID(), customerID, serviceID, total, &advance, time.Now())
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	serviceID kernel.UUID,
	total kernel.Money,
	advance *kernel.Money,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:        AwaitingPayment,
		paymentStatus: Unpaid,
		stage:         role.Customer,
		paid:          kernel.ZeroMoney(),
		createdAt:     createdAt,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setServiceID(serviceID),
		o.setPricing(total, advance),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an order from persistent storage.
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	serviceID kernel.UUID,
	status Status,
	paymentStatus PaymentStatus,
	stage role.Role,
	assignedTo *kernel.UUID,
	total kernel.Money,
	advance *kernel.Money,
	paid kernel.Money,
	version int64,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:        status,
		paymentStatus: paymentStatus,
		stage:         stage,
		version:       version,
		createdAt:     createdAt,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setServiceID(serviceID),
		o.setPricing(total, advance),
		o.setPaid(paid),
		o.setAssignedTo(assignedTo),
		status.Validate(),
		paymentStatus.Validate(),
		stage.Validate(),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) ServiceID() kernel.UUID {
	return o.serviceID
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// Stage returns the role that currently owns the order.
func (o *Order) Stage() role.Role {
	return o.stage
}

// AssignedTo returns the owning user, nil while the stage has no assignee yet.
func (o *Order) AssignedTo() *kernel.UUID {
	if o.assignedTo == nil {
		return nil
	}
	id := *o.assignedTo
	return &id
}

func (o *Order) Total() kernel.Money {
	return o.total
}

// Advance returns the minimum first payment, nil when the full amount is due upfront.
func (o *Order) Advance() *kernel.Money {
	if o.advance == nil {
		return nil
	}
	a := *o.advance
	return &a
}

// Paid returns the sum of successful payments last applied to the order.
func (o *Order) Paid() kernel.Money {
	return o.paid
}

// Pending returns the outstanding balance, total minus paid.
func (o *Order) Pending() kernel.Money {
	pending, err := o.total.Sub(o.paid)
	if err != nil {
		return kernel.ZeroMoney()
	}
	return pending
}

// RequiredMinimum is the amount that must be paid before documents are requested:
// the advance when the service has one, otherwise the total.
func (o *Order) RequiredMinimum() kernel.Money {
	if o.advance != nil {
		return *o.advance
	}
	return o.total
}

func (o *Order) Version() int64 {
	return o.version
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) IsTerminal() bool {
	return o.status.IsTerminal()
}

// IsCustomer reports whether actor is the customer who placed the order.
func (o *Order) IsCustomer(actor role.Actor) bool {
	return actor.Role() == role.Customer && actor.Is(o.customerID)
}

// IsOwnedBy reports whether actor may act for the current stage: the actor's role
// must be the stage and, once someone is assigned, the actor must be that user.
func (o *Order) IsOwnedBy(actor role.Actor) bool {
	if actor.Role() != o.stage {
		return false
	}
	return o.assignedTo == nil || actor.Is(*o.assignedTo)
}

// CheckPayment validates a new payment amount against the outstanding balance.
//
// Returns:
//   - ConflictError for terminal orders
//   - ValueIsInvalidError for a non-positive amount
//   - PreconditionFailedError when amount exceeds total - alreadyPaid
func (o *Order) CheckPayment(amount kernel.Money, alreadyPaid kernel.Money) error {
	if err := o.ensureActive(); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is not greater than 0", amount))
	}
	if alreadyPaid.Add(amount).GreaterThan(o.total) {
		return errs.NewPreconditionFailedError(
			"payment",
			fmt.Sprintf("%s exceeds outstanding balance of order total %s (paid %s)", amount, o.total, alreadyPaid),
		)
	}
	return nil
}

// ApplyPayments recomputes the payment axis from the sum of all successful payments.
// The value is always derived from the full sum, never patched incrementally.
//
// When the order is awaiting payment and the sum reaches RequiredMinimum the order
// moves to AwaitingDocs and into the sales stage.
//
// Returns:
//   - true when the fulfillment status changed
//   - PreconditionFailedError when the sum would exceed the total
//   - ConflictError for terminal orders or a regressing payment status
func (o *Order) ApplyPayments(successTotal kernel.Money) (bool, error) {
	if err := o.ensureActive(); err != nil {
		return false, err
	}
	if successTotal.GreaterThan(o.total) {
		return false, errs.NewPreconditionFailedError(
			"payment",
			fmt.Sprintf("successful payments %s exceed order total %s", successTotal, o.total),
		)
	}

	next := DerivePaymentStatus(o.total, successTotal)
	if !o.paymentStatus.CanAdvanceTo(next) {
		return false, errs.NewConflictError(
			"payment status",
			fmt.Sprintf("%s cannot move back to %s", o.paymentStatus, next),
		)
	}

	o.paid = successTotal
	o.paymentStatus = next

	if o.status != AwaitingPayment || successTotal.LessThan(o.RequiredMinimum()) {
		return false, nil
	}

	newStatus, err := o.status.ConfirmPayment()
	if err != nil {
		return false, err
	}
	o.status = newStatus
	o.stage = role.Sales
	o.assignedTo = nil
	return true, nil
}

// FailPayment moves an order whose opening payment failed to Failed.
func (o *Order) FailPayment() error {
	newStatus, err := o.status.FailPayment()
	if err != nil {
		return err
	}
	if !o.paymentStatus.CanAdvanceTo(PaymentFailed) {
		return errs.NewConflictError("payment status", fmt.Sprintf("%s cannot move to failed", o.paymentStatus))
	}

	o.status = newStatus
	o.paymentStatus = PaymentFailed
	return nil
}

// VerifyDocuments moves the order to UnderReview once the document gate is approved.
func (o *Order) VerifyDocuments() error {
	newStatus, err := o.status.VerifyDocuments()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// Forward hands the order to userID in the target stage.
//
// This method enforces the aggregate level rules:
//   - terminal orders cannot be forwarded (ConflictError)
//   - forwarding to the stage the order is already in is a ConflictError
//   - the stage must have a route to target (PreconditionFailedError)
//   - reaching Operations starts fulfillment (UnderReview -> InProgress)
//
// Payment and gate dependent routing is checked by services.HandoffPolicy.
func (o *Order) Forward(target role.Role, userID kernel.UUID) error {
	if err := o.ensureActive(); err != nil {
		return err
	}
	if err := userID.Validate(); err != nil {
		return err
	}
	if target == o.stage {
		return errs.NewConflictError("order", fmt.Sprintf("order is already with %s", target))
	}
	if !o.stage.CanForwardTo(target) {
		return errs.NewPreconditionFailedError(
			"routing",
			fmt.Sprintf("%s cannot forward an order to %s", o.stage, target),
		)
	}

	if target == role.Operations {
		newStatus, err := o.status.StartFulfillment()
		if err != nil {
			return err
		}
		o.status = newStatus
	}

	o.stage = target
	o.assignedTo = &userID
	return nil
}

// Assign gives an unowned order to a user of its current stage.
func (o *Order) Assign(userID kernel.UUID) error {
	if err := o.ensureActive(); err != nil {
		return err
	}
	if err := userID.Validate(); err != nil {
		return err
	}
	if !o.stage.IsStaff() {
		return errs.NewPreconditionFailedError("assignment", fmt.Sprintf("%s stage has no staff owner", o.stage))
	}
	if o.assignedTo != nil {
		return errs.NewConflictError("order", "order is already assigned")
	}

	o.assignedTo = &userID
	return nil
}

// Complete closes the order. This is the only path to Completed.
//
// Business rules:
//   - status must be InProgress (ConflictError when already completed)
//   - payment status must be Paid
//   - at least one deliverable must have been approved by QC
func (o *Order) Complete(hasApprovedDeliverable bool) error {
	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}
	if o.paymentStatus != Paid {
		return errs.NewPreconditionFailedError("payment", fmt.Sprintf("order is %s, not paid", o.paymentStatus))
	}
	if !hasApprovedDeliverable {
		return errs.NewPreconditionFailedError("deliverable", "no deliverable has been approved")
	}

	o.status = newStatus
	return nil
}

func (o *Order) ensureActive() error {
	if o.status.IsTerminal() {
		return errs.NewConflictError("order", fmt.Sprintf("order is %s", o.status))
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setServiceID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("service", err)
	}
	o.serviceID = id
	return nil
}

func (o *Order) setPricing(total kernel.Money, advance *kernel.Money) error {
	if err := total.Validate(); err != nil {
		return err
	}
	if !total.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("total", fmt.Errorf("%s is not greater than 0", total))
	}
	if advance != nil {
		if err := advance.Validate(); err != nil {
			return err
		}
		if !advance.IsPositive() || !advance.LessThan(total) {
			return errs.NewValueIsOutOfRangeError("advance", advance.String(), "0", total.String())
		}
		a := *advance
		o.advance = &a
	}
	o.total = total
	return nil
}

func (o *Order) setPaid(paid kernel.Money) error {
	if err := paid.Validate(); err != nil {
		return err
	}
	o.paid = paid
	return nil
}

func (o *Order) setAssignedTo(id *kernel.UUID) error {
	if id == nil {
		o.assignedTo = nil
		return nil
	}
	if err := id.Validate(); err != nil {
		return err
	}
	assigned := *id
	o.assignedTo = &assigned
	return nil
}
