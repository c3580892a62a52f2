package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/deliverable"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrUploadDeliverableCommandIsNotConstructed = errors.New(
		"UploadDeliverableCommand must be created via NewUploadDeliverableCommand constructor",
	)
	ErrDecideQCCommandIsNotConstructed = errors.New(
		"DecideQCCommand must be created via NewDecideQCCommand constructor",
	)
	ErrApproveCompletionCommandIsNotConstructed = errors.New(
		"ApproveCompletionCommand must be created via NewApproveCompletionCommand constructor",
	)
)

// UploadDeliverableCommand delivers a new version of the work and hands the
// order to the next reviewer. Either files are given, or unchanged is set and
// the latest version's files are delivered again.
//
// Example:
//
//	cmd, err := NewUploadDeliverableCommand(actor, orderID, []string{"orders/1/v2.pdf"}, false, adminID, "fixed totals")
//	id, err := handler.Handle(ctx, cmd)
type UploadDeliverableCommand struct {
	actor      role.Actor
	orderID    kernel.UUID
	files      []string
	unchanged  bool
	targetUser kernel.UUID
	remarks    string

	guard guard.ConstructorGuard
}

func NewUploadDeliverableCommand(
	actor role.Actor,
	orderID kernel.UUID,
	files []string,
	unchanged bool,
	targetUser kernel.UUID,
	remarks string,
) (UploadDeliverableCommand, error) {
	remarks = strings.TrimSpace(remarks)

	var filesErr error
	switch {
	case unchanged && len(files) > 0:
		filesErr = errs.NewValueIsInvalidErrorWithCause(
			"files", errors.New("files cannot be combined with forward without changes"))
	case !unchanged && len(files) == 0:
		filesErr = errs.NewValueIsRequiredError("files")
	}

	var targetErr error
	if err := targetUser.Validate(); err != nil {
		targetErr = errs.NewValueIsRequiredErrorWithCause("target user", err)
	}

	if err := errors.Join(
		actor.Validate(),
		orderID.Validate(),
		filesErr,
		targetErr,
		checkRemarks(remarks),
	); err != nil {
		return UploadDeliverableCommand{}, err
	}

	return UploadDeliverableCommand{
		actor:      actor,
		orderID:    orderID,
		files:      append([]string(nil), files...),
		unchanged:  unchanged,
		targetUser: targetUser,
		remarks:    remarks,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UploadDeliverableCommand) Validate() error {
	return c.guard.Validate(ErrUploadDeliverableCommandIsNotConstructed)
}

func (c UploadDeliverableCommand) Actor() role.Actor { return c.actor }
func (c UploadDeliverableCommand) OrderID() kernel.UUID { return c.orderID }
func (c UploadDeliverableCommand) Files() []string { return append([]string(nil), c.files...) }
func (c UploadDeliverableCommand) Unchanged() bool { return c.unchanged }
func (c UploadDeliverableCommand) TargetUser() kernel.UUID { return c.targetUser }
func (c UploadDeliverableCommand) Remarks() string { return c.remarks }

// DecideQCCommand is the Admin quality check of one deliverable version.
type DecideQCCommand struct {
	actor         role.Actor
	deliverableID kernel.UUID
	decision      deliverable.QCStatus
	remarks       string

	guard guard.ConstructorGuard
}

func NewDecideQCCommand(
	actor role.Actor,
	deliverableID kernel.UUID,
	decision deliverable.QCStatus,
	remarks string,
) (DecideQCCommand, error) {
	remarks = strings.TrimSpace(remarks)

	var decisionErr error
	if decision != deliverable.QCApproved && decision != deliverable.QCRejected {
		decisionErr = errs.NewValueIsInvalidError("qc status")
	}

	if err := errors.Join(
		actor.Validate(),
		deliverableID.Validate(),
		decisionErr,
		checkRemarks(remarks),
	); err != nil {
		return DecideQCCommand{}, err
	}

	return DecideQCCommand{
		actor:         actor,
		deliverableID: deliverableID,
		decision:      decision,
		remarks:       remarks,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c DecideQCCommand) Validate() error {
	return c.guard.Validate(ErrDecideQCCommandIsNotConstructed)
}

func (c DecideQCCommand) Actor() role.Actor { return c.actor }
func (c DecideQCCommand) DeliverableID() kernel.UUID { return c.deliverableID }
func (c DecideQCCommand) Decision() deliverable.QCStatus { return c.decision }
func (c DecideQCCommand) Remarks() string { return c.remarks }

// ApproveCompletionCommand closes an order. It is the only way to complete one.
type ApproveCompletionCommand struct {
	actor   role.Actor
	orderID kernel.UUID
	remarks string

	guard guard.ConstructorGuard
}

func NewApproveCompletionCommand(actor role.Actor, orderID kernel.UUID, remarks string) (ApproveCompletionCommand, error) {
	remarks = strings.TrimSpace(remarks)

	if err := errors.Join(actor.Validate(), orderID.Validate(), checkRemarks(remarks)); err != nil {
		return ApproveCompletionCommand{}, err
	}

	return ApproveCompletionCommand{
		actor:   actor,
		orderID: orderID,
		remarks: remarks,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ApproveCompletionCommand) Validate() error {
	return c.guard.Validate(ErrApproveCompletionCommandIsNotConstructed)
}

func (c ApproveCompletionCommand) Actor() role.Actor { return c.actor }
func (c ApproveCompletionCommand) OrderID() kernel.UUID { return c.orderID }
func (c ApproveCompletionCommand) Remarks() string { return c.remarks }
