package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/document"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrSubmitDocumentCommandIsNotConstructed = errors.New(
		"SubmitDocumentCommand must be created via NewSubmitDocumentCommand constructor",
	)
	ErrReviewDocumentCommandIsNotConstructed = errors.New(
		"ReviewDocumentCommand must be created via NewReviewDocumentCommand constructor",
	)
	ErrSubmitCustomerDocumentCommandIsNotConstructed = errors.New(
		"SubmitCustomerDocumentCommand must be created via NewSubmitCustomerDocumentCommand constructor",
	)
	ErrReplaceCustomerDocumentCommandIsNotConstructed = errors.New(
		"ReplaceCustomerDocumentCommand must be created via NewReplaceCustomerDocumentCommand constructor",
	)
	ErrReviewCustomerDocumentCommandIsNotConstructed = errors.New(
		"ReviewCustomerDocumentCommand must be created via NewReviewCustomerDocumentCommand constructor",
	)
)

// SubmitDocumentCommand attaches an uploaded file to one of the order's
// required document codes. The file is already in the blob store.
type SubmitDocumentCommand struct {
	actor   role.Actor
	orderID kernel.UUID
	code    string
	fileKey string

	guard guard.ConstructorGuard
}

func NewSubmitDocumentCommand(actor role.Actor, orderID kernel.UUID, code, fileKey string) (SubmitDocumentCommand, error) {
	code = strings.TrimSpace(code)
	fileKey = strings.TrimSpace(fileKey)

	if err := errors.Join(
		requireCustomer(actor, "submit documents"),
		orderID.Validate(),
		requireText("code", code),
		requireText("file key", fileKey),
	); err != nil {
		return SubmitDocumentCommand{}, err
	}

	return SubmitDocumentCommand{
		actor:   actor,
		orderID: orderID,
		code:    code,
		fileKey: fileKey,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c SubmitDocumentCommand) Validate() error {
	return c.guard.Validate(ErrSubmitDocumentCommandIsNotConstructed)
}

func (c SubmitDocumentCommand) Actor() role.Actor { return c.actor }
func (c SubmitDocumentCommand) OrderID() kernel.UUID { return c.orderID }
func (c SubmitDocumentCommand) Code() string { return c.code }
func (c SubmitDocumentCommand) FileKey() string { return c.fileKey }

// ReviewDocumentCommand is the Sales decision on an order document.
type ReviewDocumentCommand struct {
	actor      role.Actor
	documentID kernel.UUID
	decision   document.Status
	remark     string

	guard guard.ConstructorGuard
}

func NewReviewDocumentCommand(
	actor role.Actor,
	documentID kernel.UUID,
	decision document.Status,
	remark string,
) (ReviewDocumentCommand, error) {
	if err := errors.Join(
		actor.Validate(),
		documentID.Validate(),
		decision.Validate(),
	); err != nil {
		return ReviewDocumentCommand{}, err
	}

	return ReviewDocumentCommand{
		actor:      actor,
		documentID: documentID,
		decision:   decision,
		remark:     strings.TrimSpace(remark),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ReviewDocumentCommand) Validate() error {
	return c.guard.Validate(ErrReviewDocumentCommandIsNotConstructed)
}

func (c ReviewDocumentCommand) Actor() role.Actor { return c.actor }
func (c ReviewDocumentCommand) DocumentID() kernel.UUID { return c.documentID }
func (c ReviewDocumentCommand) Decision() document.Status { return c.decision }
func (c ReviewDocumentCommand) Remark() string { return c.remark }

// SubmitCustomerDocumentCommand uploads a period document of a recurring service.
type SubmitCustomerDocumentCommand struct {
	actor   role.Actor
	orderID kernel.UUID
	period  kernel.Period
	fileKey string

	guard guard.ConstructorGuard
}

func NewSubmitCustomerDocumentCommand(
	actor role.Actor,
	orderID kernel.UUID,
	period kernel.Period,
	fileKey string,
) (SubmitCustomerDocumentCommand, error) {
	fileKey = strings.TrimSpace(fileKey)

	if err := errors.Join(
		requireCustomer(actor, "submit documents"),
		orderID.Validate(),
		period.Validate(),
		requireText("file key", fileKey),
	); err != nil {
		return SubmitCustomerDocumentCommand{}, err
	}

	return SubmitCustomerDocumentCommand{
		actor:   actor,
		orderID: orderID,
		period:  period,
		fileKey: fileKey,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c SubmitCustomerDocumentCommand) Validate() error {
	return c.guard.Validate(ErrSubmitCustomerDocumentCommandIsNotConstructed)
}

func (c SubmitCustomerDocumentCommand) Actor() role.Actor { return c.actor }
func (c SubmitCustomerDocumentCommand) OrderID() kernel.UUID { return c.orderID }
func (c SubmitCustomerDocumentCommand) Period() kernel.Period { return c.period }
func (c SubmitCustomerDocumentCommand) FileKey() string { return c.fileKey }

// ReplaceCustomerDocumentCommand swaps the file of a rejected period document.
type ReplaceCustomerDocumentCommand struct {
	actor      role.Actor
	documentID kernel.UUID
	fileKey    string

	guard guard.ConstructorGuard
}

func NewReplaceCustomerDocumentCommand(
	actor role.Actor,
	documentID kernel.UUID,
	fileKey string,
) (ReplaceCustomerDocumentCommand, error) {
	fileKey = strings.TrimSpace(fileKey)

	if err := errors.Join(
		requireCustomer(actor, "replace documents"),
		documentID.Validate(),
		requireText("file key", fileKey),
	); err != nil {
		return ReplaceCustomerDocumentCommand{}, err
	}

	return ReplaceCustomerDocumentCommand{
		actor:      actor,
		documentID: documentID,
		fileKey:    fileKey,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ReplaceCustomerDocumentCommand) Validate() error {
	return c.guard.Validate(ErrReplaceCustomerDocumentCommandIsNotConstructed)
}

func (c ReplaceCustomerDocumentCommand) Actor() role.Actor { return c.actor }
func (c ReplaceCustomerDocumentCommand) DocumentID() kernel.UUID { return c.documentID }
func (c ReplaceCustomerDocumentCommand) FileKey() string { return c.fileKey }

// ReviewCustomerDocumentCommand is the Operations decision on a period document.
type ReviewCustomerDocumentCommand struct {
	actor      role.Actor
	documentID kernel.UUID
	decision   document.Status
	remark     string

	guard guard.ConstructorGuard
}

func NewReviewCustomerDocumentCommand(
	actor role.Actor,
	documentID kernel.UUID,
	decision document.Status,
	remark string,
) (ReviewCustomerDocumentCommand, error) {
	if err := errors.Join(
		actor.Validate(),
		documentID.Validate(),
		decision.Validate(),
	); err != nil {
		return ReviewCustomerDocumentCommand{}, err
	}

	return ReviewCustomerDocumentCommand{
		actor:      actor,
		documentID: documentID,
		decision:   decision,
		remark:     strings.TrimSpace(remark),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ReviewCustomerDocumentCommand) Validate() error {
	return c.guard.Validate(ErrReviewCustomerDocumentCommandIsNotConstructed)
}

func (c ReviewCustomerDocumentCommand) Actor() role.Actor { return c.actor }
func (c ReviewCustomerDocumentCommand) DocumentID() kernel.UUID { return c.documentID }
func (c ReviewCustomerDocumentCommand) Decision() document.Status { return c.decision }
func (c ReviewCustomerDocumentCommand) Remark() string { return c.remark }

func requireCustomer(actor role.Actor, action string) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	return actor.Require(actor.Role() == role.Customer, action)
}

func requireText(paramName, value string) error {
	if value == "" {
		return errs.NewValueIsRequiredError(paramName)
	}
	return nil
}
