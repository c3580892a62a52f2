package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/role"
	"fulfillment/internal/core/domain/model/staff"
)

// RegisterStaffCommandHandler stores a new staff member. A duplicate user id is
// reported by the repository as a ConflictError.
type RegisterStaffCommandHandler struct {
	uowFactory CatalogUoWFactory
}

func NewRegisterStaffCommandHandler(uowFactory CatalogUoWFactory) RegisterStaffCommandHandler {
	return RegisterStaffCommandHandler{uowFactory: uowFactory}
}

func (h RegisterStaffCommandHandler) Handle(ctx context.Context, cmd RegisterStaffCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := cmd.Actor().Require(cmd.Actor().Role() == role.Admin, "register staff"); err != nil {
		return err
	}

	member, err := staff.NewMember(cmd.UserID(), cmd.Name(), cmd.Role())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.StaffRepository().Add(ctx, member); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
