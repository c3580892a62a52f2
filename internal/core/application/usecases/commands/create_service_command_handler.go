package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"
)

// CreateServiceCommandHandler adds a service with its document templates to the catalog.
type CreateServiceCommandHandler struct {
	uowFactory CatalogUoWFactory
}

func NewCreateServiceCommandHandler(uowFactory CatalogUoWFactory) CreateServiceCommandHandler {
	return CreateServiceCommandHandler{uowFactory: uowFactory}
}

// Handle returns the identifier of the new service.
func (h CreateServiceCommandHandler) Handle(ctx context.Context, cmd CreateServiceCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}
	if err := cmd.Actor().Require(cmd.Actor().Role() == role.Admin, "define services"); err != nil {
		return kernel.UUID{}, err
	}

	docs := make([]catalog.RequiredDocument, 0, len(cmd.Documents()))
	var docErrs []error
	for _, spec := range cmd.Documents() {
		d, err := catalog.NewRequiredDocument(kernel.NewUUID(), spec.Code, spec.Name, spec.Mandatory, spec.AllowMultiple)
		if err != nil {
			docErrs = append(docErrs, err)
			continue
		}
		docs = append(docs, d)
	}
	if err := errors.Join(docErrs...); err != nil {
		return kernel.UUID{}, err
	}

	service, err := catalog.NewService(
		kernel.NewUUID(), cmd.Name(), cmd.Price(), cmd.Advance(), cmd.Recurring(), docs, now(),
	)
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.ServiceRepository().Add(ctx, service); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return service.ID(), nil
}
