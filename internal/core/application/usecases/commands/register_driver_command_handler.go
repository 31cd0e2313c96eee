package commands

import (
	"context"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

// RegisterDriverCommandHandler handles the business logic for driver
// registration. New drivers start available, with no known position and no
// current order; the persistent store assigns the identifier.
type RegisterDriverCommandHandler struct {
	uowFactory DriverUoWFactory
}

// NewRegisterDriverCommandHandler creates a handler for driver registration.
// Requires a DriverUoWFactory for transactional persistence.
func NewRegisterDriverCommandHandler(uowFactory DriverUoWFactory) RegisterDriverCommandHandler {
	return RegisterDriverCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the driver registration command.
// Returns the store-assigned identifier of the new driver.
func (h RegisterDriverCommandHandler) Handle(ctx context.Context, cmd RegisterDriverCommand) (kernel.ID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.ID{}, err
	}

	newDriver, err := driver.NewDriver(cmd.OwnerEmail(), cmd.Name(), cmd.Phone(), cmd.Email())
	if err != nil {
		return kernel.ID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.ID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.DriverRepository().Add(ctx, newDriver); err != nil {
		return kernel.ID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.ID{}, err
	}

	return newDriver.ID(), nil
}
