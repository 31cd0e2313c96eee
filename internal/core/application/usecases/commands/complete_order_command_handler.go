package commands

import (
	"context"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
)

// CompleteOrderCommandHandler handles delivery completion.
// Marks the order Delivered and releases the carrying driver in one
// transaction, so a freed driver and a completed order are never observed
// separately. The order row is read under a row lock; concurrent
// completions of the same order serialize and only the first succeeds.
type CompleteOrderCommandHandler struct {
	uowFactory UoWFactory
}

// NewCompleteOrderCommandHandler creates a handler for delivery completion.
// Requires a UoWFactory for coordinating transactional updates across
// repositories.
func NewCompleteOrderCommandHandler(uowFactory UoWFactory) CompleteOrderCommandHandler {
	return CompleteOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the completion command.
// Fails with an invalid transition error when the order is not Assigned and
// with a conflicting state error when the order has no driver on record.
func (h CompleteOrderCommandHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	driverRepo := uow.DriverRepository()

	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if o.Driver() == nil {
		return errs.NewConflictingStateError(
			"order",
			"order "+o.ID().String()+" has no driver to complete with",
		)
	}

	carrier, err := driverRepo.Get(ctx, *o.Driver())
	if err != nil {
		return err
	}

	if err = services.NewDispatcher().Complete(o, carrier); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = driverRepo.Update(ctx, carrier); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
