package commands

import (
	"context"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/services"
)

// AssignDriverCommandHandler orchestrates the assignment workflows.
//
// The handler loads the order and the drivers involved, runs the domain
// Dispatcher to move state across both aggregates, and persists the result
// in one transaction. Two races are serialized here: the order row is read
// under a row lock, so concurrent assignments of the same order with
// different drivers queue up and the second one fails its status
// precondition against the committed state; and the driver booking is
// written with a compare-and-set on availability, so two dispatchers
// racing for the same driver cannot both reserve it. In both cases exactly
// one transaction wins and the loser observes a conflicting state error.
type AssignDriverCommandHandler struct {
	uowFactory UoWFactory
}

// NewAssignDriverCommandHandler creates a handler for assignment operations.
// Requires a UoWFactory for coordinating transactional updates across
// repositories.
func NewAssignDriverCommandHandler(uowFactory UoWFactory) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the assignment command.
//
// For the initial workflow the order must still be Pending; a concurrent
// assignment that committed first leaves the order Assigned and this handler
// fails with a conflicting state error. For reassignment the previous driver
// is released within the same transaction that books the new one.
func (h AssignDriverCommandHandler) Handle(ctx context.Context, cmd AssignDriverCommand) error {
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

	newDriver, err := driverRepo.Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}

	var prevDriver *driver.Driver
	if cmd.Mode() == services.AssignmentReassign && o.Driver() != nil {
		prevDriver, err = driverRepo.Get(ctx, *o.Driver())
		if err != nil {
			return err
		}
	}

	if err = services.NewDispatcher().Assign(o, newDriver, prevDriver, cmd.Mode()); err != nil {
		return err
	}

	if err = driverRepo.Reserve(ctx, newDriver); err != nil {
		return err
	}

	if prevDriver != nil {
		if err = driverRepo.Update(ctx, prevDriver); err != nil {
			return err
		}
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
