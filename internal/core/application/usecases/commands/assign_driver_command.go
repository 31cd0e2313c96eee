package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/guard"
)

var (
	ErrAssignDriverCommandIsNotConstructed = errors.New(
		"AssignDriverCommand must be created via NewAssignDriverCommand constructor",
	)
	ErrAssignmentModeIsInvalid = errors.New("assignment mode is invalid")
)

// AssignDriverCommand represents a request to place an order with a driver,
// either as the initial assignment of a pending order or as a reassignment
// of an in-flight one.
//
// Example:
//
//	cmd, err := NewAssignDriverCommand(orderID, driverID, services.AssignmentInitial)
//	if err != nil {
//	    return err
//	}
//
//	handler := NewAssignDriverCommandHandler(uowFactory)
//	err = handler.Handle(ctx, cmd)
type AssignDriverCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.ID
	driverID kernel.ID
	mode     services.AssignmentMode

	guard guard.ConstructorGuard
}

// NewAssignDriverCommand creates a command to assign an order to a driver.
// Validates that both identifiers are valid and the mode is one of the
// defined assignment workflows.
func NewAssignDriverCommand(orderID kernel.ID, driverID kernel.ID, mode services.AssignmentMode) (AssignDriverCommand, error) {
	cmd := AssignDriverCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDriverID(driverID),
		cmd.setMode(mode),
	); err != nil {
		return AssignDriverCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignDriverCommandIsNotConstructed if validation fails.
func (c AssignDriverCommand) Validate() error {
	return c.guard.Validate(ErrAssignDriverCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being assigned.
func (c AssignDriverCommand) OrderID() kernel.ID {
	return c.orderID
}

// DriverID returns the identifier of the driver to book.
func (c AssignDriverCommand) DriverID() kernel.ID {
	return c.driverID
}

// Mode returns the assignment workflow to run.
func (c AssignDriverCommand) Mode() services.AssignmentMode {
	return c.mode
}

func (c *AssignDriverCommand) setOrderID(orderID kernel.ID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AssignDriverCommand) setDriverID(driverID kernel.ID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *AssignDriverCommand) setMode(mode services.AssignmentMode) error {
	if mode != services.AssignmentInitial && mode != services.AssignmentReassign {
		return ErrAssignmentModeIsInvalid
	}

	c.mode = mode
	return nil
}
