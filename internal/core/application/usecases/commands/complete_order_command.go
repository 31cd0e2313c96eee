package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCompleteOrderCommandIsNotConstructed = errors.New(
	"CompleteOrderCommand must be created via NewCompleteOrderCommand constructor",
)

// CompleteOrderCommand represents a request to mark an assigned order as
// delivered and free the driver carrying it.
type CompleteOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.ID

	guard guard.ConstructorGuard
}

// NewCompleteOrderCommand creates a command to complete a delivery.
func NewCompleteOrderCommand(orderID kernel.ID) (CompleteOrderCommand, error) {
	cmd := CompleteOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return CompleteOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCompleteOrderCommandIsNotConstructed if validation fails.
func (c CompleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrCompleteOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being completed.
func (c CompleteOrderCommand) OrderID() kernel.ID {
	return c.orderID
}

func (c *CompleteOrderCommand) setOrderID(orderID kernel.ID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
