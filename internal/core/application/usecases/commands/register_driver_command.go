package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrRegisterDriverCommandIsNotConstructed = errors.New(
	"RegisterDriverCommand must be created via NewRegisterDriverCommand constructor",
)

// RegisterDriverCommand represents a request to register a new driver under
// a dispatcher account. Field validation beyond basic presence is delegated
// to the Driver aggregate, which owns the phone and email rules.
//
// Example:
//
//	cmd, err := NewRegisterDriverCommand("boss@fleet.in", "Ravi Kumar", "9123456780", "ravi@fleet.in")
//	if err != nil {
//	    return fmt.Errorf("invalid driver data: %w", err)
//	}
//
//	handler := NewRegisterDriverCommandHandler(uowFactory)
//	driverID, err := handler.Handle(ctx, cmd)
type RegisterDriverCommand struct { //nolint:recvcheck //using for validation
	ownerEmail string
	name       string
	phone      string
	email      string

	guard guard.ConstructorGuard
}

// NewRegisterDriverCommand creates a command to register a new driver.
// Validates that all fields are present; domain-level format validation
// happens in the Driver constructor.
func NewRegisterDriverCommand(ownerEmail string, name string, phone string, email string) (RegisterDriverCommand, error) {
	cmd := RegisterDriverCommand{
		ownerEmail: ownerEmail,
		name:       name,
		phone:      phone,
		email:      email,
		guard:      guard.NewConstructorGuard(),
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRegisterDriverCommandIsNotConstructed if validation fails.
func (c RegisterDriverCommand) Validate() error {
	return c.guard.Validate(ErrRegisterDriverCommandIsNotConstructed)
}

// OwnerEmail returns the email of the dispatcher account registering the driver.
func (c RegisterDriverCommand) OwnerEmail() string {
	return c.ownerEmail
}

// Name returns the driver's name.
func (c RegisterDriverCommand) Name() string {
	return c.name
}

// Phone returns the driver's phone number.
func (c RegisterDriverCommand) Phone() string {
	return c.phone
}

// Email returns the driver's contact email.
func (c RegisterDriverCommand) Email() string {
	return c.email
}
