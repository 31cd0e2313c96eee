package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrAddressIsRequired = errors.New("address is required")
	ErrPriceIsInvalid    = errors.New("price must be greater than 0")
)

// CreateOrderCommand represents a request to create a new delivery order.
// Encapsulates the customer payload and the raw delivery address; the address
// is resolved to coordinates during handling.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand("boss@fleet.in", "Asha Patel", "9876543210",
//	    "12 Hill Road, Bandra West, Mumbai", "2x biryani", 540.0)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, geocoder)
//	orderID, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	ownerEmail    string
	customerName  string
	customerPhone string
	address       string
	items         string
	price         float64

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new delivery order.
// Validates that the address is not empty and the price is positive; the
// remaining customer payload rules live in the Order aggregate.
func NewCreateOrderCommand(
	ownerEmail string,
	customerName string,
	customerPhone string,
	address string,
	items string,
	price float64,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		ownerEmail:    ownerEmail,
		customerName:  customerName,
		customerPhone: customerPhone,
		items:         items,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setAddress(address),
		cmd.setPrice(price),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OwnerEmail returns the email of the dispatcher account creating the order.
func (c CreateOrderCommand) OwnerEmail() string {
	return c.ownerEmail
}

// CustomerName returns the recipient's name.
func (c CreateOrderCommand) CustomerName() string {
	return c.customerName
}

// CustomerPhone returns the recipient's phone number.
func (c CreateOrderCommand) CustomerPhone() string {
	return c.customerPhone
}

// Address returns the raw delivery address.
func (c CreateOrderCommand) Address() string {
	return c.address
}

// Items returns the order contents description.
func (c CreateOrderCommand) Items() string {
	return c.items
}

// Price returns the order value.
func (c CreateOrderCommand) Price() float64 {
	return c.price
}

func (c *CreateOrderCommand) setAddress(address string) error {
	if address == "" {
		return ErrAddressIsRequired
	}

	c.address = address
	return nil
}

func (c *CreateOrderCommand) setPrice(price float64) error {
	if price <= 0 {
		return ErrPriceIsInvalid
	}

	c.price = price
	return nil
}
