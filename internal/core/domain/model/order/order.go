package order

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through the NewOrder or RestoreOrder factory methods. This ensures all
// orders are properly validated.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// customerPhoneLength is the expected number of digits in a customer
// phone number.
const customerPhoneLength = 10

// DefaultPickup returns the depot location used as the pickup point when an
// order does not carry an explicit one.
func DefaultPickup() kernel.GeoPoint {
	point, err := kernel.NewGeoPoint(19.2307, 72.8567)
	if err != nil {
		panic(err)
	}
	return point
}

// Order represents a delivery order in the system. It is the aggregate root
// that manages the order lifecycle from creation through assignment to
// delivery.
//
// Order follows these invariants:
//   - Must belong to the dispatcher account that created it (owner email)
//   - Customer phone must be exactly ten digits
//   - Price must be positive (greater than 0)
//   - Pickup location is always known; the drop location may be absent
//     when the delivery address could not be geocoded
//   - Status transitions follow the Pending -> Assigned -> Delivered
//     state machine, with reassignment allowed while Assigned
//   - A driver reference is present exactly when the status requires one
//   - Can only be created through NewOrder or restored through RestoreOrder
//
// The identifier is assigned by the persistent store: a freshly created order
// has no ID until it is added to a repository, which calls SetID exactly once.
//
// The Order struct uses private fields to ensure encapsulation and maintains
// its invariants through validated methods.
type Order struct {
	// id is the store-assigned identifier (zero until first persisted)
	id kernel.ID

	// ownerEmail scopes the order to the dispatcher account that created it
	ownerEmail string

	// customerName is the recipient's display name
	customerName string

	// customerPhone is the recipient's ten-digit phone number
	customerPhone string

	// address is the raw delivery address as entered by the dispatcher
	address string

	// items describes the order contents
	items string

	// price is the order value (must be positive)
	price float64

	// pickup is the collection point for the order
	pickup kernel.GeoPoint

	// drop is the resolved delivery destination (nil if geocoding failed)
	drop *kernel.GeoPoint

	// status represents the current state in the order lifecycle
	status Status

	// driverID is the assigned driver's ID (nil if unassigned)
	driverID *kernel.ID

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a new Order instance with validation. This is the only way
// to create a valid new Order, ensuring all invariants are maintained.
//
// Parameters:
//   - ownerEmail: Email of the dispatcher account that owns the order
//   - customerName: Recipient name (required)
//   - customerPhone: Recipient phone, exactly ten digits
//   - address: Raw delivery address (required)
//   - items: Description of the order contents (required)
//   - price: Order value (must be positive)
//   - pickup: Collection point (use DefaultPickup when none is given)
//   - drop: Resolved delivery destination, or nil when geocoding failed
//
// Returns:
//   - *Order: The created order if all validations pass
//   - error: Validation error if any parameter is invalid
//
// The constructor validates all inputs and ensures the order is created with
// Pending status, no driver assigned, and no identifier until first persist.
func NewOrder(
	ownerEmail string,
	customerName string,
	customerPhone string,
	address string,
	items string,
	price float64,
	pickup kernel.GeoPoint,
	drop *kernel.GeoPoint,
) (*Order, error) {
	order := &Order{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setOwnerEmail(ownerEmail),
		order.setCustomerName(customerName),
		order.setCustomerPhone(customerPhone),
		order.setAddress(address),
		order.setItems(items),
		order.setPrice(price),
		order.setPickup(pickup),
		order.setDrop(drop),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreOrder reconstructs an Order from persisted state without applying
// the creation-time transitions. All stored values, including the identifier
// and lifecycle position, are validated before the aggregate is returned.
//
// Parameters:
//   - id: Store-assigned identifier (must be valid)
//   - ownerEmail, customerName, customerPhone, address, items, price,
//     pickup, drop: persisted order attributes, validated as in NewOrder
//   - status: Persisted lifecycle status
//   - driverID: Persisted driver reference, nil when unassigned
//
// Returns:
//   - *Order: The restored order if the persisted state is consistent
//   - error: Validation error if any stored value is invalid or the
//     status/driver combination is contradictory
func RestoreOrder(
	id kernel.ID,
	ownerEmail string,
	customerName string,
	customerPhone string,
	address string,
	items string,
	price float64,
	pickup kernel.GeoPoint,
	drop *kernel.GeoPoint,
	status Status,
	driverID *kernel.ID,
) (*Order, error) {
	order, err := NewOrder(ownerEmail, customerName, customerPhone, address, items, price, pickup, drop)
	if err != nil {
		return nil, err
	}

	if err := errors.Join(
		order.SetID(id),
		status.Validate(),
		status.ValidateCanHaveDriver(driverID != nil),
	); err != nil {
		return nil, err
	}

	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return nil, err
		}
		value := *driverID
		order.driverID = &value
	}
	order.status = status

	return order, nil
}

// Validate ensures the Order instance was properly constructed.
// This prevents bypassing validation by directly instantiating the struct.
//
// Returns:
//   - nil if the order is valid
//   - ErrOrderIsNotConstructed if the order was not created via a constructor
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their identifiers.
// Orders are considered equal if they have the same persisted ID.
//
// Returns:
//   - true if both orders carry the same valid ID
//   - false if other is nil, either order is unpersisted, or IDs differ
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.Validate() == nil && o.id.IsEqual(other.id)
}

// ID returns the order's store-assigned identifier.
// The zero ID indicates the order has not been persisted yet.
func (o *Order) ID() kernel.ID {
	return o.id
}

// SetID records the store-assigned identifier after first persist.
// It can be called exactly once; re-assigning an identifier is a conflict.
func (o *Order) SetID(id kernel.ID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if o.id.Validate() == nil {
		return errs.NewConflictingStateError("order", "identifier is already assigned")
	}
	o.id = id
	return nil
}

// OwnerEmail returns the email of the dispatcher account that owns the order.
func (o *Order) OwnerEmail() string {
	return o.ownerEmail
}

// CustomerName returns the recipient's display name.
func (o *Order) CustomerName() string {
	return o.customerName
}

// CustomerPhone returns the recipient's ten-digit phone number.
func (o *Order) CustomerPhone() string {
	return o.customerPhone
}

// Address returns the raw delivery address as entered by the dispatcher.
func (o *Order) Address() string {
	return o.address
}

// Items returns the description of the order contents.
func (o *Order) Items() string {
	return o.items
}

// Price returns the order value.
func (o *Order) Price() float64 {
	return o.price
}

// Pickup returns the collection point for the order.
func (o *Order) Pickup() kernel.GeoPoint {
	return o.pickup
}

// Drop returns the resolved delivery destination.
// Returns nil when the delivery address could not be geocoded.
func (o *Order) Drop() *kernel.GeoPoint {
	return o.drop
}

// ReferencePoint returns the coordinate used for proximity ranking: the drop
// location when it was resolved, otherwise the pickup location.
func (o *Order) ReferencePoint() kernel.GeoPoint {
	if o.drop != nil {
		return *o.drop
	}
	return o.pickup
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// Driver returns the assigned driver's ID.
// Returns nil if no driver is assigned.
func (o *Order) Driver() *kernel.ID {
	return o.driverID
}

// Assign assigns the order to a driver and updates the status to Assigned.
//
// This method enforces the following rules:
//   - The driver ID must be valid
//   - The order must be in Pending or Assigned status
//   - Reassignment is allowed (from Assigned to Assigned)
//
// Parameters:
//   - driverID: The ID of the driver to assign
//
// Returns:
//   - nil on successful assignment
//   - error if the driver ID is invalid or the transition is not allowed
//
// After successful assignment, the order's status becomes Assigned and
// Driver() will return the assigned driver's ID.
func (o *Order) Assign(driverID kernel.ID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Assign()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.driverID = &driverID
	return nil
}

// Complete marks the order as delivered.
//
// This method enforces the following rules:
//   - The order must be in Assigned status
//   - Delivered is a final state with no further transitions
//
// Returns:
//   - nil on successful completion
//   - error if the order is not in Assigned status
//
// The driver reference is kept after delivery for history queries.
func (o *Order) Complete() error {
	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// setOwnerEmail validates and sets the owning dispatcher's email.
// This is a private method used only during construction.
func (o *Order) setOwnerEmail(ownerEmail string) error {
	if strings.TrimSpace(ownerEmail) == "" {
		return errs.NewValueIsRequiredError("ownerEmail")
	}
	if _, err := mail.ParseAddress(ownerEmail); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("ownerEmail", err)
	}
	o.ownerEmail = ownerEmail
	return nil
}

// setCustomerName validates and sets the recipient's name.
// This is a private method used only during construction.
func (o *Order) setCustomerName(customerName string) error {
	if strings.TrimSpace(customerName) == "" {
		return errs.NewValueIsRequiredError("customerName")
	}
	o.customerName = customerName
	return nil
}

// setCustomerPhone validates and sets the recipient's phone number.
// The number must consist of exactly ten digits.
// This is a private method used only during construction.
func (o *Order) setCustomerPhone(customerPhone string) error {
	if customerPhone == "" {
		return errs.NewValueIsRequiredError("customerPhone")
	}
	if len(customerPhone) != customerPhoneLength {
		return errs.NewValueIsInvalidErrorWithCause(
			"customerPhone",
			fmt.Errorf("%q is not %d digits long", customerPhone, customerPhoneLength),
		)
	}
	for _, r := range customerPhone {
		if r < '0' || r > '9' {
			return errs.NewValueIsInvalidErrorWithCause(
				"customerPhone",
				fmt.Errorf("%q contains non-digit characters", customerPhone),
			)
		}
	}
	o.customerPhone = customerPhone
	return nil
}

// setAddress validates and sets the raw delivery address.
// This is a private method used only during construction.
func (o *Order) setAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return errs.NewValueIsRequiredError("address")
	}
	o.address = address
	return nil
}

// setItems validates and sets the order contents description.
// This is a private method used only during construction.
func (o *Order) setItems(items string) error {
	if strings.TrimSpace(items) == "" {
		return errs.NewValueIsRequiredError("items")
	}
	o.items = items
	return nil
}

// setPrice validates and sets the order value.
// Price must be positive (greater than 0).
// This is a private method used only during construction.
func (o *Order) setPrice(price float64) error {
	if price <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("price is invalid", fmt.Errorf("%v is not greater than 0", price))
	}
	o.price = price
	return nil
}

// setPickup validates and sets the collection point.
// This is a private method used only during construction.
func (o *Order) setPickup(pickup kernel.GeoPoint) error {
	if err := pickup.Validate(); err != nil {
		return err
	}
	o.pickup = pickup
	return nil
}

// setDrop validates and sets the delivery destination, which may be absent.
// This is a private method used only during construction.
func (o *Order) setDrop(drop *kernel.GeoPoint) error {
	if drop == nil {
		return nil
	}
	if err := drop.Validate(); err != nil {
		return err
	}
	value := *drop
	o.drop = &value
	return nil
}
