package driver

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// phoneLength is the expected number of digits in a driver phone number.
const phoneLength = 10

// Domain errors for driver operations.
var (
	// ErrNameIsRequired is returned when attempting to create a driver without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrDriverIsNotConstructed is returned when using an improperly initialized Driver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver constructor")
)

// Driver represents a delivery driver in the fleet. It is an aggregate root
// that manages driver identity, availability, live position, and the order
// the driver is currently carrying.
//
// Key responsibilities:
//   - Managing driver identity (owner account, name, phone, email)
//   - Tracking the last reported position with its report time
//   - Guarding the availability flag so a driver carries one order at a time
//   - Rejecting stale position reports that arrive out of order
//
// Business rules:
//   - Driver belongs to the dispatcher account that registered it
//   - Phone numbers are exactly ten digits
//   - A freshly registered driver is available with no known position
//   - A driver carrying an order is never available
//   - A position report older than the stored one is ignored
type Driver struct {
	// id is the store-assigned identifier (zero until first persisted)
	id kernel.ID
	// ownerEmail scopes the driver to the dispatcher account that registered it
	ownerEmail string
	// name is the human-readable name of the driver
	name string
	// phone is the driver's ten-digit phone number
	phone string
	// email is the driver's own contact email
	email string
	// available reports whether the driver can take a new order
	available bool
	// location is the last reported position (nil until the first report)
	location *kernel.GeoPoint
	// locationReportedAt is the device timestamp of the stored position
	locationReportedAt time.Time
	// currentOrderID is the order the driver is carrying (nil when idle)
	currentOrderID *kernel.ID
	// guard ensures the driver was properly constructed
	guard guard.ConstructorGuard
}

// NewDriver creates a new Driver with the specified parameters.
// This is the only way to create a valid new Driver instance.
//
// Parameters:
//   - ownerEmail: Email of the dispatcher account registering the driver
//   - name: Human-readable name (must be non-empty)
//   - phone: Ten-digit phone number
//   - email: The driver's own contact email
//
// Returns:
//   - *Driver: A fully initialized driver, available and with no known position
//   - error: Validation error if any parameter is invalid (aggregated errors
//     for multiple issues)
//
// The identifier is assigned by the persistent store on first persist via SetID.
func NewDriver(ownerEmail string, name string, phone string, email string) (*Driver, error) {
	d := &Driver{
		available: true,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setOwnerEmail(ownerEmail),
		d.setName(name),
		d.setPhone(phone),
		d.setEmail(email),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDriver reconstructs a Driver aggregate from persistent storage.
// Unlike NewDriver, the identifier, availability, position, and current order
// are restored exactly as stored, after consistency validation.
//
// Returns an error when any stored value is invalid, or when the driver is
// marked available while still carrying an order.
func RestoreDriver(
	id kernel.ID,
	ownerEmail string,
	name string,
	phone string,
	email string,
	available bool,
	location *kernel.GeoPoint,
	locationReportedAt time.Time,
	currentOrderID *kernel.ID,
) (*Driver, error) {
	d, err := NewDriver(ownerEmail, name, phone, email)
	if err != nil {
		return nil, err
	}

	if err := d.SetID(id); err != nil {
		return nil, err
	}

	if available && currentOrderID != nil {
		return nil, errs.NewConflictingStateError(
			"driver",
			fmt.Sprintf("driver %s cannot be available while carrying an order", id),
		)
	}

	if location != nil {
		if err := location.Validate(); err != nil {
			return nil, err
		}
		value := *location
		d.location = &value
		d.locationReportedAt = locationReportedAt
	}

	if currentOrderID != nil {
		if err := currentOrderID.Validate(); err != nil {
			return nil, err
		}
		value := *currentOrderID
		d.currentOrderID = &value
	}
	d.available = available

	return d, nil
}

// Validate ensures the Driver instance was properly constructed.
func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

// IsEqual compares two drivers by their identifiers.
// Drivers are considered equal if they have the same persisted ID.
func (d *Driver) IsEqual(other *Driver) bool {
	return other != nil && d.id.Validate() == nil && d.id.IsEqual(other.id)
}

// ID returns the driver's store-assigned identifier.
// The zero ID indicates the driver has not been persisted yet.
func (d *Driver) ID() kernel.ID {
	return d.id
}

// SetID records the store-assigned identifier after first persist.
// It can be called exactly once; re-assigning an identifier is a conflict.
func (d *Driver) SetID(id kernel.ID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if d.id.Validate() == nil {
		return errs.NewConflictingStateError("driver", "identifier is already assigned")
	}
	d.id = id
	return nil
}

// OwnerEmail returns the email of the dispatcher account that registered
// the driver.
func (d *Driver) OwnerEmail() string {
	return d.ownerEmail
}

// Name returns the driver's name.
func (d *Driver) Name() string {
	return d.name
}

// Phone returns the driver's ten-digit phone number.
func (d *Driver) Phone() string {
	return d.phone
}

// Email returns the driver's own contact email.
func (d *Driver) Email() string {
	return d.email
}

// IsAvailable reports whether the driver can take a new order.
func (d *Driver) IsAvailable() bool {
	return d.available
}

// Location returns the last reported position.
// Returns nil until the driver has reported at least once, or after the
// stored position was cleared as stale.
func (d *Driver) Location() *kernel.GeoPoint {
	return d.location
}

// LocationReportedAt returns the device timestamp of the stored position.
// The zero time indicates no position is stored.
func (d *Driver) LocationReportedAt() time.Time {
	return d.locationReportedAt
}

// CurrentOrder returns the ID of the order the driver is carrying.
// Returns nil when the driver is idle.
func (d *Driver) CurrentOrder() *kernel.ID {
	return d.currentOrderID
}

// ReportLocation records a position report from the driver's device.
//
// Reports carry the device timestamp they were taken at. A report that is not
// newer than the stored one is ignored without error, so delayed or reordered
// reports can never roll the position back.
//
// Returns:
//   - (true, nil) when the report was applied
//   - (false, nil) when the report was stale and ignored
//   - (false, error) when the point is invalid
func (d *Driver) ReportLocation(point kernel.GeoPoint, reportedAt time.Time) (bool, error) {
	if err := point.Validate(); err != nil {
		return false, err
	}

	if d.location != nil && !reportedAt.After(d.locationReportedAt) {
		return false, nil
	}

	d.location = &point
	d.locationReportedAt = reportedAt
	return true, nil
}

// ClearLocationBefore drops the stored position when it was reported before
// the given cutoff. Returns true when a position was cleared.
//
// Used by the staleness sweep so a driver whose device went silent stops
// appearing at its last known point.
func (d *Driver) ClearLocationBefore(cutoff time.Time) bool {
	if d.location == nil || !d.locationReportedAt.Before(cutoff) {
		return false
	}

	d.location = nil
	d.locationReportedAt = time.Time{}
	return true
}

// DistanceKmTo calculates the distance in kilometers from the driver's last
// reported position to the given point.
//
// Returns an error when the driver has no stored position.
func (d *Driver) DistanceKmTo(point kernel.GeoPoint) (float64, error) {
	if d.location == nil {
		return 0, errs.NewValueIsRequiredError("location")
	}

	return d.location.DistanceKmTo(point)
}

// Book reserves the driver for the given order.
//
// The driver must be available; booking an already-busy driver returns a
// conflicting state error so concurrent assignments cannot double-book.
func (d *Driver) Book(orderID kernel.ID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	if !d.available {
		return errs.NewConflictingStateError(
			"driver",
			fmt.Sprintf("driver %s is not available", d.id),
		)
	}

	d.available = false
	d.currentOrderID = &orderID
	return nil
}

// Release frees the driver after the carried order is delivered or handed to
// another driver.
//
// Releasing an idle driver returns a conflicting state error.
func (d *Driver) Release() error {
	if d.currentOrderID == nil {
		return errs.NewConflictingStateError(
			"driver",
			fmt.Sprintf("driver %s is not carrying an order", d.id),
		)
	}

	d.available = true
	d.currentOrderID = nil
	return nil
}

// setOwnerEmail validates and sets the owning dispatcher's email.
// This is a private method used only during construction.
func (d *Driver) setOwnerEmail(ownerEmail string) error {
	if strings.TrimSpace(ownerEmail) == "" {
		return errs.NewValueIsRequiredError("ownerEmail")
	}
	if _, err := mail.ParseAddress(ownerEmail); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("ownerEmail", err)
	}
	d.ownerEmail = ownerEmail
	return nil
}

// setName validates and sets the driver's name.
// This is a private method used only during construction.
func (d *Driver) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}
	d.name = name
	return nil
}

// setPhone validates and sets the driver's phone number.
// The number must consist of exactly ten digits.
// This is a private method used only during construction.
func (d *Driver) setPhone(phone string) error {
	if phone == "" {
		return errs.NewValueIsRequiredError("phone")
	}
	if len(phone) != phoneLength {
		return errs.NewValueIsInvalidErrorWithCause(
			"phone",
			fmt.Errorf("%q is not %d digits long", phone, phoneLength),
		)
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return errs.NewValueIsInvalidErrorWithCause(
				"phone",
				fmt.Errorf("%q contains non-digit characters", phone),
			)
		}
	}
	d.phone = phone
	return nil
}

// setEmail validates and sets the driver's contact email.
// This is a private method used only during construction.
func (d *Driver) setEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return errs.NewValueIsRequiredError("email")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("email", err)
	}
	d.email = email
	return nil
}
