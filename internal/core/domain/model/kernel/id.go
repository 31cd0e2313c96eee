package kernel

import (
	"strconv"

	"dispatch/internal/pkg/errs"
)

// ErrIDIsNotConstructed indicates that an ID holds no valid identifier value.
// This error is returned when validating a zero or negative ID.
var ErrIDIsNotConstructed = errs.NewValueIsRequiredError(
	"ID must be created via NewID with a positive value")

// ID is a value object wrapping the opaque numeric identifiers assigned by
// the persistent store to drivers and orders. The zero value is invalid:
// an aggregate only receives its ID on first persist, and references between
// aggregates (a driver's current order, an order's assigned driver) always
// carry validated non-zero IDs.
//
// ID is immutable and safe for concurrent use.
type ID struct {
	value int64
}

// NewID creates an ID from a raw numeric value. The value must be positive;
// zero and negative values fail validation because the store never issues them.
func NewID(value int64) (ID, error) {
	id := ID{value: value}
	if err := id.Validate(); err != nil {
		return ID{}, err
	}
	return id, nil
}

// Value returns the raw numeric value of the identifier.
func (id ID) Value() int64 {
	return id.value
}

// String returns the decimal representation of the identifier.
// Implements the fmt.Stringer interface.
func (id ID) String() string {
	return strconv.FormatInt(id.value, 10)
}

// IsEqual compares two IDs for equality.
func (id ID) IsEqual(other ID) bool {
	return id.value == other.value
}

// Validate checks that the ID carries a positive identifier value.
// Returns ErrIDIsNotConstructed for the zero value.
func (id ID) Validate() error {
	if id.value <= 0 {
		return ErrIDIsNotConstructed
	}
	return nil
}
