package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct dispatch workflow.
//
// State transitions:
//
//	Pending ──┬──> Assigned ──> Delivered
//	          │        │
//	          └────────┘
//	     (reassignment allowed)
//
// Status is a value object that validates state transitions
// and provides string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status when an order is first created.
	// Orders in this status are waiting to be assigned to a driver.
	Pending

	// Assigned indicates the order has been assigned to a driver.
	// Orders can be reassigned while in this status.
	Assigned

	// Delivered indicates the order has been successfully delivered.
	// This is a final state with no further transitions allowed.
	Delivered
)

// getStatusStrings returns a map of Status values to their string representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Assigned:  "Assigned",
		Delivered: "Delivered",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "Pending",
		Assigned:  "Assigned",
		Delivered: "Delivered",
	}
}

// StatusFromString parses a persisted status name back into a Status value.
// Returns an error for names that do not match a valid status.
func StatusFromString(value string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == value {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status",
		fmt.Errorf("%q is not a valid status", value),
	)
}

// Validate checks if the Status value is valid.
//
// Valid statuses are: Pending, Assigned, Delivered.
// Unknown (0) and any other values are invalid.
//
// Returns:
//   - nil if the status is valid
//   - error with details if the status is invalid
//
// This method is used to ensure Status values from external sources
// (e.g., database, API) are valid before use.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
//
// Returns:
//   - "Pending", "Assigned", or "Delivered" for valid statuses
//   - "Unknown" for invalid status values
//
// This method implements the fmt.Stringer interface and is safe
// to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// ValidateAssign checks if the status allows assignment without performing
// the transition.
//
// Valid statuses for assignment:
//   - Pending (can be initially assigned)
//   - Assigned (can be reassigned)
//
// Invalid statuses for assignment:
//   - Delivered (cannot assign delivered orders)
//   - Unknown (invalid status)
//
// Returns:
//   - nil if assignment is allowed from the current status
//   - error with details if assignment is not allowed
func (s Status) ValidateAssign() error {
	if s != Pending && s != Assigned {
		return errs.NewInvalidTransitionError("order", s.String(), Assigned.String())
	}
	return nil
}

// ValidateCanHaveDriver validates the consistency between order status and
// driver assignment. Enforces the rules about which statuses require a
// driver to be assigned.
//
// Rules:
//   - Pending orders must not have a driver assigned
//   - Assigned orders must have a driver assigned
//   - Delivered orders must have a driver assigned
//
// Parameters:
//   - driver: whether the order has a driver assigned
//
// Returns:
//   - error: validation error if status and driver assignment are inconsistent
func (s Status) ValidateCanHaveDriver(driver bool) error {
	if driver && s != Assigned && s != Delivered {
		return errs.NewConflictingStateError(
			"order",
			"status "+s.String()+" cannot have an assigned driver",
		)
	}

	if !driver && (s == Assigned || s == Delivered) {
		return errs.NewConflictingStateError(
			"order",
			"status "+s.String()+" requires an assigned driver",
		)
	}

	return nil
}

// Assign transitions the status to Assigned.
//
// Valid transitions:
//   - Pending -> Assigned (initial assignment)
//   - Assigned -> Assigned (reassignment to a different driver)
//
// Invalid transitions:
//   - Delivered -> Assigned (cannot assign delivered orders)
//   - Unknown -> Assigned (invalid initial state)
//
// Returns:
//   - (Assigned, nil) on valid transition
//   - (0, error) if the transition is not allowed from the current status
func (s Status) Assign() (Status, error) {
	if err := s.ValidateAssign(); err != nil {
		return 0, err
	}

	return Assigned, nil
}

// Complete transitions the status to Delivered.
//
// Valid transitions:
//   - Assigned -> Delivered (order delivered)
//
// Invalid transitions:
//   - Pending -> Delivered (must be assigned first)
//   - Delivered -> Delivered (already delivered)
//   - Unknown -> Delivered (invalid initial state)
//
// Returns:
//   - (Delivered, nil) on valid transition
//   - (0, error) if the transition is not allowed from the current status
//
// Delivered is a final state with no further transitions possible.
func (s Status) Complete() (Status, error) {
	if s != Assigned {
		return 0, errs.NewInvalidTransitionError("order", s.String(), Delivered.String())
	}

	return Delivered, nil
}
