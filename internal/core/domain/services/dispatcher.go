package services

import (
	"fmt"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// AssignmentMode selects which assignment workflow the Dispatcher runs.
type AssignmentMode int

const (
	// AssignmentInitial places a pending order with its first driver.
	AssignmentInitial AssignmentMode = iota + 1
	// AssignmentReassign moves an already-assigned order to a different driver.
	AssignmentReassign
)

// String returns the human-readable name of the assignment mode.
func (m AssignmentMode) String() string {
	switch m {
	case AssignmentInitial:
		return "Initial"
	case AssignmentReassign:
		return "Reassign"
	default:
		return "Unknown"
	}
}

// Dispatcher is a domain service coordinating assignment workflows that span
// the Order and Driver aggregates. It is the only place where an order and
// the drivers involved change together, keeping the pair consistent:
// an assigned order always references a driver that is carrying it, and a
// released driver never keeps a dangling order reference.
//
// Key responsibilities:
//   - Initial assignment of a pending order to an available driver
//   - Reassignment of an in-flight order to a different driver, releasing
//     the previous one
//   - Completion of a delivery, releasing the carrying driver
//
// Business rules:
//   - Initial assignment requires a Pending order; a second initial
//     assignment of the same order is a conflict because it is no longer
//     Pending
//   - Reassignment requires an Assigned order and releases the previous
//     driver before booking the new one
//   - Reassigning an order to the driver already carrying it is a conflict
//   - Booking an unavailable driver is a conflict
//   - Completion requires the driver to actually carry the order
//
// Unmet assignment preconditions are conflicting state errors: the caller
// raced another dispatcher and lost, and can retry against the new state.
type Dispatcher struct{}

// NewDispatcher creates a new Dispatcher instance.
func NewDispatcher() Dispatcher {
	return Dispatcher{}
}

// Assign runs the assignment workflow for the given mode.
//
// Parameters:
//   - o: The order being assigned (must be persisted and valid)
//   - newDriver: The driver to book for the order
//   - prevDriver: The driver currently carrying the order; required for
//     AssignmentReassign, must be nil for AssignmentInitial
//   - mode: Which workflow to run
//
// Returns:
//   - nil on success; the order references newDriver, newDriver is booked,
//     and (on reassignment) prevDriver is released
//   - error when the order is not in the state the mode requires, the new
//     driver is unavailable, or the aggregates are inconsistent
func (d Dispatcher) Assign(o *order.Order, newDriver *driver.Driver, prevDriver *driver.Driver, mode AssignmentMode) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := newDriver.Validate(); err != nil {
		return err
	}
	if err := o.ID().Validate(); err != nil {
		return err
	}
	if err := newDriver.ID().Validate(); err != nil {
		return err
	}

	switch mode {
	case AssignmentInitial:
		if o.Status() != order.Pending {
			return errs.NewConflictingStateError(
				"order",
				fmt.Sprintf("order %s is no longer pending", o.ID()),
			)
		}
		if prevDriver != nil {
			return errs.NewConflictingStateError(
				"order",
				fmt.Sprintf("order %s cannot have a previous driver on initial assignment", o.ID()),
			)
		}
	case AssignmentReassign:
		if o.Status() != order.Assigned {
			return errs.NewConflictingStateError(
				"order",
				fmt.Sprintf("order %s is not assigned", o.ID()),
			)
		}
		if err := prevDriver.Validate(); err != nil {
			return err
		}
		if prevDriver.CurrentOrder() == nil || !prevDriver.CurrentOrder().IsEqual(o.ID()) {
			return errs.NewConflictingStateError(
				"driver",
				fmt.Sprintf("driver %s is not carrying order %s", prevDriver.ID(), o.ID()),
			)
		}
		if newDriver.IsEqual(prevDriver) {
			return errs.NewConflictingStateError(
				"order",
				fmt.Sprintf("order %s is already assigned to driver %s", o.ID(), newDriver.ID()),
			)
		}
	default:
		return errs.NewValueIsInvalidError("mode")
	}

	// All preconditions are checked before any aggregate changes, so a
	// rejected assignment leaves the order and both drivers untouched.
	if !newDriver.IsAvailable() {
		return errs.NewConflictingStateError(
			"driver",
			fmt.Sprintf("driver %s is not available", newDriver.ID()),
		)
	}

	if mode == AssignmentReassign {
		if err := prevDriver.Release(); err != nil {
			return err
		}
	}

	if err := newDriver.Book(o.ID()); err != nil {
		return err
	}

	return o.Assign(newDriver.ID())
}

// Complete marks the order delivered and releases the carrying driver.
//
// Parameters:
//   - o: The order being completed (must be Assigned)
//   - carrier: The driver carrying the order
//
// Returns:
//   - nil on success; the order is Delivered and the driver is available again
//   - error when the order is not Assigned or the driver does not carry it
func (d Dispatcher) Complete(o *order.Order, carrier *driver.Driver) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := carrier.Validate(); err != nil {
		return err
	}

	if carrier.CurrentOrder() == nil || !carrier.CurrentOrder().IsEqual(o.ID()) {
		return errs.NewConflictingStateError(
			"driver",
			fmt.Sprintf("driver %s is not carrying order %s", carrier.ID(), o.ID()),
		)
	}

	if err := o.Complete(); err != nil {
		return err
	}

	return carrier.Release()
}
