// Package guard provides the constructor guard pattern used by domain
// value objects, aggregates, commands, and queries to reject zero-value
// instances that bypassed their constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is the default error returned by ConstructorGuard.Validate()
// when a nil error is passed as the validation error. This ensures that validation
// always fails with a meaningful message even if no specific error is provided.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard ensures objects are only created through their designated
// constructor functions. It works by maintaining an internal flag that is only
// set to true when the object is created through the proper constructor; any
// attempt to use a zero-value struct fails validation.
//
// Example usage:
//
//	type ReportLocationCommand struct {
//	    driverID kernel.ID
//	    guard    guard.ConstructorGuard
//	}
//
//	func NewReportLocationCommand(driverID kernel.ID) (ReportLocationCommand, error) {
//	    if err := driverID.Validate(); err != nil {
//	        return ReportLocationCommand{}, err
//	    }
//	    return ReportLocationCommand{driverID: driverID, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (c ReportLocationCommand) Validate() error {
//	    return c.guard.Validate(ErrReportLocationCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a ConstructorGuard that marks an object as
// properly constructed. Call this in the constructor of domain objects so
// they can be distinguished from zero-value instances.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate checks whether the guarded object was properly constructed through
// its designated constructor function.
//
// If the object was created as a zero value, this method returns the provided
// validation error; when validationError is nil, ErrDefaultConstructorGuard
// is returned instead.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
