// Package errs provides standardized error types for the dispatch service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes error types for the recoverable failure modes of the
// dispatch engine:
//   - ObjectNotFoundError: unknown driver or order identifier
//   - InvalidTransitionError: order lifecycle rule violated
//   - ConflictingStateError: assignment precondition unmet or a race lost
//   - UpstreamUnavailableError: external collaborator (e.g. geocoder) failed
//   - ValueIsRequiredError / ValueIsInvalidError / ValueIsOutOfRangeError:
//     construction-time validation failures
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrConflictingState)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
//
// All four dispatch failure kinds are recoverable at the call site: handlers
// translate them into user-facing responses and callers may retry.
package errs
