package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for classification with errors.Is.
var (
	// ErrObjectNotFound indicates a requested object does not exist.
	ErrObjectNotFound = errors.New("object not found")
	// ErrValueIsInvalid indicates a value failed validation.
	ErrValueIsInvalid = errors.New("value is invalid")
	// ErrValueIsOutOfRange indicates a value is outside its allowed bounds.
	ErrValueIsOutOfRange = errors.New("value is out of range")
	// ErrValueIsRequired indicates a required value is missing.
	ErrValueIsRequired = errors.New("value is required")
	// ErrInvalidTransition indicates an order lifecycle rule was violated.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrConflictingState indicates a precondition on current state failed,
	// e.g. the driver is no longer available or a concurrent assignment won.
	ErrConflictingState = errors.New("conflicting state")
	// ErrUpstreamUnavailable indicates an external collaborator failed.
	// Callers are expected to degrade gracefully rather than abort.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// sanitize flattens a value into a single log-safe line.
func sanitize(v any) string {
	return strings.ReplaceAll(strings.ReplaceAll(fmt.Sprintf("%s", v), "\n", " "), "\r", " ")
}

// ObjectNotFoundError reports that an object identified by ID could not be found.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError without a cause.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping a cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, sanitize(e.ID), sanitize(e.Cause))
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, sanitize(e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError reports that a named value failed validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError without a cause.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping a cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, sanitize(e.ParamName), sanitize(e.Cause))
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, sanitize(e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports that a value is outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError without a cause.
func NewValueIsOutOfRangeError(paramName string, value any, minValue any, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError wrapping a cause.
func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value any, minValue any, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v (cause: %s)",
			ErrValueIsInvalid, e.Value, sanitize(e.ParamName), e.Min, e.Max, sanitize(e.Cause))
	}
	return fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, e.Value, sanitize(e.ParamName), e.Min, e.Max)
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError reports that a required value is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError without a cause.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping a cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, sanitize(e.ParamName), sanitize(e.Cause))
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, sanitize(e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// InvalidTransitionError reports an illegal order lifecycle transition,
// e.g. completing an order that is still pending or delivering twice.
type InvalidTransitionError struct {
	ParamName string
	From      string
	To        string
	Cause     error
}

// NewInvalidTransitionError creates an InvalidTransitionError without a cause.
func NewInvalidTransitionError(paramName string, from string, to string) *InvalidTransitionError {
	return &InvalidTransitionError{ParamName: paramName, From: from, To: to}
}

// NewInvalidTransitionErrorWithCause creates an InvalidTransitionError wrapping a cause.
func NewInvalidTransitionErrorWithCause(paramName string, from string, to string, cause error) *InvalidTransitionError {
	return &InvalidTransitionError{ParamName: paramName, From: from, To: to, Cause: cause}
}

func (e *InvalidTransitionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s cannot move from %s to %s (cause: %s)",
			ErrInvalidTransition, sanitize(e.ParamName), e.From, e.To, sanitize(e.Cause))
	}
	return fmt.Sprintf("%s: %s cannot move from %s to %s",
		ErrInvalidTransition, sanitize(e.ParamName), e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ConflictingStateError reports that an operation's precondition on current
// state did not hold, typically because a concurrent operation won the race.
type ConflictingStateError struct {
	ParamName string
	Details   string
	Cause     error
}

// NewConflictingStateError creates a ConflictingStateError without a cause.
func NewConflictingStateError(paramName string, details string) *ConflictingStateError {
	return &ConflictingStateError{ParamName: paramName, Details: details}
}

// NewConflictingStateErrorWithCause creates a ConflictingStateError wrapping a cause.
func NewConflictingStateErrorWithCause(paramName string, details string, cause error) *ConflictingStateError {
	return &ConflictingStateError{ParamName: paramName, Details: details, Cause: cause}
}

func (e *ConflictingStateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %s (cause: %s)",
			ErrConflictingState, sanitize(e.ParamName), sanitize(e.Details), sanitize(e.Cause))
	}
	return fmt.Sprintf("%s: %s %s", ErrConflictingState, sanitize(e.ParamName), sanitize(e.Details))
}

func (e *ConflictingStateError) Unwrap() error {
	return ErrConflictingState
}

// UpstreamUnavailableError reports a failure of an external collaborator
// such as the geocoding service. It is always recoverable at the call site.
type UpstreamUnavailableError struct {
	Upstream string
	Cause    error
}

// NewUpstreamUnavailableError creates an UpstreamUnavailableError without a cause.
func NewUpstreamUnavailableError(upstream string) *UpstreamUnavailableError {
	return &UpstreamUnavailableError{Upstream: upstream}
}

// NewUpstreamUnavailableErrorWithCause creates an UpstreamUnavailableError wrapping a cause.
func NewUpstreamUnavailableErrorWithCause(upstream string, cause error) *UpstreamUnavailableError {
	return &UpstreamUnavailableError{Upstream: upstream, Cause: cause}
}

func (e *UpstreamUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrUpstreamUnavailable, sanitize(e.Upstream), sanitize(e.Cause))
	}
	return fmt.Sprintf("%s: %s", ErrUpstreamUnavailable, sanitize(e.Upstream))
}

func (e *UpstreamUnavailableError) Unwrap() error {
	return ErrUpstreamUnavailable
}
