package outcome

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind discriminates the failure records attached to an Outcome.
type ErrorKind int

const (
	// KindGeneric is a domain failure constructed deliberately by the caller.
	KindGeneric ErrorKind = iota
	// KindValidation is a failure produced by a structural validator.
	KindValidation
	// KindException wraps a fault (panic or unexpected error) raised inside a
	// caller-supplied function.
	KindException
	// KindCancelled marks a step interrupted by context cancellation. It is
	// never conflated with KindException.
	KindCancelled
)

// String returns the string representation of the ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindValidation:
		return "validation"
	case KindException:
		return "exception"
	case KindCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Unknown ErrorKind: %d", int(k))
	}
}

// Error is a single kind-tagged failure record carried by an Outcome.
// Violations is populated only for KindValidation records.
type Error struct {
	Kind       ErrorKind
	Message    string
	Violations []Violation

	cause error
}

// Error implements the error interface.
func (e Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e Error) Unwrap() error {
	return e.cause
}

// NewError creates a generic domain error.
func NewError(message string) Error {
	return Error{Kind: KindGeneric, Message: message}
}

// Errorf creates a generic domain error from a format string.
func Errorf(format string, args ...any) Error {
	return Error{Kind: KindGeneric, Message: fmt.Sprintf(format, args...)}
}

// NewValidationError creates a validation error from a set of violations.
func NewValidationError(violations []Violation) Error {
	var sb strings.Builder
	sb.WriteString("validation failed")
	for _, v := range violations {
		sb.WriteString("; ")
		if v.Field != "" {
			sb.WriteString(v.Field)
			sb.WriteString(": ")
		}
		sb.WriteString(v.Message)
	}
	return Error{
		Kind:       KindValidation,
		Message:    sb.String(),
		Violations: append([]Violation(nil), violations...),
	}
}

// CancelledError creates the error record used when a context is cancelled
// mid-chain.
func CancelledError(cause error) Error {
	return Error{Kind: KindCancelled, Message: "operation cancelled", cause: cause}
}

// NoValueChosenError indicates a Choose step produced no value.
func NoValueChosenError() Error {
	return NewError("no value chosen")
}

// NoItemsError indicates a per-item combinator produced an empty result from a
// non-empty source.
func NoItemsError() Error {
	return NewError("no items produced")
}

// ErrorConfig configures process-wide fault-to-error translation. Host
// applications call Configure once at startup to customise how unexpected
// faults are rendered as Error records.
type ErrorConfig struct {
	// MapFault converts a fault raised inside a caller-supplied function into
	// an Error record. Nil leaves the default mapping in place.
	MapFault func(error) Error
}

var faultMapper = defaultMapFault

// Configure installs the process-wide error configuration. Intended to be
// called once during initialisation, before any chains run.
func Configure(cfg ErrorConfig) {
	if cfg.MapFault != nil {
		faultMapper = cfg.MapFault
	}
}

func defaultMapFault(err error) Error {
	return Error{
		Kind:    KindException,
		Message: fmt.Sprintf("unhandled fault: %s", err.Error()),
		cause:   err,
	}
}

// WrapFault converts an arbitrary error into an Error record using the
// configured fault mapper. Context cancellation is detected here so that it
// always surfaces as KindCancelled regardless of the installed mapper.
func WrapFault(err error) Error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CancelledError(err)
	}
	return faultMapper(err)
}

// faultFrom normalises a recovered panic value into an Error record.
func faultFrom(r any) Error {
	if err, ok := r.(error); ok {
		return WrapFault(err)
	}
	return WrapFault(fmt.Errorf("%v", r))
}

// FailureError aggregates an Outcome's error records into a single Go error.
// It is returned by Unwrap, the sanctioned boundary back into error-based code.
type FailureError struct {
	Errs []Error
}

// Error implements the error interface.
func (e *FailureError) Error() string {
	if len(e.Errs) == 0 {
		return "outcome failed"
	}
	parts := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		parts[i] = err.Message
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes the individual error records for errors.Is/As matching.
func (e *FailureError) Unwrap() []error {
	out := make([]error, len(e.Errs))
	for i, err := range e.Errs {
		out[i] = err
	}
	return out
}
