package outcome

import (
	"context"
	"errors"
)

// Outcome is an immutable success-or-failure value with attached diagnostics.
//
// A success carries a value and may carry informational messages. A failure
// carries one or more kind-tagged Error records plus any messages accumulated
// before (or at) the point of failure. Failure is monotonic: once an error is
// attached the instance stays failed; recovery always constructs a brand-new
// instance.
//
// Outcomes compare by value. Two instances with identical state are
// interchangeable, and every transforming operation returns a fresh instance,
// so values can be shared freely across goroutines.
type Outcome[T any] struct {
	ok       bool
	value    T
	errs     []Error
	messages []string
}

// Success creates a successful Outcome holding value.
func Success[T any](value T) Outcome[T] {
	return Outcome[T]{ok: true, value: value}
}

// Failure creates a failed Outcome from one or more error records.
func Failure[T any](errs ...Error) Outcome[T] {
	if len(errs) == 0 {
		errs = []Error{NewError("operation failed")}
	}
	return Outcome[T]{errs: append([]Error(nil), errs...)}
}

// FailureMsg creates a failed Outcome from a plain message.
func FailureMsg[T any](message string) Outcome[T] {
	return Failure[T](NewError(message))
}

// SuccessIf creates a success holding value when cond is true, and a failure
// carrying e otherwise.
func SuccessIf[T any](cond bool, value T, e Error) Outcome[T] {
	if cond {
		return Success(value)
	}
	return Failure[T](e)
}

// Try executes fn and converts any returned error or raised panic into a
// failure. This is the sanctioned boundary between fault-based and
// outcome-based code.
func Try[T any](fn func() (T, error)) (o Outcome[T]) {
	defer func() {
		if r := recover(); r != nil {
			o = Failure[T](faultFrom(r))
		}
	}()
	v, err := fn()
	if err != nil {
		return Failure[T](WrapFault(err))
	}
	return Success(v)
}

// TryCtx executes a context-aware fn, converting cancellation into a
// KindCancelled failure and any other fault into a KindException failure.
func TryCtx[T any](ctx context.Context, fn func(context.Context) (T, error)) (o Outcome[T]) {
	if err := ctx.Err(); err != nil {
		return Failure[T](CancelledError(err))
	}
	defer func() {
		if r := recover(); r != nil {
			o = Failure[T](faultFrom(r))
		}
	}()
	v, err := fn(ctx)
	if err != nil {
		return Failure[T](WrapFault(err))
	}
	return Success(v)
}

// IsSuccess reports whether the Outcome holds a value.
func (o Outcome[T]) IsSuccess() bool {
	return o.ok
}

// IsFailure reports whether the Outcome is failed.
func (o Outcome[T]) IsFailure() bool {
	return !o.ok
}

// Value returns the held value and true on success, or the zero value and
// false on failure.
func (o Outcome[T]) Value() (T, bool) {
	if !o.ok {
		var zero T
		return zero, false
	}
	return o.value, true
}

// ValueOr returns the held value, or fallback on failure.
func (o Outcome[T]) ValueOr(fallback T) T {
	if !o.ok {
		return fallback
	}
	return o.value
}

// Unwrap converts the Outcome back into Go's (value, error) form. A failure
// yields a *FailureError aggregating all error records.
func (o Outcome[T]) Unwrap() (T, error) {
	if o.ok {
		return o.value, nil
	}
	var zero T
	return zero, &FailureError{Errs: append([]Error(nil), o.errs...)}
}

// MustValue returns the value or panics with the aggregated failure. For use
// at boundaries where a failure is a programming error.
func (o Outcome[T]) MustValue() T {
	v, err := o.Unwrap()
	if err != nil {
		panic(err)
	}
	return v
}

// Errors returns a copy of the attached error records.
func (o Outcome[T]) Errors() []Error {
	return append([]Error(nil), o.errs...)
}

// FirstError returns the first attached error record, if any.
func (o Outcome[T]) FirstError() (Error, bool) {
	if len(o.errs) == 0 {
		return Error{}, false
	}
	return o.errs[0], true
}

// HasErrorKind reports whether any attached error record has the given kind.
func (o Outcome[T]) HasErrorKind(kind ErrorKind) bool {
	for _, e := range o.errs {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// Messages returns a copy of the informational messages, present in both the
// success and failure states.
func (o Outcome[T]) Messages() []string {
	return append([]string(nil), o.messages...)
}

// WithMessage returns a new Outcome with message appended. The receiver is
// unchanged.
func (o Outcome[T]) WithMessage(message string) Outcome[T] {
	o.messages = append(append([]string(nil), o.messages...), message)
	return o
}

// WithMessages returns a new Outcome with all messages appended.
func (o Outcome[T]) WithMessages(messages ...string) Outcome[T] {
	o.messages = append(append([]string(nil), o.messages...), messages...)
	return o
}

// WithError returns a new, failed Outcome with e appended to the error list.
// Attaching an error to a success discards its value; failure is monotonic.
func (o Outcome[T]) WithError(e Error) Outcome[T] {
	o.errs = append(append([]Error(nil), o.errs...), e)
	if o.ok {
		var zero T
		o.value = zero
		o.ok = false
	}
	return o
}

// WithErrors returns a new, failed Outcome with all errors appended.
func (o Outcome[T]) WithErrors(errs ...Error) Outcome[T] {
	for _, e := range errs {
		o = o.WithError(e)
	}
	return o
}

// IsCancelled reports whether the failure was caused by context cancellation.
func (o Outcome[T]) IsCancelled() bool {
	return o.HasErrorKind(KindCancelled)
}

// AsError converts a failure into a plain Go error, or nil for a success.
func (o Outcome[T]) AsError() error {
	if o.ok {
		return nil
	}
	return &FailureError{Errs: append([]Error(nil), o.errs...)}
}

// failAs copies a failure's diagnostics into an Outcome of a different value
// type. Used by combinators to short-circuit across type changes.
func failAs[U, T any](o Outcome[T]) Outcome[U] {
	return Outcome[U]{
		errs:     append([]Error(nil), o.errs...),
		messages: append([]string(nil), o.messages...),
	}
}

// IsCancelledErr reports whether err (from Unwrap or AsError) carries a
// cancellation record.
func IsCancelledErr(err error) bool {
	var fe *FailureError
	if !errors.As(err, &fe) {
		return false
	}
	for _, e := range fe.Errs {
		if e.Kind == KindCancelled {
			return true
		}
	}
	return false
}
