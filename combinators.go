package outcome

// Combinators over Outcome values.
//
// Every combinator short-circuits on a prior failure (the supplied function is
// never invoked) and acts as a fault boundary: a panic raised by the supplied
// function becomes a KindException error record on the returned Outcome rather
// than escaping the call. Operations that change the value type are
// package-level functions; value-preserving operations are methods.

// Map replaces a success value with fn(value). A failure passes through
// unchanged.
func Map[T, U any](o Outcome[T], fn func(T) U) (out Outcome[U]) {
	if o.IsFailure() {
		return failAs[U](o)
	}
	defer func() {
		if r := recover(); r != nil {
			out = failAs[U](o).WithError(faultFrom(r))
		}
	}()
	return Success(fn(o.value)).WithMessages(o.messages...)
}

// Bind sequences a dependent step: on success it invokes fn(value) and merges
// the prior messages into the produced Outcome. This is the only way
// dependent multi-step outcomes compose.
func Bind[T, U any](o Outcome[T], fn func(T) Outcome[U]) (out Outcome[U]) {
	if o.IsFailure() {
		return failAs[U](o)
	}
	defer func() {
		if r := recover(); r != nil {
			out = failAs[U](o).WithError(faultFrom(r))
		}
	}()
	next := fn(o.value)
	next.messages = append(append([]string(nil), o.messages...), next.messages...)
	return next
}

// BiMap maps the value on success or the error list on failure. Exactly one
// branch is ever invoked.
func BiMap[T, U any](o Outcome[T], onSuccess func(T) U, onFailure func([]Error) []Error) (out Outcome[U]) {
	defer func() {
		if r := recover(); r != nil {
			out = failAs[U](o).WithError(faultFrom(r))
		}
	}()
	if o.IsFailure() {
		mapped := onFailure(o.Errors())
		return Outcome[U]{errs: mapped, messages: append([]string(nil), o.messages...)}
	}
	return Success(onSuccess(o.value)).WithMessages(o.messages...)
}

// Choose fuses filtering and mapping: fn returning ok=false turns the chain
// into a no-value-chosen failure.
func Choose[T, U any](o Outcome[T], fn func(T) (U, bool)) (out Outcome[U]) {
	if o.IsFailure() {
		return failAs[U](o)
	}
	defer func() {
		if r := recover(); r != nil {
			out = failAs[U](o).WithError(faultFrom(r))
		}
	}()
	u, ok := fn(o.value)
	if !ok {
		return failAs[U](o).WithError(NoValueChosenError())
	}
	return Success(u).WithMessages(o.messages...)
}

// Tap invokes fn for its side effect only. The Outcome is unchanged unless fn
// returns an error or panics, in which case it becomes a failure.
func (o Outcome[T]) Tap(fn func(T) error) (out Outcome[T]) {
	if o.IsFailure() {
		return o
	}
	defer func() {
		if r := recover(); r != nil {
			out = o.WithError(faultFrom(r))
		}
	}()
	if err := fn(o.value); err != nil {
		return o.WithError(WrapFault(err))
	}
	return o
}

// Ensure turns a success into a failure carrying e when pred(value) is false.
// A faulting predicate fails the chain with the wrapped fault instead.
func (o Outcome[T]) Ensure(pred func(T) bool, e Error) (out Outcome[T]) {
	if o.IsFailure() {
		return o
	}
	defer func() {
		if r := recover(); r != nil {
			out = o.WithError(faultFrom(r))
		}
	}()
	if !pred(o.value) {
		return o.WithError(e)
	}
	return o
}

// EnsureNot is the inverse of Ensure: the chain fails when pred(value) is
// true.
func (o Outcome[T]) EnsureNot(pred func(T) bool, e Error) Outcome[T] {
	return o.Ensure(func(v T) bool { return !pred(v) }, e)
}

// Recover replaces a failure with a fresh success produced by fn. Prior
// messages are preserved; prior errors are dropped. A success passes through
// untouched.
func (o Outcome[T]) Recover(fn func() T) (out Outcome[T]) {
	if o.IsSuccess() {
		return o
	}
	defer func() {
		if r := recover(); r != nil {
			out = o.WithError(faultFrom(r))
		}
	}()
	return Success(fn()).WithMessages(o.messages...)
}

// RecoverWith replaces a failure with the Outcome produced by fn, which
// receives the error records for inspection. Prior messages are merged into
// the replacement; prior errors are dropped.
func (o Outcome[T]) RecoverWith(fn func([]Error) Outcome[T]) (out Outcome[T]) {
	if o.IsSuccess() {
		return o
	}
	defer func() {
		if r := recover(); r != nil {
			out = o.WithError(faultFrom(r))
		}
	}()
	next := fn(o.Errors())
	next.messages = append(append([]string(nil), o.messages...), next.messages...)
	return next
}

// Validate runs a structural validator against the value. Violations become a
// single KindValidation error record; a valid value passes through unchanged.
func (o Outcome[T]) Validate(v Validator[T]) (out Outcome[T]) {
	if o.IsFailure() {
		return o
	}
	defer func() {
		if r := recover(); r != nil {
			out = o.WithError(faultFrom(r))
		}
	}()
	res := v.Validate(o.value)
	if !res.Valid {
		return o.WithError(NewValidationError(res.Violations))
	}
	return o
}
