package outcome

import "context"

// Context-aware combinator forms. Each checks the context before running the
// supplied function and converts an observed cancellation into a
// KindCancelled failure rather than letting it propagate. The chain itself
// remains strictly sequential; these forms exist so that blocking step
// functions can participate in cooperative cancellation.

// MapCtx is the context-aware form of Map. fn may block and may fail.
func MapCtx[T, U any](ctx context.Context, o Outcome[T], fn func(context.Context, T) (U, error)) (out Outcome[U]) {
	if o.IsFailure() {
		return failAs[U](o)
	}
	if err := ctx.Err(); err != nil {
		return failAs[U](o).WithError(CancelledError(err))
	}
	defer func() {
		if r := recover(); r != nil {
			out = failAs[U](o).WithError(faultFrom(r))
		}
	}()
	u, err := fn(ctx, o.value)
	if err != nil {
		return failAs[U](o).WithError(WrapFault(err))
	}
	return Success(u).WithMessages(o.messages...)
}

// BindCtx is the context-aware form of Bind.
func BindCtx[T, U any](ctx context.Context, o Outcome[T], fn func(context.Context, T) Outcome[U]) (out Outcome[U]) {
	if o.IsFailure() {
		return failAs[U](o)
	}
	if err := ctx.Err(); err != nil {
		return failAs[U](o).WithError(CancelledError(err))
	}
	defer func() {
		if r := recover(); r != nil {
			out = failAs[U](o).WithError(faultFrom(r))
		}
	}()
	next := fn(ctx, o.value)
	next.messages = append(append([]string(nil), o.messages...), next.messages...)
	return next
}

// ChooseCtx is the context-aware form of Choose.
func ChooseCtx[T, U any](ctx context.Context, o Outcome[T], fn func(context.Context, T) (U, bool, error)) (out Outcome[U]) {
	if o.IsFailure() {
		return failAs[U](o)
	}
	if err := ctx.Err(); err != nil {
		return failAs[U](o).WithError(CancelledError(err))
	}
	defer func() {
		if r := recover(); r != nil {
			out = failAs[U](o).WithError(faultFrom(r))
		}
	}()
	u, ok, err := fn(ctx, o.value)
	if err != nil {
		return failAs[U](o).WithError(WrapFault(err))
	}
	if !ok {
		return failAs[U](o).WithError(NoValueChosenError())
	}
	return Success(u).WithMessages(o.messages...)
}

// TapCtx is the context-aware form of Tap.
func (o Outcome[T]) TapCtx(ctx context.Context, fn func(context.Context, T) error) (out Outcome[T]) {
	if o.IsFailure() {
		return o
	}
	if err := ctx.Err(); err != nil {
		return o.WithError(CancelledError(err))
	}
	defer func() {
		if r := recover(); r != nil {
			out = o.WithError(faultFrom(r))
		}
	}()
	if err := fn(ctx, o.value); err != nil {
		return o.WithError(WrapFault(err))
	}
	return o
}

// EnsureCtx is the context-aware form of Ensure. The predicate may block and
// may fail; a predicate error fails the chain with the wrapped fault rather
// than e.
func (o Outcome[T]) EnsureCtx(ctx context.Context, pred func(context.Context, T) (bool, error), e Error) (out Outcome[T]) {
	if o.IsFailure() {
		return o
	}
	if err := ctx.Err(); err != nil {
		return o.WithError(CancelledError(err))
	}
	defer func() {
		if r := recover(); r != nil {
			out = o.WithError(faultFrom(r))
		}
	}()
	ok, err := pred(ctx, o.value)
	if err != nil {
		return o.WithError(WrapFault(err))
	}
	if !ok {
		return o.WithError(e)
	}
	return o
}

// RecoverCtx is the context-aware form of Recover. Cancellation observed here
// leaves the Outcome failed, with the cancellation record appended.
func (o Outcome[T]) RecoverCtx(ctx context.Context, fn func(context.Context) (T, error)) (out Outcome[T]) {
	if o.IsSuccess() {
		return o
	}
	if err := ctx.Err(); err != nil {
		return o.WithError(CancelledError(err))
	}
	defer func() {
		if r := recover(); r != nil {
			out = o.WithError(faultFrom(r))
		}
	}()
	v, err := fn(ctx)
	if err != nil {
		return o.WithError(WrapFault(err))
	}
	return Success(v).WithMessages(o.messages...)
}

// ValidateCtx runs a context-aware structural validator against the value.
func (o Outcome[T]) ValidateCtx(ctx context.Context, v ValidatorCtx[T]) (out Outcome[T]) {
	if o.IsFailure() {
		return o
	}
	if err := ctx.Err(); err != nil {
		return o.WithError(CancelledError(err))
	}
	defer func() {
		if r := recover(); r != nil {
			out = o.WithError(faultFrom(r))
		}
	}()
	res, err := v.ValidateCtx(ctx, o.value)
	if err != nil {
		return o.WithError(WrapFault(err))
	}
	if !res.Valid {
		return o.WithError(NewValidationError(res.Violations))
	}
	return o
}
