package outcome

import "context"

// Context-aware forms of the per-item combinators. The engine checks the
// context between items; an observed cancellation aborts the pass and fails
// the whole collection with a KindCancelled record (plus whatever per-item
// diagnostics were accumulated before the cancellation). The purely
// structural combinators (chunk, flatten, distinct, order, select-many) have
// no blocking work and therefore no context form.

// runItemsCtx is the shared context-aware per-item loop.
func runItemsCtx[T, U any](
	ctx context.Context,
	o Outcome[[]T],
	opts ProcessOptions,
	retain func(T) (U, bool),
	apply func(context.Context, T) ([]U, []Error),
) Outcome[[]U] {
	if o.IsFailure() {
		return failAs[[]U](o)
	}
	items := o.value
	c := newItemCollector[U](opts)
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			messages := append(append([]string(nil), o.messages...), c.msgs...)
			errs := append(append([]Error(nil), c.errs...), CancelledError(err))
			return Failure[[]U](errs...).WithMessages(messages...)
		}
		produced, errs := boundItem(item, func(it T) ([]U, []Error) {
			return apply(ctx, it)
		})
		if len(errs) > 0 {
			var retained *U
			if u, ok := retain(item); ok {
				retained = &u
			}
			if c.fail(i, errs, retained) {
				break
			}
			continue
		}
		c.keep(produced...)
	}
	return c.finish(o.messages, len(items), true)
}

// retainSelf keeps the offending item itself (same-type combinators).
func retainSelf[T any](item T) (T, bool) {
	return item, true
}

// retainNone is used when the output type differs from the item type.
func retainNone[T, U any](T) (U, bool) {
	var zero U
	return zero, false
}

// FilterItemsCtx is the context-aware form of FilterItems.
func FilterItemsCtx[T any](ctx context.Context, o Outcome[[]T], pred func(context.Context, T) (bool, error), opts ProcessOptions) Outcome[[]T] {
	return runItemsCtx(ctx, o, opts, retainSelf[T], func(ctx context.Context, it T) ([]T, []Error) {
		ok, err := pred(ctx, it)
		if err != nil {
			return nil, []Error{WrapFault(err)}
		}
		if !ok {
			return nil, nil
		}
		return []T{it}, nil
	})
}

// MapItemsCtx is the context-aware form of MapItems.
func MapItemsCtx[T, U any](ctx context.Context, o Outcome[[]T], fn func(context.Context, T) (U, error), opts ProcessOptions) Outcome[[]U] {
	return runItemsCtx(ctx, o, opts, retainNone[T, U], func(ctx context.Context, it T) ([]U, []Error) {
		u, err := fn(ctx, it)
		if err != nil {
			return nil, []Error{WrapFault(err)}
		}
		return []U{u}, nil
	})
}

// ForEachItemsCtx is the context-aware form of ForEachItems.
func ForEachItemsCtx[T any](ctx context.Context, o Outcome[[]T], fn func(context.Context, T) error, opts ProcessOptions) Outcome[[]T] {
	return runItemsCtx(ctx, o, opts, retainSelf[T], func(ctx context.Context, it T) ([]T, []Error) {
		if err := fn(ctx, it); err != nil {
			return nil, []Error{WrapFault(err)}
		}
		return []T{it}, nil
	})
}

// ValidateItemsCtx is the context-aware form of ValidateItems.
func ValidateItemsCtx[T any](ctx context.Context, o Outcome[[]T], v ValidatorCtx[T], opts ProcessOptions) Outcome[[]T] {
	return runItemsCtx(ctx, o, opts, retainSelf[T], func(ctx context.Context, it T) ([]T, []Error) {
		res, err := v.ValidateCtx(ctx, it)
		if err != nil {
			return nil, []Error{WrapFault(err)}
		}
		if !res.Valid {
			return nil, []Error{NewValidationError(res.Violations)}
		}
		return []T{it}, nil
	})
}

// BindItemsCtx is the context-aware form of BindItems.
func BindItemsCtx[T, U any](ctx context.Context, o Outcome[[]T], fn func(context.Context, T) Outcome[[]U], opts ProcessOptions) Outcome[[]U] {
	return runItemsCtx(ctx, o, opts, retainNone[T, U], func(ctx context.Context, it T) ([]U, []Error) {
		sub := fn(ctx, it)
		if sub.IsFailure() {
			return nil, sub.Errors()
		}
		v, _ := sub.Value()
		return v, nil
	})
}

// TraverseItemsCtx is the context-aware form of TraverseItems.
func TraverseItemsCtx[T, U any](ctx context.Context, o Outcome[[]T], fn func(context.Context, T) Outcome[U], opts ProcessOptions) Outcome[[]U] {
	return runItemsCtx(ctx, o, opts, retainNone[T, U], func(ctx context.Context, it T) ([]U, []Error) {
		sub := fn(ctx, it)
		if sub.IsFailure() {
			return nil, sub.Errors()
		}
		u, _ := sub.Value()
		return []U{u}, nil
	})
}

// AggregateItemsCtx is the context-aware form of AggregateItems.
func AggregateItemsCtx[T, A any](ctx context.Context, o Outcome[[]T], seed A, fn func(context.Context, A, T) (A, error), opts ProcessOptions) Outcome[A] {
	if o.IsFailure() {
		return failAs[A](o)
	}
	items := o.value
	acc := seed
	c := newItemCollector[struct{}](opts)
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			messages := append(append([]string(nil), o.messages...), c.msgs...)
			errs := append(append([]Error(nil), c.errs...), CancelledError(err))
			return Failure[A](errs...).WithMessages(messages...)
		}
		_, errs := boundItem(item, func(it T) ([]struct{}, []Error) {
			next, err := fn(ctx, acc, it)
			if err != nil {
				return nil, []Error{WrapFault(err)}
			}
			acc = next
			return nil, nil
		})
		if len(errs) > 0 {
			if c.fail(i, errs, nil) {
				break
			}
		}
	}
	folded := c.finish(o.messages, len(items), false)
	return Map(folded, func([]struct{}) A { return acc })
}

// FirstItemsCtx is the context-aware form of FirstItems.
func FirstItemsCtx[T, U any](ctx context.Context, o Outcome[[]T], fn func(context.Context, T) (U, error), opts ProcessOptions) Outcome[U] {
	if o.IsFailure() {
		return failAs[U](o)
	}
	items := o.value
	c := newItemCollector[U](opts)
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			messages := append(append([]string(nil), o.messages...), c.msgs...)
			errs := append(append([]Error(nil), c.errs...), CancelledError(err))
			return Failure[U](errs...).WithMessages(messages...)
		}
		produced, errs := boundItem(item, func(it T) ([]U, []Error) {
			u, err := fn(ctx, it)
			if err != nil {
				return nil, []Error{WrapFault(err)}
			}
			return []U{u}, nil
		})
		if len(errs) > 0 {
			if c.fail(i, errs, nil) {
				break
			}
			continue
		}
		if len(produced) > 0 {
			return Success(produced[0]).
				WithMessages(append(append([]string(nil), o.messages...), c.msgs...)...)
		}
	}
	messages := append(append([]string(nil), o.messages...), c.msgs...)
	errs := append(append([]Error(nil), c.errs...), NoItemsError())
	return Failure[U](errs...).WithMessages(messages...)
}
