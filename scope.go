package outcome

import "context"

// Resource is the contract an Operation Scope drives: something started
// externally that must be committed when the chain succeeds and rolled back
// when it fails. A database transaction and the Saga compensation stack are
// both Resources.
type Resource interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// ScopeState is the lifecycle state of an Operation Scope.
type ScopeState int

const (
	// ScopeUnstarted means the resource has not been created yet.
	ScopeUnstarted ScopeState = iota
	// ScopeStarted means the resource exists and the chain is in progress.
	ScopeStarted
	// ScopeConcluded means the scope has committed or rolled back.
	ScopeConcluded
)

// String returns the string representation of the ScopeState.
func (s ScopeState) String() string {
	switch s {
	case ScopeUnstarted:
		return "unstarted"
	case ScopeStarted:
		return "started"
	case ScopeConcluded:
		return "concluded"
	default:
		return "unknown"
	}
}

// scopeCore holds the resource lifecycle shared by every Scope value in one
// chain. Combinators return new Scope values but all point at the same core,
// so the resource is started at most once.
type scopeCore[R Resource] struct {
	start    func(context.Context) (R, error)
	resource R
	state    ScopeState
	starts   int
}

// ensureStarted lazily starts the resource. It is a no-op once started.
func (c *scopeCore[R]) ensureStarted(ctx context.Context) (err error) {
	if c.state != ScopeUnstarted {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			e := faultFrom(r)
			err = e
		}
	}()
	c.starts++
	r, startErr := c.start(ctx)
	if startErr != nil {
		return startErr
	}
	c.resource = r
	c.state = ScopeStarted
	return nil
}

// Scope binds an Outcome chain to a lazily started external resource. The
// resource is started on the first combinator invoked while the chain is
// still successful, reused for the remainder of the chain, and committed or
// rolled back by End according to the chain's final state. A chain that was
// already failed when the scope was created never starts the resource at all.
//
// A Scope is driven by a single logical caller; concurrent combinator
// chaining on the same scope is not supported.
type Scope[T any, R Resource] struct {
	outcome Outcome[T]
	core    *scopeCore[R]
}

// NewScope wraps an initial Outcome with a deferred resource-start function.
func NewScope[T any, R Resource](o Outcome[T], start func(context.Context) (R, error)) *Scope[T, R] {
	return &Scope[T, R]{
		outcome: o,
		core:    &scopeCore[R]{start: start},
	}
}

// Outcome returns the scope's current Outcome.
func (s *Scope[T, R]) Outcome() Outcome[T] {
	return s.outcome
}

// State returns the scope's lifecycle state.
func (s *Scope[T, R]) State() ScopeState {
	return s.core.state
}

// Resource returns the started resource, or false before the lazy start.
func (s *Scope[T, R]) Resource() (R, bool) {
	if s.core.state == ScopeUnstarted {
		var zero R
		return zero, false
	}
	return s.core.resource, true
}

// StartCount reports how many times the resource-start function ran. It can
// only ever be 0 or 1; it exists for tests asserting the at-most-once start.
func (s *Scope[T, R]) StartCount() int {
	return s.core.starts
}

// BindScope runs a dependent step against the scope's value and its started
// resource. On a prior failure the step is skipped and the failure carries
// through; the resource is started lazily before the first live step.
func BindScope[T, U any, R Resource](ctx context.Context, s *Scope[T, R], fn func(context.Context, T, R) Outcome[U]) *Scope[U, R] {
	if s.core.state == ScopeConcluded {
		return &Scope[U, R]{
			outcome: failAs[U](s.outcome).WithError(NewError("operation scope already concluded")),
			core:    s.core,
		}
	}
	if s.outcome.IsFailure() {
		return &Scope[U, R]{outcome: failAs[U](s.outcome), core: s.core}
	}
	if err := ctx.Err(); err != nil {
		return &Scope[U, R]{
			outcome: failAs[U](s.outcome).WithError(CancelledError(err)),
			core:    s.core,
		}
	}
	if err := s.core.ensureStarted(ctx); err != nil {
		return &Scope[U, R]{
			outcome: failAs[U](s.outcome).WithError(WrapFault(err)),
			core:    s.core,
		}
	}

	next := BindCtx(ctx, s.outcome, func(ctx context.Context, v T) Outcome[U] {
		return fn(ctx, v, s.core.resource)
	})
	return &Scope[U, R]{outcome: next, core: s.core}
}

// MapScope runs a value-transforming step against the scope's value and its
// started resource.
func MapScope[T, U any, R Resource](ctx context.Context, s *Scope[T, R], fn func(context.Context, T, R) (U, error)) *Scope[U, R] {
	return BindScope(ctx, s, func(ctx context.Context, v T, r R) Outcome[U] {
		u, err := fn(ctx, v, r)
		if err != nil {
			return Failure[U](WrapFault(err))
		}
		return Success(u)
	})
}

// End concludes the scope: it forces a lazy start if the chain is successful
// (covering a chain with no combinators), commits the resource on success,
// and rolls it back on failure. A faulting commit triggers a best-effort
// rollback whose own fault is deliberately swallowed so the original
// diagnosis is not masked. A scope whose original Outcome was already failed
// and whose resource was never started concludes without any resource call.
func (s *Scope[T, R]) End(ctx context.Context) Outcome[T] {
	if s.core.state == ScopeConcluded {
		return s.outcome
	}

	if s.outcome.IsFailure() {
		if s.core.state == ScopeUnstarted {
			s.core.state = ScopeConcluded
			return s.outcome
		}
		out := s.outcome
		if err := s.rollbackQuietly(ctx); err != nil {
			out = out.WithMessage("rollback failed: " + err.Error())
		}
		s.core.state = ScopeConcluded
		return out
	}

	// Degenerate single-outcome chain: force the start so commit has a
	// resource to act on.
	if err := s.core.ensureStarted(ctx); err != nil {
		s.core.state = ScopeConcluded
		return s.outcome.WithError(WrapFault(err))
	}

	if err := s.commitBound(ctx); err != nil {
		out := s.outcome.WithError(WrapFault(err))
		if rbErr := s.rollbackQuietly(ctx); rbErr != nil {
			out = out.WithMessage("rollback failed: " + rbErr.Error())
		}
		s.core.state = ScopeConcluded
		return out
	}

	s.core.state = ScopeConcluded
	return s.outcome
}

// EndValue concludes the scope and re-enters error-based code: the final
// Outcome is unwrapped into Go's (value, error) form.
func (s *Scope[T, R]) EndValue(ctx context.Context) (T, error) {
	return s.End(ctx).Unwrap()
}

func (s *Scope[T, R]) commitBound(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e := faultFrom(r)
			err = e
		}
	}()
	return s.core.resource.Commit(ctx)
}

func (s *Scope[T, R]) rollbackQuietly(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e := faultFrom(r)
			err = e
		}
	}()
	return s.core.resource.Rollback(ctx)
}
