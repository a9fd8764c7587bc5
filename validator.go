package outcome

import "context"

// Violation describes a single structural problem found by a validator.
type Violation struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationResult is the verdict returned by a validator.
type ValidationResult struct {
	Valid      bool
	Violations []Violation
}

// ValidResult returns a passing verdict.
func ValidResult() ValidationResult {
	return ValidationResult{Valid: true}
}

// InvalidResult returns a failing verdict carrying the given violations.
func InvalidResult(violations ...Violation) ValidationResult {
	return ValidationResult{Violations: violations}
}

// Validator is the pluggable structural-validation contract consumed by
// Validate and ValidateItems. Implementations are opaque to the core; only
// the verdict matters.
type Validator[T any] interface {
	Validate(value T) ValidationResult
}

// ValidatorCtx is the context-aware validator contract.
type ValidatorCtx[T any] interface {
	ValidateCtx(ctx context.Context, value T) (ValidationResult, error)
}

// ValidatorFunc adapts an ordinary function to the Validator interface.
type ValidatorFunc[T any] func(T) ValidationResult

// Validate implements the Validator interface.
func (f ValidatorFunc[T]) Validate(value T) ValidationResult {
	return f(value)
}

// ValidatorCtxFunc adapts an ordinary function to the ValidatorCtx interface.
type ValidatorCtxFunc[T any] func(context.Context, T) (ValidationResult, error)

// ValidateCtx implements the ValidatorCtx interface.
func (f ValidatorCtxFunc[T]) ValidateCtx(ctx context.Context, value T) (ValidationResult, error) {
	return f(ctx, value)
}
