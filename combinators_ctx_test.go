package outcome

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func TestMapCtx(t *testing.T) {
	ctx := context.Background()

	o := MapCtx(ctx, Success(2), func(_ context.Context, v int) (int, error) {
		return v * 10, nil
	})
	v, ok := o.Value()
	require.True(t, ok)
	assert.Equal(t, 20, v)

	failed := MapCtx(ctx, Success(2), func(_ context.Context, v int) (int, error) {
		return 0, errors.New("remote refused")
	})
	require.True(t, failed.IsFailure())
	first, _ := failed.FirstError()
	assert.Equal(t, KindException, first.Kind)
}

func TestMapCtxConvertsCancellation(t *testing.T) {
	invoked := false
	o := MapCtx(cancelledContext(), Success(1), func(_ context.Context, v int) (int, error) {
		invoked = true
		return v, nil
	})

	assert.False(t, invoked, "a cancelled context skips the step function")
	require.True(t, o.IsFailure())
	assert.True(t, o.IsCancelled())
	first, _ := o.FirstError()
	assert.Equal(t, KindCancelled, first.Kind)
	assert.Equal(t, "operation cancelled", first.Message)
}

func TestMapCtxShortCircuitBeatsCancellation(t *testing.T) {
	// A prior failure propagates untouched even under a cancelled context.
	o := MapCtx(cancelledContext(), FailureMsg[int]("earlier"), func(_ context.Context, v int) (int, error) {
		return v, nil
	})
	require.True(t, o.IsFailure())
	assert.False(t, o.IsCancelled())
}

func TestBindCtx(t *testing.T) {
	o := BindCtx(context.Background(), Success(3).WithMessage("seed"), func(_ context.Context, v int) Outcome[int] {
		return Success(v + 1).WithMessage("stepped")
	})
	v, ok := o.Value()
	require.True(t, ok)
	assert.Equal(t, 4, v)
	assert.Equal(t, []string{"seed", "stepped"}, o.Messages())
}

func TestTryCtxReportsCancellation(t *testing.T) {
	o := TryCtx(cancelledContext(), func(ctx context.Context) (int, error) {
		return 1, nil
	})
	assert.True(t, o.IsCancelled())

	// A step that surfaces ctx.Err() itself is classified the same way.
	ctx, cancel := context.WithCancel(context.Background())
	o = TryCtx(ctx, func(ctx context.Context) (int, error) {
		cancel()
		return 0, ctx.Err()
	})
	assert.True(t, o.IsCancelled())
}

func TestTapCtx(t *testing.T) {
	var seen int
	o := Success(5).TapCtx(context.Background(), func(_ context.Context, v int) error {
		seen = v
		return nil
	})
	assert.Equal(t, 5, seen)
	assert.True(t, o.IsSuccess())

	cancelled := Success(5).TapCtx(cancelledContext(), func(_ context.Context, _ int) error { return nil })
	assert.True(t, cancelled.IsCancelled())
}

func TestEnsureCtx(t *testing.T) {
	ctx := context.Background()
	quotaExceeded := NewError("quota exceeded")

	ok := Success(3).EnsureCtx(ctx, func(_ context.Context, v int) (bool, error) {
		return v < 10, nil
	}, quotaExceeded)
	assert.True(t, ok.IsSuccess())

	bad := Success(30).EnsureCtx(ctx, func(_ context.Context, v int) (bool, error) {
		return v < 10, nil
	}, quotaExceeded)
	require.True(t, bad.IsFailure())
	first, _ := bad.FirstError()
	assert.Equal(t, quotaExceeded, first)

	// A failing predicate produces a wrapped fault, not the guard error.
	broken := Success(1).EnsureCtx(ctx, func(_ context.Context, _ int) (bool, error) {
		return false, errors.New("lookup failed")
	}, quotaExceeded)
	first, _ = broken.FirstError()
	assert.Equal(t, KindException, first.Kind)
}

func TestRecoverCtx(t *testing.T) {
	f := FailureMsg[string]("primary down").WithMessage("attempt 1")

	recovered := f.RecoverCtx(context.Background(), func(_ context.Context) (string, error) {
		return "secondary", nil
	})
	v, ok := recovered.Value()
	require.True(t, ok)
	assert.Equal(t, "secondary", v)
	assert.Equal(t, []string{"attempt 1"}, recovered.Messages())

	// Cancellation during recovery leaves the outcome failed.
	still := f.RecoverCtx(cancelledContext(), func(_ context.Context) (string, error) {
		return "secondary", nil
	})
	assert.True(t, still.IsFailure())
	assert.True(t, still.IsCancelled())
}

func TestChooseCtx(t *testing.T) {
	ctx := context.Background()
	o := ChooseCtx(ctx, Success(8), func(_ context.Context, v int) (int, bool, error) {
		if v%2 == 0 {
			return v / 2, true, nil
		}
		return 0, false, nil
	})
	v, ok := o.Value()
	require.True(t, ok)
	assert.Equal(t, 4, v)

	nothing := ChooseCtx(ctx, Success(7), func(_ context.Context, v int) (int, bool, error) {
		return 0, false, nil
	})
	first, _ := nothing.FirstError()
	assert.Equal(t, "no value chosen", first.Message)
}

func TestValidateCtx(t *testing.T) {
	positive := ValidatorCtxFunc[int](func(_ context.Context, v int) (ValidationResult, error) {
		if v <= 0 {
			return InvalidResult(Violation{Message: "must be positive"}), nil
		}
		return ValidResult(), nil
	})

	ok := Success(4).ValidateCtx(context.Background(), positive)
	assert.True(t, ok.IsSuccess())

	bad := Success(-4).ValidateCtx(context.Background(), positive)
	require.True(t, bad.IsFailure())
	first, _ := bad.FirstError()
	assert.Equal(t, KindValidation, first.Kind)
}
