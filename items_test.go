package outcome

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failOn returns a mapper that fails for the listed values.
func failOn(bad ...int) func(int) (int, error) {
	return func(v int) (int, error) {
		for _, b := range bad {
			if v == b {
				return 0, fmt.Errorf("cannot process %d", v)
			}
		}
		return v * 10, nil
	}
}

func TestMapItems(t *testing.T) {
	o := Success([]int{1, 2, 3})
	mapped := MapItems(o, failOn(), DefaultProcessOptions())

	items, ok := mapped.Value()
	require.True(t, ok)
	assert.Equal(t, []int{10, 20, 30}, items)
}

func TestMapItemsMaxFailuresExceeded(t *testing.T) {
	src := Success([]int{1, 2, 3, 4, 5})

	// Items 2 and 4 fault. A ceiling of 1 is exceeded by the second fault.
	strict := MapItems(src, failOn(2, 4), DefaultProcessOptions().WithMaxFailures(1))
	assert.True(t, strict.IsFailure())

	// A ceiling of 3 tolerates both faults; the message list documents them.
	lenient := MapItems(src, failOn(2, 4), DefaultProcessOptions().WithMaxFailures(3))
	require.True(t, lenient.IsSuccess())
	items, _ := lenient.Value()
	assert.Equal(t, []int{10, 30, 50}, items)

	messages := lenient.Messages()
	require.Len(t, messages, 2)
	assert.Contains(t, messages[0], "item 1 failed")
	assert.Contains(t, messages[1], "item 3 failed")
	assert.Empty(t, lenient.Errors(), "a successful collection never carries error records")
}

func TestMapItemsAbortsWithoutContinue(t *testing.T) {
	var calls int
	o := MapItems(Success([]int{1, 2, 3, 4}), func(v int) (int, error) {
		calls++
		if v == 2 {
			return 0, errors.New("boom")
		}
		return v, nil
	}, DefaultProcessOptions().WithContinueOnItemFailure(false))

	assert.True(t, o.IsFailure())
	assert.Equal(t, 2, calls, "iteration stops at the first failure")
}

func TestMapItemsShortCircuitsOnFailedSource(t *testing.T) {
	o := MapItems(FailureMsg[[]int]("upstream"), failOn(), DefaultProcessOptions())
	assert.True(t, o.IsFailure())
	first, _ := o.FirstError()
	assert.Equal(t, "upstream", first.Message)
}

func TestMapItemsEmptySource(t *testing.T) {
	o := MapItems(Success([]int{}), failOn(), DefaultProcessOptions())
	assert.True(t, o.IsSuccess(), "an empty source is an empty success")
}

func TestFilterItems(t *testing.T) {
	evens := FilterItems(Success([]int{1, 2, 3, 4}), func(v int) bool { return v%2 == 0 }, DefaultProcessOptions())
	items, ok := evens.Value()
	require.True(t, ok)
	assert.Equal(t, []int{2, 4}, items)

	none := FilterItems(Success([]int{1, 3}), func(v int) bool { return v%2 == 0 }, DefaultProcessOptions())
	require.True(t, none.IsFailure(), "filtering everything out of a non-empty source is a failure")
	first, _ := none.FirstError()
	assert.Equal(t, "no items produced", first.Message)
}

func TestFilterItemsIncludeFailed(t *testing.T) {
	pred := func(v int) bool {
		if v == 3 {
			panic("cannot judge 3")
		}
		return true
	}

	dropped := FilterItems(Success([]int{1, 3, 5}), pred, DefaultProcessOptions())
	items, _ := dropped.Value()
	assert.Equal(t, []int{1, 5}, items)

	kept := FilterItems(Success([]int{1, 3, 5}), pred, DefaultProcessOptions().WithIncludeFailedItems(true))
	items, _ = kept.Value()
	assert.Equal(t, []int{1, 3, 5}, items, "the offending item is retained on request")
}

func TestForEachItems(t *testing.T) {
	var sum int
	o := ForEachItems(Success([]int{1, 2, 3}), func(v int) error {
		sum += v
		return nil
	}, DefaultProcessOptions())

	assert.True(t, o.IsSuccess())
	assert.Equal(t, 6, sum)
}

func TestValidateItems(t *testing.T) {
	nonEmpty := ValidatorFunc[string](func(s string) ValidationResult {
		if strings.TrimSpace(s) == "" {
			return InvalidResult(Violation{Message: "blank"})
		}
		return ValidResult()
	})

	o := ValidateItems(Success([]string{"a", " ", "c"}), nonEmpty, DefaultProcessOptions())
	require.True(t, o.IsSuccess())
	items, _ := o.Value()
	assert.Equal(t, []string{"a", "c"}, items)
	require.Len(t, o.Messages(), 1)
	assert.Contains(t, o.Messages()[0], "item 1 failed")
}

func TestBindItemsFlattens(t *testing.T) {
	o := BindItems(Success([]int{1, 2}), func(v int) Outcome[[]int] {
		return Success([]int{v, v * 100})
	}, DefaultProcessOptions())

	items, ok := o.Value()
	require.True(t, ok)
	assert.Equal(t, []int{1, 100, 2, 200}, items)
}

func TestBindItemsPropagatesSubFailure(t *testing.T) {
	o := BindItems(Success([]int{1, 2, 3}), func(v int) Outcome[[]int] {
		if v == 2 {
			return FailureMsg[[]int]("no expansion for 2")
		}
		return Success([]int{v})
	}, DefaultProcessOptions())

	require.True(t, o.IsSuccess())
	items, _ := o.Value()
	assert.Equal(t, []int{1, 3}, items)
	require.Len(t, o.Messages(), 1)
	assert.Contains(t, o.Messages()[0], "no expansion for 2")
}

func TestTraverseItems(t *testing.T) {
	o := TraverseItems(Success([]string{"1", "2"}), func(s string) Outcome[int] {
		return Try(func() (int, error) {
			var v int
			_, err := fmt.Sscanf(s, "%d", &v)
			return v, err
		})
	}, DefaultProcessOptions())

	items, ok := o.Value()
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, items)
}

func TestSelectManyItems(t *testing.T) {
	o := SelectManyItems(Success([]string{"ab", "c"}), func(s string) []string {
		return strings.Split(s, "")
	}, DefaultProcessOptions())

	items, ok := o.Value()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, items)
}

func TestFlattenItems(t *testing.T) {
	o := FlattenItems(Success([][]int{{1, 2}, {3}, {}}))
	items, ok := o.Value()
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, items)
}

func TestChunkItems(t *testing.T) {
	o := ChunkItems(Success([]int{1, 2, 3, 4, 5}), 2)
	chunks, ok := o.Value()
	require.True(t, ok)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, chunks)

	bad := ChunkItems(Success([]int{1}), 0)
	assert.True(t, bad.IsFailure())
}

func TestDistinctByItems(t *testing.T) {
	type user struct {
		ID   int
		Name string
	}
	users := []user{{1, "ann"}, {2, "bob"}, {1, "ann again"}}

	o := DistinctByItems(Success(users), func(u user) int { return u.ID }, DefaultProcessOptions())
	items, ok := o.Value()
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "ann", items[0].Name, "first occurrence wins")
}

func TestOrderByItems(t *testing.T) {
	o := OrderByItems(Success([]string{"pear", "fig", "apple"}), func(s string) int { return len(s) }, DefaultProcessOptions())
	items, ok := o.Value()
	require.True(t, ok)
	assert.Equal(t, []string{"fig", "pear", "apple"}, items)

	desc := OrderByItemsDescending(Success([]int{2, 9, 4}), func(v int) int { return v }, DefaultProcessOptions())
	items2, _ := desc.Value()
	assert.Equal(t, []int{9, 4, 2}, items2)
}

func TestAggregateItems(t *testing.T) {
	o := AggregateItems(Success([]int{1, 2, 3, 4}), 0, func(acc, v int) (int, error) {
		return acc + v, nil
	}, DefaultProcessOptions())

	total, ok := o.Value()
	require.True(t, ok)
	assert.Equal(t, 10, total)
}

func TestAggregateItemsSkipsFailedItems(t *testing.T) {
	o := AggregateItems(Success([]int{1, 2, 3}), 0, func(acc, v int) (int, error) {
		if v == 2 {
			return 0, errors.New("bad record")
		}
		return acc + v, nil
	}, DefaultProcessOptions())

	total, ok := o.Value()
	require.True(t, ok)
	assert.Equal(t, 4, total, "the failed item leaves the accumulator untouched")
	assert.Len(t, o.Messages(), 1)
}

func TestFirstItems(t *testing.T) {
	o := FirstItems(Success([]string{"x", "7", "9"}), func(s string) (int, error) {
		var v int
		_, err := fmt.Sscanf(s, "%d", &v)
		return v, err
	}, DefaultProcessOptions())

	v, ok := o.Value()
	require.True(t, ok)
	assert.Equal(t, 7, v, "the first per-item success wins")
	assert.Len(t, o.Messages(), 1, "the earlier failure is documented")
}

func TestFirstItemsAllFail(t *testing.T) {
	o := FirstItems(Success([]string{"x", "y"}), func(s string) (int, error) {
		return 0, fmt.Errorf("not a number: %s", s)
	}, DefaultProcessOptions())

	require.True(t, o.IsFailure())
	assert.True(t, len(o.Errors()) >= 2)
}
