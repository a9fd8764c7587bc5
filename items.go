package outcome

import (
	"cmp"
	"fmt"
	"sort"
)

// Per-item collection combinators. They share one engine: iterate the source
// items, run the caller's function inside a fault boundary, and apply the
// ProcessOptions policy to each failure. Partial success with diagnostics is
// intentional — a collection operation can succeed while its message list
// documents the items that failed along the way. Error records are only
// attached when the operation as a whole fails, since a success never carries
// errors.

// itemCollector accumulates the state of one per-item pass.
type itemCollector[U any] struct {
	opts    ProcessOptions
	out     []U
	errs    []Error
	msgs    []string
	failed  int
	stopped bool
}

func newItemCollector[U any](opts ProcessOptions) *itemCollector[U] {
	return &itemCollector[U]{opts: opts}
}

// keep records the output of a successful item.
func (c *itemCollector[U]) keep(produced ...U) {
	c.out = append(c.out, produced...)
}

// fail records a failed item. retained, when non-nil and permitted by the
// options, is kept in the output despite the failure. It reports whether
// iteration must stop.
func (c *itemCollector[U]) fail(index int, errs []Error, retained *U) bool {
	c.failed++
	c.errs = append(c.errs, errs...)
	if len(errs) > 0 {
		c.msgs = append(c.msgs, fmt.Sprintf("item %d failed: %s", index, errs[0].Message))
	} else {
		c.msgs = append(c.msgs, fmt.Sprintf("item %d failed", index))
	}
	if c.opts.includeFailedItems && retained != nil {
		c.out = append(c.out, *retained)
	}
	if c.opts.maxFailuresSet && c.failed > c.opts.maxFailures {
		c.stopped = true
		return true
	}
	if !c.opts.continueOnItemFailure {
		c.stopped = true
		return true
	}
	return false
}

// finish folds the pass into an Outcome. requireItems marks operations whose
// empty result from a non-empty source is itself a failure.
func (c *itemCollector[U]) finish(priorMessages []string, srcLen int, requireItems bool) Outcome[[]U] {
	messages := append(append([]string(nil), priorMessages...), c.msgs...)
	if c.stopped {
		return Failure[[]U](c.errs...).WithMessages(messages...)
	}
	if requireItems && srcLen > 0 && len(c.out) == 0 {
		errs := append(append([]Error(nil), c.errs...), NoItemsError())
		return Failure[[]U](errs...).WithMessages(messages...)
	}
	return Success(c.out).WithMessages(messages...)
}

// boundItem runs one per-item function inside a fault boundary.
func boundItem[T, U any](item T, fn func(T) ([]U, []Error)) (produced []U, errs []Error) {
	defer func() {
		if r := recover(); r != nil {
			produced = nil
			errs = []Error{faultFrom(r)}
		}
	}()
	return fn(item)
}

// FilterItems keeps the items for which pred is true. A faulting predicate is
// a per-item failure governed by opts. Filtering a non-empty source down to
// nothing is a failure.
func FilterItems[T any](o Outcome[[]T], pred func(T) bool, opts ProcessOptions) Outcome[[]T] {
	if o.IsFailure() {
		return o
	}
	items := o.value
	c := newItemCollector[T](opts)
	for i, item := range items {
		produced, errs := boundItem(item, func(it T) ([]T, []Error) {
			if pred(it) {
				return []T{it}, nil
			}
			return nil, nil
		})
		if len(errs) > 0 {
			retained := item
			if c.fail(i, errs, &retained) {
				break
			}
			continue
		}
		c.keep(produced...)
	}
	return c.finish(o.messages, len(items), true)
}

// MapItems transforms every item. A returned error or panic is a per-item
// failure governed by opts. The offending item cannot be retained in the
// output because the output type differs.
func MapItems[T, U any](o Outcome[[]T], fn func(T) (U, error), opts ProcessOptions) Outcome[[]U] {
	if o.IsFailure() {
		return failAs[[]U](o)
	}
	items := o.value
	c := newItemCollector[U](opts)
	for i, item := range items {
		produced, errs := boundItem(item, func(it T) ([]U, []Error) {
			u, err := fn(it)
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
		c.keep(produced...)
	}
	return c.finish(o.messages, len(items), true)
}

// ForEachItems runs fn against every item for its side effect. Successful
// items pass through to the output; failed items are dropped unless the
// options retain them.
func ForEachItems[T any](o Outcome[[]T], fn func(T) error, opts ProcessOptions) Outcome[[]T] {
	if o.IsFailure() {
		return o
	}
	items := o.value
	c := newItemCollector[T](opts)
	for i, item := range items {
		produced, errs := boundItem(item, func(it T) ([]T, []Error) {
			if err := fn(it); err != nil {
				return nil, []Error{WrapFault(err)}
			}
			return []T{it}, nil
		})
		if len(errs) > 0 {
			retained := item
			if c.fail(i, errs, &retained) {
				break
			}
			continue
		}
		c.keep(produced...)
	}
	return c.finish(o.messages, len(items), true)
}

// ValidateItems runs a structural validator against every item. A negative
// verdict is a per-item failure carrying a validation error record.
func ValidateItems[T any](o Outcome[[]T], v Validator[T], opts ProcessOptions) Outcome[[]T] {
	if o.IsFailure() {
		return o
	}
	items := o.value
	c := newItemCollector[T](opts)
	for i, item := range items {
		produced, errs := boundItem(item, func(it T) ([]T, []Error) {
			res := v.Validate(it)
			if !res.Valid {
				return nil, []Error{NewValidationError(res.Violations)}
			}
			return []T{it}, nil
		})
		if len(errs) > 0 {
			retained := item
			if c.fail(i, errs, &retained) {
				break
			}
			continue
		}
		c.keep(produced...)
	}
	return c.finish(o.messages, len(items), true)
}

// BindItems flat-maps every item to a sub-sequence through an Outcome-
// producing function. A failed sub-outcome is a per-item failure carrying its
// error records; a successful one contributes its items and messages.
func BindItems[T, U any](o Outcome[[]T], fn func(T) Outcome[[]U], opts ProcessOptions) Outcome[[]U] {
	if o.IsFailure() {
		return failAs[[]U](o)
	}
	items := o.value
	c := newItemCollector[U](opts)
	for i, item := range items {
		produced, errs := boundItem(item, func(it T) ([]U, []Error) {
			sub := fn(it)
			if sub.IsFailure() {
				return nil, sub.Errors()
			}
			c.msgs = append(c.msgs, sub.Messages()...)
			v, _ := sub.Value()
			return v, nil
		})
		if len(errs) > 0 {
			if c.fail(i, errs, nil) {
				break
			}
			continue
		}
		c.keep(produced...)
	}
	return c.finish(o.messages, len(items), true)
}

// TraverseItems maps every item through an Outcome-producing function,
// collecting one output per successful item.
func TraverseItems[T, U any](o Outcome[[]T], fn func(T) Outcome[U], opts ProcessOptions) Outcome[[]U] {
	return BindItems(o, func(it T) Outcome[[]U] {
		return Map(fn(it), func(u U) []U { return []U{u} })
	}, opts)
}

// SelectManyItems flat-maps every item to a plain sub-sequence. Only a panic
// in fn counts as a per-item failure.
func SelectManyItems[T, U any](o Outcome[[]T], fn func(T) []U, opts ProcessOptions) Outcome[[]U] {
	if o.IsFailure() {
		return failAs[[]U](o)
	}
	items := o.value
	c := newItemCollector[U](opts)
	for i, item := range items {
		produced, errs := boundItem(item, func(it T) ([]U, []Error) {
			return fn(it), nil
		})
		if len(errs) > 0 {
			if c.fail(i, errs, nil) {
				break
			}
			continue
		}
		c.keep(produced...)
	}
	return c.finish(o.messages, len(items), true)
}

// FlattenItems concatenates a sequence of sequences.
func FlattenItems[T any](o Outcome[[][]T]) Outcome[[]T] {
	return Map(o, func(groups [][]T) []T {
		var out []T
		for _, g := range groups {
			out = append(out, g...)
		}
		return out
	})
}

// ChunkItems splits the items into consecutive chunks of at most size items.
func ChunkItems[T any](o Outcome[[]T], size int) Outcome[[][]T] {
	if o.IsFailure() {
		return failAs[[][]T](o)
	}
	if size < 1 {
		return failAs[[][]T](o).WithError(Errorf("chunk size must be at least 1, got %d", size))
	}
	items := o.value
	var chunks [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, append([]T(nil), items[start:end]...))
	}
	return Success(chunks).WithMessages(o.messages...)
}

// DistinctByItems keeps the first occurrence of every key. A faulting key
// extractor is a per-item failure governed by opts.
func DistinctByItems[T any, K comparable](o Outcome[[]T], key func(T) K, opts ProcessOptions) Outcome[[]T] {
	if o.IsFailure() {
		return o
	}
	items := o.value
	seen := make(map[K]struct{}, len(items))
	c := newItemCollector[T](opts)
	for i, item := range items {
		produced, errs := boundItem(item, func(it T) ([]T, []Error) {
			k := key(it)
			if _, dup := seen[k]; dup {
				return nil, nil
			}
			seen[k] = struct{}{}
			return []T{it}, nil
		})
		if len(errs) > 0 {
			retained := item
			if c.fail(i, errs, &retained) {
				break
			}
			continue
		}
		c.keep(produced...)
	}
	return c.finish(o.messages, len(items), true)
}

// OrderByItems sorts the items ascending by the extracted key. A faulting key
// extractor is a per-item failure governed by opts; surviving items are
// sorted with a stable sort.
func OrderByItems[T any, K cmp.Ordered](o Outcome[[]T], key func(T) K, opts ProcessOptions) Outcome[[]T] {
	return orderItems(o, key, opts, false)
}

// OrderByItemsDescending sorts the items descending by the extracted key.
func OrderByItemsDescending[T any, K cmp.Ordered](o Outcome[[]T], key func(T) K, opts ProcessOptions) Outcome[[]T] {
	return orderItems(o, key, opts, true)
}

type keyedItem[T any, K cmp.Ordered] struct {
	item T
	key  K
}

func orderItems[T any, K cmp.Ordered](o Outcome[[]T], key func(T) K, opts ProcessOptions, descending bool) Outcome[[]T] {
	if o.IsFailure() {
		return o
	}
	items := o.value
	c := newItemCollector[keyedItem[T, K]](opts)
	for i, item := range items {
		produced, errs := boundItem(item, func(it T) ([]keyedItem[T, K], []Error) {
			return []keyedItem[T, K]{{item: it, key: key(it)}}, nil
		})
		if len(errs) > 0 {
			// A failed key extraction has no sort key, so the item cannot be
			// retained even when the options ask for it.
			if c.fail(i, errs, nil) {
				break
			}
			continue
		}
		c.keep(produced...)
	}
	keyed := c.finish(o.messages, len(items), true)
	return Map(keyed, func(ks []keyedItem[T, K]) []T {
		sort.SliceStable(ks, func(i, j int) bool {
			if descending {
				return ks[j].key < ks[i].key
			}
			return ks[i].key < ks[j].key
		})
		out := make([]T, len(ks))
		for i, k := range ks {
			out[i] = k.item
		}
		return out
	})
}

// AggregateItems folds the items into a single accumulator. A failed item
// leaves the accumulator untouched and is governed by opts.
func AggregateItems[T, A any](o Outcome[[]T], seed A, fn func(A, T) (A, error), opts ProcessOptions) Outcome[A] {
	if o.IsFailure() {
		return failAs[A](o)
	}
	items := o.value
	acc := seed
	c := newItemCollector[struct{}](opts)
	for i, item := range items {
		_, errs := boundItem(item, func(it T) ([]struct{}, []Error) {
			next, err := fn(acc, it)
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

// FirstItems returns the first per-item success, skipping failures per opts.
// It fails when no item produces a value or the failure policy aborts the
// scan.
func FirstItems[T, U any](o Outcome[[]T], fn func(T) (U, error), opts ProcessOptions) Outcome[U] {
	if o.IsFailure() {
		return failAs[U](o)
	}
	items := o.value
	c := newItemCollector[U](opts)
	for i, item := range items {
		produced, errs := boundItem(item, func(it T) ([]U, []Error) {
			u, err := fn(it)
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
