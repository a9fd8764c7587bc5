package outcome

// DefaultPageSize is used when a page is constructed with a non-positive
// page size.
const DefaultPageSize = 10

// Paged is an Outcome specialised to one page of a larger sequence. The
// pagination metadata is independent of success or failure: a failed page
// still reports the page context it failed on.
type Paged[T any] struct {
	outcome    Outcome[[]T]
	page       int
	pageSize   int
	totalCount int
}

// NewPage creates a successful page. page is clamped to ≥1, pageSize to ≥1
// (non-positive values fall back to DefaultPageSize), totalCount to ≥0.
func NewPage[T any](items []T, page, pageSize, totalCount int) Paged[T] {
	return Paged[T]{
		outcome:    Success(append([]T(nil), items...)),
		page:       clampPage(page),
		pageSize:   clampPageSize(pageSize),
		totalCount: clampTotal(totalCount),
	}
}

// FailedPage creates a failed page that still carries its pagination context.
func FailedPage[T any](page, pageSize, totalCount int, errs ...Error) Paged[T] {
	return Paged[T]{
		outcome:    Failure[[]T](errs...),
		page:       clampPage(page),
		pageSize:   clampPageSize(pageSize),
		totalCount: clampTotal(totalCount),
	}
}

// PageOf wraps an existing Outcome over a slice with pagination metadata.
func PageOf[T any](o Outcome[[]T], page, pageSize, totalCount int) Paged[T] {
	return Paged[T]{
		outcome:    o,
		page:       clampPage(page),
		pageSize:   clampPageSize(pageSize),
		totalCount: clampTotal(totalCount),
	}
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func clampPageSize(size int) int {
	if size < 1 {
		return DefaultPageSize
	}
	return size
}

func clampTotal(total int) int {
	if total < 0 {
		return 0
	}
	return total
}

// Outcome returns the underlying Outcome over the page's items.
func (p Paged[T]) Outcome() Outcome[[]T] {
	return p.outcome
}

// IsSuccess reports whether the page's Outcome is a success.
func (p Paged[T]) IsSuccess() bool {
	return p.outcome.IsSuccess()
}

// IsFailure reports whether the page's Outcome is failed.
func (p Paged[T]) IsFailure() bool {
	return p.outcome.IsFailure()
}

// Items returns the page's items and true on success.
func (p Paged[T]) Items() ([]T, bool) {
	return p.outcome.Value()
}

// Errors returns the attached error records.
func (p Paged[T]) Errors() []Error {
	return p.outcome.Errors()
}

// Messages returns the informational messages.
func (p Paged[T]) Messages() []string {
	return p.outcome.Messages()
}

// Page returns the current page number (≥1).
func (p Paged[T]) Page() int {
	return p.page
}

// PageSize returns the page size (≥1).
func (p Paged[T]) PageSize() int {
	return p.pageSize
}

// TotalCount returns the total item count across all pages.
func (p Paged[T]) TotalCount() int {
	return p.totalCount
}

// TotalPages returns ceil(totalCount / pageSize).
func (p Paged[T]) TotalPages() int {
	return (p.totalCount + p.pageSize - 1) / p.pageSize
}

// HasPreviousPage reports whether a page precedes the current one.
func (p Paged[T]) HasPreviousPage() bool {
	return p.page > 1
}

// HasNextPage reports whether a page follows the current one.
func (p Paged[T]) HasNextPage() bool {
	return p.page < p.TotalPages()
}

// WithMessage returns a copy with message appended to the underlying Outcome.
func (p Paged[T]) WithMessage(message string) Paged[T] {
	p.outcome = p.outcome.WithMessage(message)
	return p
}

// WithError returns a failed copy with e appended.
func (p Paged[T]) WithError(e Error) Paged[T] {
	p.outcome = p.outcome.WithError(e)
	return p
}

// OnPage applies an Outcome-level transformation to a page's items while
// preserving its pagination metadata. It is the bridge that lets every
// per-item combinator operate on a Paged value:
//
//	squared := outcome.OnPage(page, func(o outcome.Outcome[[]int]) outcome.Outcome[[]int] {
//		return outcome.MapItems(o, square, opts)
//	})
func OnPage[T, U any](p Paged[T], fn func(Outcome[[]T]) Outcome[[]U]) Paged[U] {
	return Paged[U]{
		outcome:    fn(p.outcome),
		page:       p.page,
		pageSize:   p.pageSize,
		totalCount: p.totalCount,
	}
}

// MapPage maps every item on the page, preserving pagination metadata.
func MapPage[T, U any](p Paged[T], fn func(T) (U, error), opts ProcessOptions) Paged[U] {
	return OnPage(p, func(o Outcome[[]T]) Outcome[[]U] {
		return MapItems(o, fn, opts)
	})
}

// FlattenPages merges several pages into one. Items are concatenated from the
// successful members; diagnostics are accumulated from every member. The
// total count is the sum of every successful member's total, while page and
// page size are taken from the first member only. Summing totals against the
// first member's page window is a questionable aggregate view, but callers
// depend on the historical behaviour, so it is preserved as-is.
func FlattenPages[T any](pages ...Paged[T]) Paged[T] {
	if len(pages) == 0 {
		return NewPage[T](nil, 1, DefaultPageSize, 0)
	}

	var (
		items    []T
		errs     []Error
		messages []string
		total    int
		anyOK    bool
	)
	for _, p := range pages {
		messages = append(messages, p.Messages()...)
		if p.IsFailure() {
			errs = append(errs, p.Errors()...)
			continue
		}
		anyOK = true
		total += p.TotalCount()
		if pageItems, ok := p.Items(); ok {
			items = append(items, pageItems...)
		}
	}

	first := pages[0]
	var o Outcome[[]T]
	if anyOK {
		o = Success(items).WithMessages(messages...)
		// Failed members become diagnostics on the merged page, not errors: a
		// success never carries error records.
		for _, e := range errs {
			o = o.WithMessage("dropped failed page: " + e.Message)
		}
	} else {
		o = Failure[[]T](errs...).WithMessages(messages...)
	}
	return PageOf(o, first.Page(), first.PageSize(), total)
}
