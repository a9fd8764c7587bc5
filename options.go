package outcome

// ProcessOptions controls partial-failure tolerance for the per-item
// collection combinators. The zero value continues past item failures, keeps
// no failed items, and has no failure ceiling; DefaultProcessOptions returns
// it. The WithX builders return new values; a ProcessOptions is never mutated
// in place.
type ProcessOptions struct {
	continueOnItemFailure bool
	maxFailures           int
	maxFailuresSet        bool
	includeFailedItems    bool
}

// DefaultProcessOptions returns the default per-item policy:
// continue-on-item-failure, no max-failures ceiling, failed items discarded.
func DefaultProcessOptions() ProcessOptions {
	return ProcessOptions{continueOnItemFailure: true}
}

// WithContinueOnItemFailure returns a copy with the continue flag set. When
// false, the first item failure aborts the whole collection operation.
func (p ProcessOptions) WithContinueOnItemFailure(cont bool) ProcessOptions {
	p.continueOnItemFailure = cont
	return p
}

// WithMaxFailures returns a copy with a failure ceiling. The collection
// result becomes a failure once the accumulated failure count strictly
// exceeds max.
func (p ProcessOptions) WithMaxFailures(max int) ProcessOptions {
	p.maxFailures = max
	p.maxFailuresSet = true
	return p
}

// WithoutMaxFailures returns a copy with no failure ceiling.
func (p ProcessOptions) WithoutMaxFailures() ProcessOptions {
	p.maxFailures = 0
	p.maxFailuresSet = false
	return p
}

// WithIncludeFailedItems returns a copy controlling whether an offending item
// is retained in the output despite its failure. Only same-type combinators
// (filter, validate, for-each) can honour this; type-changing combinators
// have no representable failed item.
func (p ProcessOptions) WithIncludeFailedItems(include bool) ProcessOptions {
	p.includeFailedItems = include
	return p
}

// ContinueOnItemFailure reports whether iteration continues past item
// failures.
func (p ProcessOptions) ContinueOnItemFailure() bool {
	return p.continueOnItemFailure
}

// MaxFailures returns the failure ceiling and whether one is set.
func (p ProcessOptions) MaxFailures() (int, bool) {
	return p.maxFailures, p.maxFailuresSet
}

// IncludeFailedItems reports whether offending items are retained in the
// output.
func (p ProcessOptions) IncludeFailedItems() bool {
	return p.includeFailedItems
}
