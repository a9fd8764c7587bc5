package outcome

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SagaID represents a unique identifier for a Saga.
type SagaID struct {
	UUID uuid.UUID
}

// NewSagaID creates a random SagaID.
func NewSagaID() SagaID {
	return SagaID{UUID: uuid.New()}
}

// String returns the string representation of the SagaID.
func (s SagaID) String() string {
	return s.UUID.String()
}

// Compensation is a registered reversal action for one completed workflow
// step.
type Compensation func(ctx context.Context) error

// SagaEventType defines the audit events recorded by a Saga.
type SagaEventType int

const (
	EventCompensationRegistered SagaEventType = iota
	EventCommitted
	EventRollbackStarted
	EventCompensationSucceeded
	EventCompensationFailed
)

// String returns the string representation of the SagaEventType.
func (t SagaEventType) String() string {
	switch t {
	case EventCompensationRegistered:
		return "compensation_registered"
	case EventCommitted:
		return "committed"
	case EventRollbackStarted:
		return "rollback_started"
	case EventCompensationSucceeded:
		return "compensation_succeeded"
	case EventCompensationFailed:
		return "compensation_failed"
	default:
		return fmt.Sprintf("Unknown SagaEventType: %d", int(t))
	}
}

// SagaEvent is one entry in a Saga's audit trail.
type SagaEvent struct {
	Type SagaEventType
	Name string
	Err  error
}

// String implements the fmt.Stringer interface for SagaEvent.
func (e SagaEvent) String() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Type, e.Name, e.Err)
	}
	if e.Name == "" {
		return e.Type.String()
	}
	return fmt.Sprintf("%s %s", e.Type, e.Name)
}

type namedCompensation struct {
	name string
	fn   Compensation
}

// Saga is a compensation stack implementing the Resource contract. Each
// completed workflow step registers a reversal action; Rollback executes the
// registered actions in reverse order, best-effort: a failed reversal is
// recorded and never blocks the remaining reversals, because maximising
// partial cleanup beats abandoning rollback entirely. LIFO order matters —
// later steps may depend on state created by earlier ones, so undoing
// proceeds innermost-first.
//
// A Saga is driven by a single logical caller as each workflow step
// completes; it is not safe for concurrent registration.
type Saga struct {
	id      SagaID
	pending []namedCompensation

	// highWater is the largest pending-list size ever reached. Commit clears
	// the list but the mark is retained for audit.
	highWater    int
	executed     int
	rollbackErrs []error
	committed    bool
	rolledBack   bool
	events       []SagaEvent
	createdAt    time.Time
}

// NewSaga creates an empty compensation stack with a fresh SagaID.
func NewSaga() *Saga {
	return &Saga{id: NewSagaID(), createdAt: time.Now()}
}

// ID returns the saga's identifier.
func (s *Saga) ID() SagaID {
	return s.id
}

// RegisterCompensation appends a reversal action for a completed step.
// Ordering is registration order.
func (s *Saga) RegisterCompensation(name string, fn Compensation) {
	s.pending = append(s.pending, namedCompensation{name: name, fn: fn})
	if len(s.pending) > s.highWater {
		s.highWater = len(s.pending)
	}
	s.events = append(s.events, SagaEvent{Type: EventCompensationRegistered, Name: name})
}

// PendingCount returns the number of reversal actions currently registered.
func (s *Saga) PendingCount() int {
	return len(s.pending)
}

// CompensationCount returns the high-water mark of registered reversal
// actions. It survives Commit even though the pending list is cleared.
func (s *Saga) CompensationCount() int {
	return s.highWater
}

// CompensationExecutedCount returns the number of reversal attempts made
// during rollback, counting faulted attempts.
func (s *Saga) CompensationExecutedCount() int {
	return s.executed
}

// RollbackErrors returns the faults captured during rollback.
func (s *Saga) RollbackErrors() []error {
	return append([]error(nil), s.rollbackErrs...)
}

// Committed reports whether the saga concluded by commit.
func (s *Saga) Committed() bool {
	return s.committed
}

// RolledBack reports whether the saga concluded by rollback.
func (s *Saga) RolledBack() bool {
	return s.rolledBack
}

// Events returns a copy of the audit trail.
func (s *Saga) Events() []SagaEvent {
	return append([]SagaEvent(nil), s.events...)
}

// Commit implements the Resource contract. It discards the pending reversal
// actions — the work they would undo is now permanent — while retaining the
// high-water mark for audit.
func (s *Saga) Commit(ctx context.Context) error {
	if s.rolledBack {
		return fmt.Errorf("saga %s already rolled back", s.id)
	}
	if s.committed {
		return fmt.Errorf("saga %s already committed", s.id)
	}
	s.committed = true
	s.pending = nil
	s.events = append(s.events, SagaEvent{Type: EventCommitted})
	return nil
}

// Rollback implements the Resource contract. It executes the pending
// reversal actions from last-registered to first. Every action runs inside a
// fault boundary; a fault (including a cancellation observed by the action)
// is recorded and the remaining reversals still run. The returned error
// aggregates the captured faults, or is nil when every reversal succeeded.
func (s *Saga) Rollback(ctx context.Context) error {
	if s.committed {
		return fmt.Errorf("saga %s already committed", s.id)
	}
	if s.rolledBack {
		return fmt.Errorf("saga %s already rolled back", s.id)
	}
	s.rolledBack = true
	s.events = append(s.events, SagaEvent{Type: EventRollbackStarted})

	for i := len(s.pending) - 1; i >= 0; i-- {
		comp := s.pending[i]
		err := runCompensation(ctx, comp.fn)
		s.executed++
		if err != nil {
			s.rollbackErrs = append(s.rollbackErrs, fmt.Errorf("compensation %s: %w", comp.name, err))
			s.events = append(s.events, SagaEvent{Type: EventCompensationFailed, Name: comp.name, Err: err})
			continue
		}
		s.events = append(s.events, SagaEvent{Type: EventCompensationSucceeded, Name: comp.name})
	}
	s.pending = nil

	return errors.Join(s.rollbackErrs...)
}

// runCompensation executes one reversal action, converting a panic into an
// error so a faulted reversal never blocks the next one.
func runCompensation(ctx context.Context, fn Compensation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = faultFrom(r)
		}
	}()
	return fn(ctx)
}

// Report builds an audit report of the saga's conclusion for persistence.
func (s *Saga) Report() SagaReport {
	status := StatusOpen
	switch {
	case s.committed:
		status = StatusCommitted
	case s.rolledBack:
		status = StatusRolledBack
	}

	rollbackErrs := make([]string, len(s.rollbackErrs))
	for i, err := range s.rollbackErrs {
		rollbackErrs[i] = err.Error()
	}
	events := make([]string, len(s.events))
	for i, e := range s.events {
		events[i] = e.String()
	}

	return SagaReport{
		SagaID:            s.id.String(),
		Status:            status,
		CompensationCount: s.highWater,
		ExecutedCount:     s.executed,
		RollbackErrors:    rollbackErrs,
		Events:            events,
		CreatedAt:         s.createdAt,
	}
}
