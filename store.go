package outcome

import (
	"context"
	"fmt"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// ReportStore defines the interface for persisting saga audit reports. A
// report describes a concluded (or still open) saga for inspection; it is not
// a resumable execution log.
type ReportStore interface {
	// Save persists the report under the given saga ID.
	Save(ctx context.Context, sagaID string, report SagaReport) error

	// Load retrieves a report by saga ID.
	Load(ctx context.Context, sagaID string) (*SagaReport, error)

	// Delete removes a report.
	Delete(ctx context.Context, sagaID string) error
}

// SagaReport is the audit record of one saga.
type SagaReport struct {
	SagaID            string    `json:"saga_id"`
	Name              string    `json:"name,omitempty"`
	Status            string    `json:"status"`
	CompensationCount int       `json:"compensation_count"`
	ExecutedCount     int       `json:"executed_count"`
	RollbackErrors    []string  `json:"rollback_errors,omitempty"`
	Events            []string  `json:"events,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Saga report status constants.
const (
	StatusOpen       = "open"
	StatusCommitted  = "committed"
	StatusRolledBack = "rolled_back"
)

// MemoryReportStore provides an in-memory implementation of ReportStore for
// testing or scenarios where persistence is not required. It is safe for
// concurrent use.
type MemoryReportStore struct {
	reports *xsync.MapOf[string, SagaReport]
}

// NewMemoryReportStore creates a new in-memory report store.
func NewMemoryReportStore() *MemoryReportStore {
	return &MemoryReportStore{
		reports: xsync.NewMapOf[string, SagaReport](),
	}
}

// Save stores the report in memory.
func (m *MemoryReportStore) Save(ctx context.Context, sagaID string, report SagaReport) error {
	report.UpdatedAt = time.Now()
	m.reports.Store(sagaID, report)
	return nil
}

// Load retrieves the report from memory.
func (m *MemoryReportStore) Load(ctx context.Context, sagaID string) (*SagaReport, error) {
	report, ok := m.reports.Load(sagaID)
	if !ok {
		return nil, fmt.Errorf("saga %s not found", sagaID)
	}
	return &report, nil
}

// Delete removes the report from memory.
func (m *MemoryReportStore) Delete(ctx context.Context, sagaID string) error {
	m.reports.Delete(sagaID)
	return nil
}
