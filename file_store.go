package outcome

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileReportStore provides a file-based implementation of ReportStore that
// persists saga reports as JSON files on disk.
type FileReportStore struct {
	basePath string
	mu       sync.Mutex // Protects file operations
}

// NewFileReportStore creates a new file-based store that saves saga reports
// to the specified directory.
func NewFileReportStore(basePath string) (*FileReportStore, error) {
	// Ensure the base directory exists
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &FileReportStore{
		basePath: basePath,
	}, nil
}

// Save persists the saga report to a JSON file.
func (f *FileReportStore) Save(ctx context.Context, sagaID string, report SagaReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	report.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	filename := f.filename(sagaID)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	return nil
}

// Load retrieves the saga report from a JSON file.
func (f *FileReportStore) Load(ctx context.Context, sagaID string) (*SagaReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	filename := f.filename(sagaID)
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("saga %s not found", sagaID)
		}
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}

	var report SagaReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	return &report, nil
}

// Delete removes the saga report file.
func (f *FileReportStore) Delete(ctx context.Context, sagaID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	filename := f.filename(sagaID)
	if err := os.Remove(filename); err != nil {
		if os.IsNotExist(err) {
			// Already deleted, not an error
			return nil
		}
		return fmt.Errorf("failed to delete report file: %w", err)
	}

	return nil
}

// filename returns the full path for a saga's report file.
func (f *FileReportStore) filename(sagaID string) string {
	return filepath.Join(f.basePath, sagaID+".json")
}
