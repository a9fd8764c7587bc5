package outcome

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport(id string) SagaReport {
	return SagaReport{
		SagaID:            id,
		Name:              "process-order",
		Status:            StatusRolledBack,
		CompensationCount: 3,
		ExecutedCount:     3,
		RollbackErrors:    []string{"compensation refund-payment: gateway timeout"},
		Events:            []string{"rollback_started"},
		CreatedAt:         time.Now().UTC().Truncate(time.Second),
	}
}

func TestMemoryReportStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryReportStore()
	id := NewSagaID().String()

	_, err := store.Load(ctx, id)
	require.Error(t, err, "loading an unknown saga fails")

	saved := sampleReport(id)
	require.NoError(t, store.Save(ctx, id, saved))

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, saved.SagaID, loaded.SagaID)
	assert.Equal(t, saved.Status, loaded.Status)
	assert.Equal(t, saved.RollbackErrors, loaded.RollbackErrors)
	assert.False(t, loaded.UpdatedAt.IsZero(), "save stamps the update time")

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Load(ctx, id)
	assert.Error(t, err)

	assert.NoError(t, store.Delete(ctx, id), "deleting twice is not an error")
}

func TestFileReportStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewFileReportStore(filepath.Join(dir, "reports"))
	require.NoError(t, err)

	id := NewSagaID().String()
	saved := sampleReport(id)
	require.NoError(t, store.Save(ctx, id, saved))

	if _, statErr := os.Stat(filepath.Join(dir, "reports", id+".json")); statErr != nil {
		t.Fatalf("expected report file on disk: %v", statErr)
	}

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, saved.SagaID, loaded.SagaID)
	assert.Equal(t, saved.Name, loaded.Name)
	assert.Equal(t, saved.CompensationCount, loaded.CompensationCount)
	assert.Equal(t, saved.Events, loaded.Events)
	assert.True(t, saved.CreatedAt.Equal(loaded.CreatedAt))

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Load(ctx, id)
	assert.Error(t, err)
	assert.NoError(t, store.Delete(ctx, id))
}

func TestFileReportStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileReportStore(t.TempDir())
	require.NoError(t, err)

	id := NewSagaID().String()
	first := sampleReport(id)
	first.Status = StatusOpen
	require.NoError(t, store.Save(ctx, id, first))

	second := sampleReport(id)
	require.NoError(t, store.Save(ctx, id, second))

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusRolledBack, loaded.Status, "the later save wins")
}
