package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/kuesioner/internal/services"
)

func openTestStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := Open(context.Background(), path, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestRecordAndListRuns(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, store.RecordRun(ctx, &services.Run{ID: "a", Query: "q1", Source: "data.xlsx", Answer: "S|3|50.0", CreatedAt: base}))
	require.NoError(t, store.RecordRun(ctx, &services.Run{ID: "b", Query: "q2", Source: "data.xlsx", Error: "schema: no answers", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, store.RecordRun(ctx, &services.Run{ID: "c", Query: "q10", Source: "data.xlsx", Answer: "4.17", CreatedAt: base.Add(2 * time.Minute)}))

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "4.17", runs[0].Answer)
	assert.Equal(t, "b", runs[1].ID)
	assert.Equal(t, "schema: no answers", runs[1].Error)
	assert.Empty(t, runs[1].Answer)
	assert.True(t, runs[1].CreatedAt.Equal(base.Add(time.Minute)))

	all, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRecordRunRejectsDuplicateID(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()
	run := &services.Run{ID: "dup", Query: "q1", Source: "x.csv", Answer: "SS|1|100.0"}
	require.NoError(t, store.RecordRun(ctx, run))
	assert.Error(t, store.RecordRun(ctx, run))
	assert.Error(t, store.RecordRun(ctx, nil))
}

func TestMigrationsAreIdempotent(t *testing.T) {
	store, path := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.RecordRun(ctx, &services.Run{ID: "keep", Query: "q3", Source: "x.csv"}))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path, "")
	require.NoError(t, err)
	defer reopened.Close()
	runs, err := reopened.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "keep", runs[0].ID)

	var applied int
	require.NoError(t, reopened.db.QueryRow(`SELECT COUNT(1) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 1, applied)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "", "")
	assert.Error(t, err)
}
