package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talkinghead/internal/domain/job"
)

func newTestJobStore(t *testing.T) *JobStore {
	t.Helper()
	conn, err := Open("sqlite", ":memory:")
	require.NoError(t, err)
	return NewJobStore(conn)
}

func insertAt(t *testing.T, store *JobStore, id string, status job.Status, createdAt time.Time) {
	t.Helper()
	err := store.Insert(context.Background(), &job.Job{
		ID:        id,
		ModelID:   "m1",
		VoiceID:   "v1",
		Status:    status,
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
}

func TestJobStoreRoundTrip(t *testing.T) {
	store := newTestJobStore(t)
	ctx := context.Background()

	err := store.Insert(ctx, &job.Job{
		ID:         "j1",
		ModelID:    "m1",
		VoiceID:    "v1",
		ScriptText: "Hello",
		Status:     job.StatusDraft,
	})
	require.NoError(t, err)

	got, err := store.GetByID(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.ScriptText)
	assert.Equal(t, job.StatusDraft, got.Status)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, job.ErrNotFound)
}

func TestListByStatusOrdersByCreation(t *testing.T) {
	store := newTestJobStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	insertAt(t, store, "late", job.StatusWaiting, base.Add(2*time.Minute))
	insertAt(t, store, "early", job.StatusWaiting, base)
	insertAt(t, store, "mid", job.StatusWaiting, base.Add(time.Minute))
	insertAt(t, store, "other", job.StatusDraft, base)

	listed, err := store.ListByStatus(ctx, job.StatusWaiting)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "early", listed[0].ID)
	assert.Equal(t, "mid", listed[1].ID)
	assert.Equal(t, "late", listed[2].ID)
}

func TestFindFirstByStatus(t *testing.T) {
	store := newTestJobStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	first, err := store.FindFirstByStatus(ctx, job.StatusWaiting)
	require.NoError(t, err)
	assert.Nil(t, first, "empty bucket returns nil without error")

	insertAt(t, store, "b", job.StatusWaiting, base.Add(time.Minute))
	insertAt(t, store, "a", job.StatusWaiting, base)

	first, err = store.FindFirstByStatus(ctx, job.StatusWaiting)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "a", first.ID)
}

func TestUpdateMergesOnlyNamedFields(t *testing.T) {
	store := newTestJobStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, &job.Job{
		ID:           "j1",
		ModelID:      "m1",
		VoiceID:      "v1",
		ScriptText:   "Hello",
		Status:       job.StatusPending,
		RemoteHandle: "h1",
		AudioPath:    "/audio/a1.wav",
		Progress:     40,
		Message:      "rendering",
	}))

	status := job.StatusWaiting
	progress := 0
	handle := ""
	err := store.Update(ctx, "j1", job.Patch{
		Status:       &status,
		Progress:     &progress,
		RemoteHandle: &handle,
	})
	require.NoError(t, err)

	got, err := store.GetByID(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, job.StatusWaiting, got.Status)
	assert.Zero(t, got.Progress, "explicit zero values must be written")
	assert.Empty(t, got.RemoteHandle)
	assert.Equal(t, "/audio/a1.wav", got.AudioPath, "unnamed fields stay untouched")
	assert.Equal(t, "rendering", got.Message)
	assert.Equal(t, "Hello", got.ScriptText)

	assert.ErrorIs(t, store.Update(ctx, "missing", job.Patch{Status: &status}), job.ErrNotFound)
	assert.NoError(t, store.Update(ctx, "j1", job.Patch{}), "empty patch is a no-op")
}

func TestRemove(t *testing.T) {
	store := newTestJobStore(t)
	ctx := context.Background()
	insertAt(t, store, "j1", job.StatusDraft, time.Now())

	require.NoError(t, store.Remove(ctx, "j1"))
	assert.ErrorIs(t, store.Remove(ctx, "j1"), job.ErrNotFound)
}

func TestCountByStatus(t *testing.T) {
	store := newTestJobStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	insertAt(t, store, "a", job.StatusWaiting, base)
	insertAt(t, store, "b", job.StatusWaiting, base.Add(time.Second))
	insertAt(t, store, "c", job.StatusCompleted, base)

	counts, err := store.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[job.StatusWaiting])
	assert.Equal(t, int64(1), counts[job.StatusCompleted])
	assert.Zero(t, counts[job.StatusPending])
}

func TestRemoveTerminalBefore(t *testing.T) {
	store := newTestJobStore(t)
	ctx := context.Background()
	base := time.Now()

	insertAt(t, store, "old-failed", job.StatusFailed, base)
	insertAt(t, store, "old-pending", job.StatusPending, base)
	insertAt(t, store, "fresh-done", job.StatusCompleted, base)

	// Age the terminal rows past the cutoff.
	aged := base.Add(-72 * time.Hour)
	require.NoError(t, store.db.Model(&job.Job{}).
		Where("id IN ?", []string{"old-failed", "old-pending"}).
		Update("updated_at", aged).Error)

	removed, err := store.RemoveTerminalBefore(ctx, base.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = store.GetByID(ctx, "old-failed")
	assert.ErrorIs(t, err, job.ErrNotFound)
	_, err = store.GetByID(ctx, "old-pending")
	assert.NoError(t, err, "active jobs survive the purge")
	_, err = store.GetByID(ctx, "fresh-done")
	assert.NoError(t, err, "recent terminal jobs survive the purge")
}
