package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videoforge/videoforge/pkg/models"
)

func TestMemoryStoreCreateAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	job := &models.Job{
		Topic:  "volcano formation",
		Status: models.JobStatusQueued,
		Config: models.RenderConfig{Recipe: "news"},
	}
	require.NoError(t, store.Create(ctx, job))
	assert.NotEmpty(t, job.ID, "Create assigns an ID")
	assert.False(t, job.CreatedAt.IsZero())

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "volcano formation", got.Topic)
	assert.Equal(t, models.JobStatusQueued, got.Status)
}

func TestMemoryStoreGetNotFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreUpdate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	job := &models.Job{Topic: "topic", Status: models.JobStatusQueued}
	require.NoError(t, store.Create(ctx, job))

	job.Status = models.JobStatusCompleted
	job.OutputPath = "renders/out.mp4"
	require.NoError(t, store.Update(ctx, job))

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, got.Status)
	assert.Equal(t, "renders/out.mp4", got.OutputPath)
}

func TestMemoryStoreUpdateNotFound(t *testing.T) {
	store := NewMemoryStore()

	err := store.Update(context.Background(), &models.Job{ID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	job := &models.Job{Topic: "original"}
	require.NoError(t, store.Create(ctx, job))

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	got.Topic = "mutated"

	again, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Topic)
}

func TestMemoryStoreList(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, topic := range []string{"first", "second", "third"} {
		require.NoError(t, store.Create(ctx, &models.Job{Topic: topic}))
		time.Sleep(time.Millisecond)
	}

	all, err := store.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Topic, "newest first")

	page, err := store.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := store.List(ctx, 10, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "first", rest[0].Topic)

	empty, err := store.List(ctx, 10, 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryStoreSetProgress(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	job := &models.Job{Topic: "topic"}
	require.NoError(t, store.Create(ctx, job))

	require.NoError(t, store.SetProgress(ctx, job.ID, 40, "assets ready"))

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, got.Progress)
	assert.Equal(t, "assets ready", got.Message)

	assert.ErrorIs(t, store.SetProgress(ctx, "missing", 50, ""), ErrNotFound)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	job := &models.Job{Topic: "contended"}
	require.NoError(t, store.Create(ctx, job))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.SetProgress(ctx, job.ID, n, "working")
		}(i)
		go func() {
			defer wg.Done()
			_, _ = store.Get(ctx, job.ID)
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "working", got.Message)
}
