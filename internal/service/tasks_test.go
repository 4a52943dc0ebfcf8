package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"styleforge/internal/models"
)

func TestRegistryLifecycle(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(nil, nil)

	task := reg.Create(ctx, models.TaskKindAnalysis)
	require.NotEmpty(t, task.ID)

	rec, err := reg.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatePending, rec.State)
	assert.Equal(t, models.TaskKindAnalysis, rec.Kind)

	require.NoError(t, reg.MarkRunning(ctx, task))
	rec, _ = reg.Get(task.ID)
	assert.Equal(t, models.TaskStateRunning, rec.State)
	assert.False(t, rec.UpdatedAt.Before(rec.CreatedAt))

	require.NoError(t, reg.Complete(ctx, task, "artifact:abc"))
	rec, _ = reg.Get(task.ID)
	assert.Equal(t, models.TaskStateCompleted, rec.State)
	require.NotNil(t, rec.ResultRef)
	assert.Equal(t, "artifact:abc", *rec.ResultRef)
}

func TestRegistryTerminalStatesAreFinal(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(nil, nil)

	task := reg.Create(ctx, models.TaskKindGeneration)
	require.NoError(t, reg.MarkRunning(ctx, task))
	require.NoError(t, reg.Complete(ctx, task, "artifact:abc"))

	// Completed tasks admit no further transitions.
	err := reg.Fail(ctx, task, models.TaskError{Kind: "model_error", Message: "late failure"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	err = reg.MarkRunning(ctx, task)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	// State and result survive the rejected transitions.
	rec, _ := reg.Get(task.ID)
	assert.Equal(t, models.TaskStateCompleted, rec.State)
	require.NotNil(t, rec.ResultRef)
	assert.Nil(t, rec.Error)
}

func TestRegistryPendingCannotComplete(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(nil, nil)

	task := reg.Create(ctx, models.TaskKindAnalysis)
	err := reg.Complete(ctx, task, "artifact:abc")
	assert.True(t, errors.Is(err, ErrInvalidTransition), "pending task must pass through running")
}

func TestRegistryPendingCanFail(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(nil, nil)

	task := reg.Create(ctx, models.TaskKindRefinement)
	require.NoError(t, reg.Fail(ctx, task, models.TaskError{Kind: "storage_error", Message: "never started"}))

	rec, _ := reg.Get(task.ID)
	assert.Equal(t, models.TaskStateFailed, rec.State)
	require.NotNil(t, rec.Error)
	assert.Equal(t, "never started", rec.Error.Message)
}

func TestRegistryGetUnknown(t *testing.T) {
	reg := NewRegistry(nil, nil)
	_, err := reg.Get("nope")
	assert.True(t, errors.Is(err, ErrTaskNotFound))
}

func TestRegistryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(nil, nil)

	for i := 0; i < 3; i++ {
		reg.Create(ctx, models.TaskKindAnalysis)
	}

	records := reg.List()
	require.Len(t, records, 3)
	for i := 1; i < len(records); i++ {
		assert.False(t, records[i-1].CreatedAt.Before(records[i].CreatedAt))
	}
}

// failingTaskStore errors on every task write.
type failingTaskStore struct {
	*fakeStore
}

func (f *failingTaskStore) QueryUpsertTask(_ context.Context, _ *models.TaskRecord) error {
	return errors.New("db unavailable")
}

func TestRegistryPersistenceIsBestEffort(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(&failingTaskStore{fakeStore: newFakeStore()}, nil)

	task := reg.Create(ctx, models.TaskKindGeneration)
	require.NoError(t, reg.MarkRunning(ctx, task))
	require.NoError(t, reg.Complete(ctx, task, "artifact:x"), "store failures must not block transitions")

	rec, err := reg.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStateCompleted, rec.State)
}

func TestRegistryConcurrentTransitions(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(nil, nil)

	task := reg.Create(ctx, models.TaskKindAnalysis)
	require.NoError(t, reg.MarkRunning(ctx, task))

	// Exactly one of many racing completions may win.
	var wg sync.WaitGroup
	var successes int32
	var mu sync.Mutex
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := reg.Complete(ctx, task, "artifact:winner"); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes)
}
