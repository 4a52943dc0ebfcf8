package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"styleforge/internal/models"
)

// ErrInvalidTransition indicates an attempt to move a task out of a terminal
// state or skip the running state. The registry refuses the transition and
// keeps the existing state; callers treat this as non-fatal.
var ErrInvalidTransition = errors.New("invalid task state transition")

// ErrTaskNotFound indicates the task ID is unknown to the registry.
var ErrTaskNotFound = errors.New("task not found")

// Task is the in-memory representation of a background task. The registry
// is authoritative; the database copy is best-effort.
type Task struct {
	ID        string
	Kind      models.TaskKind
	State     models.TaskState
	ResultRef *string
	Error     *models.TaskError
	CreatedAt time.Time
	UpdatedAt time.Time

	mu sync.RWMutex
}

// Snapshot returns a thread-safe copy of task state.
func (t *Task) Snapshot() models.TaskRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.record()
}

// record builds the persisted form. Caller must hold at least a read lock.
func (t *Task) record() models.TaskRecord {
	return models.TaskRecord{
		ID:        t.ID,
		Kind:      t.Kind,
		State:     t.State,
		ResultRef: t.ResultRef,
		Error:     t.Error,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// Registry tracks background tasks in memory and mirrors every state change
// to the store. A store failure is logged, never surfaced: task execution
// must not depend on persistence being available.
type Registry struct {
	tasks  map[string]*Task
	mu     sync.RWMutex
	store  Store
	logger *slog.Logger
}

// NewRegistry creates a task registry. The store may be nil.
func NewRegistry(store Store, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		tasks:  make(map[string]*Task),
		store:  store,
		logger: logger,
	}
}

// Create registers a new pending task.
func (r *Registry) Create(ctx context.Context, kind models.TaskKind) *Task {
	now := time.Now().UTC()
	task := &Task{
		ID:        uuid.New().String()[:8], // Short ID for convenience
		Kind:      kind,
		State:     models.TaskStatePending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	r.tasks[task.ID] = task
	r.mu.Unlock()

	r.persist(ctx, task)
	r.logger.Info("task created", "task_id", task.ID, "kind", kind)
	return task
}

// Get returns a snapshot of the task with the given ID.
func (r *Registry) Get(id string) (models.TaskRecord, error) {
	r.mu.RLock()
	task, ok := r.tasks[id]
	r.mu.RUnlock()

	if !ok {
		return models.TaskRecord{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return task.Snapshot(), nil
}

// List returns snapshots of all tasks, most recent first.
func (r *Registry) List() []models.TaskRecord {
	r.mu.RLock()
	records := make([]models.TaskRecord, 0, len(r.tasks))
	for _, task := range r.tasks {
		records = append(records, task.Snapshot())
	}
	r.mu.RUnlock()

	slices.SortFunc(records, func(a, b models.TaskRecord) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return records
}

// MarkRunning transitions a task from pending to running.
func (r *Registry) MarkRunning(ctx context.Context, task *Task) error {
	return r.transition(ctx, task, models.TaskStateRunning, nil, nil)
}

// Complete transitions a task to completed with a reference to its result.
func (r *Registry) Complete(ctx context.Context, task *Task, resultRef string) error {
	err := r.transition(ctx, task, models.TaskStateCompleted, &resultRef, nil)
	if err == nil {
		r.logger.Info("task completed", "task_id", task.ID, "result", resultRef)
	}
	return err
}

// Fail transitions a task to failed with a structured error.
func (r *Registry) Fail(ctx context.Context, task *Task, taskErr models.TaskError) error {
	err := r.transition(ctx, task, models.TaskStateFailed, nil, &taskErr)
	if err == nil {
		r.logger.Error("task failed", "task_id", task.ID, "error_kind", taskErr.Kind, "error", taskErr.Message)
	}
	return err
}

// validTransition encodes the monotonic lifecycle:
// pending -> running -> completed | failed. A pending task may also fail
// directly when it never gets to start.
func validTransition(from, to models.TaskState) bool {
	switch from {
	case models.TaskStatePending:
		return to == models.TaskStateRunning || to == models.TaskStateFailed
	case models.TaskStateRunning:
		return to == models.TaskStateCompleted || to == models.TaskStateFailed
	default:
		return false
	}
}

func (r *Registry) transition(ctx context.Context, task *Task, to models.TaskState, resultRef *string, taskErr *models.TaskError) error {
	task.mu.Lock()
	if !validTransition(task.State, to) {
		from := task.State
		task.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s (task %s)", ErrInvalidTransition, from, to, task.ID)
	}
	task.State = to
	task.ResultRef = resultRef
	task.Error = taskErr
	task.UpdatedAt = time.Now().UTC()
	task.mu.Unlock()

	r.persist(ctx, task)
	return nil
}

// persist mirrors the task to the store, best-effort.
func (r *Registry) persist(ctx context.Context, task *Task) {
	if r.store == nil {
		return
	}
	rec := task.Snapshot()
	if err := r.store.QueryUpsertTask(ctx, &rec); err != nil {
		r.logger.Warn("failed to persist task", "task_id", task.ID, "error", err)
	}
}
