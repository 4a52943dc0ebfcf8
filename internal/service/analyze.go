package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"styleforge/internal/analysis"
	"styleforge/internal/db"
	"styleforge/internal/models"
	"styleforge/internal/parser"
)

// errKindStorage marks task failures caused by the persistence layer rather
// than the model.
const errKindStorage = "storage_error"

// AnalysisService runs corpus analysis as background tasks.
type AnalysisService struct {
	store  Store
	agg    *analysis.Aggregator
	tasks  *Registry
	logger *slog.Logger
}

// NewAnalysisService creates an analysis service.
func NewAnalysisService(store Store, agg *analysis.Aggregator, tasks *Registry, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{store: store, agg: agg, tasks: tasks, logger: logger}
}

// StartAnalysis submits a background analysis over the given document paths
// and returns the pending task immediately. Unreadable documents become
// warnings on the resulting record; an unusable model response degrades the
// record to neutral defaults. Neither fails the task.
func (s *AnalysisService) StartAnalysis(ctx context.Context, paths []string) *Task {
	task := s.tasks.Create(ctx, models.TaskKindAnalysis)

	go func() {
		// Detached from the submitting context: the task outlives the request.
		bgCtx := context.Background()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("analysis goroutine panicked", "task_id", task.ID, "panic", r)
				_ = s.tasks.Fail(bgCtx, task, models.TaskError{
					Kind:    errKindStorage,
					Message: fmt.Sprintf("internal panic: %v", r),
				})
			}
		}()

		s.run(bgCtx, task, paths)
	}()

	return task
}

func (s *AnalysisService) run(ctx context.Context, task *Task, paths []string) {
	if err := s.tasks.MarkRunning(ctx, task); err != nil {
		s.logger.Warn("could not mark task running", "task_id", task.ID, "error", err)
		return
	}

	docs, warnings := parser.ExtractAll(paths)
	for _, w := range warnings {
		s.logger.Warn("document skipped", "task_id", task.ID, "reason", w)
	}

	record := s.agg.Analyze(ctx, docs, warnings)
	record.ID = uuid.New().String()[:8]

	if _, err := s.store.QueryCreateFeatureRecord(ctx, record); err != nil {
		_ = s.tasks.Fail(ctx, task, models.TaskError{Kind: errKindStorage, Message: err.Error()})
		return
	}

	_ = s.tasks.Complete(ctx, task, "feature_record:"+record.ID)
}

// GetFeatureRecord fetches a stored feature record by ID.
func (s *AnalysisService) GetFeatureRecord(ctx context.Context, id string) (*models.StyleFeatureRecord, error) {
	record, err := s.store.QueryGetFeatureRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("feature record %s: %w", id, db.ErrNotFound)
	}
	return record, nil
}
