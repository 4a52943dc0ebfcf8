package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"styleforge/internal/db"
	"styleforge/internal/llm"
	"styleforge/internal/metrics"
	"styleforge/internal/models"
	"styleforge/internal/style"
)

// GenerationRequest describes a content generation job.
type GenerationRequest struct {
	Brief     models.ContentBrief
	PersonaID string

	// FeatureRecordID optionally grounds the prompt in an analyzed style
	// fingerprint.
	FeatureRecordID string

	// Fidelity drives parameter derivation when Parameters is nil.
	Fidelity   float64
	Parameters *models.StyleParameters
}

// GenerationService produces and refines content artifacts as background
// tasks.
type GenerationService struct {
	store     Store
	model     Completer
	tasks     *Registry
	collector *metrics.Collector
	logger    *slog.Logger
}

// NewGenerationService creates a generation service. The collector may be nil.
func NewGenerationService(store Store, model Completer, tasks *Registry, collector *metrics.Collector, logger *slog.Logger) *GenerationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationService{store: store, model: model, tasks: tasks, collector: collector, logger: logger}
}

// StartGeneration validates the request synchronously, then submits a
// background generation task. A missing persona or feature record is a
// submission error, not a failed task.
func (s *GenerationService) StartGeneration(ctx context.Context, req GenerationRequest) (*Task, error) {
	if req.Brief.Topic == "" {
		return nil, fmt.Errorf("content brief requires a topic")
	}
	if req.Brief.ContentType == "" {
		return nil, fmt.Errorf("content brief requires a content type")
	}

	persona, err := s.resolvePersona(ctx, req.PersonaID)
	if err != nil {
		return nil, err
	}

	var record *models.StyleFeatureRecord
	if req.FeatureRecordID != "" {
		record, err = s.store.QueryGetFeatureRecord(ctx, req.FeatureRecordID)
		if err != nil {
			return nil, err
		}
		if record == nil {
			return nil, fmt.Errorf("feature record %s: %w", req.FeatureRecordID, db.ErrNotFound)
		}
	}

	params := style.DeriveParameters(req.Fidelity)
	if req.Parameters != nil {
		params = *req.Parameters
	}

	task := s.tasks.Create(ctx, models.TaskKindGeneration)

	go s.runDetached(task, func(bgCtx context.Context) {
		s.runGeneration(bgCtx, task, req, persona, record, params)
	})

	return task, nil
}

func (s *GenerationService) runGeneration(
	ctx context.Context,
	task *Task,
	req GenerationRequest,
	persona *models.Persona,
	record *models.StyleFeatureRecord,
	params models.StyleParameters,
) {
	if err := s.tasks.MarkRunning(ctx, task); err != nil {
		s.logger.Warn("could not mark task running", "task_id", task.ID, "error", err)
		return
	}

	systemPrompt := style.ReplicationSystemPrompt(persona, params, buildStyleReference(record))
	userPrompt := style.ContentRequest(req.Brief)

	output, err := s.complete(ctx, metrics.OpGeneration, systemPrompt, userPrompt)
	if err != nil {
		_ = s.tasks.Fail(ctx, task, models.TaskError{Kind: llm.ClassifyError(err), Message: err.Error()})
		return
	}

	artifact := &models.ContentArtifact{
		ID:                uuid.New().String()[:8],
		ContentText:       output,
		Brief:             req.Brief,
		StyleParameters:   params,
		RefinementHistory: []models.FeedbackRecord{},
		PersonaID:         persona.ID,
		Metadata: models.ModelMetadata{
			ModelName:   s.model.ModelName(),
			Temperature: s.model.Temperature(),
			Timestamp:   time.Now().UTC(),
		},
	}

	// No partial artifacts: a failed write fails the whole task.
	if _, err := s.store.QueryCreateArtifact(ctx, artifact); err != nil {
		_ = s.tasks.Fail(ctx, task, models.TaskError{Kind: errKindStorage, Message: err.Error()})
		return
	}

	_ = s.tasks.Complete(ctx, task, "artifact:"+artifact.ID)
}

// GetArtifact fetches a stored artifact by ID.
func (s *GenerationService) GetArtifact(ctx context.Context, id string) (*models.ContentArtifact, error) {
	artifact, err := s.store.QueryGetArtifact(ctx, id)
	if err != nil {
		return nil, err
	}
	if artifact == nil {
		return nil, fmt.Errorf("artifact %s: %w", id, db.ErrNotFound)
	}
	return artifact, nil
}

// ListArtifacts returns stored artifacts, newest first.
func (s *GenerationService) ListArtifacts(ctx context.Context, limit int) ([]models.ContentArtifact, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.store.QueryListArtifacts(ctx, limit)
}

func (s *GenerationService) resolvePersona(ctx context.Context, id string) (*models.Persona, error) {
	if id == "" {
		return nil, fmt.Errorf("persona ID is required")
	}
	persona, err := s.store.QueryGetPersona(ctx, id)
	if err != nil {
		return nil, err
	}
	if persona == nil {
		return nil, fmt.Errorf("persona %s: %w", id, db.ErrNotFound)
	}
	return persona, nil
}

// runDetached runs fn on a background context with panic recovery.
func (s *GenerationService) runDetached(task *Task, fn func(ctx context.Context)) {
	bgCtx := context.Background()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task goroutine panicked", "task_id", task.ID, "panic", r)
			_ = s.tasks.Fail(bgCtx, task, models.TaskError{
				Kind:    errKindStorage,
				Message: fmt.Sprintf("internal panic: %v", r),
			})
		}
	}()

	fn(bgCtx)
}

// complete calls the model and records timings for both the raw call and
// the enclosing operation.
func (s *GenerationService) complete(ctx context.Context, op, systemPrompt, userPrompt string) (string, error) {
	start := time.Now()
	output, err := s.model.CompleteWithSystem(ctx, systemPrompt, userPrompt)
	if s.collector != nil {
		s.collector.RecordTiming(metrics.OpLLMComplete, time.Since(start))
		s.collector.RecordTiming(op, time.Since(start))
	}
	return output, err
}

// buildStyleReference condenses a feature record into prompt-sized style
// guidance. Degraded records contribute nothing beyond their summary.
func buildStyleReference(record *models.StyleFeatureRecord) string {
	if record == nil {
		return ""
	}

	var b strings.Builder

	if record.Summary != "" {
		b.WriteString(record.Summary)
		b.WriteString("\n")
	}
	if record.ExtractionError {
		return strings.TrimSpace(b.String())
	}

	if record.AvgSentenceLength > 0 {
		fmt.Fprintf(&b, "Typical sentence length: %.0f words (variation %.0f).\n",
			record.AvgSentenceLength, record.SentenceLengthVariation)
	}
	if len(record.TransitionPhrases) > 0 {
		fmt.Fprintf(&b, "Characteristic transitions: %s.\n", strings.Join(clip(record.TransitionPhrases, 5), ", "))
	}
	if len(record.Idioms) > 0 {
		fmt.Fprintf(&b, "Recurring idioms: %s.\n", strings.Join(clip(record.Idioms, 5), ", "))
	}
	if len(record.Metaphors) > 0 {
		fmt.Fprintf(&b, "Metaphor habits: %s.\n", strings.Join(clip(record.Metaphors, 3), "; "))
	}
	if len(record.DistinguishingCharacteristics) > 0 {
		fmt.Fprintf(&b, "Distinguishing characteristics: %s.\n", strings.Join(clip(record.DistinguishingCharacteristics, 5), "; "))
	}
	if record.ActiveVoiceFrequency > 0 || record.PassiveVoiceFrequency > 0 {
		fmt.Fprintf(&b, "Voice balance: %.0f%% active, %.0f%% passive.\n",
			record.ActiveVoiceFrequency*100, record.PassiveVoiceFrequency*100)
	}

	return strings.TrimSpace(b.String())
}

func clip(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
