package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"styleforge/internal/llm"
	"styleforge/internal/metrics"
	"styleforge/internal/models"
	"styleforge/internal/style"
)

// RefinementRequest describes a refinement job against an existing artifact.
type RefinementRequest struct {
	ArtifactID string
	Feedback   models.FeedbackRecord

	// Parameters overrides feedback-driven parameter adjustment when set.
	Parameters *models.StyleParameters
}

// StartRefinement validates the request synchronously, then submits a
// background refinement task. The prior artifact is never mutated: the task
// produces a new artifact whose history is the prior history plus this
// feedback.
func (s *GenerationService) StartRefinement(ctx context.Context, req RefinementRequest) (*Task, error) {
	if err := validateFeedback(req.Feedback); err != nil {
		return nil, err
	}

	prior, err := s.GetArtifact(ctx, req.ArtifactID)
	if err != nil {
		return nil, err
	}

	persona, err := s.resolvePersona(ctx, prior.PersonaID)
	if err != nil {
		return nil, err
	}

	params := style.AdjustFromFeedback(prior.StyleParameters, req.Feedback)
	if req.Parameters != nil {
		params = *req.Parameters
	}

	task := s.tasks.Create(ctx, models.TaskKindRefinement)

	go s.runDetached(task, func(bgCtx context.Context) {
		s.runRefinement(bgCtx, task, req, prior, persona, params)
	})

	return task, nil
}

func (s *GenerationService) runRefinement(
	ctx context.Context,
	task *Task,
	req RefinementRequest,
	prior *models.ContentArtifact,
	persona *models.Persona,
	params models.StyleParameters,
) {
	if err := s.tasks.MarkRunning(ctx, task); err != nil {
		s.logger.Warn("could not mark task running", "task_id", task.ID, "error", err)
		return
	}

	systemPrompt := style.ReplicationSystemPrompt(persona, params, "")
	userPrompt := style.RefinementRequest(prior.Brief, prior.ContentText, req.Feedback)

	output, err := s.complete(ctx, metrics.OpRefinement, systemPrompt, userPrompt)
	if err != nil {
		_ = s.tasks.Fail(ctx, task, models.TaskError{Kind: llm.ClassifyError(err), Message: err.Error()})
		return
	}

	history := append(slices.Clone(prior.RefinementHistory), req.Feedback)

	artifact := &models.ContentArtifact{
		ID:                uuid.New().String()[:8],
		ContentText:       output,
		Brief:             prior.Brief,
		StyleParameters:   params,
		RefinementHistory: history,
		PersonaID:         prior.PersonaID,
		PreviousVersionID: prior.ID,
		Metadata: models.ModelMetadata{
			ModelName:   s.model.ModelName(),
			Temperature: s.model.Temperature(),
			Timestamp:   time.Now().UTC(),
		},
	}

	if _, err := s.store.QueryCreateArtifact(ctx, artifact); err != nil {
		_ = s.tasks.Fail(ctx, task, models.TaskError{Kind: errKindStorage, Message: err.Error()})
		return
	}

	_ = s.tasks.Complete(ctx, task, "artifact:"+artifact.ID)
}

// validateFeedback rejects ratings outside the 1-5 scale before any task is
// created.
func validateFeedback(fb models.FeedbackRecord) error {
	ratings := map[string]int{
		"overall_rating":         fb.OverallRating,
		"style_match_rating":     fb.StyleMatchRating,
		"content_quality_rating": fb.ContentQualityRating,
	}
	for name, v := range ratings {
		if v < 1 || v > 5 {
			return fmt.Errorf("%s must be between 1 and 5, got %d", name, v)
		}
	}
	return nil
}
