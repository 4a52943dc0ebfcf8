// Package db provides SurrealDB query functions for pipeline records.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"styleforge/internal/models"
)

// Row wrappers shadow the string ID of the domain structs with the
// RecordID that SurrealDB returns.

type artifactRow struct {
	models.ContentArtifact
	ID surrealmodels.RecordID `json:"id"`
}

func (r artifactRow) toModel() models.ContentArtifact {
	a := r.ContentArtifact
	a.ID = models.MustRecordIDString(r.ID)
	return a
}

type featureRow struct {
	models.StyleFeatureRecord
	ID surrealmodels.RecordID `json:"id"`
}

func (r featureRow) toModel() models.StyleFeatureRecord {
	f := r.StyleFeatureRecord
	f.ID = models.MustRecordIDString(r.ID)
	return f
}

type personaRow struct {
	models.Persona
	ID surrealmodels.RecordID `json:"id"`
}

func (r personaRow) toModel() models.Persona {
	p := r.Persona
	p.ID = models.MustRecordIDString(r.ID)
	return p
}

type taskRow struct {
	models.TaskRecord
	ID surrealmodels.RecordID `json:"id"`
}

func (r taskRow) toModel() models.TaskRecord {
	t := r.TaskRecord
	t.ID = models.MustRecordIDString(r.ID)
	return t
}

// QueryCreateArtifact stores a content artifact by ID.
// Uses UPSERT so re-persisting the same artifact is idempotent.
// Returns the stored artifact.
func (c *Client) QueryCreateArtifact(ctx context.Context, a *models.ContentArtifact) (*models.ContentArtifact, error) {
	defer c.timed(time.Now())

	history := a.RefinementHistory
	if history == nil {
		history = []models.FeedbackRecord{}
	}

	sql := `
		UPSERT type::record("artifact", $id) SET
			content_text = $content_text,
			content_brief = $content_brief,
			style_parameters = $style_parameters,
			refinement_history = $refinement_history,
			persona_id = $persona_id,
			previous_version_id = $previous_version_id,
			model_metadata = $model_metadata,
			created = IF created THEN created ELSE time::now() END
		RETURN AFTER
	`

	results, err := surrealdb.Query[[]artifactRow](ctx, c.db, sql, map[string]any{
		"id":                  a.ID,
		"content_text":        a.ContentText,
		"content_brief":       a.Brief,
		"style_parameters":    a.StyleParameters,
		"refinement_history":  history,
		"persona_id":          optional(a.PersonaID),
		"previous_version_id": optional(a.PreviousVersionID),
		"model_metadata":      a.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("create artifact: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("create artifact: no result returned")
	}

	stored := (*results)[0].Result[0].toModel()
	return &stored, nil
}

// QueryGetArtifact retrieves an artifact by ID.
// Returns nil if not found.
func (c *Client) QueryGetArtifact(ctx context.Context, id string) (*models.ContentArtifact, error) {
	defer c.timed(time.Now())

	results, err := surrealdb.Query[[]artifactRow](ctx, c.db, `
		SELECT * FROM type::record("artifact", $id)
	`, map[string]any{"id": id})

	if err != nil {
		return nil, fmt.Errorf("get artifact: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	a := (*results)[0].Result[0].toModel()
	return &a, nil
}

// QueryListArtifacts returns artifacts ordered by creation time (newest first).
func (c *Client) QueryListArtifacts(ctx context.Context, limit int) ([]models.ContentArtifact, error) {
	defer c.timed(time.Now())

	results, err := surrealdb.Query[[]artifactRow](ctx, c.db, `
		SELECT * FROM artifact ORDER BY created DESC LIMIT $limit
	`, map[string]any{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.ContentArtifact{}, nil
	}

	rows := (*results)[0].Result
	artifacts := make([]models.ContentArtifact, len(rows))
	for i, r := range rows {
		artifacts[i] = r.toModel()
	}
	return artifacts, nil
}

// QueryCreateFeatureRecord stores a style feature record by ID.
func (c *Client) QueryCreateFeatureRecord(ctx context.Context, f *models.StyleFeatureRecord) (*models.StyleFeatureRecord, error) {
	defer c.timed(time.Now())

	sql := `
		UPSERT type::record("feature_record", $id) SET
			vocabulary_size = $vocabulary_size,
			avg_word_length = $avg_word_length,
			word_frequencies = $word_frequencies,
			rare_words = $rare_words,
			avg_sentence_length = $avg_sentence_length,
			sentence_length_variation = $sentence_length_variation,
			sentence_structures = $sentence_structures,
			idioms = $idioms,
			metaphors = $metaphors,
			transition_phrases = $transition_phrases,
			punctuation_usage = $punctuation_usage,
			passive_voice_frequency = $passive_voice_frequency,
			active_voice_frequency = $active_voice_frequency,
			personality_traits = $personality_traits,
			writing_style_traits = $writing_style_traits,
			summary = $summary,
			distinguishing_characteristics = $distinguishing_characteristics,
			recommendations = $recommendations,
			document_count = $document_count,
			total_word_count = $total_word_count,
			total_sentence_count = $total_sentence_count,
			extraction_error = $extraction_error,
			warnings = $warnings,
			created = IF created THEN created ELSE time::now() END
		RETURN AFTER
	`

	results, err := surrealdb.Query[[]featureRow](ctx, c.db, sql, map[string]any{
		"id":                             f.ID,
		"vocabulary_size":                f.VocabularySize,
		"avg_word_length":                f.AvgWordLength,
		"word_frequencies":               orEmptyMap(f.WordFrequencies),
		"rare_words":                     orEmptySlice(f.RareWords),
		"avg_sentence_length":            f.AvgSentenceLength,
		"sentence_length_variation":      f.SentenceLengthVariation,
		"sentence_structures":            orEmptyMap(f.SentenceStructures),
		"idioms":                         orEmptySlice(f.Idioms),
		"metaphors":                      orEmptySlice(f.Metaphors),
		"transition_phrases":             orEmptySlice(f.TransitionPhrases),
		"punctuation_usage":              orEmptyMap(f.PunctuationUsage),
		"passive_voice_frequency":        f.PassiveVoiceFrequency,
		"active_voice_frequency":         f.ActiveVoiceFrequency,
		"personality_traits":             f.PersonalityTraits,
		"writing_style_traits":           f.WritingStyleTraits,
		"summary":                        optional(f.Summary),
		"distinguishing_characteristics": orEmptySlice(f.DistinguishingCharacteristics),
		"recommendations":                orEmptySlice(f.Recommendations),
		"document_count":                 f.DocumentCount,
		"total_word_count":               f.TotalWordCount,
		"total_sentence_count":           f.TotalSentenceCount,
		"extraction_error":               f.ExtractionError,
		"warnings":                       orEmptySlice(f.Warnings),
	})
	if err != nil {
		return nil, fmt.Errorf("create feature record: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("create feature record: no result returned")
	}

	stored := (*results)[0].Result[0].toModel()
	return &stored, nil
}

// QueryGetFeatureRecord retrieves a feature record by ID.
// Returns nil if not found.
func (c *Client) QueryGetFeatureRecord(ctx context.Context, id string) (*models.StyleFeatureRecord, error) {
	defer c.timed(time.Now())

	results, err := surrealdb.Query[[]featureRow](ctx, c.db, `
		SELECT * FROM type::record("feature_record", $id)
	`, map[string]any{"id": id})

	if err != nil {
		return nil, fmt.Errorf("get feature record: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	f := (*results)[0].Result[0].toModel()
	return &f, nil
}

// QueryCreatePersona stores a persona by ID. Personas are immutable once
// created, so an existing record is an error rather than an update.
func (c *Client) QueryCreatePersona(ctx context.Context, p *models.Persona) (*models.Persona, error) {
	defer c.timed(time.Now())

	sql := `
		CREATE type::record("persona", $id) SET
			name = $name,
			traits = $traits,
			background = $background,
			communication_style = $communication_style,
			derived_from = $derived_from
		RETURN AFTER
	`

	results, err := surrealdb.Query[[]personaRow](ctx, c.db, sql, map[string]any{
		"id":                  p.ID,
		"name":                p.Name,
		"traits":              orEmptySlice(p.Traits),
		"background":          optional(p.Background),
		"communication_style": optional(p.CommunicationStyle),
		"derived_from":        optional(p.DerivedFrom),
	})
	if err != nil {
		return nil, fmt.Errorf("create persona: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("create persona: no result returned")
	}

	stored := (*results)[0].Result[0].toModel()
	return &stored, nil
}

// QueryGetPersona retrieves a persona by ID.
// Returns nil if not found.
func (c *Client) QueryGetPersona(ctx context.Context, id string) (*models.Persona, error) {
	defer c.timed(time.Now())

	results, err := surrealdb.Query[[]personaRow](ctx, c.db, `
		SELECT * FROM type::record("persona", $id)
	`, map[string]any{"id": id})

	if err != nil {
		return nil, fmt.Errorf("get persona: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	p := (*results)[0].Result[0].toModel()
	return &p, nil
}

// QueryListPersonas returns all personas ordered by creation time.
func (c *Client) QueryListPersonas(ctx context.Context) ([]models.Persona, error) {
	defer c.timed(time.Now())

	results, err := surrealdb.Query[[]personaRow](ctx, c.db, `
		SELECT * FROM persona ORDER BY created ASC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list personas: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.Persona{}, nil
	}

	rows := (*results)[0].Result
	personas := make([]models.Persona, len(rows))
	for i, r := range rows {
		personas[i] = r.toModel()
	}
	return personas, nil
}

// QueryUpsertTask stores a task record by ID, preserving the original
// creation time across state transitions.
func (c *Client) QueryUpsertTask(ctx context.Context, t *models.TaskRecord) error {
	defer c.timed(time.Now())

	sql := `
		UPSERT type::record("task", $id) SET
			kind = $kind,
			state = $state,
			result_ref = $result_ref,
			error = $error,
			updated_at = time::now(),
			created_at = IF created_at THEN created_at ELSE time::now() END
	`

	vars := map[string]any{
		"id":         t.ID,
		"kind":       string(t.Kind),
		"state":      string(t.State),
		"result_ref": t.ResultRef,
		"error":      t.Error,
	}

	if _, err := surrealdb.Query[any](ctx, c.db, sql, vars); err != nil {
		return fmt.Errorf("upsert task: %w", wrapQueryError(err))
	}
	return nil
}

// QueryGetTask retrieves a task record by ID.
// Returns nil if not found.
func (c *Client) QueryGetTask(ctx context.Context, id string) (*models.TaskRecord, error) {
	defer c.timed(time.Now())

	results, err := surrealdb.Query[[]taskRow](ctx, c.db, `
		SELECT * FROM type::record("task", $id)
	`, map[string]any{"id": id})

	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	t := (*results)[0].Result[0].toModel()
	return &t, nil
}

// QueryListTasks returns task records ordered by last update (newest first).
func (c *Client) QueryListTasks(ctx context.Context, limit int) ([]models.TaskRecord, error) {
	defer c.timed(time.Now())

	results, err := surrealdb.Query[[]taskRow](ctx, c.db, `
		SELECT * FROM task ORDER BY updated_at DESC LIMIT $limit
	`, map[string]any{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.TaskRecord{}, nil
	}

	rows := (*results)[0].Result
	tasks := make([]models.TaskRecord, len(rows))
	for i, r := range rows {
		tasks[i] = r.toModel()
	}
	return tasks, nil
}

// optional maps the empty string to nil so option<string> fields stay NONE.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func orEmptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptyMap(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}
