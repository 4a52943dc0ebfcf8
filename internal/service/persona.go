package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"styleforge/internal/db"
	"styleforge/internal/models"
	"styleforge/internal/style"
)

// PersonaService manages author personas.
type PersonaService struct {
	store  Store
	model  Completer
	logger *slog.Logger
}

// NewPersonaService creates a persona service.
func NewPersonaService(store Store, model Completer, logger *slog.Logger) *PersonaService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PersonaService{store: store, model: model, logger: logger}
}

// CreatePersona stores a manually authored persona. An empty ID gets one
// assigned. Personas are immutable once created.
func (s *PersonaService) CreatePersona(ctx context.Context, p *models.Persona) (*models.Persona, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("persona requires a name")
	}
	if p.ID == "" {
		p.ID = uuid.New().String()[:8]
	}
	return s.store.QueryCreatePersona(ctx, p)
}

// GetPersona fetches a persona by ID.
func (s *PersonaService) GetPersona(ctx context.Context, id string) (*models.Persona, error) {
	persona, err := s.store.QueryGetPersona(ctx, id)
	if err != nil {
		return nil, err
	}
	if persona == nil {
		return nil, fmt.Errorf("persona %s: %w", id, db.ErrNotFound)
	}
	return persona, nil
}

// ListPersonas returns all stored personas.
func (s *PersonaService) ListPersonas(ctx context.Context) ([]models.Persona, error) {
	return s.store.QueryListPersonas(ctx)
}

// personaDraft is the structured schema the model fills when deriving a
// persona from a style fingerprint.
type personaDraft struct {
	Name               string   `json:"name"`
	Traits             []string `json:"traits"`
	Background         string   `json:"background"`
	CommunicationStyle string   `json:"communication_style"`
}

const derivePersonaPrompt = `You are an expert at characterizing authors from their writing style.
Given a style analysis, describe the author behind it. Respond ONLY with a
JSON object matching exactly this schema:

{
  "name": "...",
  "traits": ["..."],
  "background": "...",
  "communication_style": "..."
}

communication_style should be 2-4 sentences capturing how this author
writes, concrete enough to condition content generation.`

// DerivePersona builds a persona from a stored feature record via a single
// model call. The supplied name, when non-empty, overrides the model's
// suggestion.
func (s *PersonaService) DerivePersona(ctx context.Context, featureRecordID, name string) (*models.Persona, error) {
	record, err := s.store.QueryGetFeatureRecord(ctx, featureRecordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("feature record %s: %w", featureRecordID, db.ErrNotFound)
	}

	response, err := s.model.CompleteWithSystem(ctx, derivePersonaPrompt, personaEvidence(record))
	if err != nil {
		return nil, fmt.Errorf("derive persona: %w", err)
	}

	draft, err := parsePersonaDraft(response)
	if err != nil {
		return nil, fmt.Errorf("derive persona: %w", err)
	}

	if name != "" {
		draft.Name = name
	}
	if draft.Name == "" {
		draft.Name = "Analyzed Author"
	}

	persona := &models.Persona{
		ID:                 uuid.New().String()[:8],
		Name:               draft.Name,
		Traits:             draft.Traits,
		Background:         draft.Background,
		CommunicationStyle: draft.CommunicationStyle,
		DerivedFrom:        featureRecordID,
	}

	return s.store.QueryCreatePersona(ctx, persona)
}

// ReviewAdherence asks the model how well a text matches a persona's style.
// Returns the model's prose review.
func (s *PersonaService) ReviewAdherence(ctx context.Context, personaID, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("nothing to review: text is empty")
	}

	persona, err := s.GetPersona(ctx, personaID)
	if err != nil {
		return "", err
	}

	review, err := s.model.CompleteWithSystem(ctx, style.AdherenceSystemPrompt(persona), text)
	if err != nil {
		return "", fmt.Errorf("review adherence: %w", err)
	}
	return review, nil
}

// personaEvidence renders the parts of a feature record that characterize
// the author.
func personaEvidence(record *models.StyleFeatureRecord) string {
	var b strings.Builder

	if record.Summary != "" {
		fmt.Fprintf(&b, "Style summary: %s\n", record.Summary)
	}
	if len(record.DistinguishingCharacteristics) > 0 {
		fmt.Fprintf(&b, "Distinguishing characteristics: %s\n", strings.Join(record.DistinguishingCharacteristics, "; "))
	}

	b.WriteString("Personality trait estimates (0-1):\n")
	for _, k := range models.PersonalityTraitKeys {
		fmt.Fprintf(&b, "- %s: %.2f\n", k, record.PersonalityTraits[k])
	}
	b.WriteString("Writing style trait estimates (0-1):\n")
	for _, k := range models.WritingStyleTraitKeys {
		fmt.Fprintf(&b, "- %s: %.2f\n", k, record.WritingStyleTraits[k])
	}

	if record.AvgSentenceLength > 0 {
		fmt.Fprintf(&b, "Average sentence length: %.1f words\n", record.AvgSentenceLength)
	}
	if len(record.Idioms) > 0 {
		fmt.Fprintf(&b, "Recurring idioms: %s\n", strings.Join(record.Idioms, ", "))
	}

	return b.String()
}

// parsePersonaDraft extracts the JSON object from a model response,
// tolerating surrounding prose and code fences.
func parsePersonaDraft(response string) (personaDraft, error) {
	var draft personaDraft

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return draft, fmt.Errorf("no JSON object in response")
	}
	if err := json.Unmarshal([]byte(response[start:end+1]), &draft); err != nil {
		return draft, fmt.Errorf("unmarshal persona draft: %w", err)
	}
	return draft, nil
}
