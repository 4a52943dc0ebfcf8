package models

import "time"

// LengthClass buckets requested content length.
type LengthClass string

const (
	LengthShort  LengthClass = "short"
	LengthMedium LengthClass = "medium"
	LengthLong   LengthClass = "long"
)

// ContentBrief describes the content to be generated.
type ContentBrief struct {
	Topic          string      `json:"topic"`
	ContentType    string      `json:"content_type"`
	TargetAudience string      `json:"target_audience,omitempty"`
	KeyPoints      []string    `json:"key_points,omitempty"`
	Tone           string      `json:"tone,omitempty"`
	Length         LengthClass `json:"length,omitempty"`
}

// StyleParameters is the six-dimensional conditioning vector derived from a
// single fidelity value. Every field is clamped to [0.1, 1.0]. The fidelity
// it was derived from travels with the vector.
type StyleParameters struct {
	StyleFidelity              float64 `json:"style_fidelity"`
	VocabularyAdherence        float64 `json:"vocabulary_adherence"`
	SentenceStructureAdherence float64 `json:"sentence_structure_adherence"`
	RhetoricalDevicesUsage     float64 `json:"rhetorical_devices_usage"`
	ToneConsistency            float64 `json:"tone_consistency"`
	QuirkFrequency             float64 `json:"quirk_frequency"`
	CreativeFreedom            float64 `json:"creative_freedom"`
}

// FeedbackRecord captures human feedback on a generated artifact.
// Ratings are 1-5.
type FeedbackRecord struct {
	OverallRating        int      `json:"overall_rating"`
	StyleMatchRating     int      `json:"style_match_rating"`
	ContentQualityRating int      `json:"content_quality_rating"`
	SpecificFeedback     []string `json:"specific_feedback,omitempty"`
	ElementsToEmphasize  []string `json:"elements_to_emphasize,omitempty"`
	ElementsToReduce     []string `json:"elements_to_reduce,omitempty"`
}

// ModelMetadata records which model produced an artifact and when.
type ModelMetadata struct {
	ModelName   string    `json:"model_name"`
	Temperature float64   `json:"temperature"`
	Timestamp   time.Time `json:"timestamp"`
}

// ContentArtifact is a generated piece of content plus everything needed to
// refine it. Refinements never mutate an artifact: each accepted refinement
// produces a new artifact whose history is the prior history plus the
// feedback that drove the revision.
type ContentArtifact struct {
	ID                string           `json:"id"`
	ContentText       string           `json:"content_text"`
	Brief             ContentBrief     `json:"content_brief"`
	StyleParameters   StyleParameters  `json:"style_parameters"`
	RefinementHistory []FeedbackRecord `json:"refinement_history"`
	PersonaID         string           `json:"persona_id,omitempty"`
	PreviousVersionID string           `json:"previous_version_id,omitempty"`
	Metadata          ModelMetadata    `json:"model_metadata"`
}

// Version is 1 for an original generation and grows by one per refinement.
func (a *ContentArtifact) Version() int {
	return len(a.RefinementHistory) + 1
}
