package models

// PersonalityTraitKeys are the five fixed personality estimate keys.
var PersonalityTraitKeys = []string{
	"openness",
	"conscientiousness",
	"extraversion",
	"agreeableness",
	"neuroticism",
}

// WritingStyleTraitKeys are the fixed writing-style estimate keys.
var WritingStyleTraitKeys = []string{
	"formality_level",
	"analytical_thinking",
	"emotional_expressiveness",
	"confidence_level",
}

// StyleFeatureRecord holds the quantified style fingerprint extracted from a
// document corpus. It is always well-formed: when the model's structured
// output cannot be parsed, the record carries neutral defaults and
// ExtractionError=true instead of being absent.
type StyleFeatureRecord struct {
	ID string `json:"id"`

	// Vocabulary statistics
	VocabularySize  int            `json:"vocabulary_size"`
	AvgWordLength   float64        `json:"avg_word_length"`
	WordFrequencies map[string]int `json:"word_frequencies"`
	RareWords       []string       `json:"rare_words"`

	// Sentence structure
	AvgSentenceLength       float64        `json:"avg_sentence_length"`
	SentenceLengthVariation float64        `json:"sentence_length_variation"`
	SentenceStructures      map[string]int `json:"sentence_structures"`

	// Stylistic elements
	Idioms            []string `json:"idioms"`
	Metaphors         []string `json:"metaphors"`
	TransitionPhrases []string `json:"transition_phrases"`

	// Writing patterns
	PunctuationUsage       map[string]int `json:"punctuation_usage"`
	PassiveVoiceFrequency  float64        `json:"passive_voice_frequency"`
	ActiveVoiceFrequency   float64        `json:"active_voice_frequency"`

	// Trait estimates, each in [0,1]
	PersonalityTraits  map[string]float64 `json:"personality_traits"`
	WritingStyleTraits map[string]float64 `json:"writing_style_traits"`

	// Prose judgments from the model
	Summary                       string   `json:"summary,omitempty"`
	DistinguishingCharacteristics []string `json:"distinguishing_characteristics,omitempty"`
	Recommendations               []string `json:"recommendations,omitempty"`

	// Meta statistics
	DocumentCount      int `json:"document_count"`
	TotalWordCount     int `json:"total_word_count"`
	TotalSentenceCount int `json:"total_sentence_count"`

	// ExtractionError marks a degraded record built from neutral defaults
	// after the model response could not be parsed.
	ExtractionError bool `json:"extraction_error"`

	// Warnings accumulates non-fatal per-document extraction failures.
	Warnings []string `json:"warnings,omitempty"`
}

// NeutralTraits returns a trait map with every key at the neutral 0.5.
func NeutralTraits(keys []string) map[string]float64 {
	traits := make(map[string]float64, len(keys))
	for _, k := range keys {
		traits[k] = 0.5
	}
	return traits
}

// NewNeutralFeatureRecord builds a degraded-but-valid record: all trait
// estimates at 0.5, all model-derived collections empty. Locally computed
// counts are zero until the caller fills them in.
func NewNeutralFeatureRecord() *StyleFeatureRecord {
	return &StyleFeatureRecord{
		WordFrequencies:    map[string]int{},
		RareWords:          []string{},
		SentenceStructures: map[string]int{},
		Idioms:             []string{},
		Metaphors:          []string{},
		TransitionPhrases:  []string{},
		PunctuationUsage:   map[string]int{},
		PersonalityTraits:  NeutralTraits(PersonalityTraitKeys),
		WritingStyleTraits: NeutralTraits(WritingStyleTraitKeys),
		ExtractionError:    true,
	}
}
