package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"styleforge/internal/metrics"
	"styleforge/internal/models"
	"styleforge/internal/parser"
)

// Completer is the single model capability the aggregator needs.
type Completer interface {
	CompleteWithSystem(ctx context.Context, system, user string) (string, error)
}

// maxBatchChars bounds a single model call. Roughly 8000 tokens at the
// usual four characters per token.
const maxBatchChars = 32000

// Aggregator combines local lexical statistics with model judgments into a
// single StyleFeatureRecord.
type Aggregator struct {
	model     Completer
	collector *metrics.Collector
	logger    *slog.Logger
}

// NewAggregator creates an aggregator. The collector may be nil.
func NewAggregator(model Completer, collector *metrics.Collector, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{model: model, collector: collector, logger: logger}
}

// modelJudgment is the structured schema the model is asked to fill per batch.
type modelJudgment struct {
	SentenceStructures            map[string]int     `json:"sentence_structures"`
	Idioms                        []string           `json:"idioms"`
	Metaphors                     []string           `json:"metaphors"`
	TransitionPhrases             []string           `json:"transition_phrases"`
	PassiveVoiceFrequency         float64            `json:"passive_voice_frequency"`
	ActiveVoiceFrequency          float64            `json:"active_voice_frequency"`
	PersonalityTraits             map[string]float64 `json:"personality_traits"`
	WritingStyleTraits            map[string]float64 `json:"writing_style_traits"`
	Summary                       string             `json:"summary"`
	DistinguishingCharacteristics []string           `json:"distinguishing_characteristics"`
	Recommendations               []string           `json:"recommendations"`
}

const judgmentSystemPrompt = `You are an expert writing-style analyst. You examine text samples and
quantify their stylistic fingerprint. Respond ONLY with a JSON object, no
prose before or after, matching exactly this schema:

{
  "sentence_structures": {"simple": 0, "compound": 0, "complex": 0, "compound_complex": 0},
  "idioms": ["..."],
  "metaphors": ["..."],
  "transition_phrases": ["..."],
  "passive_voice_frequency": 0.0,
  "active_voice_frequency": 0.0,
  "personality_traits": {"openness": 0.5, "conscientiousness": 0.5, "extraversion": 0.5, "agreeableness": 0.5, "neuroticism": 0.5},
  "writing_style_traits": {"formality_level": 0.5, "analytical_thinking": 0.5, "emotional_expressiveness": 0.5, "confidence_level": 0.5},
  "summary": "...",
  "distinguishing_characteristics": ["..."],
  "recommendations": ["..."]
}

All trait values and voice frequencies are in [0, 1]. sentence_structures
maps structure names to occurrence counts in the sample.`

// Analyze produces a StyleFeatureRecord for the given documents. It never
// returns an error for degenerate input or unusable model output: an empty
// corpus yields a zero-count record with neutral traits, and an unparseable
// model response yields a neutral-default record with ExtractionError set.
func (a *Aggregator) Analyze(ctx context.Context, docs []parser.Document, warnings []string) *models.StyleFeatureRecord {
	start := time.Now()
	defer func() {
		if a.collector != nil {
			a.collector.RecordTiming(metrics.OpAnalysis, time.Since(start))
		}
	}()

	if a.collector != nil && len(warnings) > 0 {
		a.collector.Add(metrics.CounterExtractionWarnings, int64(len(warnings)))
	}

	if len(docs) == 0 {
		record := models.NewNeutralFeatureRecord()
		record.ExtractionError = false
		record.Warnings = warnings
		return record
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}

	stats := computeLexical(texts)

	judgments, err := a.collectJudgments(ctx, texts)
	if err != nil {
		a.logger.Warn("style judgment unusable, falling back to neutral defaults", "error", err)
		if a.collector != nil {
			a.collector.Inc(metrics.CounterSchemaFallbacks)
		}
		record := models.NewNeutralFeatureRecord()
		record.Warnings = warnings
		return record
	}

	record := buildRecord(stats, mergeJudgments(judgments))
	record.DocumentCount = len(docs)
	record.Warnings = warnings
	return record
}

// collectJudgments batches the corpus and gathers one judgment per batch.
// A failure on any batch fails the whole collection; the caller downgrades
// to neutral defaults rather than mixing judged and unjudged batches.
func (a *Aggregator) collectJudgments(ctx context.Context, texts []string) ([]modelJudgment, error) {
	batches := batchTexts(texts, maxBatchChars)
	judgments := make([]modelJudgment, 0, len(batches))

	for i, batch := range batches {
		response, err := a.model.CompleteWithSystem(ctx, judgmentSystemPrompt, batch)
		if err != nil {
			return nil, fmt.Errorf("judge batch %d/%d: %w", i+1, len(batches), err)
		}

		judgment, err := parseJudgment(response)
		if err != nil {
			return nil, fmt.Errorf("parse batch %d/%d: %w", i+1, len(batches), err)
		}
		judgments = append(judgments, judgment)
	}

	return judgments, nil
}

// batchTexts packs texts into batches no larger than maxChars each. A single
// oversized text is split rather than dropped.
func batchTexts(texts []string, maxChars int) []string {
	var batches []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			batches = append(batches, current.String())
			current.Reset()
		}
	}

	for _, text := range texts {
		for len(text) > maxChars {
			flush()
			batches = append(batches, text[:maxChars])
			text = text[maxChars:]
		}
		if current.Len() > 0 && current.Len()+len(text)+2 > maxChars {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(text)
	}
	flush()

	return batches
}

// parseJudgment extracts and validates the JSON object from a model response,
// tolerating surrounding prose and markdown code fences.
func parseJudgment(response string) (modelJudgment, error) {
	var judgment modelJudgment

	raw := extractJSONObject(response)
	if raw == "" {
		return judgment, fmt.Errorf("no JSON object in response")
	}
	if err := json.Unmarshal([]byte(raw), &judgment); err != nil {
		return judgment, fmt.Errorf("unmarshal judgment: %w", err)
	}

	judgment.PassiveVoiceFrequency = clampUnit(judgment.PassiveVoiceFrequency)
	judgment.ActiveVoiceFrequency = clampUnit(judgment.ActiveVoiceFrequency)
	judgment.PersonalityTraits = normalizeTraits(judgment.PersonalityTraits, models.PersonalityTraitKeys)
	judgment.WritingStyleTraits = normalizeTraits(judgment.WritingStyleTraits, models.WritingStyleTraitKeys)

	return judgment, nil
}

// extractJSONObject finds the outermost {...} in a response.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// normalizeTraits fills missing keys with the neutral 0.5 and clamps known
// keys to [0, 1]. Unknown keys are dropped.
func normalizeTraits(traits map[string]float64, keys []string) map[string]float64 {
	out := make(map[string]float64, len(keys))
	for _, k := range keys {
		v, ok := traits[k]
		if !ok {
			v = 0.5
		}
		out[k] = clampUnit(v)
	}
	return out
}

// mergeJudgments folds per-batch judgments into one: counts sum, lists
// dedupe in first-seen order, traits and frequencies average.
func mergeJudgments(judgments []modelJudgment) modelJudgment {
	merged := modelJudgment{
		SentenceStructures: make(map[string]int),
		Idioms:             []string{},
		Metaphors:          []string{},
		TransitionPhrases:  []string{},
		PersonalityTraits:  make(map[string]float64),
		WritingStyleTraits: make(map[string]float64),
	}
	if len(judgments) == 0 {
		merged.PersonalityTraits = models.NeutralTraits(models.PersonalityTraitKeys)
		merged.WritingStyleTraits = models.NeutralTraits(models.WritingStyleTraitKeys)
		return merged
	}

	merged.DistinguishingCharacteristics = []string{}
	merged.Recommendations = []string{}

	for _, j := range judgments {
		for k, v := range j.SentenceStructures {
			merged.SentenceStructures[k] += v
		}
		merged.Idioms = appendUnique(merged.Idioms, j.Idioms)
		merged.Metaphors = appendUnique(merged.Metaphors, j.Metaphors)
		merged.TransitionPhrases = appendUnique(merged.TransitionPhrases, j.TransitionPhrases)
		merged.DistinguishingCharacteristics = appendUnique(merged.DistinguishingCharacteristics, j.DistinguishingCharacteristics)
		merged.Recommendations = appendUnique(merged.Recommendations, j.Recommendations)

		merged.PassiveVoiceFrequency += j.PassiveVoiceFrequency
		merged.ActiveVoiceFrequency += j.ActiveVoiceFrequency
		for k, v := range j.PersonalityTraits {
			merged.PersonalityTraits[k] += v
		}
		for k, v := range j.WritingStyleTraits {
			merged.WritingStyleTraits[k] += v
		}

		if merged.Summary == "" {
			merged.Summary = j.Summary
		}
	}

	n := float64(len(judgments))
	merged.PassiveVoiceFrequency /= n
	merged.ActiveVoiceFrequency /= n
	for k := range merged.PersonalityTraits {
		merged.PersonalityTraits[k] /= n
	}
	for k := range merged.WritingStyleTraits {
		merged.WritingStyleTraits[k] /= n
	}

	return merged
}

func appendUnique(dst []string, src []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, s := range dst {
		seen[s] = true
	}
	for _, s := range src {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		dst = append(dst, s)
	}
	return dst
}

// buildRecord assembles the final record from local stats and the merged
// model judgment.
func buildRecord(stats lexicalStats, judgment modelJudgment) *models.StyleFeatureRecord {
	return &models.StyleFeatureRecord{
		VocabularySize:  stats.VocabularySize,
		AvgWordLength:   stats.AvgWordLength,
		WordFrequencies: stats.WordFrequencies,
		RareWords:       stats.RareWords,

		AvgSentenceLength:       stats.AvgSentenceLength,
		SentenceLengthVariation: stats.SentenceLenStdDev,
		SentenceStructures:      judgment.SentenceStructures,

		Idioms:            judgment.Idioms,
		Metaphors:         judgment.Metaphors,
		TransitionPhrases: judgment.TransitionPhrases,

		PunctuationUsage:      stats.PunctuationUsage,
		PassiveVoiceFrequency: judgment.PassiveVoiceFrequency,
		ActiveVoiceFrequency:  judgment.ActiveVoiceFrequency,

		PersonalityTraits:  judgment.PersonalityTraits,
		WritingStyleTraits: judgment.WritingStyleTraits,

		Summary:                       judgment.Summary,
		DistinguishingCharacteristics: judgment.DistinguishingCharacteristics,
		Recommendations:               judgment.Recommendations,

		TotalWordCount:     stats.WordCount,
		TotalSentenceCount: stats.SentenceCount,
	}
}
