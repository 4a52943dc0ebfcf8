// Package style derives generation conditioning parameters from a single
// fidelity value and renders them into prompts.
package style

import (
	"strings"

	"styleforge/internal/models"
)

// Parameter bounds. Every derived value is clamped into this range so the
// prompt renderer always has a usable signal.
const (
	MinParam = 0.1
	MaxParam = 1.0
)

// factor pairs a sub-parameter with its derivation factor. Inverse entries
// scale down as fidelity scales up.
type factor struct {
	base    float64
	inverse bool
}

var derivation = struct {
	vocabularyAdherence        factor
	sentenceStructureAdherence factor
	rhetoricalDevicesUsage     factor
	toneConsistency            factor
	quirkFrequency             factor
	creativeFreedom            factor
}{
	vocabularyAdherence:        factor{base: 0.9},
	sentenceStructureAdherence: factor{base: 0.9},
	rhetoricalDevicesUsage:     factor{base: 0.8},
	toneConsistency:            factor{base: 0.9},
	quirkFrequency:             factor{base: 0.7},
	creativeFreedom:            factor{base: 0.45, inverse: true},
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (f factor) apply(fidelity float64) float64 {
	if f.inverse {
		return clamp(1.0-fidelity*f.base, MinParam, MaxParam)
	}
	return clamp(fidelity*f.base, MinParam, MaxParam)
}

// DeriveParameters expands a scalar fidelity into the full conditioning
// vector. Deterministic: identical fidelity always yields an identical
// vector. Fidelity outside [0.1, 1.0] is clamped first.
func DeriveParameters(fidelity float64) models.StyleParameters {
	f := clamp(fidelity, MinParam, MaxParam)
	return models.StyleParameters{
		StyleFidelity:              f,
		VocabularyAdherence:        derivation.vocabularyAdherence.apply(f),
		SentenceStructureAdherence: derivation.sentenceStructureAdherence.apply(f),
		RhetoricalDevicesUsage:     derivation.rhetoricalDevicesUsage.apply(f),
		ToneConsistency:            derivation.toneConsistency.apply(f),
		QuirkFrequency:             derivation.quirkFrequency.apply(f),
		CreativeFreedom:            derivation.creativeFreedom.apply(f),
	}
}

// AdjustFromFeedback nudges parameters based on feedback ratings and the
// emphasize/reduce element lists, staying within [0.1, 1.0].
func AdjustFromFeedback(p models.StyleParameters, fb models.FeedbackRecord) models.StyleParameters {
	if fb.StyleMatchRating > 0 && fb.StyleMatchRating < 3 {
		p.StyleFidelity = clamp(p.StyleFidelity+0.1, MinParam, MaxParam)
	} else if fb.StyleMatchRating >= 4 {
		// Already matching well, trade a little fidelity for content
		p.StyleFidelity = clamp(p.StyleFidelity-0.05, 0.5, MaxParam)
	}

	for _, element := range fb.ElementsToEmphasize {
		applyElement(&p, element, 0.1)
	}
	for _, element := range fb.ElementsToReduce {
		applyElement(&p, element, -0.1)
	}

	if fb.ContentQualityRating > 0 && fb.ContentQualityRating < 3 && fb.StyleMatchRating >= 4 {
		p.CreativeFreedom = clamp(p.CreativeFreedom+0.15, MinParam, MaxParam)
	}

	return p
}

// applyElement maps a free-text feedback element onto the sub-parameter it
// names and shifts it by delta.
func applyElement(p *models.StyleParameters, element string, delta float64) {
	e := strings.ToLower(element)

	if strings.Contains(e, "vocabulary") || strings.Contains(e, "word choice") {
		p.VocabularyAdherence = clamp(p.VocabularyAdherence+delta, MinParam, MaxParam)
	}
	if strings.Contains(e, "sentence") || strings.Contains(e, "structure") {
		p.SentenceStructureAdherence = clamp(p.SentenceStructureAdherence+delta, MinParam, MaxParam)
	}
	if strings.Contains(e, "rhetorical") || strings.Contains(e, "device") || strings.Contains(e, "figure") {
		p.RhetoricalDevicesUsage = clamp(p.RhetoricalDevicesUsage+delta, MinParam, MaxParam)
	}
	if strings.Contains(e, "tone") || strings.Contains(e, "voice") {
		p.ToneConsistency = clamp(p.ToneConsistency+delta, MinParam, MaxParam)
	}
	if strings.Contains(e, "quirk") || strings.Contains(e, "idiosyncras") || strings.Contains(e, "unique") {
		p.QuirkFrequency = clamp(p.QuirkFrequency+delta, MinParam, MaxParam)
	}
}
