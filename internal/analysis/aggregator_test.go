package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"styleforge/internal/metrics"
	"styleforge/internal/models"
	"styleforge/internal/parser"
)

// fakeCompleter returns canned responses in order, cycling on the last.
type fakeCompleter struct {
	responses []string
	err       error
	calls     int
}

func (f *fakeCompleter) CompleteWithSystem(_ context.Context, _, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	idx := f.calls - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx], nil
}

const validJudgment = `{
  "sentence_structures": {"simple": 3, "complex": 1},
  "idioms": ["break the ice"],
  "metaphors": ["sea of troubles"],
  "transition_phrases": ["however"],
  "passive_voice_frequency": 0.2,
  "active_voice_frequency": 0.8,
  "personality_traits": {"openness": 0.7, "conscientiousness": 0.6, "extraversion": 0.4, "agreeableness": 0.5, "neuroticism": 0.3},
  "writing_style_traits": {"formality_level": 0.8, "analytical_thinking": 0.7, "emotional_expressiveness": 0.3, "confidence_level": 0.6},
  "summary": "Formal and analytical.",
  "distinguishing_characteristics": ["long sentences"],
  "recommendations": ["note the formal register"]
}`

func docsFrom(texts ...string) []parser.Document {
	docs := make([]parser.Document, len(texts))
	for i, t := range texts {
		docs[i] = parser.Document{Path: "doc.txt", Name: "doc.txt", Text: t}
	}
	return docs
}

func TestAnalyzePopulatesRecord(t *testing.T) {
	model := &fakeCompleter{responses: []string{validJudgment}}
	agg := NewAggregator(model, nil, nil)

	record := agg.Analyze(context.Background(), docsFrom("The cat sat on the mat. It was warm."), nil)

	if record.ExtractionError {
		t.Fatal("unexpected extraction error")
	}
	if record.DocumentCount != 1 {
		t.Errorf("document count = %d, want 1", record.DocumentCount)
	}
	if record.TotalWordCount != 9 {
		t.Errorf("total words = %d, want 9", record.TotalWordCount)
	}
	if record.TotalSentenceCount != 2 {
		t.Errorf("total sentences = %d, want 2", record.TotalSentenceCount)
	}
	if record.PersonalityTraits["openness"] != 0.7 {
		t.Errorf("openness = %v, want 0.7", record.PersonalityTraits["openness"])
	}
	if record.SentenceStructures["simple"] != 3 {
		t.Errorf("simple structures = %d, want 3", record.SentenceStructures["simple"])
	}
	if record.Summary != "Formal and analytical." {
		t.Errorf("summary = %q", record.Summary)
	}
}

func TestAnalyzeToleratesCodeFences(t *testing.T) {
	model := &fakeCompleter{responses: []string{"Here you go:\n```json\n" + validJudgment + "\n```"}}
	agg := NewAggregator(model, nil, nil)

	record := agg.Analyze(context.Background(), docsFrom("Some text."), nil)
	if record.ExtractionError {
		t.Fatal("fenced JSON must still parse")
	}
}

func TestAnalyzeEmptyCorpus(t *testing.T) {
	model := &fakeCompleter{responses: []string{validJudgment}}
	agg := NewAggregator(model, nil, nil)

	record := agg.Analyze(context.Background(), nil, nil)

	if record == nil {
		t.Fatal("empty corpus must still yield a record")
	}
	if record.ExtractionError {
		t.Error("empty corpus is not an extraction error")
	}
	if record.TotalWordCount != 0 || record.TotalSentenceCount != 0 || record.DocumentCount != 0 {
		t.Errorf("expected zero counts, got %+v", record)
	}
	for k, v := range record.PersonalityTraits {
		if v != 0.5 {
			t.Errorf("trait %s = %v, want 0.5", k, v)
		}
	}
	if model.calls != 0 {
		t.Errorf("model called %d times for empty corpus, want 0", model.calls)
	}
}

func TestAnalyzeMalformedResponseFallsBackToNeutral(t *testing.T) {
	collector := metrics.NewCollector()
	model := &fakeCompleter{responses: []string{"I'm sorry, I can't quantify style."}}
	agg := NewAggregator(model, collector, nil)

	record := agg.Analyze(context.Background(), docsFrom("Plenty of words in here."), []string{"skipped bad.pdf"})

	if record == nil {
		t.Fatal("malformed response must still yield a record")
	}
	if !record.ExtractionError {
		t.Error("expected ExtractionError=true")
	}
	if record.TotalWordCount != 0 || record.VocabularySize != 0 {
		t.Errorf("neutral record must zero counts, got words=%d vocab=%d", record.TotalWordCount, record.VocabularySize)
	}
	for k, v := range record.WritingStyleTraits {
		if v != 0.5 {
			t.Errorf("trait %s = %v, want 0.5", k, v)
		}
	}
	if len(record.Warnings) != 1 {
		t.Errorf("warnings must survive the fallback, got %v", record.Warnings)
	}
	if collector.Counter(metrics.CounterSchemaFallbacks) != 1 {
		t.Errorf("schema fallback counter = %d, want 1", collector.Counter(metrics.CounterSchemaFallbacks))
	}
}

func TestAnalyzeModelErrorFallsBackToNeutral(t *testing.T) {
	model := &fakeCompleter{err: errors.New("connection refused")}
	agg := NewAggregator(model, nil, nil)

	record := agg.Analyze(context.Background(), docsFrom("Some text here."), nil)
	if !record.ExtractionError {
		t.Error("expected ExtractionError=true on model failure")
	}
}

func TestAnalyzeClampsTraits(t *testing.T) {
	judgment := strings.Replace(validJudgment, `"openness": 0.7`, `"openness": 3.5`, 1)
	model := &fakeCompleter{responses: []string{judgment}}
	agg := NewAggregator(model, nil, nil)

	record := agg.Analyze(context.Background(), docsFrom("Text."), nil)
	if record.PersonalityTraits["openness"] != 1.0 {
		t.Errorf("openness = %v, want clamped to 1.0", record.PersonalityTraits["openness"])
	}
}

func TestBatchTexts(t *testing.T) {
	long := strings.Repeat("a", 90)
	batches := batchTexts([]string{long, long, long}, 100)

	if len(batches) != 3 {
		t.Fatalf("batches = %d, want 3", len(batches))
	}
	for i, b := range batches {
		if len(b) > 100 {
			t.Errorf("batch %d length %d exceeds max", i, len(b))
		}
	}
}

func TestBatchTextsSplitsOversized(t *testing.T) {
	batches := batchTexts([]string{strings.Repeat("x", 250)}, 100)
	if len(batches) != 3 {
		t.Fatalf("batches = %d, want 3", len(batches))
	}
}

func TestBatchTextsPacksSmall(t *testing.T) {
	batches := batchTexts([]string{"aa", "bb", "cc"}, 100)
	if len(batches) != 1 {
		t.Fatalf("batches = %d, want 1: %v", len(batches), batches)
	}
}

func TestMergeJudgmentsAverages(t *testing.T) {
	a := modelJudgment{
		SentenceStructures:   map[string]int{"simple": 2},
		PersonalityTraits:    map[string]float64{"openness": 0.4},
		WritingStyleTraits:   map[string]float64{"formality_level": 0.6},
		Idioms:               []string{"break the ice"},
		ActiveVoiceFrequency: 0.6,
	}
	b := modelJudgment{
		SentenceStructures:   map[string]int{"simple": 1, "complex": 3},
		PersonalityTraits:    map[string]float64{"openness": 0.8},
		WritingStyleTraits:   map[string]float64{"formality_level": 0.8},
		Idioms:               []string{"break the ice", "spill the beans"},
		ActiveVoiceFrequency: 0.8,
	}

	merged := mergeJudgments([]modelJudgment{a, b})

	if merged.SentenceStructures["simple"] != 3 {
		t.Errorf("simple = %d, want 3", merged.SentenceStructures["simple"])
	}
	if merged.SentenceStructures["complex"] != 3 {
		t.Errorf("complex = %d, want 3", merged.SentenceStructures["complex"])
	}
	if merged.PersonalityTraits["openness"] != 0.6 {
		t.Errorf("openness = %v, want 0.6", merged.PersonalityTraits["openness"])
	}
	if merged.ActiveVoiceFrequency != 0.7 {
		t.Errorf("active voice = %v, want 0.7", merged.ActiveVoiceFrequency)
	}
	if len(merged.Idioms) != 2 {
		t.Errorf("idioms = %v, want 2 deduped", merged.Idioms)
	}
}

func TestRenderReportIncludesSections(t *testing.T) {
	record := models.NewNeutralFeatureRecord()
	record.ExtractionError = false
	record.Summary = "Crisp and direct."
	record.DocumentCount = 2
	record.TotalWordCount = 120
	record.WordFrequencies = map[string]int{"crisp": 4, "direct": 2}

	report := RenderReport(record)

	for _, want := range []string{"# Writing Style Analysis", "Crisp and direct.", "Documents analyzed: 2", "crisp"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRenderReportFlagsDegradedRecord(t *testing.T) {
	record := models.NewNeutralFeatureRecord()
	report := RenderReport(record)
	if !strings.Contains(report, "neutral defaults") {
		t.Error("degraded record must be flagged in the report")
	}
}
