package analysis

import (
	"fmt"
	"sort"
	"strings"

	"styleforge/internal/models"
)

// RenderReport formats a feature record as a human-readable markdown report.
func RenderReport(record *models.StyleFeatureRecord) string {
	var b strings.Builder

	b.WriteString("# Writing Style Analysis\n\n")

	if record.ExtractionError {
		b.WriteString("> **Note:** structured extraction failed; trait estimates below are neutral defaults.\n\n")
	}

	if record.Summary != "" {
		b.WriteString("## Summary\n\n")
		b.WriteString(record.Summary)
		b.WriteString("\n\n")
	}

	b.WriteString("## Corpus\n\n")
	fmt.Fprintf(&b, "- Documents analyzed: %d\n", record.DocumentCount)
	fmt.Fprintf(&b, "- Total words: %d\n", record.TotalWordCount)
	fmt.Fprintf(&b, "- Total sentences: %d\n", record.TotalSentenceCount)
	fmt.Fprintf(&b, "- Vocabulary size: %d\n\n", record.VocabularySize)

	b.WriteString("## Vocabulary\n\n")
	fmt.Fprintf(&b, "- Average word length: %.1f characters\n", record.AvgWordLength)
	if top := topWords(record.WordFrequencies, 10); len(top) > 0 {
		fmt.Fprintf(&b, "- Most frequent words: %s\n", strings.Join(top, ", "))
	}
	if len(record.RareWords) > 0 {
		rare := record.RareWords
		if len(rare) > 10 {
			rare = rare[:10]
		}
		fmt.Fprintf(&b, "- Distinctive rare words: %s\n", strings.Join(rare, ", "))
	}
	b.WriteString("\n")

	b.WriteString("## Sentence Structure\n\n")
	fmt.Fprintf(&b, "- Average sentence length: %.1f words\n", record.AvgSentenceLength)
	fmt.Fprintf(&b, "- Sentence length variation: %.1f\n", record.SentenceLengthVariation)
	for _, kv := range sortedCounts(record.SentenceStructures) {
		fmt.Fprintf(&b, "- %s: %d\n", kv.key, kv.count)
	}
	b.WriteString("\n")

	if len(record.Idioms) > 0 || len(record.Metaphors) > 0 || len(record.TransitionPhrases) > 0 {
		b.WriteString("## Stylistic Elements\n\n")
		writeList(&b, "Idioms", record.Idioms)
		writeList(&b, "Metaphors", record.Metaphors)
		writeList(&b, "Transition phrases", record.TransitionPhrases)
		b.WriteString("\n")
	}

	b.WriteString("## Voice\n\n")
	fmt.Fprintf(&b, "- Active voice: %.0f%%\n", record.ActiveVoiceFrequency*100)
	fmt.Fprintf(&b, "- Passive voice: %.0f%%\n\n", record.PassiveVoiceFrequency*100)

	b.WriteString("## Trait Estimates\n\n")
	b.WriteString("### Personality\n\n")
	writeTraits(&b, record.PersonalityTraits, models.PersonalityTraitKeys)
	b.WriteString("\n### Writing Style\n\n")
	writeTraits(&b, record.WritingStyleTraits, models.WritingStyleTraitKeys)
	b.WriteString("\n")

	if len(record.DistinguishingCharacteristics) > 0 {
		b.WriteString("## Distinguishing Characteristics\n\n")
		for _, c := range record.DistinguishingCharacteristics {
			fmt.Fprintf(&b, "- %s\n", c)
		}
		b.WriteString("\n")
	}

	if len(record.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, r := range record.Recommendations {
			fmt.Fprintf(&b, "- %s\n", r)
		}
		b.WriteString("\n")
	}

	if len(record.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range record.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	return b.String()
}

type keyCount struct {
	key   string
	count int
}

func sortedCounts(m map[string]int) []keyCount {
	out := make([]keyCount, 0, len(m))
	for k, v := range m {
		out = append(out, keyCount{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	return out
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	shown := items
	if len(shown) > 8 {
		shown = shown[:8]
	}
	fmt.Fprintf(b, "- %s: %s\n", label, strings.Join(shown, "; "))
}

func writeTraits(b *strings.Builder, traits map[string]float64, keys []string) {
	for _, k := range keys {
		fmt.Fprintf(b, "- %s: %.2f\n", strings.ReplaceAll(k, "_", " "), traits[k])
	}
}
