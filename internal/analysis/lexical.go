// Package analysis extracts a quantified style fingerprint from a document
// corpus by combining locally computed lexical statistics with structured
// judgments from a language model.
package analysis

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// lexicalStats holds everything computable without a model call.
type lexicalStats struct {
	WordCount          int
	SentenceCount      int
	VocabularySize     int
	AvgWordLength      float64
	WordFrequencies    map[string]int
	RareWords          []string
	AvgSentenceLength  float64
	SentenceLenStdDev  float64
	PunctuationUsage   map[string]int
}

// rareWordMinLength filters trivially short hapaxes out of the rare-word list.
const rareWordMinLength = 7

var trackedPunctuation = []rune{'.', ',', ';', ':', '!', '?', '-', '(', ')', '"', '\''}

// tokenizeWords splits text into lowercased word tokens, stripping
// surrounding punctuation but keeping internal apostrophes and hyphens.
func tokenizeWords(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r)
	})

	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if w == "" {
			continue
		}
		words = append(words, strings.ToLower(w))
	}
	return words
}

// splitSentences splits text on terminal punctuation. Consecutive terminators
// (ellipses, "?!") count as one boundary.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()

	// Merge fragments produced by consecutive terminators.
	merged := sentences[:0]
	for _, s := range sentences {
		if trimmed := strings.TrimLeft(s, ".!? "); trimmed == "" {
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// computeLexical derives all locally computable statistics from raw texts.
func computeLexical(texts []string) lexicalStats {
	stats := lexicalStats{
		WordFrequencies:  make(map[string]int),
		PunctuationUsage: make(map[string]int),
		RareWords:        []string{},
	}

	var totalWordLen int
	var sentenceLengths []int

	for _, text := range texts {
		words := tokenizeWords(text)
		stats.WordCount += len(words)
		for _, w := range words {
			stats.WordFrequencies[w]++
			totalWordLen += len([]rune(w))
		}

		for _, s := range splitSentences(text) {
			sentenceLengths = append(sentenceLengths, len(tokenizeWords(s)))
		}

		for _, r := range text {
			for _, p := range trackedPunctuation {
				if r == p {
					stats.PunctuationUsage[string(p)]++
				}
			}
		}
	}

	stats.SentenceCount = len(sentenceLengths)
	stats.VocabularySize = len(stats.WordFrequencies)

	if stats.WordCount > 0 {
		stats.AvgWordLength = float64(totalWordLen) / float64(stats.WordCount)
	}

	if len(sentenceLengths) > 0 {
		var sum int
		for _, l := range sentenceLengths {
			sum += l
		}
		mean := float64(sum) / float64(len(sentenceLengths))
		stats.AvgSentenceLength = mean

		var variance float64
		for _, l := range sentenceLengths {
			d := float64(l) - mean
			variance += d * d
		}
		stats.SentenceLenStdDev = math.Sqrt(variance / float64(len(sentenceLengths)))
	}

	for w, freq := range stats.WordFrequencies {
		if freq == 1 && len([]rune(w)) >= rareWordMinLength {
			stats.RareWords = append(stats.RareWords, w)
		}
	}
	sort.Strings(stats.RareWords)

	return stats
}

// topWords returns the n most frequent words, ties broken alphabetically.
func topWords(frequencies map[string]int, n int) []string {
	type wordFreq struct {
		word string
		freq int
	}
	pairs := make([]wordFreq, 0, len(frequencies))
	for w, f := range frequencies {
		pairs = append(pairs, wordFreq{w, f})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].freq != pairs[j].freq {
			return pairs[i].freq > pairs[j].freq
		}
		return pairs[i].word < pairs[j].word
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return words
}
