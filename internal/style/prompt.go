package style

import (
	"fmt"
	"strings"

	"styleforge/internal/models"
)

// paragraphHint maps a length class to a paragraph-count instruction.
func paragraphHint(length models.LengthClass) string {
	switch length {
	case models.LengthShort:
		return "1-2 paragraphs"
	case models.LengthLong:
		return "6-8 paragraphs"
	default:
		return "3-5 paragraphs"
	}
}

// ReplicationSystemPrompt composes the system prompt that conditions the
// model on a persona and the style-parameter vector. The thresholded
// phrasing keeps the prompt deterministic for a given vector.
func ReplicationSystemPrompt(persona *models.Persona, p models.StyleParameters, styleReference string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are replicating the writing style of %s. ", persona.Name)
	b.WriteString("Generate content that authentically captures this author's voice and stylistic patterns.\n\n")

	if persona.CommunicationStyle != "" {
		fmt.Fprintf(&b, "WRITING VOICE:\n%s\n\n", persona.CommunicationStyle)
	}
	if len(persona.Traits) > 0 {
		fmt.Fprintf(&b, "AUTHOR TRAITS: %s\n\n", strings.Join(persona.Traits, ", "))
	}
	if persona.Background != "" {
		fmt.Fprintf(&b, "BACKGROUND:\n%s\n\n", persona.Background)
	}

	b.WriteString("STYLE REPLICATION PARAMETERS:\n")
	fmt.Fprintf(&b, "- Overall style fidelity: %.0f%% adherence to the author's style\n", p.StyleFidelity*100)

	switch {
	case p.VocabularyAdherence > 0.8:
		b.WriteString("- Use vocabulary very similar to the author's typical word choices\n")
	case p.VocabularyAdherence > 0.5:
		b.WriteString("- Use vocabulary somewhat similar to the author's, with some flexibility\n")
	default:
		b.WriteString("- Use vocabulary loosely inspired by the author's, with significant flexibility\n")
	}

	switch {
	case p.SentenceStructureAdherence > 0.8:
		b.WriteString("- Closely match the author's typical sentence structures and lengths\n")
	case p.SentenceStructureAdherence > 0.5:
		b.WriteString("- Somewhat match the author's sentence patterns, with some variation\n")
	default:
		b.WriteString("- Use sentence structures loosely inspired by the author's\n")
	}

	switch {
	case p.RhetoricalDevicesUsage > 0.8:
		b.WriteString("- Frequently incorporate the author's characteristic rhetorical devices\n")
	case p.RhetoricalDevicesUsage > 0.5:
		b.WriteString("- Occasionally use the author's rhetorical devices where appropriate\n")
	default:
		b.WriteString("- Sparingly use the author's rhetorical devices, focusing more on content\n")
	}

	switch {
	case p.ToneConsistency > 0.8:
		b.WriteString("- Maintain a tone very consistent with the author's typical expression\n")
	case p.ToneConsistency > 0.5:
		b.WriteString("- Aim for a tone generally consistent with the author's, with some adaptation\n")
	default:
		b.WriteString("- Adapt tone to the content requirements while keeping subtle author cues\n")
	}

	switch {
	case p.QuirkFrequency > 0.8:
		b.WriteString("- Frequently incorporate the author's writing quirks; include 2-4 of their characteristic quirks\n")
	case p.QuirkFrequency > 0.5:
		b.WriteString("- Occasionally include the author's writing quirks where natural\n")
	default:
		b.WriteString("- Minimize the author's writing quirks, favoring smoother content\n")
	}

	switch {
	case p.CreativeFreedom < 0.3:
		b.WriteString("- Stay very close to the author's established patterns with minimal deviation\n")
	case p.CreativeFreedom < 0.7:
		b.WriteString("- Allow moderate creative adaptation while keeping the author's core style\n")
	default:
		b.WriteString("- Exercise significant creative freedom while maintaining the essence of the author's style\n")
	}

	if styleReference != "" {
		fmt.Fprintf(&b, "\nSTYLE REFERENCE SAMPLE:\n%s\n", styleReference)
	}

	b.WriteString("\nIMPORTANT: While replicating the author's style, the content must still effectively address the topic and purpose of the request. Balance style authenticity with content effectiveness.")

	return b.String()
}

// ContentRequest renders a content brief into the user prompt.
func ContentRequest(brief models.ContentBrief) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Please write %s about %s.", brief.ContentType, brief.Topic)

	if brief.TargetAudience != "" && brief.TargetAudience != "General" {
		fmt.Fprintf(&b, " The target audience is %s.", brief.TargetAudience)
	}
	fmt.Fprintf(&b, " It should be approximately %s in length.", paragraphHint(brief.Length))
	if brief.Tone != "" {
		fmt.Fprintf(&b, " The tone should be %s.", brief.Tone)
	}

	if len(brief.KeyPoints) > 0 {
		b.WriteString("\n\nPlease include the following key points:\n")
		for _, point := range brief.KeyPoints {
			fmt.Fprintf(&b, "- %s\n", point)
		}
	}

	return b.String()
}

// RefinementRequest renders the original brief, prior content and feedback
// into revision instructions. The brief keeps the revision anchored to the
// original assignment rather than just the prior text.
func RefinementRequest(brief models.ContentBrief, priorText string, fb models.FeedbackRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The content below was written as %s about %s.", brief.ContentType, brief.Topic)
	if brief.TargetAudience != "" && brief.TargetAudience != "General" {
		fmt.Fprintf(&b, " The target audience is %s.", brief.TargetAudience)
	}
	fmt.Fprintf(&b, " It should remain approximately %s in length.", paragraphHint(brief.Length))
	if brief.Tone != "" {
		fmt.Fprintf(&b, " The tone should stay %s.", brief.Tone)
	}
	b.WriteString("\n")

	if len(brief.KeyPoints) > 0 {
		b.WriteString("\nThe revision must still cover the following key points:\n")
		for _, point := range brief.KeyPoints {
			fmt.Fprintf(&b, "- %s\n", point)
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Original content:\n\n%s\n\n", priorText)
	b.WriteString("Please refine the above content based on the following feedback:\n\n")
	fmt.Fprintf(&b, "Overall Rating: %d/5\n", fb.OverallRating)
	fmt.Fprintf(&b, "Style Match Rating: %d/5\n", fb.StyleMatchRating)
	fmt.Fprintf(&b, "Content Quality Rating: %d/5\n\n", fb.ContentQualityRating)

	if len(fb.SpecificFeedback) > 0 {
		b.WriteString("Specific feedback to address:\n")
		for _, point := range fb.SpecificFeedback {
			fmt.Fprintf(&b, "- %s\n", point)
		}
		b.WriteString("\n")
	}
	if len(fb.ElementsToEmphasize) > 0 {
		b.WriteString("Stylistic elements to emphasize more:\n")
		for _, element := range fb.ElementsToEmphasize {
			fmt.Fprintf(&b, "- increase: %s\n", element)
		}
		b.WriteString("\n")
	}
	if len(fb.ElementsToReduce) > 0 {
		b.WriteString("Stylistic elements to tone down:\n")
		for _, element := range fb.ElementsToReduce {
			fmt.Fprintf(&b, "- reduce: %s\n", element)
		}
		b.WriteString("\n")
	}

	b.WriteString("Provide a revised version that addresses this feedback while maintaining the core content and purpose.")

	return b.String()
}

// AdherenceSystemPrompt asks the model to review how well a text matches a
// persona's style.
func AdherenceSystemPrompt(persona *models.Persona) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an expert literary analyst. Analyze how well the provided content matches the style of %s.\n\n", persona.Name)
	b.WriteString(`Evaluate the following aspects of style adherence:
1. Vocabulary and word choice patterns
2. Sentence structures and lengths
3. Rhetorical devices and figurative language
4. Tone and voice consistency
5. Distinctive quirks and idiosyncrasies

For each aspect provide a rating from 1-10 with specific examples, then an overall adherence score and summary.`)

	if persona.CommunicationStyle != "" {
		fmt.Fprintf(&b, "\n\nThe author's writing style is characterized as follows:\n%s", persona.CommunicationStyle)
	}

	return b.String()
}
