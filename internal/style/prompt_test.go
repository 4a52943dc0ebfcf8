package style

import (
	"strings"
	"testing"

	"styleforge/internal/models"
)

func testPersona() *models.Persona {
	return &models.Persona{
		ID:                 "persona:test",
		Name:               "Ursula Sample",
		Traits:             []string{"wry", "precise"},
		Background:         "Essayist and former journalist.",
		CommunicationStyle: "Short declaratives punctuated by long, winding asides.",
	}
}

func TestReplicationSystemPromptThresholds(t *testing.T) {
	tests := []struct {
		name     string
		fidelity float64
		want     []string
		notWant  []string
	}{
		{
			name:     "high fidelity",
			fidelity: 1.0,
			want: []string{
				"vocabulary very similar",
				"Closely match the author's typical sentence structures",
				"very consistent with the author's typical expression",
			},
			notWant: []string{"significant creative freedom"},
		},
		{
			name:     "low fidelity",
			fidelity: 0.2,
			want: []string{
				"loosely inspired",
				"significant creative freedom",
			},
			notWant: []string{"vocabulary very similar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DeriveParameters(tt.fidelity)
			prompt := ReplicationSystemPrompt(testPersona(), p, "")

			for _, want := range tt.want {
				if !strings.Contains(prompt, want) {
					t.Errorf("prompt missing %q", want)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(prompt, notWant) {
					t.Errorf("prompt unexpectedly contains %q", notWant)
				}
			}
		})
	}
}

func TestReplicationSystemPromptIncludesPersona(t *testing.T) {
	prompt := ReplicationSystemPrompt(testPersona(), DeriveParameters(0.8), "A style sample.")

	for _, want := range []string{"Ursula Sample", "wry", "winding asides", "STYLE REFERENCE SAMPLE", "A style sample."} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestContentRequest(t *testing.T) {
	brief := models.ContentBrief{
		Topic:          "container networking",
		ContentType:    "blog post",
		TargetAudience: "platform engineers",
		KeyPoints:      []string{"overlay networks", "DNS pitfalls"},
		Tone:           "practical",
		Length:         models.LengthShort,
	}

	req := ContentRequest(brief)

	for _, want := range []string{
		"blog post about container networking",
		"platform engineers",
		"1-2 paragraphs",
		"practical",
		"- overlay networks",
		"- DNS pitfalls",
	} {
		if !strings.Contains(req, want) {
			t.Errorf("request missing %q", want)
		}
	}
}

func TestContentRequestDefaultLength(t *testing.T) {
	req := ContentRequest(models.ContentBrief{Topic: "tea", ContentType: "essay"})
	if !strings.Contains(req, "3-5 paragraphs") {
		t.Errorf("expected default medium length hint, got: %s", req)
	}
}

func TestRefinementRequest(t *testing.T) {
	brief := models.ContentBrief{
		Topic:          "container networking",
		ContentType:    "a blog post",
		TargetAudience: "platform engineers",
		KeyPoints:      []string{"overlay networks"},
		Tone:           "practical",
		Length:         models.LengthShort,
	}
	fb := models.FeedbackRecord{
		OverallRating:        3,
		StyleMatchRating:     2,
		ContentQualityRating: 4,
		SpecificFeedback:     []string{"the opening is flat"},
		ElementsToEmphasize:  []string{"metaphors"},
		ElementsToReduce:     []string{"passive voice"},
	}

	req := RefinementRequest(brief, "Prior draft text.", fb)

	for _, want := range []string{
		"a blog post about container networking",
		"platform engineers",
		"1-2 paragraphs",
		"practical",
		"- overlay networks",
		"Prior draft text.",
		"Overall Rating: 3/5",
		"Style Match Rating: 2/5",
		"Content Quality Rating: 4/5",
		"- the opening is flat",
		"- increase: metaphors",
		"- reduce: passive voice",
	} {
		if !strings.Contains(req, want) {
			t.Errorf("request missing %q", want)
		}
	}
}
