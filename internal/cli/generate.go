package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"styleforge/internal/models"
	"styleforge/internal/service"
)

var (
	genPersona   string
	genTopic     string
	genType      string
	genAudience  string
	genKeyPoints []string
	genTone      string
	genLength    string
	genFidelity  float64
	genFeatures  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate content in a persona's style",
	Long: `Generate a content artifact conditioned on a persona and an optional
analyzed style fingerprint. The fidelity value (0-1) controls how strictly
the output follows the source style versus taking creative liberties.

Examples:
  styleforge generate --persona ab12cd34 --topic "Remote work" --type blog_post
  styleforge generate --persona ab12cd34 --topic "Q3 results" --type email \
    --audience "the team" --tone upbeat --length short --fidelity 0.9
  styleforge generate --persona ab12cd34 --features ef56gh78 --topic "On craft" --type essay`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genPersona, "persona", "p", "", "persona ID (required)")
	generateCmd.Flags().StringVar(&genTopic, "topic", "", "what the content is about (required)")
	generateCmd.Flags().StringVar(&genType, "type", "", "content type, e.g. blog_post, email, essay (required)")
	generateCmd.Flags().StringVar(&genAudience, "audience", "", "target audience")
	generateCmd.Flags().StringSliceVar(&genKeyPoints, "key-points", nil, "key points the content must cover")
	generateCmd.Flags().StringVar(&genTone, "tone", "", "desired tone")
	generateCmd.Flags().StringVar(&genLength, "length", "", "length class: short, medium or long")
	generateCmd.Flags().Float64Var(&genFidelity, "fidelity", 0.8, "style fidelity in [0,1]")
	generateCmd.Flags().StringVar(&genFeatures, "features", "", "feature record ID to ground the style in")

	_ = generateCmd.MarkFlagRequired("persona")
	_ = generateCmd.MarkFlagRequired("topic")
	_ = generateCmd.MarkFlagRequired("type")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	_, genSvc, _, err := getServices(true)
	if err != nil {
		return err
	}

	req := service.GenerationRequest{
		Brief: models.ContentBrief{
			Topic:          genTopic,
			ContentType:    genType,
			TargetAudience: genAudience,
			KeyPoints:      genKeyPoints,
			Tone:           genTone,
			Length:         models.LengthClass(genLength),
		},
		PersonaID:       genPersona,
		FeatureRecordID: genFeatures,
		Fidelity:        genFidelity,
	}

	task, err := genSvc.StartGeneration(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("Generation task %s submitted\n", task.ID)

	rec, err := awaitTask(task)
	if err != nil {
		return err
	}
	if rec.State != models.TaskStateCompleted {
		return nil
	}

	artifact, err := genSvc.GetArtifact(ctx, resultID(rec, "artifact"))
	if err != nil {
		return fmt.Errorf("fetch artifact: %w", err)
	}

	printArtifact(artifact, true)
	printMetrics()
	return nil
}

// printArtifact renders an artifact. Full mode includes the content text;
// otherwise only the header lines are shown.
func printArtifact(a *models.ContentArtifact, full bool) {
	fmt.Printf("Artifact: %s (version %d)\n", a.ID, a.Version())
	fmt.Printf("  Topic: %s [%s]\n", a.Brief.Topic, a.Brief.ContentType)
	if a.PersonaID != "" {
		fmt.Printf("  Persona: %s\n", a.PersonaID)
	}
	if a.PreviousVersionID != "" {
		fmt.Printf("  Refines: %s\n", a.PreviousVersionID)
	}
	fmt.Printf("  Model: %s (temperature %.2f)\n", a.Metadata.ModelName, a.Metadata.Temperature)
	fmt.Printf("  Fidelity: %.2f\n", a.StyleParameters.StyleFidelity)

	if verbose {
		p := a.StyleParameters
		fmt.Printf("  Parameters: vocabulary %.2f, sentence structure %.2f, rhetorical %.2f, tone %.2f, quirks %.2f, creative freedom %.2f\n",
			p.VocabularyAdherence, p.SentenceStructureAdherence, p.RhetoricalDevicesUsage,
			p.ToneConsistency, p.QuirkFrequency, p.CreativeFreedom)
	}

	if full {
		fmt.Printf("\n%s\n", a.ContentText)
	}
}
