package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"styleforge/internal/models"
	"styleforge/internal/service"
)

var (
	refineOverall   int
	refineStyle     int
	refineQuality   int
	refineNotes     []string
	refineEmphasize []string
	refineReduce    []string
)

var refineCmd = &cobra.Command{
	Use:   "refine <artifact-id>",
	Short: "Refine an artifact based on feedback",
	Long: `Refine a generated artifact. The three ratings (1-5) steer how the style
parameters are adjusted: low style ratings tighten fidelity, high ones relax
it, and low content ratings alongside good style grant more creative freedom.

The original artifact is kept; refinement produces a new artifact whose
history records the feedback that drove it.

Examples:
  styleforge refine ab12cd34 --overall 3 --style 2 --quality 4
  styleforge refine ab12cd34 --overall 4 --style 4 --quality 2 \
    --emphasize "dry humor" --reduce "passive voice" \
    --notes "opening paragraph is too formal"`,
	Args: cobra.ExactArgs(1),
	RunE: runRefine,
}

func init() {
	refineCmd.Flags().IntVar(&refineOverall, "overall", 0, "overall rating 1-5 (required)")
	refineCmd.Flags().IntVar(&refineStyle, "style", 0, "style match rating 1-5 (required)")
	refineCmd.Flags().IntVar(&refineQuality, "quality", 0, "content quality rating 1-5 (required)")
	refineCmd.Flags().StringSliceVar(&refineNotes, "notes", nil, "specific feedback notes")
	refineCmd.Flags().StringSliceVar(&refineEmphasize, "emphasize", nil, "style elements to emphasize")
	refineCmd.Flags().StringSliceVar(&refineReduce, "reduce", nil, "style elements to reduce")

	_ = refineCmd.MarkFlagRequired("overall")
	_ = refineCmd.MarkFlagRequired("style")
	_ = refineCmd.MarkFlagRequired("quality")
}

func runRefine(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	_, genSvc, _, err := getServices(true)
	if err != nil {
		return err
	}

	req := service.RefinementRequest{
		ArtifactID: args[0],
		Feedback: models.FeedbackRecord{
			OverallRating:        refineOverall,
			StyleMatchRating:     refineStyle,
			ContentQualityRating: refineQuality,
			SpecificFeedback:     refineNotes,
			ElementsToEmphasize:  refineEmphasize,
			ElementsToReduce:     refineReduce,
		},
	}

	task, err := genSvc.StartRefinement(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("Refinement task %s submitted\n", task.ID)

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
