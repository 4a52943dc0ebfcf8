package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	showLimit   int
	showHistory bool
)

var showCmd = &cobra.Command{
	Use:   "show [artifact-id]",
	Short: "Show a content artifact, or list artifacts",
	Long: `Show a stored content artifact including its text, or list recent
artifacts when no ID is given.

Examples:
  styleforge show             # List recent artifacts
  styleforge show ab12cd34    # Print artifact ab12cd34
  styleforge show ab12cd34 --history`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().IntVarP(&showLimit, "limit", "n", 50, "max results when listing")
	showCmd.Flags().BoolVar(&showHistory, "history", false, "include the refinement history")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	_, genSvc, _, err := getServices(false)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		artifacts, err := genSvc.ListArtifacts(ctx, showLimit)
		if err != nil {
			return fmt.Errorf("list artifacts: %w", err)
		}

		if len(artifacts) == 0 {
			fmt.Println("No artifacts found.")
			return nil
		}

		fmt.Printf("Artifacts (%d):\n\n", len(artifacts))
		for _, a := range artifacts {
			fmt.Printf("- %s  v%d  %s [%s]\n", a.ID, a.Version(), a.Brief.Topic, a.Brief.ContentType)
		}
		return nil
	}

	artifact, err := genSvc.GetArtifact(ctx, args[0])
	if err != nil {
		return err
	}

	printArtifact(artifact, true)

	if showHistory && len(artifact.RefinementHistory) > 0 {
		fmt.Printf("\nRefinement history (%d):\n", len(artifact.RefinementHistory))
		for i, fb := range artifact.RefinementHistory {
			fmt.Printf("  %d. overall %d, style %d, quality %d\n",
				i+1, fb.OverallRating, fb.StyleMatchRating, fb.ContentQualityRating)
			for _, note := range fb.SpecificFeedback {
				fmt.Printf("     note: %s\n", note)
			}
			for _, e := range fb.ElementsToEmphasize {
				fmt.Printf("     emphasize: %s\n", e)
			}
			for _, e := range fb.ElementsToReduce {
				fmt.Printf("     reduce: %s\n", e)
			}
		}
	}

	return nil
}
