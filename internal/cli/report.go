package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"styleforge/internal/analysis"
)

var reportCmd = &cobra.Command{
	Use:   "report <feature-record-id>",
	Short: "Render the analysis report for a style fingerprint",
	Long: `Render a stored style fingerprint as a readable markdown report covering
vocabulary, sentence structure, stylistic elements and trait estimates.

Example:
  styleforge report ef56gh78`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	analysisSvc, _, _, err := getServices(false)
	if err != nil {
		return err
	}

	record, err := analysisSvc.GetFeatureRecord(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Println(analysis.RenderReport(record))
	return nil
}
