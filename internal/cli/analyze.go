package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"styleforge/internal/analysis"
	"styleforge/internal/models"
)

var analyzeReport bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <path>...",
	Short: "Analyze a writing corpus into a style fingerprint",
	Long: `Analyze one or more text or markdown files (or directories of them) and
store the resulting style fingerprint. Unreadable files are skipped with a
warning; they never fail the analysis.

Examples:
  styleforge analyze ./corpus
  styleforge analyze essay1.md essay2.md --report`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeReport, "report", false, "print the analysis report on completion")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	paths, err := expandPaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no .txt or .md files found under %s", strings.Join(args, ", "))
	}

	analysisSvc, _, _, err := getServices(true)
	if err != nil {
		return err
	}

	task := analysisSvc.StartAnalysis(ctx, paths)
	fmt.Printf("Analysis task %s submitted (%d documents)\n", task.ID, len(paths))

	rec, err := awaitTask(task)
	if err != nil {
		return err
	}
	if rec.State != models.TaskStateCompleted {
		return nil
	}

	recordID := resultID(rec, "feature_record")
	fmt.Printf("\nFeature record: %s\n", recordID)

	record, err := analysisSvc.GetFeatureRecord(ctx, recordID)
	if err != nil {
		return fmt.Errorf("fetch feature record: %w", err)
	}

	if record.ExtractionError {
		fmt.Println("Note: the style extraction degraded to neutral defaults; see the report for details.")
	}
	if analyzeReport {
		fmt.Println()
		fmt.Println(analysis.RenderReport(record))
	} else {
		fmt.Printf("Use 'styleforge report %s' to view the analysis.\n", recordID)
	}

	printMetrics()
	return nil
}

// expandPaths resolves directory arguments into the .txt and .md files they
// contain. Plain file arguments pass through untouched so that unsupported
// extensions still surface as extraction warnings.
func expandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".txt", ".md", ".markdown":
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// resultID strips the "<table>:" prefix from a task's result reference.
func resultID(rec models.TaskRecord, table string) string {
	if rec.ResultRef == nil {
		return ""
	}
	return strings.TrimPrefix(*rec.ResultRef, table+":")
}
