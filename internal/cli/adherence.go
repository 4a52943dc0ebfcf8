package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var adherenceCmd = &cobra.Command{
	Use:   "adherence <persona-id> [file]",
	Short: "Review how well a text matches a persona's style",
	Long: `Ask the model to review a text against a persona's voice and style.
Reads the text from the given file, or from stdin when no file is given.

Examples:
  styleforge adherence ab12cd34 draft.md
  cat draft.md | styleforge adherence ab12cd34`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAdherence,
}

func runAdherence(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var text []byte
	var err error
	if len(args) == 2 {
		text, err = os.ReadFile(args[1])
	} else {
		text, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("read text: %w", err)
	}

	_, _, personaSvc, err := getServices(true)
	if err != nil {
		return err
	}

	review, err := personaSvc.ReviewAdherence(ctx, args[0], string(text))
	if err != nil {
		return err
	}

	fmt.Println(review)
	return nil
}
