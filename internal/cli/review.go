package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/covpilot/covpilot/internal/review"
)

var reviewJSON bool

var reviewCmd = &cobra.Command{
	Use:   "review <file>",
	Short: "Scan a Java source file for quality and security smells",
	Long: `Check a Java file for patterns worth a human look: SQL built by string
concatenation, console logging, swallowed exceptions, overlong methods,
wildcard and unused imports, and public methods without javadoc.

Findings are advisory. The scanner never edits the file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		report := review.NewScanner().Scan(args[0], source)

		if reviewJSON {
			output, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format review report: %w", err)
			}
			fmt.Println(string(output))
			return nil
		}

		fmt.Print(renderReview(report))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.Flags().BoolVar(&reviewJSON, "json", false, "output as JSON")
}
