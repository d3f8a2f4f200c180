package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/covpilot/covpilot/internal/coverage"
)

var (
	gapsProject string
	gapsJSON    bool
)

var gapsCmd = &cobra.Command{
	Use:   "gaps <file>",
	Short: "Show uncovered lines for a Java source file",
	Long: `Look up a source file in the project's newest JaCoCo report and print
the line numbers that no test executed, compressed into ranges.

The file is matched by path suffix, so both full paths and shorter forms
like com/example/Calculator.java work.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pc, reportPath, err := coverage.LoadReport(gapsProject)
		if err != nil {
			return err
		}

		report, err := coverage.Gaps(pc, args[0])
		if err != nil {
			if errors.Is(err, coverage.ErrNotInstrumented) {
				return fmt.Errorf("%s is not in the coverage report: run the instrumented build first", args[0])
			}
			return err
		}

		if gapsJSON {
			output, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format gap report: %w", err)
			}
			fmt.Println(string(output))
			return nil
		}

		if verbose {
			fmt.Println(styles.Muted.Render("Report: " + reportPath))
		}
		fmt.Print(renderGaps(report))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(gapsCmd)
	gapsCmd.Flags().StringVarP(&gapsProject, "project", "p", ".", "maven project root")
	gapsCmd.Flags().BoolVar(&gapsJSON, "json", false, "output as JSON")
}
