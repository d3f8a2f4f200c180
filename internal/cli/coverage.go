package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/covpilot/covpilot/internal/coverage"
)

var (
	coverageThreshold float64
	coverageJSON      bool
)

var coverageCmd = &cobra.Command{
	Use:   "coverage [project]",
	Short: "Show aggregated JaCoCo coverage for a project",
	Long: `Locate the most recent jacoco.xml report under the project and print
overall coverage percentages per counter kind, plus the files that fall
below the configured threshold.

Run the instrumented build first (covpilot run) if no report exists yet.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectDir, err := resolveProjectDir(args)
		if err != nil {
			return err
		}

		cfg, err := projectConfig(projectDir)
		if err != nil {
			return err
		}

		threshold := coverageThreshold
		if threshold == 0 {
			threshold = cfg.Coverage.Threshold
		}

		summary, reportPath, err := coverageSummary(projectDir, threshold)
		if err != nil {
			return err
		}

		if coverageJSON {
			output, err := json.MarshalIndent(summary, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format summary: %w", err)
			}
			fmt.Println(string(output))
			return nil
		}

		if verbose {
			fmt.Println(styles.Muted.Render("Report: " + reportPath))
		}
		fmt.Print(renderSummary(summary))

		return nil
	},
}

// coverageSummary loads the project's newest report and aggregates it against
// the threshold. The report path is returned for verbose output.
func coverageSummary(projectDir string, threshold float64) (coverage.Summary, string, error) {
	pc, reportPath, err := coverage.LoadReport(projectDir)
	if err != nil {
		return coverage.Summary{}, "", err
	}
	return coverage.Aggregate(pc, threshold), reportPath, nil
}

func init() {
	rootCmd.AddCommand(coverageCmd)
	coverageCmd.Flags().Float64VarP(&coverageThreshold, "threshold", "t", 0, "line coverage target percentage (default from config)")
	coverageCmd.Flags().BoolVar(&coverageJSON, "json", false, "output as JSON")
}
