package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/covpilot/covpilot/internal/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "covpilot",
	Short: "Coverage-driven test tooling for Java Maven projects",
	Long: `Covpilot measures JaCoCo coverage, finds the gaps, and drives the
build-measure-scaffold cycle that closes them.

It reads target/site/jacoco/jacoco.xml, renders per-file gap reports,
generates JUnit 5 test skeletons, runs maven builds, and exposes the
same operations to coding assistants over MCP.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initEnv)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <project>/.covpilot/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initEnv loads a .env file when present so COVPILOT_* overrides work in
// development without exporting them.
func initEnv() {
	_ = godotenv.Load()
}

// resolveProjectDir returns the project root from the first positional
// argument, defaulting to the current directory.
func resolveProjectDir(args []string) (string, error) {
	if len(args) > 0 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to resolve project path: %w", err)
		}
		return abs, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return dir, nil
}

// projectConfig loads the effective configuration for a project, honoring
// the global --config flag.
func projectConfig(projectDir string) (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadConfigFile(cfgFile)
	}
	return config.LoadConfigFromDir(projectDir)
}
