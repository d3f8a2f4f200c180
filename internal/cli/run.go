package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/covpilot/covpilot/internal/maven"
)

var (
	runGoals   []string
	runTimeout int
	runJSON    bool
)

var runCmd = &cobra.Command{
	Use:   "run [project]",
	Short: "Run the instrumented maven build",
	Long: `Invoke maven with the configured goals (clean test jacoco:report by
default), capture the output, and report test counts and the coverage
report location.

The build is cancelled cleanly on Ctrl+C.`,
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

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Handle interrupt signals for clean cancellation
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigChan
			fmt.Println("\nInterrupted! Cancelling build...")
			cancel()
		}()

		opts := maven.RunOptions{
			ProjectPath: projectDir,
			Binary:      cfg.Maven.Binary,
			Goals:       cfg.Maven.Goals,
			Timeout:     time.Duration(cfg.MavenTimeout()) * time.Second,
		}
		if len(runGoals) > 0 {
			opts.Goals = runGoals
		}
		if runTimeout > 0 {
			opts.Timeout = time.Duration(runTimeout) * time.Second
		}

		if !runJSON {
			fmt.Printf("Running %s %v in %s\n\n", opts.Binary, opts.Goals, projectDir)
		}

		runner := maven.NewRunner()
		result, err := runner.RunTests(ctx, opts)
		if err != nil {
			return fmt.Errorf("maven invocation failed: %w", err)
		}

		if runJSON {
			output, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format build result: %w", err)
			}
			fmt.Println(string(output))
		} else {
			fmt.Print(renderBuild(result))
		}

		if !result.Success {
			return fmt.Errorf("build failed with exit code %d", result.ExitCode)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringSliceVar(&runGoals, "goals", nil, "maven goals to run (default from config)")
	runCmd.Flags().IntVar(&runTimeout, "timeout", 0, "build timeout in seconds (default from config)")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "output as JSON")
}
