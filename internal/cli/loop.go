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

	"github.com/covpilot/covpilot/internal/loop"
	"github.com/covpilot/covpilot/internal/maven"
)

var (
	loopRounds    int
	loopThreshold float64
	loopScaffold  bool
	loopQuiet     bool
	loopJSON      bool
)

var loopCmd = &cobra.Command{
	Use:   "loop [project]",
	Short: "Run build-measure-scaffold rounds until coverage meets the target",
	Long: `Repeatedly run the instrumented maven build, measure line coverage, and
emit test skeletons for the files still below the threshold. The loop
stops when the target is met, the round budget is spent, coverage stops
improving, or the build breaks.

Each round's outcome is reported as it completes.`,
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
			fmt.Println("\nInterrupted! Stopping after the current round...")
			cancel()
		}()

		opts := loop.Options{
			ProjectPath: projectDir,
			Threshold:   cfg.Coverage.Threshold,
			MaxRounds:   cfg.Loop.MaxIterations,
			RunOptions: maven.RunOptions{
				ProjectPath: projectDir,
				Binary:      cfg.Maven.Binary,
				Goals:       cfg.Maven.Goals,
				Timeout:     time.Duration(cfg.MavenTimeout()) * time.Second,
			},
			EmitScaffolds:   loopScaffold,
			ScaffoldDir:     cfg.Scaffold.OutputDir,
			SpecMethodLimit: cfg.Scaffold.SpecMethodLimit,
		}
		if loopThreshold > 0 {
			opts.Threshold = loopThreshold
		}
		if loopRounds > 0 {
			opts.MaxRounds = loopRounds
		}

		engine := loop.NewEngine(maven.NewRunner(), newLoopReporter(loopQuiet || loopJSON))

		result, err := engine.Run(ctx, opts)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("loop cancelled")
			}
			return err
		}

		if loopJSON {
			output, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format loop result: %w", err)
			}
			fmt.Println(string(output))
		}

		if !result.MeetsTarget {
			return fmt.Errorf("coverage target not met: %.1f%% (stopped: %s)", result.FinalLine, result.Stopped)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(loopCmd)
	loopCmd.Flags().IntVar(&loopRounds, "rounds", 0, "max build rounds (default from config)")
	loopCmd.Flags().Float64VarP(&loopThreshold, "threshold", "t", 0, "line coverage target percentage (default from config)")
	loopCmd.Flags().BoolVar(&loopScaffold, "scaffold", false, "write test skeletons for files below threshold each round")
	loopCmd.Flags().BoolVarP(&loopQuiet, "quiet", "q", false, "suppress per-round progress output")
	loopCmd.Flags().BoolVar(&loopJSON, "json", false, "output the final result as JSON")
}
