package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/covpilot/covpilot/internal/maven"
	"github.com/covpilot/covpilot/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [project]",
	Short: "Rebuild and re-measure coverage on source changes",
	Long: `Watch the project's src tree and run the instrumented maven build
whenever Java sources change. Rapid edits are batched, and a branch
switch triggers a full rebuild.

Press Ctrl+C to stop.`,
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

		// Watch src only. Maven writes target on every build, and watching
		// the project root would retrigger the build forever.
		srcDir := filepath.Join(projectDir, "src")
		if _, err := os.Stat(srcDir); err != nil {
			return fmt.Errorf("no src directory in %s: is this a maven project?", projectDir)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Handle interrupt signals for clean shutdown
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigChan
			fmt.Println("\nInterrupted! Stopping watch...")
			cancel()
		}()

		sources, err := watcher.NewSourceWatcher([]string{srcDir}, nil)
		if err != nil {
			return fmt.Errorf("failed to create source watcher: %w", err)
		}

		var branches watcher.BranchWatcher
		gitDir := filepath.Join(projectDir, ".git")
		if _, err := os.Stat(filepath.Join(gitDir, "HEAD")); err == nil {
			branches, err = watcher.NewBranchWatcher(gitDir)
			if err != nil {
				return fmt.Errorf("failed to create branch watcher: %w", err)
			}
		}

		runner := maven.NewRunner()
		opts := maven.RunOptions{
			ProjectPath: projectDir,
			Binary:      cfg.Maven.Binary,
			Goals:       cfg.Maven.Goals,
			Timeout:     time.Duration(cfg.MavenTimeout()) * time.Second,
		}

		build := func(buildCtx context.Context, _ []string) {
			result, err := runner.RunTests(buildCtx, opts)
			if err != nil {
				fmt.Println(styles.Fail.Render("✗ " + err.Error()))
				return
			}
			fmt.Print(renderBuild(result))
			if result.Success {
				summary, _, err := coverageSummary(projectDir, cfg.Coverage.Threshold)
				if err != nil {
					fmt.Println(styles.Warn.Render("no coverage report: " + err.Error()))
					return
				}
				fmt.Print(renderSummary(summary))
			}
			fmt.Println()
		}

		fmt.Printf("Watching %s for changes (Ctrl+C to stop)\n\n", srcDir)
		build(ctx, nil)

		coordinator := watcher.NewCoordinator(sources, branches, build)
		if err := coordinator.Start(ctx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("watch failed: %w", err)
		}

		fmt.Println("Watch stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
