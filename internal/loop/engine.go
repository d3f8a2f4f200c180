package loop

// Implementation Plan:
// 1. Each round: run the instrumented build, load the report, aggregate
// 2. Stop when the target is met, the build breaks, or rounds run out
// 3. Between rounds, optionally scaffold specification tests for the
//    worst-covered files so the next round executes more code
// 4. Stop early when coverage is not moving and nothing new was scaffolded

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/covpilot/covpilot/internal/coverage"
	"github.com/covpilot/covpilot/internal/javasrc"
	"github.com/covpilot/covpilot/internal/maven"
	"github.com/covpilot/covpilot/internal/scaffold"
)

// Stop reasons.
const (
	StopTargetMet   = "target-met"
	StopMaxRounds   = "max-rounds"
	StopBuildFailed = "build-failed"
	StopNoProgress  = "no-progress"
)

// Reporter receives progress events during a loop run.
type Reporter interface {
	RoundStarted(round, total int)
	RoundFinished(outcome RoundOutcome)
	Done(result *Result)
}

// RoundOutcome records one build-measure round.
type RoundOutcome struct {
	Round        int      `json:"round"`
	BuildSuccess bool     `json:"build_success"`
	OverallLine  float64  `json:"overall_line"`
	MeetsTarget  bool     `json:"meets_target"`
	FilesBelow   int      `json:"files_below_threshold"`
	Scaffolded   []string `json:"scaffolded,omitempty"`
	DurationMS   int64    `json:"duration_ms"`
}

// Result is the full loop history.
type Result struct {
	Rounds      []RoundOutcome `json:"rounds"`
	FinalLine   float64        `json:"final_line"`
	MeetsTarget bool           `json:"meets_target"`
	Stopped     string         `json:"stopped"`
}

// Options configures a loop run.
type Options struct {
	ProjectPath string
	Threshold   float64
	MaxRounds   int
	RunOptions  maven.RunOptions // Binary, Goals, Timeout; ProjectPath is set by the engine

	// EmitScaffolds writes specification test skeletons for the worst
	// files after a round that misses the target, so the next round
	// executes more production code.
	EmitScaffolds bool

	// ScaffoldDir is the test source root relative to the project,
	// default "src/test/java".
	ScaffoldDir string

	// SpecMethodLimit caps methods per generated specification class.
	SpecMethodLimit int
}

// Engine drives bounded build-measure-scaffold rounds.
type Engine struct {
	runner    maven.Runner
	extractor *javasrc.Extractor
	reporter  Reporter

	// ScaffoldsPerRound caps new skeletons per round.
	ScaffoldsPerRound int
}

// NewEngine creates an engine. A nil reporter is replaced with a no-op.
func NewEngine(runner maven.Runner, reporter Reporter) *Engine {
	if reporter == nil {
		reporter = noopReporter{}
	}
	return &Engine{
		runner:            runner,
		extractor:         javasrc.NewExtractor(),
		reporter:          reporter,
		ScaffoldsPerRound: 3,
	}
}

// Run executes rounds until the target is met or a stop condition fires.
// Build failures and a missed target are reported outcomes; only
// invocation problems return an error.
func (e *Engine) Run(ctx context.Context, opts Options) (*Result, error) {
	maxRounds := opts.MaxRounds
	if maxRounds <= 0 {
		maxRounds = 5
	}
	scaffoldDir := opts.ScaffoldDir
	if scaffoldDir == "" {
		scaffoldDir = "src/test/java"
	}
	specLimit := opts.SpecMethodLimit
	if specLimit <= 0 {
		specLimit = scaffold.DefaultSpecMethodLimit
	}

	result := &Result{Rounds: []RoundOutcome{}}

	for round := 1; round <= maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		e.reporter.RoundStarted(round, maxRounds)

		runOpts := opts.RunOptions
		runOpts.ProjectPath = opts.ProjectPath
		build, err := e.runner.RunTests(ctx, runOpts)
		if err != nil {
			return nil, err
		}

		outcome := RoundOutcome{
			Round:        round,
			BuildSuccess: build.Success,
			DurationMS:   build.DurationMS,
		}

		if !build.Success {
			// Broken tests will not fix themselves by re-running.
			result.Rounds = append(result.Rounds, outcome)
			result.Stopped = StopBuildFailed
			e.reporter.RoundFinished(outcome)
			break
		}

		pc, _, err := coverage.LoadReport(opts.ProjectPath)
		if err != nil {
			return nil, fmt.Errorf("build succeeded but no report was produced: %w", err)
		}

		summary := coverage.Aggregate(pc, opts.Threshold)
		outcome.OverallLine = summary.Overall[coverage.KindLine]
		outcome.MeetsTarget = summary.MeetsTarget
		outcome.FilesBelow = len(summary.FilesBelowThreshold)

		if summary.MeetsTarget {
			result.Rounds = append(result.Rounds, outcome)
			result.Stopped = StopTargetMet
			e.reporter.RoundFinished(outcome)
			break
		}

		if opts.EmitScaffolds && round < maxRounds {
			// FilesBelowThreshold is sorted worst-first, so the head of
			// the list is where new tests help most.
			outcome.Scaffolded = e.scaffoldWorstFiles(opts.ProjectPath, scaffoldDir, summary.FilesBelowThreshold, specLimit)
		}

		if round > 1 && len(outcome.Scaffolded) == 0 {
			prev := result.Rounds[len(result.Rounds)-1]
			if outcome.OverallLine <= prev.OverallLine {
				result.Rounds = append(result.Rounds, outcome)
				result.Stopped = StopNoProgress
				e.reporter.RoundFinished(outcome)
				break
			}
		}

		result.Rounds = append(result.Rounds, outcome)
		e.reporter.RoundFinished(outcome)
	}

	if result.Stopped == "" {
		result.Stopped = StopMaxRounds
	}
	if len(result.Rounds) > 0 {
		last := result.Rounds[len(result.Rounds)-1]
		result.FinalLine = last.OverallLine
		result.MeetsTarget = last.MeetsTarget
	}

	e.reporter.Done(result)
	return result, nil
}

// scaffoldWorstFiles writes specification skeletons for the head of the
// worst-first list. Files whose skeleton already exists are skipped, as
// are files whose source cannot be found or parsed.
func (e *Engine) scaffoldWorstFiles(projectPath, scaffoldDir string, worstFirst []string, specLimit int) []string {
	written := []string{}
	for _, covPath := range worstFirst {
		if len(written) >= e.ScaffoldsPerRound {
			break
		}
		relPath, err := e.scaffoldOne(projectPath, scaffoldDir, covPath, specLimit)
		if err != nil || relPath == "" {
			continue
		}
		written = append(written, relPath)
	}
	return written
}

// scaffoldOne generates one specification test class. Returns the
// written path relative to the project, or empty when skipped.
func (e *Engine) scaffoldOne(projectPath, scaffoldDir, covPath string, specLimit int) (string, error) {
	sourcePath, err := findSource(projectPath, covPath)
	if err != nil {
		return "", err
	}

	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return "", err
	}

	model, err := e.extractor.Extract(source)
	if err != nil {
		return "", err
	}

	class := model.PrimaryClass()
	if class == "" {
		return "", nil
	}

	template := scaffold.SpecificationTests(model.Package, class, model.MethodsOf(class), specLimit)

	destDir := filepath.Join(projectPath, filepath.FromSlash(scaffoldDir), packagePath(model.Package))
	dest := filepath.Join(destDir, template.FileName)

	// Never clobber an existing test class.
	if _, err := os.Stat(dest); err == nil {
		return "", nil
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(dest, []byte(template.Source), 0644); err != nil {
		return "", err
	}

	rel, err := filepath.Rel(projectPath, dest)
	if err != nil {
		return dest, nil
	}
	return filepath.ToSlash(rel), nil
}

// findSource maps a report path like "com/example/Foo.java" to the
// production source file. The maven convention is tried first, then a
// suffix search over the tree.
func findSource(projectPath, covPath string) (string, error) {
	covPath = filepath.FromSlash(covPath)

	conventional := filepath.Join(projectPath, "src", "main", "java", covPath)
	if _, err := os.Stat(conventional); err == nil {
		return conventional, nil
	}

	var found string
	suffix := string(filepath.Separator) + covPath
	err := filepath.Walk(projectPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			name := info.Name()
			if name == ".git" || name == "target" || name == "node_modules" {
				return filepath.SkipDir
			}
			// Generated and test sources are not scaffold targets.
			if strings.HasSuffix(filepath.ToSlash(path), "src/test") {
				return filepath.SkipDir
			}
			return nil
		}
		if found == "" && strings.HasSuffix(path, suffix) {
			found = path
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("no source found for %s", covPath)
	}
	return found, nil
}

// packagePath converts "com.example.util" to "com/example/util".
func packagePath(pkg string) string {
	if pkg == "" {
		return ""
	}
	return filepath.FromSlash(strings.ReplaceAll(pkg, ".", "/"))
}

type noopReporter struct{}

func (noopReporter) RoundStarted(round, total int)      {}
func (noopReporter) RoundFinished(outcome RoundOutcome) {}
func (noopReporter) Done(result *Result)                {}
