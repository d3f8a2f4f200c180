package maven

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/covpilot/covpilot/internal/coverage"
	"github.com/covpilot/covpilot/internal/extool"
)

// DefaultGoals produce an instrumented test run with a JaCoCo report.
var DefaultGoals = []string{"clean", "test", "jacoco:report"}

// DefaultTimeout bounds a single maven invocation.
const DefaultTimeout = 5 * time.Minute

// maxOutputLines caps how much build output a BuildResult carries.
const maxOutputLines = 200

// Runner executes maven builds.
type Runner interface {
	// RunTests runs the configured goals in the project directory. A build
	// that compiles and runs but fails tests is a reported outcome, not an
	// error; only invocation problems (no pom, missing binary) error.
	RunTests(ctx context.Context, opts RunOptions) (*BuildResult, error)
}

// RunOptions configures a test run. Zero values fall back to defaults.
type RunOptions struct {
	ProjectPath string
	Binary      string        // default "mvn"
	Goals       []string      // default DefaultGoals
	Timeout     time.Duration // default DefaultTimeout
}

// TestSummary is the final surefire result line, when one was printed.
type TestSummary struct {
	Run      int `json:"run"`
	Failures int `json:"failures"`
	Errors   int `json:"errors"`
	Skipped  int `json:"skipped"`
}

// BuildResult reports a completed maven invocation.
type BuildResult struct {
	RunID      string       `json:"run_id"`
	Success    bool         `json:"success"`
	ExitCode   int          `json:"exit_code"`
	DurationMS int64        `json:"duration_ms"`
	Goals      []string     `json:"goals"`
	Output     string       `json:"output"`
	Tests      *TestSummary `json:"tests,omitempty"`
	ReportPath string       `json:"report_path,omitempty"`
	TimedOut   bool         `json:"timed_out,omitempty"`
}

// execRunner is the real implementation using the external mvn binary.
type execRunner struct{}

// NewRunner returns the default maven runner implementation.
func NewRunner() Runner {
	return &execRunner{}
}

func (r *execRunner) RunTests(ctx context.Context, opts RunOptions) (*BuildResult, error) {
	if _, err := os.Stat(filepath.Join(opts.ProjectPath, "pom.xml")); err != nil {
		return nil, fmt.Errorf("no pom.xml in %s: %w", opts.ProjectPath, err)
	}

	binary := opts.Binary
	if binary == "" {
		binary = "mvn"
	}
	goals := opts.Goals
	if len(goals) == 0 {
		goals = DefaultGoals
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append([]string{"--batch-mode"}, goals...)
	result, err := extool.Run(runCtx, opts.ProjectPath, binary, args...)

	build := &BuildResult{
		RunID:      uuid.NewString(),
		ExitCode:   result.ExitCode,
		DurationMS: result.Duration.Milliseconds(),
		Goals:      goals,
		Output:     tail(result.Output, maxOutputLines),
		Tests:      parseTestSummary(result.Output),
	}

	if err == nil {
		build.Success = true
		// Best effort: the report only exists when a jacoco goal ran.
		if _, path, locateErr := coverage.LoadReport(opts.ProjectPath); locateErr == nil {
			build.ReportPath = path
		}
		return build, nil
	}

	var toolErr *extool.ToolError
	if errors.As(err, &toolErr) {
		build.TimedOut = errors.Is(runCtx.Err(), context.DeadlineExceeded)
		return build, nil
	}

	return nil, err
}

// testSummaryRe matches surefire's aggregate line. Maven prints one per
// module and a final Results block; the last match is the aggregate.
var testSummaryRe = regexp.MustCompile(`Tests run: (\d+), Failures: (\d+), Errors: (\d+), Skipped: (\d+)`)

func parseTestSummary(output string) *TestSummary {
	matches := testSummaryRe.FindAllStringSubmatch(output, -1)
	if len(matches) == 0 {
		return nil
	}

	last := matches[len(matches)-1]
	return &TestSummary{
		Run:      mustInt(last[1]),
		Failures: mustInt(last[2]),
		Errors:   mustInt(last[3]),
		Skipped:  mustInt(last[4]),
	}
}

func mustInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// tail keeps the last limit lines of s, marking any truncation.
func tail(s string, limit int) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return ""
	}

	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}

	kept := lines[len(lines)-limit:]
	header := fmt.Sprintf("... (%d earlier lines truncated)", len(lines)-limit)
	return header + "\n" + strings.Join(kept, "\n")
}
