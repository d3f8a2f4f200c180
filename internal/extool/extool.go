package extool

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ToolError describes a failed external tool invocation. The captured
// combined output is preserved so callers can surface compiler errors,
// test failures, or git diagnostics instead of a bare exit code.
type ToolError struct {
	Tool     string
	Args     []string
	ExitCode int
	Output   string
}

func (e *ToolError) Error() string {
	summary := firstLine(e.Output)
	if summary == "" {
		return fmt.Sprintf("%s %s exited %d", e.Tool, strings.Join(e.Args, " "), e.ExitCode)
	}
	return fmt.Sprintf("%s %s exited %d: %s", e.Tool, strings.Join(e.Args, " "), e.ExitCode, summary)
}

// Result holds the outcome of a completed invocation.
type Result struct {
	Output   string
	ExitCode int
	Duration time.Duration
}

// Run executes an external tool in dir and captures combined output.
//
// A non-zero exit returns the Result alongside a *ToolError carrying the
// output, so callers can both classify the failure and read what the tool
// printed. A missing binary wraps exec.ErrNotFound, which callers check to
// offer fallbacks. Cancellation and deadlines come from ctx.
func Run(ctx context.Context, dir, tool string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Dir = dir

	start := time.Now()
	output, err := cmd.CombinedOutput()
	result := Result{
		Output:   string(output),
		ExitCode: 0,
		Duration: time.Since(start),
	}

	if err == nil {
		return result, nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return result, fmt.Errorf("%s: %w", tool, err)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		result.ExitCode = -1
		return result, &ToolError{
			Tool:     tool,
			Args:     args,
			ExitCode: -1,
			Output:   fmt.Sprintf("%v\n%s", ctxErr, result.Output),
		}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, &ToolError{
			Tool:     tool,
			Args:     args,
			ExitCode: exitErr.ExitCode(),
			Output:   result.Output,
		}
	}

	return result, fmt.Errorf("running %s: %w", tool, err)
}

// Available reports whether a tool can be found in PATH.
func Available(tool string) bool {
	_, err := exec.LookPath(tool)
	return err == nil
}

// firstLine returns the first non-empty line of s, trimmed.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
