package extool

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for extool:
// - Successful runs return output and exit code 0
// - Non-zero exits return a ToolError with code and captured output
// - Missing binaries wrap exec.ErrNotFound
// - Context deadlines surface as ToolError with exit code -1
// - ToolError messages include tool, args, and the first output line

func requireUnixShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests shell out to sh")
	}
}

// Test: Successful invocation captures output
func TestRun_Success(t *testing.T) {
	t.Parallel()
	requireUnixShell(t)

	result, err := Run(context.Background(), t.TempDir(), "sh", "-c", "echo hello")
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Output, "hello")
	assert.Greater(t, result.Duration, time.Duration(0))
}

// Test: Non-zero exit returns ToolError with output and code
func TestRun_NonZeroExit(t *testing.T) {
	t.Parallel()
	requireUnixShell(t)

	result, err := Run(context.Background(), t.TempDir(), "sh", "-c", "echo broken build; exit 3")
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "sh", toolErr.Tool)
	assert.Equal(t, 3, toolErr.ExitCode)
	assert.Contains(t, toolErr.Output, "broken build")
	assert.Equal(t, 3, result.ExitCode)
	assert.Contains(t, result.Output, "broken build", "output survives alongside the error")
}

// Test: Missing binaries wrap exec.ErrNotFound for fallback checks
func TestRun_ToolNotFound(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), t.TempDir(), "covpilot-no-such-tool-xyz")
	require.Error(t, err)
	assert.True(t, errors.Is(err, exec.ErrNotFound))

	var toolErr *ToolError
	assert.False(t, errors.As(err, &toolErr), "missing binary is not a tool failure")
}

// Test: Deadline exceeded reports as a tool failure with code -1
func TestRun_Timeout(t *testing.T) {
	t.Parallel()
	requireUnixShell(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := Run(ctx, t.TempDir(), "sh", "-c", "sleep 5")
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, -1, toolErr.ExitCode)
	assert.Contains(t, toolErr.Output, "deadline")
}

// Test: Error text names the tool and the first output line
func TestToolError_Message(t *testing.T) {
	t.Parallel()

	err := &ToolError{
		Tool:     "mvn",
		Args:     []string{"clean", "test"},
		ExitCode: 1,
		Output:   "\n[ERROR] compilation failure\nmore detail",
	}
	assert.Equal(t, "mvn clean test exited 1: [ERROR] compilation failure", err.Error())

	quiet := &ToolError{Tool: "git", Args: []string{"push"}, ExitCode: 128}
	assert.Equal(t, "git push exited 128", quiet.Error())
}

// Test: Available detects present and missing tools
func TestAvailable(t *testing.T) {
	t.Parallel()
	requireUnixShell(t)

	assert.True(t, Available("sh"))
	assert.False(t, Available("covpilot-no-such-tool-xyz"))
}
