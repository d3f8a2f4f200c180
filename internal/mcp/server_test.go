package mcp

// Test Plan for server wiring:
// - NewServer with nil config falls back to defaults
// - NewServer resolves the project path to an absolute one
// - Tool registration completes without panicking
// Shared handler-test helpers (newTestDeps, toolRequest, resultText,
// errorText) also live here.

import (
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covpilot/covpilot/internal/config"
	"github.com/covpilot/covpilot/internal/git"
	"github.com/covpilot/covpilot/internal/javasrc"
	"github.com/covpilot/covpilot/internal/maven"
	"github.com/covpilot/covpilot/internal/review"
)

// newTestDeps builds a Deps wired with mocks and a temp project root.
func newTestDeps(t *testing.T) *Deps {
	t.Helper()
	return &Deps{
		Config:      config.Default(),
		ProjectPath: t.TempDir(),
		Git:         git.NewMockGitOps(),
		Runner:      maven.NewMockRunner(),
		Extractor:   javasrc.NewExtractor(),
		Scanner:     review.NewScanner(),
		Metrics:     NewToolMetrics(),
	}
}

// toolRequest builds a CallToolRequest the way mcp-go delivers it.
func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// resultText asserts a successful text result and returns its payload.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.False(t, result.IsError, "expected a success result")
	require.Len(t, result.Content, 1)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent")
	return textContent.Text
}

// errorText asserts a tool-level error result and returns its message.
func errorText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.True(t, result.IsError, "expected an error result")
	require.Len(t, result.Content, 1)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent")
	return textContent.Text
}

func TestNewServer_NilConfigUsesDefaults(t *testing.T) {
	t.Parallel()

	// Test: nil config falls back to Default() and registration succeeds
	s, err := NewServer(nil, t.TempDir(), "")
	require.NoError(t, err)
	require.NotNil(t, s)

	assert.Equal(t, 90.0, s.deps.Config.Coverage.Threshold)
	assert.Equal(t, "mvn", s.deps.Config.Maven.Binary)
	assert.NotNil(t, s.mcp)
	assert.NotNil(t, s.deps.Metrics)
}

func TestNewServer_ResolvesProjectPath(t *testing.T) {
	t.Parallel()

	// Test: a relative project path is made absolute
	s, err := NewServer(config.Default(), ".", "1.0.0")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(s.deps.ProjectPath), "project path should be absolute: %s", s.deps.ProjectPath)
}

func TestNewServer_KeepsProvidedConfig(t *testing.T) {
	t.Parallel()

	// Test: a caller-provided config is used as-is
	cfg := config.Default()
	cfg.Coverage.Threshold = 75.0

	s, err := NewServer(cfg, t.TempDir(), "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, 75.0, s.deps.Config.Coverage.Threshold)
}
