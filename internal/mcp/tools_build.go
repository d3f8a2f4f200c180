package mcp

// Implementation Plan:
// 1. run_maven_tests - run the instrumented build and report the outcome
// A build whose tests fail is a normal result with success=false; only
// invocation problems (missing pom, missing binary) are tool errors.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/covpilot/covpilot/internal/maven"
)

// AddRunTestsTool registers the run_maven_tests tool with an MCP server.
func AddRunTestsTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"run_maven_tests",
		mcp.WithDescription("Run the Maven test goals with JaCoCo instrumentation and report the outcome: exit code, surefire test summary, the tail of the build output, and the path of the refreshed coverage report. A failing build is a normal result with success=false. The build is killed after the configured timeout."),
		mcp.WithString("project_path",
			mcp.Description("Maven project root containing pom.xml (default: the server's project root)")),
		mcp.WithArray("goals",
			mcp.Description("Override the configured goals (default: clean test jacoco:report)")),
		mcp.WithNumber("timeout_seconds",
			mcp.Description("Whole-build budget in seconds (default: from config, 300)")),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, instrument(deps.Metrics, "run_maven_tests", createRunTestsHandler(deps)))
}

// createRunTestsHandler creates the handler function for run_maven_tests.
func createRunTestsHandler(deps *Deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, err := toolArgs(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		project, err := resolveProjectArg(deps, argsMap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		goals := parseArrayArg(argsMap, "goals")
		if len(goals) == 0 {
			goals = deps.Config.Maven.Goals
		}
		timeout := parseIntArg(argsMap, "timeout_seconds", deps.Config.MavenTimeout())
		if timeout <= 0 {
			return mcp.NewToolResultError(fmt.Sprintf("timeout_seconds must be positive, got %d", timeout)), nil
		}

		result, err := deps.Runner.RunTests(ctx, maven.RunOptions{
			ProjectPath: project,
			Binary:      deps.Config.Maven.Binary,
			Goals:       goals,
			Timeout:     time.Duration(timeout) * time.Second,
		})
		if err != nil {
			// Invocation problems: the caller pointed at the wrong place
			// or the environment lacks maven.
			return mcp.NewToolResultError(err.Error()), nil
		}

		jsonData, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	}
}
