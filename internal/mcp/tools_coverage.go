package mcp

// Implementation Plan:
// 1. find_jacoco_report - locate the JaCoCo XML under a project root
// 2. total_coverage - parse the report and aggregate against the threshold
// 3. missing_coverage - uncovered line numbers for one source file
// All three are read-only. A missing or malformed report is a tool-level
// error the client can act on, not a transport failure.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/covpilot/covpilot/internal/coverage"
)

// AddFindReportTool registers the find_jacoco_report tool with an MCP server.
// This function is composable - it can be combined with other tool registrations.
func AddFindReportTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"find_jacoco_report",
		mcp.WithDescription("Locate the JaCoCo XML coverage report for a Maven project. Checks the conventional target/site/jacoco locations first, then scans target directories for jacoco.xml, preferring the most recently modified report."),
		mcp.WithString("project_path",
			mcp.Description("Project root to search (default: the server's project root)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, instrument(deps.Metrics, "find_jacoco_report", createFindReportHandler(deps)))
}

// createFindReportHandler creates the handler function for find_jacoco_report.
func createFindReportHandler(deps *Deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, err := toolArgs(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		project, err := resolveProjectArg(deps, argsMap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		reportPath, err := coverage.LocateReport(project)
		if errors.Is(err, coverage.ErrReportNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no JaCoCo report under %s: run the tests with jacoco:report first", project)), nil
		}
		if err != nil {
			return nil, fmt.Errorf("report lookup failed: %w", err)
		}

		response := &ReportLocation{
			ProjectPath: project,
			ReportPath:  reportPath,
		}
		if info, statErr := os.Stat(reportPath); statErr == nil {
			response.Modified = info.ModTime()
		}

		jsonData, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// AddTotalCoverageTool registers the total_coverage tool with an MCP server.
func AddTotalCoverageTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"total_coverage",
		mcp.WithDescription("Report project-wide coverage percentages (line, branch, method, instruction) from the latest JaCoCo report, judged against a line coverage threshold. Lists the files below the threshold worst-first."),
		mcp.WithString("project_path",
			mcp.Description("Project root to inspect (default: the server's project root)")),
		mcp.WithNumber("threshold",
			mcp.Description("Line coverage target percentage, 0-100 (default: from config, 90)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, instrument(deps.Metrics, "total_coverage", createTotalCoverageHandler(deps)))
}

// createTotalCoverageHandler creates the handler function for total_coverage.
func createTotalCoverageHandler(deps *Deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, err := toolArgs(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		project, err := resolveProjectArg(deps, argsMap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		threshold := parseFloatArg(argsMap, "threshold", deps.Config.Coverage.Threshold)
		if threshold < 0 || threshold > 100 {
			return mcp.NewToolResultError(fmt.Sprintf("threshold must be between 0 and 100, got %v", threshold)), nil
		}

		pc, reportPath, err := loadProjectReport(project)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		summary := coverage.Aggregate(pc, threshold)
		response := &CoverageReport{
			ProjectPath: project,
			ReportPath:  reportPath,
			Files:       len(pc.Files),
			Summary:     summary,
		}

		jsonData, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// AddMissingCoverageTool registers the missing_coverage tool with an MCP server.
func AddMissingCoverageTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"missing_coverage",
		mcp.WithDescription("List the uncovered source line numbers of one file from the latest JaCoCo report. The file is matched by report path suffix, so 'Calculator.java' or 'com/example/Calculator.java' both work. A fully covered file returns an empty list; a file absent from the report is an error."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Source file path as recorded in the report; path suffixes and bare file names are accepted")),
		mcp.WithString("project_path",
			mcp.Description("Project root to inspect (default: the server's project root)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, instrument(deps.Metrics, "missing_coverage", createMissingCoverageHandler(deps)))
}

// createMissingCoverageHandler creates the handler function for missing_coverage.
func createMissingCoverageHandler(deps *Deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, err := toolArgs(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		// The gap lookup matches against report-relative paths, so the
		// argument is passed through unresolved.
		filePath, err := parseStringArg(argsMap, "file_path", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		project, err := resolveProjectArg(deps, argsMap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		pc, reportPath, err := loadProjectReport(project)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		gaps, err := coverage.Gaps(pc, filePath)
		if errors.Is(err, coverage.ErrNotInstrumented) {
			return mcp.NewToolResultError(fmt.Sprintf("%s is not in the coverage report: it was not compiled into the last instrumented run", filePath)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		response := &FileGaps{
			ReportPath: reportPath,
			GapReport:  gaps,
		}

		jsonData, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// loadProjectReport loads the latest report with tool-friendly error text.
func loadProjectReport(project string) (*coverage.ProjectCoverage, string, error) {
	pc, reportPath, err := coverage.LoadReport(project)
	if errors.Is(err, coverage.ErrReportNotFound) {
		return nil, "", fmt.Errorf("no JaCoCo report under %s: run the tests with jacoco:report first", project)
	}
	if errors.Is(err, coverage.ErrMalformedReport) {
		return nil, "", fmt.Errorf("unreadable JaCoCo report: %v (re-run the build to regenerate it)", err)
	}
	if err != nil {
		return nil, "", err
	}
	return pc, reportPath, nil
}
