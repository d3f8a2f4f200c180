package mcp

// Implementation Plan:
// 1. git_status - working tree state from porcelain output
// 2. git_add_all - stage everything except the excluded globs
// 3. git_commit - commit staged changes, with an optional coverage trailer
// 4. git_push - publish the branch, refusing protected branches by default
// 5. git_pull_request - open a PR via gh, or return manual instructions
// Policy outcomes (protected branch refused, gh missing) are results the
// client reads, not errors.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/covpilot/covpilot/internal/coverage"
	"github.com/covpilot/covpilot/internal/git"
)

// AddGitStatusTool registers the git_status tool with an MCP server.
func AddGitStatusTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"git_status",
		mcp.WithDescription("Report the git working tree state: current branch, staged, unstaged, untracked, and conflicted paths. Conflicted files are listed separately and are never auto-staged."),
		mcp.WithString("project_path",
			mcp.Description("Repository root (default: the server's project root)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, instrument(deps.Metrics, "git_status", createGitStatusHandler(deps)))
}

// createGitStatusHandler creates the handler function for git_status.
func createGitStatusHandler(deps *Deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, err := toolArgs(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		project, err := resolveProjectArg(deps, argsMap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		status, err := deps.Git.Status(ctx, project)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		jsonData, err := json.Marshal(status)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// AddGitAddAllTool registers the git_add_all tool with an MCP server.
func AddGitAddAllTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"git_add_all",
		mcp.WithDescription("Stage every modified and untracked file except build artifacts matching the configured exclude globs (target/**, *.class, ...). Conflicted files are never staged. Returns what was staged and what was skipped."),
		mcp.WithString("project_path",
			mcp.Description("Repository root (default: the server's project root)")),
		mcp.WithArray("excludes",
			mcp.Description("Extra glob patterns to skip, on top of the configured excludes")),
	)

	s.AddTool(tool, instrument(deps.Metrics, "git_add_all", createGitAddAllHandler(deps)))
}

// createGitAddAllHandler creates the handler function for git_add_all.
func createGitAddAllHandler(deps *Deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, err := toolArgs(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		project, err := resolveProjectArg(deps, argsMap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		excludes := deps.Config.Git.StagingExcludes
		if extra := parseArrayArg(argsMap, "excludes"); len(extra) > 0 {
			merged := make([]string, 0, len(excludes)+len(extra))
			merged = append(merged, excludes...)
			merged = append(merged, extra...)
			excludes = merged
		}

		result, err := deps.Git.StageAll(ctx, project, excludes)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		jsonData, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// AddGitCommitTool registers the git_commit tool with an MCP server.
func AddGitCommitTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"git_commit",
		mcp.WithDescription("Commit the staged changes. When the project has a readable JaCoCo report, a coverage trailer ('Coverage: line 82.4% (threshold 90.0%)') is appended to the message. Fails when nothing is staged."),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("Commit message (subject and optional body)")),
		mcp.WithString("project_path",
			mcp.Description("Repository root (default: the server's project root)")),
		mcp.WithBoolean("include_coverage",
			mcp.Description("Append the coverage trailer when a report is available (default: true)")),
	)

	s.AddTool(tool, instrument(deps.Metrics, "git_commit", createGitCommitHandler(deps)))
}

// createGitCommitHandler creates the handler function for git_commit.
func createGitCommitHandler(deps *Deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, err := toolArgs(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		message, err := parseStringArg(argsMap, "message", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		project, err := resolveProjectArg(deps, argsMap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var trailer string
		if parseBoolArg(argsMap, "include_coverage", true) {
			trailer = coverageTrailer(project, deps.Config.Coverage.Threshold)
		}

		result, err := deps.Git.Commit(ctx, project, git.CommitOptions{
			Message:         message,
			CoverageTrailer: trailer,
		})
		if errors.Is(err, git.ErrNothingStaged) {
			return mcp.NewToolResultError("nothing staged to commit: stage files with git_add_all first"), nil
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		jsonData, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// coverageTrailer renders the commit trailer from the latest report, or
// "" when the project has no readable report.
func coverageTrailer(project string, threshold float64) string {
	pc, _, err := coverage.LoadReport(project)
	if err != nil {
		return ""
	}
	summary := coverage.Aggregate(pc, threshold)
	return fmt.Sprintf("Coverage: line %.1f%% (threshold %.1f%%)",
		summary.Overall[coverage.KindLine], summary.Threshold)
}

// AddGitPushTool registers the git_push tool with an MCP server.
func AddGitPushTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"git_push",
		mcp.WithDescription("Push the current branch to the remote, setting the upstream on first push. Pushes to protected branches (main, master by default) are refused with pushed=false and protected=true unless allow_protected is set."),
		mcp.WithString("project_path",
			mcp.Description("Repository root (default: the server's project root)")),
		mcp.WithString("remote",
			mcp.Description("Remote to push to (default: from config, origin)")),
		mcp.WithBoolean("allow_protected",
			mcp.Description("Permit pushing directly to a protected branch (default: false)")),
	)

	s.AddTool(tool, instrument(deps.Metrics, "git_push", createGitPushHandler(deps)))
}

// createGitPushHandler creates the handler function for git_push.
func createGitPushHandler(deps *Deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, err := toolArgs(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		project, err := resolveProjectArg(deps, argsMap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		remote, err := parseStringArg(argsMap, "remote", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if remote == "" {
			remote = deps.Config.Git.DefaultRemote
		}

		result, err := deps.Git.Push(ctx, project, git.PushOptions{
			Remote:            remote,
			ProtectedBranches: deps.Config.Git.ProtectedBranches,
			AllowProtected:    parseBoolArg(argsMap, "allow_protected", false),
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		jsonData, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// AddGitPullRequestTool registers the git_pull_request tool with an MCP server.
func AddGitPullRequestTool(s *server.MCPServer, deps *Deps) {
	tool := mcp.NewTool(
		"git_pull_request",
		mcp.WithDescription("Open a pull request for the current branch using the gh CLI. When gh is not installed, returns created=false with step-by-step manual instructions including the compare URL. The base defaults to the detected ancestor branch (main or master)."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Pull request title")),
		mcp.WithString("body",
			mcp.Description("Pull request description in Markdown")),
		mcp.WithString("base",
			mcp.Description("Base branch to merge into (default: the detected ancestor branch)")),
		mcp.WithString("project_path",
			mcp.Description("Repository root (default: the server's project root)")),
	)

	s.AddTool(tool, instrument(deps.Metrics, "git_pull_request", createGitPullRequestHandler(deps)))
}

// createGitPullRequestHandler creates the handler function for git_pull_request.
func createGitPullRequestHandler(deps *Deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, err := toolArgs(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		title, err := parseStringArg(argsMap, "title", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		body, err := parseStringArg(argsMap, "body", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		base, err := parseStringArg(argsMap, "base", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		project, err := resolveProjectArg(deps, argsMap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := deps.Git.PullRequest(ctx, project, git.PullRequestOptions{
			Title:  title,
			Body:   body,
			Base:   base,
			Remote: deps.Config.Git.DefaultRemote,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		jsonData, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	}
}
