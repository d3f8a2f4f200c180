package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var (
	// ErrNothingStaged indicates a commit was requested with an empty index.
	ErrNothingStaged = errors.New("nothing staged to commit")

	// ErrEmptyMessage indicates a commit was requested without a message.
	ErrEmptyMessage = errors.New("empty commit message")
)

// Operations defines the interface for git operations.
// This allows mocking git commands in tests.
type Operations interface {
	// CurrentBranch returns the current branch name.
	// For detached HEAD, returns "detached-{short-hash}".
	// Returns "unknown" if all git commands fail.
	CurrentBranch(ctx context.Context, dir string) string

	// AncestorBranch finds the ancestor branch (main or master) of branch.
	// Returns empty string if no ancestor found.
	AncestorBranch(ctx context.Context, dir, branch string) string

	// RemoteURL returns the URL of the named remote.
	// Falls back to the first configured remote when the named one is
	// missing. Returns empty string if no remote is configured.
	RemoteURL(ctx context.Context, dir, remote string) string

	// Status reports the working tree state parsed from porcelain output.
	Status(ctx context.Context, dir string) (*Status, error)

	// StageAll stages every modified and untracked file except those
	// matching the exclude patterns.
	StageAll(ctx context.Context, dir string, excludes []string) (*StageResult, error)

	// Commit records the staged changes. Fails with ErrNothingStaged when
	// the index is empty.
	Commit(ctx context.Context, dir string, opts CommitOptions) (*CommitResult, error)

	// Push publishes the current branch. Pushes to a protected branch are
	// refused (without error) unless opts.AllowProtected is set.
	Push(ctx context.Context, dir string, opts PushOptions) (*PushResult, error)

	// PullRequest opens a pull request for the current branch via the gh
	// CLI, or returns manual instructions when gh is not installed.
	PullRequest(ctx context.Context, dir string, opts PullRequestOptions) (*PullRequestResult, error)
}

// gitOps is the real implementation using exec.Command.
type gitOps struct{}

// NewOperations returns the default git operations implementation.
func NewOperations() Operations {
	return &gitOps{}
}

func (g *gitOps) CurrentBranch(ctx context.Context, dir string) string {
	branch, err := runGit(ctx, dir, "branch", "--show-current")
	if err != nil || branch == "" {
		// Might be detached HEAD
		hash, err := runGit(ctx, dir, "rev-parse", "--short", "HEAD")
		if err != nil {
			return "unknown"
		}
		return "detached-" + hash
	}
	return branch
}

func (g *gitOps) AncestorBranch(ctx context.Context, dir, branch string) string {
	// Try merge-base with main
	if out, err := runGit(ctx, dir, "merge-base", branch, "main"); err == nil && out != "" {
		return "main"
	}

	// Try merge-base with master
	if out, err := runGit(ctx, dir, "merge-base", branch, "master"); err == nil && out != "" {
		return "master"
	}

	return ""
}

func (g *gitOps) RemoteURL(ctx context.Context, dir, remote string) string {
	if remote == "" {
		remote = "origin"
	}

	// Try the named remote first
	if url, err := runGit(ctx, dir, "remote", "get-url", remote); err == nil {
		return url
	}

	// Fallback: first remote
	out, err := runGit(ctx, dir, "remote")
	if err != nil {
		return ""
	}

	remotes := strings.Split(out, "\n")
	if len(remotes) > 0 && remotes[0] != "" {
		url, _ := runGit(ctx, dir, "remote", "get-url", remotes[0])
		return url
	}

	return ""
}

// runGit executes a git subcommand in dir and returns trimmed stdout.
// Failures carry the first stderr line so callers can surface them as-is.
func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("git %s: %s", args[0], firstLine(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimSpace(string(output)), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
