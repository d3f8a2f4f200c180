package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrEmptyTitle indicates a pull request was requested without a title.
var ErrEmptyTitle = errors.New("empty pull request title")

// lookPath is swapped in tests to simulate a missing gh binary.
var lookPath = exec.LookPath

// CommitOptions configures Commit.
type CommitOptions struct {
	// Message is the commit subject and body.
	Message string

	// CoverageTrailer, when set, is appended to the message as a
	// trailing block, e.g. "Coverage: line 82.4% (threshold 90.0%)".
	CoverageTrailer string
}

// CommitResult reports a recorded commit.
type CommitResult struct {
	Hash           string `json:"hash"`
	Branch         string `json:"branch"`
	Message        string `json:"message"`
	FilesCommitted int    `json:"files_committed"`
}

// PushOptions configures Push.
type PushOptions struct {
	Remote            string
	ProtectedBranches []string
	AllowProtected    bool
}

// PushResult reports what Push did. A refused push to a protected
// branch sets Protected without an error.
type PushResult struct {
	Pushed      bool   `json:"pushed"`
	Branch      string `json:"branch"`
	Remote      string `json:"remote"`
	Protected   bool   `json:"protected"`
	SetUpstream bool   `json:"set_upstream"`
	Message     string `json:"message,omitempty"`
}

// PullRequestOptions configures PullRequest.
type PullRequestOptions struct {
	Title  string
	Body   string
	Base   string // defaults to the detected ancestor branch
	Remote string // used for the manual fallback URL
}

// PullRequestResult reports a pull request attempt. When the gh CLI is
// not installed, Created is false and Instructions describes the manual
// steps instead.
type PullRequestResult struct {
	Created      bool   `json:"created"`
	URL          string `json:"url,omitempty"`
	Branch       string `json:"branch"`
	Base         string `json:"base"`
	Instructions string `json:"instructions,omitempty"`
}

func (g *gitOps) Commit(ctx context.Context, dir string, opts CommitOptions) (*CommitResult, error) {
	if strings.TrimSpace(opts.Message) == "" {
		return nil, ErrEmptyMessage
	}

	staged, err := runGit(ctx, dir, "diff", "--cached", "--name-only")
	if err != nil {
		return nil, err
	}
	if staged == "" {
		return nil, ErrNothingStaged
	}

	message := opts.Message
	if opts.CoverageTrailer != "" {
		message += "\n\n" + opts.CoverageTrailer
	}

	if _, err := runGit(ctx, dir, "commit", "-m", message); err != nil {
		return nil, err
	}

	hash, err := runGit(ctx, dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return nil, err
	}

	return &CommitResult{
		Hash:           hash,
		Branch:         g.CurrentBranch(ctx, dir),
		Message:        message,
		FilesCommitted: len(strings.Split(staged, "\n")),
	}, nil
}

func (g *gitOps) Push(ctx context.Context, dir string, opts PushOptions) (*PushResult, error) {
	remote := opts.Remote
	if remote == "" {
		remote = "origin"
	}

	branch := g.CurrentBranch(ctx, dir)
	if branch == "unknown" {
		return nil, fmt.Errorf("not a git repository: %s", dir)
	}

	for _, protected := range opts.ProtectedBranches {
		if branch == protected && !opts.AllowProtected {
			return &PushResult{
				Pushed:    false,
				Branch:    branch,
				Remote:    remote,
				Protected: true,
				Message:   fmt.Sprintf("refusing to push to protected branch %q; create a feature branch or allow protected pushes", branch),
			}, nil
		}
	}

	// A branch without an upstream gets one on first push.
	_, upstreamErr := runGit(ctx, dir, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}")
	setUpstream := upstreamErr != nil

	args := []string{"push"}
	if setUpstream {
		args = append(args, "--set-upstream")
	}
	args = append(args, remote, branch)

	if _, err := runGit(ctx, dir, args...); err != nil {
		return nil, err
	}

	return &PushResult{
		Pushed:      true,
		Branch:      branch,
		Remote:      remote,
		SetUpstream: setUpstream,
		Message:     fmt.Sprintf("pushed %s to %s", branch, remote),
	}, nil
}

func (g *gitOps) PullRequest(ctx context.Context, dir string, opts PullRequestOptions) (*PullRequestResult, error) {
	if strings.TrimSpace(opts.Title) == "" {
		return nil, ErrEmptyTitle
	}

	branch := g.CurrentBranch(ctx, dir)
	if branch == "unknown" {
		return nil, fmt.Errorf("not a git repository: %s", dir)
	}

	base := opts.Base
	if base == "" {
		base = g.AncestorBranch(ctx, dir, branch)
	}
	if base == "" {
		base = "main"
	}
	if branch == base {
		return nil, fmt.Errorf("current branch %q is the base branch; create a feature branch first", branch)
	}

	if _, err := lookPath("gh"); err != nil {
		return &PullRequestResult{
			Created:      false,
			Branch:       branch,
			Base:         base,
			Instructions: manualInstructions(g.RemoteURL(ctx, dir, opts.Remote), branch, base, opts.Title),
		}, nil
	}

	cmd := exec.CommandContext(ctx, "gh", "pr", "create", "--title", opts.Title, "--body", opts.Body, "--base", base)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("gh pr create: %s", firstLine(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("gh pr create: %w", err)
	}

	return &PullRequestResult{
		Created: true,
		URL:     lastLine(string(output)),
		Branch:  branch,
		Base:    base,
	}, nil
}

// manualInstructions describes how to open the pull request by hand.
func manualInstructions(remoteURL, branch, base, title string) string {
	var b strings.Builder
	b.WriteString("gh CLI not found. Open the pull request manually:\n")
	fmt.Fprintf(&b, "  1. Push the branch: git push --set-upstream origin %s\n", branch)
	if url := compareURL(remoteURL, base, branch); url != "" {
		fmt.Fprintf(&b, "  2. Visit: %s\n", url)
	} else {
		fmt.Fprintf(&b, "  2. Open a pull request from %s into %s on your repository host\n", branch, base)
	}
	fmt.Fprintf(&b, "Or install GitHub CLI and run: gh pr create --title %q --base %s", title, base)
	return b.String()
}

// compareURL builds the GitHub compare page URL from a remote URL.
// Returns empty string when the remote cannot be normalized.
func compareURL(remoteURL, base, branch string) string {
	url := strings.TrimSuffix(strings.TrimSpace(remoteURL), ".git")
	if url == "" {
		return ""
	}

	switch {
	case strings.HasPrefix(url, "git@"):
		// git@github.com:owner/repo
		rest := strings.TrimPrefix(url, "git@")
		idx := strings.Index(rest, ":")
		if idx < 0 {
			return ""
		}
		url = "https://" + rest[:idx] + "/" + rest[idx+1:]
	case strings.HasPrefix(url, "ssh://git@"):
		url = "https://" + strings.TrimPrefix(url, "ssh://git@")
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		// already browsable
	default:
		return ""
	}

	return fmt.Sprintf("%s/compare/%s...%s?expand=1", url, base, branch)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
