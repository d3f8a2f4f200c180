package git

import (
	"context"
	"fmt"
)

// MockGitOps is a mock implementation of Operations for testing.
type MockGitOps struct {
	Branch         string
	Ancestor       string
	Remote         string
	StatusResult   *Status
	StatusErr      error
	StageResult    *StageResult
	StageErr       error
	CommitResult   *CommitResult
	CommitErr      error
	PushResult     *PushResult
	PushErr        error
	PRResult       *PullRequestResult
	PRErr          error
	StagedExcludes []string // excludes passed to the last StageAll call
	Commits        []CommitOptions
	Pushes         []PushOptions
	PullRequests   []PullRequestOptions
}

// NewMockGitOps creates a mock with sensible defaults.
func NewMockGitOps() *MockGitOps {
	return &MockGitOps{
		Branch:   "feature/coverage",
		Ancestor: "main",
		Remote:   "https://github.com/user/repo.git",
		StatusResult: &Status{
			Branch:    "feature/coverage",
			Staged:    []FileChange{},
			Unstaged:  []FileChange{},
			Untracked: []string{},
			Conflicts: []string{},
			IsClean:   true,
		},
		StageResult:  &StageResult{Staged: []string{}, Skipped: []string{}},
		CommitResult: &CommitResult{Hash: "abc1234", Branch: "feature/coverage"},
		PushResult:   &PushResult{Pushed: true, Branch: "feature/coverage", Remote: "origin"},
		PRResult:     &PullRequestResult{Created: true, URL: "https://github.com/user/repo/pull/1"},
	}
}

func (m *MockGitOps) CurrentBranch(ctx context.Context, dir string) string {
	return m.Branch
}

func (m *MockGitOps) AncestorBranch(ctx context.Context, dir, branch string) string {
	return m.Ancestor
}

func (m *MockGitOps) RemoteURL(ctx context.Context, dir, remote string) string {
	return m.Remote
}

func (m *MockGitOps) Status(ctx context.Context, dir string) (*Status, error) {
	if m.StatusErr != nil {
		return nil, m.StatusErr
	}
	return m.StatusResult, nil
}

func (m *MockGitOps) StageAll(ctx context.Context, dir string, excludes []string) (*StageResult, error) {
	m.StagedExcludes = excludes
	if m.StageErr != nil {
		return nil, m.StageErr
	}
	return m.StageResult, nil
}

func (m *MockGitOps) Commit(ctx context.Context, dir string, opts CommitOptions) (*CommitResult, error) {
	m.Commits = append(m.Commits, opts)
	if m.CommitErr != nil {
		return nil, m.CommitErr
	}
	return m.CommitResult, nil
}

func (m *MockGitOps) Push(ctx context.Context, dir string, opts PushOptions) (*PushResult, error) {
	m.Pushes = append(m.Pushes, opts)
	if m.PushErr != nil {
		return nil, m.PushErr
	}
	return m.PushResult, nil
}

func (m *MockGitOps) PullRequest(ctx context.Context, dir string, opts PullRequestOptions) (*PullRequestResult, error) {
	m.PullRequests = append(m.PullRequests, opts)
	if m.PRErr != nil {
		return nil, m.PRErr
	}
	return m.PRResult, nil
}

// String returns a human-readable representation of the mock state.
func (m *MockGitOps) String() string {
	return fmt.Sprintf("MockGitOps{branch=%s, ancestor=%s, remote=%s}",
		m.Branch, m.Ancestor, m.Remote)
}
