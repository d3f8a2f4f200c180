package git

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for publishing:
// - compareURL normalizes ssh and scp-style remotes to https
// - compareURL returns empty for unrecognizable remotes
// - PullRequest falls back to manual instructions when gh is missing
// - PullRequest refuses to open a PR from the base branch
// - PullRequest requires a title

func TestCompareURL_Normalization(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		remote string
		want   string
	}{
		{
			name:   "https remote",
			remote: "https://github.com/acme/widget.git",
			want:   "https://github.com/acme/widget/compare/main...feature/x?expand=1",
		},
		{
			name:   "scp-style remote",
			remote: "git@github.com:acme/widget.git",
			want:   "https://github.com/acme/widget/compare/main...feature/x?expand=1",
		},
		{
			name:   "ssh remote",
			remote: "ssh://git@github.com/acme/widget.git",
			want:   "https://github.com/acme/widget/compare/main...feature/x?expand=1",
		},
		{
			name:   "no remote",
			remote: "",
			want:   "",
		},
		{
			name:   "unrecognizable remote",
			remote: "/srv/git/widget.git",
			want:   "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, compareURL(tc.remote, "main", "feature/x"))
		})
	}
}

func TestPullRequest_ManualFallbackWhenGhMissing(t *testing.T) {
	// NO t.Parallel() - stubs the package-level lookPath

	orig := lookPath
	lookPath = func(string) (string, error) { return "", exec.ErrNotFound }
	defer func() { lookPath = orig }()

	ctx := context.Background()
	dir := createTestGitRepo(t)
	runGitCmd(t, dir, "remote", "add", "origin", "git@github.com:acme/widget.git")
	runGitCmd(t, dir, "checkout", "-b", "feature/pr")

	gitOps := NewOperations()
	result, err := gitOps.PullRequest(ctx, dir, PullRequestOptions{Title: "Raise coverage"})
	require.NoError(t, err)

	assert.False(t, result.Created)
	assert.Empty(t, result.URL)
	assert.Equal(t, "feature/pr", result.Branch)
	assert.Equal(t, "main", result.Base)
	assert.Contains(t, result.Instructions, "https://github.com/acme/widget/compare/main...feature/pr")
	assert.Contains(t, result.Instructions, "git push --set-upstream origin feature/pr")
	assert.Contains(t, result.Instructions, `gh pr create --title "Raise coverage"`)
}

func TestPullRequest_RefusesBaseBranch(t *testing.T) {
	// NO t.Parallel() - stubs the package-level lookPath

	orig := lookPath
	lookPath = func(string) (string, error) { return "", exec.ErrNotFound }
	defer func() { lookPath = orig }()

	ctx := context.Background()
	dir := createTestGitRepo(t)

	gitOps := NewOperations()
	_, err := gitOps.PullRequest(ctx, dir, PullRequestOptions{Title: "From main"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base branch")
}

func TestPullRequest_RequiresTitle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gitOps := NewOperations()

	_, err := gitOps.PullRequest(ctx, t.TempDir(), PullRequestOptions{Title: "  "})
	assert.ErrorIs(t, err, ErrEmptyTitle)
}
