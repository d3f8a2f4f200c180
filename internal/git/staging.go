package git

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// StageResult reports what StageAll did.
type StageResult struct {
	Staged  []string `json:"staged"`
	Skipped []string `json:"skipped"`
}

// excludeSet holds compiled staging exclude patterns.
//
// Patterns without a slash match against the basename only ("*.class"
// skips build output anywhere). Patterns with a slash match against the
// repo-relative path and against every directory-boundary suffix of it,
// so "target/**" also covers "module-a/target/classes/Foo.class".
type excludeSet struct {
	patterns []string
	globs    []glob.Glob
}

func compileExcludes(patterns []string) (*excludeSet, error) {
	set := &excludeSet{}
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		set.patterns = append(set.patterns, pattern)
		set.globs = append(set.globs, g)
	}
	return set, nil
}

func (s *excludeSet) Match(relPath string) bool {
	normalized := strings.ReplaceAll(relPath, "\\", "/")
	base := path.Base(normalized)

	for i, g := range s.globs {
		if !strings.Contains(s.patterns[i], "/") {
			if g.Match(base) {
				return true
			}
			continue
		}

		if g.Match(normalized) {
			return true
		}
		rest := normalized
		for {
			idx := strings.IndexByte(rest, '/')
			if idx < 0 {
				break
			}
			rest = rest[idx+1:]
			if g.Match(rest) {
				return true
			}
		}
	}
	return false
}

func (g *gitOps) StageAll(ctx context.Context, dir string, excludes []string) (*StageResult, error) {
	set, err := compileExcludes(excludes)
	if err != nil {
		return nil, err
	}

	status, err := g.Status(ctx, dir)
	if err != nil {
		return nil, err
	}

	// Conflicted paths are never auto-staged; resolving them is a
	// human decision.
	candidates := make(map[string]bool)
	for _, change := range status.Unstaged {
		candidates[change.Path] = true
	}
	for _, path := range status.Untracked {
		candidates[path] = true
	}

	result := &StageResult{Staged: []string{}, Skipped: []string{}}
	for _, candidate := range sortedKeys(candidates) {
		if set.Match(candidate) {
			result.Skipped = append(result.Skipped, candidate)
			continue
		}
		if _, err := runGit(ctx, dir, "add", "--", candidate); err != nil {
			return nil, fmt.Errorf("staging %s: %w", candidate, err)
		}
		result.Staged = append(result.Staged, candidate)
	}

	return result, nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
