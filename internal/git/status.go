package git

import (
	"context"
	"strconv"
	"strings"
)

// FileChange is a single path with its porcelain status code.
type FileChange struct {
	Path string `json:"path"`
	Code string `json:"code"`
}

// Status summarizes the working tree the way `git status --porcelain`
// reports it. A file modified both in the index and the working tree
// appears in Staged and Unstaged.
type Status struct {
	Branch       string       `json:"branch"`
	Staged       []FileChange `json:"staged"`
	Unstaged     []FileChange `json:"unstaged"`
	Untracked    []string     `json:"untracked"`
	Conflicts    []string     `json:"conflicts"`
	IsClean      bool         `json:"is_clean"`
	TotalChanges int          `json:"total_changes"`
}

// conflictCodes are the porcelain XY pairs that mean an unresolved merge.
var conflictCodes = map[string]bool{
	"DD": true, "AU": true, "UD": true,
	"UA": true, "DU": true, "AA": true, "UU": true,
}

func (g *gitOps) Status(ctx context.Context, dir string) (*Status, error) {
	out, err := runGit(ctx, dir, "status", "--porcelain")
	if err != nil {
		return nil, err
	}

	status := parsePorcelain(out)
	status.Branch = g.CurrentBranch(ctx, dir)
	return status, nil
}

// parsePorcelain reads `git status --porcelain` v1 output.
// Each line is "XY path" where X is the index status and Y the
// working tree status; renames carry "old -> new".
func parsePorcelain(out string) *Status {
	status := &Status{
		Staged:    []FileChange{},
		Unstaged:  []FileChange{},
		Untracked: []string{},
		Conflicts: []string{},
	}

	paths := 0
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		x, y := line[0], line[1]
		path := strings.TrimSpace(line[3:])

		// Renames report "old -> new"; the new path is the one that exists.
		if idx := strings.Index(path, " -> "); idx >= 0 {
			path = path[idx+4:]
		}
		path = unquotePath(path)

		paths++
		code := string(x) + string(y)

		switch {
		case code == "??":
			status.Untracked = append(status.Untracked, path)
		case conflictCodes[code]:
			status.Conflicts = append(status.Conflicts, path)
		default:
			if x != ' ' {
				status.Staged = append(status.Staged, FileChange{Path: path, Code: string(x)})
			}
			if y != ' ' {
				status.Unstaged = append(status.Unstaged, FileChange{Path: path, Code: string(y)})
			}
		}
	}

	status.TotalChanges = paths
	status.IsClean = paths == 0
	return status
}

// unquotePath undoes the C-style quoting git applies to paths with
// spaces or non-ASCII bytes.
func unquotePath(path string) string {
	if !strings.HasPrefix(path, `"`) {
		return path
	}
	unquoted, err := strconv.Unquote(path)
	if err != nil {
		return path
	}
	return unquoted
}
