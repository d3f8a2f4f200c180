package coverage

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Gaps reports the uncovered lines of one file in a parsed report.
//
// filePath is resolved leniently because agents pass workspace paths
// (src/main/java/com/example/Foo.java) while reports key files by package
// path (com/example/Foo.java): an exact key match is tried first, then a
// path-boundary suffix match in either direction, then a basename match.
// Ambiguous matches resolve to the lexicographically smallest key so the
// result is deterministic.
//
// A file missing from the report entirely returns ErrNotInstrumented. That
// is a different condition from an instrumented file with no uncovered
// lines, which returns an empty GapReport.
func Gaps(pc *ProjectCoverage, filePath string) (GapReport, error) {
	fc, ok := resolveFile(pc, filePath)
	if !ok {
		return GapReport{}, fmt.Errorf("%w: %s is absent from the coverage report", ErrNotInstrumented, filePath)
	}

	lines := make([]int, len(fc.UncoveredLines))
	copy(lines, fc.UncoveredLines)

	return GapReport{
		File:                fc.FilePath,
		TotalUncoveredLines: len(lines),
		UncoveredLines:      lines,
	}, nil
}

// resolveFile finds the FileCoverage entry for a caller-supplied path.
func resolveFile(pc *ProjectCoverage, filePath string) (FileCoverage, bool) {
	normalized := strings.ReplaceAll(filePath, "\\", "/")

	if fc, ok := pc.Files[normalized]; ok {
		return fc, true
	}

	keys := make([]string, 0, len(pc.Files))
	for key := range pc.Files {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if suffixOnBoundary(normalized, key) || suffixOnBoundary(key, normalized) {
			return pc.Files[key], true
		}
	}

	base := path.Base(normalized)
	for _, key := range keys {
		if path.Base(key) == base {
			return pc.Files[key], true
		}
	}

	return FileCoverage{}, false
}

// suffixOnBoundary reports whether suffix matches the tail of full at a
// path separator, so "example/Foo.java" matches "com/example/Foo.java" but
// "ample/Foo.java" does not.
func suffixOnBoundary(full, suffix string) bool {
	if full == suffix {
		return true
	}
	return strings.HasSuffix(full, "/"+suffix)
}
