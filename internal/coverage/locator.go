package coverage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// conventionalReportPaths are the locations Maven and Gradle write JaCoCo
// XML reports to, relative to a module root, checked before any search.
var conventionalReportPaths = []string{
	"target/site/jacoco/jacoco.xml",
	"target/jacoco.xml",
	"build/reports/jacoco/test/jacocoTestReport.xml",
	"build/jacoco/jacoco.xml",
}

// reportPatterns match report locations in nested modules of multi-module
// builds. Paths are slash-normalized relative to the project root.
var reportPatterns = []string{
	"**/target/site/jacoco/jacoco.xml",
	"**/target/jacoco.xml",
	"**/build/reports/jacoco/test/jacocoTestReport.xml",
	"**/build/jacoco/jacoco.xml",
}

// skipDirs are never descended into while searching for reports.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".idea":        true,
}

// reportCandidate pairs a report path with its modification time.
type reportCandidate struct {
	path    string
	modTime time.Time
}

// LocateReport finds the JaCoCo XML report for a project.
//
// Conventional Maven/Gradle output locations are checked first, then nested
// modules are searched for the same layouts. When several reports exist the
// most recently modified wins; equal timestamps break toward the
// lexicographically smaller path so repeated calls return the same file.
// Returns ErrReportNotFound when no report exists. The search never writes.
func LocateReport(projectRoot string) (string, error) {
	info, err := os.Stat(projectRoot)
	if err != nil {
		return "", fmt.Errorf("project root %s: %w", projectRoot, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project root %s is not a directory", projectRoot)
	}

	seen := make(map[string]bool)
	var candidates []reportCandidate

	addCandidate := func(path string, modTime time.Time) {
		if seen[path] {
			return
		}
		seen[path] = true
		candidates = append(candidates, reportCandidate{path: path, modTime: modTime})
	}

	for _, rel := range conventionalReportPaths {
		path := filepath.Join(projectRoot, filepath.FromSlash(rel))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			addCandidate(path, info.ModTime())
		}
	}

	err = filepath.Walk(projectRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable subtrees do not abort the search.
			return nil
		}

		if info.IsDir() {
			if skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(projectRoot, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		for _, pattern := range reportPatterns {
			if matched, err := doublestar.PathMatch(pattern, relPath); err == nil && matched {
				addCandidate(path, info.ModTime())
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("searching %s for reports: %w", projectRoot, err)
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no report under %s (run the instrumented build first)", ErrReportNotFound, projectRoot)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].modTime.Equal(candidates[j].modTime) {
			return candidates[i].modTime.After(candidates[j].modTime)
		}
		return candidates[i].path < candidates[j].path
	})

	return candidates[0].path, nil
}

// LoadReport locates and parses the report for a project in one step.
func LoadReport(projectRoot string) (*ProjectCoverage, string, error) {
	reportPath, err := LocateReport(projectRoot)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		return nil, "", fmt.Errorf("reading report %s: %w", reportPath, err)
	}

	pc, err := ParseReport(data)
	if err != nil {
		return nil, "", fmt.Errorf("parsing %s: %w", reportPath, err)
	}
	return pc, reportPath, nil
}
