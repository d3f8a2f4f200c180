package coverage

// Implementation Plan:
// 1. Unmarshal the raw XML against the JaCoCo schema
// 2. Validate the structural skeleton (report > package > sourcefile)
// 3. Build one FileCoverage per sourcefile: counters + uncovered lines
// 4. Derive project totals by summing file units
// 5. Reject negative counts and missing layers as ErrMalformedReport

import (
	"encoding/xml"
	"fmt"
	"sort"
)

// ParseReport parses raw JaCoCo XML into a ProjectCoverage.
// Parsing is pure and deterministic: the same bytes always produce the same
// structure, and nothing is cached between calls.
func ParseReport(data []byte) (*ProjectCoverage, error) {
	var report jacocoReport
	if err := xml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
	}

	if len(report.Packages) == 0 {
		return nil, fmt.Errorf("%w: report %q has no packages", ErrMalformedReport, report.Name)
	}

	files := make(map[string]FileCoverage)
	for _, pkg := range report.Packages {
		if len(pkg.SourceFiles) == 0 && len(pkg.Classes) == 0 {
			return nil, fmt.Errorf("%w: package %q has no sourcefiles", ErrMalformedReport, pkg.Name)
		}

		for _, sf := range pkg.SourceFiles {
			if sf.Name == "" {
				return nil, fmt.Errorf("%w: package %q has a sourcefile without a name", ErrMalformedReport, pkg.Name)
			}

			fc, err := buildFileCoverage(pkg.Name, sf)
			if err != nil {
				return nil, err
			}

			// Merged reports can list the same package twice; fold
			// duplicate sourcefiles into one entry.
			if existing, ok := files[fc.FilePath]; ok {
				fc = mergeFileCoverage(existing, fc)
			}
			files[fc.FilePath] = fc
		}
	}

	return &ProjectCoverage{
		Files:  files,
		Totals: sumTotals(files),
	}, nil
}

// buildFileCoverage converts one sourcefile element into a FileCoverage.
func buildFileCoverage(packageName string, sf jacocoSourceFile) (FileCoverage, error) {
	filePath := sf.Name
	if packageName != "" {
		filePath = packageName + "/" + sf.Name
	}

	units := make(map[Kind]Unit)
	for _, counter := range sf.Counters {
		kind, ok := counterKinds[counter.Type]
		if !ok {
			continue
		}
		if counter.Missed < 0 || counter.Covered < 0 {
			return FileCoverage{}, fmt.Errorf("%w: %s has negative %s counts", ErrMalformedReport, filePath, counter.Type)
		}
		units[kind] = units[kind].add(Unit{Covered: counter.Covered, Missed: counter.Missed})
	}

	var uncovered []int
	for _, line := range sf.Lines {
		if line.Nr <= 0 {
			return FileCoverage{}, fmt.Errorf("%w: %s has line nr %d", ErrMalformedReport, filePath, line.Nr)
		}
		if line.Mi < 0 || line.Ci < 0 || line.Mb < 0 || line.Cb < 0 {
			return FileCoverage{}, fmt.Errorf("%w: %s line %d has negative counts", ErrMalformedReport, filePath, line.Nr)
		}
		// A line with no covered instructions is uncovered.
		if line.Ci == 0 {
			uncovered = append(uncovered, line.Nr)
		}
	}

	return FileCoverage{
		FilePath:       filePath,
		Units:          units,
		UncoveredLines: normalizeLines(uncovered),
	}, nil
}

// mergeFileCoverage folds two entries for the same file path into one,
// summing units and unioning uncovered lines.
func mergeFileCoverage(a, b FileCoverage) FileCoverage {
	units := make(map[Kind]Unit, len(a.Units))
	for kind, unit := range a.Units {
		units[kind] = unit
	}
	for kind, unit := range b.Units {
		units[kind] = units[kind].add(unit)
	}

	return FileCoverage{
		FilePath:       a.FilePath,
		Units:          units,
		UncoveredLines: normalizeLines(append(append([]int{}, a.UncoveredLines...), b.UncoveredLines...)),
	}
}

// normalizeLines sorts line numbers ascending and removes duplicates.
func normalizeLines(lines []int) []int {
	if len(lines) == 0 {
		return []int{}
	}

	sort.Ints(lines)
	result := lines[:1]
	for _, nr := range lines[1:] {
		if nr != result[len(result)-1] {
			result = append(result, nr)
		}
	}
	return result
}
