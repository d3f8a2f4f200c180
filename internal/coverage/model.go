package coverage

import "sort"

// Kind identifies a JaCoCo counter dimension.
type Kind string

const (
	KindLine        Kind = "line"
	KindBranch      Kind = "branch"
	KindMethod      Kind = "method"
	KindInstruction Kind = "instruction"
)

// Kinds returns all counter dimensions in stable order.
func Kinds() []Kind {
	return []Kind{KindLine, KindBranch, KindMethod, KindInstruction}
}

// Unit is a covered/missed tally for one counter kind.
// The instrumented total is always Covered+Missed; it is never stored separately.
type Unit struct {
	Covered int `json:"covered"`
	Missed  int `json:"missed"`
}

// Total returns the number of instrumented units.
func (u Unit) Total() int {
	return u.Covered + u.Missed
}

// Percentage returns the covered share in [0, 100].
// A unit with nothing instrumented counts as fully covered (100), not as an error.
func (u Unit) Percentage() float64 {
	total := u.Covered + u.Missed
	if total == 0 {
		return 100.0
	}
	return float64(u.Covered) / float64(total) * 100.0
}

// add returns the element-wise sum of two units.
func (u Unit) add(other Unit) Unit {
	return Unit{
		Covered: u.Covered + other.Covered,
		Missed:  u.Missed + other.Missed,
	}
}

// FileCoverage holds the counters and uncovered source lines for one file.
// UncoveredLines is sorted ascending and contains no duplicates.
type FileCoverage struct {
	FilePath       string        `json:"file_path"`
	Units          map[Kind]Unit `json:"units"`
	UncoveredLines []int         `json:"uncovered_lines"`
}

// Unit returns the tally for the given kind, or a zero unit when the
// report carried no counter of that kind for this file.
func (fc FileCoverage) Unit(kind Kind) Unit {
	return fc.Units[kind]
}

// ProjectCoverage is the parsed form of one JaCoCo report.
// Totals are derived by summing per-file units at parse time; the report's
// own top-level counters are ignored, so Totals[k] always equals the sum of
// Files[*].Units[k].
type ProjectCoverage struct {
	Files  map[string]FileCoverage `json:"files"`
	Totals map[Kind]Unit           `json:"totals"`
}

// SortedPaths returns all instrumented file paths in lexicographic order.
func (pc *ProjectCoverage) SortedPaths() []string {
	paths := make([]string, 0, len(pc.Files))
	for path := range pc.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// sumTotals computes project totals from per-file units.
func sumTotals(files map[string]FileCoverage) map[Kind]Unit {
	totals := make(map[Kind]Unit, len(Kinds()))
	for _, kind := range Kinds() {
		totals[kind] = Unit{}
	}
	for _, fc := range files {
		for kind, unit := range fc.Units {
			totals[kind] = totals[kind].add(unit)
		}
	}
	return totals
}

// Summary is the aggregated view of a project report against a line
// coverage threshold.
type Summary struct {
	Overall             map[Kind]float64 `json:"overall"`
	FilesBelowThreshold []string         `json:"files_below_threshold"`
	MeetsTarget         bool             `json:"meets_target"`
	Threshold           float64          `json:"threshold"`
}

// GapReport lists the uncovered source lines of one instrumented file.
type GapReport struct {
	File                string `json:"file"`
	TotalUncoveredLines int    `json:"total_uncovered_lines"`
	UncoveredLines      []int  `json:"uncovered_lines"`
}
