package coverage

import "sort"

// Aggregate computes a Summary of the project against a line coverage
// threshold in [0, 100].
//
// The target is met when the overall line percentage reaches the threshold.
// A file lands in FilesBelowThreshold when its own line percentage falls
// short; the list is ordered by missed line count descending (biggest gap
// first) with ties broken by path ascending.
func Aggregate(pc *ProjectCoverage, threshold float64) Summary {
	overall := make(map[Kind]float64, len(Kinds()))
	for _, kind := range Kinds() {
		overall[kind] = pc.Totals[kind].Percentage()
	}

	var below []string
	for path, fc := range pc.Files {
		if fc.Unit(KindLine).Percentage() < threshold {
			below = append(below, path)
		}
	}

	sort.Slice(below, func(i, j int) bool {
		mi := pc.Files[below[i]].Unit(KindLine).Missed
		mj := pc.Files[below[j]].Unit(KindLine).Missed
		if mi != mj {
			return mi > mj
		}
		return below[i] < below[j]
	})
	if below == nil {
		below = []string{}
	}

	return Summary{
		Overall:             overall,
		FilesBelowThreshold: below,
		MeetsTarget:         overall[KindLine] >= threshold,
		Threshold:           threshold,
	}
}
