package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Aggregate:
// - Overall percentages follow covered/(covered+missed)*100 exactly
// - meets_target compares the overall line percentage to the threshold
// - Threshold 0 is always met; threshold 100 is met only with zero missed lines
// - Files below threshold sort by missed line count descending, path ascending
// - A file at exactly the threshold is not below it
// - An empty project reports 100 on every kind

// buildProject assembles a ProjectCoverage from per-file line units.
func buildProject(files map[string]Unit) *ProjectCoverage {
	pc := &ProjectCoverage{Files: make(map[string]FileCoverage, len(files))}
	for path, unit := range files {
		pc.Files[path] = FileCoverage{
			FilePath:       path,
			Units:          map[Kind]Unit{KindLine: unit},
			UncoveredLines: []int{},
		}
	}
	pc.Totals = sumTotals(pc.Files)
	return pc
}

// Test: Overall percentages use the exact quotient formula
func TestAggregate_OverallPercentages(t *testing.T) {
	t.Parallel()

	pc, err := ParseReport(readTestReport(t))
	require.NoError(t, err)

	summary := Aggregate(pc, 90.0)

	assert.Equal(t, float64(18)/float64(25)*100.0, summary.Overall[KindLine])
	assert.Equal(t, float64(7)/float64(10)*100.0, summary.Overall[KindBranch])
	assert.Equal(t, float64(5)/float64(7)*100.0, summary.Overall[KindMethod])
	assert.Equal(t, float64(70)/float64(90)*100.0, summary.Overall[KindInstruction])
	assert.Equal(t, 90.0, summary.Threshold)
	assert.False(t, summary.MeetsTarget)
}

// Test: Target is met when the line percentage reaches the threshold
func TestAggregate_MeetsTarget(t *testing.T) {
	t.Parallel()

	pc := buildProject(map[string]Unit{
		"com/example/Foo.java": {Covered: 9, Missed: 1},
	})

	assert.True(t, Aggregate(pc, 90.0).MeetsTarget, "90.0 meets a 90 threshold")
	assert.False(t, Aggregate(pc, 90.1).MeetsTarget)
}

// Test: Threshold 0 is met by any project, with no files below
func TestAggregate_ThresholdZero(t *testing.T) {
	t.Parallel()

	pc := buildProject(map[string]Unit{
		"com/example/Dead.java": {Covered: 0, Missed: 50},
	})

	summary := Aggregate(pc, 0)
	assert.True(t, summary.MeetsTarget)
	assert.Empty(t, summary.FilesBelowThreshold)
}

// Test: Threshold 100 is met only when nothing is missed
func TestAggregate_ThresholdHundred(t *testing.T) {
	t.Parallel()

	full := buildProject(map[string]Unit{
		"com/example/Full.java": {Covered: 12, Missed: 0},
	})
	assert.True(t, Aggregate(full, 100).MeetsTarget)
	assert.Empty(t, Aggregate(full, 100).FilesBelowThreshold)

	almost := buildProject(map[string]Unit{
		"com/example/Full.java":   {Covered: 12, Missed: 0},
		"com/example/Almost.java": {Covered: 99, Missed: 1},
	})
	summary := Aggregate(almost, 100)
	assert.False(t, summary.MeetsTarget)
	assert.Equal(t, []string{"com/example/Almost.java"}, summary.FilesBelowThreshold)
}

// Test: Below-threshold files order by missed lines, biggest gap first
func TestAggregate_BelowThresholdOrdering(t *testing.T) {
	t.Parallel()

	pc := buildProject(map[string]Unit{
		"com/example/Small.java":  {Covered: 8, Missed: 2},
		"com/example/Big.java":    {Covered: 5, Missed: 20},
		"com/example/B.java":      {Covered: 5, Missed: 5},
		"com/example/A.java":      {Covered: 5, Missed: 5},
		"com/example/Passes.java": {Covered: 100, Missed: 0},
	})

	summary := Aggregate(pc, 95.0)

	assert.Equal(t, []string{
		"com/example/Big.java",
		"com/example/A.java",
		"com/example/B.java",
		"com/example/Small.java",
	}, summary.FilesBelowThreshold)
}

// Test: A file exactly at the threshold is not below it
func TestAggregate_FileAtThreshold(t *testing.T) {
	t.Parallel()

	pc := buildProject(map[string]Unit{
		"com/example/Edge.java": {Covered: 9, Missed: 1},
	})

	summary := Aggregate(pc, 90.0)
	assert.Empty(t, summary.FilesBelowThreshold)
}

// Test: An empty project is fully covered by definition
func TestAggregate_EmptyProject(t *testing.T) {
	t.Parallel()

	pc := buildProject(map[string]Unit{})

	summary := Aggregate(pc, 90.0)
	for _, kind := range Kinds() {
		assert.InDelta(t, 100.0, summary.Overall[kind], 0.0001)
	}
	assert.True(t, summary.MeetsTarget)
	assert.Empty(t, summary.FilesBelowThreshold)
	assert.NotNil(t, summary.FilesBelowThreshold)
}
