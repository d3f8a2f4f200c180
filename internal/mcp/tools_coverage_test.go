package mcp

// Test Plan for the coverage tools:
// - find_jacoco_report returns the located report path, errors when absent
// - total_coverage aggregates against the default and per-call thresholds
// - missing_coverage returns uncovered lines, resolves path suffixes,
//   distinguishes fully-covered from not-instrumented
// - malformed argument payloads surface as tool errors, not failures
// Handlers are exercised directly through their factories with a fixture
// report written to a temp project.

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoFileReport has Calc.java fully covered and Util.java at 40% line
// coverage with lines 5, 6, and 9 uncovered. Overall line coverage is
// 14/20 = 70%.
const twoFileReport = `<?xml version="1.0" encoding="UTF-8"?>
<report name="fixture">
  <package name="com/example">
    <sourcefile name="Calc.java">
      <line nr="5" mi="0" ci="3"/>
      <line nr="6" mi="0" ci="2"/>
      <counter type="INSTRUCTION" missed="0" covered="25"/>
      <counter type="LINE" missed="0" covered="10"/>
    </sourcefile>
    <sourcefile name="Util.java">
      <line nr="5" mi="2" ci="0"/>
      <line nr="6" mi="1" ci="0"/>
      <line nr="9" mi="3" ci="0"/>
      <counter type="INSTRUCTION" missed="12" covered="8"/>
      <counter type="LINE" missed="6" covered="4"/>
    </sourcefile>
  </package>
</report>`

// writeFixtureReport places the two-file report at the conventional
// target/site/jacoco location and returns its path.
func writeFixtureReport(t *testing.T, project string) string {
	t.Helper()
	dir := filepath.Join(project, "target", "site", "jacoco")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	reportPath := filepath.Join(dir, "jacoco.xml")
	require.NoError(t, os.WriteFile(reportPath, []byte(twoFileReport), 0o644))
	return reportPath
}

func TestFindReportTool_Found(t *testing.T) {
	t.Parallel()

	deps := newTestDeps(t)
	reportPath := writeFixtureReport(t, deps.ProjectPath)
	handler := createFindReportHandler(deps)

	result, err := handler(context.Background(), toolRequest("find_jacoco_report", nil))
	require.NoError(t, err)

	var location ReportLocation
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &location))
	assert.Equal(t, reportPath, location.ReportPath)
	assert.Equal(t, deps.ProjectPath, location.ProjectPath)
	assert.WithinDuration(t, time.Now(), location.Modified, time.Minute)
}

func TestFindReportTool_NoReport(t *testing.T) {
	t.Parallel()

	// Test: a project without a report is a tool error with a hint
	deps := newTestDeps(t)
	handler := createFindReportHandler(deps)

	result, err := handler(context.Background(), toolRequest("find_jacoco_report", nil))
	require.NoError(t, err)

	msg := errorText(t, result)
	assert.Contains(t, msg, "no JaCoCo report")
	assert.Contains(t, msg, "jacoco:report")
}

func TestFindReportTool_InvalidArgumentsFormat(t *testing.T) {
	t.Parallel()

	deps := newTestDeps(t)
	handler := createFindReportHandler(deps)

	request := toolRequest("find_jacoco_report", nil)
	request.Params.Arguments = "not a map"
	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	assert.Contains(t, errorText(t, result), "invalid arguments format")
}

func TestTotalCoverageTool_DefaultThreshold(t *testing.T) {
	t.Parallel()

	// Test: the config threshold (90) applies when the call omits one
	deps := newTestDeps(t)
	reportPath := writeFixtureReport(t, deps.ProjectPath)
	handler := createTotalCoverageHandler(deps)

	result, err := handler(context.Background(), toolRequest("total_coverage", map[string]interface{}{}))
	require.NoError(t, err)

	var report CoverageReport
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &report))
	assert.Equal(t, reportPath, report.ReportPath)
	assert.Equal(t, 2, report.Files)
	assert.Equal(t, 90.0, report.Threshold)
	assert.InDelta(t, 70.0, report.Overall["line"], 0.01)
	assert.False(t, report.MeetsTarget)
	assert.Equal(t, []string{"com/example/Util.java"}, report.FilesBelowThreshold)
}

func TestTotalCoverageTool_ThresholdArgument(t *testing.T) {
	t.Parallel()

	// Test: a per-call threshold overrides the configured one
	deps := newTestDeps(t)
	writeFixtureReport(t, deps.ProjectPath)
	handler := createTotalCoverageHandler(deps)

	result, err := handler(context.Background(), toolRequest("total_coverage", map[string]interface{}{
		"threshold": 60.0,
	}))
	require.NoError(t, err)

	var report CoverageReport
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &report))
	assert.Equal(t, 60.0, report.Threshold)
	assert.True(t, report.MeetsTarget, "70%% overall meets a 60%% target")
	assert.Equal(t, []string{"com/example/Util.java"}, report.FilesBelowThreshold)
}

func TestTotalCoverageTool_ThresholdOutOfRange(t *testing.T) {
	t.Parallel()

	deps := newTestDeps(t)
	writeFixtureReport(t, deps.ProjectPath)
	handler := createTotalCoverageHandler(deps)

	result, err := handler(context.Background(), toolRequest("total_coverage", map[string]interface{}{
		"threshold": 150.0,
	}))
	require.NoError(t, err)
	assert.Contains(t, errorText(t, result), "between 0 and 100")
}

func TestTotalCoverageTool_NoReport(t *testing.T) {
	t.Parallel()

	deps := newTestDeps(t)
	handler := createTotalCoverageHandler(deps)

	result, err := handler(context.Background(), toolRequest("total_coverage", nil))
	require.NoError(t, err)
	assert.Contains(t, errorText(t, result), "no JaCoCo report")
}

func TestMissingCoverageTool_UncoveredLines(t *testing.T) {
	t.Parallel()

	deps := newTestDeps(t)
	reportPath := writeFixtureReport(t, deps.ProjectPath)
	handler := createMissingCoverageHandler(deps)

	result, err := handler(context.Background(), toolRequest("missing_coverage", map[string]interface{}{
		"file_path": "com/example/Util.java",
	}))
	require.NoError(t, err)

	var gaps FileGaps
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &gaps))
	assert.Equal(t, reportPath, gaps.ReportPath)
	assert.Equal(t, "com/example/Util.java", gaps.File)
	assert.Equal(t, 3, gaps.TotalUncoveredLines)
	assert.Equal(t, []int{5, 6, 9}, gaps.UncoveredLines)
}

func TestMissingCoverageTool_SuffixLookup(t *testing.T) {
	t.Parallel()

	// Test: a bare file name resolves to the report path
	deps := newTestDeps(t)
	writeFixtureReport(t, deps.ProjectPath)
	handler := createMissingCoverageHandler(deps)

	result, err := handler(context.Background(), toolRequest("missing_coverage", map[string]interface{}{
		"file_path": "Util.java",
	}))
	require.NoError(t, err)

	var gaps FileGaps
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &gaps))
	assert.Equal(t, "com/example/Util.java", gaps.File)
	assert.Equal(t, []int{5, 6, 9}, gaps.UncoveredLines)
}

func TestMissingCoverageTool_FullyCovered(t *testing.T) {
	t.Parallel()

	// Test: a fully covered file is a success with an empty list
	deps := newTestDeps(t)
	writeFixtureReport(t, deps.ProjectPath)
	handler := createMissingCoverageHandler(deps)

	result, err := handler(context.Background(), toolRequest("missing_coverage", map[string]interface{}{
		"file_path": "Calc.java",
	}))
	require.NoError(t, err)

	var gaps FileGaps
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &gaps))
	assert.Equal(t, 0, gaps.TotalUncoveredLines)
	assert.Empty(t, gaps.UncoveredLines)
}

func TestMissingCoverageTool_NotInstrumented(t *testing.T) {
	t.Parallel()

	deps := newTestDeps(t)
	writeFixtureReport(t, deps.ProjectPath)
	handler := createMissingCoverageHandler(deps)

	result, err := handler(context.Background(), toolRequest("missing_coverage", map[string]interface{}{
		"file_path": "Unknown.java",
	}))
	require.NoError(t, err)
	assert.Contains(t, errorText(t, result), "not in the coverage report")
}

func TestMissingCoverageTool_RequiresFilePath(t *testing.T) {
	t.Parallel()

	deps := newTestDeps(t)
	handler := createMissingCoverageHandler(deps)

	result, err := handler(context.Background(), toolRequest("missing_coverage", map[string]interface{}{}))
	require.NoError(t, err)
	assert.Contains(t, errorText(t, result), "file_path parameter is required")
}
