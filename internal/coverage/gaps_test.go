package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Gaps:
// - Exact report keys resolve directly
// - Workspace paths resolve by path-boundary suffix in either direction
// - Bare file names resolve by basename
// - Ambiguous basenames resolve deterministically
// - Fully covered files report zero gaps without error
// - Files absent from the report return ErrNotInstrumented
// - Returned line slices are copies, not views into the project

func gapsProject(t *testing.T) *ProjectCoverage {
	t.Helper()
	pc, err := ParseReport(readTestReport(t))
	require.NoError(t, err)
	return pc
}

// Test: Exact report key
func TestGaps_ExactKey(t *testing.T) {
	t.Parallel()

	report, err := Gaps(gapsProject(t), "com/example/Foo.java")
	require.NoError(t, err)

	assert.Equal(t, "com/example/Foo.java", report.File)
	assert.Equal(t, 2, report.TotalUncoveredLines)
	assert.Equal(t, []int{15, 42}, report.UncoveredLines)
}

// Test: Workspace-relative path resolves by suffix
func TestGaps_WorkspacePath(t *testing.T) {
	t.Parallel()

	report, err := Gaps(gapsProject(t), "src/main/java/com/example/Foo.java")
	require.NoError(t, err)

	assert.Equal(t, "com/example/Foo.java", report.File)
	assert.Equal(t, []int{15, 42}, report.UncoveredLines)
}

// Test: Partial package path resolves by reverse suffix
func TestGaps_PartialPackagePath(t *testing.T) {
	t.Parallel()

	report, err := Gaps(gapsProject(t), "example/util/Strings.java")
	require.NoError(t, err)

	assert.Equal(t, "com/example/util/Strings.java", report.File)
	assert.Equal(t, []int{7, 8, 9, 20, 21}, report.UncoveredLines)
}

// Test: Bare file name resolves by basename
func TestGaps_Basename(t *testing.T) {
	t.Parallel()

	report, err := Gaps(gapsProject(t), "Strings.java")
	require.NoError(t, err)

	assert.Equal(t, "com/example/util/Strings.java", report.File)
}

// Test: Backslash separators are tolerated
func TestGaps_WindowsSeparators(t *testing.T) {
	t.Parallel()

	report, err := Gaps(gapsProject(t), `com\example\Foo.java`)
	require.NoError(t, err)
	assert.Equal(t, "com/example/Foo.java", report.File)
}

// Test: Ambiguous basenames resolve to the smallest key, repeatably
func TestGaps_AmbiguousBasename(t *testing.T) {
	t.Parallel()

	data := `<report name="r">
		<package name="com/a"><sourcefile name="Dup.java"><counter type="LINE" missed="0" covered="1"/></sourcefile></package>
		<package name="com/b"><sourcefile name="Dup.java"><counter type="LINE" missed="0" covered="1"/></sourcefile></package>
	</report>`
	pc, err := ParseReport([]byte(data))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		report, err := Gaps(pc, "Dup.java")
		require.NoError(t, err)
		assert.Equal(t, "com/a/Dup.java", report.File)
	}
}

// Test: A fully covered file yields an empty report, not an error
func TestGaps_FullyCovered(t *testing.T) {
	t.Parallel()

	report, err := Gaps(gapsProject(t), "com/example/Bar.java")
	require.NoError(t, err)

	assert.Equal(t, "com/example/Bar.java", report.File)
	assert.Equal(t, 0, report.TotalUncoveredLines)
	assert.Empty(t, report.UncoveredLines)
	assert.NotNil(t, report.UncoveredLines)
}

// Test: Absent files are NotInstrumented, never an empty report
func TestGaps_NotInstrumented(t *testing.T) {
	t.Parallel()

	_, err := Gaps(gapsProject(t), "com/example/Ghost.java")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotInstrumented)
	assert.Contains(t, err.Error(), "Ghost.java")
}

// Test: Mutating the returned slice leaves the project untouched
func TestGaps_CopiesLines(t *testing.T) {
	t.Parallel()

	pc := gapsProject(t)
	report, err := Gaps(pc, "com/example/Foo.java")
	require.NoError(t, err)

	report.UncoveredLines[0] = 9999
	again, err := Gaps(pc, "com/example/Foo.java")
	require.NoError(t, err)
	assert.Equal(t, []int{15, 42}, again.UncoveredLines)
}
