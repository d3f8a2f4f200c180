package coverage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for LocateReport:
// - Finds reports at the conventional Maven and Gradle locations
// - Finds reports in nested modules of multi-module builds
// - Picks the most recently modified report when several exist
// - Breaks mtime ties toward the lexicographically smaller path
// - Returns ErrReportNotFound when nothing matches
// - Rejects project roots that do not exist or are not directories
// - Never descends into .git or node_modules

// writeReportAt creates a file at root/rel with the given mtime.
func writeReportAt(t *testing.T, root, rel string, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(`<report name="r"/>`), 0644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	return path
}

// Test: Conventional Maven location is found
func TestLocateReport_MavenConvention(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	expected := writeReportAt(t, root, "target/site/jacoco/jacoco.xml", time.Now())

	path, err := LocateReport(root)
	require.NoError(t, err)
	assert.Equal(t, expected, path)
}

// Test: Gradle report layouts are found
func TestLocateReport_GradleConvention(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	expected := writeReportAt(t, root, "build/reports/jacoco/test/jacocoTestReport.xml", time.Now())

	path, err := LocateReport(root)
	require.NoError(t, err)
	assert.Equal(t, expected, path)
}

// Test: Reports inside nested modules are found
func TestLocateReport_NestedModule(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	expected := writeReportAt(t, root, "services/billing/target/site/jacoco/jacoco.xml", time.Now())

	path, err := LocateReport(root)
	require.NoError(t, err)
	assert.Equal(t, expected, path)
}

// Test: The most recently modified report wins
func TestLocateReport_PicksMostRecent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	old := time.Now().Add(-2 * time.Hour)
	writeReportAt(t, root, "target/site/jacoco/jacoco.xml", old)
	expected := writeReportAt(t, root, "modules/core/target/site/jacoco/jacoco.xml", time.Now())

	path, err := LocateReport(root)
	require.NoError(t, err)
	assert.Equal(t, expected, path)
}

// Test: Equal timestamps resolve to the lexicographically smaller path
func TestLocateReport_TieBreaksDeterministically(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	stamp := time.Now().Truncate(time.Second)
	expected := writeReportAt(t, root, "alpha/target/site/jacoco/jacoco.xml", stamp)
	writeReportAt(t, root, "beta/target/site/jacoco/jacoco.xml", stamp)

	for i := 0; i < 3; i++ {
		path, err := LocateReport(root)
		require.NoError(t, err)
		assert.Equal(t, expected, path, "repeated calls must agree")
	}
}

// Test: No report anywhere returns ErrReportNotFound
func TestLocateReport_NotFound(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "main", "java"), 0755))

	_, err := LocateReport(root)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

// Test: A missing or non-directory root is an input error, not NotFound
func TestLocateReport_BadRoot(t *testing.T) {
	t.Parallel()

	_, err := LocateReport(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrReportNotFound)

	file := filepath.Join(t.TempDir(), "pom.xml")
	require.NoError(t, os.WriteFile(file, []byte("<project/>"), 0644))
	_, err = LocateReport(file)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrReportNotFound)
}

// Test: Reports under skipped directories are invisible
func TestLocateReport_SkipsVersionControlDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeReportAt(t, root, ".git/target/site/jacoco/jacoco.xml", time.Now())

	_, err := LocateReport(root)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

// Test: LoadReport locates and parses in one step
func TestLoadReport(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	data := readTestReport(t)
	reportPath := filepath.Join(root, "target", "site", "jacoco", "jacoco.xml")
	require.NoError(t, os.MkdirAll(filepath.Dir(reportPath), 0755))
	require.NoError(t, os.WriteFile(reportPath, data, 0644))

	pc, path, err := LoadReport(root)
	require.NoError(t, err)
	assert.Equal(t, reportPath, path)
	require.NotNil(t, pc)
	assert.Len(t, pc.Files, 3)
}

// Test: LoadReport surfaces parse failures with the report path
func TestLoadReport_MalformedReport(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeReportAt(t, root, "target/site/jacoco/jacoco.xml", time.Now())
	reportPath := filepath.Join(root, "target", "site", "jacoco", "jacoco.xml")
	require.NoError(t, os.WriteFile(reportPath, []byte("not xml"), 0644))

	_, _, err := LoadReport(root)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedReport)
	assert.Contains(t, err.Error(), "jacoco.xml")
}
