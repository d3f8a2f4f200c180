package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for staging excludes:
// - Patterns without a slash match basenames anywhere in the tree
// - Patterns with a slash match from the repo root
// - Directory patterns also match inside nested modules
// - Partial directory names do not match
// - Invalid patterns fail compilation

func TestExcludeSet_BasenamePatterns(t *testing.T) {
	t.Parallel()

	set, err := compileExcludes([]string{"*.class", ".DS_Store"})
	require.NoError(t, err)

	// Test: *.class skips compiled output at any depth
	assert.True(t, set.Match("App.class"))
	assert.True(t, set.Match("target/classes/com/example/App.class"))
	assert.True(t, set.Match(".DS_Store"))
	assert.True(t, set.Match("src/.DS_Store"))

	assert.False(t, set.Match("App.java"))
	assert.False(t, set.Match("classfile.txt"))
}

func TestExcludeSet_PathPatterns(t *testing.T) {
	t.Parallel()

	set, err := compileExcludes([]string{"target/**", "node_modules/**"})
	require.NoError(t, err)

	// Test: Root-level build directories are skipped
	assert.True(t, set.Match("target/classes/App.class"))
	assert.True(t, set.Match("node_modules/pkg/index.js"))

	// Test: The same directories inside nested modules are skipped too
	assert.True(t, set.Match("module-a/target/surefire-reports/report.txt"))
	assert.True(t, set.Match("web/node_modules/pkg/index.js"))

	assert.False(t, set.Match("src/main/java/App.java"))
}

func TestExcludeSet_PartialNamesDoNotMatch(t *testing.T) {
	t.Parallel()

	set, err := compileExcludes([]string{"target/**"})
	require.NoError(t, err)

	// Test: "retarget" is not "target"
	assert.False(t, set.Match("retarget/file.txt"))
	assert.False(t, set.Match("src/retarget/file.txt"))
}

func TestExcludeSet_WindowsSeparatorsNormalized(t *testing.T) {
	t.Parallel()

	set, err := compileExcludes([]string{"target/**"})
	require.NoError(t, err)

	assert.True(t, set.Match(`target\classes\App.class`))
}

func TestCompileExcludes_InvalidPattern(t *testing.T) {
	t.Parallel()

	// Test: Invalid patterns fail compilation with the pattern named
	_, err := compileExcludes([]string{"[unclosed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[unclosed")
}

func TestCompileExcludes_EmptyList(t *testing.T) {
	t.Parallel()

	set, err := compileExcludes(nil)
	require.NoError(t, err)

	assert.False(t, set.Match("anything.txt"))
}
