package review

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the review scanner:
// - Each rule fires on its pattern with the right line number
// - A documented public method is not flagged for javadoc
// - Non-public methods are not held to the javadoc rule
// - Long methods are flagged with their measured length
// - Clean sources produce an empty report
// - Unparseable sources still get the line-based checks
// - methodLength handles braced bodies and abstract declarations

const reviewFixture = `package com.example.store;

import java.util.List;
import java.util.Map;
import java.io.*;

public class OrderService {

    /**
     * Finds an order by id.
     */
    public String findOrder(String id) {
        String query = "SELECT * FROM orders WHERE id = " + id;
        System.out.println(query);
        return query;
    }

    public List<String> listOrders() {
        try {
            Runtime.getRuntime().exec("ls");
        } catch (Exception e) {}
        // TODO: add pagination
        return null;
    }

    protected void log(Exception e) {
        e.printStackTrace();
    }
}
`

func TestScan_FlagsEachRule(t *testing.T) {
	t.Parallel()

	scanner := NewScanner()
	report := scanner.Scan("OrderService.java", []byte(reviewFixture))

	expected := map[string]int{
		"unused-import":           4,
		"wildcard-import":         5,
		"no-sql-concatenation":    13,
		"avoid-system-out":        14,
		"missing-javadoc":         18,
		"no-runtime-exec":         20,
		"empty-catch":             21,
		"todo-comment":            22,
		"avoid-print-stack-trace": 27,
	}

	assert.Equal(t, len(expected), report.TotalIssues, "issues: %+v", report.Issues)
	for rule, line := range expected {
		issue := findIssue(t, report, rule)
		assert.Equal(t, line, issue.Line, "line for rule %s", rule)
		assert.NotEmpty(t, issue.Detail)
		assert.NotEmpty(t, issue.Suggestion)
	}

	// Summary counts per category
	assert.Equal(t, 2, report.Summary[CategorySecurity])
	assert.Equal(t, 3, report.Summary[CategoryQuality])
	assert.Equal(t, 3, report.Summary[CategoryMaintainability])
	assert.Equal(t, 1, report.Summary[CategoryDocumentation])
}

func TestScan_DocumentedPublicMethodNotFlagged(t *testing.T) {
	t.Parallel()

	scanner := NewScanner()
	report := scanner.Scan("OrderService.java", []byte(reviewFixture))

	// findOrder carries javadoc, listOrders does not
	for _, issue := range report.Issues {
		if issue.Rule == "missing-javadoc" {
			assert.Contains(t, issue.Detail, "listOrders")
			assert.NotContains(t, issue.Detail, "findOrder")
		}
	}
}

func TestScan_IssuesSortedByLine(t *testing.T) {
	t.Parallel()

	scanner := NewScanner()
	report := scanner.Scan("OrderService.java", []byte(reviewFixture))

	for i := 1; i < len(report.Issues); i++ {
		assert.LessOrEqual(t, report.Issues[i-1].Line, report.Issues[i].Line)
	}
}

func TestScan_FlagsLongMethod(t *testing.T) {
	t.Parallel()

	var body strings.Builder
	for i := 0; i < 60; i++ {
		body.WriteString("        count++;\n")
	}
	source := fmt.Sprintf(`package com.example;

public class Big {
    /** Grows. */
    public int grow() {
        int count = 0;
%s        return count;
    }
}
`, body.String())

	scanner := NewScanner()
	report := scanner.Scan("Big.java", []byte(source))

	issue := findIssue(t, report, "method-too-long")
	assert.Equal(t, 5, issue.Line)
	assert.Contains(t, issue.Detail, "Big.grow")
	assert.Contains(t, issue.Detail, "64 lines")
}

func TestScan_MethodLimitConfigurable(t *testing.T) {
	t.Parallel()

	source := `package com.example;

public class Small {
    /** Three lines. */
    public void ok() {
        int x = 0;
        x++;
    }
}
`

	scanner := NewScanner()
	scanner.MaxMethodLines = 3
	report := scanner.Scan("Small.java", []byte(source))

	issue := findIssue(t, report, "method-too-long")
	assert.Contains(t, issue.Detail, "Small.ok")
}

func TestScan_CleanSourceHasNoIssues(t *testing.T) {
	t.Parallel()

	source := `package com.example;

import java.util.List;

public class Clean {
    /**
     * Returns the names unchanged.
     */
    public List<String> passthrough(List<String> names) {
        return names;
    }
}
`

	scanner := NewScanner()
	report := scanner.Scan("Clean.java", []byte(source))

	assert.Equal(t, 0, report.TotalIssues)
	assert.Empty(t, report.Issues)
	assert.Empty(t, report.Summary)
}

func TestScan_BrokenSyntaxStillGetsLineChecks(t *testing.T) {
	t.Parallel()

	source := "public class Broken {{{\n    System.out.println(\"x\");\n"

	scanner := NewScanner()
	report := scanner.Scan("Broken.java", []byte(source))

	issue := findIssue(t, report, "avoid-system-out")
	assert.Equal(t, 2, issue.Line)
}

func TestScan_CommentedCodeNotFlagged(t *testing.T) {
	t.Parallel()

	source := `package com.example;

public class Quiet {
    /**
     * Does nothing. Example: System.out.println("x")
     */
    public void quiet() {
        // System.out.println("debug");
    }
}
`

	scanner := NewScanner()
	report := scanner.Scan("Quiet.java", []byte(source))

	for _, issue := range report.Issues {
		assert.NotEqual(t, "avoid-system-out", issue.Rule)
	}
}

func TestMethodLength_BracedBody(t *testing.T) {
	t.Parallel()

	lines := []string{
		"public void f() {",
		"    int x = 0;",
		"    x++;",
		"}",
	}

	assert.Equal(t, 4, methodLength(lines, 1))
}

func TestMethodLength_AbstractDeclaration(t *testing.T) {
	t.Parallel()

	lines := []string{
		"int audit(List<String> events);",
	}

	assert.Equal(t, 1, methodLength(lines, 1))
}

func TestHasJavadoc_SkipsAnnotations(t *testing.T) {
	t.Parallel()

	lines := []string{
		"/**",
		" * Documented.",
		" */",
		"@Override",
		"public void f() {",
	}

	assert.True(t, hasJavadoc(lines, 5))
}

func TestHasJavadoc_NoComment(t *testing.T) {
	t.Parallel()

	lines := []string{
		"}",
		"",
		"public void f() {",
	}

	assert.False(t, hasJavadoc(lines, 3))
}

// findIssue fails the test when the rule produced no issue.
func findIssue(t *testing.T, report *Report, rule string) Issue {
	t.Helper()
	for _, issue := range report.Issues {
		if issue.Rule == rule {
			return issue
		}
	}
	require.Failf(t, "issue not found", "rule %s missing from %+v", rule, report.Issues)
	return Issue{}
}
