package review

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/covpilot/covpilot/internal/javasrc"
)

// Issue categories.
const (
	CategorySecurity        = "security"
	CategoryQuality         = "quality"
	CategoryDocumentation   = "documentation"
	CategoryMaintainability = "maintainability"
)

// Issue is a single finding in a reviewed file.
type Issue struct {
	Category   string `json:"category"`
	Rule       string `json:"rule"`
	Line       int    `json:"line,omitempty"`
	Detail     string `json:"detail"`
	Suggestion string `json:"suggestion"`
}

// Report collects the findings for one file.
type Report struct {
	File        string         `json:"file"`
	Issues      []Issue        `json:"issues"`
	TotalIssues int            `json:"total_issues"`
	Summary     map[string]int `json:"summary"`
}

// Scanner reviews Java sources for common quality and security problems.
// The checks are heuristic: they flag patterns worth a human look, they
// do not prove defects.
type Scanner struct {
	// MaxMethodLines is the length above which a method is flagged.
	MaxMethodLines int

	extractor *javasrc.Extractor
}

// NewScanner creates a scanner with default limits.
func NewScanner() *Scanner {
	return &Scanner{
		MaxMethodLines: 50,
		extractor:      javasrc.NewExtractor(),
	}
}

var (
	sqlConcatRe  = regexp.MustCompile(`(?i)"[^"]*\b(select|insert|update|delete)\b[^"]*"\s*\+`)
	importRe     = regexp.MustCompile(`^\s*import\s+(static\s+)?([\w.]+(?:\.\*)?)\s*;`)
	emptyCatchRe = regexp.MustCompile(`catch\s*\([^)]*\)\s*\{\s*\}`)
	todoRe       = regexp.MustCompile(`//\s*(TODO|FIXME)\b`)
)

// Scan reviews one file. Sources that fail to parse still get the
// line-based checks; only the method-level checks need a parse tree.
func (s *Scanner) Scan(filePath string, source []byte) *Report {
	report := &Report{
		File:    filePath,
		Issues:  []Issue{},
		Summary: map[string]int{},
	}

	lines := strings.Split(string(source), "\n")
	s.scanLines(report, lines)
	s.scanImports(report, lines)
	s.scanEmptyCatch(report, string(source))

	if model, err := s.extractor.Extract(source); err == nil {
		s.scanMethods(report, model, lines)
	}

	sort.SliceStable(report.Issues, func(i, j int) bool {
		return report.Issues[i].Line < report.Issues[j].Line
	})

	report.TotalIssues = len(report.Issues)
	for _, issue := range report.Issues {
		report.Summary[issue.Category]++
	}
	return report
}

// scanLines applies the single-line pattern checks.
func (s *Scanner) scanLines(report *Report, lines []string) {
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		lineNo := i + 1

		if todoRe.MatchString(line) {
			report.add(Issue{
				Category:   CategoryMaintainability,
				Rule:       "todo-comment",
				Line:       lineNo,
				Detail:     "TODO/FIXME comment left in code",
				Suggestion: "Resolve the marker or track it in the issue tracker",
			})
		}

		// Comment lines cannot execute anything; skip the code checks.
		if strings.HasPrefix(line, "//") || strings.HasPrefix(line, "*") || strings.HasPrefix(line, "/*") {
			continue
		}

		if strings.Contains(line, "System.out.println") || strings.Contains(line, "System.err.println") {
			report.add(Issue{
				Category:   CategoryQuality,
				Rule:       "avoid-system-out",
				Line:       lineNo,
				Detail:     "Console output in production code",
				Suggestion: "Use a logging framework (SLF4J) instead of System.out/err",
			})
		}

		if strings.Contains(line, ".printStackTrace()") {
			report.add(Issue{
				Category:   CategoryQuality,
				Rule:       "avoid-print-stack-trace",
				Line:       lineNo,
				Detail:     "Exception printed to stderr and swallowed",
				Suggestion: "Log the exception or rethrow it with context",
			})
		}

		if strings.Contains(line, "Runtime.getRuntime().exec") || strings.Contains(line, "new ProcessBuilder") {
			report.add(Issue{
				Category:   CategorySecurity,
				Rule:       "no-runtime-exec",
				Line:       lineNo,
				Detail:     "External command execution",
				Suggestion: "Validate and allow-list any input reaching the command line",
			})
		}

		if sqlConcatRe.MatchString(line) {
			report.add(Issue{
				Category:   CategorySecurity,
				Rule:       "no-sql-concatenation",
				Line:       lineNo,
				Detail:     "SQL built by string concatenation",
				Suggestion: "Use a PreparedStatement with bind parameters",
			})
		}
	}
}

// scanImports flags wildcard imports and imports never referenced in
// the rest of the file.
func (s *Scanner) scanImports(report *Report, lines []string) {
	type importLine struct {
		path   string
		simple string
		lineNo int
	}

	var imports []importLine
	var body strings.Builder
	for i, raw := range lines {
		match := importRe.FindStringSubmatch(raw)
		if match == nil {
			body.WriteString(raw)
			body.WriteByte('\n')
			continue
		}

		path := match[2]
		if strings.HasSuffix(path, ".*") {
			report.add(Issue{
				Category:   CategoryMaintainability,
				Rule:       "wildcard-import",
				Line:       i + 1,
				Detail:     fmt.Sprintf("Wildcard import %s", path),
				Suggestion: "Import the specific types you use",
			})
			continue
		}

		segments := strings.Split(path, ".")
		imports = append(imports, importLine{
			path:   path,
			simple: segments[len(segments)-1],
			lineNo: i + 1,
		})
	}

	text := body.String()
	for _, imp := range imports {
		used, err := regexp.MatchString(`\b`+regexp.QuoteMeta(imp.simple)+`\b`, text)
		if err == nil && !used {
			report.add(Issue{
				Category:   CategoryMaintainability,
				Rule:       "unused-import",
				Line:       imp.lineNo,
				Detail:     fmt.Sprintf("Import %s is never used", imp.path),
				Suggestion: "Remove the unused import",
			})
		}
	}
}

// scanEmptyCatch finds catch blocks with no body.
func (s *Scanner) scanEmptyCatch(report *Report, source string) {
	for _, loc := range emptyCatchRe.FindAllStringIndex(source, -1) {
		lineNo := strings.Count(source[:loc[0]], "\n") + 1
		report.add(Issue{
			Category:   CategoryQuality,
			Rule:       "empty-catch",
			Line:       lineNo,
			Detail:     "Exception caught and silently discarded",
			Suggestion: "Handle the exception, log it, or narrow the try block",
		})
	}
}

// scanMethods applies the parse-tree-backed checks: method length and
// javadoc on public methods.
func (s *Scanner) scanMethods(report *Report, model *javasrc.SourceModel, lines []string) {
	for _, method := range model.Methods {
		length := methodLength(lines, method.Line)
		if length > s.MaxMethodLines {
			report.add(Issue{
				Category:   CategoryMaintainability,
				Rule:       "method-too-long",
				Line:       method.Line,
				Detail:     fmt.Sprintf("%s.%s is %d lines long (limit %d)", method.Class, method.Name, length, s.MaxMethodLines),
				Suggestion: "Extract helper methods with single responsibilities",
			})
		}

		if method.Visibility == javasrc.VisibilityPublic && !hasJavadoc(lines, method.Line) {
			report.add(Issue{
				Category:   CategoryDocumentation,
				Rule:       "missing-javadoc",
				Line:       method.Line,
				Detail:     fmt.Sprintf("Public method %s.%s has no javadoc", method.Class, method.Name),
				Suggestion: "Document the contract: parameters, return value, thrown exceptions",
			})
		}
	}
}

// methodLength counts lines from the method declaration to its closing
// brace using brace depth. String literals containing braces can skew
// the count; the limit check tolerates that.
func methodLength(lines []string, startLine int) int {
	if startLine < 1 || startLine > len(lines) {
		return 0
	}

	depth := 0
	opened := false
	for i := startLine - 1; i < len(lines); i++ {
		for _, ch := range lines[i] {
			switch ch {
			case '{':
				depth++
				opened = true
			case '}':
				depth--
			}
		}
		if opened && depth <= 0 {
			return i - (startLine - 1) + 1
		}
		// Abstract and interface methods end at the semicolon.
		if !opened && strings.Contains(lines[i], ";") {
			return i - (startLine - 1) + 1
		}
	}
	return len(lines) - (startLine - 1)
}

// hasJavadoc reports whether the first substantive line above the
// declaration closes a block comment. Annotations between the comment
// and the declaration are skipped.
func hasJavadoc(lines []string, declLine int) bool {
	for i := declLine - 2; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "@") {
			continue
		}
		return strings.HasSuffix(line, "*/")
	}
	return false
}

func (r *Report) add(issue Issue) {
	r.Issues = append(r.Issues, issue)
}
