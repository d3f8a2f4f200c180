package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/covpilot/covpilot/internal/coverage"
	"github.com/covpilot/covpilot/internal/loop"
	"github.com/covpilot/covpilot/internal/maven"
	"github.com/covpilot/covpilot/internal/review"
)

// styles provides pre-configured lipgloss styles for terminal output.
var styles = struct {
	Title lipgloss.Style
	Pass  lipgloss.Style
	Fail  lipgloss.Style
	Warn  lipgloss.Style
	Muted lipgloss.Style
}{
	Title: lipgloss.NewStyle().Bold(true),
	Pass:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	Fail:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	Warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// renderSummary formats an aggregated coverage summary.
func renderSummary(s coverage.Summary) string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Coverage Summary") + "\n")
	for _, kind := range coverage.Kinds() {
		line := fmt.Sprintf("  %-12s %6.1f%%", kind, s.Overall[kind])
		if kind == coverage.KindLine {
			if s.MeetsTarget {
				line += "  " + styles.Pass.Render(fmt.Sprintf("✓ target %.1f%%", s.Threshold))
			} else {
				line += "  " + styles.Fail.Render(fmt.Sprintf("✗ target %.1f%%", s.Threshold))
			}
		}
		b.WriteString(line + "\n")
	}

	if len(s.FilesBelowThreshold) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.Warn.Render(fmt.Sprintf("%d file(s) below threshold:", len(s.FilesBelowThreshold))) + "\n")
		for _, f := range s.FilesBelowThreshold {
			b.WriteString("  " + f + "\n")
		}
	}

	return b.String()
}

// renderGaps formats a per-file gap report.
func renderGaps(g coverage.GapReport) string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(g.File) + "\n")
	if g.TotalUncoveredLines == 0 {
		b.WriteString("  " + styles.Pass.Render("✓ fully covered") + "\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("  %s uncovered line(s): %s\n",
		styles.Fail.Render(strconv.Itoa(g.TotalUncoveredLines)),
		formatLineRanges(g.UncoveredLines)))

	return b.String()
}

// renderBuild formats a completed maven invocation.
func renderBuild(res *maven.BuildResult) string {
	var b strings.Builder

	duration := formatDuration(time.Duration(res.DurationMS) * time.Millisecond)
	if res.Success {
		b.WriteString(styles.Pass.Render("✓ BUILD SUCCESS") + styles.Muted.Render(" ("+duration+")") + "\n")
	} else {
		b.WriteString(styles.Fail.Render(fmt.Sprintf("✗ BUILD FAILURE (exit %d, %s)", res.ExitCode, duration)) + "\n")
	}

	if res.TimedOut {
		b.WriteString("  " + styles.Warn.Render("build timed out") + "\n")
	}

	if res.Tests != nil {
		b.WriteString(fmt.Sprintf("  Tests: %d run, %d failures, %d errors, %d skipped\n",
			res.Tests.Run, res.Tests.Failures, res.Tests.Errors, res.Tests.Skipped))
	}

	if res.ReportPath != "" {
		b.WriteString(styles.Muted.Render("  Report: "+res.ReportPath) + "\n")
	}

	return b.String()
}

// renderReview formats a review report.
func renderReview(r *review.Report) string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(r.File) + "\n")
	if r.TotalIssues == 0 {
		b.WriteString("  " + styles.Pass.Render("✓ no findings") + "\n")
		return b.String()
	}

	for _, issue := range r.Issues {
		loc := ""
		if issue.Line > 0 {
			loc = fmt.Sprintf(":%d", issue.Line)
		}
		b.WriteString(fmt.Sprintf("  %s %s\n",
			styles.Warn.Render(fmt.Sprintf("[%s/%s]%s", issue.Category, issue.Rule, loc)),
			issue.Detail))
		b.WriteString(styles.Muted.Render("    "+issue.Suggestion) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %d finding(s)", r.TotalIssues))
	var cats []string
	for cat, n := range r.Summary {
		cats = append(cats, fmt.Sprintf("%s %d", cat, n))
	}
	if len(cats) > 0 {
		sort.Strings(cats)
		b.WriteString(styles.Muted.Render(" (" + strings.Join(cats, ", ") + ")"))
	}
	b.WriteString("\n")

	return b.String()
}

// renderLoopResult formats the final state of a coverage loop.
func renderLoopResult(res *loop.Result) string {
	var b strings.Builder

	b.WriteString("\n")
	if res.MeetsTarget {
		b.WriteString(styles.Pass.Render(fmt.Sprintf("✓ target met: line coverage %.1f%%", res.FinalLine)) + "\n")
	} else {
		b.WriteString(styles.Fail.Render(fmt.Sprintf("✗ stopped (%s): line coverage %.1f%%", res.Stopped, res.FinalLine)) + "\n")
	}
	b.WriteString(styles.Muted.Render(fmt.Sprintf("  %d round(s)", len(res.Rounds))) + "\n")

	return b.String()
}

// formatLineRanges compresses a sorted line list into ranges.
// Examples: [5 6 7 12] -> "5-7, 12", [3] -> "3"
func formatLineRanges(lines []int) string {
	if len(lines) == 0 {
		return ""
	}

	var parts []string
	start, prev := lines[0], lines[0]
	for _, n := range lines[1:] {
		if n == prev+1 {
			prev = n
			continue
		}
		parts = append(parts, rangeString(start, prev))
		start, prev = n, n
	}
	parts = append(parts, rangeString(start, prev))

	return strings.Join(parts, ", ")
}

func rangeString(start, end int) string {
	if start == end {
		return strconv.Itoa(start)
	}
	return fmt.Sprintf("%d-%d", start, end)
}

// formatDuration formats a duration in compact form.
// Examples: "0.8s", "5s", "1m 30s", "1h 2m"
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	seconds := int(d.Seconds())
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		if minutes > 0 {
			return fmt.Sprintf("%dh %dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}

	if minutes > 0 {
		if secs > 0 {
			return fmt.Sprintf("%dm %ds", minutes, secs)
		}
		return fmt.Sprintf("%dm", minutes)
	}

	return fmt.Sprintf("%ds", secs)
}
