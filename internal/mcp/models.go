package mcp

// Response envelopes for tools that add context beyond what the domain
// types carry. Tools whose domain result already says everything (maven
// builds, git operations, code review reports) marshal those directly.

import (
	"time"

	"github.com/covpilot/covpilot/internal/coverage"
	"github.com/covpilot/covpilot/internal/javasrc"
	"github.com/covpilot/covpilot/internal/scaffold"
)

// ReportLocation is the find_jacoco_report response. Modified carries the
// report file's mtime so callers can tell a fresh report from a stale one.
type ReportLocation struct {
	ProjectPath string    `json:"project_path"`
	ReportPath  string    `json:"report_path"`
	Modified    time.Time `json:"modified"`
}

// CoverageReport is the total_coverage response: the aggregated summary
// plus where the underlying report was found.
type CoverageReport struct {
	ProjectPath string `json:"project_path"`
	ReportPath  string `json:"report_path"`
	Files       int    `json:"files"`
	coverage.Summary
}

// FileGaps is the missing_coverage response.
type FileGaps struct {
	ReportPath string `json:"report_path"`
	coverage.GapReport
}

// SourceAnalysis is the analyze_java_code response.
type SourceAnalysis struct {
	FilePath    string `json:"file_path"`
	MethodCount int    `json:"method_count"`
	javasrc.SourceModel
}

// RenderedTemplate is the response of both test generators: the rendered
// skeleton plus the conventional project-relative path to write it under.
type RenderedTemplate struct {
	Package       string `json:"package"`
	SuggestedPath string `json:"suggested_path"`
	scaffold.Template
}
