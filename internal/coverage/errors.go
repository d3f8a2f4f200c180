package coverage

import "errors"

var (
	// ErrReportNotFound indicates no JaCoCo XML report exists under the
	// project root. Callers typically recover by running the build first.
	ErrReportNotFound = errors.New("jacoco report not found")

	// ErrMalformedReport indicates the report exists but cannot be parsed:
	// not XML, wrong root element, or a missing structural layer
	// (report > package > sourcefile > line).
	ErrMalformedReport = errors.New("malformed jacoco report")

	// ErrNotInstrumented indicates a file is absent from the coverage report.
	// Distinct from a file that is instrumented with zero uncovered lines.
	ErrNotInstrumented = errors.New("file not instrumented")
)
