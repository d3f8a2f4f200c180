package maven

import "context"

// MockRunner is a mock implementation of Runner for testing.
type MockRunner struct {
	Result   *BuildResult
	Err      error
	LastOpts RunOptions
	Calls    int
}

// NewMockRunner creates a mock that reports a passing build.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Result: &BuildResult{
			RunID:    "00000000-0000-0000-0000-000000000000",
			Success:  true,
			ExitCode: 0,
			Goals:    DefaultGoals,
			Tests:    &TestSummary{Run: 10},
		},
	}
}

func (m *MockRunner) RunTests(ctx context.Context, opts RunOptions) (*BuildResult, error) {
	m.LastOpts = opts
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}
