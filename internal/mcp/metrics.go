package mcp

// Implementation Plan:
// 1. ToolMetrics - thread-safe per-tool call counters with RWMutex
// 2. ToolSnapshot - immutable snapshot for safe concurrent reads
// 3. Record - updates one tool's counters atomically
// 4. Snapshot - returns all tools sorted by name under read lock
// 5. instrument - handler wrapper that records every call

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// ToolMetrics tracks call statistics per MCP tool.
// All methods are thread-safe and can be called concurrently.
type ToolMetrics struct {
	tools map[string]*toolStats
	mu    sync.RWMutex
}

type toolStats struct {
	calls        int64
	errors       int64
	lastCall     time.Time
	lastDuration time.Duration
	lastError    string
}

// ToolSnapshot is an immutable snapshot of one tool's counters at a point
// in time. It can be safely shared across goroutines without synchronization.
type ToolSnapshot struct {
	Tool         string        `json:"tool"`
	Calls        int64         `json:"calls"`
	Errors       int64         `json:"errors"`
	LastCall     time.Time     `json:"last_call"`
	LastDuration time.Duration `json:"last_duration_ms"`
	LastError    string        `json:"last_error,omitempty"`
}

// NewToolMetrics creates an empty ToolMetrics instance.
func NewToolMetrics() *ToolMetrics {
	return &ToolMetrics{
		tools: make(map[string]*toolStats),
	}
}

// Record records the outcome of one tool call.
// It updates the tool's counters atomically under a write lock.
func (m *ToolMetrics) Record(tool string, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats, ok := m.tools[tool]
	if !ok {
		stats = &toolStats{}
		m.tools[tool] = stats
	}

	stats.calls++
	stats.lastCall = time.Now()
	stats.lastDuration = duration

	if err != nil {
		stats.errors++
		stats.lastError = err.Error()
	} else {
		stats.lastError = ""
	}
}

// Snapshot returns an immutable snapshot of every tool's counters, sorted
// by tool name. The snapshot is independent of the underlying metrics and
// won't change even if new calls are recorded.
func (m *ToolMetrics) Snapshot() []ToolSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshots := make([]ToolSnapshot, 0, len(m.tools))
	for name, stats := range m.tools {
		snapshots = append(snapshots, ToolSnapshot{
			Tool:         name,
			Calls:        stats.calls,
			Errors:       stats.errors,
			LastCall:     stats.lastCall,
			LastDuration: stats.lastDuration,
			LastError:    stats.lastError,
		})
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Tool < snapshots[j].Tool
	})
	return snapshots
}

// instrument wraps a tool handler so every call lands in the metrics
// table. Handler results returned via NewToolResultError count as calls,
// not errors; only transport-level failures increment the error counter.
func instrument(m *ToolMetrics, tool string, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		result, err := handler(ctx, request)
		m.Record(tool, time.Since(start), err)
		return result, err
	}
}
