package mcp

// Implementation Plan:
// 1. Deps - shared dependencies captured by every tool handler
// 2. Server struct wrapping the mcp-go server
// 3. NewServer - wires real implementations and registers all covpilot tools
// 4. Serve / ServeSSE - stdio by default, SSE for HTTP agent hosts
// 5. Per-tool call metrics logged on shutdown

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/covpilot/covpilot/internal/config"
	"github.com/covpilot/covpilot/internal/git"
	"github.com/covpilot/covpilot/internal/javasrc"
	"github.com/covpilot/covpilot/internal/maven"
	"github.com/covpilot/covpilot/internal/review"
)

// Deps bundles everything the tool handlers need. Handlers capture it via
// the create*Handler factories, so tests can hand in mocks without
// constructing a Server.
type Deps struct {
	Config      *config.Config
	ProjectPath string
	Git         git.Operations
	Runner      maven.Runner
	Extractor   *javasrc.Extractor
	Scanner     *review.Scanner
	Metrics     *ToolMetrics
}

// Server manages the covpilot MCP server lifecycle.
type Server struct {
	deps *Deps
	mcp  *server.MCPServer
}

// NewServer creates an MCP server exposing the covpilot tools, rooted at
// projectPath. A nil config falls back to defaults. version is reported in
// the MCP handshake; the CLI passes its build version.
func NewServer(cfg *config.Config, projectPath, version string) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if version == "" {
		version = "dev"
	}

	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project path: %w", err)
	}

	deps := &Deps{
		Config:      cfg,
		ProjectPath: abs,
		Git:         git.NewOperations(),
		Runner:      maven.NewRunner(),
		Extractor:   javasrc.NewExtractor(),
		Scanner:     review.NewScanner(),
		Metrics:     NewToolMetrics(),
	}

	mcpServer := server.NewMCPServer(
		"covpilot",
		version,
		server.WithToolCapabilities(true),
	)
	registerTools(mcpServer, deps)

	return &Server{
		deps: deps,
		mcp:  mcpServer,
	}, nil
}

// registerTools adds every covpilot tool to the MCP server.
func registerTools(s *server.MCPServer, deps *Deps) {
	AddFindReportTool(s, deps)
	AddTotalCoverageTool(s, deps)
	AddMissingCoverageTool(s, deps)
	AddAnalyzeJavaTool(s, deps)
	AddTestTemplateTool(s, deps)
	AddSpecificationTestsTool(s, deps)
	AddCodeReviewTool(s, deps)
	AddRunTestsTool(s, deps)
	AddGitStatusTool(s, deps)
	AddGitAddAllTool(s, deps)
	AddGitCommitTool(s, deps)
	AddGitPushTool(s, deps)
	AddGitPullRequestTool(s, deps)
}

// Serve starts the MCP server and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Start MCP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting covpilot MCP server on stdio (project: %s)...", s.deps.ProjectPath)
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		s.logMetrics()
		cancel()
		return nil
	case err := <-errCh:
		cancel()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ServeSSE starts the MCP server over HTTP server-sent events on addr and
// blocks until shutdown. Agent hosts that cannot spawn a stdio subprocess
// connect here instead.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	sse := server.NewSSEServer(s.mcp)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting covpilot MCP server on %s (SSE, project: %s)...", addr, s.deps.ProjectPath)
		if err := sse.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	shutdown := func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := sse.Shutdown(shutdownCtx); err != nil {
			log.Printf("Warning: SSE shutdown failed: %v", err)
		}
	}

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		s.logMetrics()
		shutdown()
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdown()
		return ctx.Err()
	}
}

// logMetrics writes the per-tool call counters to the log.
func (s *Server) logMetrics() {
	for _, snap := range s.deps.Metrics.Snapshot() {
		log.Printf("tool %s: %d calls, %d errors", snap.Tool, snap.Calls, snap.Errors)
	}
}
