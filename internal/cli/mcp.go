package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/covpilot/covpilot/internal/mcp"
)

var (
	mcpProject string
	mcpSSE     string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI assistant integration",
	Long: `Start a Model Context Protocol server that exposes coverage reports,
gap extraction, test scaffolding, maven builds, review scanning, and
git operations as tools.

The server speaks stdio by default; pass --sse with a listen address for
HTTP-based agent hosts. Point it at a Maven project with --project; it
defaults to the current directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectPath := mcpProject
		if projectPath == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			projectPath = wd
		}

		cfg, err := projectConfig(projectPath)
		if err != nil {
			return err
		}

		// Startup info goes to stderr; stdout is the MCP transport.
		fmt.Fprintf(os.Stderr, "Covpilot MCP Server\n")
		fmt.Fprintf(os.Stderr, "Project: %s\n", projectPath)
		fmt.Fprintf(os.Stderr, "Coverage threshold: %.1f%%\n", cfg.Coverage.Threshold)
		fmt.Fprintf(os.Stderr, "\n")

		server, err := mcp.NewServer(cfg, projectPath, Version)
		if err != nil {
			return fmt.Errorf("failed to create MCP server: %w", err)
		}

		if mcpSSE != "" {
			if err := server.ServeSSE(cmd.Context(), mcpSSE); err != nil {
				return fmt.Errorf("MCP server error: %w", err)
			}
			return nil
		}

		if err := server.Serve(cmd.Context()); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVarP(&mcpProject, "project", "p", "", "maven project root (default is the working directory)")
	mcpCmd.Flags().StringVar(&mcpSSE, "sse", "", "serve over HTTP SSE on this address instead of stdio (e.g. :8357)")
}
