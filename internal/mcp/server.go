// Package mcp provides Model Context Protocol server functionality.
package mcp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/helixml/kommit/application/service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ToolGenerateCommitMessage is the name of the commit message tool.
const ToolGenerateCommitMessage = "generate_commit_message"

// Generator produces commit messages from diffs.
type Generator interface {
	Generate(ctx context.Context, diff string) (service.Result, error)
}

// Server wraps the MCP server with the commit message tool.
type Server struct {
	mcpServer *server.MCPServer
	generator Generator
	logger    *slog.Logger
}

// NewServer creates a new MCP server that reports version in its server info.
func NewServer(generator Generator, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		generator: generator,
		logger:    logger,
	}

	mcpServer := server.NewMCPServer(
		"kommit",
		version,
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(mcp.NewTool(ToolGenerateCommitMessage,
		mcp.WithDescription("Generate a concise, imperative git commit message (max 50 characters) from a unified diff"),
		mcp.WithString("diff",
			mcp.Required(),
			mcp.Description("The git diff to describe"),
		),
	), s.handleGenerate)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	diff, err := request.RequireString("diff")
	if err != nil {
		return mcp.NewToolResultError("diff is required"), nil
	}

	result, err := s.generator.Generate(ctx, diff)
	if err != nil {
		genErr := service.Classify(err)
		s.logger.ErrorContext(ctx, "mcp commit message generation failed",
			slog.String("class", string(genErr.Class())),
			slog.Any("error", err),
		)
		return mcp.NewToolResultError(genErr.Message()), nil
	}

	return mcp.NewToolResultText(result.Message()), nil
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// HTTPHandler returns a streamable HTTP transport for the server.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcpServer)
}

// ServeStdio runs the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
