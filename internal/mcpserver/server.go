// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the gateway operations for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/graphservice"
)

// Server wraps the MCP server with graph and capture tools.
type Server struct {
	mcp   *server.MCPServer
	svc   *graphservice.Service
	token string
}

// New creates a new MCP server with all tools registered. token is the
// configured Logseq API token used for write operations.
func New(svc *graphservice.Service, token string) *Server {
	s := &Server{svc: svc, token: token}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"0.1.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_graphs",
		mcp.WithDescription("List the Logseq graphs known to the local CLI."),
	), s.listGraphs)

	s.mcp.AddTool(mcp.NewTool("search_pages",
		mcp.WithDescription("Search pages in a graph by name or title (case-insensitive substring match)."),
		mcp.WithString("q", mcp.Required(), mcp.Description("Search text")),
		mcp.WithString("graph", mcp.Required(), mcp.Description("Graph to search")),
	), s.searchPages)

	s.mcp.AddTool(mcp.NewTool("query_graph",
		mcp.WithDescription("Run a raw datalog query against a graph and return the result."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Datalog query")),
		mcp.WithString("graph", mcp.Required(), mcp.Description("Graph to query")),
	), s.queryGraph)

	s.mcp.AddTool(mcp.NewTool("append_to_journal",
		mcp.WithDescription("Append content to today's journal page. "+
			"Works regardless of which page is open in the Logseq desktop app."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Text to append")),
	), s.appendToJournal)

	s.mcp.AddTool(mcp.NewTool("append_to_current_page",
		mcp.WithDescription("Append content to whichever page is currently open "+
			"in the Logseq desktop app."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Text to append")),
	), s.appendToCurrentPage)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listGraphs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	graphs, err := s.svc.ListGraphs(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(graphs, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q, err := req.RequireString("q")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	graph, err := req.RequireString("graph")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pages, err := s.svc.SearchPages(ctx, q, graph)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(pages, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) queryGraph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	graph, err := req.RequireString("graph")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := s.svc.Query(ctx, query, graph)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if text, ok := value.(string); ok {
		return mcp.NewToolResultText(text), nil
	}
	out, _ := json.MarshalIndent(value, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) appendToJournal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.svc.AppendToJournal(ctx, content, s.token); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Content appended to journal successfully"), nil
}

func (s *Server) appendToCurrentPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.svc.AppendToCurrentPage(ctx, content, s.token); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Content appended successfully"), nil
}
