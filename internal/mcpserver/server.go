// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Raido tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raido/internal/listservice"
)

// Server wraps the MCP server with Raido tools.
type Server struct {
	mcp *server.MCPServer
	svc *listservice.Service
}

// New creates a new MCP server with all Raido tools registered.
func New(svc *listservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Raido",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_items",
		mcp.WithDescription("Full-text search through collected list items (titles, descriptions, tags)."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchItems)

	s.mcp.AddTool(mcp.NewTool("list_items",
		mcp.WithDescription("List collected items, optionally filtered by tag or topic."),
		mcp.WithString("tag", mcp.Description("Optional tag to filter by")),
		mcp.WithString("topic", mcp.Description("Optional topic to filter by")),
	), s.listItems)

	s.mcp.AddTool(mcp.NewTool("list_topics",
		mcp.WithDescription("List all topics across the collected lists."),
	), s.listTopics)

	s.mcp.AddTool(mcp.NewTool("list_tags",
		mcp.WithDescription("List all tags across the collected items."),
	), s.listTags)

	s.mcp.AddTool(mcp.NewTool("get_metadata",
		mcp.WithDescription("Return collection metadata: topics, tags, item and list counts."),
	), s.getMetadata)

	s.mcp.AddTool(mcp.NewTool("refresh_collection",
		mcp.WithDescription("Re-parse the configured Markdown sources and rebuild the collection."),
	), s.refreshCollection)

	s.mcp.AddTool(mcp.NewTool("get_list_format",
		mcp.WithDescription("Returns the canonical Raido list format contract. "+
			"Call this to understand the Markdown dialect the collector parses."),
	), s.getListFormat)

	// Resource: list format contract.
	s.mcp.AddResource(
		mcp.NewResource("raido://list-format", "List Format Contract",
			mcp.WithResourceDescription("Canonical Markdown list format that source files must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readListFormatResource,
	)

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

func (s *Server) searchItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag := ""
	if v, err := req.RequireString("tag"); err == nil {
		tag = v
	}
	topic := ""
	if v, err := req.RequireString("topic"); err == nil {
		topic = v
	}

	items, total, err := s.svc.ListItems(ctx, 100, 0, tag, topic)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(map[string]any{
		"items": items,
		"total": total,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listTopics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topics, err := s.svc.Topics(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(topics) == 0 {
		return mcp.NewToolResultText("no topics found"), nil
	}
	return mcp.NewToolResultText(strings.Join(topics, "\n")), nil
}

func (s *Server) listTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags, err := s.svc.Tags(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(tags) == 0 {
		return mcp.NewToolResultText("no tags found"), nil
	}
	return mcp.NewToolResultText(strings.Join(tags, "\n")), nil
}

func (s *Server) getMetadata(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	meta, err := s.svc.Metadata(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(meta, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) refreshCollection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.svc.Refresh(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary := fmt.Sprintf("refreshed: %d lists, %d items", res.Metadata.TotalLists, res.Metadata.TotalItems)
	if len(res.Errors) > 0 {
		summary += "\nerrors:\n" + strings.Join(res.Errors, "\n")
	}
	if len(res.Warnings) > 0 {
		summary += "\nwarnings:\n" + strings.Join(res.Warnings, "\n")
	}
	return mcp.NewToolResultText(summary), nil
}

func (s *Server) getListFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ListFormatContract), nil
}

func (s *Server) readListFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "raido://list-format",
			MIMEType: "text/markdown",
			Text:     ListFormatContract,
		},
	}, nil
}
