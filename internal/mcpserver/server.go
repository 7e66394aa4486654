// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the wiki's content to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/othala/internal/storage"
	"github.com/starford/othala/internal/wikisvc"
)

// Server wraps the MCP server with Othala tools.
type Server struct {
	mcp   *server.MCPServer
	store storage.Provider
	svc   *wikisvc.Service
}

// New creates a new MCP server with all wiki tools registered.
func New(store storage.Provider, svc *wikisvc.Service) *Server {
	s := &Server{store: store, svc: svc}

	s.mcp = server.NewMCPServer(
		"Othala",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Search note titles and content; returns plain-text snippets."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of a markdown note."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note (e.g. folder/note.md)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new markdown note at the specified path. "+
			"Content MUST follow the canonical note format (flat frontmatter with title, "+
			"optional slug/date/tags/category, markdown body). Read the contract first via "+
			"the get_note_contract tool or the othala://note-format resource."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path for the new note (must end with .md)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown content following the Othala note format contract")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("get_note_contract",
		mcp.WithDescription("Returns the canonical Othala note format contract. "+
			"Call this before creating or updating notes to ensure correct structure."),
	), s.getNoteContract)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List all notes or notes in a specific folder."),
		mcp.WithString("folder", mcp.Description("Optional folder to list (empty for all)")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("get_tree",
		mcp.WithDescription("Get the current content index: all file and folder nodes with ids, titles, parent links, and sort order."),
	), s.getTree)

	// Resource: note format contract.
	s.mcp.AddResource(
		mcp.NewResource("othala://note-format", "Note Format Contract",
			mcp.WithResourceDescription("Canonical markdown note format that all notes must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
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

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results := s.svc.Search(ctx, query, 20)
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	note, err := s.svc.CreateNote(ctx, path, []byte(content))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", note.Path)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder := ""
	if f, err := req.RequireString("folder"); err == nil {
		folder = f
	}

	files, err := s.store.List(folder)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) getTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := s.svc.Snapshot(ctx)
	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getNoteContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(NoteFormatContract), nil
}

func (s *Server) readNoteFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "othala://note-format",
			MIMEType: "text/markdown",
			Text:     NoteFormatContract,
		},
	}, nil
}
