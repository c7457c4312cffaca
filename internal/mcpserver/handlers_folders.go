package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) handleListFolders(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.deps.Policy.Roots())
}

func (s *Server) handleReadPathAllowed(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := strArg(req.GetArguments(), "path")

	files, err := s.deps.Policy.ListAllowed(path)
	if err != nil {
		return toolError(err), nil
	}

	if files == nil {
		files = []string{}
	}

	return jsonResult(files)
}
