package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"glpimcp/internal/glpi"
)

func (s *Server) handleCreateTicket(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required"), nil
	}

	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required"), nil
	}

	args := req.GetArguments()

	in := glpi.TicketInput{
		Name:           name,
		Content:        content,
		Type:           intArg(args, "type"),
		Priority:       intArg(args, "priority"),
		Urgency:        intArg(args, "urgency"),
		Impact:         intArg(args, "impact"),
		CategoriesID:   intArg(args, "category"),
		RequestTypesID: intArg(args, "requesttypes_id"),
	}

	ticket, err := s.deps.Tickets.Create(ctx, in)
	if err != nil {
		return toolError(err), nil
	}

	return jsonResult(ticket)
}

func (s *Server) handleUpdateTicket(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := req.GetArguments()
	fields := map[string]any{}

	for _, key := range []string{"name", "content"} {
		if v := strArg(args, key); v != "" {
			fields[key] = v
		}
	}

	for _, key := range []string{"status", "priority"} {
		if v := intArg(args, key); v != 0 {
			fields[key] = v
		}
	}

	ticket, err := s.deps.Tickets.Update(ctx, id, fields)
	if err != nil {
		return toolError(err), nil
	}

	return jsonResult(ticket)
}

func (s *Server) handleGetTicket(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ticket, err := s.deps.Tickets.Get(ctx, id)
	if err != nil {
		return toolError(err), nil
	}

	return jsonResult(ticket)
}
