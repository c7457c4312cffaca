package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"glpimcp/internal/glpi"
)

func (s *Server) handleProcessInvoice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError("file_path argument is required"), nil
	}

	if err := s.deps.Policy.CheckFile(path); err != nil {
		return toolError(err), nil
	}

	result, err := s.deps.InvoiceExtract.Process(ctx, path)
	if err != nil {
		return toolError(err), nil
	}

	return jsonResult(result)
}

type invoiceCreateResult struct {
	glpi.Invoice
	DocumentAttached bool   `json:"document_attached"`
	DocumentID       int    `json:"document_id,omitempty"`
	DocumentError    string `json:"document_error,omitempty"`
}

func (s *Server) handleCreateInvoice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required"), nil
	}

	args := req.GetArguments()

	in := glpi.InvoiceInput{
		Name:        name,
		Number:      strArg(args, "number"),
		BeginDate:   strArg(args, "begin_date"),
		EndDate:     strArg(args, "end_date"),
		Value:       floatArg(args, "value"),
		SuppliersID: intArg(args, "suppliers_id"),
		Comment:     strArg(args, "comment"),
	}

	invoice, err := s.deps.Invoices.Create(ctx, in)
	if err != nil {
		return toolError(err), nil
	}

	result := invoiceCreateResult{Invoice: *invoice}

	if path := strArg(args, "file_path"); path != "" {
		result.DocumentAttached, result.DocumentID, result.DocumentError =
			s.attachSourceDocument(ctx, path, invoice.ID, "Budget")
	}

	return jsonResult(result)
}

func (s *Server) handleUpdateInvoice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := req.GetArguments()
	fields := map[string]any{}

	for _, key := range []string{"name", "begin_date", "end_date", "comment"} {
		if v := strArg(args, key); v != "" {
			fields[key] = v
		}
	}

	if v := floatArg(args, "value"); v != 0 {
		fields["value"] = v
	}

	invoice, err := s.deps.Invoices.Update(ctx, id, fields)
	if err != nil {
		return toolError(err), nil
	}

	return jsonResult(invoice)
}

func (s *Server) handleGetInvoice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	invoice, err := s.deps.Invoices.Get(ctx, id)
	if err != nil {
		return toolError(err), nil
	}

	return jsonResult(invoice)
}
