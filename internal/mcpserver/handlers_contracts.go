package mcpserver

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"glpimcp/internal/glpi"
)

func (s *Server) handleProcessContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError("file_path argument is required"), nil
	}

	if err := s.deps.Policy.CheckFile(path); err != nil {
		return toolError(err), nil
	}

	result, err := s.deps.ContractExtract.Process(ctx, path)
	if err != nil {
		return toolError(err), nil
	}

	return jsonResult(result)
}

// contractCreateResult is the create tool's payload: the stored record
// plus the outcome of the optional document attachment. A failed attach
// does not fail the creation — the warning travels with the result.
type contractCreateResult struct {
	glpi.Contract
	DocumentAttached bool   `json:"document_attached"`
	DocumentID       int    `json:"document_id,omitempty"`
	DocumentError    string `json:"document_error,omitempty"`
}

func (s *Server) handleCreateContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required"), nil
	}

	args := req.GetArguments()

	in := glpi.ContractInput{
		Name:            name,
		Num:             strArg(args, "num"),
		BeginDate:       strArg(args, "begin_date"),
		EndDate:         strArg(args, "end_date"),
		RenewalType:     intArg(args, "renewal_type"),
		Cost:            floatArg(args, "cost"),
		Comment:         strArg(args, "comment"),
		SuppliersID:     intArg(args, "suppliers_id"),
		ContractTypesID: intArg(args, "contracttypes_id"),
		StatesID:        intArg(args, "states_id"),
	}

	contract, err := s.deps.Contracts.Create(ctx, in)
	if err != nil {
		return toolError(err), nil
	}

	result := contractCreateResult{Contract: *contract}

	if path := strArg(args, "file_path"); path != "" {
		result.DocumentAttached, result.DocumentID, result.DocumentError =
			s.attachSourceDocument(ctx, path, contract.ID, "Contract")
	}

	return jsonResult(result)
}

// attachSourceDocument uploads the source file against a freshly created
// record. Failures are reported, not propagated: the record exists either
// way and the caller decides what to do about a missing attachment.
func (s *Server) attachSourceDocument(ctx context.Context, path string, itemID int, itemType string) (attached bool, docID int, errMsg string) {
	if err := s.deps.Policy.CheckFile(path); err != nil {
		s.logger.Warn("source document rejected by policy",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)

		return false, 0, err.Error()
	}

	doc, err := s.deps.Documents.AttachToItem(ctx, path, itemID, itemType, "", "")
	if err != nil {
		s.logger.Warn("source document attachment failed",
			slog.String("path", path),
			slog.Int("items_id", itemID),
			slog.String("itemtype", itemType),
			slog.String("error", err.Error()),
		)

		return false, 0, err.Error()
	}

	return true, doc.ID, ""
}

func (s *Server) handleUpdateContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	if v := floatArg(args, "cost"); v != 0 {
		fields["cost"] = v
	}

	if v := intArg(args, "states_id"); v != 0 {
		fields["states_id"] = v
	}

	contract, err := s.deps.Contracts.Update(ctx, id, fields)
	if err != nil {
		return toolError(err), nil
	}

	return jsonResult(contract)
}

func (s *Server) handleGetContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	contract, err := s.deps.Contracts.Get(ctx, id)
	if err != nil {
		return toolError(err), nil
	}

	return jsonResult(contract)
}
