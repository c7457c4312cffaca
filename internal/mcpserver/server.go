// Package mcpserver exposes GLPI operations as MCP tools, resources, and
// prompts over stdio, bridging an AI assistant to the ticketing backend.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"glpimcp/internal/extract"
	"glpimcp/internal/folders"
	"glpimcp/internal/glpi"
)

// defaultBatchWorkers bounds parallel document processing in batch tools.
const defaultBatchWorkers = 4

// Deps are the collaborators the server dispatches to. All tool handlers
// are thin: argument decoding here, behavior in the injected components.
type Deps struct {
	Contracts       *glpi.Contracts
	Invoices        *glpi.Invoices
	Tickets         *glpi.Tickets
	Documents       *glpi.Documents
	ContractExtract *extract.ContractExtractor
	InvoiceExtract  *extract.InvoiceExtractor
	Policy          *folders.Policy
	Logger          *slog.Logger
	BatchWorkers    int
}

// Server is the MCP bridge. It owns the mcp-go server instance and the
// registered tool/resource/prompt surface.
type Server struct {
	mcp          *server.MCPServer
	deps         Deps
	logger       *slog.Logger
	batchWorkers int
}

// New assembles the MCP server and registers the full tool surface.
func New(version string, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	workers := deps.BatchWorkers
	if workers <= 0 {
		workers = defaultBatchWorkers
	}

	srv := server.NewMCPServer(
		"glpi-mcp",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
	)

	s := &Server{
		mcp:          srv,
		deps:         deps,
		logger:       deps.Logger,
		batchWorkers: workers,
	}

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// Start serves the MCP protocol on stdin/stdout. Blocks until the client
// closes the connection.
func (s *Server) Start(_ context.Context) error {
	return server.ServeStdio(s.mcp)
}

// jsonResult marshals v as the tool's text payload.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}

// toolError converts a domain failure into a tool error result. Policy
// denials carry their stable error code so the assistant can react to the
// category, not the message text.
func toolError(err error) *mcp.CallToolResult {
	if code := folders.ErrorCode(err); code != 0 {
		return mcp.NewToolResultError(fmt.Sprintf("[%d] %v", code, err))
	}

	var apiErr *glpi.APIError
	if errors.As(err, &apiErr) {
		return mcp.NewToolResultError(fmt.Sprintf("GLPI error (HTTP %d): %s", apiErr.StatusCode, apiErr.Body))
	}

	return mcp.NewToolResultError(err.Error())
}

// Optional-argument helpers. MCP arguments arrive as JSON-decoded values,
// so numbers are float64.

func strArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}

	return ""
}

func intArg(args map[string]any, key string) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}

	return 0
}

func floatArg(args map[string]any, key string) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}

	return 0
}

// requireID extracts the integer id argument common to get/update tools.
func requireID(req mcp.CallToolRequest) (int, error) {
	id := intArg(req.GetArguments(), "id")
	if id <= 0 {
		return 0, errors.New("id argument is required and must be a positive integer")
	}

	return id, nil
}
