package mcpserver

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"

	"glpimcp/internal/extract"
	"glpimcp/internal/glpi"
)

// batchEntry is the per-file outcome of a batch run. Failures are recorded
// here, never propagated — one broken document must not abort the batch.
type batchEntry struct {
	File             string `json:"file"`
	Status           string `json:"status"` // success or error
	ContractID       int    `json:"contract_id,omitempty"`
	ContractName     string `json:"contract_name,omitempty"`
	DocumentAttached bool   `json:"document_attached"`
	DocumentError    string `json:"document_error,omitempty"`
	Error            string `json:"error,omitempty"`
}

func (s *Server) handleBatchContracts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := strArg(req.GetArguments(), "path")

	files, err := s.deps.Policy.ListAllowed(path)
	if err != nil {
		return toolError(err), nil
	}

	if len(files) == 0 {
		return jsonResult([]batchEntry{})
	}

	results := make([]batchEntry, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchWorkers)

	for i, file := range files {
		g.Go(func() error {
			results[i] = s.processBatchFile(gctx, file)
			return nil
		})
	}

	// Workers never return errors; Wait only observes context cancellation.
	if err := g.Wait(); err != nil {
		return toolError(err), nil
	}

	return jsonResult(results)
}

// processBatchFile runs the extract → create → attach pipeline for one
// document.
func (s *Server) processBatchFile(ctx context.Context, file string) batchEntry {
	entry := batchEntry{File: file, Status: "error"}

	extracted, err := s.deps.ContractExtract.Process(ctx, file)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}

	contract, err := s.deps.Contracts.Create(ctx, contractInputFromExtraction(extracted))
	if err != nil {
		entry.Error = err.Error()
		return entry
	}

	entry.Status = "success"
	entry.ContractID = contract.ID
	entry.ContractName = contract.Name

	entry.DocumentAttached, _, entry.DocumentError =
		s.attachSourceDocument(ctx, file, contract.ID, "Contract")

	s.logger.Info("batch file processed",
		slog.String("file", file),
		slog.Int("contract_id", contract.ID),
		slog.Bool("document_attached", entry.DocumentAttached),
	)

	return entry
}

// contractInputFromExtraction maps extracted fields onto the GLPI write
// shape. The renewal wording from the model collapses to GLPI's enum.
func contractInputFromExtraction(p *extract.ProcessedContract) glpi.ContractInput {
	renewal := 0

	switch p.RenewalType {
	case "automatic", "auto":
		renewal = 1
	case "manual":
		renewal = 2
	}

	return glpi.ContractInput{
		Name:        p.ContractName,
		BeginDate:   p.StartDate,
		EndDate:     p.EndDate,
		RenewalType: renewal,
		Cost:        p.Amount,
		Comment:     p.Summary,
	}
}
