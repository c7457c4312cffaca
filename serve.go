package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"glpimcp/internal/config"
	"glpimcp/internal/extract"
	"glpimcp/internal/folders"
	"glpimcp/internal/glpi"
	"glpimcp/internal/mcpserver"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		RunE:  runServe,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	logger := buildLogger()
	ctx := context.Background()

	client, err := buildGLPIClient(ctx, loadedCfg, logger)
	if err != nil {
		return err
	}

	llm, err := extract.NewStrategy(extract.StrategyConfig{
		Provider: loadedCfg.LLM.Provider,
		Model:    loadedCfg.LLM.Model,
		APIKey:   loadedCfg.LLM.APIKey,
		BaseURL:  loadedCfg.LLM.BaseURL,
	})
	if err != nil {
		return err
	}

	parser := extract.NewParser(loadedCfg.Folders.AllowedExtensions)
	policy := folders.NewPolicy(loadedCfg.Folders.AllowedRoots, loadedCfg.Folders.AllowedExtensions)

	srv := mcpserver.New(version, mcpserver.Deps{
		Contracts:       glpi.NewContracts(client),
		Invoices:        glpi.NewInvoices(client),
		Tickets:         glpi.NewTickets(client),
		Documents:       glpi.NewDocuments(client, logger),
		ContractExtract: extract.NewContractExtractor(parser, llm),
		InvoiceExtract:  extract.NewInvoiceExtractor(parser, llm),
		Policy:          policy,
		Logger:          logger,
	})

	logger.Info("starting MCP server",
		slog.String("glpi_url", loadedCfg.GLPI.APIURL),
		slog.String("auth_mode", string(loadedCfg.AuthMode())),
		slog.String("llm_provider", loadedCfg.LLM.Provider),
		slog.Int("allowed_roots", len(loadedCfg.Folders.AllowedRoots)),
	)

	// Best-effort session teardown when the client hangs up.
	defer client.KillSession(context.Background())

	return srv.Start(ctx)
}

// buildGLPIClient assembles the authenticated client for the configured
// mode. OAuth mode requires a prior login so a saved token exists.
func buildGLPIClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*glpi.Client, error) {
	auth, err := buildAuthenticator(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	return glpi.NewClient(cfg.GLPI.APIURL, cfg.GLPI.AppToken, auth, httpClient(), logger), nil
}

func buildAuthenticator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (glpi.Authenticator, error) {
	if cfg.AuthMode() == config.AuthModeUserToken {
		return glpi.NewUserTokenAuth(cfg.GLPI.UserToken), nil
	}

	src, err := glpi.TokenSourceFromFile(ctx, cfg.OAuth2Config(), cfg.OAuth.TokenPath, logger)
	if err != nil {
		return nil, fmt.Errorf("oauth mode: %w (run 'glpi-mcp login' first)", err)
	}

	return glpi.NewOAuthAuth(src), nil
}
