package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// registerResources exposes contract, invoice, and ticket records as
// readable MCP resources under the glpi:// scheme. Each itemtype gets a
// fixed list resource and an id-templated detail resource.
func (s *Server) registerResources() {
	s.mcp.AddResource(
		mcp.NewResource("glpi://contracts/list", "Contracts",
			mcp.WithResourceDescription("All contracts visible to the configured GLPI account"),
			mcp.WithMIMEType("application/json"),
		),
		s.resourceList(func(ctx context.Context) (any, error) {
			return s.deps.Contracts.List(ctx, nil, 0)
		}),
	)

	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate("glpi://contracts/{id}", "Contract",
			mcp.WithTemplateDescription("A single contract by id"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.resourceByID(func(ctx context.Context, id int) (any, error) {
			return s.deps.Contracts.Get(ctx, id)
		}),
	)

	s.mcp.AddResource(
		mcp.NewResource("glpi://invoices/list", "Invoices",
			mcp.WithResourceDescription("All invoices visible to the configured GLPI account"),
			mcp.WithMIMEType("application/json"),
		),
		s.resourceList(func(ctx context.Context) (any, error) {
			return s.deps.Invoices.List(ctx, nil, 0)
		}),
	)

	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate("glpi://invoices/{id}", "Invoice",
			mcp.WithTemplateDescription("A single invoice by id"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.resourceByID(func(ctx context.Context, id int) (any, error) {
			return s.deps.Invoices.Get(ctx, id)
		}),
	)

	s.mcp.AddResource(
		mcp.NewResource("glpi://tickets/list", "Tickets",
			mcp.WithResourceDescription("All tickets visible to the configured GLPI account"),
			mcp.WithMIMEType("application/json"),
		),
		s.resourceList(func(ctx context.Context) (any, error) {
			return s.deps.Tickets.List(ctx, nil, 0)
		}),
	)

	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate("glpi://tickets/{id}", "Ticket",
			mcp.WithTemplateDescription("A single ticket by id"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.resourceByID(func(ctx context.Context, id int) (any, error) {
			return s.deps.Tickets.Get(ctx, id)
		}),
	)
}

// resourceList wraps a fetch-all callback into a resource handler.
func (s *Server) resourceList(fetch func(ctx context.Context) (any, error)) func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		items, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		return resourceJSON(req.Params.URI, items)
	}
}

// resourceByID wraps a fetch-by-id callback into a template handler. The
// id is the last path segment of the requested URI.
func (s *Server) resourceByID(fetch func(ctx context.Context, id int) (any, error)) func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id, err := resourceID(req.Params.URI)
		if err != nil {
			return nil, err
		}

		item, err := fetch(ctx, id)
		if err != nil {
			return nil, err
		}

		return resourceJSON(req.Params.URI, item)
	}
}

func resourceID(uri string) (int, error) {
	idx := strings.LastIndex(uri, "/")
	if idx < 0 {
		return 0, fmt.Errorf("malformed resource uri %q", uri)
	}

	id, err := strconv.Atoi(uri[idx+1:])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("resource uri %q: id must be a positive integer", uri)
	}

	return id, nil
}

func resourceJSON(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding resource %q: %w", uri, err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
