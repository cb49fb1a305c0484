package api

import (
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/labelscan/pkg/kit"
	"github.com/hazyhaar/labelscan/pkg/scan"
)

// NewMCPServer returns an MCP server with every labelscan tool registered.
func NewMCPServer(s *scan.Scanner, logger *slog.Logger, version string) *server.MCPServer {
	srv := server.NewMCPServer("labelscan", version, server.WithToolCapabilities(false))
	RegisterMCPTools(srv, s, logger)
	return srv
}

// RegisterMCPTools registers the labelscan MCP tools on srv.
func RegisterMCPTools(srv *server.MCPServer, s *scan.Scanner, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	ep := newEndpoints(s, logger)
	registerScanText(srv, ep)
	registerListAllergens(srv, ep)
	registerGetPreferences(srv, ep)
}

func registerScanText(srv *server.MCPServer, ep *endpoints) {
	tool := mcp.NewTool("scan_text",
		mcp.WithDescription("Scan recognized label text for allergen terms. Returns every match with the line it was found on."),
		mcp.WithString("lines", mcp.Required(), mcp.Description("Label text, one line per newline")),
		mcp.WithString("categories", mcp.Description("Comma-separated category IDs (e.g. milk,soy). Omit to use stored preferences")),
		mcp.WithString("custom_terms", mcp.Description("Comma-separated extra terms to look for")),
	)

	kit.RegisterMCPTool(srv, tool, ep.scan, func(args map[string]any) (any, error) {
		if _, ok := args["lines"]; !ok {
			return nil, fmt.Errorf("lines is required")
		}
		req := &scanReq{Lines: kit.LinesArg(args, "lines")}
		_, hasCats := args["categories"]
		_, hasCustom := args["custom_terms"]
		if hasCats || hasCustom {
			req.Selection = &scan.Selection{
				CategoryIDs: kit.ListArg(args, "categories", ","),
				CustomTerms: kit.ListArg(args, "custom_terms", ","),
			}
		}
		return req, nil
	})
}

func registerListAllergens(srv *server.MCPServer, ep *endpoints) {
	tool := mcp.NewTool("list_allergens",
		mcp.WithDescription("List the allergen categories of the loaded catalog with their terms."),
	)
	kit.RegisterMCPTool(srv, tool, ep.catalog, func(map[string]any) (any, error) {
		return nil, nil
	})
}

func registerGetPreferences(srv *server.MCPServer, ep *endpoints) {
	tool := mcp.NewTool("get_preferences",
		mcp.WithDescription("Return the stored category selection and custom terms."),
	)
	kit.RegisterMCPTool(srv, tool, ep.getPrefs, func(map[string]any) (any, error) {
		return nil, nil
	})
}
