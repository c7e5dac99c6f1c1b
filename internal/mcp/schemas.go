package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// searchBangsTool returns the tool definition for search_bangs
func searchBangsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_bangs",
		Description: "Find bang shortcuts whose trigger, category, domain or name contains the query",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Case-insensitive substring, e.g. 'wiki' or '!gh'. Empty lists the top bangs",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     DefaultLimit,
					"minimum":     1,
					"maximum":     MaxLimit,
				},
			},
		},
	}
}

// resolveBangTool returns the tool definition for resolve_bang
func resolveBangTool() mcp.Tool {
	return mcp.Tool{
		Name:        "resolve_bang",
		Description: "Expand a bang query such as '!g,w golang generics' into the URLs it would open",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Query with one or more !trigger tokens and free text",
				},
				"use_defaults": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, fall back to the configured default bangs when the query names none",
					"default":     true,
				},
			},
			Required: []string{"query"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report catalog size and the bang databases held in the store",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// reloadCatalogTool returns the tool definition for reload_catalog
func reloadCatalogTool() mcp.Tool {
	return mcp.Tool{
		Name:        "reload_catalog",
		Description: "Re-read every bang database and swap in the new catalog",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
