package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/gobangs/internal/query"
	"github.com/dshills/gobangs/internal/session"
	"github.com/dshills/gobangs/internal/storage"
	"github.com/dshills/gobangs/internal/watch"
)

// MCP error codes
const (
	ErrorCodeInvalidParams    = -32602 // Invalid method parameters
	ErrorCodeInternalError    = -32603 // Internal JSON-RPC error
	ErrorCodeReloadInProgress = -32002 // Another reload is already running
	ErrorCodeNoBangs          = -32003 // Query resolves to no known bang
	ErrorCodeEmptyQuery       = -32004 // Query parameter is empty
)

// bangJSON is the wire form of one bang
type bangJSON struct {
	Trigger     string `json:"trigger"`
	Name        string `json:"name"`
	Domain      string `json:"domain,omitempty"`
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
	Relevance   int64  `json:"relevance"`
	URL         string `json:"url"`
}

// handleSearchBangs handles the search_bangs tool invocation
func (s *Server) handleSearchBangs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok && request.Params.Arguments != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	limit := getIntDefault(args, "limit", DefaultLimit)
	if limit < 1 || limit > MaxLimit {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit out of range", map[string]interface{}{
			"param":  "limit",
			"reason": fmt.Sprintf("must be between 1 and %d", MaxLimit),
		})
	}

	needle := strings.ToLower(strings.TrimSpace(getStringDefault(args, "query", "")))
	needle = strings.TrimPrefix(needle, string(query.Indicator))

	snap := s.snap.Load()
	triggers := snap.Index.Search(needle, limit)

	results := make([]bangJSON, 0, len(triggers))
	for _, trigger := range triggers {
		bang, ok := snap.Catalog.Get(trigger)
		if !ok {
			continue
		}
		results = append(results, bangJSON{
			Trigger:     bang.Trigger,
			Name:        bang.Name,
			Domain:      bang.Domain,
			Category:    bang.Category,
			Subcategory: bang.Subcategory,
			Relevance:   bang.Relevance,
			URL:         bang.URL,
		})
	}

	response := map[string]interface{}{
		"query":         needle,
		"results":       results,
		"total_results": len(results),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleResolveBang handles the resolve_bang tool invocation
func (s *Server) handleResolveBang(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	raw, ok := args["query"].(string)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	var defaults []string
	if getBoolDefault(args, "use_defaults", true) {
		defaults = s.defaultTriggers
	}

	q := query.Parse(raw)
	targets, unknown := session.Resolve(s.snap.Load().Catalog, q, defaults)
	if len(targets) == 0 {
		return nil, newMCPError(ErrorCodeNoBangs, "query names no known bang", map[string]interface{}{
			"unknown": unknown,
		})
	}

	urls := make([]map[string]string, len(targets))
	for i, t := range targets {
		urls[i] = map[string]string{"trigger": t.Trigger, "url": t.URL}
	}

	response := map[string]interface{}{
		"query":     raw,
		"free_text": q.FreeText(),
		"targets":   urls,
	}
	if len(unknown) > 0 {
		response["unknown"] = unknown
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := s.snap.Load()

	response := map[string]interface{}{
		"catalog_bangs":    snap.Catalog.Len(),
		"index_entries":    snap.Index.Len(),
		"cached_searches":  snap.Index.CacheLen(),
		"default_triggers": s.defaultTriggers,
		"build_mode":       storage.BuildMode,
	}

	if s.store == nil {
		response["store"] = nil
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	status, err := s.store.GetStatus(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to read store status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	sources := make([]map[string]interface{}, len(status.Sources))
	for i, src := range status.Sources {
		entry := map[string]interface{}{
			"name":         src.Name,
			"url":          src.URL,
			"record_count": src.RecordCount,
		}
		if !src.FetchedAt.IsZero() {
			entry["fetched_at"] = src.FetchedAt.Format("2006-01-02T15:04:05Z07:00")
		}
		sources[i] = entry
	}

	store := map[string]interface{}{
		"schema_version": status.SchemaVersion,
		"bangs":          status.BangsCount,
		"size_mb":        status.SizeMB,
		"sources":        sources,
	}
	if !status.LastFetchedAt.IsZero() {
		store["last_fetched_at"] = status.LastFetchedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	response["store"] = store

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleReloadCatalog handles the reload_catalog tool invocation
func (s *Server) handleReloadCatalog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.reload == nil {
		return nil, newMCPError(ErrorCodeInternalError, "reload not configured", nil)
	}

	if err := s.reload(ctx); err != nil {
		if errors.Is(err, watch.ErrReloadInProgress) {
			return nil, newMCPError(ErrorCodeReloadInProgress, "a reload is already running", nil)
		}
		return nil, newMCPError(ErrorCodeInternalError, "reload failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"reloaded":      true,
		"catalog_bangs": s.snap.Load().Catalog.Len(),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
