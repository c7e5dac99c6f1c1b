package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/gobangs/internal/session"
	"github.com/dshills/gobangs/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "gobangs"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultLimit is the number of bangs search_bangs returns by default
	DefaultLimit = 8
	// MaxLimit caps search_bangs results
	MaxLimit = 100
)

// StatusReporter is the part of the store get_status reads
type StatusReporter interface {
	GetStatus(ctx context.Context) (*storage.Status, error)
}

// Options configures the server
type Options struct {
	// Store is optional; without it get_status only reports the catalog
	Store StatusReporter

	// Reload backs the reload_catalog tool, which is only registered when set
	Reload func(ctx context.Context) error

	DefaultTriggers []string
	Logger          *slog.Logger
}

// Server exposes the bang catalog as MCP tools
type Server struct {
	mcp             *server.MCPServer
	snap            atomic.Pointer[session.Snapshot]
	store           StatusReporter
	reload          func(ctx context.Context) error
	defaultTriggers []string
	logger          *slog.Logger
}

// NewServer creates a new MCP server instance serving snap
func NewServer(snap *session.Snapshot, opts Options) (*Server, error) {
	if snap == nil {
		snap = session.NewSnapshot(nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mcp:             server.NewMCPServer(ServerName, ServerVersion),
		store:           opts.Store,
		reload:          opts.Reload,
		defaultTriggers: opts.DefaultTriggers,
		logger:          logger,
	}
	s.snap.Store(snap)

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Swap atomically replaces the catalog and index
func (s *Server) Swap(snap *session.Snapshot) {
	s.snap.Store(snap)
}

// Snapshot returns the catalog and index currently served
func (s *Server) Snapshot() *session.Snapshot {
	return s.snap.Load()
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("mcp server starting", "name", ServerName, "version", ServerVersion)
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(searchBangsTool(), s.handleSearchBangs)
	s.mcp.AddTool(resolveBangTool(), s.handleResolveBang)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)

	if s.reload != nil {
		s.mcp.AddTool(reloadCatalogTool(), s.handleReloadCatalog)
	}

	return nil
}
