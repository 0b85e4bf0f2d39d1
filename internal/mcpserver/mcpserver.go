package mcpserver

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/handover/internal/cache"
	"github.com/panbanda/handover/internal/service/analysis"
	"github.com/panbanda/handover/pkg/config"
)

// Server wraps the MCP server and registers the handover analysis tools.
type Server struct {
	server *mcp.Server
	config *config.Config
	logger *slog.Logger
	cache  *cache.Cache
}

// Option configures a Server.
type Option func(*Server)

// WithConfig sets the configuration every tool call analyzes with.
func WithConfig(cfg *config.Config) Option {
	return func(s *Server) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithLogger sets the logger. Stdout carries the protocol, so the logger
// must not write there.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCache reuses per-file analyses across tool calls.
func WithCache(c *cache.Cache) Option {
	return func(s *Server) {
		s.cache = c
	}
}

// NewServer creates a new MCP server with all handover tools registered.
func NewServer(version string, opts ...Option) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "handover",
			Version: version,
		},
		nil,
	)

	s := &Server{
		server: server,
		config: config.DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) analysis() *analysis.Service {
	return analysis.New(
		analysis.WithConfig(s.config),
		analysis.WithLogger(s.logger),
		analysis.WithCache(s.cache),
	)
}

// registerTools adds the analysis tools to the server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_project",
		Description: describeProject(),
	}, s.handleAnalyzeProject)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_file",
		Description: describeFile(),
	}, s.handleAnalyzeFile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_files",
		Description: describeListFiles(),
	}, s.handleListFiles)
}
