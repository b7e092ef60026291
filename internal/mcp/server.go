package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ziadkadry99/liftsim/internal/elevator"
	"github.com/ziadkadry99/liftsim/internal/results"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes simulation tools.
type Server struct {
	elevator elevator.Config
	store    *results.Store
	logger   *zap.Logger
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server. A nil store disables recording and
// compare_results.
func NewServer(cfg elevator.Config, store *results.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		elevator: cfg,
		store:    store,
		logger:   logger,
	}

	s.mcp = server.NewMCPServer(
		"liftsim",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listAlgorithmsTool, s.handleListAlgorithms)
	s.mcp.AddTool(runSimulationTool, s.handleRunSimulation)
	s.mcp.AddTool(traceSummaryTool, s.handleTraceSummary)
	s.mcp.AddTool(compareResultsTool, s.handleCompareResults)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
