// Package service wires the MCP protocol transport to the game tools.
//
// It is the transport adapter layer: the package knows how to run MCP
// over stdio and delegates business meaning to the domain handlers.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/louisbranch/smalltown/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "smalltown-mcp"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Server hosts the MCP server over the in-process game service.
type Server struct {
	mcpServer *mcp.Server
}

// New creates a configured MCP server with every game tool registered.
func New(svc domain.GameService) (*Server, error) {
	if svc == nil {
		return nil, errors.New("game service is required")
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	registerGameTools(mcpServer, svc)
	return &Server{mcpServer: mcpServer}, nil
}

func registerGameTools(server *mcp.Server, svc domain.GameService) {
	mcp.AddTool(server, domain.GameCreateTool(), domain.GameCreateHandler(svc))
	mcp.AddTool(server, domain.GameGetTool(), domain.GameGetHandler(svc))
	mcp.AddTool(server, domain.PhaseAdvanceTool(), domain.PhaseAdvanceHandler(svc))
	mcp.AddTool(server, domain.GameResolveTool(), domain.GameResolveHandler(svc))
	mcp.AddTool(server, domain.AbilityQueueTool(), domain.AbilityQueueHandler(svc))
	mcp.AddTool(server, domain.EventListTool(), domain.EventListHandler(svc))
}

// Serve starts the MCP server on stdio and blocks until it stops or
// the context ends. A context cancellation is a clean shutdown.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return errors.New("MCP server is not configured")
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
