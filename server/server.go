package server

import (
	"context"
	"log/slog"
	"sync"

	mcp_golang "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport"
	"github.com/metoro-io/mcp-golang/transport/stdio"

	"reddit-mcp-server/config"
	"reddit-mcp-server/mcp"
	"reddit-mcp-server/tools"
)

// Server handles MCP protocol communication
type Server struct {
	toolHandler *tools.Handler
	config      *config.Config
	logger      *slog.Logger
}

// New creates a new MCP server
func New(toolHandler *tools.Handler, cfg *config.Config, logger *slog.Logger) *Server {
	return &Server{
		toolHandler: toolHandler,
		config:      cfg,
		logger:      logger,
	}
}

// Run serves MCP over stdio until ctx is cancelled or the client closes stdin
func (s *Server) Run(ctx context.Context) error {
	return s.serve(ctx, stdio.NewStdioServerTransport())
}

func (s *Server) serve(ctx context.Context, t transport.Transport) error {
	s.logger.Info("Starting Reddit MCP Server...")

	closing := newCloseNotifier(t)
	server := mcp_golang.NewServer(closing)

	registry := mcp.NewRegistry(s.toolHandler, s.config, s.logger)
	if err := registry.RegisterAll(server); err != nil {
		s.logger.Error("Failed to register tools", "error", err)
		return err
	}

	s.logger.Info("Tools registered successfully")

	// Serve starts the transport reader and returns
	if err := server.Serve(); err != nil {
		s.logger.Error("MCP server error", "error", err)
		return err
	}

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down Reddit MCP Server")
	case <-closing.done:
		s.logger.Info("MCP client disconnected, shutting down")
	}
	return nil
}

// closeNotifier closes done once the wrapped transport reports that it closed
type closeNotifier struct {
	transport.Transport
	once sync.Once
	done chan struct{}
}

func newCloseNotifier(t transport.Transport) *closeNotifier {
	return &closeNotifier{
		Transport: t,
		done:      make(chan struct{}),
	}
}

func (c *closeNotifier) SetCloseHandler(handler func()) {
	c.Transport.SetCloseHandler(func() {
		if handler != nil {
			handler()
		}
		c.once.Do(func() { close(c.done) })
	})
}
