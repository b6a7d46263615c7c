package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"stacmcp/internal/config"
	"stacmcp/pkg/logging"
)

const serverVersion = "1.0.0"

// Server exposes the tool provider over MCP on the configured transport.
type Server struct {
	config   config.ServerConfig
	provider toolProvider

	server *mcpserver.MCPServer

	// Transport-specific servers
	sseServer            *mcpserver.SSEServer
	streamableHTTPServer *mcpserver.StreamableHTTPServer
	stdioServer          *mcpserver.StdioServer

	// Lifecycle management
	ctx        context.Context
	cancelFunc context.CancelFunc
	mu         sync.Mutex
}

// New creates a server for the given transport configuration and provider.
func New(cfg config.ServerConfig, provider toolProvider) *Server {
	return &Server{
		config:   cfg,
		provider: provider,
	}
}

// Start registers all tools and starts the configured transport. HTTP
// transports listen in the background; stdio serves until the context is
// cancelled or stdin closes.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.server != nil {
		s.mu.Unlock()
		return fmt.Errorf("server already started")
	}
	s.ctx, s.cancelFunc = context.WithCancel(ctx)

	mcpServer := mcpserver.NewMCPServer(
		"stacmcp",
		serverVersion,
		mcpserver.WithToolCapabilities(true),
	)
	s.server = mcpServer

	toolList := s.provider.GetTools()
	serverTools := make([]mcpserver.ServerTool, 0, len(toolList))
	for _, meta := range toolList {
		serverTools = append(serverTools, mcpserver.ServerTool{
			Tool: mcp.Tool{
				Name:        meta.Name,
				Description: meta.Description,
				InputSchema: convertToMCPSchema(meta.Args),
			},
			Handler: createToolHandler(s.provider, meta.Name),
		})
	}
	mcpServer.AddTools(serverTools...)
	logging.Info("Server", "Registered %d tools", len(serverTools))

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.mu.Unlock()

	switch s.config.Transport {
	case config.MCPTransportSSE:
		logging.Info("Server", "Starting MCP server with SSE transport on %s", addr)
		baseURL := fmt.Sprintf("http://%s", addr)
		s.sseServer = mcpserver.NewSSEServer(
			mcpServer,
			mcpserver.WithBaseURL(baseURL),
			mcpserver.WithSSEEndpoint("/sse"),
			mcpserver.WithMessageEndpoint("/message"),
			mcpserver.WithKeepAlive(true),
			mcpserver.WithKeepAliveInterval(30*time.Second),
		)
		sseServer := s.sseServer
		go func() {
			if err := sseServer.Start(addr); err != nil && err != http.ErrServerClosed {
				logging.Error("Server", err, "SSE server error")
			}
		}()

	case config.MCPTransportStreamableHTTP:
		logging.Info("Server", "Starting MCP server with streamable-http transport on %s", addr)
		s.streamableHTTPServer = mcpserver.NewStreamableHTTPServer(mcpServer)
		streamableServer := s.streamableHTTPServer
		go func() {
			if err := streamableServer.Start(addr); err != nil && err != http.ErrServerClosed {
				logging.Error("Server", err, "Streamable HTTP server error")
			}
		}()

	case config.MCPTransportStdio:
		fallthrough
	default:
		logging.Info("Server", "Starting MCP server with stdio transport")
		s.stdioServer = mcpserver.NewStdioServer(mcpServer)
		stdioServer := s.stdioServer
		go func() {
			if err := stdioServer.Listen(s.ctx, os.Stdin, os.Stdout); err != nil {
				logging.Error("Server", err, "Stdio server error")
			}
		}()
	}

	return nil
}

// Stop shuts down the transport and releases the server.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.server == nil {
		s.mu.Unlock()
		return fmt.Errorf("server not started")
	}
	logging.Info("Server", "Stopping MCP server")

	cancelFunc := s.cancelFunc
	sseServer := s.sseServer
	streamableServer := s.streamableHTTPServer
	s.mu.Unlock()

	if cancelFunc != nil {
		cancelFunc()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if sseServer != nil {
		if err := sseServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("Server", err, "Error shutting down SSE server")
		}
	}
	if streamableServer != nil {
		if err := streamableServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("Server", err, "Error shutting down streamable HTTP server")
		}
	}
	// Stdio server stops on context cancellation, no explicit shutdown needed.

	s.mu.Lock()
	s.server = nil
	s.sseServer = nil
	s.streamableHTTPServer = nil
	s.stdioServer = nil
	s.mu.Unlock()

	return nil
}
