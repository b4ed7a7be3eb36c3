// Package mcp exposes extracted tool descriptors as an MCP server over
// stdio or streamable HTTP.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rhobs/openapi-mcp/pkg/convert"
	"github.com/rhobs/openapi-mcp/pkg/httpexec"
)

const (
	mcpEndpoint            = "/mcp"
	healthEndpoint         = "/health"
	metricsEndpoint        = "/metrics"
	defaultShutdownTimeout = 10 * time.Second

	serverInstructions = `Every tool on this server corresponds to one operation of an upstream HTTP API, generated from its OpenAPI description.

Tool names encode the operation: derived names follow the pattern <method>_<path segments>, with path parameters appearing as by_<name>.

Calling a tool dispatches the real HTTP request. Provide path, query, header, and cookie parameters as top-level arguments. Structured request bodies go in the requestBody argument; file upload fields accept a local file path or a URL whose content is fetched before the request is sent.`
)

// ServerOptions configures the MCP server assembled from one extraction run.
type ServerOptions struct {
	Name     string
	Version  string
	Tools    []convert.ToolDescriptor
	Executor *httpexec.Executor
}

// NewServer creates an MCP server with one tool registered per descriptor.
func NewServer(opts ServerOptions) (*server.MCPServer, error) {
	mcpServer := server.NewMCPServer(
		opts.Name,
		opts.Version,
		server.WithLogging(),
		server.WithToolCapabilities(true),
		server.WithInstructions(serverInstructions),
	)

	if err := RegisterTools(mcpServer, opts.Tools, opts.Executor); err != nil {
		return nil, err
	}

	return mcpServer, nil
}

// ServeStdio runs the server on stdin/stdout until the stream closes.
func ServeStdio(ctx context.Context, mcpServer *server.MCPServer) error {
	return server.NewStdioServer(mcpServer).Listen(ctx, os.Stdin, os.Stdout)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Incoming request", "method", r.Method, "path", r.URL.Path, "remote_addr", r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}

// Serve runs the server over streamable HTTP with health and metrics
// endpoints, shutting down gracefully on SIGINT/SIGHUP/SIGTERM.
func Serve(ctx context.Context, mcpServer *server.MCPServer, listenAddr string) error {
	mux := http.NewServeMux()

	httpServer := &http.Server{
		Addr:    listenAddr,
		Handler: loggingMiddleware(mux),
	}

	streamableHTTPServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStreamableHTTPServer(httpServer),
		server.WithStateLess(true),
	)
	mux.Handle(mcpEndpoint, streamableHTTPServer)
	mux.Handle("/", streamableHTTPServer)

	mux.Handle(metricsEndpoint, promhttp.Handler())
	mux.HandleFunc(healthEndpoint, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGHUP, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "listen_addr", listenAddr, "mcp_endpoint", mcpEndpoint)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-sigChan:
		slog.Warn("Received signal, initiating graceful shutdown", "signal", sig)
		cancel()
	case <-ctx.Done():
		slog.Warn("Context cancelled, initiating graceful shutdown")
	case err := <-serverErr:
		slog.Error("HTTP server error", "error", err)
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer shutdownCancel()

	slog.Info("Shutting down HTTP server gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
		return err
	}

	slog.Info("HTTP server shutdown complete")
	return nil
}
