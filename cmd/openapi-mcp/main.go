package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"time"

	"github.com/prometheus/common/promslog"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/rhobs/openapi-mcp/pkg/config"
	"github.com/rhobs/openapi-mcp/pkg/convert"
	"github.com/rhobs/openapi-mcp/pkg/httpexec"
	"github.com/rhobs/openapi-mcp/pkg/mcp"
	"github.com/rhobs/openapi-mcp/pkg/openapi"
)

const (
	serverName = "openapi-mcp"

	// Overridden at build time with -ldflags "-X main.version=...".
	defaultVersion = "dev"
)

var version = defaultVersion

func main() {
	// Parse command line flags
	var specLocation = flag.String("spec", "", "OpenAPI document location: a file path or an http(s) URL")
	var baseURL = flag.String("base-url", "", "Base URL requests are dispatched against (overrides the document's servers entry)")
	var listen = flag.String("listen", "", "Listen address for HTTP mode (e.g., :9100, 127.0.0.1:8080)")
	var configPath = flag.String("config", "", "Path to a TOML configuration file")
	var timeoutSeconds = flag.Int("timeout", 0, "Timeout in seconds for each executed HTTP call (default 30)")
	var logLevel = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	// Configure slog with specified log level
	configureLogging(*logLevel)

	cfg := loadConfig(*configPath)
	applyFlagOverrides(cfg, *specLocation, *baseURL, *timeoutSeconds)

	if cfg.Spec == "" {
		log.Fatal("No OpenAPI document given: set -spec or the spec config key")
	}

	ctx := context.Background()

	doc, err := openapi.Load(ctx, cfg.Spec)
	if err != nil {
		log.Fatalf("Failed to load OpenAPI document: %v", err)
	}

	tools := convert.ExtractToolsWithOptions(doc, convert.ExtractOptions{
		ToolPrefix: cfg.ToolPrefix,
		Tags:       cfg.Tags,
		Logger:     slog.Default(),
	})
	if len(tools) == 0 {
		log.Fatal("The document describes no usable operations")
	}
	slog.Info("Extracted tools", "count", len(tools), "spec", cfg.Spec)

	executor := httpexec.New(httpexec.Options{
		BaseURL:     determineBaseURL(cfg, doc),
		Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		Schemes:     securitySchemes(doc),
		Credentials: cfg.Credentials,
	})

	mcpServer, err := mcp.NewServer(mcp.ServerOptions{
		Name:     serverName,
		Version:  version,
		Tools:    tools,
		Executor: executor,
	})
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	// Choose server mode based on flags
	if *listen != "" {
		if err := mcp.Serve(ctx, mcpServer, *listen); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
	} else {
		if err := mcp.ServeStdio(ctx, mcpServer); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}
}

// loadConfig reads the config file when one is given, otherwise returns an
// empty config that flags fill in.
func loadConfig(path string) *config.Config {
	if path == "" {
		return &config.Config{}
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// applyFlagOverrides lets command line flags win over config file values.
func applyFlagOverrides(cfg *config.Config, spec, baseURL string, timeoutSeconds int) {
	if spec != "" {
		cfg.Spec = spec
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if timeoutSeconds != 0 {
		cfg.TimeoutSeconds = timeoutSeconds
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
}

// determineBaseURL picks the request base: an explicit override wins, then
// the first servers entry of the document.
func determineBaseURL(cfg *config.Config, doc *openapi3.T) string {
	if cfg.BaseURL != "" {
		return cfg.BaseURL
	}
	if len(doc.Servers) > 0 && doc.Servers[0] != nil {
		return doc.Servers[0].URL
	}
	log.Fatal("No base URL available: the document declares no servers, set -base-url")
	return ""
}

func securitySchemes(doc *openapi3.T) openapi3.SecuritySchemes {
	if doc.Components == nil {
		return nil
	}
	return doc.Components.SecuritySchemes
}

// configureLogging sets up the slog logger with the specified log level
func configureLogging(levelStr string) {
	level := promslog.NewLevel()
	err := level.Set(levelStr)
	if err != nil {
		log.Fatal(err.Error())
	}

	format := promslog.NewFormat()
	err = format.Set("logfmt")
	if err != nil {
		log.Fatal(err.Error())
	}

	logger := promslog.New(&promslog.Config{
		Level:  level,
		Format: format,
		Style:  promslog.GoKitStyle,
	})
	slog.SetDefault(logger)
}
