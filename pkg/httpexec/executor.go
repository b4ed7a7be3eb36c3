// Package httpexec executes tool calls described by extracted tool
// descriptors: it validates arguments, places each execution parameter in
// its declared location, serializes the request body for the selected
// content type, and applies the operation's security requirements.
package httpexec

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"

	"github.com/rhobs/openapi-mcp/pkg/config"
	"github.com/rhobs/openapi-mcp/pkg/convert"
)

const defaultTimeout = 30 * time.Second

// Executor dispatches HTTP requests for extracted tools.
type Executor struct {
	baseURL string
	client  *http.Client
	schemes openapi3.SecuritySchemes
	creds   map[string]config.Credential
	logger  *slog.Logger
}

// Options configures an Executor.
type Options struct {
	// BaseURL is the server base every tool path is resolved against.
	BaseURL string

	// Timeout bounds each executed call. Zero means the default of 30s.
	Timeout time.Duration

	// Schemes is the document's named security-scheme registry.
	Schemes openapi3.SecuritySchemes

	// Credentials maps scheme names to credential material.
	Credentials map[string]config.Credential

	Logger *slog.Logger
}

// New creates an Executor.
func New(opts Options) *Executor {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		schemes: opts.Schemes,
		creds:   opts.Credentials,
		logger:  logger,
	}
}

// Execute performs one tool call and returns the HTTP outcome. Arguments
// are validated against the tool's input schema before anything is sent.
func (e *Executor) Execute(ctx context.Context, tool convert.ToolDescriptor, args map[string]any) (*Result, error) {
	if err := validateArguments(tool.InputSchema, args); err != nil {
		return nil, err
	}

	path := tool.PathTemplate
	query := url.Values{}
	headerParams := http.Header{}
	var cookies []*http.Cookie

	for _, param := range tool.ExecutionParameters {
		value, ok := args[param.Name]
		if !ok {
			continue
		}
		s := stringify(value)
		switch param.In {
		case openapi3.ParameterInPath:
			path = strings.ReplaceAll(path, "{"+param.Name+"}", url.PathEscape(s))
		case openapi3.ParameterInQuery:
			query.Add(param.Name, s)
		case openapi3.ParameterInHeader:
			headerParams.Add(param.Name, s)
		case openapi3.ParameterInCookie:
			cookies = append(cookies, &http.Cookie{Name: param.Name, Value: s})
		}
	}

	body, contentType, err := e.buildBody(ctx, tool, args)
	if err != nil {
		return nil, err
	}

	endpoint, err := url.JoinPath(e.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve request URL for %s: %w", tool.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, tool.Method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", tool.Name, err)
	}
	for key, values := range headerParams {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	e.applySecurity(req, query, tool.SecurityRequirements)
	req.URL.RawQuery = query.Encode()

	id := uuid.NewString()
	req.Header.Set("X-Request-Id", id)
	e.logger.Debug("dispatching request", "id", id, "tool", tool.Name, "method", tool.Method, "url", req.URL.String())

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request for %s failed: %w", tool.Name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response for %s: %w", tool.Name, err)
	}

	e.logger.Debug("request completed", "id", id, "tool", tool.Name, "status", resp.StatusCode)

	return &Result{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}

// stringify renders an argument for a path, query, header, or cookie slot.
// Scalars use their plain form; structured values are sent as JSON.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool, float64, int, int64, json.Number:
		return fmt.Sprint(t)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}
