package httpexec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rhobs/openapi-mcp/pkg/convert"
)

// buildBody serializes the request body for the tool's selected content
// type and returns the reader plus the Content-Type header value to send.
// Tools without a body content type return a nil reader.
func (e *Executor) buildBody(ctx context.Context, tool convert.ToolDescriptor, args map[string]any) (io.Reader, string, error) {
	switch {
	case tool.RequestBodyContentType == "":
		return nil, "", nil

	case tool.RequestBodyContentType == "application/json":
		value, ok := args["requestBody"]
		if !ok {
			return nil, "", nil
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, "", fmt.Errorf("failed to serialize JSON request body: %w", err)
		}
		return bytes.NewReader(data), tool.RequestBodyContentType, nil

	case strings.HasPrefix(tool.RequestBodyContentType, "multipart/"):
		return e.buildMultipartBody(ctx, tool, args)

	default:
		value, ok := args["requestBody"]
		if !ok {
			return nil, "", nil
		}
		return strings.NewReader(stringify(value)), tool.RequestBodyContentType, nil
	}
}

// buildMultipartBody assembles a multipart payload from the flattened body
// fields, that is, every input property that is not a declared parameter.
// Fields marked file-or-url are resolved to their content first.
func (e *Executor) buildMultipartBody(ctx context.Context, tool convert.ToolDescriptor, args map[string]any) (io.Reader, string, error) {
	properties, _ := tool.InputSchema["properties"].(map[string]any)

	paramNames := make(map[string]struct{}, len(tool.ExecutionParameters))
	for _, param := range tool.ExecutionParameters {
		paramNames[param.Name] = struct{}{}
	}

	fieldNames := make([]string, 0, len(properties))
	for name := range properties {
		if _, isParam := paramNames[name]; !isParam {
			fieldNames = append(fieldNames, name)
		}
	}
	slices.Sort(fieldNames)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, name := range fieldNames {
		value, ok := args[name]
		if !ok {
			continue
		}

		field, _ := properties[name].(map[string]any)
		if field != nil && field["format"] == convert.FormatFileOrURL {
			content, filename, err := e.fetchContent(ctx, stringify(value))
			if err != nil {
				return nil, "", fmt.Errorf("failed to resolve field %q: %w", name, err)
			}
			part, err := writer.CreateFormFile(name, filename)
			if err != nil {
				return nil, "", fmt.Errorf("failed to create form file %q: %w", name, err)
			}
			if _, err := part.Write(content); err != nil {
				return nil, "", fmt.Errorf("failed to write form file %q: %w", name, err)
			}
			continue
		}

		if err := writer.WriteField(name, stringify(value)); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %q: %w", name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	contentType := tool.RequestBodyContentType + "; boundary=" + writer.Boundary()
	return &buf, contentType, nil
}

// fetchContent resolves a file-or-url argument: http(s) values are
// downloaded, everything else is read as a local file path.
func (e *Executor) fetchContent(ctx context.Context, location string) ([]byte, string, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, "", err
		}
		resp, err := e.client.Do(req)
		if err != nil {
			return nil, "", fmt.Errorf("failed to download %s: %w", location, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, "", fmt.Errorf("failed to download %s: status %d", location, resp.StatusCode)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to download %s: %w", location, err)
		}
		name := filepath.Base(req.URL.Path)
		if name == "/" || name == "." {
			name = "download"
		}
		return data, name, nil
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file %s: %w", location, err)
	}
	return data, filepath.Base(location), nil
}
