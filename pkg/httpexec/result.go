package httpexec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Result is the outcome of one executed tool call.
type Result struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Text renders the result as plain text for transports and logs.
func (r *Result) Text() string {
	return fmt.Sprintf("status code: %d\nresponse body: %s", r.StatusCode, r.Body)
}

// ToMCPResult converts the Result to an MCP CallToolResult. JSON responses
// are returned structured alongside the text fallback; everything else is
// returned as text. Errors are encoded in the result per the MCP pattern,
// not the error return value.
func (r *Result) ToMCPResult() (*mcp.CallToolResult, error) {
	if !strings.Contains(r.ContentType, "json") {
		return mcp.NewToolResultText(r.Text()), nil
	}

	var body any
	if err := json.Unmarshal(r.Body, &body); err != nil {
		return mcp.NewToolResultText(r.Text()), nil
	}

	structured := map[string]any{
		"statusCode": r.StatusCode,
		"body":       body,
	}
	return mcp.NewToolResultStructured(structured, r.Text()), nil
}
