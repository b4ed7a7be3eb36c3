package convert

import "github.com/getkin/kin-openapi/openapi3"

// ToolDescriptor is the normalized, self-contained description of one
// callable API operation. It carries everything the MCP layer needs to
// register the tool and everything the executor needs to dispatch a call.
type ToolDescriptor struct {
	// Name is the unique, sanitized tool identifier for this extraction run.
	Name string `json:"name"`

	// Description falls back through the operation description, its summary,
	// and a synthesized "Executes <METHOD> <path>" string.
	Description string `json:"description"`

	// InputSchema is the merged JSON Schema covering declared parameters and
	// the request body surface.
	InputSchema map[string]any `json:"inputSchema"`

	// Method and PathTemplate are the dispatch coordinates for invocation.
	Method       string `json:"method"`
	PathTemplate string `json:"pathTemplate"`

	// Parameters is the raw declared parameter list, in declaration order.
	Parameters openapi3.Parameters `json:"parameters,omitempty"`

	// ExecutionParameters tells the executor where to place each resolved
	// argument at call time.
	ExecutionParameters []ExecutionParameter `json:"executionParameters,omitempty"`

	// RequestBodyContentType is the content type selected for the body, or
	// empty when the operation has no body.
	RequestBodyContentType string `json:"requestBodyContentType,omitempty"`

	// SecurityRequirements is the operation's effective requirement set.
	// An explicit empty override on the operation suppresses the document's
	// global requirements.
	SecurityRequirements openapi3.SecurityRequirements `json:"securityRequirements,omitempty"`

	// OperationID is the pre-sanitization base name, kept for traceability.
	OperationID string `json:"operationId,omitempty"`
}

// ExecutionParameter is the {name, location} projection of a declared
// parameter used by the executor to slot a value into a request.
type ExecutionParameter struct {
	Name string `json:"name"`
	In   string `json:"in"`
}
