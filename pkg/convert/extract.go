package convert

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/getkin/kin-openapi/openapi3"
)

// canonicalMethods fixes the per-path extraction order so tool names and
// collision suffixes are stable across runs.
var canonicalMethods = []string{
	http.MethodGet,
	http.MethodPut,
	http.MethodPost,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodHead,
	http.MethodPatch,
	http.MethodTrace,
}

// ExtractOptions narrows and namespaces one extraction run.
type ExtractOptions struct {
	// ToolPrefix is prepended to every base name before sanitization, so
	// the prefix participates in charset filtering and collision handling.
	ToolPrefix string

	// Tags keeps only operations carrying at least one of the listed
	// tags. Empty keeps everything; with a filter set, untagged
	// operations are excluded.
	Tags []string

	Logger *slog.Logger
}

// ExtractTools walks every path/method combination in the document and
// produces one ToolDescriptor per operation that has a usable name. The
// extractor is best-effort: a document without paths yields an empty
// result, and a malformed individual operation is skipped, never fatal.
// All per-run state lives in this call, so concurrent extractions of
// independent documents do not interact.
func ExtractTools(doc *openapi3.T, logger *slog.Logger) []ToolDescriptor {
	return ExtractToolsWithOptions(doc, ExtractOptions{Logger: logger})
}

// ExtractToolsWithOptions is ExtractTools with a tool-name prefix and a
// tag filter applied.
func ExtractToolsWithOptions(doc *openapi3.T, opts ExtractOptions) []ToolDescriptor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var tools []ToolDescriptor
	if doc == nil || doc.Paths == nil {
		return tools
	}

	globalSecurity := doc.Security
	names := newNameRegistry()

	pathItems := doc.Paths.Map()
	paths := make([]string, 0, len(pathItems))
	for path := range pathItems {
		paths = append(paths, path)
	}
	slices.Sort(paths)

	for _, path := range paths {
		item := pathItems[path]
		if item == nil {
			continue
		}
		for _, method := range canonicalMethods {
			op := item.GetOperation(method)
			if op == nil {
				continue
			}
			if !matchesTags(op.Tags, opts.Tags) {
				continue
			}

			base := op.OperationID
			if base == "" {
				base = DeriveOperationID(method, path)
			}
			if base == "" {
				logger.Warn("skipping operation with no derivable name", "method", method, "path", path)
				continue
			}

			name := names.claim(SanitizeToolName(opts.ToolPrefix + base))

			description := op.Description
			if description == "" {
				description = op.Summary
			}
			if description == "" {
				description = fmt.Sprintf("Executes %s %s", method, path)
			}

			// An operation that sets security explicitly overrides the
			// document, even with an empty set; only a fully absent field
			// inherits the global requirements.
			security := globalSecurity
			if op.Security != nil {
				security = *op.Security
			}

			input := BuildOperationInput(op, logger)

			execParams := make([]ExecutionParameter, 0, len(input.Parameters))
			for _, paramRef := range input.Parameters {
				execParams = append(execParams, ExecutionParameter{
					Name: paramRef.Value.Name,
					In:   paramRef.Value.In,
				})
			}

			tools = append(tools, ToolDescriptor{
				Name:                   name,
				Description:            description,
				InputSchema:            input.Schema,
				Method:                 method,
				PathTemplate:           path,
				Parameters:             input.Parameters,
				ExecutionParameters:    execParams,
				RequestBodyContentType: input.BodyContentType,
				SecurityRequirements:   security,
				OperationID:            base,
			})
		}
	}

	return tools
}

// matchesTags reports whether an operation's tags intersect the filter. An
// empty filter matches everything.
func matchesTags(opTags, filter []string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, tag := range opTags {
		if slices.Contains(filter, tag) {
			return true
		}
	}
	return false
}
