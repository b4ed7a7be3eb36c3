package convert

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const (
	contentTypeJSON          = "application/json"
	contentTypeFormData      = "multipart/form-data"
	contentTypeMultipartMix  = "multipart/mixed"
	defaultBodyDescription   = "The JSON request body."
	fileUploadDescriptionFmt = "%s (Provide the value as a file path or a URL; the content will be downloaded automatically before the request is sent.)"
)

// FormatFileOrURL marks a flattened multipart field whose value is a file
// path or URL to be retrieved by the executor before dispatch.
const FormatFileOrURL = "file-or-url"

// requestBodyProperty is the single input-schema property holding
// structured and opaque request bodies. Multipart bodies are flattened
// instead and never use it.
const requestBodyProperty = "requestBody"

// OperationInput is the merged input surface of one operation: the
// combined validation schema, the retained raw parameter list, and the
// content type selected for the request body (empty when the operation
// carries none).
type OperationInput struct {
	Schema          map[string]any
	Parameters      openapi3.Parameters
	BodyContentType string
}

// BuildOperationInput merges an operation's declared parameters and its
// request body shape into a single object-typed input schema. Parameters
// lacking a name or schema are skipped silently; body encodings are tried
// in priority order JSON, multipart, opaque.
func BuildOperationInput(op *openapi3.Operation, logger *slog.Logger) OperationInput {
	if logger == nil {
		logger = slog.Default()
	}

	properties := make(map[string]any)
	var required []string
	var params openapi3.Parameters

	for _, paramRef := range op.Parameters {
		if paramRef == nil || paramRef.Value == nil || paramRef.Value.Name == "" {
			continue
		}
		param := paramRef.Value
		params = append(params, paramRef)

		if param.Schema == nil {
			continue
		}
		mapped := MapSchema(param.Schema, logger)
		// The parameter's own description only fills a gap; a description
		// already present on the mapped schema wins.
		if param.Description != "" {
			if _, ok := mapped["description"]; !ok {
				mapped["description"] = param.Description
			}
		}
		properties[param.Name] = mapped
		if param.Required {
			required = append(required, param.Name)
		}
	}

	bodyContentType := buildRequestBody(op, properties, &required, logger)

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}

	return OperationInput{
		Schema:          schema,
		Parameters:      params,
		BodyContentType: bodyContentType,
	}
}

// buildRequestBody folds the operation's request body into the properties
// map and returns the selected content type, or "" when the operation has
// no body content. First match wins: structured JSON, then multipart
// (form-data before mixed, flattened to top-level fields), then an opaque
// string stand-in for whatever content type is declared.
func buildRequestBody(op *openapi3.Operation, properties map[string]any, required *[]string, logger *slog.Logger) string {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return ""
	}
	body := op.RequestBody.Value
	if len(body.Content) == 0 {
		return ""
	}

	if media, ok := body.Content[contentTypeJSON]; ok && media.Schema != nil {
		mapped := MapSchema(media.Schema, logger)
		if body.Description != "" {
			mapped["description"] = body.Description
		} else if _, ok := mapped["description"]; !ok {
			mapped["description"] = defaultBodyDescription
		}
		properties[requestBodyProperty] = mapped
		if body.Required {
			*required = append(*required, requestBodyProperty)
		}
		return contentTypeJSON
	}

	for _, contentType := range []string{contentTypeFormData, contentTypeMultipartMix} {
		media, ok := body.Content[contentType]
		if !ok || media.Schema == nil {
			continue
		}
		flattenMultipart(MapSchema(media.Schema, logger), properties, required)
		return contentType
	}

	// Opaque body: no schema mapping, a single string property naming the
	// content type. A structured content type that matched above but had no
	// schema contributes nothing. The kin-openapi content map does not
	// preserve declaration order, so the pick is made deterministic instead.
	contentType := firstOpaqueContentType(body.Content)
	if contentType == "" {
		return ""
	}
	properties[requestBodyProperty] = map[string]any{
		"type":        "string",
		"description": fmt.Sprintf("The raw request body, sent with content type %s.", contentType),
	}
	if body.Required {
		*required = append(*required, requestBodyProperty)
	}
	return contentType
}

// flattenMultipart lifts each field of an object-typed multipart schema to
// a top-level input property. Binary and base64 string fields are
// rewritten in place to the file-or-url form the executor understands.
func flattenMultipart(mapped map[string]any, properties map[string]any, required *[]string) {
	if mapped["type"] != "object" {
		return
	}
	props, ok := mapped["properties"].(map[string]any)
	if !ok {
		return
	}

	for name, prop := range props {
		if field, ok := prop.(map[string]any); ok && isBinaryString(field) {
			desc, _ := field["description"].(string)
			field["description"] = strings.TrimSpace(fmt.Sprintf(fileUploadDescriptionFmt, desc))
			field["type"] = "string"
			field["format"] = FormatFileOrURL
		}
		properties[name] = prop
	}
	if fieldNames, ok := mapped["required"].([]string); ok {
		*required = append(*required, fieldNames...)
	}
}

func isBinaryString(field map[string]any) bool {
	if field["type"] != "string" {
		return false
	}
	format, _ := field["format"].(string)
	return format == "binary" || format == "base64"
}

// firstOpaqueContentType picks the lexicographically first content type
// that is not one of the structured kinds handled earlier, or "" when none
// remains.
func firstOpaqueContentType(content openapi3.Content) string {
	keys := make([]string, 0, len(content))
	for k := range content {
		switch k {
		case contentTypeJSON, contentTypeFormData, contentTypeMultipartMix:
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	slices.Sort(keys)
	return keys[0]
}
