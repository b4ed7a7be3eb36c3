package convert

import (
	"encoding/json"
	"log/slog"
	"slices"

	"github.com/getkin/kin-openapi/openapi3"
)

// genericObject is the degraded fallback node used whenever a schema cannot
// be mapped: unresolved references and detected cycles both collapse to it
// so siblings and ancestors keep converting.
func genericObject() map[string]any {
	return map[string]any{"type": "object"}
}

// MapSchema translates one OpenAPI schema node, and everything reachable
// from it through properties and items, into a JSON Schema node suitable
// for an MCP tool input schema. Warnings for unresolved references and
// cycles go to logger; both conditions are non-fatal and degrade the
// affected node to a generic object.
func MapSchema(ref *openapi3.SchemaRef, logger *slog.Logger) map[string]any {
	if logger == nil {
		logger = slog.Default()
	}
	return mapSchema(ref, make(map[*openapi3.Schema]struct{}), logger)
}

// mapSchema carries the visitation set for the current recursion path. A
// node is added on entry and removed on exit, so the check only fires when
// a node is its own ancestor; the same node reached through a second,
// non-cyclic path maps normally.
func mapSchema(ref *openapi3.SchemaRef, visited map[*openapi3.Schema]struct{}, logger *slog.Logger) map[string]any {
	if ref == nil {
		return genericObject()
	}
	if ref.Value == nil {
		logger.Warn("unresolved schema reference, substituting generic object", "ref", ref.Ref)
		return genericObject()
	}

	s := ref.Value
	if _, onPath := visited[s]; onPath {
		logger.Warn("cyclic schema reference detected, substituting generic object", "ref", ref.Ref)
		return genericObject()
	}
	visited[s] = struct{}{}
	defer delete(visited, s)

	out := make(map[string]any)

	// Type normalization: the target dialect has no integer type, and null
	// is expressed as a member of the type union rather than a flag.
	types := normalizeTypes(s)
	switch len(types) {
	case 0:
	case 1:
		out["type"] = types[0]
	default:
		out["type"] = types
	}

	if s.Title != "" {
		out["title"] = s.Title
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if s.Format != "" {
		out["format"] = s.Format
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	if s.Default != nil {
		out["default"] = s.Default
	}

	copyValidationKeywords(s, out)
	copyCompositionKeywords(s, out)

	// Vendor extensions pass through untouched.
	for k, v := range s.Extensions {
		out[k] = v
	}

	isObject := slices.Contains(types, "object")
	isArray := slices.Contains(types, "array")

	if len(s.Properties) > 0 {
		if isObject {
			props := make(map[string]any, len(s.Properties))
			for name, propRef := range s.Properties {
				props[name] = mapSchema(propRef, visited, logger)
			}
			out["properties"] = props
		} else if raw, ok := rawNode(s.Properties); ok {
			out["properties"] = raw
		}
	}

	if s.Items != nil {
		if isArray {
			out["items"] = mapSchema(s.Items, visited, logger)
		} else if raw, ok := rawNode(s.Items); ok {
			out["items"] = raw
		}
	}

	return out
}

// normalizeTypes maps integer to number and folds the nullable flag into
// the type set: a single type becomes [type, "null"], an existing union
// gains "null" if absent, and a nullable schema with no type at all is
// typed as null alone.
func normalizeTypes(s *openapi3.Schema) []string {
	var types []string
	if s.Type != nil {
		types = append(types, s.Type.Slice()...)
	}
	for i, t := range types {
		if t == "integer" {
			types[i] = "number"
		}
	}
	if s.Nullable && !slices.Contains(types, "null") {
		types = append(types, "null")
	}
	return types
}

func copyValidationKeywords(s *openapi3.Schema, out map[string]any) {
	if s.Min != nil {
		out["minimum"] = *s.Min
	}
	if s.Max != nil {
		out["maximum"] = *s.Max
	}
	if s.ExclusiveMin {
		out["exclusiveMinimum"] = true
	}
	if s.ExclusiveMax {
		out["exclusiveMaximum"] = true
	}
	if s.MultipleOf != nil {
		out["multipleOf"] = *s.MultipleOf
	}
	if s.MinLength != 0 {
		out["minLength"] = s.MinLength
	}
	if s.MaxLength != nil {
		out["maxLength"] = *s.MaxLength
	}
	if s.Pattern != "" {
		out["pattern"] = s.Pattern
	}
	if s.MinItems != 0 {
		out["minItems"] = s.MinItems
	}
	if s.MaxItems != nil {
		out["maxItems"] = *s.MaxItems
	}
	if s.UniqueItems {
		out["uniqueItems"] = true
	}
	if s.MinProps != 0 {
		out["minProperties"] = s.MinProps
	}
	if s.MaxProps != nil {
		out["maxProperties"] = *s.MaxProps
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
}

// copyCompositionKeywords carries combinators and the remaining structural
// keywords over verbatim: they are not normalized, only serialized in
// place. Subtrees that still hold a reference pointer serialize as that
// pointer, which also keeps the serialization cycle-safe.
func copyCompositionKeywords(s *openapi3.Schema, out map[string]any) {
	if len(s.OneOf) > 0 {
		if raw, ok := rawNode(s.OneOf); ok {
			out["oneOf"] = raw
		}
	}
	if len(s.AnyOf) > 0 {
		if raw, ok := rawNode(s.AnyOf); ok {
			out["anyOf"] = raw
		}
	}
	if len(s.AllOf) > 0 {
		if raw, ok := rawNode(s.AllOf); ok {
			out["allOf"] = raw
		}
	}
	if s.Not != nil {
		if raw, ok := rawNode(s.Not); ok {
			out["not"] = raw
		}
	}
	if s.AdditionalProperties.Has != nil {
		out["additionalProperties"] = *s.AdditionalProperties.Has
	} else if s.AdditionalProperties.Schema != nil {
		if raw, ok := rawNode(s.AdditionalProperties.Schema); ok {
			out["additionalProperties"] = raw
		}
	}
	if s.Discriminator != nil {
		if raw, ok := rawNode(s.Discriminator); ok {
			out["discriminator"] = raw
		}
	}
}

// rawNode round-trips a subtree through JSON to detach it from the typed
// document model without reinterpreting any keyword. Termination relies on
// loader-resolved cycles always retaining their Ref string: kin-openapi
// serializes such nodes as $ref pointers instead of descending into them.
// A hand-built cycle with no Ref strings would not get that cutoff, so
// callers passing synthetic documents must not construct one.
func rawNode(v any) (any, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var node any
	if err := json.Unmarshal(b, &node); err != nil {
		return nil, false
	}
	return node, true
}
