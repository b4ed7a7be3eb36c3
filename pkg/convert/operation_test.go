package convert

import (
	"reflect"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

func TestBuildOperationInputQueryParameter(t *testing.T) {
	op := &openapi3.Operation{
		Parameters: openapi3.Parameters{
			{Value: &openapi3.Parameter{
				Name:     "id",
				In:       "query",
				Required: true,
				Schema:   &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}}},
			}},
		},
	}

	got := BuildOperationInput(op, testLogger())

	if got.BodyContentType != "" {
		t.Errorf("BodyContentType = %q, want empty", got.BodyContentType)
	}
	if got.Schema["type"] != "object" {
		t.Errorf("schema type = %v, want object", got.Schema["type"])
	}
	props := got.Schema["properties"].(map[string]any)
	id := props["id"].(map[string]any)
	if id["type"] != "number" {
		t.Errorf("id type = %v, want number", id["type"])
	}
	if !reflect.DeepEqual(got.Schema["required"], []string{"id"}) {
		t.Errorf("required = %v, want [id]", got.Schema["required"])
	}
}

func TestBuildOperationInputParameterDescriptionFillsGap(t *testing.T) {
	op := &openapi3.Operation{
		Parameters: openapi3.Parameters{
			{Value: &openapi3.Parameter{
				Name:        "verbose",
				In:          "query",
				Description: "Enable verbose output.",
				Schema:      &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"boolean"}}},
			}},
			{Value: &openapi3.Parameter{
				Name:        "format",
				In:          "query",
				Description: "Ignored: the schema already has one.",
				Schema: &openapi3.SchemaRef{Value: &openapi3.Schema{
					Type:        &openapi3.Types{"string"},
					Description: "Output format.",
				}},
			}},
		},
	}

	got := BuildOperationInput(op, testLogger())

	props := got.Schema["properties"].(map[string]any)
	if desc := props["verbose"].(map[string]any)["description"]; desc != "Enable verbose output." {
		t.Errorf("verbose description = %v", desc)
	}
	if desc := props["format"].(map[string]any)["description"]; desc != "Output format." {
		t.Errorf("format description = %v, schema description must win", desc)
	}
}

func TestBuildOperationInputSkipsUnusableParameters(t *testing.T) {
	op := &openapi3.Operation{
		Parameters: openapi3.Parameters{
			{Value: &openapi3.Parameter{Name: "", In: "query"}},
			{Value: &openapi3.Parameter{Name: "noschema", In: "header"}},
			{Value: &openapi3.Parameter{
				Name:   "ok",
				In:     "query",
				Schema: &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
			}},
		},
	}

	got := BuildOperationInput(op, testLogger())

	props := got.Schema["properties"].(map[string]any)
	if len(props) != 1 {
		t.Errorf("properties = %v, want only 'ok'", props)
	}
	// The schemaless parameter still qualifies for the raw list; the
	// nameless one does not.
	if len(got.Parameters) != 2 {
		t.Errorf("raw parameter count = %d, want 2", len(got.Parameters))
	}
}

func TestBuildOperationInputJSONBody(t *testing.T) {
	op := &openapi3.Operation{
		RequestBody: &openapi3.RequestBodyRef{Value: &openapi3.RequestBody{
			Required: true,
			Content: openapi3.Content{
				"application/json": &openapi3.MediaType{
					Schema: &openapi3.SchemaRef{Value: &openapi3.Schema{
						Type: &openapi3.Types{"object"},
						Properties: openapi3.Schemas{
							"name": {Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
						},
					}},
				},
			},
		}},
	}

	got := BuildOperationInput(op, testLogger())

	if got.BodyContentType != "application/json" {
		t.Errorf("BodyContentType = %q, want application/json", got.BodyContentType)
	}
	props := got.Schema["properties"].(map[string]any)
	body, ok := props["requestBody"].(map[string]any)
	if !ok {
		t.Fatalf("requestBody property missing: %v", props)
	}
	if body["description"] != "The JSON request body." {
		t.Errorf("body description = %v, want default", body["description"])
	}
	if !reflect.DeepEqual(got.Schema["required"], []string{"requestBody"}) {
		t.Errorf("required = %v, want [requestBody]", got.Schema["required"])
	}
}

func TestBuildOperationInputMultipartFlattens(t *testing.T) {
	op := &openapi3.Operation{
		RequestBody: &openapi3.RequestBodyRef{Value: &openapi3.RequestBody{
			Content: openapi3.Content{
				"multipart/form-data": &openapi3.MediaType{
					Schema: &openapi3.SchemaRef{Value: &openapi3.Schema{
						Type:     &openapi3.Types{"object"},
						Required: []string{"file"},
						Properties: openapi3.Schemas{
							"file":    {Value: &openapi3.Schema{Type: &openapi3.Types{"string"}, Format: "binary"}},
							"caption": {Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
						},
					}},
				},
			},
		}},
	}

	got := BuildOperationInput(op, testLogger())

	if got.BodyContentType != "multipart/form-data" {
		t.Errorf("BodyContentType = %q, want multipart/form-data", got.BodyContentType)
	}
	props := got.Schema["properties"].(map[string]any)
	if _, wrapped := props["requestBody"]; wrapped {
		t.Error("multipart fields must be flattened, not wrapped under requestBody")
	}

	file := props["file"].(map[string]any)
	if file["format"] != FormatFileOrURL {
		t.Errorf("file format = %v, want %s", file["format"], FormatFileOrURL)
	}
	if file["type"] != "string" {
		t.Errorf("file type = %v, want string", file["type"])
	}
	desc, _ := file["description"].(string)
	if !strings.Contains(desc, "file path or a URL") {
		t.Errorf("file description not augmented: %q", desc)
	}

	caption := props["caption"].(map[string]any)
	if caption["type"] != "string" || caption["format"] != nil {
		t.Errorf("caption changed unexpectedly: %v", caption)
	}

	if !reflect.DeepEqual(got.Schema["required"], []string{"file"}) {
		t.Errorf("required = %v, want [file]", got.Schema["required"])
	}
}

func TestBuildOperationInputMultipartPriority(t *testing.T) {
	fields := func(name string) *openapi3.SchemaRef {
		return &openapi3.SchemaRef{Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				name: {Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
			},
		}}
	}

	tests := []struct {
		name            string
		content         openapi3.Content
		wantContentType string
		wantField       string
	}{
		{
			name: "form-data wins over mixed",
			content: openapi3.Content{
				"multipart/mixed":     &openapi3.MediaType{Schema: fields("fromMixed")},
				"multipart/form-data": &openapi3.MediaType{Schema: fields("fromFormData")},
			},
			wantContentType: "multipart/form-data",
			wantField:       "fromFormData",
		},
		{
			name: "mixed alone is used",
			content: openapi3.Content{
				"multipart/mixed": &openapi3.MediaType{Schema: fields("fromMixed")},
			},
			wantContentType: "multipart/mixed",
			wantField:       "fromMixed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := &openapi3.Operation{
				RequestBody: &openapi3.RequestBodyRef{Value: &openapi3.RequestBody{Content: tt.content}},
			}

			got := BuildOperationInput(op, testLogger())

			if got.BodyContentType != tt.wantContentType {
				t.Errorf("BodyContentType = %q, want %q", got.BodyContentType, tt.wantContentType)
			}
			props := got.Schema["properties"].(map[string]any)
			if _, ok := props[tt.wantField]; !ok {
				t.Errorf("properties = %v, want flattened field %q", props, tt.wantField)
			}
			if len(props) != 1 {
				t.Errorf("properties = %v, want exactly one flattened field", props)
			}
		})
	}
}

func TestBuildOperationInputOpaqueBody(t *testing.T) {
	op := &openapi3.Operation{
		RequestBody: &openapi3.RequestBodyRef{Value: &openapi3.RequestBody{
			Required: true,
			Content: openapi3.Content{
				"text/plain": &openapi3.MediaType{},
			},
		}},
	}

	got := BuildOperationInput(op, testLogger())

	if got.BodyContentType != "text/plain" {
		t.Errorf("BodyContentType = %q, want text/plain", got.BodyContentType)
	}
	props := got.Schema["properties"].(map[string]any)
	body := props["requestBody"].(map[string]any)
	if body["type"] != "string" {
		t.Errorf("opaque body type = %v, want string", body["type"])
	}
	desc, _ := body["description"].(string)
	if !strings.Contains(desc, "text/plain") {
		t.Errorf("opaque body description must name the content type: %q", desc)
	}
}

func TestBuildOperationInputSchemalessJSONBody(t *testing.T) {
	op := &openapi3.Operation{
		RequestBody: &openapi3.RequestBodyRef{Value: &openapi3.RequestBody{
			Content: openapi3.Content{
				"application/json": &openapi3.MediaType{},
			},
		}},
	}

	got := BuildOperationInput(op, testLogger())

	if got.BodyContentType != "" {
		t.Errorf("BodyContentType = %q, want empty for schemaless structured content", got.BodyContentType)
	}
	if props := got.Schema["properties"].(map[string]any); len(props) != 0 {
		t.Errorf("properties = %v, want none", props)
	}
}

func TestBuildOperationInputNoContent(t *testing.T) {
	op := &openapi3.Operation{
		RequestBody: &openapi3.RequestBodyRef{Value: &openapi3.RequestBody{}},
	}

	got := BuildOperationInput(op, testLogger())

	if got.BodyContentType != "" {
		t.Errorf("BodyContentType = %q, want empty", got.BodyContentType)
	}
	if props := got.Schema["properties"].(map[string]any); len(props) != 0 {
		t.Errorf("properties = %v, want none", props)
	}
}
