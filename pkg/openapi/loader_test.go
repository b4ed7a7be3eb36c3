package openapi

import (
	"context"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

const petstoreJSON = `{
	"openapi": "3.0.3",
	"info": {"title": "Petstore", "version": "1.0.0"},
	"paths": {
		"/pets": {
			"get": {
				"operationId": "listPets",
				"responses": {"200": {"description": "ok"}}
			}
		}
	}
}`

func TestLoadFromData(t *testing.T) {
	doc, err := LoadFromData(context.Background(), []byte(petstoreJSON))
	if err != nil {
		t.Fatalf("LoadFromData() error = %v", err)
	}
	if doc.Paths == nil || doc.Paths.Find("/pets") == nil {
		t.Error("expected /pets path in loaded document")
	}
}

func TestLoadFromDataInvalid(t *testing.T) {
	if _, err := LoadFromData(context.Background(), []byte("{not json or yaml:")); err == nil {
		t.Error("expected error for malformed document")
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantErr string
	}{
		{"full 3.x version", "3.0.3", ""},
		{"3.1 dialect", "3.1.0", ""},
		{"tolerant short form", "3.0", ""},
		{"swagger 2", "2.0", "unsupported"},
		{"missing version", "", "does not declare"},
		{"garbage", "not-a-version", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckVersion(&openapi3.T{OpenAPI: tt.version})
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("CheckVersion(%q) error = %v, want nil", tt.version, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("CheckVersion(%q) error = %v, want containing %q", tt.version, err, tt.wantErr)
			}
		})
	}
}
