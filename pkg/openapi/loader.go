// Package openapi loads and validates the source OpenAPI document that
// tool extraction runs against.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/blang/semver/v4"
	"github.com/getkin/kin-openapi/openapi3"
)

// Load reads an OpenAPI document from a local file path or an http(s) URL,
// resolving references so schema nodes arrive inlined.
func Load(ctx context.Context, location string) (*openapi3.T, error) {
	loader := newLoader(ctx)

	var doc *openapi3.T
	var err error
	if u, parseErr := url.Parse(location); parseErr == nil && (u.Scheme == "http" || u.Scheme == "https") {
		doc, err = loader.LoadFromURI(u)
	} else {
		doc, err = loader.LoadFromFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document from %s: %w", location, err)
	}

	if err := CheckVersion(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadFromData parses an OpenAPI document from raw JSON or YAML bytes.
func LoadFromData(ctx context.Context, data []byte) (*openapi3.T, error) {
	doc, err := newLoader(ctx).LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}
	if err := CheckVersion(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func newLoader(ctx context.Context) *openapi3.Loader {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = true
	return loader
}

// CheckVersion verifies the document declares a 3.x dialect. Version
// strings like "3.0" are accepted tolerantly.
func CheckVersion(doc *openapi3.T) error {
	if doc.OpenAPI == "" {
		return errors.New("document does not declare an openapi version")
	}
	version, err := semver.ParseTolerant(doc.OpenAPI)
	if err != nil {
		return fmt.Errorf("invalid openapi version %q: %w", doc.OpenAPI, err)
	}
	if version.Major != 3 {
		return fmt.Errorf("unsupported OpenAPI version %s, only 3.x documents are supported", doc.OpenAPI)
	}
	return nil
}
