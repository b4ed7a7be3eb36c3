package httpexec

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// validateArguments checks a tool-call argument map against the extracted
// input schema before anything is dispatched.
func validateArguments(schema map[string]any, args map[string]any) error {
	raw, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("failed to serialize input schema: %w", err)
	}

	var compiled jsonschema.Schema
	if err := json.Unmarshal(raw, &compiled); err != nil {
		return fmt.Errorf("failed to compile input schema: %w", err)
	}

	resolved, err := compiled.Resolve(nil)
	if err != nil {
		return fmt.Errorf("failed to resolve input schema: %w", err)
	}

	if args == nil {
		args = map[string]any{}
	}
	if err := resolved.Validate(args); err != nil {
		return fmt.Errorf("arguments do not match the tool input schema: %w", err)
	}
	return nil
}
