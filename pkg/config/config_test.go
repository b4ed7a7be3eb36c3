package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
spec = "petstore.yaml"
base_url = "https://api.example.com"
timeout_seconds = 10
tool_prefix = "petstore_"
tags = ["pets", "stores"]

[credentials.api_key]
value = "secret"

[credentials.oauth]
env = "OAUTH_TOKEN"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Spec != "petstore.yaml" || cfg.BaseURL != "https://api.example.com" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.TimeoutSeconds != 10 {
		t.Errorf("TimeoutSeconds = %d, want 10", cfg.TimeoutSeconds)
	}
	if cfg.ToolPrefix != "petstore_" {
		t.Errorf("ToolPrefix = %q, want petstore_", cfg.ToolPrefix)
	}
	if len(cfg.Tags) != 2 || cfg.Tags[0] != "pets" || cfg.Tags[1] != "stores" {
		t.Errorf("Tags = %v, want [pets stores]", cfg.Tags)
	}
	if cfg.Credentials["api_key"].Value != "secret" {
		t.Errorf("api_key credential = %+v", cfg.Credentials["api_key"])
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"empty config is valid", Config{}, ""},
		{"relative base_url rejected", Config{BaseURL: "/relative"}, "not an absolute URL"},
		{"negative timeout rejected", Config{TimeoutSeconds: -1}, "must not be negative"},
		{
			"empty credential rejected",
			Config{Credentials: map[string]Credential{"k": {}}},
			"must set value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestCredentialResolve(t *testing.T) {
	t.Setenv("OPENAPI_MCP_TEST_TOKEN", "from-env")

	if got := (Credential{Value: "literal"}).Resolve(); got != "literal" {
		t.Errorf("Resolve() = %q, want literal", got)
	}
	if got := (Credential{Env: "OPENAPI_MCP_TEST_TOKEN"}).Resolve(); got != "from-env" {
		t.Errorf("Resolve() = %q, want from-env", got)
	}
}
