// Package config holds the TOML configuration for the openapi-mcp server.
package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds openapi-mcp configuration.
type Config struct {
	// Spec is the location of the OpenAPI document: a file path or an
	// http(s) URL. Overridable by the -spec flag.
	Spec string `toml:"spec,omitempty"`

	// BaseURL overrides the server URL declared in the document. Requests
	// are dispatched against this base when set.
	BaseURL string `toml:"base_url,omitempty"`

	// TimeoutSeconds bounds each executed HTTP call. Default: 30.
	TimeoutSeconds int `toml:"timeout_seconds,omitempty"`

	// ToolPrefix is prepended to every tool's base name before
	// sanitization, namespacing the tools of one document.
	ToolPrefix string `toml:"tool_prefix,omitempty"`

	// Tags restricts extraction to operations carrying at least one of
	// the listed tags. Empty means every operation is extracted.
	Tags []string `toml:"tags,omitempty"`

	// Credentials maps a security scheme name from the document to the
	// credential material used when a tool requires that scheme.
	Credentials map[string]Credential `toml:"credentials,omitempty"`
}

// Credential is the material for one named security scheme. Exactly one of
// Value, Env, or the Username/Password pair should be set: Value is used
// verbatim, Env names an environment variable holding the value, and the
// pair drives HTTP basic authentication.
type Credential struct {
	Value    string `toml:"value,omitempty"`
	Env      string `toml:"env,omitempty"`
	Username string `toml:"username,omitempty"`
	Password string `toml:"password,omitempty"`
}

// Resolve returns the credential value, reading the environment when the
// credential is env-backed.
func (c Credential) Resolve() string {
	if c.Env != "" {
		return os.Getenv(c.Env)
	}
	return c.Value
}

// Load reads and validates a TOML configuration file.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("base_url %q is not an absolute URL", c.BaseURL)
		}
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative, got %d", c.TimeoutSeconds)
	}
	for name, cred := range c.Credentials {
		if cred.Value == "" && cred.Env == "" && cred.Username == "" {
			return fmt.Errorf("credential %q must set value, env, or username/password", name)
		}
	}
	return nil
}
