package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Config holds API key authentication settings.
type Config struct {
	// APIKey is the plaintext shared secret.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	// APIKeyHash is a bcrypt hash of the shared secret. Takes precedence
	// over APIKey when both are set.
	APIKeyHash string `yaml:"api_key_hash" mapstructure:"api_key_hash"`
	// SkipPaths are URL path prefixes that bypass authentication.
	SkipPaths []string `yaml:"skip_paths" mapstructure:"skip_paths"`
}

// ApplyDefaults sets the unauthenticated operational endpoints.
func (c *Config) ApplyDefaults() {
	if len(c.SkipPaths) == 0 {
		c.SkipPaths = []string{"/health", "/ready", "/alive", "/version"}
	}
}

// Validate checks that a key is configured and that a hash, if given, parses.
func (c *Config) Validate() error {
	if c.APIKey == "" && c.APIKeyHash == "" {
		return fmt.Errorf("auth: one of api_key or api_key_hash is required")
	}
	if c.APIKeyHash != "" {
		if _, err := bcrypt.Cost([]byte(c.APIKeyHash)); err != nil {
			return fmt.Errorf("auth.api_key_hash: %w", err)
		}
	}
	return nil
}

// Describe returns a one-liner for the startup summary.
func (c *Config) Describe() string {
	if c.APIKeyHash != "" {
		return "bearer api key (bcrypt)"
	}
	return "bearer api key"
}
