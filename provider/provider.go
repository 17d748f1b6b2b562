package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Provider is the base interface all providers must implement.
type Provider interface {
	// Name returns the provider's unique name.
	Name() string
	// IsAvailable checks if the provider is ready to handle requests.
	IsAvailable(ctx context.Context) bool
}

// Options is the loosely typed configuration handed to a Factory.
type Options map[string]any

// Factory creates a provider instance from configuration.
type Factory[T Provider] func(opts Options) (T, error)

// String returns the value for key as a string, or def when unset.
func (o Options) String(key, def string) string {
	switch v := o[key].(type) {
	case string:
		if v != "" {
			return v
		}
	case fmt.Stringer:
		return v.String()
	}
	return def
}

// Bool returns the value for key as a bool, or def when unset or unparsable.
func (o Options) Bool(key string, def bool) bool {
	switch v := o[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// Duration returns the value for key as a duration. Strings are parsed
// with time.ParseDuration and integers are taken as seconds.
func (o Options) Duration(key string, def time.Duration) time.Duration {
	switch v := o[key].(type) {
	case time.Duration:
		return v
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	case int:
		return time.Duration(v) * time.Second
	}
	return def
}
