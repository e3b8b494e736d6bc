package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given paths, translates it into the
	// format-agnostic model, and returns a matching Converter.
	Load(ctx context.Context, paths ...string) (*Model, Converter, error)
}

// Converter binds raw configuration values to Go types. It is the bridge
// between values as the configuration format produced them and the typed
// values the graph builder needs.
type Converter interface {
	// Decode converts val into the Go value target points to, applying the
	// format's implicit conversions (e.g. a tuple of numbers to a slice).
	Decode(ctx context.Context, val cty.Value, target any) error

	// ToCtyValue converts a native Go value into its cty.Value equivalent.
	ToCtyValue(v any) (cty.Value, error)
}
