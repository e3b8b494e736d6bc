package app

import (
	"errors"
	"fmt"
)

// Backend names.
const (
	BackendLLVM = "llvm"
	BackendPlan = "plan"
)

// Report format names.
const (
	ReportYAML    = "yaml"
	ReportMsgpack = "msgpack"
)

// Config holds all the necessary configuration for an App instance to run.
// Empty fields fall back to the config file, then to defaults.
type Config struct {
	ManifestPath string // graph manifest, .hcl file or directory
	ConfigPath   string // compiler settings and node kinds

	Backend      string
	OutPath      string // empty writes to the App's output writer
	ReportPath   string // empty disables the report
	ReportFormat string

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ManifestPath == "" {
		return nil, errors.New("ManifestPath is a required configuration field and cannot be empty")
	}
	if err := oneOf("backend", cfg.Backend, BackendLLVM, BackendPlan); err != nil {
		return nil, err
	}
	if err := oneOf("report format", cfg.ReportFormat, ReportYAML, ReportMsgpack); err != nil {
		return nil, err
	}
	if err := oneOf("log format", cfg.LogFormat, "text", "json"); err != nil {
		return nil, err
	}
	if err := oneOf("log level", cfg.LogLevel, "debug", "info", "warn", "error"); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// oneOf accepts an empty value or one of allowed.
func oneOf(field, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q, want one of %v", field, value, allowed)
}
