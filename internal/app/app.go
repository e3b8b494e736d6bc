package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/emlc/internal/config"
	"github.com/specialistvlad/emlc/internal/ctxlog"
	"github.com/specialistvlad/emlc/internal/registry"
)

// App encapsulates the driver's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	cfg       Config
	registry  *registry.Registry
	model     *config.Model
	converter config.Converter
}

// NewApp loads the config file and the manifest, resolves settings and
// populates the node type registry. Compiled output goes to outW unless
// cfg.OutPath is set; logs go to logW.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) (*App, error) {
	resolved := *cfg

	// Bootstrap with the flag values so loading itself is logged.
	logger := newLogger(resolved.LogLevel, resolved.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	var paths []string
	if resolved.ConfigPath != "" {
		paths = append(paths, resolved.ConfigPath)
	}
	paths = append(paths, resolved.ManifestPath)

	cfgModel, converter, err := loader.Load(ctx, paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Flags win over the file.
	if resolved.LogLevel == "" {
		resolved.LogLevel = cfgModel.Settings.LogLevel
	}
	if resolved.LogFormat == "" {
		resolved.LogFormat = cfgModel.Settings.LogFormat
	}
	if resolved.Backend == "" {
		resolved.Backend = cfgModel.Settings.Backend
	}
	if resolved.Backend == "" {
		resolved.Backend = BackendLLVM
	}
	if resolved.ReportFormat == "" {
		resolved.ReportFormat = ReportYAML
	}
	if _, err := NewConfig(resolved); err != nil {
		return nil, err
	}

	logger = newLogger(resolved.LogLevel, resolved.LogFormat, logW)
	logger.Debug("Logger configured successfully.", "level", resolved.LogLevel, "format", resolved.LogFormat)
	logger.Debug("Configuration loaded and translated into unified model.", "declarations", cfgModel.Graph.Len())

	reg, err := NewRegistry(cfgModel.NodeKinds)
	if err != nil {
		return nil, err
	}
	logger.Debug("Node type registry populated.", "kinds", len(reg.Kinds()))

	return &App{
		outW:      outW,
		logger:    logger,
		cfg:       resolved,
		registry:  reg,
		model:     cfgModel,
		converter: converter,
	}, nil
}

// NewRegistry builds the node type registry from a kind -> type spelling
// table. An empty table selects the built-in kinds.
func NewRegistry(kinds map[string]string) (*registry.Registry, error) {
	if len(kinds) == 0 {
		return registry.NewDefault(), nil
	}
	table := make(map[string]registry.NodeType, len(kinds))
	for kind, spelling := range kinds {
		t, err := registry.ParseNodeType(spelling)
		if err != nil {
			return nil, fmt.Errorf("node_kind %q: %w", kind, err)
		}
		table[kind] = t
	}
	reg := registry.New()
	if err := reg.Init(table); err != nil {
		return nil, err
	}
	return reg, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Config returns the settings after merging flags, file values and defaults.
func (a *App) Config() Config {
	return a.cfg
}
