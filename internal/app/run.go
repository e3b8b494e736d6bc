package app

import (
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/emlc/internal/builder"
	"github.com/specialistvlad/emlc/internal/compiler"
	"github.com/specialistvlad/emlc/internal/ctxlog"
	"github.com/specialistvlad/emlc/internal/graph"
)

// Run builds the graph from the manifest, compiles it with the configured
// backend and writes the result. The report is written too when a report
// path is configured.
func (a *App) Run(ctx context.Context) (*Report, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	a.logger.Debug("Building model graph from manifest...")
	g, err := builder.Build(ctx, a.model.Graph, a.converter, a.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to build model graph: %w", err)
	}
	a.logger.Debug("Model graph built.", "node_count", g.Len())

	be, err := newBackend(a.cfg.Backend)
	if err != nil {
		return nil, err
	}

	c := compiler.New(be, compiler.WithLogger(a.logger), compiler.WithRegistry(a.registry))
	a.logger.Info("Compiling model.", "backend", a.cfg.Backend, "nodes", g.Len())
	if err := c.CompileModel(g); err != nil {
		return nil, fmt.Errorf("compilation failed: %w", err)
	}

	if err := a.writeOutput(be); err != nil {
		return nil, err
	}

	report := &Report{
		Function:       compiler.FunctionName,
		Backend:        a.cfg.Backend,
		Nodes:          g.Len(),
		Inputs:         len(c.Inputs()),
		Outputs:        len(c.Outputs()),
		InputElements:  graph.CountOutputElements(c.Inputs()),
		OutputElements: graph.CountOutputElements(c.Outputs()),
		Globals:        uint64(c.Allocator().Globals()),
		TempSlots:      c.Allocator().Slots(),
	}
	if a.cfg.ReportPath != "" {
		if err := writeReport(a.cfg.ReportPath, a.cfg.ReportFormat, report); err != nil {
			return nil, err
		}
		a.logger.Debug("Report written.", "path", a.cfg.ReportPath, "format", a.cfg.ReportFormat)
	}

	a.logger.Info("Compilation finished.", "globals", report.Globals, "temp_slots", report.TempSlots)
	return report, nil
}

func (a *App) writeOutput(be backend) error {
	if a.cfg.OutPath == "" {
		_, err := be.WriteTo(a.outW)
		return err
	}
	f, err := os.Create(a.cfg.OutPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if _, err := be.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	a.logger.Debug("Output written.", "path", a.cfg.OutPath)
	return f.Close()
}
