package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/emlc/internal/app"
	"github.com/specialistvlad/emlc/internal/hcl"
	"github.com/spf13/cobra"
)

func newCompileCommand(outW, errW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile MANIFEST",
		Short: "Compile a graph manifest",
		Long: `Compile the graph described by MANIFEST, a single .hcl file or a
directory of .hcl files. Flags take precedence over the config file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			backend, _ := cmd.Flags().GetString("backend")
			outPath, _ := cmd.Flags().GetString("out")
			reportPath, _ := cmd.Flags().GetString("report")
			reportFormat, _ := cmd.Flags().GetString("report-format")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")
			quiet, _ := cmd.Flags().GetBool("quiet")

			cfg, err := app.NewConfig(app.Config{
				ManifestPath: args[0],
				ConfigPath:   configPath,
				Backend:      backend,
				OutPath:      outPath,
				ReportPath:   reportPath,
				ReportFormat: reportFormat,
				LogLevel:     logLevel,
				LogFormat:    logFormat,
			})
			if err != nil {
				return usageError(err)
			}
			slog.Debug("CLI parameter validation complete.", "manifest", cfg.ManifestPath)

			return runCompile(cmd.Context(), cfg, outW, errW, quiet)
		},
	}
	cmd.Flags().String("config", "", "Compiler config file (.hcl)")
	cmd.Flags().String("backend", "", "Code generation backend (llvm or plan)")
	cmd.Flags().StringP("out", "o", "", "Output file (default stdout)")
	cmd.Flags().String("report", "", "Write a compile report to this file")
	cmd.Flags().String("report-format", "", "Report encoding (yaml or msgpack)")
	cmd.Flags().String("log-level", "", "Logging level (debug, info, warn, error)")
	cmd.Flags().String("log-format", "", "Log output format (text or json)")
	cmd.Flags().BoolP("quiet", "q", false, "Do not print the compile summary")
	return cmd
}

func runCompile(ctx context.Context, cfg *app.Config, outW, errW io.Writer, quiet bool) error {
	a, err := app.NewApp(outW, errW, cfg, hcl.NewLoader())
	if err != nil {
		return failure("%v", err)
	}
	report, err := a.Run(ctx)
	if err != nil {
		return failure("%v", err)
	}
	if !quiet {
		summary, err := renderSummary(report)
		if err != nil {
			return failure("failed to render summary: %v", err)
		}
		fmt.Fprint(errW, summary)
	}
	return nil
}
