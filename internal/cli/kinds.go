package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/specialistvlad/emlc/internal/app"
	"github.com/specialistvlad/emlc/internal/ctxlog"
	"github.com/specialistvlad/emlc/internal/hcl"
	"github.com/specialistvlad/emlc/internal/registry"
	"github.com/spf13/cobra"
)

func newKindsCommand(outW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the node kinds the compiler recognizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")

			reg, err := loadRegistry(configPath)
			if err != nil {
				return failure("%v", err)
			}
			table, err := renderKinds(reg.Kinds())
			if err != nil {
				return failure("failed to render kinds: %v", err)
			}
			fmt.Fprint(outW, table)
			return nil
		},
	}
	cmd.Flags().String("config", "", "Compiler config file (.hcl)")
	return cmd
}

// loadRegistry returns the registry described by the config file, or the
// built-in one when configPath is empty.
func loadRegistry(configPath string) (*registry.Registry, error) {
	if configPath == "" {
		return registry.NewDefault(), nil
	}
	ctx := ctxlog.WithLogger(context.Background(), discardLogger())
	model, _, err := hcl.NewLoader().Load(ctx, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return app.NewRegistry(model.NodeKinds)
}
