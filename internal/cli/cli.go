package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the emlc command tree. Compiled output is written to
// outW; logs, summaries and usage text go to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "emlc",
		Short: "Compile model graphs into a callable Predict function",
		Long: `emlc compiles the computation graph of a machine learning model into a
single entry point function:

  void Predict(T* input, T* output)

The graph is described by an HCL manifest. The output is LLVM IR or, with
the plan backend, the ordered emission plan as YAML.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(errW)
	root.SetErr(errW)

	root.AddCommand(newCompileCommand(outW, errW))
	root.AddCommand(newKindsCommand(outW))
	return root
}

// Execute runs the command tree with args. The returned error, if any, is an
// *ExitError.
func Execute(args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	if err := root.ExecuteContext(context.Background()); err != nil {
		return asExitError(err)
	}
	return nil
}
