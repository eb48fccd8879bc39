// Command shiftz evaluates transformer pipelines over YAML or JSON documents
// from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "shiftz",
		Short: "Evaluate composable transformer pipelines",
		Long: `shiftz runs pipelines of expressions over a YAML or JSON document.

Each stage is an expr-lang expression that sees the current value as
"value" and the invocation flags as "flags". Stages are chained in order;
alternatives and a default value make a pipeline tolerant of missing data.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Disable default completion command
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(newEvalCmd())
	root.AddCommand(newMatchCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
