// Command driftc drives drift's compilation pipeline: decoding an
// internal/astjson program document, lowering it through HIR, MIR and SSA,
// checking types/borrows and effects, and emitting LLVM IR text.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"drift/internal/cliutil"
	"drift/internal/version"
)

const tagline = "middle end without a front end"

var rootCmd = &cobra.Command{
	Use:   "driftc",
	Short: "Drift compiler middle end",
	Long:  "driftc lowers a drift program document through HIR, MIR, SSA and effect checking, emitting LLVM IR.",
}

func main() {
	rootCmd.Version = version.Version
	rootCmd.PersistentPreRunE = cliutil.ApplyTimeout("driftc")
	rootCmd.PersistentPostRun = cliutil.CleanupTimeout

	rootCmd.AddCommand(compileFileCmd)
	rootCmd.AddCommand(compilePackageCmd)
	rootCmd.AddCommand(cliutil.NewVersionCommand("driftc", tagline))

	cliutil.AddPersistentFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		if IsDiagnosticFailure(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
