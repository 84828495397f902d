// Command drift implements the offline package workflows spec §4.12 names:
// signing, key management, trust, publish, fetch and vendor, operating on
// the .dmp container internal/pkgfmt defines and internal/pkgtools
// implements.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"drift/internal/cliutil"
	"drift/internal/version"
)

const tagline = "carries packages, not the compiler"

var rootCmd = &cobra.Command{
	Use:   "drift",
	Short: "Drift package tooling",
	Long:  "drift signs, publishes, fetches and vendors .dmp packages, and manages the local trust store.",
}

func main() {
	rootCmd.Version = version.Version
	rootCmd.PersistentPreRunE = cliutil.ApplyTimeout("drift")
	rootCmd.PersistentPostRun = cliutil.CleanupTimeout

	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(trustCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(vendorCmd)
	rootCmd.AddCommand(cliutil.NewVersionCommand("drift", tagline))

	cliutil.AddPersistentFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
