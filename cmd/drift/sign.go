package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"drift/internal/cliutil"
	"drift/internal/pkgtools"
)

var signCmd = &cobra.Command{
	Use:   "sign <package.dmp>",
	Short: "Sign a .dmp package, writing a .sig sidecar",
	Args:  cobra.ExactArgs(1),
	RunE:  runSign,
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a fresh Ed25519 key seed",
	RunE:  runKeygen,
}

func init() {
	signCmd.Flags().String("key", "", "path to the base64-encoded Ed25519 seed file")
	signCmd.Flags().String("out", "", "output path for the .sig sidecar (default: <package>.sig)")
	signCmd.MarkFlagRequired("key")

	keygenCmd.Flags().String("out", "", "output path for the generated seed (default: stdout)")
}

func runSign(cmd *cobra.Command, args []string) error {
	defer cliutil.DumpTraceOnPanic()

	pkgPath := args[0]
	keyPath, err := cmd.Flags().GetString("key")
	if err != nil {
		return err
	}
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	if outPath == "" {
		outPath = pkgPath + ".sig"
	}

	if err := pkgtools.SignPackage(pkgtools.SignOptions{
		PackagePath: pkgPath,
		KeySeedPath: keyPath,
		OutPath:     outPath,
	}); err != nil {
		return fmt.Errorf("drift: sign: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
	return nil
}

func runKeygen(cmd *cobra.Command, args []string) error {
	defer cliutil.DumpTraceOnPanic()

	seed, err := pkgtools.GenerateSeed()
	if err != nil {
		return fmt.Errorf("drift: keygen: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(seed)

	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	if outPath == "" {
		fmt.Fprintln(cmd.OutOrStdout(), encoded)
		return nil
	}
	if err := os.WriteFile(outPath, []byte(encoded+"\n"), 0o600); err != nil {
		return fmt.Errorf("drift: keygen: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
	return nil
}
