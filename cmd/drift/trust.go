package main

import (
	"encoding/base64"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"drift/internal/cliutil"
	"drift/internal/pkgtools"
)

var trustCmd = &cobra.Command{
	Use:   "trust",
	Short: "Manage the local publisher trust store",
}

var trustListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trusted keys",
	Args:  cobra.NoArgs,
	RunE:  runTrustList,
}

var trustAddKeyCmd = &cobra.Command{
	Use:   "add-key <owner> <base64-pubkey>",
	Short: "Add a publisher's public key to the trust store",
	Args:  cobra.ExactArgs(2),
	RunE:  runTrustAddKey,
}

var trustRevokeCmd = &cobra.Command{
	Use:   "revoke <key-id>",
	Short: "Revoke a trusted key by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrustRevoke,
}

func init() {
	trustCmd.PersistentFlags().String("trust-store", "trust.json", "path to the trust store document")
	trustCmd.AddCommand(trustListCmd)
	trustCmd.AddCommand(trustAddKeyCmd)
	trustCmd.AddCommand(trustRevokeCmd)
}

func trustStorePath(cmd *cobra.Command) (string, error) {
	return cmd.Flags().GetString("trust-store")
}

func runTrustList(cmd *cobra.Command, args []string) error {
	defer cliutil.DumpTraceOnPanic()

	path, err := trustStorePath(cmd)
	if err != nil {
		return err
	}
	store, err := pkgtools.TrustList(path)
	if err != nil {
		return fmt.Errorf("drift: trust list: %w", err)
	}

	kids := make([]string, 0, len(store.Keys))
	for kid := range store.Keys {
		kids = append(kids, kid)
	}
	sort.Strings(kids)

	for _, kid := range kids {
		key := store.Keys[kid]
		status := "trusted"
		if key.Revoked {
			status = "revoked"
		}
		added := time.Unix(key.AddedUnix, 0).UTC().Format(time.RFC3339)
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s owner=%s added=%s\n", kid, status, key.Owner, added)
	}
	return nil
}

func runTrustAddKey(cmd *cobra.Command, args []string) error {
	defer cliutil.DumpTraceOnPanic()

	path, err := trustStorePath(cmd)
	if err != nil {
		return err
	}
	owner, pubKeyB64 := args[0], args[1]
	if _, err := base64.StdEncoding.DecodeString(pubKeyB64); err != nil {
		return fmt.Errorf("drift: trust add-key: invalid base64 public key: %w", err)
	}
	if err := pkgtools.TrustAddKey(path, owner, pubKeyB64); err != nil {
		return fmt.Errorf("drift: trust add-key: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added key for %s\n", owner)
	return nil
}

func runTrustRevoke(cmd *cobra.Command, args []string) error {
	defer cliutil.DumpTraceOnPanic()

	path, err := trustStorePath(cmd)
	if err != nil {
		return err
	}
	if err := pkgtools.TrustRevoke(path, args[0]); err != nil {
		return fmt.Errorf("drift: trust revoke: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "revoked %s\n", args[0])
	return nil
}
