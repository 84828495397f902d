package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"drift/internal/cliutil"
	"drift/internal/pkgtools"
)

var publishCmd = &cobra.Command{
	Use:   "publish <package.dmp> [more.dmp...]",
	Short: "Publish packages into a repository directory's index",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPublish,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Resolve and pull packages from configured sources into a local cache",
	Args:  cobra.NoArgs,
	RunE:  runFetch,
}

var vendorCmd = &cobra.Command{
	Use:   "vendor [package-id...]",
	Short: "Copy cached packages into a project vendor directory and lock them",
	Args:  cobra.ArbitraryArgs,
	RunE:  runVendor,
}

func init() {
	publishCmd.Flags().String("dest", "repo", "destination repository directory")
	publishCmd.Flags().Bool("force", false, "overwrite an existing published version")
	publishCmd.Flags().Bool("allow-unsigned", false, "publish packages without a .sig sidecar")

	fetchCmd.Flags().String("sources", "sources.json", "path to the sources descriptor")
	fetchCmd.Flags().String("cache-dir", ".drift-cache", "local package cache directory")
	fetchCmd.Flags().String("lock", "", "lockfile path (pins take precedence over source priority)")
	fetchCmd.Flags().Bool("force", false, "re-fetch even if the cache already has a matching entry")

	vendorCmd.Flags().String("cache-dir", ".drift-cache", "local package cache directory to vendor from")
	vendorCmd.Flags().String("dest", "vendor", "destination vendor directory")
	vendorCmd.Flags().String("lock", "drift.lock.json", "lockfile path to write")
}

func runPublish(cmd *cobra.Command, args []string) error {
	defer cliutil.DumpTraceOnPanic()

	dest, err := cmd.Flags().GetString("dest")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	allowUnsigned, err := cmd.Flags().GetBool("allow-unsigned")
	if err != nil {
		return err
	}

	if err := pkgtools.PublishPackages(pkgtools.PublishOptions{
		DestDir:       dest,
		PackagePaths:  args,
		Force:         force,
		AllowUnsigned: allowUnsigned,
	}); err != nil {
		return fmt.Errorf("drift: publish: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "published %d package(s) to %s\n", len(args), dest)
	return nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	defer cliutil.DumpTraceOnPanic()

	sources, err := cmd.Flags().GetString("sources")
	if err != nil {
		return err
	}
	cacheDir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return err
	}
	lock, err := cmd.Flags().GetString("lock")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if err := pkgtools.FetchPackages(pkgtools.FetchOptions{
		SourcesPath: sources,
		CacheDir:    cacheDir,
		LockPath:    lock,
		Force:       force,
	}); err != nil {
		return fmt.Errorf("drift: fetch: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "fetched into %s\n", cacheDir)
	return nil
}

func runVendor(cmd *cobra.Command, args []string) error {
	defer cliutil.DumpTraceOnPanic()

	cacheDir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return err
	}
	dest, err := cmd.Flags().GetString("dest")
	if err != nil {
		return err
	}
	lock, err := cmd.Flags().GetString("lock")
	if err != nil {
		return err
	}

	if err := pkgtools.VendorPackages(pkgtools.VendorOptions{
		CacheDir:   cacheDir,
		DestDir:    dest,
		LockPath:   lock,
		PackageIDs: args,
	}); err != nil {
		return fmt.Errorf("drift: vendor: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "vendored into %s\n", dest)
	return nil
}
