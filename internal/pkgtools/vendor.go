package pkgtools

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"drift/internal/pkgfmt"
)

// VendorOptions mirrors the original's VendorOptions: copy selected (or,
// if PackageIDs is empty, all) packages out of the local cache into a
// project vendor directory, and record a lockfile pinning exactly what was
// vendored.
type VendorOptions struct {
	CacheDir   string
	DestDir    string
	LockPath   string
	PackageIDs []string
}

// VendorPackages copies cached packages into DestDir for CI/offline use and
// writes a lockfile naming the exact identities and hashes vendored, so a
// later fetch reproduces the same bytes rather than re-resolving.
func VendorPackages(opts VendorOptions) error {
	indexPath := filepath.Join(opts.CacheDir, "index.json")
	index, err := loadIndex(indexPath)
	if err != nil {
		return err
	}

	selected := map[string]bool{}
	for _, id := range opts.PackageIDs {
		selected[id] = true
	}

	if err := os.MkdirAll(opts.DestDir, 0o755); err != nil {
		return err
	}

	lock := &pkgfmt.Lockfile{Packages: map[string]pkgfmt.LockedPackage{}}
	packageIDs := make([]string, 0, len(index.Packages))
	for id := range index.Packages {
		packageIDs = append(packageIDs, id)
	}
	sort.Strings(packageIDs)

	for _, packageID := range packageIDs {
		if len(selected) > 0 && !selected[packageID] {
			continue
		}
		entries := index.Packages[packageID]
		if len(entries) == 0 {
			continue
		}
		entry := entries[0] // the first index entry only; further versions of this package_id are not vendored

		srcPkg := filepath.Join(opts.CacheDir, "pkgs", entry.Filename)
		if _, err := os.Stat(srcPkg); err != nil {
			return fmt.Errorf("pkgtools: missing cached package file: %s", srcPkg)
		}
		dstPkg := filepath.Join(opts.DestDir, entry.Filename)
		if err := copyFile(srcPkg, dstPkg); err != nil {
			return err
		}
		srcSig := srcPkg + ".sig"
		if _, err := os.Stat(srcSig); err == nil {
			if err := copyFile(srcSig, dstPkg+".sig"); err != nil {
				return err
			}
		}

		lock.Packages[packageID] = pkgfmt.LockedPackage{
			Version: entry.Version,
			Target:  entry.Target,
			SHA256:  entry.SHA256,
			Source:  "vendor",
		}
	}

	if len(selected) > 0 {
		var missing []string
		for id := range selected {
			if _, ok := index.Packages[id]; !ok {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			return fmt.Errorf("pkgtools: requested package ids not found in cache index: %v", missing)
		}
	}

	return saveLockfile(opts.LockPath, lock)
}
