package pkgtools

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"drift/internal/pkgfmt"
)

// FetchOptions mirrors the original's FetchOptions, plus an optional
// LockPath: when a lockfile pins a package_id to an exact version/target,
// that pin takes precedence over every other resolution rule below — the
// richer semantics spec §4.12 asks for beyond the original's "merge
// everything" MVP fetch.
type FetchOptions struct {
	SourcesPath string
	CacheDir    string
	LockPath    string
	Force       bool
}

// FetchPackages pulls packages from the local directory repositories named
// in SourcesPath into a project-local cache, applying spec §4.12's
// resolution order for a package_id available from more than one source at
// more than one version:
//  1. a lockfile pin for that package_id, if LockPath names one and it's
//     present,
//  2. otherwise the source with the highest Priority,
//  3. lexicographic source name tie-break when priorities are equal.
//
// MVP constraint inherited from the original: sources are local
// directories only, no network.
func FetchPackages(opts FetchOptions) error {
	sources, err := loadSources(opts.SourcesPath)
	if err != nil {
		return err
	}
	sorted := append([]pkgfmt.SourceEntry(nil), sources.Sources...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority > sorted[j].Priority
		}
		return sorted[i].Name < sorted[j].Name
	})

	var lock *pkgfmt.Lockfile
	if opts.LockPath != "" {
		lock, err = loadLockfile(opts.LockPath)
		if err != nil {
			return err
		}
	}

	pkgsDir := filepath.Join(opts.CacheDir, "pkgs")
	if err := os.MkdirAll(pkgsDir, 0o755); err != nil {
		return err
	}
	cacheIndexPath := filepath.Join(opts.CacheDir, "index.json")
	merged, err := loadIndex(cacheIndexPath)
	if err != nil {
		return err
	}

	resolved := map[string]struct {
		source pkgfmt.SourceEntry
		entry  pkgfmt.IndexEntry
	}{}

	for _, src := range sorted {
		indexPath := filepath.Join(src.URL, "index.json")
		srcIndex, err := loadIndex(indexPath)
		if err != nil {
			return err
		}
		for packageID, entries := range srcIndex.Packages {
			for _, entry := range entries {
				if entry.Version == "" || entry.Target == "" || entry.Filename == "" {
					return fmt.Errorf("pkgtools: invalid index entry for %s in %s", packageID, indexPath)
				}
				if lock != nil {
					if pinned, ok := lock.Packages[packageID]; ok {
						if pinned.Version != entry.Version || pinned.Target != entry.Target {
							continue // not the locked build; skip regardless of priority
						}
					}
				}
				if _, already := resolved[packageID]; already {
					continue // first (highest-priority, then lexicographically-first) source wins
				}
				resolved[packageID] = struct {
					source pkgfmt.SourceEntry
					entry  pkgfmt.IndexEntry
				}{src, entry}
			}
		}
	}

	packageIDs := make([]string, 0, len(resolved))
	for id := range resolved {
		packageIDs = append(packageIDs, id)
	}
	sort.Strings(packageIDs)

	for _, packageID := range packageIDs {
		r := resolved[packageID]
		srcPkg := filepath.Join(r.source.URL, r.entry.Filename)
		if _, err := os.Stat(srcPkg); err != nil {
			return fmt.Errorf("pkgtools: missing package file referenced by index: %s", srcPkg)
		}
		dstPkg := filepath.Join(pkgsDir, r.entry.Filename)
		if err := copyFile(srcPkg, dstPkg); err != nil {
			return err
		}
		srcSig := srcPkg + ".sig"
		if _, err := os.Stat(srcSig); err == nil {
			if err := copyFile(srcSig, dstPkg+".sig"); err != nil {
				return err
			}
		}

		data, err := os.ReadFile(dstPkg)
		if err != nil {
			return err
		}
		if sha256Sum(data) != r.entry.SHA256 {
			return fmt.Errorf("pkgtools: sha256 mismatch for fetched package %s", dstPkg)
		}

		upsertIndexEntry(merged, packageID, r.entry, opts.Force)
	}

	return saveIndex(cacheIndexPath, merged)
}
