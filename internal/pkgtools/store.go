package pkgtools

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"io"
	"os"

	"drift/internal/pkgfmt"
)

func newReader(b []byte) io.Reader { return bytes.NewReader(b) }

func sha256Sum(b []byte) [32]byte { return sha256.Sum256(b) }

// loadIndex reads a repository index document, returning an empty one if
// the file doesn't exist yet — matching the original's load_index, which
// treats a missing index.json as "no packages published yet" rather than
// an error.
func loadIndex(path string) (*pkgfmt.RepoIndex, error) {
	idx := &pkgfmt.RepoIndex{Packages: map[string][]pkgfmt.IndexEntry{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, idx); err != nil {
		return nil, err
	}
	if idx.Packages == nil {
		idx.Packages = map[string][]pkgfmt.IndexEntry{}
	}
	return idx, nil
}

func saveIndex(path string, idx *pkgfmt.RepoIndex) error {
	raw, err := idx.CanonicalBytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// upsertIndexEntry records entry under packageID. When an entry for the
// same (version, target) pair is already present, the existing entry is
// kept unless force is set, in which case entry replaces it; no error is
// returned in either case. An entry with any other version or target is
// appended, so one package_id can list several versions.
func upsertIndexEntry(idx *pkgfmt.RepoIndex, packageID string, entry pkgfmt.IndexEntry, force bool) {
	entries := idx.Packages[packageID]
	for i, e := range entries {
		if e.Version == entry.Version && e.Target == entry.Target {
			if force {
				entries[i] = entry
				idx.Packages[packageID] = entries
			}
			return
		}
	}
	idx.Packages[packageID] = append(entries, entry)
}

func loadSources(path string) (*pkgfmt.SourcesFile, error) {
	sf := &pkgfmt.SourcesFile{}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, sf); err != nil {
		return nil, err
	}
	return sf, nil
}

func loadLockfile(path string) (*pkgfmt.Lockfile, error) {
	lf := &pkgfmt.Lockfile{Packages: map[string]pkgfmt.LockedPackage{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lf, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, lf); err != nil {
		return nil, err
	}
	if lf.Packages == nil {
		lf.Packages = map[string]pkgfmt.LockedPackage{}
	}
	return lf, nil
}

func saveLockfile(path string, lf *pkgfmt.Lockfile) error {
	raw, err := lf.CanonicalBytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func loadTrustStore(path string) (*pkgfmt.TrustStore, error) {
	ts := &pkgfmt.TrustStore{Keys: map[string]pkgfmt.TrustedKey{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ts, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, ts); err != nil {
		return nil, err
	}
	if ts.Keys == nil {
		ts.Keys = map[string]pkgfmt.TrustedKey{}
	}
	return ts, nil
}

func saveTrustStore(path string, ts *pkgfmt.TrustStore) error {
	raw, err := ts.CanonicalBytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
