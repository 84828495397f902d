// Package config loads the optional drift.toml project manifest consumed by
// driftc and drift. The manifest declares the package's own identity (for
// compile-package and for the package tooling's sign/publish workflows) and
// its dependency version constraints.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrPackageSectionMissing indicates that [package] is absent from the manifest.
var ErrPackageSectionMissing = errors.New("missing [package]")

// ErrPackageNameMissing indicates that [package].name is absent or empty.
var ErrPackageNameMissing = errors.New("missing [package].name")

// ErrPackageRootMissing indicates that [package].root is absent or empty.
var ErrPackageRootMissing = errors.New("missing [package].root")

// PackageSection mirrors the manifest's [package] table. Name becomes the
// DMIR-PKG package_id; Target is the triple passed to compile-package.
type PackageSection struct {
	Name    string
	Version string
	Target  string
	Root    string
}

// DependencySpec mirrors one entry of the manifest's [dependencies] table.
// Resolution against configured sources and lockfile pins is performed by
// internal/pkgtools, not by this package.
type DependencySpec struct {
	Version string `toml:"version"`
}

// Manifest is the decoded form of drift.toml.
type Manifest struct {
	Package      PackageSection
	Dependencies map[string]DependencySpec
}

type rawManifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
		Target  string `toml:"target"`
		Root    string `toml:"root"`
	} `toml:"package"`
	Dependencies map[string]DependencySpec `toml:"dependencies"`
}

// LoadManifest parses path as a drift.toml project manifest. Presence is
// checked explicitly via toml.MetaData.IsDefined rather than by inspecting
// zero values, so an absent required key is distinguishable from an empty
// string supplied by the user.
func LoadManifest(path string) (*Manifest, error) {
	var raw rawManifest
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	name := strings.TrimSpace(raw.Package.Name)
	if !meta.IsDefined("package", "name") || name == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	root := strings.TrimSpace(raw.Package.Root)
	if !meta.IsDefined("package", "root") || root == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageRootMissing)
	}

	deps := raw.Dependencies
	if deps == nil {
		deps = map[string]DependencySpec{}
	}

	return &Manifest{
		Package: PackageSection{
			Name:    name,
			Version: strings.TrimSpace(raw.Package.Version),
			Target:  strings.TrimSpace(raw.Package.Target),
			Root:    root,
		},
		Dependencies: deps,
	}, nil
}

// FindManifest walks up from startDir looking for drift.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "drift.toml")
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, true, nil
		} else if !errors.Is(statErr, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, statErr)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// ResolveRoot validates that a manifest's [package].root is a relative path
// that stays within repoRoot, and returns its absolute form.
func ResolveRoot(repoRoot, root string) (string, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return "", ErrPackageRootMissing
	}
	if filepath.IsAbs(root) {
		return "", fmt.Errorf("invalid [package].root %q: must be relative", root)
	}
	clean := filepath.Clean(filepath.FromSlash(root))
	if clean == "." {
		clean = ""
	}
	rootPath := filepath.Join(repoRoot, clean)
	rel, err := filepath.Rel(repoRoot, rootPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid [package].root %q: escapes repository root", root)
	}
	info, err := os.Stat(rootPath)
	if err != nil {
		return "", fmt.Errorf("invalid [package].root %q: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("invalid [package].root %q: not a directory", root)
	}
	return rootPath, nil
}
