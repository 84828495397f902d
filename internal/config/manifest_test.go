package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "drift.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifestHappyPath(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := writeManifest(t, dir, `
[package]
name = "acme/geometry"
version = "1.2.0"
target = "x86_64-generic"
root = "src"

[dependencies]
"acme/units" = { version = "^1.0" }
`)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Package.Name != "acme/geometry" {
		t.Fatalf("Name = %q", m.Package.Name)
	}
	if m.Package.Version != "1.2.0" || m.Package.Target != "x86_64-generic" {
		t.Fatalf("unexpected package section: %+v", m.Package)
	}
	if got := m.Dependencies["acme/units"].Version; got != "^1.0" {
		t.Fatalf("dependency version = %q", got)
	}
}

func TestLoadManifestMissingSections(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{name: "no package table", body: "", want: ErrPackageSectionMissing},
		{name: "no name", body: "[package]\nroot = \"src\"\n", want: ErrPackageNameMissing},
		{name: "no root", body: "[package]\nname = \"acme/geometry\"\n", want: ErrPackageRootMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeManifest(t, dir, tt.body)
			_, err := LoadManifest(path)
			if !errors.Is(err, tt.want) {
				t.Fatalf("LoadManifest error = %v, want wrapping %v", err, tt.want)
			}
		})
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeManifest(t, root, "[package]\nname = \"x\"\nroot = \".\"\n")

	path, ok, err := FindManifest(nested)
	if err != nil || !ok {
		t.Fatalf("FindManifest: ok=%v err=%v", ok, err)
	}
	want := filepath.Join(root, "drift.toml")
	if path != want {
		t.Fatalf("FindManifest path = %q, want %q", path, want)
	}
}

func TestFindManifestNotFound(t *testing.T) {
	dir := t.TempDir()
	_, ok, err := FindManifest(dir)
	if err != nil {
		t.Fatalf("FindManifest: %v", err)
	}
	if ok {
		t.Fatalf("expected no manifest to be found")
	}
}

func TestResolveRootRejectsEscape(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if _, err := ResolveRoot(dir, "src"); err != nil {
		t.Fatalf("ResolveRoot(src): %v", err)
	}
	if _, err := ResolveRoot(dir, "../escape"); err == nil {
		t.Fatalf("expected ResolveRoot to reject a path escaping the root")
	}
	if _, err := ResolveRoot(dir, "/absolute"); err == nil {
		t.Fatalf("expected ResolveRoot to reject an absolute path")
	}
}
