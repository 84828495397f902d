package pkgtools

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"drift/internal/pkgfmt"
)

func writeTestPackage(t *testing.T, path, id, version, target string) {
	t.Helper()
	m := &pkgfmt.Manifest{PackageID: id, Version: version, Target: target, Modules: []pkgfmt.ModuleRecord{
		{ModuleID: id + "/core"},
	}}
	payloads := map[string][]byte{id + "/core": []byte("payload for " + id)}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := pkgfmt.WriteContainer(f, m, payloads); err != nil {
		t.Fatalf("WriteContainer: %v", err)
	}
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	dir := t.TempDir()
	pkgPath := filepath.Join(dir, "widgets.dmp")
	writeTestPackage(t, pkgPath, "acme/widgets", "1.0.0", "x86_64-linux-gnu")

	seed, err := GenerateSeed()
	if err != nil {
		t.Fatalf("GenerateSeed: %v", err)
	}
	seedPath := filepath.Join(dir, "key.seed")
	if err := os.WriteFile(seedPath, []byte(base64.StdEncoding.EncodeToString(seed)), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	sigPath := filepath.Join(dir, "widgets.dmp.sig")
	if err := SignPackage(SignOptions{PackagePath: pkgPath, KeySeedPath: seedPath, OutPath: sigPath}); err != nil {
		t.Fatalf("SignPackage: %v", err)
	}

	sidecar, err := loadSidecar(sigPath)
	if err != nil {
		t.Fatalf("loadSidecar: %v", err)
	}
	pkgBytes, err := os.ReadFile(pkgPath)
	if err != nil {
		t.Fatalf("read package: %v", err)
	}

	trust := &pkgfmt.TrustStore{Keys: map[string]pkgfmt.TrustedKey{}}
	kid := KeyID(sidecar.PublicKey[:])
	trust.Keys[kid] = pkgfmt.TrustedKey{Owner: "acme", PublicKey: sidecar.PublicKey}

	gotKID, err := VerifyPackage(pkgBytes, sidecar, trust)
	if err != nil {
		t.Fatalf("VerifyPackage: %v", err)
	}
	if gotKID != kid {
		t.Fatalf("got kid %s, want %s", gotKID, kid)
	}
}

func TestVerifyRejectsRevokedKey(t *testing.T) {
	dir := t.TempDir()
	pkgPath := filepath.Join(dir, "widgets.dmp")
	writeTestPackage(t, pkgPath, "acme/widgets", "1.0.0", "x86_64-linux-gnu")

	seed, _ := GenerateSeed()
	seedPath := filepath.Join(dir, "key.seed")
	os.WriteFile(seedPath, []byte(base64.StdEncoding.EncodeToString(seed)), 0o600)
	sigPath := filepath.Join(dir, "widgets.dmp.sig")
	if err := SignPackage(SignOptions{PackagePath: pkgPath, KeySeedPath: seedPath, OutPath: sigPath}); err != nil {
		t.Fatalf("SignPackage: %v", err)
	}
	sidecar, _ := loadSidecar(sigPath)
	pkgBytes, _ := os.ReadFile(pkgPath)

	kid := KeyID(sidecar.PublicKey[:])
	trust := &pkgfmt.TrustStore{Keys: map[string]pkgfmt.TrustedKey{
		kid: {Owner: "acme", PublicKey: sidecar.PublicKey, Revoked: true},
	}}

	if _, err := VerifyPackage(pkgBytes, sidecar, trust); err == nil {
		t.Fatalf("expected verification to fail for a revoked key")
	}
}

func TestPublishFetchVendorPipeline(t *testing.T) {
	root := t.TempDir()
	pkgPath := filepath.Join(root, "widgets.dmp")
	writeTestPackage(t, pkgPath, "acme/widgets", "1.0.0", "x86_64-linux-gnu")

	repoDir := filepath.Join(root, "repo")
	if err := PublishPackages(PublishOptions{DestDir: repoDir, PackagePaths: []string{pkgPath}, AllowUnsigned: true}); err != nil {
		t.Fatalf("PublishPackages: %v", err)
	}

	sourcesPath := filepath.Join(root, "sources.json")
	sources := &pkgfmt.SourcesFile{Sources: []pkgfmt.SourceEntry{{Name: "local", URL: repoDir, Priority: 1}}}
	raw, err := sources.CanonicalBytes()
	if err != nil {
		t.Fatalf("CanonicalBytes: %v", err)
	}
	if err := os.WriteFile(sourcesPath, raw, 0o644); err != nil {
		t.Fatalf("write sources: %v", err)
	}

	cacheDir := filepath.Join(root, "cache")
	if err := FetchPackages(FetchOptions{SourcesPath: sourcesPath, CacheDir: cacheDir}); err != nil {
		t.Fatalf("FetchPackages: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cacheDir, "index.json")); err != nil {
		t.Fatalf("expected a cache index after fetch: %v", err)
	}

	vendorDir := filepath.Join(root, "vendor")
	lockPath := filepath.Join(root, "drift.lock.json")
	if err := VendorPackages(VendorOptions{CacheDir: cacheDir, DestDir: vendorDir, LockPath: lockPath}); err != nil {
		t.Fatalf("VendorPackages: %v", err)
	}
	lock, err := loadLockfile(lockPath)
	if err != nil {
		t.Fatalf("loadLockfile: %v", err)
	}
	if _, ok := lock.Packages["acme/widgets"]; !ok {
		t.Fatalf("expected lockfile to pin acme/widgets, got %+v", lock.Packages)
	}
}

func TestTrustAddListRevoke(t *testing.T) {
	dir := t.TempDir()
	trustPath := filepath.Join(dir, "trust.json")
	pub := make([]byte, 32)
	pub[0] = 7
	pubB64 := base64.StdEncoding.EncodeToString(pub)

	if err := TrustAddKey(trustPath, "acme", pubB64); err != nil {
		t.Fatalf("TrustAddKey: %v", err)
	}
	kid := KeyID(pub)

	ts, err := TrustList(trustPath)
	if err != nil {
		t.Fatalf("TrustList: %v", err)
	}
	if _, ok := ts.Keys[kid]; !ok {
		t.Fatalf("expected key %s to be listed", kid)
	}

	if err := TrustRevoke(trustPath, kid); err != nil {
		t.Fatalf("TrustRevoke: %v", err)
	}
	ts, err = TrustList(trustPath)
	if err != nil {
		t.Fatalf("TrustList after revoke: %v", err)
	}
	if !ts.Keys[kid].Revoked {
		t.Fatalf("expected key to be marked revoked")
	}
}
