// Package pkgtools implements the offline package workflows spec §4.12
// names: sign, publish, fetch, vendor. Each gets its own file, following
// the layout of original_source/lang2/drift/{sign,publish,fetch,vendor}.py
// this was distilled from — an options dataclass plus one top-level
// function per workflow. Ed25519 keys here are raw 32-byte seeds and
// 32-byte public keys, signed with stdlib crypto/ed25519 directly rather
// than through a PKCS#8-framing library default, per spec §9's Design
// Notes warning and because no example repo in the corpus imports a
// third-party Ed25519 library.
package pkgtools

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"drift/internal/pkgfmt"
)

// SignOptions mirrors the original's SignOptions dataclass: a package file
// to sign, the seed file naming its key, and where to write the `.sig`
// sidecar.
type SignOptions struct {
	PackagePath  string
	KeySeedPath  string
	OutPath      string
	IncludePubkey bool
}

// LoadSeed32 reads a base64-encoded 32-byte Ed25519 seed from a file,
// matching the original's _load_seed32: whitespace around the base64 text
// is tolerated, but the decoded length is not.
func LoadSeed32(path string) ([]byte, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(text)))
	if err != nil {
		return nil, fmt.Errorf("pkgtools: invalid base64 in key seed file: %w", err)
	}
	if len(raw) != ed25519.SeedSize {
		return nil, fmt.Errorf("pkgtools: ed25519 private key seed must decode to %d bytes, got %d", ed25519.SeedSize, len(raw))
	}
	return raw, nil
}

// GenerateSeed produces a fresh random 32-byte Ed25519 seed, for `drift
// keygen`.
func GenerateSeed() ([]byte, error) {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, err
	}
	return priv.Seed(), nil
}

// SignPackage signs a package file's raw bytes with the seed named in
// opts, writing a pkgfmt.Signature sidecar to opts.OutPath.
func SignPackage(opts SignOptions) error {
	pkgBytes, err := os.ReadFile(opts.PackagePath)
	if err != nil {
		return err
	}
	seed, err := LoadSeed32(opts.KeySeedPath)
	if err != nil {
		return err
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	sig := ed25519.Sign(priv, pkgBytes)

	out := &pkgfmt.Signature{}
	copy(out.PublicKey[:], pub)
	copy(out.Sig[:], sig)
	raw, err := out.MarshalBinary()
	if err != nil {
		return err
	}
	return os.WriteFile(opts.OutPath, raw, 0o644)
}

// VerifyPackage checks a signature sidecar against a package's bytes and a
// trust store, returning the signer's key id (the hex SHA-256 of the
// public key, matching compute_ed25519_kid's digest-based identifier
// scheme) on success.
func VerifyPackage(pkgBytes []byte, sidecar *pkgfmt.Signature, trust *pkgfmt.TrustStore) (string, error) {
	if !ed25519.Verify(sidecar.PublicKey[:], pkgBytes, sidecar.Sig[:]) {
		return "", fmt.Errorf("pkgtools: signature verification failed")
	}
	kid := KeyID(sidecar.PublicKey[:])
	key, ok := trust.Keys[kid]
	if !ok {
		return "", fmt.Errorf("pkgtools: signer %s is not in the trust store", kid)
	}
	if key.Revoked {
		return "", fmt.Errorf("pkgtools: signer %s's key has been revoked", kid)
	}
	return kid, nil
}

// KeyID derives a stable identifier for an Ed25519 public key: the hex
// encoding of its SHA-256 digest, so a key can be named in a trust store or
// index without embedding the raw key bytes in every reference to it.
func KeyID(pub []byte) string {
	sum := sha256.Sum256(pub)
	return fmt.Sprintf("%x", sum)
}
