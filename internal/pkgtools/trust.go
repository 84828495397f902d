package pkgtools

import (
	"encoding/base64"
	"fmt"
	"time"

	"drift/internal/pkgfmt"
)

// TrustList loads the trust store at path and returns it as stored; its
// keys are held in a map, so their order is not defined.
func TrustList(path string) (*pkgfmt.TrustStore, error) {
	return loadTrustStore(path)
}

// TrustAddKey adds a publisher's base64-encoded Ed25519 public key to the
// trust store under the given owner label.
func TrustAddKey(path, owner, pubKeyB64 string) error {
	raw, err := base64.StdEncoding.DecodeString(pubKeyB64)
	if err != nil {
		return fmt.Errorf("pkgtools: invalid base64 public key: %w", err)
	}
	if len(raw) != 32 {
		return fmt.Errorf("pkgtools: ed25519 public key must be 32 bytes, got %d", len(raw))
	}
	ts, err := loadTrustStore(path)
	if err != nil {
		return err
	}
	var key pkgfmt.TrustedKey
	key.Owner = owner
	key.AddedUnix = time.Now().Unix()
	copy(key.PublicKey[:], raw)
	ts.Keys[KeyID(raw)] = key
	return saveTrustStore(path, ts)
}

// TrustRevoke marks a trust store entry as revoked by its key id, leaving
// the entry in place (so old signatures still resolve to a known,
// now-untrusted signer) rather than deleting it.
func TrustRevoke(path, kid string) error {
	ts, err := loadTrustStore(path)
	if err != nil {
		return err
	}
	key, ok := ts.Keys[kid]
	if !ok {
		return fmt.Errorf("pkgtools: unknown key id %s", kid)
	}
	key.Revoked = true
	ts.Keys[kid] = key
	return saveTrustStore(path, ts)
}
