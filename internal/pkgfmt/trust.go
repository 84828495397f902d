package pkgfmt

import "drift/internal/jcanon"

// TrustedKey records one publisher key drift's local trust store has
// accepted.
type TrustedKey struct {
	Owner     string   `json:"owner"`
	PublicKey [32]byte `json:"public_key"`
	AddedUnix int64    `json:"added_unix"`
	Revoked   bool     `json:"revoked"`
}

// TrustStore is the document `drift trust list/add-key/revoke` reads and
// rewrites, keyed by a hex-encoded public key so a key's presence can be
// checked without scanning the whole map.
type TrustStore struct {
	Keys map[string]TrustedKey `json:"keys"`
}

// CanonicalBytes renders the store as canonical JSON, so successive
// `add-key`/`revoke` round trips produce a minimal, reviewable diff rather
// than a reshuffled file every time Go's map iteration order changes.
func (t *TrustStore) CanonicalBytes() ([]byte, error) {
	return jcanon.Marshal(t)
}
