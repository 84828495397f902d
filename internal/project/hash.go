package project

import "crypto/sha256"

// Digest is a fixed 256-bit hash, compatible with source.File.Hash.
type Digest [32]byte

// Combine builds a chained content hash: H(content || dep1 || dep2 ...).
// Callers must pass deps in a deterministic order (module import edges and
// package dependency lists are kept sorted for this reason).
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// FromBytes computes a content Digest directly.
func FromBytes(b []byte) Digest {
	return Digest(sha256.Sum256(b))
}
