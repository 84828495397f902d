package pkgfmt

import "fmt"

// Signature is the wire shape of a package's `.sig` sidecar file: an
// Ed25519 public key alongside the signature it produced over a
// container's whole file bytes. Signing and verification (which need a
// private key or a trust store) live in internal/pkgtools/sign.go — this
// type only owns the sidecar's on-disk layout.
type Signature struct {
	PublicKey [32]byte
	Sig       [64]byte
}

const sidecarSize = 32 + 64

// MarshalBinary writes the sidecar as a flat 96-byte file: the public key
// followed by the signature, with no header of its own — a sidecar is
// always read alongside the container it names in its filename, so it
// doesn't need to self-describe a version the way the container itself
// does.
func (s *Signature) MarshalBinary() ([]byte, error) {
	buf := make([]byte, sidecarSize)
	copy(buf[:32], s.PublicKey[:])
	copy(buf[32:], s.Sig[:])
	return buf, nil
}

func (s *Signature) UnmarshalBinary(data []byte) error {
	if len(data) != sidecarSize {
		return fmt.Errorf("pkgfmt: signature sidecar must be %d bytes, got %d", sidecarSize, len(data))
	}
	copy(s.PublicKey[:], data[:32])
	copy(s.Sig[:], data[32:])
	return nil
}
