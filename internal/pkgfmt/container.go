package pkgfmt

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// tocEntrySize is the fixed width of one TOC row: a module-id hash
// (identifying the row without embedding a variable-length string in a
// fixed-layout section), its payload offset, and its payload length.
const tocEntrySize = 32 + 8 + 8

var ErrUnknownModule = errors.New("pkgfmt: unknown module in TOC")

// WriteContainer serializes a manifest and its modules' payload bytes into
// the DMIR-PKG layout: header, canonical-JSON manifest, a fixed-size TOC
// (one entry per module.Manifest.Modules row, in that order), then the
// concatenated payload blobs. payloads is keyed by ModuleID; every module
// the manifest names must have an entry, and PayloadOffset/PayloadLen in
// the written manifest are recomputed here rather than trusted from the
// caller, since only this function knows the final concatenation order.
func WriteContainer(w io.Writer, m *Manifest, payloads map[string][]byte) error {
	offset := uint64(0)
	for i := range m.Modules {
		rec := &m.Modules[i]
		data, ok := payloads[rec.ModuleID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownModule, rec.ModuleID)
		}
		rec.PayloadOffset = offset
		rec.PayloadLen = uint64(len(data))
		rec.SHA256 = sha256.Sum256(data)
		offset += uint64(len(data))
	}

	manifestBytes, err := m.CanonicalBytes()
	if err != nil {
		return err
	}
	manifestSHA := sha256.Sum256(manifestBytes)

	toc := make([]byte, 0, tocEntrySize*len(m.Modules))
	for _, rec := range m.Modules {
		idHash := sha256.Sum256([]byte(NormalizeIdentifier(rec.ModuleID)))
		row := make([]byte, tocEntrySize)
		copy(row[:32], idHash[:])
		binary.BigEndian.PutUint64(row[32:40], rec.PayloadOffset)
		binary.BigEndian.PutUint64(row[40:48], rec.PayloadLen)
		toc = append(toc, row...)
	}
	tocSHA := sha256.Sum256(toc)

	h := &Header{
		Version:      currentVersion,
		HeaderSize:   headerSize,
		ManifestLen:  uint64(len(manifestBytes)),
		ManifestSHA:  manifestSHA,
		TOCLen:       uint64(len(toc)),
		TOCEntrySize: tocEntrySize,
		TOCSHA:       tocSHA,
	}
	headerBytes, err := h.MarshalBinary()
	if err != nil {
		return err
	}

	for _, chunk := range [][]byte{headerBytes, manifestBytes, toc} {
		if _, err := w.Write(chunk); err != nil {
			return err
		}
	}
	for _, rec := range m.Modules {
		if _, err := w.Write(payloads[rec.ModuleID]); err != nil {
			return err
		}
	}
	return nil
}

// ReadContainer parses a DMIR-PKG stream back into its manifest and a
// ModuleID-keyed payload map, verifying every length and hash the header
// records before trusting the bytes that follow it.
func ReadContainer(r io.Reader) (*Manifest, map[string][]byte, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, nil, err
	}

	manifestBytes := make([]byte, h.ManifestLen)
	if _, err := io.ReadFull(r, manifestBytes); err != nil {
		return nil, nil, fmt.Errorf("%w: manifest", ErrTruncated)
	}
	if sha256.Sum256(manifestBytes) != h.ManifestSHA {
		return nil, nil, fmt.Errorf("pkgfmt: manifest digest mismatch")
	}

	toc := make([]byte, h.TOCLen)
	if _, err := io.ReadFull(r, toc); err != nil {
		return nil, nil, fmt.Errorf("%w: TOC", ErrTruncated)
	}
	if sha256.Sum256(toc) != h.TOCSHA {
		return nil, nil, fmt.Errorf("pkgfmt: TOC digest mismatch")
	}
	if h.TOCEntrySize != tocEntrySize {
		return nil, nil, fmt.Errorf("pkgfmt: unsupported TOC entry size %d", h.TOCEntrySize)
	}

	var m Manifest
	if err := unmarshalManifestJSON(manifestBytes, &m); err != nil {
		return nil, nil, err
	}

	payloadSection, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}

	payloads := make(map[string][]byte, len(m.Modules))
	for _, rec := range m.Modules {
		end := rec.PayloadOffset + rec.PayloadLen
		if end > uint64(len(payloadSection)) {
			return nil, nil, fmt.Errorf("%w: payload for %s", ErrTruncated, rec.ModuleID)
		}
		data := payloadSection[rec.PayloadOffset:end]
		if sha256.Sum256(data) != rec.SHA256 {
			return nil, nil, fmt.Errorf("pkgfmt: payload digest mismatch for module %s", rec.ModuleID)
		}
		payloads[rec.ModuleID] = bytes.Clone(data)
	}
	return &m, payloads, nil
}
