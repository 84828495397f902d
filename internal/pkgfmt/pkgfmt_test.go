package pkgfmt

import (
	"bytes"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := &Header{
		Version:      currentVersion,
		Flags:        3,
		HeaderSize:   headerSize,
		ManifestLen:  123,
		TOCLen:       48,
		TOCEntrySize: tocEntrySize,
	}
	h.ManifestSHA[0] = 0xAB
	h.TOCSHA[0] = 0xCD

	raw, err := h.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var got Header
	if err := got.UnmarshalBinary(raw); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got != *h {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, *h)
	}
}

func TestHeaderRejectsBadMagic(t *testing.T) {
	raw := make([]byte, headerSize)
	copy(raw, []byte("NOTAMAGIC"))
	var h Header
	if err := h.UnmarshalBinary(raw); err != ErrBadMagic {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestContainerRoundTrip(t *testing.T) {
	m := &Manifest{
		PackageID: "acme/widgets",
		Version:   "1.0.0",
		Target:    "x86_64-linux-gnu",
		Modules: []ModuleRecord{
			{ModuleID: "widgets/core", Iface: ModuleIface{Exports: map[string]ExportedSymbol{
				"make": {Name: "make", Signature: "fn(Int): Widget", Fallible: false},
			}}},
			{ModuleID: "widgets/io", Iface: ModuleIface{Exports: map[string]ExportedSymbol{
				"load": {Name: "load", Signature: "fn(String): FnResult<Widget,Error>", Fallible: true},
			}}},
		},
	}
	payloads := map[string][]byte{
		"widgets/core": []byte("core module bytes"),
		"widgets/io":   []byte("io module bytes, a bit longer"),
	}

	var buf bytes.Buffer
	if err := WriteContainer(&buf, m, payloads); err != nil {
		t.Fatalf("WriteContainer: %v", err)
	}

	gotManifest, gotPayloads, err := ReadContainer(&buf)
	if err != nil {
		t.Fatalf("ReadContainer: %v", err)
	}
	if gotManifest.PackageID != m.PackageID || len(gotManifest.Modules) != 2 {
		t.Fatalf("manifest mismatch: %+v", gotManifest)
	}
	for id, want := range payloads {
		got, ok := gotPayloads[id]
		if !ok {
			t.Fatalf("missing payload for %s", id)
		}
		if string(got) != string(want) {
			t.Fatalf("payload mismatch for %s: got %q, want %q", id, got, want)
		}
	}
}

func TestContainerRejectsTamperedPayload(t *testing.T) {
	m := &Manifest{PackageID: "acme/widgets", Version: "1.0.0", Target: "x86_64-linux-gnu", Modules: []ModuleRecord{
		{ModuleID: "widgets/core"},
	}}
	payloads := map[string][]byte{"widgets/core": []byte("original bytes")}

	var buf bytes.Buffer
	if err := WriteContainer(&buf, m, payloads); err != nil {
		t.Fatalf("WriteContainer: %v", err)
	}
	raw := buf.Bytes()
	// Flip a byte well past the header/manifest/TOC into the payload section.
	raw[len(raw)-1] ^= 0xFF

	if _, _, err := ReadContainer(bytes.NewReader(raw)); err == nil {
		t.Fatalf("expected a digest mismatch on tampered payload bytes")
	}
}

func TestNormalizeIdentifierUnifiesCompositionForms(t *testing.T) {
	// "é" as one codepoint (U+00E9) vs. "e" + combining acute (U+0065 U+0301).
	composed := "café"
	decomposed := "café"
	if NormalizeIdentifier(composed) != NormalizeIdentifier(decomposed) {
		t.Fatalf("expected NFC normalization to unify composition forms")
	}
}
