package pkgfmt

import (
	"encoding/json"

	"drift/internal/jcanon"
)

// ExportedSymbol is one module export's visible shape — trimmed to what a
// package consumer needs (the name and a rendered signature string) since
// this compiler's sema.FuncSig isn't itself a serializable wire type.
// Shaped after sunholo-data-ailang/internal/iface.IfaceItem, which pairs a
// symbol name with its generalized type; Signature stands in for that
// package's *types.Scheme here.
type ExportedSymbol struct {
	Name      string `json:"name"`
	Signature string `json:"signature"`
	Fallible  bool   `json:"fallible"`
}

// ModuleIface mirrors sunholo-data-ailang/internal/iface.Iface's
// Exports-map-keyed-by-name shape, one per module carried in a package.
type ModuleIface struct {
	Exports map[string]ExportedSymbol `json:"exports"`
}

// ModuleRecord describes one compiled module inside a package container:
// its interface plus where its payload bytes live within the container's
// payload section.
type ModuleRecord struct {
	ModuleID      string      `json:"module_id"`
	Iface         ModuleIface `json:"iface"`
	PayloadOffset uint64      `json:"payload_offset"`
	PayloadLen    uint64      `json:"payload_len"`
	SHA256        [32]byte    `json:"sha256"`
}

// Manifest is the package-level metadata document spec §4.11 requires:
// identity, target, and the list of modules the container carries.
type Manifest struct {
	PackageID   string         `json:"package_id"`
	Version     string         `json:"version"`
	Target      string         `json:"target"`
	CreatedUnix int64          `json:"created_unix"`
	Modules     []ModuleRecord `json:"modules"`
}

// CanonicalBytes renders m as canonical JSON — this is the exact byte
// sequence ManifestSHA hashes, so any two
// equal manifests (regardless of how their Go values were constructed) must
// serialize identically.
func (m *Manifest) CanonicalBytes() ([]byte, error) {
	return jcanon.Marshal(m)
}

// unmarshalManifestJSON decodes a manifest's canonical bytes. Canonical
// JSON is still plain JSON, so encoding/json's ordinary decoder reads it
// back fine — canonicalization only constrains how bytes are produced, not
// how they're parsed.
func unmarshalManifestJSON(data []byte, m *Manifest) error {
	return json.Unmarshal(data, m)
}
