package pkgtools

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"drift/internal/pkgfmt"
)

// PublishOptions mirrors the original's PublishOptions: a destination
// repository directory, the `.dmp` files to publish, and the two MVP
// escape hatches (Force to overwrite an existing version, AllowUnsigned to
// publish without a `.sig` sidecar).
type PublishOptions struct {
	DestDir        string
	PackagePaths   []string
	Force          bool
	AllowUnsigned  bool
}

// PublishPackages copies each package (and its sidecar, if present) into
// DestDir under a deterministic `<id>-<version>-<target>.dmp` filename and
// records it in the repository's index.json via upsertIndexEntry: an
// index entry already present for the same (version, target) is kept
// unless Force is set, and other versions of a package id are added
// beside the existing ones rather than rejected.
func PublishPackages(opts PublishOptions) error {
	if len(opts.PackagePaths) == 0 {
		return fmt.Errorf("pkgtools: no packages provided")
	}
	if err := os.MkdirAll(opts.DestDir, 0o755); err != nil {
		return err
	}
	indexPath := filepath.Join(opts.DestDir, "index.json")
	index, err := loadIndex(indexPath)
	if err != nil {
		return err
	}

	for _, pkgPath := range opts.PackagePaths {
		if _, err := os.Stat(pkgPath); err != nil {
			return fmt.Errorf("pkgtools: package not found: %s", pkgPath)
		}
		manifest, pkgBytes, err := readManifest(pkgPath)
		if err != nil {
			return err
		}
		sum := sha256Sum(pkgBytes)

		sidecarPath := pkgPath + ".sig"
		var signers []string
		unsigned := false
		if _, err := os.Stat(sidecarPath); err == nil {
			sidecar, err := loadSidecar(sidecarPath)
			if err != nil {
				return err
			}
			signers = []string{KeyID(sidecar.PublicKey[:])}
		} else {
			if !opts.AllowUnsigned {
				return fmt.Errorf("pkgtools: missing sidecar for package (pass AllowUnsigned): %s", pkgPath)
			}
			unsigned = true
		}

		baseName := fmt.Sprintf("%s-%s-%s.dmp", identSlug(manifest.PackageID), manifest.Version, manifest.Target)
		outPkg := filepath.Join(opts.DestDir, baseName)
		outSig := filepath.Join(opts.DestDir, baseName+".sig")

		if err := copyFile(pkgPath, outPkg); err != nil {
			return err
		}
		if _, err := os.Stat(sidecarPath); err == nil {
			if err := copyFile(sidecarPath, outSig); err != nil {
				return err
			}
		}

		entry := pkgfmt.IndexEntry{Version: manifest.Version, Target: manifest.Target, SHA256: sum, Filename: baseName}
		if len(signers) > 0 {
			entry.SignedBy = signers[0]
		}
		if unsigned {
			entry.SignedBy = ""
		}
		upsertIndexEntry(index, manifest.PackageID, entry, opts.Force)
	}

	return saveIndex(indexPath, index)
}

func readManifest(pkgPath string) (*pkgfmt.Manifest, []byte, error) {
	data, err := os.ReadFile(pkgPath)
	if err != nil {
		return nil, nil, err
	}
	m, _, err := pkgfmt.ReadContainer(newReader(data))
	if err != nil {
		return nil, nil, err
	}
	return m, data, nil
}

func loadSidecar(path string) (*pkgfmt.Signature, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sig := &pkgfmt.Signature{}
	if err := sig.UnmarshalBinary(raw); err != nil {
		return nil, err
	}
	return sig, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}

// identSlug normalizes and lowercases a package id for use inside a
// filesystem-safe filename component.
func identSlug(id string) string {
	norm := pkgfmt.NormalizeIdentifier(id)
	out := make([]rune, 0, len(norm))
	for _, r := range norm {
		if r == '/' {
			r = '_'
		}
		out = append(out, r)
	}
	return string(out)
}
