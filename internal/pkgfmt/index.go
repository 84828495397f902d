package pkgfmt

import "drift/internal/jcanon"

// IndexEntry is one published build of a package within a repository
// index: which target it was built for, its content digest, and who
// signed it.
type IndexEntry struct {
	Version  string   `json:"version"`
	Target   string   `json:"target"`
	SHA256   [32]byte `json:"sha256"`
	SignedBy string   `json:"signed_by"`
	Filename string   `json:"filename"`
}

// RepoIndex is the document `drift publish` appends to and `drift fetch`
// consults, keyed by package id.
type RepoIndex struct {
	Packages map[string][]IndexEntry `json:"packages"`
}

func (i *RepoIndex) CanonicalBytes() ([]byte, error) {
	return jcanon.Marshal(i)
}
