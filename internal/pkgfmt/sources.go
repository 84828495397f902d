package pkgfmt

import "drift/internal/jcanon"

// SourceEntry is one package repository `drift fetch` may pull from.
// Priority breaks ties when the same package/version is available from
// more than one source, per spec §4.12's fetch ordering.
type SourceEntry struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Priority int    `json:"priority"`
}

// SourcesFile is the local sources descriptor (analogous to a package
// manager's registry list).
type SourcesFile struct {
	Sources []SourceEntry `json:"sources"`
}

func (s *SourcesFile) CanonicalBytes() ([]byte, error) {
	return jcanon.Marshal(s)
}
