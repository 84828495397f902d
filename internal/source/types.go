// Package source tracks loaded source files, byte-offset spans within them,
// and an interner for the identifier/string pool shared by HIR, MIR and the
// diagnostic subsystems.
package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags records how a file's bytes were normalized on load.
	FileFlags uint8
)

const (
	// FileVirtual marks a file constructed in memory (tests, stdin) rather than loaded from disk.
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File holds the content and derived indices for one source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based human-readable position within a file.
type LineCol struct {
	Line uint32
	Col  uint32
}
