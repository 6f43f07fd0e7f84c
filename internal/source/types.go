package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about how a source file was loaded.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, generated).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a human-readable position in a source file. Both fields are 1-based.
type LineCol struct {
	Line uint32
	Col  uint32
}
