package source

// FileID indexes a file within its FileSet. IDs start at 1; 0 is the
// position-less file of NoSpan.
type FileID uint32

type FileFlags uint8

const (
	// FileVirtual marks content added from memory: stdin, tests, JSON input.
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File is one loaded module source. Content is normalized: no BOM, LF line
// endings. Hash is the SHA-256 of the normalized content.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}
