package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the file was added from memory (editor buffer, stdin, test).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска
	FileHadBOM
	FileNormalizedCRLF
	// FileRendered marks content produced from another format (markdown page sources).
	FileRendered
)

// File captures metadata and content for a single markup document.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a document.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
