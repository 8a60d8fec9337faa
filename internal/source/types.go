package source

type (
	// FileID uniquely identifies a script within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a script.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the script was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single script.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte
	Flags   FileFlags
}
