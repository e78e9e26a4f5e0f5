package source

type (
	// FileID uniquely identifies a template within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about how a template was loaded.
	FileFlags uint8
)

// NoFileID marks a span that has no backing template, e.g. an I/O failure
// raised before any content was loaded. Renderers must not resolve it.
const NoFileID FileID = ^FileID(0)

const (
	// FileVirtual indicates the template was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single template source.
// Content is immutable after Add; tokens reference it by byte offset.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a human-readable position in a template.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
