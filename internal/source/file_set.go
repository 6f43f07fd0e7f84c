package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet owns every source file loaded for a compilation and resolves
// spans to (file, line, column) on demand.
type FileSet struct {
	files   []File
	index   map[string]FileID // normalized path -> latest FileID
	baseDir string
}

// NewFileSet returns an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase is NewFileSet with an explicit base directory for
// relative-path formatting.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{
		files:   make([]File, 0),
		index:   make(map[string]FileID),
		baseDir: baseDir,
	}
}

// SetBaseDir sets the base directory used for relative-path formatting.
func (fs *FileSet) SetBaseDir(dir string) {
	fs.baseDir = dir
}

// BaseDir returns the configured base directory, defaulting to the
// process's working directory.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fs.baseDir
}

// Add registers content under path and returns a fresh FileID. A path can
// be added more than once (e.g. after an edit); Add always allocates a new
// FileID and the index tracks the latest one.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalizedPath := normalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("source: file set overflow: %w", err))
	}
	id := FileID(lenFiles)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	fs.index[normalizedPath] = id
	return id
}

// Load reads path from disk, normalizes BOM/CRLF, and adds it.
func (fs *FileSet) Load(path string) (FileID, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- caller-controlled path
	if err != nil {
		return 0, err
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds in-memory content (stdin, REPL input, generated code).
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns the file for id.
func (fs *FileSet) Get(id FileID) *File {
	return &fs.files[id]
}

// GetLatest returns the most recently Add-ed FileID for path, if any.
func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fs.index[normalizePath(path)]
	return id, ok
}

// GetByPath is GetLatest plus the file itself.
func (fs *FileSet) GetByPath(path string) (*File, bool) {
	if id, ok := fs.index[normalizePath(path)]; ok {
		return &fs.files[id], true
	}
	return nil, false
}

// Resolve materializes a span into its start/end line/column positions.
// This is the only place byte offsets are translated to human-readable
// positions — diagnostics carry Spans until the moment they're rendered.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// GetLine returns the 1-based line lineNum from f, or "" if out of range.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}

	lenLineIdx, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("source: line index overflow: %w", err))
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("source: content length overflow: %w", err))
	}

	var start, end uint32
	switch {
	case lineNum == 1:
		start = 0
	case (lineNum - 2) < lenLineIdx:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}

	if (lineNum - 1) < lenLineIdx {
		end = f.LineIdx[lineNum-1]
	} else {
		end = lenContent
	}

	if start >= lenContent {
		return ""
	}
	if end > lenContent {
		end = lenContent
	}
	return string(f.Content[start:end])
}

// FormatPath renders f.Path according to mode ("absolute"|"relative"|
// "basename"|"auto").
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
		return f.Path
	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
		return f.Path
	case "basename":
		return BaseName(f.Path)
	case "auto":
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return BaseName(f.Path)
	default:
		return f.Path
	}
}
