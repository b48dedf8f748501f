package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/render"
)

// Parser converts raw file bytes into one or more paginated documents. Each
// returned document is added to the outline on its own.
type Parser interface {
	Parse(r io.Reader, filename string) ([]*render.Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
	".epub":     true,
}

// ForFile returns the appropriate parser for a filename. Formats that are not
// already paginated are laid out with engine.
func ForFile(filename string, engine *render.Engine) (Parser, error) {
	if engine == nil {
		engine = render.NewEngine()
	}
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{Engine: engine}, nil
	case ".md", ".markdown":
		return &MarkdownParser{Engine: engine}, nil
	case ".csv":
		return &CSVParser{Engine: engine}, nil
	case ".html", ".htm":
		return &HTMLParser{Engine: engine}, nil
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{Engine: engine}, nil
	case ".epub":
		return &EPUBParser{Engine: engine}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// spool copies r into a temp file for libraries that need random access.
// The caller must call cleanup.
func spool(r io.Reader, pattern string) (path string, size int64, cleanup func(), err error) {
	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", 0, nil, fmt.Errorf("create temp file: %w", err)
	}
	path = tmp.Name()
	cleanup = func() { os.Remove(path) }

	size, err = io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		cleanup()
		return "", 0, nil, fmt.Errorf("write temp file: %w", err)
	}
	return path, size, cleanup, nil
}
