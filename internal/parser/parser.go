package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/insightdelivered/statement-underwriter/internal/models"
)

// Format identifies how an uploaded statement is encoded.
type Format string

const (
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
)

// Parser defines the interface for statement parsers.
type Parser interface {
	// Parse reads a statement and returns it as a document tree.
	Parse(r io.Reader) (*models.Document, error)
	// Format returns the encoding the parser reads.
	Format() Format
}

// New returns the appropriate parser for the given format.
func New(format Format) (Parser, error) {
	switch format {
	case FormatJSON:
		return &JSONParser{}, nil
	case FormatPDF:
		return &PDFParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported statement format: %q", format)
	}
}

// ParseFormat resolves a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unknown statement format %q. Supported: json, pdf", name)
	}
}

// Detect identifies the statement format from the file name.
func Detect(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON, nil
	case ".pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported statement file %q: expected .json or .pdf", filename)
	}
}
