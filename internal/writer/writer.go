package writer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/insightdelivered/statement-underwriter/internal/models"
)

// Format names an output rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Writer renders analysis reports.
type Writer interface {
	// Write renders a successful report.
	Write(out io.Writer, report *models.Report) error
	// WriteError renders a failed analysis.
	WriteError(out io.Writer, report models.ErrorReport) error
}

// Options configures the writers returned by New.
type Options struct {
	// IncludeHeader adds report metadata rows where the format supports it.
	IncludeHeader bool
}

// New returns the writer for the given format.
func New(format Format, opts Options) (Writer, error) {
	switch format {
	case FormatText:
		return &TextWriter{}, nil
	case FormatJSON:
		return &JSONWriter{Indent: "  "}, nil
	case FormatCSV:
		return &CSVWriter{IncludeHeader: opts.IncludeHeader}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %q", format)
	}
}

// ParseFormat resolves a user-supplied output format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q. Supported: text, json, csv", name)
	}
}

// WriteToFile renders report, or errReport when report is nil, to path.
func WriteToFile(w Writer, path string, report *models.Report, errReport models.ErrorReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	if report == nil {
		err = w.WriteError(f, errReport)
	} else {
		err = w.Write(f, report)
	}
	if err != nil {
		return err
	}
	return f.Close()
}
