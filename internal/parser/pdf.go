package parser

import (
	"fmt"
	"io"
	"os"

	"github.com/insightdelivered/statement-underwriter/internal/extractor"
	"github.com/insightdelivered/statement-underwriter/internal/models"
)

// PDFParser reads a financial statement PDF by extracting its text layer and
// matching the captions of the line items the rules need.
type PDFParser struct {
	// Extract overrides text extraction; defaults to extractor.ExtractText.
	Extract func(path string) ([]string, error)
}

func (p *PDFParser) Format() Format {
	return FormatPDF
}

func (p *PDFParser) Parse(r io.Reader) (*models.Document, error) {
	tmpFile, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())
	defer tmpFile.Close()

	if _, err := io.Copy(tmpFile, r); err != nil {
		return nil, fmt.Errorf("failed to save statement: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to save statement: %w", err)
	}

	extract := p.Extract
	if extract == nil {
		extract = extractor.ExtractText
	}
	pages, err := extract(tmpFile.Name())
	if err != nil {
		return nil, &models.UnparseableError{Reason: fmt.Sprintf("PDF extraction failed: %v", err)}
	}

	return ParseStatementText(pages)
}
