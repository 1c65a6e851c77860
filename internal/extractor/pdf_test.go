package extractor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsReadableText(t *testing.T) {
	statement := "Statement of Profit and Loss for the year ended 31 March 2024\nRevenue from operations 60,000,000\nFinance costs 5,000,000"

	tests := []struct {
		name     string
		pages    []string
		expected bool
	}{
		{"statement text", []string{statement}, true},
		{"rupee amounts", []string{statement + "\nTotal ₹ 1,00,000"}, true},
		{"too short", []string{"Revenue 10"}, false},
		{"no statement words", []string{strings.Repeat("lorem ipsum dolor sit amet ", 5)}, false},
		{"binary garbage", []string{strings.Repeat("\x00\x01ÿþéè", 40) + "revenue"}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isReadableText(tt.pages); got != tt.expected {
				t.Errorf("isReadableText: got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTextQuality(t *testing.T) {
	if q := textQuality(nil); q != 0 {
		t.Errorf("expected 0 for no text, got %f", q)
	}
	if q := textQuality([]string{"Revenue 1,000"}); q != 1 {
		t.Errorf("expected 1 for plain ASCII, got %f", q)
	}
}

func TestExtractTextNonexistentFile(t *testing.T) {
	_, err := ExtractText(filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestExtractTextNotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.pdf")
	if err := os.WriteFile(path, []byte(`{"data": {"financials": []}}`), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := ExtractText(path); err == nil {
		t.Error("expected error for a file that is not a PDF")
	}
}
