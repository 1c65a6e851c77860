package extractor

import (
	"fmt"
	"io"
	"math"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ExtractText reads a financial statement PDF and returns the text of each
// page. The ledongthuc/pdf library is tried first; PDFs it cannot decode fall
// back to the external pdftotext command (poppler-utils) and finally to
// Tesseract OCR for scanned reports.
func ExtractText(filePath string) ([]string, error) {
	pages, libErr := extractWithLibrary(filePath)
	if libErr == nil && isReadableText(pages) {
		return pages, nil
	}

	popplerPages, popplerErr := extractWithPdftotext(filePath)
	if popplerErr == nil && isReadableText(popplerPages) {
		return popplerPages, nil
	}

	ocrPages, ocrErr := extractWithOCR(filePath)
	if ocrErr == nil && isReadableText(ocrPages) {
		return ocrPages, nil
	}

	if libErr != nil {
		return nil, fmt.Errorf("PDF text extraction failed: %w. The PDF may be scanned or use custom font encodings", libErr)
	}
	return nil, fmt.Errorf("no readable statement text could be extracted from PDF. The file may be image-based or scanned")
}

// statementWords appear in virtually every balance sheet or profit and loss
// statement. Text containing none of them is treated as undecodable.
var statementWords = []string{
	"revenue", "profit", "loss", "borrowings", "balance sheet", "assets",
	"liabilities", "equity", "expenses", "income", "finance costs",
	"depreciation", "total", "statement",
}

// textQuality returns the share of printable ASCII characters (letters,
// digits, punctuation, whitespace) plus the rupee sign among all characters.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if r < unicode.MaxASCII && (unicode.IsPrint(r) || unicode.IsSpace(r)) || r == '₹' {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

func containsStatementWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range statementWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// isReadableText requires more than 50 characters of text that is mostly
// printable and mentions at least one statement word.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsStatementWords(pages)
}

// extractWithPdftotext runs pdftotext in layout mode, one page at a time so
// page boundaries survive.
func extractWithPdftotext(filePath string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %w", err)
	}

	numPages := pageCount(filePath)
	if numPages == 0 {
		numPages = 1
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		pageStr := strconv.Itoa(i)
		out, err := exec.Command("pdftotext", "-layout", "-f", pageStr, "-l", pageStr, filePath, "-").Output()
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			pages = append(pages, text)
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdftotext produced no output")
	}
	return pages, nil
}

// extractWithLibrary uses the ledongthuc/pdf library, trying row-based
// extraction before coordinate-based reconstruction and plain text.
func extractWithLibrary(filePath string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, openErr := pdf.Open(filePath)
	if openErr != nil {
		return nil, openErr
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	pages = extractByRow(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	pages = extractByContent(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	if plain := extractByReaderPlainText(r); isReadableText([]string{plain}) {
		return []string{plain}, nil
	}
	return pages, nil
}

func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			parts := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByContent groups text pieces by Y coordinate into rows and orders
// each row by X. Wide gaps become column separators so amount columns stay
// apart.
func extractByContent(r *pdf.Reader, numPages int) []string {
	type textItem struct {
		x float64
		s string
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		rowMap := make(map[int][]textItem)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			yKey := int(math.Round(t.Y))
			rowMap[yKey] = append(rowMap[yKey], textItem{x: t.X, s: t.S})
		}

		// PDF Y grows upwards
		yKeys := make([]int, 0, len(rowMap))
		for y := range rowMap {
			yKeys = append(yKeys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

		var lines []string
		for _, y := range yKeys {
			items := rowMap[y]
			sort.Slice(items, func(a, b int) bool { return items[a].x < items[b].x })

			var b strings.Builder
			var prevX float64
			for j, item := range items {
				if j > 0 && item.x-prevX > 15 {
					b.WriteString("  ")
				}
				b.WriteString(item.s)
				prevX = item.x
			}
			if line := strings.TrimSpace(b.String()); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func extractByReaderPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
